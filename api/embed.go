// Package api carries the OpenAPI description of the valet HTTP surface.
package api

import _ "embed"

// OpenAPI is the embedded OpenAPI 3 document served at /openapi.yaml.
//
//go:embed openapi.yaml
var OpenAPI []byte
