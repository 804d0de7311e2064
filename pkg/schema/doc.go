// Package schema defines the closed set of intents the pipeline recognizes and
// the expected entity shape per intent.
//
// A Schema is a static, read-only table of Definitions. Each Definition names an
// intent, its required entity keys (ordered, so the first missing key is reported
// deterministically), and its optional keys with defaults. Adding an intent is a
// pure data change; dispatcher logic never needs to know about individual intents.
//
// Basic usage:
//
//	s := schema.New(schema.Builtin()...)
//	def, ok := s.DefinitionFor("set_brightness")
//	if !ok {
//	    // unknown intent
//	}
//	if key, missing := def.FirstMissing(entities); missing {
//	    // ask the user for key
//	}
//
// Entity values carry a small Type system (string, int, float, bool, any, slices,
// custom validators). IntType accepts whole float64 values because JSON decoding
// produces them. Definitions can also be parsed from plain maps, which is how
// intent packs declare custom intents:
//
//	def, err := schema.DefinitionFromMap("weather", raw)
package schema
