// Package httpapi exposes the assistant over HTTP: command dispatch, schema
// and session inspection, and the embedded OpenAPI document.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"

	"github.com/aretw0/valet"
	"github.com/aretw0/valet/api"
	"github.com/aretw0/valet/internal/logging"
	"github.com/aretw0/valet/pkg/domain"
	"github.com/aretw0/valet/pkg/schema"
	"github.com/aretw0/valet/pkg/session"
)

// Assistant defines the interface for the valet dispatch core.
type Assistant interface {
	Dispatch(ctx context.Context, sessionID, utterance string) domain.Result
	Schema() *schema.Schema
	Sessions() *session.Manager
}

// Server holds the handler state shared across requests.
type Server struct {
	Assistant Assistant

	logger         *slog.Logger
	metrics        http.Handler
	defaultSession string
	apiVersion     string
}

// Option configures the handler.
type Option func(*Server)

// WithLogger sets the request logger (default: discard).
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics mounts a metrics handler at GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// WithDefaultSession names the session used when a request omits session_id.
func WithDefaultSession(id string) Option {
	return func(s *Server) {
		if id != "" {
			s.defaultSession = id
		}
	}
}

// NewHandler creates the HTTP handler for the assistant.
func NewHandler(assistant Assistant, opts ...Option) http.Handler {
	server := &Server{
		Assistant:      assistant,
		logger:         logging.NewNop(),
		defaultSession: valet.DefaultSessionID,
		apiVersion:     "unknown",
	}
	for _, opt := range opts {
		opt(server)
	}

	if doc, err := openapi3.NewLoader().LoadFromData(api.OpenAPI); err == nil && doc.Info != nil {
		server.apiVersion = doc.Info.Version
	} else if err != nil {
		server.logger.Error("Failed to parse embedded OpenAPI spec", "error", err)
	}

	r := chi.NewRouter()
	r.Post("/command", server.PostCommand)
	r.Get("/healthz", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Get("/intents", server.GetIntents)
	r.Get("/sessions", server.ListSessions)
	r.Get("/sessions/{sessionID}", server.GetSession)
	r.Delete("/sessions/{sessionID}", server.DeleteSession)

	// Swagger UI
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(api.OpenAPI)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})

	if server.metrics != nil {
		r.Method(http.MethodGet, "/metrics", server.metrics)
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Valet API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

type commandRequest struct {
	Command   string `json:"command"`
	SessionID string `json:"session_id"`
}

type commandResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

type commandError struct {
	Error     string             `json:"error"`
	Kind      domain.FailureKind `json:"kind,omitempty"`
	SessionID string             `json:"session_id,omitempty"`
}

// PostCommand handles the POST /command request: one full dispatch turn.
func (s *Server) PostCommand(w http.ResponseWriter, r *http.Request) {
	var body commandRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.Command) == "" {
		s.writeJSON(w, http.StatusBadRequest, commandError{
			Error: "Invalid request. 'command' field is required.",
		})
		s.logger.Warn("PostCommand: Invalid request body", "error", err)
		return
	}

	sessionID := body.SessionID
	if sessionID == "" {
		sessionID = s.defaultSession
	}

	res := s.Assistant.Dispatch(r.Context(), sessionID, body.Command)
	if !res.OK {
		s.writeJSON(w, statusFor(res.Kind), commandError{
			Error:     res.Message,
			Kind:      res.Kind,
			SessionID: sessionID,
		})
		return
	}
	s.writeJSON(w, http.StatusOK, commandResponse{
		Response:  res.Response,
		SessionID: sessionID,
	})
}

// statusFor maps a failure classification to an HTTP status. Clarifications
// and unknown intents are the client's to fix (422); a missing provider is
// 501; bad model output is a bad gateway; an unreachable model is 503.
func statusFor(kind domain.FailureKind) int {
	switch kind {
	case domain.FailureNeedsClarification, domain.FailureUnknownIntent:
		return http.StatusUnprocessableEntity
	case domain.FailureNotImplemented:
		return http.StatusNotImplemented
	case domain.FailureParse:
		return http.StatusBadGateway
	case domain.FailureLLMUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// GetHealth handles the GET /healthz request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "valet-http",
		"version":     strings.TrimSpace(valet.Version),
		"api_version": s.apiVersion,
	})
}

type intentEntity struct {
	Key     string `json:"key"`
	Type    string `json:"type"`
	Default any    `json:"default,omitempty"`
	Prompt  string `json:"prompt,omitempty"`
}

type intentDef struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Required    []intentEntity `json:"required,omitempty"`
	Optional    []intentEntity `json:"optional,omitempty"`
}

// GetIntents handles the GET /intents request.
func (s *Server) GetIntents(w http.ResponseWriter, r *http.Request) {
	defs := s.Assistant.Schema().Definitions()
	intents := make([]intentDef, 0, len(defs))
	for _, def := range defs {
		intents = append(intents, intentDef{
			Name:        def.Name,
			Description: def.Description,
			Required:    mapEntities(def.Required),
			Optional:    mapEntities(def.Optional),
		})
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"intents": intents})
}

// ListSessions handles the GET /sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Assistant.Sessions().List(r.Context())
	if err != nil {
		http.Error(w, "Failed to list sessions", http.StatusInternalServerError)
		s.logger.Error("ListSessions failed", "error", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

// GetSession handles the GET /sessions/{sessionID} request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	state, err := s.Assistant.Sessions().Load(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			http.Error(w, "Session not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to load session", http.StatusInternalServerError)
		s.logger.Error("GetSession failed", "session", sessionID, "error", err)
		return
	}
	s.writeJSON(w, http.StatusOK, state)
}

// DeleteSession handles the DELETE /sessions/{sessionID} request. Deleting an
// absent session is not an error.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if err := s.Assistant.Sessions().Delete(r.Context(), sessionID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		http.Error(w, "Failed to delete session", http.StatusInternalServerError)
		s.logger.Error("DeleteSession failed", "session", sessionID, "error", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "error", err)
	}
}

func mapEntities(ents []schema.Entity) []intentEntity {
	if len(ents) == 0 {
		return nil
	}
	out := make([]intentEntity, len(ents))
	for i, ent := range ents {
		typeName := "any"
		if ent.Type != nil {
			typeName = ent.Type.Name()
		}
		out[i] = intentEntity{
			Key:     ent.Key,
			Type:    typeName,
			Default: ent.Default,
			Prompt:  ent.Prompt,
		}
	}
	return out
}
