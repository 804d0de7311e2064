// Package mcp exposes the assistant as a Model Context Protocol server:
// one dispatch tool running the full pipeline, plus one tool per intent
// entering at the direct execute path.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/valet"
	"github.com/aretw0/valet/pkg/domain"
	"github.com/aretw0/valet/pkg/schema"
)

// DispatchResponse is the structured result of a dispatched command, unified
// across adapters.
type DispatchResponse struct {
	OK        bool   `json:"ok" jsonschema_description:"Whether the command succeeded"`
	Response  string `json:"response,omitempty" jsonschema_description:"The assistant's reply on success"`
	Kind      string `json:"kind,omitempty" jsonschema_description:"Failure classification when ok is false"`
	Message   string `json:"message,omitempty" jsonschema_description:"User-facing failure message"`
	SessionID string `json:"session_id" jsonschema_description:"The conversation the turn ran on"`
}

// Assistant defines the interface required by the MCP server to interact with valet.
type Assistant interface {
	Dispatch(ctx context.Context, sessionID, utterance string) domain.Result
	Execute(ctx context.Context, sessionID, intent string, entities map[string]any) domain.Result
	Schema() *schema.Schema
}

// Server wraps the assistant and exposes it as an MCP Server.
type Server struct {
	assistant Assistant
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(assistant Assistant) *Server {
	s := &Server{
		assistant: assistant,
		mcpServer: server.NewMCPServer("valet-mcp", strings.TrimSpace(valet.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	// TOOL: dispatch_command runs the full pipeline, LLM included.
	dispatchTool := mcp.NewTool("dispatch_command",
		mcp.WithDescription("Interpret a natural-language command via the language model and execute the matching capability. Failures come back classified in the result, never as tool errors."),
		mcp.WithString("command", mcp.Required(), mcp.Description("The natural-language command to interpret")),
		mcp.WithString("session_id", mcp.Description("Conversation to continue (optional; clarification answers must reuse the same session)")),
		mcp.WithOutputSchema[DispatchResponse](),
	)
	s.mcpServer.AddTool(dispatchTool, mcp.NewStructuredToolHandler(s.handleDispatch))

	// One tool per intent, skipping the model.
	for _, def := range s.assistant.Schema().Definitions() {
		def := def
		s.mcpServer.AddTool(s.intentTool(def), mcp.NewStructuredToolHandler(
			func(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (DispatchResponse, error) {
				return s.handleExecute(ctx, def, args)
			}))
	}
}

func (s *Server) handleDispatch(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (DispatchResponse, error) {
	command, _ := args["command"].(string)
	if strings.TrimSpace(command) == "" {
		return DispatchResponse{}, fmt.Errorf("command is required")
	}
	sessionID, _ := args["session_id"].(string)
	if sessionID == "" {
		sessionID = valet.DefaultSessionID
	}

	res := s.assistant.Dispatch(ctx, sessionID, command)
	return toResponse(res, sessionID), nil
}

func (s *Server) handleExecute(ctx context.Context, def schema.Definition, args map[string]interface{}) (DispatchResponse, error) {
	sessionID, _ := args["session_id"].(string)
	if sessionID == "" {
		sessionID = valet.DefaultSessionID
	}

	// Only declared entity keys flow through; tool plumbing args stay out.
	entities := make(map[string]any, len(args))
	for _, key := range def.Keys() {
		if v, ok := args[key]; ok {
			entities[key] = v
		}
	}

	res := s.assistant.Execute(ctx, sessionID, def.Name, entities)
	if !res.OK && res.Kind != domain.FailureNeedsClarification {
		return DispatchResponse{}, fmt.Errorf("%s: %s", res.Kind, res.Message)
	}
	return toResponse(res, sessionID), nil
}

// intentTool builds the tool definition mirroring an intent's entities.
func (s *Server) intentTool(def schema.Definition) mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(def.Description + " Executes directly, no language model round-trip."),
		mcp.WithOutputSchema[DispatchResponse](),
	}
	for _, ent := range def.Required {
		opts = append(opts, entityOption(ent, true))
	}
	for _, ent := range def.Optional {
		opts = append(opts, entityOption(ent, false))
	}
	opts = append(opts, mcp.WithString("session_id",
		mcp.Description("Conversation to record the turn on (optional)")))
	return mcp.NewTool(def.Name, opts...)
}

func entityOption(ent schema.Entity, required bool) mcp.ToolOption {
	desc := ent.Prompt
	if desc == "" {
		desc = "The " + strings.ReplaceAll(ent.Key, "_", " ")
	}
	if !required && ent.Default != nil {
		desc = fmt.Sprintf("%s (default: %v)", desc, ent.Default)
	}

	propOpts := []mcp.PropertyOption{mcp.Description(desc)}
	if required {
		propOpts = append(propOpts, mcp.Required())
	}

	typeName := "any"
	if ent.Type != nil {
		typeName = ent.Type.Name()
	}
	switch typeName {
	case "int", "float", "percent", "unit":
		return mcp.WithNumber(ent.Key, propOpts...)
	case "bool":
		return mcp.WithBoolean(ent.Key, propOpts...)
	default:
		return mcp.WithString(ent.Key, propOpts...)
	}
}

func toResponse(res domain.Result, sessionID string) DispatchResponse {
	return DispatchResponse{
		OK:        res.OK,
		Response:  res.Response,
		Kind:      string(res.Kind),
		Message:   res.Message,
		SessionID: sessionID,
	}
}

func (s *Server) registerResources() {
	// EXPOSE: valet://intents
	s.mcpServer.AddResource(mcp.NewResource("valet://intents", "Intent Schema",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		type entityDoc struct {
			Key     string `json:"key"`
			Type    string `json:"type"`
			Default any    `json:"default,omitempty"`
			Prompt  string `json:"prompt,omitempty"`
		}
		type intentDoc struct {
			Name        string      `json:"name"`
			Description string      `json:"description"`
			Required    []entityDoc `json:"required,omitempty"`
			Optional    []entityDoc `json:"optional,omitempty"`
		}
		docEntities := func(ents []schema.Entity) []entityDoc {
			out := make([]entityDoc, 0, len(ents))
			for _, ent := range ents {
				typeName := "any"
				if ent.Type != nil {
					typeName = ent.Type.Name()
				}
				out = append(out, entityDoc{Key: ent.Key, Type: typeName, Default: ent.Default, Prompt: ent.Prompt})
			}
			return out
		}

		defs := s.assistant.Schema().Definitions()
		docs := make([]intentDoc, 0, len(defs))
		for _, def := range defs {
			docs = append(docs, intentDoc{
				Name:        def.Name,
				Description: def.Description,
				Required:    docEntities(def.Required),
				Optional:    docEntities(def.Optional),
			})
		}
		jsonBytes, _ := json.Marshal(docs)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "valet://intents",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
