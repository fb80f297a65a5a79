// Package tools exposes Baymax's chat and capabilities as MCP tools.
package tools

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/flynn-ai/baymax/internal/capability"
	"github.com/flynn-ai/baymax/internal/classifier"
	"github.com/flynn-ai/baymax/internal/errors"
	"github.com/flynn-ai/baymax/internal/logger"
	"github.com/flynn-ai/baymax/internal/tools/schemas"
	"github.com/flynn-ai/baymax/pkg/protocol"
)

// Tool names.
const (
	ToolChat       = "chat"
	ToolGetWeather = "get_weather"
	ToolSearchWeb  = "search_web"
	ToolSendEmail  = "send_email"
	ToolStatus     = "status"
)

// Router answers a free-form message.
type Router interface {
	Route(ctx context.Context, message string) string
}

// Handler runs a tool with raw JSON arguments and returns the reply text.
type Handler func(ctx context.Context, args json.RawMessage) (string, error)

type entry struct {
	schema  *schemas.Schema
	handler Handler
}

// Registry maps tool names to schemas and handlers.
type Registry struct {
	tools map[string]entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]entry)}
}

// Register adds a tool, replacing any tool with the same name.
func (r *Registry) Register(schema *schemas.Schema, h Handler) {
	r.tools[schema.Name] = entry{schema: schema, handler: h}
}

// Names returns the registered tool names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Schema returns the schema of a registered tool.
func (r *Registry) Schema(name string) (*schemas.Schema, bool) {
	e, ok := r.tools[name]
	return e.schema, ok
}

// Execute runs a tool by name.
func (r *Registry) Execute(ctx context.Context, name string, args json.RawMessage) (string, error) {
	e, ok := r.tools[name]
	if !ok {
		return "", errors.User(errors.CodeInvalidInput, "unknown tool '"+name+"'")
	}
	return e.handler(ctx, args)
}

// Initialize registers the chat tool and one tool per capability. Capability
// tools answer through the invoker, so they reply with the same
// clarifications and apologies as chat messages do.
func (r *Registry) Initialize(router Router, invoker *capability.Invoker) {
	r.Register(schemas.NewSchema(ToolChat, "Talk to Baymax, the personal healthcare companion").
		AddParam("message", "string", "The user's message", true).
		Build(),
		func(ctx context.Context, raw json.RawMessage) (string, error) {
			var args protocol.ChatArgs
			if err := decode(raw, &args); err != nil {
				return "", err
			}
			return router.Route(ctx, args.Message), nil
		})

	r.Register(schemas.NewSchema(ToolGetWeather, "Get the current weather for a city").
		AddParam("city", "string", "City name, e.g. Tokyo", true).
		Build(),
		func(ctx context.Context, raw json.RawMessage) (string, error) {
			var args protocol.WeatherArgs
			if err := decode(raw, &args); err != nil {
				return "", err
			}
			return invoker.Invoke(ctx, classifier.IntentWeather, classifier.Arguments{City: present(args.City)}), nil
		})

	r.Register(schemas.NewSchema(ToolSearchWeb, "Search the web").
		AddParam("query", "string", "Search query", true).
		Build(),
		func(ctx context.Context, raw json.RawMessage) (string, error) {
			var args protocol.SearchArgs
			if err := decode(raw, &args); err != nil {
				return "", err
			}
			return invoker.Invoke(ctx, classifier.IntentSearch, classifier.Arguments{Query: present(args.Query)}), nil
		})

	r.Register(schemas.NewSchema(ToolSendEmail, "Send an email").
		AddParam("to", "string", "Recipient email address", true).
		AddParam("subject", "string", "Subject line", false).
		AddParam("body", "string", "Message body", false).
		Build(),
		func(ctx context.Context, raw json.RawMessage) (string, error) {
			var args protocol.EmailArgs
			if err := decode(raw, &args); err != nil {
				return "", err
			}
			var parts *classifier.EmailParts
			if to := strings.TrimSpace(args.To); to != "" {
				parts = &classifier.EmailParts{
					To:      to,
					Subject: orDefault(args.Subject, classifier.DefaultEmailSubject),
					Body:    orDefault(args.Body, classifier.DefaultEmailBody),
				}
			}
			return invoker.Invoke(ctx, classifier.IntentEmail, classifier.Arguments{Email: parts}), nil
		})
}

// StatusFunc reports runtime status as a JSON-encodable value.
type StatusFunc func() any

// RegisterStatus adds a tool reporting fn's value as JSON.
func (r *Registry) RegisterStatus(fn StatusFunc) {
	r.Register(schemas.NewSchema(ToolStatus, "Report model state and usage statistics").Build(),
		func(context.Context, json.RawMessage) (string, error) {
			data, err := json.MarshalIndent(fn(), "", "  ")
			if err != nil {
				return "", errors.Wrap(err, errors.CodeInvalidInput, "cannot encode status", errors.CategorySystem)
			}
			return string(data), nil
		})
}

// MCPServer returns an MCP server exposing every registered tool.
func (r *Registry) MCPServer(version string, log *logger.Logger) *mcpsdk.Server {
	if log == nil {
		log = logger.Nop()
	}
	log = log.WithComponent("mcp")

	server := mcpsdk.NewServer(&mcpsdk.Implementation{Name: "baymax", Version: version}, nil)
	for _, name := range r.Names() {
		e := r.tools[name]
		server.AddTool(&mcpsdk.Tool{
			Name:        e.schema.Name,
			Description: e.schema.Description,
			InputSchema: e.schema.Parameters,
		}, func(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
			text, err := e.handler(ctx, req.Params.Arguments)
			if err != nil {
				log.WithError(err).Warn("tool call rejected", logger.Fields("tool", name))
				return &mcpsdk.CallToolResult{
					IsError: true,
					Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: err.Error()}},
				}, nil
			}
			log.Debug("tool call served", logger.Fields("tool", name))
			return &mcpsdk.CallToolResult{
				Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: text}},
			}, nil
		})
	}
	return server
}

func decode(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.Wrap(err, errors.CodeInvalidInput, "invalid tool arguments", errors.CategoryUser)
	}
	return nil
}

func present(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
