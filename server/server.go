// Package server publishes the catalog's tools over the Model Context
// Protocol.
//
// Each catalog entry becomes one MCP tool named "<namespace>_<tool>". Calls
// are routed through the backend aggregator and answered with a single text
// content block. Backend failures, such as a host that could not be started
// or whose pipe broke, are reported as tool results with IsError set so the
// client sees the message instead of a protocol error.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jonwraymond/hostbridge/backend"
	"github.com/jonwraymond/hostbridge/catalog"
)

// Defaults for Options.
const (
	DefaultName    = "hostbridge"
	DefaultVersion = "v1.0.0"
)

// Logger is the interface for logging.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: logging must be best-effort and must not panic.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Options configures a Server.
type Options struct {
	Name    string
	Version string
	Logger  Logger
}

// Server is an MCP server exposing bridge tools.
type Server struct {
	mcp    *mcp.Server
	agg    *backend.Aggregator
	logger Logger

	// names maps MCP tool names to catalog IDs.
	names map[string]string
}

// New builds a server with one MCP tool per catalog entry.
func New(agg *backend.Aggregator, cat *catalog.Catalog, opts Options) (*Server, error) {
	if opts.Name == "" {
		opts.Name = DefaultName
	}
	if opts.Version == "" {
		opts.Version = DefaultVersion
	}

	s := &Server{
		mcp:    mcp.NewServer(&mcp.Implementation{Name: opts.Name, Version: opts.Version}, nil),
		agg:    agg,
		logger: opts.Logger,
		names:  make(map[string]string),
	}

	title := cases.Title(language.Und)
	for _, entry := range cat.Entries() {
		name := ToolName(entry.Tool.Namespace, entry.Tool.Name)
		if prev, dup := s.names[name]; dup {
			return nil, fmt.Errorf("server: tool name %q used by %s and %s", name, prev, entry.ID)
		}

		description := entry.Tool.Description
		if doc, err := cat.Describe(entry.ID); err == nil {
			description = describe(doc.Summary, doc.Notes, description)
		}

		tool := &mcp.Tool{
			Name:        name,
			Title:       title.String(entry.Tool.Title),
			Description: description,
			InputSchema: entry.Tool.InputSchema,
		}
		s.mcp.AddTool(tool, s.handler(entry.ID))
		s.names[name] = entry.ID
	}
	return s, nil
}

// ToolName joins a namespace and tool into an MCP tool name.
func ToolName(namespace, tool string) string {
	if namespace == "" {
		return tool
	}
	return namespace + "_" + tool
}

// MCP returns the underlying MCP server.
func (s *Server) MCP() *mcp.Server {
	return s.mcp
}

// Tools returns the exposed MCP tool names, sorted.
func (s *Server) Tools() []string {
	out := make([]string, 0, len(s.names))
	for name := range s.names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Run serves on t until the client disconnects or ctx is done.
func (s *Server) Run(ctx context.Context, t mcp.Transport) error {
	return s.mcp.Run(ctx, t)
}

func (s *Server) handler(id string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args map[string]any
		if req.Params != nil && len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
				return errorResult(fmt.Errorf("%w: %v", backend.ErrInvalidArguments, err)), nil
			}
		}

		text, err := s.agg.Execute(ctx, id, args)
		if err != nil {
			s.error("tool call failed", "tool", id, "error", err)
			return errorResult(err), nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, nil
	}
}

func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
		IsError: true,
	}
}

// describe joins the non-empty parts into a tool description.
func describe(summary, notes, fallback string) string {
	var parts []string
	if summary != "" {
		parts = append(parts, summary)
	} else if fallback != "" {
		parts = append(parts, fallback)
	}
	if notes != "" {
		parts = append(parts, notes)
	}
	return strings.Join(parts, "\n\n")
}

func (s *Server) error(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Error(msg, args...)
	}
}
