// Package mcpserver serves a toolbox over the Model Context Protocol using the
// official MCP Go SDK.
package mcpserver

import (
	"context"
	"io"
	"log/slog"

	"github.com/germanamz/cryptocontent/pkg/tools/toolbox"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server exposes tools to MCP clients.
type Server struct {
	server *mcp.Server
	tools  *toolbox.ToolBox
	log    *slog.Logger
	names  []string
}

// New creates a Server announcing itself with name and version. A nil logger
// discards call logs.
func New(name, version string, log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Server{
		server: mcp.NewServer(&mcp.Implementation{Name: name, Version: version}, nil),
		tools:  toolbox.New(),
		log:    log,
	}
}

// Register adds tools to the server.
func (s *Server) Register(tools ...toolbox.Tool) {
	s.tools.Register(tools...)
	s.announce(tools)
}

// RegisterToolBox adds every tool of tb.
func (s *Server) RegisterToolBox(tb *toolbox.ToolBox) {
	s.tools.Merge(tb)
	s.announce(tb.Tools())
}

func (s *Server) announce(tools []toolbox.Tool) {
	for _, t := range tools {
		s.server.AddTool(&mcp.Tool{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.InputSchema,
		}, s.handler(t.Name))
		s.names = append(s.names, t.Name)
	}
}

// Tools returns the names of registered tools in registration order.
func (s *Server) Tools() []string { return s.names }

// Serve reads requests from in and writes responses to out until ctx is
// cancelled or the transport closes.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	return s.run(ctx, &mcp.IOTransport{
		Reader: io.NopCloser(in),
		Writer: nopWriteCloser{out},
	})
}

func (s *Server) run(ctx context.Context, transport mcp.Transport) error {
	return s.server.Run(ctx, transport)
}

// handler adapts a tool to the SDK. Tool failures are returned as error
// results so the client sees the message.
func (s *Server) handler(name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res := s.tools.Call(ctx, name, req.Params.Arguments)
		if res.IsError {
			s.log.WarnContext(ctx, "tool call failed", "tool", name, "error", res.Content)
		} else {
			s.log.DebugContext(ctx, "tool call finished", "tool", name)
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: res.Content}},
			IsError: res.IsError,
		}, nil
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
