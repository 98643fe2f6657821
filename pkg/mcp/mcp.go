package mcp

import (
	"context"
	"net/http"

	"github.com/mark3labs/mcp-go/server"
	log "github.com/sirupsen/logrus"

	"github.com/openshift/videa/pkg/mcp/tools"
)

type MCPServer struct {
	mcpServer *server.MCPServer
	streamSrv *server.StreamableHTTPServer
}

// NewMCPServer builds the MCP endpoint. It shares the chat API's http.Server so the two
// surfaces listen on one port.
func NewMCPServer(ctx context.Context, httpServer *http.Server, deps *tools.ToolDependencies) *MCPServer {
	hooks := &server.Hooks{}

	hooks.AddOnRegisterSession(func(ctx context.Context, session server.ClientSession) {
		log.WithField("session_id", session.SessionID()).Info("MCP client session registered")
	})

	hooks.AddOnUnregisterSession(func(ctx context.Context, session server.ClientSession) {
		log.WithField("session_id", session.SessionID()).Info("MCP client session unregistered")
	})

	mcpServer := server.NewMCPServer(
		"Videa MCP Server",
		"0.1.0",
		server.WithLogging(),
		server.WithToolCapabilities(true),
		server.WithPromptCapabilities(false),
		server.WithRecovery(),
		server.WithHooks(hooks),
	)

	tools.RegisterTools(mcpServer, deps)

	streamSrv := server.NewStreamableHTTPServer(
		mcpServer,
		server.WithStreamableHTTPServer(httpServer),
		server.WithHTTPContextFunc(func(ctx context.Context, r *http.Request) context.Context { return ctx }),
	)

	return &MCPServer{
		mcpServer: mcpServer,
		streamSrv: streamSrv,
	}
}

func (m *MCPServer) Handler() http.Handler {
	return m.streamSrv
}
