// Package videaserver serves the chat intake API and its read-side endpoints.
package videaserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/openshift/videa/pkg/catalog"
	"github.com/openshift/videa/pkg/conversation"
	"github.com/openshift/videa/pkg/videaserver/metrics"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping() error
}

type Server struct {
	listenAddr string
	db         Pinger
	manager    *conversation.Manager
	catalog    catalog.Reader
	aiEnabled  bool

	// mcpHandler is mounted at /mcp when set.
	mcpHandler http.Handler
	httpServer *http.Server
}

func NewServer(listenAddr string, db Pinger, manager *conversation.Manager, reader catalog.Reader, aiEnabled bool) *Server {
	s := &Server{
		listenAddr: listenAddr,
		db:         db,
		manager:    manager,
		catalog:    reader,
		aiEnabled:  aiEnabled,
	}
	s.httpServer = &http.Server{
		Addr:              listenAddr,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// GetHTTPServer returns the underlying server, the MCP transport needs it before Serve
// is called.
func (s *Server) GetHTTPServer() *http.Server {
	return s.httpServer
}

func (s *Server) SetMCPHandler(h http.Handler) {
	s.mcpHandler = h
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	handle := func(path string, h http.HandlerFunc, methods ...string) {
		r.Handle(path, metrics.Instrument(path, h)).Methods(methods...)
	}

	handle("/api/health", s.jsonHealth, http.MethodGet)
	handle("/api/chat/start", s.jsonStartChat, http.MethodPost)
	handle("/api/chat/message", s.jsonChatMessage, http.MethodPost)
	handle("/api/chat/confirm", s.jsonConfirm, http.MethodPost)
	handle("/api/chat/conversations/{id}", s.jsonGetConversation, http.MethodGet)
	handle("/api/personas", s.jsonListPersonas, http.MethodGet)
	handle("/api/collections/{persona_id}", s.jsonCollectionForPersona, http.MethodGet)

	if s.mcpHandler != nil {
		r.PathPrefix("/mcp").Handler(s.mcpHandler)
	}
	return r
}

// Serve blocks until the server is shut down.
func (s *Server) Serve() error {
	s.httpServer.Handler = s.Router()

	log.Infof("Serving chat API on %s", s.listenAddr)
	if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
