// Package api exposes the assistant gateway over HTTP: session lifecycle,
// chat turns, view mounting, confirmation resolution, and the SSE event
// stream browsers subscribe to.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/newsdesk-hq/newsdesk-go/internal/agui"
	"github.com/newsdesk-hq/newsdesk-go/internal/ratelimit"
	"github.com/newsdesk-hq/newsdesk-go/internal/session"
)

// Server is the HTTP API server for the assistant gateway.
type Server struct {
	sessions *session.Store
	limiter  *ratelimit.TurnLimiter
	budget   *ratelimit.TurnBudget
	stream   agui.StreamConfig
	mux      *http.ServeMux
	handler  http.Handler
}

// Options tunes the server beyond its session store.
type Options struct {
	CORSOrigins []string
	OIDC        OIDCConfig
	Limiter     *ratelimit.TurnLimiter
	Budget      *ratelimit.TurnBudget
	Stream      agui.StreamConfig
}

// New creates a Server over the given session store. When opts.OIDC is
// enabled, New performs OIDC discovery against the issuer and fails if the
// issuer is unreachable.
func New(sessions *session.Store, opts Options) (*Server, error) {
	s := &Server{
		sessions: sessions,
		limiter:  opts.Limiter,
		budget:   opts.Budget,
		stream:   opts.Stream,
		mux:      http.NewServeMux(),
	}
	if s.stream.KeepAlive == 0 {
		s.stream = agui.DefaultConfig()
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}
	s.routes()

	var handler http.Handler = s.mux
	if opts.OIDC.Enabled {
		provider, err := oidc.NewProvider(context.Background(), opts.OIDC.IssuerURL)
		if err != nil {
			return nil, fmt.Errorf("api: oidc discovery: %w", err)
		}
		handler = oidcAuth(provider, opts.OIDC.Audience)(handler)
	}
	s.handler = requestID(logging(cors(opts.CORSOrigins, handler)))
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/v1/health", s.handleHealth)
	s.mux.HandleFunc("POST /api/v1/sessions", s.handleCreateSession)
	s.mux.HandleFunc("GET /api/v1/sessions", s.handleListSessions)
	s.mux.HandleFunc("GET /api/v1/sessions/{id}", s.handleGetSession)
	s.mux.HandleFunc("DELETE /api/v1/sessions/{id}", s.handleDeleteSession)
	s.mux.HandleFunc("POST /api/v1/sessions/{id}/messages", s.handleMessage)
	s.mux.HandleFunc("POST /api/v1/sessions/{id}/view", s.handleMountView)
	s.mux.HandleFunc("POST /api/v1/sessions/{id}/context", s.handleUpdateContext)
	s.mux.HandleFunc("POST /api/v1/sessions/{id}/confirm", s.handleConfirm)
	s.mux.HandleFunc("POST /api/v1/sessions/{id}/cancel", s.handleCancel)
	s.mux.HandleFunc("GET /api/v1/sessions/{id}/stream", s.handleStream)
}
