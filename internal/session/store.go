package session

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/newsdesk-hq/newsdesk-go/internal/action"
	"github.com/newsdesk-hq/newsdesk-go/internal/agui"
	"github.com/newsdesk-hq/newsdesk-go/internal/assistant"
	"github.com/newsdesk-hq/newsdesk-go/internal/chat"
	"github.com/newsdesk-hq/newsdesk-go/internal/observability"
	"github.com/newsdesk-hq/newsdesk-go/internal/platform"
	"github.com/newsdesk-hq/newsdesk-go/internal/views"
)

// Roles the platform knows about.
var validRoles = map[string]bool{
	"reader":  true,
	"analyst": true,
	"editor":  true,
	"admin":   true,
}

// StoreConfig carries the collaborators shared by all sessions.
type StoreConfig struct {
	Chat     chat.Backend
	Platform platform.API
	Routes   *assistant.RouteTable
	Metrics  *observability.Metrics
	Logger   *slog.Logger
	TTL      time.Duration
}

// Store owns the live sessions. Sessions idle past the TTL are evicted;
// activity slides the expiration.
type Store struct {
	cfg   StoreConfig
	cache *gocache.Cache
}

// NewStore creates a Store evicting sessions idle past cfg.TTL.
func NewStore(cfg StoreConfig) *Store {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Routes == nil {
		cfg.Routes = assistant.NewRouteTable(nil)
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Minute
	}
	cache := gocache.New(cfg.TTL, cfg.TTL/2)
	cache.OnEvicted(func(_ string, v any) {
		if sess, ok := v.(*Session); ok {
			sess.Close()
		}
	})
	return &Store{cfg: cfg, cache: cache}
}

// Create builds a new session for role with initialView mounted.
func (s *Store) Create(role string, initialView views.View) (*Session, error) {
	if !validRoles[role] {
		return nil, fmt.Errorf("session: invalid role %q", role)
	}

	registry := action.NewRegistry()
	dispatcher := action.NewDispatcher(registry)
	nav := assistant.NewNavContext(role)
	editor := assistant.NewEditorStore()
	transcript := assistant.NewTranscript()
	bus := agui.NewBus()

	sess := &Session{
		ID:         uuid.NewString(),
		Role:       role,
		CreatedAt:  time.Now().UTC(),
		registry:   registry,
		dispatcher: dispatcher,
		nav:        nav,
		editor:     editor,
		transcript: transcript,
		bus:        bus,
		deps: views.Deps{
			Platform: s.cfg.Platform,
			Nav:      nav,
			Editor:   editor,
			Logger:   s.cfg.Logger,
		},
	}
	sess.coord = assistant.NewCoordinator(assistant.Config{
		SessionID:  sess.ID,
		Role:       role,
		Chat:       s.cfg.Chat,
		Platform:   s.cfg.Platform,
		Dispatcher: dispatcher,
		Routes:     s.cfg.Routes,
		Nav:        nav,
		Editor:     editor,
		Transcript: transcript,
		Sink:       bus,
		Metrics:    s.cfg.Metrics,
		Logger:     s.cfg.Logger,
	})

	// The dispatcher's result stream feeds the session bus, so SSE
	// subscribers see every executed action, whichever path ran it.
	results, stop := dispatcher.Subscribe()
	sess.stopBridge = stop
	go func() {
		for res := range results {
			bus.Publish(agui.Event{
				Type:      agui.EventActionResult,
				Timestamp: time.Now().UTC(),
				SessionID: sess.ID,
				Data:      res,
			})
		}
	}()

	if err := sess.MountView(initialView); err != nil {
		sess.Close()
		return nil, err
	}

	s.cache.Set(sess.ID, sess, gocache.DefaultExpiration)
	s.cfg.Logger.Info("session created", "session_id", sess.ID, "role", role, "view", initialView)
	return sess, nil
}

// Get returns the session by ID, sliding its expiration.
func (s *Store) Get(id string) (*Session, bool) {
	v, ok := s.cache.Get(id)
	if !ok {
		return nil, false
	}
	sess := v.(*Session)
	s.cache.Set(id, sess, gocache.DefaultExpiration)
	return sess, true
}

// Delete removes a session.
func (s *Store) Delete(id string) {
	s.cache.Delete(id)
}

// List returns snapshots of all live sessions.
func (s *Store) List() []Snapshot {
	items := s.cache.Items()
	out := make([]Snapshot, 0, len(items))
	for _, item := range items {
		sess := item.Object.(*Session)
		out = append(out, sess.Snapshot())
	}
	return out
}

// Count returns the number of live sessions.
func (s *Store) Count() int {
	return s.cache.ItemCount()
}
