// Package server is the HTTP host for cards: it stores them, runs editor
// commands and drag sessions against them, and renders their layout trees.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/cardbuilder/pkg/cache"
	"github.com/matzehuels/cardbuilder/pkg/editor"
	"github.com/matzehuels/cardbuilder/pkg/layout"
	"github.com/matzehuels/cardbuilder/pkg/logic"
	"github.com/matzehuels/cardbuilder/pkg/registry"
	"github.com/matzehuels/cardbuilder/pkg/session"
	"github.com/matzehuels/cardbuilder/pkg/store"
)

// Server serves the card API. Build it with [New] and adjust the exported
// fields before calling [Server.Handler].
type Server struct {
	Store      store.Store
	Sessions   session.Store
	Cache      cache.Cache
	Keys       cache.Keyer
	Catalog    *registry.Catalog
	Editor     *editor.Editor
	Logic      logic.Evaluator
	Logger     *log.Logger
	SessionTTL time.Duration
	CacheTTL   time.Duration

	locks        sync.Map // card id -> *sync.Mutex
	sessionLocks sync.Map // session id -> *sync.Mutex
}

// New creates a server over the given stores with default collaborators.
// If logger is nil, log.Default() is used.
func New(cards store.Store, sessions session.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if sessions == nil {
		sessions = session.NewMemoryStore()
	}
	catalog := registry.Builtin(layout.NewID)
	return &Server{
		Store:      cards,
		Sessions:   sessions,
		Cache:      cache.NewNullCache(),
		Keys:       cache.NewDefaultKeyer(),
		Catalog:    catalog,
		Editor:     editor.New(catalog, layout.NewID, logger),
		Logic:      logic.NewConditionEvaluator(),
		Logger:     logger,
		SessionTTL: session.DefaultTTL,
		CacheTTL:   24 * time.Hour,
	}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/modules", s.listModules)
		r.Get("/templates", s.listTemplates)

		r.Route("/cards", func(r chi.Router) {
			r.Get("/", s.listCards)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.getCard)
				r.Put("/", s.putCard)
				r.Delete("/", s.deleteCard)
				r.Post("/commands", s.execCommand)
				r.Post("/visibility", s.visibility)
				r.Get("/render.{format}", s.renderCard)
			})
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.createSession)
			r.Route("/{sid}", func(r chi.Router) {
				r.Get("/", s.getSession)
				r.Delete("/", s.deleteSession)
				r.Post("/select", s.selectNode)
				r.Post("/commands", s.sessionCommand)
				r.Post("/drag/start", s.dragStart)
				r.Post("/drag/enter", s.dragEnter)
				r.Post("/drag/leave", s.dragLeave)
				r.Post("/drag/drop", s.dragDrop)
				r.Post("/drag/end", s.dragEnd)
			})
		})
	})
	return r
}

// lock serialises edits to one card.
func (s *Server) lock(cardID string) func() {
	return lockIn(&s.locks, cardID)
}

// lockSession serialises requests on one session. It is always taken before
// the card lock.
func (s *Server) lockSession(sid string) func() {
	return lockIn(&s.sessionLocks, sid)
}

func lockIn(m *sync.Map, key string) func() {
	v, _ := m.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
// within shutdownTimeout.
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.Logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	go s.cleanupSessions()
	return nil
}

func (s *Server) cleanupSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Sessions.Cleanup(ctx); err != nil {
		s.Logger.Warn("session cleanup failed", "err", err)
	}
}
