// Package server exposes the scheduling engine over a local HTTP API and
// serves the iCalendar subscription feed.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/tartampluch/go-cadence/internal/config"
	"github.com/tartampluch/go-cadence/internal/engine"
	"github.com/tartampluch/go-cadence/internal/feed"
	"github.com/tartampluch/go-cadence/internal/importer"
	"github.com/tartampluch/go-cadence/internal/notify"
	"github.com/tartampluch/go-cadence/internal/store"
)

// Server is the cadence HTTP API server.
type Server struct {
	db       *store.DB
	sched    *engine.Scheduler
	registry *notify.Memory
	feed     *feed.Builder
	importer *importer.Importer

	router  chi.Router
	addr    string
	version string
	started time.Time
}

// New wires the server around its collaborators. addr is the listen
// address in host:port form.
func New(db *store.DB, sched *engine.Scheduler, registry *notify.Memory, fb *feed.Builder, im *importer.Importer, addr, version string) *Server {
	s := &Server{
		db:       db,
		sched:    sched,
		registry: registry,
		feed:     fb,
		importer: im,
		addr:     addr,
		version:  version,
		started:  time.Now(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Post("/contacts", s.handleCreateContact)
		r.Get("/contacts", s.handleListContacts)
		r.Get("/contacts/{contactID}", s.handleGetContact)
		r.Post("/contacts/{contactID}/interactions", s.handleLogInteraction)
		r.Post("/contacts/{contactID}/snooze", s.handleSnooze)
		r.Post("/contacts/{contactID}/archive", s.handleArchive)
		r.Post("/contacts/{contactID}/unarchive", s.handleUnarchive)
		r.Put("/contacts/{contactID}/cadence", s.handleChangeCadence)

		r.Post("/import", s.handleImport)

		r.Get("/agenda", s.handleAgenda)
		r.Get("/due", s.handleDueToday)
		r.Post("/digest", s.handleScheduleDigest)
		r.Get("/notifications", s.handleNotifications)

		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings", s.handleSaveSettings)
	})

	r.Get(config.RouteCalendar, s.handleCalendar)

	s.router = r
}

// Start runs the HTTP server and blocks until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if s.addr == "" {
		return fmt.Errorf(config.ErrPortRequired)
	}

	srv := &http.Server{
		Addr:         s.addr,
		Handler:      s,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyAddr, s.addr,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}
