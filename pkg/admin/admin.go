// Package admin serves the operational HTTP endpoints (/health, /metrics).
package admin

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Sternrassler/attendee-beacon/pkg/metrics"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Status is reported by /health.
type Status struct {
	EventID   string
	Attendees int
}

// NewRouter builds the admin router.
func NewRouter(status Status) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", healthHandler(status))
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Gatherer, promhttp.HandlerOpts{}))

	return r
}

func healthHandler(status Status) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK event=%s attendees=%d", status.EventID, status.Attendees)
	}
}

// NewServer returns an HTTP server for the admin router on addr.
func NewServer(addr string, status Status) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           NewRouter(status),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}
}

// Start runs srv in the background. A failure is logged; the admin surface
// is optional and never stops the connection server.
func Start(srv *http.Server) {
	logger := log.With().Str("component", "admin").Logger()

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("Starting admin server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("Admin server failed")
		}
	}()
}
