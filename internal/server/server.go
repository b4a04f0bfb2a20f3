// Package server exposes the contact directory over HTTP while `contacts watch`
// runs: Prometheus metrics, health checks and the current contact list.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/example/contacts/internal/ports/primary"
)

const shutdownTimeout = 5 * time.Second

// Snapshotter provides the current contact list.
type Snapshotter interface {
	Snapshot() primary.Snapshot
}

// ReadinessChecker reports whether the store can serve requests.
type ReadinessChecker interface {
	PingContext(ctx context.Context) error
}

// Server is the read-only HTTP endpoint of the contact directory.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// New creates a server listening on addr.
func New(addr string, gatherer prometheus.Gatherer, contacts Snapshotter, ready ReadinessChecker, logger *slog.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           Router(gatherer, contacts, ready),
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger.With(slog.String("component", "http")),
	}
}

// Router builds the HTTP routes.
func Router(gatherer prometheus.Gatherer, contacts Snapshotter, ready ReadinessChecker) http.Handler {
	router := chi.NewRouter()

	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	router.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	router.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := ready.PingContext(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "fail", "message": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	router.Get("/contacts", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, toSnapshotResponse(contacts.Snapshot()))
	})

	return router
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("http server started", slog.String("addr", s.httpServer.Addr))

		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}

type contactResponse struct {
	ID              int64  `json:"id"`
	GivenName       string `json:"given_name"`
	PaternalSurname string `json:"paternal_surname"`
	MaternalSurname string `json:"maternal_surname"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	PhotoPath       string `json:"photo_path,omitempty"`
}

type snapshotResponse struct {
	Version  uint64            `json:"version"`
	Contacts []contactResponse `json:"contacts"`
}

func toSnapshotResponse(snap primary.Snapshot) snapshotResponse {
	resp := snapshotResponse{
		Version:  snap.Version,
		Contacts: make([]contactResponse, 0, len(snap.Contacts)),
	}
	for _, c := range snap.Contacts {
		resp.Contacts = append(resp.Contacts, contactResponse{
			ID:              c.ID,
			GivenName:       c.GivenName,
			PaternalSurname: c.PaternalSurname,
			MaternalSurname: c.MaternalSurname,
			Phone:           c.Phone,
			Email:           c.Email,
			PhotoPath:       c.PhotoPath,
		})
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
