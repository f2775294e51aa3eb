// Package leaveapi implements the chaos-capable target endpoint: a toy
// leave-management API whose responses can be delayed, failed, or made
// CPU-expensive via a chaos directive.
package leaveapi

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"time"

	"slosweep/internal/chaos"
	"slosweep/internal/logging"
)

// Server serves the leave API with chaos injection.
type Server struct {
	store *Store
	mux   *http.ServeMux
	// randFloat must be safe for concurrent use; every request
	// goroutine consults it for error injection.
	randFloat func() float64
	sleep     func(time.Duration)
}

// NewServer creates a server with a fresh in-memory store.
func NewServer() *Server {
	s := &Server{
		store:     NewStore(),
		mux:       http.NewServeMux(),
		randFloat: rand.Float64,
		sleep:     time.Sleep,
	}
	s.mux.HandleFunc("/apply-leave", s.handleApplyLeave)
	s.mux.HandleFunc("/", s.handleStatus)
	return s
}

// ServeHTTP applies the chaos directive, then routes the request.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d := directiveFromRequest(r)
	chaos.Spin(d.CPUMS)
	if d.LatencyMS > 0 {
		s.sleep(time.Duration(d.LatencyMS) * time.Millisecond)
	}
	if d.ErrorRate > 0 && s.randFloat() < d.ErrorRate {
		http.Error(w, "injected failure from chaos directive", http.StatusInternalServerError)
		return
	}
	s.mux.ServeHTTP(w, r)
}

// Start runs the server until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	logging.FromContext(ctx).Info("leave API listening", "addr", addr)
	return srv.ListenAndServe()
}

// directiveFromRequest reads the chaos directive from the "chaos" query
// parameter, falling back to the X-Chaos header.
func directiveFromRequest(r *http.Request) chaos.Directive {
	raw := r.URL.Query().Get("chaos")
	if raw == "" {
		raw = r.Header.Get("X-Chaos")
	}
	return chaos.ParseDirective(raw)
}

func (s *Server) handleApplyLeave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var l Leave
	// Malformed bodies degrade to an empty application, matching the
	// tolerant behavior expected by load clients.
	_ = json.NewDecoder(r.Body).Decode(&l)
	saved := s.store.Apply(l)
	writeJSON(w, map[string]any{"status": "ok", "leave": saved})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"status":       "ok",
		"message":      "leave API baseline running",
		"total_leaves": s.store.Count(),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
