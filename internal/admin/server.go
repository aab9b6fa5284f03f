// JSON admin API over a live validation run
package admin

import (
	"context"
	"encoding/json"
	"net/http"

	"hilmetrics/internal/harness"
	"hilmetrics/internal/latency"
)

// Server exposes the collector's aggregate views and run controls over HTTP.
type Server struct {
	Collector *latency.Collector
	Runner    *harness.Runner
	mux       *http.ServeMux
}

// NewServer wires the admin routes for a collector and an optional runner.
func NewServer(collector *latency.Collector, runner *harness.Runner) *Server {
	s := &Server{Collector: collector, Runner: runner, mux: http.NewServeMux()}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/summary", s.handleSummary)
	s.mux.HandleFunc("/stats", s.handleStats)
	s.mux.HandleFunc("/stats/satellites", s.handleSatelliteStats)
	s.mux.HandleFunc("/reset", s.handleReset)
	s.mux.HandleFunc("/toggle-chaos", s.handleToggleChaos)
	s.mux.HandleFunc("/export", s.handleExport)
}

// Start serves until the context is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.mux}
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()
	return srv.ListenAndServe()
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Collector.Summary())
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Collector.Stats())
}

func (s *Server) handleSatelliteStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Collector.StatsBySatellite())
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST required", http.StatusMethodNotAllowed)
		return
	}
	s.Collector.Reset()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggleChaos(w http.ResponseWriter, r *http.Request) {
	if s.Runner == nil {
		http.Error(w, "no active run", http.StatusNotFound)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "POST required", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, map[string]any{"chaos": s.Runner.ToggleChaos()})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST required", http.StatusMethodNotAllowed)
		return
	}
	path := r.URL.Query().Get("path")
	if path == "" {
		http.Error(w, "path query parameter required", http.StatusBadRequest)
		return
	}
	if err := s.Collector.ExportCSV(path); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"exported": s.Collector.Len(), "path": path})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
