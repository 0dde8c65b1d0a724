package api

import (
	"net/http"

	"github.com/remoteview/renderer/metrics"
)

func (s *Server) registerRoutes() {
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)
	s.router.HandleFunc("/surfaces", s.handleSurfaces).Methods(http.MethodGet)
	s.router.Handle("/metrics", metrics.Handler(s.client.MetricsRegistries()...)).Methods(http.MethodGet)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, s.client.GetStats())
}

func (s *Server) handleSurfaces(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"surfaces": s.client.SurfaceIDs(),
	})
}
