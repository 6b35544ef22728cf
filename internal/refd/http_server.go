// Package refd is the HTTP surface of the referral analytics engine:
// graph mutation and analytics queries, growth simulations and bonus
// optimization, plus health and Prometheus endpoints.
package refd

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/refgraph/referral-core/internal/network"
	"github.com/refgraph/referral-core/pkg/config"
	"github.com/refgraph/referral-core/pkg/logger"
)

// HTTPServer routes API requests to the engine. The engine itself is
// single-threaded; the server serializes graph access with a RWMutex.
type HTTPServer struct {
	mux   *http.ServeMux
	store *RunStore

	graphMu sync.RWMutex
	graph   *network.Graph

	defaultsMu sync.RWMutex
	growth     config.GrowthDefaults
	bonus      config.BonusSearch
}

// NewHTTPServer creates a server over the given graph and run store
// with the supplied simulation defaults.
func NewHTTPServer(graph *network.Graph, store *RunStore, cfg *config.Config) *HTTPServer {
	s := &HTTPServer{
		mux:    http.NewServeMux(),
		store:  store,
		graph:  graph,
		growth: cfg.Growth,
		bonus:  cfg.Bonus,
	}

	s.mux.HandleFunc("/healthz", s.handleHealthz)
	s.mux.Handle("/metrics", promhttp.Handler())
	s.mux.HandleFunc("/v1/referrals", s.handleReferrals)
	s.mux.HandleFunc("/v1/users/", s.handleUserByID)
	s.mux.HandleFunc("/v1/analytics/top-referrers", s.handleTopReferrers)
	s.mux.HandleFunc("/v1/analytics/influencers", s.handleInfluencers)
	s.mux.HandleFunc("/v1/analytics/flow-centrality", s.handleFlowCentrality)
	s.mux.HandleFunc("/v1/network/seed", s.handleSeedNetwork)
	s.mux.HandleFunc("/v1/simulations", s.handleSimulations)
	s.mux.HandleFunc("/v1/simulations/days-to-target", s.handleDaysToTarget)
	s.mux.HandleFunc("/v1/simulations/", s.handleSimulationByID)
	s.mux.HandleFunc("/v1/optimizations/bonus", s.handleBonusOptimization)

	return s
}

func (s *HTTPServer) Handler() http.Handler {
	return s.mux
}

// SetDefaults swaps the simulation defaults, used by config hot-reload.
func (s *HTTPServer) SetDefaults(growth config.GrowthDefaults, bonus config.BonusSearch) {
	s.defaultsMu.Lock()
	defer s.defaultsMu.Unlock()
	s.growth = growth
	s.bonus = bonus
}

func (s *HTTPServer) defaults() (config.GrowthDefaults, config.BonusSearch) {
	s.defaultsMu.RLock()
	defer s.defaultsMu.RUnlock()
	return s.growth, s.bonus
}

func (s *HTTPServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleUserByID handles /v1/users/{user}/referrals and
// /v1/users/{user}/reach.
func (s *HTTPServer) handleUserByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/v1/users/")
	switch {
	case strings.HasSuffix(path, "/referrals"):
		user := strings.TrimSuffix(path, "/referrals")
		s.handleDirectReferrals(w, r, network.UserID(user))
	case strings.HasSuffix(path, "/reach"):
		user := strings.TrimSuffix(path, "/reach")
		s.handleReach(w, r, network.UserID(user))
	default:
		s.writeError(w, http.StatusNotFound, "not found")
	}
}

// handleSimulations handles /v1/simulations.
func (s *HTTPServer) handleSimulations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateSimulation(w, r)
	case http.MethodGet:
		s.handleListSimulations(w, r)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleSimulationByID handles /v1/simulations/{id}.
func (s *HTTPServer) handleSimulationByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	runID := strings.TrimPrefix(r.URL.Path, "/v1/simulations/")
	if runID == "" {
		s.writeError(w, http.StatusBadRequest, "run ID is required")
		return
	}

	rec, ok := s.store.Get(runID)
	if !ok {
		s.writeError(w, http.StatusNotFound, "run not found: "+runID)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *HTTPServer) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

func (s *HTTPServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]any{
		"error": message,
	})
}
