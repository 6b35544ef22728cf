package refd

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/refgraph/referral-core/internal/growth"
	"github.com/refgraph/referral-core/internal/incentive"
	"github.com/refgraph/referral-core/internal/influence"
	"github.com/refgraph/referral-core/internal/metrics"
	"github.com/refgraph/referral-core/internal/network"
	"github.com/refgraph/referral-core/internal/workload"
	"github.com/refgraph/referral-core/pkg/logger"
)

type addReferralRequest struct {
	Referrer  string `json:"referrer"`
	Candidate string `json:"candidate"`
}

// rejectionReason maps a graph validation failure to the reason string
// used in API responses and metric labels.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, network.ErrSelfReferral):
		return "self_referral"
	case errors.Is(err, network.ErrDuplicateReferrer):
		return "duplicate_referrer"
	case errors.Is(err, network.ErrCycle):
		return "cycle"
	default:
		return "unknown"
	}
}

// handleReferrals handles POST /v1/referrals.
func (s *HTTPServer) handleReferrals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req addReferralRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Referrer == "" || req.Candidate == "" {
		s.writeError(w, http.StatusBadRequest, "referrer and candidate are required")
		return
	}

	s.graphMu.Lock()
	err := s.graph.AddReferral(network.UserID(req.Referrer), network.UserID(req.Candidate))
	users, edges := s.graph.UserCount(), s.graph.EdgeCount()
	s.graphMu.Unlock()

	if err != nil {
		reason := rejectionReason(err)
		metrics.ReferralsRejected.WithLabelValues(reason).Inc()
		s.writeJSON(w, http.StatusConflict, map[string]any{
			"error":  err.Error(),
			"reason": reason,
		})
		return
	}

	metrics.ReferralsAccepted.Inc()
	logger.Debug("referral accepted", "referrer", req.Referrer, "candidate", req.Candidate)
	s.writeJSON(w, http.StatusCreated, map[string]any{
		"referrer":  req.Referrer,
		"candidate": req.Candidate,
		"users":     users,
		"edges":     edges,
	})
}

// handleDirectReferrals handles GET /v1/users/{user}/referrals.
func (s *HTTPServer) handleDirectReferrals(w http.ResponseWriter, _ *http.Request, user network.UserID) {
	s.graphMu.RLock()
	referrals := s.graph.DirectReferrals(user)
	s.graphMu.RUnlock()

	s.writeJSON(w, http.StatusOK, map[string]any{
		"user":      user,
		"referrals": referrals,
	})
}

// handleReach handles GET /v1/users/{user}/reach.
func (s *HTTPServer) handleReach(w http.ResponseWriter, _ *http.Request, user network.UserID) {
	s.graphMu.RLock()
	reachSet := network.NewAnalyzer(s.graph).ReachSet(user)
	s.graphMu.RUnlock()

	reach := make([]network.UserID, 0, len(reachSet))
	for u := range reachSet {
		reach = append(reach, u)
	}
	// Deterministic payload ordering.
	sortUserIDs(reach)

	s.writeJSON(w, http.StatusOK, map[string]any{
		"user":  user,
		"reach": reach,
		"total": len(reach),
	})
}

// handleTopReferrers handles GET /v1/analytics/top-referrers?k=.
func (s *HTTPServer) handleTopReferrers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	k, err := queryInt(r, "k", 10)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	timer := time.Now()
	s.graphMu.RLock()
	top := network.NewAnalyzer(s.graph).TopReferrersByReach(k)
	s.graphMu.RUnlock()
	metrics.InfluenceQueryDuration.WithLabelValues("top_referrers").Observe(time.Since(timer).Seconds())

	s.writeJSON(w, http.StatusOK, map[string]any{
		"k":       k,
		"results": top,
	})
}

// handleInfluencers handles GET /v1/analytics/influencers?m=.
func (s *HTTPServer) handleInfluencers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	m, err := queryInt(r, "m", 10)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	timer := time.Now()
	s.graphMu.RLock()
	selections := influence.NewRanker(s.graph).UniqueReachGreedy(m)
	s.graphMu.RUnlock()
	metrics.InfluenceQueryDuration.WithLabelValues("unique_reach").Observe(time.Since(timer).Seconds())

	s.writeJSON(w, http.StatusOK, map[string]any{
		"m":          m,
		"selections": selections,
	})
}

// handleFlowCentrality handles GET /v1/analytics/flow-centrality.
func (s *HTTPServer) handleFlowCentrality(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	timer := time.Now()
	s.graphMu.RLock()
	scores := influence.NewRanker(s.graph).FlowCentralityScores()
	s.graphMu.RUnlock()
	metrics.InfluenceQueryDuration.WithLabelValues("flow_centrality").Observe(time.Since(timer).Seconds())

	s.writeJSON(w, http.StatusOK, map[string]any{
		"scores": scores,
	})
}

// handleSeedNetwork handles POST /v1/network/seed.
func (s *HTTPServer) handleSeedNetwork(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var spec workload.Spec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := spec.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.graphMu.Lock()
	added, err := workload.NewGenerator(spec.Seed).Seed(s.graph, spec)
	users, edges := s.graph.UserCount(), s.graph.EdgeCount()
	s.graphMu.Unlock()

	if err != nil {
		s.writeError(w, http.StatusConflict, err.Error())
		return
	}

	logger.Info("network seeded", "shape", spec.Shape, "added", added)
	s.writeJSON(w, http.StatusCreated, map[string]any{
		"added": added,
		"users": users,
		"edges": edges,
	})
}

type simulateRequest struct {
	Probability      float64 `json:"probability"`
	Days             int     `json:"days"`
	InitialReferrers *int    `json:"initial_referrers,omitempty"`
	Capacity         *int    `json:"capacity,omitempty"`
}

// cohort resolves the request's cohort parameters against the
// configured defaults.
func (s *HTTPServer) cohort(initialReferrers, capacity *int) (int, int) {
	growthDefaults, _ := s.defaults()
	ir, c := growthDefaults.InitialReferrers, growthDefaults.Capacity
	if initialReferrers != nil {
		ir = *initialReferrers
	}
	if capacity != nil {
		c = *capacity
	}
	return ir, c
}

// handleCreateSimulation handles POST /v1/simulations.
func (s *HTTPServer) handleCreateSimulation(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	ir, capacity := s.cohort(req.InitialReferrers, req.Capacity)
	cumulative, err := growth.Simulate(req.Probability, req.Days, ir, capacity)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := s.store.Create("", SimulationInput{
		Probability:      req.Probability,
		Days:             req.Days,
		InitialReferrers: ir,
		Capacity:         capacity,
	}, cumulative)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	metrics.SimulationsRun.Inc()
	logger.Debug("simulation stored", "run_id", rec.ID, "days", req.Days)
	s.writeJSON(w, http.StatusCreated, rec)
}

// handleListSimulations handles GET /v1/simulations.
func (s *HTTPServer) handleListSimulations(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"runs": s.store.List(limit),
	})
}

type daysToTargetRequest struct {
	Probability      float64 `json:"probability"`
	TargetTotal      float64 `json:"target_total"`
	InitialReferrers *int    `json:"initial_referrers,omitempty"`
	Capacity         *int    `json:"capacity,omitempty"`
	MaxDays          int     `json:"max_days,omitempty"`
}

// handleDaysToTarget handles POST /v1/simulations/days-to-target.
func (s *HTTPServer) handleDaysToTarget(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req daysToTargetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	growthDefaults, _ := s.defaults()
	maxDays := req.MaxDays
	if maxDays <= 0 {
		maxDays = growthDefaults.MaxDays
	}

	ir, capacity := s.cohort(req.InitialReferrers, req.Capacity)
	day, found, err := growth.DaysToTarget(req.Probability, req.TargetTotal, ir, capacity, maxDays)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := map[string]any{"found": found}
	if found {
		resp["days"] = day
	}
	s.writeJSON(w, http.StatusOK, resp)
}

type bonusOptimizationRequest struct {
	Days             int             `json:"days"`
	TargetHires      float64         `json:"target_hires"`
	Adoption         incentive.Curve `json:"adoption"`
	InitialReferrers *int            `json:"initial_referrers,omitempty"`
	Capacity         *int            `json:"capacity,omitempty"`
}

// handleBonusOptimization handles POST /v1/optimizations/bonus.
func (s *HTTPServer) handleBonusOptimization(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req bonusOptimizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := req.Adoption.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	_, bonusCfg := s.defaults()
	ir, capacity := s.cohort(req.InitialReferrers, req.Capacity)
	optimizer := incentive.NewOptimizer(ir, capacity, bonusCfg.MaxBonus)

	bonus, found, err := optimizer.MinBonusForTarget(req.Days, req.TargetHires, req.Adoption.Prob())
	if err != nil {
		metrics.OptimizationsRun.WithLabelValues("error").Inc()
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	outcome := "found"
	if !found {
		outcome = "exhausted"
	}
	metrics.OptimizationsRun.WithLabelValues(outcome).Inc()

	resp := map[string]any{"found": found}
	if found {
		resp["bonus"] = bonus
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("invalid " + name + ": " + raw)
	}
	return v, nil
}

// sortUserIDs sorts user identifiers ascending in place.
func sortUserIDs(users []network.UserID) {
	sort.Slice(users, func(i, j int) bool { return users[i] < users[j] })
}
