package refd

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SimulationInput records the parameters a simulation ran with.
type SimulationInput struct {
	Probability      float64 `json:"probability"`
	Days             int     `json:"days"`
	InitialReferrers int     `json:"initial_referrers"`
	Capacity         int     `json:"capacity"`
}

// SimulationRecord is a completed simulation run held in memory.
type SimulationRecord struct {
	ID         string          `json:"id"`
	CreatedAt  time.Time       `json:"created_at"`
	Input      SimulationInput `json:"input"`
	Cumulative []float64       `json:"cumulative"`
}

// RunStore holds simulation records in memory. Records are immutable
// once created; results live only for the lifetime of the process.
type RunStore struct {
	mu    sync.RWMutex
	runs  map[string]*SimulationRecord
	order []string // insertion order, oldest first
}

// NewRunStore creates an empty run store
func NewRunStore() *RunStore {
	return &RunStore{
		runs: make(map[string]*SimulationRecord),
	}
}

// Create stores a completed simulation and returns its record. An
// empty runID gets a generated UUID.
func (s *RunStore) Create(runID string, input SimulationInput, cumulative []float64) (*SimulationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if runID == "" {
		runID = uuid.NewString()
	}
	if _, exists := s.runs[runID]; exists {
		return nil, fmt.Errorf("run already exists: %s", runID)
	}

	rec := &SimulationRecord{
		ID:         runID,
		CreatedAt:  time.Now().UTC(),
		Input:      input,
		Cumulative: cumulative,
	}
	s.runs[runID] = rec
	s.order = append(s.order, runID)
	return rec, nil
}

// Get returns the record for runID, if present.
func (s *RunStore) Get(runID string) (*SimulationRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.runs[runID]
	return rec, ok
}

// List returns up to limit records, newest first. limit <= 0 selects
// a default of 50.
func (s *RunStore) List(limit int) []*SimulationRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	if limit > len(s.order) {
		limit = len(s.order)
	}

	out := make([]*SimulationRecord, 0, limit)
	for i := len(s.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.runs[s.order[i]])
	}
	return out
}

// Len returns the number of stored records.
func (s *RunStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
