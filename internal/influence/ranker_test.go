package influence

import (
	"testing"

	"github.com/refgraph/referral-core/internal/network"
)

func buildGraph(t *testing.T, edges [][2]network.UserID) *network.Graph {
	t.Helper()
	g := network.NewGraph()
	for _, e := range edges {
		if err := g.AddReferral(e[0], e[1]); err != nil {
			t.Fatalf("AddReferral(%s, %s) error: %v", e[0], e[1], err)
		}
	}
	return g
}

func TestUniqueReachGreedy(t *testing.T) {
	// a -> {b, c}, d -> e.
	g := buildGraph(t, [][2]network.UserID{{"a", "b"}, {"a", "c"}, {"d", "e"}})
	r := NewRanker(g)

	got := r.UniqueReachGreedy(2)
	if len(got) != 2 {
		t.Fatalf("expected 2 selections, got %d", len(got))
	}
	if got[0].User != "a" || got[0].MarginalGain != 2 {
		t.Errorf("first pick = %+v, want {a 2}", got[0])
	}
	if got[1].User != "d" || got[1].MarginalGain != 1 {
		t.Errorf("second pick = %+v, want {d 1}", got[1])
	}
}

func TestUniqueReachGreedyStopsAtZeroGain(t *testing.T) {
	g := buildGraph(t, [][2]network.UserID{{"a", "b"}})
	r := NewRanker(g)

	// Only a has any reach; requesting more picks must stop early.
	got := r.UniqueReachGreedy(5)
	if len(got) != 1 {
		t.Fatalf("expected 1 selection, got %d", len(got))
	}
	if got[0].User != "a" || got[0].MarginalGain != 1 {
		t.Errorf("pick = %+v, want {a 1}", got[0])
	}
}

func TestUniqueReachGreedyOverlappingReach(t *testing.T) {
	// a -> b -> c: reach(a) = {b, c}, reach(b) = {c}. After picking a,
	// b contributes nothing new.
	g := buildGraph(t, [][2]network.UserID{{"a", "b"}, {"b", "c"}})
	r := NewRanker(g)

	got := r.UniqueReachGreedy(3)
	if len(got) != 1 {
		t.Fatalf("expected 1 selection, got %d: %+v", len(got), got)
	}
	if got[0].User != "a" || got[0].MarginalGain != 2 {
		t.Errorf("pick = %+v, want {a 2}", got[0])
	}
}

func TestUniqueReachGreedyTieBreak(t *testing.T) {
	// y -> q and x -> p both have gain 1; x wins by identifier.
	g := buildGraph(t, [][2]network.UserID{{"y", "q"}, {"x", "p"}})
	r := NewRanker(g)

	got := r.UniqueReachGreedy(2)
	if len(got) != 2 {
		t.Fatalf("expected 2 selections, got %d", len(got))
	}
	if got[0].User != "x" {
		t.Errorf("tie-break should pick x first, got %s", got[0].User)
	}
	if got[1].User != "y" {
		t.Errorf("expected y second, got %s", got[1].User)
	}
}

func TestUniqueReachGreedyBounds(t *testing.T) {
	g := buildGraph(t, [][2]network.UserID{{"a", "b"}})
	r := NewRanker(g)

	if got := r.UniqueReachGreedy(0); len(got) != 0 {
		t.Errorf("m=0 should return empty, got %v", got)
	}
	if got := r.UniqueReachGreedy(-1); len(got) != 0 {
		t.Errorf("negative m should return empty, got %v", got)
	}
}

func TestFlowCentralityChain(t *testing.T) {
	// a -> b -> c: b brokers the single pair (a, c).
	g := buildGraph(t, [][2]network.UserID{{"a", "b"}, {"b", "c"}})
	r := NewRanker(g)

	scores := r.FlowCentralityScores()
	if scores["b"] != 1 {
		t.Errorf("score(b) = %d, want 1", scores["b"])
	}
	if scores["a"] != 0 {
		t.Errorf("score(a) = %d, want 0", scores["a"])
	}
	if scores["c"] != 0 {
		t.Errorf("score(c) = %d, want 0", scores["c"])
	}
}

func TestFlowCentralityLongerChain(t *testing.T) {
	// a -> b -> c -> d: b on (a,c), (a,d); c on (a,d), (b,d).
	g := buildGraph(t, [][2]network.UserID{{"a", "b"}, {"b", "c"}, {"c", "d"}})
	r := NewRanker(g)

	scores := r.FlowCentralityScores()
	if scores["b"] != 2 {
		t.Errorf("score(b) = %d, want 2", scores["b"])
	}
	if scores["c"] != 2 {
		t.Errorf("score(c) = %d, want 2", scores["c"])
	}
	if scores["a"] != 0 || scores["d"] != 0 {
		t.Errorf("endpoints should score 0, got a=%d d=%d", scores["a"], scores["d"])
	}
}

func TestFlowCentralityStar(t *testing.T) {
	// root -> {x, y}: every path is a single hop, nobody brokers.
	g := buildGraph(t, [][2]network.UserID{{"root", "x"}, {"root", "y"}})
	r := NewRanker(g)

	for user, score := range r.FlowCentralityScores() {
		if score != 0 {
			t.Errorf("score(%s) = %d, want 0 in a star", user, score)
		}
	}
}

func TestFlowCentralityEmptyGraph(t *testing.T) {
	r := NewRanker(network.NewGraph())
	if scores := r.FlowCentralityScores(); len(scores) != 0 {
		t.Errorf("expected empty scores for empty graph, got %v", scores)
	}
}
