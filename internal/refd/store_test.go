package refd

import (
	"testing"
)

func TestRunStoreCreateAndGet(t *testing.T) {
	store := NewRunStore()

	input := SimulationInput{Probability: 0.5, Days: 3, InitialReferrers: 100, Capacity: 10}
	rec, err := store.Create("", input, []float64{50, 95, 135.5})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if rec.ID == "" {
		t.Error("expected a generated run ID")
	}

	got, ok := store.Get(rec.ID)
	if !ok {
		t.Fatalf("expected run %s to exist", rec.ID)
	}
	if got.Input != input {
		t.Errorf("stored input = %+v, want %+v", got.Input, input)
	}
	if len(got.Cumulative) != 3 {
		t.Errorf("expected 3 cumulative values, got %d", len(got.Cumulative))
	}
}

func TestRunStoreDuplicateID(t *testing.T) {
	store := NewRunStore()

	if _, err := store.Create("run-1", SimulationInput{}, nil); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if _, err := store.Create("run-1", SimulationInput{}, nil); err == nil {
		t.Error("expected error for duplicate run ID")
	}
}

func TestRunStoreGetMissing(t *testing.T) {
	store := NewRunStore()
	if _, ok := store.Get("nope"); ok {
		t.Error("expected missing run to not be found")
	}
}

func TestRunStoreListNewestFirst(t *testing.T) {
	store := NewRunStore()

	ids := []string{"r1", "r2", "r3"}
	for _, id := range ids {
		if _, err := store.Create(id, SimulationInput{}, nil); err != nil {
			t.Fatalf("Create error: %v", err)
		}
	}

	runs := store.List(0)
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	if runs[0].ID != "r3" || runs[2].ID != "r1" {
		t.Errorf("expected newest-first ordering, got %s..%s", runs[0].ID, runs[2].ID)
	}

	limited := store.List(2)
	if len(limited) != 2 {
		t.Fatalf("expected 2 runs with limit, got %d", len(limited))
	}
	if limited[0].ID != "r3" || limited[1].ID != "r2" {
		t.Errorf("expected r3, r2 with limit 2, got %s, %s", limited[0].ID, limited[1].ID)
	}

	if store.Len() != 3 {
		t.Errorf("Len() = %d, want 3", store.Len())
	}
}
