//go:build integration
// +build integration

package integration_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/refgraph/referral-core/internal/network"
	"github.com/refgraph/referral-core/internal/refd"
	"github.com/refgraph/referral-core/pkg/config"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := refd.NewHTTPServer(network.NewGraph(), refd.NewRunStore(), config.Default())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		t.Fatalf("encode error: %v", err)
	}
	resp, err := http.Post(url, "application/json", &buf)
	if err != nil {
		t.Fatalf("POST %s error: %v", url, err)
	}
	defer resp.Body.Close()
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	return resp, out
}

func getJSON(t *testing.T, url string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s error: %v", url, err)
	}
	defer resp.Body.Close()
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	return resp, out
}

// TestIntegration_ReferralsToAnalytics drives the full path: build a
// network over HTTP, then query every analytics endpoint.
func TestIntegration_ReferralsToAnalytics(t *testing.T) {
	ts := newServer(t)

	for _, e := range [][2]string{{"a", "b"}, {"b", "c"}, {"a", "d"}, {"e", "f"}} {
		resp, _ := postJSON(t, ts.URL+"/v1/referrals",
			map[string]string{"referrer": e[0], "candidate": e[1]})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("add %s->%s: status %d", e[0], e[1], resp.StatusCode)
		}
	}

	// A cycle attempt is rejected and does not corrupt the graph.
	resp, body := postJSON(t, ts.URL+"/v1/referrals",
		map[string]string{"referrer": "c", "candidate": "a"})
	if resp.StatusCode != http.StatusConflict || body["reason"] != "cycle" {
		t.Fatalf("expected cycle conflict, got %d %v", resp.StatusCode, body)
	}

	resp, body = getJSON(t, ts.URL+"/v1/users/a/reach")
	if resp.StatusCode != http.StatusOK || body["total"] != float64(3) {
		t.Errorf("reach(a): expected total 3, got %v", body)
	}

	_, body = getJSON(t, ts.URL+"/v1/analytics/top-referrers?k=1")
	results, _ := body["results"].([]any)
	if len(results) != 1 {
		t.Fatalf("expected 1 top referrer, got %v", body)
	}
	top, _ := results[0].(map[string]any)
	if top["user"] != "a" || top["reach"] != float64(3) {
		t.Errorf("expected top referrer {a 3}, got %v", top)
	}

	_, body = getJSON(t, ts.URL+"/v1/analytics/influencers?m=2")
	selections, _ := body["selections"].([]any)
	if len(selections) != 2 {
		t.Fatalf("expected 2 influencer selections, got %v", body)
	}

	_, body = getJSON(t, ts.URL+"/v1/analytics/flow-centrality")
	scores, _ := body["scores"].(map[string]any)
	if scores["b"] != float64(1) {
		t.Errorf("flow centrality: score(b) = %v, want 1", scores["b"])
	}
}

// TestIntegration_SimulationLifecycle creates a run, lists it and
// fetches it by ID.
func TestIntegration_SimulationLifecycle(t *testing.T) {
	ts := newServer(t)

	resp, body := postJSON(t, ts.URL+"/v1/simulations",
		map[string]any{"probability": 1, "days": 10})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create simulation: status %d", resp.StatusCode)
	}
	id, _ := body["id"].(string)
	series, _ := body["cumulative"].([]any)
	if len(series) != 10 || series[9] != float64(1000) {
		t.Fatalf("expected 10-day series ending at 1000, got %v", series)
	}

	resp, body = getJSON(t, ts.URL+"/v1/simulations/"+id)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get simulation: status %d", resp.StatusCode)
	}
	if body["id"] != id {
		t.Errorf("expected run %s, got %v", id, body["id"])
	}

	_, body = getJSON(t, ts.URL+"/v1/simulations")
	runs, _ := body["runs"].([]any)
	if len(runs) != 1 {
		t.Errorf("expected 1 run listed, got %d", len(runs))
	}
}

// TestIntegration_SeedThenOptimize seeds a synthetic network, then
// runs days-to-target and the bonus optimizer.
func TestIntegration_SeedThenOptimize(t *testing.T) {
	ts := newServer(t)

	resp, body := postJSON(t, ts.URL+"/v1/network/seed",
		map[string]any{"shape": "random", "users": 50, "prefix": "u", "seed": 7})
	if resp.StatusCode != http.StatusCreated || body["added"] != float64(50) {
		t.Fatalf("seed: status %d body %v", resp.StatusCode, body)
	}

	resp, body = postJSON(t, ts.URL+"/v1/simulations/days-to-target",
		map[string]any{"probability": 1, "target_total": 500})
	if resp.StatusCode != http.StatusOK || body["found"] != true || body["days"] != float64(5) {
		t.Fatalf("days-to-target: expected day 5, got %v", body)
	}

	resp, body = postJSON(t, ts.URL+"/v1/optimizations/bonus", map[string]any{
		"days":         10,
		"target_hires": 600,
		"adoption":     map[string]any{"kind": "linear", "max_probability": 1, "scale": 100},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("optimize: status %d", resp.StatusCode)
	}
	if body["found"] != true || body["bonus"] != float64(60) {
		t.Errorf("expected minimal bonus 60, got %v", body)
	}
}

// TestIntegration_MetricsEndpoint verifies the Prometheus endpoint is
// mounted.
func TestIntegration_MetricsEndpoint(t *testing.T) {
	ts := newServer(t)

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("metrics: status %d, want 200", resp.StatusCode)
	}
}
