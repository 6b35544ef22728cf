// Package influence ranks referral-network participants under two
// notions of influence: unique downstream coverage (greedy set cover)
// and brokerage (how often a user sits on shortest referral paths).
package influence

import (
	"github.com/refgraph/referral-core/internal/network"
)

// Ranker computes influence rankings over a referral graph. Like the
// reach analyzer it is a read-only view; every call recomputes from
// the graph's current state.
type Ranker struct {
	g *network.Graph
}

// NewRanker creates a ranker over g
func NewRanker(g *network.Graph) *Ranker {
	return &Ranker{g: g}
}

// Selection records one greedy pick and the coverage it added.
type Selection struct {
	User         network.UserID `json:"user"`
	MarginalGain int            `json:"marginal_gain"`
}

// UniqueReachGreedy selects up to m users maximizing unique downstream
// coverage. Each round picks the unselected user whose reach set adds
// the most nodes not yet covered; ties resolve to the ascending
// identifier. Selection stops early once the best marginal gain is 0.
func (r *Ranker) UniqueReachGreedy(m int) []Selection {
	selections := []Selection{}
	if m <= 0 {
		return selections
	}

	users := r.g.Users()
	analyzer := network.NewAnalyzer(r.g)
	reach := make(map[network.UserID]map[network.UserID]struct{}, len(users))
	for _, u := range users {
		reach[u] = analyzer.ReachSet(u)
	}

	covered := make(map[network.UserID]struct{})
	selected := make(map[network.UserID]struct{})

	for len(selections) < m {
		var best network.UserID
		bestGain := -1
		// users is sorted ascending, so a strict > keeps the smallest
		// identifier on ties.
		for _, u := range users {
			if _, done := selected[u]; done {
				continue
			}
			gain := 0
			for v := range reach[u] {
				if _, ok := covered[v]; !ok {
					gain++
				}
			}
			if gain > bestGain {
				bestGain = gain
				best = u
			}
		}

		if bestGain <= 0 {
			break
		}

		selected[best] = struct{}{}
		for v := range reach[best] {
			covered[v] = struct{}{}
		}
		selections = append(selections, Selection{User: best, MarginalGain: bestGain})
	}

	return selections
}

// FlowCentralityScores counts, for every user v, the ordered pairs
// (s, t) of distinct other users such that v lies on a shortest
// directed path from s to t: dist(s,v) + dist(v,t) == dist(s,t).
//
// Distances from every source are recomputed per invocation, never
// cached across mutations. The O(V*(V+E)) distance phase plus the
// cubic pair scan is the dominant cost of the engine and the accepted
// scalability ceiling for this analysis.
func (r *Ranker) FlowCentralityScores() map[network.UserID]int {
	users := r.g.Users()

	dist := make(map[network.UserID]map[network.UserID]int, len(users))
	for _, u := range users {
		dist[u] = r.bfsDistances(u)
	}

	scores := make(map[network.UserID]int, len(users))
	for _, u := range users {
		scores[u] = 0
	}

	for _, s := range users {
		for _, t := range users {
			if s == t {
				continue
			}
			dst, ok := dist[s][t]
			if !ok {
				continue
			}
			for _, v := range users {
				if v == s || v == t {
					continue
				}
				dsv, ok := dist[s][v]
				if !ok {
					continue
				}
				dvt, ok := dist[v][t]
				if !ok {
					continue
				}
				if dsv+dvt == dst {
					scores[v]++
				}
			}
		}
	}

	return scores
}

// bfsDistances returns shortest-path distances in edge hops from src to
// every reachable user, including src at distance 0.
func (r *Ranker) bfsDistances(src network.UserID) map[network.UserID]int {
	dist := map[network.UserID]int{src: 0}
	queue := []network.UserID{src}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, v := range r.g.DirectReferrals(u) {
			if _, seen := dist[v]; !seen {
				dist[v] = dist[u] + 1
				queue = append(queue, v)
			}
		}
	}
	return dist
}
