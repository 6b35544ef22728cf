package network

import "sort"

// Analyzer computes downstream reach over a Graph. It is a read-only
// view: every query walks the graph's current state, nothing is cached
// across mutations.
type Analyzer struct {
	g *Graph
}

// NewAnalyzer creates a reach analyzer over g
func NewAnalyzer(g *Graph) *Analyzer {
	return &Analyzer{g: g}
}

// ReachScore pairs a user with the size of its reach set.
type ReachScore struct {
	User  UserID `json:"user"`
	Reach int    `json:"reach"`
}

// ReachSet returns every user reachable from user via one or more
// referral edges, excluding user itself.
func (a *Analyzer) ReachSet(user UserID) map[UserID]struct{} {
	visited := make(map[UserID]struct{})
	queue := []UserID{user}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for v := range a.g.adj[u] {
			if _, seen := visited[v]; !seen {
				visited[v] = struct{}{}
				queue = append(queue, v)
			}
		}
	}
	delete(visited, user)
	return visited
}

// TotalReferralCount returns the number of unique users downstream of user.
func (a *Analyzer) TotalReferralCount(user UserID) int {
	return len(a.ReachSet(user))
}

// TopReferrersByReach returns the k users with the largest reach sets,
// descending by reach and ascending by identifier on ties. k <= 0
// yields an empty slice; fewer than k users yields all of them.
func (a *Analyzer) TopReferrersByReach(k int) []ReachScore {
	if k <= 0 {
		return []ReachScore{}
	}

	scores := make([]ReachScore, 0, len(a.g.users))
	for _, u := range a.g.Users() {
		scores = append(scores, ReachScore{User: u, Reach: a.TotalReferralCount(u)})
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Reach != scores[j].Reach {
			return scores[i].Reach > scores[j].Reach
		}
		return scores[i].User < scores[j].User
	})

	if k > len(scores) {
		k = len(scores)
	}
	return scores[:k]
}
