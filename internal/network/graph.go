package network

import (
	"errors"
	"fmt"
	"sort"
)

// UserID identifies a participant in the referral network. It carries
// no attributes; uniqueness is the only property the engine relies on.
type UserID string

var (
	ErrSelfReferral      = errors.New("self-referrals are not allowed")
	ErrDuplicateReferrer = errors.New("candidate already has a referrer")
	ErrCycle             = errors.New("referral would create a cycle")
)

// Graph stores the referral network as a DAG with a single incoming
// edge per candidate. Edges are append-only; there is no deletion.
type Graph struct {
	adj   map[UserID]map[UserID]struct{} // referrer -> direct referrals
	rev   map[UserID]UserID              // candidate -> referrer
	users map[UserID]struct{}
	edges int
}

// NewGraph creates an empty referral graph
func NewGraph() *Graph {
	return &Graph{
		adj:   make(map[UserID]map[UserID]struct{}),
		rev:   make(map[UserID]UserID),
		users: make(map[UserID]struct{}),
	}
}

// AddReferral adds the directed edge referrer -> candidate. Both users
// are registered on first sight. The checks run in order and the graph
// is never mutated on failure:
//
//  1. referrer == candidate           -> ErrSelfReferral
//  2. candidate already has a referrer -> ErrDuplicateReferrer
//  3. candidate can reach referrer     -> ErrCycle
func (g *Graph) AddReferral(referrer, candidate UserID) error {
	if referrer == candidate {
		return fmt.Errorf("%w: %q", ErrSelfReferral, referrer)
	}
	if existing, ok := g.rev[candidate]; ok {
		return fmt.Errorf("%w: %q already referred by %q", ErrDuplicateReferrer, candidate, existing)
	}
	if g.pathExists(candidate, referrer) {
		return fmt.Errorf("%w: %q already reaches %q", ErrCycle, candidate, referrer)
	}

	g.ensureUser(referrer)
	g.ensureUser(candidate)
	g.adj[referrer][candidate] = struct{}{}
	g.rev[candidate] = referrer
	g.edges++
	return nil
}

// DirectReferrals returns the users directly referred by user, sorted
// ascending. Unknown or childless users yield an empty slice.
func (g *Graph) DirectReferrals(user UserID) []UserID {
	out := make([]UserID, 0, len(g.adj[user]))
	for v := range g.adj[user] {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Referrer returns the user that referred candidate, if any.
func (g *Graph) Referrer(candidate UserID) (UserID, bool) {
	r, ok := g.rev[candidate]
	return r, ok
}

// HasUser reports whether user is known to the graph.
func (g *Graph) HasUser(user UserID) bool {
	_, ok := g.users[user]
	return ok
}

// Users returns all known users sorted ascending.
func (g *Graph) Users() []UserID {
	out := make([]UserID, 0, len(g.users))
	for u := range g.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// UserCount returns the number of known users.
func (g *Graph) UserCount() int {
	return len(g.users)
}

// EdgeCount returns the number of referral edges.
func (g *Graph) EdgeCount() int {
	return g.edges
}

// ensureUser registers user on first sight.
func (g *Graph) ensureUser(user UserID) {
	if _, ok := g.users[user]; ok {
		return
	}
	g.users[user] = struct{}{}
	g.adj[user] = make(map[UserID]struct{})
}

// pathExists reports whether target is reachable from src via existing
// edges (BFS over outgoing edges).
func (g *Graph) pathExists(src, target UserID) bool {
	if src == target {
		return true
	}
	visited := map[UserID]struct{}{src: {}}
	queue := []UserID{src}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for v := range g.adj[u] {
			if v == target {
				return true
			}
			if _, seen := visited[v]; !seen {
				visited[v] = struct{}{}
				queue = append(queue, v)
			}
		}
	}
	return false
}
