// Package dependency checks that cross-unit dependsOn references form a
// directed acyclic graph.
package dependency

import (
	"sync"
)

// Graph is an incrementally built directed graph of unit names. Edges are
// only added when they keep the graph acyclic.
type Graph struct {
	mu    sync.Mutex
	edges map[string][]string
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{edges: make(map[string][]string)}
}

// Validate adds the edges chain[0] -> chain[i] for every i > 0. It returns
// false, adding nothing further, as soon as an edge would close a cycle.
// Edges accepted before the failing one stay in the graph.
func (g *Graph) Validate(chain ...string) bool {
	if len(chain) < 2 {
		return true
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	src := chain[0]
	for _, dst := range chain[1:] {
		if src == dst || g.reachable(dst, src) {
			return false
		}
		if !g.hasEdge(src, dst) {
			g.edges[src] = append(g.edges[src], dst)
		}
	}
	return true
}

func (g *Graph) hasEdge(src, dst string) bool {
	for _, d := range g.edges[src] {
		if d == dst {
			return true
		}
	}
	return false
}

// reachable reports whether to can be reached from from.
func (g *Graph) reachable(from, to string) bool {
	visited := map[string]bool{}
	stack := []string{from}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == to {
			return true
		}
		if visited[n] {
			continue
		}
		visited[n] = true
		stack = append(stack, g.edges[n]...)
	}
	return false
}
