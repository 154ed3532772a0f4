// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package graph holds traversal helpers shared by the aggregator and the
// hit-tester.
package graph

// Guard tracks the nodes on the current traversal path so that a walk over
// a possibly cyclic graph never enters a node that is its own ancestor.
// Siblings may repeat a node; only the ancestor chain is checked.
type Guard[K comparable] struct {
	onPath map[K]struct{}
	path   []K
}

// NewGuard returns an empty guard.
func NewGuard[K comparable]() *Guard[K] {
	return &Guard[K]{onPath: make(map[K]struct{})}
}

// Enter pushes k onto the path. It returns false, leaving the path
// unchanged, when k is already an ancestor.
func (g *Guard[K]) Enter(k K) bool {
	if _, ok := g.onPath[k]; ok {
		return false
	}
	g.onPath[k] = struct{}{}
	g.path = append(g.path, k)
	return true
}

// Leave pops k, which must be the most recently entered node.
func (g *Guard[K]) Leave(k K) {
	delete(g.onPath, k)
	if n := len(g.path); n > 0 && g.path[n-1] == k {
		g.path = g.path[:n-1]
	}
}

// Contains reports whether k is on the current path.
func (g *Guard[K]) Contains(k K) bool {
	_, ok := g.onPath[k]
	return ok
}

// Depth returns the length of the current path.
func (g *Guard[K]) Depth() int {
	return len(g.path)
}

// Path returns a copy of the current path, outermost first.
func (g *Guard[K]) Path() []K {
	return append([]K(nil), g.path...)
}
