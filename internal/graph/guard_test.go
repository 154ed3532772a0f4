// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package graph

import "testing"

func TestGuard(t *testing.T) {
	g := NewGuard[string]()
	if !g.Enter("a") || !g.Enter("b") {
		t.Fatal("Enter() on fresh nodes = false, want true")
	}
	if g.Enter("a") {
		t.Error("Enter(ancestor) = true, want false")
	}
	if got := g.Depth(); got != 2 {
		t.Errorf("Depth() = %d, want 2", got)
	}

	g.Leave("b")
	if g.Contains("b") {
		t.Error("Contains(b) after Leave = true")
	}
	// A sibling may revisit a node that is no longer an ancestor.
	if !g.Enter("b") {
		t.Error("Enter(sibling) = false, want true")
	}
	if p := g.Path(); len(p) != 2 || p[0] != "a" || p[1] != "b" {
		t.Errorf("Path() = %v, want [a b]", p)
	}
}
