// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package hittest finds which surface is visible at a point of a root
// surface, and how root coordinates map into an embedded surface.
//
// Quads are stored in paint order, so the tester scans them from last to
// first: the first quad containing the point is the topmost one. Surface
// and render-pass quads are entered recursively; when nothing inside them
// is hit the scan continues below them.
package hittest

import (
	"github.com/gogpu/compositor"
	"github.com/gogpu/compositor/frame"
	"github.com/gogpu/compositor/geom"
	"github.com/gogpu/compositor/internal/graph"
	"github.com/gogpu/compositor/store"
	"github.com/gogpu/compositor/surface"
)

// Result describes a hit.
type Result struct {
	// Surface is the innermost surface drawing a quad at the point.
	Surface surface.ID

	// Point is the query point in Surface's coordinate space.
	Point geom.Point

	// Transform maps root coordinates into Surface's coordinate space.
	Transform geom.Matrix
}

// passKey identifies a pass visited during one query.
type passKey struct {
	surface surface.ID
	pass    frame.PassID
}

// Tester answers hit-test queries against the frames held by a store.
type Tester struct {
	store *store.Manager
}

// New returns a tester reading from m.
func New(m *store.Manager) *Tester {
	return &Tester{store: m}
}

// HitTest returns the surface drawing the topmost quad at pt, given in the
// coordinate space of root.
func (t *Tester) HitTest(root surface.ID, pt geom.Point) (Result, bool) {
	q := query{t: t, guard: graph.NewGuard[passKey]()}
	s, toTarget, ok := q.hitSurface(root, pt)
	if !ok {
		return Result{}, false
	}
	return Result{Surface: s, Point: toTarget.TransformPoint(pt), Transform: toTarget}, true
}

// TransformToTarget returns the transform from root coordinates into the
// coordinate space of target, following the first embedding of target in
// paint order.
func (t *Tester) TransformToTarget(root, target surface.ID) (geom.Matrix, bool) {
	if root == target {
		return geom.Identity(), true
	}
	q := query{t: t, guard: graph.NewGuard[passKey]()}
	return q.findSurface(root, target)
}

type query struct {
	t     *Tester
	guard *graph.Guard[passKey]
}

// visiblePass resolves the visible pass of s, applying the inverse of its
// root-target transform.
func (q *query) visiblePass(s surface.ID) (*frame.Frame, *frame.Pass, geom.Matrix, bool) {
	v, ok := q.t.store.Surface(s)
	if !ok {
		return nil, nil, geom.Matrix{}, false
	}
	vis := v.Frame.VisiblePass()
	if vis == nil {
		return nil, nil, geom.Matrix{}, false
	}
	fromRoot, ok := vis.TransformToRootTarget.Invert()
	if !ok {
		return nil, nil, geom.Matrix{}, false
	}
	return v.Frame, vis, fromRoot, true
}

func (q *query) hitSurface(s surface.ID, pt geom.Point) (surface.ID, geom.Matrix, bool) {
	f, vis, fromRoot, ok := q.visiblePass(s)
	if !ok {
		return surface.Null, geom.Matrix{}, false
	}
	hit, toTarget, ok := q.hitPass(s, f, vis, fromRoot.TransformPoint(pt))
	if !ok {
		return surface.Null, geom.Matrix{}, false
	}
	return hit, toTarget.Multiply(fromRoot), true
}

// hitPass scans p front to back for a quad containing pt, given in pass
// space. The returned transform maps pass space into the space of the hit
// surface.
func (q *query) hitPass(s surface.ID, f *frame.Frame, p *frame.Pass, pt geom.Point) (surface.ID, geom.Matrix, bool) {
	key := passKey{s, p.ID}
	if !q.guard.Enter(key) {
		compositor.Logger().Debug("hittest: pass revisited", "surface", s, "pass", p.ID)
		return surface.Null, geom.Matrix{}, false
	}
	defer q.guard.Leave(key)

	for i := len(p.Quads) - 1; i >= 0; i-- {
		quad := &p.Quads[i]
		toQuad, inQuad, ok := pointInQuad(p, i, pt)
		if !ok {
			continue
		}

		switch pl := quad.Payload.(type) {
		case frame.SurfaceRef:
			if hit, toChild, ok := q.hitSurface(pl.Surface, inQuad); ok {
				return hit, toChild.Multiply(toQuad), true
			}
		case frame.RenderPassRef:
			inner, ok := f.Pass(pl.Pass)
			if !ok {
				continue
			}
			if hit, toInner, ok := q.hitPass(s, f, inner, inQuad); ok {
				return hit, toInner.Multiply(toQuad), true
			}
		case nil:
			continue
		default:
			return s, p.TransformToRootTarget, true
		}
	}
	return surface.Null, geom.Matrix{}, false
}

// pointInQuad maps pt from pass space into the space of quad i and
// reports whether it lands inside the quad and its clip.
func pointInQuad(p *frame.Pass, i int, pt geom.Point) (geom.Matrix, geom.Point, bool) {
	quad := &p.Quads[i]
	state := p.StateOf(i)
	if state.IsClipped && !state.ClipRect.ContainsPoint(pt) {
		return geom.Matrix{}, geom.Point{}, false
	}
	toQuad, ok := state.QuadToTarget.Invert()
	if !ok {
		return geom.Matrix{}, geom.Point{}, false
	}
	inQuad := toQuad.TransformPoint(pt)
	if !quad.Rect.ContainsPoint(inQuad) {
		return geom.Matrix{}, geom.Point{}, false
	}
	return toQuad, inQuad, true
}

func (q *query) findSurface(s, target surface.ID) (geom.Matrix, bool) {
	f, vis, fromRoot, ok := q.visiblePass(s)
	if !ok {
		return geom.Matrix{}, false
	}
	toTarget, ok := q.findInPass(s, target, f, vis)
	if !ok {
		return geom.Matrix{}, false
	}
	return toTarget.Multiply(fromRoot), true
}

// findInPass returns the transform from the space of p into target.
func (q *query) findInPass(s, target surface.ID, f *frame.Frame, p *frame.Pass) (geom.Matrix, bool) {
	key := passKey{s, p.ID}
	if !q.guard.Enter(key) {
		return geom.Matrix{}, false
	}
	defer q.guard.Leave(key)

	for i := range p.Quads {
		var toChild geom.Matrix
		var found bool

		switch pl := p.Quads[i].Payload.(type) {
		case frame.SurfaceRef:
			if pl.Surface == target {
				toChild, found = geom.Identity(), true
			} else {
				toChild, found = q.findSurface(pl.Surface, target)
			}
		case frame.RenderPassRef:
			if inner, ok := f.Pass(pl.Pass); ok {
				toChild, found = q.findInPass(s, target, f, inner)
			}
		default:
			continue
		}
		if !found {
			continue
		}
		toQuad, ok := p.StateOf(i).QuadToTarget.Invert()
		if !ok {
			continue
		}
		return toChild.Multiply(toQuad), true
	}
	return geom.Matrix{}, false
}
