// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package aggregate

import (
	"slices"

	"github.com/gogpu/compositor"
	"github.com/gogpu/compositor/frame"
	"github.com/gogpu/compositor/geom"
	"github.com/gogpu/compositor/store"
	"github.com/gogpu/compositor/surface"
)

// prewalk visits id, everything it embeds and everything its frame lists
// in Metadata.ReferencedSurfaces, returning the damage they contribute in
// root space. toRoot maps the surface's root target space into the output
// root space. drawn is false below a metadata-only reference: such
// surfaces are contained but contribute no damage and no quads.
func (r *run) prewalk(id surface.ID, toRoot geom.Matrix, drawn bool) geom.Rect {
	if !r.guard.Enter(id) {
		compositor.Logger().Debug("aggregate: cycle", "surface", id, "depth", r.guard.Depth())
		return geom.Rect{}
	}
	defer r.guard.Leave(id)

	v, ok := r.visit(id)
	if !ok {
		return geom.Rect{}
	}
	if drawn {
		r.embedCount[id]++
		r.drawn[id] = struct{}{}
	}

	f := v.Frame
	var damage geom.Rect
	for _, p := range f.Passes {
		passToRoot := toRoot.Multiply(p.TransformToRootTarget)
		for i := range p.Quads {
			ref, ok := p.Quads[i].Payload.(frame.SurfaceRef)
			if !ok {
				continue
			}
			childToRoot := passToRoot.Multiply(p.StateOf(i).QuadToTarget)
			damage = damage.Union(r.prewalk(ref.Surface, childToRoot, drawn))
			r.reach(id, ref.Surface)
		}
	}
	for _, ref := range f.Metadata.ReferencedSurfaces {
		r.referenced[ref] = struct{}{}
		r.prewalk(ref, toRoot, false)
		r.reach(id, ref)
	}
	if !drawn {
		return geom.Rect{}
	}

	vis := f.VisiblePass()
	damage = damage.Union(toRoot.Multiply(vis.TransformToRootTarget).MapRect(r.ownDamage(id, v)))
	if !damage.IsEmpty() {
		damage = damage.Union(r.filterSpread(f, toRoot, damage))
	}
	return damage
}

// reach records that parent led to child in this run. Only children that
// resolved to a drawable frame count.
func (r *run) reach(parent, child surface.ID) {
	if _, ok := r.views[child]; !ok {
		return
	}
	if !slices.Contains(r.reached[parent], child) {
		r.reached[parent] = append(r.reached[parent], child)
	}
}

// visit resolves id once per run, snapshotting its frame, detaching its
// copy requests and leasing its resources.
func (r *run) visit(id surface.ID) (store.View, bool) {
	if v, ok := r.views[id]; ok {
		return v, true
	}
	if _, bad := r.invalid[id]; bad {
		return store.View{}, false
	}

	v, ok := r.a.store.Surface(id)
	if !ok || v.Frame.VisiblePass() == nil {
		compositor.Logger().Debug("aggregate: surface has nothing to draw", "surface", id)
		r.invalid[id] = struct{}{}
		return store.View{}, false
	}
	if r.a.opts.softwareOnly && usesGPUResources(v.Frame) {
		compositor.Logger().Debug("aggregate: surface needs GPU resources", "surface", id)
		r.invalid[id] = struct{}{}
		return store.View{}, false
	}

	r.views[id] = v
	r.order = append(r.order, id)
	if reqs := r.a.store.TakeCopyRequests(id); len(reqs) > 0 {
		r.copies[id] = reqs
		r.hasCopies = true
	}
	for _, p := range v.Frame.Passes {
		for i := range p.Quads {
			if ref, ok := p.Quads[i].Payload.(frame.RenderPassRef); ok && ref.HasPixelMovingFilter() {
				r.filtered[passKey{id, ref.Pass}] = struct{}{}
			}
		}
	}
	r.lease(id, v)
	return v, true
}

// lease holds the resources of the current frame of id, replacing the
// hold on an older frame. The new hold is taken first so resources shared
// by both frames never reach the producer.
func (r *run) lease(id surface.ID, v store.View) {
	old, had := r.a.leases[id]
	if had && old.frame == v.Frame {
		return
	}
	l, ok := r.a.store.LeaseResources(id)
	if !ok {
		return
	}
	r.a.leases[id] = heldFrame{lease: l, frame: v.Frame}
	if had {
		r.a.store.Release(old.lease)
	}
}

// ownDamage returns the damage of the visible pass of id in its own space.
// It must run after the children of id were walked.
func (r *run) ownDamage(id surface.ID, v store.View) geom.Rect {
	vis := v.Frame.VisiblePass()
	full := vis.OutputRect

	if _, ok := r.a.fullDamage[id]; ok {
		return full
	}
	if len(r.copies[id]) > 0 {
		return full
	}
	hist := id
	prev, seen := r.a.contained[id]
	if !seen && !v.Previous.IsNull() {
		hist = v.Previous
		prev, seen = r.a.contained[hist]
	}
	if !seen {
		return full
	}
	if !sameSurfaceSet(r.a.reached[hist], r.reached[id]) {
		return full
	}
	switch v.FrameIndex {
	case prev:
		return geom.Rect{}
	case prev + 1:
		return vis.DamageRect.Intersect(full)
	default:
		return full
	}
}

// filterSpread returns the root-space area of pixel-moving filter quads
// that overlap damage, grown by their radius.
func (r *run) filterSpread(f *frame.Frame, toRoot geom.Matrix, damage geom.Rect) geom.Rect {
	var spread geom.Rect
	for _, p := range f.Passes {
		passToRoot := toRoot.Multiply(p.TransformToRootTarget)
		for i := range p.Quads {
			q := &p.Quads[i]
			ref, ok := q.Payload.(frame.RenderPassRef)
			if !ok || !ref.HasPixelMovingFilter() {
				continue
			}
			area := passToRoot.Multiply(p.StateOf(i).QuadToTarget).MapRect(q.Rect).Outset(ref.BlurRadius)
			if area.Intersects(damage) {
				spread = spread.Union(area)
			}
		}
	}
	return spread
}

func usesGPUResources(f *frame.Frame) bool {
	for _, res := range f.Resources {
		if !res.IsSoftware {
			return true
		}
	}
	return false
}

func sameSurfaceSet(a, b []surface.ID) bool {
	if len(a) != len(b) {
		return false
	}
	for _, id := range a {
		if !slices.Contains(b, id) {
			return false
		}
	}
	return true
}
