// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package aggregate

import (
	"maps"
	"slices"

	"github.com/gogpu/compositor"
	"github.com/gogpu/compositor/frame"
	"github.com/gogpu/compositor/geom"
	"github.com/gogpu/compositor/internal/graph"
	"github.com/gogpu/compositor/resource"
	"github.com/gogpu/compositor/store"
	"github.com/gogpu/compositor/surface"
)

// heldFrame is a resource lease together with the frame it was taken for.
type heldFrame struct {
	lease store.Lease
	frame *frame.Frame
}

// Aggregator produces flattened frames from a store.
type Aggregator struct {
	store *store.Manager
	opts  options

	// contained maps each surface contained in the previous run to the
	// frame index it had. Referenced surfaces without a frame map to -1.
	contained map[surface.ID]int

	// reached records the surfaces each contained surface led to.
	reached map[surface.ID][]surface.ID

	fullDamage map[surface.ID]struct{}
	leases     map[surface.ID]heldFrame
	resources  map[resource.ID]ResourceKey
}

// New creates an aggregator reading from m.
func New(m *store.Manager, opts ...Option) *Aggregator {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Aggregator{
		store:      m,
		opts:       o,
		contained:  make(map[surface.ID]int),
		reached:    make(map[surface.ID][]surface.ID),
		fullDamage: make(map[surface.ID]struct{}),
		leases:     make(map[surface.ID]heldFrame),
	}
}

// Aggregate flattens the graph rooted at root. It reports false when root
// is unknown, has no frame, has a frame without passes, or cannot be drawn
// by a software-only output.
//
// The returned frame contains no surface quads. Its metadata lists the
// surfaces that contributed content, in the order they were reached.
func (a *Aggregator) Aggregate(root surface.ID) (*frame.Frame, bool) {
	v, ok := a.store.Surface(root)
	if !ok || v.Frame.VisiblePass() == nil {
		compositor.Logger().Debug("aggregate: root has nothing to draw", "surface", root)
		return nil, false
	}

	r := newRun(a)
	damage := r.prewalk(root, geom.Identity(), true)
	rv, ok := r.views[root]
	if !ok {
		a.commit(r)
		return nil, false
	}
	vis := rv.Frame.VisiblePass()
	r.rootDamage = damage.Intersect(vis.TransformToRootTarget.MapRect(vis.OutputRect))
	r.cull = a.opts.damageOptimization && !r.hasCopies

	r.copyUndrawn()
	r.copyRoot(root)
	if r.cull {
		r.out = pruneUnreferenced(r.out)
	}
	r.discardCopies()

	out := &frame.Frame{
		DeviceScale: rv.Frame.DeviceScale,
		Passes:      r.out,
		Resources:   r.res.list,
		Metadata:    frame.Metadata{ReferencedSurfaces: r.contributors()},
	}
	a.commit(r)

	compositor.Logger().Debug("aggregate: done",
		"root", root,
		"passes", len(out.Passes),
		"quads", out.QuadCount(),
		"surfaces", len(out.Metadata.ReferencedSurfaces),
		"damage", r.rootDamage,
	)
	return out, true
}

// SetFullDamage makes the next run treat id as fully damaged.
func (a *Aggregator) SetFullDamage(id surface.ID) {
	a.fullDamage[id] = struct{}{}
}

// SetOutputSecure changes whether the output may show secure-only textures.
func (a *Aggregator) SetOutputSecure(secure bool) {
	a.opts.outputSecure = secure
}

// PreviousContainedSurfaces returns the surfaces contained in the previous
// run, mapped to their frame index. Surfaces reached only through
// Metadata.ReferencedSurfaces are included; those that had no frame map
// to -1.
func (a *Aggregator) PreviousContainedSurfaces() map[surface.ID]int {
	return maps.Clone(a.contained)
}

// ResolveResource maps an output resource id of the previous run back to
// the producing surface and local id.
func (a *Aggregator) ResolveResource(id resource.ID) (ResourceKey, bool) {
	k, ok := a.resources[id]
	return k, ok
}

// ReleaseResources drops every resource hold and forgets the damage
// history. The next run starts from full damage.
func (a *Aggregator) ReleaseResources() {
	for id, h := range a.leases {
		a.store.Release(h.lease)
		delete(a.leases, id)
	}
	clear(a.contained)
	clear(a.reached)
	a.resources = nil
}

// commit stores the history of r and releases holds on surfaces that
// are no longer drawn.
func (a *Aggregator) commit(r *run) {
	contained := make(map[surface.ID]int, len(r.views)+len(r.referenced))
	for id := range r.referenced {
		contained[id] = -1
	}
	for id, v := range r.views {
		contained[id] = v.FrameIndex
	}
	for id := range r.drawn {
		delete(a.fullDamage, id)
	}
	for id, h := range a.leases {
		if _, ok := contained[id]; !ok {
			a.store.Release(h.lease)
			delete(a.leases, id)
		}
	}
	a.contained = contained
	a.reached = r.reached
	a.resources = r.res.table
}

// run is the state of one aggregation.
type run struct {
	a     *Aggregator
	guard *graph.Guard[surface.ID]
	remap *Remapper
	res   *resourceMap

	views      map[surface.ID]store.View
	order      []surface.ID
	invalid    map[surface.ID]struct{}
	reached    map[surface.ID][]surface.ID
	referenced map[surface.ID]struct{}
	drawn      map[surface.ID]struct{}
	captured   []surface.ID
	embedCount map[surface.ID]int
	copies     map[surface.ID]map[frame.PassID][]*frame.CopyRequest
	filtered   map[passKey]struct{}
	emitted    map[passKey]struct{}

	out        []*frame.Pass
	rootDamage geom.Rect
	hasCopies  bool
	cull       bool
}

func newRun(a *Aggregator) *run {
	views := make(map[surface.ID]store.View)
	return &run{
		a:          a,
		guard:      graph.NewGuard[surface.ID](),
		remap:      NewRemapper(),
		res:        newResourceMap(views),
		views:      views,
		invalid:    make(map[surface.ID]struct{}),
		reached:    make(map[surface.ID][]surface.ID),
		referenced: make(map[surface.ID]struct{}),
		drawn:      make(map[surface.ID]struct{}),
		embedCount: make(map[surface.ID]int),
		copies:     make(map[surface.ID]map[frame.PassID][]*frame.CopyRequest),
		filtered:   make(map[passKey]struct{}),
		emitted:    make(map[passKey]struct{}),
	}
}

// contributors lists, in the order they were reached, the surfaces whose
// content appears in the output: drawn surfaces and undrawn surfaces
// emitted for their copy requests.
func (r *run) contributors() []surface.ID {
	out := make([]surface.ID, 0, len(r.order))
	for _, id := range r.order {
		_, drawn := r.drawn[id]
		if drawn || slices.Contains(r.captured, id) {
			out = append(out, id)
		}
	}
	return out
}

// takeCopies detaches the copy requests found for a pass during the prewalk.
func (r *run) takeCopies(s surface.ID, p frame.PassID) []*frame.CopyRequest {
	byPass := r.copies[s]
	reqs := byPass[p]
	delete(byPass, p)
	return reqs
}

// discardCopies answers copy requests whose pass was never emitted.
func (r *run) discardCopies() {
	for _, byPass := range r.copies {
		for _, reqs := range byPass {
			for _, req := range reqs {
				req.SendEmpty()
			}
		}
	}
	clear(r.copies)
}

// pruneUnreferenced drops output passes that neither the last pass nor a
// pass with copy requests reaches through render-pass quads.
func pruneUnreferenced(passes []*frame.Pass) []*frame.Pass {
	if len(passes) == 0 {
		return passes
	}
	needed := make(map[frame.PassID]struct{})
	keep := make([]bool, len(passes))
	for i := len(passes) - 1; i >= 0; i-- {
		p := passes[i]
		_, referenced := needed[p.ID]
		if i != len(passes)-1 && !referenced && !p.HasCopyRequests() {
			continue
		}
		keep[i] = true
		for qi := range p.Quads {
			if ref, ok := p.Quads[qi].Payload.(frame.RenderPassRef); ok {
				needed[ref.Pass] = struct{}{}
			}
		}
	}
	out := passes[:0]
	for i, p := range passes {
		if keep[i] {
			out = append(out, p)
		}
	}
	return out
}
