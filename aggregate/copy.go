// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package aggregate

import (
	"image/color"

	"github.com/gogpu/compositor"
	"github.com/gogpu/compositor/frame"
	"github.com/gogpu/compositor/geom"
	"github.com/gogpu/compositor/surface"
)

// secureBlack replaces secure-only textures on insecure outputs.
var secureBlack = color.RGBA{A: 255}

// clipData is an optional clip rectangle in destination pass space.
type clipData struct {
	rect    geom.Rect
	clipped bool
}

func (c clipData) intersect(o clipData) clipData {
	switch {
	case !o.clipped:
		return c
	case !c.clipped:
		return o
	default:
		return clipData{rect: c.rect.Intersect(o.rect), clipped: true}
	}
}

// copyRoot emits every pass of the root surface, visible pass last.
func (r *run) copyRoot(root surface.ID) {
	r.guard.Enter(root)
	defer r.guard.Leave(root)

	for _, p := range r.views[root].Frame.Passes {
		r.emitPass(root, p, p.TransformToRootTarget, false)
	}
}

// copyUndrawn emits the passes of surfaces that are contained only through
// metadata references but carry copy requests, so the requests are served
// although nothing draws the surface.
func (r *run) copyUndrawn() {
	for _, id := range r.order {
		if _, drawn := r.drawn[id]; drawn || len(r.copies[id]) == 0 {
			continue
		}
		r.captured = append(r.captured, id)
		r.guard.Enter(id)
		for _, p := range r.views[id].Frame.Passes {
			r.emitPass(id, p, p.TransformToRootTarget, true)
		}
		r.guard.Leave(id)
	}
}

// emitPass copies p of surface s into a new output pass appended after
// any passes its quads contribute. A pass already emitted in this run is
// not emitted twice.
func (r *run) emitPass(s surface.ID, p *frame.Pass, toRoot geom.Matrix, capture bool) frame.PassID {
	key := passKey{s, p.ID}
	if _, done := r.emitted[key]; done {
		return r.remap.Remap(s, p.ID)
	}
	r.emitted[key] = struct{}{}

	out := p.CopyWithoutQuads(r.remap.Remap(s, p.ID))
	out.TransformToRootTarget = toRoot
	out.CopyRequests = r.takeCopies(s, p.ID)

	_, filtered := r.filtered[key]
	exact := !out.HasCopyRequests() && !filtered && r.embedCount[s] == 1
	out.DamageRect = r.passDamage(out, exact)

	w := &quadWriter{
		r:       r,
		surface: s,
		src:     p,
		dest:    out,
		target:  geom.Identity(),
		capture: capture || out.HasCopyRequests(),
		cull:    r.cull && exact,
		lastSrc: -1,
	}
	w.copyAll()
	r.out = append(r.out, out)
	return out.ID
}

// passDamage maps the root damage into the space of out. Passes that
// cannot be tracked exactly are fully damaged.
func (r *run) passDamage(out *frame.Pass, exact bool) geom.Rect {
	if !exact {
		return out.OutputRect
	}
	inv, ok := out.TransformToRootTarget.Invert()
	if !ok {
		return out.OutputRect
	}
	return inv.MapRect(r.rootDamage).Intersect(out.OutputRect)
}

// quadWriter copies the quads of one source pass into a destination pass.
type quadWriter struct {
	r       *run
	surface surface.ID
	src     *frame.Pass
	dest    *frame.Pass

	// target maps source pass space into destination pass space.
	target geom.Matrix
	clip   clipData

	// capture is set while any enclosing output pass has a copy request.
	capture bool
	cull    bool

	// lastSrc is the source shared state of the current run, or -1.
	lastSrc  int
	state    frame.SharedState
	destIdx  int
	appended bool
}

func (w *quadWriter) copyAll() {
	for i := range w.src.Quads {
		q := w.src.Quads[i]
		switch pl := q.Payload.(type) {
		case frame.SurfaceRef:
			w.r.spliceSurface(w, q, pl)

		case frame.RenderPassRef:
			if _, ok := w.r.views[w.surface].Frame.Pass(pl.Pass); !ok {
				compositor.Logger().Warn("aggregate: dangling render pass reference",
					"surface", w.surface, "pass", pl.Pass)
				continue
			}
			pl.Pass = w.r.remap.Remap(w.surface, pl.Pass)
			pl.Mask = w.r.res.remap(w.surface, pl.Mask)
			q.Payload = pl
			w.emit(q)

		case frame.Texture:
			if pl.SecureOutputOnly && (!w.r.a.opts.outputSecure || w.capture) {
				q.Payload = frame.SolidColor{Color: secureBlack}
			} else {
				pl.Resource = w.r.res.remap(w.surface, pl.Resource)
				q.Payload = pl
			}
			w.emit(q)

		case frame.Video:
			pl.Y = w.r.res.remap(w.surface, pl.Y)
			pl.U = w.r.res.remap(w.surface, pl.U)
			pl.V = w.r.res.remap(w.surface, pl.V)
			pl.A = w.r.res.remap(w.surface, pl.A)
			q.Payload = pl
			w.emit(q)

		case frame.SolidColor:
			w.emit(q)

		default:
			compositor.Logger().Debug("aggregate: quad without payload dropped", "surface", w.surface)
		}
	}
}

// emit appends q, creating the destination shared state for its run on
// first use. In culling mode a quad outside the root damage is dropped.
func (w *quadWriter) emit(q frame.Quad) {
	if q.SharedState != w.lastSrc {
		w.state = w.destState(q.SharedState)
		w.lastSrc = q.SharedState
		w.appended = false
	}
	if w.cull && w.outsideDamage(q) {
		return
	}
	if !w.appended {
		w.destIdx = w.dest.AppendSharedState(w.state)
		w.appended = true
	}
	q.SharedState = w.destIdx
	w.dest.Quads = append(w.dest.Quads, q)
}

// destState returns source state i expressed in destination pass space.
func (w *quadWriter) destState(i int) frame.SharedState {
	s := w.src.SharedStates[i]
	s.QuadToTarget = w.target.Multiply(s.QuadToTarget)
	own := clipData{}
	if s.IsClipped {
		own = clipData{rect: w.target.MapRect(s.ClipRect), clipped: true}
	}
	c := own.intersect(w.clip)
	s.ClipRect, s.IsClipped = c.rect, c.clipped
	return s
}

func (w *quadWriter) outsideDamage(q frame.Quad) bool {
	toRoot := w.dest.TransformToRootTarget.Multiply(w.state.QuadToTarget)
	if !toRoot.IsInvertible() {
		return false
	}
	area := toRoot.MapRect(q.VisibleRect)
	if w.state.IsClipped {
		area = area.Intersect(w.dest.TransformToRootTarget.MapRect(w.state.ClipRect))
	}
	return !area.Intersects(w.r.rootDamage)
}

// spliceSurface replaces a surface quad by the content of the embedded
// surface. Offscreen passes become output passes. The visible pass is
// merged into the destination, or emitted as a pass and drawn through a
// render-pass quad when the embedding has group opacity or a copy request
// targets it.
func (r *run) spliceSurface(w *quadWriter, q frame.Quad, ref frame.SurfaceRef) {
	child := ref.Surface
	v, ok := r.views[child]
	if !ok {
		compositor.Logger().Debug("aggregate: surface quad dropped", "surface", child)
		return
	}
	if !r.guard.Enter(child) {
		compositor.Logger().Debug("aggregate: cycle", "surface", child, "depth", r.guard.Depth())
		return
	}
	defer r.guard.Leave(child)

	srcState := w.src.SharedStates[q.SharedState]
	surfaceTransform := w.target.Multiply(srcState.QuadToTarget)
	childClip := w.clip
	if srcState.IsClipped {
		childClip = clipData{rect: w.target.MapRect(srcState.ClipRect), clipped: true}.intersect(w.clip)
	}
	childToRoot := w.dest.TransformToRootTarget.Multiply(surfaceTransform)

	f := v.Frame
	vis := f.VisiblePass()
	for _, p := range f.Passes[:len(f.Passes)-1] {
		r.emitPass(child, p, childToRoot.Multiply(p.TransformToRootTarget), w.capture)
	}

	if srcState.Opacity >= 1 && len(r.copies[child][vis.ID]) == 0 {
		before := len(w.dest.SharedStates)
		inner := &quadWriter{
			r:       r,
			surface: child,
			src:     vis,
			dest:    w.dest,
			target:  surfaceTransform,
			clip:    childClip,
			capture: w.capture,
			cull:    w.cull,
			lastSrc: -1,
		}
		inner.copyAll()
		if len(w.dest.SharedStates) != before {
			w.lastSrc = -1
		}
		return
	}

	id := r.emitPass(child, vis, childToRoot.Multiply(vis.TransformToRootTarget), w.capture)
	q.Payload = frame.RenderPassRef{Pass: id}
	w.emit(q)
}
