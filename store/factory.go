// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package store

import (
	"github.com/gogpu/compositor"
	"github.com/gogpu/compositor/frame"
	"github.com/gogpu/compositor/resource"
	"github.com/gogpu/compositor/surface"
)

// Factory is the exclusive owner of the surfaces one producer creates.
type Factory struct {
	m      *Manager
	client Client
	holder *resource.Holder

	owned   map[surface.ID]struct{}
	retired map[surface.ID]struct{}
}

// Create registers a new surface owned by f.
func (f *Factory) Create(id surface.ID) error {
	if id.IsNull() {
		return ErrNullSurface
	}
	f.m.mu.Lock()
	defer f.m.mu.Unlock()

	if _, ok := f.m.surfaces[id]; ok {
		return ErrSurfaceExists
	}
	f.m.surfaces[id] = &entry{id: id, owner: f}
	f.owned[id] = struct{}{}
	delete(f.retired, id)
	compositor.Logger().Info("store: surface created", "surface", id)
	return nil
}

// Destroy marks id destroyed. Teardown is deferred while sequences passed
// to RequireSequence remain unsatisfied; the surface stays drawable until then.
func (f *Factory) Destroy(id surface.ID) error {
	var n notifications
	f.m.mu.Lock()
	e, err := f.lookupLocked(id)
	if err != nil {
		f.m.mu.Unlock()
		return err
	}
	e.destroyed = true
	if len(e.deps) > 0 {
		compositor.Logger().Info("store: surface destruction deferred", "surface", id, "deps", len(e.deps))
	}
	f.m.collectLocked(&n)
	f.m.mu.Unlock()
	n.deliver()
	return nil
}

// Submit replaces the current frame of id with fr and takes ownership of fr.
// A malformed frame is rejected and nothing changes. The previous frame's
// draw callback fires with DrawSkipped and its resources lose one hold.
// Copy requests pending on the previous frame move to the new visible pass.
func (f *Factory) Submit(id surface.ID, fr *frame.Frame, cb DrawCallback) error {
	if err := frame.Validate(fr); err != nil {
		compositor.Logger().Warn("store: frame rejected", "surface", id, "err", err)
		return err
	}

	var n notifications
	f.m.mu.Lock()
	e, err := f.lookupLocked(id)
	if err != nil {
		f.m.mu.Unlock()
		return err
	}

	f.holder.Receive(fr.Resources)
	if prev := e.frame; prev != nil {
		var carried []*frame.CopyRequest
		for _, p := range prev.Passes {
			carried = append(carried, p.TakeCopyRequests()...)
		}
		if vis := fr.VisiblePass(); vis != nil {
			vis.CopyRequests = append(vis.CopyRequests, carried...)
		} else {
			n.copies = append(n.copies, carried...)
		}
		f.unrefLocked(resource.ToReturned(prev.Resources), &n)
	}
	if e.drawCB != nil {
		n.callbacks = append(n.callbacks, statusCall{e.drawCB, DrawSkipped})
	}

	e.frame = fr
	e.drawCB = cb
	if len(fr.Passes) > 0 {
		e.frameIndex++
	}

	f.m.satisfyLocked(fr.Metadata.SatisfiesSequences, &n)
	f.m.mu.Unlock()
	n.deliver()
	return nil
}

// SetPreviousFrameSurface declares that id replaces previous, for example
// after a resize. The current frame of id is numbered as the frame after
// the one previous holds, so an aggregator that drew previous treats it as
// the next frame of the same content and uses its damage rect instead of
// full damage.
func (f *Factory) SetPreviousFrameSurface(id, previous surface.ID) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()

	e, err := f.lookupLocked(id)
	if err != nil {
		return err
	}
	if previous.IsNull() {
		return ErrNullSurface
	}
	old, ok := f.m.surfaces[previous]
	if !ok || previous == id {
		return ErrUnknownSurface
	}
	e.previous = previous
	e.frameIndex = old.frameIndex + 1
	return nil
}

// RequestCopy attaches req to the visible pass of the current frame of id.
// When the surface is unknown or has nothing to copy, req receives an
// empty result immediately.
func (f *Factory) RequestCopy(id surface.ID, req *frame.CopyRequest) {
	f.m.mu.Lock()
	e, ok := f.m.surfaces[id]
	var vis *frame.Pass
	if ok {
		vis = e.frame.VisiblePass()
	}
	if vis == nil {
		f.m.mu.Unlock()
		req.SendEmpty()
		return
	}
	vis.CopyRequests = append(vis.CopyRequests, req)
	f.m.mu.Unlock()
}

// RefCurrentFrameResources takes one extra hold on every resource of the
// current frame of id.
func (f *Factory) RefCurrentFrameResources(id surface.ID) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()

	e, err := f.lookupLocked(id)
	if err != nil {
		return err
	}
	if e.frame != nil {
		f.holder.Ref(e.frame.Resources)
	}
	return nil
}

// UnrefResources drops holds. Entries naming unknown resources or
// releasing more holds than exist are rejected without changing any
// count; the returned error describes them.
func (f *Factory) UnrefResources(list []resource.Returned) error {
	var n notifications
	f.m.mu.Lock()
	err := f.unrefLocked(list, &n)
	f.m.mu.Unlock()
	n.deliver()
	return err
}

// Holds returns the number of holds on res.
func (f *Factory) Holds(res resource.ID) int {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	return f.holder.Holds(res)
}

func (f *Factory) unrefLocked(list []resource.Returned, n *notifications) error {
	ready, err := f.holder.Unref(list)
	if err != nil {
		compositor.Logger().Warn("store: unref rejected", "err", err)
	}
	n.addReturn(f.client, ready)
	return err
}

func (f *Factory) lookupLocked(id surface.ID) (*entry, error) {
	if id.IsNull() {
		return nil, ErrNullSurface
	}
	e, ok := f.m.surfaces[id]
	if !ok {
		if _, gone := f.retired[id]; gone {
			return nil, ErrAlreadyDestroyed
		}
		return nil, ErrUnknownSurface
	}
	if e.owner != f {
		return nil, ErrNotOwner
	}
	if e.destroyed {
		return nil, ErrAlreadyDestroyed
	}
	return e, nil
}
