// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package store

import (
	"sync"

	"github.com/gogpu/compositor"
	"github.com/gogpu/compositor/frame"
	"github.com/gogpu/compositor/resource"
	"github.com/gogpu/compositor/surface"
)

// entry is the manager's record of one surface.
type entry struct {
	id    surface.ID
	owner *Factory

	frame      *frame.Frame
	frameIndex int
	drawCB     DrawCallback

	destroyed bool

	// previous is the surface whose content this one replaces.
	previous surface.ID

	// deps are destruction dependencies not yet satisfied.
	deps map[surface.Sequence]struct{}
}

// View is a read-only snapshot of a surface.
// Frame points at the stored frame and must not be modified.
type View struct {
	ID    surface.ID
	Frame *frame.Frame

	// FrameIndex counts non-empty frames submitted to the surface.
	FrameIndex int

	// Destroyed is set while destruction waits for its dependencies.
	Destroyed bool

	// Previous is the surface this one replaces, or the null id. See
	// Factory.SetPreviousFrameSurface.
	Previous surface.ID
}

// Manager owns every surface and its current frame.
type Manager struct {
	mu        sync.Mutex
	surfaces  map[surface.ID]*entry
	satisfied map[surface.Sequence]struct{}
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{
		surfaces:  make(map[surface.ID]*entry),
		satisfied: make(map[surface.Sequence]struct{}),
	}
}

// NewFactory returns a new owner handle that returns resources to client.
func (m *Manager) NewFactory(client Client) *Factory {
	return &Factory{
		m:       m,
		client:  client,
		holder:  resource.NewHolder(),
		owned:   make(map[surface.ID]struct{}),
		retired: make(map[surface.ID]struct{}),
	}
}

// Surface returns a snapshot of id. Surfaces whose destruction is deferred
// are still returned.
func (m *Manager) Surface(id surface.ID) (View, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.surfaces[id]
	if !ok {
		return View{}, false
	}
	return View{
		ID:         id,
		Frame:      e.frame,
		FrameIndex: e.frameIndex,
		Destroyed:  e.destroyed,
		Previous:   e.previous,
	}, true
}

// Len returns the number of surfaces, including those pending destruction.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.surfaces)
}

// RequireSequence makes destruction of id wait until seq is satisfied.
// A sequence that was already satisfied is consumed immediately.
func (m *Manager) RequireSequence(id surface.ID, seq surface.Sequence) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.surfaces[id]
	if !ok {
		return ErrUnknownSurface
	}
	if _, done := m.satisfied[seq]; done {
		delete(m.satisfied, seq)
		return nil
	}
	if e.deps == nil {
		e.deps = make(map[surface.Sequence]struct{})
	}
	e.deps[seq] = struct{}{}
	return nil
}

// SatisfySequence marks seq satisfied and tears down any destroyed surface
// left without unsatisfied dependencies.
func (m *Manager) SatisfySequence(seq surface.Sequence) {
	var n notifications
	m.mu.Lock()
	m.satisfyLocked([]surface.Sequence{seq}, &n)
	m.mu.Unlock()
	n.deliver()
}

// DidDraw reports that the current frames of ids were drawn. Their pending
// draw callbacks fire with DrawDrawn.
func (m *Manager) DidDraw(ids []surface.ID) {
	m.finishDraw(ids, DrawDrawn)
}

// DidSkip reports that ids were aggregated but nothing visible changed.
// Their pending draw callbacks fire with DrawSkipped.
func (m *Manager) DidSkip(ids []surface.ID) {
	m.finishDraw(ids, DrawSkipped)
}

func (m *Manager) finishDraw(ids []surface.ID, status DrawStatus) {
	var n notifications
	m.mu.Lock()
	for _, id := range ids {
		if e, ok := m.surfaces[id]; ok && e.drawCB != nil {
			n.callbacks = append(n.callbacks, statusCall{e.drawCB, status})
			e.drawCB = nil
		}
	}
	m.mu.Unlock()
	n.deliver()
}

// TakeCopyRequests detaches the copy requests of every pass of the current
// frame of id, keyed by the pass's local id.
func (m *Manager) TakeCopyRequests(id surface.ID) map[frame.PassID][]*frame.CopyRequest {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.surfaces[id]
	if !ok || e.frame == nil {
		return nil
	}
	var out map[frame.PassID][]*frame.CopyRequest
	for _, p := range e.frame.Passes {
		if !p.HasCopyRequests() {
			continue
		}
		if out == nil {
			out = make(map[frame.PassID][]*frame.CopyRequest)
		}
		out[p.ID] = append(out[p.ID], p.TakeCopyRequests()...)
	}
	return out
}

// Lease is a hold on the resources of one frame of one surface.
type Lease struct {
	Surface    surface.ID
	FrameIndex int
	Resources  []resource.Transferable

	owner *Factory
}

// LeaseResources takes one hold on every resource of the current frame of
// id. The holds stay valid after the frame is replaced or the surface is
// destroyed, until Release.
func (m *Manager) LeaseResources(id surface.ID) (Lease, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.surfaces[id]
	if !ok || e.frame == nil {
		return Lease{}, false
	}
	e.owner.holder.Ref(e.frame.Resources)
	return Lease{
		Surface:    id,
		FrameIndex: e.frameIndex,
		Resources:  e.frame.Resources,
		owner:      e.owner,
	}, true
}

// Release drops the holds taken by l.
func (m *Manager) Release(l Lease) {
	if l.owner == nil || len(l.Resources) == 0 {
		return
	}
	var n notifications
	m.mu.Lock()
	l.owner.unrefLocked(resource.ToReturned(l.Resources), &n)
	m.mu.Unlock()
	n.deliver()
}

func (m *Manager) satisfyLocked(seqs []surface.Sequence, n *notifications) {
	if len(seqs) == 0 {
		return
	}
	for _, seq := range seqs {
		m.satisfied[seq] = struct{}{}
	}
	for _, e := range m.surfaces {
		for seq := range e.deps {
			if _, ok := m.satisfied[seq]; ok {
				delete(e.deps, seq)
				delete(m.satisfied, seq)
			}
		}
	}
	m.collectLocked(n)
}

// collectLocked tears down destroyed surfaces with no pending dependencies.
func (m *Manager) collectLocked(n *notifications) {
	for id, e := range m.surfaces {
		if !e.destroyed || len(e.deps) > 0 {
			continue
		}
		compositor.Logger().Info("store: surface torn down", "surface", id)
		if e.frame != nil {
			for _, p := range e.frame.Passes {
				n.copies = append(n.copies, p.TakeCopyRequests()...)
			}
			e.owner.unrefLocked(resource.ToReturned(e.frame.Resources), n)
		}
		if e.drawCB != nil {
			n.callbacks = append(n.callbacks, statusCall{e.drawCB, DrawSkipped})
		}
		delete(e.owner.owned, id)
		e.owner.retired[id] = struct{}{}
		delete(m.surfaces, id)
	}
}

type statusCall struct {
	fn     DrawCallback
	status DrawStatus
}

type clientReturn struct {
	client   Client
	returned []resource.Returned
}

// notifications collects callbacks produced under the manager lock.
type notifications struct {
	returns   []clientReturn
	callbacks []statusCall
	copies    []*frame.CopyRequest
}

func (n *notifications) addReturn(c Client, returned []resource.Returned) {
	if c == nil || len(returned) == 0 {
		return
	}
	n.returns = append(n.returns, clientReturn{c, returned})
}

func (n *notifications) deliver() {
	for _, c := range n.callbacks {
		c.fn(c.status)
	}
	for _, r := range n.copies {
		r.SendEmpty()
	}
	for _, r := range n.returns {
		r.client.ReturnResources(r.returned)
	}
}
