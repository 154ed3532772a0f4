// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package frame

import (
	"github.com/gogpu/compositor/resource"
	"github.com/gogpu/compositor/surface"
)

// Metadata carries frame-level bookkeeping for the frame store.
type Metadata struct {
	// ReferencedSurfaces lists the surfaces the frame embeds.
	ReferencedSurfaces []surface.ID

	// SatisfiesSequences lists destruction dependencies the frame satisfies.
	SatisfiesSequences []surface.Sequence
}

// Frame is one submission of a compositing client.
type Frame struct {
	DeviceScale float64

	// Passes are ordered so that a pass only references earlier passes.
	// The last pass is the visible one.
	Passes []*Pass

	// Resources lists every buffer the frame's quads sample from.
	Resources []resource.Transferable

	Metadata Metadata
}

// New returns a frame at device scale 1 with the given passes.
func New(passes ...*Pass) *Frame {
	return &Frame{DeviceScale: 1, Passes: passes}
}

// VisiblePass returns the last pass, or nil when the frame has none.
func (f *Frame) VisiblePass() *Pass {
	if f == nil || len(f.Passes) == 0 {
		return nil
	}
	return f.Passes[len(f.Passes)-1]
}

// Pass returns the pass with the given id.
func (f *Frame) Pass(id PassID) (*Pass, bool) {
	for _, p := range f.Passes {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// Resource returns the transferable entry for id.
func (f *Frame) Resource(id resource.ID) (resource.Transferable, bool) {
	for _, r := range f.Resources {
		if r.ID == id {
			return r, true
		}
	}
	return resource.Transferable{}, false
}

// EmbeddedSurfaces returns the distinct surfaces referenced by surface
// quads, in order of first appearance.
func (f *Frame) EmbeddedSurfaces() []surface.ID {
	var out []surface.ID
	seen := make(map[surface.ID]struct{})
	for _, p := range f.Passes {
		for i := range p.Quads {
			ref, ok := p.Quads[i].Payload.(SurfaceRef)
			if !ok {
				continue
			}
			if _, dup := seen[ref.Surface]; dup {
				continue
			}
			seen[ref.Surface] = struct{}{}
			out = append(out, ref.Surface)
		}
	}
	return out
}

// QuadCount returns the total number of quads over all passes.
func (f *Frame) QuadCount() int {
	n := 0
	for _, p := range f.Passes {
		n += len(p.Quads)
	}
	return n
}
