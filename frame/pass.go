// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package frame

import "github.com/gogpu/compositor/geom"

// Pass is an ordered list of quads drawn into one output target.
type Pass struct {
	ID PassID

	// OutputRect is the extent of the pass target in pass space.
	OutputRect geom.Rect

	// DamageRect is the part of OutputRect that changed since the
	// producer's previous frame.
	DamageRect geom.Rect

	// TransformToRootTarget maps pass space into the space of the frame's
	// visible pass.
	TransformToRootTarget geom.Matrix

	HasTransparentBackground bool

	SharedStates []SharedState
	Quads        []Quad

	CopyRequests []*CopyRequest
}

// NewPass returns an empty, fully damaged pass with an identity transform.
func NewPass(id PassID, output geom.Rect) *Pass {
	return &Pass{
		ID:                    id,
		OutputRect:            output,
		DamageRect:            output,
		TransformToRootTarget: geom.Identity(),
	}
}

// CopyWithoutQuads returns a pass with the same attributes and id but no
// shared states, quads or copy requests.
func (p *Pass) CopyWithoutQuads(id PassID) *Pass {
	return &Pass{
		ID:                       id,
		OutputRect:               p.OutputRect,
		DamageRect:               p.DamageRect,
		TransformToRootTarget:    p.TransformToRootTarget,
		HasTransparentBackground: p.HasTransparentBackground,
	}
}

// AppendSharedState appends s and returns its index.
func (p *Pass) AppendSharedState(s SharedState) int {
	p.SharedStates = append(p.SharedStates, s)
	return len(p.SharedStates) - 1
}

// AppendQuad appends a quad drawn with the most recently appended shared
// state, creating a default one when the pass has none.
func (p *Pass) AppendQuad(rect, visible geom.Rect, payload Payload) {
	if len(p.SharedStates) == 0 {
		p.AppendSharedState(DefaultSharedState(rect))
	}
	p.Quads = append(p.Quads, Quad{
		Rect:        rect,
		VisibleRect: visible,
		SharedState: len(p.SharedStates) - 1,
		Payload:     payload,
	})
}

// StateOf returns the shared state of quad i.
func (p *Pass) StateOf(i int) *SharedState {
	return &p.SharedStates[p.Quads[i].SharedState]
}

// HasCopyRequests reports whether any copy request is attached.
func (p *Pass) HasCopyRequests() bool {
	return len(p.CopyRequests) > 0
}

// TakeCopyRequests returns the attached copy requests and clears them.
func (p *Pass) TakeCopyRequests() []*CopyRequest {
	reqs := p.CopyRequests
	p.CopyRequests = nil
	return reqs
}
