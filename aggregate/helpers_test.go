// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package aggregate

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gogpu/compositor/frame"
	"github.com/gogpu/compositor/geom"
	"github.com/gogpu/compositor/resource"
	"github.com/gogpu/compositor/store"
	"github.com/gogpu/compositor/surface"
)

var (
	red   = color.RGBA{R: 255, A: 255}
	green = color.RGBA{G: 255, A: 255}
	blue  = color.RGBA{B: 255, A: 255}
)

// client is one producer with its own resource id space.
type client struct {
	t        *testing.T
	fac      *store.Factory
	alloc    *surface.Allocator
	returned []resource.Returned
}

func (c *client) ReturnResources(list []resource.Returned) {
	c.returned = append(c.returned, list...)
}

func (c *client) newSurface() surface.ID {
	c.t.Helper()
	id := c.alloc.NewID()
	require.NoError(c.t, c.fac.Create(id))
	return id
}

func (c *client) submit(id surface.ID, f *frame.Frame) {
	c.t.Helper()
	require.NoError(c.t, c.fac.Submit(id, f, nil))
}

type env struct {
	t       *testing.T
	m       *store.Manager
	clients int
}

func newEnv(t *testing.T) *env {
	return &env{t: t, m: store.NewManager()}
}

func (e *env) newClient() *client {
	e.clients++
	c := &client{t: e.t, alloc: surface.NewDeterministicAllocator(surface.Namespace(e.clients))}
	c.fac = e.m.NewFactory(c)
	return c
}

// addQuad appends a quad with its own shared state.
func addQuad(p *frame.Pass, m geom.Matrix, rect geom.Rect, payload frame.Payload) int {
	s := frame.DefaultSharedState(rect)
	s.QuadToTarget = m
	idx := p.AppendSharedState(s)
	p.AppendQuad(rect, rect, payload)
	return idx
}

// solidFrame returns a one-pass frame of the given size filled with c.
func solidFrame(size float64, c color.RGBA) *frame.Frame {
	r := geom.NewRect(0, 0, size, size)
	p := frame.NewPass(1, r)
	addQuad(p, geom.Identity(), r, frame.SolidColor{Color: c})
	return frame.New(p)
}

// embedFrame returns a one-pass frame of the given size that draws a
// solid quad and embeds child at offset.
func embedFrame(size float64, child surface.ID, offset geom.Point, childSize float64) *frame.Frame {
	p := frame.NewPass(1, geom.NewRect(0, 0, size, size))
	addQuad(p, geom.Identity(), geom.NewRect(0, 0, 5, 5), frame.SolidColor{Color: red})
	addQuad(p, geom.Translate(offset.X, offset.Y), geom.NewRect(0, 0, childSize, childSize),
		frame.SurfaceRef{Surface: child})
	return frame.New(p)
}

func colorsOf(p *frame.Pass) []color.RGBA {
	var out []color.RGBA
	for _, q := range p.Quads {
		if s, ok := q.Payload.(frame.SolidColor); ok {
			out = append(out, s.Color)
		}
	}
	return out
}

func requireNoSurfaceQuads(t *testing.T, f *frame.Frame) {
	t.Helper()
	for _, p := range f.Passes {
		for _, q := range p.Quads {
			require.True(t, q.Material().IsInlineable(), "pass %d has %v quad", p.ID, q.Material())
		}
	}
}

// requireWellFormed checks unique pass ids and that every render-pass
// quad references an earlier pass.
func requireWellFormed(t *testing.T, f *frame.Frame) {
	t.Helper()
	requireNoSurfaceQuads(t, f)
	seen := make(map[frame.PassID]bool)
	for _, p := range f.Passes {
		require.False(t, seen[p.ID], "duplicate pass id %d", p.ID)
		for _, q := range p.Quads {
			if ref, ok := q.Payload.(frame.RenderPassRef); ok {
				require.True(t, seen[ref.Pass], "pass %d references %d", p.ID, ref.Pass)
			}
		}
		seen[p.ID] = true
	}
	require.NoError(t, frame.Validate(f))
}
