// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package display

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/gogpu/compositor"
	"github.com/gogpu/compositor/aggregate"
	"github.com/gogpu/compositor/frame"
	"github.com/gogpu/compositor/geom"
	"github.com/gogpu/compositor/store"
	"github.com/gogpu/compositor/surface"
)

// Display drives one output.
//
// Display is not safe for concurrent use.
type Display struct {
	store  *store.Manager
	agg    *aggregate.Aggregator
	raster Rasterizer
	opts   options

	resized bool
	frames  int
}

// New creates a display drawing the frames of agg with r. The store must be
// the one agg reads from.
func New(m *store.Manager, agg *aggregate.Aggregator, r Rasterizer, opts ...Option) *Display {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Display{store: m, agg: agg, raster: r, opts: o}
}

// Resize changes the viewport. The next Draw redraws everything.
func (d *Display) Resize(viewport geom.Rect) {
	d.opts.viewport = viewport
	d.resized = true
}

// Frames returns the number of frames drawn.
func (d *Display) Frames() int {
	return d.frames
}

// Draw aggregates root and rasterizes the result. It reports false without
// error when there is nothing to draw. On success every contributing
// surface gets its draw callback and every copy request in the frame is
// answered. Callbacks report DrawSkipped when the frame carries no damage,
// since nothing visible changed.
func (d *Display) Draw(root surface.ID) (bool, error) {
	if d.resized {
		d.agg.SetFullDamage(root)
		d.resized = false
	}

	out, ok := d.agg.Aggregate(root)
	if !ok {
		return false, nil
	}

	viewport := d.opts.viewport
	if viewport.IsEmpty() {
		viewport = out.VisiblePass().OutputRect
	}
	clip := d.opts.clip
	if clip.IsEmpty() {
		clip = viewport
	}

	if err := d.raster.DrawFrame(out.Passes, out.DeviceScale, viewport, clip); err != nil {
		for _, p := range out.Passes {
			for _, req := range p.TakeCopyRequests() {
				req.SendEmpty()
			}
		}
		return false, fmt.Errorf("display: draw %v: %w", root, err)
	}
	d.frames++

	if out.VisiblePass().DamageRect.IsEmpty() {
		d.store.DidSkip(out.Metadata.ReferencedSurfaces)
	} else {
		d.store.DidDraw(out.Metadata.ReferencedSurfaces)
	}
	d.sendCopies(out.Passes)

	compositor.Logger().Debug("display: frame drawn",
		"root", root,
		"frame", d.frames,
		"passes", len(out.Passes),
		"viewport", viewport,
	)
	return true, nil
}

// Close drops the resources held for the last drawn frame.
func (d *Display) Close() {
	d.agg.ReleaseResources()
}

// sendCopies answers the copy requests of every pass. Rasterizers that do
// not keep pass images produce empty results.
func (d *Display) sendCopies(passes []*frame.Pass) {
	reader, _ := d.raster.(PassReader)
	for _, p := range passes {
		reqs := p.TakeCopyRequests()
		if len(reqs) == 0 {
			continue
		}
		var img *image.RGBA
		if reader != nil {
			img, _ = reader.PassImage(p.ID)
		}
		for _, req := range reqs {
			if img == nil {
				req.SendEmpty()
				continue
			}
			req.SendResult(crop(img, p.OutputRect, req.Area))
		}
	}
}

// crop copies area of img. An empty area means the whole pass.
func crop(img *image.RGBA, output, area geom.Rect) frame.CopyResult {
	r := output
	if !area.IsEmpty() {
		r = area.Intersect(output)
	}
	rect := r.Image().Intersect(img.Bounds())
	if rect.Empty() {
		return frame.CopyResult{}
	}
	out := image.NewRGBA(rect)
	draw.Draw(out, rect, img, rect.Min, draw.Src)
	return frame.CopyResult{Image: out, Rect: r}
}
