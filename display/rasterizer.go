// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package display

import (
	"errors"
	"image"

	"github.com/gogpu/compositor/frame"
	"github.com/gogpu/compositor/geom"
)

// Errors reported by rasterizers.
var (
	// ErrNoPasses is returned when a rasterizer is given an empty pass list.
	ErrNoPasses = errors.New("display: frame has no passes")

	// ErrMissingPass is returned when a render pass quad references a pass
	// that has not been drawn yet.
	ErrMissingPass = errors.New("display: render pass drawn before its input")
)

// Rasterizer draws the passes of an aggregated frame. The last pass is the
// root and is drawn into viewport, restricted to clip. Earlier passes are
// intermediate targets referenced by render pass quads.
type Rasterizer interface {
	DrawFrame(passes []*frame.Pass, deviceScale float64, viewport, clip geom.Rect) error
}

// PassReader is implemented by rasterizers that keep the image of each pass
// after DrawFrame, so copy requests can be answered with pixels.
type PassReader interface {
	PassImage(id frame.PassID) (*image.RGBA, bool)
}
