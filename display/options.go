// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package display

import "github.com/gogpu/compositor/geom"

// Option configures a Display.
type Option func(*options)

type options struct {
	viewport geom.Rect
	clip     geom.Rect
}

// WithViewport sets the area of the root pass shown by the output.
// An empty viewport follows the root pass output rect.
func WithViewport(r geom.Rect) Option {
	return func(o *options) {
		o.viewport = r
	}
}

// WithClip restricts drawing of the root pass. An empty clip means the
// whole viewport.
func WithClip(r geom.Rect) Option {
	return func(o *options) {
		o.clip = r
	}
}
