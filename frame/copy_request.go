// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package frame

import (
	"image"
	"sync"

	"github.com/gogpu/compositor/geom"
)

// CopyResult is delivered to a copy request. Image is nil for an empty result.
type CopyResult struct {
	Image *image.RGBA

	// Rect is the copied area in pass space.
	Rect geom.Rect
}

// IsEmpty reports whether the result carries no pixels.
func (r CopyResult) IsEmpty() bool {
	return r.Image == nil
}

// CopyRequest asks for the pixels of a pass after it has been drawn.
// The callback runs exactly once, either with the pixels or empty.
type CopyRequest struct {
	// Area restricts the copy, in pass space. Empty means the whole pass.
	Area geom.Rect

	once     sync.Once
	callback func(CopyResult)
}

// NewCopyRequest returns a request delivering its result to fn.
func NewCopyRequest(fn func(CopyResult)) *CopyRequest {
	return &CopyRequest{callback: fn}
}

// SendResult delivers res. Later calls are ignored.
func (r *CopyRequest) SendResult(res CopyResult) {
	r.once.Do(func() {
		if r.callback != nil {
			r.callback(res)
		}
	})
}

// SendEmpty delivers an empty result. Later calls are ignored.
func (r *CopyRequest) SendEmpty() {
	r.SendResult(CopyResult{})
}
