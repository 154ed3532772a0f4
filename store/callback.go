// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package store

import "github.com/gogpu/compositor/resource"

// DrawStatus tells a producer what happened to a submitted frame.
type DrawStatus uint8

const (
	// DrawSkipped means the frame was replaced or discarded before display.
	DrawSkipped DrawStatus = iota

	// DrawDrawn means the frame was consumed by a draw.
	DrawDrawn
)

// String returns the string representation of a DrawStatus.
func (s DrawStatus) String() string {
	switch s {
	case DrawSkipped:
		return "Skipped"
	case DrawDrawn:
		return "Drawn"
	default:
		return "Unknown"
	}
}

// DrawCallback is invoked exactly once per submitted frame.
type DrawCallback func(DrawStatus)

// Client receives resources that are no longer used by the compositor.
type Client interface {
	ReturnResources(returned []resource.Returned)
}

// ClientFunc adapts a function to the Client interface.
type ClientFunc func([]resource.Returned)

// ReturnResources calls fn(returned).
func (fn ClientFunc) ReturnResources(returned []resource.Returned) {
	fn(returned)
}
