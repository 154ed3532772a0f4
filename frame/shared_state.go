// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package frame

import "github.com/gogpu/compositor/geom"

// BlendMode represents a compositing blend mode.
type BlendMode uint8

// Blend mode constants. The zero value is source-over.
const (
	BlendSourceOver BlendMode = iota
	BlendClear
	BlendSource
	BlendDestination
	BlendDestinationOver
	BlendSourceIn
	BlendDestinationIn
	BlendSourceOut
	BlendDestinationOut
	BlendXor
	BlendPlus
	BlendMultiply
	BlendScreen
)

// String returns a human-readable name for the blend mode.
func (mode BlendMode) String() string {
	switch mode {
	case BlendSourceOver:
		return "SourceOver"
	case BlendClear:
		return "Clear"
	case BlendSource:
		return "Source"
	case BlendDestination:
		return "Destination"
	case BlendDestinationOver:
		return "DestinationOver"
	case BlendSourceIn:
		return "SourceIn"
	case BlendDestinationIn:
		return "DestinationIn"
	case BlendSourceOut:
		return "SourceOut"
	case BlendDestinationOut:
		return "DestinationOut"
	case BlendXor:
		return "Xor"
	case BlendPlus:
		return "Plus"
	case BlendMultiply:
		return "Multiply"
	case BlendScreen:
		return "Screen"
	default:
		return "Unknown"
	}
}

// SharedState holds the attributes shared by a contiguous run of quads.
type SharedState struct {
	// QuadToTarget maps quad space into the space of the owning pass.
	QuadToTarget geom.Matrix

	// LayerBounds is the extent of the producing layer in quad space.
	LayerBounds geom.Rect

	// VisibleLayerRect is the visible part of LayerBounds.
	VisibleLayerRect geom.Rect

	// ClipRect is in target space and applies only when IsClipped is set.
	ClipRect  geom.Rect
	IsClipped bool

	Opacity   float64
	BlendMode BlendMode
}

// DefaultSharedState returns an opaque, unclipped, untransformed state for
// a layer covering bounds.
func DefaultSharedState(bounds geom.Rect) SharedState {
	return SharedState{
		QuadToTarget:     geom.Identity(),
		LayerBounds:      bounds,
		VisibleLayerRect: bounds,
		Opacity:          1,
		BlendMode:        BlendSourceOver,
	}
}
