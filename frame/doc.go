// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package frame defines the draw-command buffers that compositing clients
// submit and that the aggregator produces.
//
// # Structure
//
// A Frame is an ordered list of render passes. The last pass is the one an
// embedder sees; earlier passes are offscreen inputs that later passes draw
// through render-pass quads.
//
//	Frame
//	  Passes[0]  (offscreen, referenced by a RenderPassRef quad)
//	  Passes[1]  (visible)
//	    SharedStates: [s0, s1]
//	    Quads:        [q0(s0), q1(s0), q2(s1)]
//
// A SharedState block carries the attributes common to a contiguous run of
// quads: transform, clip, opacity and blend mode. Quads refer to their block
// by index, and indices never decrease along the quad list.
//
// # Materials
//
// Quad payloads form a closed set, identified by Material:
//
//   - SolidColor: a flat color fill
//   - Texture: a producer-owned buffer sampled over the quad
//   - Video: planar YUV buffers
//   - RenderPassRef: the output of another pass of the same frame
//   - SurfaceRef: the visible pass of another surface
//
// Aggregation replaces every SurfaceRef with the content it names, so an
// aggregated frame never contains one.
//
// # Validation
//
// Frames cross a trust boundary when a client submits them. Validate checks
// every structural invariant and reports violations as errors wrapping
// ErrMalformed; a frame that fails validation must be rejected as a whole.
package frame
