// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package display consumes aggregated frames.
//
// A Display owns the per-output loop: it asks an aggregate.Aggregator for
// the flattened frame of a root surface, hands the passes to a Rasterizer,
// reports the drawn surfaces back to the frame store and answers the copy
// requests that rode along with the frame.
//
// Three rasterizers are provided:
//
//   - Software paints every pass into an *image.RGBA.
//   - Terminal shows the software result on a tcell screen using half-block
//     cells.
//   - GPUPresenter uploads the software result as a texture through a
//     gpucontext.TextureDrawer.
package display
