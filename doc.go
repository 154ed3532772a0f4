// Package compositor combines frames submitted by independent clients into
// one flattened frame for a display.
//
// # Overview
//
// Each client owns one or more surfaces and submits frames to them. A frame
// is a list of render passes made of quads; a surface quad embeds another
// surface's latest frame. The aggregator walks that graph from a root
// surface and produces a single frame that contains no surface quads, with
// every pass id made unique, transforms composed, damage tracked, and the
// producers' buffers kept alive while the display may still read them.
//
// # Packages
//
//   - geom: affine matrices and rectangles
//   - surface: surface identifiers and their allocator
//   - resource: transferable buffers and reference counting
//   - frame: passes, quads, shared states, validation
//   - store: surface ownership, frame submission, resource return
//   - aggregate: the aggregator and its pass id remapper
//   - hittest: point lookup and transform queries over the surface graph
//   - wire: binary frame encoding at the transport boundary
//   - display: draws aggregated frames (software, terminal, GPU upload)
//
// # Logging
//
// All packages log through [Logger]. Nothing is logged until [SetLogger] is
// called.
package compositor
