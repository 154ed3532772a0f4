// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package aggregate flattens the surface graph rooted at one surface into a
// single frame.
//
// Aggregation runs in two phases. The prewalk visits every reachable
// surface once per embedding, takes holds on the resources of newly seen
// frames, detaches pending copy requests, and accumulates damage in root
// space from each surface's frame history. The copy phase then emits output
// passes: a surface's offscreen passes become output passes of their own,
// and its visible pass is spliced into the pass that embeds it, unless the
// embedding needs group opacity or a copy of that pass, in which case the
// visible pass is emitted too and referenced through a render-pass quad.
//
// Local pass ids are remapped to ids unique within one output frame, in
// first-seen order. Resource ids are remapped the same way so that two
// producers may use the same local ids; ResolveResource maps an output id
// back to its producer.
//
// An Aggregator is not safe for concurrent use.
package aggregate
