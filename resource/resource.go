// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package resource tracks externally owned pixel buffers that frames
// reference, so a producer can reclaim a buffer exactly when no consumer
// holds it any more.
//
// A producer lists the buffers a frame uses as Transferable values. Every
// submission of a buffer is counted as "received"; every party that keeps
// the buffer alive (the frame store for the current frame, the display for
// frames it has drawn) holds a reference. When the last hold goes away the
// buffer is handed back as a Returned value whose Count is the number of
// times it was received since it was last returned.
package resource

import (
	"image"

	"github.com/gogpu/gputypes"
)

// ID names a resource within the namespace of its producer.
type ID uint32

// SyncToken is opaque synchronization data. The tracker only carries it.
type SyncToken []byte

// Transferable is a handle to a producer-owned buffer.
type Transferable struct {
	ID ID

	// IsSoftware marks CPU-backed storage (shared memory bitmap). When false
	// the buffer lives on the GPU.
	IsSoftware bool

	// Format is the pixel format of the buffer.
	Format gputypes.TextureFormat

	// Size is the buffer size in pixels.
	Size image.Point

	SyncToken SyncToken
}

// Returned is a resource handed back to its producer.
type Returned struct {
	ID ID

	// Count is the number of references being released.
	Count int

	SyncToken SyncToken

	// Lost is set when the consumer lost the backing context and the
	// producer must not reuse the buffer contents.
	Lost bool
}

// ToReturned converts a list of transferables into returned entries with a
// count of one each, the shape used when a frame drops its references.
func ToReturned(list []Transferable) []Returned {
	out := make([]Returned, 0, len(list))
	for _, r := range list {
		out = append(out, Returned{ID: r.ID, Count: 1, SyncToken: r.SyncToken})
	}
	return out
}

// IDs returns the resource IDs of list in order.
func IDs(list []Transferable) []ID {
	out := make([]ID, len(list))
	for i, r := range list {
		out[i] = r.ID
	}
	return out
}
