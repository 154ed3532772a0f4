// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package aggregate

import (
	"github.com/gogpu/compositor/frame"
	"github.com/gogpu/compositor/surface"
)

// passKey names a pass by its producing surface and local id.
type passKey struct {
	surface surface.ID
	pass    frame.PassID
}

// Remapper assigns output pass ids to (surface, local pass id) pairs.
// Ids start at 1 and follow first-seen order. A Remapper lives for one
// aggregation.
type Remapper struct {
	ids  map[passKey]frame.PassID
	next frame.PassID
}

// NewRemapper returns an empty remapper.
func NewRemapper() *Remapper {
	return &Remapper{ids: make(map[passKey]frame.PassID), next: 1}
}

// Remap returns the output id of the given pass, assigning the next free
// id on first use.
func (r *Remapper) Remap(s surface.ID, local frame.PassID) frame.PassID {
	key := passKey{s, local}
	if id, ok := r.ids[key]; ok {
		return id
	}
	id := r.next
	r.next++
	r.ids[key] = id
	return id
}

// Len returns the number of ids assigned.
func (r *Remapper) Len() int {
	return len(r.ids)
}
