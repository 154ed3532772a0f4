// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package resource

import (
	"errors"
	"fmt"
	"slices"
)

// Errors reported by Holder for malformed release requests.
var (
	// ErrUnknownResource is returned when a release names a resource that
	// is not held.
	ErrUnknownResource = errors.New("resource: unknown resource")

	// ErrOverRelease is returned when a release count exceeds the number of
	// holds on a resource.
	ErrOverRelease = errors.New("resource: release count exceeds holds")
)

// holderEntry is the bookkeeping for one resource.
type holderEntry struct {
	// refs keeps the resource alive while positive.
	refs int

	// received counts submissions since the resource was last returned.
	received int

	syncToken SyncToken
}

// Holder keeps reference counts for the resources of one producer.
//
// Holder is not safe for concurrent use; the frame store serialises access.
type Holder struct {
	entries map[ID]*holderEntry
}

// NewHolder creates an empty holder.
func NewHolder() *Holder {
	return &Holder{entries: make(map[ID]*holderEntry)}
}

// Receive records that list was submitted in a frame. Each entry counts as
// one more reception and one more hold.
func (h *Holder) Receive(list []Transferable) {
	for _, r := range list {
		e, ok := h.entries[r.ID]
		if !ok {
			e = &holderEntry{}
			h.entries[r.ID] = e
		}
		e.refs++
		e.received++
		e.syncToken = r.SyncToken
	}
}

// Ref adds one hold to every resource in list that is already known.
// Unknown IDs are skipped: a hold can only be taken on something received.
func (h *Holder) Ref(list []Transferable) {
	for _, r := range list {
		if e, ok := h.entries[r.ID]; ok {
			e.refs++
		}
	}
}

// Unref releases holds. It returns the resources whose hold count reached
// zero, each with the number of receptions since the previous return, and
// an error describing any entries that were rejected. Rejected entries do
// not change any count.
func (h *Holder) Unref(list []Returned) ([]Returned, error) {
	var (
		ready []Returned
		errs  []error
	)
	for _, r := range list {
		e, ok := h.entries[r.ID]
		if !ok {
			errs = append(errs, fmt.Errorf("id %d: %w", r.ID, ErrUnknownResource))
			continue
		}
		if r.Count <= 0 || r.Count > e.refs {
			errs = append(errs, fmt.Errorf("id %d: count %d, holds %d: %w", r.ID, r.Count, e.refs, ErrOverRelease))
			continue
		}
		e.refs -= r.Count
		if r.SyncToken != nil {
			e.syncToken = r.SyncToken
		}
		if e.refs > 0 {
			continue
		}
		ready = append(ready, Returned{
			ID:        r.ID,
			Count:     e.received,
			SyncToken: e.syncToken,
			Lost:      r.Lost,
		})
		delete(h.entries, r.ID)
	}
	return ready, errors.Join(errs...)
}

// Holds returns the current hold count for id.
func (h *Holder) Holds(id ID) int {
	if e, ok := h.entries[id]; ok {
		return e.refs
	}
	return 0
}

// Len returns the number of resources currently tracked.
func (h *Holder) Len() int {
	return len(h.entries)
}

// Tracked returns the tracked resource IDs in ascending order.
func (h *Holder) Tracked() []ID {
	ids := make([]ID, 0, len(h.entries))
	for id := range h.entries {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
