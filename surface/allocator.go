// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"math/rand/v2"
	"sync"
)

// Allocator hands out surface IDs and sequence tokens for one namespace.
//
// Allocator is safe for concurrent use.
type Allocator struct {
	namespace Namespace

	mu       sync.Mutex
	nextID   uint32
	nextSeq  uint32
	useNonce bool
}

// NewAllocator creates an allocator whose IDs carry a random nonce.
func NewAllocator(ns Namespace) *Allocator {
	return &Allocator{namespace: ns, nextID: 1, nextSeq: 1, useNonce: true}
}

// NewDeterministicAllocator creates an allocator that leaves Nonce zero.
// Useful in tests and tools that need reproducible IDs.
func NewDeterministicAllocator(ns Namespace) *Allocator {
	return &Allocator{namespace: ns, nextID: 1, nextSeq: 1}
}

// Namespace returns the allocator's namespace.
func (a *Allocator) Namespace() Namespace {
	return a.namespace
}

// NewID returns a fresh surface ID.
func (a *Allocator) NewID() ID {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := ID{Namespace: a.namespace, Local: a.nextID}
	a.nextID++
	if a.useNonce {
		// A zero nonce is legal; re-roll only to keep the ID non-null.
		for id.Nonce == 0 {
			id.Nonce = rand.Uint64()
		}
	}
	return id
}

// NewSequence returns a fresh sequence token.
func (a *Allocator) NewSequence() Sequence {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := Sequence{Namespace: a.namespace, Value: a.nextSeq}
	a.nextSeq++
	return s
}
