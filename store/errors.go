// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package store

import "errors"

// Sentinel errors for contract violations by a producer.
var (
	// ErrNullSurface is returned when the null surface id is used.
	ErrNullSurface = errors.New("store: null surface id")

	// ErrUnknownSurface is returned for ids the manager does not know.
	ErrUnknownSurface = errors.New("store: unknown surface")

	// ErrNotOwner is returned when a factory acts on a surface it did not create.
	ErrNotOwner = errors.New("store: surface owned by another factory")

	// ErrAlreadyDestroyed is returned when a destroyed surface is used again.
	ErrAlreadyDestroyed = errors.New("store: surface already destroyed")

	// ErrSurfaceExists is returned when Create reuses a live id.
	ErrSurfaceExists = errors.New("store: surface already exists")
)
