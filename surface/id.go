// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package surface defines the identifiers that name a compositing client and
// the sequence tokens used to defer surface destruction.
package surface

import "fmt"

// Namespace identifies the process or subsystem that allocated an ID.
type Namespace uint32

// ID names one surface. It is an opaque value: two IDs are the same surface
// exactly when all fields are equal. The zero ID is the null surface and is
// never handed out by an Allocator.
type ID struct {
	// Namespace is the allocating client.
	Namespace Namespace

	// Local is unique within Namespace.
	Local uint32

	// Nonce is a random salt so a client cannot forge another client's
	// ID by guessing Local.
	Nonce uint64
}

// Null is the invalid surface ID.
var Null = ID{}

// IsNull reports whether id is the null surface.
func (id ID) IsNull() bool {
	return id == Null
}

// String formats the ID for logs.
func (id ID) String() string {
	if id.IsNull() {
		return "surface(null)"
	}
	return fmt.Sprintf("surface(%d:%d:%016x)", id.Namespace, id.Local, id.Nonce)
}

// Sequence is a destruction-dependency token. A destroyed surface that is
// still required by a sequence stays alive until some frame reports the
// sequence as satisfied.
type Sequence struct {
	Namespace Namespace
	Value     uint32
}

// String formats the sequence for logs.
func (s Sequence) String() string {
	return fmt.Sprintf("seq(%d:%d)", s.Namespace, s.Value)
}
