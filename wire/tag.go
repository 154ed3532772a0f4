// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package wire encodes frames into a compact binary stream for transport
// between a producer and the frame store, and decodes them back with full
// validation.
//
// The stream is a magic header followed by single-byte tags, each followed
// by a fixed data layout. Tags are grouped by their high nibble:
//
//	0x0X: Frame header and trailer
//	0x1X: Passes
//	0x2X: Shared states
//	0x3X: Quads, one tag per material
//	0x4X: Resources
//	0x5X: Metadata
//
// All numbers are little-endian. Copy requests are process-local and are
// not encoded.
package wire

// Tag identifies a record in the stream.
type Tag byte

// Tag constants. Each tag has a fixed data layout documented in its comment.
const (
	// TagFrame starts a frame.
	// Data: f64 device scale, u32 resource count, u32 pass count
	TagFrame Tag = 0x01

	// TagEnd terminates the stream.
	// Data: none
	TagEnd Tag = 0x0F

	// TagPass starts a pass; its shared states and quads follow.
	// Data: u32 id, rect output, rect damage, matrix to root,
	// u8 transparent, u32 state count, u32 quad count
	TagPass Tag = 0x10

	// TagSharedState encodes one shared state.
	// Data: matrix, rect layer bounds, rect visible layer, rect clip,
	// u8 clipped, f64 opacity, u8 blend mode
	TagSharedState Tag = 0x20

	// Quad tags share a prefix.
	// Prefix: rect, rect visible, u32 shared state index

	// TagSolidColor data: prefix, rgba, u8 flags
	TagSolidColor Tag = 0x31

	// TagTexture data: prefix, u32 resource, 4 f64 uv, rgba background, u8 flags
	TagTexture Tag = 0x32

	// TagVideo data: prefix, u32 y, u32 u, u32 v, u32 a
	TagVideo Tag = 0x33

	// TagRenderPass data: prefix, u32 pass, u32 mask, f64 blur radius
	TagRenderPass Tag = 0x34

	// TagSurface data: prefix, surface id
	TagSurface Tag = 0x35

	// TagResource encodes one transferable resource.
	// Data: u32 id, u8 software, u32 format, i32 width, i32 height,
	// u16 sync token length, token bytes
	TagResource Tag = 0x40

	// TagReferencedSurface data: surface id (u32 namespace, u32 local, u64 nonce)
	TagReferencedSurface Tag = 0x50

	// TagSatisfiesSequence data: u32 namespace, u32 value
	TagSatisfiesSequence Tag = 0x51
)

// Texture flag bits.
const (
	texPremultiplied = 1 << iota
	texFlipped
	texNearest
	texSecureOutputOnly
)

// magic opens every stream, followed by a version byte.
var magic = [4]byte{'S', 'F', 'R', 'M'}

// Version is the stream format version written by Encode.
const Version = 1

// tagNames maps tags to their string representation.
var tagNames = map[Tag]string{
	TagFrame:             "Frame",
	TagEnd:               "End",
	TagPass:              "Pass",
	TagSharedState:       "SharedState",
	TagSolidColor:        "SolidColor",
	TagTexture:           "Texture",
	TagVideo:             "Video",
	TagRenderPass:        "RenderPass",
	TagSurface:           "Surface",
	TagResource:          "Resource",
	TagReferencedSurface: "ReferencedSurface",
	TagSatisfiesSequence: "SatisfiesSequence",
}

// String returns the string representation of a tag.
func (t Tag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return "Unknown"
}

// IsQuad reports whether t starts a quad record.
func (t Tag) IsQuad() bool {
	return t&0xF0 == 0x30
}
