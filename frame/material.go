// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package frame

// Material identifies the payload kind of a quad.
type Material uint8

const (
	MaterialInvalid    Material = iota // No payload
	MaterialSolidColor                 // Flat color
	MaterialTexture                    // Producer-owned buffer
	MaterialVideo                      // Planar YUV buffers
	MaterialRenderPass                 // Another pass of the same frame
	MaterialSurface                    // Another surface's visible pass
)

// materialNames maps Material values to their string representation.
var materialNames = [...]string{
	MaterialInvalid:    "Invalid",
	MaterialSolidColor: "SolidColor",
	MaterialTexture:    "Texture",
	MaterialVideo:      "Video",
	MaterialRenderPass: "RenderPass",
	MaterialSurface:    "Surface",
}

// String returns the string representation of a Material.
func (m Material) String() string {
	if int(m) < len(materialNames) {
		return materialNames[m]
	}
	return "Unknown"
}

// IsInlineable reports whether quads of this material may appear in an
// aggregated frame.
func (m Material) IsInlineable() bool {
	switch m {
	case MaterialSolidColor, MaterialTexture, MaterialVideo, MaterialRenderPass:
		return true
	default:
		return false
	}
}
