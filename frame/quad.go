// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package frame

import (
	"image/color"

	"github.com/gogpu/compositor/geom"
	"github.com/gogpu/compositor/resource"
	"github.com/gogpu/compositor/surface"
)

// PassID identifies a render pass within one frame. Zero is never a valid id.
type PassID uint32

// Payload is the material-specific content of a quad.
// The set of implementations is closed to this package.
type Payload interface {
	Material() Material
	isPayload()
}

// Quad is one draw command within a pass.
type Quad struct {
	// Rect is the quad extent in quad space.
	Rect geom.Rect

	// VisibleRect is the part of Rect that is not occluded.
	VisibleRect geom.Rect

	// SharedState indexes the owning pass's SharedStates.
	SharedState int

	Payload Payload
}

// Material returns the quad's material, or MaterialInvalid without payload.
func (q *Quad) Material() Material {
	if q.Payload == nil {
		return MaterialInvalid
	}
	return q.Payload.Material()
}

// Resources returns the resource ids the quad samples from.
func (q *Quad) Resources() []resource.ID {
	switch p := q.Payload.(type) {
	case Texture:
		return []resource.ID{p.Resource}
	case Video:
		return p.Planes()
	case RenderPassRef:
		if p.Mask != 0 {
			return []resource.ID{p.Mask}
		}
	}
	return nil
}

// SolidColor fills the quad with a single color.
type SolidColor struct {
	Color color.RGBA

	// ForceAntiAliasingOff disables edge anti-aliasing.
	ForceAntiAliasingOff bool
}

// Texture samples a producer-owned buffer over the quad.
type Texture struct {
	Resource resource.ID

	// UVTopLeft and UVBottomRight are normalized texture coordinates.
	UVTopLeft     geom.Point
	UVBottomRight geom.Point

	Background    color.RGBA
	Premultiplied bool
	Flipped       bool
	Nearest       bool

	// SecureOutputOnly restricts the texture to secure outputs.
	// Elsewhere it is replaced by opaque black.
	SecureOutputOnly bool
}

// FullUV returns a texture payload sampling the whole of res.
func FullUV(res resource.ID) Texture {
	return Texture{
		Resource:      res,
		UVBottomRight: geom.Pt(1, 1),
		Premultiplied: true,
	}
}

// Video draws planar YUV buffers. A is zero when there is no alpha plane.
type Video struct {
	Y, U, V, A resource.ID
}

// Planes returns the non-zero plane ids in Y, U, V, A order.
func (v Video) Planes() []resource.ID {
	planes := make([]resource.ID, 0, 4)
	for _, id := range [...]resource.ID{v.Y, v.U, v.V, v.A} {
		if id != 0 {
			planes = append(planes, id)
		}
	}
	return planes
}

// RenderPassRef draws the output of another pass of the same frame.
type RenderPassRef struct {
	Pass PassID

	// Mask is an optional mask resource, zero for none.
	Mask resource.ID

	// BlurRadius is a filter applied to the referenced pass output.
	// A non-zero radius moves pixels, so the referenced pass is always
	// fully redrawn.
	BlurRadius float64
}

// HasPixelMovingFilter reports whether the filter reads outside the damaged area.
func (r RenderPassRef) HasPixelMovingFilter() bool {
	return r.BlurRadius > 0
}

// SurfaceRef embeds the visible pass of another surface. The opacity
// applied to the embedded content is the quad's shared state opacity.
type SurfaceRef struct {
	Surface surface.ID
}

func (SolidColor) Material() Material    { return MaterialSolidColor }
func (Texture) Material() Material       { return MaterialTexture }
func (Video) Material() Material         { return MaterialVideo }
func (RenderPassRef) Material() Material { return MaterialRenderPass }
func (SurfaceRef) Material() Material    { return MaterialSurface }

func (SolidColor) isPayload()    {}
func (Texture) isPayload()       {}
func (Video) isPayload()         {}
func (RenderPassRef) isPayload() {}
func (SurfaceRef) isPayload()    {}
