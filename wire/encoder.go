// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wire

import (
	"encoding/binary"
	"image/color"
	"math"

	"github.com/gogpu/compositor/frame"
	"github.com/gogpu/compositor/geom"
	"github.com/gogpu/compositor/surface"
)

// Encoder appends records to a byte buffer.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an encoder with the stream header written.
func NewEncoder() *Encoder {
	e := &Encoder{buf: make([]byte, 0, 256)}
	e.buf = append(e.buf, magic[:]...)
	e.buf = append(e.buf, Version)
	return e
}

// Bytes returns the encoded stream.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Encode serialises f.
func Encode(f *frame.Frame) []byte {
	e := NewEncoder()
	e.EncodeFrame(f)
	return e.Bytes()
}

// EncodeFrame appends f followed by TagEnd.
func (e *Encoder) EncodeFrame(f *frame.Frame) {
	e.tag(TagFrame)
	e.f64(f.DeviceScale)
	e.u32(uint32(len(f.Resources)))
	e.u32(uint32(len(f.Passes)))

	for _, r := range f.Resources {
		e.tag(TagResource)
		e.u32(uint32(r.ID))
		e.boolean(r.IsSoftware)
		e.u32(uint32(r.Format))
		e.u32(uint32(int32(r.Size.X)))
		e.u32(uint32(int32(r.Size.Y)))
		e.u16(uint16(len(r.SyncToken)))
		e.buf = append(e.buf, r.SyncToken...)
	}

	for _, p := range f.Passes {
		e.encodePass(p)
	}

	for _, id := range f.Metadata.ReferencedSurfaces {
		e.tag(TagReferencedSurface)
		e.surfaceID(id)
	}
	for _, seq := range f.Metadata.SatisfiesSequences {
		e.tag(TagSatisfiesSequence)
		e.u32(uint32(seq.Namespace))
		e.u32(seq.Value)
	}
	e.tag(TagEnd)
}

func (e *Encoder) encodePass(p *frame.Pass) {
	e.tag(TagPass)
	e.u32(uint32(p.ID))
	e.rect(p.OutputRect)
	e.rect(p.DamageRect)
	e.matrix(p.TransformToRootTarget)
	e.boolean(p.HasTransparentBackground)
	e.u32(uint32(len(p.SharedStates)))
	e.u32(uint32(len(p.Quads)))

	for _, s := range p.SharedStates {
		e.tag(TagSharedState)
		e.matrix(s.QuadToTarget)
		e.rect(s.LayerBounds)
		e.rect(s.VisibleLayerRect)
		e.rect(s.ClipRect)
		e.boolean(s.IsClipped)
		e.f64(s.Opacity)
		e.buf = append(e.buf, byte(s.BlendMode))
	}
	for i := range p.Quads {
		e.encodeQuad(&p.Quads[i])
	}
}

func (e *Encoder) encodeQuad(q *frame.Quad) {
	prefix := func(t Tag) {
		e.tag(t)
		e.rect(q.Rect)
		e.rect(q.VisibleRect)
		e.u32(uint32(q.SharedState))
	}

	switch pl := q.Payload.(type) {
	case frame.SolidColor:
		prefix(TagSolidColor)
		e.rgba(pl.Color)
		e.boolean(pl.ForceAntiAliasingOff)
	case frame.Texture:
		prefix(TagTexture)
		e.u32(uint32(pl.Resource))
		e.f64(pl.UVTopLeft.X)
		e.f64(pl.UVTopLeft.Y)
		e.f64(pl.UVBottomRight.X)
		e.f64(pl.UVBottomRight.Y)
		e.rgba(pl.Background)
		var flags byte
		if pl.Premultiplied {
			flags |= texPremultiplied
		}
		if pl.Flipped {
			flags |= texFlipped
		}
		if pl.Nearest {
			flags |= texNearest
		}
		if pl.SecureOutputOnly {
			flags |= texSecureOutputOnly
		}
		e.buf = append(e.buf, flags)
	case frame.Video:
		prefix(TagVideo)
		e.u32(uint32(pl.Y))
		e.u32(uint32(pl.U))
		e.u32(uint32(pl.V))
		e.u32(uint32(pl.A))
	case frame.RenderPassRef:
		prefix(TagRenderPass)
		e.u32(uint32(pl.Pass))
		e.u32(uint32(pl.Mask))
		e.f64(pl.BlurRadius)
	case frame.SurfaceRef:
		prefix(TagSurface)
		e.surfaceID(pl.Surface)
	}
}

func (e *Encoder) tag(t Tag) { e.buf = append(e.buf, byte(t)) }

func (e *Encoder) boolean(v bool) {
	if v {
		e.buf = append(e.buf, 1)
		return
	}
	e.buf = append(e.buf, 0)
}

func (e *Encoder) u16(v uint16)  { e.buf = binary.LittleEndian.AppendUint16(e.buf, v) }
func (e *Encoder) u32(v uint32)  { e.buf = binary.LittleEndian.AppendUint32(e.buf, v) }
func (e *Encoder) u64(v uint64)  { e.buf = binary.LittleEndian.AppendUint64(e.buf, v) }
func (e *Encoder) f64(v float64) { e.u64(math.Float64bits(v)) }

func (e *Encoder) rect(r geom.Rect) {
	e.f64(r.MinX)
	e.f64(r.MinY)
	e.f64(r.MaxX)
	e.f64(r.MaxY)
}

func (e *Encoder) matrix(m geom.Matrix) {
	for _, v := range [...]float64{m.A, m.B, m.C, m.D, m.E, m.F} {
		e.f64(v)
	}
}

func (e *Encoder) rgba(c color.RGBA) {
	e.buf = append(e.buf, c.R, c.G, c.B, c.A)
}

func (e *Encoder) surfaceID(id surface.ID) {
	e.u32(uint32(id.Namespace))
	e.u32(id.Local)
	e.u64(id.Nonce)
}
