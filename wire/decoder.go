// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wire

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/compositor/frame"
	"github.com/gogpu/compositor/geom"
	"github.com/gogpu/compositor/resource"
	"github.com/gogpu/compositor/surface"
)

// Stream errors. Each wraps frame.ErrMalformed so callers can treat wire
// and structural failures alike.
var (
	ErrBadMagic   = fmt.Errorf("%w: bad stream header", frame.ErrMalformed)
	ErrVersion    = fmt.Errorf("%w: unsupported stream version", frame.ErrMalformed)
	ErrTruncated  = fmt.Errorf("%w: truncated stream", frame.ErrMalformed)
	ErrUnexpected = fmt.Errorf("%w: unexpected tag", frame.ErrMalformed)
	ErrTrailing   = fmt.Errorf("%w: data after end of frame", frame.ErrMalformed)

	errBadBool = fmt.Errorf("%w: invalid boolean", frame.ErrMalformed)
	errCount   = fmt.Errorf("%w: count too large", frame.ErrMalformed)
)

// maxCount bounds any count read from the stream before allocation.
const maxCount = 1 << 20

// Decoder reads records from an encoded stream. The first error sticks:
// later reads return zero values and Err reports it.
type Decoder struct {
	buf []byte
	off int
	err error
}

// NewDecoder returns a decoder positioned after the stream header.
func NewDecoder(data []byte) *Decoder {
	d := &Decoder{buf: data}
	var head [4]byte
	copy(head[:], d.take(4))
	if d.err != nil || head != magic {
		d.fail(ErrBadMagic)
		return d
	}
	if v := d.u8(); d.err == nil && v != Version {
		d.fail(fmt.Errorf("version %d: %w", v, ErrVersion))
	}
	return d
}

// Err returns the first error encountered.
func (d *Decoder) Err() error {
	return d.err
}

// Decode parses data into a frame and validates it. On any failure the
// whole buffer is rejected.
func Decode(data []byte) (*frame.Frame, error) {
	d := NewDecoder(data)
	f := d.DecodeFrame()
	if d.err != nil {
		return nil, d.err
	}
	if d.off != len(d.buf) {
		return nil, fmt.Errorf("offset %d: %w", d.off, ErrTrailing)
	}
	if err := frame.Validate(f); err != nil {
		return nil, err
	}
	return f, nil
}

// DecodeFrame reads one frame up to and including TagEnd.
func (d *Decoder) DecodeFrame() *frame.Frame {
	d.expect(TagFrame)
	f := &frame.Frame{DeviceScale: d.f64()}
	resources := d.count()
	passes := d.count()

	for range resources {
		d.expect(TagResource)
		r := resource.Transferable{
			ID:         resource.ID(d.u32()),
			IsSoftware: d.boolean(),
			Format:     gputypes.TextureFormat(d.u32()),
		}
		w, h := int32(d.u32()), int32(d.u32())
		r.Size = image.Pt(int(w), int(h))
		if n := int(d.u16()); n > 0 {
			r.SyncToken = append(resource.SyncToken(nil), d.take(n)...)
		}
		if d.err != nil {
			return nil
		}
		f.Resources = append(f.Resources, r)
	}

	for range passes {
		p := d.decodePass()
		if d.err != nil {
			return nil
		}
		f.Passes = append(f.Passes, p)
	}

	for d.err == nil {
		switch t := Tag(d.u8()); t {
		case TagReferencedSurface:
			f.Metadata.ReferencedSurfaces = append(f.Metadata.ReferencedSurfaces, d.surfaceID())
		case TagSatisfiesSequence:
			seq := surface.Sequence{Namespace: surface.Namespace(d.u32()), Value: d.u32()}
			f.Metadata.SatisfiesSequences = append(f.Metadata.SatisfiesSequences, seq)
		case TagEnd:
			return f
		default:
			d.unexpected(t)
		}
	}
	return nil
}

func (d *Decoder) decodePass() *frame.Pass {
	d.expect(TagPass)
	p := &frame.Pass{ID: frame.PassID(d.u32())}
	p.OutputRect = d.rect()
	p.DamageRect = d.rect()
	p.TransformToRootTarget = d.matrix()
	p.HasTransparentBackground = d.boolean()
	states := d.count()
	quads := d.count()

	for range states {
		d.expect(TagSharedState)
		s := frame.SharedState{
			QuadToTarget:     d.matrix(),
			LayerBounds:      d.rect(),
			VisibleLayerRect: d.rect(),
			ClipRect:         d.rect(),
			IsClipped:        d.boolean(),
			Opacity:          d.f64(),
			BlendMode:        frame.BlendMode(d.u8()),
		}
		if d.err != nil {
			return nil
		}
		p.SharedStates = append(p.SharedStates, s)
	}

	for range quads {
		q, ok := d.decodeQuad()
		if !ok {
			return nil
		}
		p.Quads = append(p.Quads, q)
	}
	return p
}

func (d *Decoder) decodeQuad() (frame.Quad, bool) {
	t := Tag(d.u8())
	if d.err != nil {
		return frame.Quad{}, false
	}
	if !t.IsQuad() || t.String() == "Unknown" {
		d.unexpected(t)
		return frame.Quad{}, false
	}
	q := frame.Quad{
		Rect:        d.rect(),
		VisibleRect: d.rect(),
		SharedState: int(d.u32()),
	}

	switch t {
	case TagSolidColor:
		q.Payload = frame.SolidColor{Color: d.rgba(), ForceAntiAliasingOff: d.boolean()}
	case TagTexture:
		tex := frame.Texture{Resource: resource.ID(d.u32())}
		tex.UVTopLeft = geom.Pt(d.f64(), d.f64())
		tex.UVBottomRight = geom.Pt(d.f64(), d.f64())
		tex.Background = d.rgba()
		flags := d.u8()
		tex.Premultiplied = flags&texPremultiplied != 0
		tex.Flipped = flags&texFlipped != 0
		tex.Nearest = flags&texNearest != 0
		tex.SecureOutputOnly = flags&texSecureOutputOnly != 0
		q.Payload = tex
	case TagVideo:
		q.Payload = frame.Video{
			Y: resource.ID(d.u32()),
			U: resource.ID(d.u32()),
			V: resource.ID(d.u32()),
			A: resource.ID(d.u32()),
		}
	case TagRenderPass:
		q.Payload = frame.RenderPassRef{
			Pass:       frame.PassID(d.u32()),
			Mask:       resource.ID(d.u32()),
			BlurRadius: d.f64(),
		}
	case TagSurface:
		q.Payload = frame.SurfaceRef{Surface: d.surfaceID()}
	}
	return q, d.err == nil
}

func (d *Decoder) fail(err error) {
	if d.err == nil {
		d.err = err
	}
}

func (d *Decoder) unexpected(t Tag) {
	d.fail(fmt.Errorf("offset %d tag 0x%02x (%v): %w", d.off-1, byte(t), t, ErrUnexpected))
}

func (d *Decoder) expect(want Tag) {
	if t := Tag(d.u8()); d.err == nil && t != want {
		d.fail(fmt.Errorf("offset %d: got %v, want %v: %w", d.off-1, t, want, ErrUnexpected))
	}
}

// take returns the next n bytes, or nil after recording ErrTruncated.
func (d *Decoder) take(n int) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || len(d.buf)-d.off < n {
		d.fail(fmt.Errorf("offset %d need %d: %w", d.off, n, ErrTruncated))
		return nil
	}
	b := d.buf[d.off : d.off+n]
	d.off += n
	return b
}

func (d *Decoder) u8() byte {
	if b := d.take(1); b != nil {
		return b[0]
	}
	return 0
}

func (d *Decoder) u16() uint16 {
	if b := d.take(2); b != nil {
		return binary.LittleEndian.Uint16(b)
	}
	return 0
}

func (d *Decoder) u32() uint32 {
	if b := d.take(4); b != nil {
		return binary.LittleEndian.Uint32(b)
	}
	return 0
}

func (d *Decoder) u64() uint64 {
	if b := d.take(8); b != nil {
		return binary.LittleEndian.Uint64(b)
	}
	return 0
}

func (d *Decoder) f64() float64 {
	return math.Float64frombits(d.u64())
}

func (d *Decoder) boolean() bool {
	switch d.u8() {
	case 0:
		return false
	case 1:
		return true
	default:
		d.fail(fmt.Errorf("offset %d: %w", d.off-1, errBadBool))
		return false
	}
}

// count reads a u32 element count and bounds it.
func (d *Decoder) count() int {
	n := d.u32()
	if n > maxCount {
		d.fail(fmt.Errorf("count %d: %w", n, errCount))
		return 0
	}
	return int(n)
}

func (d *Decoder) rect() geom.Rect {
	return geom.Rect{MinX: d.f64(), MinY: d.f64(), MaxX: d.f64(), MaxY: d.f64()}
}

func (d *Decoder) matrix() geom.Matrix {
	return geom.Matrix{A: d.f64(), B: d.f64(), C: d.f64(), D: d.f64(), E: d.f64(), F: d.f64()}
}

func (d *Decoder) rgba() color.RGBA {
	b := d.take(4)
	if b == nil {
		return color.RGBA{}
	}
	return color.RGBA{R: b[0], G: b[1], B: b[2], A: b[3]}
}

func (d *Decoder) surfaceID() surface.ID {
	return surface.ID{
		Namespace: surface.Namespace(d.u32()),
		Local:     d.u32(),
		Nonce:     d.u64(),
	}
}
