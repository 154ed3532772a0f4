// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wire

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/compositor/frame"
	"github.com/gogpu/compositor/geom"
	"github.com/gogpu/compositor/resource"
	"github.com/gogpu/compositor/surface"
)

func sampleFrame() *frame.Frame {
	child := surface.ID{Namespace: 3, Local: 4, Nonce: 0xfeed}

	off := frame.NewPass(1, geom.NewRect(0, 0, 16, 16))
	off.TransformToRootTarget = geom.Translate(4, 4)
	off.AppendQuad(geom.NewRect(0, 0, 16, 16), geom.NewRect(0, 0, 16, 16),
		frame.Video{Y: 2, U: 3, V: 4})

	vis := frame.NewPass(2, geom.NewRect(0, 0, 64, 64))
	vis.DamageRect = geom.NewRect(1, 2, 3, 4)
	vis.HasTransparentBackground = true
	st := frame.DefaultSharedState(geom.NewRect(0, 0, 64, 64))
	st.IsClipped = true
	st.ClipRect = geom.NewRect(0, 0, 32, 32)
	st.Opacity = 0.75
	st.BlendMode = frame.BlendMultiply
	vis.AppendSharedState(st)
	vis.AppendQuad(geom.NewRect(0, 0, 8, 8), geom.NewRect(0, 0, 4, 4),
		frame.SolidColor{Color: color.RGBA{R: 1, G: 2, B: 3, A: 4}})
	tex := frame.FullUV(1)
	tex.SecureOutputOnly = true
	tex.Nearest = true
	vis.AppendQuad(geom.NewRect(0, 0, 8, 8), geom.NewRect(0, 0, 8, 8), tex)
	vis.AppendSharedState(frame.DefaultSharedState(geom.NewRect(0, 0, 16, 16)))
	vis.AppendQuad(geom.NewRect(0, 0, 16, 16), geom.NewRect(0, 0, 16, 16),
		frame.RenderPassRef{Pass: 1, BlurRadius: 1.5})
	vis.AppendQuad(geom.NewRect(0, 0, 16, 16), geom.NewRect(0, 0, 16, 16),
		frame.SurfaceRef{Surface: child})

	f := frame.New(off, vis)
	f.DeviceScale = 2
	for id := resource.ID(1); id <= 4; id++ {
		f.Resources = append(f.Resources, resource.Transferable{
			ID:         id,
			IsSoftware: id%2 == 0,
			Format:     gputypes.TextureFormatRGBA8Unorm,
			Size:       image.Pt(16, 16),
		})
	}
	f.Resources[0].SyncToken = resource.SyncToken{9, 9}
	f.Metadata.ReferencedSurfaces = []surface.ID{child}
	f.Metadata.SatisfiesSequences = []surface.Sequence{{Namespace: 3, Value: 7}}
	return f
}

func TestRoundTrip(t *testing.T) {
	want := sampleFrame()
	got, err := Decode(Encode(want))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if got.DeviceScale != want.DeviceScale {
		t.Errorf("DeviceScale = %v, want %v", got.DeviceScale, want.DeviceScale)
	}
	if len(got.Passes) != 2 || got.Passes[1].ID != 2 {
		t.Fatalf("Passes = %d, want 2 with visible id 2", len(got.Passes))
	}
	vis := got.Passes[1]
	if vis.DamageRect != want.Passes[1].DamageRect || !vis.HasTransparentBackground {
		t.Errorf("visible pass = %+v", vis)
	}
	if s := vis.SharedStates[0]; s.Opacity != 0.75 || s.BlendMode != frame.BlendMultiply || !s.IsClipped {
		t.Errorf("SharedStates[0] = %+v", s)
	}
	for i := range want.Passes[1].Quads {
		if g, w := vis.Quads[i], want.Passes[1].Quads[i]; g != w {
			t.Errorf("Quads[%d] = %+v, want %+v", i, g, w)
		}
	}
	if got.Passes[0].TransformToRootTarget != geom.Translate(4, 4) {
		t.Errorf("offscreen transform = %v", got.Passes[0].TransformToRootTarget)
	}
	if r := got.Resources[0]; string(r.SyncToken) != "\x09\x09" || r.Size != image.Pt(16, 16) {
		t.Errorf("Resources[0] = %+v", r)
	}
	if got.Resources[1].Format != gputypes.TextureFormatRGBA8Unorm || !got.Resources[1].IsSoftware {
		t.Errorf("Resources[1] = %+v", got.Resources[1])
	}
	if len(got.Metadata.SatisfiesSequences) != 1 || got.Metadata.ReferencedSurfaces[0] != want.Metadata.ReferencedSurfaces[0] {
		t.Errorf("Metadata = %+v", got.Metadata)
	}
}

func TestDecodeRejects(t *testing.T) {
	valid := Encode(sampleFrame())

	tests := []struct {
		name string
		data func() []byte
		want error
	}{
		{"empty", func() []byte { return nil }, ErrBadMagic},
		{"bad magic", func() []byte {
			b := append([]byte(nil), valid...)
			b[0] = 'X'
			return b
		}, ErrBadMagic},
		{"version", func() []byte {
			b := append([]byte(nil), valid...)
			b[4] = 9
			return b
		}, ErrVersion},
		{"truncated", func() []byte { return valid[:len(valid)-10] }, ErrTruncated},
		{"trailing", func() []byte { return append(append([]byte(nil), valid...), 0) }, ErrTrailing},
		{"missing end", func() []byte {
			b := append([]byte(nil), valid[:len(valid)-1]...)
			return append(b, byte(TagPass))
		}, ErrUnexpected},
		{"dangling pass ref", func() []byte {
			f := sampleFrame()
			f.Passes[1].Quads[2].Payload = frame.RenderPassRef{Pass: 5}
			return Encode(f)
		}, frame.ErrDanglingPassRef},
		{"state out of range", func() []byte {
			f := sampleFrame()
			f.Passes[1].Quads[0].SharedState = 4
			return Encode(f)
		}, frame.ErrSharedStateIndex},
		{"visible outside rect", func() []byte {
			f := sampleFrame()
			f.Passes[1].Quads[0].VisibleRect = geom.NewRect(0, 0, 9, 9)
			return Encode(f)
		}, frame.ErrVisibleOutsideRect},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Decode(tt.data())
			if f != nil {
				t.Error("Decode() returned a frame for bad input")
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Decode() error = %v, want %v", err, tt.want)
			}
			if !errors.Is(err, frame.ErrMalformed) {
				t.Errorf("Decode() error = %v, does not wrap ErrMalformed", err)
			}
		})
	}
}

func TestDecodeUnknownQuadTag(t *testing.T) {
	f := frame.New(frame.NewPass(1, geom.NewRect(0, 0, 1, 1)))
	f.Passes[0].AppendQuad(geom.NewRect(0, 0, 1, 1), geom.NewRect(0, 0, 1, 1), frame.SolidColor{})
	b := Encode(f)

	// The quad tag follows the frame header, the pass record and one
	// shared state record.
	idx := -1
	for i, v := range b {
		if Tag(v) == TagSolidColor {
			idx = i
		}
	}
	if idx < 0 {
		t.Fatal("solid color tag not found")
	}
	b[idx] = 0x3E
	if _, err := Decode(b); !errors.Is(err, ErrUnexpected) {
		t.Errorf("Decode() error = %v, want ErrUnexpected", err)
	}
}

func TestTagString(t *testing.T) {
	if got := TagRenderPass.String(); got != "RenderPass" {
		t.Errorf("TagRenderPass.String() = %q", got)
	}
	if got := Tag(0xEE).String(); got != "Unknown" {
		t.Errorf("Tag(0xEE).String() = %q", got)
	}
	if !TagSurface.IsQuad() || TagPass.IsQuad() {
		t.Error("IsQuad() misclassified")
	}
}
