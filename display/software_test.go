// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package display

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/compositor/aggregate"
	"github.com/gogpu/compositor/frame"
	"github.com/gogpu/compositor/geom"
	"github.com/gogpu/compositor/resource"
	"github.com/gogpu/compositor/surface"
)

// identityResolver resolves every output id to the same id of one surface.
type identityResolver struct {
	s surface.ID
}

func (r identityResolver) ResolveResource(id resource.ID) (aggregate.ResourceKey, bool) {
	return aggregate.ResourceKey{Surface: r.s, ID: id}, true
}

func newTestSoftware() (*Software, *ResourceImages, surface.ID) {
	s := surface.ID{Namespace: 9, Local: 1}
	images := NewResourceImages()
	return NewSoftware(identityResolver{s}, images), images, s
}

func checker(w, h int, a, b color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := a
			if (x+y)%2 == 1 {
				c = b
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestSoftwareNoPasses(t *testing.T) {
	soft, _, _ := newTestSoftware()
	if err := soft.DrawFrame(nil, 1, geom.Rect{}, geom.Rect{}); !errors.Is(err, ErrNoPasses) {
		t.Errorf("DrawFrame(nil) error = %v, want ErrNoPasses", err)
	}
	if soft.Image() != nil {
		t.Error("Image() before a frame should be nil")
	}
}

func TestSoftwareTransparentBackground(t *testing.T) {
	soft, _, _ := newTestSoftware()
	soft.Background = blue

	p := frame.NewPass(1, geom.NewRect(0, 0, 4, 4))
	p.HasTransparentBackground = true
	if err := soft.DrawFrame([]*frame.Pass{p}, 2, geom.Rect{}, geom.Rect{}); err != nil {
		t.Fatal(err)
	}
	pixel(t, soft.Image(), 1, 1, color.RGBA{})
	if soft.DeviceScale() != 2 {
		t.Errorf("DeviceScale() = %v, want 2", soft.DeviceScale())
	}

	p.HasTransparentBackground = false
	p.ID = 2
	if err := soft.DrawFrame([]*frame.Pass{p}, 1, geom.Rect{}, geom.Rect{}); err != nil {
		t.Fatal(err)
	}
	pixel(t, soft.Image(), 1, 1, blue)
}

func TestSoftwareTexture(t *testing.T) {
	soft, images, s := newTestSoftware()
	images.Set(s, 5, checker(2, 2, red, green))

	p := frame.NewPass(1, geom.NewRect(0, 0, 8, 8))
	tex := frame.FullUV(5)
	tex.Nearest = true
	quad(p, geom.Identity(), geom.NewRect(0, 0, 4, 4), tex)

	flipped := tex
	flipped.Flipped = true
	quad(p, geom.Translate(4, 4), geom.NewRect(0, 0, 4, 4), flipped)

	if err := soft.DrawFrame([]*frame.Pass{p}, 1, geom.Rect{}, geom.Rect{}); err != nil {
		t.Fatal(err)
	}
	img := soft.Image()
	// Each texel covers 2x2 pixels.
	pixel(t, img, 0, 0, red)
	pixel(t, img, 3, 0, green)
	pixel(t, img, 0, 3, green)
	pixel(t, img, 3, 3, red)
	// Flipped: the bottom texel row is drawn on top.
	pixel(t, img, 4, 4, green)
	pixel(t, img, 7, 4, red)
}

func TestSoftwareTextureUVSubRect(t *testing.T) {
	soft, images, s := newTestSoftware()
	src := image.NewRGBA(image.Rect(0, 0, 4, 1))
	src.SetRGBA(0, 0, red)
	src.SetRGBA(1, 0, red)
	src.SetRGBA(2, 0, green)
	src.SetRGBA(3, 0, green)
	images.Set(s, 1, src)

	p := frame.NewPass(1, geom.NewRect(0, 0, 4, 4))
	tex := frame.FullUV(1)
	tex.Nearest = true
	tex.UVTopLeft = geom.Pt(0.5, 0)
	quad(p, geom.Identity(), geom.NewRect(0, 0, 4, 4), tex)

	if err := soft.DrawFrame([]*frame.Pass{p}, 1, geom.Rect{}, geom.Rect{}); err != nil {
		t.Fatal(err)
	}
	pixel(t, soft.Image(), 0, 0, green)
	pixel(t, soft.Image(), 3, 3, green)
}

func TestSoftwareMissingTextureDrawsBackground(t *testing.T) {
	soft, _, _ := newTestSoftware()
	soft.Background = black

	p := frame.NewPass(1, geom.NewRect(0, 0, 4, 4))
	tex := frame.FullUV(42)
	tex.Background = blue
	quad(p, geom.Identity(), geom.NewRect(0, 0, 4, 4), tex)

	if err := soft.DrawFrame([]*frame.Pass{p}, 1, geom.Rect{}, geom.Rect{}); err != nil {
		t.Fatal(err)
	}
	pixel(t, soft.Image(), 2, 2, blue)
}

func TestSoftwareVideo(t *testing.T) {
	soft, images, s := newTestSoftware()

	y := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range y.Pix {
		y.Pix[i] = 255
	}
	cb := image.NewGray(image.Rect(0, 0, 2, 2))
	cr := image.NewGray(image.Rect(0, 0, 2, 2))
	for i := range cb.Pix {
		cb.Pix[i], cr.Pix[i] = 128, 128
	}
	images.Set(s, 1, y)
	images.Set(s, 2, cb)
	images.Set(s, 3, cr)

	p := frame.NewPass(1, geom.NewRect(0, 0, 4, 4))
	quad(p, geom.Identity(), geom.NewRect(0, 0, 4, 4), frame.Video{Y: 1, U: 2, V: 3})

	if err := soft.DrawFrame([]*frame.Pass{p}, 1, geom.Rect{}, geom.Rect{}); err != nil {
		t.Fatal(err)
	}
	got := soft.Image().RGBAAt(1, 1)
	if got.R < 250 || got.G < 250 || got.B < 250 || got.A != 255 {
		t.Errorf("video pixel = %v, want white", got)
	}
}

func TestSubsampleRatio(t *testing.T) {
	tests := []struct {
		luma, chroma image.Point
		want         image.YCbCrSubsampleRatio
		ok           bool
	}{
		{image.Pt(4, 4), image.Pt(4, 4), image.YCbCrSubsampleRatio444, true},
		{image.Pt(4, 4), image.Pt(2, 2), image.YCbCrSubsampleRatio420, true},
		{image.Pt(5, 5), image.Pt(3, 3), image.YCbCrSubsampleRatio420, true},
		{image.Pt(4, 4), image.Pt(2, 4), image.YCbCrSubsampleRatio422, true},
		{image.Pt(4, 4), image.Pt(4, 2), image.YCbCrSubsampleRatio440, true},
		{image.Pt(4, 4), image.Pt(1, 1), 0, false},
	}
	for _, tt := range tests {
		got, ok := subsampleRatio(tt.luma, tt.chroma)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("subsampleRatio(%v, %v) = %v, %v, want %v, %v", tt.luma, tt.chroma, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSoftwareRenderPass(t *testing.T) {
	soft, _, _ := newTestSoftware()

	inner := frame.NewPass(1, geom.NewRect(0, 0, 4, 4))
	quad(inner, geom.Identity(), geom.NewRect(0, 0, 4, 4), frame.SolidColor{Color: green})

	root := frame.NewPass(2, geom.NewRect(0, 0, 10, 10))
	quad(root, geom.Identity(), geom.NewRect(0, 0, 10, 10), frame.SolidColor{Color: red})
	quad(root, geom.Translate(6, 6), geom.NewRect(0, 0, 4, 4), frame.RenderPassRef{Pass: 1})

	if err := soft.DrawFrame([]*frame.Pass{inner, root}, 1, geom.Rect{}, geom.Rect{}); err != nil {
		t.Fatal(err)
	}
	pixel(t, soft.Image(), 5, 5, red)
	pixel(t, soft.Image(), 6, 6, green)
	pixel(t, soft.Image(), 9, 9, green)

	if img, ok := soft.PassImage(1); !ok || img.Rect != image.Rect(0, 0, 4, 4) {
		t.Errorf("PassImage(1) = %v, %v", img, ok)
	}
}

func TestSoftwareRenderPassMissing(t *testing.T) {
	soft, _, _ := newTestSoftware()
	root := frame.NewPass(2, geom.NewRect(0, 0, 4, 4))
	quad(root, geom.Identity(), geom.NewRect(0, 0, 4, 4), frame.RenderPassRef{Pass: 1})

	err := soft.DrawFrame([]*frame.Pass{root}, 1, geom.Rect{}, geom.Rect{})
	if !errors.Is(err, ErrMissingPass) {
		t.Errorf("DrawFrame() error = %v, want ErrMissingPass", err)
	}
}

func TestSoftwareRenderPassBlur(t *testing.T) {
	soft, _, _ := newTestSoftware()

	inner := frame.NewPass(1, geom.NewRect(0, 0, 9, 9))
	inner.HasTransparentBackground = true
	quad(inner, geom.Translate(4, 4), geom.NewRect(0, 0, 1, 1), frame.SolidColor{Color: color.RGBA{255, 255, 255, 255}})

	root := frame.NewPass(2, geom.NewRect(0, 0, 9, 9))
	quad(root, geom.Identity(), geom.NewRect(0, 0, 9, 9), frame.RenderPassRef{Pass: 1, BlurRadius: 1})

	if err := soft.DrawFrame([]*frame.Pass{inner, root}, 1, geom.Rect{}, geom.Rect{}); err != nil {
		t.Fatal(err)
	}
	img := soft.Image()
	center := img.RGBAAt(4, 4).R
	side := img.RGBAAt(5, 4).R
	if center == 255 || center == 0 {
		t.Errorf("blurred center = %d, want partial", center)
	}
	if side == 0 {
		t.Error("blur did not spread to the neighbour")
	}
	if got := img.RGBAAt(0, 0); got != black {
		t.Errorf("far pixel = %v, want background", got)
	}
}

func TestSoftwareRenderPassMask(t *testing.T) {
	soft, images, s := newTestSoftware()
	mask := image.NewAlpha(image.Rect(0, 0, 2, 1))
	mask.SetAlpha(0, 0, color.Alpha{A: 255})
	images.Set(s, 3, mask)

	inner := frame.NewPass(1, geom.NewRect(0, 0, 4, 4))
	quad(inner, geom.Identity(), geom.NewRect(0, 0, 4, 4), frame.SolidColor{Color: green})

	root := frame.NewPass(2, geom.NewRect(0, 0, 4, 4))
	quad(root, geom.Identity(), geom.NewRect(0, 0, 4, 4), frame.SolidColor{Color: red})
	quad(root, geom.Identity(), geom.NewRect(0, 0, 4, 4), frame.RenderPassRef{Pass: 1, Mask: 3})

	if err := soft.DrawFrame([]*frame.Pass{inner, root}, 1, geom.Rect{}, geom.Rect{}); err != nil {
		t.Fatal(err)
	}
	pixel(t, soft.Image(), 0, 2, green)
	pixel(t, soft.Image(), 3, 2, red)
}

func TestSoftwareBlendAndClip(t *testing.T) {
	soft, _, _ := newTestSoftware()

	p := frame.NewPass(1, geom.NewRect(0, 0, 8, 8))
	quad(p, geom.Identity(), geom.NewRect(0, 0, 8, 8), frame.SolidColor{Color: red})
	st := quad(p, geom.Identity(), geom.NewRect(0, 0, 8, 8), frame.SolidColor{Color: green})
	st.BlendMode = frame.BlendClear
	st.ClipRect = geom.NewRect(0, 0, 4, 8)
	st.IsClipped = true

	if err := soft.DrawFrame([]*frame.Pass{p}, 1, geom.Rect{}, geom.Rect{}); err != nil {
		t.Fatal(err)
	}
	pixel(t, soft.Image(), 1, 1, color.RGBA{})
	pixel(t, soft.Image(), 6, 1, red)
}

func TestSoftwareRotatedQuad(t *testing.T) {
	soft, _, _ := newTestSoftware()
	soft.Background = black

	p := frame.NewPass(1, geom.NewRect(0, 0, 10, 10))
	// A quarter turn about the origin, moved back into view.
	m := geom.Translate(10, 0).Multiply(geom.Rotate(1.5707963267948966))
	quad(p, m, geom.NewRect(0, 0, 10, 2), frame.SolidColor{Color: green})

	if err := soft.DrawFrame([]*frame.Pass{p}, 1, geom.Rect{}, geom.Rect{}); err != nil {
		t.Fatal(err)
	}
	pixel(t, soft.Image(), 9, 5, green)
	pixel(t, soft.Image(), 2, 5, black)
}
