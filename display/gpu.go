// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package display

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/compositor/frame"
	"github.com/gogpu/compositor/geom"
)

// Presentation errors.
var (
	// ErrNoTextureCreator is returned when the draw context cannot create
	// textures.
	ErrNoTextureCreator = errors.New("display: draw context has no texture creator")

	// ErrNotTexture is returned when an uploaded texture cannot be drawn.
	ErrNotTexture = errors.New("display: uploaded value is not a gpucontext.Texture")
)

// uploader is the part of a GPU context the presenter needs.
type uploader interface {
	upload(width, height int, pix []byte) (any, error)
	draw(tex any, x, y float32) error
}

// textureDestroyer is implemented by textures that hold GPU memory.
type textureDestroyer interface {
	Destroy()
}

// drawerUploader adapts a gpucontext.TextureDrawer.
type drawerUploader struct {
	dc gpucontext.TextureDrawer
}

func (u drawerUploader) upload(width, height int, pix []byte) (any, error) {
	creator := u.dc.TextureCreator()
	if creator == nil {
		return nil, ErrNoTextureCreator
	}
	tex, err := creator.NewTextureFromRGBA(width, height, pix)
	if err != nil {
		return nil, err
	}
	// Software output is premultiplied.
	if pt, ok := any(tex).(interface{ SetPremultiplied(bool) }); ok {
		pt.SetPremultiplied(true)
	}
	return tex, nil
}

func (u drawerUploader) draw(tex any, x, y float32) error {
	gpuTex, ok := tex.(gpucontext.Texture)
	if !ok {
		return ErrNotTexture
	}
	return u.dc.DrawTexture(gpuTex, x, y)
}

// GPUPresenter rasterizes on the CPU and presents the root image as a GPU
// texture. The texture is updated in place when the context supports it
// and the size is unchanged; otherwise a new texture replaces the old one.
type GPUPresenter struct {
	soft *Software
	up   uploader

	// X and Y position the texture on the target.
	X, Y float32

	texture any
	size    image.Point
}

// NewGPUPresenter creates a presenter drawing into dc.
func NewGPUPresenter(soft *Software, dc gpucontext.TextureDrawer) *GPUPresenter {
	return &GPUPresenter{soft: soft, up: drawerUploader{dc: dc}}
}

// DrawFrame implements Rasterizer.
func (g *GPUPresenter) DrawFrame(passes []*frame.Pass, deviceScale float64, viewport, clip geom.Rect) error {
	if err := g.soft.DrawFrame(passes, deviceScale, viewport, clip); err != nil {
		return err
	}
	img := g.soft.Image()
	size := img.Rect.Size()
	pix := packed(img)

	if g.texture != nil && size == g.size {
		if updater, ok := g.texture.(gpucontext.TextureUpdater); ok {
			if err := updater.UpdateData(pix); err != nil {
				return fmt.Errorf("display: texture update: %w", err)
			}
			return g.up.draw(g.texture, g.X, g.Y)
		}
	}

	tex, err := g.up.upload(size.X, size.Y, pix)
	if err != nil {
		return fmt.Errorf("display: texture upload: %w", err)
	}
	g.release()
	g.texture = tex
	g.size = size
	return g.up.draw(tex, g.X, g.Y)
}

// PassImage implements PassReader.
func (g *GPUPresenter) PassImage(id frame.PassID) (*image.RGBA, bool) {
	return g.soft.PassImage(id)
}

// Close destroys the current texture. Close is idempotent.
func (g *GPUPresenter) Close() {
	g.release()
	g.texture = nil
}

func (g *GPUPresenter) release() {
	if d, ok := g.texture.(textureDestroyer); ok {
		d.Destroy()
	}
}

// packed returns the pixels of img without row padding.
func packed(img *image.RGBA) []byte {
	w := img.Rect.Dx() * 4
	if img.Stride == w {
		return img.Pix[:w*img.Rect.Dy()]
	}
	out := make([]byte, 0, w*img.Rect.Dy())
	for y := img.Rect.Min.Y; y < img.Rect.Max.Y; y++ {
		i := img.PixOffset(img.Rect.Min.X, y)
		out = append(out, img.Pix[i:i+w]...)
	}
	return out
}
