// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package display

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"github.com/gogpu/compositor"
	"github.com/gogpu/compositor/frame"
	"github.com/gogpu/compositor/geom"
	"github.com/gogpu/compositor/internal/blend"
	"github.com/gogpu/compositor/internal/filter"
	"github.com/gogpu/compositor/resource"
)

// Software rasterizes frames on the CPU. Pass coordinates are pixels; the
// device scale is recorded but does not resample.
//
// Passes are redrawn only inside their damage rect when the previous frame
// left an image of the same id and size, which keeps the output correct
// when the aggregator culls quads outside the damage.
//
// Software is not safe for concurrent use.
type Software struct {
	// Background fills passes without a transparent background.
	Background color.RGBA

	resolver Resolver
	images   ImageSource

	passes      map[frame.PassID]*image.RGBA
	root        frame.PassID
	deviceScale float64
}

// NewSoftware creates a software rasterizer. Texture and video quads are
// looked up by resolving their resource ids through res and reading the
// pixels from images; either may be nil when frames carry only colors and
// render passes.
func NewSoftware(res Resolver, images ImageSource) *Software {
	return &Software{
		Background:  color.RGBA{A: 255},
		resolver:    res,
		images:      images,
		passes:      make(map[frame.PassID]*image.RGBA),
		deviceScale: 1,
	}
}

// DrawFrame implements Rasterizer.
func (s *Software) DrawFrame(passes []*frame.Pass, deviceScale float64, viewport, clip geom.Rect) error {
	if len(passes) == 0 {
		return ErrNoPasses
	}

	prev := s.passes
	s.passes = make(map[frame.PassID]*image.RGBA, len(passes))
	s.deviceScale = deviceScale

	last := len(passes) - 1
	for i, p := range passes {
		bounds := p.OutputRect.Image()
		limit := bounds
		if i == last {
			if !viewport.IsEmpty() {
				bounds = viewport.Image()
			}
			limit = bounds
			if !clip.IsEmpty() {
				limit = limit.Intersect(clip.Image())
			}
		}

		img := image.NewRGBA(bounds)
		if old, ok := prev[p.ID]; ok && old.Rect == bounds {
			copy(img.Pix, old.Pix)
			limit = limit.Intersect(p.DamageRect.Image())
		}

		if err := s.drawPass(img, limit, p); err != nil {
			return fmt.Errorf("pass %d: %w", p.ID, err)
		}
		s.passes[p.ID] = img
	}
	s.root = passes[last].ID
	return nil
}

// Image returns the root pass image of the last frame, or nil.
func (s *Software) Image() *image.RGBA {
	return s.passes[s.root]
}

// PassImage implements PassReader.
func (s *Software) PassImage(id frame.PassID) (*image.RGBA, bool) {
	img, ok := s.passes[id]
	return img, ok
}

// DeviceScale returns the device scale of the last frame.
func (s *Software) DeviceScale() float64 {
	return s.deviceScale
}

// drawPass clears limit and paints the quads of p inside it, back to front.
func (s *Software) drawPass(img *image.RGBA, limit image.Rectangle, p *frame.Pass) error {
	if limit.Empty() {
		return nil
	}
	bg := color.RGBA{}
	if !p.HasTransparentBackground {
		bg = s.Background
	}
	draw.Draw(img, limit, image.NewUniform(bg), image.Point{}, draw.Src)

	for i := range p.Quads {
		if err := s.drawQuad(img, limit, p, i); err != nil {
			return fmt.Errorf("quad %d: %w", i, err)
		}
	}
	return nil
}

// drawQuad paints quad i into a scratch layer covering the affected area, then
// composites the layer with the quad's opacity and blend mode.
func (s *Software) drawQuad(dst *image.RGBA, limit image.Rectangle, p *frame.Pass, i int) error {
	q, st := &p.Quads[i], p.StateOf(i)
	if st.Opacity <= 0 {
		return nil
	}
	area := limit.Intersect(st.QuadToTarget.MapRect(q.VisibleRect).Image())
	if st.IsClipped {
		area = area.Intersect(st.ClipRect.Image())
	}
	if area.Empty() {
		return nil
	}

	aff := st.QuadToTarget.Aff3()
	cover := image.NewAlpha(area)
	draw.NearestNeighbor.Transform(cover, aff, image.Opaque, q.VisibleRect.Image(), draw.Src, nil)

	layer := image.NewRGBA(area)
	if err := s.paint(layer, st.QuadToTarget, q); err != nil {
		return err
	}
	composite(dst, layer, cover, st.Opacity, st.BlendMode)
	return nil
}

// paint draws the payload of q into layer. toTarget maps quad space to
// layer space.
func (s *Software) paint(layer *image.RGBA, toTarget geom.Matrix, q *frame.Quad) error {
	aff := toTarget.Aff3()
	switch pl := q.Payload.(type) {
	case frame.SolidColor:
		draw.NearestNeighbor.Transform(layer, aff, image.NewUniform(pl.Color), q.Rect.Image(), draw.Src, nil)

	case frame.Texture:
		if pl.Background.A > 0 {
			draw.NearestNeighbor.Transform(layer, aff, image.NewUniform(pl.Background), q.Rect.Image(), draw.Src, nil)
		}
		img, ok := s.lookup(pl.Resource)
		if !ok {
			compositor.Logger().Debug("display: texture without pixels", "resource", pl.Resource)
			return nil
		}
		if !pl.Premultiplied {
			img = straightAlpha(img)
		}
		sr := uvRect(img.Bounds(), pl.UVTopLeft, pl.UVBottomRight)
		if sr.Empty() {
			return nil
		}
		var interp draw.Interpolator = draw.ApproxBiLinear
		if pl.Nearest {
			interp = draw.NearestNeighbor
		}
		m := toTarget.Multiply(sourceToQuad(q.Rect, sr, pl.Flipped))
		interp.Transform(layer, m.Aff3(), img, sr, draw.Over, nil)

	case frame.Video:
		img, ok := s.video(pl)
		if !ok {
			compositor.Logger().Debug("display: video without planes", "y", pl.Y)
			return nil
		}
		sr := img.Bounds()
		m := toTarget.Multiply(sourceToQuad(q.Rect, sr, false))
		draw.ApproxBiLinear.Transform(layer, m.Aff3(), img, sr, draw.Src, nil)

	case frame.RenderPassRef:
		src, ok := s.passes[pl.Pass]
		if !ok {
			return fmt.Errorf("pass %d: %w", pl.Pass, ErrMissingPass)
		}
		if pl.HasPixelMovingFilter() {
			src = filter.Blur(src, pl.BlurRadius)
		}
		sr := q.Rect.Image().Intersect(src.Bounds())
		if sr.Empty() {
			return nil
		}
		draw.NearestNeighbor.Transform(layer, aff, src, sr, draw.Src, nil)
		if pl.Mask != 0 {
			s.applyMask(layer, toTarget, q.Rect, pl.Mask)
		}

	case frame.SurfaceRef:
		compositor.Logger().Warn("display: unresolved surface quad", "surface", pl.Surface)
	}
	return nil
}

// applyMask multiplies layer by the alpha of the mask resource stretched
// over rect.
func (s *Software) applyMask(layer *image.RGBA, toTarget geom.Matrix, rect geom.Rect, id resource.ID) {
	img, ok := s.lookup(id)
	if !ok {
		return
	}
	sr := img.Bounds()
	if sr.Empty() {
		return
	}
	mask := image.NewAlpha(layer.Rect)
	m := toTarget.Multiply(sourceToQuad(rect, sr, false))
	draw.ApproxBiLinear.Transform(mask, m.Aff3(), img, sr, draw.Src, nil)

	for y := layer.Rect.Min.Y; y < layer.Rect.Max.Y; y++ {
		for x := layer.Rect.Min.X; x < layer.Rect.Max.X; x++ {
			a := uint16(mask.AlphaAt(x, y).A)
			i := layer.PixOffset(x, y)
			for c := 0; c < 4; c++ {
				layer.Pix[i+c] = byte((uint16(layer.Pix[i+c])*a + 127) / 255)
			}
		}
	}
}

func (s *Software) lookup(id resource.ID) (image.Image, bool) {
	if s.resolver == nil || s.images == nil || id == 0 {
		return nil, false
	}
	key, ok := s.resolver.ResolveResource(id)
	if !ok {
		return nil, false
	}
	return s.images.Image(key)
}

// video assembles a YCbCr image from grayscale planes. The chroma planes
// decide the subsampling.
func (s *Software) video(v frame.Video) (image.Image, bool) {
	y, ok := s.gray(v.Y)
	if !ok {
		return nil, false
	}
	cb, ok := s.gray(v.U)
	if !ok {
		return nil, false
	}
	cr, ok := s.gray(v.V)
	if !ok || cb.Rect.Size() != cr.Rect.Size() || cb.Stride != cr.Stride {
		return nil, false
	}
	ratio, ok := subsampleRatio(y.Rect.Size(), cb.Rect.Size())
	if !ok {
		return nil, false
	}

	ycc := &image.YCbCr{
		Y:              y.Pix,
		Cb:             cb.Pix,
		Cr:             cr.Pix,
		YStride:        y.Stride,
		CStride:        cb.Stride,
		SubsampleRatio: ratio,
		Rect:           image.Rectangle{Max: y.Rect.Size()},
	}
	if v.A == 0 {
		return ycc, true
	}
	a, ok := s.gray(v.A)
	if !ok || a.Rect.Size() != y.Rect.Size() {
		return ycc, true
	}
	return &image.NYCbCrA{YCbCr: *ycc, A: a.Pix, AStride: a.Stride}, true
}

func (s *Software) gray(id resource.ID) (*image.Gray, bool) {
	img, ok := s.lookup(id)
	if !ok {
		return nil, false
	}
	g, ok := img.(*image.Gray)
	return g, ok
}

func subsampleRatio(luma, chroma image.Point) (image.YCbCrSubsampleRatio, bool) {
	halfW := (luma.X + 1) / 2
	halfH := (luma.Y + 1) / 2
	switch chroma {
	case luma:
		return image.YCbCrSubsampleRatio444, true
	case image.Pt(halfW, halfH):
		return image.YCbCrSubsampleRatio420, true
	case image.Pt(halfW, luma.Y):
		return image.YCbCrSubsampleRatio422, true
	case image.Pt(luma.X, halfH):
		return image.YCbCrSubsampleRatio440, true
	}
	return 0, false
}

// straightAlpha reinterprets an RGBA buffer the producer filled with
// non-premultiplied pixels.
func straightAlpha(img image.Image) image.Image {
	if rgba, ok := img.(*image.RGBA); ok {
		return &image.NRGBA{Pix: rgba.Pix, Stride: rgba.Stride, Rect: rgba.Rect}
	}
	return img
}

// uvRect converts normalized texture coordinates to a pixel rectangle of b.
func uvRect(b image.Rectangle, tl, br geom.Point) image.Rectangle {
	w, h := float64(b.Dx()), float64(b.Dy())
	return image.Rect(
		b.Min.X+int(math.Round(tl.X*w)), b.Min.Y+int(math.Round(tl.Y*h)),
		b.Min.X+int(math.Round(br.X*w)), b.Min.Y+int(math.Round(br.Y*h)),
	).Intersect(b)
}

// sourceToQuad maps the source pixel rectangle sr onto rect in quad space,
// optionally flipping it vertically.
func sourceToQuad(rect geom.Rect, sr image.Rectangle, flipped bool) geom.Matrix {
	w, h := float64(sr.Dx()), float64(sr.Dy())
	m := geom.Translate(rect.MinX, rect.MinY).Multiply(geom.Scale(rect.Width()/w, rect.Height()/h))
	if flipped {
		m = m.Multiply(geom.Translate(0, h)).Multiply(geom.Scale(1, -1))
	}
	return m.Multiply(geom.Translate(-float64(sr.Min.X), -float64(sr.Min.Y)))
}

// composite blends layer into dst where cover is set.
func composite(dst, layer *image.RGBA, cover *image.Alpha, opacity float64, mode frame.BlendMode) {
	fn := blend.For(mode)
	op := byte(math.Round(math.Min(opacity, 1) * 255))
	r := layer.Rect.Intersect(dst.Rect)

	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := cover.AlphaAt(x, y).A
			if c == 0 {
				continue
			}
			i := layer.PixOffset(x, y)
			sr, sg, sb, sa := layer.Pix[i], layer.Pix[i+1], layer.Pix[i+2], layer.Pix[i+3]
			if op < 255 {
				sr, sg, sb, sa = scale(sr, op), scale(sg, op), scale(sb, op), scale(sa, op)
			}
			j := dst.PixOffset(x, y)
			blend.Pixel(fn, dst.Pix[j:j+4], sr, sg, sb, sa, c)
		}
	}
}

func scale(v, by byte) byte {
	return byte((uint16(v)*uint16(by) + 127) / 255)
}
