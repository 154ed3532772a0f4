// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package display

import (
	"image"
	"image/color"

	"github.com/gdamore/tcell/v2"

	"github.com/gogpu/compositor/frame"
	"github.com/gogpu/compositor/geom"
)

// halfBlock draws the top half of a cell in the foreground color, so each
// cell shows two vertically stacked pixels.
const halfBlock = '▀'

// Terminal shows frames on a tcell screen. It rasterizes with a Software
// rasterizer and samples the root image, two rows of pixels per cell row.
type Terminal struct {
	screen tcell.Screen
	soft   *Software
}

// NewTerminal creates a terminal rasterizer. The screen must already be
// initialized; Terminal never calls Fini.
func NewTerminal(screen tcell.Screen, soft *Software) *Terminal {
	return &Terminal{screen: screen, soft: soft}
}

// DrawFrame implements Rasterizer.
func (t *Terminal) DrawFrame(passes []*frame.Pass, deviceScale float64, viewport, clip geom.Rect) error {
	if err := t.soft.DrawFrame(passes, deviceScale, viewport, clip); err != nil {
		return err
	}
	img := t.soft.Image()
	cols, rows := t.screen.Size()
	if cols <= 0 || rows <= 0 || img.Rect.Empty() {
		return nil
	}

	for cy := 0; cy < rows; cy++ {
		for cx := 0; cx < cols; cx++ {
			top := sample(img, cx, 2*cy, cols, 2*rows)
			bottom := sample(img, cx, 2*cy+1, cols, 2*rows)
			style := tcell.StyleDefault.Foreground(cellColor(top)).Background(cellColor(bottom))
			t.screen.SetContent(cx, cy, halfBlock, nil, style)
		}
	}
	t.screen.Show()
	return nil
}

// PassImage implements PassReader.
func (t *Terminal) PassImage(id frame.PassID) (*image.RGBA, bool) {
	return t.soft.PassImage(id)
}

// sample returns the pixel at the center of grid cell (gx, gy) of a
// cols x rows grid laid over img.
func sample(img *image.RGBA, gx, gy, cols, rows int) color.RGBA {
	b := img.Rect
	x := b.Min.X + (2*gx+1)*b.Dx()/(2*cols)
	y := b.Min.Y + (2*gy+1)*b.Dy()/(2*rows)
	return img.RGBAAt(x, y)
}

// cellColor converts a premultiplied pixel to a terminal color, which
// amounts to showing it over black.
func cellColor(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
