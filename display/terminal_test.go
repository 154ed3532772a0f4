// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package display

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/gogpu/compositor/frame"
	"github.com/gogpu/compositor/geom"
)

func newSimulationScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen.Init() error = %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(w, h)
	return screen
}

func TestTerminalHalfBlocks(t *testing.T) {
	screen := newSimulationScreen(t, 2, 1)
	term := NewTerminal(screen, NewSoftware(nil, nil))

	// Top half red, bottom half blue; right column green on top.
	p := frame.NewPass(1, geom.NewRect(0, 0, 2, 2))
	quad(p, geom.Identity(), geom.NewRect(0, 0, 2, 1), frame.SolidColor{Color: red})
	quad(p, geom.Identity(), geom.NewRect(0, 1, 2, 1), frame.SolidColor{Color: blue})
	quad(p, geom.Identity(), geom.NewRect(1, 0, 1, 1), frame.SolidColor{Color: green})

	if err := term.DrawFrame([]*frame.Pass{p}, 1, geom.Rect{}, geom.Rect{}); err != nil {
		t.Fatalf("DrawFrame() error = %v", err)
	}

	tests := []struct {
		x      int
		fg, bg tcell.Color
	}{
		{0, tcell.NewRGBColor(255, 0, 0), tcell.NewRGBColor(0, 0, 255)},
		{1, tcell.NewRGBColor(0, 255, 0), tcell.NewRGBColor(0, 0, 255)},
	}
	for _, tt := range tests {
		r, _, style, _ := screen.GetContent(tt.x, 0)
		if r != halfBlock {
			t.Errorf("cell %d rune = %q, want %q", tt.x, r, halfBlock)
		}
		fg, bg, _ := style.Decompose()
		if fg != tt.fg || bg != tt.bg {
			t.Errorf("cell %d colors = %v/%v, want %v/%v", tt.x, fg, bg, tt.fg, tt.bg)
		}
	}
}

func TestTerminalPassImage(t *testing.T) {
	screen := newSimulationScreen(t, 1, 1)
	term := NewTerminal(screen, NewSoftware(nil, nil))
	p := frame.NewPass(4, geom.NewRect(0, 0, 2, 2))

	if err := term.DrawFrame([]*frame.Pass{p}, 1, geom.Rect{}, geom.Rect{}); err != nil {
		t.Fatal(err)
	}
	if _, ok := term.PassImage(4); !ok {
		t.Error("PassImage(4) not found")
	}
}

func TestTerminalPropagatesErrors(t *testing.T) {
	screen := newSimulationScreen(t, 1, 1)
	term := NewTerminal(screen, NewSoftware(nil, nil))
	if err := term.DrawFrame(nil, 1, geom.Rect{}, geom.Rect{}); err == nil {
		t.Error("DrawFrame(nil) error = nil, want ErrNoPasses")
	}
}
