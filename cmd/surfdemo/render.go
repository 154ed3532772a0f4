package main

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/urfave/cli"

	"github.com/gogpu/compositor/display"
	"github.com/gogpu/compositor/frame"
	"github.com/gogpu/compositor/geom"
)

var errNothingToDraw = errors.New("window has nothing to draw")

// render draws one frame of the window with the software rasterizer.
func (d *demo) render() (*image.RGBA, error) {
	soft := display.NewSoftware(d.agg, d.images)
	disp := display.New(d.m, d.agg, soft)
	defer disp.Close()

	drawn, err := disp.Draw(d.window)
	if err != nil {
		return nil, err
	}
	if !drawn {
		return nil, errNothingToDraw
	}
	return soft.Image(), nil
}

// Render the scene into a PNG file.
func renderPNG(ctx *cli.Context) error {
	setupLogging(ctx)

	d, err := newDemo()
	if err != nil {
		return err
	}

	var panelCopy frame.CopyResult
	copyPath := ctx.String("copy")
	if copyPath != "" {
		d.panelClient.fac.RequestCopy(d.panel, frame.NewCopyRequest(func(r frame.CopyResult) {
			panelCopy = r
		}))
	}

	img, err := d.render()
	if err != nil {
		return err
	}
	out := ctx.String("out")
	if err := writePNG(out, img); err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "wrote %s (%dx%d)\n", out, img.Rect.Dx(), img.Rect.Dy())

	if copyPath == "" {
		return nil
	}
	if panelCopy.IsEmpty() {
		return errors.New("panel copy came back empty")
	}
	if err := writePNG(copyPath, panelCopy.Image); err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "wrote %s (%v)\n", copyPath, panelCopy.Rect)
	return nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// Show the scene in the terminal. Resizing redraws; any key exits.
func renderTerminal(ctx *cli.Context) error {
	setupLogging(ctx)

	d, err := newDemo()
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	defer screen.Fini()

	disp := display.New(d.m, d.agg, display.NewTerminal(screen, display.NewSoftware(d.agg, d.images)))
	defer disp.Close()

	if _, err := disp.Draw(d.window); err != nil {
		return err
	}
	for {
		switch screen.PollEvent().(type) {
		case *tcell.EventResize:
			screen.Sync()
			disp.Resize(geom.Rect{})
			if _, err := disp.Draw(d.window); err != nil {
				return err
			}
		case *tcell.EventKey, nil:
			return nil
		}
	}
}
