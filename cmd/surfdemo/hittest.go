package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/urfave/cli"

	"github.com/gogpu/compositor/geom"
	"github.com/gogpu/compositor/hittest"
)

// Report the surface under a window point.
func hitTest(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 2 {
		return errors.New("hittest needs X and Y arguments")
	}
	x, err := strconv.ParseFloat(ctx.Args().Get(0), 64)
	if err != nil {
		return fmt.Errorf("bad X: %w", err)
	}
	y, err := strconv.ParseFloat(ctx.Args().Get(1), 64)
	if err != nil {
		return fmt.Errorf("bad Y: %w", err)
	}

	d, err := newDemo()
	if err != nil {
		return err
	}

	tester := hittest.New(d.m)
	res, ok := tester.HitTest(d.window, geom.Pt(x, y))
	if !ok {
		fmt.Fprintf(ctx.App.Writer, "(%g,%g): nothing\n", x, y)
		return nil
	}
	fmt.Fprintf(ctx.App.Writer, "(%g,%g): %s at (%g,%g)\n", x, y, d.name(res.Surface), res.Point.X, res.Point.Y)

	if m, ok := tester.TransformToTarget(d.window, res.Surface); ok {
		fmt.Fprintf(ctx.App.Writer, "window to %s: [%g %g %g; %g %g %g]\n",
			d.name(res.Surface), m.A, m.B, m.C, m.D, m.E, m.F)
	}
	return nil
}
