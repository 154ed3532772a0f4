package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/compositor/aggregate"
	"github.com/gogpu/compositor/frame"
)

// Print pass and surface statistics of one aggregation.
func printStats(ctx *cli.Context) error {
	setupLogging(ctx)

	var opts []aggregate.Option
	if ctx.Bool("damage") {
		opts = append(opts, aggregate.WithDamageOptimization(true))
	}
	d, err := newDemo(opts...)
	if err != nil {
		return err
	}

	out, ok := d.agg.Aggregate(d.window)
	if !ok {
		return errNothingToDraw
	}
	defer d.agg.ReleaseResources()

	writeStats(ctx.App.Writer, d, out)
	return nil
}

func writeStats(w io.Writer, d *demo, out *frame.Frame) {
	p := message.NewPrinter(language.English)

	passes := tablewriter.NewWriter(w)
	passes.SetAutoFormatHeaders(false)
	passes.SetAutoWrapText(false)
	passes.SetHeader([]string{"Pass", "Output", "Damage", "Quads", "Materials"})
	for _, pass := range out.Passes {
		passes.Append([]string{
			p.Sprintf("%d", pass.ID),
			pass.OutputRect.String(),
			pass.DamageRect.String(),
			p.Sprintf("%d", len(pass.Quads)),
			materials(pass),
		})
	}
	passes.SetFooter([]string{"", "", "TOTAL", p.Sprintf("%d", out.QuadCount()), ""})
	passes.Render()

	surfaces := tablewriter.NewWriter(w)
	surfaces.SetAutoFormatHeaders(false)
	surfaces.SetHeader([]string{"Surface", "Frame", "Passes", "Wire bytes"})
	for _, id := range d.surfaces() {
		v, ok := d.m.Surface(id)
		if !ok || v.Frame == nil {
			continue
		}
		surfaces.Append([]string{
			d.name(id),
			p.Sprintf("%d", v.FrameIndex),
			p.Sprintf("%d", len(v.Frame.Passes)),
			p.Sprintf("%d", d.wireBytes[id]),
		})
	}
	surfaces.Render()

	fmt.Fprintln(w, p.Sprintf("%d surfaces drawn, %d resources", len(out.Metadata.ReferencedSurfaces), len(out.Resources)))
}

// materials summarizes the quad materials of pass, e.g. "SolidColor x3".
func materials(pass *frame.Pass) string {
	var counts [frame.MaterialSurface + 1]int
	for i := range pass.Quads {
		if m := pass.Quads[i].Material(); m <= frame.MaterialSurface {
			counts[m]++
		}
	}
	var parts []string
	for m, n := range counts {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%v x%d", frame.Material(m), n))
		}
	}
	return strings.Join(parts, ", ")
}
