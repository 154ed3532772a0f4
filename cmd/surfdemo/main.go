// Command surfdemo builds a small compositor scene and shows it through the
// display backends.
//
// The scene has a window surface embedding two clients: a video-like client
// drawing a software texture and a panel client whose frame uses an
// offscreen pass with a blur filter.
//
// Usage:
//
//	surfdemo png --out scene.png
//	surfdemo term
//	surfdemo stats
//	surfdemo hittest 20 30
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"
)

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "surfdemo"
	app.Usage = "aggregate a demo surface tree and display it"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "png",
			Usage: "render the scene into a PNG file",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "out, o",
					Value: "surfaces.png",
					Usage: "image filename for the rendered frame",
				},
				cli.StringFlag{
					Name:  "copy",
					Usage: "also write a copy of the panel surface to this file",
				},
			},
			Action: renderPNG,
		},
		{
			Name:   "term",
			Usage:  "show the scene in the terminal until a key is pressed",
			Action: renderTerminal,
		},
		{
			Name:  "stats",
			Usage: "print pass and surface statistics of the aggregated frame",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "damage",
					Usage: "enable damage optimization",
				},
			},
			Action: printStats,
		},
		{
			Name:      "hittest",
			Usage:     "report the surface under a point of the window",
			ArgsUsage: "X Y",
			Action:    hitTest,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "surfdemo:", err)
		os.Exit(1)
	}
}
