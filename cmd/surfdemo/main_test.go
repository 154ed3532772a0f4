package main

import (
	"bytes"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/compositor/frame"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	require.NoError(t, app.Run(append([]string{"surfdemo"}, args...)))
	return out.String()
}

func TestHitTestCommand(t *testing.T) {
	out := run(t, "hittest", "20", "30")
	assert.Contains(t, out, "video at (12,14)")
	assert.Contains(t, out, "window to video")

	out = run(t, "hittest", "4", "80")
	assert.Contains(t, out, "window at (4,80)")
}

func TestHitTestCommandBadArgs(t *testing.T) {
	app := newApp()
	app.Writer = &bytes.Buffer{}
	assert.Error(t, app.Run([]string{"surfdemo", "hittest", "1"}))
	assert.Error(t, app.Run([]string{"surfdemo", "hittest", "x", "1"}))
}

func TestStatsCommand(t *testing.T) {
	out := run(t, "stats")
	assert.Contains(t, out, "SolidColor")
	assert.Contains(t, out, "RenderPass")
	assert.Contains(t, out, "panel")
	assert.Contains(t, out, "TOTAL")
	assert.Contains(t, out, "3 surfaces drawn")
}

func TestRender(t *testing.T) {
	d, err := newDemo()
	require.NoError(t, err)

	img, err := d.render()
	require.NoError(t, err)
	require.Equal(t, windowW, img.Rect.Dx())
	require.Equal(t, windowH, img.Rect.Dy())

	assert.Equal(t, titleColor, img.RGBAAt(2, 2))
	assert.Equal(t, windowColor, img.RGBAAt(4, 80))

	// Top-left pixel of the video gradient.
	assert.Equal(t, color.RGBA{R: 0, G: 0, B: 128, A: 255}, img.RGBAAt(8, 16))
}

func TestPNGCommandWithCopy(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "scene.png")
	cp := filepath.Join(dir, "panel.png")
	run(t, "png", "--out", out, "--copy", cp)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, windowW, img.Bounds().Dx())

	g, err := os.Open(cp)
	require.NoError(t, err)
	defer g.Close()
	panel, err := png.Decode(g)
	require.NoError(t, err)
	assert.Equal(t, panelW, panel.Bounds().Dx())
	assert.Equal(t, panelH, panel.Bounds().Dy())
}

func TestMaterials(t *testing.T) {
	f := panelFrame()
	assert.Equal(t, "SolidColor x3", materials(f.Passes[0]))
	assert.Equal(t, "SolidColor x4, RenderPass x1", materials(f.Passes[1]))
	assert.Empty(t, materials(frame.NewPass(1, f.Passes[0].OutputRect)))
}
