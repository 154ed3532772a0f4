package main

import (
	"fmt"
	"image"
	"image/color"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/compositor"
	"github.com/gogpu/compositor/aggregate"
	"github.com/gogpu/compositor/display"
	"github.com/gogpu/compositor/frame"
	"github.com/gogpu/compositor/geom"
	"github.com/gogpu/compositor/resource"
	"github.com/gogpu/compositor/store"
	"github.com/gogpu/compositor/surface"
	"github.com/gogpu/compositor/wire"
)

// Scene geometry, in window pixels.
const (
	windowW, windowH = 160, 96
	videoW, videoH   = 64, 48
	panelW, panelH   = 72, 72
	shadowH          = 24
)

// videoTexture is the resource id of the video client's only buffer.
const videoTexture resource.ID = 1

var (
	windowColor = color.RGBA{R: 40, G: 44, B: 52, A: 255}
	titleColor  = color.RGBA{R: 97, G: 175, B: 239, A: 255}
	panelColor  = color.RGBA{R: 229, G: 192, B: 123, A: 255}
	barColors   = []color.RGBA{
		{R: 224, G: 108, B: 117, A: 255},
		{R: 152, G: 195, B: 121, A: 255},
		{R: 198, G: 120, B: 221, A: 255},
	}
)

// client is one producer process: its own factory and id namespace.
type client struct {
	name  string
	alloc *surface.Allocator
	fac   *store.Factory
}

// demo is the assembled scene.
type demo struct {
	m      *store.Manager
	agg    *aggregate.Aggregator
	images *display.ResourceImages

	window, video, panel surface.ID
	panelClient          *client

	names     map[surface.ID]string
	wireBytes map[surface.ID]int
}

func newDemo(opts ...aggregate.Option) (*demo, error) {
	d := &demo{
		m:         store.NewManager(),
		images:    display.NewResourceImages(),
		names:     make(map[surface.ID]string),
		wireBytes: make(map[surface.ID]int),
	}
	d.agg = aggregate.New(d.m, opts...)

	shell := d.newClient("window", 1)
	player := d.newClient("video", 2)
	panel := d.newClient("panel", 3)
	d.panelClient = panel

	var err error
	if d.window, err = d.createSurface(shell); err != nil {
		return nil, err
	}
	if d.video, err = d.createSurface(player); err != nil {
		return nil, err
	}
	if d.panel, err = d.createSurface(panel); err != nil {
		return nil, err
	}

	d.images.Set(d.video, videoTexture, gradient(videoW, videoH))
	if err := d.deliver(player, d.video, videoFrame()); err != nil {
		return nil, err
	}
	if err := d.deliver(panel, d.panel, panelFrame()); err != nil {
		return nil, err
	}
	if err := d.deliver(shell, d.window, windowFrame(d.video, d.panel)); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *demo) newClient(name string, ns surface.Namespace) *client {
	c := &client{name: name, alloc: surface.NewAllocator(ns)}
	c.fac = d.m.NewFactory(store.ClientFunc(func(returned []resource.Returned) {
		compositor.Logger().Debug("surfdemo: resources returned", "client", name, "count", len(returned))
	}))
	return c
}

func (d *demo) createSurface(c *client) (surface.ID, error) {
	id := c.alloc.NewID()
	if err := c.fac.Create(id); err != nil {
		return surface.Null, fmt.Errorf("create %s surface: %w", c.name, err)
	}
	d.names[id] = c.name
	return id, nil
}

// deliver sends f through the wire codec, the way a remote client would,
// and submits the decoded frame.
func (d *demo) deliver(c *client, id surface.ID, f *frame.Frame) error {
	data := wire.Encode(f)
	decoded, err := wire.Decode(data)
	if err != nil {
		return fmt.Errorf("decode %s frame: %w", c.name, err)
	}
	d.wireBytes[id] = len(data)
	if err := c.fac.Submit(id, decoded, nil); err != nil {
		return fmt.Errorf("submit %s frame: %w", c.name, err)
	}
	return nil
}

// name returns the client name of id.
func (d *demo) name(id surface.ID) string {
	if n, ok := d.names[id]; ok {
		return n
	}
	return id.String()
}

// surfaces returns the demo surfaces in creation order.
func (d *demo) surfaces() []surface.ID {
	return []surface.ID{d.window, d.video, d.panel}
}

// addQuad appends a quad with its own shared state and returns the state.
func addQuad(p *frame.Pass, m geom.Matrix, rect geom.Rect, payload frame.Payload) *frame.SharedState {
	st := frame.DefaultSharedState(rect)
	st.QuadToTarget = m
	i := p.AppendSharedState(st)
	p.AppendQuad(rect, rect, payload)
	return &p.SharedStates[i]
}

// windowFrame draws the window chrome and embeds both clients. The panel
// is drawn slightly translucent.
func windowFrame(video, panel surface.ID) *frame.Frame {
	full := geom.NewRect(0, 0, windowW, windowH)
	p := frame.NewPass(1, full)
	addQuad(p, geom.Identity(), full, frame.SolidColor{Color: windowColor})
	addQuad(p, geom.Identity(), geom.NewRect(0, 0, windowW, 12), frame.SolidColor{Color: titleColor})
	addQuad(p, geom.Translate(8, 16), geom.NewRect(0, 0, videoW, videoH), frame.SurfaceRef{Surface: video})
	st := addQuad(p, geom.Translate(80, 16), geom.NewRect(0, 0, panelW, panelH), frame.SurfaceRef{Surface: panel})
	st.Opacity = 0.9

	f := frame.New(p)
	f.Metadata.ReferencedSurfaces = []surface.ID{video, panel}
	return f
}

// videoFrame draws the video client's software texture.
func videoFrame() *frame.Frame {
	r := geom.NewRect(0, 0, videoW, videoH)
	p := frame.NewPass(1, r)
	addQuad(p, geom.Identity(), r, frame.FullUV(videoTexture))

	f := frame.New(p)
	f.Resources = []resource.Transferable{{
		ID:         videoTexture,
		IsSoftware: true,
		Format:     gputypes.TextureFormatRGBA8Unorm,
		Size:       image.Pt(videoW, videoH),
	}}
	return f
}

// panelFrame draws three bars into an offscreen pass, then shows the bars
// and a blurred reflection of them in the visible pass.
func panelFrame() *frame.Frame {
	bars := frame.NewPass(1, geom.NewRect(0, 0, panelW, shadowH))
	bars.HasTransparentBackground = true
	bars.TransformToRootTarget = geom.Translate(0, panelH-shadowH)
	for i, c := range barColors {
		x := 6 + float64(i)*22
		addQuad(bars, geom.Translate(x, 4), geom.NewRect(0, 0, 16, shadowH-8), frame.SolidColor{Color: c})
	}

	r := geom.NewRect(0, 0, panelW, panelH)
	vis := frame.NewPass(2, r)
	addQuad(vis, geom.Identity(), r, frame.SolidColor{Color: panelColor})
	for i, c := range barColors {
		x := 6 + float64(i)*22
		h := 20 + float64(i)*8
		addQuad(vis, geom.Translate(x, panelH-shadowH-h), geom.NewRect(0, 0, 16, h), frame.SolidColor{Color: c})
	}
	addQuad(vis, geom.Translate(0, panelH-shadowH), geom.NewRect(0, 0, panelW, shadowH),
		frame.RenderPassRef{Pass: 1, BlurRadius: 2})
	return frame.New(bars, vis)
}

// gradient returns a w x h opaque image shading red along x and green
// along y.
func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(x * 255 / (w - 1)),
				G: uint8(y * 255 / (h - 1)),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}
