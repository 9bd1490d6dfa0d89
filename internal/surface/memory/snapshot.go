package memory

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/mapbridge/mapbridge/internal/geo"
	"github.com/mapbridge/mapbridge/pkg/core"
)

var mapTypeBackground = map[core.MapType]color.RGBA{
	core.MapTypeBasic:     {R: 0xf2, G: 0xef, B: 0xe9, A: 0xff},
	core.MapTypeNavi:      {R: 0x2b, G: 0x2f, B: 0x3a, A: 0xff},
	core.MapTypeSatellite: {R: 0x33, G: 0x4d, B: 0x2e, A: 0xff},
	core.MapTypeHybrid:    {R: 0x3d, G: 0x55, B: 0x3a, A: 0xff},
	core.MapTypeTerrain:   {R: 0xdf, G: 0xe6, B: 0xc8, A: 0xff},
}

// Snapshot draws a coarse PNG of the viewport: the base layer colour,
// circle outlines and a dot per visible marker.
func (m *Map) Snapshot() ([]byte, error) {
	w, h := int(m.viewport.Width), int(m.viewport.Height)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	bg, ok := mapTypeBackground[m.settings.MapType]
	if !ok {
		bg = color.RGBA{A: 0xff}
	}
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = bg.R, bg.G, bg.B, bg.A
	}

	for _, c := range m.circles {
		if !c.opts.Visible {
			continue
		}
		center, err := geo.ToScreen(m.camera, m.viewport, c.opts.Center)
		if err != nil {
			continue
		}
		r := c.opts.Radius / (geo.MercatorPerPixel(m.camera.Zoom) * math.Cos(c.opts.Center.Latitude*math.Pi/180))
		ring(img, center, r, argb(c.opts.StrokeColor))
	}
	for _, mk := range m.markers {
		if !mk.opts.Visible {
			continue
		}
		pt, err := geo.ToScreen(m.camera, m.viewport, mk.opts.Position)
		if err != nil {
			continue
		}
		dot(img, pt, 6, color.RGBA{R: 0xe5, G: 0x39, B: 0x35, A: 0xff})
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func argb(c core.Color) color.RGBA {
	return color.RGBA{R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c), A: c.Alpha()}
}

func dot(img *image.RGBA, center core.Point, r float64, c color.RGBA) {
	for y := int(center.Y - r); y <= int(center.Y+r); y++ {
		for x := int(center.X - r); x <= int(center.X+r); x++ {
			if math.Hypot(float64(x)-center.X, float64(y)-center.Y) <= r {
				img.SetRGBA(x, y, c)
			}
		}
	}
}

func ring(img *image.RGBA, center core.Point, r float64, c color.RGBA) {
	if r <= 0 || r > 1e5 {
		return
	}
	steps := int(math.Max(16, 2*math.Pi*r))
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		img.SetRGBA(int(center.X+r*math.Cos(a)), int(center.Y+r*math.Sin(a)), c)
	}
}
