package overlay

import (
	"github.com/mapbridge/mapbridge/internal/surface"
	"github.com/mapbridge/mapbridge/pkg/core"
)

// CircleSink receives decoded circle attributes.
type CircleSink interface {
	SetConsumeTapEvents(consume bool)
	SetCenter(p core.LatLng)
	SetRadius(meters float64)
	SetFillColor(c core.Color)
	SetStrokeColor(c core.Color)
	SetStrokeWidth(w float64)
	SetVisible(visible bool)
	SetZIndex(z float64)
}

var circleSchema = Schema[CircleSink]{
	"consumeTapEvents": boolAttr(CircleSink.SetConsumeTapEvents),
	"center":           latLngAttr(CircleSink.SetCenter),
	"radius":           floatAttr(CircleSink.SetRadius),
	"fillColor":        colorAttr(CircleSink.SetFillColor),
	"strokeColor":      colorAttr(CircleSink.SetStrokeColor),
	"strokeWidth":      floatAttr(CircleSink.SetStrokeWidth),
	"visible":          boolAttr(CircleSink.SetVisible),
	"zIndex":           floatAttr(CircleSink.SetZIndex),
}

type circleBuilder struct {
	opts    core.CircleOptions
	density float64
}

func (b *circleBuilder) Sink() CircleSink          { return b }
func (b *circleBuilder) Build() core.CircleOptions { return b.opts }
func (b *circleBuilder) SetCenter(p core.LatLng)   { b.opts.Center = p }
func (b *circleBuilder) SetRadius(r float64)       { b.opts.Radius = r }
func (b *circleBuilder) SetFillColor(c core.Color) { b.opts.FillColor = c }
func (b *circleBuilder) SetStrokeColor(c core.Color) {
	b.opts.StrokeColor = c
}
func (b *circleBuilder) SetStrokeWidth(w float64) { b.opts.StrokeWidth = w * b.density }
func (b *circleBuilder) SetVisible(v bool)        { b.opts.Visible = v }
func (b *circleBuilder) SetZIndex(z float64)      { b.opts.ZIndex = z }

// SetConsumeTapEvents also makes the circle clickable.
func (b *circleBuilder) SetConsumeTapEvents(c bool) {
	b.opts.ConsumeTapEvents = c
	b.opts.Clickable = c
}

// Circle is a live native circle.
type Circle struct {
	handle  surface.Circle
	consume bool
	density float64
}

func (c *Circle) NativeID() string            { return c.handle.ID() }
func (c *Circle) ConsumeTapEvents() bool      { return c.consume }
func (c *Circle) Sink() CircleSink            { return c }
func (c *Circle) Remove()                     { c.handle.Remove() }
func (c *Circle) SetCenter(p core.LatLng)     { c.handle.SetCenter(p) }
func (c *Circle) SetRadius(r float64)         { c.handle.SetRadius(r) }
func (c *Circle) SetFillColor(col core.Color) { c.handle.SetFillColor(col) }
func (c *Circle) SetStrokeColor(col core.Color) {
	c.handle.SetStrokeColor(col)
}
func (c *Circle) SetStrokeWidth(w float64) { c.handle.SetStrokeWidth(w * c.density) }
func (c *Circle) SetVisible(v bool)        { c.handle.SetVisible(v) }
func (c *Circle) SetZIndex(z float64)      { c.handle.SetZIndex(z) }

// SetConsumeTapEvents also toggles whether the native circle is clickable.
func (c *Circle) SetConsumeTapEvents(consume bool) {
	c.consume = consume
	c.handle.SetClickable(consume)
}

// CircleDescriptor describes circles keyed by "circleId".
var CircleDescriptor = Descriptor[CircleSink, core.CircleOptions, *Circle]{
	Kind:   "circle",
	IDKey:  "circleId",
	Schema: circleSchema,
	NewBuilder: func(density float64) Builder[CircleSink, core.CircleOptions] {
		return &circleBuilder{opts: core.CircleOptions{Visible: true, StrokeWidth: 10 * density}, density: density}
	},
	Create: func(m surface.Map, opts core.CircleOptions, density float64) (*Circle, error) {
		h, err := m.AddCircle(opts)
		if err != nil {
			return nil, err
		}
		return &Circle{handle: h, consume: opts.ConsumeTapEvents, density: density}, nil
	},
}

// Circles is the circle controller.
type Circles struct {
	*Controller[CircleSink, core.CircleOptions, *Circle]
}

// NewCircles creates the circle controller.
func NewCircles(density float64, policy DuplicatePolicy) *Circles {
	return &Circles{NewController(CircleDescriptor, density, policy)}
}
