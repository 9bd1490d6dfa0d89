package overlay

import (
	"github.com/mapbridge/mapbridge/internal/convert"
	"github.com/mapbridge/mapbridge/internal/surface"
	"github.com/mapbridge/mapbridge/pkg/core"
)

// PolygonSink receives decoded polygon attributes.
type PolygonSink interface {
	SetConsumeTapEvents(consume bool)
	SetFillColor(c core.Color)
	SetGeodesic(geodesic bool)
	SetPoints(pts []core.LatLng)
	SetHoles(holes [][]core.LatLng)
	SetStrokeColor(c core.Color)
	SetStrokeWidth(w float64)
	SetVisible(visible bool)
	SetZIndex(z float64)
}

var polygonSchema = Schema[PolygonSink]{
	"consumeTapEvents": boolAttr(PolygonSink.SetConsumeTapEvents),
	"fillColor":        colorAttr(PolygonSink.SetFillColor),
	"geodesic":         boolAttr(PolygonSink.SetGeodesic),
	"points":           pointsAttr(PolygonSink.SetPoints),
	"holes":            holesAttr,
	"strokeColor":      colorAttr(PolygonSink.SetStrokeColor),
	"strokeWidth":      floatAttr(PolygonSink.SetStrokeWidth),
	"visible":          boolAttr(PolygonSink.SetVisible),
	"zIndex":           floatAttr(PolygonSink.SetZIndex),
}

var holesAttr = attr(convert.ToHoles, PolygonSink.SetHoles)

type polygonBuilder struct {
	opts    core.PolygonOptions
	density float64
}

func (b *polygonBuilder) Sink() PolygonSink              { return b }
func (b *polygonBuilder) Build() core.PolygonOptions     { return b.opts }
func (b *polygonBuilder) SetConsumeTapEvents(c bool)     { b.opts.ConsumeTapEvents = c }
func (b *polygonBuilder) SetFillColor(c core.Color)      { b.opts.FillColor = c }
func (b *polygonBuilder) SetGeodesic(g bool)             { b.opts.Geodesic = g }
func (b *polygonBuilder) SetPoints(pts []core.LatLng)    { b.opts.Points = pts }
func (b *polygonBuilder) SetHoles(holes [][]core.LatLng) { b.opts.Holes = holes }
func (b *polygonBuilder) SetStrokeColor(c core.Color)    { b.opts.StrokeColor = c }
func (b *polygonBuilder) SetStrokeWidth(w float64)       { b.opts.StrokeWidth = w * b.density }
func (b *polygonBuilder) SetVisible(v bool)              { b.opts.Visible = v }
func (b *polygonBuilder) SetZIndex(z float64)            { b.opts.ZIndex = z }

// Polygon is a live native polygon.
type Polygon struct {
	handle  surface.Polygon
	consume bool
	density float64
}

func (p *Polygon) NativeID() string               { return p.handle.ID() }
func (p *Polygon) ConsumeTapEvents() bool         { return p.consume }
func (p *Polygon) Sink() PolygonSink              { return p }
func (p *Polygon) Remove()                        { p.handle.Remove() }
func (p *Polygon) SetConsumeTapEvents(c bool)     { p.consume = c }
func (p *Polygon) SetFillColor(c core.Color)      { p.handle.SetFillColor(c) }
func (p *Polygon) SetGeodesic(g bool)             { p.handle.SetGeodesic(g) }
func (p *Polygon) SetPoints(pts []core.LatLng)    { p.handle.SetPoints(pts) }
func (p *Polygon) SetHoles(holes [][]core.LatLng) { p.handle.SetHoles(holes) }
func (p *Polygon) SetStrokeColor(c core.Color)    { p.handle.SetStrokeColor(c) }
func (p *Polygon) SetStrokeWidth(w float64)       { p.handle.SetStrokeWidth(w * p.density) }
func (p *Polygon) SetVisible(v bool)              { p.handle.SetVisible(v) }
func (p *Polygon) SetZIndex(z float64)            { p.handle.SetZIndex(z) }

// PolygonDescriptor describes polygons keyed by "polygonId".
var PolygonDescriptor = Descriptor[PolygonSink, core.PolygonOptions, *Polygon]{
	Kind:   "polygon",
	IDKey:  "polygonId",
	Schema: polygonSchema,
	NewBuilder: func(density float64) Builder[PolygonSink, core.PolygonOptions] {
		return &polygonBuilder{opts: core.PolygonOptions{Visible: true, StrokeWidth: density}, density: density}
	},
	Create: func(m surface.Map, opts core.PolygonOptions, density float64) (*Polygon, error) {
		h, err := m.AddPolygon(opts)
		if err != nil {
			return nil, err
		}
		return &Polygon{handle: h, consume: opts.ConsumeTapEvents, density: density}, nil
	},
}

// Polygons is the polygon controller.
type Polygons struct {
	*Controller[PolygonSink, core.PolygonOptions, *Polygon]
}

// NewPolygons creates the polygon controller.
func NewPolygons(density float64, policy DuplicatePolicy) *Polygons {
	return &Polygons{NewController(PolygonDescriptor, density, policy)}
}
