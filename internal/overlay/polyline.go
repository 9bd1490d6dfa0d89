package overlay

import (
	"github.com/mapbridge/mapbridge/internal/convert"
	"github.com/mapbridge/mapbridge/internal/surface"
	"github.com/mapbridge/mapbridge/pkg/core"
)

// PolylineSink receives decoded polyline attributes.
type PolylineSink interface {
	SetConsumeTapEvents(consume bool)
	SetColor(c core.Color)
	SetStartCap(c core.Cap)
	SetEndCap(c core.Cap)
	SetGeodesic(geodesic bool)
	SetJointType(t int)
	SetPattern(p []core.PatternItem)
	SetPoints(pts []core.LatLng)
	SetVisible(visible bool)
	SetWidth(w float64)
	SetZIndex(z float64)
}

var polylineSchema = Schema[PolylineSink]{
	"consumeTapEvents": boolAttr(PolylineSink.SetConsumeTapEvents),
	"color":            colorAttr(PolylineSink.SetColor),
	"endCap":           capAttr(PolylineSink.SetEndCap),
	"startCap":         capAttr(PolylineSink.SetStartCap),
	"geodesic":         boolAttr(PolylineSink.SetGeodesic),
	"jointType":        intAttr(PolylineSink.SetJointType),
	"pattern":          patternAttr,
	"points":           pointsAttr(PolylineSink.SetPoints),
	"visible":          boolAttr(PolylineSink.SetVisible),
	"width":            floatAttr(PolylineSink.SetWidth),
	"zIndex":           floatAttr(PolylineSink.SetZIndex),
}

func capAttr(apply func(PolylineSink, core.Cap)) Setter[PolylineSink] {
	return attr(convert.ToCap, apply)
}

var patternAttr = attr(convert.ToPattern, PolylineSink.SetPattern)

type polylineBuilder struct {
	opts    core.PolylineOptions
	density float64
}

func (b *polylineBuilder) Sink() PolylineSink              { return b }
func (b *polylineBuilder) Build() core.PolylineOptions     { return b.opts }
func (b *polylineBuilder) SetConsumeTapEvents(c bool)      { b.opts.ConsumeTapEvents = c }
func (b *polylineBuilder) SetColor(c core.Color)           { b.opts.Color = c }
func (b *polylineBuilder) SetStartCap(c core.Cap)          { b.opts.StartCap = c }
func (b *polylineBuilder) SetEndCap(c core.Cap)            { b.opts.EndCap = c }
func (b *polylineBuilder) SetGeodesic(g bool)              { b.opts.Geodesic = g }
func (b *polylineBuilder) SetJointType(t int)              { b.opts.JointType = t }
func (b *polylineBuilder) SetPattern(p []core.PatternItem) { b.opts.Pattern = p }
func (b *polylineBuilder) SetPoints(pts []core.LatLng)     { b.opts.Points = pts }
func (b *polylineBuilder) SetVisible(v bool)               { b.opts.Visible = v }
func (b *polylineBuilder) SetWidth(w float64)              { b.opts.Width = w * b.density }
func (b *polylineBuilder) SetZIndex(z float64)             { b.opts.ZIndex = z }

// Polyline is a live native polyline.
type Polyline struct {
	handle  surface.Polyline
	consume bool
	density float64
}

func (l *Polyline) NativeID() string                { return l.handle.ID() }
func (l *Polyline) ConsumeTapEvents() bool          { return l.consume }
func (l *Polyline) Sink() PolylineSink              { return l }
func (l *Polyline) Remove()                         { l.handle.Remove() }
func (l *Polyline) SetConsumeTapEvents(c bool)      { l.consume = c }
func (l *Polyline) SetColor(c core.Color)           { l.handle.SetColor(c) }
func (l *Polyline) SetStartCap(c core.Cap)          { l.handle.SetStartCap(c) }
func (l *Polyline) SetEndCap(c core.Cap)            { l.handle.SetEndCap(c) }
func (l *Polyline) SetGeodesic(g bool)              { l.handle.SetGeodesic(g) }
func (l *Polyline) SetJointType(t int)              { l.handle.SetJointType(t) }
func (l *Polyline) SetPattern(p []core.PatternItem) { l.handle.SetPattern(p) }
func (l *Polyline) SetPoints(pts []core.LatLng)     { l.handle.SetPoints(pts) }
func (l *Polyline) SetVisible(v bool)               { l.handle.SetVisible(v) }
func (l *Polyline) SetWidth(w float64)              { l.handle.SetWidth(w * l.density) }
func (l *Polyline) SetZIndex(z float64)             { l.handle.SetZIndex(z) }

// PolylineDescriptor describes polylines keyed by "polylineId".
var PolylineDescriptor = Descriptor[PolylineSink, core.PolylineOptions, *Polyline]{
	Kind:   "polyline",
	IDKey:  "polylineId",
	Schema: polylineSchema,
	NewBuilder: func(density float64) Builder[PolylineSink, core.PolylineOptions] {
		return &polylineBuilder{
			opts: core.PolylineOptions{
				Visible:  true,
				Width:    10 * density,
				StartCap: core.Cap{Kind: "buttCap"},
				EndCap:   core.Cap{Kind: "buttCap"},
			},
			density: density,
		}
	},
	Create: func(m surface.Map, opts core.PolylineOptions, density float64) (*Polyline, error) {
		h, err := m.AddPolyline(opts)
		if err != nil {
			return nil, err
		}
		return &Polyline{handle: h, consume: opts.ConsumeTapEvents, density: density}, nil
	},
}

// Polylines is the polyline controller.
type Polylines struct {
	*Controller[PolylineSink, core.PolylineOptions, *Polyline]
}

// NewPolylines creates the polyline controller.
func NewPolylines(density float64, policy DuplicatePolicy) *Polylines {
	return &Polylines{NewController(PolylineDescriptor, density, policy)}
}
