package overlay

import (
	"math"

	"github.com/mapbridge/mapbridge/internal/convert"
	"github.com/mapbridge/mapbridge/internal/surface"
	"github.com/mapbridge/mapbridge/pkg/core"
)

// MarkerSink receives decoded marker attributes.
type MarkerSink interface {
	SetAlpha(alpha float64)
	SetAnchor(anchor core.Point)
	SetConsumeTapEvents(consume bool)
	SetDraggable(draggable bool)
	SetFlat(flat bool)
	SetIcon(icon core.Bitmap)
	SetInfoWindowTitle(title string)
	SetInfoWindowSnippet(snippet string)
	SetInfoWindowAnchor(anchor core.Point)
	SetPosition(p core.LatLng)
	SetRotation(degrees float64)
	SetVisible(visible bool)
	SetZIndex(z float64)
}

var markerSchema = Schema[MarkerSink]{
	"alpha":            floatAttr(MarkerSink.SetAlpha),
	"anchor":           pointAttr(MarkerSink.SetAnchor),
	"consumeTapEvents": boolAttr(MarkerSink.SetConsumeTapEvents),
	"draggable":        boolAttr(MarkerSink.SetDraggable),
	"flat":             boolAttr(MarkerSink.SetFlat),
	"icon":             iconAttr,
	"infoWindow":       infoWindowAttr,
	"position":         latLngAttr(MarkerSink.SetPosition),
	"rotation":         floatAttr(MarkerSink.SetRotation),
	"visible":          boolAttr(MarkerSink.SetVisible),
	"zIndex":           floatAttr(MarkerSink.SetZIndex),
}

var iconAttr = attr(convert.ToBitmap, MarkerSink.SetIcon)

func infoWindowAttr(v any) (func(MarkerSink), error) {
	m, err := convert.ToMap(v)
	if err != nil {
		return nil, err
	}
	var ops []func(MarkerSink)
	if raw, ok := m["title"]; ok && raw != nil {
		title, err := convert.ToString(raw)
		if err != nil {
			return nil, err
		}
		ops = append(ops, func(sink MarkerSink) { sink.SetInfoWindowTitle(title) })
	}
	if raw, ok := m["snippet"]; ok && raw != nil {
		snippet, err := convert.ToString(raw)
		if err != nil {
			return nil, err
		}
		ops = append(ops, func(sink MarkerSink) { sink.SetInfoWindowSnippet(snippet) })
	}
	if raw, ok := m["anchor"]; ok && raw != nil {
		anchor, err := convert.ToPoint(raw)
		if err != nil {
			return nil, err
		}
		ops = append(ops, func(sink MarkerSink) { sink.SetInfoWindowAnchor(anchor) })
	}
	return func(sink MarkerSink) {
		for _, op := range ops {
			op(sink)
		}
	}, nil
}

type markerBuilder struct {
	opts core.MarkerOptions
}

func (b *markerBuilder) Sink() MarkerSink           { return b }
func (b *markerBuilder) Build() core.MarkerOptions  { return b.opts }
func (b *markerBuilder) SetAlpha(a float64)         { b.opts.Alpha = a }
func (b *markerBuilder) SetAnchor(p core.Point)     { b.opts.Anchor = p }
func (b *markerBuilder) SetConsumeTapEvents(c bool) { b.opts.ConsumeTapEvents = c }
func (b *markerBuilder) SetDraggable(d bool)        { b.opts.Draggable = d }
func (b *markerBuilder) SetFlat(f bool)             { b.opts.Flat = f }
func (b *markerBuilder) SetIcon(i core.Bitmap)      { b.opts.Icon = &i }
func (b *markerBuilder) SetInfoWindowTitle(t string) {
	b.opts.InfoWindow.Title = t
}
func (b *markerBuilder) SetInfoWindowSnippet(s string) {
	b.opts.InfoWindow.Snippet = s
}
func (b *markerBuilder) SetInfoWindowAnchor(p core.Point) {
	b.opts.InfoWindow.Anchor = p
}
func (b *markerBuilder) SetPosition(p core.LatLng) { b.opts.Position = p }
func (b *markerBuilder) SetRotation(r float64)     { b.opts.Rotation = r }
func (b *markerBuilder) SetVisible(v bool)         { b.opts.Visible = v }
func (b *markerBuilder) SetZIndex(z float64)       { b.opts.ZIndex = math.Round(z) }

// Marker is a live native marker.
type Marker struct {
	handle  surface.Marker
	consume bool
	info    core.InfoWindow
}

func (m *Marker) NativeID() string           { return m.handle.ID() }
func (m *Marker) ConsumeTapEvents() bool     { return m.consume }
func (m *Marker) Sink() MarkerSink           { return m }
func (m *Marker) Remove()                    { m.handle.Remove() }
func (m *Marker) Position() core.LatLng      { return m.handle.Position() }
func (m *Marker) SetAlpha(a float64)         { m.handle.SetAlpha(a) }
func (m *Marker) SetAnchor(p core.Point)     { m.handle.SetAnchor(p) }
func (m *Marker) SetConsumeTapEvents(c bool) { m.consume = c }
func (m *Marker) SetDraggable(d bool)        { m.handle.SetDraggable(d) }
func (m *Marker) SetFlat(f bool)             { m.handle.SetFlat(f) }
func (m *Marker) SetIcon(i core.Bitmap)      { m.handle.SetIcon(&i) }
func (m *Marker) SetPosition(p core.LatLng)  { m.handle.SetPosition(p) }
func (m *Marker) SetRotation(r float64)      { m.handle.SetRotation(r) }
func (m *Marker) SetVisible(v bool)          { m.handle.SetVisible(v) }
func (m *Marker) SetZIndex(z float64)        { m.handle.SetZIndex(int(math.Round(z))) }

func (m *Marker) SetInfoWindowTitle(t string) {
	m.info.Title = t
	m.handle.SetInfoWindow(m.info)
}

func (m *Marker) SetInfoWindowSnippet(s string) {
	m.info.Snippet = s
	m.handle.SetInfoWindow(m.info)
}

func (m *Marker) SetInfoWindowAnchor(p core.Point) {
	m.info.Anchor = p
	m.handle.SetInfoWindow(m.info)
}

func markerRemoval(payload map[string]any) bool {
	raw, ok := payload["remove"]
	if !ok {
		return false
	}
	remove, err := convert.ToBool(raw)
	return err == nil && remove
}

// MarkerDescriptor describes markers keyed by "markerId".
var MarkerDescriptor = Descriptor[MarkerSink, core.MarkerOptions, *Marker]{
	Kind:   "marker",
	IDKey:  "markerId",
	Schema: markerSchema,
	NewBuilder: func(float64) Builder[MarkerSink, core.MarkerOptions] {
		return &markerBuilder{opts: core.DefaultMarkerOptions()}
	},
	Create: func(m surface.Map, opts core.MarkerOptions, _ float64) (*Marker, error) {
		h, err := m.AddMarker(opts)
		if err != nil {
			return nil, err
		}
		return &Marker{handle: h, consume: opts.ConsumeTapEvents, info: opts.InfoWindow}, nil
	},
	Removal: markerRemoval,
}

// Markers adds the info window queries to the generic controller.
type Markers struct {
	*Controller[MarkerSink, core.MarkerOptions, *Marker]
}

// NewMarkers creates the marker controller.
func NewMarkers(density float64, policy DuplicatePolicy) *Markers {
	return &Markers{NewController(MarkerDescriptor, density, policy)}
}

// ShowInfoWindow opens the info window of the marker. Unknown ids fail
// with ErrInvalidID.
func (c *Markers) ShowInfoWindow(clientID string) error {
	m, err := c.Get(clientID)
	if err != nil {
		return err
	}
	m.handle.ShowInfoWindow()
	return nil
}

// HideInfoWindow closes the info window of the marker.
func (c *Markers) HideInfoWindow(clientID string) error {
	m, err := c.Get(clientID)
	if err != nil {
		return err
	}
	m.handle.HideInfoWindow()
	return nil
}

// IsInfoWindowShown reports whether the marker's info window is open.
func (c *Markers) IsInfoWindowShown(clientID string) (bool, error) {
	m, err := c.Get(clientID)
	if err != nil {
		return false, err
	}
	return m.handle.IsInfoWindowShown(), nil
}
