package memory

import (
	"encoding/json"
	"errors"
	"math"

	"github.com/google/uuid"
	"github.com/mapbridge/mapbridge/internal/geo"
	"github.com/mapbridge/mapbridge/internal/surface"
	"github.com/mapbridge/mapbridge/pkg/core"
)

// ErrInvalidStyle is returned by SetStyle for a malformed style document.
var ErrInvalidStyle = errors.New("unable to set the map style")

// Map is the headless surface.Map.
type Map struct {
	camera   core.CameraPosition
	viewport geo.Viewport
	settings surface.Settings
	style    string
	listener any

	location   surface.LocationSource
	locating   bool
	myLocation *core.LatLng

	seq       int
	markers   map[string]*Marker
	polygons  map[string]*Polygon
	polylines map[string]*Polyline
	circles   map[string]*Circle
	tiles     map[string]*TileOverlay
}

var _ surface.Map = (*Map)(nil)

func newMap(cfg Config) *Map {
	return &Map{
		camera:    cfg.Camera,
		viewport:  cfg.Viewport,
		settings:  surface.DefaultSettings(),
		markers:   make(map[string]*Marker),
		polygons:  make(map[string]*Polygon),
		polylines: make(map[string]*Polyline),
		circles:   make(map[string]*Circle),
		tiles:     make(map[string]*TileOverlay),
	}
}

func (m *Map) nextID() (string, int) {
	m.seq++
	return uuid.NewString(), m.seq
}

// AddMarker materializes a marker and assigns it a fresh native id.
func (m *Map) AddMarker(opts core.MarkerOptions) (surface.Marker, error) {
	id, seq := m.nextID()
	mk := &Marker{base: base{id: id, seq: seq}, m: m, opts: opts}
	m.markers[id] = mk
	return mk, nil
}

func (m *Map) AddPolygon(opts core.PolygonOptions) (surface.Polygon, error) {
	id, seq := m.nextID()
	p := &Polygon{base: base{id: id, seq: seq}, m: m, opts: opts}
	m.polygons[id] = p
	return p, nil
}

func (m *Map) AddPolyline(opts core.PolylineOptions) (surface.Polyline, error) {
	id, seq := m.nextID()
	l := &Polyline{base: base{id: id, seq: seq}, m: m, opts: opts}
	m.polylines[id] = l
	return l, nil
}

func (m *Map) AddCircle(opts core.CircleOptions) (surface.Circle, error) {
	if opts.Radius < 0 {
		return nil, errors.New("circle radius must not be negative")
	}
	id, seq := m.nextID()
	c := &Circle{base: base{id: id, seq: seq}, m: m, opts: opts}
	m.circles[id] = c
	return c, nil
}

func (m *Map) AddTileOverlay(opts core.TileOverlayOptions) (surface.TileOverlay, error) {
	id, seq := m.nextID()
	t := &TileOverlay{base: base{id: id, seq: seq}, m: m, opts: opts}
	m.tiles[id] = t
	return t, nil
}

func (m *Map) CameraPosition() core.CameraPosition {
	return m.camera
}

func (m *Map) ToScreenLocation(p core.LatLng) (core.Point, error) {
	return geo.ToScreen(m.camera, m.viewport, p)
}

func (m *Map) FromScreenLocation(pt core.Point) (core.LatLng, error) {
	return geo.FromScreen(m.camera, m.viewport, pt)
}

// VisibleRegion returns the bounds covered by the viewport.
func (m *Map) VisibleRegion() (core.LatLngBounds, error) {
	return geo.VisibleRegion(m.camera, m.viewport)
}

// MinMaxZoom returns the effective zoom range.
func (m *Map) MinMaxZoom() (float64, float64) {
	lo, hi := float64(defaultMinZoom), float64(defaultMaxZoom)
	if p := m.settings.MinZoomPreference; p != nil {
		lo = math.Max(lo, *p)
	}
	if p := m.settings.MaxZoomPreference; p != nil {
		hi = math.Min(hi, *p)
	}
	if lo > hi {
		lo = hi
	}
	return lo, hi
}

func (m *Map) Settings() surface.Settings {
	return m.settings
}

func (m *Map) ApplySettings(s surface.Settings) {
	m.settings = s
	m.syncLocation()
	m.camera = m.clamp(m.camera)
}

func (m *Map) SetStyle(style string) error {
	if style != "" && !json.Valid([]byte(style)) {
		return ErrInvalidStyle
	}
	m.style = style
	return nil
}

// Style returns the last accepted style document.
func (m *Map) Style() string {
	return m.style
}

func (m *Map) SetLocationSource(src surface.LocationSource) {
	if m.locating && m.location != nil {
		m.location.Deactivate()
		m.locating = false
	}
	m.location = src
	m.syncLocation()
}

// MyLocation returns the last position reported by the location source.
func (m *Map) MyLocation() (core.LatLng, bool) {
	if m.myLocation == nil {
		return core.LatLng{}, false
	}
	return *m.myLocation, true
}

func (m *Map) syncLocation() {
	want := m.settings.MyLocationEnabled && m.location != nil
	switch {
	case want && !m.locating:
		m.locating = true
		m.location.Activate(func(p core.LatLng) { m.myLocation = &p })
	case !want && m.locating:
		m.locating = false
		if m.location != nil {
			m.location.Deactivate()
		}
	}
}

// SetListener replaces the callback target. Callbacks l does not
// implement are not delivered.
func (m *Map) SetListener(l any) {
	m.listener = l
}

// Marker returns the marker with nativeID, or nil.
func (m *Map) Marker(nativeID string) *Marker { return m.markers[nativeID] }

// Polygon returns the polygon with nativeID, or nil.
func (m *Map) Polygon(nativeID string) *Polygon { return m.polygons[nativeID] }

// Polyline returns the polyline with nativeID, or nil.
func (m *Map) Polyline(nativeID string) *Polyline { return m.polylines[nativeID] }

// Circle returns the circle with nativeID, or nil.
func (m *Map) Circle(nativeID string) *Circle { return m.circles[nativeID] }

// TileOverlay returns the tile layer with nativeID, or nil.
func (m *Map) TileOverlay(nativeID string) *TileOverlay { return m.tiles[nativeID] }

// OverlayCount returns the number of overlays currently on the map.
func (m *Map) OverlayCount() int {
	return len(m.markers) + len(m.polygons) + len(m.polylines) + len(m.circles) + len(m.tiles)
}
