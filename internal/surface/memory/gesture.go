package memory

import (
	"math"
	"sort"

	"github.com/mapbridge/mapbridge/internal/geo"
	"github.com/mapbridge/mapbridge/internal/surface"
	"github.com/mapbridge/mapbridge/pkg/core"
)

type hit struct {
	z     float64
	seq   int
	click func() bool
}

// Tap simulates a single tap at p. The topmost visible overlay under p
// gets the click; if none is hit the map itself does. It returns true
// when an overlay listener consumed the tap.
func (m *Map) Tap(p core.LatLng) bool {
	hits := m.hitTest(p)
	if len(hits) == 0 {
		if l, ok := m.listener.(surface.MapClickListener); ok {
			l.OnMapClick(p)
		}
		return false
	}
	return hits[0].click()
}

// Click delivers a tap straight to the overlay with nativeID. ok is
// false when no such overlay exists. Circles that are not clickable
// ignore the tap.
func (m *Map) Click(nativeID string) (consumed bool, ok bool) {
	if mk, found := m.markers[nativeID]; found {
		return m.clickMarker(mk), true
	}
	if pg, found := m.polygons[nativeID]; found {
		return m.clickPolygon(pg), true
	}
	if pl, found := m.polylines[nativeID]; found {
		return m.clickPolyline(pl), true
	}
	if c, found := m.circles[nativeID]; found {
		if !c.opts.Clickable {
			return false, true
		}
		return m.clickCircle(c), true
	}
	return false, false
}

// LongPress simulates a long press at p.
func (m *Map) LongPress(p core.LatLng) {
	if l, ok := m.listener.(surface.MapLongClickListener); ok {
		l.OnMapLongClick(p)
	}
}

// Drag moves a draggable marker to p and reports the drag end. It
// returns false if the marker is unknown or not draggable.
func (m *Map) Drag(nativeID string, p core.LatLng) bool {
	mk, ok := m.markers[nativeID]
	if !ok || !mk.opts.Draggable {
		return false
	}
	mk.opts.Position = p
	if l, ok := m.listener.(surface.MarkerDragEndListener); ok {
		l.OnMarkerDragEnd(nativeID, p)
	}
	return true
}

// InfoWindowTap simulates a tap on a marker's open info window.
func (m *Map) InfoWindowTap(nativeID string) bool {
	mk, ok := m.markers[nativeID]
	if !ok || !mk.infoShown {
		return false
	}
	if l, ok := m.listener.(surface.InfoWindowClickListener); ok {
		l.OnInfoWindowClick(nativeID)
	}
	return true
}

// Gesture moves the camera as if the user had panned or zoomed.
func (m *Map) Gesture(u core.CameraUpdate) error {
	return m.move(u, true)
}

func (m *Map) clickMarker(mk *Marker) bool {
	consumed := false
	if l, ok := m.listener.(surface.MarkerClickListener); ok {
		consumed = l.OnMarkerClick(mk.id)
	}
	if !consumed {
		mk.ShowInfoWindow()
	}
	return consumed
}

func (m *Map) clickPolygon(p *Polygon) bool {
	if l, ok := m.listener.(surface.PolygonClickListener); ok {
		return l.OnPolygonClick(p.id)
	}
	return false
}

func (m *Map) clickPolyline(p *Polyline) bool {
	if l, ok := m.listener.(surface.PolylineClickListener); ok {
		return l.OnPolylineClick(p.id)
	}
	return false
}

func (m *Map) clickCircle(c *Circle) bool {
	if l, ok := m.listener.(surface.CircleClickListener); ok {
		return l.OnCircleClick(c.id)
	}
	return false
}

// hitTest returns the overlays under p, topmost first. Markers always
// sit above shapes. Circles only take taps when clickable.
func (m *Map) hitTest(p core.LatLng) []hit {
	var markers, shapes []hit
	tapPt, err := geo.ToScreen(m.camera, m.viewport, p)
	if err != nil {
		return nil
	}
	for _, mk := range m.markers {
		if !mk.opts.Visible {
			continue
		}
		pt, err := geo.ToScreen(m.camera, m.viewport, mk.opts.Position)
		if err != nil || math.Hypot(pt.X-tapPt.X, pt.Y-tapPt.Y) > markerHitPx {
			continue
		}
		mk := mk
		markers = append(markers, hit{z: mk.opts.ZIndex, seq: mk.seq, click: func() bool { return m.clickMarker(mk) }})
	}
	for _, c := range m.circles {
		if c.opts.Visible && c.opts.Clickable && geo.CircleContains(c.opts.Center, c.opts.Radius, p) {
			c := c
			shapes = append(shapes, hit{z: c.opts.ZIndex, seq: c.seq, click: func() bool { return m.clickCircle(c) }})
		}
	}
	for _, pg := range m.polygons {
		if pg.opts.Visible && geo.PolygonContains(pg.opts.Points, pg.opts.Holes, p) {
			pg := pg
			shapes = append(shapes, hit{z: pg.opts.ZIndex, seq: pg.seq, click: func() bool { return m.clickPolygon(pg) }})
		}
	}
	tolerance := geo.MercatorPerPixel(m.camera.Zoom) * lineHitPx
	for _, pl := range m.polylines {
		if pl.opts.Visible && geo.LineNear(pl.opts.Points, p, tolerance) {
			pl := pl
			shapes = append(shapes, hit{z: pl.opts.ZIndex, seq: pl.seq, click: func() bool { return m.clickPolyline(pl) }})
		}
	}
	byTop := func(h []hit) {
		sort.Slice(h, func(i, j int) bool {
			if h[i].z != h[j].z {
				return h[i].z > h[j].z
			}
			return h[i].seq > h[j].seq
		})
	}
	byTop(markers)
	byTop(shapes)
	return append(markers, shapes...)
}
