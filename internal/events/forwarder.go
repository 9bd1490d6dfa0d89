// Package events turns native map callbacks into outbound client events.
package events

import (
	"github.com/mapbridge/mapbridge/internal/convert"
	"github.com/mapbridge/mapbridge/internal/surface"
	"github.com/mapbridge/mapbridge/pkg/core"
	"github.com/mapbridge/mapbridge/pkg/streaming"
)

// Emitter delivers one outbound event to the client.
type Emitter interface {
	Emit(method string, args map[string]any)
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(method string, args map[string]any)

func (f EmitterFunc) Emit(method string, args map[string]any) { f(method, args) }

// Correlator resolves engine ids of one overlay kind back to client ids.
type Correlator interface {
	IDKey() string
	Tap(nativeID string) (clientID string, consumed bool, ok bool)
	ClientID(nativeID string) (string, bool)
}

// Config wires a Forwarder to the overlay controllers of one map view.
type Config struct {
	MapID     string
	Markers   Correlator
	Polygons  Correlator
	Polylines Correlator
	Circles   Correlator
}

// Forwarder implements the surface callback interfaces it forwards and
// nothing else. Callbacks for ids that are no longer live are dropped.
type Forwarder struct {
	emit  Emitter
	cfg   Config
	m     surface.Map
	track bool
}

// New creates a detached Forwarder.
func New(emit Emitter, cfg Config) *Forwarder {
	return &Forwarder{emit: emit, cfg: cfg}
}

// Attach registers f as the map's listener.
func (f *Forwarder) Attach(m surface.Map) {
	f.m = m
	m.SetListener(f)
}

// Detach unregisters f. Callbacks arriving afterwards are ignored.
func (f *Forwarder) Detach() {
	if f.m != nil {
		f.m.SetListener(nil)
		f.m = nil
	}
}

func (f *Forwarder) SetTrackCameraPosition(track bool) { f.track = track }
func (f *Forwarder) TrackCameraPosition() bool         { return f.track }

func (f *Forwarder) OnMapClick(p core.LatLng) {
	f.emit.Emit(streaming.EventMapTap, map[string]any{"position": convert.LatLngToJSON(p)})
}

func (f *Forwarder) OnMapLongClick(p core.LatLng) {
	f.emit.Emit(streaming.EventMapLongPress, map[string]any{"position": convert.LatLngToJSON(p)})
}

func (f *Forwarder) OnCameraMoveStarted(gesture bool) {
	f.emit.Emit(streaming.EventCameraMoveStarted, map[string]any{"isGesture": gesture})
}

func (f *Forwarder) OnCameraMove() {
	if !f.track || f.m == nil {
		return
	}
	f.emit.Emit(streaming.EventCameraMove, map[string]any{
		"position": convert.CameraPositionToJSON(f.m.CameraPosition()),
	})
}

func (f *Forwarder) OnCameraIdle() {
	if !f.track {
		return
	}
	f.emit.Emit(streaming.EventCameraIdle, map[string]any{"map": f.cfg.MapID})
}

func (f *Forwarder) OnMarkerClick(nativeID string) bool {
	return f.tap(f.cfg.Markers, streaming.EventMarkerTap, nativeID)
}

func (f *Forwarder) OnPolygonClick(nativeID string) bool {
	return f.tap(f.cfg.Polygons, streaming.EventPolygonTap, nativeID)
}

func (f *Forwarder) OnPolylineClick(nativeID string) bool {
	return f.tap(f.cfg.Polylines, streaming.EventPolylineTap, nativeID)
}

func (f *Forwarder) OnCircleClick(nativeID string) bool {
	return f.tap(f.cfg.Circles, streaming.EventCircleTap, nativeID)
}

func (f *Forwarder) OnMarkerDragEnd(nativeID string, p core.LatLng) {
	c := f.cfg.Markers
	if c == nil {
		return
	}
	clientID, ok := c.ClientID(nativeID)
	if !ok {
		return
	}
	f.emit.Emit(streaming.EventMarkerDragEnd, map[string]any{
		c.IDKey():  clientID,
		"position": convert.LatLngToJSON(p),
	})
}

func (f *Forwarder) OnInfoWindowClick(nativeID string) {
	c := f.cfg.Markers
	if c == nil {
		return
	}
	clientID, ok := c.ClientID(nativeID)
	if !ok {
		return
	}
	f.emit.Emit(streaming.EventInfoWindowTap, map[string]any{c.IDKey(): clientID})
}

// tap emits the tap event and returns the overlay's consume flag.
func (f *Forwarder) tap(c Correlator, method, nativeID string) bool {
	if c == nil {
		return false
	}
	clientID, consumed, ok := c.Tap(nativeID)
	if !ok {
		return false
	}
	f.emit.Emit(method, map[string]any{c.IDKey(): clientID})
	return consumed
}
