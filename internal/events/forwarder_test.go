package events

import (
	"testing"

	"github.com/mapbridge/mapbridge/internal/geo"
	"github.com/mapbridge/mapbridge/internal/overlay"
	"github.com/mapbridge/mapbridge/internal/surface/memory"
	"github.com/mapbridge/mapbridge/pkg/core"
	"github.com/mapbridge/mapbridge/pkg/streaming"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type event struct {
	method string
	args   map[string]any
}

type recordingEmitter struct {
	events []event
}

func (r *recordingEmitter) Emit(method string, args map[string]any) {
	r.events = append(r.events, event{method, args})
}

type fixture struct {
	m        *memory.Map
	emitter  *recordingEmitter
	fwd      *Forwarder
	markers  *overlay.Markers
	polygons *overlay.Polygons
	circles  *overlay.Circles
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	e := memory.NewEngine(memory.Config{
		Viewport: geo.Viewport{Width: 800, Height: 600},
		Camera:   core.CameraPosition{Target: core.LatLng{Latitude: 37.5, Longitude: 127}, Zoom: 14},
	})
	e.Ready()
	f := &fixture{
		m:        e.Map(),
		emitter:  &recordingEmitter{},
		markers:  overlay.NewMarkers(1, overlay.RejectDuplicates),
		polygons: overlay.NewPolygons(1, overlay.RejectDuplicates),
		circles:  overlay.NewCircles(1, overlay.RejectDuplicates),
	}
	polylines := overlay.NewPolylines(1, overlay.RejectDuplicates)
	f.markers.Attach(f.m)
	f.polygons.Attach(f.m)
	f.circles.Attach(f.m)
	polylines.Attach(f.m)
	f.fwd = New(f.emitter, Config{
		MapID:     "view-1",
		Markers:   f.markers,
		Polygons:  f.polygons,
		Polylines: polylines,
		Circles:   f.circles,
	})
	f.fwd.Attach(f.m)
	return f
}

func (f *fixture) nativeID(t *testing.T, clientID string) string {
	t.Helper()
	live, err := f.markers.Get(clientID)
	require.NoError(t, err)
	return live.NativeID()
}

func TestForwarder_MarkerTapConsumed(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.markers.AddAll([]map[string]any{
		{"markerId": "m1", "position": []any{37.5, 127.0}, "consumeTapEvents": true},
	}))
	assert.Empty(t, f.emitter.events)

	consumed := f.m.Tap(core.LatLng{Latitude: 37.5, Longitude: 127})
	assert.True(t, consumed)
	require.Len(t, f.emitter.events, 1)
	assert.Equal(t, streaming.EventMarkerTap, f.emitter.events[0].method)
	assert.Equal(t, map[string]any{"markerId": "m1"}, f.emitter.events[0].args)
}

func TestForwarder_MarkerTapNotConsumedStillEmits(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.markers.AddAll([]map[string]any{{"markerId": "m1", "consumeTapEvents": false}}))

	consumed := f.fwd.OnMarkerClick(f.nativeID(t, "m1"))
	assert.False(t, consumed)
	require.Len(t, f.emitter.events, 1)
	assert.Equal(t, streaming.EventMarkerTap, f.emitter.events[0].method)
}

func TestForwarder_StaleTapIsDropped(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.markers.AddAll([]map[string]any{{"markerId": "m1", "consumeTapEvents": true}}))
	nativeID := f.nativeID(t, "m1")
	f.markers.RemoveAll([]string{"m1"})

	assert.False(t, f.fwd.OnMarkerClick(nativeID))
	f.fwd.OnMarkerDragEnd(nativeID, core.LatLng{})
	f.fwd.OnInfoWindowClick(nativeID)
	assert.Empty(t, f.emitter.events)
}

func TestForwarder_DragEnd(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.markers.AddAll([]map[string]any{{"markerId": "m1", "draggable": true}}))

	require.True(t, f.m.Drag(f.nativeID(t, "m1"), core.LatLng{Latitude: 1, Longitude: 2}))
	require.Len(t, f.emitter.events, 1)
	assert.Equal(t, event{streaming.EventMarkerDragEnd, map[string]any{
		"markerId": "m1",
		"position": []any{1.0, 2.0},
	}}, f.emitter.events[0])
}

func TestForwarder_InfoWindowTap(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.markers.AddAll([]map[string]any{
		{"markerId": "m1", "infoWindow": map[string]any{"title": "t"}},
	}))
	require.NoError(t, f.markers.ShowInfoWindow("m1"))

	require.True(t, f.m.InfoWindowTap(f.nativeID(t, "m1")))
	require.Len(t, f.emitter.events, 1)
	assert.Equal(t, streaming.EventInfoWindowTap, f.emitter.events[0].method)
	assert.Equal(t, "m1", f.emitter.events[0].args["markerId"])
}

func TestForwarder_ShapeTaps(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.circles.AddAll([]map[string]any{
		{"circleId": "c1", "center": []any{37.5, 127.0}, "radius": 300.0, "consumeTapEvents": true},
	}))
	require.NoError(t, f.polygons.AddAll([]map[string]any{{
		"polygonId": "p1",
		"points":    []any{[]any{37.6, 127.1}, []any{37.6, 127.2}, []any{37.7, 127.2}},
	}}))

	assert.True(t, f.m.Tap(core.LatLng{Latitude: 37.5005, Longitude: 127}))
	assert.False(t, f.m.Tap(core.LatLng{Latitude: 37.65, Longitude: 127.19}))

	require.Len(t, f.emitter.events, 2)
	assert.Equal(t, event{streaming.EventCircleTap, map[string]any{"circleId": "c1"}}, f.emitter.events[0])
	assert.Equal(t, event{streaming.EventPolygonTap, map[string]any{"polygonId": "p1"}}, f.emitter.events[1])
}

func TestForwarder_MapTapAndLongPress(t *testing.T) {
	f := newFixture(t)
	p := core.LatLng{Latitude: 37.51, Longitude: 127.02}
	f.m.Tap(p)
	f.m.LongPress(p)

	require.Len(t, f.emitter.events, 2)
	assert.Equal(t, event{streaming.EventMapTap, map[string]any{"position": []any{37.51, 127.02}}}, f.emitter.events[0])
	assert.Equal(t, streaming.EventMapLongPress, f.emitter.events[1].method)
}

func TestForwarder_CameraTrackingOff(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.m.MoveCamera(core.CameraUpdate{Kind: core.CameraZoomIn}))

	require.Len(t, f.emitter.events, 1)
	assert.Equal(t, event{streaming.EventCameraMoveStarted, map[string]any{"isGesture": false}}, f.emitter.events[0])
}

func TestForwarder_CameraTrackingOn(t *testing.T) {
	f := newFixture(t)
	f.fwd.SetTrackCameraPosition(true)
	require.NoError(t, f.m.Gesture(core.CameraUpdate{Kind: core.CameraZoomTo, Zoom: 10}))

	require.Len(t, f.emitter.events, 3)
	assert.Equal(t, map[string]any{"isGesture": true}, f.emitter.events[0].args)
	assert.Equal(t, streaming.EventCameraMove, f.emitter.events[1].method)
	pos := f.emitter.events[1].args["position"].(map[string]any)
	assert.Equal(t, 10.0, pos["zoom"])
	assert.Equal(t, event{streaming.EventCameraIdle, map[string]any{"map": "view-1"}}, f.emitter.events[2])
}

func TestForwarder_Detach(t *testing.T) {
	f := newFixture(t)
	f.fwd.Detach()
	f.m.Tap(core.LatLng{Latitude: 37.5, Longitude: 127})
	assert.Empty(t, f.emitter.events)
}
