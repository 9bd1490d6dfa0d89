package memory

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/mapbridge/mapbridge/internal/geo"
	"github.com/mapbridge/mapbridge/internal/surface"
	"github.com/mapbridge/mapbridge/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	calls   []string
	consume bool
	lastPos core.LatLng
	gesture []bool
}

func (r *recorder) OnMapClick(p core.LatLng) {
	r.calls = append(r.calls, "mapClick")
	r.lastPos = p
}
func (r *recorder) OnMarkerClick(id string) bool {
	r.calls = append(r.calls, "marker:"+id)
	return r.consume
}
func (r *recorder) OnCircleClick(id string) bool {
	r.calls = append(r.calls, "circle:"+id)
	return r.consume
}
func (r *recorder) OnMarkerDragEnd(id string, p core.LatLng) {
	r.calls = append(r.calls, "drag:"+id)
	r.lastPos = p
}
func (r *recorder) OnCameraMoveStarted(g bool) {
	r.calls = append(r.calls, "moveStarted")
	r.gesture = append(r.gesture, g)
}
func (r *recorder) OnCameraMove() { r.calls = append(r.calls, "move") }
func (r *recorder) OnCameraIdle() { r.calls = append(r.calls, "idle") }

func readyMap(t *testing.T) *Map {
	t.Helper()
	e := NewEngine(Config{
		Viewport: geo.Viewport{Width: 800, Height: 600},
		Camera:   core.CameraPosition{Target: core.LatLng{Latitude: 37.5, Longitude: 127}, Zoom: 14},
	})
	var got surface.Map
	e.GetMapAsync(func(m surface.Map) { got = m })
	assert.Nil(t, got)
	e.Ready()
	require.NotNil(t, got)
	return e.Map()
}

func TestEngine_GetMapAsyncAfterReady(t *testing.T) {
	e := NewEngine(Config{})
	e.Ready()
	called := 0
	e.GetMapAsync(func(surface.Map) { called++ })
	e.Ready()
	assert.Equal(t, 1, called)
}

func TestMap_AddAndRemoveMarker(t *testing.T) {
	m := readyMap(t)
	h, err := m.AddMarker(core.MarkerOptions{Position: core.LatLng{Latitude: 37.5, Longitude: 127}, Visible: true})
	require.NoError(t, err)
	assert.NotEmpty(t, h.ID())
	assert.NotNil(t, m.Marker(h.ID()))
	assert.Equal(t, 1, m.OverlayCount())

	h.Remove()
	assert.Nil(t, m.Marker(h.ID()))
	assert.Zero(t, m.OverlayCount())
}

func TestMap_TapHitsTopmostMarker(t *testing.T) {
	m := readyMap(t)
	r := &recorder{consume: true}
	m.SetListener(r)
	pos := core.LatLng{Latitude: 37.5, Longitude: 127}
	low, _ := m.AddMarker(core.MarkerOptions{Position: pos, Visible: true, ZIndex: 1})
	high, _ := m.AddMarker(core.MarkerOptions{Position: pos, Visible: true, ZIndex: 2})

	assert.True(t, m.Tap(pos))
	assert.Equal(t, []string{"marker:" + high.ID()}, r.calls)
	_ = low
}

func TestMap_TapNotConsumedShowsInfoWindow(t *testing.T) {
	m := readyMap(t)
	r := &recorder{consume: false}
	m.SetListener(r)
	pos := core.LatLng{Latitude: 37.5, Longitude: 127}
	h, _ := m.AddMarker(core.MarkerOptions{Position: pos, Visible: true, InfoWindow: core.InfoWindow{Title: "hi"}})

	assert.False(t, m.Tap(pos))
	assert.True(t, h.IsInfoWindowShown())
}

func TestMap_TapMissFallsThroughToMap(t *testing.T) {
	m := readyMap(t)
	r := &recorder{}
	m.SetListener(r)
	p := core.LatLng{Latitude: 37.51, Longitude: 127.01}
	m.Tap(p)
	assert.Equal(t, []string{"mapClick"}, r.calls)
	assert.Equal(t, p, r.lastPos)
}

func TestMap_TapCircle(t *testing.T) {
	m := readyMap(t)
	r := &recorder{}
	m.SetListener(r)
	c, _ := m.AddCircle(core.CircleOptions{Center: core.LatLng{Latitude: 37.5, Longitude: 127}, Radius: 500, Visible: true, Clickable: true})
	m.Tap(core.LatLng{Latitude: 37.501, Longitude: 127})
	assert.Equal(t, []string{"circle:" + c.ID()}, r.calls)
}

func TestMap_TapNonClickableCircleFallsThrough(t *testing.T) {
	m := readyMap(t)
	r := &recorder{}
	m.SetListener(r)
	c, _ := m.AddCircle(core.CircleOptions{Center: core.LatLng{Latitude: 37.5, Longitude: 127}, Radius: 500, Visible: true})

	assert.False(t, m.Tap(core.LatLng{Latitude: 37.501, Longitude: 127}))
	assert.Equal(t, []string{"mapClick"}, r.calls)

	consumed, ok := m.Click(c.ID())
	assert.True(t, ok)
	assert.False(t, consumed)
	assert.Equal(t, []string{"mapClick"}, r.calls)
}

func TestMap_UnwiredCallbacksAreSkipped(t *testing.T) {
	m := readyMap(t)
	m.SetListener(struct{}{})
	h, _ := m.AddMarker(core.MarkerOptions{Position: core.LatLng{Latitude: 37.5, Longitude: 127}, Visible: true})
	consumed, ok := m.Click(h.ID())
	assert.True(t, ok)
	assert.False(t, consumed)
	require.NoError(t, m.MoveCamera(core.CameraUpdate{Kind: core.CameraZoomIn}))
}

func TestMap_Drag(t *testing.T) {
	m := readyMap(t)
	r := &recorder{}
	m.SetListener(r)
	fixed, _ := m.AddMarker(core.MarkerOptions{Visible: true})
	h, _ := m.AddMarker(core.MarkerOptions{Visible: true, Draggable: true})
	to := core.LatLng{Latitude: 1, Longitude: 2}

	assert.False(t, m.Drag(fixed.ID(), to))
	assert.True(t, m.Drag(h.ID(), to))
	assert.Equal(t, to, h.Position())
	assert.Equal(t, []string{"drag:" + h.ID()}, r.calls)
}

func TestMap_MoveCamera(t *testing.T) {
	m := readyMap(t)
	r := &recorder{}
	m.SetListener(r)

	require.NoError(t, m.MoveCamera(core.CameraUpdate{Kind: core.CameraZoomTo, Zoom: 5}))
	assert.Equal(t, 5.0, m.CameraPosition().Zoom)
	assert.Equal(t, []string{"moveStarted", "move", "idle"}, r.calls)
	assert.Equal(t, []bool{false}, r.gesture)

	r.calls = nil
	require.NoError(t, m.MoveCamera(core.CameraUpdate{Kind: core.CameraZoomIn, Animated: true}))
	assert.Equal(t, 6.0, m.CameraPosition().Zoom)
	assert.Len(t, r.calls, animationSteps+2)

	require.NoError(t, m.Gesture(core.CameraUpdate{Kind: core.CameraZoomOut}))
	assert.Equal(t, []bool{false, false, true}, r.gesture)
}

func TestMap_MoveCamera_ClampsZoom(t *testing.T) {
	m := readyMap(t)
	maxZoom := 10.0
	s := m.Settings()
	s.MaxZoomPreference = &maxZoom
	m.ApplySettings(s)

	require.NoError(t, m.MoveCamera(core.CameraUpdate{Kind: core.CameraZoomTo, Zoom: 19}))
	assert.Equal(t, 10.0, m.CameraPosition().Zoom)
	lo, hi := m.MinMaxZoom()
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 10.0, hi)
}

func TestMap_MoveCamera_ZoomByFocusKeepsAnchor(t *testing.T) {
	m := readyMap(t)
	focus := core.Point{X: 100, Y: 100}
	before, err := m.FromScreenLocation(focus)
	require.NoError(t, err)

	require.NoError(t, m.MoveCamera(core.CameraUpdate{Kind: core.CameraZoomBy, Zoom: 1, Focus: &focus}))
	after, err := m.ToScreenLocation(before)
	require.NoError(t, err)
	assert.InDelta(t, focus.X, after.X, 0.5)
	assert.InDelta(t, focus.Y, after.Y, 0.5)
}

func TestMap_SetStyle(t *testing.T) {
	m := readyMap(t)
	assert.NoError(t, m.SetStyle(`[{"featureType":"road"}]`))
	assert.ErrorIs(t, m.SetStyle("{"), ErrInvalidStyle)
	assert.NoError(t, m.SetStyle(""))
	assert.Empty(t, m.Style())
}

type fakeLocation struct {
	active bool
	push   func(core.LatLng)
}

func (f *fakeLocation) Activate(update func(core.LatLng)) { f.active, f.push = true, update }
func (f *fakeLocation) Deactivate()                       { f.active = false }

func TestMap_LocationSourceFollowsSetting(t *testing.T) {
	m := readyMap(t)
	src := &fakeLocation{}
	m.SetLocationSource(src)
	assert.False(t, src.active)

	s := m.Settings()
	s.MyLocationEnabled = true
	m.ApplySettings(s)
	require.True(t, src.active)
	src.push(core.LatLng{Latitude: 1, Longitude: 1})
	got, ok := m.MyLocation()
	assert.True(t, ok)
	assert.Equal(t, core.LatLng{Latitude: 1, Longitude: 1}, got)

	s.MyLocationEnabled = false
	m.ApplySettings(s)
	assert.False(t, src.active)
}

func TestMap_Snapshot(t *testing.T) {
	m := readyMap(t)
	_, _ = m.AddMarker(core.MarkerOptions{Position: core.LatLng{Latitude: 37.5, Longitude: 127}, Visible: true})
	data, err := m.Snapshot()
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 800, img.Bounds().Dx())
	assert.Equal(t, 600, img.Bounds().Dy())
}
