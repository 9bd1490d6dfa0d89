package memory

import (
	"fmt"
	"math"

	"github.com/mapbridge/mapbridge/internal/geo"
	"github.com/mapbridge/mapbridge/internal/surface"
	"github.com/mapbridge/mapbridge/pkg/core"
)

// MoveCamera applies u as a programmatic move.
func (m *Map) MoveCamera(u core.CameraUpdate) error {
	return m.move(u, false)
}

func (m *Map) move(u core.CameraUpdate, gesture bool) error {
	target, err := m.resolve(u)
	if err != nil {
		return err
	}
	target = m.clamp(target)

	if l, ok := m.listener.(surface.CameraMoveStartedListener); ok {
		l.OnCameraMoveStarted(gesture)
	}
	from := m.camera
	steps := 1
	if u.Animated {
		steps = animationSteps
	}
	for i := 1; i <= steps; i++ {
		m.camera = interpolate(from, target, easeInOut(float64(i)/float64(steps)))
		if l, ok := m.listener.(surface.CameraMoveListener); ok {
			l.OnCameraMove()
		}
	}
	m.camera = target
	if l, ok := m.listener.(surface.CameraIdleListener); ok {
		l.OnCameraIdle()
	}
	return nil
}

func (m *Map) resolve(u core.CameraUpdate) (core.CameraPosition, error) {
	cam := m.camera
	switch u.Kind {
	case core.CameraNewPosition:
		return u.Position, nil
	case core.CameraNewLatLng:
		cam.Target = u.Target
	case core.CameraNewLatLngZoom:
		cam.Target = u.Target
		cam.Zoom = u.Zoom
	case core.CameraNewLatLngBounds:
		lo, hi := m.MinMaxZoom()
		fit, err := geo.Fit(u.Bounds, m.viewport, u.Padding, lo, hi)
		if err != nil {
			return cam, err
		}
		return fit, nil
	case core.CameraScrollBy:
		center := core.Point{X: m.viewport.Width/2 + u.DX, Y: m.viewport.Height/2 + u.DY}
		t, err := geo.FromScreen(cam, m.viewport, center)
		if err != nil {
			return cam, err
		}
		cam.Target = t
	case core.CameraZoomBy:
		if u.Focus == nil {
			cam.Zoom += u.Zoom
			break
		}
		anchor, err := geo.FromScreen(cam, m.viewport, *u.Focus)
		if err != nil {
			return cam, err
		}
		cam.Zoom += u.Zoom
		moved, err := geo.ToScreen(cam, m.viewport, anchor)
		if err != nil {
			return cam, err
		}
		center := core.Point{
			X: m.viewport.Width/2 + moved.X - u.Focus.X,
			Y: m.viewport.Height/2 + moved.Y - u.Focus.Y,
		}
		if cam.Target, err = geo.FromScreen(cam, m.viewport, center); err != nil {
			return cam, err
		}
	case core.CameraZoomIn:
		cam.Zoom++
	case core.CameraZoomOut:
		cam.Zoom--
	case core.CameraZoomTo:
		cam.Zoom = u.Zoom
	default:
		return cam, fmt.Errorf("unsupported camera update %q", u.Kind)
	}
	return cam, nil
}

// clamp keeps zoom inside the preference range and the target inside
// the camera target bounds.
func (m *Map) clamp(cam core.CameraPosition) core.CameraPosition {
	lo, hi := m.MinMaxZoom()
	cam.Zoom = math.Max(lo, math.Min(hi, cam.Zoom))
	if b := m.settings.CameraTargetBounds; b != nil {
		cam.Target.Latitude = math.Max(b.Southwest.Latitude, math.Min(b.Northeast.Latitude, cam.Target.Latitude))
		cam.Target.Longitude = math.Max(b.Southwest.Longitude, math.Min(b.Northeast.Longitude, cam.Target.Longitude))
	}
	return cam
}

func easeInOut(t float64) float64 {
	return t * t * (3 - 2*t)
}

func interpolate(a, b core.CameraPosition, t float64) core.CameraPosition {
	lerp := func(x, y float64) float64 { return x + (y-x)*t }
	return core.CameraPosition{
		Target: core.LatLng{
			Latitude:  lerp(a.Target.Latitude, b.Target.Latitude),
			Longitude: lerp(a.Target.Longitude, b.Target.Longitude),
		},
		Zoom:    lerp(a.Zoom, b.Zoom),
		Tilt:    lerp(a.Tilt, b.Tilt),
		Bearing: lerp(a.Bearing, b.Bearing),
	}
}
