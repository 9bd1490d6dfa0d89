package surface

import "github.com/mapbridge/mapbridge/pkg/core"

// Callback capabilities. A listener passed to Map.SetListener implements
// any subset of these.

// MapClickListener is told about taps that hit no overlay.
type MapClickListener interface {
	OnMapClick(p core.LatLng)
}

// MapLongClickListener is told about long presses on the map.
type MapLongClickListener interface {
	OnMapLongClick(p core.LatLng)
}

// CameraMoveStartedListener is told when the camera starts moving.
type CameraMoveStartedListener interface {
	OnCameraMoveStarted(gesture bool)
}

// CameraMoveListener is told on every camera step.
type CameraMoveListener interface {
	OnCameraMove()
}

// CameraIdleListener is told when the camera stops.
type CameraIdleListener interface {
	OnCameraIdle()
}

// MarkerClickListener returns true when the tap is consumed, which
// suppresses the engine's default selection and info window.
type MarkerClickListener interface {
	OnMarkerClick(nativeID string) bool
}

// MarkerDragEndListener is told where a dragged marker was dropped.
type MarkerDragEndListener interface {
	OnMarkerDragEnd(nativeID string, p core.LatLng)
}

// InfoWindowClickListener is told about taps on an open info window.
type InfoWindowClickListener interface {
	OnInfoWindowClick(nativeID string)
}

// PolygonClickListener returns true when the tap is consumed.
type PolygonClickListener interface {
	OnPolygonClick(nativeID string) bool
}

// PolylineClickListener returns true when the tap is consumed.
type PolylineClickListener interface {
	OnPolylineClick(nativeID string) bool
}

// CircleClickListener returns true when the tap is consumed.
type CircleClickListener interface {
	OnCircleClick(nativeID string) bool
}
