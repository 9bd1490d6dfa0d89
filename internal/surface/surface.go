// Package surface declares the native map engine contract. Overlay
// controllers and the event forwarder talk to the engine only through
// these interfaces.
package surface

import (
	"github.com/mapbridge/mapbridge/pkg/core"
)

// Host hands out the engine's map once it has finished loading.
type Host interface {
	GetMapAsync(ready func(Map))
}

// Map is a loaded native map.
type Map interface {
	AddMarker(opts core.MarkerOptions) (Marker, error)
	AddPolygon(opts core.PolygonOptions) (Polygon, error)
	AddPolyline(opts core.PolylineOptions) (Polyline, error)
	AddCircle(opts core.CircleOptions) (Circle, error)
	AddTileOverlay(opts core.TileOverlayOptions) (TileOverlay, error)

	CameraPosition() core.CameraPosition
	MoveCamera(update core.CameraUpdate) error
	ToScreenLocation(p core.LatLng) (core.Point, error)
	FromScreenLocation(pt core.Point) (core.LatLng, error)
	VisibleRegion() (core.LatLngBounds, error)
	// MinMaxZoom returns the effective zoom range after preferences.
	MinMaxZoom() (min, max float64)
	// Snapshot renders the current view as PNG bytes.
	Snapshot() ([]byte, error)

	Settings() Settings
	ApplySettings(s Settings)
	// SetStyle applies a JSON style document. An empty string resets it.
	SetStyle(style string) error
	SetLocationSource(src LocationSource)

	// SetListener registers l for every callback interface it implements.
	// Callbacks l does not implement are left unwired. nil detaches.
	SetListener(l any)
}

// Settings is the engine-side view of the map options.
type Settings struct {
	CameraTargetBounds    *core.LatLngBounds
	CompassEnabled        bool
	MapToolbarEnabled     bool
	MapType               core.MapType
	MinZoomPreference     *float64
	MaxZoomPreference     *float64
	RotateGesturesEnabled bool
	ScrollGesturesEnabled bool
	TiltGesturesEnabled   bool
	ZoomGesturesEnabled   bool
	LiteModeEnabled       bool
	MyLocationEnabled     bool
	MyLocationButton      bool
	ZoomControlsEnabled   bool
	Padding               core.Padding
	IndoorViewEnabled     bool
	TrafficEnabled        bool
	BuildingsEnabled      bool
}

// DefaultSettings mirrors a freshly created engine map.
func DefaultSettings() Settings {
	return Settings{
		CompassEnabled:        true,
		MapToolbarEnabled:     true,
		RotateGesturesEnabled: true,
		ScrollGesturesEnabled: true,
		TiltGesturesEnabled:   true,
		ZoomGesturesEnabled:   true,
		MyLocationButton:      true,
		ZoomControlsEnabled:   true,
		BuildingsEnabled:      true,
	}
}

// LocationSource feeds device positions to the my-location layer. A map
// view owns its source for its whole lifetime.
type LocationSource interface {
	Activate(update func(core.LatLng))
	Deactivate()
}

// Overlay is the part every native overlay handle shares.
type Overlay interface {
	ID() string
	Remove()
}

// Marker is a native marker handle.
type Marker interface {
	Overlay
	SetAlpha(alpha float64)
	SetAnchor(anchor core.Point)
	SetDraggable(draggable bool)
	SetFlat(flat bool)
	SetIcon(icon *core.Bitmap)
	SetInfoWindow(w core.InfoWindow)
	SetPosition(p core.LatLng)
	Position() core.LatLng
	SetRotation(degrees float64)
	SetVisible(visible bool)
	SetZIndex(z int)
	ShowInfoWindow()
	HideInfoWindow()
	IsInfoWindowShown() bool
}

// Polygon is a native polygon handle.
type Polygon interface {
	Overlay
	SetFillColor(c core.Color)
	SetGeodesic(geodesic bool)
	SetPoints(pts []core.LatLng)
	SetHoles(holes [][]core.LatLng)
	SetStrokeColor(c core.Color)
	SetStrokeWidth(w float64)
	SetVisible(visible bool)
	SetZIndex(z float64)
}

// Polyline is a native polyline handle.
type Polyline interface {
	Overlay
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

// Circle is a native circle handle. Only clickable circles take taps.
type Circle interface {
	Overlay
	SetClickable(clickable bool)
	SetCenter(p core.LatLng)
	SetRadius(meters float64)
	SetFillColor(c core.Color)
	SetStrokeColor(c core.Color)
	SetStrokeWidth(w float64)
	SetVisible(visible bool)
	SetZIndex(z float64)
}

// TileOverlay is a native tile layer handle.
type TileOverlay interface {
	Overlay
	SetFadeIn(fadeIn bool)
	SetTransparency(t float64)
	SetVisible(visible bool)
	SetZIndex(z float64)
	ClearTileCache()
	Options() core.TileOverlayOptions
}
