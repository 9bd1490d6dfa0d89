package core

// CameraPosition describes the map viewpoint.
type CameraPosition struct {
	Target  LatLng  `json:"target"`
	Zoom    float64 `json:"zoom"`
	Tilt    float64 `json:"tilt"`
	Bearing float64 `json:"bearing"`
}

// CameraUpdateKind identifies the camera movement variant.
type CameraUpdateKind string

const (
	CameraNewPosition     CameraUpdateKind = "newCameraPosition"
	CameraNewLatLng       CameraUpdateKind = "newLatLng"
	CameraNewLatLngBounds CameraUpdateKind = "newLatLngBounds"
	CameraNewLatLngZoom   CameraUpdateKind = "newLatLngZoom"
	CameraScrollBy        CameraUpdateKind = "scrollBy"
	CameraZoomBy          CameraUpdateKind = "zoomBy"
	CameraZoomIn          CameraUpdateKind = "zoomIn"
	CameraZoomOut         CameraUpdateKind = "zoomOut"
	CameraZoomTo          CameraUpdateKind = "zoomTo"
)

// CameraUpdate is a decoded camera movement. Only the fields relevant to
// Kind are set. Pixel values are already scaled by the device density.
type CameraUpdate struct {
	Kind     CameraUpdateKind
	Position CameraPosition
	Target   LatLng
	Bounds   LatLngBounds
	Padding  float64
	Zoom     float64
	DX       float64
	DY       float64
	Focus    *Point
	Animated bool
}
