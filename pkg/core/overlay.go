package core

// Cap is a polyline end cap. Bitmap caps carry an icon and a reference width.
type Cap struct {
	Kind     string  `json:"kind"` // buttCap, roundCap, squareCap, customCap
	Bitmap   *Bitmap `json:"bitmap,omitempty"`
	RefWidth float64 `json:"refWidth,omitempty"`
}

// PatternItem is one element of a stroke pattern.
type PatternItem struct {
	Kind   string  `json:"kind"` // dot, dash, gap
	Length float64 `json:"length,omitempty"`
}

// Bitmap describes an icon source. Pixels are resolved by the map surface.
type Bitmap struct {
	Kind  string  `json:"kind"` // defaultMarker, fromAsset, fromAssetImage, fromBytes
	Hue   float64 `json:"hue,omitempty"`
	Asset string  `json:"asset,omitempty"`
	Scale float64 `json:"scale,omitempty"`
	Bytes []byte  `json:"bytes,omitempty"`
}

// InfoWindow holds the text shown in a marker's callout.
type InfoWindow struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Anchor  Point  `json:"anchor"`
}

// Text returns the rendered callout text: title, then snippet on its own line.
func (w InfoWindow) Text() string {
	if w.Snippet == "" {
		return w.Title
	}
	return w.Title + "\n" + w.Snippet
}

// MarkerOptions is the immutable creation value for a marker.
type MarkerOptions struct {
	Alpha            float64
	Anchor           Point
	ConsumeTapEvents bool
	Draggable        bool
	Flat             bool
	Icon             *Bitmap
	InfoWindow       InfoWindow
	Position         LatLng
	Rotation         float64
	Visible          bool
	ZIndex           float64
	Remove           bool
}

// DefaultMarkerOptions returns the engine defaults applied before decoding.
func DefaultMarkerOptions() MarkerOptions {
	return MarkerOptions{Alpha: 1, Anchor: Point{X: 0.5, Y: 1}, Visible: true, InfoWindow: InfoWindow{Anchor: Point{X: 0.5}}}
}

// PolygonOptions is the immutable creation value for a polygon.
type PolygonOptions struct {
	ConsumeTapEvents bool
	FillColor        Color
	Geodesic         bool
	Points           []LatLng
	Holes            [][]LatLng
	StrokeColor      Color
	StrokeWidth      float64
	Visible          bool
	ZIndex           float64
}

// PolylineOptions is the immutable creation value for a polyline.
type PolylineOptions struct {
	ConsumeTapEvents bool
	Color            Color
	StartCap         Cap
	EndCap           Cap
	Geodesic         bool
	JointType        int
	Pattern          []PatternItem
	Points           []LatLng
	Visible          bool
	Width            float64
	ZIndex           float64
}

// CircleOptions is the immutable creation value for a circle.
type CircleOptions struct {
	ConsumeTapEvents bool
	Clickable        bool
	Center           LatLng
	Radius           float64
	FillColor        Color
	StrokeColor      Color
	StrokeWidth      float64
	Visible          bool
	ZIndex           float64
}

// TileOverlayOptions is the immutable creation value for a tile overlay.
type TileOverlayOptions struct {
	FadeIn       bool
	Transparency float64
	ZIndex       float64
	Visible      bool
	TileSize     int
}
