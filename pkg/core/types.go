// pkg/core/types.go
package core

// LatLng is a WGS84 coordinate in degrees.
type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// LatLngBounds is an axis-aligned geographic rectangle.
type LatLngBounds struct {
	Southwest LatLng `json:"southwest"`
	Northeast LatLng `json:"northeast"`
}

// Contains reports whether p lies inside the bounds (edges inclusive).
func (b LatLngBounds) Contains(p LatLng) bool {
	return p.Latitude >= b.Southwest.Latitude && p.Latitude <= b.Northeast.Latitude &&
		p.Longitude >= b.Southwest.Longitude && p.Longitude <= b.Northeast.Longitude
}

// Point is a screen location in physical pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Color is a packed 0xAARRGGBB value.
type Color uint32

// Alpha returns the alpha channel of the color.
func (c Color) Alpha() uint8 { return uint8(c >> 24) }

// MapType selects the base layer rendered by the engine.
type MapType int

const (
	MapTypeBasic MapType = iota
	MapTypeNavi
	MapTypeSatellite
	MapTypeHybrid
	MapTypeTerrain
	MapTypeNone
)

// MapTypeFromIndex maps the client's integer map type to a MapType.
// Values outside the known range select MapTypeNone.
func MapTypeFromIndex(i int) MapType {
	if i < int(MapTypeBasic) || i > int(MapTypeTerrain) {
		return MapTypeNone
	}
	return MapType(i)
}

// Padding is a content inset in physical pixels.
type Padding struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Bottom float64 `json:"bottom"`
	Right  float64 `json:"right"`
}
