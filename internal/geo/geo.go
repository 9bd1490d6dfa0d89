package geo

import (
	"errors"
	"math"

	"github.com/mapbridge/mapbridge/pkg/core"
	"github.com/wroge/wgs84"
)

// Screen math is done in EPSG:3857 so hit testing and camera fitting
// share one planar space with the tile grid.

// ErrInvalidCoordinates is returned when a coordinate cannot be projected
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

const (
	earthRadius = 6378137.0
	originShift = math.Pi * earthRadius
	tileSize    = 256.0
	maxLatitude = 85.05112878
)

var (
	toMercator   = wgs84.EPSG().Transform(4326, 3857)
	fromMercator = wgs84.EPSG().Transform(3857, 4326)
)

// Viewport is the size of the map view in physical pixels.
type Viewport struct {
	Width  float64
	Height float64
}

// Project converts a WGS84 coordinate to web mercator meters.
func Project(p core.LatLng) (x, y float64, err error) {
	if math.IsNaN(p.Latitude) || math.IsNaN(p.Longitude) || math.Abs(p.Latitude) > 90 {
		return 0, 0, ErrInvalidCoordinates
	}
	lat := math.Max(-maxLatitude, math.Min(maxLatitude, p.Latitude))
	x, y, _ = toMercator(p.Longitude, lat, 0)
	return x, y, nil
}

// Unproject converts web mercator meters back to WGS84.
func Unproject(x, y float64) core.LatLng {
	lon, lat, _ := fromMercator(x, y, 0)
	return core.LatLng{Latitude: lat, Longitude: lon}
}

func worldSize(zoom float64) float64 {
	return tileSize * math.Pow(2, zoom)
}

// metersToWorld maps mercator meters to world pixels at zoom, with the
// origin at the top left corner.
func metersToWorld(x, y, zoom float64) (float64, float64) {
	s := worldSize(zoom)
	return (x + originShift) / (2 * originShift) * s, (originShift - y) / (2 * originShift) * s
}

func worldToMeters(px, py, zoom float64) (float64, float64) {
	s := worldSize(zoom)
	return px/s*2*originShift - originShift, originShift - py/s*2*originShift
}

// ToScreen returns the pixel location of p for a camera centred in vp.
func ToScreen(cam core.CameraPosition, vp Viewport, p core.LatLng) (core.Point, error) {
	cx, cy, err := Project(cam.Target)
	if err != nil {
		return core.Point{}, err
	}
	x, y, err := Project(p)
	if err != nil {
		return core.Point{}, err
	}
	cpx, cpy := metersToWorld(cx, cy, cam.Zoom)
	px, py := metersToWorld(x, y, cam.Zoom)
	dx, dy := rotate(px-cpx, py-cpy, -cam.Bearing)
	return core.Point{X: vp.Width/2 + dx, Y: vp.Height/2 + dy}, nil
}

// FromScreen is the inverse of ToScreen.
func FromScreen(cam core.CameraPosition, vp Viewport, pt core.Point) (core.LatLng, error) {
	cx, cy, err := Project(cam.Target)
	if err != nil {
		return core.LatLng{}, err
	}
	cpx, cpy := metersToWorld(cx, cy, cam.Zoom)
	dx, dy := rotate(pt.X-vp.Width/2, pt.Y-vp.Height/2, cam.Bearing)
	mx, my := worldToMeters(cpx+dx, cpy+dy, cam.Zoom)
	return Unproject(mx, my), nil
}

func rotate(x, y, degrees float64) (float64, float64) {
	if degrees == 0 {
		return x, y
	}
	r := degrees * math.Pi / 180
	sin, cos := math.Sincos(r)
	return x*cos - y*sin, x*sin + y*cos
}

// VisibleRegion returns the bounds covered by the viewport corners.
func VisibleRegion(cam core.CameraPosition, vp Viewport) (core.LatLngBounds, error) {
	corners := []core.Point{{X: 0, Y: 0}, {X: vp.Width, Y: 0}, {X: 0, Y: vp.Height}, {X: vp.Width, Y: vp.Height}}
	pts := make([]core.LatLng, 0, len(corners))
	for _, c := range corners {
		p, err := FromScreen(cam, vp, c)
		if err != nil {
			return core.LatLngBounds{}, err
		}
		pts = append(pts, p)
	}
	return Bounds(pts), nil
}

// Bounds returns the smallest LatLngBounds enclosing pts.
func Bounds(pts []core.LatLng) core.LatLngBounds {
	if len(pts) == 0 {
		return core.LatLngBounds{}
	}
	b := core.LatLngBounds{Southwest: pts[0], Northeast: pts[0]}
	for _, p := range pts[1:] {
		b.Southwest.Latitude = math.Min(b.Southwest.Latitude, p.Latitude)
		b.Southwest.Longitude = math.Min(b.Southwest.Longitude, p.Longitude)
		b.Northeast.Latitude = math.Max(b.Northeast.Latitude, p.Latitude)
		b.Northeast.Longitude = math.Max(b.Northeast.Longitude, p.Longitude)
	}
	return b
}

// Fit returns the camera that frames b inside vp with padding pixels on
// every side. Zoom is clamped to [minZoom, maxZoom].
func Fit(b core.LatLngBounds, vp Viewport, padding, minZoom, maxZoom float64) (core.CameraPosition, error) {
	swx, swy, err := Project(b.Southwest)
	if err != nil {
		return core.CameraPosition{}, err
	}
	nex, ney, err := Project(b.Northeast)
	if err != nil {
		return core.CameraPosition{}, err
	}
	w := math.Max(vp.Width-2*padding, 1)
	h := math.Max(vp.Height-2*padding, 1)
	spanX := math.Abs(nex-swx) / (2 * originShift)
	spanY := math.Abs(ney-swy) / (2 * originShift)
	zoom := maxZoom
	if spanX > 0 {
		zoom = math.Min(zoom, math.Log2(w/(spanX*tileSize)))
	}
	if spanY > 0 {
		zoom = math.Min(zoom, math.Log2(h/(spanY*tileSize)))
	}
	zoom = math.Max(minZoom, math.Min(maxZoom, zoom))
	return core.CameraPosition{
		Target: Unproject((swx+nex)/2, (swy+ney)/2),
		Zoom:   zoom,
	}, nil
}

// MercatorPerPixel returns how many mercator meters one pixel spans at zoom.
func MercatorPerPixel(zoom float64) float64 {
	return 2 * originShift / worldSize(zoom)
}

// Haversine returns the great-circle distance in meters.
func Haversine(a, b core.LatLng) float64 {
	const r = 6371008.8
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * r * math.Asin(math.Min(1, math.Sqrt(h)))
}
