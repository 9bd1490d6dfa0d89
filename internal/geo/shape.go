package geo

import (
	"github.com/mapbridge/mapbridge/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
)

// PointGeometry projects p into a mercator geom.Point.
func PointGeometry(p core.LatLng) (geom.Point, error) {
	x, y, err := Project(p)
	if err != nil {
		return geom.NewEmptyPoint(geom.DimXY), err
	}
	return geom.NewPoint(geom.Coordinates{XY: geom.XY{X: x, Y: y}, Type: geom.DimXY})
}

func sequence(pts []core.LatLng, closed bool) (geom.Sequence, error) {
	flat := make([]float64, 0, (len(pts)+1)*2)
	for _, p := range pts {
		x, y, err := Project(p)
		if err != nil {
			return geom.Sequence{}, err
		}
		flat = append(flat, x, y)
	}
	if closed && len(pts) > 0 && pts[0] != pts[len(pts)-1] {
		flat = append(flat, flat[0], flat[1])
	}
	return geom.NewSequence(flat, geom.DimXY), nil
}

// LineGeometry projects a polyline into a mercator geom.LineString.
func LineGeometry(pts []core.LatLng) (geom.LineString, error) {
	seq, err := sequence(pts, false)
	if err != nil {
		return geom.LineString{}, err
	}
	// User shapes may self-intersect; hit tests still apply to them.
	return geom.NewLineString(seq, geom.DisableAllValidations)
}

// PolygonGeometry projects an outline and its holes into a mercator
// geom.Polygon. Rings are closed if the caller left them open.
func PolygonGeometry(outline []core.LatLng, holes [][]core.LatLng) (geom.Polygon, error) {
	rings := make([]geom.LineString, 0, len(holes)+1)
	for _, ring := range append([][]core.LatLng{outline}, holes...) {
		if len(ring) < 3 {
			continue
		}
		seq, err := sequence(ring, true)
		if err != nil {
			return geom.Polygon{}, err
		}
		ls, err := geom.NewLineString(seq, geom.DisableAllValidations)
		if err != nil {
			return geom.Polygon{}, err
		}
		rings = append(rings, ls)
	}
	return geom.NewPolygon(rings, geom.DisableAllValidations)
}

// PolygonContains reports whether p falls inside the outline and outside
// every hole.
func PolygonContains(outline []core.LatLng, holes [][]core.LatLng, p core.LatLng) bool {
	if len(outline) < 3 {
		return false
	}
	poly, err := PolygonGeometry(outline, holes)
	if err != nil {
		return false
	}
	pt, err := PointGeometry(p)
	if err != nil {
		return false
	}
	return geom.Intersects(poly.AsGeometry(), pt.AsGeometry())
}

// LineNear reports whether p is within tolerance meters (mercator) of
// the polyline.
func LineNear(pts []core.LatLng, p core.LatLng, tolerance float64) bool {
	if len(pts) < 2 {
		return false
	}
	line, err := LineGeometry(pts)
	if err != nil {
		return false
	}
	pt, err := PointGeometry(p)
	if err != nil {
		return false
	}
	d, ok := geom.Distance(line.AsGeometry(), pt.AsGeometry())
	return ok && d <= tolerance
}

// CircleContains reports whether p lies within radius meters of center.
func CircleContains(center core.LatLng, radius float64, p core.LatLng) bool {
	return Haversine(center, p) <= radius
}
