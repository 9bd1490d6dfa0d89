package convert

import (
	"github.com/mapbridge/mapbridge/pkg/core"
)

// ToLatLng decodes [latitude, longitude].
func ToLatLng(v any) (core.LatLng, error) {
	l, err := ToList(v)
	if err != nil || len(l) != 2 {
		return core.LatLng{}, invalid("latLng", v)
	}
	lat, err := ToFloat(l[0])
	if err != nil {
		return core.LatLng{}, err
	}
	lng, err := ToFloat(l[1])
	if err != nil {
		return core.LatLng{}, err
	}
	return core.LatLng{Latitude: lat, Longitude: lng}, nil
}

// ToLatLngList decodes a list of [latitude, longitude] pairs.
func ToLatLngList(v any) ([]core.LatLng, error) {
	l, err := ToList(v)
	if err != nil {
		return nil, err
	}
	out := make([]core.LatLng, 0, len(l))
	for _, item := range l {
		p, err := ToLatLng(item)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// ToHoles decodes a list of point lists.
func ToHoles(v any) ([][]core.LatLng, error) {
	l, err := ToList(v)
	if err != nil {
		return nil, err
	}
	out := make([][]core.LatLng, 0, len(l))
	for _, item := range l {
		ring, err := ToLatLngList(item)
		if err != nil {
			return nil, err
		}
		out = append(out, ring)
	}
	return out, nil
}

// ToLatLngBounds decodes [southwest, northeast].
func ToLatLngBounds(v any) (core.LatLngBounds, error) {
	l, err := ToList(v)
	if err != nil || len(l) != 2 {
		return core.LatLngBounds{}, invalid("latLngBounds", v)
	}
	sw, err := ToLatLng(l[0])
	if err != nil {
		return core.LatLngBounds{}, err
	}
	ne, err := ToLatLng(l[1])
	if err != nil {
		return core.LatLngBounds{}, err
	}
	return core.LatLngBounds{Southwest: sw, Northeast: ne}, nil
}

// ToPoint decodes [x, y].
func ToPoint(v any) (core.Point, error) {
	l, err := ToList(v)
	if err != nil || len(l) != 2 {
		return core.Point{}, invalid("point", v)
	}
	x, err := ToFloat(l[0])
	if err != nil {
		return core.Point{}, err
	}
	y, err := ToFloat(l[1])
	if err != nil {
		return core.Point{}, err
	}
	return core.Point{X: x, Y: y}, nil
}

// ToScreenCoordinate decodes {"x": .., "y": ..}.
func ToScreenCoordinate(v any) (core.Point, error) {
	m, err := ToMap(v)
	if err != nil {
		return core.Point{}, err
	}
	x, err := ToFloat(m["x"])
	if err != nil {
		return core.Point{}, err
	}
	y, err := ToFloat(m["y"])
	if err != nil {
		return core.Point{}, err
	}
	return core.Point{X: x, Y: y}, nil
}

// LatLngToJSON encodes a coordinate as [latitude, longitude].
func LatLngToJSON(p core.LatLng) []any {
	return []any{p.Latitude, p.Longitude}
}

// LatLngBoundsToJSON encodes bounds as {"southwest": .., "northeast": ..}.
func LatLngBoundsToJSON(b core.LatLngBounds) map[string]any {
	return map[string]any{
		"southwest": LatLngToJSON(b.Southwest),
		"northeast": LatLngToJSON(b.Northeast),
	}
}

// PointToJSON encodes a screen location as {"x": .., "y": ..}.
func PointToJSON(p core.Point) map[string]any {
	return map[string]any{"x": int(p.X), "y": int(p.Y)}
}
