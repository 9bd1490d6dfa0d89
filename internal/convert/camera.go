package convert

import (
	"github.com/mapbridge/mapbridge/pkg/core"
)

// ToCameraPosition decodes {"bearing", "target", "tilt", "zoom"}.
func ToCameraPosition(v any) (core.CameraPosition, error) {
	m, err := ToMap(v)
	if err != nil {
		return core.CameraPosition{}, err
	}
	target, err := ToLatLng(m["target"])
	if err != nil {
		return core.CameraPosition{}, err
	}
	pos := core.CameraPosition{Target: target}
	if pos.Zoom, err = optionalFloat(m, "zoom"); err != nil {
		return core.CameraPosition{}, err
	}
	if pos.Tilt, err = optionalFloat(m, "tilt"); err != nil {
		return core.CameraPosition{}, err
	}
	if pos.Bearing, err = optionalFloat(m, "bearing"); err != nil {
		return core.CameraPosition{}, err
	}
	return pos, nil
}

func optionalFloat(m map[string]any, key string) (float64, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return 0, nil
	}
	return ToFloat(v)
}

// CameraPositionToJSON encodes a camera position in the same shape
// ToCameraPosition accepts.
func CameraPositionToJSON(p core.CameraPosition) map[string]any {
	return map[string]any{
		"bearing": p.Bearing,
		"target":  LatLngToJSON(p.Target),
		"tilt":    p.Tilt,
		"zoom":    p.Zoom,
	}
}

// ToCameraUpdate decodes a tagged camera update list such as
// ["newLatLngZoom", [lat, lng], zoom]. Pixel arguments are multiplied by
// density.
func ToCameraUpdate(v any, density float64) (core.CameraUpdate, error) {
	l, err := ToList(v)
	if err != nil || len(l) == 0 {
		return core.CameraUpdate{}, invalid("cameraUpdate", v)
	}
	kind, err := ToString(l[0])
	if err != nil {
		return core.CameraUpdate{}, err
	}
	arg := func(i int) (any, error) {
		if i >= len(l) {
			return nil, invalid("cameraUpdate "+kind, v)
		}
		return l[i], nil
	}
	u := core.CameraUpdate{Kind: core.CameraUpdateKind(kind)}
	switch u.Kind {
	case core.CameraNewPosition:
		a, err := arg(1)
		if err != nil {
			return u, err
		}
		u.Position, err = ToCameraPosition(a)
		return u, err
	case core.CameraNewLatLng:
		a, err := arg(1)
		if err != nil {
			return u, err
		}
		u.Target, err = ToLatLng(a)
		return u, err
	case core.CameraNewLatLngBounds:
		a, err := arg(1)
		if err != nil {
			return u, err
		}
		if u.Bounds, err = ToLatLngBounds(a); err != nil {
			return u, err
		}
		p, err := arg(2)
		if err != nil {
			return u, err
		}
		pad, err := ToFloat(p)
		u.Padding = pad * density
		return u, err
	case core.CameraNewLatLngZoom:
		a, err := arg(1)
		if err != nil {
			return u, err
		}
		if u.Target, err = ToLatLng(a); err != nil {
			return u, err
		}
		z, err := arg(2)
		if err != nil {
			return u, err
		}
		u.Zoom, err = ToFloat(z)
		return u, err
	case core.CameraScrollBy:
		a, err := arg(1)
		if err != nil {
			return u, err
		}
		b, err := arg(2)
		if err != nil {
			return u, err
		}
		if u.DX, err = ToFloat(a); err != nil {
			return u, err
		}
		if u.DY, err = ToFloat(b); err != nil {
			return u, err
		}
		u.DX *= density
		u.DY *= density
		return u, nil
	case core.CameraZoomBy:
		a, err := arg(1)
		if err != nil {
			return u, err
		}
		if u.Zoom, err = ToFloat(a); err != nil {
			return u, err
		}
		if len(l) > 2 && l[2] != nil {
			f, err := ToPoint(l[2])
			if err != nil {
				return u, err
			}
			f.X *= density
			f.Y *= density
			u.Focus = &f
		}
		return u, nil
	case core.CameraZoomIn, core.CameraZoomOut:
		return u, nil
	case core.CameraZoomTo:
		a, err := arg(1)
		if err != nil {
			return u, err
		}
		u.Zoom, err = ToFloat(a)
		return u, err
	default:
		return u, invalid("cameraUpdate", kind)
	}
}
