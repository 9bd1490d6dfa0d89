package convert

import (
	"encoding/base64"

	"github.com/mapbridge/mapbridge/pkg/core"
)

// ToCap decodes ["buttCap"], ["roundCap"], ["squareCap"] or
// ["customCap", bitmap, refWidth].
func ToCap(v any) (core.Cap, error) {
	l, err := ToList(v)
	if err != nil || len(l) == 0 {
		return core.Cap{}, invalid("cap", v)
	}
	kind, err := ToString(l[0])
	if err != nil {
		return core.Cap{}, err
	}
	switch kind {
	case "buttCap", "roundCap", "squareCap":
		return core.Cap{Kind: kind}, nil
	case "customCap":
		if len(l) < 2 {
			return core.Cap{}, invalid("customCap", v)
		}
		bmp, err := ToBitmap(l[1])
		if err != nil {
			return core.Cap{}, err
		}
		c := core.Cap{Kind: kind, Bitmap: &bmp, RefWidth: 10}
		if len(l) > 2 {
			if c.RefWidth, err = ToFloat(l[2]); err != nil {
				return core.Cap{}, err
			}
		}
		return c, nil
	default:
		return core.Cap{}, invalid("cap", kind)
	}
}

// ToPattern decodes a list of ["dot"], ["dash", length] and ["gap", length].
func ToPattern(v any) ([]core.PatternItem, error) {
	l, err := ToList(v)
	if err != nil {
		return nil, err
	}
	out := make([]core.PatternItem, 0, len(l))
	for _, raw := range l {
		item, err := ToList(raw)
		if err != nil || len(item) == 0 {
			return nil, invalid("pattern", raw)
		}
		kind, err := ToString(item[0])
		if err != nil {
			return nil, err
		}
		switch kind {
		case "dot":
			out = append(out, core.PatternItem{Kind: kind})
		case "dash", "gap":
			if len(item) < 2 {
				return nil, invalid("pattern "+kind, raw)
			}
			n, err := ToFloat(item[1])
			if err != nil {
				return nil, err
			}
			out = append(out, core.PatternItem{Kind: kind, Length: n})
		default:
			return nil, invalid("pattern", kind)
		}
	}
	return out, nil
}

// ToBitmap decodes a tagged icon descriptor.
func ToBitmap(v any) (core.Bitmap, error) {
	l, err := ToList(v)
	if err != nil || len(l) == 0 {
		return core.Bitmap{}, invalid("bitmap", v)
	}
	kind, err := ToString(l[0])
	if err != nil {
		return core.Bitmap{}, err
	}
	b := core.Bitmap{Kind: kind}
	switch kind {
	case "defaultMarker":
		if len(l) > 1 && l[1] != nil {
			if b.Hue, err = ToFloat(l[1]); err != nil {
				return core.Bitmap{}, err
			}
		}
	case "fromAsset":
		if len(l) < 2 {
			return core.Bitmap{}, invalid("fromAsset", v)
		}
		if b.Asset, err = ToString(l[1]); err != nil {
			return core.Bitmap{}, err
		}
	case "fromAssetImage":
		if len(l) < 3 {
			return core.Bitmap{}, invalid("fromAssetImage", v)
		}
		if b.Asset, err = ToString(l[1]); err != nil {
			return core.Bitmap{}, err
		}
		if b.Scale, err = ToFloat(l[2]); err != nil {
			return core.Bitmap{}, err
		}
	case "fromBytes":
		if len(l) < 2 {
			return core.Bitmap{}, invalid("fromBytes", v)
		}
		if b.Bytes, err = ToBytes(l[1]); err != nil {
			return core.Bitmap{}, err
		}
	default:
		return core.Bitmap{}, invalid("bitmap", kind)
	}
	return b, nil
}

// ToBytes decodes a byte buffer sent either as base64 text or as a list
// of integers.
func ToBytes(v any) ([]byte, error) {
	switch t := v.(type) {
	case []byte:
		return t, nil
	case string:
		b, err := base64.StdEncoding.DecodeString(t)
		if err != nil {
			return nil, invalid("bytes", "<base64>")
		}
		return b, nil
	}
	l, err := ToList(v)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(l))
	for i, item := range l {
		n, err := ToInt(item)
		if err != nil || n < 0 || n > 255 {
			return nil, invalid("bytes", item)
		}
		out[i] = byte(n)
	}
	return out, nil
}
