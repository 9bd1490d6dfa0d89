// Package convert decodes loosely typed client payloads into core values
// and encodes core values back into their wire shape.
package convert

import (
	"fmt"

	"github.com/mapbridge/mapbridge/pkg/core"
	"github.com/mapbridge/mapbridge/pkg/streaming"
	"github.com/spf13/cast"
)

func invalid(what string, v any) error {
	return fmt.Errorf("%s: unexpected value %v: %w", what, v, streaming.ErrInvalidArgument)
}

// ToBool decodes a boolean.
func ToBool(v any) (bool, error) {
	if v == nil {
		return false, invalid("bool", v)
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return false, invalid("bool", v)
	}
	return b, nil
}

// ToFloat decodes any JSON number into a float64.
func ToFloat(v any) (float64, error) {
	if v == nil {
		return 0, invalid("float", v)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, invalid("float", v)
	}
	return f, nil
}

// ToInt decodes a whole number.
func ToInt(v any) (int, error) {
	if v == nil {
		return 0, invalid("int", v)
	}
	i, err := cast.ToIntE(v)
	if err != nil {
		return 0, invalid("int", v)
	}
	return i, nil
}

// ToString decodes a string.
func ToString(v any) (string, error) {
	if v == nil {
		return "", invalid("string", v)
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", invalid("string", v)
	}
	return s, nil
}

// ToList decodes an ordered sequence.
func ToList(v any) ([]any, error) {
	if v == nil {
		return nil, invalid("list", v)
	}
	l, err := cast.ToSliceE(v)
	if err != nil {
		return nil, invalid("list", v)
	}
	return l, nil
}

// ToMap decodes a string-keyed mapping.
func ToMap(v any) (map[string]any, error) {
	if v == nil {
		return nil, invalid("map", v)
	}
	if _, ok := v.(string); ok {
		return nil, invalid("map", v)
	}
	m, err := cast.ToStringMapE(v)
	if err != nil {
		return nil, invalid("map", v)
	}
	return m, nil
}

// ToMapList decodes a sequence of mappings. A nil value yields an empty list.
func ToMapList(v any) ([]map[string]any, error) {
	if v == nil {
		return nil, nil
	}
	l, err := ToList(v)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(l))
	for _, item := range l {
		m, err := ToMap(item)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// ToStringList decodes a sequence of strings. A nil value yields an empty list.
func ToStringList(v any) ([]string, error) {
	if v == nil {
		return nil, nil
	}
	l, err := ToList(v)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(l))
	for _, item := range l {
		s, err := ToString(item)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// ToColor decodes a packed ARGB integer.
func ToColor(v any) (core.Color, error) {
	if v == nil {
		return 0, invalid("color", v)
	}
	i, err := cast.ToInt64E(v)
	if err != nil {
		return 0, invalid("color", v)
	}
	return core.Color(uint32(i)), nil
}
