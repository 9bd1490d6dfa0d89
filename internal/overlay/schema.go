// Package overlay reconciles declarative overlay batches against live
// native objects. One generic Controller serves every overlay kind; the
// per-kind differences live in a Descriptor.
package overlay

import (
	"fmt"
	"maps"
	"slices"

	"github.com/mapbridge/mapbridge/internal/convert"
	"github.com/mapbridge/mapbridge/pkg/core"
)

// Setter decodes one attribute value into an operation on a sink.
// Decoding never touches the sink.
type Setter[S any] func(value any) (func(sink S), error)

// Schema maps payload attribute names to setters.
type Schema[S any] map[string]Setter[S]

// Interpret decodes every known attribute of payload, then applies them
// to sink in key order. Unknown keys are ignored. If any value fails to
// decode, sink is left untouched. The same routine drives builders on
// add and live overlays on change.
func (s Schema[S]) Interpret(payload map[string]any, sink S) error {
	var ops []func(S)
	for _, key := range slices.Sorted(maps.Keys(payload)) {
		set, ok := s[key]
		if !ok {
			continue
		}
		op, err := set(payload[key])
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		ops = append(ops, op)
	}
	for _, op := range ops {
		op(sink)
	}
	return nil
}

// attr pairs a decoder with the sink method that takes its result.
func attr[S, T any](decode func(any) (T, error), apply func(S, T)) Setter[S] {
	return func(v any) (func(S), error) {
		val, err := decode(v)
		if err != nil {
			return nil, err
		}
		return func(sink S) { apply(sink, val) }, nil
	}
}

func boolAttr[S any](apply func(S, bool)) Setter[S] { return attr(convert.ToBool, apply) }

func floatAttr[S any](apply func(S, float64)) Setter[S] { return attr(convert.ToFloat, apply) }

func intAttr[S any](apply func(S, int)) Setter[S] { return attr(convert.ToInt, apply) }

func colorAttr[S any](apply func(S, core.Color)) Setter[S] { return attr(convert.ToColor, apply) }

func latLngAttr[S any](apply func(S, core.LatLng)) Setter[S] { return attr(convert.ToLatLng, apply) }

func pointsAttr[S any](apply func(S, []core.LatLng)) Setter[S] {
	return attr(convert.ToLatLngList, apply)
}

func pointAttr[S any](apply func(S, core.Point)) Setter[S] { return attr(convert.ToPoint, apply) }
