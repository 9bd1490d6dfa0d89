package mapview

import (
	"fmt"
	"maps"
	"slices"

	"github.com/mapbridge/mapbridge/internal/convert"
	"github.com/mapbridge/mapbridge/internal/surface"
	"github.com/mapbridge/mapbridge/pkg/core"
	"github.com/mapbridge/mapbridge/pkg/streaming"
)

// mapOptions accumulates map#update options on top of the engine
// settings. Before the map is ready it holds the options to apply at
// ready.
type mapOptions struct {
	settings surface.Settings
	track    bool
	density  float64
}

type optionSetter func(o *mapOptions, v any) error

var mapOptionsSchema = map[string]optionSetter{
	"cameraTargetBounds":      cameraTargetBoundsOpt,
	"compassEnabled":          boolOpt(func(o *mapOptions, b bool) { o.settings.CompassEnabled = b }),
	"mapToolbarEnabled":       boolOpt(func(o *mapOptions, b bool) { o.settings.MapToolbarEnabled = b }),
	"mapType":                 mapTypeOpt,
	"minMaxZoomPreference":    minMaxZoomOpt,
	"rotateGesturesEnabled":   boolOpt(func(o *mapOptions, b bool) { o.settings.RotateGesturesEnabled = b }),
	"scrollGesturesEnabled":   boolOpt(func(o *mapOptions, b bool) { o.settings.ScrollGesturesEnabled = b }),
	"tiltGesturesEnabled":     boolOpt(func(o *mapOptions, b bool) { o.settings.TiltGesturesEnabled = b }),
	"trackCameraPosition":     boolOpt(func(o *mapOptions, b bool) { o.track = b }),
	"zoomGesturesEnabled":     boolOpt(func(o *mapOptions, b bool) { o.settings.ZoomGesturesEnabled = b }),
	"liteModeEnabled":         boolOpt(func(o *mapOptions, b bool) { o.settings.LiteModeEnabled = b }),
	"myLocationEnabled":       boolOpt(func(o *mapOptions, b bool) { o.settings.MyLocationEnabled = b }),
	"myLocationButtonEnabled": boolOpt(func(o *mapOptions, b bool) { o.settings.MyLocationButton = b }),
	"zoomControlsEnabled":     boolOpt(func(o *mapOptions, b bool) { o.settings.ZoomControlsEnabled = b }),
	"padding":                 paddingOpt,
	"indoorViewEnabled":       boolOpt(func(o *mapOptions, b bool) { o.settings.IndoorViewEnabled = b }),
	"trafficEnabled":          boolOpt(func(o *mapOptions, b bool) { o.settings.TrafficEnabled = b }),
	"buildingsEnabled":        boolOpt(func(o *mapOptions, b bool) { o.settings.BuildingsEnabled = b }),
}

// interpret applies every known option in payload. Unknown keys are
// ignored. On error o is left unchanged.
func (o *mapOptions) interpret(payload map[string]any) error {
	next := *o
	for _, key := range slices.Sorted(maps.Keys(payload)) {
		set, ok := mapOptionsSchema[key]
		if !ok {
			continue
		}
		if err := set(&next, payload[key]); err != nil {
			return fmt.Errorf("option %s: %w", key, err)
		}
	}
	*o = next
	return nil
}

func boolOpt(apply func(*mapOptions, bool)) optionSetter {
	return func(o *mapOptions, v any) error {
		b, err := convert.ToBool(v)
		if err != nil {
			return err
		}
		apply(o, b)
		return nil
	}
}

func mapTypeOpt(o *mapOptions, v any) error {
	i, err := convert.ToInt(v)
	if err != nil {
		return err
	}
	o.settings.MapType = core.MapTypeFromIndex(i)
	return nil
}

// cameraTargetBoundsOpt accepts [bounds], [null] or a bare bounds value.
func cameraTargetBoundsOpt(o *mapOptions, v any) error {
	if v == nil {
		o.settings.CameraTargetBounds = nil
		return nil
	}
	l, err := convert.ToList(v)
	if err != nil {
		return err
	}
	if len(l) == 1 {
		if l[0] == nil {
			o.settings.CameraTargetBounds = nil
			return nil
		}
		v = l[0]
	}
	b, err := convert.ToLatLngBounds(v)
	if err != nil {
		return err
	}
	o.settings.CameraTargetBounds = &b
	return nil
}

func minMaxZoomOpt(o *mapOptions, v any) error {
	l, err := convert.ToList(v)
	if err != nil {
		return err
	}
	if len(l) != 2 {
		return fmt.Errorf("minMaxZoomPreference: want 2 values, got %d: %w", len(l), streaming.ErrInvalidArgument)
	}
	bounds := [2]*float64{}
	for i, raw := range l {
		if raw == nil {
			continue
		}
		f, err := convert.ToFloat(raw)
		if err != nil {
			return err
		}
		bounds[i] = &f
	}
	o.settings.MinZoomPreference, o.settings.MaxZoomPreference = bounds[0], bounds[1]
	return nil
}

func paddingOpt(o *mapOptions, v any) error {
	l, err := convert.ToList(v)
	if err != nil {
		return err
	}
	if len(l) != 4 {
		return fmt.Errorf("padding: want 4 values, got %d: %w", len(l), streaming.ErrInvalidArgument)
	}
	var px [4]float64
	for i, raw := range l {
		f, err := convert.ToFloat(raw)
		if err != nil {
			return err
		}
		px[i] = f * o.density
	}
	o.settings.Padding = core.Padding{Top: px[0], Left: px[1], Bottom: px[2], Right: px[3]}
	return nil
}
