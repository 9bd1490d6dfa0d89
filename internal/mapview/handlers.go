package mapview

import (
	"fmt"

	"github.com/mapbridge/mapbridge/internal/convert"
	"github.com/mapbridge/mapbridge/internal/dispatcher"
	"github.com/mapbridge/mapbridge/internal/overlay"
	"github.com/mapbridge/mapbridge/internal/surface"
	"github.com/mapbridge/mapbridge/pkg/streaming"
)

var featureQueries = map[string]func(surface.Settings) bool{
	streaming.MethodIsCompassEnabled:          func(s surface.Settings) bool { return s.CompassEnabled },
	streaming.MethodIsMapToolbarEnabled:       func(s surface.Settings) bool { return s.MapToolbarEnabled },
	streaming.MethodIsZoomGesturesEnabled:     func(s surface.Settings) bool { return s.ZoomGesturesEnabled },
	streaming.MethodIsLiteModeEnabled:         func(s surface.Settings) bool { return s.LiteModeEnabled },
	streaming.MethodIsZoomControlsEnabled:     func(s surface.Settings) bool { return s.ZoomControlsEnabled },
	streaming.MethodIsScrollGesturesEnabled:   func(s surface.Settings) bool { return s.ScrollGesturesEnabled },
	streaming.MethodIsTiltGesturesEnabled:     func(s surface.Settings) bool { return s.TiltGesturesEnabled },
	streaming.MethodIsRotateGesturesEnabled:   func(s surface.Settings) bool { return s.RotateGesturesEnabled },
	streaming.MethodIsMyLocationButtonEnabled: func(s surface.Settings) bool { return s.MyLocationButton },
	streaming.MethodIsTrafficEnabled:          func(s surface.Settings) bool { return s.TrafficEnabled },
	streaming.MethodIsBuildingsEnabled:        func(s surface.Settings) bool { return s.BuildingsEnabled },
}

func (v *View) registerHandlers() {
	r := v.router
	guarded := dispatcher.Guarded(v.requireMap)
	logged := dispatcher.Logged()

	r.RegisterDeferred(streaming.MethodWaitForMap, v.waitForMap, logged)
	r.Register(streaming.MethodMapUpdate, v.mapUpdate, logged)

	r.Register(streaming.MethodGetVisibleRegion, v.getVisibleRegion, guarded)
	r.Register(streaming.MethodGetScreenCoordinate, v.getScreenCoordinate, guarded)
	r.Register(streaming.MethodGetLatLng, v.getLatLng, guarded)
	r.Register(streaming.MethodTakeSnapshot, v.takeSnapshot, guarded, logged)
	r.Register(streaming.MethodGetZoomLevel, v.getZoomLevel, guarded)
	r.Register(streaming.MethodGetMinMaxZoomLevels, v.getMinMaxZoomLevels, guarded)
	r.Register(streaming.MethodSetStyle, v.setStyle, guarded, logged)

	for method, query := range featureQueries {
		r.Register(method, func(dispatcher.Event) (any, error) {
			return query(v.m.Settings()), nil
		}, guarded)
	}

	r.Register(streaming.MethodCameraMove, v.moveCamera(false), guarded, logged)
	r.Register(streaming.MethodCameraAnimate, v.moveCamera(true), guarded, logged)

	r.Register(streaming.MethodMarkersUpdate, batchHandler(v.markers, "markers", "marker"), guarded, logged)
	r.Register(streaming.MethodPolygonsUpdate, batchHandler(v.polygons, "polygons", "polygon"), guarded, logged)
	r.Register(streaming.MethodPolylinesUpdate, batchHandler(v.polylines, "polylines", "polyline"), guarded, logged)
	r.Register(streaming.MethodCirclesUpdate, batchHandler(v.circles, "circles", "circle"), guarded, logged)
	r.Register(streaming.MethodTileOverlaysUpdate, batchHandler(v.tiles, "tileOverlays", "tileOverlay"), guarded, logged)

	r.Register(streaming.MethodMarkersShowInfoWindow, v.markerQuery(func(id string) (any, error) {
		return nil, v.markers.ShowInfoWindow(id)
	}), guarded)
	r.Register(streaming.MethodMarkersHideInfoWindow, v.markerQuery(func(id string) (any, error) {
		return nil, v.markers.HideInfoWindow(id)
	}), guarded)
	r.Register(streaming.MethodMarkersIsInfoWindowShown, v.markerQuery(func(id string) (any, error) {
		return v.markers.IsInfoWindowShown(id)
	}), guarded)

	r.Register(streaming.MethodTileOverlaysClearCache, v.tileQuery(func(id string) any {
		v.tiles.ClearTileCache(id)
		return nil
	}), guarded)
	r.Register(streaming.MethodGetTileOverlayInfo, v.tileQuery(func(id string) any {
		if info := v.tiles.Info(id); info != nil {
			return info
		}
		return nil
	}), guarded)
}

// waitForMap parks the reply until the map is ready. Every parked waiter
// is released in arrival order.
func (v *View) waitForMap(_ dispatcher.Event, reply dispatcher.Reply) {
	if v.m != nil {
		reply(nil, nil)
		return
	}
	if !v.waiters.Push(reply) {
		reply(nil, fmt.Errorf("%s: %w", streaming.MethodWaitForMap, streaming.ErrDisposed))
	}
}

// mapUpdate applies options, or retains them until ready. It replies with
// the camera position when tracking is on.
func (v *View) mapUpdate(e dispatcher.Event) (any, error) {
	args, err := argsMap(e)
	if err != nil {
		return nil, err
	}
	raw, ok := args["options"]
	if !ok || raw == nil {
		return nil, fmt.Errorf("%s: missing options: %w", e.Command, streaming.ErrInvalidArgument)
	}
	payload, err := convert.ToMap(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.Command, err)
	}

	if v.m != nil {
		v.opts.settings = v.m.Settings()
	}
	if err := v.opts.interpret(payload); err != nil {
		return nil, fmt.Errorf("%s: %w", e.Command, err)
	}
	if v.m == nil {
		v.forwarder.SetTrackCameraPosition(v.opts.track)
		return nil, nil
	}
	v.applyOptions()
	if !v.opts.track {
		return nil, nil
	}
	return convert.CameraPositionToJSON(v.m.CameraPosition()), nil
}

func (v *View) getVisibleRegion(dispatcher.Event) (any, error) {
	b, err := v.m.VisibleRegion()
	if err != nil {
		return nil, err
	}
	return convert.LatLngBoundsToJSON(b), nil
}

func (v *View) getScreenCoordinate(e dispatcher.Event) (any, error) {
	p, err := convert.ToLatLng(e.Args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.Command, err)
	}
	pt, err := v.m.ToScreenLocation(p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.Command, err)
	}
	return convert.PointToJSON(pt), nil
}

func (v *View) getLatLng(e dispatcher.Event) (any, error) {
	pt, err := convert.ToScreenCoordinate(e.Args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.Command, err)
	}
	p, err := v.m.FromScreenLocation(pt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.Command, err)
	}
	return convert.LatLngToJSON(p), nil
}

func (v *View) takeSnapshot(dispatcher.Event) (any, error) {
	return v.m.Snapshot()
}

func (v *View) getZoomLevel(dispatcher.Event) (any, error) {
	return v.m.CameraPosition().Zoom, nil
}

func (v *View) getMinMaxZoomLevels(dispatcher.Event) (any, error) {
	lo, hi := v.m.MinMaxZoom()
	return []any{lo, hi}, nil
}

// setStyle never fails the command for a bad document; the client gets
// [false, reason] instead.
func (v *View) setStyle(e dispatcher.Event) (any, error) {
	style := ""
	if e.Args != nil {
		s, err := convert.ToString(e.Args)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Command, err)
		}
		style = s
	}
	if err := v.m.SetStyle(style); err != nil {
		return []any{false, err.Error()}, nil
	}
	return []any{true}, nil
}

func (v *View) moveCamera(animated bool) dispatcher.HandlerFunc {
	return func(e dispatcher.Event) (any, error) {
		args, err := argsMap(e)
		if err != nil {
			return nil, err
		}
		u, err := convert.ToCameraUpdate(args["cameraUpdate"], v.params.Density)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Command, err)
		}
		u.Animated = animated
		if err := v.m.MoveCamera(u); err != nil {
			return nil, fmt.Errorf("%s: %w", e.Command, err)
		}
		return nil, nil
	}
}

// batchHandler decodes {<plural>ToAdd, <plural>ToChange, <singular>IdsToRemove}.
func batchHandler(c controller, plural, singular string) dispatcher.HandlerFunc {
	return func(e dispatcher.Event) (any, error) {
		args, err := argsMap(e)
		if err != nil {
			return nil, err
		}
		var b overlay.Batch
		if b.ToAdd, err = convert.ToMapList(args[plural+"ToAdd"]); err != nil {
			return nil, fmt.Errorf("%s: %sToAdd: %w", e.Command, plural, err)
		}
		if b.ToChange, err = convert.ToMapList(args[plural+"ToChange"]); err != nil {
			return nil, fmt.Errorf("%s: %sToChange: %w", e.Command, plural, err)
		}
		if b.ToRemove, err = convert.ToStringList(args[singular+"IdsToRemove"]); err != nil {
			return nil, fmt.Errorf("%s: %sIdsToRemove: %w", e.Command, singular, err)
		}
		if err := c.Update(b); err != nil {
			return nil, fmt.Errorf("%s: %w", e.Command, err)
		}
		return nil, nil
	}
}

func (v *View) markerQuery(fn func(id string) (any, error)) dispatcher.HandlerFunc {
	return func(e dispatcher.Event) (any, error) {
		id, err := stringArg(e, v.markers.IDKey())
		if err != nil {
			return nil, err
		}
		res, err := fn(id)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Command, err)
		}
		return res, nil
	}
}

func (v *View) tileQuery(fn func(id string) any) dispatcher.HandlerFunc {
	return func(e dispatcher.Event) (any, error) {
		id, err := stringArg(e, v.tiles.IDKey())
		if err != nil {
			return nil, err
		}
		return fn(id), nil
	}
}

func argsMap(e dispatcher.Event) (map[string]any, error) {
	m, err := convert.ToMap(e.Args)
	if err != nil {
		return nil, fmt.Errorf("%s: arguments: %w", e.Command, err)
	}
	return m, nil
}

func stringArg(e dispatcher.Event, key string) (string, error) {
	args, err := argsMap(e)
	if err != nil {
		return "", err
	}
	raw, ok := args[key]
	if !ok || raw == nil {
		return "", fmt.Errorf("%s: missing %s: %w", e.Command, key, streaming.ErrInvalidArgument)
	}
	s, err := convert.ToString(raw)
	if err != nil {
		return "", fmt.Errorf("%s: %s: %w", e.Command, key, err)
	}
	return s, nil
}
