package mapview

import (
	"fmt"

	"github.com/mapbridge/mapbridge/internal/convert"
	"github.com/mapbridge/mapbridge/internal/overlay"
	"github.com/mapbridge/mapbridge/internal/surface"
	"github.com/mapbridge/mapbridge/pkg/core"
)

// Params are the creation parameters of one map view.
type Params struct {
	ID              string
	Density         float64
	DuplicatePolicy overlay.DuplicatePolicy

	// Options holds map#update style options applied at ready.
	Options       map[string]any
	InitialCamera *core.CameraPosition

	InitialMarkers      []map[string]any
	InitialPolygons     []map[string]any
	InitialPolylines    []map[string]any
	InitialCircles      []map[string]any
	InitialTileOverlays []map[string]any

	// Location feeds the my-location layer. The view owns it.
	Location surface.LocationSource
}

// ParseCreationParams decodes the creation payload a client sends when it
// opens a view. Missing keys leave the zero value.
func ParseCreationParams(v any) (Params, error) {
	var p Params
	if v == nil {
		return p, nil
	}
	m, err := convert.ToMap(v)
	if err != nil {
		return p, fmt.Errorf("creation params: %w", err)
	}

	if raw, ok := m["options"]; ok && raw != nil {
		if p.Options, err = convert.ToMap(raw); err != nil {
			return p, fmt.Errorf("options: %w", err)
		}
	}
	if raw, ok := m["initialCameraPosition"]; ok && raw != nil {
		cam, err := convert.ToCameraPosition(raw)
		if err != nil {
			return p, fmt.Errorf("initialCameraPosition: %w", err)
		}
		p.InitialCamera = &cam
	}

	lists := []struct {
		key string
		dst *[]map[string]any
	}{
		{"initialMarkers", &p.InitialMarkers},
		{"initialPolygons", &p.InitialPolygons},
		{"initialPolylines", &p.InitialPolylines},
		{"initialCircles", &p.InitialCircles},
		{"initialTileOverlays", &p.InitialTileOverlays},
	}
	for _, l := range lists {
		if *l.dst, err = convert.ToMapList(m[l.key]); err != nil {
			return p, fmt.Errorf("%s: %w", l.key, err)
		}
	}
	return p, nil
}
