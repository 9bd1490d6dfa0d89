package mapview

import (
	"testing"

	"github.com/mapbridge/mapbridge/internal/surface"
	"github.com/mapbridge/mapbridge/pkg/core"
	"github.com/mapbridge/mapbridge/pkg/streaming"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapOptions_Interpret(t *testing.T) {
	o := mapOptions{settings: surface.DefaultSettings(), density: 2}

	err := o.interpret(map[string]any{
		"cameraTargetBounds":  []any{[]any{[]any{37.0, 126.0}, []any{38.0, 128.0}}},
		"mapType":             2.0,
		"padding":             []any{1.0, 2.0, 3.0, 4.0},
		"trackCameraPosition": true,
		"unknownOption":       "ignored",
	})
	require.NoError(t, err)

	require.NotNil(t, o.settings.CameraTargetBounds)
	assert.Equal(t, core.LatLng{Latitude: 38, Longitude: 128}, o.settings.CameraTargetBounds.Northeast)
	assert.Equal(t, core.MapTypeSatellite, o.settings.MapType)
	assert.Equal(t, core.Padding{Top: 2, Left: 4, Bottom: 6, Right: 8}, o.settings.Padding)
	assert.True(t, o.track)
}

func TestMapOptions_ClearTargetBounds(t *testing.T) {
	b := core.LatLngBounds{}
	o := mapOptions{settings: surface.Settings{CameraTargetBounds: &b}, density: 1}

	require.NoError(t, o.interpret(map[string]any{"cameraTargetBounds": []any{nil}}))
	assert.Nil(t, o.settings.CameraTargetBounds)
}

func TestMapOptions_UnknownMapTypeIsNone(t *testing.T) {
	o := mapOptions{density: 1}
	require.NoError(t, o.interpret(map[string]any{"mapType": 42}))
	assert.Equal(t, core.MapTypeNone, o.settings.MapType)
}

func TestMapOptions_ErrorLeavesOptionsUntouched(t *testing.T) {
	o := mapOptions{settings: surface.DefaultSettings(), density: 1}

	err := o.interpret(map[string]any{
		"compassEnabled": false,
		"padding":        []any{1.0, 2.0},
	})

	assert.ErrorIs(t, err, streaming.ErrInvalidArgument)
	assert.True(t, o.settings.CompassEnabled)
}

func TestParseCreationParams(t *testing.T) {
	p, err := ParseCreationParams(map[string]any{
		"initialCameraPosition": map[string]any{"target": []any{37.5, 127.0}, "zoom": 12.0},
		"initialPolylines":      []any{map[string]any{"polylineId": "l1"}},
	})
	require.NoError(t, err)
	require.NotNil(t, p.InitialCamera)
	assert.Equal(t, 12.0, p.InitialCamera.Zoom)
	assert.Len(t, p.InitialPolylines, 1)
	assert.Nil(t, p.InitialMarkers)

	_, err = ParseCreationParams(map[string]any{"initialMarkers": "oops"})
	assert.ErrorIs(t, err, streaming.ErrInvalidArgument)
}
