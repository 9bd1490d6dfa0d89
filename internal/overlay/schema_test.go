package overlay

import (
	"testing"

	"github.com/mapbridge/mapbridge/pkg/core"
	"github.com/mapbridge/mapbridge/pkg/streaming"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema_Interpret_IgnoresUnknownKeys(t *testing.T) {
	b := &markerBuilder{opts: core.DefaultMarkerOptions()}
	err := markerSchema.Interpret(map[string]any{
		"markerId": "m1",
		"position": []any{1.0, 2.0},
		"sparkle":  true,
	}, b)
	require.NoError(t, err)
	assert.Equal(t, core.LatLng{Latitude: 1, Longitude: 2}, b.Build().Position)
}

func TestSchema_Interpret_BadShape(t *testing.T) {
	b := &markerBuilder{}
	err := markerSchema.Interpret(map[string]any{"position": "north"}, b)
	assert.ErrorIs(t, err, streaming.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "position")
}

func TestSchema_Interpret_DecodesBeforeApplying(t *testing.T) {
	b := &markerBuilder{opts: core.DefaultMarkerOptions()}
	err := markerSchema.Interpret(map[string]any{
		"alpha":      0.2,
		"infoWindow": map[string]any{"title": "Seoul", "anchor": 7.0},
	}, b)
	require.ErrorIs(t, err, streaming.ErrInvalidArgument)
	assert.Equal(t, 1.0, b.Build().Alpha)
	assert.Empty(t, b.Build().InfoWindow.Title)
}

func TestSchema_Interpret_InfoWindowPartial(t *testing.T) {
	b := &markerBuilder{opts: core.DefaultMarkerOptions()}
	require.NoError(t, markerSchema.Interpret(map[string]any{
		"infoWindow": map[string]any{"title": "Seoul"},
	}, b))
	w := b.Build().InfoWindow
	assert.Equal(t, "Seoul", w.Title)
	assert.Empty(t, w.Snippet)
	assert.Equal(t, core.Point{X: 0.5}, w.Anchor)
}

func TestMarkerBuilder_Defaults(t *testing.T) {
	opts := MarkerDescriptor.NewBuilder(1).Build()
	assert.Equal(t, 1.0, opts.Alpha)
	assert.True(t, opts.Visible)
	assert.False(t, opts.ConsumeTapEvents)
}

func TestPolylineBuilder_ScalesWidth(t *testing.T) {
	b := PolylineDescriptor.NewBuilder(3)
	require.NoError(t, polylineSchema.Interpret(map[string]any{"width": 2.0}, b.Sink()))
	assert.Equal(t, 6.0, b.Build().Width)
}

func TestCircleBuilder_ConsumeSetsClickable(t *testing.T) {
	b := CircleDescriptor.NewBuilder(1)
	require.NoError(t, circleSchema.Interpret(map[string]any{"consumeTapEvents": true}, b.Sink()))
	opts := b.Build()
	assert.True(t, opts.ConsumeTapEvents)
	assert.True(t, opts.Clickable)
}
