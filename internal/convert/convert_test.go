package convert

import (
	"testing"

	"github.com/mapbridge/mapbridge/pkg/core"
	"github.com/mapbridge/mapbridge/pkg/streaming"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToLatLng(t *testing.T) {
	p, err := ToLatLng([]any{37.5, 127.0})
	require.NoError(t, err)
	assert.Equal(t, core.LatLng{Latitude: 37.5, Longitude: 127.0}, p)

	_, err = ToLatLng([]any{37.5})
	assert.ErrorIs(t, err, streaming.ErrInvalidArgument)

	_, err = ToLatLng("37.5,127")
	assert.ErrorIs(t, err, streaming.ErrInvalidArgument)

	_, err = ToLatLng([]any{"north", 1.0})
	assert.ErrorIs(t, err, streaming.ErrInvalidArgument)
}

func TestToLatLngList(t *testing.T) {
	pts, err := ToLatLngList([]any{[]any{0.0, 0.0}, []any{1.0, 2.0}})
	require.NoError(t, err)
	assert.Len(t, pts, 2)
	assert.Equal(t, 2.0, pts[1].Longitude)

	_, err = ToLatLngList([]any{[]any{0.0, 0.0}, 4.0})
	assert.ErrorIs(t, err, streaming.ErrInvalidArgument)
}

func TestToHoles(t *testing.T) {
	holes, err := ToHoles([]any{[]any{[]any{0.0, 0.0}, []any{0.0, 1.0}, []any{1.0, 1.0}}})
	require.NoError(t, err)
	require.Len(t, holes, 1)
	assert.Len(t, holes[0], 3)
}

func TestToBool(t *testing.T) {
	b, err := ToBool(true)
	require.NoError(t, err)
	assert.True(t, b)

	b, err = ToBool("false")
	require.NoError(t, err)
	assert.False(t, b)

	_, err = ToBool(nil)
	assert.ErrorIs(t, err, streaming.ErrInvalidArgument)

	_, err = ToBool([]any{true})
	assert.ErrorIs(t, err, streaming.ErrInvalidArgument)
}

func TestToColor(t *testing.T) {
	c, err := ToColor(float64(0xFF00FF00))
	require.NoError(t, err)
	assert.Equal(t, core.Color(0xFF00FF00), c)
	assert.Equal(t, uint8(0xFF), c.Alpha())

	_, err = ToColor(nil)
	assert.ErrorIs(t, err, streaming.ErrInvalidArgument)
}

func TestToMap_RejectsScalars(t *testing.T) {
	_, err := ToMap(3.0)
	assert.ErrorIs(t, err, streaming.ErrInvalidArgument)
	_, err = ToMap(`{"a":1}`)
	assert.ErrorIs(t, err, streaming.ErrInvalidArgument)

	m, err := ToMap(map[string]any{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, 1, m["a"])
}

func TestToMapList_Nil(t *testing.T) {
	l, err := ToMapList(nil)
	require.NoError(t, err)
	assert.Empty(t, l)
}

func TestLatLngToJSON(t *testing.T) {
	assert.Equal(t, []any{1.5, -2.5}, LatLngToJSON(core.LatLng{Latitude: 1.5, Longitude: -2.5}))
}

func TestLatLngBoundsToJSON(t *testing.T) {
	got := LatLngBoundsToJSON(core.LatLngBounds{
		Southwest: core.LatLng{Latitude: 1, Longitude: 2},
		Northeast: core.LatLng{Latitude: 3, Longitude: 4},
	})
	assert.Equal(t, []any{1.0, 2.0}, got["southwest"])
	assert.Equal(t, []any{3.0, 4.0}, got["northeast"])
}

func TestToScreenCoordinate(t *testing.T) {
	p, err := ToScreenCoordinate(map[string]any{"x": 10.0, "y": 20.0})
	require.NoError(t, err)
	assert.Equal(t, core.Point{X: 10, Y: 20}, p)
	assert.Equal(t, map[string]any{"x": 10, "y": 20}, PointToJSON(p))
}
