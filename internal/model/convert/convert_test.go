package convert

import (
	"testing"
	"time"

	"github.com/mapbridge/mapbridge/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoreToCommand(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := core.CommandRecord{
		ViewID:    "view-1",
		Command:   "markers#update",
		Arguments: map[string]any{"markerIdsToRemove": []any{"m1"}},
		Outcome:   "InvalidId",
		Message:   "invalid id: m1",
		Duration:  1500 * time.Microsecond,
		Time:      now,
	}

	c, err := CoreToCommand(rec)
	require.NoError(t, err)
	assert.Equal(t, "view-1", c.ViewID)
	assert.Equal(t, "markers#update", c.Command)
	assert.JSONEq(t, `{"markerIdsToRemove":["m1"]}`, string(c.Arguments))
	assert.Equal(t, "InvalidId", c.Outcome)
	assert.Equal(t, int64(1500), c.DurationMicros)
	assert.Equal(t, now, c.Time)

	back := CommandToCore(c)
	assert.Equal(t, rec.Duration, back.Duration)
	assert.Equal(t, map[string]any{"markerIdsToRemove": []any{"m1"}}, back.Arguments)
}

func TestCoreToCommand_NilArguments(t *testing.T) {
	c, err := CoreToCommand(core.CommandRecord{Command: "map#waitForMap"})
	require.NoError(t, err)
	assert.Equal(t, "null", string(c.Arguments))
	assert.Nil(t, CommandToCore(c).Arguments)
}

func TestCoreToCommand_Unmarshalable(t *testing.T) {
	_, err := CoreToCommand(core.CommandRecord{Arguments: map[string]any{"f": func() {}}})
	assert.Error(t, err)
}

func TestCoreToEvent_Position(t *testing.T) {
	tests := []struct {
		name    string
		args    any
		wantPos bool
		lng     float64
		lat     float64
	}{
		{"tap", map[string]any{"position": []any{37.5, 127.0}}, true, 127.0, 37.5},
		{
			"camera",
			map[string]any{"position": map[string]any{"target": []any{10.0, 20.0}, "zoom": 3.0}},
			true, 20.0, 10.0,
		},
		{"marker tap", map[string]any{"markerId": "m1"}, false, 0, 0},
		{"no args", nil, false, 0, 0},
		{"bad position", map[string]any{"position": "here"}, false, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := CoreToEvent(core.EventRecord{ViewID: "v", Method: "map#onTap", Arguments: tt.args})
			require.NoError(t, err)
			assert.Equal(t, tt.wantPos, e.HasPosition)
			if tt.wantPos {
				coords, ok := e.Position.Coordinates()
				require.True(t, ok)
				assert.Equal(t, tt.lng, coords.XY.X)
				assert.Equal(t, tt.lat, coords.XY.Y)
			}
		})
	}
}

func TestEventToCore(t *testing.T) {
	e, err := CoreToEvent(core.EventRecord{ViewID: "v", Method: "marker#onTap", Arguments: map[string]any{"markerId": "m1"}})
	require.NoError(t, err)

	back := EventToCore(e)
	assert.Equal(t, "v", back.ViewID)
	assert.Equal(t, "marker#onTap", back.Method)
	assert.Equal(t, map[string]any{"markerId": "m1"}, back.Arguments)
}

func TestSessionRoundTrip(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	open := CoreToSession(core.Session{ViewID: "v", Remote: "127.0.0.1:5000", StartedAt: start})
	assert.False(t, open.EndedAt.Valid)

	closed := CoreToSession(core.Session{ViewID: "v", StartedAt: start, EndedAt: start.Add(time.Minute)})
	assert.True(t, closed.EndedAt.Valid)
	assert.Equal(t, start.Add(time.Minute), SessionToCore(closed).EndedAt)
	assert.Equal(t, "127.0.0.1:5000", SessionToCore(open).Remote)
}
