// Package convert translates between journal records and their GORM models.
package convert

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	wire "github.com/mapbridge/mapbridge/internal/convert"
	"github.com/mapbridge/mapbridge/internal/model"
	"github.com/mapbridge/mapbridge/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
)

// argumentsToJSON converts a decoded payload to datatypes.JSON. nil becomes
// JSON null.
func argumentsToJSON(v any) (datatypes.JSON, error) {
	if v == nil {
		return datatypes.JSON("null"), nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal arguments: %w", err)
	}
	return datatypes.JSON(data), nil
}

func jsonToArguments(data datatypes.JSON) any {
	if len(data) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	return v
}

// eventPosition extracts the map position an event refers to. Tap style
// events carry [lat, lng]; camera events carry a camera position whose
// target is used.
func eventPosition(args any) (geom.Point, bool) {
	m, ok := args.(map[string]any)
	if !ok {
		return geom.Point{}, false
	}
	raw, ok := m["position"]
	if !ok {
		return geom.Point{}, false
	}
	if cam, ok := raw.(map[string]any); ok {
		raw = cam["target"]
	}
	p, err := wire.ToLatLng(raw)
	if err != nil {
		return geom.Point{}, false
	}
	pt, err := geom.NewPoint(geom.Coordinates{XY: geom.XY{X: p.Longitude, Y: p.Latitude}, Type: geom.DimXY})
	if err != nil {
		return geom.Point{}, false
	}
	return pt, true
}

// CoreToCommand converts a core.CommandRecord to a GORM model.Command.
func CoreToCommand(r core.CommandRecord) (model.Command, error) {
	args, err := argumentsToJSON(r.Arguments)
	if err != nil {
		return model.Command{}, err
	}
	return model.Command{
		ID:             r.ID,
		Time:           r.Time,
		ViewID:         r.ViewID,
		Command:        r.Command,
		Arguments:      args,
		Outcome:        r.Outcome,
		Message:        r.Message,
		DurationMicros: r.Duration.Microseconds(),
	}, nil
}

// CommandToCore converts a GORM model.Command back to a core.CommandRecord.
func CommandToCore(c model.Command) core.CommandRecord {
	return core.CommandRecord{
		ID:        c.ID,
		ViewID:    c.ViewID,
		Command:   c.Command,
		Arguments: jsonToArguments(c.Arguments),
		Outcome:   c.Outcome,
		Message:   c.Message,
		Duration:  time.Duration(c.DurationMicros) * time.Microsecond,
		Time:      c.Time,
	}
}

// CoreToEvent converts a core.EventRecord to a GORM model.Event.
func CoreToEvent(r core.EventRecord) (model.Event, error) {
	args, err := argumentsToJSON(r.Arguments)
	if err != nil {
		return model.Event{}, err
	}
	pos, ok := eventPosition(r.Arguments)
	return model.Event{
		ID:          r.ID,
		Time:        r.Time,
		ViewID:      r.ViewID,
		Method:      r.Method,
		Arguments:   args,
		Position:    pos,
		HasPosition: ok,
	}, nil
}

// EventToCore converts a GORM model.Event back to a core.EventRecord.
func EventToCore(e model.Event) core.EventRecord {
	return core.EventRecord{
		ID:        e.ID,
		ViewID:    e.ViewID,
		Method:    e.Method,
		Arguments: jsonToArguments(e.Arguments),
		Time:      e.Time,
	}
}

// CoreToSession converts a core.Session to a GORM model.Session.
func CoreToSession(s core.Session) model.Session {
	out := model.Session{
		ViewID:    s.ViewID,
		Remote:    s.Remote,
		StartedAt: s.StartedAt,
	}
	out.ID = s.ID
	if !s.EndedAt.IsZero() {
		out.EndedAt = sql.NullTime{Time: s.EndedAt, Valid: true}
	}
	return out
}

// SessionToCore converts a GORM model.Session back to a core.Session.
func SessionToCore(s model.Session) core.Session {
	out := core.Session{
		ID:        s.ID,
		ViewID:    s.ViewID,
		Remote:    s.Remote,
		StartedAt: s.StartedAt,
	}
	if s.EndedAt.Valid {
		out.EndedAt = s.EndedAt.Time
	}
	return out
}
