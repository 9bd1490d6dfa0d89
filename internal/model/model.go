package model

import (
	"database/sql"
	"time"

	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []any{
	&Session{},
	&Command{},
	&Event{},
}

// Session is one map view lifetime. A view id is unique for the process
// that minted it, not across restarts.
type Session struct {
	gorm.Model
	ViewID    string       `json:"viewId" gorm:"size:64;index"`
	Remote    string       `json:"remote" gorm:"size:127"`
	StartedAt time.Time    `json:"startedAt"`
	EndedAt   sql.NullTime `json:"endedAt"`
}

func (*Session) TableName() string {
	return "sessions"
}

// Command is one dispatched client command and its outcome.
type Command struct {
	ID             uint           `json:"id" gorm:"primarykey;autoIncrement"`
	Time           time.Time      `json:"time" gorm:"index"`
	ViewID         string         `json:"viewId" gorm:"size:64;index"`
	Command        string         `json:"command" gorm:"size:64;index"`
	Arguments      datatypes.JSON `json:"arguments"`
	Outcome        string         `json:"outcome" gorm:"size:32;index"`
	Message        string         `json:"message"`
	DurationMicros int64          `json:"durationMicros"`
}

func (*Command) TableName() string {
	return "commands"
}

// Event is one outbound event. Position holds the event's map position
// (x=longitude, y=latitude) when it carries one.
type Event struct {
	ID          uint           `json:"id" gorm:"primarykey;autoIncrement"`
	Time        time.Time      `json:"time" gorm:"index"`
	ViewID      string         `json:"viewId" gorm:"size:64;index"`
	Method      string         `json:"method" gorm:"size:64;index"`
	Arguments   datatypes.JSON `json:"arguments"`
	Position    geom.Point     `json:"position"`
	HasPosition bool           `json:"hasPosition"`
}

func (*Event) TableName() string {
	return "events"
}
