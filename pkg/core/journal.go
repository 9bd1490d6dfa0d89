package core

import "time"

// CommandRecord is one dispatched command as stored in the journal.
type CommandRecord struct {
	ID        uint
	ViewID    string
	Command   string
	Arguments any
	Outcome   string // "ok" or an error code
	Message   string
	Duration  time.Duration
	Time      time.Time
}

// EventRecord is one outbound event as stored in the journal.
type EventRecord struct {
	ID        uint
	ViewID    string
	Method    string
	Arguments any
	Time      time.Time
}

// Session is one map view lifetime.
type Session struct {
	ID        uint
	ViewID    string
	Remote    string
	StartedAt time.Time
	EndedAt   time.Time
}
