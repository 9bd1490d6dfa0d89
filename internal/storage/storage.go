// Package storage defines the journal that records what each map view did.
package storage

import "github.com/mapbridge/mapbridge/pkg/core"

// Backend is the interface all journal implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Session management (assigns ID to the passed pointer)
	StartSession(s *core.Session) error
	EndSession(s *core.Session) error

	// Recording
	RecordCommand(rec core.CommandRecord) error
	RecordEvent(rec core.EventRecord) error
}

// Exportable is an optional interface for backends that write journal
// files to disk.
type Exportable interface {
	ExportedFiles() []string
}

// Nop discards everything. It backs storage type "none".
type Nop struct{}

func (Nop) Init() error                            { return nil }
func (Nop) Close() error                           { return nil }
func (Nop) StartSession(*core.Session) error       { return nil }
func (Nop) EndSession(*core.Session) error         { return nil }
func (Nop) RecordCommand(core.CommandRecord) error { return nil }
func (Nop) RecordEvent(core.EventRecord) error     { return nil }
