package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ExportVersion is written into every journal file.
const ExportVersion = "1"

// JournalExport is the root JSON structure
type JournalExport struct {
	Version   string        `json:"version"`
	ViewID    string        `json:"viewId"`
	Remote    string        `json:"remote,omitempty"`
	StartedAt time.Time     `json:"startedAt"`
	EndedAt   time.Time     `json:"endedAt"`
	Commands  []CommandJSON `json:"commands"`
	Events    []EventJSON   `json:"events"`
}

// CommandJSON is one command line of the journal
type CommandJSON struct {
	ID             uint      `json:"id"`
	Time           time.Time `json:"time"`
	Command        string    `json:"command"`
	Arguments      any       `json:"arguments"`
	Outcome        string    `json:"outcome"`
	Message        string    `json:"message,omitempty"`
	DurationMicros int64     `json:"durationMicros"`
}

// EventJSON is one event line of the journal
type EventJSON struct {
	ID        uint      `json:"id"`
	Time      time.Time `json:"time"`
	Method    string    `json:"method"`
	Arguments any       `json:"arguments"`
}

// fileStem makes a view id safe to use in a file name.
func fileStem(viewID string) string {
	r := strings.NewReplacer(" ", "_", ":", "_", "/", "_", "\\", "_")
	if viewID == "" {
		return "view"
	}
	return r.Replace(viewID)
}

// exportJSON writes the session journal to a (gzipped) JSON file
func (b *Backend) exportJSON(rec *SessionRecord) error {
	export := buildExport(rec)

	timestamp := rec.Session.StartedAt.UTC().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.json", fileStem(rec.Session.ViewID), timestamp)
	if b.cfg.CompressOutput {
		filename += ".gz"
	}

	outputPath := filepath.Join(b.cfg.OutputDir, filename)

	// Ensure output directory exists
	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var err error
	if b.cfg.CompressOutput {
		err = writeGzipJSON(outputPath, export)
	} else {
		err = writeJSON(outputPath, export)
	}
	if err != nil {
		return err
	}

	b.exported = append(b.exported, outputPath)
	return nil
}

func buildExport(rec *SessionRecord) JournalExport {
	export := JournalExport{
		Version:   ExportVersion,
		ViewID:    rec.Session.ViewID,
		Remote:    rec.Session.Remote,
		StartedAt: rec.Session.StartedAt,
		EndedAt:   rec.Session.EndedAt,
		Commands:  make([]CommandJSON, 0, len(rec.Commands)),
		Events:    make([]EventJSON, 0, len(rec.Events)),
	}
	for _, c := range rec.Commands {
		export.Commands = append(export.Commands, CommandJSON{
			ID:             c.ID,
			Time:           c.Time,
			Command:        c.Command,
			Arguments:      c.Arguments,
			Outcome:        c.Outcome,
			Message:        c.Message,
			DurationMicros: c.Duration.Microseconds(),
		})
	}
	for _, e := range rec.Events {
		export.Events = append(export.Events, EventJSON{
			ID:        e.ID,
			Time:      e.Time,
			Method:    e.Method,
			Arguments: e.Arguments,
		})
	}
	return export
}

func writeJSON(path string, data JournalExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	return encoder.Encode(data)
}

func writeGzipJSON(path string, data JournalExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	gzWriter := gzip.NewWriter(f)
	encoder := json.NewEncoder(gzWriter)
	if err := encoder.Encode(data); err != nil {
		gzWriter.Close()
		return fmt.Errorf("failed to encode journal: %w", err)
	}
	return gzWriter.Close()
}
