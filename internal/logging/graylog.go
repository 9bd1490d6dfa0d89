package logging

import (
	"fmt"
	"log/slog"

	"github.com/Graylog2/go-gelf/gelf"
)

// graylogFacility tags every GELF message sent by the process.
const graylogFacility = "mapbridge"

// OpenGraylog dials a GELF writer for the UDP address host:port. Pass it
// to Setup as a remote sink; each record becomes one GELF message.
func OpenGraylog(address string) (*gelf.Writer, error) {
	w, err := gelf.NewWriter(address)
	if err != nil {
		return nil, fmt.Errorf("graylog %s: %w", address, err)
	}
	w.Facility = graylogFacility
	return w, nil
}

// dropTime removes the record time. GELF stamps its own.
func dropTime(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.TimeKey {
		return slog.Attr{}
	}
	return a
}
