package dispatcher

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/mapbridge/mapbridge/pkg/streaming"
)

// testLogger implements Logger for testing
type testLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *testLogger) Debug(msg string, keysAndValues ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, fmt.Sprintf("DEBUG: %s %v", msg, keysAndValues))
}

func (l *testLogger) Info(msg string, keysAndValues ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, fmt.Sprintf("INFO: %s %v", msg, keysAndValues))
}

func (l *testLogger) Error(msg string, keysAndValues ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, fmt.Sprintf("ERROR: %s %v", msg, keysAndValues))
}

func newTestDispatcher(t *testing.T) (*Dispatcher, *testLogger) {
	logger := &testLogger{}

	d, err := New(logger)
	if err != nil {
		t.Fatalf("failed to create dispatcher: %v", err)
	}

	return d, logger
}

// call dispatches e and returns the reply, failing if none arrives synchronously.
func call(t *testing.T, d *Dispatcher, e Event) (any, error) {
	t.Helper()
	var (
		result  any
		err     error
		replied bool
	)
	d.Dispatch(e, func(r any, rerr error) {
		result, err, replied = r, rerr, true
	})
	if !replied {
		t.Fatalf("no reply for %s", e.Command)
	}
	return result, err
}

func TestDispatcher_SyncHandler(t *testing.T) {
	d, _ := newTestDispatcher(t)

	called := false
	d.Register("map#getZoomLevel", func(e Event) (any, error) {
		called = true
		return 12.0, nil
	})

	result, err := call(t, d, Event{Command: "map#getZoomLevel"})

	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !called {
		t.Error("handler was not called")
	}
	if result != 12.0 {
		t.Errorf("expected 12, got %v", result)
	}
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	d, _ := newTestDispatcher(t)

	_, err := call(t, d, Event{Command: "map#fly"})

	if !errors.Is(err, streaming.ErrNotImplemented) {
		t.Errorf("expected ErrNotImplemented, got %v", err)
	}
}

func TestDispatcher_DeferredReply(t *testing.T) {
	d, _ := newTestDispatcher(t)

	var parked []Reply
	d.RegisterDeferred("map#waitForMap", func(e Event, reply Reply) {
		parked = append(parked, reply)
	})

	replies := 0
	d.Dispatch(Event{Command: "map#waitForMap"}, func(any, error) { replies++ })

	if replies != 0 {
		t.Fatal("deferred handler replied early")
	}
	if d.Pending() != 1 {
		t.Errorf("expected 1 pending, got %d", d.Pending())
	}

	parked[0](nil, nil)
	parked[0](nil, errors.New("late"))

	if replies != 1 {
		t.Errorf("expected exactly one reply, got %d", replies)
	}
	if d.Pending() != 0 {
		t.Errorf("expected 0 pending, got %d", d.Pending())
	}
}

func TestDispatcher_Guarded(t *testing.T) {
	d, _ := newTestDispatcher(t)

	ready := false
	called := false
	d.Register("camera#move", func(e Event) (any, error) {
		called = true
		return nil, nil
	}, Guarded(func() error {
		if !ready {
			return streaming.ErrMapUninitialized
		}
		return nil
	}))

	_, err := call(t, d, Event{Command: "camera#move"})
	if !errors.Is(err, streaming.ErrMapUninitialized) {
		t.Errorf("expected ErrMapUninitialized, got %v", err)
	}
	if called {
		t.Error("handler ran before the guard passed")
	}

	ready = true
	if _, err := call(t, d, Event{Command: "camera#move"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !called {
		t.Error("handler was not called")
	}
}

func TestDispatcher_Close(t *testing.T) {
	d, _ := newTestDispatcher(t)
	d.Register("map#getZoomLevel", func(e Event) (any, error) { return 1.0, nil })

	d.Close()

	_, err := call(t, d, Event{Command: "map#getZoomLevel"})
	if !errors.Is(err, streaming.ErrDisposed) {
		t.Errorf("expected ErrDisposed, got %v", err)
	}
	_, err = call(t, d, Event{Command: "nope"})
	if !errors.Is(err, streaming.ErrDisposed) {
		t.Errorf("expected ErrDisposed for unknown command after close, got %v", err)
	}
	if !d.Closed() {
		t.Error("expected Closed to report true")
	}
}

func TestDispatcher_LoggedHandler(t *testing.T) {
	d, logger := newTestDispatcher(t)

	d.Register("markers#update", func(e Event) (any, error) {
		return nil, nil
	}, Logged())

	if _, err := call(t, d, Event{Command: "markers#update"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if len(logger.messages) != 2 {
		t.Fatalf("expected 2 log messages, got %d: %v", len(logger.messages), logger.messages)
	}
	if !strings.HasPrefix(logger.messages[0], "DEBUG: handling command") {
		t.Errorf("unexpected first message: %s", logger.messages[0])
	}
	if !strings.HasPrefix(logger.messages[1], "DEBUG: command complete") {
		t.Errorf("unexpected second message: %s", logger.messages[1])
	}
}

func TestDispatcher_LoggedHandlerError(t *testing.T) {
	d, logger := newTestDispatcher(t)

	d.Register("markers#showInfoWindow", func(e Event) (any, error) {
		return nil, streaming.ErrInvalidID
	}, Logged())

	_, err := call(t, d, Event{Command: "markers#showInfoWindow"})
	if !errors.Is(err, streaming.ErrInvalidID) {
		t.Errorf("expected ErrInvalidID, got %v", err)
	}

	found := false
	for _, msg := range logger.messages {
		if strings.HasPrefix(msg, "ERROR: command failed") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an error log, got %v", logger.messages)
	}
}

func TestDispatcher_OnComplete(t *testing.T) {
	d, _ := newTestDispatcher(t)
	d.Register("map#getZoomLevel", func(e Event) (any, error) { return 3.0, nil })

	var seen []Completion
	d.OnComplete(func(c Completion) { seen = append(seen, c) })

	_, _ = call(t, d, Event{Command: "map#getZoomLevel", Args: map[string]any{"x": 1}})
	_, _ = call(t, d, Event{Command: "map#unknown"})

	if len(seen) != 2 {
		t.Fatalf("expected 2 completions, got %d", len(seen))
	}
	if seen[0].Result != 3.0 || seen[0].Err != nil {
		t.Errorf("unexpected first completion: %+v", seen[0])
	}
	if seen[0].Event.Timestamp.IsZero() {
		t.Error("expected dispatch to stamp the event")
	}
	if !errors.Is(seen[1].Err, streaming.ErrNotImplemented) {
		t.Errorf("unexpected second completion: %+v", seen[1])
	}
}

func TestDispatcher_HasHandler(t *testing.T) {
	d, _ := newTestDispatcher(t)

	d.Register("map#update", func(e Event) (any, error) { return nil, nil })

	if !d.HasHandler("map#update") {
		t.Error("expected handler to be registered")
	}
	if d.HasHandler("map#other") {
		t.Error("expected no handler for map#other")
	}
}
