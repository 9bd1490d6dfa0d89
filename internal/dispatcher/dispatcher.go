package dispatcher

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mapbridge/mapbridge/pkg/streaming"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/mapbridge/mapbridge/internal/dispatcher"

// Event represents an incoming command from the client.
type Event struct {
	Command   string
	Args      any
	Timestamp time.Time
}

// Reply completes a command. The dispatcher guarantees it reaches the
// caller exactly once.
type Reply func(result any, err error)

// HandlerFunc processes an event and returns a result.
type HandlerFunc func(Event) (any, error)

// DeferredFunc processes an event and replies whenever it is ready,
// possibly after returning.
type DeferredFunc func(Event, Reply)

// Logger interface for pluggable logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Completion describes one finished command.
type Completion struct {
	Event    Event
	Result   any
	Err      error
	Duration time.Duration
}

// Option configures handler registration.
type Option func(*config)

type config struct {
	logged bool
	guard  func() error
}

// Logged adds debug logging to the handler.
func Logged() Option {
	return func(c *config) {
		c.logged = true
	}
}

// Guarded runs guard before the handler and replies with its error
// instead of calling the handler when it fails.
func Guarded(guard func() error) Option {
	return func(c *config) {
		c.guard = guard
	}
}

// Dispatcher routes events to registered handlers. Dispatch is meant to
// be called from one goroutine; Close may be called from any.
type Dispatcher struct {
	handlers map[string]DeferredFunc
	logger   Logger
	closed   atomic.Bool
	pending  atomic.Int64

	mu         sync.RWMutex
	onComplete func(Completion)

	// OTEL metrics
	pendingGauge metric.Int64ObservableGauge
	pendingReg   metric.Registration
	processed    metric.Int64Counter
	failed       metric.Int64Counter
	unsupported  metric.Int64Counter
}

// New creates a new Dispatcher with the given logger.
// Uses the global OTel meter for metrics (no-op if not configured).
func New(logger Logger) (*Dispatcher, error) {
	d := &Dispatcher{
		handlers: make(map[string]DeferredFunc),
		logger:   logger,
	}

	m := otel.Meter(instrumentationName)

	var err error

	d.pendingGauge, err = m.Int64ObservableGauge(
		"dispatcher.commands.pending",
		metric.WithDescription("Commands waiting on a deferred reply"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pending gauge: %w", err)
	}

	d.pendingReg, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			o.ObserveInt64(d.pendingGauge, d.pending.Load())
			return nil
		},
		d.pendingGauge,
	)
	if err != nil {
		return nil, fmt.Errorf("registering pending callback: %w", err)
	}

	d.processed, err = m.Int64Counter(
		"dispatcher.commands.processed",
		metric.WithDescription("Total commands completed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating processed counter: %w", err)
	}

	d.failed, err = m.Int64Counter(
		"dispatcher.commands.failed",
		metric.WithDescription("Total commands completed with an error"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating failed counter: %w", err)
	}

	d.unsupported, err = m.Int64Counter(
		"dispatcher.commands.unsupported",
		metric.WithDescription("Total commands with no registered handler"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating unsupported counter: %w", err)
	}

	return d, nil
}

// OnComplete registers fn to observe every finished command.
func (d *Dispatcher) OnComplete(fn func(Completion)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onComplete = fn
}

// Register adds a synchronous handler for the given command.
func (d *Dispatcher) Register(command string, h HandlerFunc, opts ...Option) {
	d.RegisterDeferred(command, func(e Event, reply Reply) {
		reply(h(e))
	}, opts...)
}

// RegisterDeferred adds a handler that may reply after it returns.
func (d *Dispatcher) RegisterDeferred(command string, h DeferredFunc, opts ...Option) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	handler := h

	if cfg.guard != nil {
		handler = withGuard(cfg.guard, handler)
	}

	if cfg.logged {
		handler = d.withLogging(command, handler)
	}

	d.handlers[command] = handler
}

// Dispatch routes an event to its registered handler. reply is called
// exactly once, possibly after Dispatch returns.
func (d *Dispatcher) Dispatch(e Event, reply Reply) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	done := d.complete(e, reply)

	if d.closed.Load() {
		done(nil, fmt.Errorf("%s: %w", e.Command, streaming.ErrDisposed))
		return
	}
	h, ok := d.handlers[e.Command]
	if !ok {
		d.unsupported.Add(context.Background(), 1, metric.WithAttributes(attribute.String("command", e.Command)))
		done(nil, fmt.Errorf("unknown command: %s: %w", e.Command, streaming.ErrNotImplemented))
		return
	}
	h(e, done)
}

// HasHandler returns true if a handler is registered for the command.
func (d *Dispatcher) HasHandler(command string) bool {
	_, ok := d.handlers[command]
	return ok
}

// Close makes every later Dispatch fail with ErrDisposed and stops
// observing the pending gauge.
func (d *Dispatcher) Close() {
	if d.closed.Swap(true) {
		return
	}
	if err := d.pendingReg.Unregister(); err != nil {
		d.logger.Error("Failed to unregister pending gauge", "error", err)
	}
}

// Closed reports whether Close has been called.
func (d *Dispatcher) Closed() bool {
	return d.closed.Load()
}

// Pending returns the number of dispatched commands not yet replied to.
func (d *Dispatcher) Pending() int64 {
	return d.pending.Load()
}

func (d *Dispatcher) complete(e Event, reply Reply) Reply {
	var once sync.Once
	d.pending.Add(1)
	cmdAttr := metric.WithAttributes(attribute.String("command", e.Command))
	return func(result any, err error) {
		once.Do(func() {
			d.pending.Add(-1)
			d.processed.Add(context.Background(), 1, cmdAttr)
			if err != nil {
				d.failed.Add(context.Background(), 1, cmdAttr)
			}
			d.mu.RLock()
			observe := d.onComplete
			d.mu.RUnlock()
			if observe != nil {
				observe(Completion{Event: e, Result: result, Err: err, Duration: time.Since(e.Timestamp)})
			}
			reply(result, err)
		})
	}
}

func withGuard(guard func() error, h DeferredFunc) DeferredFunc {
	return func(e Event, reply Reply) {
		if err := guard(); err != nil {
			reply(nil, fmt.Errorf("%s: %w", e.Command, err))
			return
		}
		h(e, reply)
	}
}

func (d *Dispatcher) withLogging(command string, h DeferredFunc) DeferredFunc {
	return func(e Event, reply Reply) {
		start := time.Now()
		d.logger.Debug("handling command", "command", command)

		h(e, func(result any, err error) {
			if err != nil {
				d.logger.Error("command failed", "command", command, "duration", time.Since(start), "error", err)
			} else {
				d.logger.Debug("command complete", "command", command, "duration", time.Since(start))
			}
			reply(result, err)
		})
	}
}
