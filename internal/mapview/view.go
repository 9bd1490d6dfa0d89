// Package mapview binds one native map to its overlay controllers, its
// event forwarder and the command routing table. A View is driven from a
// single goroutine; see internal/loop.
package mapview

import (
	"fmt"
	"time"

	"github.com/mapbridge/mapbridge/internal/dispatcher"
	"github.com/mapbridge/mapbridge/internal/events"
	"github.com/mapbridge/mapbridge/internal/overlay"
	"github.com/mapbridge/mapbridge/internal/queue"
	"github.com/mapbridge/mapbridge/internal/surface"
	"github.com/mapbridge/mapbridge/pkg/core"
	"github.com/mapbridge/mapbridge/pkg/streaming"
	"go.opentelemetry.io/otel/metric"
)

// Journal records what a view did. Failures are logged and otherwise
// ignored.
type Journal interface {
	RecordCommand(rec core.CommandRecord) error
	RecordEvent(rec core.EventRecord) error
}

type controller interface {
	Attach(m surface.Map)
	Clear()
	Update(b overlay.Batch) error
	AddAll(payloads []map[string]any) error
	Kind() string
	Len() int
	NativeID(clientID string) (string, error)
}

// Option configures a View.
type Option func(*View)

// WithLogger sets the logger shared by the view and its router.
func WithLogger(l dispatcher.Logger) Option {
	return func(v *View) { v.logger = l }
}

// WithJournal records every command and event to j.
func WithJournal(j Journal) Option {
	return func(v *View) { v.journal = j }
}

// View is one logical map view.
type View struct {
	id      string
	params  Params
	logger  dispatcher.Logger
	journal Journal

	m        surface.Map
	disposed bool
	opts     mapOptions
	waiters  *queue.Queue[dispatcher.Reply]

	router    *dispatcher.Dispatcher
	forwarder *events.Forwarder
	markers   *overlay.Markers
	polygons  *overlay.Polygons
	polylines *overlay.Polylines
	circles   *overlay.Circles
	tiles     *overlay.TileOverlays
	live      metric.Registration
}

// New creates a view and asks host for its map. Commands can be
// dispatched immediately; those needing the map fail with
// ErrMapUninitialized until it is ready.
func New(host surface.Host, emit events.Emitter, p Params, opts ...Option) (*View, error) {
	if p.Density <= 0 {
		p.Density = 1
	}
	v := &View{
		id:      p.ID,
		params:  p,
		logger:  nopLogger{},
		waiters: queue.New[dispatcher.Reply](),
		opts: mapOptions{
			settings: surface.DefaultSettings(),
			density:  p.Density,
		},
	}
	for _, opt := range opts {
		opt(v)
	}

	if err := v.opts.interpret(p.Options); err != nil {
		return nil, fmt.Errorf("view %s: %w", p.ID, err)
	}

	v.markers = overlay.NewMarkers(p.Density, p.DuplicatePolicy)
	v.polygons = overlay.NewPolygons(p.Density, p.DuplicatePolicy)
	v.polylines = overlay.NewPolylines(p.Density, p.DuplicatePolicy)
	v.circles = overlay.NewCircles(p.Density, p.DuplicatePolicy)
	v.tiles = overlay.NewTileOverlays(p.DuplicatePolicy)

	v.forwarder = events.New(events.EmitterFunc(func(method string, args map[string]any) {
		emit.Emit(method, args)
		v.recordEvent(method, args)
	}), events.Config{
		MapID:     p.ID,
		Markers:   v.markers,
		Polygons:  v.polygons,
		Polylines: v.polylines,
		Circles:   v.circles,
	})
	v.forwarder.SetTrackCameraPosition(v.opts.track)

	router, err := dispatcher.New(v.logger)
	if err != nil {
		return nil, fmt.Errorf("view %s: %w", p.ID, err)
	}
	v.router = router
	v.router.OnComplete(v.recordCommand)
	v.registerHandlers()

	v.live, err = overlay.ObserveLive(p.ID, v.markers, v.polygons, v.polylines, v.circles, v.tiles)
	if err != nil {
		v.logger.Error("overlay gauge unavailable", "view", p.ID, "error", err)
	}

	host.GetMapAsync(v.onMapReady)
	return v, nil
}

// ID returns the view's identifier.
func (v *View) ID() string { return v.id }

// Ready reports whether the native map has loaded.
func (v *View) Ready() bool { return v.m != nil }

// Disposed reports whether Dispose has run.
func (v *View) Disposed() bool { return v.disposed }

// LiveOverlays returns the number of live overlays across all kinds.
func (v *View) LiveOverlays() int {
	n := 0
	for _, c := range v.controllers() {
		n += c.Len()
	}
	return n
}

// NativeID resolves the client id of an overlay of kind ("marker",
// "polygon", "polyline", "circle" or "tileOverlay") to its engine id.
func (v *View) NativeID(kind, clientID string) (string, error) {
	for _, c := range v.controllers() {
		if c.Kind() == kind {
			return c.NativeID(clientID)
		}
	}
	return "", fmt.Errorf("unknown overlay kind %q: %w", kind, streaming.ErrInvalidArgument)
}

// Dispatch routes one command. reply is called exactly once.
func (v *View) Dispatch(method string, args any, reply dispatcher.Reply) {
	v.router.Dispatch(dispatcher.Event{Command: method, Args: args}, reply)
}

// Dispose tears the view down. Parked waiters and every later command
// fail with ErrDisposed.
func (v *View) Dispose() {
	if v.disposed {
		return
	}
	v.disposed = true
	v.router.Close()

	for _, reply := range v.waiters.Seal() {
		reply(nil, fmt.Errorf("%s: %w", streaming.MethodWaitForMap, streaming.ErrDisposed))
	}

	v.forwarder.Detach()
	for _, c := range v.controllers() {
		c.Clear()
	}
	if v.m != nil {
		v.m.SetLocationSource(nil)
		v.m = nil
	}
	if v.live != nil {
		if err := v.live.Unregister(); err != nil {
			v.logger.Error("unregistering overlay gauge", "view", v.id, "error", err)
		}
	}
	v.logger.Info("view disposed", "view", v.id)
}

func (v *View) controllers() []controller {
	return []controller{v.markers, v.polygons, v.polylines, v.circles, v.tiles}
}

func (v *View) onMapReady(m surface.Map) {
	if v.disposed {
		return
	}
	v.m = m
	for _, c := range v.controllers() {
		c.Attach(m)
	}
	v.forwarder.Attach(m)
	if v.params.Location != nil {
		m.SetLocationSource(v.params.Location)
	}
	v.applyOptions()

	initial := []struct {
		c        controller
		payloads []map[string]any
	}{
		{v.markers, v.params.InitialMarkers},
		{v.polygons, v.params.InitialPolygons},
		{v.polylines, v.params.InitialPolylines},
		{v.circles, v.params.InitialCircles},
		{v.tiles, v.params.InitialTileOverlays},
	}
	for _, in := range initial {
		if err := in.c.AddAll(in.payloads); err != nil {
			v.logger.Error("initial overlays rejected", "view", v.id, "kind", in.c.Kind(), "error", err)
		}
	}

	waiters := v.waiters.Drain()
	v.logger.Info("map ready", "view", v.id, "waiters", len(waiters), "overlays", v.LiveOverlays())
	for _, reply := range waiters {
		reply(nil, nil)
	}
}

func (v *View) applyOptions() {
	v.m.ApplySettings(v.opts.settings)
	v.forwarder.SetTrackCameraPosition(v.opts.track)
}

func (v *View) requireMap() error {
	if v.m == nil {
		return streaming.ErrMapUninitialized
	}
	return nil
}

func (v *View) recordCommand(c dispatcher.Completion) {
	if v.journal == nil {
		return
	}
	rec := core.CommandRecord{
		ViewID:    v.id,
		Command:   c.Event.Command,
		Arguments: c.Event.Args,
		Outcome:   "ok",
		Duration:  c.Duration,
		Time:      c.Event.Timestamp,
	}
	if c.Err != nil {
		rec.Outcome = streaming.Code(c.Err)
		rec.Message = c.Err.Error()
	}
	if err := v.journal.RecordCommand(rec); err != nil {
		v.logger.Error("journal command failed", "view", v.id, "command", c.Event.Command, "error", err)
	}
}

func (v *View) recordEvent(method string, args map[string]any) {
	if v.journal == nil {
		return
	}
	rec := core.EventRecord{ViewID: v.id, Method: method, Arguments: args, Time: time.Now()}
	if err := v.journal.RecordEvent(rec); err != nil {
		v.logger.Error("journal event failed", "view", v.id, "method", method, "error", err)
	}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
