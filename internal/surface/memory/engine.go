// Package memory is a headless map engine. It keeps overlays in memory,
// projects with web mercator and hit-tests simulated gestures, so a map
// view can run without a device.
//
// An Engine and its Map are not safe for concurrent use. Drive them from
// the owning view's loop.
package memory

import (
	"github.com/mapbridge/mapbridge/internal/geo"
	"github.com/mapbridge/mapbridge/internal/surface"
	"github.com/mapbridge/mapbridge/pkg/core"
)

const (
	defaultMinZoom = 0
	defaultMaxZoom = 21
	markerHitPx    = 32
	lineHitPx      = 12
	animationSteps = 4
)

// Config sets up a headless engine.
type Config struct {
	Viewport geo.Viewport
	Camera   core.CameraPosition
}

// Engine hands out its Map once Ready is called.
type Engine struct {
	cfg     Config
	m       *Map
	waiting []func(surface.Map)
}

// NewEngine creates an engine that is still loading.
func NewEngine(cfg Config) *Engine {
	if cfg.Viewport.Width <= 0 || cfg.Viewport.Height <= 0 {
		cfg.Viewport = geo.Viewport{Width: 1080, Height: 1920}
	}
	return &Engine{cfg: cfg}
}

// GetMapAsync calls ready with the map, immediately if it has loaded.
func (e *Engine) GetMapAsync(ready func(surface.Map)) {
	if e.m != nil {
		ready(e.m)
		return
	}
	e.waiting = append(e.waiting, ready)
}

// Ready finishes loading and runs every pending GetMapAsync callback.
// Later calls are no-ops.
func (e *Engine) Ready() {
	if e.m != nil {
		return
	}
	e.m = newMap(e.cfg)
	waiting := e.waiting
	e.waiting = nil
	for _, cb := range waiting {
		cb(e.m)
	}
}

// Map returns the loaded map, or nil while loading.
func (e *Engine) Map() *Map {
	return e.m
}
