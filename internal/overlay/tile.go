package overlay

import (
	"github.com/mapbridge/mapbridge/internal/surface"
	"github.com/mapbridge/mapbridge/pkg/core"
)

// TileOverlaySink receives decoded tile overlay attributes.
type TileOverlaySink interface {
	SetFadeIn(fadeIn bool)
	SetTransparency(t float64)
	SetZIndex(z float64)
	SetVisible(visible bool)
	SetTileSize(px int)
}

var tileOverlaySchema = Schema[TileOverlaySink]{
	"fadeIn":       boolAttr(TileOverlaySink.SetFadeIn),
	"transparency": floatAttr(TileOverlaySink.SetTransparency),
	"zIndex":       floatAttr(TileOverlaySink.SetZIndex),
	"visible":      boolAttr(TileOverlaySink.SetVisible),
	"tileSize":     intAttr(TileOverlaySink.SetTileSize),
}

type tileOverlayBuilder struct {
	opts core.TileOverlayOptions
}

func (b *tileOverlayBuilder) Sink() TileOverlaySink          { return b }
func (b *tileOverlayBuilder) Build() core.TileOverlayOptions { return b.opts }
func (b *tileOverlayBuilder) SetFadeIn(f bool)               { b.opts.FadeIn = f }
func (b *tileOverlayBuilder) SetTransparency(t float64)      { b.opts.Transparency = t }
func (b *tileOverlayBuilder) SetZIndex(z float64)            { b.opts.ZIndex = z }
func (b *tileOverlayBuilder) SetVisible(v bool)              { b.opts.Visible = v }
func (b *tileOverlayBuilder) SetTileSize(px int)             { b.opts.TileSize = px }

// TileOverlay is a live native tile layer. Tile layers never receive
// taps, so ConsumeTapEvents is always false.
type TileOverlay struct {
	handle surface.TileOverlay
}

func (t *TileOverlay) NativeID() string          { return t.handle.ID() }
func (t *TileOverlay) ConsumeTapEvents() bool    { return false }
func (t *TileOverlay) Sink() TileOverlaySink     { return t }
func (t *TileOverlay) Remove()                   { t.handle.Remove() }
func (t *TileOverlay) SetFadeIn(f bool)          { t.handle.SetFadeIn(f) }
func (t *TileOverlay) SetTransparency(v float64) { t.handle.SetTransparency(v) }
func (t *TileOverlay) SetZIndex(z float64)       { t.handle.SetZIndex(z) }
func (t *TileOverlay) SetVisible(v bool)         { t.handle.SetVisible(v) }

// SetTileSize is fixed at creation; later changes are ignored.
func (t *TileOverlay) SetTileSize(int) {}

// TileOverlayDescriptor describes tile layers keyed by "tileOverlayId".
var TileOverlayDescriptor = Descriptor[TileOverlaySink, core.TileOverlayOptions, *TileOverlay]{
	Kind:   "tileOverlay",
	IDKey:  "tileOverlayId",
	Schema: tileOverlaySchema,
	NewBuilder: func(float64) Builder[TileOverlaySink, core.TileOverlayOptions] {
		return &tileOverlayBuilder{opts: core.TileOverlayOptions{FadeIn: true, Visible: true, TileSize: 256}}
	},
	Create: func(m surface.Map, opts core.TileOverlayOptions, _ float64) (*TileOverlay, error) {
		h, err := m.AddTileOverlay(opts)
		if err != nil {
			return nil, err
		}
		return &TileOverlay{handle: h}, nil
	},
}

// TileOverlays adds cache and info queries to the generic controller.
type TileOverlays struct {
	*Controller[TileOverlaySink, core.TileOverlayOptions, *TileOverlay]
}

// NewTileOverlays creates the tile overlay controller. Tile sizes do not
// scale with density.
func NewTileOverlays(policy DuplicatePolicy) *TileOverlays {
	return &TileOverlays{NewController(TileOverlayDescriptor, 1, policy)}
}

// ClearTileCache drops cached tiles for clientID. Unknown ids are ignored.
func (c *TileOverlays) ClearTileCache(clientID string) {
	t, err := c.Get(clientID)
	if err != nil {
		return
	}
	t.handle.ClearTileCache()
}

// Info returns the layer's current options, or nil for an unknown id.
func (c *TileOverlays) Info(clientID string) map[string]any {
	t, err := c.Get(clientID)
	if err != nil {
		return nil
	}
	o := t.handle.Options()
	return map[string]any{
		"fadeIn":       o.FadeIn,
		"transparency": o.Transparency,
		"zIndex":       o.ZIndex,
		"visible":      o.Visible,
	}
}
