package memory

import (
	"github.com/mapbridge/mapbridge/pkg/core"
)

type base struct {
	id      string
	seq     int
	removed bool
}

func (b *base) ID() string { return b.id }

// Removed reports whether Remove has been called.
func (b *base) Removed() bool { return b.removed }

// Marker is a headless marker.
type Marker struct {
	base
	m         *Map
	opts      core.MarkerOptions
	infoShown bool
}

func (k *Marker) Remove() {
	k.removed = true
	delete(k.m.markers, k.id)
}

func (k *Marker) Options() core.MarkerOptions     { return k.opts }
func (k *Marker) SetAlpha(a float64)              { k.opts.Alpha = a }
func (k *Marker) SetAnchor(p core.Point)          { k.opts.Anchor = p }
func (k *Marker) SetDraggable(d bool)             { k.opts.Draggable = d }
func (k *Marker) SetFlat(f bool)                  { k.opts.Flat = f }
func (k *Marker) SetIcon(b *core.Bitmap)          { k.opts.Icon = b }
func (k *Marker) SetInfoWindow(w core.InfoWindow) { k.opts.InfoWindow = w }
func (k *Marker) SetPosition(p core.LatLng)       { k.opts.Position = p }
func (k *Marker) Position() core.LatLng           { return k.opts.Position }
func (k *Marker) SetRotation(r float64)           { k.opts.Rotation = r }
func (k *Marker) SetZIndex(z int)                 { k.opts.ZIndex = float64(z) }
func (k *Marker) IsInfoWindowShown() bool         { return k.infoShown }
func (k *Marker) HideInfoWindow()                 { k.infoShown = false }

func (k *Marker) SetVisible(v bool) {
	k.opts.Visible = v
	if !v {
		k.infoShown = false
	}
}

// ShowInfoWindow opens the callout. Markers without a title have none.
func (k *Marker) ShowInfoWindow() {
	if k.opts.InfoWindow.Title == "" || !k.opts.Visible {
		return
	}
	k.infoShown = true
}

// Polygon is a headless polygon.
type Polygon struct {
	base
	m    *Map
	opts core.PolygonOptions
}

func (p *Polygon) Remove() {
	p.removed = true
	delete(p.m.polygons, p.id)
}

func (p *Polygon) Options() core.PolygonOptions   { return p.opts }
func (p *Polygon) SetFillColor(c core.Color)      { p.opts.FillColor = c }
func (p *Polygon) SetGeodesic(g bool)             { p.opts.Geodesic = g }
func (p *Polygon) SetPoints(pts []core.LatLng)    { p.opts.Points = pts }
func (p *Polygon) SetHoles(holes [][]core.LatLng) { p.opts.Holes = holes }
func (p *Polygon) SetStrokeColor(c core.Color)    { p.opts.StrokeColor = c }
func (p *Polygon) SetStrokeWidth(w float64)       { p.opts.StrokeWidth = w }
func (p *Polygon) SetVisible(v bool)              { p.opts.Visible = v }
func (p *Polygon) SetZIndex(z float64)            { p.opts.ZIndex = z }

// Polyline is a headless polyline.
type Polyline struct {
	base
	m    *Map
	opts core.PolylineOptions
}

func (l *Polyline) Remove() {
	l.removed = true
	delete(l.m.polylines, l.id)
}

func (l *Polyline) Options() core.PolylineOptions   { return l.opts }
func (l *Polyline) SetColor(c core.Color)           { l.opts.Color = c }
func (l *Polyline) SetStartCap(c core.Cap)          { l.opts.StartCap = c }
func (l *Polyline) SetEndCap(c core.Cap)            { l.opts.EndCap = c }
func (l *Polyline) SetGeodesic(g bool)              { l.opts.Geodesic = g }
func (l *Polyline) SetJointType(t int)              { l.opts.JointType = t }
func (l *Polyline) SetPattern(p []core.PatternItem) { l.opts.Pattern = p }
func (l *Polyline) SetPoints(pts []core.LatLng)     { l.opts.Points = pts }
func (l *Polyline) SetVisible(v bool)               { l.opts.Visible = v }
func (l *Polyline) SetWidth(w float64)              { l.opts.Width = w }
func (l *Polyline) SetZIndex(z float64)             { l.opts.ZIndex = z }

// Circle is a headless circle.
type Circle struct {
	base
	m    *Map
	opts core.CircleOptions
}

func (c *Circle) Remove() {
	c.removed = true
	delete(c.m.circles, c.id)
}

func (c *Circle) Options() core.CircleOptions   { return c.opts }
func (c *Circle) SetClickable(b bool)           { c.opts.Clickable = b }
func (c *Circle) SetCenter(p core.LatLng)       { c.opts.Center = p }
func (c *Circle) SetRadius(r float64)           { c.opts.Radius = r }
func (c *Circle) SetFillColor(col core.Color)   { c.opts.FillColor = col }
func (c *Circle) SetStrokeColor(col core.Color) { c.opts.StrokeColor = col }
func (c *Circle) SetStrokeWidth(w float64)      { c.opts.StrokeWidth = w }
func (c *Circle) SetVisible(v bool)             { c.opts.Visible = v }
func (c *Circle) SetZIndex(z float64)           { c.opts.ZIndex = z }

// TileOverlay is a headless tile layer. It serves no tiles; it only
// tracks options and how often its cache was cleared.
type TileOverlay struct {
	base
	m       *Map
	opts    core.TileOverlayOptions
	cleared int
}

func (t *TileOverlay) Remove() {
	t.removed = true
	delete(t.m.tiles, t.id)
}

func (t *TileOverlay) Options() core.TileOverlayOptions { return t.opts }
func (t *TileOverlay) SetFadeIn(f bool)                 { t.opts.FadeIn = f }
func (t *TileOverlay) SetTransparency(v float64)        { t.opts.Transparency = v }
func (t *TileOverlay) SetVisible(v bool)                { t.opts.Visible = v }
func (t *TileOverlay) SetZIndex(z float64)              { t.opts.ZIndex = z }
func (t *TileOverlay) ClearTileCache()                  { t.cleared++ }

// CacheClears returns how many times ClearTileCache ran.
func (t *TileOverlay) CacheClears() int { return t.cleared }
