package overlay

import (
	"errors"
	"fmt"

	"github.com/mapbridge/mapbridge/internal/convert"
	"github.com/mapbridge/mapbridge/internal/surface"
	"github.com/mapbridge/mapbridge/pkg/streaming"
)

// DuplicatePolicy decides what an add does with a client id that is
// already live.
type DuplicatePolicy string

const (
	// RejectDuplicates reports ErrDuplicateClientID for the item.
	RejectDuplicates DuplicatePolicy = "reject"
	// ReplaceDuplicates removes the live overlay and creates it again.
	ReplaceDuplicates DuplicatePolicy = "replace"
)

// ParseDuplicatePolicy maps a config value to a policy. Unknown values
// fall back to RejectDuplicates.
func ParseDuplicatePolicy(s string) DuplicatePolicy {
	if DuplicatePolicy(s) == ReplaceDuplicates {
		return ReplaceDuplicates
	}
	return RejectDuplicates
}

// Live is a native overlay handle wrapped with its mutable client state.
type Live[S any] interface {
	NativeID() string
	ConsumeTapEvents() bool
	// Sink exposes the overlay to attribute setters.
	Sink() S
	Remove()
}

// Builder accumulates attributes into an immutable options value.
type Builder[S any, O any] interface {
	Sink() S
	Build() O
}

// Descriptor is everything the generic controller needs to know about
// one overlay kind.
type Descriptor[S any, O any, L Live[S]] struct {
	Kind       string
	IDKey      string
	Schema     Schema[S]
	NewBuilder func(density float64) Builder[S, O]
	Create     func(m surface.Map, opts O, density float64) (L, error)
	// Removal marks payloads that ask for deletion through the add path.
	Removal func(payload map[string]any) bool
}

// Batch is one add, change and remove triple.
type Batch struct {
	ToAdd    []map[string]any
	ToChange []map[string]any
	ToRemove []string
}

// Controller owns the live overlays of one kind on one map.
type Controller[S any, O any, L Live[S]] struct {
	desc    Descriptor[S, O, L]
	table   *Table[L]
	policy  DuplicatePolicy
	density float64
	m       surface.Map
}

// NewController creates a controller that is not yet attached to a map.
func NewController[S any, O any, L Live[S]](desc Descriptor[S, O, L], density float64, policy DuplicatePolicy) *Controller[S, O, L] {
	if density <= 0 {
		density = 1
	}
	return &Controller[S, O, L]{
		desc:    desc,
		table:   NewTable[L](),
		policy:  policy,
		density: density,
	}
}

// Attach binds the controller to a ready map.
func (c *Controller[S, O, L]) Attach(m surface.Map) {
	c.m = m
}

// Kind names the overlay kind, e.g. "marker".
func (c *Controller[S, O, L]) Kind() string { return c.desc.Kind }

// IDKey is the payload key that carries the client id.
func (c *Controller[S, O, L]) IDKey() string { return c.desc.IDKey }

// Len returns the number of live overlays.
func (c *Controller[S, O, L]) Len() int { return c.table.Len() }

// ClientIDs returns the live client ids in sorted order.
func (c *Controller[S, O, L]) ClientIDs() []string {
	return c.table.ClientIDs()
}

// Update applies b in add, change, remove order. Item failures are
// joined; the rest of the batch still runs.
func (c *Controller[S, O, L]) Update(b Batch) error {
	if c.m == nil {
		return fmt.Errorf("%s update: %w", c.desc.Kind, streaming.ErrMapUninitialized)
	}
	var errs []error
	if err := c.AddAll(b.ToAdd); err != nil {
		errs = append(errs, err)
	}
	if err := c.ChangeAll(b.ToChange); err != nil {
		errs = append(errs, err)
	}
	c.RemoveAll(b.ToRemove)
	return errors.Join(errs...)
}

// AddAll creates one native overlay per payload.
func (c *Controller[S, O, L]) AddAll(payloads []map[string]any) error {
	if len(payloads) == 0 {
		return nil
	}
	if c.m == nil {
		return fmt.Errorf("%s add: %w", c.desc.Kind, streaming.ErrMapUninitialized)
	}
	var errs []error
	for _, p := range payloads {
		if err := c.add(p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *Controller[S, O, L]) add(payload map[string]any) error {
	id, err := c.clientID(payload)
	if err != nil {
		return err
	}
	if c.desc.Removal != nil && c.desc.Removal(payload) {
		c.remove(id)
		return nil
	}
	if _, err := c.table.LookupByClient(id); err == nil {
		if c.policy != ReplaceDuplicates {
			return fmt.Errorf("%s %q: %w", c.desc.Kind, id, streaming.ErrDuplicateClientID)
		}
		c.remove(id)
	}

	b := c.desc.NewBuilder(c.density)
	if err := c.desc.Schema.Interpret(payload, b.Sink()); err != nil {
		return fmt.Errorf("%s %q: %w", c.desc.Kind, id, err)
	}
	live, err := c.desc.Create(c.m, b.Build(), c.density)
	if err != nil {
		return fmt.Errorf("%s %q: create: %w", c.desc.Kind, id, err)
	}
	if err := c.table.Insert(id, live.NativeID(), live); err != nil {
		live.Remove()
		return fmt.Errorf("%s %q: %w", c.desc.Kind, id, err)
	}
	return nil
}

// ChangeAll replays each payload against its live overlay. Unknown ids
// are skipped.
func (c *Controller[S, O, L]) ChangeAll(payloads []map[string]any) error {
	var errs []error
	for _, p := range payloads {
		id, err := c.clientID(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		live, err := c.table.LookupByClient(id)
		if err != nil {
			continue
		}
		if err := c.desc.Schema.Interpret(p, live.Sink()); err != nil {
			errs = append(errs, fmt.Errorf("%s %q: %w", c.desc.Kind, id, err))
		}
	}
	return errors.Join(errs...)
}

// RemoveAll detaches and forgets each id. Unknown ids are skipped.
func (c *Controller[S, O, L]) RemoveAll(ids []string) {
	for _, id := range ids {
		c.remove(id)
	}
}

func (c *Controller[S, O, L]) remove(id string) bool {
	live, err := c.table.Remove(id)
	if err != nil {
		return false
	}
	live.Remove()
	return true
}

// Get returns the live overlay for a single-target query.
func (c *Controller[S, O, L]) Get(clientID string) (L, error) {
	live, err := c.table.LookupByClient(clientID)
	if err != nil {
		var zero L
		return zero, fmt.Errorf("%s %q: %w", c.desc.Kind, clientID, streaming.ErrInvalidID)
	}
	return live, nil
}

// NativeID resolves a client id to the engine's id.
func (c *Controller[S, O, L]) NativeID(clientID string) (string, error) {
	live, err := c.Get(clientID)
	if err != nil {
		return "", err
	}
	return live.NativeID(), nil
}

// ClientID resolves an engine id. ok is false for stale ids.
func (c *Controller[S, O, L]) ClientID(nativeID string) (string, bool) {
	id, err := c.table.LookupByNative(nativeID)
	return id, err == nil
}

// Tap resolves nativeID and reports whether the overlay consumes taps.
func (c *Controller[S, O, L]) Tap(nativeID string) (clientID string, consumed bool, ok bool) {
	clientID, ok = c.ClientID(nativeID)
	if !ok {
		return "", false, false
	}
	live, err := c.table.LookupByClient(clientID)
	if err != nil {
		return "", false, false
	}
	return clientID, live.ConsumeTapEvents(), true
}

// Clear removes every live overlay and forgets the map.
func (c *Controller[S, O, L]) Clear() {
	for _, live := range c.table.Reset() {
		live.Remove()
	}
	c.m = nil
}

func (c *Controller[S, O, L]) clientID(payload map[string]any) (string, error) {
	raw, ok := payload[c.desc.IDKey]
	if !ok || raw == nil {
		return "", fmt.Errorf("%s: missing %s: %w", c.desc.Kind, c.desc.IDKey, streaming.ErrInvalidArgument)
	}
	id, err := convert.ToString(raw)
	if err != nil || id == "" {
		return "", fmt.Errorf("%s: bad %s: %w", c.desc.Kind, c.desc.IDKey, streaming.ErrInvalidArgument)
	}
	return id, nil
}
