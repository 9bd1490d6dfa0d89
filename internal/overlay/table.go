package overlay

import (
	"fmt"
	"sort"
	"sync"

	"github.com/mapbridge/mapbridge/pkg/streaming"
)

type entry[L any] struct {
	nativeID string
	overlay  L
}

// Table correlates client ids with native ids for one overlay kind.
// byClient owns the overlays; byNative routes engine callbacks back to
// the client id. Both directions change together.
type Table[L any] struct {
	mu       sync.RWMutex
	byClient map[string]entry[L]
	byNative map[string]string
}

// NewTable creates an empty Table
func NewTable[L any]() *Table[L] {
	return &Table[L]{
		byClient: make(map[string]entry[L]),
		byNative: make(map[string]string),
	}
}

// Insert records overlay under both ids.
func (t *Table[L]) Insert(clientID, nativeID string, overlay L) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.byClient[clientID]; ok {
		return fmt.Errorf("client id %q: %w", clientID, streaming.ErrDuplicateClientID)
	}
	if owner, ok := t.byNative[nativeID]; ok {
		return fmt.Errorf("native id %q already mapped to %q", nativeID, owner)
	}
	t.byClient[clientID] = entry[L]{nativeID: nativeID, overlay: overlay}
	t.byNative[nativeID] = clientID
	return nil
}

// Remove drops both directions for clientID and returns the overlay.
func (t *Table[L]) Remove(clientID string) (L, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.byClient[clientID]
	if !ok {
		var zero L
		return zero, fmt.Errorf("client id %q: %w", clientID, streaming.ErrNotFound)
	}
	delete(t.byClient, clientID)
	delete(t.byNative, e.nativeID)
	return e.overlay, nil
}

// LookupByClient returns the live overlay for clientID.
func (t *Table[L]) LookupByClient(clientID string) (L, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.byClient[clientID]
	if !ok {
		var zero L
		return zero, fmt.Errorf("client id %q: %w", clientID, streaming.ErrNotFound)
	}
	return e.overlay, nil
}

// LookupByNative returns the client id owning nativeID.
func (t *Table[L]) LookupByNative(nativeID string) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	clientID, ok := t.byNative[nativeID]
	if !ok {
		return "", fmt.Errorf("native id %q: %w", nativeID, streaming.ErrNotFound)
	}
	return clientID, nil
}

// Len returns the number of live overlays.
func (t *Table[L]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.byClient)
}

// ClientIDs returns the live client ids in sorted order.
func (t *Table[L]) ClientIDs() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ids := make([]string, 0, len(t.byClient))
	for id := range t.byClient {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Reset clears both directions and returns the overlays that were live.
func (t *Table[L]) Reset() []L {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]L, 0, len(t.byClient))
	for _, e := range t.byClient {
		out = append(out, e.overlay)
	}
	t.byClient = make(map[string]entry[L])
	t.byNative = make(map[string]string)
	return out
}
