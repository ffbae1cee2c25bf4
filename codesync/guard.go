package codesync

import "sync"

// RedirectMarkerKey names the marker consumed by RedirectGuard.
const RedirectMarkerKey = "redirect"

// Marker is a session-scoped boolean store. Absent keys read as false.
type Marker interface {
	Get(key string) bool
	Set(key string)
	Remove(key string)
}

// MemoryMarker keeps markers for the lifetime of the process.
type MemoryMarker struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func NewMemoryMarker() *MemoryMarker {
	return &MemoryMarker{keys: make(map[string]struct{})}
}

func (m *MemoryMarker) Get(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.keys[key]
	return ok
}

func (m *MemoryMarker) Set(key string) {
	m.mu.Lock()
	m.keys[key] = struct{}{}
	m.mu.Unlock()
}

func (m *MemoryMarker) Remove(key string) {
	m.mu.Lock()
	delete(m.keys, key)
	m.mu.Unlock()
}

// RedirectGuard lets exactly one join confirmation per cycle trigger navigation.
type RedirectGuard struct {
	marker Marker
}

// NewRedirectGuard returns a guard backed by marker, or by a fresh
// MemoryMarker when marker is nil.
func NewRedirectGuard(marker Marker) *RedirectGuard {
	if marker == nil {
		marker = NewMemoryMarker()
	}
	return &RedirectGuard{marker: marker}
}

// ConsumeOnce returns true for the first confirmation and arms the guard.
// A second call finds it armed, disarms it and returns false.
func (g *RedirectGuard) ConsumeOnce() bool {
	if g.marker.Get(RedirectMarkerKey) {
		g.marker.Remove(RedirectMarkerKey)
		return false
	}
	g.marker.Set(RedirectMarkerKey)
	return true
}

// Consumed reports whether the guard is armed.
func (g *RedirectGuard) Consumed() bool {
	return g.marker.Get(RedirectMarkerKey)
}

func (g *RedirectGuard) Reset() {
	g.marker.Remove(RedirectMarkerKey)
}
