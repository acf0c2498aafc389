package services

import (
	"sync"
	"time"
)

type registeredPanel struct {
	panel    *SearchPanel
	lastUsed time.Time
}

// PanelRegistry keeps one search panel per viewer session
type PanelRegistry struct {
	mu       sync.Mutex
	panels   map[string]*registeredPanel
	ttl      time.Duration
	newPanel func() *SearchPanel
	now      func() time.Time
}

// NewPanelRegistry creates a registry whose panels expire after ttl without use.
// A non-positive ttl keeps panels until Close.
func NewPanelRegistry(ttl time.Duration, newPanel func() *SearchPanel) *PanelRegistry {
	return &PanelRegistry{
		panels:   make(map[string]*registeredPanel),
		ttl:      ttl,
		newPanel: newPanel,
		now:      time.Now,
	}
}

// Get returns the viewer's panel, creating it on first use
func (r *PanelRegistry) Get(viewerID string) *SearchPanel {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.evictExpired(now)

	entry, ok := r.panels[viewerID]
	if !ok {
		entry = &registeredPanel{panel: r.newPanel()}
		r.panels[viewerID] = entry
	}
	entry.lastUsed = now
	return entry.panel
}

// Len returns the number of live panels
func (r *PanelRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.panels)
}

// Close disposes every panel
func (r *PanelRegistry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for viewerID, entry := range r.panels {
		entry.panel.Close()
		delete(r.panels, viewerID)
	}
}

func (r *PanelRegistry) evictExpired(now time.Time) {
	if r.ttl <= 0 {
		return
	}
	for viewerID, entry := range r.panels {
		if now.Sub(entry.lastUsed) > r.ttl {
			entry.panel.Close()
			delete(r.panels, viewerID)
		}
	}
}
