package ui

import (
	"sort"
	"strconv"
	"sync"

	"hoot/internal/domain"
)

// OverlayGroup is the settings group holding overlay toggles.
const OverlayGroup = "overlay"

// Overlays implements domain.OverlayManager. An overlay is enabled by the
// setting overlay.<name>=true.
type Overlays struct {
	mu      sync.Mutex
	enabled map[string]bool
}

// NewOverlays creates an overlay manager with nothing enabled.
func NewOverlays() *Overlays {
	return &Overlays{enabled: make(map[string]bool)}
}

// OnEvent applies overlay toggles.
func (o *Overlays) OnEvent(e domain.Event) {
	cc, ok := e.(domain.ConfigChanged)
	if !ok || cc.Group != OverlayGroup {
		return
	}
	on, _ := strconv.ParseBool(cc.Value)
	o.mu.Lock()
	defer o.mu.Unlock()
	if on {
		o.enabled[cc.Key] = true
	} else {
		delete(o.enabled, cc.Key)
	}
}

// Enabled returns the enabled overlays, sorted.
func (o *Overlays) Enabled() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	names := make([]string, 0, len(o.enabled))
	for n := range o.enabled {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
