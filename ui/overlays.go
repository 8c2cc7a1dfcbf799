package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/mctar/pasteroids/config"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayDebug    OverlayID = "debug"
	OverlayPerf     OverlayID = "perf"
	OverlayHitboxes OverlayID = "hitboxes"
	OverlayTrails   OverlayID = "trails"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID          OverlayID
	Name        string
	Description string
	Key         int32  // 0 = no key
	KeyLabel    string // e.g. "H"
	Category    string // "visual" or "debug"
	Exclusive   []OverlayID
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with the standard overlays, enabled
// according to the debug config.
func NewOverlayRegistry(debug config.DebugConfig) *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.registerDefaults()
	reg.SetEnabled(OverlayDebug, debug.Overlay)
	reg.SetEnabled(OverlayHitboxes, debug.Hitboxes)
	reg.SetEnabled(OverlayTrails, debug.Trails)
	return reg
}

func (r *OverlayRegistry) registerDefaults() {
	r.Register(OverlayDescriptor{
		ID:          OverlayHitboxes,
		Name:        "Hitboxes",
		Description: "Capsule outlines and proximity fuse radius",
		Key:         rl.KeyH,
		KeyLabel:    "H",
		Category:    "visual",
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayTrails,
		Name:        "Trails",
		Description: "Recent projectile positions",
		Key:         rl.KeyT,
		KeyLabel:    "T",
		Category:    "visual",
	})

	// The debug and perf panels share the top-right corner.
	r.Register(OverlayDescriptor{
		ID:          OverlayDebug,
		Name:        "Debug",
		Description: "Frame timing, accumulator and entity counts",
		Key:         rl.KeyGrave,
		KeyLabel:    "`",
		Category:    "debug",
		Exclusive:   []OverlayID{OverlayPerf},
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayPerf,
		Name:        "Perf",
		Description: "Per-phase tick timing",
		Key:         rl.KeyF3,
		KeyLabel:    "F3",
		Category:    "debug",
		Exclusive:   []OverlayID{OverlayDebug},
	})
}

// Register adds an overlay to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
	r.enabled[desc.ID] = false
}

// Toggle switches an overlay on/off and handles exclusivity.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	on := !r.enabled[id]
	r.SetEnabled(id, on)
	return on
}

// SetEnabled explicitly sets an overlay's state.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	desc, ok := r.byID[id]
	if !ok {
		return
	}

	r.enabled[id] = enabled
	if enabled {
		for _, excl := range desc.Exclusive {
			r.enabled[excl] = false
		}
	}
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// All returns all registered overlays in registration order.
func (r *OverlayRegistry) All() []OverlayDescriptor {
	return r.descriptors
}

// ByCategory returns overlays filtered by category.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	var result []OverlayDescriptor
	for _, desc := range r.descriptors {
		if desc.Category == category {
			result = append(result, desc)
		}
	}
	return result
}

// Categories returns all unique categories in order.
func (r *OverlayRegistry) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, desc := range r.descriptors {
		if !seen[desc.Category] {
			seen[desc.Category] = true
			cats = append(cats, desc.Category)
		}
	}
	return cats
}

// HandleKeyPress toggles the overlay bound to key.
// Returns the overlay ID and new state if a toggle occurred.
func (r *OverlayRegistry) HandleKeyPress(key int32) (OverlayID, bool, bool) {
	for _, desc := range r.descriptors {
		if desc.Key != 0 && desc.Key == key {
			return desc.ID, r.Toggle(desc.ID), true
		}
	}
	return "", false, false
}

// EnabledOverlays returns the enabled overlay IDs in registration order.
func (r *OverlayRegistry) EnabledOverlays() []OverlayID {
	var result []OverlayID
	for _, desc := range r.descriptors {
		if r.enabled[desc.ID] {
			result = append(result, desc.ID)
		}
	}
	return result
}
