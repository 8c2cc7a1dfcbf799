package systems

// Phase ids used by the perf collector and the debug overlay.
const (
	PhaseInput      = "input"
	PhaseReplay     = "replay"
	PhaseWeapons    = "weapons"
	PhasePhysics    = "physics"
	PhaseCollision  = "collision"
	PhaseWaves      = "waves"
	PhaseInvariants = "invariants"
)

// SystemInfo describes one tick phase for display.
type SystemInfo struct {
	ID          string
	Name        string
	Description string
	Category    string // "control", "sim" or "check"
}

// SystemRegistry keeps phase metadata in tick order so the perf table and the
// overlay list phases the same way.
type SystemRegistry struct {
	systems []SystemInfo
	byID    map[string]SystemInfo
}

// NewSystemRegistry creates a registry holding every tick phase.
func NewSystemRegistry() *SystemRegistry {
	reg := &SystemRegistry{
		byID: make(map[string]SystemInfo),
	}
	reg.registerDefaults()
	return reg
}

func (r *SystemRegistry) registerDefaults() {
	r.Register(SystemInfo{ID: PhaseInput, Name: "Input", Description: "Samples controls into ship intent", Category: "control"})
	r.Register(SystemInfo{ID: PhaseReplay, Name: "Replay", Description: "Records frames and handles replay toggles", Category: "control"})

	r.Register(SystemInfo{ID: PhaseWeapons, Name: "Weapons", Description: "Ticks cooldowns and fires", Category: "sim"})
	r.Register(SystemInfo{ID: PhasePhysics, Name: "Physics", Description: "Integrates motion and wraps positions", Category: "sim"})
	r.Register(SystemInfo{ID: PhaseCollision, Name: "Collision", Description: "Resolves hits, explosions and splits", Category: "sim"})
	r.Register(SystemInfo{ID: PhaseWaves, Name: "Waves", Description: "Ends the game or spawns the next wave", Category: "sim"})

	r.Register(SystemInfo{ID: PhaseInvariants, Name: "Invariants", Description: "Scans for non-finite values", Category: "check"})
}

// Register adds a phase to the registry.
func (r *SystemRegistry) Register(info SystemInfo) {
	r.systems = append(r.systems, info)
	r.byID[info.ID] = info
}

// Get returns phase info by ID.
func (r *SystemRegistry) Get(id string) (SystemInfo, bool) {
	info, ok := r.byID[id]
	return info, ok
}

// GetName returns the display name for a phase ID, or the ID itself if unknown.
func (r *SystemRegistry) GetName(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

// All returns all registered phases.
func (r *SystemRegistry) All() []SystemInfo {
	return r.systems
}

// ByCategory returns phases filtered by category.
func (r *SystemRegistry) ByCategory(category string) []SystemInfo {
	var result []SystemInfo
	for _, info := range r.systems {
		if info.Category == category {
			result = append(result, info)
		}
	}
	return result
}

// IDs returns all phase IDs in tick order.
func (r *SystemRegistry) IDs() []string {
	ids := make([]string, len(r.systems))
	for i, info := range r.systems {
		ids[i] = info.ID
	}
	return ids
}
