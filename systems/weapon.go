package systems

import (
	"github.com/mctar/pasteroids/config"
	"github.com/mctar/pasteroids/weapons"
	"github.com/mctar/pasteroids/world"
)

// WeaponSystem owns the weapon list, ticks ship cooldowns and routes fire and
// cycle requests to the selected weapon.
type WeaponSystem struct {
	list []*weapons.Weapon
	byID map[string]*weapons.Weapon
}

// NewWeaponSystem creates a weapon system over the fixed weapon catalog.
func NewWeaponSystem(cfg *config.Config) *WeaponSystem {
	list := weapons.Catalog(cfg)
	byID := make(map[string]*weapons.Weapon, len(list))
	for _, wp := range list {
		byID[wp.ID] = wp
	}
	return &WeaponSystem{list: list, byID: byID}
}

// Weapons returns the weapons in cycling order.
func (s *WeaponSystem) Weapons() []*weapons.Weapon {
	return s.list
}

// Update ticks every weapon, then counts each ship's cooldown down toward zero.
func (s *WeaponSystem) Update(w *world.World, dt float64) {
	for _, wp := range s.list {
		wp.Update(dt)
	}
	for _, state := range w.WeaponStates() {
		if state.CooldownRemaining > 0 {
			state.CooldownRemaining = max(0, state.CooldownRemaining-dt)
		}
	}
}

// TryFire fires ship's selected weapon if its cooldown has elapsed. The
// cooldown restarts only when the weapon actually fired.
func (s *WeaponSystem) TryFire(w *world.World, ship world.EntityID) bool {
	state := w.WeaponState(ship)
	if state == nil {
		return false
	}
	wp, ok := s.byID[state.WeaponID]
	if !ok || state.CooldownRemaining > 0 {
		return false
	}
	if !wp.TryFire(w, ship) {
		return false
	}
	// Spawning a projectile can move ship storage; re-fetch.
	if state = w.WeaponState(ship); state != nil {
		state.CooldownRemaining = wp.Cooldown
	}
	return true
}

// CycleWeapon moves ship's selection by dir positions, wrapping around, and
// clears its cooldown. An unrecognized selection counts as the first weapon.
func (s *WeaponSystem) CycleWeapon(w *world.World, ship world.EntityID, dir int) {
	if len(s.list) == 0 {
		return
	}
	state := w.WeaponState(ship)
	if state == nil {
		return
	}

	current := 0
	for i, wp := range s.list {
		if wp.ID == state.WeaponID {
			current = i
			break
		}
	}
	next := wrapIndex(current+dir, len(s.list))
	state.WeaponID = s.list[next].ID
	state.CooldownRemaining = 0
}

// WeaponName returns the display name for id, or id itself if unknown.
func (s *WeaponSystem) WeaponName(id string) string {
	if wp, ok := s.byID[id]; ok {
		return wp.Name
	}
	return id
}

// WeaponCooldown returns the configured cooldown for id, or 0 if unknown.
func (s *WeaponSystem) WeaponCooldown(id string) float64 {
	if wp, ok := s.byID[id]; ok {
		return wp.Cooldown
	}
	return 0
}

func wrapIndex(i, n int) int {
	if n <= 0 {
		return 0
	}
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
