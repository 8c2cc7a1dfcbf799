package systems

import (
	"testing"

	"github.com/mctar/pasteroids/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeaponSystemCooldown(t *testing.T) {
	cfg := config.Default()
	w := newTestWorld(t, cfg)
	ws := NewWeaponSystem(cfg)
	ship := w.PlayerShipID()

	require.True(t, ws.TryFire(w, ship))
	assert.Equal(t, 1, w.ProjectileCount())
	assert.Equal(t, 0.2, w.WeaponState(ship).CooldownRemaining)

	assert.False(t, ws.TryFire(w, ship), "still cooling down")
	assert.Equal(t, 1, w.ProjectileCount())

	ws.Update(w, 0.1)
	assert.InDelta(t, 0.1, w.WeaponState(ship).CooldownRemaining, 1e-12)
	ws.Update(w, 0.5)
	assert.Zero(t, w.WeaponState(ship).CooldownRemaining, "floored at zero")

	assert.True(t, ws.TryFire(w, ship))
	assert.Equal(t, 2, w.ProjectileCount())
}

func TestWeaponSystemFailedFireKeepsCooldownClear(t *testing.T) {
	cfg := config.Default()
	cfg.World.MaxProjectiles = 0
	w := newTestWorld(t, cfg)
	ws := NewWeaponSystem(cfg)
	ship := w.PlayerShipID()

	assert.False(t, ws.TryFire(w, ship))
	assert.Zero(t, w.WeaponState(ship).CooldownRemaining)
}

func TestWeaponSystemCycle(t *testing.T) {
	cfg := config.Default()

	tests := []struct {
		name  string
		start string
		dir   int
		want  string
	}{
		{"forward", config.WeaponStraightShot, 1, config.WeaponParabolicShot},
		{"backward wraps", config.WeaponStraightShot, -1, config.WeaponRearCannons},
		{"forward wraps", config.WeaponRearCannons, 1, config.WeaponStraightShot},
		{"two steps", config.WeaponParabolicShot, 2, config.WeaponRearCannons},
		{"unknown counts as first", "bogus", 1, config.WeaponParabolicShot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld(t, cfg)
			ws := NewWeaponSystem(cfg)
			ship := w.PlayerShipID()
			state := w.WeaponState(ship)
			state.WeaponID = tt.start
			state.CooldownRemaining = 0.3

			ws.CycleWeapon(w, ship, tt.dir)

			state = w.WeaponState(ship)
			assert.Equal(t, tt.want, state.WeaponID)
			assert.Zero(t, state.CooldownRemaining)
		})
	}
}

func TestWeaponSystemUnknownWeaponDoesNotFire(t *testing.T) {
	cfg := config.Default()
	w := newTestWorld(t, cfg)
	ws := NewWeaponSystem(cfg)
	ship := w.PlayerShipID()
	w.WeaponState(ship).WeaponID = "bogus"

	assert.False(t, ws.TryFire(w, ship))
	assert.Zero(t, w.ProjectileCount())
}

func TestWeaponSystemLookups(t *testing.T) {
	cfg := config.Default()
	ws := NewWeaponSystem(cfg)

	assert.Equal(t, "Blast Shot", ws.WeaponName(config.WeaponBlastShot))
	assert.Equal(t, "bogus", ws.WeaponName("bogus"))
	assert.Equal(t, 0.35, ws.WeaponCooldown(config.WeaponRearCannons))
	assert.Zero(t, ws.WeaponCooldown("bogus"))
	assert.Len(t, ws.Weapons(), 4)
}
