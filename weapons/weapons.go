// Package weapons implements the ship's four firing behaviors as a closed set
// of kinds sharing one Weapon type.
package weapons

import (
	"github.com/mctar/pasteroids/components"
	"github.com/mctar/pasteroids/config"
	"github.com/mctar/pasteroids/geom"
	"github.com/mctar/pasteroids/world"
)

// Kind selects a firing behavior.
type Kind uint8

const (
	StraightShot Kind = iota
	ParabolicShot
	BlastShot
	RearCannons
)

func (k Kind) String() string {
	switch k {
	case StraightShot:
		return "straight"
	case ParabolicShot:
		return "parabolic"
	case BlastShot:
		return "blast"
	case RearCannons:
		return "rear_cannons"
	default:
		return "unknown"
	}
}

// Weapon is one entry of the weapon list. Fields that a kind does not use stay zero.
type Weapon struct {
	Kind     Kind
	ID       string
	Name     string
	Cooldown float64 // seconds between shots

	speed       float64
	offsetScale float64 // fraction of the ship nose length
	lifetime    float64
	gravity     float64
	radius      float64
	damage      int
	explosion   components.ExplosionSpec
	hardpoints  []geom.Vec2 // ship-local
}

// Catalog builds the fixed weapon list, in cycling order.
func Catalog(cfg *config.Config) []*Weapon {
	wc := cfg.Weapons
	hardpoints := make([]geom.Vec2, len(wc.RearCannons.Hardpoints))
	for i, hp := range wc.RearCannons.Hardpoints {
		hardpoints[i] = geom.V(hp.X, hp.Y)
	}

	return []*Weapon{
		{
			Kind:        StraightShot,
			ID:          config.WeaponStraightShot,
			Name:        wc.Straight.Name,
			Cooldown:    wc.Straight.CooldownSeconds,
			speed:       wc.Straight.ProjectileSpeed,
			offsetScale: wc.Straight.SpawnOffsetScale,
			lifetime:    cfg.Projectile.LifetimeSeconds,
		},
		{
			Kind:        ParabolicShot,
			ID:          config.WeaponParabolicShot,
			Name:        wc.Parabolic.Name,
			Cooldown:    wc.Parabolic.CooldownSeconds,
			speed:       wc.Parabolic.ProjectileSpeed,
			offsetScale: wc.Parabolic.SpawnOffsetScale,
			lifetime:    cfg.Projectile.LifetimeSeconds,
			gravity:     wc.Parabolic.Gravity,
		},
		{
			Kind:        BlastShot,
			ID:          config.WeaponBlastShot,
			Name:        wc.Blast.Name,
			Cooldown:    wc.Blast.CooldownSeconds,
			speed:       wc.Blast.ProjectileSpeed,
			offsetScale: wc.Blast.SpawnOffsetScale,
			lifetime:    wc.Blast.LifetimeSeconds,
			radius:      wc.Blast.ProjectileRadius,
			damage:      wc.Blast.ProjectileDamage,
			explosion: components.ExplosionSpec{
				Radius:          wc.Blast.ExplosionRadius,
				Damage:          wc.Blast.ExplosionDamage,
				ImpulseStrength: wc.Blast.ExplosionImpulse,
				DurationSeconds: wc.Blast.ExplosionDurationSeconds,
			},
		},
		{
			Kind:       RearCannons,
			ID:         config.WeaponRearCannons,
			Name:       wc.RearCannons.Name,
			Cooldown:   wc.RearCannons.CooldownSeconds,
			speed:      wc.RearCannons.ProjectileSpeed,
			lifetime:   wc.RearCannons.LifetimeSeconds,
			hardpoints: hardpoints,
		},
	}
}

// Update advances per-weapon state. None of the current kinds keep any; ship
// cooldowns live in components.WeaponState.
func (wp *Weapon) Update(dt float64) {}

// TryFire spawns this weapon's projectiles from ship and reports whether
// anything was fired. Cooldown is the caller's concern.
func (wp *Weapon) TryFire(w *world.World, ship world.EntityID) bool {
	switch wp.Kind {
	case StraightShot:
		return wp.fireForward(w, ship, world.WithLifetime(wp.lifetime))
	case ParabolicShot:
		return wp.fireForward(w, ship,
			world.WithLifetime(wp.lifetime),
			world.WithAccel(geom.V(0, wp.gravity)),
		)
	case BlastShot:
		return wp.fireForward(w, ship,
			world.WithLifetime(wp.lifetime),
			world.WithRadius(wp.radius),
			world.WithDamage(wp.damage),
			world.WithProximityFuse(true),
			world.WithExplosion(wp.explosion),
		)
	case RearCannons:
		return wp.fireRear(w, ship)
	}
	return false
}

// fireForward launches one projectile from the ship's nose, inheriting the
// ship's velocity.
func (wp *Weapon) fireForward(w *world.World, ship world.EntityID, opts ...world.ProjectileOption) bool {
	tr := w.Transform(ship)
	rb := w.RigidBody(ship)
	sc := w.ShipControl(ship)
	if tr == nil || rb == nil || sc == nil {
		return false
	}

	cfg := w.Config()
	forward := geom.Heading(tr.Rotation)
	nose := sc.Radius * cfg.Ship.NoseScale * wp.offsetScale
	pos := tr.Position.Add(forward.Scale(nose))
	vel := forward.Scale(wp.speed).Add(rb.Velocity)

	_, ok := w.SpawnProjectile(pos, vel, opts...)
	return ok
}

// fireRear launches one projectile backward from every hardpoint. The volley is
// all or nothing: if the projectile ceiling cannot take every hardpoint, none fire.
func (wp *Weapon) fireRear(w *world.World, ship world.EntityID) bool {
	tr := w.Transform(ship)
	rb := w.RigidBody(ship)
	if tr == nil || rb == nil {
		return false
	}

	needed := len(wp.hardpoints)
	if needed == 0 {
		return false
	}
	if w.ProjectileCount()+needed > w.Config().World.MaxProjectiles {
		return false
	}

	origin := tr.Position
	rotation := tr.Rotation
	backward := geom.Heading(rotation).Scale(-1)
	vel := backward.Scale(wp.speed).Add(rb.Velocity)

	for _, hp := range wp.hardpoints {
		pos := origin.Add(hp.Rotate(rotation))
		if _, ok := w.SpawnProjectile(pos, vel, world.WithLifetime(wp.lifetime)); !ok {
			return false
		}
	}
	return true
}
