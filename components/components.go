// Package components defines ECS components for the simulation.
// An entity's role is defined purely by which components it carries.
package components

import "github.com/mctar/pasteroids/geom"

// EntityID identifies an entity for the lifetime of a world. IDs are allocated
// monotonically and never reused.
type EntityID uint64

// Identity maps an ECS row back to its stable entity id.
type Identity struct {
	ID EntityID `inspect:"label"`
}

// Transform is an entity's pose.
type Transform struct {
	Position geom.Vec2 `inspect:"label,fmt:%.1f"`
	Rotation float64   `inspect:"angle"` // radians
}

// RigidBody holds linear and angular velocity.
type RigidBody struct {
	Velocity        geom.Vec2 `inspect:"label,fmt:%.1f"`
	AngularVelocity float64   `inspect:"label,fmt:%.2f"`
}

// Turn directions for ShipControl.
const (
	TurnLeft  = -1
	TurnNone  = 0
	TurnRight = 1
)

// ShipControl is the player's steering state and collision radius.
type ShipControl struct {
	Turn      int     `inspect:"label"`
	Thrusting bool    `inspect:"bool"`
	Radius    float64 `inspect:"label,fmt:%.1f"`
}

// WeaponState is the ship's active weapon and its remaining cooldown.
type WeaponState struct {
	WeaponID          string  `inspect:"label"`
	CooldownRemaining float64 `inspect:"bar,max:0.6"`
}

// Noodle is a capsule-shaped hazard.
type Noodle struct {
	LongAxis   float64 `inspect:"label,fmt:%.1f"`
	ShortAxis  float64 `inspect:"label,fmt:%.1f"`
	HP         int     `inspect:"bar,max:3"`
	ScoreValue int     `inspect:"label"`
}

// ExplosionSpec describes the area effect a projectile releases on detonation.
type ExplosionSpec struct {
	Radius          float64 `json:"radius" msgpack:"radius"`
	Damage          int     `json:"damage" msgpack:"damage"`
	ImpulseStrength float64 `json:"impulseStrength" msgpack:"impulseStrength"`
	DurationSeconds float64 `json:"durationSeconds" msgpack:"durationSeconds"`
}

// Projectile is a moving shot. A projectile with an Explosion never deals
// contact damage; every resolution goes through detonation.
type Projectile struct {
	Radius        float64        `inspect:"label,fmt:%.1f"`
	Damage        int            `inspect:"label"`
	Accel         geom.Vec2      `inspect:"label,fmt:%.0f"`
	Trail         []geom.Vec2    `inspect:"skip"` // oldest first
	ProximityFuse bool           `inspect:"bool"`
	Explosion     *ExplosionSpec `inspect:"skip"`
}

// Lifetime is the time left before a projectile is forced to expire.
type Lifetime struct {
	RemainingSeconds float64 `inspect:"bar,max:1.4"`
}

// ExplosionEvent is a live detonation. Events are transient and age out.
type ExplosionEvent struct {
	ExplosionSpec
	Position   geom.Vec2
	AgeSeconds float64
}

// Expired reports whether the event has outlived its duration.
func (e *ExplosionEvent) Expired() bool {
	return e.AgeSeconds > e.DurationSeconds
}

// Collision records a ship touching a hazard.
type Collision struct {
	A, B EntityID
}
