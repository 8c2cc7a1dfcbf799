// Package systems contains the per-tick simulation passes. Systems hold only
// configuration; all game state lives in the world.
package systems

import (
	"math"

	"github.com/mctar/pasteroids/components"
	"github.com/mctar/pasteroids/config"
	"github.com/mctar/pasteroids/world"
)

// PhysicsSystem integrates motion with a fixed dt.
type PhysicsSystem struct {
	ship       config.ShipConfig
	noodle     config.NoodleConfig
	margin     float64
	trailLimit int
}

// NewPhysicsSystem creates a new physics system.
func NewPhysicsSystem(cfg *config.Config) *PhysicsSystem {
	return &PhysicsSystem{
		ship:       cfg.Ship,
		noodle:     cfg.Noodle,
		margin:     cfg.World.WrapMargin,
		trailLimit: cfg.World.TrailLength,
	}
}

// Update runs one physics tick. The pass order is fixed: impulses, ships,
// hazards, projectiles, integration with wrap, explosion aging.
func (s *PhysicsSystem) Update(w *world.World, dt float64) {
	s.applyImpulses(w)
	s.updateShips(w, dt)
	s.updateNoodles(w, dt)
	s.updateProjectiles(w, dt)
	s.integrate(w, dt)
	w.AgeExplosions(dt)
}

func (s *PhysicsSystem) applyImpulses(w *world.World) {
	for _, imp := range w.ConsumeImpulses() {
		if rb := w.RigidBody(imp.ID); rb != nil {
			rb.Velocity = rb.Velocity.Add(imp.Delta)
		}
	}
}

func (s *PhysicsSystem) updateShips(w *world.World, dt float64) {
	for id, ship := range w.Ships() {
		tr := w.Transform(id)
		rb := w.RigidBody(id)
		if tr == nil || rb == nil {
			continue
		}

		tr.Rotation += float64(ship.Turn) * s.ship.TurnSpeed * dt

		if ship.Thrusting {
			rb.Velocity.X += math.Cos(tr.Rotation) * s.ship.ThrustAccel * dt
			rb.Velocity.Y += math.Sin(tr.Rotation) * s.ship.ThrustAccel * dt
		}

		rb.Velocity = rb.Velocity.Scale(s.ship.Damping)
		clampSpeed(rb, s.ship.MaxSpeed)
	}
}

func (s *PhysicsSystem) updateNoodles(w *world.World, dt float64) {
	for id := range w.Noodles() {
		tr := w.Transform(id)
		rb := w.RigidBody(id)
		if tr == nil || rb == nil {
			continue
		}

		tr.Rotation += rb.AngularVelocity * dt
		rb.Velocity = rb.Velocity.Scale(s.noodle.Damping)
	}
}

// updateProjectiles applies constant acceleration and counts lifetimes down.
// Expired projectiles are only marked; the collision pass owns removal.
func (s *PhysicsSystem) updateProjectiles(w *world.World, dt float64) {
	for id, p := range w.Projectiles() {
		rb := w.RigidBody(id)
		life := w.Lifetime(id)
		if rb == nil || life == nil {
			continue
		}

		rb.Velocity = rb.Velocity.Add(p.Accel.Scale(dt))

		life.RemainingSeconds -= dt
		if life.RemainingSeconds <= 0 {
			w.MarkProjectileExpired(id)
		}
	}
}

func (s *PhysicsSystem) integrate(w *world.World, dt float64) {
	for id, rb := range w.RigidBodies() {
		tr := w.Transform(id)
		if tr == nil {
			continue
		}

		tr.Position = tr.Position.Add(rb.Velocity.Scale(dt))
		tr.Position.X = WrapValue(tr.Position.X, w.Width, s.margin)
		tr.Position.Y = WrapValue(tr.Position.Y, w.Height, s.margin)

		if p := w.Projectile(id); p != nil {
			s.recordTrail(p, tr)
		}
	}
}

// recordTrail appends the new position, keeping at most trailLimit entries.
func (s *PhysicsSystem) recordTrail(p *components.Projectile, tr *components.Transform) {
	if s.trailLimit <= 0 {
		return
	}
	p.Trail = append(p.Trail, tr.Position)
	if over := len(p.Trail) - s.trailLimit; over > 0 {
		p.Trail = append(p.Trail[:0], p.Trail[over:]...)
	}
}

func clampSpeed(rb *components.RigidBody, maxSpeed float64) {
	speed := math.Hypot(rb.Velocity.X, rb.Velocity.Y)
	if speed > maxSpeed && speed > 0 {
		rb.Velocity = rb.Velocity.Scale(maxSpeed / speed)
	}
}

// WrapValue maps v onto a torus of size max. A coordinate that leaves
// [-margin, max+margin] snaps to the opposite bound.
func WrapValue(v, max, margin float64) float64 {
	lo := -margin
	hi := max + margin
	if v < lo {
		return hi
	}
	if v > hi {
		return lo
	}
	return v
}
