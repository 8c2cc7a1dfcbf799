package world

import (
	"iter"

	"github.com/mctar/pasteroids/components"
	"github.com/mlange-42/ark/ecs"
)

// get returns id's component from m, or nil when the entity is gone or lacks it.
func get[T any](w *World, m *ecs.Map[T], id EntityID) *T {
	e, ok := w.handles[id]
	if !ok || !m.Has(e) {
		return nil
	}
	return m.Get(e)
}

// entries yields (id, component) in role insertion order. The length is read on
// every step, so entities spawned mid-iteration are visited too. Destroying
// entities while iterating is not supported.
func entries[T any](w *World, role *roleIndex, m *ecs.Map[T]) iter.Seq2[EntityID, *T] {
	return func(yield func(EntityID, *T) bool) {
		for i := 0; i < len(role.ids); i++ {
			id := role.ids[i]
			c := get(w, m, id)
			if c == nil {
				continue
			}
			if !yield(id, c) {
				return
			}
		}
	}
}

func (w *World) Transform(id EntityID) *components.Transform {
	return get(w, w.transformMap, id)
}

func (w *World) RigidBody(id EntityID) *components.RigidBody {
	return get(w, w.bodyMap, id)
}

func (w *World) ShipControl(id EntityID) *components.ShipControl {
	return get(w, w.shipMap, id)
}

func (w *World) WeaponState(id EntityID) *components.WeaponState {
	return get(w, w.weaponMap, id)
}

func (w *World) Noodle(id EntityID) *components.Noodle {
	return get(w, w.noodleMap, id)
}

func (w *World) Projectile(id EntityID) *components.Projectile {
	return get(w, w.projectileMap, id)
}

func (w *World) Lifetime(id EntityID) *components.Lifetime {
	return get(w, w.lifetimeMap, id)
}

// Transforms iterates every transform in creation order.
func (w *World) Transforms() iter.Seq2[EntityID, *components.Transform] {
	return entries(w, &w.bodies, w.transformMap)
}

// RigidBodies iterates every rigid body in creation order.
func (w *World) RigidBodies() iter.Seq2[EntityID, *components.RigidBody] {
	return entries(w, &w.bodies, w.bodyMap)
}

// Ships iterates ship controls in creation order.
func (w *World) Ships() iter.Seq2[EntityID, *components.ShipControl] {
	return entries(w, &w.ships, w.shipMap)
}

// WeaponStates iterates weapon states in creation order.
func (w *World) WeaponStates() iter.Seq2[EntityID, *components.WeaponState] {
	return entries(w, &w.ships, w.weaponMap)
}

// Noodles iterates hazards in creation order.
func (w *World) Noodles() iter.Seq2[EntityID, *components.Noodle] {
	return entries(w, &w.noodles, w.noodleMap)
}

// Projectiles iterates projectiles in creation order.
func (w *World) Projectiles() iter.Seq2[EntityID, *components.Projectile] {
	return entries(w, &w.projectiles, w.projectileMap)
}

// Lifetimes iterates projectile lifetimes in creation order.
func (w *World) Lifetimes() iter.Seq2[EntityID, *components.Lifetime] {
	return entries(w, &w.projectiles, w.lifetimeMap)
}

// EachBody visits every entity carrying a Transform and RigidBody straight from
// ECS storage. Order follows archetype layout, not creation order, so it is only
// for order-independent reads such as diagnostics.
func (w *World) EachBody(fn func(id EntityID, tr *components.Transform, rb *components.RigidBody)) {
	query := w.bodyFilter.Query()
	for query.Next() {
		ident, tr, rb := query.Get()
		fn(ident.ID, tr, rb)
	}
}

// NoodleStates snapshots every hazard's state in creation order.
func (w *World) NoodleStates() []NoodleState {
	var out []NoodleState
	for id, n := range w.Noodles() {
		tr := w.Transform(id)
		rb := w.RigidBody(id)
		if tr == nil || rb == nil {
			continue
		}
		out = append(out, NoodleState{
			Position:        tr.Position,
			Velocity:        rb.Velocity,
			LongAxis:        n.LongAxis,
			ShortAxis:       n.ShortAxis,
			Rotation:        tr.Rotation,
			AngularVelocity: rb.AngularVelocity,
			HP:              n.HP,
		})
	}
	return out
}
