// Package world owns every entity and component of a game session.
//
// Component data lives in an ark ECS world. Iteration order, which the
// simulation's determinism depends on, comes from per-role insertion-ordered
// id lists rather than from archetype storage order.
//
// Pointers returned by accessors and iterators are borrowed. They stay valid
// until the next spawn into the same role or the next destroy; systems re-fetch
// components per pass instead of holding them across either.
package world

import (
	"math"
	"slices"

	"github.com/mctar/pasteroids/components"
	"github.com/mctar/pasteroids/config"
	"github.com/mctar/pasteroids/geom"
	"github.com/mctar/pasteroids/rng"
	"github.com/mlange-42/ark/ecs"
)

// EntityID re-exports the component package's id type for callers of this package.
type EntityID = components.EntityID

// NoodleState is the full kinematic state of one hazard, enough to recreate it.
type NoodleState struct {
	Position        geom.Vec2 `json:"position" msgpack:"position"`
	Velocity        geom.Vec2 `json:"velocity" msgpack:"velocity"`
	LongAxis        float64   `json:"longAxis" msgpack:"longAxis"`
	ShortAxis       float64   `json:"shortAxis" msgpack:"shortAxis"`
	Rotation        float64   `json:"rotation" msgpack:"rotation"`
	AngularVelocity float64   `json:"angularVelocity" msgpack:"angularVelocity"`

	// HP overrides the tier hit points when positive.
	HP int `json:"hp,omitempty" msgpack:"hp,omitempty"`
}

// ShipPlacement is the ship's initial pose.
type ShipPlacement struct {
	Position geom.Vec2 `json:"position" msgpack:"position"`
	Rotation float64   `json:"rotation" msgpack:"rotation"`
}

// InitParams are the optional world construction parameters. A zero value
// builds a wave-1 world with the ship centered and a wall-clock seed.
type InitParams struct {
	Seed         *int64 // nil seeds from the wall clock
	StartingWave int    // <= 0 uses game.starting_wave
	Ship         *ShipPlacement
	Noodles      []NoodleState
}

// Seed returns a pointer to v for InitParams.Seed.
func Seed(v int64) *int64 {
	return &v
}

// Impulse is a pending velocity change for one entity.
type Impulse struct {
	ID    EntityID
	Delta geom.Vec2
}

// roleIndex keeps the ids of one entity role in insertion order.
type roleIndex struct {
	ids []EntityID
}

func (r *roleIndex) add(id EntityID) {
	r.ids = append(r.ids, id)
}

func (r *roleIndex) remove(id EntityID) {
	if i := slices.Index(r.ids, id); i >= 0 {
		r.ids = slices.Delete(r.ids, i, i+1)
	}
}

func (r *roleIndex) len() int {
	return len(r.ids)
}

// World is the entity/component store for one session.
type World struct {
	Width, Height float64
	Score         int
	Wave          int
	RNG           *rng.Rand

	// Collisions lists ship-hazard contacts found by the last collision pass.
	Collisions []components.Collision

	cfg *config.Config
	ecs *ecs.World

	nextID  EntityID
	alive   map[EntityID]struct{}
	handles map[EntityID]ecs.Entity

	// Role indices. Transform and RigidBody are carried by every role, so the
	// bodies index doubles as their iteration order.
	bodies      roleIndex
	ships       roleIndex
	noodles     roleIndex
	projectiles roleIndex

	shipMapper       *ecs.Map5[components.Identity, components.Transform, components.RigidBody, components.ShipControl, components.WeaponState]
	noodleMapper     *ecs.Map4[components.Identity, components.Transform, components.RigidBody, components.Noodle]
	projectileMapper *ecs.Map5[components.Identity, components.Transform, components.RigidBody, components.Projectile, components.Lifetime]

	transformMap  *ecs.Map[components.Transform]
	bodyMap       *ecs.Map[components.RigidBody]
	shipMap       *ecs.Map[components.ShipControl]
	weaponMap     *ecs.Map[components.WeaponState]
	noodleMap     *ecs.Map[components.Noodle]
	projectileMap *ecs.Map[components.Projectile]
	lifetimeMap   *ecs.Map[components.Lifetime]

	bodyFilter *ecs.Filter3[components.Identity, components.Transform, components.RigidBody]

	pendingImpulses []Impulse
	impulseIndex    map[EntityID]int

	expired    []EntityID
	expiredSet map[EntityID]struct{}

	explosions []components.ExplosionEvent

	playerShip EntityID
}

// New builds a world of the given size, creates the player ship and places any
// initial hazards from init.
func New(cfg *config.Config, width, height float64, init InitParams) *World {
	params := rng.Params{
		Multiplier: cfg.RNG.Multiplier,
		Increment:  cfg.RNG.Increment,
		Modulus:    cfg.RNG.Modulus,
	}
	var r *rng.Rand
	if init.Seed != nil {
		r = rng.New(*init.Seed, params)
	} else {
		r = rng.NewFromClock(params)
	}

	wave := init.StartingWave
	if wave <= 0 {
		wave = cfg.Game.StartingWave
	}

	store := ecs.NewWorld()
	w := &World{
		Width:  width,
		Height: height,
		Score:  cfg.Game.StartingScore,
		Wave:   wave,
		RNG:    r,

		cfg:     cfg,
		ecs:     store,
		nextID:  EntityID(cfg.World.EntityStartID),
		alive:   make(map[EntityID]struct{}),
		handles: make(map[EntityID]ecs.Entity),

		shipMapper: ecs.NewMap5[
			components.Identity,
			components.Transform,
			components.RigidBody,
			components.ShipControl,
			components.WeaponState,
		](store),
		noodleMapper: ecs.NewMap4[
			components.Identity,
			components.Transform,
			components.RigidBody,
			components.Noodle,
		](store),
		projectileMapper: ecs.NewMap5[
			components.Identity,
			components.Transform,
			components.RigidBody,
			components.Projectile,
			components.Lifetime,
		](store),

		transformMap:  ecs.NewMap[components.Transform](store),
		bodyMap:       ecs.NewMap[components.RigidBody](store),
		shipMap:       ecs.NewMap[components.ShipControl](store),
		weaponMap:     ecs.NewMap[components.WeaponState](store),
		noodleMap:     ecs.NewMap[components.Noodle](store),
		projectileMap: ecs.NewMap[components.Projectile](store),
		lifetimeMap:   ecs.NewMap[components.Lifetime](store),

		bodyFilter: ecs.NewFilter3[
			components.Identity,
			components.Transform,
			components.RigidBody,
		](store),

		impulseIndex: make(map[EntityID]int),
		expiredSet:   make(map[EntityID]struct{}),
	}

	ship := ShipPlacement{Position: geom.V(width/2, height/2)}
	if init.Ship != nil {
		ship = *init.Ship
	}
	w.playerShip = w.CreateShip(ship.Position, ship.Rotation)

	for _, n := range init.Noodles {
		id, ok := w.SpawnNoodle(n.Position, n.Velocity, n.LongAxis, n.ShortAxis, n.Rotation, n.AngularVelocity)
		if ok && n.HP > 0 {
			w.Noodle(id).HP = n.HP
		}
	}

	return w
}

// Config returns the configuration the world was built with.
func (w *World) Config() *config.Config {
	return w.cfg
}

// SetSize changes the wrap bounds.
func (w *World) SetSize(width, height float64) {
	w.Width = width
	w.Height = height
}

// Center returns the middle of the world.
func (w *World) Center() geom.Vec2 {
	return geom.V(w.Width/2, w.Height/2)
}

// PlayerShipID returns the id of the ship created with the world.
func (w *World) PlayerShipID() EntityID {
	return w.playerShip
}

// CreateEntity allocates a fresh id with no components.
func (w *World) CreateEntity() EntityID {
	id := w.nextID
	w.nextID++
	w.alive[id] = struct{}{}
	return id
}

// DestroyEntity removes every component of id. Unknown or already destroyed
// ids are ignored.
func (w *World) DestroyEntity(id EntityID) {
	if _, ok := w.alive[id]; !ok {
		return
	}
	delete(w.alive, id)

	if e, ok := w.handles[id]; ok {
		if w.ecs.Alive(e) {
			w.ecs.RemoveEntity(e)
		}
		delete(w.handles, id)
	}

	w.bodies.remove(id)
	w.ships.remove(id)
	w.noodles.remove(id)
	w.projectiles.remove(id)

	if _, ok := w.expiredSet[id]; ok {
		delete(w.expiredSet, id)
		w.expired = slices.DeleteFunc(w.expired, func(e EntityID) bool { return e == id })
	}
	if i, ok := w.impulseIndex[id]; ok {
		w.pendingImpulses = slices.Delete(w.pendingImpulses, i, i+1)
		w.reindexImpulses()
	}
}

// Alive reports whether id has been created and not destroyed.
func (w *World) Alive(id EntityID) bool {
	_, ok := w.alive[id]
	return ok
}

// EntityCount returns the number of live entities.
func (w *World) EntityCount() int {
	return len(w.alive)
}

// ShipCount returns the number of ships.
func (w *World) ShipCount() int {
	return w.ships.len()
}

// NoodleCount returns the number of hazards.
func (w *World) NoodleCount() int {
	return w.noodles.len()
}

// ProjectileCount returns the number of projectiles.
func (w *World) ProjectileCount() int {
	return w.projectiles.len()
}

// CreateShip inserts the ship bundle: Transform, RigidBody, ShipControl and a
// WeaponState holding the default weapon.
func (w *World) CreateShip(position geom.Vec2, rotation float64) EntityID {
	id := w.CreateEntity()
	e := w.shipMapper.NewEntity(
		&components.Identity{ID: id},
		&components.Transform{Position: position, Rotation: rotation},
		&components.RigidBody{},
		&components.ShipControl{Turn: components.TurnNone, Radius: w.cfg.Ship.Radius},
		&components.WeaponState{WeaponID: w.cfg.Weapons.DefaultID},
	)
	w.handles[id] = e
	w.bodies.add(id)
	w.ships.add(id)
	return id
}

// SpawnNoodle inserts a hazard. It returns false without creating anything when
// the hazard ceiling is reached. Hit points and score come from the first tier
// whose minimum long axis the hazard meets.
func (w *World) SpawnNoodle(position, velocity geom.Vec2, longAxis, shortAxis, rotation, angularVelocity float64) (EntityID, bool) {
	if w.noodles.len() >= w.cfg.World.MaxNoodles {
		return 0, false
	}

	hp, score := w.noodleTier(longAxis)
	id := w.CreateEntity()
	e := w.noodleMapper.NewEntity(
		&components.Identity{ID: id},
		&components.Transform{Position: position, Rotation: rotation},
		&components.RigidBody{Velocity: velocity, AngularVelocity: angularVelocity},
		&components.Noodle{LongAxis: longAxis, ShortAxis: shortAxis, HP: hp, ScoreValue: score},
	)
	w.handles[id] = e
	w.bodies.add(id)
	w.noodles.add(id)
	return id, true
}

func (w *World) noodleTier(longAxis float64) (hp, score int) {
	for _, tier := range w.cfg.Noodle.Tiers {
		if longAxis >= tier.MinLongAxis {
			return tier.HP, tier.Score
		}
	}
	return 1, 0
}

// ProjectileOption overrides one projectile default.
type ProjectileOption func(*projectileSpec)

type projectileSpec struct {
	lifetime      float64
	accel         geom.Vec2
	radius        float64
	damage        int
	proximityFuse bool
	explosion     *components.ExplosionSpec
}

// WithLifetime sets the seconds before forced expiry.
func WithLifetime(seconds float64) ProjectileOption {
	return func(s *projectileSpec) { s.lifetime = seconds }
}

// WithAccel sets a constant acceleration.
func WithAccel(a geom.Vec2) ProjectileOption {
	return func(s *projectileSpec) { s.accel = a }
}

// WithRadius sets the collision radius.
func WithRadius(r float64) ProjectileOption {
	return func(s *projectileSpec) { s.radius = r }
}

// WithDamage sets the contact damage.
func WithDamage(d int) ProjectileOption {
	return func(s *projectileSpec) { s.damage = d }
}

// WithProximityFuse enables detonation on approach.
func WithProximityFuse(enabled bool) ProjectileOption {
	return func(s *projectileSpec) { s.proximityFuse = enabled }
}

// WithExplosion makes the projectile detonate instead of dealing contact damage.
func WithExplosion(spec components.ExplosionSpec) ProjectileOption {
	return func(s *projectileSpec) { s.explosion = &spec }
}

// SpawnProjectile inserts a projectile with the weapon-agnostic defaults, as
// modified by opts. It returns false when the projectile ceiling is reached.
func (w *World) SpawnProjectile(position, velocity geom.Vec2, opts ...ProjectileOption) (EntityID, bool) {
	if w.projectiles.len() >= w.cfg.World.MaxProjectiles {
		return 0, false
	}

	defaults := w.cfg.Projectile
	spec := projectileSpec{
		lifetime: defaults.LifetimeSeconds,
		accel:    geom.V(defaults.Accel.X, defaults.Accel.Y),
		radius:   defaults.Radius,
		damage:   defaults.Damage,
	}
	for _, opt := range opts {
		opt(&spec)
	}

	id := w.CreateEntity()
	e := w.projectileMapper.NewEntity(
		&components.Identity{ID: id},
		&components.Transform{Position: position},
		&components.RigidBody{Velocity: velocity},
		&components.Projectile{
			Radius:        spec.radius,
			Damage:        spec.damage,
			Accel:         spec.accel,
			Trail:         []geom.Vec2{position},
			ProximityFuse: spec.proximityFuse,
			Explosion:     spec.explosion,
		},
		&components.Lifetime{RemainingSeconds: spec.lifetime},
	)
	w.handles[id] = e
	w.bodies.add(id)
	w.projectiles.add(id)
	return id, true
}

// SpawnWave spawns up to min(count, free hazard slots) hazards away from the
// ship, each with a random heading, rotation and spin direction.
func (w *World) SpawnWave(count int, safeRadius float64) int {
	target := min(count, w.cfg.World.MaxNoodles-w.noodles.len())
	if target <= 0 {
		return 0
	}

	shipPos := w.Center()
	if tr := w.Transform(w.playerShip); tr != nil {
		shipPos = tr.Position
	}

	tau := 2 * math.Pi
	nc := w.cfg.Noodle
	spawned := 0
	for range target {
		position := w.ResolveSpawnPosition(shipPos, safeRadius)

		heading := w.RNG.Range(0, tau)
		velocity := geom.V(math.Cos(heading)*nc.DriftSpeed, math.Sin(heading)*nc.DriftSpeed)
		rotation := w.RNG.Range(0, tau)
		angularVelocity := nc.AngularVelocity
		if angularVelocity != 0 {
			sign := 1.0
			if w.RNG.Float() < 0.5 {
				sign = -1
			}
			angularVelocity *= sign
		}

		if _, ok := w.SpawnNoodle(position, velocity, nc.LongAxis, nc.ShortAxis, rotation, angularVelocity); !ok {
			break
		}
		spawned++
	}
	return spawned
}

// ResolveSpawnPosition draws uniform candidates inside the world until one lies
// at least safeRadius from shipPos. After wave.spawn_attempts misses it falls back
// to a point exactly safeRadius away at a random angle, clamped into bounds.
func (w *World) ResolveSpawnPosition(shipPos geom.Vec2, safeRadius float64) geom.Vec2 {
	safeSq := safeRadius * safeRadius
	for range w.cfg.Wave.SpawnAttempts {
		candidate := geom.V(w.RNG.Range(0, w.Width), w.RNG.Range(0, w.Height))
		dx := candidate.X - shipPos.X
		dy := candidate.Y - shipPos.Y
		if dx*dx+dy*dy >= safeSq {
			return candidate
		}
	}

	angle := w.RNG.Range(0, 2*math.Pi)
	return geom.V(
		geom.Clamp(shipPos.X+math.Cos(angle)*safeRadius, 0, w.Width),
		geom.Clamp(shipPos.Y+math.Sin(angle)*safeRadius, 0, w.Height),
	)
}

// QueueImpulse adds delta to id's pending velocity change. Impulses queued in
// the same tick sum.
func (w *World) QueueImpulse(id EntityID, delta geom.Vec2) {
	if i, ok := w.impulseIndex[id]; ok {
		w.pendingImpulses[i].Delta = w.pendingImpulses[i].Delta.Add(delta)
		return
	}
	w.impulseIndex[id] = len(w.pendingImpulses)
	w.pendingImpulses = append(w.pendingImpulses, Impulse{ID: id, Delta: delta})
}

// ConsumeImpulses returns the pending impulses in first-queued order and clears them.
func (w *World) ConsumeImpulses() []Impulse {
	out := w.pendingImpulses
	w.pendingImpulses = nil
	clear(w.impulseIndex)
	return out
}

func (w *World) reindexImpulses() {
	clear(w.impulseIndex)
	for i, imp := range w.pendingImpulses {
		w.impulseIndex[imp.ID] = i
	}
}

// MarkProjectileExpired flags id for the collision system's expiry pass.
func (w *World) MarkProjectileExpired(id EntityID) {
	if _, ok := w.expiredSet[id]; ok {
		return
	}
	w.expiredSet[id] = struct{}{}
	w.expired = append(w.expired, id)
}

// ConsumeExpiredProjectiles returns the ids marked since the last call, in
// marking order, and clears the set.
func (w *World) ConsumeExpiredProjectiles() []EntityID {
	out := w.expired
	w.expired = nil
	clear(w.expiredSet)
	return out
}

// AddExplosion appends a live explosion, evicting the oldest ones once the
// buffer is at world.max_explosions. A non-positive capacity drops every event.
func (w *World) AddExplosion(ev components.ExplosionEvent) {
	limit := w.cfg.World.MaxExplosions
	if limit <= 0 {
		return
	}
	for len(w.explosions) >= limit {
		w.explosions = slices.Delete(w.explosions, 0, 1)
	}
	w.explosions = append(w.explosions, ev)
}

// AgeExplosions advances every explosion by dt and drops those past their duration.
func (w *World) AgeExplosions(dt float64) {
	kept := w.explosions[:0]
	for _, ev := range w.explosions {
		ev.AgeSeconds += dt
		if !ev.Expired() {
			kept = append(kept, ev)
		}
	}
	clear(w.explosions[len(kept):])
	w.explosions = kept
}

// Explosions returns the live explosion events, oldest first. Callers must not
// modify the slice.
func (w *World) Explosions() []components.ExplosionEvent {
	return w.explosions
}

// ExplosionCount returns the number of live explosions.
func (w *World) ExplosionCount() int {
	return len(w.explosions)
}

// AddCollision records a ship-hazard contact.
func (w *World) AddCollision(a, b EntityID) {
	w.Collisions = append(w.Collisions, components.Collision{A: a, B: b})
}

// ClearCollisions empties the collision list.
func (w *World) ClearCollisions() {
	w.Collisions = w.Collisions[:0]
}
