package world

import (
	"math"
	"testing"

	"github.com/mctar/pasteroids/components"
	"github.com/mctar/pasteroids/config"
	"github.com/mctar/pasteroids/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorld(t *testing.T) *World {
	t.Helper()
	return New(config.Default(), 800, 600, InitParams{Seed: Seed(1337)})
}

func noodleIDs(w *World) []EntityID {
	var ids []EntityID
	for id := range w.Noodles() {
		ids = append(ids, id)
	}
	return ids
}

func TestNewCreatesShip(t *testing.T) {
	w := newTestWorld(t)

	ship := w.PlayerShipID()
	assert.Equal(t, EntityID(1), ship)
	assert.Equal(t, 1, w.ShipCount())
	assert.Equal(t, 1, w.Wave)

	tr := w.Transform(ship)
	require.NotNil(t, tr)
	assert.Equal(t, geom.V(400, 300), tr.Position)

	sc := w.ShipControl(ship)
	require.NotNil(t, sc)
	assert.Equal(t, 14.0, sc.Radius)
	assert.Equal(t, components.TurnNone, sc.Turn)

	ws := w.WeaponState(ship)
	require.NotNil(t, ws)
	assert.Equal(t, config.WeaponStraightShot, ws.WeaponID)
	assert.Zero(t, ws.CooldownRemaining)

	assert.Nil(t, w.Noodle(ship))
	assert.Nil(t, w.Projectile(ship))
}

func TestInitParams(t *testing.T) {
	cfg := config.Default()
	w := New(cfg, 800, 600, InitParams{
		Seed:         Seed(7),
		StartingWave: 4,
		Ship:         &ShipPlacement{Position: geom.V(10, 20), Rotation: 1.5},
		Noodles: []NoodleState{
			{Position: geom.V(100, 100), Velocity: geom.V(1, 2), LongAxis: 60, ShortAxis: 40, Rotation: 0.3, AngularVelocity: -0.6},
			{Position: geom.V(200, 100), LongAxis: 36, ShortAxis: 24},
			{Position: geom.V(300, 100), LongAxis: 60, ShortAxis: 40, HP: 1},
		},
	})

	assert.Equal(t, 4, w.Wave)
	assert.Equal(t, int64(7), w.RNG.State())
	assert.Equal(t, geom.V(10, 20), w.Transform(w.PlayerShipID()).Position)
	assert.Equal(t, 1.5, w.Transform(w.PlayerShipID()).Rotation)

	states := w.NoodleStates()
	require.Len(t, states, 3)
	assert.Equal(t, geom.V(1, 2), states[0].Velocity)
	assert.Equal(t, -0.6, states[0].AngularVelocity)
	assert.Equal(t, 3, states[0].HP, "tier default")
	assert.Equal(t, 36.0, states[1].LongAxis)
	assert.Equal(t, 1, states[2].HP, "explicit hit points")
}

func TestEntityIDsAreNeverReused(t *testing.T) {
	w := newTestWorld(t)

	a := w.CreateEntity()
	w.DestroyEntity(a)
	b := w.CreateEntity()

	assert.Greater(t, b, a)
	assert.False(t, w.Alive(a))
	assert.True(t, w.Alive(b))

	// idempotent on unknown and repeated ids
	w.DestroyEntity(a)
	w.DestroyEntity(9999)
	assert.Equal(t, 2, w.EntityCount())
}

func TestSpawnNoodleTiers(t *testing.T) {
	tests := []struct {
		longAxis  float64
		wantHP    int
		wantScore int
	}{
		{60, 3, 100},
		{100, 3, 100},
		{59.9, 2, 50},
		{40, 2, 50},
		{36, 1, 25},
		{0, 1, 25},
	}

	w := newTestWorld(t)
	for _, tt := range tests {
		id, ok := w.SpawnNoodle(geom.V(0, 0), geom.V(0, 0), tt.longAxis, tt.longAxis*0.6, 0, 0)
		require.True(t, ok)
		n := w.Noodle(id)
		require.NotNil(t, n)
		assert.Equal(t, tt.wantHP, n.HP, "long axis %v", tt.longAxis)
		assert.Equal(t, tt.wantScore, n.ScoreValue, "long axis %v", tt.longAxis)
	}
}

func TestNoodleCeiling(t *testing.T) {
	w := newTestWorld(t)
	limit := w.Config().World.MaxNoodles

	for i := 0; i < limit; i++ {
		_, ok := w.SpawnNoodle(geom.V(1, 1), geom.V(0, 0), 60, 40, 0, 0)
		require.True(t, ok)
	}
	_, ok := w.SpawnNoodle(geom.V(1, 1), geom.V(0, 0), 60, 40, 0, 0)
	assert.False(t, ok)
	assert.Equal(t, limit, w.NoodleCount())

	assert.Zero(t, w.SpawnWave(5, 100))
	assert.Equal(t, limit, w.NoodleCount())
}

func TestProjectileCeilingAndDefaults(t *testing.T) {
	w := newTestWorld(t)
	limit := w.Config().World.MaxProjectiles

	id, ok := w.SpawnProjectile(geom.V(5, 6), geom.V(1, 0))
	require.True(t, ok)
	p := w.Projectile(id)
	require.NotNil(t, p)
	assert.Equal(t, 2.0, p.Radius)
	assert.Equal(t, 1, p.Damage)
	assert.Nil(t, p.Explosion)
	assert.False(t, p.ProximityFuse)
	assert.Equal(t, []geom.Vec2{geom.V(5, 6)}, p.Trail)
	assert.Equal(t, 1.2, w.Lifetime(id).RemainingSeconds)

	for w.ProjectileCount() < limit {
		_, ok := w.SpawnProjectile(geom.V(0, 0), geom.V(0, 0))
		require.True(t, ok)
	}
	_, ok = w.SpawnProjectile(geom.V(0, 0), geom.V(0, 0))
	assert.False(t, ok)
	assert.Equal(t, limit, w.ProjectileCount())
}

func TestProjectileOptions(t *testing.T) {
	w := newTestWorld(t)
	spec := components.ExplosionSpec{Radius: 90, Damage: 2, ImpulseStrength: 140, DurationSeconds: 0.4}

	id, ok := w.SpawnProjectile(geom.V(0, 0), geom.V(0, 0),
		WithLifetime(1.4),
		WithAccel(geom.V(0, 260)),
		WithRadius(6),
		WithDamage(0),
		WithProximityFuse(true),
		WithExplosion(spec),
	)
	require.True(t, ok)

	p := w.Projectile(id)
	assert.Equal(t, 6.0, p.Radius)
	assert.Zero(t, p.Damage)
	assert.Equal(t, geom.V(0, 260), p.Accel)
	assert.True(t, p.ProximityFuse)
	require.NotNil(t, p.Explosion)
	assert.Equal(t, spec, *p.Explosion)
	assert.Equal(t, 1.4, w.Lifetime(id).RemainingSeconds)
}

func TestIterationKeepsCreationOrder(t *testing.T) {
	w := newTestWorld(t)

	var spawned []EntityID
	for i := 0; i < 6; i++ {
		id, _ := w.SpawnNoodle(geom.V(float64(i), 0), geom.V(0, 0), 60, 40, 0, 0)
		spawned = append(spawned, id)
		// interleave another role so archetype layout differs from id order
		w.SpawnProjectile(geom.V(0, 0), geom.V(0, 0))
	}

	w.DestroyEntity(spawned[2])
	late, _ := w.SpawnNoodle(geom.V(0, 0), geom.V(0, 0), 36, 24, 0, 0)

	want := []EntityID{spawned[0], spawned[1], spawned[3], spawned[4], spawned[5], late}
	assert.Equal(t, want, noodleIDs(w))
	assert.Nil(t, w.Transform(spawned[2]))
	assert.Nil(t, w.Noodle(spawned[2]))
}

func TestIterationVisitsEntitiesSpawnedMidLoop(t *testing.T) {
	w := newTestWorld(t)
	w.SpawnNoodle(geom.V(0, 0), geom.V(0, 0), 60, 40, 0, 0)

	visited := 0
	for range w.Noodles() {
		visited++
		if w.NoodleCount() < 3 {
			w.SpawnNoodle(geom.V(0, 0), geom.V(0, 0), 36, 24, 0, 0)
		}
	}
	assert.Equal(t, 3, visited)
}

func TestImpulsesSum(t *testing.T) {
	w := newTestWorld(t)
	a, _ := w.SpawnNoodle(geom.V(0, 0), geom.V(0, 0), 60, 40, 0, 0)
	b, _ := w.SpawnNoodle(geom.V(0, 0), geom.V(0, 0), 60, 40, 0, 0)

	w.QueueImpulse(b, geom.V(1, 0))
	w.QueueImpulse(a, geom.V(0, 2))
	w.QueueImpulse(b, geom.V(2, 3))

	got := w.ConsumeImpulses()
	assert.Equal(t, []Impulse{
		{ID: b, Delta: geom.V(3, 3)},
		{ID: a, Delta: geom.V(0, 2)},
	}, got)
	assert.Empty(t, w.ConsumeImpulses())

	// impulses of destroyed entities are dropped
	w.QueueImpulse(a, geom.V(1, 1))
	w.QueueImpulse(b, geom.V(1, 1))
	w.DestroyEntity(a)
	assert.Equal(t, []Impulse{{ID: b, Delta: geom.V(1, 1)}}, w.ConsumeImpulses())
}

func TestExpiredProjectiles(t *testing.T) {
	w := newTestWorld(t)
	a, _ := w.SpawnProjectile(geom.V(0, 0), geom.V(0, 0))
	b, _ := w.SpawnProjectile(geom.V(0, 0), geom.V(0, 0))

	w.MarkProjectileExpired(b)
	w.MarkProjectileExpired(a)
	w.MarkProjectileExpired(b)

	assert.Equal(t, []EntityID{b, a}, w.ConsumeExpiredProjectiles())
	assert.Empty(t, w.ConsumeExpiredProjectiles())
}

func TestExplosionBuffer(t *testing.T) {
	cfg := config.Default()
	cfg.World.MaxExplosions = 3
	w := New(cfg, 100, 100, InitParams{Seed: Seed(1)})

	for i := 0; i < 5; i++ {
		w.AddExplosion(components.ExplosionEvent{
			ExplosionSpec: components.ExplosionSpec{DurationSeconds: 0.4},
			Position:      geom.V(float64(i), 0),
		})
	}
	require.Equal(t, 3, w.ExplosionCount())
	assert.Equal(t, 2.0, w.Explosions()[0].Position.X)

	w.AgeExplosions(0.4)
	assert.Equal(t, 3, w.ExplosionCount(), "age equal to duration is kept")
	w.AgeExplosions(0.01)
	assert.Zero(t, w.ExplosionCount())

	cfg.World.MaxExplosions = 0
	w.AddExplosion(components.ExplosionEvent{})
	assert.Zero(t, w.ExplosionCount())
}

func TestSpawnWaveRespectsSafeRadius(t *testing.T) {
	w := newTestWorld(t)
	ship := w.Transform(w.PlayerShipID()).Position
	safe := 134.0

	n := w.SpawnWave(20, safe)
	assert.Equal(t, 20, n)
	assert.Equal(t, 20, w.NoodleCount())

	for id := range w.Noodles() {
		tr := w.Transform(id)
		rb := w.RigidBody(id)
		require.NotNil(t, tr)
		require.NotNil(t, rb)

		d := tr.Position.Sub(ship)
		assert.GreaterOrEqual(t, d.LenSq(), safe*safe)
		assert.InDelta(t, 40.0, rb.Velocity.Len(), 1e-9)
		assert.InDelta(t, 0.6, math.Abs(rb.AngularVelocity), 1e-12)
	}
}

func TestResolveSpawnPositionFallback(t *testing.T) {
	w := New(config.Default(), 100, 100, InitParams{Seed: Seed(3)})
	ship := geom.V(50, 50)

	// no candidate inside a 100x100 world is 1000 away from its center
	pos := w.ResolveSpawnPosition(ship, 1000)
	assert.True(t, pos.X == 0 || pos.X == 100 || pos.Y == 0 || pos.Y == 100)
	assert.GreaterOrEqual(t, pos.X, 0.0)
	assert.LessOrEqual(t, pos.X, 100.0)
	assert.GreaterOrEqual(t, pos.Y, 0.0)
	assert.LessOrEqual(t, pos.Y, 100.0)
}

func TestSameSeedSameWave(t *testing.T) {
	a := newTestWorld(t)
	b := newTestWorld(t)
	a.SpawnWave(5, 134)
	b.SpawnWave(5, 134)
	assert.Equal(t, a.NoodleStates(), b.NoodleStates())
	assert.Equal(t, a.RNG.State(), b.RNG.State())
}

func TestEachBodyVisitsEveryBody(t *testing.T) {
	w := newTestWorld(t)
	w.SpawnWave(3, 134)
	w.SpawnProjectile(geom.V(0, 0), geom.V(0, 0))

	seen := map[EntityID]bool{}
	w.EachBody(func(id EntityID, tr *components.Transform, rb *components.RigidBody) {
		seen[id] = true
	})

	count := 0
	for id := range w.RigidBodies() {
		assert.True(t, seen[id])
		count++
	}
	assert.Equal(t, 5, count)
	assert.Len(t, seen, 5)
}
