package systems

import (
	"math"

	"github.com/mctar/pasteroids/components"
	"github.com/mctar/pasteroids/config"
	"github.com/mctar/pasteroids/geom"
	"github.com/mctar/pasteroids/world"
)

// CollisionReport summarizes one collision pass for telemetry.
type CollisionReport struct {
	Hits        int // projectile contacts and fuse triggers
	Detonations int
	Destroyed   int // hazards whose hit points reached zero
	Splits      int // children spawned
	ScoreGained int
}

// CollisionSystem resolves ship contacts, projectile hits, detonations and
// hazard splitting.
type CollisionSystem struct {
	noodle    config.NoodleConfig
	fuseScale float64
	eps       float64
}

// NewCollisionSystem creates a new collision system.
func NewCollisionSystem(cfg *config.Config) *CollisionSystem {
	return &CollisionSystem{
		noodle:    cfg.Noodle,
		fuseScale: cfg.Fuse.Scale,
		eps:       cfg.Math.Epsilon,
	}
}

// removalSet keeps ids in insertion order for deterministic destruction.
type removalSet struct {
	ids []world.EntityID
	has map[world.EntityID]struct{}
}

func newRemovalSet() *removalSet {
	return &removalSet{has: make(map[world.EntityID]struct{})}
}

func (s *removalSet) add(id world.EntityID) bool {
	if _, ok := s.has[id]; ok {
		return false
	}
	s.has[id] = struct{}{}
	s.ids = append(s.ids, id)
	return true
}

func (s *removalSet) contains(id world.EntityID) bool {
	_, ok := s.has[id]
	return ok
}

// collisionPass carries the removal sets for one Update call.
type collisionPass struct {
	*CollisionSystem
	w           *world.World
	projectiles *removalSet
	noodles     *removalSet
	report      CollisionReport
}

// Update runs the collision pass. Ship contacts are only recorded in
// w.Collisions; hazards and projectiles are destroyed at the end of the pass,
// projectiles first.
func (s *CollisionSystem) Update(w *world.World) CollisionReport {
	pass := &collisionPass{
		CollisionSystem: s,
		w:               w,
		projectiles:     newRemovalSet(),
		noodles:         newRemovalSet(),
	}

	w.ClearCollisions()
	pass.checkShips()
	pass.checkProjectiles()
	pass.handleExpired()

	for _, id := range pass.projectiles.ids {
		w.DestroyEntity(id)
	}
	for _, id := range pass.noodles.ids {
		w.DestroyEntity(id)
	}
	return pass.report
}

func (p *collisionPass) checkShips() {
	w := p.w
	for shipID, ship := range w.Ships() {
		shipTr := w.Transform(shipID)
		if shipTr == nil {
			continue
		}
		center, radius := shipTr.Position, ship.Radius

		for noodleID, n := range w.Noodles() {
			tr := w.Transform(noodleID)
			if tr == nil {
				continue
			}
			hit := geom.CircleCapsule(center, radius, tr.Position, tr.Rotation, n.LongAxis, n.ShortAxis, p.eps)
			if hit.Hit {
				w.AddCollision(shipID, noodleID)
			}
		}
	}
}

// checkProjectiles tests every projectile against hazards in creation order.
// A projectile resolves against the first hazard it touches and is consumed.
func (p *collisionPass) checkProjectiles() {
	w := p.w
	for projID, proj := range w.Projectiles() {
		if p.projectiles.contains(projID) {
			continue
		}
		tr := w.Transform(projID)
		if tr == nil {
			continue
		}
		// Splits spawn hazards mid-pass, so keep values rather than pointers.
		pos := tr.Position
		shot := *proj

		for noodleID, n := range w.Noodles() {
			if p.noodles.contains(noodleID) {
				continue
			}
			ntr := w.Transform(noodleID)
			if ntr == nil {
				continue
			}

			fuse := p.fuseTriggered(pos, &shot, n, ntr)
			impact := geom.CircleCapsule(pos, shot.Radius, ntr.Position, ntr.Rotation, n.LongAxis, n.ShortAxis, p.eps).Hit
			if !fuse && !impact {
				continue
			}

			p.projectiles.add(projID)
			p.report.Hits++
			if shot.Explosion != nil {
				p.detonate(pos, *shot.Explosion)
			} else {
				p.applyDamage(noodleID, shot.Damage)
			}
			break
		}
	}
}

// handleExpired removes projectiles whose lifetime ran out. Explosive ones
// detonate where they are.
func (p *collisionPass) handleExpired() {
	w := p.w
	for _, id := range w.ConsumeExpiredProjectiles() {
		if p.projectiles.contains(id) {
			continue
		}
		proj := w.Projectile(id)
		tr := w.Transform(id)
		if proj != nil && tr != nil && proj.Explosion != nil {
			p.detonate(tr.Position, *proj.Explosion)
		}
		p.projectiles.add(id)
	}
}

func (p *collisionPass) fuseTriggered(pos geom.Vec2, proj *components.Projectile, n *components.Noodle, ntr *components.Transform) bool {
	if !proj.ProximityFuse {
		return false
	}
	rng := p.fuseScale*n.LongAxis + proj.Radius
	d := pos.Sub(ntr.Position)
	return d.Dot(d) <= rng*rng
}

// detonate records an explosion at pos and applies it to every hazard in range.
func (p *collisionPass) detonate(pos geom.Vec2, spec components.ExplosionSpec) {
	ev := components.ExplosionEvent{ExplosionSpec: spec, Position: pos}
	p.w.AddExplosion(ev)
	p.report.Detonations++
	p.applyExplosion(ev)
}

// applyExplosion pushes and damages hazards whose core segment lies within the
// blast radius plus their own half-width. Impulse falls off linearly to zero at
// that distance. Hazards split off during this sweep are visited by it too.
func (p *collisionPass) applyExplosion(ev components.ExplosionEvent) {
	w := p.w
	for noodleID, n := range w.Noodles() {
		if p.noodles.contains(noodleID) {
			continue
		}
		tr := w.Transform(noodleID)
		if tr == nil {
			continue
		}

		capsule := geom.CapsuleEndpoints(tr.Position, tr.Rotation, n.LongAxis, n.ShortAxis)
		distSq := geom.PointToSegmentDistanceSquared(ev.Position, capsule.Start, capsule.End, p.eps)
		maxDist := ev.Radius + capsule.Radius
		if distSq > maxDist*maxDist {
			continue
		}

		falloff := 1 - geom.Clamp(math.Sqrt(distSq)/maxDist, 0, 1)
		magnitude := ev.ImpulseStrength * falloff
		delta := tr.Position.Sub(ev.Position)
		deltaSq := delta.X*delta.X + delta.Y*delta.Y
		direction := capsule.Axis
		if deltaSq > p.eps*p.eps {
			direction = delta.Scale(1 / math.Sqrt(deltaSq))
		}

		w.QueueImpulse(noodleID, direction.Scale(magnitude))
		p.applyDamage(noodleID, ev.Damage)
	}
}

// applyDamage subtracts damage from a hazard. At zero hit points the hazard is
// scheduled for removal, its score is awarded and it splits.
func (p *collisionPass) applyDamage(id world.EntityID, damage int) {
	if damage <= 0 {
		return
	}
	n := p.w.Noodle(id)
	if n == nil {
		return
	}

	n.HP -= damage
	if n.HP > 0 {
		return
	}

	p.noodles.add(id)
	p.w.Score += n.ScoreValue
	p.report.Destroyed++
	p.report.ScoreGained += n.ScoreValue
	p.split(id, *n)
}

// split spawns up to split_count smaller children at the parent's pose, each
// with the parent's velocity plus a random impulse. The parent still counts
// toward the hazard ceiling.
func (p *collisionPass) split(id world.EntityID, parent components.Noodle) {
	if parent.LongAxis <= p.noodle.SplitThreshold {
		return
	}
	w := p.w
	tr := w.Transform(id)
	rb := w.RigidBody(id)
	if tr == nil || rb == nil {
		return
	}
	pos, rot := tr.Position, tr.Rotation
	vel, spin := rb.Velocity, rb.AngularVelocity

	childLong := parent.LongAxis * p.noodle.SplitScale
	childShort := parent.ShortAxis * p.noodle.SplitScale
	available := w.Config().World.MaxNoodles - w.NoodleCount()

	for i := 0; i < p.noodle.SplitCount && available > 0; i++ {
		angle := w.RNG.Range(0, 2*math.Pi)
		magnitude := w.RNG.Range(p.noodle.SplitImpulseMin, p.noodle.SplitImpulseMax)
		childVel := vel.Add(geom.Heading(angle).Scale(magnitude))

		if _, ok := w.SpawnNoodle(pos, childVel, childLong, childShort, rot, spin); !ok {
			return
		}
		p.report.Splits++
		available--
	}
}
