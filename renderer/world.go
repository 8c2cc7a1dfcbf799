// Package renderer draws the world with raylib. It only reads world state.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/mctar/pasteroids/components"
	"github.com/mctar/pasteroids/config"
	"github.com/mctar/pasteroids/geom"
	"github.com/mctar/pasteroids/world"
)

// Style holds the colors and line widths used for the world.
type Style struct {
	Background rl.Color
	Ship       rl.Color
	Flame      rl.Color
	Noodle     rl.Color
	NoodleCore rl.Color
	Projectile rl.Color
	Explosion  rl.Color
	Trail      rl.Color
	Hitbox     rl.Color
	Fuse       rl.Color
	LineWidth  float32
	FlameScale float64 // multiple of the ship radius
}

// DefaultStyle returns the default world style.
func DefaultStyle() Style {
	return Style{
		Background: rl.Color{R: 6, G: 8, B: 16, A: 255},
		Ship:       rl.Color{R: 230, G: 240, B: 255, A: 255},
		Flame:      rl.Color{R: 255, G: 170, B: 60, A: 255},
		Noodle:     rl.Color{R: 240, G: 200, B: 110, A: 255},
		NoodleCore: rl.Color{R: 170, G: 120, B: 50, A: 255},
		Projectile: rl.Color{R: 140, G: 230, B: 255, A: 255},
		Explosion:  rl.Color{R: 255, G: 120, B: 60, A: 255},
		Trail:      rl.Color{R: 140, G: 230, B: 255, A: 110},
		Hitbox:     rl.Color{R: 90, G: 255, B: 120, A: 200},
		Fuse:       rl.Color{R: 255, G: 80, B: 200, A: 120},
		LineWidth:  2,
		FlameScale: 0.9,
	}
}

// Layers selects the optional debug layers.
type Layers struct {
	Hitboxes  bool // capsule, ship and projectile outlines
	FuseRings bool
	Trails    bool
}

// WorldRenderer draws hazards, ships, projectiles and explosions.
type WorldRenderer struct {
	Style Style
	cfg   *config.Config
}

// NewWorldRenderer creates a renderer with the default style.
func NewWorldRenderer(cfg *config.Config) *WorldRenderer {
	return &WorldRenderer{Style: DefaultStyle(), cfg: cfg}
}

// Draw renders w. Call between rl.BeginDrawing and rl.EndDrawing.
func (r *WorldRenderer) Draw(w *world.World, layers Layers) {
	rl.ClearBackground(r.Style.Background)

	r.drawNoodles(w)
	r.drawShips(w)
	if layers.FuseRings {
		r.drawFuseRings(w)
	}
	if layers.Trails {
		r.drawTrails(w)
	}
	r.drawExplosions(w)
	r.drawProjectiles(w)
	if layers.Hitboxes {
		r.drawHitboxes(w)
	}
}

func (r *WorldRenderer) drawShips(w *world.World) {
	for id, sc := range w.Ships() {
		tr := w.Transform(id)
		if tr == nil {
			continue
		}
		extent := sc.Radius * r.cfg.Ship.NoseScale
		r.drawShip(tr.Position, tr.Rotation, sc)
		for _, off := range GhostOffsets(tr.Position, extent, w.Width, w.Height) {
			r.drawShip(tr.Position.Add(off), tr.Rotation, sc)
		}
	}
}

func (r *WorldRenderer) drawShip(pos geom.Vec2, rotation float64, sc *components.ShipControl) {
	pts := ShipOutline(pos, rotation, sc.Radius, r.cfg.Ship)
	v1, v2, v3 := vec(pts[0]), vec(pts[1]), vec(pts[2])
	rl.DrawLineEx(v1, v2, r.Style.LineWidth, r.Style.Ship)
	rl.DrawLineEx(v2, v3, r.Style.LineWidth, r.Style.Ship)
	rl.DrawLineEx(v3, v1, r.Style.LineWidth, r.Style.Ship)

	if sc.Thrusting {
		heading := geom.Heading(rotation)
		back := heading.Scale(-sc.Radius * r.cfg.Ship.TailScale)
		flame := heading.Scale(-sc.Radius * (r.cfg.Ship.TailScale + r.Style.FlameScale))
		rl.DrawLineEx(vec(pos.Add(back)), vec(pos.Add(flame)), r.Style.LineWidth, r.Style.Flame)
	}
}

func (r *WorldRenderer) drawNoodles(w *world.World) {
	for id, n := range w.Noodles() {
		tr := w.Transform(id)
		if tr == nil {
			continue
		}
		r.drawNoodle(tr.Position, tr.Rotation, n)
		for _, off := range GhostOffsets(tr.Position, n.LongAxis/2, w.Width, w.Height) {
			r.drawNoodle(tr.Position.Add(off), tr.Rotation, n)
		}
	}
}

func (r *WorldRenderer) drawNoodle(pos geom.Vec2, rotation float64, n *components.Noodle) {
	c := geom.CapsuleEndpoints(pos, rotation, n.LongAxis, n.ShortAxis)
	rl.DrawLineEx(vec(c.Start), vec(c.End), float32(c.Radius*2), r.Style.Noodle)
	rl.DrawCircle(int32(c.Start.X), int32(c.Start.Y), float32(c.Radius), r.Style.Noodle)
	rl.DrawCircle(int32(c.End.X), int32(c.End.Y), float32(c.Radius), r.Style.Noodle)

	// Core stripe along the long axis, dimmed on the last hit point.
	core := r.Style.NoodleCore
	if n.HP <= 1 {
		core.A /= 2
	}
	half := c.Axis.Scale(n.LongAxis / 2)
	rl.DrawLineEx(vec(pos.Sub(half)), vec(pos.Add(half)), r.Style.LineWidth, core)
}

func (r *WorldRenderer) drawFuseRings(w *world.World) {
	for id, n := range w.Noodles() {
		tr := w.Transform(id)
		if tr == nil {
			continue
		}
		rl.DrawCircleLines(int32(tr.Position.X), int32(tr.Position.Y), float32(r.cfg.Fuse.Scale*n.LongAxis), r.Style.Fuse)
	}
}

func (r *WorldRenderer) drawProjectiles(w *world.World) {
	for id, p := range w.Projectiles() {
		tr := w.Transform(id)
		if tr == nil {
			continue
		}
		radius := float32(p.Radius)
		if radius < 1 {
			radius = 1
		}
		rl.DrawCircle(int32(tr.Position.X), int32(tr.Position.Y), radius, r.Style.Projectile)
	}
}

func (r *WorldRenderer) drawTrails(w *world.World) {
	for _, p := range w.Projectiles() {
		segs := TrailSegments(p.Trail, w.Width, w.Height)
		for i, s := range segs {
			color := r.Style.Trail
			color.A = uint8(int(color.A) * (i + 1) / len(segs))
			rl.DrawLineEx(vec(s[0]), vec(s[1]), 1, color)
		}
	}
}

func (r *WorldRenderer) drawExplosions(w *world.World) {
	for _, ev := range w.Explosions() {
		radius := ExplosionRadius(ev.Radius, ev.AgeSeconds, ev.DurationSeconds)
		rl.DrawCircleLines(int32(ev.Position.X), int32(ev.Position.Y), float32(radius), r.Style.Explosion)
	}
}

func (r *WorldRenderer) drawHitboxes(w *world.World) {
	color := r.Style.Hitbox
	for id, tr := range w.Transforms() {
		switch {
		case w.ShipControl(id) != nil:
			rl.DrawCircleLines(int32(tr.Position.X), int32(tr.Position.Y), float32(w.ShipControl(id).Radius), color)
		case w.Noodle(id) != nil:
			n := w.Noodle(id)
			c := geom.CapsuleEndpoints(tr.Position, tr.Rotation, n.LongAxis, n.ShortAxis)
			side := geom.V(-c.Axis.Y, c.Axis.X).Scale(c.Radius)
			rl.DrawLineV(vec(c.Start.Add(side)), vec(c.End.Add(side)), color)
			rl.DrawLineV(vec(c.Start.Sub(side)), vec(c.End.Sub(side)), color)
			rl.DrawCircleLines(int32(c.Start.X), int32(c.Start.Y), float32(c.Radius), color)
			rl.DrawCircleLines(int32(c.End.X), int32(c.End.Y), float32(c.Radius), color)
		case w.Projectile(id) != nil:
			rl.DrawCircleLines(int32(tr.Position.X), int32(tr.Position.Y), float32(w.Projectile(id).Radius), color)
		}
	}
}

func vec(v geom.Vec2) rl.Vector2 {
	return rl.Vector2{X: float32(v.X), Y: float32(v.Y)}
}
