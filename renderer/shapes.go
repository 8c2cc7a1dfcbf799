package renderer

import (
	"math"

	"github.com/mctar/pasteroids/config"
	"github.com/mctar/pasteroids/geom"
)

// ShipOutline returns the nose, left wing and right wing of a ship triangle in
// world space. Scales are multiples of the ship radius.
func ShipOutline(pos geom.Vec2, rotation, radius float64, ship config.ShipConfig) [3]geom.Vec2 {
	nose := radius * ship.NoseScale
	wing := radius * ship.WingScale
	tail := radius * ship.TailScale

	local := [3]geom.Vec2{
		{X: nose, Y: 0},
		{X: -tail, Y: wing},
		{X: -tail, Y: -wing},
	}
	var out [3]geom.Vec2
	for i, v := range local {
		out[i] = pos.Add(v.Rotate(rotation))
	}
	return out
}

// ExplosionRadius is the drawn radius of an explosion ring: it grows linearly
// to the full radius over the event's duration.
func ExplosionRadius(radius, age, duration float64) float64 {
	if duration <= 0 {
		return radius
	}
	return radius * geom.Clamp(age/duration, 0, 1)
}

// TrailSegments pairs consecutive trail points, dropping segments that jump
// across a screen edge after a wrap.
func TrailSegments(trail []geom.Vec2, width, height float64) [][2]geom.Vec2 {
	var segs [][2]geom.Vec2
	for i := 1; i < len(trail); i++ {
		a, b := trail[i-1], trail[i]
		d := b.Sub(a)
		if math.Abs(d.X) > width/2 || math.Abs(d.Y) > height/2 {
			continue
		}
		segs = append(segs, [2]geom.Vec2{a, b})
	}
	return segs
}
