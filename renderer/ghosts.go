package renderer

import "github.com/mctar/pasteroids/geom"

// GhostOffsets returns the translations at which an entity of the given radius
// must be drawn again so it shows on both sides of a wrapped edge. The primary
// position is not included; a corner yields up to three offsets.
func GhostOffsets(pos geom.Vec2, radius, width, height float64) []geom.Vec2 {
	var dx, dy float64
	switch {
	case pos.X < radius:
		dx = width
	case pos.X > width-radius:
		dx = -width
	}
	switch {
	case pos.Y < radius:
		dy = height
	case pos.Y > height-radius:
		dy = -height
	}

	var ghosts []geom.Vec2
	if dx != 0 {
		ghosts = append(ghosts, geom.V(dx, 0))
	}
	if dy != 0 {
		ghosts = append(ghosts, geom.V(0, dy))
	}
	if dx != 0 && dy != 0 {
		ghosts = append(ghosts, geom.V(dx, dy))
	}
	return ghosts
}
