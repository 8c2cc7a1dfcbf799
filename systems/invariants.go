package systems

import (
	"fmt"
	"math"

	"github.com/mctar/pasteroids/geom"
	"github.com/mctar/pasteroids/world"
)

// InvariantIssue is one non-finite value found by ScanNonFinite.
type InvariantIssue struct {
	Label string
	Value float64
}

func (i InvariantIssue) String() string {
	return fmt.Sprintf("%s=%s", i.Label, formatValue(i.Value))
}

// ScanNonFinite reports every NaN or infinite kinematic value in the world,
// visiting bodies in creation order.
func ScanNonFinite(w *world.World) []InvariantIssue {
	var issues []InvariantIssue
	check := func(label string, v float64) {
		if !geom.IsFinite(v) {
			issues = append(issues, InvariantIssue{Label: label, Value: v})
		}
	}

	for id, rb := range w.RigidBodies() {
		check(fmt.Sprintf("RigidBody(%d).velocity.x", id), rb.Velocity.X)
		check(fmt.Sprintf("RigidBody(%d).velocity.y", id), rb.Velocity.Y)
		check(fmt.Sprintf("RigidBody(%d).angularVelocity", id), rb.AngularVelocity)

		tr := w.Transform(id)
		if tr == nil {
			continue
		}
		check(fmt.Sprintf("Transform(%d).position.x", id), tr.Position.X)
		check(fmt.Sprintf("Transform(%d).position.y", id), tr.Position.Y)
		check(fmt.Sprintf("Transform(%d).rotation", id), tr.Rotation)
	}
	return issues
}

func formatValue(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	return fmt.Sprint(v)
}
