package geom

import "math"

// Capsule is a segment swept by Radius. Axis is the unit direction from Start to End.
type Capsule struct {
	Start  Vec2
	End    Vec2
	Radius float64
	Axis   Vec2
}

// CapsuleEndpoints derives the inner segment of a capsule centered at center.
// The segment length is max(0, longAxis-shortAxis); the radius is shortAxis/2.
func CapsuleEndpoints(center Vec2, rotation, longAxis, shortAxis float64) Capsule {
	half := math.Max(0, longAxis-shortAxis) * 0.5
	axis := Heading(rotation)
	offset := axis.Scale(half)

	return Capsule{
		Start:  center.Sub(offset),
		End:    center.Add(offset),
		Radius: shortAxis * 0.5,
		Axis:   axis,
	}
}

// ClosestPointOnSegment projects point onto [start, end]. Segments shorter than
// eps return start.
func ClosestPointOnSegment(point, start, end Vec2, eps float64) Vec2 {
	segment := end.Sub(start)
	lengthSq := segment.Dot(segment)
	if lengthSq <= eps*eps {
		return start
	}

	t := point.Sub(start).Dot(segment) / lengthSq
	return start.Add(segment.Scale(Clamp(t, 0, 1)))
}

// PointToSegmentDistanceSquared is the squared distance from point to [start, end].
func PointToSegmentDistanceSquared(point, start, end Vec2, eps float64) float64 {
	delta := point.Sub(ClosestPointOnSegment(point, start, end, eps))
	return delta.Dot(delta)
}

// Hit is the result of a circle-capsule test. Normal points from the capsule
// toward the circle and is only meaningful when Hit is true.
type Hit struct {
	Hit    bool
	Normal Vec2
}

// CircleCapsule tests a circle against an oriented capsule. When the circle
// center sits on the capsule segment the normal falls back to the capsule axis.
func CircleCapsule(circleCenter Vec2, circleRadius float64, capsuleCenter Vec2, rotation, longAxis, shortAxis, eps float64) Hit {
	capsule := CapsuleEndpoints(capsuleCenter, rotation, longAxis, shortAxis)
	closest := ClosestPointOnSegment(circleCenter, capsule.Start, capsule.End, eps)
	delta := circleCenter.Sub(closest)
	distanceSq := delta.Dot(delta)
	sum := circleRadius + capsule.Radius

	if distanceSq > sum*sum {
		return Hit{}
	}
	if distanceSq <= eps*eps {
		return Hit{Hit: true, Normal: capsule.Axis}
	}
	return Hit{Hit: true, Normal: delta.Scale(1 / math.Sqrt(distanceSq))}
}
