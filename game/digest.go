package game

import (
	"encoding/binary"
	"hash/fnv"
	"math"

	"github.com/mctar/pasteroids/world"
)

// Digest hashes the exact bit patterns of every body's kinematic state, in
// creation order, together with score and wave. Two runs that diverge in any
// bit produce different digests.
func Digest(w *world.World) uint64 {
	h := fnv.New64a()
	var buf []byte

	put := func(v float64) {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
	}

	for id, tr := range w.Transforms() {
		buf = buf[:0]
		buf = binary.LittleEndian.AppendUint64(buf, uint64(id))
		put(tr.Position.X)
		put(tr.Position.Y)
		put(tr.Rotation)
		if rb := w.RigidBody(id); rb != nil {
			put(rb.Velocity.X)
			put(rb.Velocity.Y)
			put(rb.AngularVelocity)
		}
		h.Write(buf)
	}

	buf = buf[:0]
	buf = binary.LittleEndian.AppendUint64(buf, uint64(int64(w.Score)))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(int64(w.Wave)))
	h.Write(buf)

	return h.Sum64()
}
