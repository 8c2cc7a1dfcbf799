// Package replay records per-tick input together with the world state needed
// to rebuild a session, and plays it back through the input pipeline.
package replay

import (
	"errors"

	"github.com/mctar/pasteroids/geom"
	"github.com/mctar/pasteroids/input"
	"github.com/mctar/pasteroids/world"
)

// Version is incremented when the file format changes.
const Version = 1

var (
	// ErrEmptyReplay is returned when there is nothing to export or play.
	ErrEmptyReplay = errors.New("replay has no frames")
	// ErrTruncated is returned when the ring buffer dropped frames that the
	// header depends on.
	ErrTruncated = errors.New("replay buffer overwrote its first frames")
	// ErrInvalidReplay wraps every validation failure of a loaded replay.
	ErrInvalidReplay = errors.New("invalid replay")
)

// Frame is one recorded tick of input.
type Frame struct {
	Tick  int            `json:"tick" msgpack:"tick"`
	Input input.Snapshot `json:"input" msgpack:"input"`
}

// Player is the ship pose at recording start.
type Player struct {
	Position geom.Vec2 `json:"position" msgpack:"position"`
	Rotation float64   `json:"rotation" msgpack:"rotation"`
}

// Bounds is the world size at recording start.
type Bounds struct {
	Width  float64 `json:"width" msgpack:"width"`
	Height float64 `json:"height" msgpack:"height"`
}

// Header is everything needed to reconstruct the world a recording started from.
type Header struct {
	Seed    int64               `json:"seed" msgpack:"seed"` // RNG state, not the original seed
	Wave    int                 `json:"wave" msgpack:"wave"`
	Player  Player              `json:"player" msgpack:"player"`
	World   Bounds              `json:"world" msgpack:"world"`
	Noodles []world.NoodleState `json:"noodles" msgpack:"noodles"`
}

// Data is a complete replay.
type Data struct {
	Version int     `json:"version" msgpack:"version"`
	Header  Header  `json:"header" msgpack:"header"`
	Frames  []Frame `json:"frames" msgpack:"frames"`
}

// HeaderFrom captures w's current state.
func HeaderFrom(w *world.World) Header {
	player := Player{Position: w.Center()}
	if tr := w.Transform(w.PlayerShipID()); tr != nil {
		player = Player{Position: tr.Position, Rotation: tr.Rotation}
	}
	return Header{
		Seed:    w.RNG.State(),
		Wave:    w.Wave,
		Player:  player,
		World:   Bounds{Width: w.Width, Height: w.Height},
		Noodles: w.NoodleStates(),
	}
}

// WorldInit returns the construction parameters that rebuild the recorded world.
func (d *Data) WorldInit() world.InitParams {
	h := d.Header
	noodles := make([]world.NoodleState, len(h.Noodles))
	copy(noodles, h.Noodles)
	return world.InitParams{
		Seed:         world.Seed(h.Seed),
		StartingWave: h.Wave,
		Ship:         &world.ShipPlacement{Position: h.Player.Position, Rotation: h.Player.Rotation},
		Noodles:      noodles,
	}
}

// Mode is the controller's current activity.
type Mode string

const (
	ModeOff       Mode = "off"
	ModeRecording Mode = "recording"
	ModePlayback  Mode = "playback"
)

// Status is the controller state for display.
type Status struct {
	Mode       Mode
	Tick       int
	TotalTicks int
}
