// Package input turns per-tick control snapshots into ship intent.
//
// A Source yields exactly one Snapshot per simulation tick. Sources are
// swappable at runtime so a recorded replay can drive the same pipeline as
// the keyboard.
package input

import (
	"github.com/mctar/pasteroids/components"
	"github.com/mctar/pasteroids/world"
)

// Snapshot is the control state sampled for one tick. Held fields are level
// triggered; Start and Pause are edge triggered and true for one tick only.
type Snapshot struct {
	Left   bool `json:"left" msgpack:"left"`
	Right  bool `json:"right" msgpack:"right"`
	Thrust bool `json:"thrust" msgpack:"thrust"`
	Fire   bool `json:"fire" msgpack:"fire"`
	Start  bool `json:"startPressed" msgpack:"startPressed"`
	Pause  bool `json:"pausePressed" msgpack:"pausePressed"`

	// WeaponCycle is -1, 0 or +1.
	WeaponCycle int `json:"weaponCycle" msgpack:"weaponCycle"`
}

// Source yields one snapshot per tick.
type Source interface {
	Read() Snapshot
}

// Idle is a Source with nothing pressed.
type Idle struct{}

func (Idle) Read() Snapshot { return Snapshot{} }

// Script maps a tick index to the snapshot for that tick.
type Script func(tick int) Snapshot

// ScriptedSource plays a Script, counting ticks from zero.
type ScriptedSource struct {
	script Script
	tick   int
}

// NewScriptedSource wraps script as a Source.
func NewScriptedSource(script Script) *ScriptedSource {
	return &ScriptedSource{script: script}
}

func (s *ScriptedSource) Read() Snapshot {
	snap := s.script(s.tick)
	s.tick++
	return snap
}

// Tick returns the number of snapshots read so far.
func (s *ScriptedSource) Tick() int {
	return s.tick
}

// Reset rewinds the script to tick zero.
func (s *ScriptedSource) Reset() {
	s.tick = 0
}

// Frame is what the session acts on after input has been applied to the ship.
type Frame struct {
	StartRequested bool
	FireRequested  bool
	WeaponCycle    int
	PauseToggled   bool
	Snapshot       Snapshot
}

// System reads the current source once per tick and writes ship intent.
type System struct {
	source Source
}

// NewSystem creates an input system reading from source.
func NewSystem(source Source) *System {
	if source == nil {
		source = Idle{}
	}
	return &System{source: source}
}

// SetSource swaps the snapshot source.
func (s *System) SetSource(source Source) {
	if source == nil {
		source = Idle{}
	}
	s.source = source
}

// Source returns the current snapshot source.
func (s *System) Source() Source {
	return s.source
}

// Update reads one snapshot and applies it to the player ship. Intent is
// cleared every tick and only set while active (playing and not paused). When
// both turn keys are held, right wins.
func (s *System) Update(w *world.World, active bool) Frame {
	snap := s.source.Read()

	if sc := w.ShipControl(w.PlayerShipID()); sc != nil {
		sc.Turn = components.TurnNone
		sc.Thrusting = false

		if active {
			if snap.Left {
				sc.Turn = components.TurnLeft
			}
			if snap.Right {
				sc.Turn = components.TurnRight
			}
			sc.Thrusting = snap.Thrust
		}
	}

	return Frame{
		StartRequested: snap.Start,
		FireRequested:  snap.Fire && active,
		WeaponCycle:    snap.WeaponCycle,
		PauseToggled:   snap.Pause,
		Snapshot:       snap,
	}
}
