package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/mctar/pasteroids/input"
)

// KeyState reports keyboard state. The raylib implementation is used by the
// game window; tests substitute their own.
type KeyState interface {
	IsKeyDown(key int32) bool
	IsKeyPressed(key int32) bool
}

type raylibKeys struct{}

func (raylibKeys) IsKeyDown(key int32) bool { return rl.IsKeyDown(key) }
func (raylibKeys) IsKeyPressed(key int32) bool { return rl.IsKeyPressed(key) }

// Key bindings.
const (
	KeyTurnLeft        = rl.KeyA
	KeyTurnRight       = rl.KeyD
	KeyThrust          = rl.KeyW
	KeyFire            = rl.KeySpace // also starts and restarts the game
	KeyPause           = rl.KeyP
	KeyPrevWeapon      = rl.KeyQ
	KeyNextWeapon      = rl.KeyE
	KeyToggleRecording = rl.KeyF6
	KeyExportReplay    = rl.KeyF7
	KeyLoadReplay      = rl.KeyF8
	KeyControlsPanel   = rl.KeyF1
)

// Commands are front-end actions polled once per frame. They never reach the
// simulation as input.
type Commands struct {
	ToggleRecording bool
	ExportReplay    bool
	LoadReplay      bool
	ToggleControls  bool
	Overlays        []OverlayID // overlays toggled this frame
}

// Keyboard is an input.Source fed by the keyboard.
//
// Poll runs once per rendered frame. Held keys are sampled there, and edge
// presses are latched until the next Read so a press is seen by exactly one
// tick even when a frame runs zero or several ticks.
type Keyboard struct {
	keys    KeyState
	held    input.Snapshot
	pending input.Snapshot
}

// NewKeyboard creates a keyboard source reading raylib state.
func NewKeyboard() *Keyboard {
	return NewKeyboardWith(raylibKeys{})
}

// NewKeyboardWith creates a keyboard source over keys.
func NewKeyboardWith(keys KeyState) *Keyboard {
	return &Keyboard{keys: keys}
}

// Poll samples the keyboard. Overlay keys toggle overlays directly.
func (k *Keyboard) Poll(overlays *OverlayRegistry) Commands {
	keys := k.keys

	k.held = input.Snapshot{
		Left:   keys.IsKeyDown(KeyTurnLeft),
		Right:  keys.IsKeyDown(KeyTurnRight),
		Thrust: keys.IsKeyDown(KeyThrust),
		Fire:   keys.IsKeyDown(KeyFire),
	}

	if keys.IsKeyPressed(KeyFire) {
		k.pending.Start = true
	}
	if keys.IsKeyPressed(KeyPause) {
		k.pending.Pause = true
	}
	if keys.IsKeyPressed(KeyPrevWeapon) {
		k.pending.WeaponCycle = -1
	}
	if keys.IsKeyPressed(KeyNextWeapon) {
		k.pending.WeaponCycle = 1
	}

	cmds := Commands{
		ToggleRecording: keys.IsKeyPressed(KeyToggleRecording),
		ExportReplay:    keys.IsKeyPressed(KeyExportReplay),
		LoadReplay:      keys.IsKeyPressed(KeyLoadReplay),
		ToggleControls:  keys.IsKeyPressed(KeyControlsPanel),
	}
	if overlays != nil {
		for _, desc := range overlays.All() {
			if desc.Key == 0 || !keys.IsKeyPressed(desc.Key) {
				continue
			}
			if id, _, ok := overlays.HandleKeyPress(desc.Key); ok {
				cmds.Overlays = append(cmds.Overlays, id)
			}
		}
	}
	return cmds
}

// Read returns the held state plus any latched presses, then clears the latch.
func (k *Keyboard) Read() input.Snapshot {
	snap := k.held
	snap.Start = k.pending.Start
	snap.Pause = k.pending.Pause
	snap.WeaponCycle = k.pending.WeaponCycle
	k.pending = input.Snapshot{}
	return snap
}

var _ input.Source = (*Keyboard)(nil)
