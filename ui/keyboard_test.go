package ui

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"

	"github.com/mctar/pasteroids/config"
	"github.com/mctar/pasteroids/input"
)

type fakeKeys struct {
	down    map[int32]bool
	pressed map[int32]bool
}

func newFakeKeys() *fakeKeys {
	return &fakeKeys{down: map[int32]bool{}, pressed: map[int32]bool{}}
}

func (f *fakeKeys) IsKeyDown(key int32) bool { return f.down[key] }
func (f *fakeKeys) IsKeyPressed(key int32) bool { return f.pressed[key] }

func (f *fakeKeys) release() {
	f.down = map[int32]bool{}
	f.pressed = map[int32]bool{}
}

func TestKeyboard_HeldKeys(t *testing.T) {
	keys := newFakeKeys()
	kb := NewKeyboardWith(keys)

	keys.down[KeyTurnLeft] = true
	keys.down[KeyThrust] = true
	keys.down[KeyFire] = true
	kb.Poll(nil)

	snap := kb.Read()
	assert.Equal(t, input.Snapshot{Left: true, Thrust: true, Fire: true}, snap)

	// Held state repeats for every tick of the frame.
	assert.Equal(t, snap, kb.Read())
}

func TestKeyboard_EdgesLatchForOneRead(t *testing.T) {
	keys := newFakeKeys()
	kb := NewKeyboardWith(keys)

	keys.pressed[KeyPause] = true
	keys.pressed[KeyNextWeapon] = true
	keys.pressed[KeyFire] = true
	kb.Poll(nil)
	keys.release()

	first := kb.Read()
	assert.True(t, first.Pause)
	assert.True(t, first.Start)
	assert.Equal(t, 1, first.WeaponCycle)

	second := kb.Read()
	assert.False(t, second.Pause)
	assert.False(t, second.Start)
	assert.Zero(t, second.WeaponCycle)
}

func TestKeyboard_EdgeSurvivesFrameWithoutTicks(t *testing.T) {
	keys := newFakeKeys()
	kb := NewKeyboardWith(keys)

	keys.pressed[KeyPrevWeapon] = true
	kb.Poll(nil)
	keys.release()
	kb.Poll(nil)

	assert.Equal(t, -1, kb.Read().WeaponCycle)
}

func TestKeyboard_Commands(t *testing.T) {
	keys := newFakeKeys()
	kb := NewKeyboardWith(keys)
	overlays := NewOverlayRegistry(config.DebugConfig{})

	keys.pressed[KeyToggleRecording] = true
	keys.pressed[KeyExportReplay] = true
	keys.pressed[KeyControlsPanel] = true
	keys.pressed[rl.KeyH] = true
	cmds := kb.Poll(overlays)

	assert.True(t, cmds.ToggleRecording)
	assert.True(t, cmds.ExportReplay)
	assert.False(t, cmds.LoadReplay)
	assert.True(t, cmds.ToggleControls)
	assert.Equal(t, []OverlayID{OverlayHitboxes}, cmds.Overlays)
	assert.True(t, overlays.IsEnabled(OverlayHitboxes))

	// Commands never reach the simulation.
	assert.Equal(t, input.Snapshot{}, kb.Read())
}
