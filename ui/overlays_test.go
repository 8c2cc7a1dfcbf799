package ui

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"

	"github.com/mctar/pasteroids/config"
)

func TestOverlayRegistry_SeededFromConfig(t *testing.T) {
	reg := NewOverlayRegistry(config.DebugConfig{Hitboxes: true, Trails: true})

	assert.True(t, reg.IsEnabled(OverlayHitboxes))
	assert.True(t, reg.IsEnabled(OverlayTrails))
	assert.False(t, reg.IsEnabled(OverlayDebug))
	assert.Equal(t, []OverlayID{OverlayHitboxes, OverlayTrails}, reg.EnabledOverlays())
}

func TestOverlayRegistry_ToggleExclusive(t *testing.T) {
	reg := NewOverlayRegistry(config.DebugConfig{Overlay: true})
	assert.True(t, reg.IsEnabled(OverlayDebug))

	assert.True(t, reg.Toggle(OverlayPerf))
	assert.False(t, reg.IsEnabled(OverlayDebug), "perf replaces the debug panel")

	assert.False(t, reg.Toggle(OverlayPerf))
	assert.False(t, reg.Toggle("missing"))
}

func TestOverlayRegistry_HandleKeyPress(t *testing.T) {
	reg := NewOverlayRegistry(config.DebugConfig{})

	id, on, ok := reg.HandleKeyPress(rl.KeyH)
	assert.True(t, ok)
	assert.Equal(t, OverlayHitboxes, id)
	assert.True(t, on)

	_, _, ok = reg.HandleKeyPress(rl.KeyZ)
	assert.False(t, ok)
}

func TestOverlayRegistry_Categories(t *testing.T) {
	reg := NewOverlayRegistry(config.DebugConfig{})

	assert.Equal(t, []string{"visual", "debug"}, reg.Categories())
	assert.Len(t, reg.ByCategory("debug"), 2)
}
