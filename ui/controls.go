package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/mctar/pasteroids/replay"
)

// ControlsPanel renders the left-side panel with overlay toggles and replay
// buttons.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetVisible shows or hides the panel.
func (c *ControlsPanel) SetVisible(visible bool) {
	c.visible = visible
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Draw renders the panel. Overlay buttons toggle the registry directly; replay
// buttons are reported back as Commands.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry, status replay.Status) Commands {
	var cmds Commands
	if !c.visible {
		return cmds
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight
	buttonHeight := lineHeight + 6

	categories := overlays.Categories()
	rows := len(overlays.All()) + len(categories) + 4
	panelHeight := int32(rows)*(buttonHeight+2) + padding*2
	r.DrawPanel(c.x, c.y, c.width, panelHeight)

	y := c.y + padding
	rl.DrawText("Overlays", c.x+padding, y, 16, rl.White)
	y += lineHeight + 4

	for _, category := range categories {
		y = r.DrawSectionHeader(c.x+padding, y, categoryLabel(category))
		for _, desc := range overlays.ByCategory(category) {
			if c.button(y, toggleLabel(desc, overlays.IsEnabled(desc.ID))) {
				overlays.Toggle(desc.ID)
				cmds.Overlays = append(cmds.Overlays, desc.ID)
			}
			y += buttonHeight + 2
		}
		y += 4
	}

	y = r.DrawSectionHeader(c.x+padding, y, "Replay")
	recordLabel := "Start recording [F6]"
	if status.Mode == replay.ModeRecording {
		recordLabel = "Stop recording [F6]"
	}
	cmds.ToggleRecording = c.button(y, recordLabel)
	y += buttonHeight + 2
	cmds.ExportReplay = c.button(y, "Export [F7]")
	y += buttonHeight + 2
	cmds.LoadReplay = c.button(y, "Load [F8]")

	return cmds
}

func (c *ControlsPanel) button(y int32, text string) bool {
	padding := c.renderer.Theme.Padding
	rect := rl.Rectangle{
		X:      float32(c.x + padding),
		Y:      float32(y),
		Width:  float32(c.width - padding*2),
		Height: float32(c.renderer.Theme.LineHeight + 6),
	}
	return gui.Button(rect, text)
}

func toggleLabel(desc OverlayDescriptor, enabled bool) string {
	state := "off"
	if enabled {
		state = "on"
	}
	if desc.KeyLabel == "" {
		return fmt.Sprintf("%s: %s", desc.Name, state)
	}
	return fmt.Sprintf("%s: %s [%s]", desc.Name, state, desc.KeyLabel)
}

// categoryLabel returns a display label for a category.
func categoryLabel(cat string) string {
	switch cat {
	case "visual":
		return "Visual"
	case "debug":
		return "Debug"
	default:
		return cat
	}
}
