package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight + 2
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawBar draws a progress bar for [0, 1] values. Low values use the warning
// fill when lowIsBad is set.
func (r *Renderer) DrawBar(x, y int32, label string, value float32, width int32, lowIsBad bool) int32 {
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}

	barX := x + r.Theme.LabelWidth
	barWidth := width - r.Theme.LabelWidth - 40

	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(barX, y+2, barWidth, r.Theme.BarHeight, r.Theme.BarBg)

	fill := r.Theme.BarFill
	if lowIsBad && value < 0.3 {
		fill = r.Theme.BarFillLow
	}
	rl.DrawRectangle(barX, y+2, int32(float32(barWidth)*value), r.Theme.BarHeight, fill)

	rl.DrawText(fmt.Sprintf("%.0f%%", value*100), barX+barWidth+5, y, r.Theme.FontSize, r.Theme.ValueColor)

	return y + r.Theme.LineHeight + 2
}

// DrawCenteredText draws text horizontally centered on the screen.
func (r *Renderer) DrawCenteredText(text string, screenWidth, y, size int32, color rl.Color) {
	w := rl.MeasureText(text, size)
	rl.DrawText(text, (screenWidth-w)/2, y, size, color)
}
