package inspector

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Widget colors
var (
	ColorBarBg       = rl.Color{R: 40, G: 40, B: 40, A: 255}
	ColorBarFill     = rl.Color{R: 100, G: 180, B: 100, A: 255}
	ColorBarLow      = rl.Color{R: 180, G: 80, B: 80, A: 255}
	ColorText        = rl.Color{R: 220, G: 220, B: 220, A: 255}
	ColorTextDim     = rl.Color{R: 150, G: 150, B: 150, A: 255}
	ColorAngleBg     = rl.Color{R: 50, G: 50, B: 60, A: 255}
	ColorAngleNeedle = rl.Color{R: 255, G: 200, B: 100, A: 255}
	ColorBoolOn      = rl.Color{R: 100, G: 200, B: 100, A: 255}
	ColorBoolOff     = rl.Color{R: 80, G: 80, B: 80, A: 255}
)

// Row heights returned by the widgets.
const (
	labelHeight = 20
	barHeight   = 18
	angleHeight = 44
	boolHeight  = 18
)

// DrawLabel renders a text value.
func DrawLabel(x, y int32, name string, value any, options map[string]string) int32 {
	text := FormatValue(value, options["fmt"])
	rl.DrawText(fmt.Sprintf("%s: %s", name, text), x, y, 16, ColorText)
	return labelHeight
}

// DrawBar renders a horizontal bar scaled by the max option.
func DrawBar(x, y int32, name string, value float64, options map[string]string) int32 {
	ratio := float32(value / GetMax(options))
	if ratio > 1 {
		ratio = 1
	}
	if ratio < 0 {
		ratio = 0
	}

	width := int32(120)
	height := int32(14)

	rl.DrawText(name, x, y, 14, ColorTextDim)

	barX := x + 110
	rl.DrawRectangle(barX, y, width, height, ColorBarBg)

	fill := ColorBarFill
	if ratio < 0.3 {
		fill = ColorBarLow
	}
	rl.DrawRectangle(barX, y, int32(float32(width)*ratio), height, fill)

	rl.DrawText(FormatValue(value, options["fmt"]), barX+width+5, y, 14, ColorTextDim)

	return barHeight
}

// DrawAngle renders a compass-style angle indicator. Zero points along +x and
// angles grow clockwise on screen.
func DrawAngle(x, y int32, name string, radians float64) int32 {
	size := int32(40)
	centerX := x + 110 + size/2
	centerY := y + size/2

	rl.DrawText(name, x, y+size/2-7, 14, ColorTextDim)

	rl.DrawCircle(centerX, centerY, float32(size/2), ColorAngleBg)
	rl.DrawCircleLines(centerX, centerY, float32(size/2), ColorTextDim)

	needle := float64(size/2 - 4)
	rl.DrawLineEx(
		rl.Vector2{X: float32(centerX), Y: float32(centerY)},
		rl.Vector2{X: float32(float64(centerX) + needle*math.Cos(radians)), Y: float32(float64(centerY) + needle*math.Sin(radians))},
		2,
		ColorAngleNeedle,
	)

	degrees := math.Mod(radians*180/math.Pi, 360)
	rl.DrawText(fmt.Sprintf("%.0f deg", degrees), x+110+size+5, y+size/2-7, 14, ColorTextDim)

	return angleHeight
}

// DrawBool renders an on/off indicator.
func DrawBool(x, y int32, name string, value bool) int32 {
	rl.DrawText(name, x, y, 14, ColorTextDim)

	indicatorX := x + 110
	indicatorSize := int32(14)

	color := ColorBoolOff
	text := "OFF"
	if value {
		color = ColorBoolOn
		text = "ON"
	}

	rl.DrawRectangle(indicatorX, y, indicatorSize, indicatorSize, color)
	rl.DrawText(text, indicatorX+indicatorSize+5, y, 14, color)

	return boolHeight
}

// DrawField renders a field using its widget type and returns its height.
func DrawField(x, y int32, field Field) int32 {
	switch field.Widget {
	case WidgetBar:
		if v, ok := GetFloatValue(field.Value); ok {
			return DrawBar(x, y, field.Name, v, field.Options)
		}
	case WidgetAngle:
		if v, ok := GetFloatValue(field.Value); ok {
			return DrawAngle(x, y, field.Name, v)
		}
	case WidgetBool:
		if v, ok := field.Value.(bool); ok {
			return DrawBool(x, y, field.Name, v)
		}
	}
	return DrawLabel(x, y, field.Name, field.Value, field.Options)
}

// FieldHeight is the height DrawField will use for field.
func FieldHeight(field Field) int32 {
	switch field.Widget {
	case WidgetBar:
		if _, ok := GetFloatValue(field.Value); ok {
			return barHeight
		}
	case WidgetAngle:
		if _, ok := GetFloatValue(field.Value); ok {
			return angleHeight
		}
	case WidgetBool:
		if _, ok := field.Value.(bool); ok {
			return boolHeight
		}
	}
	return labelHeight
}
