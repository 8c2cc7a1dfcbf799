// Package ui draws the HUD, the debug panels and the overlay toggles, and turns
// the keyboard into an input source. The simulation never reads anything owned
// here.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	BarBg          rl.Color
	BarFill        rl.Color
	BarFillLow     rl.Color
	BarFillHigh    rl.Color
	Accent         rl.Color
	Warning        rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 12, G: 14, B: 22, A: 220},
		PanelBorder:    rl.Color{R: 60, G: 70, B: 90, A: 255},
		SectionHeader:  rl.Yellow,
		LabelColor:     rl.LightGray,
		ValueColor:     rl.RayWhite,
		BarBg:          rl.Color{R: 40, G: 40, B: 48, A: 255},
		BarFill:        rl.Color{R: 100, G: 150, B: 220, A: 255},
		BarFillLow:     rl.Color{R: 200, G: 100, B: 100, A: 255},
		BarFillHigh:    rl.Color{R: 100, G: 200, B: 120, A: 255},
		Accent:         rl.Color{R: 120, G: 220, B: 255, A: 255},
		Warning:        rl.Color{R: 255, G: 120, B: 90, A: 255},
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     80,
		BarHeight:      10,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}
