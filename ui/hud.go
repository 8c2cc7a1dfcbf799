package ui

import (
	"fmt"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/mctar/pasteroids/replay"
	"github.com/mctar/pasteroids/systems"
	"github.com/mctar/pasteroids/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Score        int
	Wave         int
	State        string // "attract", "playing" or "gameOver"
	Paused       bool
	WeaponName   string
	WeaponReady  float32 // 1 when the weapon can fire
	Replay       replay.Status
	Noodles      int
	ScreenWidth  int32
	ScreenHeight int32
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer

	rl.DrawText(fmt.Sprintf("SCORE %06d", data.Score), 10, 10, 20, rl.White)
	rl.DrawText(fmt.Sprintf("Wave %d | Hazards %d", data.Wave, data.Noodles), 10, 35, 16, rl.LightGray)
	r.DrawBar(10, 55, data.WeaponName, data.WeaponReady, 260, false)

	switch data.Replay.Mode {
	case replay.ModeRecording:
		rl.DrawCircle(data.ScreenWidth-110, 18, 6, rl.Red)
		rl.DrawText(fmt.Sprintf("REC %d", data.Replay.Tick), data.ScreenWidth-98, 10, 16, rl.Red)
	case replay.ModePlayback:
		rl.DrawText(fmt.Sprintf("REPLAY %d/%d", data.Replay.Tick, data.Replay.TotalTicks), data.ScreenWidth-160, 10, 16, r.Theme.Accent)
	}

	mid := data.ScreenHeight / 2
	switch data.State {
	case "attract":
		r.DrawCenteredText("PASTEROIDS", data.ScreenWidth, mid-60, 48, rl.White)
		r.DrawCenteredText("Press Space to start", data.ScreenWidth, mid+10, 20, rl.LightGray)
	case "gameOver":
		r.DrawCenteredText("GAME OVER", data.ScreenWidth, mid-60, 48, r.Theme.Warning)
		r.DrawCenteredText(fmt.Sprintf("Final score %d", data.Score), data.ScreenWidth, mid+4, 20, rl.White)
		r.DrawCenteredText("Press Space to play again", data.ScreenWidth, mid+30, 16, rl.LightGray)
	}
	if data.Paused {
		r.DrawCenteredText("PAUSED", data.ScreenWidth, mid-20, 32, rl.Yellow)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// DebugData holds the numbers shown by the debug overlay.
type DebugData struct {
	FrameMS       float64
	AccumulatorMS float64
	FixedStepMS   float64
	SubSteps      int
	FPS           float64
	Tick          int
	Entities      int
	Projectiles   int
	Explosions    int
	LastReport    systems.CollisionReport
	TargetFPS     int32
}

// DebugPanel renders frame timing and a target-FPS slider.
type DebugPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewDebugPanel creates a new debug panel.
func NewDebugPanel(x, y, width int32) *DebugPanel {
	return &DebugPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (d *DebugPanel) SetPosition(x, y int32) {
	d.x = x
	d.y = y
}

// Draw renders the panel and returns the target FPS chosen on the slider.
func (d *DebugPanel) Draw(data DebugData) int32 {
	r := d.renderer
	padding := r.Theme.Padding
	lh := r.Theme.LineHeight

	r.DrawPanel(d.x, d.y, d.width, lh*13+padding*2)

	x := d.x + padding
	y := d.y + padding
	y = r.DrawSectionHeader(x, y, "Debug")
	y = r.DrawLabelValue(x, y, "Frame", fmt.Sprintf("%.2f ms", data.FrameMS))
	y = r.DrawLabelValue(x, y, "FPS", fmt.Sprintf("%.1f", data.FPS))
	y = r.DrawLabelValue(x, y, "Step", fmt.Sprintf("%.2f ms", data.FixedStepMS))
	y = r.DrawLabelValue(x, y, "Backlog", fmt.Sprintf("%.2f ms", data.AccumulatorMS))
	y = r.DrawLabelValue(x, y, "Substeps", fmt.Sprintf("%d", data.SubSteps))
	y = r.DrawLabelValue(x, y, "Tick", fmt.Sprintf("%d", data.Tick))
	y = r.DrawLabelValue(x, y, "Entities", fmt.Sprintf("%d (%d shots, %d blasts)", data.Entities, data.Projectiles, data.Explosions))
	rep := data.LastReport
	y = r.DrawLabelValue(x, y, "Last tick", fmt.Sprintf("%d hits, %d kills, %d splits", rep.Hits, rep.Destroyed, rep.Splits))

	y += 4
	rl.DrawText(fmt.Sprintf("Target FPS: %d", data.TargetFPS), x, y, r.Theme.FontSize, r.Theme.LabelColor)
	y += lh
	value := gui.SliderBar(
		rl.Rectangle{X: float32(x + 20), Y: float32(y), Width: float32(d.width - padding*2 - 50), Height: float32(lh)},
		"15", "240",
		float32(data.TargetFPS), 15, 240,
	)
	return int32(value)
}

// PerfPanel renders the per-phase tick timing table.
type PerfPanel struct {
	renderer *Renderer
	registry *systems.SystemRegistry
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32, registry *systems.SystemRegistry) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		registry: registry,
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x := p.x
	y := p.y

	p.renderer.DrawPanel(x-6, y-6, 270, int32(len(p.registry.IDs()))*14+64)

	rl.DrawText("Tick Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Avg: %s  p95: %s", stats.AvgTickDuration.Round(time.Microsecond), stats.P95TickDuration.Round(time.Microsecond)), x, y, 14, rl.Yellow)
	y += 18

	for _, id := range p.registry.IDs() {
		avg := stats.PhaseAvg[id]
		pct := stats.PhasePct[id]

		color := rl.LightGray
		if pct > 40 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-12s %8s %5.1f%%", p.registry.GetName(id), avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
