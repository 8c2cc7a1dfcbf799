package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/mctar/pasteroids/config"
	"github.com/mctar/pasteroids/game"
	"github.com/mctar/pasteroids/inspector"
	"github.com/mctar/pasteroids/renderer"
	"github.com/mctar/pasteroids/replay"
	"github.com/mctar/pasteroids/systems"
	"github.com/mctar/pasteroids/telemetry"
	"github.com/mctar/pasteroids/ui"
	"github.com/mctar/pasteroids/world"
)

const defaultReplayPath = "replay.json"

type flags struct {
	configPath string
	headless   bool
	seed       int64
	maxTicks   int
	outputDir  string
	replayPath string
	recordPath string
	width      int
	height     int
}

func main() {
	var f flags
	flag.StringVar(&f.configPath, "config", "", "Path to config.yaml or config.toml (empty = use defaults)")
	flag.BoolVar(&f.headless, "headless", false, "Run without graphics")
	flag.Int64Var(&f.seed, "seed", 0, "RNG seed (0 = config seed, -1 = wall clock)")
	flag.IntVar(&f.maxTicks, "max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	flag.StringVar(&f.outputDir, "output-dir", "", "Output directory for CSV logs and config snapshot")
	flag.StringVar(&f.replayPath, "replay", "", "Play a replay file (.json or .mpk)")
	flag.StringVar(&f.recordPath, "record", "", "Record the session and write the replay here on exit")
	flag.IntVar(&f.width, "width", 0, "World width (0 = use config)")
	flag.IntVar(&f.height, "height", 0, "World height (0 = use config)")

	flag.Parse()

	if err := config.Init(f.configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	output, err := telemetry.NewOutputManager(f.outputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	opts := sessionOptions(cfg, f, output)

	if f.headless {
		err = runHeadless(cfg, f, opts)
	} else {
		err = runInteractive(cfg, f, opts)
	}
	if err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func sessionOptions(cfg *config.Config, f flags, output *telemetry.OutputManager) game.Options {
	opts := game.DefaultOptions(cfg)
	switch {
	case f.seed == -1:
		opts.Init.Seed = nil
	case f.seed != 0:
		opts.Init.Seed = world.Seed(f.seed)
	}
	if f.width > 0 {
		opts.Width = float64(f.width)
	}
	if f.height > 0 {
		opts.Height = float64(f.height)
	}
	if f.recordPath != "" {
		opts.Record = true
		// Keep the whole run so the exported header still matches frame 0.
		if f.maxTicks+1 > opts.ReplayCapacity {
			opts.ReplayCapacity = f.maxTicks + 1
		}
	}
	opts.Logger = slog.Default()
	opts.Output = output
	return opts
}

func runHeadless(cfg *config.Config, f flags, opts game.Options) error {
	opts.StartPlaying = true
	opts.Restart = false
	sess := game.NewSession(cfg, opts)
	defer sess.Close()

	playing := false
	if f.replayPath != "" {
		data, err := replay.Load(f.replayPath)
		if err != nil {
			return err
		}
		if err := sess.StartPlayback(data); err != nil {
			return fmt.Errorf("start playback: %w", err)
		}
		playing = true
	}

	slog.Info("starting headless session",
		"seed", seedAttr(opts),
		"max_ticks", f.maxTicks,
		"replay", f.replayPath,
	)

	start := time.Now()
	var runErr error
	for {
		if err := sess.Step(cfg.Derived.FixedStep); err != nil {
			runErr = err
			break
		}
		if f.maxTicks > 0 && sess.Tick() >= f.maxTicks {
			slog.Info("max ticks reached", "tick", sess.Tick())
			break
		}
		if sess.State() == game.GameOver {
			slog.Info("game over", "tick", sess.Tick(), "score", sess.World().Score)
			break
		}
		if playing && sess.ReplayStatus().Mode != replay.ModePlayback {
			slog.Info("replay finished", "tick", sess.Tick())
			break
		}
	}

	w := sess.World()
	slog.Info("headless session finished",
		"ticks", sess.Tick(),
		"score", w.Score,
		"wave", w.Wave,
		"digest", fmt.Sprintf("%016x", game.Digest(w)),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if err := saveRecording(sess, f.recordPath); err != nil {
		return errors.Join(runErr, err)
	}
	return runErr
}

func runInteractive(cfg *config.Config, f flags, opts game.Options) error {
	width, height := int32(opts.Width), int32(opts.Height)
	rl.InitWindow(width, height, cfg.Screen.Title)
	defer rl.CloseWindow()

	targetFPS := int32(cfg.Screen.TargetFPS)
	rl.SetTargetFPS(targetFPS)

	keyboard := ui.NewKeyboard()
	opts.Source = keyboard
	sess := game.NewSession(cfg, opts)
	defer sess.Close()

	exportPath := f.recordPath
	if exportPath == "" {
		exportPath = defaultReplayPath
	}
	loadPath := f.replayPath
	if loadPath == "" {
		loadPath = exportPath
	}
	if f.replayPath != "" {
		if err := loadReplay(sess, f.replayPath); err != nil {
			return err
		}
	}

	overlays := ui.NewOverlayRegistry(cfg.Debug)
	hud := ui.NewHUD()
	controls := ui.NewControlsPanel(10, 80, 220)
	debugPanel := ui.NewDebugPanel(width-270, 40, 260)
	perfPanel := ui.NewPerfPanel(width-260, 46, systems.NewSystemRegistry())
	ins := inspector.NewInspector(width)
	scene := renderer.NewWorldRenderer(cfg)

	for !rl.WindowShouldClose() {
		cmds := keyboard.Poll(overlays)
		if cmds.ToggleControls {
			controls.Toggle()
		}
		handleCommands(sess, cmds, exportPath, loadPath)
		ins.HandleInput(sess.World())

		if _, err := sess.Frame(float64(rl.GetFrameTime())); err != nil {
			var inv *game.InvariantError
			if errors.As(err, &inv) {
				slog.Error("stopping on invariant violation", "tick", inv.Tick, "issues", len(inv.Issues))
			}
			return errors.Join(err, saveRecording(sess, f.recordPath))
		}

		rl.BeginDrawing()
		scene.Draw(sess.World(), renderer.Layers{
			Hitboxes:  overlays.IsEnabled(ui.OverlayHitboxes),
			FuseRings: overlays.IsEnabled(ui.OverlayHitboxes) || overlays.IsEnabled(ui.OverlayDebug),
			Trails:    overlays.IsEnabled(ui.OverlayTrails),
		})
		ins.DrawSelectionHighlight(sess.World())

		hud.Draw(hudData(sess, width, height))
		hud.DrawControls(width, height, "[A/D] Turn  [W] Thrust  [Space] Fire  [Q/E] Weapon  [P] Pause  [F1] Panel  [F6] Rec  [F7] Export  [F8] Load")

		if overlays.IsEnabled(ui.OverlayDebug) {
			if fps := debugPanel.Draw(debugData(sess, targetFPS)); fps != targetFPS && fps > 0 {
				targetFPS = fps
				rl.SetTargetFPS(targetFPS)
			}
		}
		if overlays.IsEnabled(ui.OverlayPerf) {
			if stats, ok := sess.PerfStats(); ok {
				perfPanel.Draw(stats)
			}
		}
		handleCommands(sess, controls.Draw(overlays, sess.ReplayStatus()), exportPath, loadPath)
		ins.Draw(sess.World())

		rl.EndDrawing()
	}

	return saveRecording(sess, f.recordPath)
}

// handleCommands applies replay commands. Failures are logged, never fatal.
func handleCommands(sess *game.Session, cmds ui.Commands, exportPath, loadPath string) {
	if cmds.ToggleRecording {
		sess.ToggleRecording()
		slog.Info("recording toggled", "mode", sess.ReplayStatus().Mode)
	}
	if cmds.ExportReplay {
		if err := saveRecording(sess, exportPath); err != nil {
			slog.Error("replay export failed", "error", err)
		}
	}
	if cmds.LoadReplay {
		if err := loadReplay(sess, loadPath); err != nil {
			slog.Error("replay load failed", "error", err)
		}
	}
}

func saveRecording(sess *game.Session, path string) error {
	if path == "" {
		return nil
	}
	data, err := sess.ExportReplay()
	if err != nil {
		return fmt.Errorf("export replay: %w", err)
	}
	if err := replay.Save(path, data); err != nil {
		return err
	}
	slog.Info("replay saved", "path", path, "frames", len(data.Frames))
	return nil
}

func loadReplay(sess *game.Session, path string) error {
	data, err := replay.Load(path)
	if err != nil {
		return err
	}
	return sess.StartPlayback(data)
}

func hudData(sess *game.Session, width, height int32) ui.HUDData {
	w := sess.World()
	data := ui.HUDData{
		Score:        w.Score,
		Wave:         w.Wave,
		State:        sess.State().String(),
		Paused:       sess.Paused(),
		Replay:       sess.ReplayStatus(),
		Noodles:      w.NoodleCount(),
		ScreenWidth:  width,
		ScreenHeight: height,
	}
	if ws := w.WeaponState(w.PlayerShipID()); ws != nil {
		data.WeaponName = sess.Weapons().WeaponName(ws.WeaponID)
		data.WeaponReady = 1
		if cd := sess.Weapons().WeaponCooldown(ws.WeaponID); cd > 0 {
			data.WeaponReady = float32(1 - ws.CooldownRemaining/cd)
		}
	}
	return data
}

func debugData(sess *game.Session, targetFPS int32) ui.DebugData {
	w := sess.World()
	fi := sess.FrameInfo()
	return ui.DebugData{
		FrameMS:       fi.FrameMS,
		AccumulatorMS: fi.AccumulatorMS,
		FixedStepMS:   fi.FixedStepMS,
		SubSteps:      fi.SubSteps,
		FPS:           fi.FPS,
		Tick:          sess.Tick(),
		Entities:      w.EntityCount(),
		Projectiles:   w.ProjectileCount(),
		Explosions:    w.ExplosionCount(),
		LastReport:    sess.LastReport(),
		TargetFPS:     targetFPS,
	}
}

func seedAttr(opts game.Options) any {
	if opts.Init.Seed == nil {
		return "clock"
	}
	return *opts.Init.Seed
}
