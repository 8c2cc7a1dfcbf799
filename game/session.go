// Package game runs one play session: the attract/playing/game-over state
// machine, wave progression, replay recording and playback, and the per-tick
// ordering of the simulation systems.
package game

import (
	"log/slog"

	"github.com/mctar/pasteroids/config"
	"github.com/mctar/pasteroids/input"
	"github.com/mctar/pasteroids/replay"
	"github.com/mctar/pasteroids/systems"
	"github.com/mctar/pasteroids/telemetry"
	"github.com/mctar/pasteroids/world"
)

// Options configure a Session.
type Options struct {
	Width, Height float64
	Init          world.InitParams
	Source        input.Source // nil reads nothing

	StartPlaying bool // skip attract
	InitialWave  int  // hazards spawned at construction, 0 for none
	Waves        bool // spawn the first wave on start and advance when cleared
	Restart      bool // start during game over rebuilds the world
	Record       bool

	ReplayCapacity    int // frames, <= 0 uses the config value
	InvariantInterval int // ticks between scans, <= 0 disables

	Logger        *slog.Logger
	Output        *telemetry.OutputManager
	LogStats      bool
	StatsCallback func(telemetry.WindowStats)
}

// DefaultOptions returns the options of the interactive game.
func DefaultOptions(cfg *config.Config) Options {
	var init world.InitParams
	if cfg.RNG.UseSeed {
		init.Seed = world.Seed(cfg.RNG.Seed)
	}
	return Options{
		Width:             float64(cfg.Screen.Width),
		Height:            float64(cfg.Screen.Height),
		Init:              init,
		Waves:             true,
		Restart:           true,
		Record:            cfg.Replay.Record,
		ReplayCapacity:    cfg.Derived.ReplayCapacity,
		InvariantInterval: cfg.Invariants.ScanInterval,
		LogStats:          cfg.Telemetry.LogStats,
	}
}

// FrameInfo describes the last rendered frame for the debug overlay.
type FrameInfo struct {
	FrameMS       float64
	AccumulatorMS float64
	FixedStepMS   float64
	SubSteps      int
	FPS           float64
}

const fpsSmoothing = 0.9

// Session owns the world and drives every system in a fixed order.
type Session struct {
	cfg  *config.Config
	opts Options
	log  *slog.Logger

	world  *world.World
	state  State
	paused bool
	tick   int

	pendingPause bool

	input      *input.System
	liveSource input.Source
	weapons    *systems.WeaponSystem
	physics    *systems.PhysicsSystem
	collision  *systems.CollisionSystem
	replay     *replay.Controller
	acc        *Accumulator

	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	waves     *telemetry.WaveTracker
	bookmarks *telemetry.BookmarkDetector
	output    *telemetry.OutputManager

	lastReport systems.CollisionReport
	frame      FrameInfo
}

// NewSession builds the world and systems described by opts.
func NewSession(cfg *config.Config, opts Options) *Session {
	if opts.Width <= 0 {
		opts.Width = float64(cfg.Screen.Width)
	}
	if opts.Height <= 0 {
		opts.Height = float64(cfg.Screen.Height)
	}
	if opts.ReplayCapacity <= 0 {
		opts.ReplayCapacity = cfg.Derived.ReplayCapacity
	}
	if opts.Source == nil {
		opts.Source = input.Idle{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Session{
		cfg:        cfg,
		opts:       opts,
		log:        logger,
		input:      input.NewSystem(opts.Source),
		liveSource: opts.Source,
		weapons:    systems.NewWeaponSystem(cfg),
		physics:    systems.NewPhysicsSystem(cfg),
		collision:  systems.NewCollisionSystem(cfg),
		replay:     replay.NewController(opts.ReplayCapacity),
		acc:        NewAccumulator(cfg),
		collector:  telemetry.NewCollector(cfg.Telemetry.StatsWindow, cfg.Derived.FixedStep),
		waves:      telemetry.NewWaveTracker(cfg.Derived.FixedStep),
		bookmarks:  telemetry.NewBookmarkDetector(10),
		output:     opts.Output,
	}
	if cfg.Telemetry.PerfCollection {
		s.perf = telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	}

	s.world = world.New(cfg, opts.Width, opts.Height, opts.Init)
	if opts.StartPlaying {
		s.state = Playing
	}
	if opts.InitialWave > 0 {
		s.spawnWave(opts.InitialWave)
	} else if opts.StartPlaying && opts.Waves {
		s.beginWaveIfNeeded()
	}

	if opts.Record {
		s.replay.StartRecording(s.world)
	} else {
		s.replay.StopRecording()
	}

	return s
}

// Step advances the session by one fixed tick. It returns an *InvariantError
// when the scan finds non-finite state.
func (s *Session) Step(dt float64) error {
	if s.perf != nil {
		s.perf.StartTick()
	}

	s.update(dt)

	s.phase(systems.PhaseInvariants)
	err := s.checkInvariants()

	if s.perf != nil {
		s.perf.EndTick()
	}
	s.tick++
	s.flushTelemetry()

	return err
}

func (s *Session) update(dt float64) {
	s.phase(systems.PhaseInput)
	frame := s.input.Update(s.world, s.state == Playing && !s.paused)
	if s.pendingPause {
		s.pendingPause = false
		frame.Snapshot.Pause = true
		frame.PauseToggled = true
	}

	s.phase(systems.PhaseReplay)
	s.replay.RecordTick(frame.Snapshot)

	switch s.state {
	case Attract:
		if frame.StartRequested {
			s.start(frame.Snapshot)
		}
	case GameOver:
		if frame.StartRequested && s.opts.Restart {
			s.Restart()
		}
		return
	}

	if s.state != Playing {
		return
	}

	if frame.PauseToggled {
		s.paused = !s.paused
	}
	if s.paused {
		return
	}

	s.phase(systems.PhaseWeapons)
	ship := s.world.PlayerShipID()
	if frame.WeaponCycle != 0 {
		s.weapons.CycleWeapon(s.world, ship, frame.WeaponCycle)
	}
	s.weapons.Update(s.world, dt)
	if frame.FireRequested && s.weapons.TryFire(s.world, ship) {
		s.collector.RecordShot()
		s.waves.RecordShot()
	}

	s.phase(systems.PhasePhysics)
	s.physics.Update(s.world, dt)

	s.phase(systems.PhaseCollision)
	s.lastReport = s.collision.Update(s.world)
	s.collector.RecordCollisions(s.lastReport)
	s.waves.RecordDestroyed(s.lastReport.Destroyed)

	s.phase(systems.PhaseWaves)
	if len(s.world.Collisions) > 0 {
		s.gameOver()
		return
	}
	if s.opts.Waves && s.world.NoodleCount() == 0 {
		s.advanceWave()
	}

	if s.replay.PlaybackFinished() {
		s.stopPlayback()
	}
}

// start leaves attract. A recording restarts from the post-spawn world, and
// the start tick is re-recorded as its first frame.
func (s *Session) start(snap input.Snapshot) {
	s.state = Playing
	s.paused = false
	if s.opts.Waves {
		s.beginWaveIfNeeded()
	}
	s.logState("session started")

	if s.replay.IsRecording() {
		s.replay.StartRecording(s.world)
		// The start tick ran without ship intent.
		snap.Left, snap.Right, snap.Thrust, snap.Fire = false, false, false, false
		s.replay.RecordTick(snap)
	}
}

func (s *Session) gameOver() {
	s.state = GameOver
	s.endWave(telemetry.WaveGameOver)
	s.logState("game over")
}

func (s *Session) phase(name string) {
	if s.perf != nil {
		s.perf.StartPhase(name)
	}
}

// Run steps the session ticks times at the fixed step, stopping at the first
// invariant violation.
func (s *Session) Run(ticks int) error {
	for range ticks {
		if err := s.Step(s.cfg.Derived.FixedStep); err != nil {
			return err
		}
	}
	return nil
}

// Frame feeds one frame of wall time through the accumulator and runs the
// resulting fixed steps.
func (s *Session) Frame(frameSeconds float64) (int, error) {
	steps := s.acc.Advance(frameSeconds)
	for i := range steps {
		if err := s.Step(s.acc.Step); err != nil {
			return i + 1, err
		}
	}
	s.updateFrameInfo(frameSeconds, steps)
	if s.perf != nil {
		s.perf.RecordFrame()
	}
	return steps, nil
}

func (s *Session) updateFrameInfo(frameSeconds float64, steps int) {
	if s.acc.MaxFrame > 0 && frameSeconds > s.acc.MaxFrame {
		frameSeconds = s.acc.MaxFrame
	}
	f := &s.frame
	f.FrameMS = frameSeconds * 1000
	f.AccumulatorMS = s.acc.Backlog() * 1000
	f.FixedStepMS = s.acc.Step * 1000
	f.SubSteps = steps

	if f.FrameMS > 0 {
		instant := 1000 / f.FrameMS
		if f.FPS == 0 || !s.cfg.Debug.FPSSmoothed {
			f.FPS = instant
		} else {
			f.FPS = f.FPS*fpsSmoothing + instant*(1-fpsSmoothing)
		}
	}
}

// Restart rebuilds the world from the session's initial parameters and
// starts playing. An active playback ends first.
func (s *Session) Restart() {
	if s.replay.IsPlaying() {
		s.stopPlayback()
	}
	s.endWave(telemetry.WaveAborted)

	init := world.InitParams{
		Seed:         s.opts.Init.Seed,
		StartingWave: s.opts.Init.StartingWave,
	}
	s.world = world.New(s.cfg, s.world.Width, s.world.Height, init)
	s.state = Playing
	s.paused = false
	s.pendingPause = false
	if s.opts.Waves {
		s.beginWaveIfNeeded()
	}
	s.logState("session restarted")

	if s.replay.IsRecording() {
		s.replay.StartRecording(s.world)
	}
}

// StartPlayback rebuilds the world from data's header and drives input from
// its frames until they run out.
func (s *Session) StartPlayback(data *replay.Data) error {
	if data == nil {
		return replay.ErrEmptyReplay
	}
	if err := data.Validate(); err != nil {
		return err
	}

	s.endWave(telemetry.WaveAborted)
	h := data.Header
	s.world = world.New(s.cfg, h.World.Width, h.World.Height, data.WorldInit())
	s.state = Playing
	s.paused = false
	s.pendingPause = false
	s.input.SetSource(s.replay.StartPlayback(data))
	s.waves.Begin(s.world.Wave, s.world.NoodleCount(), s.tick)

	s.log.Info("replay playback started", "frames", len(data.Frames), "wave", h.Wave)
	return nil
}

func (s *Session) stopPlayback() {
	s.replay.StopPlayback()
	s.input.SetSource(s.liveSource)
	s.log.Info("replay playback finished", "tick", s.tick)
}

// ExportReplay returns the current recording.
func (s *Session) ExportReplay() (*replay.Data, error) {
	return s.replay.Export()
}

// ToggleRecording stops the active recording or starts a new one from the
// current world.
func (s *Session) ToggleRecording() {
	s.replay.ToggleRecording(s.world)
}

// TogglePause queues a pause toggle for the next tick. It goes through the
// recorded input so replays pause at the same tick.
func (s *Session) TogglePause() {
	s.pendingPause = !s.pendingPause
}

// Close ends the wave in progress.
func (s *Session) Close() {
	s.endWave(telemetry.WaveAborted)
}

// SetSize resizes the world.
func (s *Session) SetSize(width, height float64) {
	s.world.SetSize(width, height)
}

func (s *Session) World() *world.World { return s.world }
func (s *Session) Config() *config.Config { return s.cfg }
func (s *Session) State() State { return s.state }
func (s *Session) Paused() bool { return s.paused }
func (s *Session) Tick() int { return s.tick }
func (s *Session) ReplayStatus() replay.Status { return s.replay.Status() }
func (s *Session) Weapons() *systems.WeaponSystem { return s.weapons }
func (s *Session) LastReport() systems.CollisionReport { return s.lastReport }
func (s *Session) FrameInfo() FrameInfo { return s.frame }

// PerfStats returns the rolling phase timings, or false when perf
// collection is off.
func (s *Session) PerfStats() (telemetry.PerfStats, bool) {
	if s.perf == nil {
		return telemetry.PerfStats{}, false
	}
	return s.perf.Stats(), true
}
