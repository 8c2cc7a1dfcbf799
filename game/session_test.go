package game

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/mctar/pasteroids/config"
	"github.com/mctar/pasteroids/geom"
	"github.com/mctar/pasteroids/input"
	"github.com/mctar/pasteroids/replay"
	"github.com/mctar/pasteroids/systems"
	"github.com/mctar/pasteroids/telemetry"
	"github.com/mctar/pasteroids/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// headlessOptions mirrors a scripted headless run: already playing, no wave
// progression, scan every tick.
func headlessOptions(seed int64, script input.Script) Options {
	return Options{
		Width:             800,
		Height:            600,
		Init:              world.InitParams{Seed: world.Seed(seed)},
		Source:            input.NewScriptedSource(script),
		StartPlaying:      true,
		InvariantInterval: 1,
		Logger:            quietLogger,
	}
}

func scenarioScript(tick int) input.Snapshot {
	var snap input.Snapshot
	snap.Left = tick < 30
	snap.Thrust = tick < 48
	snap.Fire = tick < 228
	if tick == 84 || tick == 168 {
		snap.WeaponCycle = 1
	}
	return snap
}

func TestScenario(t *testing.T) {
	cfg := config.Default()
	opts := headlessOptions(12345, scenarioScript)
	opts.InitialWave = 3

	s := NewSession(cfg, opts)
	require.Equal(t, 3, s.World().NoodleCount())

	require.NoError(t, s.Run(300))

	w := s.World()
	assert.NotEqual(t, GameOver, s.State())
	assert.Equal(t, 150, w.Score)
	assert.LessOrEqual(t, w.NoodleCount(), 3)
	assert.LessOrEqual(t, w.ProjectileCount(), cfg.World.MaxProjectiles)
	assert.Empty(t, systems.ScanNonFinite(w))
	assert.Equal(t, 300, s.Tick())
}

func TestScenarioRepeatable(t *testing.T) {
	cfg := config.Default()
	run := func() uint64 {
		opts := headlessOptions(12345, scenarioScript)
		opts.InitialWave = 3
		s := NewSession(cfg, opts)
		require.NoError(t, s.Run(300))
		return Digest(s.World())
	}
	assert.Equal(t, run(), run())
}

func TestAttractWaitsForStart(t *testing.T) {
	cfg := config.Default()
	opts := DefaultOptions(cfg)
	opts.Logger = quietLogger
	opts.LogStats = false
	opts.Source = input.NewScriptedSource(func(tick int) input.Snapshot {
		return input.Snapshot{Start: tick == 5, Thrust: true}
	})
	s := NewSession(cfg, opts)

	require.NoError(t, s.Run(5))
	assert.Equal(t, Attract, s.State())
	assert.Zero(t, s.World().NoodleCount())
	shipPos := s.World().Transform(s.World().PlayerShipID()).Position
	assert.Equal(t, geom.V(480, 360), shipPos, "no intent in attract")

	require.NoError(t, s.Step(cfg.Derived.FixedStep))
	assert.Equal(t, Playing, s.State())
	assert.Equal(t, WaveSize(cfg, 1), s.World().NoodleCount())
}

func TestGameOverAndRestart(t *testing.T) {
	cfg := config.Default()
	var startAt = -1
	opts := headlessOptions(99, func(tick int) input.Snapshot {
		return input.Snapshot{Start: tick == startAt}
	})
	opts.Waves = true
	opts.Restart = true
	// A hazard sitting on the ship ends the game on the first tick.
	opts.Init.Noodles = []world.NoodleState{{
		Position:  geom.V(400, 300),
		LongAxis:  60,
		ShortAxis: 40,
	}}
	s := NewSession(cfg, opts)

	require.NoError(t, s.Step(cfg.Derived.FixedStep))
	assert.Equal(t, GameOver, s.State())

	// Game over ignores everything but start.
	require.NoError(t, s.Step(cfg.Derived.FixedStep))
	assert.Equal(t, GameOver, s.State())

	startAt = 2
	old := s.World()
	require.NoError(t, s.Step(cfg.Derived.FixedStep))
	assert.Equal(t, Playing, s.State())
	assert.NotSame(t, old, s.World())
	assert.Equal(t, 1, s.World().Wave)
	assert.Equal(t, WaveSize(cfg, 1), s.World().NoodleCount())
	assert.Zero(t, s.World().Score)
}

func TestGameOverWithoutRestart(t *testing.T) {
	cfg := config.Default()
	opts := headlessOptions(99, func(int) input.Snapshot { return input.Snapshot{Start: true} })
	opts.Init.Noodles = []world.NoodleState{{Position: geom.V(400, 300), LongAxis: 60, ShortAxis: 40}}
	s := NewSession(cfg, opts)

	require.NoError(t, s.Run(3))
	assert.Equal(t, GameOver, s.State())
}

func TestPauseFreezesSimulation(t *testing.T) {
	cfg := config.Default()
	s := NewSession(cfg, headlessOptions(5, func(tick int) input.Snapshot {
		return input.Snapshot{Thrust: true, Pause: tick == 1}
	}))
	ship := func() geom.Vec2 { return s.World().Transform(s.World().PlayerShipID()).Position }

	require.NoError(t, s.Step(cfg.Derived.FixedStep))
	moved := ship()
	require.NotEqual(t, geom.V(400, 300), moved)

	require.NoError(t, s.Run(3))
	assert.True(t, s.Paused())
	assert.Equal(t, moved, ship())

	s.TogglePause()
	require.NoError(t, s.Step(cfg.Derived.FixedStep))
	assert.False(t, s.Paused())
	assert.NotEqual(t, moved, ship())
}

func TestWaveAdvance(t *testing.T) {
	cfg := config.Default()
	opts := headlessOptions(21, func(int) input.Snapshot { return input.Snapshot{} })
	opts.Waves = true
	s := NewSession(cfg, opts)

	w := s.World()
	require.Equal(t, 1, w.Wave)
	require.Equal(t, 1, w.NoodleCount())

	var ids []world.EntityID
	for id := range w.Noodles() {
		ids = append(ids, id)
	}
	for _, id := range ids {
		w.DestroyEntity(id)
	}

	require.NoError(t, s.Step(cfg.Derived.FixedStep))
	assert.Equal(t, 2, w.Wave)
	assert.Equal(t, WaveSize(cfg, 2), w.NoodleCount())
}

func TestWaveSize(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, 1, WaveSize(cfg, 1))
	assert.Equal(t, 4, WaveSize(cfg, 4))
	assert.Equal(t, 1, WaveSize(cfg, 0))
	assert.Equal(t, cfg.World.MaxNoodles, WaveSize(cfg, 1000))
}

func TestInvariantViolation(t *testing.T) {
	cfg := config.Default()
	s := NewSession(cfg, headlessOptions(3, func(int) input.Snapshot { return input.Snapshot{} }))
	s.World().RigidBody(s.World().PlayerShipID()).Velocity.X = math.NaN()

	err := s.Step(cfg.Derived.FixedStep)
	var inv *InvariantError
	require.True(t, errors.As(err, &inv))
	assert.Equal(t, 0, inv.Tick)
	assert.Contains(t, err.Error(), "invariant violation at tick 0: ")
	assert.Contains(t, err.Error(), "RigidBody(1).velocity.x=NaN")
}

func TestInvariantInterval(t *testing.T) {
	cfg := config.Default()
	opts := headlessOptions(3, func(int) input.Snapshot { return input.Snapshot{} })
	opts.InvariantInterval = 2
	s := NewSession(cfg, opts)

	require.NoError(t, s.Step(cfg.Derived.FixedStep))
	s.World().RigidBody(s.World().PlayerShipID()).Velocity.X = math.Inf(1)

	require.NoError(t, s.Step(cfg.Derived.FixedStep), "tick 1 is not scanned")
	err := s.Step(cfg.Derived.FixedStep)
	var inv *InvariantError
	require.True(t, errors.As(err, &inv))
	assert.Equal(t, 2, inv.Tick)
}

func recordSession(t *testing.T, cfg *config.Config, script input.Script, ticks int, startPlaying bool) (*Session, *replay.Data) {
	t.Helper()
	opts := DefaultOptions(cfg)
	opts.Logger = quietLogger
	opts.LogStats = false
	opts.Init.Seed = world.Seed(4242)
	opts.Record = true
	opts.StartPlaying = startPlaying
	opts.Source = input.NewScriptedSource(script)

	s := NewSession(cfg, opts)
	require.NoError(t, s.Run(ticks))
	data, err := s.ExportReplay()
	require.NoError(t, err)
	return s, data
}

func playBack(t *testing.T, cfg *config.Config, data *replay.Data) *Session {
	t.Helper()
	opts := DefaultOptions(cfg)
	opts.Logger = quietLogger
	opts.LogStats = false
	opts.Record = false
	opts.Init.Seed = world.Seed(1) // overridden by the replay header

	s := NewSession(cfg, opts)
	require.NoError(t, s.StartPlayback(data))
	require.NoError(t, s.Run(len(data.Frames)))
	return s
}

func TestReplayPlaybackMatchesRecording(t *testing.T) {
	cfg := config.Default()
	script := func(tick int) input.Snapshot {
		return input.Snapshot{
			Right:  tick%90 < 20,
			Thrust: tick%60 < 15,
			Fire:   true,
			WeaponCycle: func() int {
				if tick%70 == 0 {
					return 1
				}
				return 0
			}(),
		}
	}

	live, data := recordSession(t, cfg, script, 240, true)
	require.Len(t, data.Frames, 240)

	// Round-trip through the JSON file format first.
	var buf bytes.Buffer
	require.NoError(t, replay.Encode(&buf, data, replay.FormatJSON))
	decoded, err := replay.Decode(&buf, replay.FormatJSON)
	require.NoError(t, err)

	replayed := playBack(t, cfg, decoded)
	assert.Equal(t, Digest(live.World()), Digest(replayed.World()))
	assert.Equal(t, live.World().Score, replayed.World().Score)
	assert.Equal(t, live.State(), replayed.State())
}

func TestReplayFromAttractStart(t *testing.T) {
	cfg := config.Default()
	script := func(tick int) input.Snapshot {
		return input.Snapshot{
			Start:  tick == 10,
			Left:   tick >= 10 && tick < 40,
			Thrust: tick >= 10 && tick < 30,
			Fire:   tick >= 10,
		}
	}

	live, data := recordSession(t, cfg, script, 130, false)
	require.Len(t, data.Frames, 120, "recording restarts at the start tick")
	first := data.Frames[0].Input
	assert.True(t, first.Start)
	assert.False(t, first.Left)
	assert.False(t, first.Fire)
	assert.Equal(t, WaveSize(cfg, 1), len(data.Header.Noodles))

	replayed := playBack(t, cfg, data)
	assert.Equal(t, Digest(live.World()), Digest(replayed.World()))
}

func TestPlaybackReturnsToLiveInput(t *testing.T) {
	cfg := config.Default()
	_, data := recordSession(t, cfg, func(int) input.Snapshot { return input.Snapshot{} }, 30, true)

	s := playBack(t, cfg, data)
	assert.Equal(t, replay.ModeOff, s.ReplayStatus().Mode)
}

func TestStartPlaybackRejectsEmpty(t *testing.T) {
	cfg := config.Default()
	s := NewSession(cfg, headlessOptions(1, func(int) input.Snapshot { return input.Snapshot{} }))
	assert.ErrorIs(t, s.StartPlayback(nil), replay.ErrEmptyReplay)
	assert.Error(t, s.StartPlayback(&replay.Data{Version: replay.Version}))
}

func TestToggleRecording(t *testing.T) {
	cfg := config.Default()
	opts := headlessOptions(1, func(int) input.Snapshot { return input.Snapshot{} })
	s := NewSession(cfg, opts)

	_, err := s.ExportReplay()
	assert.ErrorIs(t, err, replay.ErrEmptyReplay)

	s.ToggleRecording()
	assert.Equal(t, replay.ModeRecording, s.ReplayStatus().Mode)
	require.NoError(t, s.Run(10))

	data, err := s.ExportReplay()
	require.NoError(t, err)
	assert.Len(t, data.Frames, 10)

	s.ToggleRecording()
	assert.Equal(t, replay.ModeOff, s.ReplayStatus().Mode)
}

func TestFrameDrivesFixedSteps(t *testing.T) {
	cfg := config.Default()
	s := NewSession(cfg, headlessOptions(1, func(int) input.Snapshot { return input.Snapshot{} }))

	steps, err := s.Frame(1.0 / 60.0)
	require.NoError(t, err)
	assert.Equal(t, 1, steps)
	assert.Equal(t, 1, s.Tick())

	info := s.FrameInfo()
	assert.Equal(t, 1, info.SubSteps)
	assert.InDelta(t, 60, info.FPS, 1e-6)
	assert.InDelta(t, 1000.0/60.0, info.FixedStepMS, 1e-9)

	steps, err = s.Frame(1)
	require.NoError(t, err)
	assert.Equal(t, cfg.Timing.MaxSubSteps, steps)
}

func TestStatsCallback(t *testing.T) {
	cfg := config.Default()
	cfg.Telemetry.StatsWindow = 1
	cfg.Telemetry.PerfCollection = true

	opts := headlessOptions(8, func(int) input.Snapshot { return input.Snapshot{Fire: true} })
	opts.InitialWave = 2
	var windows int
	var shots int
	opts.StatsCallback = func(ws telemetry.WindowStats) {
		windows++
		shots += ws.ShotsFired
	}
	s := NewSession(cfg, opts)

	require.NoError(t, s.Run(120))
	assert.Equal(t, 2, windows)
	assert.Positive(t, shots)

	perf, ok := s.PerfStats()
	assert.True(t, ok)
	assert.Positive(t, perf.AvgTickDuration)
}
