package telemetry

import (
	"log/slog"
	"slices"
	"time"

	"github.com/mctar/pasteroids/systems"
	"gonum.org/v1/gonum/stat"
)

// PerfSample holds timing data for a single tick.
type PerfSample struct {
	TickDuration time.Duration
	Phases       map[string]time.Duration
}

// PerfCollector tracks performance metrics over a rolling window.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	tickStart     time.Time
	phaseStart    time.Time
	lastPhase     string

	// Frame timing (interactive mode)
	lastFrameTime time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of ticks to aggregate over (e.g., 120 for 2 seconds at 60Hz).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase begins timing a phase, ending the previous one.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndTick finishes timing the current tick and records the sample.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	p.samples[p.writeIndex] = PerfSample{
		TickDuration: now.Sub(p.tickStart),
		Phases:       p.currentPhases,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// RecordFrame records frame timing for interactive mode.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrameTime.IsZero() {
		p.frameDuration = now.Sub(p.lastFrameTime)
	}
	p.lastFrameTime = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	P50TickDuration time.Duration
	P95TickDuration time.Duration

	// Phase breakdown (average durations and share of tick time)
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	TicksPerSecond float64

	FrameDuration time.Duration
	FPS           float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	var fps float64
	if p.frameDuration > 0 {
		fps = float64(time.Second) / float64(p.frameDuration)
	}

	if p.sampleCount == 0 {
		return PerfStats{
			PhaseAvg:      make(map[string]time.Duration),
			PhasePct:      make(map[string]float64),
			FrameDuration: p.frameDuration,
			FPS:           fps,
		}
	}

	var totalTick time.Duration
	var minTick, maxTick time.Duration
	phaseSum := make(map[string]time.Duration)
	ticks := make([]float64, 0, p.sampleCount)

	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		totalTick += s.TickDuration
		ticks = append(ticks, float64(s.TickDuration))

		if i == 0 || s.TickDuration < minTick {
			minTick = s.TickDuration
		}
		if s.TickDuration > maxTick {
			maxTick = s.TickDuration
		}

		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	avgTick := totalTick / time.Duration(p.sampleCount)

	phaseAvg := make(map[string]time.Duration)
	phasePct := make(map[string]float64)
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avgTick > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avgTick) * 100
		}
	}

	var ticksPerSec float64
	if avgTick > 0 {
		ticksPerSec = float64(time.Second) / float64(avgTick)
	}

	slices.Sort(ticks)

	return PerfStats{
		AvgTickDuration: avgTick,
		MinTickDuration: minTick,
		MaxTickDuration: maxTick,
		P50TickDuration: time.Duration(stat.Quantile(0.50, stat.Empirical, ticks, nil)),
		P95TickDuration: time.Duration(stat.Quantile(0.95, stat.Empirical, ticks, nil)),
		PhaseAvg:        phaseAvg,
		PhasePct:        phasePct,
		TicksPerSecond:  ticksPerSec,
		FrameDuration:   p.frameDuration,
		FPS:             fps,
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("p50_tick_us", s.P50TickDuration.Microseconds()),
		slog.Int64("p95_tick_us", s.P95TickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}

	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}

	for _, phase := range perfPhases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}

	return slog.GroupValue(attrs...)
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}

// perfPhases are the timed tick phases, in tick order.
var perfPhases = []string{
	systems.PhaseInput,
	systems.PhaseReplay,
	systems.PhaseWeapons,
	systems.PhasePhysics,
	systems.PhaseCollision,
	systems.PhaseWaves,
	systems.PhaseInvariants,
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd     int     `csv:"window_end"`
	AvgTickUS     int64   `csv:"avg_tick_us"`
	MinTickUS     int64   `csv:"min_tick_us"`
	MaxTickUS     int64   `csv:"max_tick_us"`
	P50TickUS     int64   `csv:"p50_tick_us"`
	P95TickUS     int64   `csv:"p95_tick_us"`
	TicksPerSec   float64 `csv:"ticks_per_sec"`
	FPS           float64 `csv:"fps"`
	InputPct      float64 `csv:"input_pct"`
	ReplayPct     float64 `csv:"replay_pct"`
	WeaponsPct    float64 `csv:"weapons_pct"`
	PhysicsPct    float64 `csv:"physics_pct"`
	CollisionPct  float64 `csv:"collision_pct"`
	WavesPct      float64 `csv:"waves_pct"`
	InvariantsPct float64 `csv:"invariants_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:     windowEnd,
		AvgTickUS:     s.AvgTickDuration.Microseconds(),
		MinTickUS:     s.MinTickDuration.Microseconds(),
		MaxTickUS:     s.MaxTickDuration.Microseconds(),
		P50TickUS:     s.P50TickDuration.Microseconds(),
		P95TickUS:     s.P95TickDuration.Microseconds(),
		TicksPerSec:   s.TicksPerSecond,
		FPS:           s.FPS,
		InputPct:      s.PhasePct[systems.PhaseInput],
		ReplayPct:     s.PhasePct[systems.PhaseReplay],
		WeaponsPct:    s.PhasePct[systems.PhaseWeapons],
		PhysicsPct:    s.PhasePct[systems.PhasePhysics],
		CollisionPct:  s.PhasePct[systems.PhaseCollision],
		WavesPct:      s.PhasePct[systems.PhaseWaves],
		InvariantsPct: s.PhasePct[systems.PhaseInvariants],
	}
}
