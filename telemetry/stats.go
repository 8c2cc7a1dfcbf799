// Package telemetry tracks session statistics in fixed windows, per-phase
// timing and wave outcomes, and writes them as CSV.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int     `csv:"-"`
	WindowEndTick   int     `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// World state at window end
	Wave        int `csv:"wave"`
	Score       int `csv:"score"`
	Noodles     int `csv:"noodles"`
	Projectiles int `csv:"projectiles"`
	Explosions  int `csv:"explosions"`

	// Events during window
	ShotsFired    int     `csv:"shots_fired"`
	Hits          int     `csv:"hits"`
	Detonations   int     `csv:"detonations"`
	Destroyed     int     `csv:"destroyed"`
	Splits        int     `csv:"splits"`
	ScoreGained   int     `csv:"score_gained"`
	WavesCleared  int     `csv:"waves_cleared"`
	HitRate       float64 `csv:"hit_rate"`
	ScorePerShot  float64 `csv:"score_per_shot"`

	// Hazard speed distribution (sampled at window end)
	NoodleSpeedMean float64 `csv:"noodle_speed_mean"`
	NoodleSpeedStd  float64 `csv:"noodle_speed_std"`
	NoodleSpeedP50  float64 `csv:"noodle_speed_p50"`
	NoodleSpeedP90  float64 `csv:"noodle_speed_p90"`
}

// Percentile calculates the p-th percentile of a sorted slice with linear
// interpolation between ranks. p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeSpeedStats returns the mean, sample standard deviation and the 50th
// and 90th percentiles of values.
func ComputeSpeedStats(values []float64) (mean, std, p50, p90 float64) {
	switch len(values) {
	case 0:
		return 0, 0, 0, 0
	case 1:
		return values[0], 0, values[0], values[0]
	}

	mean, std = stat.MeanStdDev(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return mean, std, Percentile(sorted, 0.50), Percentile(sorted, 0.90)
}

// LogStats logs the window with slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("tick", s.WindowEndTick),
		slog.Int("wave", s.Wave),
		slog.Int("score", s.Score),
		slog.Int("noodles", s.Noodles),
		slog.Int("projectiles", s.Projectiles),
		slog.Int("shots", s.ShotsFired),
		slog.Int("hits", s.Hits),
		slog.Int("destroyed", s.Destroyed),
		slog.Int("splits", s.Splits),
		slog.Float64("hit_rate", s.HitRate),
		slog.Float64("noodle_speed_mean", s.NoodleSpeedMean),
	)
}
