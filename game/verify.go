package game

import (
	"fmt"
	"log/slog"

	"github.com/mctar/pasteroids/config"
	"github.com/mctar/pasteroids/replay"
)

// ReplayCheck is the outcome of playing one replay twice from its header.
type ReplayCheck struct {
	Ticks   int
	Score   int
	Wave    int
	Digests [2]uint64
}

// Match reports whether both playbacks ended in the same state.
func (c ReplayCheck) Match() bool {
	return c.Digests[0] == c.Digests[1]
}

// PlayReplay runs data to its last frame in a fresh session with the
// interactive game's options.
func PlayReplay(cfg *config.Config, data *replay.Data, logger *slog.Logger) (*Session, error) {
	opts := DefaultOptions(cfg)
	opts.Record = false
	opts.LogStats = false
	opts.Logger = logger
	if opts.InvariantInterval <= 0 {
		opts.InvariantInterval = 1
	}

	s := NewSession(cfg, opts)
	if err := s.StartPlayback(data); err != nil {
		return nil, err
	}
	// Playback may stall in game over, so run by frame count.
	if err := s.Run(len(data.Frames)); err != nil {
		return s, err
	}
	return s, nil
}

// VerifyReplay plays data twice and compares the final digests.
func VerifyReplay(cfg *config.Config, data *replay.Data, logger *slog.Logger) (ReplayCheck, error) {
	var check ReplayCheck
	for i := range check.Digests {
		s, err := PlayReplay(cfg, data, logger)
		if err != nil {
			return check, fmt.Errorf("playback %d: %w", i+1, err)
		}
		w := s.World()
		check.Digests[i] = Digest(w)
		check.Ticks = s.Tick()
		check.Score = w.Score
		check.Wave = w.Wave
	}
	return check, nil
}
