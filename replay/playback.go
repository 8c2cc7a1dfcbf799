package replay

import "github.com/mctar/pasteroids/input"

// Playback is an input.Source that replays recorded frames verbatim and then
// yields empty snapshots.
type Playback struct {
	frames []Frame
	index  int
}

var _ input.Source = (*Playback)(nil)

// NewPlayback creates a playback over frames.
func NewPlayback(frames []Frame) *Playback {
	return &Playback{frames: frames}
}

func (p *Playback) Read() input.Snapshot {
	if p.index >= len(p.frames) {
		return input.Snapshot{}
	}
	snap := p.frames[p.index].Input
	p.index++
	return snap
}

// Tick returns the number of frames consumed.
func (p *Playback) Tick() int {
	return p.index
}

// Total returns the number of recorded frames.
func (p *Playback) Total() int {
	return len(p.frames)
}

// Finished reports whether every frame has been consumed.
func (p *Playback) Finished() bool {
	return p.index >= len(p.frames)
}

// Reset rewinds to the first frame.
func (p *Playback) Reset() {
	p.index = 0
}
