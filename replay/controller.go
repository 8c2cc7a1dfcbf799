package replay

import (
	"github.com/mctar/pasteroids/input"
	"github.com/mctar/pasteroids/world"
)

// Controller owns recording and playback for one session. Recording is
// enabled from construction; starting playback disables it.
type Controller struct {
	buffer   *Buffer
	enabled  bool
	tick     int
	header   *Header
	playback *Playback
}

// NewController creates a controller whose ring holds capacity frames.
func NewController(capacity int) *Controller {
	return &Controller{
		buffer:  NewBuffer(capacity),
		enabled: true,
	}
}

// IsRecording reports whether ticks are being recorded.
func (c *Controller) IsRecording() bool {
	return c.enabled && !c.IsPlaying()
}

// IsPlaying reports whether a playback is active.
func (c *Controller) IsPlaying() bool {
	return c.playback != nil
}

// StartRecording clears the ring and captures w as the new header.
func (c *Controller) StartRecording(w *world.World) {
	c.enabled = true
	c.tick = 0
	c.buffer.Clear()
	h := HeaderFrom(w)
	c.header = &h
}

// StopRecording disables recording. Frames already held stay exportable.
func (c *Controller) StopRecording() {
	c.enabled = false
}

// ToggleRecording stops an active recording or starts a fresh one from w.
func (c *Controller) ToggleRecording(w *world.World) {
	if c.enabled {
		c.StopRecording()
		return
	}
	c.StartRecording(w)
}

// RecordTick appends snap as the next frame while recording.
func (c *Controller) RecordTick(snap input.Snapshot) {
	if !c.IsRecording() {
		return
	}
	c.buffer.Record(Frame{Tick: c.tick, Input: snap})
	c.tick++
}

// Export returns the header and held frames. It fails when nothing was
// recorded, or when the ring has already dropped the first recorded frames,
// since the header would no longer match the frames.
func (c *Controller) Export() (*Data, error) {
	if c.header == nil || c.buffer.Len() == 0 {
		return nil, ErrEmptyReplay
	}
	frames := c.buffer.Frames()
	if frames[0].Tick != 0 {
		return nil, ErrTruncated
	}
	h := *c.header
	h.Noodles = append([]world.NoodleState(nil), c.header.Noodles...)
	return &Data{Version: Version, Header: h, Frames: frames}, nil
}

// StartPlayback disables recording and returns a fresh playback source over
// data's frames.
func (c *Controller) StartPlayback(data *Data) *Playback {
	c.enabled = false
	c.playback = NewPlayback(data.Frames)
	return c.playback
}

// StopPlayback ends the active playback.
func (c *Controller) StopPlayback() {
	c.playback = nil
}

// Playback returns the active playback, or nil.
func (c *Controller) Playback() *Playback {
	return c.playback
}

// PlaybackFinished reports whether an active playback has consumed every frame.
func (c *Controller) PlaybackFinished() bool {
	return c.playback != nil && c.playback.Finished()
}

// Status reports the current mode with progress.
func (c *Controller) Status() Status {
	switch {
	case c.playback != nil:
		return Status{Mode: ModePlayback, Tick: c.playback.Tick(), TotalTicks: c.playback.Total()}
	case c.enabled:
		return Status{Mode: ModeRecording, Tick: c.tick, TotalTicks: c.buffer.Cap()}
	default:
		return Status{Mode: ModeOff}
	}
}
