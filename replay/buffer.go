package replay

// Buffer is a fixed-capacity ring of frames. Once full, each new frame
// overwrites the oldest.
type Buffer struct {
	frames []Frame
	head   int
	length int
}

// NewBuffer creates a ring holding at most capacity frames. A non-positive
// capacity records nothing.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{frames: make([]Frame, max(0, capacity))}
}

// Cap returns the capacity.
func (b *Buffer) Cap() int {
	return len(b.frames)
}

// Len returns the number of frames held.
func (b *Buffer) Len() int {
	return b.length
}

// Clear drops every frame.
func (b *Buffer) Clear() {
	b.head = 0
	b.length = 0
}

// Record appends f.
func (b *Buffer) Record(f Frame) {
	n := len(b.frames)
	if n == 0 {
		return
	}
	b.frames[b.head] = f
	b.head = (b.head + 1) % n
	if b.length < n {
		b.length++
	}
}

// Frames returns a copy of the held frames, oldest first.
func (b *Buffer) Frames() []Frame {
	n := len(b.frames)
	out := make([]Frame, 0, b.length)
	start := (b.head - b.length + n) % max(n, 1)
	for i := range b.length {
		out = append(out, b.frames[(start+i)%n])
	}
	return out
}
