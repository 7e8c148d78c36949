package input

// Delta is a pointer movement in pixels since the previous sample.
type Delta struct {
	DX, DY float64
}

// PointerTracker turns absolute cursor positions into buffered deltas.
//
// The first position after construction or Reset only sets the baseline and
// yields no delta. Without that, the first sample after the cursor is captured
// is measured against an arbitrary origin and snaps the camera.
type PointerTracker struct {
	lastX, lastY float64
	primed       bool
	pending      []Delta
}

// Move records an absolute cursor position.
func (t *PointerTracker) Move(x, y float64) {
	if !t.primed {
		t.lastX, t.lastY = x, y
		t.primed = true
		return
	}
	d := Delta{DX: x - t.lastX, DY: y - t.lastY}
	t.lastX, t.lastY = x, y
	if d.DX == 0 && d.DY == 0 {
		return
	}
	t.pending = append(t.pending, d)
}

// Reset makes the next Move a baseline-only sample and drops buffered deltas.
func (t *PointerTracker) Reset() {
	t.primed = false
	t.pending = t.pending[:0]
}

// Drain appends buffered deltas to dst in arrival order and clears the buffer.
func (t *PointerTracker) Drain(dst []Delta) []Delta {
	dst = append(dst, t.pending...)
	t.pending = t.pending[:0]
	return dst
}

// Pending returns the number of buffered deltas.
func (t *PointerTracker) Pending() int { return len(t.pending) }
