package loop

import "time"

// Pacer caps the frame rate by sleeping out what is left of each frame's
// time slot.
type Pacer struct {
	interval time.Duration
	deadline time.Time

	now   func() time.Time
	sleep func(time.Duration)
}

// NewPacer paces to fps frames per second; 0 or less disables pacing.
func NewPacer(fps int) *Pacer {
	p := &Pacer{now: time.Now, sleep: time.Sleep}
	p.SetRate(fps)
	return p
}

// SetRate changes the cap and restarts the schedule.
func (p *Pacer) SetRate(fps int) {
	p.interval = 0
	if fps > 0 {
		p.interval = time.Second / time.Duration(fps)
	}
	p.deadline = time.Time{}
}

// Wait blocks until the current frame's slot ends. Slots are laid end to end,
// so a quick frame makes up for a slow one; after falling more than a whole
// slot behind, the schedule restarts from now instead of bursting.
func (p *Pacer) Wait() {
	if p.interval == 0 {
		return
	}
	now := p.now()
	next := p.deadline.Add(p.interval)
	if p.deadline.IsZero() || now.Sub(next) > p.interval {
		next = now.Add(p.interval)
	}
	p.deadline = next
	if left := p.deadline.Sub(now); left > 0 {
		p.sleep(left)
	}
}
