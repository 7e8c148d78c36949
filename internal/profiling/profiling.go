package profiling

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Profiler accumulates per-frame CPU time by section name.
// Usage: defer prof.Track("loop.draw")()
//
// It belongs to the render loop's thread and is not safe for concurrent use.
type Profiler struct {
	totals map[string]time.Duration
	now    func() time.Time
}

func New() *Profiler {
	return NewWithClock(time.Now)
}

// NewWithClock reads section start and end times from now.
func NewWithClock(now func() time.Time) *Profiler {
	return &Profiler{
		totals: make(map[string]time.Duration),
		now:    now,
	}
}

// Track returns a stop function that records the elapsed time under name.
func (p *Profiler) Track(name string) func() {
	start := p.now()
	return func() {
		p.totals[name] += p.now().Sub(start)
	}
}

// Reset clears the current frame totals. Call at the start of each frame.
func (p *Profiler) Reset() {
	clear(p.totals)
}

// Get returns the time recorded under name this frame.
func (p *Profiler) Get(name string) time.Duration {
	return p.totals[name]
}

// SumWithPrefix adds up all sections whose name starts with prefix.
func (p *Profiler) SumWithPrefix(prefix string) time.Duration {
	var sum time.Duration
	for k, v := range p.totals {
		if strings.HasPrefix(k, prefix) {
			sum += v
		}
	}
	return sum
}

// TopN formats the n slowest sections of the current frame.
// Example: "loop.draw:4.2ms, platform.present:2.1ms"
func (p *Profiler) TopN(n int) string {
	type pair struct {
		name string
		dur  time.Duration
	}
	list := make([]pair, 0, len(p.totals))
	for k, v := range p.totals {
		list = append(list, pair{name: k, dur: v})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].dur == list[j].dur {
			return list[i].name < list[j].name
		}
		return list[i].dur > list[j].dur
	})
	if n > len(list) {
		n = len(list)
	}
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		ms := float64(list[i].dur.Microseconds()) / 1000.0
		parts = append(parts, fmt.Sprintf("%s:%sms", list[i].name, formatMs(ms)))
	}
	return strings.Join(parts, ", ")
}

// formatMs keeps one decimal and drops a trailing ".0".
func formatMs(ms float64) string {
	s := fmt.Sprintf("%.1f", ms)
	return strings.TrimSuffix(s, ".0")
}
