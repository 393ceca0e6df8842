package system

import "time"

// LoopTimer fires on a fixed period measured against session time. It keeps
// counting regardless of the pause gate; callers decide whether a fire does
// anything.
type LoopTimer struct {
	period time.Duration
	next   time.Duration
}

func NewLoopTimer(now, period time.Duration) *LoopTimer {
	t := &LoopTimer{}
	t.Rearm(now, period)
	return t
}

// Rearm restarts the timer with a new period. Progress towards the previous
// fire is discarded.
func (t *LoopTimer) Rearm(now, period time.Duration) {
	t.period = period
	t.next = now + period
}

// Fire returns how many periods elapsed up to now and schedules the next one.
func (t *LoopTimer) Fire(now time.Duration) int {
	n := 0
	t.Each(now, func(time.Duration) { n++ })
	return n
}

// Each calls fn with the scheduled time of every period that elapsed up to
// now, oldest first.
func (t *LoopTimer) Each(now time.Duration, fn func(at time.Duration)) {
	if t == nil || t.period <= 0 {
		return
	}
	for now >= t.next {
		at := t.next
		t.next += t.period
		fn(at)
	}
}

func (t *LoopTimer) Period() time.Duration {
	return t.period
}

func (t *LoopTimer) Next() time.Duration {
	return t.next
}
