package system

import "math"

// XPToNext is the experience needed to leave level.
func XPToNext(level int) int {
	if level < 1 {
		level = 1
	}
	return int(math.Floor(10 * math.Pow(1.2, float64(level-1))))
}

// ProgressionTracker accumulates experience and owns the pause-for-upgrade
// gate. It knows nothing about enemies or the player; callers feed it XP and
// read the gate back.
type ProgressionTracker struct {
	xp       int
	level    int
	xpToNext int
	paused   bool
}

func NewProgressionTracker() *ProgressionTracker {
	return &ProgressionTracker{level: 1, xpToNext: XPToNext(1)}
}

// GrantXP adds amount and processes at most one level-up, raising the pause
// gate when it does. Surplus past the next threshold waits for the next
// grant.
func (p *ProgressionTracker) GrantXP(amount int) bool {
	if amount <= 0 {
		return false
	}
	p.xp += amount
	if p.xp < p.xpToNext {
		return false
	}
	p.xp -= p.xpToNext
	p.level++
	p.xpToNext = XPToNext(p.level)
	p.paused = true
	return true
}

// Resume clears the pause gate.
func (p *ProgressionTracker) Resume() {
	p.paused = false
}

func (p *ProgressionTracker) Paused() bool {
	return p.paused
}

func (p *ProgressionTracker) Level() int {
	return p.level
}

func (p *ProgressionTracker) XP() int {
	return p.xp
}

func (p *ProgressionTracker) XPToNext() int {
	return p.xpToNext
}
