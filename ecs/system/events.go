package system

import (
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/arena/ecs"
)

const (
	EventEnemyDied   ecs.EventType = "enemy_died"
	EventVisual      ecs.EventType = "visual"
	EventWaveFired   ecs.EventType = "wave_fired"
	EventBossSpawned ecs.EventType = "boss_spawned"
	EventPlayerHit   ecs.EventType = "player_hit"
)

// DeathEvent is pushed exactly once per enemy, when its hp first drops to
// zero or below.
type DeathEvent struct {
	Entity      ecs.Entity
	ArchetypeID string
	Position    cp.Vector
	XP          int
	DeathRadius float64
	Boss        bool
}

type VisualKind string

const (
	VisualPulse     VisualKind = "pulse"
	VisualExplosion VisualKind = "explosion"
	VisualDeath     VisualKind = "death"
)

type VisualEvent struct {
	Kind     VisualKind
	Position cp.Vector
	Radius   float64
}

type WaveEvent struct {
	Count   int
	Elapsed time.Duration
}

type BossEvent struct {
	Entity ecs.Entity
	Name   string
}

type PlayerHitEvent struct {
	Damage int
	HP     int
}
