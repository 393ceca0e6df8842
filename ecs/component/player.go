package component

import "time"

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

// PlayerStats holds the upgradeable player numbers. 0 <= HP <= MaxHP.
type PlayerStats struct {
	MaxHP        int
	HP           int
	MoveSpeed    float64
	BaseDamage   int
	AttackRate   time.Duration
	AttackRange  float64
	MagnetRadius float64
}

var PlayerStatsComponent = NewComponent[PlayerStats]()

// StatsDelta describes an upgrade effect. Zero fields leave stats unchanged.
type StatsDelta struct {
	MaxHP           int
	HP              int
	MoveSpeed       float64
	BaseDamage      int
	AttackRange     float64
	AttackRateScale float64
	AttackRateFloor time.Duration
	MagnetRadius    float64
	UnlockOrbit     bool
	UnlockBomb      bool
}

// Abilities records which special ability is unlocked. At most one is set.
type Abilities struct {
	Orbit bool
	Bomb  bool
}

var AbilitiesComponent = NewComponent[Abilities]()

// Invulnerable suppresses contact damage until the given session time.
type Invulnerable struct {
	Until time.Duration
}

var InvulnerableComponent = NewComponent[Invulnerable]()
