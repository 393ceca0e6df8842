package catalog

import (
	"errors"
	"fmt"
	"time"

	"github.com/milk9111/arena/common"
	"github.com/milk9111/arena/ecs/component"
	"github.com/milk9111/arena/prefabs"
)

// ChoiceCount is how many upgrades are offered per level-up.
const ChoiceCount = 3

var (
	ErrTooFewUpgrades = errors.New("catalog: fewer upgrades than choices")
	ErrUnknownUpgrade = errors.New("catalog: unknown upgrade")
)

type Upgrade struct {
	ID    string
	Label string
	Delta component.StatsDelta
}

type UpgradeCatalog struct {
	upgrades []Upgrade
}

// NewUpgradeCatalog rejects catalogs that cannot offer ChoiceCount distinct
// options.
func NewUpgradeCatalog(upgrades []Upgrade) (*UpgradeCatalog, error) {
	seen := make(map[string]struct{}, len(upgrades))
	for _, u := range upgrades {
		if u.ID == "" {
			return nil, fmt.Errorf("catalog: upgrade with empty id")
		}
		if _, dup := seen[u.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate upgrade %q", u.ID)
		}
		seen[u.ID] = struct{}{}
	}
	if len(upgrades) < ChoiceCount {
		return nil, fmt.Errorf("catalog: %d upgrades, need %d: %w", len(upgrades), ChoiceCount, ErrTooFewUpgrades)
	}
	return &UpgradeCatalog{upgrades: append([]Upgrade(nil), upgrades...)}, nil
}

func UpgradeCatalogFromSpec(spec *prefabs.UpgradesSpec) (*UpgradeCatalog, error) {
	if spec == nil {
		return nil, fmt.Errorf("catalog: nil upgrades spec")
	}
	upgrades := make([]Upgrade, 0, len(spec.Upgrades))
	for _, u := range spec.Upgrades {
		d := u.Delta
		upgrades = append(upgrades, Upgrade{
			ID:    u.ID,
			Label: u.Label,
			Delta: component.StatsDelta{
				MaxHP:           d.MaxHP,
				HP:              d.HP,
				MoveSpeed:       d.MoveSpeed,
				BaseDamage:      d.BaseDamage,
				AttackRange:     d.AttackRange,
				AttackRateScale: d.AttackRateScale,
				AttackRateFloor: d.AttackRateFloor,
				MagnetRadius:    d.MagnetRadius,
				UnlockOrbit:     d.UnlockOrbit,
				UnlockBomb:      d.UnlockBomb,
			},
		})
	}
	return NewUpgradeCatalog(upgrades)
}

func (c *UpgradeCatalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.upgrades)
}

func (c *UpgradeCatalog) Get(id string) (Upgrade, error) {
	for _, u := range c.upgrades {
		if u.ID == id {
			return u, nil
		}
	}
	return Upgrade{}, fmt.Errorf("catalog: %q: %w", id, ErrUnknownUpgrade)
}

// Draw returns n distinct upgrades in random order.
func (c *UpgradeCatalog) Draw(r common.Rand, n int) []Upgrade {
	pool := append([]Upgrade(nil), c.upgrades...)
	r.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if n > len(pool) {
		n = len(pool)
	}
	return pool[:n]
}

// Apply returns stats with delta applied. HP stays within [0, MaxHP].
func Apply(stats component.PlayerStats, delta component.StatsDelta) component.PlayerStats {
	stats.MaxHP += delta.MaxHP
	stats.HP += delta.HP
	stats.MoveSpeed += delta.MoveSpeed
	stats.BaseDamage += delta.BaseDamage
	stats.AttackRange += delta.AttackRange
	if delta.AttackRateScale > 0 {
		rate := time.Duration(float64(stats.AttackRate) * delta.AttackRateScale)
		stats.AttackRate = max(rate, delta.AttackRateFloor)
	}
	if delta.MagnetRadius > stats.MagnetRadius {
		stats.MagnetRadius = delta.MagnetRadius
	}
	if stats.MaxHP < 0 {
		stats.MaxHP = 0
	}
	stats.HP = min(max(stats.HP, 0), stats.MaxHP)
	return stats
}

// Unlock returns the ability flags after delta. Orbit and bomb are mutually
// exclusive: unlocking one clears the other.
func Unlock(ab component.Abilities, delta component.StatsDelta) component.Abilities {
	switch {
	case delta.UnlockOrbit:
		ab.Orbit, ab.Bomb = true, false
	case delta.UnlockBomb:
		ab.Bomb, ab.Orbit = true, false
	}
	return ab
}

// ChangesAttackRate reports whether applying delta requires re-arming the
// auto-attack timer.
func (u Upgrade) ChangesAttackRate() bool {
	return u.Delta.AttackRateScale > 0
}
