package sim

import (
	"fmt"
	"log"
	"time"

	"github.com/milk9111/arena/catalog"
	"github.com/milk9111/arena/common"
	"github.com/milk9111/arena/ecs/system"
	"github.com/milk9111/arena/prefabs"
)

// Config is everything a Session needs. Restart reuses it unchanged apart
// from the enemy catalog, which ReloadCatalog may swap.
type Config struct {
	Arena    prefabs.ArenaSpec
	Enemies  *catalog.EnemyCatalog
	Upgrades *catalog.UpgradeCatalog
	Trigger  *system.BossTrigger
	Rand     common.Rand
	Now      time.Duration
}

// LoadConfig reads the arena, enemy and upgrade prefabs and compiles the boss
// script named by the arena spec.
func LoadConfig(rng common.Rand) (Config, error) {
	arena, err := prefabs.LoadArenaSpec()
	if err != nil {
		return Config{}, err
	}
	enemiesSpec, err := prefabs.LoadEnemiesSpec()
	if err != nil {
		return Config{}, err
	}
	enemies, err := catalog.EnemyCatalogFromSpec(enemiesSpec)
	if err != nil {
		return Config{}, fmt.Errorf("sim: %w", err)
	}
	upgradesSpec, err := prefabs.LoadUpgradesSpec()
	if err != nil {
		return Config{}, err
	}
	upgrades, err := catalog.UpgradeCatalogFromSpec(upgradesSpec)
	if err != nil {
		return Config{}, fmt.Errorf("sim: %w", err)
	}

	cfg := Config{Arena: *arena, Enemies: enemies, Upgrades: upgrades, Rand: rng}
	if arena.Boss.Script != "" {
		trigger, err := system.LoadBossTrigger(arena.Boss.Script)
		if err != nil {
			return Config{}, fmt.Errorf("sim: %w", err)
		}
		cfg.Trigger = trigger
		log.Printf("session: boss trigger %s loaded", trigger.Path())
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Enemies == nil {
		return fmt.Errorf("sim: nil enemy catalog")
	}
	if c.Upgrades.Len() < catalog.ChoiceCount {
		return fmt.Errorf("sim: %d upgrades: %w", c.Upgrades.Len(), catalog.ErrTooFewUpgrades)
	}
	if c.Rand == nil {
		return fmt.Errorf("sim: nil rand")
	}
	t := c.Arena.Timing
	if t.TricklePoll <= 0 || t.WaveInterval <= 0 {
		return fmt.Errorf("sim: spawn timers must be positive (poll %v, wave %v)", t.TricklePoll, t.WaveInterval)
	}
	if t.SpecialCooldown <= 0 {
		return fmt.Errorf("sim: special cooldown must be positive, got %v", t.SpecialCooldown)
	}
	ab := c.Arena.Abilities
	if ab.KineticLifetime <= 0 || ab.OrbitThrottle <= 0 {
		return fmt.Errorf("sim: kinetic lifetime and orbit throttle must be positive (lifetime %v, throttle %v)", ab.KineticLifetime, ab.OrbitThrottle)
	}
	if ab.OrbitCount <= 0 {
		return fmt.Errorf("sim: orbit count must be positive, got %d", ab.OrbitCount)
	}
	if c.Arena.Player.AttackRate <= 0 {
		return fmt.Errorf("sim: attack rate must be positive, got %v", c.Arena.Player.AttackRate)
	}
	if c.Arena.Arena.Width <= 0 || c.Arena.Arena.Height <= 0 {
		return fmt.Errorf("sim: arena must have a positive size")
	}
	return nil
}

func (c Config) abilities() system.AbilityConfig {
	a := c.Arena.Abilities
	return system.AbilityConfig{
		SpecialCooldown:      c.Arena.Timing.SpecialCooldown,
		KineticLifetime:      a.KineticLifetime,
		ProjectileSpeed:      a.ProjectileSpeed,
		ProjectileRadius:     a.ProjectileRadius,
		BombSpeed:            a.BombSpeed,
		BombRadius:           a.BombRadius,
		BombCaptureRadius:    a.BombCaptureRadius,
		BombDamageMultiplier: a.BombDamageMultiplier,
		OrbitCount:           a.OrbitCount,
		OrbitRadius:          a.OrbitRadius,
		OrbitOrbRadius:       a.OrbitOrbRadius,
		OrbitAngularSpeed:    a.OrbitAngularSpeed,
		OrbitThrottle:        a.OrbitThrottle,
	}
}

func (c Config) waves() system.WaveConfig {
	return system.WaveConfig{
		TricklePoll:  c.Arena.Timing.TricklePoll,
		WaveInterval: c.Arena.Timing.WaveInterval,
		Width:        c.Arena.Arena.Width,
		Height:       c.Arena.Arena.Height,
		SpawnMargin:  c.Arena.Arena.SpawnMargin,
		BossName:     c.Arena.Boss.DisplayName,
	}
}
