package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ArenaFile    = "arena.yaml"
	EnemiesFile  = "enemies.yaml"
	UpgradesFile = "upgrades.yaml"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type ArenaSpec struct {
	Arena     BoundsSpec    `yaml:"arena"`
	Player    PlayerSpec    `yaml:"player"`
	Timing    TimingSpec    `yaml:"timing"`
	Abilities AbilitiesSpec `yaml:"abilities"`
	Xp        XpSpec        `yaml:"xp"`
	Boss      BossSpec      `yaml:"boss"`
}

type BoundsSpec struct {
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	SpawnMargin float64 `yaml:"spawn_margin"`
}

type PlayerSpec struct {
	StartX      float64       `yaml:"start_x"`
	StartY      float64       `yaml:"start_y"`
	Radius      float64       `yaml:"radius"`
	MaxHP       int           `yaml:"max_hp"`
	HP          int           `yaml:"hp"`
	MoveSpeed   float64       `yaml:"move_speed"`
	BaseDamage  int           `yaml:"base_damage"`
	AttackRate  time.Duration `yaml:"attack_rate"`
	AttackRange float64       `yaml:"attack_range"`
}

type TimingSpec struct {
	TricklePoll     time.Duration `yaml:"trickle_poll"`
	WaveInterval    time.Duration `yaml:"wave_interval"`
	SpecialCooldown time.Duration `yaml:"special_cooldown"`
	Invulnerability time.Duration `yaml:"invulnerability"`
}

type AbilitiesSpec struct {
	ProjectileSpeed      float64       `yaml:"projectile_speed"`
	ProjectileRadius     float64       `yaml:"projectile_radius"`
	KineticLifetime      time.Duration `yaml:"kinetic_lifetime"`
	BombSpeed            float64       `yaml:"bomb_speed"`
	BombRadius           float64       `yaml:"bomb_radius"`
	BombCaptureRadius    float64       `yaml:"bomb_capture_radius"`
	BombDamageMultiplier int           `yaml:"bomb_damage_multiplier"`
	OrbitCount           int           `yaml:"orbit_count"`
	OrbitRadius          float64       `yaml:"orbit_radius"`
	OrbitOrbRadius       float64       `yaml:"orbit_orb_radius"`
	OrbitAngularSpeed    float64       `yaml:"orbit_angular_speed"`
	OrbitThrottle        time.Duration `yaml:"orbit_throttle"`
}

type XpSpec struct {
	OrbRadius       float64 `yaml:"orb_radius"`
	MagnetPullSpeed float64 `yaml:"magnet_pull_speed"`
}

type BossSpec struct {
	Script      string `yaml:"script"`
	DisplayName string `yaml:"display_name"`
}

type EnemiesSpec struct {
	Archetypes []ArchetypeSpec `yaml:"archetypes"`
	Boss       ArchetypeSpec   `yaml:"boss"`
	Buckets    []BucketSpec    `yaml:"buckets"`
}

type ArchetypeSpec struct {
	ID            string     `yaml:"id"`
	HP            int        `yaml:"hp"`
	Speed         float64    `yaml:"speed"`
	XP            int        `yaml:"xp"`
	ContactDamage int        `yaml:"contact_damage"`
	DeathRadius   float64    `yaml:"death_radius"`
	Radius        float64    `yaml:"radius"`
	Color         *YAMLColor `yaml:"color"`
}

// BucketSpec covers elapsed times below Until. A zero Until is open-ended.
type BucketSpec struct {
	Until   time.Duration      `yaml:"until"`
	Weights map[string]float64 `yaml:"weights"`
}

type UpgradesSpec struct {
	Upgrades []UpgradeSpec `yaml:"upgrades"`
}

type UpgradeSpec struct {
	ID    string         `yaml:"id"`
	Label string         `yaml:"label"`
	Delta StatsDeltaSpec `yaml:"delta"`
}

type StatsDeltaSpec struct {
	MaxHP           int           `yaml:"max_hp"`
	HP              int           `yaml:"hp"`
	MoveSpeed       float64       `yaml:"move_speed"`
	BaseDamage      int           `yaml:"base_damage"`
	AttackRange     float64       `yaml:"attack_range"`
	AttackRateScale float64       `yaml:"attack_rate_scale"`
	AttackRateFloor time.Duration `yaml:"attack_rate_floor"`
	MagnetRadius    float64       `yaml:"magnet_radius"`
	UnlockOrbit     bool          `yaml:"unlock_orbit"`
	UnlockBomb      bool          `yaml:"unlock_bomb"`
}

func LoadArenaSpec() (*ArenaSpec, error) {
	spec, err := LoadSpec[ArenaSpec](ArenaFile)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

func LoadEnemiesSpec() (*EnemiesSpec, error) {
	spec, err := LoadSpec[EnemiesSpec](EnemiesFile)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

func LoadUpgradesSpec() (*UpgradesSpec, error) {
	spec, err := LoadSpec[UpgradesSpec](UpgradesFile)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
