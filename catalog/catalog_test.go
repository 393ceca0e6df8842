package catalog

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/milk9111/arena/ecs/component"
	"github.com/milk9111/arena/prefabs"
)

// seqRand replays Float64 values and reverses slices on Shuffle.
type seqRand struct {
	floats []float64
}

func (r *seqRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0
	}
	f := r.floats[0]
	r.floats = r.floats[1:]
	return f
}

func (r *seqRand) IntN(n int) int { return 0 }

func (r *seqRand) Shuffle(n int, swap func(i, j int)) {
	for i := 0; i < n/2; i++ {
		swap(i, n-1-i)
	}
}

func loadEnemyCatalog(t *testing.T) *EnemyCatalog {
	t.Helper()
	spec, err := prefabs.LoadEnemiesSpec()
	if err != nil {
		t.Fatal(err)
	}
	c, err := EnemyCatalogFromSpec(spec)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestEnemyCatalogFromEmbeddedSpec(t *testing.T) {
	c := loadEnemyCatalog(t)

	zombie, ok := c.Get("zombie")
	if !ok {
		t.Fatalf("expected zombie archetype")
	}
	if zombie.HP != 20 || zombie.Speed != 30 || zombie.XP != 1 || zombie.ContactDamage != 10 {
		t.Fatalf("unexpected zombie stats: %+v", zombie)
	}
	if c.Boss().HP != 1000 {
		t.Fatalf("expected boss hp 1000, got %d", c.Boss().HP)
	}
	if len(c.IDs()) != 5 {
		t.Fatalf("expected 5 archetypes, got %v", c.IDs())
	}
}

func TestBucketWeights(t *testing.T) {
	c := loadEnemyCatalog(t)

	cases := []struct {
		name    string
		elapsed time.Duration
		weights map[string]float64
	}{
		{"first", 0, map[string]float64{"zombie": 1}},
		{"first_edge", 29999 * time.Millisecond, map[string]float64{"zombie": 1}},
		{"second", 30 * time.Second, map[string]float64{"zombie": 0.6, "bat": 0.4}},
		{"third", 90 * time.Second, map[string]float64{"zombie": 0.4, "skeleton": 0.3, "brute": 0.3}},
		{"open_ended", 10 * time.Minute, map[string]float64{"zombie": 0.3, "skeleton": 0.3, "brute": 0.25, "elite": 0.15}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := c.BucketFor(tc.elapsed)
			for _, id := range c.IDs() {
				want := tc.weights[id]
				if got := b.Weight(id); math.Abs(got-want) > 1e-9 {
					t.Fatalf("%s: expected weight %v, got %v", id, want, got)
				}
			}
		})
	}
}

func TestChooseCoversDistribution(t *testing.T) {
	c := loadEnemyCatalog(t)

	// weights are iterated in id order: bat 0.4, zombie 0.6
	if got := c.Choose(45*time.Second, 0.1).ID; got != "bat" {
		t.Fatalf("expected bat for low roll, got %s", got)
	}
	if got := c.Choose(45*time.Second, 0.5).ID; got != "zombie" {
		t.Fatalf("expected zombie for high roll, got %s", got)
	}
	if got := c.Choose(45*time.Second, 0.999999).ID; got != "zombie" {
		t.Fatalf("expected zombie at top of range, got %s", got)
	}
	if got := c.Choose(0, 0.75).ID; got != "zombie" {
		t.Fatalf("expected zombie in first bucket, got %s", got)
	}
}

func TestNewEnemyCatalogValidation(t *testing.T) {
	archetypes := []Archetype{{ID: "zombie", HP: 20}}
	cases := []struct {
		name    string
		buckets map[time.Duration]map[string]float64
		wantErr error
	}{
		{"no_buckets", nil, ErrNoBuckets},
		{"unknown", map[time.Duration]map[string]float64{0: {"ghost": 1}}, ErrUnknownArchetype},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewEnemyCatalog(archetypes, Archetype{ID: "boss"}, tc.buckets)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}

	if _, err := NewEnemyCatalog(archetypes, Archetype{}, map[time.Duration]map[string]float64{0: {"zombie": 0}}); err == nil {
		t.Fatalf("expected zero-weight bucket to fail")
	}
}

func TestUpgradeCatalogValidation(t *testing.T) {
	two := []Upgrade{{ID: "a"}, {ID: "b"}}
	if _, err := NewUpgradeCatalog(two); !errors.Is(err, ErrTooFewUpgrades) {
		t.Fatalf("expected ErrTooFewUpgrades, got %v", err)
	}
	if _, err := NewUpgradeCatalog([]Upgrade{{ID: "a"}, {ID: "a"}, {ID: "b"}}); err == nil {
		t.Fatalf("expected duplicate id to fail")
	}

	spec, err := prefabs.LoadUpgradesSpec()
	if err != nil {
		t.Fatal(err)
	}
	c, err := UpgradeCatalogFromSpec(spec)
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 8 {
		t.Fatalf("expected 8 upgrades, got %d", c.Len())
	}
	if _, err := c.Get("nope"); !errors.Is(err, ErrUnknownUpgrade) {
		t.Fatalf("expected ErrUnknownUpgrade, got %v", err)
	}
}

func TestDrawDistinct(t *testing.T) {
	c, err := NewUpgradeCatalog([]Upgrade{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}})
	if err != nil {
		t.Fatal(err)
	}
	got := c.Draw(&seqRand{}, ChoiceCount)
	if len(got) != ChoiceCount {
		t.Fatalf("expected %d choices, got %d", ChoiceCount, len(got))
	}
	want := []string{"d", "c", "b"}
	for i, u := range got {
		if u.ID != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	// drawing must not reorder the catalog itself
	if again := c.Draw(&seqRand{}, 1); again[0].ID != "d" {
		t.Fatalf("catalog order mutated by Draw")
	}
}

func TestApply(t *testing.T) {
	base := component.PlayerStats{
		MaxHP:       100,
		HP:          90,
		MoveSpeed:   100,
		BaseDamage:  10,
		AttackRate:  500 * time.Millisecond,
		AttackRange: 80,
	}
	cases := []struct {
		name  string
		stats component.PlayerStats
		delta component.StatsDelta
		check func(t *testing.T, got component.PlayerStats)
	}{
		{
			name:  "damage",
			stats: base,
			delta: component.StatsDelta{BaseDamage: 5},
			check: func(t *testing.T, got component.PlayerStats) {
				if got.BaseDamage != 15 {
					t.Fatalf("expected 15, got %d", got.BaseDamage)
				}
			},
		},
		{
			name:  "faster_attack",
			stats: base,
			delta: component.StatsDelta{AttackRateScale: 0.9, AttackRateFloor: 100 * time.Millisecond},
			check: func(t *testing.T, got component.PlayerStats) {
				if got.AttackRate != 450*time.Millisecond {
					t.Fatalf("expected 450ms, got %v", got.AttackRate)
				}
			},
		},
		{
			name: "attack_floor",
			stats: func() component.PlayerStats {
				s := base
				s.AttackRate = 105 * time.Millisecond
				return s
			}(),
			delta: component.StatsDelta{AttackRateScale: 0.9, AttackRateFloor: 100 * time.Millisecond},
			check: func(t *testing.T, got component.PlayerStats) {
				if got.AttackRate != 100*time.Millisecond {
					t.Fatalf("expected floor 100ms, got %v", got.AttackRate)
				}
			},
		},
		{
			name:  "more_hp",
			stats: base,
			delta: component.StatsDelta{MaxHP: 20, HP: 20},
			check: func(t *testing.T, got component.PlayerStats) {
				if got.MaxHP != 120 || got.HP != 110 {
					t.Fatalf("expected 110/120, got %d/%d", got.HP, got.MaxHP)
				}
			},
		},
		{
			name:  "heal_clamped",
			stats: base,
			delta: component.StatsDelta{HP: 50},
			check: func(t *testing.T, got component.PlayerStats) {
				if got.HP != got.MaxHP {
					t.Fatalf("expected hp clamped to %d, got %d", got.MaxHP, got.HP)
				}
			},
		},
		{
			name:  "magnet_keeps_larger",
			stats: component.PlayerStats{MaxHP: 1, HP: 1, MagnetRadius: 150},
			delta: component.StatsDelta{MagnetRadius: 100},
			check: func(t *testing.T, got component.PlayerStats) {
				if got.MagnetRadius != 150 {
					t.Fatalf("expected 150, got %v", got.MagnetRadius)
				}
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			before := tc.stats
			tc.check(t, Apply(tc.stats, tc.delta))
			if tc.stats != before {
				t.Fatalf("Apply mutated its input")
			}
		})
	}
}

func TestUnlockExclusive(t *testing.T) {
	ab := Unlock(component.Abilities{}, component.StatsDelta{UnlockOrbit: true})
	if !ab.Orbit || ab.Bomb {
		t.Fatalf("expected orbit only, got %+v", ab)
	}
	ab = Unlock(ab, component.StatsDelta{UnlockBomb: true})
	if ab.Orbit || !ab.Bomb {
		t.Fatalf("expected bomb only, got %+v", ab)
	}
	ab = Unlock(ab, component.StatsDelta{BaseDamage: 1})
	if !ab.Bomb {
		t.Fatalf("unrelated delta changed abilities")
	}
}
