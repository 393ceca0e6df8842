package catalog

import (
	"errors"
	"fmt"
	"image/color"
	"sort"
	"time"

	"github.com/milk9111/arena/prefabs"
)

var (
	ErrUnknownArchetype = errors.New("catalog: unknown archetype")
	ErrNoBuckets        = errors.New("catalog: no spawn buckets")
)

// Archetype is the immutable template for a class of enemy.
type Archetype struct {
	ID            string
	HP            int
	Speed         float64
	XP            int
	ContactDamage int
	DeathRadius   float64
	Radius        float64
	Color         color.Color
}

type weighted struct {
	id     string
	weight float64
}

// Bucket holds the selection weights for elapsed times below Until. The last
// bucket is open-ended.
type Bucket struct {
	Until   time.Duration
	weights []weighted
	total   float64
}

// EnemyCatalog is the static archetype table plus the elapsed-time buckets
// used for type selection.
type EnemyCatalog struct {
	archetypes map[string]Archetype
	order      []string
	boss       Archetype
	buckets    []Bucket
}

// NewEnemyCatalog validates that every weighted id names an archetype, that
// every bucket has positive total weight, and that buckets are ordered.
func NewEnemyCatalog(archetypes []Archetype, boss Archetype, buckets map[time.Duration]map[string]float64) (*EnemyCatalog, error) {
	c := &EnemyCatalog{archetypes: make(map[string]Archetype, len(archetypes)), boss: boss}
	for _, a := range archetypes {
		if a.ID == "" {
			return nil, fmt.Errorf("catalog: archetype with empty id")
		}
		if _, dup := c.archetypes[a.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate archetype %q", a.ID)
		}
		c.archetypes[a.ID] = a
		c.order = append(c.order, a.ID)
	}
	if len(buckets) == 0 {
		return nil, ErrNoBuckets
	}

	limits := make([]time.Duration, 0, len(buckets))
	for until := range buckets {
		limits = append(limits, until)
	}
	// zero sorts last: it is the open-ended bucket
	sort.Slice(limits, func(i, j int) bool {
		if limits[i] == 0 {
			return false
		}
		if limits[j] == 0 {
			return true
		}
		return limits[i] < limits[j]
	})

	for _, until := range limits {
		b := Bucket{Until: until}
		ids := make([]string, 0, len(buckets[until]))
		for id := range buckets[until] {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			w := buckets[until][id]
			if _, ok := c.archetypes[id]; !ok {
				return nil, fmt.Errorf("catalog: bucket %v weight %q: %w", until, id, ErrUnknownArchetype)
			}
			if w <= 0 {
				continue
			}
			b.weights = append(b.weights, weighted{id: id, weight: w})
			b.total += w
		}
		if b.total <= 0 {
			return nil, fmt.Errorf("catalog: bucket %v has no positive weights", until)
		}
		c.buckets = append(c.buckets, b)
	}
	return c, nil
}

// EnemyCatalogFromSpec builds the catalog from enemies.yaml.
func EnemyCatalogFromSpec(spec *prefabs.EnemiesSpec) (*EnemyCatalog, error) {
	if spec == nil {
		return nil, fmt.Errorf("catalog: nil enemies spec")
	}
	archetypes := make([]Archetype, 0, len(spec.Archetypes))
	for _, a := range spec.Archetypes {
		archetypes = append(archetypes, archetypeFromSpec(a))
	}
	buckets := make(map[time.Duration]map[string]float64, len(spec.Buckets))
	for _, b := range spec.Buckets {
		if _, dup := buckets[b.Until]; dup {
			return nil, fmt.Errorf("catalog: duplicate bucket %v", b.Until)
		}
		buckets[b.Until] = b.Weights
	}
	boss := archetypeFromSpec(spec.Boss)
	if boss.ID == "" {
		boss.ID = "boss"
	}
	return NewEnemyCatalog(archetypes, boss, buckets)
}

func archetypeFromSpec(a prefabs.ArchetypeSpec) Archetype {
	out := Archetype{
		ID:            a.ID,
		HP:            a.HP,
		Speed:         a.Speed,
		XP:            a.XP,
		ContactDamage: a.ContactDamage,
		DeathRadius:   a.DeathRadius,
		Radius:        a.Radius,
	}
	if a.Color != nil {
		out.Color = a.Color.Color
	}
	return out
}

func (c *EnemyCatalog) Get(id string) (Archetype, bool) {
	if c == nil {
		return Archetype{}, false
	}
	a, ok := c.archetypes[id]
	return a, ok
}

func (c *EnemyCatalog) Boss() Archetype {
	return c.boss
}

// IDs returns archetype ids in declaration order.
func (c *EnemyCatalog) IDs() []string {
	return append([]string(nil), c.order...)
}

// BucketFor returns the bucket covering elapsed.
func (c *EnemyCatalog) BucketFor(elapsed time.Duration) Bucket {
	for _, b := range c.buckets {
		if b.Until == 0 || elapsed < b.Until {
			return b
		}
	}
	return c.buckets[len(c.buckets)-1]
}

// Choose picks an archetype for elapsed using roll, a uniform value in [0,1).
func (c *EnemyCatalog) Choose(elapsed time.Duration, roll float64) Archetype {
	b := c.BucketFor(elapsed)
	x := roll * b.total
	for _, w := range b.weights {
		if x < w.weight {
			return c.archetypes[w.id]
		}
		x -= w.weight
	}
	return c.archetypes[b.weights[len(b.weights)-1].id]
}

// Weight returns the normalized probability of id within the bucket.
func (b Bucket) Weight(id string) float64 {
	if b.total <= 0 {
		return 0
	}
	for _, w := range b.weights {
		if w.id == id {
			return w.weight / b.total
		}
	}
	return 0
}
