package system

import (
	"time"

	"github.com/milk9111/arena/catalog"
	"github.com/milk9111/arena/ecs"
)

// scriptedRand replays fixed values. Exhausted sequences return zero.
type scriptedRand struct {
	floats []float64
	ints   []int
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0
	}
	f := r.floats[0]
	r.floats = r.floats[1:]
	return f
}

func (r *scriptedRand) IntN(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	i := r.ints[0]
	r.ints = r.ints[1:]
	return i % n
}

func (r *scriptedRand) Shuffle(n int, swap func(i, j int)) {}

var zombie = catalog.Archetype{ID: "zombie", HP: 20, Speed: 30, XP: 1, ContactDamage: 10, DeathRadius: 16, Radius: 10}

func testCatalog() *catalog.EnemyCatalog {
	bat := catalog.Archetype{ID: "bat", HP: 10, Speed: 80, XP: 1, ContactDamage: 5, Radius: 7}
	boss := catalog.Archetype{ID: "boss", HP: 1000, Speed: 20, XP: 100, ContactDamage: 50, DeathRadius: 40, Radius: 28}
	c, err := catalog.NewEnemyCatalog([]catalog.Archetype{zombie, bat}, boss, map[time.Duration]map[string]float64{
		30 * time.Second: {"zombie": 1},
		0:                {"zombie": 0.6, "bat": 0.4},
	})
	if err != nil {
		panic(err)
	}
	return c
}

func drainDeaths(w *ecs.World) []DeathEvent {
	var out []DeathEvent
	for _, evt := range w.Events().Drain() {
		if d, ok := evt.Data.(DeathEvent); ok {
			out = append(out, d)
		}
	}
	return out
}
