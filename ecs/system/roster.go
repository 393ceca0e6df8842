package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/arena/catalog"
	"github.com/milk9111/arena/common"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
)

// Scaling multiplies archetype stats at spawn time.
type Scaling struct {
	Factor   float64
	HPMul    float64
	SpeedMul float64
}

var Unscaled = Scaling{Factor: 1, HPMul: 1, SpeedMul: 1}

// EnemyRoster owns every live enemy in the world.
type EnemyRoster struct {
	world *ecs.World
	kills int
}

func NewEnemyRoster(w *ecs.World) *EnemyRoster {
	return &EnemyRoster{world: w}
}

// Spawn creates an enemy from a with stats scaled by s. HP and XP are floored
// to integers; contact damage only when the archetype defines one.
func (r *EnemyRoster) Spawn(a catalog.Archetype, s Scaling, pos cp.Vector) ecs.Entity {
	e := ecs.CreateEntity(r.world)

	hp := int(math.Floor(float64(a.HP) * s.Factor * s.HPMul))
	if hp < 1 {
		hp = 1
	}
	contact := 0
	if a.ContactDamage > 0 {
		contact = int(math.Floor(float64(a.ContactDamage) * s.Factor))
	}

	_ = ecs.Add(r.world, e, component.EnemyComponent.Kind(), &component.Enemy{
		ArchetypeID:   a.ID,
		HP:            hp,
		MaxHP:         hp,
		Speed:         a.Speed * s.Factor * s.SpeedMul,
		XP:            int(math.Floor(float64(a.XP) * s.Factor)),
		ContactDamage: contact,
		DeathRadius:   a.DeathRadius,
		Alive:         true,
	})
	_ = ecs.Add(r.world, e, component.TransformComponent.Kind(), &component.Transform{Position: pos, Radius: a.Radius})
	_ = ecs.Add(r.world, e, component.VelocityComponent.Kind(), &component.Velocity{})
	return e
}

// Prune destroys enemies that died since the last sweep.
func (r *EnemyRoster) Prune() {
	ecs.ForEach(r.world, component.EnemyComponent.Kind(), func(e ecs.Entity, en *component.Enemy) {
		if !en.Alive {
			ecs.DestroyEntity(r.world, e)
		}
	})
}

// UpdateAll prunes the dead, then points every survivor straight at player.
func (r *EnemyRoster) UpdateAll(player cp.Vector) {
	r.Prune()
	ecs.ForEach2(r.world, component.EnemyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, en *component.Enemy, t *component.Transform) {
		v, ok := ecs.Get(r.world, e, component.VelocityComponent.Kind())
		if !ok {
			return
		}
		v.Value = common.Direction(t.Position, player).Mult(en.Speed)
	})
}

// DamageInRange damages every alive enemy within radius of center, boundary
// included. It returns how many enemies were hit.
func (r *EnemyRoster) DamageInRange(center cp.Vector, radius float64, amount int) int {
	var hit []ecs.Entity
	ecs.ForEach2(r.world, component.EnemyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, en *component.Enemy, t *component.Transform) {
		if en.Alive && common.WithinRadius(center, t.Position, radius) {
			hit = append(hit, e)
		}
	})
	for _, e := range hit {
		r.DamageOne(e, amount)
	}
	return len(hit)
}

// DamageOne applies amount to a single enemy. Damage to a dead or stale
// handle is ignored. It reports whether this call killed the enemy.
func (r *EnemyRoster) DamageOne(e ecs.Entity, amount int) bool {
	en, ok := ecs.Get(r.world, e, component.EnemyComponent.Kind())
	if !ok || !en.Alive {
		return false
	}
	en.HP -= amount
	if en.HP > 0 {
		return false
	}
	en.Alive = false
	r.kills++

	var pos cp.Vector
	if t, ok := ecs.Get(r.world, e, component.TransformComponent.Kind()); ok {
		pos = t.Position
	}
	if v, ok := ecs.Get(r.world, e, component.VelocityComponent.Kind()); ok {
		v.Value = cp.Vector{}
	}
	r.world.Events().Push(ecs.Event{Type: EventEnemyDied, Data: DeathEvent{
		Entity:      e,
		ArchetypeID: en.ArchetypeID,
		Position:    pos,
		XP:          en.XP,
		DeathRadius: en.DeathRadius,
		Boss:        ecs.Has(r.world, e, component.BossComponent.Kind()),
	}})
	return true
}

// Despawn removes an enemy without death effects.
func (r *EnemyRoster) Despawn(e ecs.Entity) bool {
	if !ecs.Has(r.world, e, component.EnemyComponent.Kind()) {
		return false
	}
	return ecs.DestroyEntity(r.world, e)
}

// Get returns the enemy for e, alive or awaiting the next sweep.
func (r *EnemyRoster) Get(e ecs.Entity) (*component.Enemy, bool) {
	return ecs.Get(r.world, e, component.EnemyComponent.Kind())
}

func (r *EnemyRoster) Alive(e ecs.Entity) bool {
	en, ok := r.Get(e)
	return ok && en.Alive
}

func (r *EnemyRoster) Position(e ecs.Entity) (cp.Vector, bool) {
	t, ok := ecs.Get(r.world, e, component.TransformComponent.Kind())
	if !ok {
		return cp.Vector{}, false
	}
	return t.Position, true
}

// Each visits alive enemies.
func (r *EnemyRoster) Each(fn func(ecs.Entity, *component.Enemy, *component.Transform)) {
	ecs.ForEach2(r.world, component.EnemyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, en *component.Enemy, t *component.Transform) {
		if en.Alive {
			fn(e, en, t)
		}
	})
}

// Len returns the number of alive enemies.
func (r *EnemyRoster) Len() int {
	n := 0
	r.Each(func(ecs.Entity, *component.Enemy, *component.Transform) { n++ })
	return n
}

func (r *EnemyRoster) Kills() int {
	return r.kills
}
