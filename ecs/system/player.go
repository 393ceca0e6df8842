package system

import (
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/arena/common"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
)

// PlayerController moves the player from the current intent and applies
// contact damage behind an invulnerability window.
type PlayerController struct {
	world           *ecs.World
	player          ecs.Entity
	bounds          cp.BB
	invulnerability time.Duration
	intent          cp.Vector
}

func NewPlayerController(w *ecs.World, player ecs.Entity, bounds cp.BB, invulnerability time.Duration) *PlayerController {
	return &PlayerController{world: w, player: player, bounds: bounds, invulnerability: invulnerability}
}

// SpawnPlayer creates the player entity.
func SpawnPlayer(w *ecs.World, pos cp.Vector, radius float64, stats component.PlayerStats) ecs.Entity {
	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: pos, Radius: radius})
	_ = ecs.Add(w, e, component.PlayerStatsComponent.Kind(), &stats)
	_ = ecs.Add(w, e, component.AbilitiesComponent.Kind(), &component.Abilities{})
	_ = ecs.Add(w, e, component.InvulnerableComponent.Kind(), &component.Invulnerable{})
	return e
}

// SetIntent stores the desired move direction. Any non-zero intent is
// normalized so diagonals are not faster.
func (c *PlayerController) SetIntent(x, y float64) {
	c.intent = common.Normalize(cp.Vector{X: x, Y: y})
}

func (c *PlayerController) Position() cp.Vector {
	if t, ok := ecs.Get(c.world, c.player, component.TransformComponent.Kind()); ok {
		return t.Position
	}
	return cp.Vector{}
}

// Move advances the player by intent × moveSpeed × dt inside the bounds.
func (c *PlayerController) Move(dt float64) {
	t, ok := ecs.Get(c.world, c.player, component.TransformComponent.Kind())
	if !ok {
		return
	}
	st, ok := ecs.Get(c.world, c.player, component.PlayerStatsComponent.Kind())
	if !ok {
		return
	}
	p := t.Position.Add(c.intent.Mult(st.MoveSpeed * dt))
	p.X = cp.Clamp(p.X, c.bounds.L, c.bounds.R)
	p.Y = cp.Clamp(p.Y, c.bounds.B, c.bounds.T)
	t.Position = p
}

// ContactDamage applies amount unless the player is still invulnerable from
// the previous accepted hit. It reports whether the hit landed.
func (c *PlayerController) ContactDamage(now time.Duration, amount int) bool {
	if amount <= 0 {
		return false
	}
	st, ok := ecs.Get(c.world, c.player, component.PlayerStatsComponent.Kind())
	if !ok || st.HP <= 0 {
		return false
	}
	inv, ok := ecs.Get(c.world, c.player, component.InvulnerableComponent.Kind())
	if ok && now < inv.Until {
		return false
	}
	st.HP = max(st.HP-amount, 0)
	if ok {
		inv.Until = now + c.invulnerability
	}
	c.world.Events().Push(ecs.Event{Type: EventPlayerHit, Data: PlayerHitEvent{Damage: amount, HP: st.HP}})
	return true
}

func (c *PlayerController) Dead() bool {
	st, ok := ecs.Get(c.world, c.player, component.PlayerStatsComponent.Kind())
	return ok && st.HP <= 0
}
