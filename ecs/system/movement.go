package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/arena/common"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
)

// MovementSystem integrates Velocity into Transform.
type MovementSystem struct {
	dt float64
}

func NewMovementSystem() *MovementSystem {
	return &MovementSystem{}
}

// SetDelta sets the step, in seconds, used by the next Update.
func (s *MovementSystem) SetDelta(dt float64) {
	s.dt = dt
}

func (s *MovementSystem) Update(w *ecs.World) {
	if w == nil || s.dt <= 0 {
		return
	}
	ecs.ForEach2(w, component.TransformComponent.Kind(), component.VelocityComponent.Kind(), func(_ ecs.Entity, t *component.Transform, v *component.Velocity) {
		t.Position = t.Position.Add(v.Value.Mult(s.dt))
	})
}

// MagnetSystem pulls XP orbs inside the player's magnet radius toward the
// player at a fixed speed. Orbs outside the radius stop.
type MagnetSystem struct {
	player ecs.Entity
	speed  float64
}

func NewMagnetSystem(player ecs.Entity, speed float64) *MagnetSystem {
	return &MagnetSystem{player: player, speed: speed}
}

func (s *MagnetSystem) Update(w *ecs.World) {
	st, ok := ecs.Get(w, s.player, component.PlayerStatsComponent.Kind())
	if !ok {
		return
	}
	pt, ok := ecs.Get(w, s.player, component.TransformComponent.Kind())
	if !ok {
		return
	}
	radius := st.MagnetRadius
	ecs.ForEach(w, component.XpOrbComponent.Kind(), func(e ecs.Entity, _ *component.XpOrb) {
		t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			return
		}
		v, ok := ecs.Get(w, e, component.VelocityComponent.Kind())
		if !ok {
			return
		}
		if radius > 0 && t.Position.DistanceSq(pt.Position) < radius*radius {
			v.Value = common.Direction(t.Position, pt.Position).Mult(s.speed)
			return
		}
		v.Value = cp.Vector{}
	})
}

// SpawnXpOrb drops an orb worth xp at pos.
func SpawnXpOrb(w *ecs.World, pos cp.Vector, radius float64, xp int) ecs.Entity {
	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, component.XpOrbComponent.Kind(), &component.XpOrb{XP: xp})
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: pos, Radius: radius})
	_ = ecs.Add(w, e, component.VelocityComponent.Kind(), &component.Velocity{})
	return e
}

// CollectXpOrb removes the orb and returns its value. Stale handles yield 0.
func CollectXpOrb(w *ecs.World, e ecs.Entity) (int, bool) {
	orb, ok := ecs.Get(w, e, component.XpOrbComponent.Kind())
	if !ok {
		return 0, false
	}
	xp := orb.XP
	ecs.DestroyEntity(w, e)
	return xp, true
}
