package system

import (
	"math"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/arena/common"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
)

type AbilityConfig struct {
	SpecialCooldown      time.Duration
	KineticLifetime      time.Duration
	ProjectileSpeed      float64
	ProjectileRadius     float64
	BombSpeed            float64
	BombRadius           float64
	BombCaptureRadius    float64
	BombDamageMultiplier int
	OrbitCount           int
	OrbitRadius          float64
	OrbitOrbRadius       float64
	OrbitAngularSpeed    float64
	OrbitThrottle        time.Duration
}

type queuedHit struct {
	source ecs.Entity
	enemy  ecs.Entity
}

// PlayerAbilityState is the player's offensive state machine: the auto-attack
// pulse, manual projectiles, and the bomb or orbit special sharing one
// cooldown. Overlaps are queued as they arrive and applied by Resolve.
type PlayerAbilityState struct {
	world  *ecs.World
	roster *EnemyRoster
	player ecs.Entity
	cfg    AbilityConfig

	attack         *LoopTimer
	pendingPulses  int
	specialReadyAt time.Duration

	orbitActive bool
	orbs        []ecs.Entity
	throttle    map[ecs.Entity]time.Duration

	kineticHits []queuedHit
	orbitHits   []queuedHit
}

func NewPlayerAbilityState(w *ecs.World, roster *EnemyRoster, player ecs.Entity, cfg AbilityConfig, now time.Duration) *PlayerAbilityState {
	a := &PlayerAbilityState{
		world:    w,
		roster:   roster,
		player:   player,
		cfg:      cfg,
		throttle: make(map[ecs.Entity]time.Duration),
	}
	a.attack = NewLoopTimer(now, a.stats().AttackRate)
	return a
}

func (a *PlayerAbilityState) stats() *component.PlayerStats {
	s, ok := ecs.Get(a.world, a.player, component.PlayerStatsComponent.Kind())
	if !ok {
		return &component.PlayerStats{}
	}
	return s
}

func (a *PlayerAbilityState) unlocked() component.Abilities {
	ab, ok := ecs.Get(a.world, a.player, component.AbilitiesComponent.Kind())
	if !ok {
		return component.Abilities{}
	}
	return *ab
}

func (a *PlayerAbilityState) position() cp.Vector {
	t, ok := ecs.Get(a.world, a.player, component.TransformComponent.Kind())
	if !ok {
		return cp.Vector{}
	}
	return t.Position
}

// Timers advances the auto-attack timer. Fires while paused are dropped.
func (a *PlayerAbilityState) Timers(now time.Duration, paused bool) {
	n := a.attack.Fire(now)
	if !paused {
		a.pendingPulses += n
	}
}

// RearmAttack restarts the auto-attack timer with the current attack rate.
func (a *PlayerAbilityState) RearmAttack(now time.Duration) {
	a.attack.Rearm(now, a.stats().AttackRate)
}

func (a *PlayerAbilityState) AttackPeriod() time.Duration {
	return a.attack.Period()
}

// CooldownRemaining returns how long until the special can be used.
func (a *PlayerAbilityState) CooldownRemaining(now time.Duration) time.Duration {
	return max(a.specialReadyAt-now, 0)
}

// PrimaryAttack launches a projectile toward target.
func (a *PlayerAbilityState) PrimaryAttack(now time.Duration, target cp.Vector) ecs.Entity {
	return a.launch(now, component.KineticProjectile, target, a.cfg.ProjectileSpeed, a.stats().BaseDamage)
}

// Special uses the unlocked special ability. It reports whether anything
// happened; calls during the cooldown are dropped.
func (a *PlayerAbilityState) Special(now time.Duration, target cp.Vector) bool {
	ab := a.unlocked()
	switch {
	case ab.Bomb:
		if now < a.specialReadyAt {
			return false
		}
		dmg := a.stats().BaseDamage * a.cfg.BombDamageMultiplier
		a.launch(now, component.KineticBomb, target, a.cfg.BombSpeed, dmg)
		a.specialReadyAt = now + a.cfg.SpecialCooldown
		return true
	case ab.Orbit:
		if a.orbitActive {
			a.DisableOrbit()
			return true
		}
		if now < a.specialReadyAt {
			return false
		}
		a.enableOrbit()
		a.specialReadyAt = now + a.cfg.SpecialCooldown
		return true
	}
	return false
}

func (a *PlayerAbilityState) launch(now time.Duration, kind component.KineticKind, target cp.Vector, speed float64, damage int) ecs.Entity {
	origin := a.position()
	e := ecs.CreateEntity(a.world)
	_ = ecs.Add(a.world, e, component.KineticComponent.Kind(), &component.Kinetic{
		Kind:      kind,
		Target:    target,
		Damage:    damage,
		ExpiresAt: now + a.cfg.KineticLifetime,
	})
	_ = ecs.Add(a.world, e, component.TransformComponent.Kind(), &component.Transform{Position: origin, Radius: a.cfg.ProjectileRadius})
	_ = ecs.Add(a.world, e, component.VelocityComponent.Kind(), &component.Velocity{Value: common.Direction(origin, target).Mult(speed)})
	return e
}

func (a *PlayerAbilityState) enableOrbit() {
	a.orbitActive = true
	n := a.cfg.OrbitCount
	for i := range n {
		e := ecs.CreateEntity(a.world)
		angle := 2 * math.Pi * float64(i) / float64(n)
		_ = ecs.Add(a.world, e, component.OrbitOrbComponent.Kind(), &component.OrbitOrb{Index: i, Angle: angle})
		_ = ecs.Add(a.world, e, component.TransformComponent.Kind(), &component.Transform{Radius: a.cfg.OrbitOrbRadius})
		a.orbs = append(a.orbs, e)
	}
	a.placeOrbs()
}

// DisableOrbit removes the orbs and forgets every throttle entry. It is a
// no-op when the field is off.
func (a *PlayerAbilityState) DisableOrbit() {
	if !a.orbitActive {
		return
	}
	for _, e := range a.orbs {
		ecs.DestroyEntity(a.world, e)
	}
	a.orbs = nil
	a.orbitActive = false
	a.orbitHits = a.orbitHits[:0]
	clear(a.throttle)
}

func (a *PlayerAbilityState) OrbitActive() bool {
	return a.orbitActive
}

func (a *PlayerAbilityState) Orbs() []ecs.Entity {
	return append([]ecs.Entity(nil), a.orbs...)
}

// AngularSpeed is the orbit rotation in radians per second.
func (a *PlayerAbilityState) AngularSpeed() float64 {
	return a.cfg.OrbitAngularSpeed * a.stats().MoveSpeed / 100
}

// Move rotates the orbit field around the player.
func (a *PlayerAbilityState) Move(dt float64) {
	if !a.orbitActive {
		return
	}
	step := a.AngularSpeed() * dt
	for _, e := range a.orbs {
		if o, ok := ecs.Get(a.world, e, component.OrbitOrbComponent.Kind()); ok {
			o.Angle = math.Mod(o.Angle+step, 2*math.Pi)
		}
	}
	a.placeOrbs()
}

func (a *PlayerAbilityState) placeOrbs() {
	center := a.position()
	for _, e := range a.orbs {
		o, ok := ecs.Get(a.world, e, component.OrbitOrbComponent.Kind())
		if !ok {
			continue
		}
		if t, ok := ecs.Get(a.world, e, component.TransformComponent.Kind()); ok {
			t.Position = center.Add(cp.ForAngle(o.Angle).Mult(a.cfg.OrbitRadius))
		}
	}
}

// QueueKineticHit records a projectile or bomb touching an enemy.
func (a *PlayerAbilityState) QueueKineticHit(kinetic, enemy ecs.Entity) {
	a.kineticHits = append(a.kineticHits, queuedHit{source: kinetic, enemy: enemy})
}

// QueueOrbitHit records an orbit orb touching an enemy.
func (a *PlayerAbilityState) QueueOrbitHit(orb, enemy ecs.Entity) {
	if !a.orbitActive {
		return
	}
	a.orbitHits = append(a.orbitHits, queuedHit{source: orb, enemy: enemy})
}

// Resolve applies this tick's pulses and queued hits, then bomb captures and
// kinetic timeouts, in that order.
func (a *PlayerAbilityState) Resolve(now time.Duration) {
	st := a.stats()
	center := a.position()
	for ; a.pendingPulses > 0; a.pendingPulses-- {
		a.roster.DamageInRange(center, st.AttackRange, st.BaseDamage)
		a.visual(VisualPulse, center, st.AttackRange)
	}

	for _, hit := range a.kineticHits {
		k, ok := ecs.Get(a.world, hit.source, component.KineticComponent.Kind())
		if !ok || k.Spent || !a.roster.Alive(hit.enemy) {
			continue
		}
		if k.Kind == component.KineticBomb {
			a.explode(hit.source, k)
			continue
		}
		a.roster.DamageOne(hit.enemy, k.Damage)
		k.Spent = true
		ecs.DestroyEntity(a.world, hit.source)
	}
	a.kineticHits = a.kineticHits[:0]

	ecs.ForEach2(a.world, component.KineticComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, k *component.Kinetic, t *component.Transform) {
		if k.Spent {
			return
		}
		captured := k.Kind == component.KineticBomb && common.WithinRadius(t.Position, k.Target, a.cfg.BombCaptureRadius)
		if !captured && now < k.ExpiresAt {
			return
		}
		if k.Kind == component.KineticBomb {
			a.explode(e, k)
			return
		}
		k.Spent = true
		ecs.DestroyEntity(a.world, e)
	})

	a.resolveOrbit(now, st.BaseDamage)
}

func (a *PlayerAbilityState) resolveOrbit(now time.Duration, damage int) {
	for e := range a.throttle {
		if !a.roster.Alive(e) {
			delete(a.throttle, e)
		}
	}
	if !a.orbitActive {
		a.orbitHits = a.orbitHits[:0]
		return
	}
	for _, hit := range a.orbitHits {
		if !a.roster.Alive(hit.enemy) {
			continue
		}
		if last, ok := a.throttle[hit.enemy]; ok && now-last < a.cfg.OrbitThrottle {
			continue
		}
		a.throttle[hit.enemy] = now
		a.roster.DamageOne(hit.enemy, damage)
	}
	a.orbitHits = a.orbitHits[:0]
}

func (a *PlayerAbilityState) explode(e ecs.Entity, k *component.Kinetic) {
	var pos cp.Vector
	if t, ok := ecs.Get(a.world, e, component.TransformComponent.Kind()); ok {
		pos = t.Position
	}
	k.Spent = true
	ecs.DestroyEntity(a.world, e)
	a.roster.DamageInRange(pos, a.cfg.BombRadius, k.Damage)
	a.visual(VisualExplosion, pos, a.cfg.BombRadius)
}

func (a *PlayerAbilityState) visual(kind VisualKind, pos cp.Vector, radius float64) {
	a.world.Events().Push(ecs.Event{Type: EventVisual, Data: VisualEvent{Kind: kind, Position: pos, Radius: radius}})
}

// SyncUnlocks cancels whatever belongs to an ability that is no longer
// unlocked: the orbit field, or bombs still in flight.
func (a *PlayerAbilityState) SyncUnlocks() {
	ab := a.unlocked()
	if !ab.Orbit {
		a.DisableOrbit()
	}
	if !ab.Bomb {
		ecs.ForEach(a.world, component.KineticComponent.Kind(), func(e ecs.Entity, k *component.Kinetic) {
			if k.Kind == component.KineticBomb {
				ecs.DestroyEntity(a.world, e)
			}
		})
	}
}

// Throttled reports whether enemy is inside its orbit damage window.
func (a *PlayerAbilityState) Throttled(enemy ecs.Entity, now time.Duration) bool {
	last, ok := a.throttle[enemy]
	return ok && now-last < a.cfg.OrbitThrottle
}
