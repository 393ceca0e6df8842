package sim

import (
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/arena/catalog"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
)

// Body is the position and size of an entity, enough to draw it or to sync
// it into an overlap space.
type Body struct {
	Entity   ecs.Entity
	Position cp.Vector
	Radius   float64
}

type EnemyView struct {
	Body
	ArchetypeID string
	HP          int
	MaxHP       int
	Boss        bool
}

type KineticView struct {
	Body
	Kind component.KineticKind
}

type XpOrbView struct {
	Body
	XP int
}

// Snapshot is the HUD state.
type Snapshot struct {
	RunID     string
	Elapsed   time.Duration
	Kills     int
	HP        int
	MaxHP     int
	Level     int
	XP        int
	XPToNext  int
	Paused    bool
	GameOver  bool
	Choices   []catalog.Upgrade
	XpOrbs    int
	Cooldown  time.Duration
	Orbit     bool
	Abilities component.Abilities
	BossAlive bool
}

func (s *Session) Now() time.Duration {
	return s.now
}

func (s *Session) Elapsed() time.Duration {
	return s.now - s.start
}

func (s *Session) RunID() string {
	return s.runID.String()
}

func (s *Session) Paused() bool {
	return s.paused()
}

func (s *Session) GameOver() bool {
	return s.gameOver
}

// Choices returns the upgrades offered by the pending level-up.
func (s *Session) Choices() []catalog.Upgrade {
	return append([]catalog.Upgrade(nil), s.choices...)
}

// Enemies lists alive enemies.
func (s *Session) Enemies() []EnemyView {
	var out []EnemyView
	s.roster.Each(func(e ecs.Entity, en *component.Enemy, t *component.Transform) {
		out = append(out, EnemyView{
			Body:        Body{Entity: e, Position: t.Position, Radius: t.Radius},
			ArchetypeID: en.ArchetypeID,
			HP:          en.HP,
			MaxHP:       en.MaxHP,
			Boss:        ecs.Has(s.world, e, component.BossComponent.Kind()),
		})
	})
	return out
}

// Kinetics lists projectiles and bombs in flight.
func (s *Session) Kinetics() []KineticView {
	var out []KineticView
	ecs.ForEach2(s.world, component.KineticComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, k *component.Kinetic, t *component.Transform) {
		if k.Spent {
			return
		}
		out = append(out, KineticView{Body: Body{Entity: e, Position: t.Position, Radius: t.Radius}, Kind: k.Kind})
	})
	return out
}

func (s *Session) OrbitOrbs() []Body {
	var out []Body
	for _, e := range s.abilities.Orbs() {
		if t, ok := ecs.Get(s.world, e, component.TransformComponent.Kind()); ok {
			out = append(out, Body{Entity: e, Position: t.Position, Radius: t.Radius})
		}
	}
	return out
}

func (s *Session) XpOrbs() []XpOrbView {
	var out []XpOrbView
	ecs.ForEach2(s.world, component.XpOrbComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, o *component.XpOrb, t *component.Transform) {
		out = append(out, XpOrbView{Body: Body{Entity: e, Position: t.Position, Radius: t.Radius}, XP: o.XP})
	})
	return out
}

func (s *Session) Player() Body {
	b := Body{Entity: s.hero}
	if t, ok := ecs.Get(s.world, s.hero, component.TransformComponent.Kind()); ok {
		b.Position, b.Radius = t.Position, t.Radius
	}
	return b
}

func (s *Session) Stats() component.PlayerStats {
	if st, ok := ecs.Get(s.world, s.hero, component.PlayerStatsComponent.Kind()); ok {
		return *st
	}
	return component.PlayerStats{}
}

func (s *Session) Snapshot() Snapshot {
	st := s.Stats()
	snap := Snapshot{
		RunID:     s.RunID(),
		Elapsed:   s.Elapsed(),
		Kills:     s.roster.Kills(),
		HP:        st.HP,
		MaxHP:     st.MaxHP,
		Level:     s.progress.Level(),
		XP:        s.progress.XP(),
		XPToNext:  s.progress.XPToNext(),
		Paused:    s.paused(),
		GameOver:  s.gameOver,
		Choices:   s.Choices(),
		XpOrbs:    ecs.Len(s.world, component.XpOrbComponent.Kind()),
		Cooldown:  s.abilities.CooldownRemaining(s.now),
		Orbit:     s.abilities.OrbitActive(),
		BossAlive: s.waves.SpawnPaused(),
	}
	if ab, ok := ecs.Get(s.world, s.hero, component.AbilitiesComponent.Kind()); ok {
		snap.Abilities = *ab
	}
	return snap
}
