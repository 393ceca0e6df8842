package system

import (
	"math"
	"testing"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
)

func newPlayerFixture() (*ecs.World, ecs.Entity, *PlayerController) {
	w := ecs.NewWorld()
	player := SpawnPlayer(w, cp.Vector{X: 400, Y: 300}, 12, component.PlayerStats{MaxHP: 100, HP: 100, MoveSpeed: 100})
	c := NewPlayerController(w, player, cp.BB{L: 0, B: 0, R: 800, T: 600}, 500*time.Millisecond)
	return w, player, c
}

func TestContactDamageInvulnerability(t *testing.T) {
	w, player, c := newPlayerFixture()

	steps := []struct {
		now    time.Duration
		amount int
		landed bool
		hp     int
	}{
		{0, 10, true, 90},
		{100 * time.Millisecond, 10, false, 90},
		{499 * time.Millisecond, 10, false, 90},
		{500 * time.Millisecond, 10, true, 80},
		{700 * time.Millisecond, 0, false, 80},
		{2 * time.Second, 200, true, 0},
		{3 * time.Second, 10, false, 0},
	}
	for _, s := range steps {
		if got := c.ContactDamage(s.now, s.amount); got != s.landed {
			t.Fatalf("at %v: expected landed=%v", s.now, s.landed)
		}
		st, _ := ecs.Get(w, player, component.PlayerStatsComponent.Kind())
		if st.HP != s.hp {
			t.Fatalf("at %v: expected hp %d, got %d", s.now, s.hp, st.HP)
		}
	}
	if !c.Dead() {
		t.Fatalf("expected player dead at 0 hp")
	}
}

func TestPlayerMoveClamped(t *testing.T) {
	_, _, c := newPlayerFixture()

	c.SetIntent(1, 1)
	c.Move(1)
	got := c.Position()
	want := 400 + 100/math.Sqrt2
	if math.Abs(got.X-want) > 1e-9 || math.Abs(got.Y-(300+100/math.Sqrt2)) > 1e-9 {
		t.Fatalf("expected diagonal move normalized, got %v", got)
	}

	c.SetIntent(1, 0)
	c.Move(10)
	if c.Position().X != 800 {
		t.Fatalf("expected clamp at right edge, got %v", c.Position())
	}

	c.SetIntent(0, 0)
	before := c.Position()
	c.Move(1)
	if c.Position() != before {
		t.Fatalf("zero intent moved the player")
	}
}

func TestMagnetAndCollect(t *testing.T) {
	w, player, _ := newPlayerFixture()
	near := SpawnXpOrb(w, cp.Vector{X: 450, Y: 300}, 5, 3)
	far := SpawnXpOrb(w, cp.Vector{X: 600, Y: 300}, 5, 1)

	magnet := NewMagnetSystem(player, 100)
	magnet.Update(w)
	if v, _ := ecs.Get(w, near, component.VelocityComponent.Kind()); v.Value.Length() != 0 {
		t.Fatalf("no magnet radius yet, orb moved")
	}

	st, _ := ecs.Get(w, player, component.PlayerStatsComponent.Kind())
	st.MagnetRadius = 100
	magnet.Update(w)

	nv, _ := ecs.Get(w, near, component.VelocityComponent.Kind())
	if math.Abs(nv.Value.X+100) > 1e-9 || math.Abs(nv.Value.Y) > 1e-9 {
		t.Fatalf("expected pull (-100,0), got %v", nv.Value)
	}
	fv, _ := ecs.Get(w, far, component.VelocityComponent.Kind())
	if fv.Value.Length() != 0 {
		t.Fatalf("orb outside radius should not move, got %v", fv.Value)
	}

	move := NewMovementSystem()
	move.SetDelta(0.1)
	move.Update(w)
	nt, _ := ecs.Get(w, near, component.TransformComponent.Kind())
	if math.Abs(nt.Position.X-440) > 1e-9 {
		t.Fatalf("expected orb at x=440, got %v", nt.Position)
	}

	xp, ok := CollectXpOrb(w, near)
	if !ok || xp != 3 {
		t.Fatalf("expected 3 xp, got %d ok=%v", xp, ok)
	}
	if _, ok := CollectXpOrb(w, near); ok {
		t.Fatalf("orb collected twice")
	}
}

func TestLoopTimer(t *testing.T) {
	timer := NewLoopTimer(0, time.Second)
	cases := []struct {
		now  time.Duration
		want int
	}{
		{999 * time.Millisecond, 0},
		{time.Second, 1},
		{1500 * time.Millisecond, 0},
		{4 * time.Second, 3},
	}
	for _, c := range cases {
		if got := timer.Fire(c.now); got != c.want {
			t.Fatalf("at %v: expected %d fires, got %d", c.now, c.want, got)
		}
	}
	if timer.Next() != 5*time.Second {
		t.Fatalf("expected next fire at 5s, got %v", timer.Next())
	}
	if (&LoopTimer{}).Fire(time.Hour) != 0 {
		t.Fatalf("zero period timer must never fire")
	}
}

func TestLoopTimerEachScheduledTimes(t *testing.T) {
	timer := NewLoopTimer(0, 30*time.Second)
	var got []time.Duration
	timer.Each(65*time.Second, func(at time.Duration) { got = append(got, at) })
	if len(got) != 2 || got[0] != 30*time.Second || got[1] != 60*time.Second {
		t.Fatalf("expected fires at 30s and 60s, got %v", got)
	}
	if timer.Next() != 90*time.Second {
		t.Fatalf("expected next fire at 90s, got %v", timer.Next())
	}
}
