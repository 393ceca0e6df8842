package sim

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/arena/catalog"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
	"github.com/milk9111/arena/ecs/system"
)

const frame = 16 * time.Millisecond

// fixedRand always rolls f, picks the first edge and never shuffles.
type fixedRand struct {
	f float64
}

func (r *fixedRand) Float64() float64 { return r.f }
func (r *fixedRand) IntN(n int) int { return 0 }
func (r *fixedRand) Shuffle(n int, swap func(i, j int)) {}

func testConfig(t *testing.T) Config {
	t.Helper()
	cfg, err := LoadConfig(&fixedRand{f: 0.99})
	if err != nil {
		t.Fatal(err)
	}
	cfg.Trigger = nil
	return cfg
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession(testConfig(t))
	if err != nil {
		t.Fatal(err)
	}
	s.DrainRequests()
	return s
}

func spawnEnemy(t *testing.T, s *Session, id string, pos cp.Vector) ecs.Entity {
	t.Helper()
	a, ok := s.cfg.Enemies.Get(id)
	if !ok {
		t.Fatalf("unknown archetype %s", id)
	}
	return s.roster.Spawn(a, system.Unscaled, pos)
}

func requestsOf(reqs []Request, kind RequestKind) []Request {
	var out []Request
	for _, r := range reqs {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

func setAbilities(s *Session, ab component.Abilities) {
	if cur, ok := ecs.Get(s.world, s.hero, component.AbilitiesComponent.Kind()); ok {
		*cur = ab
	}
}

func TestNewSessionValidatesConfig(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		target error
	}{
		{"nil_upgrades", func(c *Config) { c.Upgrades = nil }, catalog.ErrTooFewUpgrades},
		{"empty_upgrades", func(c *Config) { c.Upgrades = &catalog.UpgradeCatalog{} }, catalog.ErrTooFewUpgrades},
		{"nil_enemies", func(c *Config) { c.Enemies = nil }, nil},
		{"nil_rand", func(c *Config) { c.Rand = nil }, nil},
		{"zero_wave_interval", func(c *Config) { c.Arena.Timing.WaveInterval = 0 }, nil},
		{"zero_special_cooldown", func(c *Config) { c.Arena.Timing.SpecialCooldown = 0 }, nil},
		{"zero_kinetic_lifetime", func(c *Config) { c.Arena.Abilities.KineticLifetime = 0 }, nil},
		{"zero_orbit_throttle", func(c *Config) { c.Arena.Abilities.OrbitThrottle = 0 }, nil},
		{"zero_orbit_count", func(c *Config) { c.Arena.Abilities.OrbitCount = 0 }, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig(t)
			tc.mutate(&cfg)
			_, err := NewSession(cfg)
			if err == nil {
				t.Fatalf("expected error")
			}
			if tc.target != nil && !errors.Is(err, tc.target) {
				t.Fatalf("expected %v, got %v", tc.target, err)
			}
		})
	}
}

func TestDeathEmitsOneOrb(t *testing.T) {
	s := newTestSession(t)
	pos := cp.Vector{X: 100, Y: 100}
	e := spawnEnemy(t, s, "zombie", pos)

	if !s.roster.DamageOne(e, 25) {
		t.Fatalf("expected the hit to kill")
	}
	s.Tick(frame, frame)

	reqs := s.DrainRequests()
	orbs := requestsOf(reqs, RequestSpawnXpOrb)
	if len(orbs) != 1 || orbs[0].XP != 1 || orbs[0].Position != pos {
		t.Fatalf("expected one orb worth 1 at %v, got %+v", pos, orbs)
	}
	visuals := requestsOf(reqs, RequestSpawnVisual)
	if len(visuals) != 1 || visuals[0].Visual != system.VisualDeath || visuals[0].Radius != 16 {
		t.Fatalf("expected one death visual, got %+v", visuals)
	}

	snap := s.Snapshot()
	if snap.Kills != 1 || snap.XpOrbs != 1 {
		t.Fatalf("expected 1 kill and 1 orb, got %d and %d", snap.Kills, snap.XpOrbs)
	}
	if len(s.Enemies()) != 0 {
		t.Fatalf("dead enemy still listed")
	}

	s.roster.DamageOne(e, 5)
	s.Tick(2*frame, frame)
	if n := len(requestsOf(s.DrainRequests(), RequestSpawnXpOrb)); n != 0 {
		t.Fatalf("expected no further orbs, got %d", n)
	}
}

func TestLevelUpPausesAndOffersChoices(t *testing.T) {
	s := newTestSession(t)
	orb := system.SpawnXpOrb(s.world, s.Player().Position, 5, 10)

	s.OverlapOrb(orb)
	s.Tick(frame, frame)

	snap := s.Snapshot()
	if snap.Level != 2 || snap.XP != 0 || snap.XPToNext != 12 || !snap.Paused {
		t.Fatalf("unexpected progression %+v", snap)
	}
	if len(snap.Choices) != catalog.ChoiceCount {
		t.Fatalf("expected %d choices, got %d", catalog.ChoiceCount, len(snap.Choices))
	}
	seen := map[string]bool{}
	for _, c := range snap.Choices {
		if seen[c.ID] {
			t.Fatalf("duplicate choice %s", c.ID)
		}
		seen[c.ID] = true
	}

	s.PointerPrimary(cp.Vector{X: 0, Y: 0})
	s.Tick(2*time.Second, frame)
	if len(s.Kinetics()) != 0 {
		t.Fatalf("pointer input accepted while paused")
	}
	if n := len(requestsOf(s.DrainRequests(), RequestSpawnVisual)); n != 0 {
		t.Fatalf("auto-attack fired while paused (%d visuals)", n)
	}

	if err := s.SelectUpgrade(3); !errors.Is(err, ErrInvalidChoice) {
		t.Fatalf("expected ErrInvalidChoice, got %v", err)
	}
	if err := s.SelectUpgrade(0); err != nil {
		t.Fatal(err)
	}
	if s.Stats().BaseDamage != 15 {
		t.Fatalf("expected base damage 15, got %d", s.Stats().BaseDamage)
	}
	if s.Paused() || len(s.Choices()) != 0 {
		t.Fatalf("selection should resume the session")
	}
	if err := s.SelectUpgrade(0); !errors.Is(err, ErrNotPaused) {
		t.Fatalf("expected ErrNotPaused, got %v", err)
	}
}

func TestFasterAttackRearmsTimer(t *testing.T) {
	s := newTestSession(t)
	s.OverlapOrb(system.SpawnXpOrb(s.world, s.Player().Position, 5, 10))
	s.Tick(frame, frame)

	if got := s.Choices()[1].ID; got != "fasterAttack" {
		t.Fatalf("expected fasterAttack at index 1, got %s", got)
	}
	if err := s.SelectUpgrade(1); err != nil {
		t.Fatal(err)
	}
	if s.Stats().AttackRate != 450*time.Millisecond {
		t.Fatalf("expected 450ms attack rate, got %v", s.Stats().AttackRate)
	}
	if s.abilities.AttackPeriod() != 450*time.Millisecond {
		t.Fatalf("timer not re-armed, period %v", s.abilities.AttackPeriod())
	}
}

func TestSurplusPickupsWaitForMenu(t *testing.T) {
	s := newTestSession(t)
	pos := s.Player().Position
	s.OverlapOrb(system.SpawnXpOrb(s.world, pos, 5, 10))
	s.OverlapOrb(system.SpawnXpOrb(s.world, pos, 5, 10))
	s.Tick(frame, frame)

	snap := s.Snapshot()
	if snap.Level != 2 || snap.XP != 0 || snap.XpOrbs != 1 {
		t.Fatalf("expected second orb held back, got %+v", snap)
	}

	if err := s.SelectUpgrade(0); err != nil {
		t.Fatal(err)
	}
	s.Tick(2*frame, frame)
	snap = s.Snapshot()
	if snap.Level != 2 || snap.XP != 10 || snap.XpOrbs != 0 || snap.Paused {
		t.Fatalf("expected held orb collected after resume, got %+v", snap)
	}
}

func TestBombCooldown(t *testing.T) {
	s := newTestSession(t)
	setAbilities(s, component.Abilities{Bomb: true})
	target := cp.Vector{X: 700, Y: 300}

	s.PointerSecondary(target)
	k := s.Kinetics()
	if len(k) != 1 || k[0].Kind != component.KineticBomb {
		t.Fatalf("expected one bomb, got %+v", k)
	}

	s.Tick(5*time.Second, frame)
	if len(s.Kinetics()) != 0 {
		t.Fatalf("bomb should have timed out")
	}
	explosions := 0
	for _, r := range requestsOf(s.DrainRequests(), RequestSpawnVisual) {
		if r.Visual == system.VisualExplosion {
			explosions++
		}
	}
	if explosions != 1 {
		t.Fatalf("expected one explosion, got %d", explosions)
	}

	s.PointerSecondary(target)
	if len(s.Kinetics()) != 0 {
		t.Fatalf("special fired during cooldown")
	}
	if s.Snapshot().Cooldown != 5*time.Second {
		t.Fatalf("expected 5s cooldown left, got %v", s.Snapshot().Cooldown)
	}

	s.Tick(10*time.Second, frame)
	s.PointerSecondary(target)
	if len(s.Kinetics()) != 1 {
		t.Fatalf("expected bomb after cooldown")
	}
}

func TestOrbitToggle(t *testing.T) {
	s := newTestSession(t)
	setAbilities(s, component.Abilities{Orbit: true})
	center := s.Player().Position

	s.PointerSecondary(center)
	orbs := s.OrbitOrbs()
	if len(orbs) != 3 {
		t.Fatalf("expected 3 orbs, got %d", len(orbs))
	}
	for _, o := range orbs {
		if d := o.Position.Distance(center); math.Abs(d-50) > 1e-9 {
			t.Fatalf("orb at distance %v, expected 50", d)
		}
	}

	s.PointerSecondary(center)
	if len(s.OrbitOrbs()) != 0 || s.Snapshot().Orbit {
		t.Fatalf("second press should disable the field")
	}
	s.PointerSecondary(center)
	if len(s.OrbitOrbs()) != 0 {
		t.Fatalf("re-enabled during cooldown")
	}
}

func TestContactDamageAndGameOver(t *testing.T) {
	s := newTestSession(t)
	brute := spawnEnemy(t, s, "brute", s.Player().Position.Add(cp.Vector{X: 10}))

	s.OverlapEnemy(brute)
	s.Tick(frame, frame)
	if hp := s.Stats().HP; hp != 75 {
		t.Fatalf("expected hp 75, got %d", hp)
	}
	if n := len(requestsOf(s.DrainRequests(), RequestCameraFeedback)); n != 1 {
		t.Fatalf("expected one hit flash, got %d", n)
	}

	s.OverlapEnemy(brute)
	s.Tick(100*time.Millisecond, frame)
	if hp := s.Stats().HP; hp != 75 {
		t.Fatalf("hit landed inside invulnerability window, hp %d", hp)
	}

	if st, ok := ecs.Get(s.world, s.hero, component.PlayerStatsComponent.Kind()); ok {
		st.HP = 10
	}
	s.OverlapEnemy(brute)
	s.Tick(600*time.Millisecond, frame)
	if !s.GameOver() || s.Stats().HP != 0 {
		t.Fatalf("expected game over at hp 0, got hp %d", s.Stats().HP)
	}
	s.Tick(700*time.Millisecond, frame)
	if n := len(requestsOf(s.DrainRequests(), RequestGameOver)); n != 1 {
		t.Fatalf("expected exactly one game over request, got %d", n)
	}

	if err := s.SelectUpgrade(0); !errors.Is(err, ErrGameOver) {
		t.Fatalf("expected ErrGameOver, got %v", err)
	}
	s.PointerPrimary(cp.Vector{})
	if len(s.Kinetics()) != 0 {
		t.Fatalf("input accepted after game over")
	}

	prev := s.RunID()
	s.Restart()
	if n := len(requestsOf(s.DrainRequests(), RequestSceneRestart)); n != 1 {
		t.Fatalf("expected a scene restart request, got %d", n)
	}
	snap := s.Snapshot()
	if snap.GameOver || snap.HP != 100 || snap.Kills != 0 || snap.Elapsed != 0 || len(s.Enemies()) != 0 {
		t.Fatalf("restart did not reset state: %+v", snap)
	}
	if snap.RunID == prev {
		t.Fatalf("restart should start a new run")
	}
}

func TestHandleOverlapsRoutesPairs(t *testing.T) {
	s := newTestSession(t)
	first := spawnEnemy(t, s, "bat", cp.Vector{X: 600, Y: 300})
	second := spawnEnemy(t, s, "bat", cp.Vector{X: 600, Y: 310})
	s.PointerPrimary(cp.Vector{X: 600, Y: 300})
	k := s.Kinetics()
	if len(k) != 1 {
		t.Fatalf("expected one projectile")
	}
	orb := system.SpawnXpOrb(s.world, s.Player().Position, 5, 3)

	s.HandleOverlaps([]ecs.Overlap{
		{A: k[0].Entity, B: first, RoleA: ecs.RoleKinetic, RoleB: ecs.RoleEnemy},
		{A: k[0].Entity, B: second, RoleA: ecs.RoleKinetic, RoleB: ecs.RoleEnemy},
		{A: s.hero, B: orb, RoleA: ecs.RolePlayer, RoleB: ecs.RoleXpOrb},
	})
	s.Tick(frame, frame)

	if s.roster.Alive(first) {
		t.Fatalf("first bat should be dead")
	}
	if !s.roster.Alive(second) {
		t.Fatalf("projectile damaged two enemies")
	}
	if len(s.Kinetics()) != 0 {
		t.Fatalf("projectile should be removed on hit")
	}
	if snap := s.Snapshot(); snap.Kills != 1 || snap.XP != 3 {
		t.Fatalf("expected 1 kill and 3 xp, got %+v", snap)
	}
}

func TestWaveUsesReloadedCatalog(t *testing.T) {
	s := newTestSession(t)
	bat, _ := s.cfg.Enemies.Get("bat")
	batsOnly, err := catalog.NewEnemyCatalog([]catalog.Archetype{bat}, s.cfg.Enemies.Boss(), map[time.Duration]map[string]float64{
		0: {"bat": 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	s.ReloadCatalog(batsOnly)

	s.Tick(30*time.Second, frame)
	banners := requestsOf(s.DrainRequests(), RequestShowWaveBanner)
	if len(banners) != 1 || banners[0].Count != 3 {
		t.Fatalf("expected one banner for 3 enemies, got %+v", banners)
	}
	enemies := s.Enemies()
	if len(enemies) != 3 {
		t.Fatalf("expected 3 enemies, got %d", len(enemies))
	}
	for _, e := range enemies {
		if e.ArchetypeID != "bat" {
			t.Fatalf("expected bats only, got %s", e.ArchetypeID)
		}
		if e.HP != 16 {
			t.Fatalf("expected wave hp 16, got %d", e.HP)
		}
	}
}

func TestBossPausesSpawning(t *testing.T) {
	s := newTestSession(t)

	boss := s.SpawnBoss()
	if again := s.SpawnBoss(); again != boss {
		t.Fatalf("second command spawned another boss")
	}
	s.Tick(frame, frame)
	banners := requestsOf(s.DrainRequests(), RequestShowBossBanner)
	if len(banners) != 1 || banners[0].Text != "The Brute King" {
		t.Fatalf("expected boss banner, got %+v", banners)
	}
	if !s.Snapshot().BossAlive {
		t.Fatalf("expected boss alive")
	}

	s.Tick(30*time.Second, frame)
	if n := len(requestsOf(s.DrainRequests(), RequestShowWaveBanner)); n != 0 {
		t.Fatalf("wave fired while boss alive")
	}

	s.roster.DamageOne(boss, 5000)
	s.Tick(31*time.Second, frame)
	orbs := requestsOf(s.DrainRequests(), RequestSpawnXpOrb)
	if len(orbs) != 1 || orbs[0].XP != 100 {
		t.Fatalf("expected boss orb worth 100, got %+v", orbs)
	}
	if s.Snapshot().BossAlive {
		t.Fatalf("boss death should clear the spawn pause")
	}
}

func TestBossTriggerScript(t *testing.T) {
	cfg := testConfig(t)
	trigger, err := system.NewBossTrigger("test", []byte(`spawn := kills >= 1 && bosses == 0`))
	if err != nil {
		t.Fatal(err)
	}
	cfg.Trigger = trigger
	s, err := NewSession(cfg)
	if err != nil {
		t.Fatal(err)
	}

	s.Tick(time.Second, frame)
	if s.Snapshot().BossAlive {
		t.Fatalf("boss spawned before any kill")
	}

	e := spawnEnemy(t, s, "zombie", cp.Vector{X: 50, Y: 50})
	s.roster.DamageOne(e, 100)
	s.Tick(2*time.Second, frame)
	if !s.Snapshot().BossAlive {
		t.Fatalf("expected scripted boss after first kill")
	}
	if n := len(requestsOf(s.DrainRequests(), RequestShowBossBanner)); n != 1 {
		t.Fatalf("expected one boss banner, got %d", n)
	}
}
