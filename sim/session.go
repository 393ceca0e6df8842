package sim

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/arena/catalog"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
	"github.com/milk9111/arena/ecs/system"
)

var (
	ErrNotPaused     = errors.New("sim: no upgrade pending")
	ErrInvalidChoice = errors.New("sim: invalid upgrade choice")
	ErrGameOver      = errors.New("sim: game over")
)

// Session runs one play session. Collaborators feed it overlaps, pointer
// input and ticks, and drain the requests it produces. It is not safe for
// concurrent use.
type Session struct {
	cfg   Config
	runID uuid.UUID

	world     *ecs.World
	scheduler *ecs.Scheduler

	roster    *system.EnemyRoster
	waves     *system.WaveController
	abilities *system.PlayerAbilityState
	progress  *system.ProgressionTracker
	player    *system.PlayerController
	magnet    *system.MagnetSystem
	movement  *system.MovementSystem
	hero      ecs.Entity

	start time.Duration
	now   time.Duration
	dt    float64

	pickups  []ecs.Entity
	contacts []ecs.Entity
	leveled  bool
	choices  []catalog.Upgrade
	gameOver bool

	out outbox
}

func NewSession(cfg Config) (*Session, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	s := &Session{cfg: cfg}
	s.build(cfg.Now)
	return s, nil
}

func (s *Session) build(now time.Duration) {
	a := s.cfg.Arena
	w := ecs.NewWorld()

	s.world = w
	s.runID = uuid.New()
	s.start, s.now, s.dt = now, now, 0
	s.pickups, s.contacts, s.choices = nil, nil, nil
	s.leveled, s.gameOver = false, false

	s.roster = system.NewEnemyRoster(w)
	s.hero = system.SpawnPlayer(w, cp.Vector{X: a.Player.StartX, Y: a.Player.StartY}, a.Player.Radius, component.PlayerStats{
		MaxHP:       a.Player.MaxHP,
		HP:          min(a.Player.HP, a.Player.MaxHP),
		MoveSpeed:   a.Player.MoveSpeed,
		BaseDamage:  a.Player.BaseDamage,
		AttackRate:  a.Player.AttackRate,
		AttackRange: a.Player.AttackRange,
	})
	bounds := cp.BB{L: 0, B: 0, R: a.Arena.Width, T: a.Arena.Height}
	s.player = system.NewPlayerController(w, s.hero, bounds, a.Timing.Invulnerability)
	s.abilities = system.NewPlayerAbilityState(w, s.roster, s.hero, s.cfg.abilities(), now)
	s.waves = system.NewWaveController(w, s.roster, s.cfg.Enemies, s.cfg.Rand, s.cfg.waves(), now)
	s.waves.SetTrigger(s.cfg.Trigger)
	s.progress = system.NewProgressionTracker()
	s.magnet = system.NewMagnetSystem(s.hero, a.Xp.MagnetPullSpeed)
	s.movement = system.NewMovementSystem()

	events := w.Events()
	events.Subscribe(system.EventEnemyDied, s.onDeath)
	events.Subscribe(system.EventVisual, s.onVisual)
	events.Subscribe(system.EventWaveFired, s.onWave)
	events.Subscribe(system.EventBossSpawned, s.onBoss)
	events.Subscribe(system.EventPlayerHit, s.onPlayerHit)

	running := func() bool { return !s.paused() }
	s.scheduler = ecs.NewScheduler()
	s.scheduler.Add("timers", ecs.SystemFunc(s.runTimers))
	s.scheduler.AddGuarded("seek", ecs.SystemFunc(s.runSeek), running)
	s.scheduler.AddGuarded("magnet", s.magnet, running)
	s.scheduler.AddGuarded("integrate", s.movement, running)
	s.scheduler.AddGuarded("combat", ecs.SystemFunc(s.runCombat), running)
	s.scheduler.Add("events", ecs.SystemFunc(s.runEvents))
	s.scheduler.Add("progression", ecs.SystemFunc(s.runProgression))
	s.scheduler.Add("gate", ecs.SystemFunc(s.runGate))

	log.Printf("session: run %s started (%d archetypes, %d upgrades, steps %v)", s.runID, len(s.cfg.Enemies.IDs()), s.cfg.Upgrades.Len(), s.scheduler.Names())
}

// Tick advances the session to now. delta is the frame step used for
// movement.
func (s *Session) Tick(now, delta time.Duration) {
	if now > s.now {
		s.now = now
	}
	if s.gameOver {
		return
	}
	s.dt = delta.Seconds()
	s.movement.SetDelta(s.dt)
	s.scheduler.Update(s.world)
}

func (s *Session) paused() bool {
	return s.progress.Paused()
}

// blocked reports whether inbound gameplay events are ignored.
func (s *Session) blocked() bool {
	return s.gameOver || s.paused()
}

func (s *Session) runTimers(_ *ecs.World) {
	gated := s.blocked()
	s.abilities.Timers(s.now, gated)
	s.waves.Update(s.now, gated)
}

func (s *Session) runSeek(_ *ecs.World) {
	s.roster.UpdateAll(s.player.Position())
	s.player.Move(s.dt)
	s.abilities.Move(s.dt)
}

func (s *Session) runCombat(_ *ecs.World) {
	s.abilities.Resolve(s.now)
	for _, e := range s.contacts {
		en, ok := s.roster.Get(e)
		if !ok || !en.Alive {
			continue
		}
		s.player.ContactDamage(s.now, en.ContactDamage)
	}
	s.contacts = s.contacts[:0]
}

func (s *Session) runEvents(w *ecs.World) {
	w.Events().Dispatch()
}

// runProgression collects touched orbs. Once a level-up raises the gate the
// rest stay queued until the menu closes.
func (s *Session) runProgression(w *ecs.World) {
	n := 0
	for ; n < len(s.pickups) && !s.paused(); n++ {
		xp, ok := system.CollectXpOrb(w, s.pickups[n])
		if !ok {
			continue
		}
		if s.progress.GrantXP(xp) {
			s.leveled = true
		}
	}
	s.pickups = append(s.pickups[:0], s.pickups[n:]...)
}

func (s *Session) runGate(_ *ecs.World) {
	if s.player.Dead() && !s.gameOver {
		s.gameOver = true
		s.abilities.DisableOrbit()
		s.out.push(Request{Kind: RequestGameOver})
		log.Printf("session: run %s over after %v with %d kills", s.runID, s.Elapsed().Truncate(time.Millisecond), s.roster.Kills())
		return
	}
	if !s.leveled {
		return
	}
	s.leveled = false
	s.choices = s.cfg.Upgrades.Draw(s.cfg.Rand, catalog.ChoiceCount)
	log.Printf("session: level %d reached, offering %s", s.progress.Level(), choiceIDs(s.choices))
}

func (s *Session) onDeath(evt ecs.Event) {
	death, ok := evt.Data.(system.DeathEvent)
	if !ok {
		return
	}
	orb := system.SpawnXpOrb(s.world, death.Position, s.cfg.Arena.Xp.OrbRadius, death.XP)
	s.out.push(Request{Kind: RequestSpawnXpOrb, Entity: orb, Position: death.Position, XP: death.XP})
	s.out.push(Request{Kind: RequestSpawnVisual, Visual: system.VisualDeath, Position: death.Position, Radius: death.DeathRadius})
	if death.Boss {
		log.Printf("session: boss %s defeated", death.ArchetypeID)
	}
}

func (s *Session) onVisual(evt ecs.Event) {
	v, ok := evt.Data.(system.VisualEvent)
	if !ok {
		return
	}
	s.out.push(Request{Kind: RequestSpawnVisual, Visual: v.Kind, Position: v.Position, Radius: v.Radius})
}

func (s *Session) onWave(evt ecs.Event) {
	wave, ok := evt.Data.(system.WaveEvent)
	if !ok {
		return
	}
	s.out.push(Request{Kind: RequestShowWaveBanner, Count: wave.Count, Text: fmt.Sprintf("Wave incoming: %d enemies", wave.Count)})
}

func (s *Session) onBoss(evt ecs.Event) {
	boss, ok := evt.Data.(system.BossEvent)
	if !ok {
		return
	}
	s.out.push(Request{Kind: RequestShowBossBanner, Entity: boss.Entity, Text: boss.Name})
}

func (s *Session) onPlayerHit(evt ecs.Event) {
	if _, ok := evt.Data.(system.PlayerHitEvent); !ok {
		return
	}
	s.out.push(Request{Kind: RequestCameraFeedback, Feedback: FeedbackHit})
}

// OverlapKinetic reports a projectile, bomb or orbit orb touching an enemy.
func (s *Session) OverlapKinetic(source, enemy ecs.Entity) {
	if s.blocked() {
		return
	}
	switch {
	case ecs.Has(s.world, source, component.KineticComponent.Kind()):
		s.abilities.QueueKineticHit(source, enemy)
	case ecs.Has(s.world, source, component.OrbitOrbComponent.Kind()):
		s.abilities.QueueOrbitHit(source, enemy)
	}
}

// OverlapOrb reports the player touching an XP orb.
func (s *Session) OverlapOrb(orb ecs.Entity) {
	if s.blocked() || !ecs.Has(s.world, orb, component.XpOrbComponent.Kind()) {
		return
	}
	s.pickups = append(s.pickups, orb)
}

// OverlapEnemy reports the player touching an enemy.
func (s *Session) OverlapEnemy(enemy ecs.Entity) {
	if s.blocked() {
		return
	}
	s.contacts = append(s.contacts, enemy)
}

// HandleOverlaps routes pairs from the physics collaborator.
func (s *Session) HandleOverlaps(overlaps []ecs.Overlap) {
	for _, o := range overlaps {
		switch {
		case o.RoleB == ecs.RoleEnemy && (o.RoleA == ecs.RoleKinetic || o.RoleA == ecs.RoleOrbit):
			s.OverlapKinetic(o.A, o.B)
		case o.RoleA == ecs.RolePlayer && o.RoleB == ecs.RoleEnemy:
			s.OverlapEnemy(o.B)
		case o.RoleA == ecs.RolePlayer && o.RoleB == ecs.RoleXpOrb:
			s.OverlapOrb(o.B)
		}
	}
}

// PointerPrimary fires a projectile toward target.
func (s *Session) PointerPrimary(target cp.Vector) {
	if s.blocked() {
		return
	}
	s.abilities.PrimaryAttack(s.now, target)
}

// PointerSecondary uses the unlocked special ability.
func (s *Session) PointerSecondary(target cp.Vector) {
	if s.blocked() {
		return
	}
	s.abilities.Special(s.now, target)
}

func (s *Session) SetMoveIntent(x, y float64) {
	s.player.SetIntent(x, y)
}

// SelectUpgrade applies the i-th offered upgrade and lifts the pause gate.
func (s *Session) SelectUpgrade(i int) error {
	if s.gameOver {
		return ErrGameOver
	}
	if !s.paused() {
		return ErrNotPaused
	}
	if i < 0 || i >= len(s.choices) {
		return fmt.Errorf("sim: choice %d of %d: %w", i, len(s.choices), ErrInvalidChoice)
	}
	u := s.choices[i]

	if st, ok := ecs.Get(s.world, s.hero, component.PlayerStatsComponent.Kind()); ok {
		*st = catalog.Apply(*st, u.Delta)
	}
	if ab, ok := ecs.Get(s.world, s.hero, component.AbilitiesComponent.Kind()); ok {
		*ab = catalog.Unlock(*ab, u.Delta)
	}
	s.abilities.SyncUnlocks()
	if u.ChangesAttackRate() {
		s.abilities.RearmAttack(s.now)
	}

	s.choices = nil
	s.progress.Resume()
	log.Printf("session: upgrade %s selected at level %d", u.ID, s.progress.Level())
	return nil
}

// SpawnBoss spawns the boss on command. It returns the live boss if one
// already exists.
func (s *Session) SpawnBoss() ecs.Entity {
	if s.blocked() {
		return 0
	}
	return s.waves.SpawnBoss(s.now)
}

// Restart throws away all session state and starts over at the current time.
func (s *Session) Restart() {
	prev := s.runID
	s.out.push(Request{Kind: RequestSceneRestart})
	s.build(s.now)
	log.Printf("session: run %s restarted as %s", prev, s.runID)
}

// ReloadCatalog swaps the enemy catalog for future spawns.
func (s *Session) ReloadCatalog(cat *catalog.EnemyCatalog) {
	if cat == nil {
		return
	}
	s.cfg.Enemies = cat
	s.waves.SetCatalog(cat)
	log.Printf("session: enemy catalog reloaded (%d archetypes)", len(cat.IDs()))
}

// DrainRequests returns and clears the outbound requests.
func (s *Session) DrainRequests() []Request {
	return s.out.drain()
}

func choiceIDs(choices []catalog.Upgrade) []string {
	ids := make([]string, 0, len(choices))
	for _, c := range choices {
		ids = append(ids, c.ID)
	}
	return ids
}
