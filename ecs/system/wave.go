package system

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/arena/catalog"
	"github.com/milk9111/arena/common"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
)

const (
	trickleMinProbability = 0.02
	trickleMaxProbability = 0.7
	trickleRampSpan       = 300000 * time.Millisecond
	trickleScaleSpan      = 600000 * time.Millisecond
	waveScaleSpan         = 300000 * time.Millisecond
	waveCountSpan         = 60000 * time.Millisecond
	waveBaseCount         = 3
	waveHPMul             = 1.5
	waveSpeedMul          = 1.2
)

// TrickleProbability is the chance of a trickle spawn per poll.
func TrickleProbability(elapsed time.Duration) float64 {
	p := trickleMinProbability + common.Ratio(elapsed, trickleRampSpan)
	return math.Min(math.Max(p, trickleMinProbability), trickleMaxProbability)
}

func TrickleScaling(elapsed time.Duration) Scaling {
	return Scaling{Factor: 1 + common.Ratio(elapsed, trickleScaleSpan), HPMul: 1, SpeedMul: 1}
}

func WaveScaling(elapsed time.Duration) Scaling {
	return Scaling{Factor: 1 + common.Ratio(elapsed, waveScaleSpan), HPMul: waveHPMul, SpeedMul: waveSpeedMul}
}

// WaveCount is the number of enemies in a burst fired at elapsed.
func WaveCount(elapsed time.Duration) int {
	if elapsed < 0 {
		elapsed = 0
	}
	return int(math.Floor(waveBaseCount + common.Ratio(elapsed, waveCountSpan)))
}

type WaveConfig struct {
	TricklePoll  time.Duration
	WaveInterval time.Duration
	Width        float64
	Height       float64
	SpawnMargin  float64
	BossName     string
}

// WaveReport summarizes what one Update spawned.
type WaveReport struct {
	Trickled  int
	WaveFired bool
	WaveCount int
	Boss      ecs.Entity
}

// WaveController decides when and what to spawn. Trickle and wave timers keep
// running while spawning is gated; gated fires are dropped.
type WaveController struct {
	roster  *EnemyRoster
	catalog *catalog.EnemyCatalog
	rng     common.Rand
	cfg     WaveConfig
	trigger *BossTrigger

	start       time.Duration
	trickle     *LoopTimer
	wave        *LoopTimer
	spawnPaused bool
	boss        ecs.Entity
	bosses      int
}

func NewWaveController(w *ecs.World, roster *EnemyRoster, cat *catalog.EnemyCatalog, rng common.Rand, cfg WaveConfig, start time.Duration) *WaveController {
	wc := &WaveController{
		roster:  roster,
		catalog: cat,
		rng:     rng,
		cfg:     cfg,
		start:   start,
		trickle: NewLoopTimer(start, cfg.TricklePoll),
		wave:    NewLoopTimer(start, cfg.WaveInterval),
	}
	w.Events().Subscribe(EventEnemyDied, wc.onDeath)
	return wc
}

// SetTrigger installs the scripted boss trigger consulted on every poll.
func (wc *WaveController) SetTrigger(t *BossTrigger) {
	wc.trigger = t
}

// SetCatalog swaps the archetype table used for future spawns.
func (wc *WaveController) SetCatalog(cat *catalog.EnemyCatalog) {
	if cat != nil {
		wc.catalog = cat
	}
}

func (wc *WaveController) SpawnPaused() bool {
	return wc.spawnPaused
}

func (wc *WaveController) Bosses() int {
	return wc.bosses
}

func (wc *WaveController) NextWave() time.Duration {
	return wc.wave.Next()
}

// ChooseEnemyType selects an archetype for elapsed, independently per call.
func (wc *WaveController) ChooseEnemyType(elapsed time.Duration) catalog.Archetype {
	return wc.catalog.Choose(elapsed, wc.rng.Float64())
}

// Update advances both spawn rhythms to now. gated is the pause-for-upgrade
// gate. Each fire is evaluated at its own scheduled time, so a late Update
// spawns what the fixed schedule would have.
func (wc *WaveController) Update(now time.Duration, gated bool) WaveReport {
	var report WaveReport
	wc.releaseMissingBoss()

	wc.trickle.Each(now, func(at time.Duration) {
		if gated || wc.spawnPaused {
			return
		}
		elapsed := at - wc.start
		if wc.trigger != nil {
			spawn, err := wc.trigger.Check(elapsed, wc.roster.Kills(), wc.bosses)
			if err != nil {
				log.Printf("wave: boss trigger: %v", err)
				wc.trigger = nil
			} else if spawn {
				report.Boss = wc.SpawnBoss(at)
				return
			}
		}
		if wc.rng.Float64() < TrickleProbability(elapsed) {
			a := wc.ChooseEnemyType(elapsed)
			wc.roster.Spawn(a, TrickleScaling(elapsed), wc.spawnPosition())
			report.Trickled++
		}
	})

	wc.wave.Each(now, func(at time.Duration) {
		if gated || wc.spawnPaused {
			return
		}
		report.WaveFired = true
		report.WaveCount += wc.fireWave(at - wc.start)
	})
	return report
}

func (wc *WaveController) fireWave(elapsed time.Duration) int {
	count := WaveCount(elapsed)
	scaling := WaveScaling(elapsed)
	for range count {
		a := wc.ChooseEnemyType(elapsed)
		wc.roster.Spawn(a, scaling, wc.spawnPosition())
	}
	wc.roster.world.Events().Push(ecs.Event{Type: EventWaveFired, Data: WaveEvent{Count: count, Elapsed: elapsed}})
	log.Printf("wave: burst of %d at %v", count, elapsed.Truncate(time.Millisecond))
	return count
}

// releaseMissingBoss lifts the spawn pause when the boss left the roster
// without a death, e.g. through Despawn.
func (wc *WaveController) releaseMissingBoss() {
	if !wc.spawnPaused || wc.roster.Alive(wc.boss) {
		return
	}
	if ecs.IsAlive(wc.roster.world, wc.boss) {
		// dead but not yet swept: the death event clears the pause
		return
	}
	wc.spawnPaused = false
	wc.boss = 0
	log.Printf("wave: boss removed")
}

// SpawnBoss spawns the catalog boss and pauses trickle and wave spawning until
// it dies. It is a no-op returning the existing handle while a boss is alive.
func (wc *WaveController) SpawnBoss(now time.Duration) ecs.Entity {
	if wc.spawnPaused && wc.roster.Alive(wc.boss) {
		return wc.boss
	}
	a := wc.catalog.Boss()
	e := wc.roster.Spawn(a, Unscaled, wc.spawnPosition())
	name := wc.cfg.BossName
	if name == "" {
		name = a.ID
	}
	_ = ecs.Add(wc.roster.world, e, component.BossComponent.Kind(), &component.Boss{DisplayName: name})
	wc.spawnPaused = true
	wc.boss = e
	wc.bosses++
	wc.roster.world.Events().Push(ecs.Event{Type: EventBossSpawned, Data: BossEvent{Entity: e, Name: name}})
	log.Printf("wave: boss %s spawned at %v", name, (now - wc.start).Truncate(time.Millisecond))
	return e
}

func (wc *WaveController) onDeath(evt ecs.Event) {
	death, ok := evt.Data.(DeathEvent)
	if !ok || death.Entity != wc.boss {
		return
	}
	wc.spawnPaused = false
	wc.boss = 0
	log.Printf("wave: boss cleared")
}

// spawnPosition picks a uniform point just outside a random arena edge.
func (wc *WaveController) spawnPosition() cp.Vector {
	edge := wc.rng.IntN(4)
	t := wc.rng.Float64()
	m := wc.cfg.SpawnMargin
	switch edge {
	case 0:
		return cp.Vector{X: t * wc.cfg.Width, Y: -m}
	case 1:
		return cp.Vector{X: wc.cfg.Width + m, Y: t * wc.cfg.Height}
	case 2:
		return cp.Vector{X: t * wc.cfg.Width, Y: wc.cfg.Height + m}
	default:
		return cp.Vector{X: -m, Y: t * wc.cfg.Height}
	}
}

func (wc *WaveController) String() string {
	return fmt.Sprintf("wave{next=%v paused=%v bosses=%d}", wc.wave.Next(), wc.spawnPaused, wc.bosses)
}
