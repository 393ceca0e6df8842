package main

import (
	"errors"
	"image/color"
	"log"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/arena/catalog"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/prefabs"
	"github.com/milk9111/arena/sim"
)

const (
	frameDelta   = time.Second / 60
	effectFrames = 20
	bannerFrames = 150
	flashFrames  = 8
)

type effect struct {
	req    sim.Request
	frames int
}

type Game struct {
	session *sim.Session
	physics *ecs.PhysicsWorld
	input   *Input
	watcher *prefabs.Watcher
	debug   bool

	width, height float64
	clock         time.Duration

	menu    *ebitenui.UI
	effects []effect
	banner  string
	bannerT int
	flash   int
	colors  map[string]color.Color
}

func NewGame(cfg sim.Config, debug bool) (*Game, error) {
	s, err := sim.NewSession(cfg)
	if err != nil {
		return nil, err
	}
	return &Game{
		session: s,
		physics: ecs.NewPhysicsWorld(),
		input:   NewInput(),
		debug:   debug,
		width:   cfg.Arena.Arena.Width,
		height:  cfg.Arena.Arena.Height,
		colors:  archetypeColors(cfg.Enemies),
	}, nil
}

func (g *Game) Update() error {
	g.input.Update()
	if g.input.Quit {
		return ebiten.Termination
	}
	g.pollWatcher()

	if g.input.Restart {
		g.session.Restart()
	}
	if g.debug && g.input.Boss {
		g.session.SpawnBoss()
	}

	g.session.SetMoveIntent(g.input.MoveX, g.input.MoveY)
	if g.input.Primary {
		g.session.PointerPrimary(g.input.Cursor)
	}
	if g.input.Secondary {
		g.session.PointerSecondary(g.input.Cursor)
	}

	g.syncBodies()
	g.session.HandleOverlaps(g.physics.Step(frameDelta.Seconds()))

	g.clock += frameDelta
	g.session.Tick(g.clock, frameDelta)
	g.handleRequests(g.session.DrainRequests())

	g.updateMenu()
	g.ageEffects()
	return nil
}

// syncBodies mirrors every session body into the overlap space.
func (g *Game) syncBodies() {
	p := g.session.Player()
	g.physics.Sync(p.Entity, ecs.RolePlayer, p.Position, p.Radius)
	for _, e := range g.session.Enemies() {
		g.physics.Sync(e.Entity, ecs.RoleEnemy, e.Position, e.Radius)
	}
	for _, k := range g.session.Kinetics() {
		g.physics.Sync(k.Entity, ecs.RoleKinetic, k.Position, k.Radius)
	}
	for _, o := range g.session.OrbitOrbs() {
		g.physics.Sync(o.Entity, ecs.RoleOrbit, o.Position, o.Radius)
	}
	for _, o := range g.session.XpOrbs() {
		g.physics.Sync(o.Entity, ecs.RoleXpOrb, o.Position, o.Radius)
	}
}

func (g *Game) handleRequests(reqs []sim.Request) {
	for _, r := range reqs {
		switch r.Kind {
		case sim.RequestSpawnVisual:
			g.effects = append(g.effects, effect{req: r, frames: effectFrames})
		case sim.RequestSpawnXpOrb:
			// orbs are drawn from Session.XpOrbs
		case sim.RequestCameraFeedback:
			g.flash = flashFrames
		case sim.RequestShowWaveBanner:
			g.showBanner(r.Text)
		case sim.RequestShowBossBanner:
			g.showBanner("BOSS: " + r.Text)
		case sim.RequestGameOver:
			g.showBanner("GAME OVER - press R")
		case sim.RequestSceneRestart:
			g.physics.Clear()
			g.effects = nil
			g.menu = nil
			g.banner, g.bannerT, g.flash = "", 0, 0
		}
	}
}

func (g *Game) showBanner(text string) {
	g.banner = text
	g.bannerT = bannerFrames
}

func (g *Game) updateMenu() {
	if !g.session.Paused() {
		g.menu = nil
		return
	}
	if g.input.Choice >= 0 {
		g.choose(g.input.Choice)
		return
	}
	if g.menu == nil {
		g.menu = NewUpgradeUI(g, g.session.Choices())
	}
	g.menu.Update()
}

func (g *Game) choose(i int) {
	if err := g.session.SelectUpgrade(i); err != nil {
		if !errors.Is(err, sim.ErrInvalidChoice) {
			log.Printf("upgrade: %v", err)
		}
		return
	}
	g.menu = nil
}

func (g *Game) ageEffects() {
	kept := g.effects[:0]
	for _, e := range g.effects {
		e.frames--
		if e.frames > 0 {
			kept = append(kept, e)
		}
	}
	g.effects = kept
	if g.bannerT > 0 {
		g.bannerT--
	}
	if g.flash > 0 {
		g.flash--
	}
}

// pollWatcher applies pending prefab changes without blocking the frame.
func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	names, errs, open := g.watcher.Poll()
	for _, err := range errs {
		log.Printf("prefabs: watch: %v", err)
	}
	for _, name := range names {
		g.reload(name)
	}
	if !open {
		g.watcher = nil
	}
}

func (g *Game) reload(name string) {
	if name != prefabs.EnemiesFile {
		log.Printf("prefabs: %s changed, restart to apply", name)
		return
	}
	spec, err := prefabs.LoadEnemiesSpec()
	if err != nil {
		log.Printf("prefabs: reload %s: %v", name, err)
		return
	}
	cat, err := catalog.EnemyCatalogFromSpec(spec)
	if err != nil {
		log.Printf("prefabs: reload %s: %v", name, err)
		return
	}
	g.session.ReloadCatalog(cat)
	g.colors = archetypeColors(cat)
	if t, ok := prefabs.ModTime(name); ok {
		log.Printf("prefabs: %s reloaded, modified %s", name, t.Format(time.TimeOnly))
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.drawArena(screen)
	g.drawHUD(screen)
	if g.menu != nil {
		g.menu.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return g.width, g.height
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
