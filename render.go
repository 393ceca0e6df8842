package main

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/arena/catalog"
	"github.com/milk9111/arena/ecs/component"
	"github.com/milk9111/arena/ecs/system"
	"github.com/milk9111/arena/sim"
	"golang.org/x/image/colornames"
)

func archetypeColors(cat *catalog.EnemyCatalog) map[string]color.Color {
	colors := make(map[string]color.Color)
	if cat == nil {
		return colors
	}
	for _, id := range cat.IDs() {
		if a, ok := cat.Get(id); ok && a.Color != nil {
			colors[id] = a.Color
		}
	}
	if boss := cat.Boss(); boss.Color != nil {
		colors[boss.ID] = boss.Color
	}
	return colors
}

func (g *Game) enemyColor(e sim.EnemyView) color.Color {
	if c, ok := g.colors[e.ArchetypeID]; ok {
		return c
	}
	if e.Boss {
		return colornames.Darkred
	}
	return colornames.Olivedrab
}

func fillCircle(dst *ebiten.Image, b sim.Body, clr color.Color) {
	vector.DrawFilledCircle(dst, float32(b.Position.X), float32(b.Position.Y), float32(b.Radius), clr, true)
}

func (g *Game) drawArena(screen *ebiten.Image) {
	screen.Fill(colornames.Black)

	for _, o := range g.session.XpOrbs() {
		fillCircle(screen, o.Body, colornames.Deepskyblue)
	}
	for _, e := range g.session.Enemies() {
		fillCircle(screen, e.Body, g.enemyColor(e))
		if e.Boss && e.MaxHP > 0 {
			w := float32(e.Radius * 2)
			x := float32(e.Position.X - e.Radius)
			y := float32(e.Position.Y - e.Radius - 8)
			vector.DrawFilledRect(screen, x, y, w, 4, colornames.Dimgray, false)
			vector.DrawFilledRect(screen, x, y, w*float32(e.HP)/float32(e.MaxHP), 4, colornames.Red, false)
		}
	}
	for _, k := range g.session.Kinetics() {
		clr := colornames.Yellow
		if k.Kind == component.KineticBomb {
			clr = colornames.Orange
		}
		fillCircle(screen, k.Body, clr)
	}
	for _, o := range g.session.OrbitOrbs() {
		fillCircle(screen, o, colornames.Violet)
	}

	p := g.session.Player()
	clr := color.Color(colornames.White)
	if g.flash > 0 {
		clr = colornames.Crimson
	}
	fillCircle(screen, p, clr)

	for _, e := range g.effects {
		alpha := uint8(255 * e.frames / effectFrames)
		var c color.NRGBA
		switch e.req.Visual {
		case system.VisualExplosion:
			c = color.NRGBA{R: 0xff, G: 0x8c, A: alpha}
		case system.VisualDeath:
			c = color.NRGBA{R: 0xc0, G: 0xc0, B: 0xc0, A: alpha}
		default:
			c = color.NRGBA{R: 0x87, G: 0xce, B: 0xfa, A: alpha}
		}
		vector.StrokeCircle(screen, float32(e.req.Position.X), float32(e.req.Position.Y), float32(e.req.Radius), 2, c, true)
	}
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	snap := g.session.Snapshot()

	special := "none"
	if snap.Abilities.Bomb || snap.Abilities.Orbit {
		special = "ready"
		if snap.Cooldown > 0 {
			special = fmt.Sprintf("%.1fs", snap.Cooldown.Seconds())
		}
		if snap.Orbit {
			special = "orbit on"
		}
	}
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("HP %d/%d  LV %d  XP %d/%d  Kills %d  Time %s",
		snap.HP, snap.MaxHP, snap.Level, snap.XP, snap.XPToNext, snap.Kills, snap.Elapsed.Truncate(time.Second)), 8, 8)
	ebitenutil.DebugPrintAt(screen, "Special: "+special, 8, 24)

	if g.bannerT > 0 || snap.GameOver {
		ebitenutil.DebugPrintAt(screen, g.banner, int(g.width/2)-len(g.banner)*3, 60)
	}

	if g.debug {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS %.1f  enemies %d  orbs %d  bodies %d  run %s",
			ebiten.ActualFPS(), len(g.session.Enemies()), snap.XpOrbs, g.physics.Len(), snap.RunID), 8, int(g.height)-20)
	}
}
