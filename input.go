package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"
)

const stickDeadzone = 0.3

// Input holds this frame's keyboard, mouse and gamepad state.
type Input struct {
	MoveX, MoveY float64
	// Cursor is the pointer in arena coordinates.
	Cursor    cp.Vector
	Primary   bool
	Secondary bool
	// Choice is the upgrade picked with 1-3, or -1.
	Choice  int
	Restart bool
	Boss    bool
	Quit    bool
}

func NewInput() *Input {
	return &Input{Choice: -1}
}

func (i *Input) Update() {
	mx, my := ebiten.CursorPosition()
	i.Cursor = cp.Vector{X: float64(mx), Y: float64(my)}

	var x, y float64
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyLeft) {
		x--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyRight) {
		x++
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyUp) {
		y--
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyDown) {
		y++
	}

	var gpPrimary, gpSecondary bool
	if ids := ebiten.GamepadIDs(); len(ids) > 0 {
		gid := ids[0]
		lx := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisLeftStickHorizontal)
		ly := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisLeftStickVertical)
		if lx*lx+ly*ly > stickDeadzone*stickDeadzone {
			x, y = lx, ly
		}
		gpPrimary = inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonFrontBottomRight)
		gpSecondary = inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonFrontBottomLeft)
	}
	i.MoveX, i.MoveY = x, y

	i.Primary = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) || gpPrimary
	i.Secondary = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) || gpSecondary

	i.Choice = -1
	for n, key := range []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3} {
		if inpututil.IsKeyJustPressed(key) {
			i.Choice = n
		}
	}
	i.Restart = inpututil.IsKeyJustPressed(ebiten.KeyR)
	i.Boss = inpututil.IsKeyJustPressed(ebiten.KeyB)
	i.Quit = inpututil.IsKeyJustPressed(ebiten.KeyF12)
}
