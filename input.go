package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/lightfall/ecs"
	"github.com/milk9111/lightfall/ecs/component"
)

// keyboardInput maps the keyboard onto the player's per-frame input.
type keyboardInput struct{}

func anyPressed(keys ...ebiten.Key) bool {
	for _, k := range keys {
		if ebiten.IsKeyPressed(k) {
			return true
		}
	}
	return false
}

func anyJustPressed(keys ...ebiten.Key) bool {
	for _, k := range keys {
		if inpututil.IsKeyJustPressed(k) {
			return true
		}
	}
	return false
}

func (keyboardInput) Poll(*ecs.World) component.Input {
	var in component.Input
	if anyPressed(ebiten.KeyA, ebiten.KeyArrowLeft) {
		in.MoveX--
	}
	if anyPressed(ebiten.KeyD, ebiten.KeyArrowRight) {
		in.MoveX++
	}
	in.LightPressed = anyJustPressed(ebiten.KeyJ, ebiten.KeyZ)
	in.HeavyPressed = anyJustPressed(ebiten.KeyK, ebiten.KeyX)
	in.Block = anyPressed(ebiten.KeyL, ebiten.KeyShiftLeft)
	in.ExecutePressed = anyJustPressed(ebiten.KeyE)
	in.MashPressed = anyJustPressed(ebiten.KeySpace)
	return in
}
