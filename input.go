package main

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/movement"
)

var keyBindings = [movement.ActionCount][]ebiten.Key{
	movement.ActionUp:    {ebiten.KeyW, ebiten.KeyArrowUp},
	movement.ActionDown:  {ebiten.KeyS, ebiten.KeyArrowDown},
	movement.ActionLeft:  {ebiten.KeyA, ebiten.KeyArrowLeft},
	movement.ActionRight: {ebiten.KeyD, ebiten.KeyArrowRight},
	movement.ActionJump:  {ebiten.KeySpace, ebiten.KeyK},
}

var padBindings = [movement.ActionCount][]ebiten.StandardGamepadButton{
	movement.ActionUp:    {ebiten.StandardGamepadButtonLeftTop},
	movement.ActionDown:  {ebiten.StandardGamepadButtonLeftBottom},
	movement.ActionLeft:  {ebiten.StandardGamepadButtonLeftLeft},
	movement.ActionRight: {ebiten.StandardGamepadButtonLeftRight},
	movement.ActionJump:  {ebiten.StandardGamepadButtonRightBottom},
}

// DeviceInputSystem polls the keyboard and the first gamepad and feeds the
// player. Players driven by a script are left alone.
type DeviceInputSystem struct {
	gamepads []ebiten.GamepadID
}

func NewDeviceInputSystem() *DeviceInputSystem {
	return &DeviceInputSystem{}
}

func (s *DeviceInputSystem) Update(w *ecs.World, dt time.Duration) {
	frame, stick := s.poll()

	for _, e := range w.Query(component.PlayerTagComponent.Kind(), component.InputComponent.Kind()) {
		if ecs.Has(w, e, component.ScriptedInputComponent.Kind()) {
			continue
		}
		in, ok := ecs.Get(w, e, component.InputComponent.Kind())
		if !ok {
			continue
		}
		in.Actions = in.Tracker.UpdateWithStick(frame, stick)
	}
}

func (s *DeviceInputSystem) poll() (movement.Frame, cp.Vector) {
	var frame movement.Frame
	for action, keys := range keyBindings {
		for _, key := range keys {
			if ebiten.IsKeyPressed(key) {
				frame[action] = true
			}
		}
	}

	s.gamepads = ebiten.AppendGamepadIDs(s.gamepads[:0])
	if len(s.gamepads) == 0 {
		return frame, cp.Vector{}
	}

	id := s.gamepads[0]
	if !ebiten.IsStandardGamepadLayoutAvailable(id) {
		return frame, cp.Vector{}
	}
	for action, buttons := range padBindings {
		for _, button := range buttons {
			if ebiten.IsStandardGamepadButtonPressed(id, button) {
				frame[action] = true
			}
		}
	}

	// Gamepad vertical axes grow downward.
	stick := cp.Vector{
		X: ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal),
		Y: -ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical),
	}
	return frame, stick
}
