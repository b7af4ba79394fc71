package system

import (
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/movement"
)

// JumpEvent is pushed on the world event queue whenever a controller grants
// a jump.
type JumpEvent struct {
	Entity   ecs.Entity
	Kind     movement.JumpKind
	Velocity cp.Vector
}

// MovementSystem ticks every actor's controller against the contacts and
// velocity the physics step just produced.
type MovementSystem struct{}

func NewMovementSystem() *MovementSystem {
	return &MovementSystem{}
}

func (s *MovementSystem) Update(w *ecs.World, dt time.Duration) {
	if w == nil {
		return
	}

	ecs.ForEach2(w, component.MovementComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, mv *component.Movement, body *component.PhysicsBody) {
		if mv.Controller == nil || body.Body == nil {
			return
		}

		var in movement.Input = movement.Actions{}
		if input, ok := ecs.Get(w, e, component.InputComponent.Kind()); ok {
			in = input.Actions
		}

		var contacts []movement.Contact
		if c, ok := ecs.Get(w, e, component.ContactsComponent.Kind()); ok {
			contacts = c.List
		}

		step := mv.Controller.Tick(dt, in, contacts, body.Body.Velocity())
		body.Body.SetVelocity(step.Velocity.X, step.Velocity.Y)
		mv.LastJump = step.Jump

		if sprite, ok := ecs.Get(w, e, component.SpriteComponent.Kind()); ok {
			sprite.FlipX = !step.LookingRight
		}

		if step.Jump != movement.JumpNone {
			w.Events().Push(ecs.Event{Type: ecs.EventJump, Data: JumpEvent{Entity: e, Kind: step.Jump, Velocity: step.Velocity}})
			common.Log.Debugw("jump granted", "entity", e, "kind", step.Jump, "vy", step.Velocity.Y)
		}
	})
}
