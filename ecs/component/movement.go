package component

import (
	"github.com/milk9111/platformer/movement"
)

// Movement attaches a movement controller to an actor. Spec names the prefab
// the controller's tunables came from so reloads can find it.
type Movement struct {
	Controller *movement.Controller
	Spec       string
	LastJump   movement.JumpKind
}

var MovementComponent = NewComponent[Movement]()
