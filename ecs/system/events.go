package system

import (
	"time"

	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/movement"
)

// EventLogSystem drains the world event queue at the end of a tick and keeps
// running totals of granted jumps.
type EventLogSystem struct {
	jumps   map[movement.JumpKind]int
	reloads int
}

func NewEventLogSystem() *EventLogSystem {
	return &EventLogSystem{jumps: make(map[movement.JumpKind]int)}
}

func (s *EventLogSystem) Update(w *ecs.World, dt time.Duration) {
	for _, evt := range w.Events().Drain() {
		switch evt.Type {
		case ecs.EventJump:
			if jump, ok := evt.Data.(JumpEvent); ok {
				s.jumps[jump.Kind]++
			}
		case ecs.EventReload:
			s.reloads++
		default:
			common.Log.Debugw("unhandled event", "type", evt.Type)
		}
	}
}

func (s *EventLogSystem) Jumps(kind movement.JumpKind) int { return s.jumps[kind] }
func (s *EventLogSystem) Reloads() int                     { return s.reloads }

// TotalJumps counts jumps of every kind.
func (s *EventLogSystem) TotalJumps() int {
	total := 0
	for _, n := range s.jumps {
		total += n
	}
	return total
}
