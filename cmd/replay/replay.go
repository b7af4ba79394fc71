package main

import (
	"fmt"
	"time"

	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/ecs/entity"
	"github.com/milk9111/platformer/ecs/system"
	"github.com/milk9111/platformer/movement"
	"github.com/milk9111/platformer/prefabs"
)

type options struct {
	level  string
	ticks  int
	tps    int
	actor  string
	script string
	every  int
}

type actorState struct {
	Spec         string
	X, Y         float64
	OnFloor      bool
	LookingRight bool
}

type summary struct {
	Ticks      int
	Simulated  time.Duration
	TotalJumps int
	Grounded   int
	Coyote     int
	Buffered   int
	Actors     []actorState
}

func run(opts options) (summary, error) {
	if opts.ticks <= 0 {
		return summary{}, fmt.Errorf("ticks must be positive, got %d", opts.ticks)
	}
	if opts.tps <= 0 {
		return summary{}, fmt.Errorf("tps must be positive, got %d", opts.tps)
	}

	w := ecs.NewWorld()
	level, err := prefabs.LoadLevelSpec(opts.level)
	if err != nil {
		return summary{}, err
	}
	if err := entity.BuildLevel(w, level); err != nil {
		return summary{}, err
	}

	var actors []ecs.Entity
	for _, name := range level.Spawns {
		spec, err := prefabs.LoadActorSpec(name)
		if err != nil {
			return summary{}, err
		}
		if name == opts.actor && opts.script != "" {
			spec.Script = opts.script
		}
		if spec.Script == "" {
			common.Log.Infow("actor has no script, it will stand still", "actor", name)
		}
		e, err := entity.BuildActor(w, name, spec)
		if err != nil {
			return summary{}, err
		}
		actors = append(actors, e)
	}

	events := system.NewEventLogSystem()
	scheduler := ecs.NewScheduler(
		system.NewScriptInputSystem(),
		system.NewPhysicsSystem(),
		system.NewMovementSystem(),
		events,
	)

	dt := time.Second / time.Duration(opts.tps)
	for tick := 0; tick < opts.ticks; tick++ {
		scheduler.Update(w, dt)
		if opts.every > 0 && (tick+1)%opts.every == 0 {
			for _, e := range actors {
				s := snapshot(w, e)
				common.Log.Infow("tick", "tick", tick+1, "actor", s.Spec, "x", s.X, "y", s.Y, "floor", s.OnFloor, "right", s.LookingRight)
			}
		}
	}

	out := summary{
		Ticks:      opts.ticks,
		Simulated:  time.Duration(opts.ticks) * dt,
		TotalJumps: events.TotalJumps(),
		Grounded:   events.Jumps(movement.JumpGrounded),
		Coyote:     events.Jumps(movement.JumpCoyote),
		Buffered:   events.Jumps(movement.JumpBuffered),
	}
	for _, e := range actors {
		out.Actors = append(out.Actors, snapshot(w, e))
	}
	return out, nil
}

func snapshot(w *ecs.World, e ecs.Entity) actorState {
	var s actorState
	if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		s.X, s.Y = t.X, t.Y
	}
	if mv, ok := ecs.Get(w, e, component.MovementComponent.Kind()); ok && mv.Controller != nil {
		s.Spec = mv.Spec
		s.OnFloor = mv.Controller.OnFloor()
		s.LookingRight = mv.Controller.LookingRight()
	}
	return s
}
