package entity

import (
	"fmt"

	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/movement"
	"github.com/milk9111/platformer/prefabs"
	"golang.org/x/image/colornames"
)

const stickDeadzone = 0.2

// NewActor loads the named actor prefab and builds it.
func NewActor(w *ecs.World, name string) (ecs.Entity, error) {
	spec, err := prefabs.LoadActorSpec(name)
	if err != nil {
		return 0, err
	}
	return BuildActor(w, name, spec)
}

// BuildActor creates a movable actor. Player actors read the local device;
// actors with a script are driven by it.
func BuildActor(w *ecs.World, name string, spec *prefabs.ActorSpec) (ecs.Entity, error) {
	cfg, err := spec.MovementConfig()
	if err != nil {
		return 0, fmt.Errorf("actor %s: %w", name, err)
	}
	if spec.Script != "" {
		if _, err := prefabs.LoadScript(spec.Script); err != nil {
			return 0, fmt.Errorf("actor %s: load script: %w", name, err)
		}
	}

	e := ecs.CreateEntity(w)
	if err := addActorComponents(w, e, name, spec, cfg); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, err
	}
	return e, nil
}

func addActorComponents(w *ecs.World, e ecs.Entity, name string, spec *prefabs.ActorSpec, cfg movement.Config) error {
	var opts []movement.Option
	if spec.Movement.FacingLeft {
		opts = append(opts, movement.WithFacingLeft())
	}
	controller, err := movement.New(movement.ActorID(e), cfg, opts...)
	if err != nil {
		return fmt.Errorf("actor %s: new controller: %w", name, err)
	}

	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		X: spec.Transform.X,
		Y: spec.Transform.Y,
	}); err != nil {
		return fmt.Errorf("actor %s: add transform: %w", name, err)
	}

	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Width:  spec.Collider.Width,
		Height: spec.Collider.Height,
	}); err != nil {
		return fmt.Errorf("actor %s: add physics body: %w", name, err)
	}

	if err := ecs.Add(w, e, component.MovementComponent.Kind(), &component.Movement{
		Controller: controller,
		Spec:       name,
	}); err != nil {
		return fmt.Errorf("actor %s: add movement: %w", name, err)
	}

	if err := ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{
		Tracker: movement.Tracker{Deadzone: stickDeadzone},
	}); err != nil {
		return fmt.Errorf("actor %s: add input: %w", name, err)
	}

	if err := ecs.Add(w, e, component.ContactsComponent.Kind(), &component.Contacts{}); err != nil {
		return fmt.Errorf("actor %s: add contacts: %w", name, err)
	}

	if err := ecs.Add(w, e, component.SpriteComponent.Kind(), &component.Sprite{
		Width:  spec.Collider.Width,
		Height: spec.Collider.Height,
		Color:  spec.Sprite.Color.ColorOr(colornames.Cornflowerblue),
		FlipX:  controller.FlipX(),
	}); err != nil {
		return fmt.Errorf("actor %s: add sprite: %w", name, err)
	}

	if spec.Player {
		if err := ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{}); err != nil {
			return fmt.Errorf("actor %s: add player tag: %w", name, err)
		}
	}

	if spec.Script != "" {
		if err := ecs.Add(w, e, component.BotTagComponent.Kind(), &component.BotTag{}); err != nil {
			return fmt.Errorf("actor %s: add bot tag: %w", name, err)
		}
		if err := ecs.Add(w, e, component.ScriptedInputComponent.Kind(), &component.ScriptedInput{Path: spec.Script}); err != nil {
			return fmt.Errorf("actor %s: add scripted input: %w", name, err)
		}
	}

	return nil
}
