package entity

import (
	"fmt"
	"math"

	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/prefabs"
	"golang.org/x/image/colornames"
)

// BuildLevel creates a static body for every block and a LevelBounds entity
// enclosing them all.
func BuildLevel(w *ecs.World, spec *prefabs.LevelSpec) error {
	if len(spec.Blocks) == 0 {
		return fmt.Errorf("level %s: no blocks", spec.Name)
	}

	bounds := component.LevelBounds{
		MinX: math.Inf(1),
		MinY: math.Inf(1),
		MaxX: math.Inf(-1),
		MaxY: math.Inf(-1),
	}

	for _, block := range spec.Blocks {
		e := ecs.CreateEntity(w)
		if err := addBlockComponents(w, e, block); err != nil {
			return fmt.Errorf("level %s: %w", spec.Name, err)
		}
		bounds.MinX = math.Min(bounds.MinX, block.X-block.Width/2)
		bounds.MinY = math.Min(bounds.MinY, block.Y-block.Height/2)
		bounds.MaxX = math.Max(bounds.MaxX, block.X+block.Width/2)
		bounds.MaxY = math.Max(bounds.MaxY, block.Y+block.Height/2)
	}

	boundsEntity := ecs.CreateEntity(w)
	if err := ecs.Add(w, boundsEntity, component.LevelBoundsComponent.Kind(), &bounds); err != nil {
		return fmt.Errorf("level %s: add bounds: %w", spec.Name, err)
	}
	return nil
}

func addBlockComponents(w *ecs.World, e ecs.Entity, block prefabs.BlockSpec) error {
	if err := ecs.Add(w, e, component.StaticBlockComponent.Kind(), &component.StaticBlock{Name: block.Name}); err != nil {
		return fmt.Errorf("block %s: add static block: %w", block.Name, err)
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: block.X, Y: block.Y}); err != nil {
		return fmt.Errorf("block %s: add transform: %w", block.Name, err)
	}
	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Width:  block.Width,
		Height: block.Height,
		Static: true,
	}); err != nil {
		return fmt.Errorf("block %s: add physics body: %w", block.Name, err)
	}
	if err := ecs.Add(w, e, component.SpriteComponent.Kind(), &component.Sprite{
		Width:  block.Width,
		Height: block.Height,
		Color:  block.Color.ColorOr(colornames.Dimgray),
	}); err != nil {
		return fmt.Errorf("block %s: add sprite: %w", block.Name, err)
	}
	return nil
}

// NewLevel loads a level prefab, builds it, and spawns every actor it lists.
func NewLevel(w *ecs.World, name string) ([]ecs.Entity, error) {
	spec, err := prefabs.LoadLevelSpec(name)
	if err != nil {
		return nil, err
	}
	if err := BuildLevel(w, spec); err != nil {
		return nil, err
	}
	actors := make([]ecs.Entity, 0, len(spec.Spawns))
	for _, spawn := range spec.Spawns {
		e, err := NewActor(w, spawn)
		if err != nil {
			return nil, fmt.Errorf("level %s: spawn %s: %w", spec.Name, spawn, err)
		}
		actors = append(actors, e)
	}
	return actors, nil
}
