package entity

import (
	"fmt"

	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
)

const defaultCameraSmoothness = 6.0

func NewCamera(w *ecs.World) (ecs.Entity, error) {
	camera := ecs.CreateEntity(w)
	if err := ecs.Add(w, camera, component.CameraTagComponent.Kind(), &component.CameraTag{}); err != nil {
		return 0, fmt.Errorf("camera: add camera tag: %w", err)
	}

	x, y := 0.0, 0.0
	if player, ok := w.First(component.PlayerTagComponent.Kind(), component.TransformComponent.Kind()); ok {
		if t, ok := ecs.Get(w, player, component.TransformComponent.Kind()); ok {
			x, y = t.X, t.Y
		}
	}

	if err := ecs.Add(w, camera, component.CameraComponent.Kind(), &component.Camera{
		X:          x,
		Y:          y,
		Zoom:       1,
		Smoothness: defaultCameraSmoothness,
	}); err != nil {
		return 0, fmt.Errorf("camera: add camera component: %w", err)
	}

	return camera, nil
}
