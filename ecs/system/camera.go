package system

import (
	"math"
	"time"

	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
)

type CameraSystem struct {
	camEntity    ecs.Entity
	targetEntity ecs.Entity
}

func NewCameraSystem() *CameraSystem {
	return &CameraSystem{}
}

// Update eases the camera toward the player and keeps it inside the level.
func (cs *CameraSystem) Update(w *ecs.World, dt time.Duration) {
	if !w.IsAlive(cs.camEntity) {
		camEntity, ok := w.First(component.CameraComponent.Kind())
		if !ok {
			return
		}
		cs.camEntity = camEntity
	}
	if !w.IsAlive(cs.targetEntity) {
		targetEntity, ok := w.First(component.PlayerTagComponent.Kind(), component.TransformComponent.Kind())
		if !ok {
			return
		}
		cs.targetEntity = targetEntity
	}

	cam, ok := ecs.Get(w, cs.camEntity, component.CameraComponent.Kind())
	if !ok {
		return
	}
	target, ok := ecs.Get(w, cs.targetEntity, component.TransformComponent.Kind())
	if !ok {
		return
	}

	t := 1.0
	if cam.Smoothness > 0 {
		t = 1 - math.Exp(-cam.Smoothness*dt.Seconds())
	}
	cam.X += (target.X - cam.X) * t
	cam.Y += (target.Y - cam.Y) * t

	if boundsEntity, ok := w.First(component.LevelBoundsComponent.Kind()); ok {
		if bounds, ok := ecs.Get(w, boundsEntity, component.LevelBoundsComponent.Kind()); ok {
			cam.X = clamp(cam.X, bounds.MinX, bounds.MaxX)
			cam.Y = clamp(cam.Y, bounds.MinY, bounds.MaxY)
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	if lo > hi {
		return v
	}
	return math.Max(lo, math.Min(hi, v))
}
