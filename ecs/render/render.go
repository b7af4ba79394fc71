package render

import (
	"fmt"
	"image/color"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"golang.org/x/image/colornames"
)

const (
	markerSize   = 6
	normalLength = 24
)

// RenderSystem draws every sprite as a flat rectangle. World space is +Y up;
// the camera sits at the center of the screen.
type RenderSystem struct {
	Debug     bool
	camEntity ecs.Entity
}

func NewRenderSystem(debug bool) *RenderSystem {
	return &RenderSystem{Debug: debug}
}

type view struct {
	camX, camY float64
	zoom       float64
	halfW      float64
	halfH      float64
}

func (v view) toScreen(x, y float64) (float32, float32) {
	return float32((x-v.camX)*v.zoom + v.halfW), float32(v.halfH - (y-v.camY)*v.zoom)
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}

	if !w.IsAlive(r.camEntity) {
		if camEntity, ok := w.First(component.CameraComponent.Kind()); ok {
			r.camEntity = camEntity
		}
	}

	bounds := screen.Bounds()
	v := view{zoom: 1, halfW: float64(bounds.Dx()) / 2, halfH: float64(bounds.Dy()) / 2}
	if cam, ok := ecs.Get(w, r.camEntity, component.CameraComponent.Kind()); ok {
		v.camX, v.camY = cam.X, cam.Y
		if cam.Zoom > 0 {
			v.zoom = cam.Zoom
		}
	}

	// Level geometry first, then actors.
	entities := w.Query(component.TransformComponent.Kind(), component.SpriteComponent.Kind())
	sort.SliceStable(entities, func(i, j int) bool {
		si := ecs.Has(w, entities[i], component.StaticBlockComponent.Kind())
		sj := ecs.Has(w, entities[j], component.StaticBlockComponent.Kind())
		if si != sj {
			return si
		}
		return uint64(entities[i]) < uint64(entities[j])
	})

	for _, e := range entities {
		t, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		s, _ := ecs.Get(w, e, component.SpriteComponent.Kind())
		drawSprite(screen, v, t, s)
	}

	if r.Debug {
		r.drawContacts(w, screen, v)
		r.drawStatus(w, screen)
	}
}

func drawSprite(screen *ebiten.Image, v view, t *component.Transform, s *component.Sprite) {
	clr := s.Color
	if clr == nil {
		clr = colornames.White
	}
	x, y := v.toScreen(t.X-s.Width/2, t.Y+s.Height/2)
	w, h := float32(s.Width*v.zoom), float32(s.Height*v.zoom)
	vector.FillRect(screen, x, y, w, h, clr, false)

	// Facing marker on the side the actor looks toward.
	mx := x + w - markerSize - 2
	if s.FlipX {
		mx = x + 2
	}
	if s.Width > 3*markerSize {
		vector.FillRect(screen, mx, y+4, markerSize, markerSize, colornames.White, false)
	}
}

func (r *RenderSystem) drawContacts(w *ecs.World, screen *ebiten.Image, v view) {
	ecs.ForEach2(w, component.ContactsComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, c *component.Contacts, t *component.Transform) {
		x0, y0 := v.toScreen(t.X, t.Y)
		for _, contact := range c.List {
			x1, y1 := v.toScreen(t.X+contact.Normal.X*normalLength, t.Y+contact.Normal.Y*normalLength)
			clr := color.Color(colornames.Lime)
			if !contact.OtherStatic {
				clr = colornames.Orange
			}
			vector.StrokeLine(screen, x0, y0, x1, y1, 2, clr, true)
		}
	})
}

func (r *RenderSystem) drawStatus(w *ecs.World, screen *ebiten.Image) {
	msg := fmt.Sprintf("TPS: %.1f  FPS: %.1f", ebiten.ActualTPS(), ebiten.ActualFPS())
	if player, ok := w.First(component.PlayerTagComponent.Kind(), component.MovementComponent.Kind()); ok {
		mv, _ := ecs.Get(w, player, component.MovementComponent.Kind())
		if c := mv.Controller; c != nil {
			_, onWall := c.OnWall()
			msg += fmt.Sprintf("\nfloor=%v wall=%v jumping=%v right=%v\ncoyote=%v buffer=%v last=%s",
				c.OnFloor(), onWall, c.IsJumping(), c.LookingRight(),
				c.CoyoteAvailable(), c.BufferAvailable(), mv.LastJump)
		}
		if body, ok := ecs.Get(w, player, component.PhysicsBodyComponent.Kind()); ok && body.Body != nil {
			vel := body.Body.Velocity()
			msg += fmt.Sprintf("\nvel=(%.1f, %.1f)", vel.X, vel.Y)
		}
	}
	ebitenutil.DebugPrint(screen, msg)
}
