package system

import (
	"math"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/movement"
)

const (
	collisionTypeActor cp.CollisionType = iota + 1
	collisionTypeSolid
)

const boundsThickness = 1.0

// PhysicsSystem owns the Chipmunk space. Space gravity is zero: actors get
// their vertical velocity from their movement controller.
type PhysicsSystem struct {
	space         *cp.Space
	handlersReady bool

	entities    map[ecs.Entity]*bodyInfo
	actorShapes map[*cp.Shape]ecs.Entity
	contacts    map[ecs.Entity][]movement.Contact
}

type bodyInfo struct {
	body   *cp.Body
	shapes []*cp.Shape
	static bool
}

func NewPhysicsSystem() *PhysicsSystem {
	return &PhysicsSystem{
		space:       newSpace(),
		entities:    make(map[ecs.Entity]*bodyInfo),
		actorShapes: make(map[*cp.Shape]ecs.Entity),
		contacts:    make(map[ecs.Entity][]movement.Contact),
	}
}

func newSpace() *cp.Space {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{})
	return space
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

func (ps *PhysicsSystem) Update(w *ecs.World, dt time.Duration) {
	if ps == nil || w == nil || dt <= 0 {
		return
	}

	ps.ensureHandlers()
	ps.syncEntities(w)
	ps.syncWorldBounds(w)
	ps.resetContacts(w)

	ps.space.Step(dt.Seconds())

	ps.syncTransforms(w)
	ps.flushContacts(w)
}

// ensureHandlers installs a wildcard handler for actors. Chipmunk invokes it
// once per actor in a pair, always with that actor's shape as A.
func (ps *PhysicsSystem) ensureHandlers() {
	if ps.handlersReady {
		return
	}

	handler := ps.space.NewWildcardCollisionHandler(collisionTypeActor)
	handler.UserData = ps
	handler.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sys, ok := userData.(*PhysicsSystem)
		if !ok || sys == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		actor, ok := sys.actorShapes[shapeA]
		if !ok {
			return true
		}

		// Normal points from A into B; flip it so it points away from the
		// surface the actor touched.
		n := arb.Normal().Neg()
		other := shapeB.Body()
		sys.contacts[actor] = append(sys.contacts[actor], movement.Contact{
			Actor:       movement.ActorID(actor),
			OtherStatic: other != nil && other.GetType() == cp.BODY_STATIC,
			Normal:      n,
		})
		return true
	}

	ps.handlersReady = true
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	ps.cleanupEntities(w)

	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, bodyComp *component.PhysicsBody, transform *component.Transform) {
		if info := ps.entities[e]; info != nil {
			if bodyComp.Body == nil {
				bodyComp.Body = info.body
				bodyComp.Shape = info.shapes[0]
			}
			return
		}

		isActor := ecs.Has(w, e, component.MovementComponent.Kind())
		info := ps.createBodyInfo(*transform, *bodyComp, isActor)
		ps.entities[e] = info
		if isActor {
			ps.actorShapes[info.shapes[0]] = e
		}
		bodyComp.Body = info.body
		bodyComp.Shape = info.shapes[0]
		common.Log.Debugw("body created", "entity", e, "static", bodyComp.Static, "actor", isActor)
	})
}

func (ps *PhysicsSystem) createBodyInfo(transform component.Transform, bodyComp component.PhysicsBody, isActor bool) *bodyInfo {
	width, height := bodyComp.Width, bodyComp.Height
	if width <= 0 || height <= 0 {
		width, height = 32, 32
	}

	if bodyComp.Static {
		bb := cp.BB{
			L: transform.X - width/2,
			B: transform.Y - height/2,
			R: transform.X + width/2,
			T: transform.Y + height/2,
		}
		shape := cp.NewBox2(ps.space.StaticBody, bb, 0)
		shape.SetFriction(bodyComp.Friction)
		shape.SetElasticity(0)
		shape.SetCollisionType(collisionTypeSolid)
		ps.space.AddShape(shape)
		return &bodyInfo{body: ps.space.StaticBody, shapes: []*cp.Shape{shape}, static: true}
	}

	// Infinite moment keeps actors upright.
	body := cp.NewBody(1, math.Inf(1))
	body.SetPosition(cp.Vector{X: transform.X, Y: transform.Y})
	body.SetVelocityUpdateFunc(func(body *cp.Body, gravity cp.Vector, damping float64, dt float64) {
		cp.BodyUpdateVelocity(body, cp.Vector{}, 1, dt)
	})

	shape := cp.NewBox(body, width, height, 0)
	shape.SetFriction(bodyComp.Friction)
	shape.SetElasticity(0)
	shape.SetCollisionType(collisionTypeSolid)
	if isActor {
		shape.SetCollisionType(collisionTypeActor)
	}

	ps.space.AddBody(body)
	ps.space.AddShape(shape)
	return &bodyInfo{body: body, shapes: []*cp.Shape{shape}}
}

// syncWorldBounds walls in the sides and bottom of the level once a
// LevelBounds entity exists. The top stays open.
func (ps *PhysicsSystem) syncWorldBounds(w *ecs.World) {
	boundsEntity, ok := w.First(component.LevelBoundsComponent.Kind())
	if !ok {
		return
	}
	if _, exists := ps.entities[boundsEntity]; exists {
		return
	}
	bounds, ok := ecs.Get(w, boundsEntity, component.LevelBoundsComponent.Kind())
	if !ok || bounds.Width() <= 0 || bounds.Height() <= 0 {
		return
	}

	bl := cp.Vector{X: bounds.MinX, Y: bounds.MinY}
	br := cp.Vector{X: bounds.MaxX, Y: bounds.MinY}
	tl := cp.Vector{X: bounds.MinX, Y: bounds.MaxY}
	tr := cp.Vector{X: bounds.MaxX, Y: bounds.MaxY}
	segments := [][2]cp.Vector{{bl, br}, {bl, tl}, {br, tr}}

	info := &bodyInfo{static: true, body: ps.space.StaticBody}
	for _, seg := range segments {
		shape := cp.NewSegment(ps.space.StaticBody, seg[0], seg[1], boundsThickness)
		shape.SetFriction(0)
		shape.SetCollisionType(collisionTypeSolid)
		ps.space.AddShape(shape)
		info.shapes = append(info.shapes, shape)
	}

	ps.entities[boundsEntity] = info
	common.Log.Debugw("level bounds walled", "entity", boundsEntity, "width", bounds.Width(), "height", bounds.Height())
}

func (ps *PhysicsSystem) resetContacts(w *ecs.World) {
	for e, list := range ps.contacts {
		ps.contacts[e] = list[:0]
	}
	ecs.ForEach(w, component.ContactsComponent.Kind(), func(_ ecs.Entity, c *component.Contacts) {
		c.Reset()
	})
}

func (ps *PhysicsSystem) flushContacts(w *ecs.World) {
	ecs.ForEach(w, component.ContactsComponent.Kind(), func(e ecs.Entity, c *component.Contacts) {
		c.List = append(c.List, ps.contacts[e]...)
	})
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, bodyComp *component.PhysicsBody, transform *component.Transform) {
		if bodyComp.Body == nil || bodyComp.Static {
			return
		}
		pos := bodyComp.Body.Position()
		transform.X = pos.X
		transform.Y = pos.Y
	})
}

func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e, info := range ps.entities {
		if w.IsAlive(e) && (ecs.Has(w, e, component.PhysicsBodyComponent.Kind()) || ecs.Has(w, e, component.LevelBoundsComponent.Kind())) {
			continue
		}

		for _, shape := range info.shapes {
			ps.space.RemoveShape(shape)
			delete(ps.actorShapes, shape)
		}
		if !info.static {
			ps.space.RemoveBody(info.body)
		}

		delete(ps.entities, e)
		delete(ps.contacts, e)
	}
}
