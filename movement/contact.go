package movement

import (
	"math"

	"github.com/jakecoffman/cp"
)

// floorThreshold is the minimum dot(normal, up) for a contact to count as
// standing ground. Anything within ±floorThreshold is a wall.
const floorThreshold = 0.7

// ActorID identifies the actor a contact belongs to.
type ActorID uint64

// Contact is one collision reported by the physics collaborator for this
// tick. Normal points away from the other body's surface.
type Contact struct {
	Actor       ActorID
	OtherStatic bool
	Normal      cp.Vector
}

// Wall is either no wall or a wall touched with a given normal.
type Wall struct {
	normal   cp.Vector
	touching bool
}

func NoWall() Wall { return Wall{} }

func WallWithNormal(n cp.Vector) Wall {
	return Wall{normal: n, touching: true}
}

// Normal returns the wall normal and whether a wall is touched at all.
func (w Wall) Normal() (cp.Vector, bool) {
	return w.normal, w.touching
}

func (w Wall) Touching() bool {
	return w.touching
}

// Classify reduces this tick's contacts for actor into a grounded flag and
// the last wall touched. Contacts for other actors or against non-static
// bodies are ignored.
func Classify(actor ActorID, up cp.Vector, contacts []Contact) (onFloor bool, wall Wall) {
	for _, c := range contacts {
		if !c.OtherStatic || c.Actor != actor {
			continue
		}
		n := c.Normal.Dot(up)
		if n > floorThreshold {
			onFloor = true
		} else if math.Abs(n) <= floorThreshold {
			wall = WallWithNormal(c.Normal)
		}
	}
	return onFloor, wall
}
