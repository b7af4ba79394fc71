package component

// Transform is the center of an entity in world units, +Y up.
type Transform struct {
	X float64
	Y float64
}

var TransformComponent = NewComponent[Transform]()
