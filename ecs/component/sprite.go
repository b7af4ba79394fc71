package component

import "image/color"

// Sprite is the flat-colored rectangle the renderer draws for an entity.
type Sprite struct {
	Width  float64
	Height float64
	Color  color.Color
	FlipX  bool
}

var SpriteComponent = NewComponent[Sprite]()
