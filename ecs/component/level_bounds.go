package component

// LevelBounds stores the world-space extents of the current level. The
// origin sits at the level's horizontal center, on its lowest floor.
type LevelBounds struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

func (b LevelBounds) Width() float64  { return b.MaxX - b.MinX }
func (b LevelBounds) Height() float64 { return b.MaxY - b.MinY }

var LevelBoundsComponent = NewComponent[LevelBounds]()
