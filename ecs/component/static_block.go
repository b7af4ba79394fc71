package component

// StaticBlock marks level geometry.
type StaticBlock struct {
	Name string
}

var StaticBlockComponent = NewComponent[StaticBlock]()
