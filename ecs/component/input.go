package component

import "github.com/milk9111/platformer/movement"

// Input stores this tick's actions for an entity and the tracker that turns
// raw frames into press/release edges.
type Input struct {
	Actions movement.Actions
	Tracker movement.Tracker
}

// Feed records a raw frame and refreshes Actions.
func (i *Input) Feed(frame movement.Frame) {
	i.Actions = i.Tracker.Update(frame)
}

var InputComponent = NewComponent[Input]()
