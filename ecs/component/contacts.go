package component

import "github.com/milk9111/platformer/movement"

// Contacts holds the collisions the physics step reported for an actor this
// tick. The physics system clears it before every step.
type Contacts struct {
	List []movement.Contact
}

func (c *Contacts) Reset() {
	c.List = c.List[:0]
}

var ContactsComponent = NewComponent[Contacts]()
