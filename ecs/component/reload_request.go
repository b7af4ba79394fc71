package component

// ReloadRequest asks the reload system to re-read an actor prefab and push
// the new tunables into every controller spawned from it. Systems create a
// short-lived entity with this component.
type ReloadRequest struct {
	Spec string
}

var ReloadRequestComponent = NewComponent[ReloadRequest]()
