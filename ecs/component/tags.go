package component

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

// BotTag marks actors driven by a script instead of a device.
type BotTag struct{}

var BotTagComponent = NewComponent[BotTag]()

type CameraTag struct{}

var CameraTagComponent = NewComponent[CameraTag]()
