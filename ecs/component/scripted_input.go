package component

import "time"

// ScriptedInput names the input script driving a non-player actor. Ticks
// and Elapsed count the frames the script has produced so far.
type ScriptedInput struct {
	Path    string
	Ticks   int
	Elapsed time.Duration
}

var ScriptedInputComponent = NewComponent[ScriptedInput]()
