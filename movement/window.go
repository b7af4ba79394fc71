package movement

import "time"

// Window is a one-shot countdown used for coyote time and jump buffering.
// It is either idle or running with some time remaining.
type Window struct {
	length    time.Duration
	remaining time.Duration
	running   bool
}

func NewWindow(length time.Duration) Window {
	return Window{length: length}
}

// Start rewinds the window to its full length. A zero-length window never
// becomes available.
func (w *Window) Start() {
	if w.length <= 0 {
		w.running = false
		w.remaining = 0
		return
	}
	w.remaining = w.length
	w.running = true
}

func (w *Window) Tick(dt time.Duration) {
	if !w.running {
		return
	}
	w.remaining -= dt
	if w.remaining <= 0 {
		w.remaining = 0
		w.running = false
	}
}

func (w *Window) Available() bool {
	return w.running && w.remaining > 0
}

// Consume stops the window so it cannot be used again until restarted.
func (w *Window) Consume() {
	w.running = false
	w.remaining = 0
}

func (w *Window) Remaining() time.Duration {
	return w.remaining
}

func (w *Window) Length() time.Duration {
	return w.length
}

// SetLength changes the window length for future starts.
func (w *Window) SetLength(length time.Duration) {
	w.length = length
}
