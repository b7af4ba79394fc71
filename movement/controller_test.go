package movement

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/jakecoffman/cp"
)

const (
	testActor ActorID = 1
	frame60           = time.Second / 60
	frame10ms         = 10 * time.Millisecond
)

func hold(acts ...Action) Actions {
	var a Actions
	for _, act := range acts {
		a.States[act].Pressed = true
	}
	return a
}

func press(acts ...Action) Actions {
	var a Actions
	for _, act := range acts {
		a.States[act] = ActionState{Pressed: true, JustPressed: true}
	}
	return a
}

func release(acts ...Action) Actions {
	var a Actions
	for _, act := range acts {
		a.States[act].JustReleased = true
	}
	return a
}

func stick(x float64) Actions {
	return Actions{Stick: cp.Vector{X: x}, StickActive: true}
}

func floorContact() []Contact {
	return []Contact{{Actor: testActor, OtherStatic: true, Normal: cp.Vector{X: 0, Y: 1}}}
}

func newTestController(t *testing.T, opts ...Option) *Controller {
	t.Helper()
	c, err := New(testActor, DefaultConfig(), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

// flatWorld stands in for the physics collaborator: it integrates position
// and stops the actor on a floor at y=0.
type flatWorld struct {
	c   *Controller
	dt  time.Duration
	pos cp.Vector
	vel cp.Vector
}

func (w *flatWorld) contacts() []Contact {
	if w.pos.Y <= 0 {
		return floorContact()
	}
	return nil
}

func (w *flatWorld) tick(in Input) Step {
	st := w.c.Tick(w.dt, in, w.contacts(), w.vel)
	w.vel = st.Velocity
	w.pos = w.pos.Add(w.vel.Mult(w.dt.Seconds()))
	if w.pos.Y <= 0 {
		w.pos.Y = 0
		if w.vel.Y < 0 {
			w.vel.Y = 0
		}
	}
	return st
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.JumpTimeToPeak = 0
	c, err := New(testActor, cfg)
	if c != nil || !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected rejection, got controller=%v err=%v", c, err)
	}
}

func TestGroundedJumpGrantsExactVelocity(t *testing.T) {
	c := newTestController(t)
	c.Tick(frame60, Actions{}, floorContact(), cp.Vector{})

	st := c.Tick(frame60, press(ActionJump), floorContact(), cp.Vector{})
	if st.Velocity.Y != 600 {
		t.Fatalf("expected vy=600, got %v", st.Velocity.Y)
	}
	if st.Jump != JumpGrounded {
		t.Fatalf("expected grounded jump, got %v", st.Jump)
	}
	if !c.IsJumping() {
		t.Fatalf("expected jumping after grant")
	}
}

func TestShortHopClampsToMinVelocity(t *testing.T) {
	c := newTestController(t)
	// Airborne and rising at full jump speed.
	st := c.Tick(frame60, release(ActionJump), nil, cp.Vector{Y: 600})
	if st.Velocity.Y != 300 {
		t.Fatalf("expected vy clamped to 300, got %v", st.Velocity.Y)
	}
}

func TestShortHopLeavesSlowAscentAlone(t *testing.T) {
	c := newTestController(t)
	st := c.Tick(frame60, release(ActionJump), nil, cp.Vector{Y: 200})
	want := 200 + c.Kinematics().JumpGravity*frame60.Seconds()
	if !closeTo(st.Velocity.Y, want) {
		t.Fatalf("expected only gravity (%v), got %v", want, st.Velocity.Y)
	}
}

func TestShortHopMonotonicity(t *testing.T) {
	peakFor := func(releaseTick int) float64 {
		w := &flatWorld{c: newTestController(t), dt: frame60}
		w.tick(Actions{})
		peak := 0.0
		for i := 0; i < 200; i++ {
			var in Actions
			switch {
			case i == 0:
				in = press(ActionJump)
			case i < releaseTick:
				in = hold(ActionJump)
			case i == releaseTick:
				in = release(ActionJump)
			}
			before := w.vel.Y
			st := w.tick(in)
			if i == releaseTick && i > 0 && st.Velocity.Y > before {
				t.Fatalf("release at tick %d raised vy from %v to %v", releaseTick, before, st.Velocity.Y)
			}
			peak = math.Max(peak, w.pos.Y)
		}
		return peak
	}

	prev := -1.0
	for r := 1; r <= 30; r++ {
		p := peakFor(r)
		if p+1e-9 < prev {
			t.Fatalf("release at tick %d peaked at %v, lower than earlier release %v", r, p, prev)
		}
		prev = p
	}
	if full := peakFor(1000); full+1e-9 < prev {
		t.Fatalf("holding the whole jump peaked at %v, lower than %v", full, prev)
	}
}

func TestJumpEndsWhenDescending(t *testing.T) {
	w := &flatWorld{c: newTestController(t), dt: frame60}
	w.tick(Actions{})
	w.tick(press(ActionJump))
	for i := 0; i < 120 && w.vel.Y > 0; i++ {
		if !w.c.IsJumping() {
			t.Fatalf("jump flag cleared while still rising at vy=%v", w.vel.Y)
		}
		w.tick(hold(ActionJump))
	}
	if w.c.IsJumping() {
		t.Fatalf("jump flag still set with vy=%v", w.vel.Y)
	}
}

func TestCoyoteWindow(t *testing.T) {
	cases := []struct {
		name      string
		pressedAt time.Duration
		want      JumpKind
	}{
		{"early", 10 * time.Millisecond, JumpCoyote},
		{"mid", 50 * time.Millisecond, JumpCoyote},
		{"late_but_inside", 90 * time.Millisecond, JumpCoyote},
		{"at_expiry", 100 * time.Millisecond, JumpNone},
		{"after_expiry", 110 * time.Millisecond, JumpNone},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ctrl := newTestController(t)
			ctrl.Tick(frame10ms, Actions{}, floorContact(), cp.Vector{})
			// Walk off the ledge.
			vel := ctrl.Tick(frame10ms, Actions{}, nil, cp.Vector{}).Velocity
			if !ctrl.CoyoteAvailable() {
				t.Fatalf("walking off a ledge should arm coyote time")
			}

			var st Step
			for elapsed := frame10ms; elapsed <= c.pressedAt; elapsed += frame10ms {
				in := Actions{}
				if elapsed == c.pressedAt {
					in = press(ActionJump)
				}
				st = ctrl.Tick(frame10ms, in, nil, vel)
				vel = st.Velocity
			}
			if st.Jump != c.want {
				t.Fatalf("expected %v, got %v", c.want, st.Jump)
			}
			if c.want == JumpCoyote && st.Velocity.Y != ctrl.Kinematics().JumpVelocity {
				t.Fatalf("coyote jump should match grounded jump velocity, got %v", st.Velocity.Y)
			}
			if c.want == JumpNone && !ctrl.BufferAvailable() {
				t.Fatalf("a missed coyote press should be buffered")
			}
		})
	}
}

func TestJumpingOffGroundDoesNotArmCoyote(t *testing.T) {
	c := newTestController(t)
	c.Tick(frame10ms, Actions{}, floorContact(), cp.Vector{})
	vel := c.Tick(frame10ms, press(ActionJump), floorContact(), cp.Vector{}).Velocity
	vel = c.Tick(frame10ms, hold(ActionJump), nil, vel).Velocity
	if c.CoyoteAvailable() {
		t.Fatalf("jumping must not grant coyote time")
	}
	st := c.Tick(frame10ms, press(ActionJump), nil, vel)
	if st.Jump != JumpNone {
		t.Fatalf("expected no mid-air jump, got %v", st.Jump)
	}
}

func TestJumpBuffer(t *testing.T) {
	cases := []struct {
		name     string
		landedAt time.Duration
		want     JumpKind
	}{
		{"immediate", 10 * time.Millisecond, JumpBuffered},
		{"inside", 50 * time.Millisecond, JumpBuffered},
		{"late_but_inside", 90 * time.Millisecond, JumpBuffered},
		{"after_expiry", 110 * time.Millisecond, JumpNone},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ctrl := newTestController(t)
			vel := cp.Vector{Y: -200}
			st := ctrl.Tick(frame10ms, press(ActionJump), nil, vel)
			if st.Jump != JumpNone {
				t.Fatalf("airborne press without coyote should not jump, got %v", st.Jump)
			}
			vel = st.Velocity

			grants := 0
			for elapsed := frame10ms; elapsed <= c.landedAt+5*frame10ms; elapsed += frame10ms {
				var contacts []Contact
				if elapsed >= c.landedAt {
					contacts = floorContact()
					vel.Y = 0
				}
				st = ctrl.Tick(frame10ms, hold(ActionJump), contacts, vel)
				vel = st.Velocity
				if st.Jump != JumpNone {
					grants++
					if elapsed != c.landedAt {
						t.Fatalf("buffered jump fired at %v, expected landing tick %v", elapsed, c.landedAt)
					}
					if st.Jump != JumpBuffered || st.Velocity.Y != 600 {
						t.Fatalf("expected buffered jump at 600, got %v vy=%v", st.Jump, st.Velocity.Y)
					}
				}
			}
			want := 0
			if c.want == JumpBuffered {
				want = 1
			}
			if grants != want {
				t.Fatalf("expected %d grants, got %d", want, grants)
			}
		})
	}
}

func TestNoDoubleGrantOnLanding(t *testing.T) {
	c := newTestController(t)
	vel := c.Tick(frame10ms, press(ActionJump), nil, cp.Vector{Y: -100}).Velocity
	vel = c.Tick(frame10ms, Actions{}, nil, vel).Velocity

	st := c.Tick(frame10ms, press(ActionJump), floorContact(), cp.Vector{})
	if st.Jump != JumpBuffered {
		t.Fatalf("expected the buffered press to win, got %v", st.Jump)
	}
	if c.BufferAvailable() {
		t.Fatalf("landing press must be absorbed, not re-buffered")
	}
	st = c.Tick(frame10ms, hold(ActionJump), floorContact(), st.Velocity)
	if st.Jump != JumpNone {
		t.Fatalf("expected no second grant on the following tick, got %v", st.Jump)
	}
}

func TestGravityBeforeGrant(t *testing.T) {
	c := newTestController(t)
	c.Tick(frame60, Actions{}, floorContact(), cp.Vector{})
	st := c.Tick(frame60, press(ActionJump), floorContact(), cp.Vector{Y: -50})
	if st.Velocity.Y != c.Kinematics().JumpVelocity {
		t.Fatalf("grant must not be damped by the same tick's gravity, got %v", st.Velocity.Y)
	}
}

func TestAsymmetricGravity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.JumpTimeToDescent = 0.2
	c, err := New(testActor, cfg)
	if err != nil {
		t.Fatal(err)
	}
	dt := frame60.Seconds()

	up := c.Tick(frame60, Actions{}, nil, cp.Vector{Y: 100}).Velocity.Y
	if !closeTo(up, 100-1500*dt) {
		t.Fatalf("rising should use jump gravity, got %v", up)
	}
	down := c.Tick(frame60, Actions{}, nil, cp.Vector{Y: 0}).Velocity.Y
	if !closeTo(down, -6000*dt) {
		t.Fatalf("falling should use fall gravity, got %v", down)
	}
}

func TestHorizontalConvergence(t *testing.T) {
	cases := []struct {
		name     string
		contacts []Contact
		in       Actions
		want     float64
	}{
		{"grounded_right", floorContact(), hold(ActionRight), 350},
		{"grounded_left", floorContact(), hold(ActionLeft), -350},
		{"airborne_right", nil, hold(ActionRight), 350},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ctrl := newTestController(t)
			vel := cp.Vector{}
			for i := 0; i < 600; i++ {
				vel = ctrl.Tick(frame60, c.in, c.contacts, vel).Velocity
				if math.Abs(vel.X) > math.Abs(c.want) {
					t.Fatalf("overshot target at tick %d: %v", i, vel.X)
				}
				vel.Y = 0
			}
			if math.Abs(vel.X-c.want) > velocitySnap {
				t.Fatalf("expected to converge to %v, got %v", c.want, vel.X)
			}
		})
	}
}

func TestAirControlSlowsAcceleration(t *testing.T) {
	ground := newTestController(t)
	air := newTestController(t)
	g := ground.Tick(frame60, hold(ActionRight), floorContact(), cp.Vector{}).Velocity.X
	a := air.Tick(frame60, hold(ActionRight), nil, cp.Vector{}).Velocity.X
	if !(a < g) {
		t.Fatalf("expected airborne accel (%v) below grounded accel (%v)", a, g)
	}
	if !closeTo(a/g, 0.9) {
		t.Fatalf("expected air control ratio 0.9, got %v", a/g)
	}
}

func TestDecelerationSnapsToZero(t *testing.T) {
	c := newTestController(t)
	vel := cp.Vector{X: 350}
	stopped := false
	for i := 0; i < 600; i++ {
		vel = c.Tick(frame60, Actions{}, floorContact(), vel).Velocity
		vel.Y = 0
		if vel.X == 0 {
			stopped = true
			break
		}
		if vel.X < 0 {
			t.Fatalf("decelerated past zero: %v", vel.X)
		}
	}
	if !stopped {
		t.Fatalf("expected horizontal velocity to snap to exactly zero, got %v", vel.X)
	}
}

func TestLargeStepDoesNotOvershoot(t *testing.T) {
	c := newTestController(t)
	st := c.Tick(time.Second, hold(ActionRight), floorContact(), cp.Vector{})
	if st.Velocity.X != 350 {
		t.Fatalf("expected clamped smoothing to land on target, got %v", st.Velocity.X)
	}
}

func TestFacing(t *testing.T) {
	t.Run("dead_zone_keeps_initial", func(t *testing.T) {
		for _, opts := range [][]Option{nil, {WithFacingLeft()}} {
			c := newTestController(t, opts...)
			initial := c.LookingRight()
			for _, x := range []float64{0, 0.49, -0.49, 0.2, -0.3, 0.4999} {
				st := c.Tick(frame60, stick(x), floorContact(), cp.Vector{})
				if st.LookingRight != initial {
					t.Fatalf("facing changed inside dead zone at x=%v", x)
				}
			}
		}
	})

	t.Run("thresholds_flip", func(t *testing.T) {
		c := newTestController(t)
		steps := []struct {
			x         float64
			wantRight bool
		}{
			{-0.5, false},
			{0.3, false},
			{0.5, true},
			{-0.49, true},
			{-1, false},
			{0, false},
			{1, true},
		}
		for _, s := range steps {
			c.Tick(frame60, stick(s.x), floorContact(), cp.Vector{})
			if c.LookingRight() != s.wantRight {
				t.Fatalf("x=%v: expected lookingRight=%v", s.x, s.wantRight)
			}
			if c.FlipX() == s.wantRight {
				t.Fatalf("x=%v: FlipX should mirror when facing left", s.x)
			}
		}
	})

	t.Run("digital_input", func(t *testing.T) {
		c := newTestController(t)
		c.Tick(frame60, hold(ActionLeft), floorContact(), cp.Vector{})
		if c.LookingRight() {
			t.Fatalf("holding left should face left")
		}
	})
}

func TestTickExposesContacts(t *testing.T) {
	c := newTestController(t)
	c.Tick(frame60, Actions{}, []Contact{{Actor: testActor, OtherStatic: true, Normal: cp.Vector{X: 1}}}, cp.Vector{})
	if c.OnFloor() {
		t.Fatalf("wall contact must not ground the actor")
	}
	if n, ok := c.OnWall(); !ok || n != (cp.Vector{X: 1}) {
		t.Fatalf("expected wall (1,0), got %v ok=%v", n, ok)
	}

	c.Tick(frame60, Actions{}, floorContact(), cp.Vector{})
	if !c.OnFloor() {
		t.Fatalf("expected grounded")
	}
	if _, ok := c.OnWall(); ok {
		t.Fatalf("wall must be cleared each tick")
	}

	c.Tick(frame60, Actions{}, []Contact{{Actor: testActor + 1, OtherStatic: true, Normal: cp.Vector{Y: 1}}}, cp.Vector{})
	if c.OnFloor() || !c.WasOnFloor() {
		t.Fatalf("contacts for unknown actors must be ignored")
	}
}

func TestMoveAxisDoesNotAccumulate(t *testing.T) {
	c := newTestController(t)
	c.Tick(frame60, hold(ActionUp, ActionRight), nil, cp.Vector{})
	if c.MoveAxis() != (cp.Vector{X: 1, Y: 1}) {
		t.Fatalf("expected unnormalized diagonal, got %v", c.MoveAxis())
	}
	c.Tick(frame60, hold(ActionUp, ActionRight), nil, cp.Vector{})
	if c.MoveAxis() != (cp.Vector{X: 1, Y: 1}) {
		t.Fatalf("move axis accumulated: %v", c.MoveAxis())
	}
	c.Tick(frame60, nil, nil, cp.Vector{})
	if c.MoveAxis() != (cp.Vector{}) {
		t.Fatalf("expected zero axis with nil input, got %v", c.MoveAxis())
	}
}

func TestSetConfig(t *testing.T) {
	c := newTestController(t)

	bad := DefaultConfig()
	bad.JumpTimeToDescent = 0
	if err := c.SetConfig(bad); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected invalid config error, got %v", err)
	}
	if !closeTo(c.Kinematics().FallGravity, -1500) {
		t.Fatalf("rejected config must not change kinematics")
	}

	next := DefaultConfig()
	next.JumpHeight = 60
	next.MinJumpHeight = 30
	if err := c.SetConfig(next); err != nil {
		t.Fatal(err)
	}
	if !closeTo(c.Kinematics().JumpVelocity, 300) {
		t.Fatalf("expected re-derived jump velocity 300, got %v", c.Kinematics().JumpVelocity)
	}
}
