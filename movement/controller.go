// Package movement turns per-tick input and collision contacts into a
// platformer actor's velocity.
package movement

import (
	"math"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformer/common"
)

const (
	// velocitySnap is the horizontal speed below which an actor with no
	// horizontal input is considered stopped.
	velocitySnap    = 0.01
	facingThreshold = 0.5
)

// JumpKind reports which rule granted a jump during a tick.
type JumpKind int

const (
	JumpNone JumpKind = iota
	JumpGrounded
	JumpCoyote
	JumpBuffered
)

func (k JumpKind) String() string {
	switch k {
	case JumpGrounded:
		return "grounded"
	case JumpCoyote:
		return "coyote"
	case JumpBuffered:
		return "buffered"
	default:
		return "none"
	}
}

// Step is the result of one Tick.
type Step struct {
	Velocity     cp.Vector
	LookingRight bool
	Jump         JumpKind
}

// Controller is the movement state of a single actor. It is not safe for
// concurrent use; one simulation goroutine owns it.
type Controller struct {
	actor ActorID
	cfg   Config
	kin   Kinematics
	up    cp.Vector

	moveAxis     cp.Vector
	onFloor      bool
	wall         Wall
	wasOnFloor   bool
	isJumping    bool
	lookingRight bool

	coyote Window
	buffer Window
}

type Option func(*Controller)

// WithUp sets the world's up axis. The default is +Y.
func WithUp(up cp.Vector) Option {
	return func(c *Controller) {
		if up.Length() > 0 {
			c.up = up.Normalize()
		}
	}
}

// WithFacingLeft spawns the actor looking left.
func WithFacingLeft() Option {
	return func(c *Controller) {
		c.lookingRight = false
	}
}

// New validates cfg and returns a controller for actor.
func New(actor ActorID, cfg Config, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Controller{
		actor:        actor,
		cfg:          cfg,
		kin:          DeriveKinematics(cfg),
		up:           cp.Vector{X: 0, Y: 1},
		lookingRight: true,
		coyote:       NewWindow(cfg.CoyoteTime),
		buffer:       NewWindow(cfg.JumpBuffer),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SetConfig swaps the tunables and re-derives the jump constants. The
// current motion state is kept.
func (c *Controller) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg
	c.kin = DeriveKinematics(cfg)
	c.coyote.SetLength(cfg.CoyoteTime)
	c.buffer.SetLength(cfg.JumpBuffer)
	return nil
}

// Tick advances the actor by dt and returns the new velocity. vel is the
// velocity the physics collaborator integrated last tick.
func (c *Controller) Tick(dt time.Duration, in Input, contacts []Contact, vel cp.Vector) Step {
	if in == nil {
		in = Actions{}
	}
	delta := dt.Seconds()

	c.wasOnFloor = c.onFloor
	c.onFloor, c.wall = Classify(c.actor, c.up, contacts)

	c.coyote.Tick(dt)
	c.buffer.Tick(dt)

	vel.Y = c.applyGravity(vel.Y, delta)

	var jump JumpKind
	vel.Y, jump = c.resolveJump(in, vel.Y)

	vel.X = c.accelerate(vel.X, delta)
	c.updateFacing()

	return Step{Velocity: vel, LookingRight: c.lookingRight, Jump: jump}
}

func (c *Controller) applyGravity(vy, delta float64) float64 {
	if vy > 0 {
		return vy + c.kin.JumpGravity*delta
	}
	return vy + c.kin.FallGravity*delta
}

func (c *Controller) resolveJump(in Input, vy float64) (float64, JumpKind) {
	c.moveAxis = ReadAxis(in)

	jump := JumpNone
	if c.onFloor && c.buffer.Available() {
		c.buffer.Consume()
		vy = c.kin.JumpVelocity
		c.isJumping = true
		jump = JumpBuffered
	}

	if in.JustPressed(ActionJump) && jump == JumpNone {
		switch {
		case c.onFloor:
			c.coyote.Consume()
			vy = c.kin.JumpVelocity
			c.isJumping = true
			jump = JumpGrounded
		case c.coyote.Available():
			c.coyote.Consume()
			vy = c.kin.JumpVelocity
			c.isJumping = true
			jump = JumpCoyote
		default:
			c.buffer.Start()
		}
	}

	if c.isJumping && vy <= 0 {
		c.isJumping = false
	}

	if in.JustReleased(ActionJump) && vy > c.kin.MinJumpVelocity {
		vy = c.kin.MinJumpVelocity
	}

	// Walking off a ledge arms coyote time; jumping off one does not.
	if !c.onFloor && c.wasOnFloor && !c.isJumping {
		c.coyote.Start()
	}

	return vy, jump
}

func (c *Controller) accelerate(vx, delta float64) float64 {
	target := c.moveAxis.X * c.cfg.Speed

	rate := c.cfg.Deceleration
	if c.moveAxis.X != 0 {
		rate = c.cfg.Acceleration
	}
	if !c.onFloor {
		rate *= c.cfg.AirControl
	}

	vx = common.Lerp(vx, target, common.Clamp01(rate*delta))

	if c.moveAxis.X == 0 && math.Abs(vx) < velocitySnap {
		vx = 0
	}
	return vx
}

func (c *Controller) updateFacing() {
	if c.moveAxis.X >= facingThreshold {
		c.lookingRight = true
	}
	if c.moveAxis.X <= -facingThreshold {
		c.lookingRight = false
	}
}

func (c *Controller) Actor() ActorID            { return c.actor }
func (c *Controller) Config() Config            { return c.cfg }
func (c *Controller) Kinematics() Kinematics    { return c.kin }
func (c *Controller) MoveAxis() cp.Vector       { return c.moveAxis }
func (c *Controller) OnFloor() bool             { return c.onFloor }
func (c *Controller) WasOnFloor() bool          { return c.wasOnFloor }
func (c *Controller) IsJumping() bool           { return c.isJumping }
func (c *Controller) LookingRight() bool        { return c.lookingRight }
func (c *Controller) CoyoteAvailable() bool     { return c.coyote.Available() }
func (c *Controller) BufferAvailable() bool     { return c.buffer.Available() }
func (c *Controller) OnWall() (cp.Vector, bool) { return c.wall.Normal() }

// FlipX reports whether a sprite drawn facing right should be mirrored.
func (c *Controller) FlipX() bool {
	return !c.lookingRight
}
