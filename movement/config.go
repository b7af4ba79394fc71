package movement

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var ErrInvalidConfig = errors.New("movement: invalid config")

// ConfigError reports the tunable that failed validation.
type ConfigError struct {
	Field string
	Value any
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("movement: invalid config: %s=%v", e.Field, e.Value)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// Config holds the per-actor tunables. Distances are in world units, times in
// seconds unless typed as a duration.
type Config struct {
	Speed             float64
	Acceleration      float64
	Deceleration      float64
	AirControl        float64
	JumpHeight        float64
	MinJumpHeight     float64
	JumpTimeToPeak    float64
	JumpTimeToDescent float64
	CoyoteTime        time.Duration
	JumpBuffer        time.Duration
}

func DefaultConfig() Config {
	return Config{
		Speed:             350,
		Acceleration:      10,
		Deceleration:      12,
		AirControl:        0.9,
		JumpHeight:        120,
		MinJumpHeight:     60,
		JumpTimeToPeak:    0.4,
		JumpTimeToDescent: 0.4,
		CoyoteTime:        100 * time.Millisecond,
		JumpBuffer:        100 * time.Millisecond,
	}
}

// Validate rejects tunables that would divide by zero or produce NaN
// velocities. AirControl is the caller's responsibility.
func (c Config) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"speed", c.Speed},
		{"acceleration", c.Acceleration},
		{"deceleration", c.Deceleration},
		{"jump_height", c.JumpHeight},
		{"min_jump_height", c.MinJumpHeight},
		{"jump_time_to_peak", c.JumpTimeToPeak},
		{"jump_time_to_descent", c.JumpTimeToDescent},
	}
	for _, p := range positive {
		if math.IsNaN(p.v) || math.IsInf(p.v, 0) || p.v <= 0 {
			return &ConfigError{Field: p.name, Value: p.v}
		}
	}
	if c.CoyoteTime < 0 {
		return &ConfigError{Field: "coyote_time", Value: c.CoyoteTime}
	}
	if c.JumpBuffer < 0 {
		return &ConfigError{Field: "jump_buffer", Value: c.JumpBuffer}
	}
	return nil
}

// Kinematics are the jump constants derived from a Config.
type Kinematics struct {
	JumpVelocity    float64
	MinJumpVelocity float64
	// JumpGravity applies while rising, FallGravity otherwise. Both are negative.
	JumpGravity float64
	FallGravity float64
}

// DeriveKinematics solves the projectile equations for a jump that reaches
// JumpHeight after JumpTimeToPeak and falls back in JumpTimeToDescent.
func DeriveKinematics(c Config) Kinematics {
	return Kinematics{
		JumpVelocity:    2 * c.JumpHeight / c.JumpTimeToPeak,
		MinJumpVelocity: 2 * c.MinJumpHeight / c.JumpTimeToPeak,
		JumpGravity:     -2 * c.JumpHeight / (c.JumpTimeToPeak * c.JumpTimeToPeak),
		FallGravity:     -2 * c.JumpHeight / (c.JumpTimeToDescent * c.JumpTimeToDescent),
	}
}
