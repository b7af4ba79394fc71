package movement

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestDeriveKinematics(t *testing.T) {
	cases := []struct {
		name string
		cfg  func(c *Config)
		want Kinematics
	}{
		{
			name: "defaults",
			cfg:  func(c *Config) {},
			want: Kinematics{JumpVelocity: 600, MinJumpVelocity: 300, JumpGravity: -1500, FallGravity: -1500},
		},
		{
			name: "fast_fall",
			cfg:  func(c *Config) { c.JumpTimeToDescent = 0.2 },
			want: Kinematics{JumpVelocity: 600, MinJumpVelocity: 300, JumpGravity: -1500, FallGravity: -6000},
		},
		{
			name: "floaty_fall",
			cfg:  func(c *Config) { c.JumpHeight = 100; c.MinJumpHeight = 50; c.JumpTimeToPeak = 0.5; c.JumpTimeToDescent = 1 },
			want: Kinematics{JumpVelocity: 400, MinJumpVelocity: 200, JumpGravity: -800, FallGravity: -200},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := DefaultConfig()
			c.cfg(&cfg)
			got := DeriveKinematics(cfg)
			if !closeTo(got.JumpVelocity, c.want.JumpVelocity) ||
				!closeTo(got.MinJumpVelocity, c.want.MinJumpVelocity) ||
				!closeTo(got.JumpGravity, c.want.JumpGravity) ||
				!closeTo(got.FallGravity, c.want.FallGravity) {
				t.Fatalf("expected %+v, got %+v", c.want, got)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name  string
		mut   func(c *Config)
		field string // "" = valid
	}{
		{"defaults", func(c *Config) {}, ""},
		{"air_control_out_of_range_is_not_checked", func(c *Config) { c.AirControl = 3 }, ""},
		{"zero_coyote_is_allowed", func(c *Config) { c.CoyoteTime = 0 }, ""},
		{"zero_time_to_peak", func(c *Config) { c.JumpTimeToPeak = 0 }, "jump_time_to_peak"},
		{"negative_time_to_descent", func(c *Config) { c.JumpTimeToDescent = -0.4 }, "jump_time_to_descent"},
		{"nan_speed", func(c *Config) { c.Speed = math.NaN() }, "speed"},
		{"inf_jump_height", func(c *Config) { c.JumpHeight = math.Inf(1) }, "jump_height"},
		{"zero_min_jump_height", func(c *Config) { c.MinJumpHeight = 0 }, "min_jump_height"},
		{"negative_buffer", func(c *Config) { c.JumpBuffer = -time.Millisecond }, "jump_buffer"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := DefaultConfig()
			c.mut(&cfg)
			err := cfg.Validate()
			if c.field == "" {
				if err != nil {
					t.Fatalf("expected valid config, got %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
			var cerr *ConfigError
			if !errors.As(err, &cerr) || cerr.Field != c.field {
				t.Fatalf("expected field %q, got %v", c.field, err)
			}
		})
	}
}

func closeTo(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
