package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"time"

	"github.com/milk9111/platformer/movement"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var spec T
	if err := decodeInto(filename, &spec); err != nil {
		var zero T
		return zero, err
	}
	return spec, nil
}

func decodeInto(filename string, out any) error {
	data, err := Load(filename)
	if err != nil {
		return fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	return nil
}

// ActorSpec describes a movable actor: the local player or a scripted bot.
type ActorSpec struct {
	Name      string        `yaml:"name"`
	Player    bool          `yaml:"player"`
	Script    string        `yaml:"script"`
	Movement  MovementSpec  `yaml:"movement"`
	Transform TransformSpec `yaml:"transform"`
	Collider  ColliderSpec  `yaml:"collider"`
	Sprite    SpriteSpec    `yaml:"sprite"`
}

func (s *ActorSpec) MovementConfig() (movement.Config, error) {
	return s.Movement.Config()
}

// MovementSpec mirrors movement.Config. Windows are written in seconds.
type MovementSpec struct {
	Speed             float64 `yaml:"speed"`
	Acceleration      float64 `yaml:"acceleration"`
	Deceleration      float64 `yaml:"deceleration"`
	AirControl        float64 `yaml:"air_control"`
	JumpHeight        float64 `yaml:"jump_height"`
	MinJumpHeight     float64 `yaml:"min_jump_height"`
	JumpTimeToPeak    float64 `yaml:"jump_time_to_peak"`
	JumpTimeToDescent float64 `yaml:"jump_time_to_descent"`
	CoyoteTime        float64 `yaml:"coyote_time"`
	JumpBuffer        float64 `yaml:"jump_buffer"`
	FacingLeft        bool    `yaml:"facing_left"`
}

// NewMovementSpec is the inverse of Config.
func NewMovementSpec(c movement.Config) MovementSpec {
	return MovementSpec{
		Speed:             c.Speed,
		Acceleration:      c.Acceleration,
		Deceleration:      c.Deceleration,
		AirControl:        c.AirControl,
		JumpHeight:        c.JumpHeight,
		MinJumpHeight:     c.MinJumpHeight,
		JumpTimeToPeak:    c.JumpTimeToPeak,
		JumpTimeToDescent: c.JumpTimeToDescent,
		CoyoteTime:        c.CoyoteTime.Seconds(),
		JumpBuffer:        c.JumpBuffer.Seconds(),
	}
}

// Config converts the spec and validates it.
func (m MovementSpec) Config() (movement.Config, error) {
	cfg := movement.Config{
		Speed:             m.Speed,
		Acceleration:      m.Acceleration,
		Deceleration:      m.Deceleration,
		AirControl:        m.AirControl,
		JumpHeight:        m.JumpHeight,
		MinJumpHeight:     m.MinJumpHeight,
		JumpTimeToPeak:    m.JumpTimeToPeak,
		JumpTimeToDescent: m.JumpTimeToDescent,
		CoyoteTime:        seconds(m.CoyoteTime),
		JumpBuffer:        seconds(m.JumpBuffer),
	}
	if err := cfg.Validate(); err != nil {
		return movement.Config{}, err
	}
	return cfg, nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// LoadActorSpec reads an actor prefab. Movement fields missing from the file
// keep their movement.DefaultConfig values.
func LoadActorSpec(filename string) (*ActorSpec, error) {
	spec := ActorSpec{
		Movement: NewMovementSpec(movement.DefaultConfig()),
		Collider: ColliderSpec{Width: 54, Height: 54},
	}
	if err := decodeInto(filename, &spec); err != nil {
		return nil, err
	}
	if spec.Name == "" {
		spec.Name = strings.TrimSuffix(cleanPrefabPath(filename), ".yaml")
	}
	if spec.Collider.Width <= 0 || spec.Collider.Height <= 0 {
		return nil, fmt.Errorf("prefabs: %s: collider must have a positive size", filename)
	}
	return &spec, nil
}

// LevelSpec is a set of static blocks. Block positions are centers, +Y up.
type LevelSpec struct {
	Name   string      `yaml:"name"`
	Blocks []BlockSpec `yaml:"blocks"`
	Spawns []string    `yaml:"spawns"`
}

type BlockSpec struct {
	Name   string     `yaml:"name"`
	X      float64    `yaml:"x"`
	Y      float64    `yaml:"y"`
	Width  float64    `yaml:"width"`
	Height float64    `yaml:"height"`
	Color  *YAMLColor `yaml:"color"`
}

func LoadLevelSpec(filename string) (*LevelSpec, error) {
	spec, err := LoadSpec[LevelSpec](filename)
	if err != nil {
		return nil, err
	}
	for i, b := range spec.Blocks {
		if b.Width <= 0 || b.Height <= 0 {
			return nil, fmt.Errorf("prefabs: %s: block %d (%s) must have a positive size", filename, i, b.Name)
		}
	}
	return &spec, nil
}

type TransformSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type ColliderSpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type SpriteSpec struct {
	Color *YAMLColor `yaml:"color"`
}

type YAMLColor struct {
	color.Color
}

// ColorOr returns the parsed color, or fallback when none was given.
func (c *YAMLColor) ColorOr(fallback color.Color) color.Color {
	if c == nil || c.Color == nil {
		return fallback
	}
	return c.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
