package system

import (
	"fmt"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/movement"
	"github.com/milk9111/platformer/prefabs"
)

// Script outputs, one per action. A script sets the ones it wants held.
var scriptOutputs = [movement.ActionCount]string{
	movement.ActionUp:    "up",
	movement.ActionDown:  "down",
	movement.ActionLeft:  "left",
	movement.ActionRight: "right",
	movement.ActionJump:  "jump",
}

// ScriptEnv is what an input script can read on each tick.
type ScriptEnv struct {
	Tick         int
	Elapsed      time.Duration
	OnFloor      bool
	LookingRight bool
	Position     cp.Vector
	Velocity     cp.Vector
}

// InputScript is a compiled tengo input script. The script's state map
// persists between runs.
type InputScript struct {
	path     string
	compiled *tengo.Compiled
	state    *tengo.Map
	err      error
}

// CompileInputScript loads and compiles the named script.
func CompileInputScript(path string) (*InputScript, error) {
	src, err := prefabs.LoadScript(path)
	if err != nil {
		return nil, err
	}

	script := tengo.NewScript(src)
	_ = script.Add("tick", 0)
	_ = script.Add("elapsed", 0.0)
	_ = script.Add("on_floor", false)
	_ = script.Add("looking_right", true)
	_ = script.Add("x", 0.0)
	_ = script.Add("y", 0.0)
	_ = script.Add("vx", 0.0)
	_ = script.Add("vy", 0.0)
	_ = script.Add("state", map[string]any{})
	for _, name := range scriptOutputs {
		_ = script.Add(name, false)
	}

	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", path, err)
	}

	return &InputScript{
		path:     path,
		compiled: compiled,
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
	}, nil
}

// Run evaluates the script once and returns the actions it holds.
func (rt *InputScript) Run(env ScriptEnv) (movement.Frame, error) {
	var frame movement.Frame
	if rt == nil || rt.compiled == nil {
		return frame, fmt.Errorf("nil input script")
	}

	inputs := []struct {
		name  string
		value any
	}{
		{"tick", env.Tick},
		{"elapsed", env.Elapsed.Seconds()},
		{"on_floor", env.OnFloor},
		{"looking_right", env.LookingRight},
		{"x", env.Position.X},
		{"y", env.Position.Y},
		{"vx", env.Velocity.X},
		{"vy", env.Velocity.Y},
		{"state", rt.state},
	}
	for _, in := range inputs {
		if err := rt.compiled.Set(in.name, in.value); err != nil {
			return frame, err
		}
	}
	for _, name := range scriptOutputs {
		if err := rt.compiled.Set(name, false); err != nil {
			return frame, err
		}
	}

	if err := rt.compiled.Run(); err != nil {
		return frame, err
	}

	for action, name := range scriptOutputs {
		frame[action] = rt.compiled.Get(name).Bool()
	}
	return frame, nil
}

// ScriptInputSystem drives bots: each tick it runs the bot's script and
// feeds the resulting frame into the bot's input tracker.
type ScriptInputSystem struct {
	cache map[ecs.Entity]*InputScript
}

func NewScriptInputSystem() *ScriptInputSystem {
	return &ScriptInputSystem{cache: make(map[ecs.Entity]*InputScript)}
}

// Invalidate drops every compiled copy of path so the next tick recompiles it.
func (s *ScriptInputSystem) Invalidate(path string) {
	name := prefabs.ScriptName(path)
	for e, rt := range s.cache {
		if prefabs.ScriptName(rt.path) == name {
			delete(s.cache, e)
		}
	}
}

func (s *ScriptInputSystem) Update(w *ecs.World, dt time.Duration) {
	if w == nil {
		return
	}

	for e := range s.cache {
		if !w.IsAlive(e) {
			delete(s.cache, e)
		}
	}

	ecs.ForEach2(w, component.ScriptedInputComponent.Kind(), component.InputComponent.Kind(), func(e ecs.Entity, si *component.ScriptedInput, in *component.Input) {
		rt := s.runtime(e, si.Path)
		if rt.err != nil {
			in.Feed(movement.Frame{})
			return
		}

		frame, err := rt.Run(scriptEnv(w, e, si))
		if err != nil {
			common.Log.Warnw("input script failed", "entity", e, "script", si.Path, "error", err)
			rt.err = err
			frame = movement.Frame{}
		}
		in.Feed(frame)

		si.Ticks++
		si.Elapsed += dt
	})
}

func (s *ScriptInputSystem) runtime(e ecs.Entity, path string) *InputScript {
	if rt, ok := s.cache[e]; ok && rt.path == path {
		return rt
	}
	rt, err := CompileInputScript(path)
	if err != nil {
		common.Log.Errorw("load input script", "entity", e, "script", path, "error", err)
		rt = &InputScript{path: path, err: err}
	}
	s.cache[e] = rt
	return rt
}

func scriptEnv(w *ecs.World, e ecs.Entity, si *component.ScriptedInput) ScriptEnv {
	env := ScriptEnv{Tick: si.Ticks, Elapsed: si.Elapsed, LookingRight: true}
	if mv, ok := ecs.Get(w, e, component.MovementComponent.Kind()); ok && mv.Controller != nil {
		env.OnFloor = mv.Controller.OnFloor()
		env.LookingRight = mv.Controller.LookingRight()
	}
	if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		env.Position = cp.Vector{X: t.X, Y: t.Y}
	}
	if body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok && body.Body != nil {
		env.Velocity = body.Body.Velocity()
	}
	return env
}
