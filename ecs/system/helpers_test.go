package system

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/ecs/entity"
	"github.com/milk9111/platformer/movement"
	"github.com/milk9111/platformer/prefabs"
	"go.uber.org/zap/zaptest"
)

const frame60 = time.Second / 60

func useTestLogger(t *testing.T) {
	t.Helper()
	common.SetLogger(zaptest.NewLogger(t))
	t.Cleanup(func() { common.SetLogger(nil) })
}

func usePrefabDir(t *testing.T, files map[string]string) {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		writePrefab(t, dir, name, body)
	}
	prev := prefabs.DiskDir
	prefabs.DiskDir = dir
	t.Cleanup(func() { prefabs.DiskDir = prev })
}

func writePrefab(t *testing.T, dir, name, body string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func testLevel(blocks ...prefabs.BlockSpec) *prefabs.LevelSpec {
	floor := prefabs.BlockSpec{Name: "floor", X: 0, Y: -15, Width: 600, Height: 30}
	return &prefabs.LevelSpec{Name: "test", Blocks: append([]prefabs.BlockSpec{floor}, blocks...)}
}

func testActor(x, y float64) *prefabs.ActorSpec {
	return &prefabs.ActorSpec{
		Name:      "hero",
		Player:    true,
		Movement:  prefabs.NewMovementSpec(movement.DefaultConfig()),
		Transform: prefabs.TransformSpec{X: x, Y: y},
		Collider:  prefabs.ColliderSpec{Width: 54, Height: 54},
	}
}

type testSim struct {
	world  *ecs.World
	sched  *ecs.Scheduler
	events *EventLogSystem
	actor  ecs.Entity
}

func newTestSim(t *testing.T, level *prefabs.LevelSpec, actor *prefabs.ActorSpec) *testSim {
	t.Helper()
	useTestLogger(t)

	w := ecs.NewWorld()
	if err := entity.BuildLevel(w, level); err != nil {
		t.Fatalf("build level: %v", err)
	}
	e, err := entity.BuildActor(w, "hero.yaml", actor)
	if err != nil {
		t.Fatalf("build actor: %v", err)
	}

	events := NewEventLogSystem()
	sched := ecs.NewScheduler(
		NewScriptInputSystem(),
		NewPhysicsSystem(),
		NewMovementSystem(),
		events,
	)
	return &testSim{world: w, sched: sched, events: events, actor: e}
}

func (s *testSim) run(ticks int, frame movement.Frame) {
	for i := 0; i < ticks; i++ {
		if in, ok := ecs.Get(s.world, s.actor, component.InputComponent.Kind()); ok {
			in.Feed(frame)
		}
		s.sched.Update(s.world, frame60)
	}
}

func (s *testSim) controller(t *testing.T) *movement.Controller {
	t.Helper()
	mv, ok := ecs.Get(s.world, s.actor, component.MovementComponent.Kind())
	if !ok || mv.Controller == nil {
		t.Fatalf("actor has no controller")
	}
	return mv.Controller
}

func (s *testSim) transform(t *testing.T) *component.Transform {
	t.Helper()
	tr, ok := ecs.Get(s.world, s.actor, component.TransformComponent.Kind())
	if !ok {
		t.Fatalf("actor has no transform")
	}
	return tr
}

func (s *testSim) body(t *testing.T) *component.PhysicsBody {
	t.Helper()
	body, ok := ecs.Get(s.world, s.actor, component.PhysicsBodyComponent.Kind())
	if !ok || body.Body == nil {
		t.Fatalf("actor has no body")
	}
	return body
}

func hold(actions ...movement.Action) movement.Frame {
	var f movement.Frame
	for _, a := range actions {
		f[a] = true
	}
	return f
}

func closeTo(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}
