package system

import (
	"time"

	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/prefabs"
)

// ReloadSystem applies edited actor prefabs to live controllers. Requests
// arrive either as ReloadRequest entities or from a prefab watcher.
type ReloadSystem struct {
	changes <-chan prefabs.Change
	scripts *ScriptInputSystem
}

// NewReloadSystem returns a reload system. changes and scripts may be nil.
func NewReloadSystem(changes <-chan prefabs.Change, scripts *ScriptInputSystem) *ReloadSystem {
	return &ReloadSystem{changes: changes, scripts: scripts}
}

func (s *ReloadSystem) Update(w *ecs.World, dt time.Duration) {
	if w == nil {
		return
	}

	s.drainChanges(w)

	for _, e := range w.Query(component.ReloadRequestComponent.Kind()) {
		req, ok := ecs.Get(w, e, component.ReloadRequestComponent.Kind())
		if ok {
			s.apply(w, req.Spec)
		}
		w.DestroyEntity(e)
	}
}

func (s *ReloadSystem) drainChanges(w *ecs.World) {
	if s.changes == nil {
		return
	}
	for {
		select {
		case change, ok := <-s.changes:
			if !ok {
				s.changes = nil
				return
			}
			s.handleChange(w, change)
		default:
			return
		}
	}
}

func (s *ReloadSystem) handleChange(w *ecs.World, change prefabs.Change) {
	switch change.Kind {
	case prefabs.ChangeScript:
		if s.scripts != nil {
			s.scripts.Invalidate(change.Name)
			common.Log.Infow("input script reloaded", "script", change.Name)
		}
	case prefabs.ChangeSpec:
		e := w.CreateEntity()
		if err := ecs.Add(w, e, component.ReloadRequestComponent.Kind(), &component.ReloadRequest{Spec: change.Name}); err != nil {
			common.Log.Errorw("queue reload", "spec", change.Name, "error", err)
		}
	}
}

// apply reloads spec and pushes its tunables into every controller spawned
// from it. An invalid prefab leaves the running controllers untouched.
func (s *ReloadSystem) apply(w *ecs.World, spec string) {
	var targets []*component.Movement
	ecs.ForEach(w, component.MovementComponent.Kind(), func(_ ecs.Entity, mv *component.Movement) {
		if mv.Controller != nil && mv.Spec == spec {
			targets = append(targets, mv)
		}
	})
	if len(targets) == 0 {
		return
	}

	actor, err := prefabs.LoadActorSpec(spec)
	if err != nil {
		common.Log.Warnw("reload prefab", "spec", spec, "error", err)
		return
	}
	cfg, err := actor.MovementConfig()
	if err != nil {
		common.Log.Warnw("reload rejected", "spec", spec, "error", err)
		return
	}

	for _, mv := range targets {
		if err := mv.Controller.SetConfig(cfg); err != nil {
			common.Log.Warnw("reload rejected", "spec", spec, "error", err)
			return
		}
	}
	w.Events().Push(ecs.Event{Type: ecs.EventReload, Data: spec})
	common.Log.Infow("movement reloaded", "spec", spec, "actors", len(targets))
}
