package main

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/ecs/entity"
	"github.com/milk9111/platformer/ecs/render"
	"github.com/milk9111/platformer/ecs/system"
	"github.com/milk9111/platformer/prefabs"
	"golang.org/x/image/colornames"
)

const (
	baseWidth  = 1280
	baseHeight = 720
	botScript  = "patrol.tengo"
)

type gameOptions struct {
	level string
	debug bool
	watch bool
	bot   bool
}

type Game struct {
	world     *ecs.World
	scheduler *ecs.Scheduler
	render    *render.RenderSystem
	watcher   *prefabs.Watcher
}

func NewGame(opts gameOptions) (*Game, error) {
	w := ecs.NewWorld()

	level, err := prefabs.LoadLevelSpec(opts.level)
	if err != nil {
		return nil, err
	}
	if err := entity.BuildLevel(w, level); err != nil {
		return nil, err
	}
	for _, name := range level.Spawns {
		spec, err := prefabs.LoadActorSpec(name)
		if err != nil {
			return nil, err
		}
		if spec.Player && opts.bot {
			spec.Script = botScript
		}
		if _, err := entity.BuildActor(w, name, spec); err != nil {
			return nil, err
		}
	}
	if _, err := entity.NewCamera(w); err != nil {
		return nil, err
	}

	g := &Game{world: w, render: render.NewRenderSystem(opts.debug)}

	var changes <-chan prefabs.Change
	if opts.watch {
		watcher, err := prefabs.WatchPrefabs()
		if err != nil {
			common.Log.Warnw("prefab watcher disabled", "dir", prefabs.DiskDir, "error", err)
		} else {
			g.watcher = watcher
			changes = watcher.Events
			go logWatchErrors(watcher)
		}
	}

	scripts := system.NewScriptInputSystem()
	g.scheduler = ecs.NewScheduler(
		NewDeviceInputSystem(),
		scripts,
		system.NewPhysicsSystem(),
		system.NewMovementSystem(),
		system.NewReloadSystem(changes, scripts),
		system.NewCameraSystem(),
		system.NewEventLogSystem(),
	)

	common.Log.Infow("game ready", "level", level.Name, "actors", len(level.Spawns), "tps", ebiten.TPS())
	return g, nil
}

func logWatchErrors(w *prefabs.Watcher) {
	for err := range w.Errors {
		common.Log.Warnw("prefab watcher", "error", err)
	}
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		g.requestReloadAll()
	}

	g.scheduler.Update(g.world, time.Second/time.Duration(ebiten.TPS()))
	return nil
}

// requestReloadAll queues a reload of every actor prefab in play.
func (g *Game) requestReloadAll() {
	seen := map[string]bool{}
	ecs.ForEach(g.world, component.MovementComponent.Kind(), func(_ ecs.Entity, mv *component.Movement) {
		if mv.Spec == "" || seen[mv.Spec] {
			return
		}
		seen[mv.Spec] = true
		req := g.world.CreateEntity()
		if err := ecs.Add(g.world, req, component.ReloadRequestComponent.Kind(), &component.ReloadRequest{Spec: mv.Spec}); err != nil {
			common.Log.Errorw("queue reload", "spec", mv.Spec, "error", err)
		}
	})
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Midnightblue)
	g.render.Draw(g.world, screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}
