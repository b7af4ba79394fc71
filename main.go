package main

import (
	"errors"
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/platformer/common"
)

func main() {
	debug := flag.Bool("debug", false, "draw contact normals and controller state, log at debug level")
	logPath := flag.String("log", "", "also write JSON logs to this file")
	watch := flag.Bool("watch", false, "reload prefabs from disk when they change")
	bot := flag.Bool("bot", false, "let the patrol script drive the player")
	levelName := flag.String("level", "level.yaml", "level prefab to load")
	flag.Parse()

	if err := common.InitLogger(*logPath, *debug); err != nil {
		log.Fatal(err)
	}
	defer common.SyncLogger()

	game, err := NewGame(gameOptions{
		level: *levelName,
		debug: *debug,
		watch: *watch,
		bot:   *bot,
	})
	if err != nil {
		common.Log.Fatalw("start game", "error", err)
	}
	defer game.Close()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("platformer")

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		common.Log.Errorw("game exited", "error", err)
	}
}
