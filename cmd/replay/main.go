// Command replay runs a level headlessly at a fixed step, with every actor
// driven by a tengo input script, and logs what the movement controllers do.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/milk9111/platformer/common"
)

func main() {
	opts := options{}
	flag.StringVar(&opts.level, "level", "level.yaml", "level prefab to load")
	flag.IntVar(&opts.ticks, "ticks", 600, "number of ticks to simulate")
	flag.IntVar(&opts.tps, "tps", 60, "ticks per simulated second")
	flag.StringVar(&opts.actor, "actor", "player.yaml", "actor prefab to drive with -script")
	flag.StringVar(&opts.script, "script", "hop.tengo", "input script for -actor")
	flag.IntVar(&opts.every, "every", 30, "log actor state every N ticks (0 disables)")
	logPath := flag.String("log", "", "also write JSON logs to this file")
	debug := flag.Bool("debug", false, "log at debug level")
	flag.Parse()

	if err := common.InitLogger(*logPath, *debug); err != nil {
		log.Fatal(err)
	}
	defer common.SyncLogger()

	summary, err := run(opts)
	if err != nil {
		common.Log.Errorw("replay failed", "error", err)
		common.SyncLogger()
		os.Exit(1)
	}

	fmt.Printf("ticks=%d simulated=%v jumps=%d (grounded=%d coyote=%d buffered=%d)\n",
		summary.Ticks, summary.Simulated.Round(time.Millisecond), summary.TotalJumps,
		summary.Grounded, summary.Coyote, summary.Buffered)
	for _, a := range summary.Actors {
		fmt.Printf("%-12s x=%8.2f y=%8.2f floor=%v right=%v\n", a.Spec, a.X, a.Y, a.OnFloor, a.LookingRight)
	}
}
