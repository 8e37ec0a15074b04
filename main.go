package main

import (
	"errors"
	"flag"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/lightfall/logger"
)

func main() {
	debug := flag.Bool("debug", false, "draw hit volumes and hurtboxes")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	levelName := flag.String("level", "arena", "level name in prefabs/levels (basename, .yaml optional)")
	seed := flag.Uint64("seed", 0, "world seed; 0 uses the level's seed")
	prefabDir := flag.String("prefabs", "prefabs", "directory searched for prefabs before the embedded copies")
	watch := flag.Bool("watch", false, "hot reload prefabs from disk")
	logLevel := flag.String("log-level", "", "log level (debug, info, warn); defaults to LOG_LEVEL")
	flag.Parse()

	logger.Init(*logLevel, "")

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("lightfall")
	ebiten.SetTPS(tps)

	game, err := NewGame(Options{
		Level:     *levelName,
		Seed:      *seed,
		PrefabDir: *prefabDir,
		Watch:     *watch,
		Debug:     *debug,
	})
	if err != nil {
		logger.Log.Fatalf("failed to start: %v", err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Log.Fatal(err)
	}
}
