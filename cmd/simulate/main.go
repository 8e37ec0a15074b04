// Command simulate runs a level headless with an autopilot player and logs
// what happens.
package main

import (
	"flag"
	"time"

	"github.com/milk9111/lightfall/ecs"
	"github.com/milk9111/lightfall/ecs/component"
	"github.com/milk9111/lightfall/ecs/system"
	"github.com/milk9111/lightfall/logger"
	"github.com/milk9111/lightfall/scene"
	"github.com/sirupsen/logrus"
)

func main() {
	levelName := flag.String("level", "arena", "level name in prefabs/levels (basename, .yaml optional)")
	seconds := flag.Float64("seconds", 180, "simulated seconds to run before giving up")
	seed := flag.Uint64("seed", 0, "world seed; 0 uses the level's seed")
	prefabDir := flag.String("prefabs", "prefabs", "directory searched for prefabs before the embedded copies")
	watch := flag.Bool("watch", false, "hot reload prefabs while running; paces the run in real time")
	fps := flag.Int("fps", 60, "fixed simulation rate")
	logLevel := flag.String("log-level", "", "log level (debug, info, warn); defaults to LOG_LEVEL")
	logFormat := flag.String("log-format", "", "log format (text, json); defaults to LOG_FORMAT")
	flag.Parse()

	logger.Init(*logLevel, *logFormat)
	if *fps <= 0 {
		logger.Log.Fatalf("fps must be positive, got %d", *fps)
	}

	pilotSeed := *seed
	if pilotSeed == 0 {
		pilotSeed = 1
	}
	session, err := scene.New(scene.Config{
		Level:     *levelName,
		Seed:      *seed,
		PrefabDir: *prefabDir,
		Watch:     *watch,
		Presenter: &system.LogPresenter{},
		Input:     scene.NewAutopilot(pilotSeed),
	})
	if err != nil {
		logger.Log.Fatalf("failed to start %s: %v", *levelName, err)
	}
	defer session.Close()

	dt := 1.0 / float64(*fps)
	var ticker *time.Ticker
	if *watch {
		ticker = time.NewTicker(time.Duration(dt * float64(time.Second)))
		defer ticker.Stop()
	}

	frames := 0
	for elapsed := 0.0; elapsed < *seconds && session.Finished == ""; elapsed += dt {
		if ticker != nil {
			<-ticker.C
		}
		if err := session.Step(dt); err != nil {
			logger.Log.Fatalf("scene change failed: %v", err)
		}
		frames++
	}

	report(session, frames)
}

func report(s *scene.Session, frames int) {
	w := s.World
	fields := logrus.Fields{
		"frames":   frames,
		"loads":    s.Loads(),
		"finished": s.Finished,
		"time":     w.Clock().Time(),
		"kills":    s.Pipeline.Climax.Kills(),
	}
	if boss, ok := ecs.First(w, component.BossTagComponent.Kind()); ok {
		phase, _ := system.EncounterPhaseOf(w, boss)
		fields["phase"] = phase.String()
		fields["boss_hp"] = system.HP(w, boss)
	}
	if player, _, ok := system.FindPlayer(w); ok {
		fields["player_hp"] = system.HP(w, player)
	}
	logger.Log.WithFields(fields).Info("simulation over")
}
