// Package scene owns one running level: its world, spatial index, actor
// factory and optional prefab watcher. Hosts drive it with Step and draw
// from World.
package scene

import (
	"fmt"

	"github.com/milk9111/lightfall/ecs"
	"github.com/milk9111/lightfall/ecs/entity"
	"github.com/milk9111/lightfall/ecs/system"
	"github.com/milk9111/lightfall/logger"
	"github.com/milk9111/lightfall/prefabs"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Level string
	// Seed overrides the level's seed when non-zero.
	Seed      uint64
	PrefabDir string
	Watch     bool
	Presenter ecs.Presenter
	Input     system.InputSource
}

type Session struct {
	cfg Config

	World    *ecs.World
	Spatial  *ecs.SpatialWorld
	Pipeline *system.Pipeline
	Factory  *entity.Factory
	Level    prefabs.LevelSpec

	watcher *prefabs.Watcher
	pending string
	// Finished is set when a scene change names something that is not a
	// level, such as the credits after the boss.
	Finished string
	loads    int
}

// New loads cfg.Level and starts watching the prefab directory if asked to.
func New(cfg Config) (*Session, error) {
	if cfg.PrefabDir != "" {
		prefabs.SetDir(cfg.PrefabDir)
	}
	if cfg.Presenter == nil {
		cfg.Presenter = ecs.NopPresenter{}
	}
	s := &Session{cfg: cfg}
	if err := s.load(cfg.Level); err != nil {
		return nil, err
	}
	if cfg.Watch {
		w, err := prefabs.WatchPrefabDir(prefabs.Dir(), 0)
		if err != nil {
			return nil, fmt.Errorf("scene: watch %s: %w", prefabs.Dir(), err)
		}
		s.watcher = w
		s.World.AddSystem(system.NewReloadSystem(w.Events, s.Factory))
	}
	return s, nil
}

func (s *Session) load(name string) error {
	level, err := prefabs.LoadLevel(name)
	if err != nil {
		return err
	}
	factory, err := entity.NewFactory(level.Prefabs...)
	if err != nil {
		return err
	}

	w := ecs.NewWorld()
	seed := level.Seed
	if s.cfg.Seed != 0 {
		seed = s.cfg.Seed
	}
	w.Seed(seed + uint64(s.loads))
	w.SetFactory(factory)
	w.SetPresenter(&scenePresenter{Presenter: s.cfg.Presenter, session: s})

	spatial := ecs.NewSpatialWorld()
	pipeline := system.Install(w, spatial, s.cfg.Input)
	if _, err := entity.LoadLevel(w, factory, level); err != nil {
		return err
	}
	spatial.Sync(w)

	s.World, s.Spatial, s.Pipeline, s.Factory, s.Level = w, spatial, pipeline, factory, level
	if s.watcher != nil {
		w.AddSystem(system.NewReloadSystem(s.watcher.Events, factory))
	}
	s.loads++
	logger.Log.WithFields(logrus.Fields{"scene": level.Name, "actors": len(level.Actors), "seed": seed}).Info("level loaded")
	return nil
}

// Step advances the world by dt real seconds, then applies any scene change
// requested during the frame.
func (s *Session) Step(dt float64) error {
	if s.Finished != "" {
		return nil
	}
	s.World.Update(dt)
	if s.pending == "" {
		return nil
	}
	next := s.pending
	s.pending = ""
	if _, err := prefabs.LoadLevel(next); err != nil {
		s.Finished = next
		logger.Log.WithField("scene", next).Info("session finished")
		return nil
	}
	return s.load(next)
}

// Loads counts how many times a level was (re)loaded.
func (s *Session) Loads() int { return s.loads }

func (s *Session) Close() error {
	if s.watcher == nil {
		return nil
	}
	return s.watcher.Close()
}

// scenePresenter forwards to the host and turns LoadScene into a deferred
// scene change. An empty name restarts the current level.
type scenePresenter struct {
	ecs.Presenter
	session *Session
}

func (p *scenePresenter) LoadScene(name string) {
	if name == "" {
		name = p.session.Level.Name
	}
	p.Presenter.LoadScene(name)
	if p.session.pending == "" {
		p.session.pending = name
	}
}
