package system

import (
	"github.com/milk9111/lightfall/ecs"
	"github.com/milk9111/lightfall/logger"
)

// Reloader re-reads tuning from disk. entity.Factory implements it.
type Reloader interface {
	Reload() error
}

// ReloadSystem drains change notifications from a prefab watcher without
// blocking and reloads the factory once per frame that saw any.
type ReloadSystem struct {
	changes <-chan string
	target  Reloader
}

func NewReloadSystem(changes <-chan string, target Reloader) *ReloadSystem {
	return &ReloadSystem{changes: changes, target: target}
}

func (s *ReloadSystem) Update(w *ecs.World) {
	if s.changes == nil || s.target == nil {
		return
	}
	var changed []string
drain:
	for {
		select {
		case name, ok := <-s.changes:
			if !ok {
				s.changes = nil
				break drain
			}
			changed = append(changed, name)
		default:
			break drain
		}
	}
	if len(changed) == 0 {
		return
	}
	log := logger.Log.WithField("system", "reload").WithField("files", changed)
	if err := s.target.Reload(); err != nil {
		log.WithError(err).Warn("prefab reload failed; keeping previous tuning")
		return
	}
	log.Info("prefabs reloaded")
}
