package system

import (
	"github.com/milk9111/lightfall/ecs"
	"github.com/milk9111/lightfall/ecs/component"
)

// KillCreditSystem arms spawned actors after their delay and counts this
// frame's valid deaths into every registered kill tracker.
type KillCreditSystem struct{}

func NewKillCreditSystem() *KillCreditSystem { return &KillCreditSystem{} }

func (s *KillCreditSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	now := w.Clock().UnscaledTime()
	ecs.ForEach(w, component.KillCreditComponent.Kind(), func(_ ecs.Entity, kc *component.KillCredit) {
		if !kc.Armed && now-kc.SpawnedAt >= kc.ArmDelay {
			kc.Armed = true
		}
	})

	trackers := w.Context().KillTrackers()
	if len(trackers) == 0 {
		return
	}
	for _, d := range w.Events().Deaths() {
		kc, ok := ecs.Get(w, d.Entity, component.KillCreditComponent.Kind())
		if !ok || !kc.Armed {
			continue
		}
		for _, t := range trackers {
			if d.Entity == t.Designated || now < t.EnableAt {
				continue
			}
			t.Kills++
		}
	}
}
