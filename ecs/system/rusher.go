package system

import (
	"github.com/milk9111/lightfall/common"
	"github.com/milk9111/lightfall/ecs"
	"github.com/milk9111/lightfall/ecs/component"
)

// RusherSystem walks finale spawns straight at the player's planar position.
type RusherSystem struct{}

func NewRusherSystem() *RusherSystem { return &RusherSystem{} }

func (s *RusherSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	_, pt, ok := FindPlayer(w)
	if !ok {
		return
	}
	dt := w.Clock().DT()
	ecs.ForEach2(w, component.RusherComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, r *component.Rusher, t *component.Transform) {
		if behaviorBlocked(w, e) {
			return
		}
		target := common.V3(pt.Position.X, t.Position.Y, pt.Position.Z)
		faceTowards(t, target, 0, dt)
		t.Position = common.MoveTowardsVec(t.Position, target, r.Speed*dt)
	})
}
