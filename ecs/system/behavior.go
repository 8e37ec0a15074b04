package system

import (
	"github.com/milk9111/lightfall/common"
	"github.com/milk9111/lightfall/ecs"
	"github.com/milk9111/lightfall/ecs/component"
)

// behaviorBlocked reports whether an actor's FSM must not run this frame.
func behaviorBlocked(w *ecs.World, e ecs.Entity) bool {
	return IsDead(w, e) || ecs.Has(w, e, component.FrozenComponent.Kind())
}

// faceTowards turns t toward target on the XZ plane at turnSpeed deg/s; a
// zero speed snaps.
func faceTowards(t *component.Transform, target common.Vec3, turnSpeed, dt float64) {
	dir := target.Sub(t.Position).Planar()
	if dir.PlanarLen() < 1e-6 {
		return
	}
	want := common.YawTo(dir)
	if turnSpeed <= 0 {
		t.Yaw = want
		return
	}
	t.Yaw = common.MoveTowardsAngle(t.Yaw, want, turnSpeed*dt)
}

// stepPlanar moves t toward target on the XZ plane by at most speed*dt and
// returns the remaining planar distance.
func stepPlanar(t *component.Transform, target common.Vec3, speed, dt float64) float64 {
	goal := common.V3(target.X, t.Position.Y, target.Z)
	t.Position = common.MoveTowardsVec(t.Position, goal, speed*dt)
	return common.PlanarDistance(t.Position, target)
}

// bossAlive reports whether a live boss-tagged actor exists.
func bossAlive(w *ecs.World) bool {
	found := false
	ecs.ForEach(w, component.BossTagComponent.Kind(), func(e ecs.Entity, _ *component.BossTag) {
		if !IsDead(w, e) {
			found = true
		}
	})
	return found
}
