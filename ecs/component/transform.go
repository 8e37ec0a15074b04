package component

import "github.com/milk9111/lightfall/common"

// Transform is an actor's world position and facing. Yaw is in degrees; 90
// faces +X.
type Transform struct {
	Position common.Vec3
	Yaw      float64
}

func (t *Transform) Forward() common.Vec3 {
	return common.Forward(t.Yaw)
}

var TransformComponent = NewComponent[Transform]()

// Motion is velocity integrated into the transform once per frame on the
// scaled clock.
type Motion struct {
	Velocity common.Vec3
	// DampTime > 0 exponentially damps planar velocity toward zero with that
	// time constant until it becomes negligible.
	DampTime float64
	Damping  bool
	// LockY pins the actor's height, as the boss does.
	LockY  bool
	LockYV float64
	// Gravity pulls Y velocity down until the actor rests on FloorY.
	Gravity float64
	FloorY  float64
}

var MotionComponent = NewComponent[Motion]()
