package system

import (
	"math"

	"github.com/milk9111/lightfall/common"
	"github.com/milk9111/lightfall/ecs"
	"github.com/milk9111/lightfall/ecs/component"
)

const dampStopSpeed = 1e-3

// MotionSystem integrates velocities into transforms on the scaled clock and
// runs exit damping.
type MotionSystem struct{}

func NewMotionSystem() *MotionSystem { return &MotionSystem{} }

func (s *MotionSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Clock().DT()
	ecs.ForEach2(w, component.MotionComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, m *component.Motion, t *component.Transform) {
		if ecs.Has(w, e, component.FrozenComponent.Kind()) {
			m.Velocity = common.Vec3{}
			m.Damping = false
			return
		}
		if m.Damping {
			k := common.ExpDecay(m.DampTime, dt)
			m.Velocity.X *= k
			m.Velocity.Z *= k
			if m.Velocity.PlanarLen() < dampStopSpeed {
				m.Velocity.X, m.Velocity.Z = 0, 0
				m.Damping = false
			}
		}
		if m.Gravity > 0 && !m.LockY {
			m.Velocity.Y -= m.Gravity * dt
		}

		t.Position = t.Position.Add(m.Velocity.Scale(dt))

		switch {
		case m.LockY:
			t.Position.Y = m.LockYV
			m.Velocity.Y = 0
		case m.Gravity > 0 && t.Position.Y < m.FloorY:
			t.Position.Y = m.FloorY
			m.Velocity.Y = math.Max(0, m.Velocity.Y)
		}
	})
}
