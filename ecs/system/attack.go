package system

import (
	"math"

	"github.com/milk9111/lightfall/common"
	"github.com/milk9111/lightfall/ecs"
	"github.com/milk9111/lightfall/ecs/component"
	"github.com/milk9111/lightfall/logger"
	"github.com/sirupsen/logrus"
)

const (
	defaultInputBuffer     = 0.2
	defaultIdleReturnGrace = 0.2
)

// AttackWindowSystem advances every AttackController: buffered input, combo
// queuing, sub-phases, hit-volume windows and attack-driven motion.
type AttackWindowSystem struct{}

func NewAttackWindowSystem() *AttackWindowSystem { return &AttackWindowSystem{} }

func (s *AttackWindowSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Clock().DT()
	ecs.ForEach(w, component.AttackControllerComponent.Kind(), func(e ecs.Entity, c *component.AttackController) {
		if ecs.Has(w, e, component.FrozenComponent.Kind()) {
			freezeController(w, e, c)
		}
		if c.Frozen {
			disableVolumes(c)
			return
		}
		c.Now += dt
		stepController(w, e, c, dt)
	})
}

func stepController(w *ecs.World, e ecs.Entity, c *component.AttackController, dt float64) {
	if c.Buffered != component.ButtonNone && c.Now-c.BufferedAt > bufferTime(c) {
		c.Buffered = component.ButtonNone
	}

	if !c.Attacking() {
		if c.Buffered == component.ButtonNone {
			return
		}
		start := c.LightStart
		if c.Buffered == component.ButtonHeavy {
			start = c.HeavyStart
		}
		c.Buffered = component.ButtonNone
		if c.ValidIndex(start) && cooldownReady(c, start) {
			startAttack(w, e, c, start)
		}
		return
	}

	def := c.Definition()
	if def == nil {
		endAttack(w, e, c)
		return
	}
	c.Elapsed += dt
	progress := swingProgress(def, c.Elapsed)
	c.Swing.Progress = progress
	c.Swing.Phase = def.PhaseAt(progress)

	if c.Buffered != component.ButtonNone {
		if progress >= def.ComboOpen && progress <= def.ComboClose {
			next := def.NextLight
			if c.Buffered == component.ButtonHeavy {
				next = def.NextHeavy
			}
			if c.ValidIndex(next) && (!c.GateCombosOnCooldown || cooldownReady(c, next)) {
				c.Queued = next
			}
		}
		c.Buffered = component.ButtonNone
	}

	if c.ValidIndex(c.Queued) && progress >= def.EarliestExit {
		next := c.Queued
		c.Queued = -1
		startAttack(w, e, c, next)
		return
	}

	// Past the end of the swing the controller only waits out the grace
	// window; motion and volumes are already settled.
	if progress > 1 {
		settleAttack(w, e, c)
		if progress > 1+idleReturnGrace(c) {
			endAttack(w, e, c)
		}
		return
	}

	toggleVolumes(c, def, progress)
	applyAttackMotion(w, e, c, def, progress, dt)
}

func swingProgress(def *component.AttackDefinition, elapsed float64) float64 {
	total := def.Duration()
	if total <= 0 {
		return math.Inf(1)
	}
	return elapsed / total
}

func startAttack(w *ecs.World, e ecs.Entity, c *component.AttackController, index int) {
	def := &c.Attacks[index]
	c.Current = index
	c.Queued = -1
	c.Elapsed = 0
	c.Swing = component.Swing{ID: w.Context().NextSwingID(), Phase: def.PhaseAt(0)}
	c.Volumes = make([]component.LiveVolume, len(def.Volumes))
	c.Moved = false
	if c.CooldownUntil == nil {
		c.CooldownUntil = make(map[component.AttackKind]float64)
	}
	c.CooldownUntil[def.Kind] = c.Now + def.Cooldown

	if def.ImpulseForward != 0 || def.ImpulseUp != 0 {
		if m, t, ok := motionOf(w, e); ok {
			m.Velocity = m.Velocity.Add(t.Forward().Scale(def.ImpulseForward)).Add(common.V3(0, def.ImpulseUp, 0))
			m.Damping = false
			c.Moved = true
		}
	}
	if def.Trigger != "" {
		w.Presenter().Animate(e, def.Trigger)
	}
	logger.Log.WithFields(logrus.Fields{"system": "attack", "entity": e.String(), "attack": def.Name, "swing": c.Swing.ID}).Debug("attack started")
	toggleVolumes(c, def, 0)
}

// endAttack returns the controller to Idle and runs the exit behavior.
func endAttack(w *ecs.World, e ecs.Entity, c *component.AttackController) {
	c.Current = -1
	c.Queued = -1
	c.Elapsed = 0
	c.Swing = component.Swing{}
	settleAttack(w, e, c)
}

// settleAttack disables every volume and stops motion the swing left behind.
func settleAttack(w *ecs.World, e ecs.Entity, c *component.AttackController) {
	disableVolumes(c)
	if c.Moved {
		exitMotion(w, e, c)
	}
}

func cancelAttack(w *ecs.World, e ecs.Entity, c *component.AttackController) {
	c.Buffered = component.ButtonNone
	if c.Attacking() {
		endAttack(w, e, c)
	}
}

func freezeController(w *ecs.World, e ecs.Entity, c *component.AttackController) {
	if c.Frozen {
		return
	}
	c.Frozen = true
	c.Buffered = component.ButtonNone
	exitMotion(w, e, c)
	disableVolumes(c)
}

func toggleVolumes(c *component.AttackController, def *component.AttackDefinition, progress float64) {
	if len(c.Volumes) != len(def.Volumes) {
		c.Volumes = make([]component.LiveVolume, len(def.Volumes))
	}
	for i := range def.Volumes {
		start, end := def.VolumeWindow(i)
		inside := progress >= start && progress <= end
		lv := &c.Volumes[i]
		switch {
		case inside && !lv.Enabled:
			lv.Enabled = true
			lv.SwingID = c.Swing.ID
		case !inside:
			lv.Enabled = false
		}
	}
}

func disableVolumes(c *component.AttackController) {
	for i := range c.Volumes {
		c.Volumes[i].Enabled = false
	}
}

func applyAttackMotion(w *ecs.World, e ecs.Entity, c *component.AttackController, def *component.AttackDefinition, progress, dt float64) {
	if len(def.Motion) == 0 {
		return
	}
	m, t, ok := motionOf(w, e)
	if !ok {
		return
	}
	speed := math.Max(0, def.Motion.Eval(math.Min(progress, 1))) * def.MotionScale
	desired := t.Forward().Scale(speed)
	switch def.MotionMode {
	case component.MotionAddPlanar:
		m.Velocity = m.Velocity.Add(desired.Scale(dt))
	default:
		m.Velocity.X = desired.X
		m.Velocity.Z = desired.Z
	}
	m.Damping = false
	c.Moved = true
}

// exitMotion hard-stops or damps the planar velocity an attack left behind.
func exitMotion(w *ecs.World, e ecs.Entity, c *component.AttackController) {
	m, _, ok := motionOf(w, e)
	if !ok {
		return
	}
	if c.ExitDampTime <= 0 {
		m.Velocity.X = 0
		m.Velocity.Z = 0
		m.Damping = false
	} else {
		m.DampTime = c.ExitDampTime
		m.Damping = true
	}
	c.Moved = false
}

func motionOf(w *ecs.World, e ecs.Entity) (*component.Motion, *component.Transform, bool) {
	m, ok := ecs.Get(w, e, component.MotionComponent.Kind())
	if !ok {
		return nil, nil, false
	}
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return nil, nil, false
	}
	return m, t, true
}

func cooldownReady(c *component.AttackController, index int) bool {
	if !c.ValidIndex(index) {
		return false
	}
	return c.Now >= c.CooldownUntil[c.Attacks[index].Kind]
}

func bufferTime(c *component.AttackController) float64 {
	if c.InputBufferTime <= 0 {
		return defaultInputBuffer
	}
	return c.InputBufferTime
}

func idleReturnGrace(c *component.AttackController) float64 {
	if c.IdleReturnGrace < 0 {
		return 0
	}
	if c.IdleReturnGrace == 0 {
		return defaultIdleReturnGrace
	}
	return c.IdleReturnGrace
}

// BufferInput remembers an attack button for the controller's buffer window.
// Frozen controllers ignore input.
func BufferInput(w *ecs.World, e ecs.Entity, b component.Button) {
	c, ok := ecs.Get(w, e, component.AttackControllerComponent.Kind())
	if !ok || c.Frozen || b == component.ButtonNone {
		return
	}
	c.Buffered = b
	c.BufferedAt = c.Now
}

// RequestAttack starts attack index immediately, bypassing the buffer. It
// fails while another attack is running, while frozen, or on cooldown.
func RequestAttack(w *ecs.World, e ecs.Entity, index int) bool {
	c, ok := ecs.Get(w, e, component.AttackControllerComponent.Kind())
	if !ok || c.Frozen || c.Attacking() || !c.ValidIndex(index) || !cooldownReady(c, index) {
		return false
	}
	startAttack(w, e, c, index)
	return true
}

// CancelAttack stops the running attack and drops any buffered input.
func CancelAttack(w *ecs.World, e ecs.Entity) {
	if c, ok := ecs.Get(w, e, component.AttackControllerComponent.Kind()); ok {
		cancelAttack(w, e, c)
	}
}

// FreezeAttacks suspends e's controller in place. Calling it twice is a no-op.
func FreezeAttacks(w *ecs.World, e ecs.Entity) {
	if c, ok := ecs.Get(w, e, component.AttackControllerComponent.Kind()); ok {
		freezeController(w, e, c)
	}
}

// UnfreezeAttacks resumes a frozen controller where it stopped.
func UnfreezeAttacks(w *ecs.World, e ecs.Entity) {
	if c, ok := ecs.Get(w, e, component.AttackControllerComponent.Kind()); ok {
		c.Frozen = false
	}
}

// AttackPhaseOf returns the running attack's sub-phase, or AttackIdle.
func AttackPhaseOf(w *ecs.World, e ecs.Entity) component.AttackPhase {
	c, ok := ecs.Get(w, e, component.AttackControllerComponent.Kind())
	if !ok || !c.Attacking() {
		return component.AttackIdle
	}
	return c.Swing.Phase
}
