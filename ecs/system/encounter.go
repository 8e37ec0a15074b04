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
	defaultFirstAttack = 0.5
	faceArriveDegrees  = 0.5
)

// EncounterSystem drives the boss: the per-phase combat tick, the HP-gated
// phase machine, the P2/P4 intermission step lists, the return to the player
// after an intermission, and the P5 spawn pulses. Death is handled by the
// ClimaxSystem.
type EncounterSystem struct{}

func NewEncounterSystem() *EncounterSystem { return &EncounterSystem{} }

func (s *EncounterSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Clock().DT()
	_, pt, hasPlayer := FindPlayer(w)

	ecs.ForEach2(w, component.EncounterComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, enc *component.Encounter, t *component.Transform) {
		r := &enc.Runtime
		if r.Phase == component.PhaseDead || behaviorBlocked(w, e) {
			return
		}
		r.Now += dt
		if !r.Started {
			s.start(e, enc, t)
		}

		if r.Phase == component.PhaseP5 {
			s.tickPulses(w, enc)
		}
		if r.IntermissionActive {
			s.tickIntermission(w, e, enc, t, dt)
			return
		}
		if r.Returning {
			if hasPlayer {
				s.tickReturn(e, enc, t, pt.Position, dt)
			}
			return
		}

		s.checkPhase(w, e, enc)
		if !r.ActivePhase() || !hasPlayer {
			return
		}
		s.tickCombat(w, e, enc, t, pt.Position, dt)
	})
}

func (s *EncounterSystem) start(e ecs.Entity, enc *component.Encounter, t *component.Transform) {
	r := &enc.Runtime
	r.Started = true
	r.Phase = component.PhaseP1
	r.StartPos = t.Position
	r.StartYaw = t.Yaw
	r.NextAttackAt = r.Now + firstAttack(enc)
	logger.Log.WithFields(logrus.Fields{"system": "encounter", "entity": e.String()}).Info("encounter started")
}

// checkPhase reads the boss's HP after last frame's damage and moves the
// phase machine forward.
func (s *EncounterSystem) checkPhase(w *ecs.World, e ecs.Entity, enc *component.Encounter) {
	r := &enc.Runtime
	hp := HPPercent(w, e)
	switch r.Phase {
	case component.PhaseP1:
		if !r.P2Done && hp <= enc.P2Threshold {
			s.startIntermission(w, e, enc, component.PhaseP2)
		}
	case component.PhaseP3:
		switch {
		case !r.P4Done && hp <= enc.P4Threshold:
			s.startIntermission(w, e, enc, component.PhaseP4)
		case r.P4Done && hp <= enc.P5Threshold:
			s.enterPhase(w, e, enc, component.PhaseP5)
		}
	}
}

// startIntermission takes the intermission lock and queues the step list.
// A finished or running intermission is never started again.
func (s *EncounterSystem) startIntermission(w *ecs.World, e ecs.Entity, enc *component.Encounter, phase component.EncounterPhase) {
	r := &enc.Runtime
	if r.IntermissionActive {
		return
	}
	if (phase == component.PhaseP2 && r.P2Done) || (phase == component.PhaseP4 && r.P4Done) {
		return
	}
	CancelAttack(w, e)
	r.Attacking = false
	if m, ok := ecs.Get(w, e, component.MotionComponent.Kind()); ok {
		m.Velocity = common.Vec3{}
		m.Damping = false
	}

	r.IntermissionActive = true
	r.Intermission = phase
	r.Steps = intermissionSteps(enc, phase)
	r.StepIndex = 0
	r.StepElapsed = 0
	s.enterPhase(w, e, enc, phase)
}

func intermissionSteps(enc *component.Encounter, phase component.EncounterPhase) []component.IntermissionStep {
	waves, gate := enc.P2Waves, enc.P2Gate
	if phase == component.PhaseP4 {
		waves, gate = enc.P4Waves, enc.P4Gate
	}

	steps := []component.IntermissionStep{
		{Kind: component.StepMove, Target: enc.PosePoint},
		{Kind: component.StepFace, Yaw: enc.PoseYaw},
	}
	if enc.Taunt != "" {
		steps = append(steps, component.IntermissionStep{Kind: component.StepTaunt, Trigger: enc.Taunt})
	}
	if enc.Hold > 0 {
		steps = append(steps, component.IntermissionStep{Kind: component.StepWait, Seconds: enc.Hold})
	}
	for i := 0; i < waves.Waves; i++ {
		steps = append(steps, component.IntermissionStep{Kind: component.StepWave, Wave: waves})
		if i < waves.Waves-1 && waves.Gap > 0 {
			steps = append(steps, component.IntermissionStep{Kind: component.StepWait, Seconds: waves.Gap})
		}
	}
	if gate > 0 {
		steps = append(steps, component.IntermissionStep{Kind: component.StepWait, Seconds: gate})
	}
	return append(steps,
		component.IntermissionStep{Kind: component.StepFace, Yaw: enc.Runtime.StartYaw},
		component.IntermissionStep{Kind: component.StepMove, Target: enc.Runtime.StartPos},
	)
}

// tickIntermission runs the current step and chains every step that
// completes without needing time.
func (s *EncounterSystem) tickIntermission(w *ecs.World, e ecs.Entity, enc *component.Encounter, t *component.Transform, dt float64) {
	r := &enc.Runtime
	for r.StepIndex < len(r.Steps) {
		r.StepElapsed += dt
		if !s.runStep(w, e, enc, t, &r.Steps[r.StepIndex], dt) {
			return
		}
		r.StepIndex++
		r.StepElapsed = 0
		dt = 0
	}
	s.finishIntermission(w, e, enc)
}

func (s *EncounterSystem) runStep(w *ecs.World, e ecs.Entity, enc *component.Encounter, t *component.Transform, step *component.IntermissionStep, dt float64) bool {
	switch step.Kind {
	case component.StepMove:
		if enc.TravelSpeed <= 0 {
			t.Position.X, t.Position.Z = step.Target.X, step.Target.Z
			return true
		}
		return stepPlanar(t, step.Target, enc.TravelSpeed, dt) <= enc.ArriveDist
	case component.StepFace:
		if enc.TurnSpeed <= 0 {
			t.Yaw = step.Yaw
			return true
		}
		t.Yaw = common.MoveTowardsAngle(t.Yaw, step.Yaw, enc.TurnSpeed*dt)
		return math.Abs(common.DeltaAngle(t.Yaw, step.Yaw)) <= faceArriveDegrees
	case component.StepTaunt:
		w.Presenter().Animate(e, step.Trigger)
		return true
	case component.StepWait:
		return enc.Runtime.StepElapsed >= step.Seconds
	case component.StepWave:
		spawnEncounterWave(w, enc, step.Wave, step.Wave.PerWave)
		return true
	}
	return true
}

func (s *EncounterSystem) finishIntermission(w *ecs.World, e ecs.Entity, enc *component.Encounter) {
	r := &enc.Runtime
	finished := r.Intermission
	r.IntermissionActive = false
	r.Steps = nil
	r.StepIndex = 0
	r.StepElapsed = 0

	next := component.PhaseP3
	switch finished {
	case component.PhaseP2:
		r.P2Done = true
	case component.PhaseP4:
		r.P4Done = true
		if HPPercent(w, e) <= enc.P5Threshold {
			next = component.PhaseP5
		}
	}
	logger.Log.WithFields(logrus.Fields{"system": "encounter", "entity": e.String(), "intermission": finished.String()}).Info("intermission finished")
	s.enterPhase(w, e, enc, next)
}

func (s *EncounterSystem) enterPhase(w *ecs.World, e ecs.Entity, enc *component.Encounter, next component.EncounterPhase) {
	r := &enc.Runtime
	from := r.Phase
	r.Phase = next
	w.Events().Push(ecs.Event{Type: ecs.EventPhase, Data: ecs.PhaseEvent{Entity: e, From: from.String(), To: next.String()}})
	logger.Log.WithFields(logrus.Fields{"system": "encounter", "entity": e.String(), "from": from.String(), "to": next.String()}).Info("phase change")

	switch next {
	case component.PhaseP3, component.PhaseP5:
		CancelAttack(w, e)
		r.Attacking = false
		r.NextAttackAt = r.Now + firstAttack(enc)
		r.LastWasLight = false
		r.Returning = true
		r.ReturnElapsed = 0
	}
	if next == component.PhaseP5 {
		r.NextGroundPulse = r.Now
		r.NextFlyingPulse = r.Now
	}
}

// tickReturn walks the boss back along X to its offset from the player and
// snaps there once the return has taken too long.
func (s *EncounterSystem) tickReturn(e ecs.Entity, enc *component.Encounter, t *component.Transform, player common.Vec3, dt float64) {
	r := &enc.Runtime
	r.ReturnElapsed += dt
	target := player.X + enc.ReturnXOffset
	if dx := target - t.Position.X; dx != 0 {
		t.Yaw = math.Copysign(90, dx)
	}
	t.Position.X = common.MoveTowards(t.Position.X, target, enc.ReturnSpeed*dt)

	arrived := math.Abs(target-t.Position.X) <= enc.ReturnArrive
	if !arrived && enc.ReturnMaxTime > 0 && r.ReturnElapsed >= enc.ReturnMaxTime {
		t.Position.X = target
		arrived = true
		logger.Log.WithFields(logrus.Fields{"system": "encounter", "entity": e.String()}).Debug("return timed out; snapped to target")
	}
	if arrived {
		r.Returning = false
		r.ReturnElapsed = 0
	}
}

// tickCombat is the normal phase behavior: close in along X and attack on
// the phase interval once the shared cooldown allows.
func (s *EncounterSystem) tickCombat(w *ecs.World, e ecs.Entity, enc *component.Encounter, t *component.Transform, player common.Vec3, dt float64) {
	r := &enc.Runtime
	slot := phaseSlot(r.Phase)

	attacking := false
	if c, ok := ecs.Get(w, e, component.AttackControllerComponent.Kind()); ok {
		attacking = c.Attacking()
	}
	if r.Attacking && !attacking {
		r.Attacking = false
		r.AttackCDUntil = r.Now + s.lastCooldown(enc)
	}
	if attacking {
		return
	}

	dx := player.X - t.Position.X
	if dx != 0 {
		t.Yaw = math.Copysign(90, dx)
	}
	if gap := math.Abs(dx) - enc.Light.Range; gap > 0 {
		t.Position.X += math.Copysign(math.Min(enc.MoveSpeed[slot]*dt, gap), dx)
	}
	t.Position.Y = enc.LockY

	if r.Now < math.Max(r.NextAttackAt, r.AttackCDUntil) {
		return
	}
	useLight := r.Phase == component.PhaseP1 || !r.LastWasLight
	pick := enc.Heavy
	if useLight {
		pick = enc.Light
	}
	if !RequestAttack(w, e, pick.Attack) {
		return
	}
	r.Attacking = true
	if r.Phase != component.PhaseP1 {
		r.LastWasLight = useLight
	}
	r.NextAttackAt = r.Now + enc.AttackInterval[slot]
}

// lastCooldown is the cooldown of the attack that just ended; LastWasLight
// tracks it in the alternating phases and P1 only uses the light attack.
func (s *EncounterSystem) lastCooldown(enc *component.Encounter) float64 {
	cd := enc.Heavy.Cooldown
	if enc.Runtime.Phase == component.PhaseP1 || enc.Runtime.LastWasLight {
		cd = enc.Light.Cooldown
	}
	if cd > 0 {
		return cd
	}
	return enc.AttackCooldown
}

func (s *EncounterSystem) tickPulses(w *ecs.World, enc *component.Encounter) {
	r := &enc.Runtime
	if enc.P5GroundCount > 0 && r.Now >= r.NextGroundPulse {
		r.NextGroundPulse = r.Now + math.Max(0.05, enc.P5GroundInterval)
		spawnEncounterWave(w, enc, component.WaveSpec{Kind: enc.GroundKind}, enc.P5GroundCount)
	}
	if enc.P5FlyingCount > 0 && r.Now >= r.NextFlyingPulse {
		r.NextFlyingPulse = r.Now + math.Max(0.05, enc.P5FlyingInterval)
		spawnEncounterWave(w, enc, component.WaveSpec{Kind: enc.FlyingKind, Flying: true}, enc.P5FlyingCount)
	}
}

// spawnEncounterWave spawns count actors of the wave's kind into the
// encounter's ground boxes or flying span. Only finale spawns carry kill
// credit, so these never count toward the climax.
func spawnEncounterWave(w *ecs.World, enc *component.Encounter, wave component.WaveSpec, count int) []ecs.Entity {
	kind := wave.Kind
	area := groundArea(enc)
	if wave.Flying {
		area = flyingArea(enc)
		if kind == "" {
			kind = enc.FlyingKind
		}
	} else if kind == "" {
		kind = enc.GroundKind
	}
	return SpawnWave(w, count, area, component.SpawnOptions{Kind: kind})
}

func groundArea(enc *component.Encounter) component.SpawnArea {
	return component.SpawnArea{Kind: component.SpawnBoxes, A: enc.GroundA, B: enc.GroundB}
}

func flyingArea(enc *component.Encounter) component.SpawnArea {
	return component.SpawnArea{
		Kind:  component.SpawnSpan,
		XSpan: enc.FlySpanX,
		Y:     enc.FlyY,
		ZBase: enc.FlyZBase,
		ZSpan: enc.FlySpanZ,
	}
}

func phaseSlot(p component.EncounterPhase) int {
	switch p {
	case component.PhaseP3:
		return 1
	case component.PhaseP5:
		return 2
	}
	return 0
}

func firstAttack(enc *component.Encounter) float64 {
	if enc.FirstAttack > 0 {
		return enc.FirstAttack
	}
	return defaultFirstAttack
}

// EncounterPhaseOf returns e's current encounter phase.
func EncounterPhaseOf(w *ecs.World, e ecs.Entity) (component.EncounterPhase, bool) {
	enc, ok := ecs.Get(w, e, component.EncounterComponent.Kind())
	if !ok {
		return 0, false
	}
	return enc.Runtime.Phase, true
}
