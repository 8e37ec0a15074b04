package system

import (
	"math"
	"math/rand/v2"

	"github.com/milk9111/lightfall/common"
	"github.com/milk9111/lightfall/ecs"
	"github.com/milk9111/lightfall/ecs/component"
	"github.com/milk9111/lightfall/logger"
	"github.com/sirupsen/logrus"
)

const (
	minSlowmoWindow = 0.1
	lungeApexLift   = 0.25
)

// StalkerSystem runs the single-slot stalker: appear near the player, chase,
// lunge into a slow-motion execution window, then either vanish or possess.
type StalkerSystem struct{}

func NewStalkerSystem() *StalkerSystem { return &StalkerSystem{} }

func (s *StalkerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	player, pt, hasPlayer := FindPlayer(w)
	clock := w.Clock()
	dt, udt := clock.DT(), clock.UnscaledDT()

	var in component.Input
	if hasPlayer {
		if pi, ok := ecs.Get(w, player, component.InputComponent.Kind()); ok {
			in = *pi
		}
	}

	ecs.ForEach2(w, component.StalkerComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, st *component.Stalker, t *component.Transform) {
		if behaviorBlocked(w, e) {
			s.deactivate(w, e, st)
			return
		}
		if st.Rand == nil {
			st.Rand = rand.New(rand.NewPCG(uint64(e), 0x57a1))
		}
		if st.AI.Current == "" {
			st.AI.Enter(component.StalkerInactive)
		}
		if !hasPlayer {
			return
		}
		st.AI.Tick(dt, udt)

		switch st.AI.Current {
		case component.StalkerInactive:
			if st.AutoActivate && w.Context().ClaimStalkerSlot(w, e) {
				s.spawn(w, e, st, t, pt)
			}

		case component.StalkerSpawning:
			st.Alpha = fadeProgress(st.AI.Elapsed, st.FadeTime)
			if st.Alpha >= 1 {
				s.enter(e, st, component.StalkerChasing)
				w.Presenter().Animate(e, "run")
			}

		case component.StalkerChasing:
			faceTowards(t, pt.Position, st.TurnSpeed, dt)
			dir := pt.Position.Sub(t.Position).Planar().Normalized()
			t.Position = t.Position.Add(dir.Scale(st.RunSpeed * dt))
			if common.PlanarDistance(t.Position, pt.Position) <= st.LungeTrigger {
				s.beginLunge(w, e, st, t, pt.Position)
			}

		case component.StalkerLungeSlowmo:
			window := math.Max(minSlowmoWindow, st.SlowmoWindow)
			u := common.Clamp01(st.AI.RealElapsed / window)
			apex := st.LungeStart.Add(st.LungeTarget.Sub(st.LungeStart).Scale(0.5)).Add(common.V3(0, lungeApexLift, 0))
			p1 := lerpVec(st.LungeStart, apex, u)
			p2 := lerpVec(apex, st.LungeTarget, u)
			t.Position = lerpVec(p1, p2, u)

			switch {
			case in.ExecutePressed:
				s.restoreTimeScale(w, st)
				st.Executed = true
				w.Presenter().Animate(e, "death")
				logger.Log.WithFields(logrus.Fields{"system": "stalker", "entity": e.String()}).Info("stalker executed")
				s.vanish(e, st, st.LongCooldown)
			case st.AI.RealElapsed >= window:
				s.restoreTimeScale(w, st)
				s.possess(w, e, st, player)
			}

		case component.StalkerPossessing:
			target := ecs.Entity(st.Possessed)
			tt, ok := ecs.Get(w, target, component.TransformComponent.Kind())
			if !ok || IsDead(w, target) {
				s.release(w, st)
				s.vanish(e, st, st.ShortCooldown)
				return
			}
			t.Position = tt.Position.Add(st.PossessOffset)
			faceTowards(t, tt.Position, 0, dt)
			if st.PossessDPS > 0 {
				ApplyDamage(w, target, st.PossessDPS*dt)
			}
			st.Mash = math.Max(0, st.Mash-st.MashDecay*dt)
			if in.MashPressed {
				st.Mash += st.MashPerPress
			}
			if st.Mash >= st.MashRequired {
				logger.Log.WithFields(logrus.Fields{"system": "stalker", "entity": e.String()}).Info("player broke free")
				s.release(w, st)
				s.vanish(e, st, st.ShortCooldown)
			}

		case component.StalkerVanishing:
			st.Alpha = 1 - fadeProgress(st.AI.Elapsed, st.FadeTime)
			if st.Alpha <= 0 {
				cooldown := st.PendingCooldown
				s.enter(e, st, component.StalkerCooldown)
				st.AI.Duration = cooldown
			}

		case component.StalkerCooldown:
			if st.AI.Elapsed < st.AI.Duration {
				return
			}
			if w.Context().ActiveStalker == e {
				s.spawn(w, e, st, t, pt)
				return
			}
			s.enter(e, st, component.StalkerInactive)
		}
	})
}

// ActivateStalker asks an inactive stalker to claim the slot and appear. It reports
// false when another live stalker holds the slot.
func ActivateStalker(w *ecs.World, e ecs.Entity) bool {
	st, ok := ecs.Get(w, e, component.StalkerComponent.Kind())
	if !ok {
		return false
	}
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return false
	}
	_, pt, hasPlayer := FindPlayer(w)
	if !hasPlayer || !w.Context().ClaimStalkerSlot(w, e) {
		return false
	}
	if st.Rand == nil {
		st.Rand = rand.New(rand.NewPCG(uint64(e), 0x57a1))
	}
	(&StalkerSystem{}).spawn(w, e, st, t, pt)
	return true
}

// DeactivateStalker hides the stalker at once, restoring time and the slot.
func DeactivateStalker(w *ecs.World, e ecs.Entity) {
	if st, ok := ecs.Get(w, e, component.StalkerComponent.Kind()); ok {
		(&StalkerSystem{}).deactivate(w, e, st)
	}
}

func (s *StalkerSystem) spawn(w *ecs.World, e ecs.Entity, st *component.Stalker, t *component.Transform, pt *component.Transform) {
	front := st.Rand.Float64() < st.FrontWeight
	basis := pt.Forward()
	dist := st.BehindDistance
	if front {
		dist = st.FrontDistance
	} else {
		basis = basis.Scale(-1)
	}
	side := common.V3(basis.Z, 0, -basis.X)
	lateral := st.LateralMin + st.Rand.Float64()*(st.LateralMax-st.LateralMin)

	t.Position = pt.Position.Add(basis.Scale(dist)).Add(side.Scale(lateral)).Add(common.V3(0, st.SpawnYOffset, 0))
	faceTowards(t, pt.Position, 0, 0)
	st.Alpha = 0
	st.Executed = false
	st.Mash = 0
	s.enter(e, st, component.StalkerSpawning)
}

func (s *StalkerSystem) beginLunge(w *ecs.World, e ecs.Entity, st *component.Stalker, t *component.Transform, player common.Vec3) {
	s.enter(e, st, component.StalkerLungeSlowmo)
	st.LungeStart = t.Position
	dir := player.Sub(t.Position).Planar().Normalized()
	st.LungeTarget = st.LungeStart.Add(dir.Scale(st.LungeDistance)).Add(common.V3(0, st.LungeUp, 0))
	w.Presenter().Animate(e, "lunge")

	if !st.InSlowmo {
		st.SavedScale = w.Clock().TimeScale()
		if st.SavedScale <= 0 {
			st.SavedScale = 1
		}
		w.Clock().SetTimeScale(common.Clamp(st.SlowmoScale, 0.01, 1))
		st.InSlowmo = true
	}
}

func (s *StalkerSystem) possess(w *ecs.World, e ecs.Entity, st *component.Stalker, player ecs.Entity) {
	s.enter(e, st, component.StalkerPossessing)
	st.Mash = 0
	st.Possessed = uint64(player)
	FreezeAttacks(w, player)
	w.Presenter().Animate(e, "possess")
	logger.Log.WithFields(logrus.Fields{"system": "stalker", "entity": e.String()}).Info("player possessed")
}

func (s *StalkerSystem) release(w *ecs.World, st *component.Stalker) {
	if st.Possessed == 0 {
		return
	}
	UnfreezeAttacks(w, ecs.Entity(st.Possessed))
	st.Possessed = 0
}

func (s *StalkerSystem) vanish(e ecs.Entity, st *component.Stalker, cooldown float64) {
	st.PendingCooldown = cooldown
	s.enter(e, st, component.StalkerVanishing)
}

func (s *StalkerSystem) deactivate(w *ecs.World, e ecs.Entity, st *component.Stalker) {
	if st.AI.Is(component.StalkerInactive) && !st.InSlowmo && st.Possessed == 0 {
		return
	}
	s.restoreTimeScale(w, st)
	s.release(w, st)
	w.Context().ReleaseStalkerSlot(e)
	st.Alpha = 0
	st.AI.Enter(component.StalkerInactive)
}

func (s *StalkerSystem) restoreTimeScale(w *ecs.World, st *component.Stalker) {
	if !st.InSlowmo {
		return
	}
	w.Clock().SetTimeScale(st.SavedScale)
	st.InSlowmo = false
}

func (s *StalkerSystem) enter(e ecs.Entity, st *component.Stalker, next component.StateID) {
	logger.Log.WithFields(logrus.Fields{"system": "stalker", "entity": e.String(), "from": st.AI.Current, "to": next}).Debug("state change")
	st.AI.Enter(next)
}

func fadeProgress(elapsed, fade float64) float64 {
	if fade <= 0 {
		return 1
	}
	return common.Clamp01(elapsed / fade)
}

func lerpVec(a, b common.Vec3, t float64) common.Vec3 {
	return a.Add(b.Sub(a).Scale(t))
}
