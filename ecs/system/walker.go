package system

import (
	"math"

	"github.com/milk9111/lightfall/common"
	"github.com/milk9111/lightfall/ecs"
	"github.com/milk9111/lightfall/ecs/component"
	"github.com/milk9111/lightfall/logger"
	"github.com/sirupsen/logrus"
)

// WalkerSystem runs the ground melee FSM: guard, chase, attack, recover and
// return to post. A live boss switches guarding off.
type WalkerSystem struct{}

func NewWalkerSystem() *WalkerSystem { return &WalkerSystem{} }

func (s *WalkerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	_, pt, hasPlayer := FindPlayer(w)
	clock := w.Clock()
	dt, now := clock.DT(), clock.Time()

	ecs.ForEach2(w, component.WalkerComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, wk *component.Walker, t *component.Transform) {
		if behaviorBlocked(w, e) || !hasPlayer {
			return
		}
		wk.AI.Tick(dt, clock.UnscaledDT())

		if !wk.Started {
			wk.Started = true
			wk.BossPresent = bossAlive(w)
			wk.NextBossCheck = now + wk.BossCheckInterval
			wk.LastInsideGuard = math.Inf(-1)
			wk.LastAttackStart = math.Inf(-1)
			if wk.BossPresent {
				wk.AI.Enter(component.WalkerChase)
			} else {
				wk.AI.Enter(component.WalkerGuardIdle)
			}
		}
		if wk.BossCheckInterval > 0 && now >= wk.NextBossCheck {
			wk.NextBossCheck = now + wk.BossCheckInterval
			wk.BossPresent = bossAlive(w)
			if wk.BossPresent && wk.AI.Is(component.WalkerReturnToPost) {
				s.enter(e, wk, component.WalkerChase)
			}
		}

		s.tick(w, e, wk, t, pt.Position, now, dt)
	})
}

func (s *WalkerSystem) tick(w *ecs.World, e ecs.Entity, wk *component.Walker, t *component.Transform, player common.Vec3, now, dt float64) {
	dist := common.PlanarDistance(t.Position, player)
	center := guardCenter(wk)

	inside := !wk.BossPresent && insideGuard(wk, player)
	if inside {
		wk.LastInsideGuard = now
	}
	lost := false
	if !wk.BossPresent {
		leash := common.PlanarDistance(t.Position, center) > wk.LeashRadius
		if wk.UseBox {
			leash = !insideGuard(wk, t.Position)
		}
		forgotten := !inside && now-wk.LastInsideGuard >= wk.ForgetAfter
		lost = leash || forgotten
	}

	switch wk.AI.Current {
	case component.WalkerGuardIdle:
		if wk.BossPresent || inside {
			s.enter(e, wk, component.WalkerChase)
			return
		}
		faceTowards(t, player, wk.TurnSpeed, dt)
		home := clampToGuard(wk, center)
		if common.PlanarDistance(t.Position, home) > wk.ArriveTolerance {
			stepPlanar(t, home, wk.MoveSpeed, dt)
		}

	case component.WalkerChase:
		if lost {
			s.enter(e, wk, component.WalkerReturnToPost)
			return
		}
		faceTowards(t, player, wk.TurnSpeed, dt)
		if dist > wk.StopDistance {
			step := math.Min(wk.MoveSpeed*dt, dist-wk.StopDistance)
			t.Position = t.Position.Add(player.Sub(t.Position).Planar().Normalized().Scale(step))
			dist -= step
		}
		s.tryStartAttack(w, e, wk, dist, now)

	case component.WalkerAttack:
		switch AttackPhaseOf(w, e) {
		case component.AttackWindup, component.AttackActive:
			return
		}
		s.enter(e, wk, component.WalkerRecover)

	case component.WalkerRecover:
		if lost {
			CancelAttack(w, e)
			s.enter(e, wk, component.WalkerReturnToPost)
			return
		}
		if dist >= wk.ReengageDistance || wk.AI.Elapsed >= recoverTime(w, e, wk.LastAttack) {
			CancelAttack(w, e)
			s.enter(e, wk, component.WalkerChase)
		}

	case component.WalkerReturnToPost:
		if wk.BossPresent || inside {
			s.enter(e, wk, component.WalkerChase)
			return
		}
		home := clampToGuard(wk, center)
		d := common.PlanarDistance(t.Position, home)
		if d <= wk.ArriveTolerance {
			s.enter(e, wk, component.WalkerGuardIdle)
			return
		}
		if wk.ReturnTimeout > 0 && wk.AI.Elapsed >= wk.ReturnTimeout {
			s.enter(e, wk, component.WalkerGuardIdle)
			return
		}
		mult := wk.ReturnSpeedMult
		if mult <= 0 {
			mult = 1
		}
		faceTowards(t, home, wk.TurnSpeed, dt)
		stepPlanar(t, home, wk.MoveSpeed*mult, dt)

	default:
		s.enter(e, wk, component.WalkerGuardIdle)
	}
}

// tryStartAttack picks light or heavy by range and bias, gated by the
// walker's own cooldown since the last attack start.
func (s *WalkerSystem) tryStartAttack(w *ecs.World, e ecs.Entity, wk *component.Walker, dist, now float64) {
	if now-wk.LastAttackStart < wk.AttackCooldown {
		return
	}
	canLight := dist <= wk.LightRange
	canHeavy := (dist <= wk.HeavyRange && dist > wk.StopDistance*0.75) || dist <= wk.StopDistance

	pick := -1
	switch {
	case canLight && canHeavy:
		if w.Rand().Float64() < wk.LightBias {
			pick = wk.LightAttack
		} else {
			pick = wk.HeavyAttack
		}
	case canLight:
		pick = wk.LightAttack
	case canHeavy:
		pick = wk.HeavyAttack
	}
	if pick < 0 || !RequestAttack(w, e, pick) {
		return
	}
	wk.LastAttackStart = now
	wk.LastAttack = pick
	s.enter(e, wk, component.WalkerAttack)
}

func (s *WalkerSystem) enter(e ecs.Entity, wk *component.Walker, next component.StateID) {
	if wk.AI.Is(next) {
		return
	}
	logger.Log.WithFields(logrus.Fields{"system": "walker", "entity": e.String(), "from": wk.AI.Current, "to": next}).Debug("state change")
	wk.AI.Enter(next)
}

func recoverTime(w *ecs.World, e ecs.Entity, index int) float64 {
	c, ok := ecs.Get(w, e, component.AttackControllerComponent.Kind())
	if !ok || !c.ValidIndex(index) {
		return 0
	}
	return c.Attacks[index].Recover
}

func guardCenter(wk *component.Walker) common.Vec3 {
	if wk.UseBox {
		return wk.GuardMin.Add(wk.GuardMax).Scale(0.5)
	}
	return wk.GuardCenter
}

func insideGuard(wk *component.Walker, p common.Vec3) bool {
	if wk.UseBox {
		return p.X >= wk.GuardMin.X && p.X <= wk.GuardMax.X && p.Z >= wk.GuardMin.Z && p.Z <= wk.GuardMax.Z
	}
	return common.PlanarDistance(p, wk.GuardCenter) <= wk.GuardRadius
}

func clampToGuard(wk *component.Walker, p common.Vec3) common.Vec3 {
	if !wk.UseBox {
		return p
	}
	return common.V3(
		common.Clamp(p.X, wk.GuardMin.X, wk.GuardMax.X),
		p.Y,
		common.Clamp(p.Z, wk.GuardMin.Z, wk.GuardMax.Z),
	)
}
