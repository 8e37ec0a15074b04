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

const flyerHoldState = 9999.0

// FlyerSystem runs the orbit, rush and ascend loop of flying enemies.
type FlyerSystem struct{}

func NewFlyerSystem() *FlyerSystem { return &FlyerSystem{} }

func (s *FlyerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	_, pt, hasPlayer := FindPlayer(w)
	clock := w.Clock()
	dt := clock.DT()

	ecs.ForEach2(w, component.FlyerComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, f *component.Flyer, t *component.Transform) {
		if behaviorBlocked(w, e) || !hasPlayer {
			return
		}
		player := pt.Position
		if f.Rand == nil {
			f.Rand = rand.New(rand.NewPCG(uint64(e), 0x5eed))
		}
		if !f.Started {
			f.Started = true
			f.OrbitCenter = player
			f.LastHP = HP(w, e)
			s.enter(w, e, f, t, player, component.FlyerOrbit)
		}

		hp := HP(w, e)
		if hp < f.LastHP && !f.AI.Is(component.FlyerAscend) {
			s.enter(w, e, f, t, player, component.FlyerAscend)
		}
		f.LastHP = hp

		f.AI.Tick(dt, clock.UnscaledDT())
		prev := t.Position
		switch f.AI.Current {
		case component.FlyerOrbit:
			s.tickOrbit(f, t, player, dt)
			if f.AI.Elapsed >= f.AI.Duration {
				s.enter(w, e, f, t, player, component.FlyerRush)
			}
		case component.FlyerRush:
			t.Position = common.MoveTowardsVec(t.Position, player, f.RushSpeed*dt)
			if !f.RushHit && s.rushContact(w, e, f, t) {
				f.RushHit = true
				s.enter(w, e, f, t, player, component.FlyerAscend)
			} else if f.RushTimeout > 0 && f.AI.Elapsed >= f.AI.Duration {
				s.enter(w, e, f, t, player, component.FlyerAscend)
			}
		case component.FlyerAscend:
			t.Position.Y = common.MoveTowards(t.Position.Y, f.AscendTargetY, f.AscendSpeed*dt)
			if math.Abs(t.Position.Y-f.AscendTargetY) <= f.AscendThreshold {
				s.enter(w, e, f, t, player, component.FlyerOrbit)
			}
		}

		if moved := t.Position.Sub(prev).Planar(); moved.PlanarLen() > 1e-4 {
			t.Yaw = common.YawTo(moved)
		}
	})
}

func (s *FlyerSystem) tickOrbit(f *component.Flyer, t *component.Transform, player common.Vec3, dt float64) {
	f.OrbitCenter.X = common.Lerp(f.OrbitCenter.X, player.X, f.OrbitFollowLerp)
	f.OrbitCenter.Z = common.Lerp(f.OrbitCenter.Z, player.Z, f.OrbitFollowLerp)

	y := common.Lerp(t.Position.Y, player.Y+f.OrbitHeight, 1-math.Exp(-f.OrbitHeightLerp*dt))
	f.OrbitAngle += f.OrbitAngularSpeed * dt
	target := common.V3(
		f.OrbitCenter.X+math.Cos(f.OrbitAngle)*f.OrbitRadiusIn,
		y,
		f.OrbitCenter.Z+math.Sin(f.OrbitAngle)*f.OrbitRadiusIn,
	)
	t.Position = common.MoveTowardsVec(t.Position, target, f.OrbitChaseSpeed*dt)
}

func (s *FlyerSystem) rushContact(w *ecs.World, e ecs.Entity, f *component.Flyer, t *component.Transform) bool {
	q := w.Spatial()
	if q == nil {
		return false
	}
	for _, target := range q.Overlap(t.Position, f.RushContactRadius, ecs.QueryFilter{Layers: component.LayerPlayer}) {
		if target == e || !ecs.Has(w, target, component.PlayerTagComponent.Kind()) {
			continue
		}
		ApplyDamage(w, target, f.RushDamage)
		return true
	}
	return false
}

// enter resets the state timers and re-seeds per-state parameters.
func (s *FlyerSystem) enter(w *ecs.World, e ecs.Entity, f *component.Flyer, t *component.Transform, player common.Vec3, next component.StateID) {
	if f.AI.Current != "" && f.AI.Current != next {
		logger.Log.WithFields(logrus.Fields{"system": "flyer", "entity": e.String(), "from": f.AI.Current, "to": next}).Debug("state change")
	}
	f.AI.Enter(next)
	switch next {
	case component.FlyerOrbit:
		f.OrbitRadiusIn = f.OrbitRadius + (f.Rand.Float64()*2-1)*f.OrbitJitter
		rel := t.Position.Sub(player).Planar()
		if rel.PlanarLen() > 0.01 {
			f.OrbitAngle = math.Atan2(rel.Z, rel.X)
		}
		f.AI.Duration = math.Max(0.01, f.OrbitDurationMin+f.Rand.Float64()*(f.OrbitDurationMax-f.OrbitDurationMin))
	case component.FlyerRush:
		f.RushHit = false
		f.AI.Duration = flyerHoldState
		if f.RushTimeout > 0 {
			f.AI.Duration = f.RushTimeout
		}
	case component.FlyerAscend:
		f.AscendTargetY = player.Y + f.AscendHeight
		f.AI.Duration = flyerHoldState
	}
}
