package system

import (
	"math"

	"github.com/milk9111/lightfall/common"
	"github.com/milk9111/lightfall/ecs"
	"github.com/milk9111/lightfall/ecs/component"
	"github.com/milk9111/lightfall/logger"
	"github.com/sirupsen/logrus"
)

const defaultArmDelay = 0.4

// SpawnWave places count actors inside area through the world's actor
// factory. A missing factory or region skips the wave with a warning.
func SpawnWave(w *ecs.World, count int, area component.SpawnArea, opts component.SpawnOptions) []ecs.Entity {
	if w == nil || count <= 0 {
		return nil
	}
	log := logger.Log.WithFields(logrus.Fields{"system": "spawner", "kind": opts.Kind, "area": area.Kind})
	factory := w.Factory()
	if factory == nil {
		log.Warn("no actor factory attached; wave skipped")
		return nil
	}
	positions := wavePositions(w, count, area)
	if len(positions) == 0 {
		log.Warn("spawn region not configured; wave skipped")
		return nil
	}

	spawned := make([]ecs.Entity, 0, len(positions))
	for _, pos := range positions {
		e, err := factory.Spawn(w, opts.Kind, pos, opts.Yaw)
		if err != nil {
			log.WithError(err).Warn("spawn failed")
			continue
		}
		decorateSpawn(w, e, opts)
		spawned = append(spawned, e)
	}
	log.WithField("count", len(spawned)).Debug("wave spawned")
	return spawned
}

func wavePositions(w *ecs.World, count int, area component.SpawnArea) []common.Vec3 {
	rng := w.Rand()
	uniform := func(lo, hi float64) float64 { return lo + rng.Float64()*(hi-lo) }
	inBox := func(b *component.Box) common.Vec3 {
		return common.V3(uniform(b.Min.X, b.Max.X), b.Y, uniform(b.Min.Z, b.Max.Z))
	}

	var out []common.Vec3
	switch area.Kind {
	case component.SpawnBoxes:
		if area.A == nil {
			return nil
		}
		halfA := count / 2
		for i := 0; i < halfA; i++ {
			out = append(out, inBox(area.A))
		}
		rest := area.B
		if rest == nil {
			rest = area.A
		}
		for i := halfA; i < count; i++ {
			out = append(out, inBox(rest))
		}
	case component.SpawnCircle:
		if area.Radius <= 0 {
			return nil
		}
		for i := 0; i < count; i++ {
			r := area.Radius * math.Sqrt(rng.Float64())
			a := rng.Float64() * 2 * math.Pi
			out = append(out, area.Center.Add(common.V3(math.Cos(a)*r, 0, math.Sin(a)*r)))
		}
	case component.SpawnSpan:
		centerX := 0.0
		if _, pt, ok := FindPlayer(w); ok {
			centerX = pt.Position.X
		}
		half := area.XSpan / 2
		for i := 0; i < count; i++ {
			z := area.ZBase
			if area.ZSpan > 0 {
				z = uniform(-area.ZSpan/2, area.ZSpan/2)
			}
			out = append(out, common.V3(centerX+uniform(-half, half), area.Y, z))
		}
	}
	return out
}

// decorateSpawn attaches kill credit and the finale overrides.
func decorateSpawn(w *ecs.World, e ecs.Entity, opts component.SpawnOptions) {
	if opts.Finale {
		if h, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok {
			h.Max = 1
			h.Current = 1
			h.Gating = false
			h.Thresholds = nil
		}
		ecs.Remove(w, e, component.WalkerComponent.Kind())
		ecs.Remove(w, e, component.FlyerComponent.Kind())
		ecs.Remove(w, e, component.StalkerComponent.Kind())
		_ = ecs.Add(w, e, component.RusherComponent.Kind(), &component.Rusher{Speed: opts.RusherSpeed})
	}
	if opts.KillCredit {
		delay := opts.ArmDelay
		if delay <= 0 {
			delay = defaultArmDelay
		}
		_ = ecs.Add(w, e, component.KillCreditComponent.Kind(), &component.KillCredit{
			SpawnedAt: w.Clock().UnscaledTime(),
			ArmDelay:  delay,
		})
	}
}
