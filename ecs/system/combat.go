package system

import (
	"github.com/milk9111/lightfall/common"
	"github.com/milk9111/lightfall/ecs"
	"github.com/milk9111/lightfall/ecs/component"
	"github.com/milk9111/lightfall/logger"
	"github.com/sirupsen/logrus"
)

// CombatSystem resolves enabled hit volumes and enemy contact damage against
// hurtboxes through the world's spatial query.
type CombatSystem struct {
	warned bool
}

func NewCombatSystem() *CombatSystem { return &CombatSystem{} }

func (s *CombatSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	q := w.Spatial()
	if q == nil {
		if !s.warned {
			s.warned = true
			logger.Log.WithField("system", "combat").Warn("no spatial query attached; hits are skipped")
		}
		return
	}

	ecs.ForEach2(w, component.AttackControllerComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, c *component.AttackController, t *component.Transform) {
		def := c.Definition()
		if def == nil || c.Frozen || IsDead(w, e) {
			return
		}
		for i, lv := range c.Volumes {
			if !lv.Enabled || i >= len(def.Volumes) {
				continue
			}
			vol := def.Volumes[i]
			damage := vol.Damage
			if damage == 0 {
				damage = def.Damage
			}
			center := t.Position.Add(common.LocalToWorld(vol.Offset, t.Yaw))
			for _, target := range q.Overlap(center, vol.Radius, ecs.QueryFilter{Layers: c.Targets}) {
				if target == e {
					continue
				}
				landHit(w, e, target, lv.SwingID, damage)
			}
		}
	})

	now := w.Clock().Time()
	ecs.ForEach2(w, component.ContactDamageComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, cd *component.ContactDamage, t *component.Transform) {
		if cd.Damage <= 0 || cd.Radius <= 0 || IsDead(w, e) || ecs.Has(w, e, component.FrozenComponent.Kind()) {
			return
		}
		if cd.LastHit == nil {
			cd.LastHit = make(map[uint64]float64)
		}
		for _, target := range q.Overlap(t.Position, cd.Radius, ecs.QueryFilter{Layers: cd.Targets}) {
			if target == e {
				continue
			}
			if last, ok := cd.LastHit[uint64(target)]; ok && now-last < cd.RepeatWindow {
				continue
			}
			cd.LastHit[uint64(target)] = now
			ApplyDamage(w, target, cd.Damage)
		}
	})
}

// landHit applies one swing's damage to target at most once.
func landHit(w *ecs.World, attacker, target ecs.Entity, swing uint64, damage float64) bool {
	ledger, ok := ecs.Get(w, target, component.HitLedgerComponent.Kind())
	if !ok {
		ledger = &component.HitLedger{}
		if err := ecs.Add(w, target, component.HitLedgerComponent.Kind(), ledger); err != nil {
			return false
		}
	}
	if ledger.Seen(swing) {
		return false
	}
	ledger.Record(swing)
	dealt := ApplyDamage(w, target, damage)
	logger.Log.WithFields(logrus.Fields{
		"system":   "combat",
		"attacker": attacker.String(),
		"target":   target.String(),
		"swing":    swing,
		"damage":   dealt,
	}).Debug("hit landed")
	return true
}
