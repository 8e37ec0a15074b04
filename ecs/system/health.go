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
	defaultThresholdEpsilon = 0.01
	maxAdaptiveMultiplier   = 10
)

// ApplyDamage is the damage sink every hit goes through. It returns the HP
// actually removed, which is zero for dead, invulnerable or missing targets.
func ApplyDamage(w *ecs.World, e ecs.Entity, raw float64) float64 {
	h, ok := ecs.Get(w, e, component.HealthComponent.Kind())
	if !ok {
		return 0
	}
	dealt, died := applyDamage(h, raw)
	if dealt <= 0 {
		return 0
	}

	if died {
		w.Events().Push(ecs.Event{Type: ecs.EventDeath, Data: ecs.DeathEvent{Entity: e}})
		onDeath(w, e, h)
		return dealt
	}

	w.Events().Push(ecs.Event{Type: ecs.EventDamage, Data: ecs.DamageEvent{Entity: e, Amount: dealt, HP: h.Current}})
	now := w.Clock().Time()
	if h.LastHitAnim == 0 || now-h.LastHitAnim >= h.HitMinInterval {
		h.LastHitAnim = now
		w.Presenter().Animate(e, "hit")
	}
	return dealt
}

// ModifyDamage reports what ApplyDamage would remove without changing anything.
func ModifyDamage(w *ecs.World, e ecs.Entity, raw float64) float64 {
	h, ok := ecs.Get(w, e, component.HealthComponent.Kind())
	if !ok {
		return 0
	}
	probe := *h
	dealt, _ := applyDamage(&probe, raw)
	return dealt
}

// Heal restores HP up to Max. Dead actors stay dead.
func Heal(w *ecs.World, e ecs.Entity, amount float64) {
	h, ok := ecs.Get(w, e, component.HealthComponent.Kind())
	if !ok || h.Dead || !validAmount(amount) {
		return
	}
	h.Current = math.Min(h.Max, h.Current+amount)
}

func SetBlocking(w *ecs.World, e ecs.Entity, blocking bool) {
	if h, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok {
		h.Blocking = blocking
	}
}

func IsBlocking(w *ecs.World, e ecs.Entity) bool {
	h, ok := ecs.Get(w, e, component.HealthComponent.Kind())
	return ok && h.Blocking
}

func SetInvulnerable(w *ecs.World, e ecs.Entity, invulnerable bool) {
	if h, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok {
		h.Invulnerable = invulnerable
	}
}

// HP returns current hit points, or 0 when e has no health.
func HP(w *ecs.World, e ecs.Entity) float64 {
	h, ok := ecs.Get(w, e, component.HealthComponent.Kind())
	if !ok {
		return 0
	}
	return h.Current
}

// HPPercent returns current HP as a percentage of Max.
func HPPercent(w *ecs.World, e ecs.Entity) float64 {
	h, ok := ecs.Get(w, e, component.HealthComponent.Kind())
	if !ok || h.Max <= 0 {
		return 0
	}
	return h.Current / h.Max * 100
}

// IsDead reports whether e's health reached zero. Actors without health are
// never dead.
func IsDead(w *ecs.World, e ecs.Entity) bool {
	h, ok := ecs.Get(w, e, component.HealthComponent.Kind())
	return ok && h.Dead
}

// validAmount rejects zero, negative, NaN and infinite damage or healing.
func validAmount(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

func applyDamage(h *component.Health, raw float64) (float64, bool) {
	if h.Dead || h.Invulnerable || !validAmount(raw) || h.Max <= 0 {
		return 0, false
	}

	dmg := mitigate(h, raw)
	if math.IsNaN(dmg) || dmg <= 0 {
		return 0, false
	}
	before := h.Current
	after := gateThreshold(h, before, before-dmg)
	if after <= 0 {
		h.Current = 0
		h.Dead = true
		return before, true
	}
	dealt := before - after
	if dealt <= 0 {
		return 0, false
	}
	h.Current = after
	h.PostHitRemaining = h.PostHitWindow
	return dealt, false
}

// mitigate runs the multiplier chain: block, adaptive, post-hit.
func mitigate(h *component.Health, raw float64) float64 {
	dmg := raw
	if h.Blocking {
		dmg *= multiplierOrOne(h.BlockMultiplier)
	}
	dmg *= adaptiveMultiplier(h)
	if h.PostHitRemaining > 0 {
		dmg *= multiplierOrOne(h.PostHitMultiplier)
	}
	return dmg
}

func adaptiveMultiplier(h *component.Health) float64 {
	frac := common.Clamp01(h.Current / h.Max)
	if h.Curve != nil {
		return common.Clamp(h.Curve.Multiplier(frac), 0, maxAdaptiveMultiplier)
	}
	if h.AdaptiveAtFull == 0 && h.AdaptiveAtZero == 0 {
		return 1
	}
	return common.Clamp(common.Lerp(h.AdaptiveAtZero, h.AdaptiveAtFull, frac), 0, maxAdaptiveMultiplier)
}

// gateThreshold clamps a hit so it lands on the highest threshold that
// before still sits above, instead of skipping past it.
func gateThreshold(h *component.Health, before, after float64) float64 {
	if !h.Gating || len(h.Thresholds) == 0 {
		return after
	}
	eps := h.Epsilon
	if eps <= 0 {
		eps = defaultThresholdEpsilon
	}
	for _, pct := range h.Thresholds {
		t := pct / 100 * h.Max
		if before > t+eps {
			if after < t {
				return t
			}
			return after
		}
	}
	return after
}

func multiplierOrOne(m float64) float64 {
	if m <= 0 {
		return 1
	}
	return m
}

func onDeath(w *ecs.World, e ecs.Entity, h *component.Health) {
	logger.Log.WithFields(logrus.Fields{"system": "health", "entity": e.String()}).Debug("actor died")
	w.Presenter().Animate(e, "die")
	if hb, ok := ecs.Get(w, e, component.HurtboxComponent.Kind()); ok {
		hb.Disabled = true
	}
	if c, ok := ecs.Get(w, e, component.AttackControllerComponent.Kind()); ok {
		cancelAttack(w, e, c)
	}
	if h.CustomDeath {
		return
	}
	_ = ecs.Add(w, e, component.DespawnComponent.Kind(), &component.Despawn{Remaining: h.DespawnDelay})
}

// HealthSystem ticks post-hit mitigation windows.
type HealthSystem struct{}

func NewHealthSystem() *HealthSystem { return &HealthSystem{} }

func (s *HealthSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Clock().DT()
	ecs.ForEach(w, component.HealthComponent.Kind(), func(_ ecs.Entity, h *component.Health) {
		if h.PostHitRemaining > 0 {
			h.PostHitRemaining = math.Max(0, h.PostHitRemaining-dt)
		}
	})
}

// DespawnSystem destroys dead actors once their despawn delay ran out.
type DespawnSystem struct {
	spatial *ecs.SpatialWorld
}

func NewDespawnSystem(spatial *ecs.SpatialWorld) *DespawnSystem {
	return &DespawnSystem{spatial: spatial}
}

func (s *DespawnSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Clock().DT()
	ecs.ForEach(w, component.DespawnComponent.Kind(), func(e ecs.Entity, d *component.Despawn) {
		d.Remaining -= dt
		if d.Remaining > 0 {
			return
		}
		w.Context().ReleaseStalkerSlot(e)
		s.spatial.Remove(e)
		ecs.DestroyEntity(w, e)
	})
}
