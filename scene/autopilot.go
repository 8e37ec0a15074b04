package scene

import (
	"math"
	"math/rand/v2"

	"github.com/milk9111/lightfall/common"
	"github.com/milk9111/lightfall/ecs"
	"github.com/milk9111/lightfall/ecs/component"
	"github.com/milk9111/lightfall/ecs/system"
)

// Autopilot plays the player for headless runs: walk to the nearest hostile,
// swing at it, block some telegraphed attacks, execute lunging stalkers and
// mash out of possession.
type Autopilot struct {
	// Reach is the distance at which the autopilot stops walking and swings.
	Reach float64
	// BlockChance and ExecuteChance are rolled once per opportunity.
	BlockChance   float64
	ExecuteChance float64

	rng      *rand.Rand
	frame    uint64
	decision map[rollKey]bool
}

type rollKey struct {
	stalker bool
	id      uint64
}

func NewAutopilot(seed uint64) *Autopilot {
	return &Autopilot{
		Reach:         1.1,
		BlockChance:   0.35,
		ExecuteChance: 0.7,
		rng:           rand.New(rand.NewPCG(seed, 0xa070)),
		decision:      make(map[rollKey]bool),
	}
}

func (a *Autopilot) Poll(w *ecs.World) component.Input {
	a.frame++
	var in component.Input
	player, pt, ok := system.FindPlayer(w)
	if !ok || system.IsDead(w, player) {
		return in
	}
	edge := a.frame%2 == 0

	stalkerBusy := false
	ecs.ForEach(w, component.StalkerComponent.Kind(), func(e ecs.Entity, st *component.Stalker) {
		switch st.AI.Current {
		case component.StalkerPossessing:
			stalkerBusy = true
			in.MashPressed = edge
		case component.StalkerLungeSlowmo:
			stalkerBusy = true
			in.ExecutePressed = edge && a.roll(rollKey{stalker: true, id: uint64(e)}, a.ExecuteChance)
		default:
			delete(a.decision, rollKey{stalker: true, id: uint64(e)})
		}
	})
	if stalkerBusy {
		return in
	}

	target, tt, found := a.nearestHostile(w, pt.Position)
	if !found {
		return in
	}
	dx := tt.Position.X - pt.Position.X
	if math.Abs(dx) > a.Reach {
		in.MoveX = math.Copysign(1, dx)
		return in
	}

	if c, ok := ecs.Get(w, target, component.AttackControllerComponent.Kind()); ok && c.Swing.Phase == component.AttackWindup {
		if a.roll(rollKey{id: c.Swing.ID}, a.BlockChance) {
			in.Block = true
			return in
		}
	}
	if edge {
		if a.frame%12 == 0 {
			in.HeavyPressed = true
		} else {
			in.LightPressed = true
		}
	}
	// face the target between swings
	if dx != 0 && a.frame%5 == 0 {
		in.MoveX = math.Copysign(0.01, dx)
	}
	return in
}

// roll caches one decision per key so a telegraph is judged once.
func (a *Autopilot) roll(key rollKey, chance float64) bool {
	if d, ok := a.decision[key]; ok {
		return d
	}
	if len(a.decision) > 256 {
		clear(a.decision)
	}
	d := a.rng.Float64() < chance
	a.decision[key] = d
	return d
}

func (a *Autopilot) nearestHostile(w *ecs.World, from common.Vec3) (ecs.Entity, *component.Transform, bool) {
	var (
		best   ecs.Entity
		bestT  *component.Transform
		bestD  = math.Inf(1)
		hidden = component.HiddenComponent.Kind()
	)
	ecs.ForEach2(w, component.EnemyTagComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, _ *component.EnemyTag, t *component.Transform) {
		if system.IsDead(w, e) || ecs.Has(w, e, hidden) || ecs.Has(w, e, component.StalkerComponent.Kind()) {
			return
		}
		if hb, ok := ecs.Get(w, e, component.HurtboxComponent.Kind()); !ok || hb.Disabled {
			return
		}
		if d := common.PlanarDistance(from, t.Position); d < bestD {
			best, bestT, bestD = e, t, d
		}
	})
	return best, bestT, bestT != nil
}
