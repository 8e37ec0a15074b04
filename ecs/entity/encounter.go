package entity

import (
	"fmt"

	"github.com/milk9111/lightfall/ecs"
	"github.com/milk9111/lightfall/ecs/component"
	"github.com/milk9111/lightfall/prefabs"
)

type encounterSpec = prefabs.EncounterComponentSpec

// addEncounter also installs the phase thresholds as the actor's health
// gates, so health must already be built.
func addEncounter(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[encounterSpec](raw)
	if err != nil {
		return fmt.Errorf("decode encounter spec: %w", err)
	}
	th := spec.Thresholds
	for i := 1; i < len(th); i++ {
		if th[i] >= th[i-1] {
			return fmt.Errorf("encounter thresholds must be strictly descending: %v", th)
		}
	}

	enc := &component.Encounter{
		P2Threshold:    th[0],
		P3Threshold:    th[1],
		P4Threshold:    th[2],
		P5Threshold:    th[3],
		MoveSpeed:      [3]float64{spec.P1.MoveSpeed, spec.P3.MoveSpeed, spec.P5.MoveSpeed},
		AttackInterval: [3]float64{spec.P1.AttackInterval, spec.P3.AttackInterval, spec.P5.AttackInterval},
		AttackCooldown: spec.AttackCooldown,
		FirstAttack:    spec.FirstAttack,
		LockY:          spec.LockY,
		Light:          component.EncounterAttack(spec.Light),
		Heavy:          component.EncounterAttack(spec.Heavy),

		PosePoint:   spec.PosePoint,
		PoseYaw:     spec.PoseYaw,
		TravelSpeed: spec.TravelSpeed,
		ArriveDist:  spec.ArriveDist,
		TurnSpeed:   spec.TurnSpeed,
		Taunt:       spec.Taunt,
		Hold:        spec.Hold,

		P2Waves: component.WaveSpec(spec.P2Waves),
		P2Gate:  spec.P2Gate,
		P4Waves: component.WaveSpec(spec.P4Waves),
		P4Gate:  spec.P4Gate,

		ReturnXOffset: spec.ReturnXOffset,
		ReturnSpeed:   spec.ReturnSpeed,
		ReturnArrive:  spec.ReturnArrive,
		ReturnMaxTime: spec.ReturnMaxTime,

		P5GroundCount:    spec.P5GroundCount,
		P5GroundInterval: spec.P5GroundInterval,
		P5FlyingCount:    spec.P5FlyingCount,
		P5FlyingInterval: spec.P5FlyingInterval,

		GroundA:    box(spec.GroundA),
		GroundB:    box(spec.GroundB),
		GroundKind: spec.GroundKind,
		FlyingKind: spec.FlyingKind,
		FlySpanX:   spec.FlySpanX,
		FlyY:       spec.FlyY,
		FlyZBase:   spec.FlyZBase,
		FlySpanZ:   spec.FlySpanZ,

		Climax: component.ClimaxConfig(spec.Climax),
	}

	if h, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok {
		h.Thresholds = append([]float64(nil), th...)
		h.Gating = true
		h.CustomDeath = true
	}
	return ecs.Add(w, e, component.EncounterComponent.Kind(), enc)
}

func box(b *prefabs.BoxSpec) *component.Box {
	if b == nil {
		return nil
	}
	return &component.Box{Min: b.Min, Max: b.Max, Y: b.Y}
}
