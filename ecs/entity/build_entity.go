package entity

import (
	"fmt"
	"sort"
	"strings"

	"github.com/milk9111/lightfall/common"
	"github.com/milk9111/lightfall/ecs"
	"github.com/milk9111/lightfall/ecs/component"
	"github.com/milk9111/lightfall/prefabs"
	"github.com/milk9111/lightfall/script"
)

type entityPrefabSpec = prefabs.EntityBuildSpec

type buildContext struct {
	Kind     string
	Position common.Vec3
	Yaw      float64
	curves   curveSource
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"player_tag":        addPlayerTag,
	"enemy_tag":         addEnemyTag,
	"boss_tag":          addBossTag,
	"transform":         addTransform,
	"motion":            addMotion,
	"input":             addInput,
	"player":            addPlayer,
	"health":            addHealth,
	"hurtbox":           addHurtbox,
	"contact_damage":    addContactDamage,
	"attack_controller": addAttackController,
	"walker":            addWalker,
	"flyer":             addFlyer,
	"stalker":           addStalker,
	"rusher":            addRusher,
	"encounter":         addEncounter,
	"appearance":        addAppearance,
}

// componentBuildOrder puts transform and health ahead of the builders that
// read them.
var componentBuildOrder = []string{
	"player_tag",
	"enemy_tag",
	"boss_tag",
	"transform",
	"motion",
	"input",
	"player",
	"health",
	"hurtbox",
	"contact_damage",
	"attack_controller",
	"walker",
	"flyer",
	"stalker",
	"rusher",
	"encounter",
	"appearance",
}

// BuildEntity creates one actor from a prefab spec. A failed component
// destroys the half-built entity.
func BuildEntity(w *ecs.World, spec entityPrefabSpec, ctx *buildContext) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("entity: build %q: world is nil", spec.Name)
	}
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("entity: build %q: prefab does not define components", spec.Name)
	}
	if ctx == nil {
		ctx = &buildContext{Kind: spec.Name}
	}

	e := ecs.CreateEntity(w)
	remaining := make(map[string]any, len(spec.Components))
	for k, v := range spec.Components {
		remaining[k] = v
	}

	build := func(name string) error {
		builder, ok := componentRegistry[name]
		if !ok {
			return fmt.Errorf("entity: build %q: no builder for component %q", spec.Name, name)
		}
		if err := builder(w, e, remaining[name], ctx); err != nil {
			return fmt.Errorf("entity: build %q: add %q: %w", spec.Name, name, err)
		}
		delete(remaining, name)
		return nil
	}

	for _, name := range componentBuildOrder {
		if _, ok := remaining[name]; !ok {
			continue
		}
		if err := build(name); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, err
		}
	}

	names := make([]string, 0, len(remaining))
	for name := range remaining {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := build(name); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, err
		}
	}
	return e, nil
}

func addPlayerTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
}

func addEnemyTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.EnemyTagComponent.Kind(), &component.EnemyTag{})
}

func addBossTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.BossTagComponent.Kind(), &component.BossTag{})
}

func addInput(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{})
}

type transformSpec = prefabs.TransformComponentSpec

// addTransform places the actor at the spawn point plus the prefab offset. The
// prefab yaw applies when the spawner did not pick one.
func addTransform(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[transformSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	yaw := spec.Yaw
	if ctx.Yaw != 0 {
		yaw = ctx.Yaw
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		Position: ctx.Position.Add(spec.Position),
		Yaw:      yaw,
	})
}

type motionSpec = prefabs.MotionComponentSpec

func addMotion(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[motionSpec](raw)
	if err != nil {
		return fmt.Errorf("decode motion spec: %w", err)
	}
	m := &component.Motion{
		DampTime: spec.DampTime,
		Gravity:  spec.Gravity,
		FloorY:   spec.FloorY,
	}
	if spec.LockY != nil {
		m.LockY = true
		m.LockYV = *spec.LockY
	}
	return ecs.Add(w, e, component.MotionComponent.Kind(), m)
}

type playerSpec = prefabs.PlayerComponentSpec

func addPlayer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[playerSpec](raw)
	if err != nil {
		return fmt.Errorf("decode player spec: %w", err)
	}
	return ecs.Add(w, e, component.PlayerComponent.Kind(), &component.Player{
		MoveSpeed: spec.MoveSpeed,
		DeathFade: spec.DeathFade,
		Scene:     spec.Scene,
	})
}

type healthSpec = prefabs.HealthComponentSpec

func addHealth(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[healthSpec](raw)
	if err != nil {
		return fmt.Errorf("decode health spec: %w", err)
	}
	h := &component.Health{
		Max:               spec.Max,
		Current:           spec.Max,
		Thresholds:        append([]float64(nil), spec.Thresholds...),
		Gating:            spec.Gating,
		Epsilon:           spec.Epsilon,
		BlockMultiplier:   spec.BlockMultiplier,
		AdaptiveAtFull:    spec.AdaptiveAtFull,
		AdaptiveAtZero:    spec.AdaptiveAtZero,
		PostHitMultiplier: spec.PostHitMultiplier,
		PostHitWindow:     spec.PostHitWindow,
		Invulnerable:      spec.Invulnerable,
		CustomDeath:       spec.CustomDeath,
		DespawnDelay:      *spec.DespawnDelay,
		HitMinInterval:    spec.HitMinInterval,
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(h.Thresholds)))
	if spec.CurveScript != "" {
		var curve *script.Curve
		if ctx.curves != nil {
			curve, err = ctx.curves.curve(ctx.Kind, spec.CurveScript, spec.CurveParams)
		} else {
			curve, err = script.LoadCurve(spec.CurveScript, spec.CurveParams)
		}
		if err != nil {
			return err
		}
		h.Curve = curve
	}
	return ecs.Add(w, e, component.HealthComponent.Kind(), h)
}

type hurtboxSpec = prefabs.HurtboxComponentSpec

func addHurtbox(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[hurtboxSpec](raw)
	if err != nil {
		return fmt.Errorf("decode hurtbox spec: %w", err)
	}
	layer, err := parseLayers(spec.Layer)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.HurtboxComponent.Kind(), &component.Hurtbox{
		Radius: spec.Radius,
		Offset: spec.Offset,
		Layer:  layer,
		Solid:  spec.Solid,
	})
}

type contactDamageSpec = prefabs.ContactDamageComponentSpec

func addContactDamage(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[contactDamageSpec](raw)
	if err != nil {
		return fmt.Errorf("decode contact_damage spec: %w", err)
	}
	targets, err := parseLayers(spec.Targets)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.ContactDamageComponent.Kind(), &component.ContactDamage{
		Damage:       spec.Damage,
		Radius:       spec.Radius,
		Targets:      targets,
		RepeatWindow: spec.RepeatWindow,
		LastHit:      make(map[uint64]float64),
	})
}

type attackControllerSpec = prefabs.AttackControllerComponentSpec

func addAttackController(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[attackControllerSpec](raw)
	if err != nil {
		return fmt.Errorf("decode attack_controller spec: %w", err)
	}
	targets, err := parseLayers(spec.Targets)
	if err != nil {
		return err
	}

	attacks := make([]component.AttackDefinition, 0, len(spec.Attacks))
	for i, a := range spec.Attacks {
		def, err := attackDefinition(a)
		if err != nil {
			return fmt.Errorf("attack %d (%s): %w", i, a.Name, err)
		}
		attacks = append(attacks, def)
	}

	c := component.NewAttackController(attacks)
	c.LightStart = spec.LightStart
	if spec.HeavyStart != nil {
		c.HeavyStart = *spec.HeavyStart
	}
	c.Targets = targets
	c.InputBufferTime = spec.InputBufferTime
	c.IdleReturnGrace = spec.IdleReturnGrace
	c.ExitDampTime = spec.ExitDampTime
	c.GateCombosOnCooldown = spec.GateCombosOnCooldown
	return ecs.Add(w, e, component.AttackControllerComponent.Kind(), c)
}

func attackDefinition(a prefabs.AttackSpec) (component.AttackDefinition, error) {
	def := component.AttackDefinition{
		Name:           a.Name,
		Kind:           component.AttackKind(a.Kind),
		Trigger:        a.Trigger,
		Windup:         a.Windup,
		Active:         a.Active,
		Recover:        a.Recover,
		Damage:         a.Damage,
		Cooldown:       a.Cooldown,
		ComboOpen:      a.ComboOpen,
		ComboClose:     a.ComboClose,
		EarliestExit:   a.EarliestExit,
		NextLight:      -1,
		NextHeavy:      -1,
		Motion:         a.Motion,
		MotionScale:    a.MotionScale,
		ImpulseForward: a.ImpulseForward,
		ImpulseUp:      a.ImpulseUp,
	}
	if def.Duration() <= 0 {
		return def, fmt.Errorf("attack has no duration")
	}
	switch def.Kind {
	case component.AttackLight, component.AttackHeavy:
	default:
		return def, fmt.Errorf("unknown attack kind %q", a.Kind)
	}
	switch strings.ToLower(a.MotionMode) {
	case "", "replace_planar":
		def.MotionMode = component.MotionReplacePlanar
	case "add_planar":
		def.MotionMode = component.MotionAddPlanar
	default:
		return def, fmt.Errorf("unknown motion mode %q", a.MotionMode)
	}
	if a.NextLight != nil {
		def.NextLight = *a.NextLight
	}
	if a.NextHeavy != nil {
		def.NextHeavy = *a.NextHeavy
	}
	for _, v := range a.Volumes {
		def.Volumes = append(def.Volumes, component.HitVolume{
			Radius: v.Radius,
			Offset: v.Offset,
			Start:  v.Start,
			End:    v.End,
			Damage: v.Damage,
		})
	}
	return def, nil
}

type walkerSpec = prefabs.WalkerComponentSpec

func addWalker(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[walkerSpec](raw)
	if err != nil {
		return fmt.Errorf("decode walker spec: %w", err)
	}
	wk := &component.Walker{
		MoveSpeed:         spec.MoveSpeed,
		StopDistance:      spec.StopDistance,
		ReengageDistance:  spec.ReengageDistance,
		TurnSpeed:         spec.TurnSpeed,
		LightAttack:       *spec.LightAttack,
		HeavyAttack:       *spec.HeavyAttack,
		LightRange:        spec.LightRange,
		HeavyRange:        spec.HeavyRange,
		LightBias:         spec.LightBias,
		AttackCooldown:    spec.AttackCooldown,
		GuardCenter:       spec.GuardCenter,
		GuardRadius:       spec.GuardRadius,
		LeashRadius:       spec.LeashRadius,
		ForgetAfter:       spec.ForgetAfter,
		ReturnSpeedMult:   spec.ReturnSpeedMult,
		ArriveTolerance:   spec.ArriveTolerance,
		ReturnTimeout:     spec.ReturnTimeout,
		BossCheckInterval: spec.BossCheckInterval,
	}
	if spec.GuardAtSpawn {
		wk.GuardCenter = ctx.Position
		if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			wk.GuardCenter = t.Position
		}
	}
	if spec.GuardMin != nil && spec.GuardMax != nil {
		wk.UseBox = true
		wk.GuardMin = *spec.GuardMin
		wk.GuardMax = *spec.GuardMax
	}
	return ecs.Add(w, e, component.WalkerComponent.Kind(), wk)
}

type flyerSpec = prefabs.FlyerComponentSpec

func addFlyer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[flyerSpec](raw)
	if err != nil {
		return fmt.Errorf("decode flyer spec: %w", err)
	}
	return ecs.Add(w, e, component.FlyerComponent.Kind(), &component.Flyer{
		OrbitRadius:       spec.OrbitRadius,
		OrbitJitter:       spec.OrbitJitter,
		OrbitAngularSpeed: spec.OrbitAngularSpeed,
		OrbitFollowLerp:   spec.OrbitFollowLerp,
		OrbitChaseSpeed:   spec.OrbitChaseSpeed,
		OrbitHeight:       spec.OrbitHeight,
		OrbitHeightLerp:   spec.OrbitHeightLerp,
		OrbitDurationMin:  spec.OrbitDurationMin,
		OrbitDurationMax:  spec.OrbitDurationMax,
		RushSpeed:         spec.RushSpeed,
		RushContactRadius: spec.RushContactRadius,
		RushDamage:        spec.RushDamage,
		RushTimeout:       *spec.RushTimeout,
		AscendHeight:      spec.AscendHeight,
		AscendSpeed:       spec.AscendSpeed,
		AscendThreshold:   spec.AscendThreshold,
	})
}

type stalkerSpec = prefabs.StalkerComponentSpec

func addStalker(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[stalkerSpec](raw)
	if err != nil {
		return fmt.Errorf("decode stalker spec: %w", err)
	}
	return ecs.Add(w, e, component.StalkerComponent.Kind(), &component.Stalker{
		FrontDistance:  spec.FrontDistance,
		BehindDistance: spec.BehindDistance,
		FrontWeight:    spec.FrontWeight,
		LateralMin:     spec.LateralMin,
		LateralMax:     spec.LateralMax,
		SpawnYOffset:   spec.SpawnYOffset,
		RunSpeed:       spec.RunSpeed,
		TurnSpeed:      spec.TurnSpeed,
		LungeTrigger:   spec.LungeTrigger,
		SlowmoWindow:   spec.SlowmoWindow,
		SlowmoScale:    spec.SlowmoScale,
		LungeDistance:  spec.LungeDistance,
		LungeUp:        spec.LungeUp,
		LongCooldown:   spec.LongCooldown,
		ShortCooldown:  spec.ShortCooldown,
		PossessDPS:     spec.PossessDPS,
		PossessOffset:  spec.PossessOffset,
		MashPerPress:   spec.MashPerPress,
		MashRequired:   spec.MashRequired,
		MashDecay:      spec.MashDecay,
		FadeTime:       spec.FadeTime,
		AutoActivate:   spec.AutoActivate,
	})
}

type rusherSpec = prefabs.RusherComponentSpec

func addRusher(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[rusherSpec](raw)
	if err != nil {
		return fmt.Errorf("decode rusher spec: %w", err)
	}
	return ecs.Add(w, e, component.RusherComponent.Kind(), &component.Rusher{Speed: spec.Speed})
}

type appearanceSpec = prefabs.AppearanceComponentSpec

func addAppearance(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[appearanceSpec](raw)
	if err != nil {
		return fmt.Errorf("decode appearance spec: %w", err)
	}
	a := &component.Appearance{Label: spec.Label, Radius: spec.Radius}
	if spec.Color != nil {
		a.Color = spec.Color.Color
	}
	return ecs.Add(w, e, component.AppearanceComponent.Kind(), a)
}

// parseLayers reads a "|"-separated list of layer names.
func parseLayers(s string) (component.Layer, error) {
	var out component.Layer
	for _, name := range strings.Split(s, "|") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		l := component.ParseLayer(name)
		if l == 0 {
			return 0, fmt.Errorf("unknown layer %q", name)
		}
		out |= l
	}
	return out, nil
}
