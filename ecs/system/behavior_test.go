package system

import (
	"testing"

	"github.com/milk9111/lightfall/common"
	"github.com/milk9111/lightfall/ecs"
	"github.com/milk9111/lightfall/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWalker(t *testing.T, w *ecs.World, pos common.Vec3) (ecs.Entity, *component.Walker) {
	t.Helper()
	e := newActor(w, pos, 20)
	wk := &component.Walker{
		MoveSpeed:         3,
		StopDistance:      1.2,
		ReengageDistance:  1.6,
		LightAttack:       -1,
		HeavyAttack:       -1,
		GuardRadius:       6,
		LeashRadius:       12,
		ForgetAfter:       0.5,
		ArriveTolerance:   0.15,
		ReturnTimeout:     4,
		BossCheckInterval: 1,
	}
	require.NoError(t, ecs.Add(w, e, component.WalkerComponent.Kind(), wk))
	return e, wk
}

func TestWalkerGuardAndBossOverride(t *testing.T) {
	cases := []struct {
		name string
		boss bool
		want component.StateID
	}{
		{"player outside guard is ignored", false, component.WalkerGuardIdle},
		{"live boss forces pursuit", true, component.WalkerChase},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := ecs.NewWorld()
			w.AddSystem(NewWalkerSystem())
			newPlayer(w, common.V3(20, 0, 0))
			if c.boss {
				boss := newActor(w, common.V3(30, 0, 0), 100)
				require.NoError(t, ecs.Add(w, boss, component.BossTagComponent.Kind(), &component.BossTag{}))
			}
			_, wk := newWalker(t, w, common.Vec3{})

			step(w, 0.1, 3)
			assert.Equal(t, c.want, wk.AI.Current)
		})
	}
}

func TestWalkerLeashReturnsToPost(t *testing.T) {
	w := ecs.NewWorld()
	w.AddSystem(NewWalkerSystem())
	player := newPlayer(w, common.V3(3, 0, 0))
	e, wk := newWalker(t, w, common.Vec3{})

	step(w, 0.1, 2)
	require.Equal(t, component.WalkerChase, wk.AI.Current)

	pt, _ := ecs.Get(w, player, component.TransformComponent.Kind())
	pt.Position = common.V3(30, 0, 0)
	wt, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	wt.Position = common.V3(13, 0, 0)
	step(w, 0.1, 1)
	assert.Equal(t, component.WalkerReturnToPost, wk.AI.Current)

	step(w, 0.1, 60)
	assert.Equal(t, component.WalkerGuardIdle, wk.AI.Current)
	assert.LessOrEqual(t, common.PlanarDistance(wt.Position, common.Vec3{}), 13.0)
}

func TestWalkerForgetsPlayerOutsideGuard(t *testing.T) {
	w := ecs.NewWorld()
	w.AddSystem(NewWalkerSystem())
	player := newPlayer(w, common.V3(3, 0, 0))
	_, wk := newWalker(t, w, common.Vec3{})
	wk.MoveSpeed = 0

	step(w, 0.1, 2)
	require.Equal(t, component.WalkerChase, wk.AI.Current)

	pt, _ := ecs.Get(w, player, component.TransformComponent.Kind())
	pt.Position = common.V3(8, 0, 0)
	returnedAt := -1
	for i := 0; i < 10 && returnedAt < 0; i++ {
		step(w, 0.1, 1)
		if wk.AI.Is(component.WalkerReturnToPost) {
			returnedAt = i
		}
	}
	require.GreaterOrEqual(t, returnedAt, 0, "walker never gave up")
	assert.GreaterOrEqual(t, returnedAt, 3, "forget timer must run out first")
}

func TestWalkerAttacksThroughController(t *testing.T) {
	w := ecs.NewWorld()
	w.AddSystem(NewAttackWindowSystem())
	w.AddSystem(NewWalkerSystem())
	newPlayer(w, common.V3(1, 0, 0))
	e, wk := newWalker(t, w, common.Vec3{})
	wk.LightAttack, wk.HeavyAttack = 0, 1
	wk.LightRange, wk.HeavyRange = 1.3, 2
	wk.LightBias = 1
	require.NoError(t, ecs.Add(w, e, component.AttackControllerComponent.Kind(), component.NewAttackController(comboTable())))

	step(w, 0.05, 2)
	assert.Equal(t, component.WalkerAttack, wk.AI.Current)
	assert.Equal(t, 0, wk.LastAttack)

	step(w, 0.05, 5)
	assert.Equal(t, component.WalkerRecover, wk.AI.Current)
}

func newFlyer(t *testing.T, w *ecs.World, pos common.Vec3) (ecs.Entity, *component.Flyer) {
	t.Helper()
	e := newActor(w, pos, 10)
	f := &component.Flyer{
		OrbitRadius:       3.25,
		OrbitAngularSpeed: 1.9,
		OrbitFollowLerp:   0.2,
		OrbitChaseSpeed:   10,
		OrbitHeight:       2.25,
		OrbitHeightLerp:   4,
		OrbitDurationMin:  10,
		OrbitDurationMax:  10,
		RushSpeed:         1,
		RushContactRadius: 0.45,
		RushDamage:        12,
		RushTimeout:       0.3,
		AscendHeight:      4,
		AscendSpeed:       0.1,
		AscendThreshold:   0.06,
	}
	require.NoError(t, ecs.Add(w, e, component.FlyerComponent.Kind(), f))
	return e, f
}

func TestFlyerRushTimesOutIntoAscend(t *testing.T) {
	w := ecs.NewWorld()
	w.AddSystem(NewFlyerSystem())
	newPlayer(w, common.Vec3{})
	_, f := newFlyer(t, w, common.V3(20, 2, 0))
	f.OrbitDurationMin, f.OrbitDurationMax = 0.1, 0.1

	step(w, 0.1, 1)
	require.Equal(t, component.FlyerRush, f.AI.Current)

	rushFrames := 0
	for f.AI.Is(component.FlyerRush) && rushFrames < 10 {
		step(w, 0.1, 1)
		rushFrames++
	}
	assert.Equal(t, component.FlyerAscend, f.AI.Current)
	assert.Equal(t, 3, rushFrames)
	assert.False(t, f.RushHit)
}

func TestFlyerRushHitsOnce(t *testing.T) {
	w := ecs.NewWorld()
	spatial := ecs.NewSpatialWorld()
	w.SetSpatial(spatial)
	w.AddSystem(NewFlyerSystem())
	w.AddSystem(NewSpatialSyncSystem(spatial))
	player := newPlayer(w, common.Vec3{})
	_, f := newFlyer(t, w, common.V3(0.3, 0, 0))
	f.OrbitDurationMin, f.OrbitDurationMax = 0.1, 0.1
	f.OrbitChaseSpeed = 0
	f.RushTimeout = 0
	spatial.Sync(w)

	step(w, 0.1, 4)
	assert.Equal(t, component.FlyerAscend, f.AI.Current)
	assert.True(t, f.RushHit)
	assert.InDelta(t, 88.0, HP(w, player), 1e-9)
}

func TestFlyerDamagePreemptsIntoAscend(t *testing.T) {
	w := ecs.NewWorld()
	w.AddSystem(NewFlyerSystem())
	newPlayer(w, common.Vec3{})
	e, f := newFlyer(t, w, common.V3(3, 2, 0))

	step(w, 0.1, 2)
	require.Equal(t, component.FlyerOrbit, f.AI.Current)

	ApplyDamage(w, e, 1)
	step(w, 0.1, 1)
	assert.Equal(t, component.FlyerAscend, f.AI.Current)

	elapsed := f.AI.Elapsed
	ApplyDamage(w, e, 1)
	step(w, 0.1, 1)
	assert.Greater(t, f.AI.Elapsed, elapsed, "already ascending: no restart")
}

func newStalker(t *testing.T, w *ecs.World, auto bool) (ecs.Entity, *component.Stalker) {
	t.Helper()
	e := newActor(w, common.V3(10, 0, 0), 10)
	healthOf(w, e).Invulnerable = true
	s := &component.Stalker{
		FrontDistance:  8,
		BehindDistance: 6,
		FrontWeight:    0.7,
		RunSpeed:       9,
		LungeTrigger:   100,
		SlowmoWindow:   0.15,
		SlowmoScale:    0.25,
		LungeDistance:  2.5,
		LungeUp:        0.6,
		LongCooldown:   6,
		ShortCooldown:  2.5,
		MashPerPress:   1,
		MashRequired:   3,
		MashDecay:      1,
		AutoActivate:   auto,
	}
	require.NoError(t, ecs.Add(w, e, component.StalkerComponent.Kind(), s))
	return e, s
}

func TestStalkerSingleSlot(t *testing.T) {
	w := ecs.NewWorld()
	w.AddSystem(NewStalkerSystem())
	newPlayer(w, common.Vec3{})
	a, sa := newStalker(t, w, true)
	b, sb := newStalker(t, w, true)

	step(w, 0.1, 1)
	active := 0
	for _, s := range []*component.Stalker{sa, sb} {
		if !s.AI.Is(component.StalkerInactive) {
			active++
		}
	}
	assert.Equal(t, 1, active)
	assert.Equal(t, a, w.Context().ActiveStalker)
	assert.False(t, ActivateStalker(w, b), "slot is held by a live stalker")

	DeactivateStalker(w, a)
	assert.False(t, w.Context().ActiveStalker.Valid())
	assert.True(t, ActivateStalker(w, b))
	assert.Equal(t, b, w.Context().ActiveStalker)
}

// runToLunge drives a fresh stalker from inactive into its execution window.
func runToLunge(t *testing.T, w *ecs.World, s *component.Stalker) {
	t.Helper()
	step(w, 0.1, 3)
	require.Equal(t, component.StalkerLungeSlowmo, s.AI.Current)
	require.InDelta(t, 0.25, w.Clock().TimeScale(), 1e-9)
}

func TestStalkerExecuteVanishesWithLongCooldown(t *testing.T) {
	w := ecs.NewWorld()
	w.AddSystem(NewStalkerSystem())
	player := newPlayer(w, common.Vec3{})
	_, s := newStalker(t, w, true)
	runToLunge(t, w, s)

	in, _ := ecs.Get(w, player, component.InputComponent.Kind())
	in.ExecutePressed = true
	step(w, 0.1, 1)

	assert.True(t, s.Executed)
	assert.Equal(t, component.StalkerVanishing, s.AI.Current)
	assert.Equal(t, 6.0, s.PendingCooldown)
	assert.InDelta(t, 1.0, w.Clock().TimeScale(), 1e-9)
}

func TestStalkerPossessAndMashFree(t *testing.T) {
	w := ecs.NewWorld()
	w.AddSystem(NewStalkerSystem())
	player := newPlayer(w, common.Vec3{})
	_, s := newStalker(t, w, true)
	runToLunge(t, w, s)

	step(w, 0.1, 2)
	require.Equal(t, component.StalkerPossessing, s.AI.Current)
	assert.InDelta(t, 1.0, w.Clock().TimeScale(), 1e-9)
	ctrl, _ := ecs.Get(w, player, component.AttackControllerComponent.Kind())
	assert.True(t, ctrl.Frozen, "possession freezes the player's attacks")

	s.Mash = 2
	step(w, 0.1, 1)
	assert.InDelta(t, 1.9, s.Mash, 1e-9, "mash decays without presses")

	s.Mash = 0
	in, _ := ecs.Get(w, player, component.InputComponent.Kind())
	in.MashPressed = true
	step(w, 0.1, 3)
	require.Equal(t, component.StalkerPossessing, s.AI.Current)
	assert.InDelta(t, 2.8, s.Mash, 1e-9)

	step(w, 0.1, 1)
	assert.Equal(t, component.StalkerVanishing, s.AI.Current)
	assert.Equal(t, 2.5, s.PendingCooldown)
	assert.False(t, ctrl.Frozen)
}

func TestRusherWalksAtPlayer(t *testing.T) {
	w := ecs.NewWorld()
	w.AddSystem(NewRusherSystem())
	newPlayer(w, common.Vec3{})
	e := newActor(w, common.V3(10, 0, 0), 1)
	require.NoError(t, ecs.Add(w, e, component.RusherComponent.Kind(), &component.Rusher{Speed: 5}))

	step(w, 0.2, 2)
	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	assert.InDelta(t, 8.0, tr.Position.X, 1e-9)
	assert.InDelta(t, -90.0, tr.Yaw, 1e-9)
}
