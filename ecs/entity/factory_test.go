package entity

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/milk9111/lightfall/common"
	"github.com/milk9111/lightfall/ecs"
	"github.com/milk9111/lightfall/ecs/component"
	"github.com/milk9111/lightfall/prefabs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useDir(t *testing.T, dir string) {
	t.Helper()
	prev := prefabs.Dir()
	prefabs.SetDir(dir)
	t.Cleanup(func() { prefabs.SetDir(prev) })
}

func newFactory(t *testing.T) *Factory {
	t.Helper()
	useDir(t, t.TempDir())
	f, err := NewFactory()
	require.NoError(t, err)
	return f
}

func TestFactorySpawnsEveryKind(t *testing.T) {
	f := newFactory(t)
	assert.Equal(t, []string{"boss", "flyer", "player", "rusher", "stalker", "walker"}, f.Kinds())

	tests := []struct {
		kind string
		has  func(w *ecs.World, e ecs.Entity) bool
	}{
		{"player", func(w *ecs.World, e ecs.Entity) bool { return ecs.Has(w, e, component.PlayerComponent.Kind()) }},
		{"walker", func(w *ecs.World, e ecs.Entity) bool { return ecs.Has(w, e, component.WalkerComponent.Kind()) }},
		{"flyer", func(w *ecs.World, e ecs.Entity) bool { return ecs.Has(w, e, component.FlyerComponent.Kind()) }},
		{"stalker", func(w *ecs.World, e ecs.Entity) bool { return ecs.Has(w, e, component.StalkerComponent.Kind()) }},
		{"rusher", func(w *ecs.World, e ecs.Entity) bool { return ecs.Has(w, e, component.RusherComponent.Kind()) }},
		{"boss", func(w *ecs.World, e ecs.Entity) bool { return ecs.Has(w, e, component.EncounterComponent.Kind()) }},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			w := ecs.NewWorld()
			e, err := f.Spawn(w, tt.kind, common.V3(2, 0, 1), 0)
			require.NoError(t, err)
			assert.True(t, tt.has(w, e))
			assert.True(t, ecs.Has(w, e, component.HealthComponent.Kind()))
			assert.True(t, ecs.Has(w, e, component.AppearanceComponent.Kind()))

			tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
			require.True(t, ok)
			assert.Equal(t, 2.0, tr.Position.X)
		})
	}
}

func TestFactoryUnknownKind(t *testing.T) {
	f := newFactory(t)
	w := ecs.NewWorld()
	_, err := f.Spawn(w, "dragon", common.Vec3{}, 0)
	require.Error(t, err)
	assert.EqualError(t, err, `entity: unknown actor kind "dragon"`)
	assert.Equal(t, 0, w.EntityCount())
}

func TestBossGetsPhaseGates(t *testing.T) {
	f := newFactory(t)
	w := ecs.NewWorld()
	e, err := f.Spawn(w, "boss", common.V3(4, 0, 0), 0)
	require.NoError(t, err)

	h, _ := ecs.Get(w, e, component.HealthComponent.Kind())
	assert.Equal(t, []float64{80, 60, 35, 15}, h.Thresholds)
	assert.True(t, h.Gating)
	assert.True(t, h.CustomDeath)

	enc, _ := ecs.Get(w, e, component.EncounterComponent.Kind())
	assert.Equal(t, 15.0, enc.P5Threshold)
	assert.Equal(t, [3]float64{2.5, 2.3, 2.6}, enc.MoveSpeed)
	require.NotNil(t, enc.GroundA)
	assert.Equal(t, "credits", enc.Climax.NextScene)

	c, _ := ecs.Get(w, e, component.AttackControllerComponent.Kind())
	require.Len(t, c.Attacks, 2)
	assert.Equal(t, component.AttackHeavy, c.Attacks[enc.Heavy.Attack].Kind)

	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	assert.Equal(t, -90.0, tr.Yaw, "prefab yaw applies when the spawner passes none")
}

func TestPlayerGetsScriptedCurve(t *testing.T) {
	f := newFactory(t)
	w := ecs.NewWorld()
	e, err := f.Spawn(w, "player", common.Vec3{}, 90)
	require.NoError(t, err)

	h, _ := ecs.Get(w, e, component.HealthComponent.Kind())
	require.NotNil(t, h.Curve)
	assert.InDelta(t, 1.0, h.Curve.Multiplier(1), 1e-9)
	assert.InDelta(t, 0.6, h.Curve.Multiplier(0), 1e-9)

	c, _ := ecs.Get(w, e, component.AttackControllerComponent.Kind())
	assert.Equal(t, 3, c.HeavyStart)
	assert.Equal(t, component.LayerHostile, c.Targets)
	assert.Equal(t, 1, c.Attacks[0].NextLight)
	assert.Equal(t, -1, c.Attacks[2].NextLight)
}

func TestWalkerGuardsItsSpawnPoint(t *testing.T) {
	f := newFactory(t)
	w := ecs.NewWorld()
	e, err := f.Spawn(w, "walker", common.V3(7, 0, -1), 0)
	require.NoError(t, err)
	wk, _ := ecs.Get(w, e, component.WalkerComponent.Kind())
	assert.Equal(t, common.V3(7, 0, -1), wk.GuardCenter)
	assert.Equal(t, 0, wk.LightAttack)
	assert.Equal(t, 1, wk.HeavyAttack)
	assert.False(t, wk.UseBox)
}

func TestReloadPicksUpDiskChanges(t *testing.T) {
	dir := t.TempDir()
	useDir(t, dir)
	f, err := NewFactory("rusher.yaml")
	require.NoError(t, err)

	path := filepath.Join(dir, "rusher.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: rusher\ncomponents:\n  transform: {}\n  rusher: {speed: 11}\n"), 0o644))
	require.NoError(t, f.Reload())

	w := ecs.NewWorld()
	e, err := f.Spawn(w, "rusher", common.Vec3{}, 0)
	require.NoError(t, err)
	r, _ := ecs.Get(w, e, component.RusherComponent.Kind())
	assert.Equal(t, 11.0, r.Speed)

	require.NoError(t, os.WriteFile(path, []byte("name: rusher\ncomponents:\n  hurtbox: {layer: nowhere}\n"), 0o644))
	require.NoError(t, f.Reload(), "specs are decoded lazily; bad layers fail at spawn")
	_, err = f.Spawn(w, "rusher", common.Vec3{}, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown layer "nowhere"`)

	require.NoError(t, os.WriteFile(path, []byte("components: {}\n"), 0o644))
	require.Error(t, f.Reload())
	assert.Equal(t, []string{"rusher"}, f.Kinds(), "a failed reload keeps the previous specs")
}

func TestBuildEntityRejectsBadAttack(t *testing.T) {
	w := ecs.NewWorld()
	spec := prefabs.EntityBuildSpec{
		Name: "broken",
		Components: map[string]any{
			"transform":         map[string]any{},
			"attack_controller": map[string]any{"attacks": []any{map[string]any{"name": "nothing"}}},
		},
	}
	_, err := BuildEntity(w, spec, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "attack has no duration")
	assert.Equal(t, 0, w.EntityCount(), "half-built entities are destroyed")

	spec.Components = map[string]any{"wings": map[string]any{}}
	_, err = BuildEntity(w, spec, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no builder for component "wings"`)
}

func TestLoadLevel(t *testing.T) {
	f := newFactory(t)
	level, err := prefabs.LoadLevel("gauntlet")
	require.NoError(t, err)

	w := ecs.NewWorld()
	spawned, err := LoadLevel(w, f, level)
	require.NoError(t, err)
	assert.Len(t, spawned, len(level.Actors))

	level.Actors = append(level.Actors, prefabs.PlacementSpec{Kind: "ghost"})
	_, err = LoadLevel(ecs.NewWorld(), f, level)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown actor kind "ghost"`)
}
