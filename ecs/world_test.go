package ecs

import (
	"testing"

	"github.com/milk9111/lightfall/common"
	"github.com/milk9111/lightfall/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int {
	return &i
}

func toSet(ents []Entity) map[Entity]struct{} {
	m := make(map[Entity]struct{}, len(ents))
	for _, e := range ents {
		m[e] = struct{}{}
	}
	return m
}

func TestEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, CreateEntity(w))
			}
			require.Equal(t, c.create, w.EntityCount())
			if c.destroyIndex >= 0 {
				require.True(t, DestroyEntity(w, ents[c.destroyIndex]))
				assert.False(t, w.IsAlive(ents[c.destroyIndex]))
				assert.False(t, DestroyEntity(w, ents[c.destroyIndex]), "second destroy is a no-op")
				assert.Equal(t, c.create-1, w.EntityCount())
			}
		})
	}
}

func TestRecycledSlotBumpsGeneration(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	old := CreateEntity(w)
	require.NoError(t, Add(w, old, h.Kind(), intPtr(1)))
	require.True(t, DestroyEntity(w, old))

	fresh := CreateEntity(w)
	assert.Equal(t, old.Index(), fresh.Index())
	assert.NotEqual(t, old, fresh)
	assert.False(t, Has(w, fresh, h.Kind()), "destroy must clear components")

	_, ok := Get(w, old, h.Kind())
	assert.False(t, ok, "stale handle must not alias the recycled slot")
	assert.ErrorIs(t, Add(w, old, h.Kind(), intPtr(2)), component.ErrEntityNotAlive)
}

func TestComponentTable(t *testing.T) {
	w := NewWorld()
	hi := component.NewComponent[int]()
	hs := component.NewComponent[string]()
	e := CreateEntity(w)

	tests := []struct {
		name string
		run  func(t *testing.T)
	}{
		{
			name: "add_get_mutates_in_place",
			run: func(t *testing.T) {
				require.NoError(t, Add(w, e, hi.Kind(), intPtr(10)))
				v, ok := Get(w, e, hi.Kind())
				require.True(t, ok)
				*v = 11
				v2, _ := Get(w, e, hi.Kind())
				assert.Equal(t, 11, *v2)
			},
		},
		{
			name: "nil_component_rejected",
			run: func(t *testing.T) {
				err := Add[string](w, e, hs.Kind(), nil)
				assert.ErrorIs(t, err, component.ErrNilComponent)
				assert.ErrorContains(t, err, "string")
			},
		},
		{
			name: "zero_kind_rejected",
			run: func(t *testing.T) {
				var zero component.ComponentKind[int]
				assert.ErrorIs(t, Add(w, e, zero, intPtr(1)), component.ErrInvalidComponentKind)
			},
		},
		{
			name: "remove",
			run: func(t *testing.T) {
				assert.True(t, Remove(w, e, hi.Kind()))
				assert.False(t, Remove(w, e, hi.Kind()))
				assert.False(t, Has(w, e, hi.Kind()))
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, tc.run)
	}
}

func TestForEach(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)
	e3 := CreateEntity(w)

	require.NoError(t, Add(w, e1, h.Kind(), intPtr(1)))
	require.NoError(t, Add(w, e3, h.Kind(), intPtr(3)))

	var ents []Entity
	ForEach(w, h.Kind(), func(e Entity, _ *int) { ents = append(ents, e) })
	set := toSet(ents)

	assert.Contains(t, set, e1)
	assert.Contains(t, set, e3)
	assert.NotContains(t, set, e2)
}

func TestForEachToleratesDestroyDuringWalk(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()
	var all []Entity
	for i := 0; i < 5; i++ {
		e := CreateEntity(w)
		require.NoError(t, Add(w, e, h.Kind(), intPtr(i)))
		all = append(all, e)
	}

	visited := 0
	ForEach(w, h.Kind(), func(e Entity, v *int) {
		visited++
		for _, other := range all {
			if other != e {
				DestroyEntity(w, other)
			}
		}
	})
	assert.Equal(t, 1, visited)
}

func TestForEach3(t *testing.T) {
	tests := []struct {
		name string
		run  func(t *testing.T)
	}{
		{
			name: "intersection",
			run: func(t *testing.T) {
				w := NewWorld()
				e1 := CreateEntity(w)
				e2 := CreateEntity(w)
				e3 := CreateEntity(w)

				ka := component.NewComponent[int]().Kind()
				kb := component.NewComponent[int]().Kind()
				kc := component.NewComponent[int]().Kind()

				require.NoError(t, Add(w, e1, ka, intPtr(1)))
				require.NoError(t, Add(w, e2, ka, intPtr(2)))
				require.NoError(t, Add(w, e2, kb, intPtr(3)))
				require.NoError(t, Add(w, e2, kc, intPtr(5)))
				require.NoError(t, Add(w, e3, kb, intPtr(4)))

				var res []Entity
				ForEach3(w, ka, kb, kc, func(e Entity, _ *int, _ *int, _ *int) { res = append(res, e) })
				assert.Equal(t, []Entity{e2}, res)
			},
		},
		{
			name: "ignores_dead_entities",
			run: func(t *testing.T) {
				w := NewWorld()
				e := CreateEntity(w)
				ka := component.NewComponent[int]().Kind()
				kb := component.NewComponent[int]().Kind()
				kc := component.NewComponent[int]().Kind()
				require.NoError(t, Add(w, e, ka, intPtr(1)))
				require.NoError(t, Add(w, e, kb, intPtr(2)))
				require.NoError(t, Add(w, e, kc, intPtr(3)))
				require.True(t, DestroyEntity(w, e))

				var res []Entity
				ForEach3(w, ka, kb, kc, func(e Entity, _ *int, _ *int, _ *int) { res = append(res, e) })
				assert.Empty(t, res)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, tc.run)
	}
}

type countingSystem struct {
	seen []float64
}

func (s *countingSystem) Update(w *World) {
	s.seen = append(s.seen, w.Clock().DT())
}

func TestClockScaledAndUnscaled(t *testing.T) {
	w := NewWorld()
	sys := &countingSystem{}
	w.AddSystem(sys)

	w.Update(0.1)
	w.Clock().SetTimeScale(0.25)
	w.Update(0.1)

	require.Len(t, sys.seen, 2)
	assert.InDelta(t, 0.1, sys.seen[0], 1e-9)
	assert.InDelta(t, 0.025, sys.seen[1], 1e-9)
	assert.InDelta(t, 0.2, w.Clock().UnscaledTime(), 1e-9)
	assert.InDelta(t, 0.125, w.Clock().Time(), 1e-9)
	assert.Equal(t, uint64(2), w.Clock().Frame())
}

func TestEventsLiveForOneFrame(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)
	var seenDeaths int
	w.AddSystem(systemFunc(func(w *World) {
		if w.Clock().Frame() == 1 {
			w.Events().Push(Event{Type: EventDeath, Data: DeathEvent{Entity: e}})
		}
	}))
	w.AddSystem(systemFunc(func(w *World) {
		seenDeaths += len(w.Events().Deaths())
	}))

	w.Update(0.016)
	w.Update(0.016)
	assert.Equal(t, 1, seenDeaths)
	assert.Empty(t, w.Events().Pending())
}

type systemFunc func(w *World)

func (f systemFunc) Update(w *World) { f(w) }

func TestContextStalkerSlot(t *testing.T) {
	w := NewWorld()
	a := CreateEntity(w)
	b := CreateEntity(w)
	ctx := w.Context()

	assert.True(t, ctx.ClaimStalkerSlot(w, a))
	assert.True(t, ctx.ClaimStalkerSlot(w, a), "re-claiming own slot succeeds")
	assert.False(t, ctx.ClaimStalkerSlot(w, b))

	DestroyEntity(w, a)
	assert.True(t, ctx.ClaimStalkerSlot(w, b), "slot held by a dead stalker is free")

	ctx.ReleaseStalkerSlot(a)
	assert.Equal(t, b, ctx.ActiveStalker, "release by a non-holder is ignored")
}

func TestContextClimaxFlag(t *testing.T) {
	ctx := NewWorld().Context()
	assert.True(t, ctx.TryStartClimax())
	assert.False(t, ctx.TryStartClimax())
	assert.NotEqual(t, ctx.NextSwingID(), ctx.NextSwingID())
}

func TestSpatialWorldOverlap(t *testing.T) {
	w := NewWorld()
	sw := NewSpatialWorld()

	spawn := func(pos common.Vec3, layer component.Layer, solid bool) Entity {
		e := CreateEntity(w)
		require.NoError(t, Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: pos}))
		require.NoError(t, Add(w, e, component.HurtboxComponent.Kind(), &component.Hurtbox{Radius: 0.5, Layer: layer, Solid: solid}))
		return e
	}

	player := spawn(common.V3(0, 0, 0), component.LayerPlayer, false)
	enemy := spawn(common.V3(1.2, 0, 0), component.LayerEnemy, false)
	wall := spawn(common.V3(0.5, 0, 0), component.LayerEnemy, true)
	farZ := spawn(common.V3(0, 0, 5), component.LayerEnemy, false)
	sw.Sync(w)
	require.Equal(t, 4, sw.Len())

	got := sw.Overlap(common.V3(0.5, 0, 0), 0.8, QueryFilter{Layers: component.LayerEnemy})
	assert.ElementsMatch(t, []Entity{enemy, wall}, got, "depth is checked exactly even though the broadphase is planar")

	got = sw.Overlap(common.V3(0.5, 0, 0), 0.8, QueryFilter{Layers: component.LayerEnemy, Sensors: true})
	assert.Equal(t, []Entity{enemy}, got)

	got = sw.Overlap(common.V3(0, 0, 0), 0.1, QueryFilter{Layers: component.LayerPlayer})
	assert.Equal(t, []Entity{player}, got)

	tr, _ := Get(w, enemy, component.TransformComponent.Kind())
	tr.Position = common.V3(10, 0, 0)
	DestroyEntity(w, farZ)
	sw.Sync(w)
	assert.Equal(t, 3, sw.Len())
	assert.Empty(t, sw.Overlap(common.V3(1.5, 0, 0), 0.3, QueryFilter{Layers: component.LayerEnemy}))
	assert.Equal(t, []Entity{enemy}, sw.Overlap(common.V3(10, 0, 0), 0.1, QueryFilter{Layers: component.LayerEnemy}))
}
