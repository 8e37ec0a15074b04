package system

import (
	"errors"
	"testing"

	"github.com/milk9111/lightfall/common"
	"github.com/milk9111/lightfall/ecs"
	"github.com/milk9111/lightfall/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedInput []component.Input

func (s *scriptedInput) Poll(*ecs.World) component.Input {
	if len(*s) == 0 {
		return component.Input{}
	}
	in := (*s)[0]
	*s = (*s)[1:]
	return in
}

func newControlledPlayer(t *testing.T, w *ecs.World) (ecs.Entity, *component.Player) {
	t.Helper()
	e := newPlayer(w, common.Vec3{})
	p := &component.Player{MoveSpeed: 5, DeathFade: 0.3, Scene: "arena"}
	require.NoError(t, ecs.Add(w, e, component.PlayerComponent.Kind(), p))
	ctrl, _ := ecs.Get(w, e, component.AttackControllerComponent.Kind())
	ctrl.Attacks = comboTable()
	return e, p
}

func TestPlayerMovesBlocksAndAttacks(t *testing.T) {
	w := ecs.NewWorld()
	script := scriptedInput{
		{MoveX: 1},
		{MoveX: -1, Block: true},
		{LightPressed: true},
	}
	w.AddSystem(NewInputSystem(&script))
	w.AddSystem(NewPlayerControllerSystem())
	w.AddSystem(NewAttackWindowSystem())
	e, _ := newControlledPlayer(t, w)
	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())

	step(w, 0.1, 1)
	assert.InDelta(t, 0.5, tr.Position.X, 1e-9)
	assert.Equal(t, 90.0, tr.Yaw)

	step(w, 0.1, 1)
	assert.True(t, IsBlocking(w, e))
	assert.InDelta(t, 0.5, tr.Position.X, 1e-9, "blocking roots the player")

	step(w, 0.1, 1)
	assert.False(t, IsBlocking(w, e))
	ctrl, _ := ecs.Get(w, e, component.AttackControllerComponent.Kind())
	assert.Equal(t, 0, ctrl.Current)
}

func TestPlayerDeathRestartsOnce(t *testing.T) {
	w := ecs.NewWorld()
	rec := newRecorder()
	w.SetPresenter(rec)
	w.AddSystem(NewPlayerControllerSystem())
	e, p := newControlledPlayer(t, w)

	ApplyDamage(w, e, 500)
	step(w, 0.1, 2)
	assert.True(t, p.Dying)
	assert.Empty(t, rec.scenes)
	assert.Greater(t, rec.overlays["blackout"], 0.0)

	step(w, 0.1, 5)
	assert.Equal(t, []string{"arena"}, rec.scenes)
	assert.Equal(t, 1.0, rec.overlays["blackout"])
}

type fakeReloader struct {
	calls int
	err   error
}

func (f *fakeReloader) Reload() error {
	f.calls++
	return f.err
}

func TestReloadSystemCoalescesChanges(t *testing.T) {
	w := ecs.NewWorld()
	changes := make(chan string, 4)
	target := &fakeReloader{}
	w.AddSystem(NewReloadSystem(changes, target))

	step(w, 0.1, 1)
	assert.Zero(t, target.calls)

	changes <- "walker.yaml"
	changes <- "flyer.yaml"
	step(w, 0.1, 1)
	assert.Equal(t, 1, target.calls)

	target.err = errors.New("bad yaml")
	changes <- "walker.yaml"
	close(changes)
	assert.NotPanics(t, func() { step(w, 0.1, 2) })
	assert.Equal(t, 2, target.calls)
}
