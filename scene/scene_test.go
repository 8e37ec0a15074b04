package scene

import (
	"testing"

	"github.com/milk9111/lightfall/ecs"
	"github.com/milk9111/lightfall/ecs/component"
	"github.com/milk9111/lightfall/ecs/system"
	"github.com/milk9111/lightfall/prefabs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sceneLog struct {
	ecs.NopPresenter
	scenes []string
}

func (l *sceneLog) LoadScene(name string) { l.scenes = append(l.scenes, name) }

func newSession(t *testing.T, level string, input system.InputSource) (*Session, *sceneLog) {
	t.Helper()
	prev := prefabs.Dir()
	t.Cleanup(func() { prefabs.SetDir(prev) })

	log := &sceneLog{}
	s, err := New(Config{Level: level, PrefabDir: t.TempDir(), Presenter: log, Input: input})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, log
}

func TestSessionLoadsLevel(t *testing.T) {
	s, _ := newSession(t, "arena", nil)
	assert.Equal(t, "arena", s.Level.Name)
	assert.Equal(t, 1, s.Loads())

	_, _, ok := system.FindPlayer(s.World)
	assert.True(t, ok)
	_, ok = ecs.First(s.World, component.EncounterComponent.Kind())
	assert.True(t, ok)
	assert.Positive(t, s.Spatial.Len(), "hurtboxes are indexed before the first frame")

	require.NoError(t, s.Step(1.0/60))
	phase, ok := system.EncounterPhaseOf(s.World, mustBoss(t, s))
	require.True(t, ok)
	assert.Equal(t, component.PhaseP1, phase)
}

func TestSessionUnknownLevel(t *testing.T) {
	prev := prefabs.Dir()
	t.Cleanup(func() { prefabs.SetDir(prev) })
	_, err := New(Config{Level: "nowhere", PrefabDir: t.TempDir()})
	require.Error(t, err)
}

func TestSessionSceneChanges(t *testing.T) {
	s, log := newSession(t, "gauntlet", nil)
	first := s.World

	s.World.Presenter().LoadScene("")
	require.NoError(t, s.Step(1.0/60))
	assert.Equal(t, []string{"gauntlet"}, log.scenes)
	assert.Equal(t, 2, s.Loads())
	assert.NotSame(t, first, s.World, "a restart builds a fresh world")

	s.World.Presenter().LoadScene("credits")
	s.World.Presenter().LoadScene("arena")
	require.NoError(t, s.Step(1.0/60))
	assert.Equal(t, "credits", s.Finished, "the first request in a frame wins")

	loads := s.Loads()
	require.NoError(t, s.Step(1.0/60))
	assert.Equal(t, loads, s.Loads())
}

func TestPlayerDeathRestartsLevel(t *testing.T) {
	s, log := newSession(t, "gauntlet", nil)
	player, _, ok := system.FindPlayer(s.World)
	require.True(t, ok)
	system.ApplyDamage(s.World, player, 1e6)

	for i := 0; i < 120 && s.Loads() == 1; i++ {
		require.NoError(t, s.Step(1.0/60))
	}
	assert.Equal(t, 2, s.Loads())
	assert.Equal(t, []string{"gauntlet"}, log.scenes)
}

func TestAutopilotEngages(t *testing.T) {
	pilot := NewAutopilot(3)
	s, _ := newSession(t, "arena", pilot)
	boss := mustBoss(t, s)
	player, _, _ := system.FindPlayer(s.World)
	system.SetInvulnerable(s.World, player, true)
	start := system.HP(s.World, boss)

	for i := 0; i < 60*20; i++ {
		require.NoError(t, s.Step(1.0/60))
	}
	require.Equal(t, 1, s.Loads())
	assert.Less(t, system.HP(s.World, boss), start, "the autopilot lands hits on the boss")
}

func mustBoss(t *testing.T, s *Session) ecs.Entity {
	t.Helper()
	e, ok := ecs.First(s.World, component.BossTagComponent.Kind())
	require.True(t, ok)
	return e
}
