package system

import (
	"testing"

	"github.com/milk9111/lightfall/common"
	"github.com/milk9111/lightfall/ecs"
	"github.com/milk9111/lightfall/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClimaxWorld(t *testing.T) (*ecs.World, *Pipeline, *recorder, *stubFactory, ecs.Entity, ecs.Entity) {
	t.Helper()
	w := ecs.NewWorld()
	rec := newRecorder()
	f := &stubFactory{}
	w.SetPresenter(rec)
	w.SetFactory(f)
	p := Install(w, nil, nil)

	player := newPlayer(w, common.Vec3{})
	boss, enc := newBoss(t, w, common.V3(5, 0, 0))
	healthOf(w, boss).Thresholds = nil
	enc.Climax = component.ClimaxConfig{
		ZoomFOV:          35,
		ZoomSeconds:      0.1,
		FlashSeconds:     0.05,
		SlowmoScale:      0.5,
		SlowmoSeconds:    0.2,
		Seconds:          0.3,
		PulseInterval:    0.1,
		GroundPerSide:    1,
		FlyingCount:      1,
		PulseGroundSide:  1,
		ArmDelay:         0.05,
		RusherSpeed:      6.5,
		BloodPerKill:     0.1,
		BloodMax:         0.9,
		BloodEase:        10,
		KillGraceSeconds: 0.05,
		FadeSeconds:      0.15,
		FinalEffect:      "big_explosion",
		NextScene:        "credits",
	}
	return w, p, rec, f, player, boss
}

func TestClimaxRunsOnce(t *testing.T) {
	w, p, rec, f, player, boss := newClimaxWorld(t)
	rival, rivalEnc := newBoss(t, w, common.V3(-5, 0, 0))

	ApplyDamage(w, boss, 1000)
	w.Events().Push(ecs.Event{Type: ecs.EventDeath, Data: ecs.DeathEvent{Entity: boss}})
	ApplyDamage(w, rival, 1000)
	step(w, 0.05, 1)
	require.True(t, p.Climax.Running())

	step(w, 0.05, 60)
	assert.True(t, p.Climax.Done())
	assert.Equal(t, []string{"credits"}, rec.scenes)
	assert.Equal(t, []string{"light_explosion", "big_explosion"}, rec.effects)
	assert.NotEqual(t, component.PhaseDead, rivalEnc.Runtime.Phase, "only the first death wins")

	assert.True(t, w.IsAlive(boss), "the boss is frozen, never destroyed")
	assert.True(t, ecs.Has(w, boss, component.HiddenComponent.Kind()))
	assert.True(t, ecs.Has(w, boss, component.FrozenComponent.Kind()))
	hb, ok := ecs.Get(w, boss, component.HurtboxComponent.Kind())
	if ok {
		assert.True(t, hb.Disabled)
	}

	assert.True(t, healthOf(w, player).Invulnerable)
	assert.InDelta(t, 1.0, w.Clock().TimeScale(), 1e-9)
	assert.Empty(t, w.Context().KillTrackers())
	assert.NotEmpty(t, f.spawned)
	assert.InDelta(t, 35.0, rec.cameras[len(rec.cameras)-1], 1e-9)
	assert.InDelta(t, 0.9, rec.overlays["blood"], 1e-9)
}

// runToFinale kills the boss and steps until the finale has armed its first
// spawns and the kill grace has passed.
func runToFinale(t *testing.T, w *ecs.World, p *Pipeline, boss ecs.Entity) {
	t.Helper()
	ApplyDamage(w, boss, 1000)
	for i := 0; i < 40; i++ {
		step(w, 0.05, 1)
		if run := p.Climax.run; run != nil && run.stage == climaxFinale && run.elapsed >= 0.15 {
			break
		}
	}
	require.Equal(t, climaxFinale, p.Climax.run.stage)
}

func TestClimaxCountsArmedKills(t *testing.T) {
	w, p, _, f, _, boss := newClimaxWorld(t)

	runToFinale(t, w, p, boss)
	require.NotEmpty(t, f.spawned)
	assert.Zero(t, p.Climax.Kills())

	ApplyDamage(w, f.spawned[0], 5)
	step(w, 0.05, 1)
	assert.Equal(t, 1, p.Climax.Kills())

	step(w, 0.05, 1)
	assert.Greater(t, p.Climax.Blood(), 0.0)
	assert.LessOrEqual(t, p.Climax.Blood(), 0.1+1e-9)
}

func TestClimaxIgnoresPhaseWaveKills(t *testing.T) {
	w, p, _, f, _, boss := newClimaxWorld(t)
	enc, ok := ecs.Get(w, boss, component.EncounterComponent.Kind())
	require.True(t, ok)

	wave := spawnEncounterWave(w, enc, component.WaveSpec{Kind: "walker"}, 1)
	require.Len(t, wave, 1)
	assert.False(t, ecs.Has(w, wave[0], component.KillCreditComponent.Kind()))

	runToFinale(t, w, p, boss)
	require.Greater(t, len(f.spawned), 1)

	ApplyDamage(w, wave[0], 1000)
	require.True(t, IsDead(w, wave[0]))
	step(w, 0.05, 1)
	assert.Zero(t, p.Climax.Kills(), "actors from phase waves never feed the finale counter")

	ApplyDamage(w, f.spawned[1], 1000)
	step(w, 0.05, 1)
	assert.Equal(t, 1, p.Climax.Kills())
}
