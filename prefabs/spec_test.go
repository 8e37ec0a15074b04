package prefabs

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func useDir(t *testing.T, dir string) {
	t.Helper()
	prev := Dir()
	SetDir(dir)
	t.Cleanup(func() { SetDir(prev) })
}

func TestEmbeddedActorPrefabsLoad(t *testing.T) {
	useDir(t, t.TempDir())
	for _, file := range DefaultActorPrefabs {
		t.Run(file, func(t *testing.T) {
			spec, err := LoadEntityBuildSpec(file)
			require.NoError(t, err)
			assert.NotEmpty(t, spec.Name)
			assert.NotEmpty(t, spec.Components)
		})
	}
}

func TestLoadSpecPrefersDisk(t *testing.T) {
	dir := t.TempDir()
	useDir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rusher.yaml"), []byte("name: sprinter\ncomponents:\n  rusher: {speed: 9}\n"), 0o644))

	spec, err := LoadEntityBuildSpec("prefabs/rusher.yaml")
	require.NoError(t, err)
	assert.Equal(t, "sprinter", spec.Name)

	_, ok := ModTime("rusher.yaml")
	assert.True(t, ok)
}

func TestLoadSpecErrors(t *testing.T) {
	dir := t.TempDir()
	useDir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("name: [unterminated"), 0o644))

	_, err := LoadEntityBuildSpec("missing.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prefabs: load missing.yaml")

	_, err = LoadEntityBuildSpec("broken.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prefabs: unmarshal broken.yaml")
}

func TestDecodeComponentSpecDefaults(t *testing.T) {
	flyer, err := DecodeComponentSpec[FlyerComponentSpec](map[string]any{"rush_speed": 20})
	require.NoError(t, err)
	assert.Equal(t, 20.0, flyer.RushSpeed)
	assert.Equal(t, 3.25, flyer.OrbitRadius)
	require.NotNil(t, flyer.RushTimeout)
	assert.Equal(t, 3.0, *flyer.RushTimeout)

	flyer, err = DecodeComponentSpec[FlyerComponentSpec](map[string]any{"rush_timeout": 0})
	require.NoError(t, err)
	assert.Equal(t, 0.0, *flyer.RushTimeout, "an explicit zero timeout survives defaults")

	health, err := DecodeComponentSpec[HealthComponentSpec](nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, health.Max)
	assert.Equal(t, 0.01, health.Epsilon)
	assert.Equal(t, 0.3, *health.DespawnDelay)
}

func TestEncounterDefaults(t *testing.T) {
	var enc EncounterComponentSpec
	enc.Defaults()
	assert.Equal(t, []float64{80, 60, 35, 15}, enc.Thresholds)
	assert.Equal(t, 1, enc.Heavy.Attack)
	assert.Equal(t, WaveComponentSpec{Waves: 3, PerWave: 4, Gap: 2.0}, enc.P2Waves)
	assert.True(t, enc.P4Waves.Flying)
	assert.Equal(t, 6, enc.Climax.GroundPerSide)
	assert.Equal(t, 0.15, enc.Climax.SlowmoScale)
}

func TestYAMLColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.Color
		wantErr bool
	}{
		{in: `"#ff0080"`, want: color.NRGBA{R: 255, G: 0, B: 128, A: 255}},
		{in: `"#ff008040"`, want: color.NRGBA{R: 255, G: 0, B: 128, A: 64}},
		{in: `gold`, want: color.RGBA{R: 255, G: 215, B: 0, A: 255}},
		{in: `"#abc"`, wantErr: true},
		{in: `[1, 2]`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var c YAMLColor
			err := yaml.Unmarshal([]byte(tt.in), &c)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Color)
		})
	}
}

func TestLoadLevel(t *testing.T) {
	useDir(t, t.TempDir())
	level, err := LoadLevel("gauntlet")
	require.NoError(t, err)
	assert.Equal(t, "gauntlet", level.Name)
	assert.Equal(t, DefaultActorPrefabs, level.Prefabs)
	require.NotEmpty(t, level.Actors)
	assert.Equal(t, "player", level.Actors[0].Kind)

	_, err = LoadLevel("levels/arena.yaml")
	require.NoError(t, err)
}

func TestLoadScriptPaths(t *testing.T) {
	useDir(t, t.TempDir())
	for _, name := range []string{"adaptive.tengo", "scripts/adaptive.tengo", "prefabs/scripts/adaptive.tengo"} {
		data, err := LoadScript(name)
		require.NoError(t, err, name)
		assert.Contains(t, string(data), "multiplier")
	}
}
