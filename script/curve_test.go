package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileCurveEvaluates(t *testing.T) {
	c, err := CompileCurve("linear", []byte(`multiplier := func(frac) { return 2 * frac }`), nil)
	require.NoError(t, err)

	tests := []struct {
		frac float64
		want float64
	}{
		{1, 2},
		{0.5, 1},
		{0, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, c.Multiplier(tt.frac), 1e-9)
	}
}

func TestCompileCurveParams(t *testing.T) {
	src := []byte(`multiplier := func(frac) { return params.scale }`)
	c, err := CompileCurve("params", src, map[string]any{"scale": 0.25})
	require.NoError(t, err)
	assert.InDelta(t, 0.25, c.Multiplier(0.7), 1e-9)
}

func TestCompileCurveErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "syntax", src: `multiplier := func(frac {`},
		{name: "missing function", src: `x := 1`},
		{name: "runtime", src: `multiplier := func(frac) { return frac.nope() }`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileCurve(tt.name, []byte(tt.src), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "script: compile "+tt.name)
		})
	}
}

func TestMultiplierFallsBackToOne(t *testing.T) {
	src := []byte(`multiplier := func(frac) { if frac < 0.5 { return "bad" }; return 3 }`)
	c, err := CompileCurve("fallback", src, nil)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, c.Multiplier(0.9), 1e-9)
	assert.Equal(t, 1.0, c.Multiplier(0.1))

	var nilCurve *Curve
	assert.Equal(t, 1.0, nilCurve.Multiplier(0.5))
}

func TestLoadCurveFromPrefabs(t *testing.T) {
	c, err := LoadCurve("adaptive.tengo", map[string]any{"floor": 0.6})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, c.Multiplier(1), 1e-9)
	assert.InDelta(t, 0.6, c.Multiplier(0), 1e-9)

	_, err = LoadCurve("missing.tengo", nil)
	require.Error(t, err)
}
