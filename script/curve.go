package script

import (
	"fmt"
	"math"
	"sync"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/lightfall/logger"
	"github.com/milk9111/lightfall/prefabs"
	"github.com/sirupsen/logrus"
)

// curveDispatch is appended to every curve script. The script must define
// multiplier(frac) returning a number.
const curveDispatch = `
__out = multiplier(__frac)
`

// Curve is a damage multiplier computed by a tengo script. It satisfies
// component.DamageCurve.
type Curve struct {
	name     string
	compiled *tengo.Compiled

	mu     sync.Mutex
	warned bool
}

// LoadCurve reads a script from the prefabs scripts directory and compiles it.
func LoadCurve(path string, params map[string]any) (*Curve, error) {
	src, err := prefabs.LoadScript(path)
	if err != nil {
		return nil, fmt.Errorf("script: load %s: %w", path, err)
	}
	return CompileCurve(path, src, params)
}

// CompileCurve compiles src and runs it once at full health so a script that
// fails at runtime is rejected up front. params is visible to the script as
// the global "params".
func CompileCurve(name string, src []byte, params map[string]any) (*Curve, error) {
	if params == nil {
		params = map[string]any{}
	}
	full := string(src) + "\n" + curveDispatch
	s := tengo.NewScript([]byte(full))
	_ = s.Add("__frac", 1.0)
	_ = s.Add("__out", 1.0)
	if err := s.Add("params", params); err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", name, err)
	}
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", name, err)
	}
	if err := compiled.Run(); err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", name, err)
	}
	return &Curve{name: name, compiled: compiled}, nil
}

// Name returns the script path the curve was built from.
func (c *Curve) Name() string { return c.name }

// Multiplier evaluates the script at hpFrac. Any runtime failure yields 1 so
// a broken script never changes the damage taken.
func (c *Curve) Multiplier(hpFrac float64) float64 {
	if c == nil || c.compiled == nil {
		return 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.compiled.Set("__frac", hpFrac); err != nil {
		c.warn(err)
		return 1
	}
	if err := c.compiled.Run(); err != nil {
		c.warn(err)
		return 1
	}
	v, ok := tengo.ToFloat64(c.compiled.Get("__out").Object())
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		c.warn(fmt.Errorf("multiplier returned %s", c.compiled.Get("__out").ValueType()))
		return 1
	}
	return v
}

func (c *Curve) warn(err error) {
	if c.warned {
		return
	}
	c.warned = true
	logger.Log.WithFields(logrus.Fields{"script": c.name}).WithError(err).Warn("damage curve failed; using 1")
}
