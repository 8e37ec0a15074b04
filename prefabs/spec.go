package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/milk9111/lightfall/common"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

type defaulter interface {
	Defaults()
}

func applyDefaults(v any) {
	if d, ok := v.(defaulter); ok {
		d.Defaults()
	}
}

// LoadSpec reads and decodes a YAML prefab. Specs with a Defaults method get
// their zero fields filled after decoding.
func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	applyDefaults(&spec)
	return spec, nil
}

// LevelSpec lists the actor prefabs a level needs and where its actors start.
type LevelSpec struct {
	Name    string          `yaml:"name"`
	Seed    uint64          `yaml:"seed"`
	Prefabs []string        `yaml:"prefabs"`
	Actors  []PlacementSpec `yaml:"actors"`
}

type PlacementSpec struct {
	Kind     string      `yaml:"kind"`
	Position common.Vec3 `yaml:"position"`
	Yaw      float64     `yaml:"yaw"`
}

func (s *LevelSpec) Defaults() {
	if len(s.Prefabs) == 0 {
		s.Prefabs = append([]string(nil), DefaultActorPrefabs...)
	}
}

// DefaultActorPrefabs are the actor files shipped with the game.
var DefaultActorPrefabs = []string{
	"player.yaml",
	"walker.yaml",
	"flyer.yaml",
	"stalker.yaml",
	"rusher.yaml",
	"encounter.yaml",
}

// LoadLevel reads levels/<name>.yaml. The extension is optional.
func LoadLevel(name string) (LevelSpec, error) {
	name = strings.TrimSuffix(name, ".yaml")
	name = strings.TrimPrefix(name, "levels/")
	return LoadSpec[LevelSpec]("levels/" + name + ".yaml")
}

// YAMLColor accepts "#rrggbb", "#rrggbbaa" or an SVG color name.
type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	if named, ok := colornames.Map[strings.ToLower(value.Value)]; ok {
		c.Color = named
		return nil
	}

	s := strings.TrimPrefix(value.Value, "#")
	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
