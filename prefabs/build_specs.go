package prefabs

import (
	"github.com/milk9111/lightfall/common"
	"gopkg.in/yaml.v3"
)

// EntityBuildSpec is an actor prefab: a kind name plus the raw per-component
// settings the entity builders decode.
type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

// DecodeComponentSpec re-decodes one raw component block into T and fills
// its defaults.
func DecodeComponentSpec[T any](raw any) (T, error) {
	var out T
	if raw != nil {
		b, err := yaml.Marshal(raw)
		if err != nil {
			return out, err
		}
		if err := yaml.Unmarshal(b, &out); err != nil {
			return out, err
		}
	}
	applyDefaults(&out)
	return out, nil
}

type TransformComponentSpec struct {
	Position common.Vec3 `yaml:"position"`
	Yaw      float64     `yaml:"yaw"`
}

type MotionComponentSpec struct {
	DampTime float64  `yaml:"damp_time"`
	LockY    *float64 `yaml:"lock_y"`
	Gravity  float64  `yaml:"gravity"`
	FloorY   float64  `yaml:"floor_y"`
}

type HealthComponentSpec struct {
	Max        float64   `yaml:"max"`
	Thresholds []float64 `yaml:"thresholds"`
	Gating     bool      `yaml:"gating"`
	Epsilon    float64   `yaml:"epsilon"`

	BlockMultiplier   float64        `yaml:"block_multiplier"`
	AdaptiveAtFull    float64        `yaml:"adaptive_at_full"`
	AdaptiveAtZero    float64        `yaml:"adaptive_at_zero"`
	CurveScript       string         `yaml:"curve_script"`
	CurveParams       map[string]any `yaml:"curve_params"`
	PostHitMultiplier float64        `yaml:"post_hit_multiplier"`
	PostHitWindow     float64        `yaml:"post_hit_window"`

	Invulnerable   bool     `yaml:"invulnerable"`
	CustomDeath    bool     `yaml:"custom_death"`
	DespawnDelay   *float64 `yaml:"despawn_delay"`
	HitMinInterval float64  `yaml:"hit_min_interval"`
}

func (s *HealthComponentSpec) Defaults() {
	if s.Max <= 0 {
		s.Max = 1
	}
	if s.Epsilon <= 0 {
		s.Epsilon = 0.01
	}
	if s.DespawnDelay == nil {
		d := 0.3
		s.DespawnDelay = &d
	}
}

type HurtboxComponentSpec struct {
	Radius float64     `yaml:"radius"`
	Offset common.Vec3 `yaml:"offset"`
	Layer  string      `yaml:"layer"`
	Solid  bool        `yaml:"solid"`
}

func (s *HurtboxComponentSpec) Defaults() {
	if s.Radius <= 0 {
		s.Radius = 0.5
	}
	if s.Layer == "" {
		s.Layer = "enemy"
	}
}

type ContactDamageComponentSpec struct {
	Damage       float64 `yaml:"damage"`
	Radius       float64 `yaml:"radius"`
	Targets      string  `yaml:"targets"`
	RepeatWindow float64 `yaml:"repeat_window"`
}

func (s *ContactDamageComponentSpec) Defaults() {
	if s.Targets == "" {
		s.Targets = "player"
	}
	if s.RepeatWindow <= 0 {
		s.RepeatWindow = 0.2
	}
}

type HitVolumeSpec struct {
	Radius float64     `yaml:"radius"`
	Offset common.Vec3 `yaml:"offset"`
	Start  float64     `yaml:"start"`
	End    float64     `yaml:"end"`
	Damage float64     `yaml:"damage"`
}

type AttackSpec struct {
	Name    string  `yaml:"name"`
	Kind    string  `yaml:"kind"`
	Trigger string  `yaml:"trigger"`
	Windup  float64 `yaml:"windup"`
	Active  float64 `yaml:"active"`
	Recover float64 `yaml:"recover"`

	Damage   float64         `yaml:"damage"`
	Cooldown float64         `yaml:"cooldown"`
	Volumes  []HitVolumeSpec `yaml:"volumes"`

	ComboOpen    float64 `yaml:"combo_open"`
	ComboClose   float64 `yaml:"combo_close"`
	EarliestExit float64 `yaml:"earliest_exit"`
	NextLight    *int    `yaml:"next_light"`
	NextHeavy    *int    `yaml:"next_heavy"`

	Motion         common.Curve `yaml:"motion"`
	MotionScale    float64      `yaml:"motion_scale"`
	MotionMode     string       `yaml:"motion_mode"`
	ImpulseForward float64      `yaml:"impulse_forward"`
	ImpulseUp      float64      `yaml:"impulse_up"`
}

type AttackControllerComponentSpec struct {
	Attacks              []AttackSpec `yaml:"attacks"`
	LightStart           int          `yaml:"light_start"`
	HeavyStart           *int         `yaml:"heavy_start"`
	Targets              string       `yaml:"targets"`
	InputBufferTime      float64      `yaml:"input_buffer_time"`
	IdleReturnGrace      float64      `yaml:"idle_return_grace"`
	ExitDampTime         float64      `yaml:"exit_damp_time"`
	GateCombosOnCooldown bool         `yaml:"gate_combos_on_cooldown"`
}

func (s *AttackControllerComponentSpec) Defaults() {
	if s.Targets == "" {
		s.Targets = "player"
	}
	if s.InputBufferTime <= 0 {
		s.InputBufferTime = 0.2
	}
	if s.IdleReturnGrace <= 0 {
		s.IdleReturnGrace = 0.2
	}
	for i := range s.Attacks {
		a := &s.Attacks[i]
		if a.Kind == "" {
			a.Kind = "light"
		}
		if a.Trigger == "" {
			a.Trigger = "attack_" + a.Kind
		}
		if a.MotionScale == 0 {
			a.MotionScale = 1
		}
	}
}

type PlayerComponentSpec struct {
	MoveSpeed float64 `yaml:"move_speed"`
	DeathFade float64 `yaml:"death_fade"`
	Scene     string  `yaml:"scene"`
}

func (s *PlayerComponentSpec) Defaults() {
	if s.MoveSpeed <= 0 {
		s.MoveSpeed = 5
	}
	if s.DeathFade <= 0 {
		s.DeathFade = 1
	}
}

type WalkerComponentSpec struct {
	MoveSpeed        float64 `yaml:"move_speed"`
	StopDistance     float64 `yaml:"stop_distance"`
	ReengageDistance float64 `yaml:"reengage_distance"`
	TurnSpeed        float64 `yaml:"turn_speed"`

	LightAttack    *int    `yaml:"light_attack"`
	HeavyAttack    *int    `yaml:"heavy_attack"`
	LightRange     float64 `yaml:"light_range"`
	HeavyRange     float64 `yaml:"heavy_range"`
	LightBias      float64 `yaml:"light_bias"`
	AttackCooldown float64 `yaml:"attack_cooldown"`

	// A guard box replaces the guard circle when both corners are set.
	GuardCenter common.Vec3  `yaml:"guard_center"`
	GuardRadius float64      `yaml:"guard_radius"`
	GuardMin    *common.Vec3 `yaml:"guard_min"`
	GuardMax    *common.Vec3 `yaml:"guard_max"`
	// GuardAtSpawn centers the guard circle on the spawn point.
	GuardAtSpawn bool `yaml:"guard_at_spawn"`

	LeashRadius       float64 `yaml:"leash_radius"`
	ForgetAfter       float64 `yaml:"forget_after"`
	ReturnSpeedMult   float64 `yaml:"return_speed_mult"`
	ArriveTolerance   float64 `yaml:"arrive_tolerance"`
	ReturnTimeout     float64 `yaml:"return_timeout"`
	BossCheckInterval float64 `yaml:"boss_check_interval"`
}

func (s *WalkerComponentSpec) Defaults() {
	setDefault(&s.MoveSpeed, 3)
	setDefault(&s.StopDistance, 1.2)
	setDefault(&s.ReengageDistance, 1.6)
	setDefault(&s.TurnSpeed, 540)
	setDefault(&s.LightRange, 1.3)
	setDefault(&s.HeavyRange, 2.0)
	setDefault(&s.LightBias, 0.6)
	setDefault(&s.AttackCooldown, 0.3)
	setDefault(&s.GuardRadius, 6)
	setDefault(&s.LeashRadius, 12)
	setDefault(&s.ForgetAfter, 2)
	setDefault(&s.ReturnSpeedMult, 1.1)
	setDefault(&s.ArriveTolerance, 0.15)
	setDefault(&s.ReturnTimeout, 4)
	setDefault(&s.BossCheckInterval, 1)
	if s.LightAttack == nil {
		s.LightAttack = intPtr(0)
	}
	if s.HeavyAttack == nil {
		s.HeavyAttack = intPtr(1)
	}
}

type FlyerComponentSpec struct {
	OrbitRadius       float64 `yaml:"orbit_radius"`
	OrbitJitter       float64 `yaml:"orbit_jitter"`
	OrbitAngularSpeed float64 `yaml:"orbit_angular_speed"`
	OrbitFollowLerp   float64 `yaml:"orbit_follow_lerp"`
	OrbitChaseSpeed   float64 `yaml:"orbit_chase_speed"`
	OrbitHeight       float64 `yaml:"orbit_height"`
	OrbitHeightLerp   float64 `yaml:"orbit_height_lerp"`
	OrbitDurationMin  float64 `yaml:"orbit_duration_min"`
	OrbitDurationMax  float64 `yaml:"orbit_duration_max"`

	RushSpeed         float64  `yaml:"rush_speed"`
	RushContactRadius float64  `yaml:"rush_contact_radius"`
	RushDamage        float64  `yaml:"rush_damage"`
	RushTimeout       *float64 `yaml:"rush_timeout"`

	AscendHeight    float64 `yaml:"ascend_height"`
	AscendSpeed     float64 `yaml:"ascend_speed"`
	AscendThreshold float64 `yaml:"ascend_threshold"`
}

func (s *FlyerComponentSpec) Defaults() {
	setDefault(&s.OrbitRadius, 3.25)
	setDefault(&s.OrbitJitter, 0.85)
	setDefault(&s.OrbitAngularSpeed, 1.9)
	setDefault(&s.OrbitFollowLerp, 0.1)
	setDefault(&s.OrbitChaseSpeed, 10)
	setDefault(&s.OrbitHeight, 2.25)
	setDefault(&s.OrbitHeightLerp, 6)
	setDefault(&s.OrbitDurationMin, 0.9)
	setDefault(&s.OrbitDurationMax, 1.9)
	setDefault(&s.RushSpeed, 12)
	setDefault(&s.RushContactRadius, 0.45)
	setDefault(&s.RushDamage, 12)
	setDefault(&s.AscendHeight, 4)
	setDefault(&s.AscendSpeed, 11.5)
	setDefault(&s.AscendThreshold, 0.06)
	if s.RushTimeout == nil {
		d := 3.0
		s.RushTimeout = &d
	}
}

type StalkerComponentSpec struct {
	FrontDistance  float64 `yaml:"front_distance"`
	BehindDistance float64 `yaml:"behind_distance"`
	FrontWeight    float64 `yaml:"front_weight"`
	LateralMin     float64 `yaml:"lateral_min"`
	LateralMax     float64 `yaml:"lateral_max"`
	SpawnYOffset   float64 `yaml:"spawn_y_offset"`

	RunSpeed      float64     `yaml:"run_speed"`
	TurnSpeed     float64     `yaml:"turn_speed"`
	LungeTrigger  float64     `yaml:"lunge_trigger"`
	SlowmoWindow  float64     `yaml:"slowmo_window"`
	SlowmoScale   float64     `yaml:"slowmo_scale"`
	LungeDistance float64     `yaml:"lunge_distance"`
	LungeUp       float64     `yaml:"lunge_up"`
	LongCooldown  float64     `yaml:"long_cooldown"`
	ShortCooldown float64     `yaml:"short_cooldown"`
	PossessDPS    float64     `yaml:"possess_dps"`
	PossessOffset common.Vec3 `yaml:"possess_offset"`
	MashPerPress  float64     `yaml:"mash_per_press"`
	MashRequired  float64     `yaml:"mash_required"`
	MashDecay     float64     `yaml:"mash_decay"`
	FadeTime      float64     `yaml:"fade_time"`
	AutoActivate  bool        `yaml:"auto_activate"`
}

func (s *StalkerComponentSpec) Defaults() {
	setDefault(&s.FrontDistance, 8)
	setDefault(&s.BehindDistance, 6)
	setDefault(&s.FrontWeight, 0.7)
	setDefault(&s.RunSpeed, 9)
	setDefault(&s.TurnSpeed, 720)
	setDefault(&s.LungeTrigger, 3.2)
	setDefault(&s.SlowmoWindow, 0.85)
	setDefault(&s.SlowmoScale, 0.25)
	setDefault(&s.LungeDistance, 2.5)
	setDefault(&s.LungeUp, 0.6)
	setDefault(&s.LongCooldown, 6)
	setDefault(&s.ShortCooldown, 2.5)
	setDefault(&s.PossessDPS, 6)
	setDefault(&s.MashPerPress, 1)
	setDefault(&s.MashRequired, 12)
	setDefault(&s.MashDecay, 1.5)
	setDefault(&s.FadeTime, 0.25)
}

type RusherComponentSpec struct {
	Speed float64 `yaml:"speed"`
}

func (s *RusherComponentSpec) Defaults() {
	setDefault(&s.Speed, 6.5)
}

// AppearanceComponentSpec is read only by renderers.
type AppearanceComponentSpec struct {
	Color  *YAMLColor `yaml:"color"`
	Label  string     `yaml:"label"`
	Radius float64    `yaml:"radius"`
}

func setDefault(v *float64, d float64) {
	if *v == 0 {
		*v = d
	}
}

func intPtr(v int) *int { return &v }
