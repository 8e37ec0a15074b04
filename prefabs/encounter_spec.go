package prefabs

import "github.com/milk9111/lightfall/common"

type BoxSpec struct {
	Min common.Vec3 `yaml:"min"`
	Max common.Vec3 `yaml:"max"`
	Y   float64     `yaml:"y"`
}

type WaveComponentSpec struct {
	Waves   int     `yaml:"waves"`
	PerWave int     `yaml:"per_wave"`
	Gap     float64 `yaml:"gap"`
	Flying  bool    `yaml:"flying"`
	Kind    string  `yaml:"kind"`
}

type EncounterAttackSpec struct {
	Attack   int     `yaml:"attack"`
	Range    float64 `yaml:"range"`
	Cooldown float64 `yaml:"cooldown"`
}

type PhaseTuningSpec struct {
	MoveSpeed      float64 `yaml:"move_speed"`
	AttackInterval float64 `yaml:"attack_interval"`
}

type ClimaxComponentSpec struct {
	ZoomFOV          float64 `yaml:"zoom_fov"`
	ZoomSeconds      float64 `yaml:"zoom_seconds"`
	FlashSeconds     float64 `yaml:"flash_seconds"`
	SlowmoScale      float64 `yaml:"slowmo_scale"`
	SlowmoSeconds    float64 `yaml:"slowmo_seconds"`
	Seconds          float64 `yaml:"seconds"`
	PulseInterval    float64 `yaml:"pulse_interval"`
	GroundPerSide    int     `yaml:"ground_per_side"`
	FlyingCount      int     `yaml:"flying_count"`
	PulseGroundSide  int     `yaml:"pulse_ground_side"`
	PulseFlying      int     `yaml:"pulse_flying"`
	GroundKind string  `yaml:"ground_kind"`
	FlyingKind string  `yaml:"flying_kind"`
	RusherSpeed      float64 `yaml:"rusher_speed"`
	ArmDelay         float64 `yaml:"arm_delay"`
	BloodPerKill     float64 `yaml:"blood_per_kill"`
	BloodMax         float64 `yaml:"blood_max"`
	BloodEase        float64 `yaml:"blood_ease"`
	KillGraceSeconds float64 `yaml:"kill_grace_seconds"`
	FadeSeconds      float64 `yaml:"fade_seconds"`
	FinalEffect      string  `yaml:"final_effect"`
	NextScene        string  `yaml:"next_scene"`
}

func (s *ClimaxComponentSpec) Defaults() {
	setDefault(&s.ZoomFOV, 35)
	setDefault(&s.ZoomSeconds, 1.2)
	setDefault(&s.FlashSeconds, 0.35)
	setDefault(&s.SlowmoScale, 0.15)
	setDefault(&s.SlowmoSeconds, 1.8)
	setDefault(&s.Seconds, 2)
	setDefault(&s.PulseInterval, 0.8)
	setDefault(&s.RusherSpeed, 6.5)
	setDefault(&s.ArmDelay, 0.4)
	setDefault(&s.BloodPerKill, 0.06)
	setDefault(&s.BloodMax, 0.9)
	setDefault(&s.BloodEase, 1.35)
	setDefault(&s.KillGraceSeconds, 0.5)
	setDefault(&s.FadeSeconds, 1)
	if s.GroundPerSide == 0 {
		s.GroundPerSide = 6
	}
	if s.FlyingCount == 0 {
		s.FlyingCount = 10
	}
	if s.PulseGroundSide == 0 {
		s.PulseGroundSide = 2
	}
	if s.PulseFlying == 0 {
		s.PulseFlying = 2
	}
	if s.FinalEffect == "" {
		s.FinalEffect = "final_explosion"
	}
}

// EncounterComponentSpec tunes the boss phases, staging, waves and climax.
type EncounterComponentSpec struct {
	// Thresholds are HP percentages for P2, P3, P4 and P5. They also become
	// the boss's health gating thresholds.
	Thresholds []float64 `yaml:"thresholds"`

	P1             PhaseTuningSpec `yaml:"p1"`
	P3             PhaseTuningSpec `yaml:"p3"`
	P5             PhaseTuningSpec `yaml:"p5"`
	AttackCooldown float64         `yaml:"attack_cooldown"`
	FirstAttack    float64         `yaml:"first_attack"`
	LockY          float64         `yaml:"lock_y"`

	Light EncounterAttackSpec `yaml:"light"`
	Heavy EncounterAttackSpec `yaml:"heavy"`

	PosePoint   common.Vec3 `yaml:"pose_point"`
	PoseYaw     float64     `yaml:"pose_yaw"`
	TravelSpeed float64     `yaml:"travel_speed"`
	ArriveDist  float64     `yaml:"arrive_dist"`
	TurnSpeed   float64     `yaml:"turn_speed"`
	Taunt       string      `yaml:"taunt"`
	Hold        float64     `yaml:"hold"`

	P2Waves WaveComponentSpec `yaml:"p2_waves"`
	P2Gate  float64           `yaml:"p2_gate"`
	P4Waves WaveComponentSpec `yaml:"p4_waves"`
	P4Gate  float64           `yaml:"p4_gate"`

	ReturnXOffset float64 `yaml:"return_x_offset"`
	ReturnSpeed   float64 `yaml:"return_speed"`
	ReturnArrive  float64 `yaml:"return_arrive"`
	ReturnMaxTime float64 `yaml:"return_max_time"`

	P5GroundCount    int     `yaml:"p5_ground_count"`
	P5GroundInterval float64 `yaml:"p5_ground_interval"`
	P5FlyingCount    int     `yaml:"p5_flying_count"`
	P5FlyingInterval float64 `yaml:"p5_flying_interval"`

	GroundA    *BoxSpec `yaml:"ground_a"`
	GroundB    *BoxSpec `yaml:"ground_b"`
	GroundKind string   `yaml:"ground_kind"`
	FlyingKind string   `yaml:"flying_kind"`
	FlySpanX   float64  `yaml:"fly_span_x"`
	FlyY       float64  `yaml:"fly_y"`
	FlyZBase   float64  `yaml:"fly_z_base"`
	FlySpanZ   float64  `yaml:"fly_span_z"`

	Climax ClimaxComponentSpec `yaml:"climax"`
}

func (s *EncounterComponentSpec) Defaults() {
	if len(s.Thresholds) != 4 {
		s.Thresholds = []float64{80, 60, 35, 15}
	}
	setDefault(&s.P1.MoveSpeed, 2.5)
	setDefault(&s.P3.MoveSpeed, 2.3)
	setDefault(&s.P5.MoveSpeed, 2.6)
	setDefault(&s.P1.AttackInterval, 1.2)
	setDefault(&s.P3.AttackInterval, 1.0)
	setDefault(&s.P5.AttackInterval, 0.9)
	setDefault(&s.AttackCooldown, 0.6)
	setDefault(&s.FirstAttack, 0.5)
	setDefault(&s.Light.Range, 1.2)
	setDefault(&s.Heavy.Range, 1.3)
	if s.Heavy.Attack == 0 && s.Light.Attack == 0 {
		s.Heavy.Attack = 1
	}
	setDefault(&s.TravelSpeed, 12)
	setDefault(&s.ArriveDist, 0.05)
	setDefault(&s.TurnSpeed, 240)

	if s.P2Waves.Waves == 0 {
		s.P2Waves = WaveComponentSpec{Waves: 3, PerWave: 4, Gap: 2.0, Kind: s.P2Waves.Kind}
	}
	setDefault(&s.P2Gate, 10)
	if s.P4Waves.Waves == 0 {
		s.P4Waves = WaveComponentSpec{Waves: 3, PerWave: 3, Gap: 2.2, Flying: true, Kind: s.P4Waves.Kind}
	}
	setDefault(&s.P4Gate, 10)

	setDefault(&s.ReturnXOffset, -2)
	setDefault(&s.ReturnSpeed, 12)
	setDefault(&s.ReturnArrive, 0.3)
	setDefault(&s.ReturnMaxTime, 5)

	if s.P5GroundCount == 0 {
		s.P5GroundCount = 2
	}
	setDefault(&s.P5GroundInterval, 4)
	if s.P5FlyingCount == 0 {
		s.P5FlyingCount = 2
	}
	setDefault(&s.P5FlyingInterval, 4.5)

	if s.GroundKind == "" {
		s.GroundKind = "walker"
	}
	if s.FlyingKind == "" {
		s.FlyingKind = "flyer"
	}
	s.Climax.Defaults()
}
