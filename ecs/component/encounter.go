package component

import "github.com/milk9111/lightfall/common"

// EncounterPhase is the boss fight's scripted phase.
type EncounterPhase int

const (
	PhaseP1 EncounterPhase = iota
	PhaseP2
	PhaseP3
	PhaseP4
	PhaseP5
	PhaseDead
)

func (p EncounterPhase) String() string {
	switch p {
	case PhaseP1:
		return "P1"
	case PhaseP2:
		return "P2"
	case PhaseP3:
		return "P3"
	case PhaseP4:
		return "P4"
	case PhaseP5:
		return "P5"
	default:
		return "Dead"
	}
}

// StepKind is one resumable sub-step of an intermission.
type StepKind int

const (
	StepMove StepKind = iota
	StepFace
	StepTaunt
	StepWait
	StepWave
)

// IntermissionStep is popped once its exit condition holds.
type IntermissionStep struct {
	Kind    StepKind
	Target  common.Vec3
	Yaw     float64
	Seconds float64
	Trigger string
	Wave    WaveSpec
}

// WaveSpec describes a group of timed waves run during an intermission.
type WaveSpec struct {
	Waves   int
	PerWave int
	Gap     float64
	// Flying waves use the flying span; ground waves use boxes A and B.
	Flying bool
	Kind   string
}

// EncounterAttack is one boss attack, driven through the boss's own
// AttackController at index Attack.
type EncounterAttack struct {
	Attack   int
	Range    float64
	Cooldown float64
}

// ClimaxConfig tunes the one-shot finale that runs when the boss dies.
type ClimaxConfig struct {
	ZoomFOV          float64
	ZoomSeconds      float64
	FlashSeconds     float64
	SlowmoScale      float64
	SlowmoSeconds    float64
	Seconds          float64
	PulseInterval    float64
	GroundPerSide    int
	FlyingCount      int
	PulseGroundSide  int
	PulseFlying      int
	GroundKind string
	FlyingKind string
	RusherSpeed      float64
	ArmDelay         float64
	BloodPerKill     float64
	BloodMax         float64
	BloodEase        float64
	KillGraceSeconds float64
	FadeSeconds      float64
	FinalEffect      string
	NextScene        string
}

// Encounter is the boss's phase controller.
type Encounter struct {
	// Thresholds are HP percentages (0..100) for P2, P3, P4 and P5.
	P2Threshold float64
	P3Threshold float64
	P4Threshold float64
	P5Threshold float64

	MoveSpeed      [3]float64 // P1, P3, P5
	AttackInterval [3]float64
	AttackCooldown float64
	FirstAttack    float64
	LockY          float64

	Light EncounterAttack
	Heavy EncounterAttack

	PosePoint   common.Vec3
	PoseYaw     float64
	TravelSpeed float64
	ArriveDist  float64
	TurnSpeed   float64
	Taunt       string
	Hold        float64

	P2Waves WaveSpec
	P2Gate  float64
	P4Waves WaveSpec
	P4Gate  float64

	ReturnXOffset float64
	ReturnSpeed   float64
	ReturnArrive  float64
	ReturnMaxTime float64

	P5GroundCount    int
	P5GroundInterval float64
	P5FlyingCount    int
	P5FlyingInterval float64

	GroundA    *Box
	GroundB    *Box
	GroundKind string
	FlyingKind string
	FlySpanX   float64
	FlyY       float64
	FlyZBase   float64
	FlySpanZ   float64

	Climax ClimaxConfig

	Runtime EncounterRuntime
}

// EncounterRuntime is the mutable half of an Encounter.
type EncounterRuntime struct {
	Started bool
	Phase   EncounterPhase

	P2Done bool
	P4Done bool
	// IntermissionActive is the re-entrancy lock for intermissions.
	IntermissionActive bool
	Intermission       EncounterPhase
	Steps              []IntermissionStep
	StepIndex          int
	StepElapsed        float64

	Returning     bool
	ReturnElapsed float64

	NextAttackAt  float64
	AttackCDUntil float64
	Attacking     bool
	LastWasLight  bool
	Now           float64

	NextGroundPulse float64
	NextFlyingPulse float64

	StartPos common.Vec3
	StartYaw float64
}

// ActivePhase reports whether the normal combat tick should run.
func (r *EncounterRuntime) ActivePhase() bool {
	switch r.Phase {
	case PhaseP1, PhaseP3, PhaseP5:
		return !r.IntermissionActive && !r.Returning
	}
	return false
}

var EncounterComponent = NewComponent[Encounter]()
