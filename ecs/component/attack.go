package component

import "github.com/milk9111/lightfall/common"

type AttackKind string

const (
	AttackLight AttackKind = "light"
	AttackHeavy AttackKind = "heavy"
)

// AttackPhase is the sub-phase of a running attack.
type AttackPhase int

const (
	AttackIdle AttackPhase = iota
	AttackWindup
	AttackActive
	AttackRecover
)

func (p AttackPhase) String() string {
	switch p {
	case AttackWindup:
		return "windup"
	case AttackActive:
		return "active"
	case AttackRecover:
		return "recover"
	default:
		return "idle"
	}
}

type Button int

const (
	ButtonNone Button = iota
	ButtonLight
	ButtonHeavy
)

type MotionMode int

const (
	// MotionReplacePlanar overwrites planar velocity each frame.
	MotionReplacePlanar MotionMode = iota
	// MotionAddPlanar adds the curve value as acceleration.
	MotionAddPlanar
)

// HitVolume is a damage sphere relative to the attacker, active while the
// attack's normalized progress lies in [Start, End]. Offset is local: X is
// right, Y up, Z forward.
type HitVolume struct {
	Radius float64
	Offset common.Vec3
	Start  float64
	End    float64
	// Damage overrides the attack's damage when non-zero.
	Damage float64
}

// AttackDefinition is the static data for one attack in a table.
type AttackDefinition struct {
	Name    string
	Kind    AttackKind
	Trigger string

	Windup  float64
	Active  float64
	Recover float64

	Damage   float64
	Cooldown float64
	Volumes  []HitVolume

	// Follow-up inputs are accepted while progress is in
	// [ComboOpen, ComboClose]; the queued attack starts at EarliestExit.
	ComboOpen    float64
	ComboClose   float64
	EarliestExit float64
	// NextLight and NextHeavy index the follow-up attack; -1 means none.
	NextLight int
	NextHeavy int

	Motion         common.Curve
	MotionScale    float64
	MotionMode     MotionMode
	ImpulseForward float64
	ImpulseUp      float64
}

// Duration is the full windup+active+recover time.
func (d *AttackDefinition) Duration() float64 {
	return d.Windup + d.Active + d.Recover
}

// PhaseAt maps normalized progress onto the sub-phase boundaries.
func (d *AttackDefinition) PhaseAt(progress float64) AttackPhase {
	total := d.Duration()
	if total <= 0 || progress < 0 {
		return AttackIdle
	}
	t := progress * total
	switch {
	case t < d.Windup:
		return AttackWindup
	case t < d.Windup+d.Active:
		return AttackActive
	case progress <= 1:
		return AttackRecover
	default:
		return AttackIdle
	}
}

// ActiveWindow returns the normalized interval of the Active sub-phase.
func (d *AttackDefinition) ActiveWindow() (float64, float64) {
	total := d.Duration()
	if total <= 0 {
		return 0, 0
	}
	return d.Windup / total, (d.Windup + d.Active) / total
}

// VolumeWindow returns the activation interval for volume i, defaulting to
// the Active sub-phase when none was authored.
func (d *AttackDefinition) VolumeWindow(i int) (float64, float64) {
	v := d.Volumes[i]
	if v.Start == 0 && v.End == 0 {
		return d.ActiveWindow()
	}
	return v.Start, v.End
}

// Swing is the per-execution state of the running attack.
type Swing struct {
	ID       uint64
	Progress float64
	Phase    AttackPhase
}

// LiveVolume is a hit volume of the running attack as the combat system
// sees it.
type LiveVolume struct {
	Enabled bool
	SwingID uint64
}

// AttackController drives one actor's attack table.
type AttackController struct {
	Attacks    []AttackDefinition
	LightStart int
	HeavyStart int
	Targets    Layer

	InputBufferTime float64
	IdleReturnGrace float64
	// ExitDampTime of zero hard-stops planar motion when an attack ends.
	ExitDampTime         float64
	GateCombosOnCooldown bool

	Current int
	Queued  int
	Elapsed float64
	Swing   Swing
	Volumes []LiveVolume

	Buffered   Button
	BufferedAt float64
	// Now is the controller's own scaled time.
	Now           float64
	CooldownUntil map[AttackKind]float64

	Frozen bool
	// Moved is set while the current attack has taken motion authority.
	Moved bool
}

// NewAttackController returns an idle controller over attacks.
func NewAttackController(attacks []AttackDefinition) *AttackController {
	return &AttackController{
		Attacks:       attacks,
		HeavyStart:    -1,
		Current:       -1,
		Queued:        -1,
		CooldownUntil: make(map[AttackKind]float64),
	}
}

// Attacking reports whether an attack is running.
func (c *AttackController) Attacking() bool {
	return c != nil && c.Current >= 0
}

// Definition returns the running attack, or nil.
func (c *AttackController) Definition() *AttackDefinition {
	if c == nil || c.Current < 0 || c.Current >= len(c.Attacks) {
		return nil
	}
	return &c.Attacks[c.Current]
}

// ValidIndex reports whether i addresses the attack table.
func (c *AttackController) ValidIndex(i int) bool {
	return c != nil && i >= 0 && i < len(c.Attacks)
}

var AttackControllerComponent = NewComponent[AttackController]()

// HitLedger remembers the last swings that landed on an actor.
type HitLedger struct {
	recent []uint64
}

const hitLedgerSize = 32

func (l *HitLedger) Seen(swing uint64) bool {
	for _, id := range l.recent {
		if id == swing {
			return true
		}
	}
	return false
}

func (l *HitLedger) Record(swing uint64) {
	if len(l.recent) >= hitLedgerSize {
		l.recent = l.recent[1:]
	}
	l.recent = append(l.recent, swing)
}

var HitLedgerComponent = NewComponent[HitLedger]()

// ContactDamage hurts overlapping actors of the Targets layer, at most once
// per RepeatWindow per target.
type ContactDamage struct {
	Damage       float64
	Radius       float64
	Targets      Layer
	RepeatWindow float64
	LastHit      map[uint64]float64
}

var ContactDamageComponent = NewComponent[ContactDamage]()
