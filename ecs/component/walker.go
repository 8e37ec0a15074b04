package component

import "github.com/milk9111/lightfall/common"

const (
	WalkerGuardIdle    StateID = "guard_idle"
	WalkerChase        StateID = "chase"
	WalkerAttack       StateID = "attack"
	WalkerRecover      StateID = "recover"
	WalkerReturnToPost StateID = "return_to_post"
)

// Walker is the ground melee archetype: guard an area, chase intruders,
// attack through its AttackController, and walk back when the player leaves.
type Walker struct {
	MoveSpeed        float64
	StopDistance     float64
	ReengageDistance float64
	TurnSpeed        float64

	LightAttack    int
	HeavyAttack    int
	LightRange     float64
	HeavyRange     float64
	LightBias      float64
	AttackCooldown float64

	GuardCenter common.Vec3
	GuardRadius float64
	// UseBox replaces the guard circle with the XZ box [GuardMin, GuardMax].
	UseBox   bool
	GuardMin common.Vec3
	GuardMax common.Vec3

	LeashRadius       float64
	ForgetAfter       float64
	ReturnSpeedMult   float64
	ArriveTolerance   float64
	ReturnTimeout     float64
	BossCheckInterval float64

	AI AIState

	BossPresent     bool
	NextBossCheck   float64
	LastInsideGuard float64
	LastAttackStart float64
	LastAttack      int
	Started         bool
}

var WalkerComponent = NewComponent[Walker]()
