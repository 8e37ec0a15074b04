package component

import (
	"math/rand/v2"

	"github.com/milk9111/lightfall/common"
)

const (
	StalkerInactive    StateID = "inactive"
	StalkerSpawning    StateID = "spawning"
	StalkerChasing     StateID = "chasing"
	StalkerLungeSlowmo StateID = "lunge_slowmo"
	StalkerPossessing  StateID = "possessing"
	StalkerVanishing   StateID = "vanishing"
	StalkerCooldown    StateID = "cooldown"
)

// Stalker appears around the player, chases, and lunges into a slow-motion
// execution window. Only one stalker may be active per world.
type Stalker struct {
	FrontDistance  float64
	BehindDistance float64
	FrontWeight    float64
	LateralMin     float64
	LateralMax     float64
	SpawnYOffset   float64

	RunSpeed      float64
	TurnSpeed     float64
	LungeTrigger  float64
	SlowmoWindow  float64
	SlowmoScale   float64
	LungeDistance float64
	LungeUp       float64
	LongCooldown  float64
	ShortCooldown float64
	PossessDPS    float64
	PossessOffset common.Vec3
	MashPerPress  float64
	MashRequired  float64
	MashDecay     float64
	FadeTime      float64
	AutoActivate  bool

	AI AIState

	Rand            *rand.Rand
	Alpha           float64
	Mash            float64
	LungeStart      common.Vec3
	LungeTarget     common.Vec3
	Executed        bool
	PendingCooldown float64
	InSlowmo        bool
	SavedScale      float64
	Possessed       uint64
}

var StalkerComponent = NewComponent[Stalker]()
