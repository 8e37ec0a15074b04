package component

import (
	"math/rand/v2"

	"github.com/milk9111/lightfall/common"
)

const (
	FlyerOrbit  StateID = "orbit"
	FlyerRush   StateID = "rush"
	FlyerAscend StateID = "ascend"
)

// Flyer orbits the player, rushes in for a single contact hit, then climbs
// away before orbiting again.
type Flyer struct {
	OrbitRadius       float64
	OrbitJitter       float64
	OrbitAngularSpeed float64
	OrbitFollowLerp   float64
	OrbitChaseSpeed   float64
	OrbitHeight       float64
	OrbitHeightLerp   float64
	OrbitDurationMin  float64
	OrbitDurationMax  float64

	RushSpeed         float64
	RushContactRadius float64
	RushDamage        float64
	// RushTimeout of zero means the flyer must land a hit to leave Rush.
	RushTimeout float64

	AscendHeight    float64
	AscendSpeed     float64
	AscendThreshold float64

	AI AIState

	Rand          *rand.Rand
	OrbitCenter   common.Vec3
	OrbitAngle    float64
	OrbitRadiusIn float64
	AscendTargetY float64
	RushHit       bool
	LastHP        float64
	Started       bool
}

var FlyerComponent = NewComponent[Flyer]()
