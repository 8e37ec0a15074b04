package component

// DamageCurve maps an HP fraction to an incoming-damage multiplier.
type DamageCurve interface {
	Multiplier(hpFrac float64) float64
}

// Health is an actor's HealthGate. Mutate it only through the damage sink
// functions in the system package.
type Health struct {
	Max     float64
	Current float64

	// Thresholds are strictly descending percentages of Max that a single
	// hit may not skip past while Gating is on.
	Thresholds []float64
	Gating     bool
	Epsilon    float64

	// Multipliers left at zero count as 1.
	BlockMultiplier float64
	Blocking        bool

	AdaptiveAtFull float64
	AdaptiveAtZero float64
	Curve          DamageCurve

	PostHitMultiplier float64
	PostHitWindow     float64
	PostHitRemaining  float64

	Invulnerable bool
	// CustomDeath actors are not despawned when they die.
	CustomDeath  bool
	DespawnDelay float64

	// HitMinInterval rate-limits the "hit" animation trigger.
	HitMinInterval float64
	LastHitAnim    float64

	Dead bool
}

var HealthComponent = NewComponent[Health]()

// Despawn counts down on the scaled clock before the entity is destroyed.
type Despawn struct {
	Remaining float64
}

var DespawnComponent = NewComponent[Despawn]()
