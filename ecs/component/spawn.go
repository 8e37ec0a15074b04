package component

import "github.com/milk9111/lightfall/common"

// Box is an axis-aligned XZ rectangle at height Y.
type Box struct {
	Min common.Vec3
	Max common.Vec3
	Y   float64
}

type SpawnAreaKind string

const (
	SpawnBoxes  SpawnAreaKind = "boxes"
	SpawnCircle SpawnAreaKind = "circle"
	SpawnSpan   SpawnAreaKind = "span"
)

// SpawnArea describes where a wave is placed.
type SpawnArea struct {
	Kind SpawnAreaKind
	// Boxes: half of a wave goes to A, the rest to B (or A if B is nil).
	A *Box
	B *Box
	// Circle.
	Center common.Vec3
	Radius float64
	// Span: centered on the player's X at height Y.
	XSpan float64
	Y     float64
	ZBase float64
	ZSpan float64
}

// SpawnOptions controls what a wave attaches to each spawned actor.
type SpawnOptions struct {
	Kind       string
	Yaw        float64
	KillCredit bool
	ArmDelay   float64
	// Finale forces 1 HP and swaps the behavior for a Rusher.
	Finale      bool
	RusherSpeed float64
}
