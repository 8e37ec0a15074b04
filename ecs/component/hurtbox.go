package component

import "github.com/milk9111/lightfall/common"

// Hurtbox is the sphere other actors' hit volumes and contact checks test
// against, relative to the entity transform.
type Hurtbox struct {
	Radius float64
	Offset common.Vec3
	Layer  Layer
	// Solid volumes block movement in hosts that model it; non-solid ones are
	// trigger-only.
	Solid    bool
	Disabled bool
}

var HurtboxComponent = NewComponent[Hurtbox]()
