package component

// Rusher walks straight at the player and does nothing else.
type Rusher struct {
	Speed float64
}

var RusherComponent = NewComponent[Rusher]()
