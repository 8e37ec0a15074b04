package component

// Frozen suspends an actor's behavior and attack authority without resetting
// its state machines.
type Frozen struct{}

var FrozenComponent = NewComponent[Frozen]()

// Hidden actors are skipped by renderers.
type Hidden struct{}

var HiddenComponent = NewComponent[Hidden]()
