package component

// Input stores per-frame input state for an entity. Pressed flags are true
// only on the frame the button went down.
type Input struct {
	MoveX float64

	LightPressed   bool
	HeavyPressed   bool
	ExecutePressed bool
	MashPressed    bool
	Block          bool
}

var InputComponent = NewComponent[Input]()
