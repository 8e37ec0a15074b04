package system

import (
	"github.com/milk9111/lightfall/ecs"
	"github.com/milk9111/lightfall/ecs/component"
)

// InputSource is polled once per frame by the input system. Hosts implement
// it with a keyboard or a script.
type InputSource interface {
	Poll(w *ecs.World) component.Input
}

type InputSystem struct {
	source InputSource
}

func NewInputSystem(source InputSource) *InputSystem {
	return &InputSystem{source: source}
}

// SetSource swaps the polled source; nil leaves inputs untouched.
func (i *InputSystem) SetSource(source InputSource) {
	i.source = source
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil || i.source == nil {
		return
	}

	in := i.source.Poll(w)
	ecs.ForEach2(w, component.InputComponent.Kind(), component.PlayerTagComponent.Kind(), func(_ ecs.Entity, input *component.Input, _ *component.PlayerTag) {
		*input = in
	})
}
