package component

import "image/color"

// Appearance is read only by renderers.
type Appearance struct {
	Color  color.Color
	Label  string
	Radius float64
}

var AppearanceComponent = NewComponent[Appearance]()
