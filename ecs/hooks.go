package ecs

import (
	"github.com/milk9111/lightfall/common"
	"github.com/milk9111/lightfall/ecs/component"
)

// QueryFilter selects which volumes a spatial query may return.
type QueryFilter struct {
	Layers component.Layer
	// Sensors includes trigger-only volumes; Solids includes solid ones.
	// Both false means both.
	Sensors bool
	Solids  bool
}

// SpatialQuery finds actors whose volumes overlap a sphere.
type SpatialQuery interface {
	Overlap(center common.Vec3, radius float64, filter QueryFilter) []Entity
}

// ActorFactory instantiates actors by kind name.
type ActorFactory interface {
	Spawn(w *World, kind string, pos common.Vec3, yaw float64) (Entity, error)
}

// Presenter receives fire-and-forget presentation requests.
type Presenter interface {
	Animate(e Entity, trigger string)
	Effect(name string, at common.Vec3)
	Sound(name string)
	Overlay(layer string, alpha float64)
	Camera(fov float64, focus common.Vec3)
	LoadScene(name string)
}

// NopPresenter discards everything.
type NopPresenter struct{}

func (NopPresenter) Animate(Entity, string)      {}
func (NopPresenter) Effect(string, common.Vec3)  {}
func (NopPresenter) Sound(string)                {}
func (NopPresenter) Overlay(string, float64)     {}
func (NopPresenter) Camera(float64, common.Vec3) {}
func (NopPresenter) LoadScene(string)            {}
