package system

import "github.com/milk9111/lightfall/ecs"

// SpatialSyncSystem pushes hurtboxes into the chipmunk-backed spatial world
// after everything has moved.
type SpatialSyncSystem struct {
	spatial *ecs.SpatialWorld
}

func NewSpatialSyncSystem(spatial *ecs.SpatialWorld) *SpatialSyncSystem {
	return &SpatialSyncSystem{spatial: spatial}
}

func (s *SpatialSyncSystem) Update(w *ecs.World) {
	if w == nil || s.spatial == nil {
		return
	}
	s.spatial.Sync(w)
}
