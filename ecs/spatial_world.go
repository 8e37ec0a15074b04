package ecs

import (
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/lightfall/common"
	"github.com/milk9111/lightfall/ecs/component"
)

// SpatialWorld answers overlap queries against actor hurtboxes. Each hurtbox
// becomes a kinematic circle in a Chipmunk space on the XY plane; the space's
// tree is the broadphase and candidates are confirmed with a 3D distance test.
type SpatialWorld struct {
	space  *cp.Space
	shapes map[Entity]*spatialShape
	stamp  uint64
}

type spatialShape struct {
	body   *cp.Body
	shape  *cp.Shape
	center common.Vec3
	radius float64
	solid  bool
	seen   uint64
}

// NewSpatialWorld creates an empty spatial world.
func NewSpatialWorld() *SpatialWorld {
	space := cp.NewSpace()
	space.Iterations = 1
	return &SpatialWorld{
		space:  space,
		shapes: make(map[Entity]*spatialShape),
	}
}

// Space returns the underlying Chipmunk space.
func (sw *SpatialWorld) Space() *cp.Space {
	if sw == nil {
		return nil
	}
	return sw.space
}

// Len returns the number of tracked volumes.
func (sw *SpatialWorld) Len() int {
	if sw == nil {
		return 0
	}
	return len(sw.shapes)
}

// Sync mirrors every enabled hurtbox into the space and drops volumes whose
// entity died or lost its hurtbox.
func (sw *SpatialWorld) Sync(w *World) {
	if sw == nil || w == nil {
		return
	}
	sw.stamp++
	ForEach2(w, component.TransformComponent.Kind(), component.HurtboxComponent.Kind(), func(e Entity, t *component.Transform, hb *component.Hurtbox) {
		if hb.Disabled || hb.Radius <= 0 {
			return
		}
		sw.upsert(e, t.Position.Add(hb.Offset), hb)
	})
	for e, s := range sw.shapes {
		if s.seen != sw.stamp {
			sw.remove(e)
		}
	}
	// A non-zero step reindexes the moved kinematic shapes; nothing is
	// integrated because the bodies carry no velocity.
	sw.space.Step(1.0 / 60.0)
}

// Remove drops e's volume immediately.
func (sw *SpatialWorld) Remove(e Entity) {
	if sw == nil {
		return
	}
	sw.remove(e)
}

func (sw *SpatialWorld) upsert(e Entity, center common.Vec3, hb *component.Hurtbox) {
	s, ok := sw.shapes[e]
	if ok && s.radius != hb.Radius {
		sw.remove(e)
		ok = false
	}
	if !ok {
		body := cp.NewKinematicBody()
		shape := cp.NewCircle(body, hb.Radius, cp.Vector{})
		shape.UserData = e
		sw.space.AddBody(body)
		sw.space.AddShape(shape)
		s = &spatialShape{body: body, shape: shape, radius: hb.Radius}
		sw.shapes[e] = s
	}
	layer := hb.Layer
	if layer == 0 {
		layer = component.LayerAll
	}
	s.shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, uint(layer), cp.ALL_CATEGORIES))
	s.shape.SetSensor(!hb.Solid)
	s.solid = hb.Solid
	s.center = center
	s.seen = sw.stamp
	s.body.SetPosition(cp.Vector{X: center.X, Y: center.Y})
}

func (sw *SpatialWorld) remove(e Entity) {
	s, ok := sw.shapes[e]
	if !ok {
		return
	}
	sw.space.RemoveShape(s.shape)
	sw.space.RemoveBody(s.body)
	delete(sw.shapes, e)
}

// Overlap implements SpatialQuery.
func (sw *SpatialWorld) Overlap(center common.Vec3, radius float64, filter QueryFilter) []Entity {
	if sw == nil || radius <= 0 {
		return nil
	}
	layers := filter.Layers
	if layers == 0 {
		layers = component.LayerAll
	}
	wantSensors := filter.Sensors || !filter.Solids
	wantSolids := filter.Solids || !filter.Sensors

	var out []Entity
	bb := cp.NewBBForCircle(cp.Vector{X: center.X, Y: center.Y}, radius)
	query := cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, uint(layers))
	sw.space.BBQuery(bb, query, func(shape *cp.Shape, _ interface{}) {
		e, ok := shape.UserData.(Entity)
		if !ok {
			return
		}
		s := sw.shapes[e]
		if s == nil {
			return
		}
		if (s.solid && !wantSolids) || (!s.solid && !wantSensors) {
			return
		}
		if common.Distance(center, s.center) > radius+s.radius {
			return
		}
		out = append(out, e)
	}, nil)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
