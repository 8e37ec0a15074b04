package ecs

import (
	"math/rand/v2"

	"github.com/milk9111/lightfall/ecs/component"
)

// World owns entities, components, the frame clock and the collaborators the
// systems talk to.
type World struct {
	entities  entityStore
	stores    map[component.ComponentID]*SparseSet
	scheduler Scheduler
	events    EventQueue
	clock     Clock
	ctx       Context
	rng       *rand.Rand

	spatial   SpatialQuery
	factory   ActorFactory
	presenter Presenter
}

// NewWorld creates an empty ECS world with a fixed random seed.
func NewWorld() *World {
	return &World{
		stores:    make(map[component.ComponentID]*SparseSet),
		clock:     newClock(),
		rng:       rand.New(rand.NewPCG(1, 2)),
		presenter: NopPresenter{},
	}
}

// CreateEntity allocates a new entity.
func CreateEntity(w *World) Entity {
	if w == nil {
		return 0
	}
	return w.entities.create()
}

// DestroyEntity removes every component of e and frees its slot.
func DestroyEntity(w *World, e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, store := range w.stores {
		store.Remove(e.id())
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func (w *World) IsAlive(e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// EntityCount returns the number of live entities.
func (w *World) EntityCount() int {
	if w == nil {
		return 0
	}
	return w.entities.count
}

// AddSystem appends a system to the update order.
func (w *World) AddSystem(s System) {
	if w == nil {
		return
	}
	w.scheduler.Add(s)
}

// Update advances the clocks by dt real seconds and runs all systems once.
func (w *World) Update(dt float64) {
	if w == nil {
		return
	}
	w.clock.advance(dt)
	w.scheduler.Update(w)
	w.events.flush()
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

func (w *World) Clock() *Clock {
	if w == nil {
		return nil
	}
	return &w.clock
}

func (w *World) Context() *Context {
	if w == nil {
		return nil
	}
	return &w.ctx
}

// Rand returns the world's deterministic random source.
func (w *World) Rand() *rand.Rand {
	if w == nil {
		return nil
	}
	return w.rng
}

// Seed resets the world's random source.
func (w *World) Seed(seed uint64) {
	if w == nil {
		return
	}
	w.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func (w *World) SetSpatial(q SpatialQuery) {
	if w == nil {
		return
	}
	w.spatial = q
}

// Spatial returns the attached spatial query, or nil.
func (w *World) Spatial() SpatialQuery {
	if w == nil {
		return nil
	}
	return w.spatial
}

func (w *World) SetFactory(f ActorFactory) {
	if w == nil {
		return
	}
	w.factory = f
}

// Factory returns the attached actor factory, or nil.
func (w *World) Factory() ActorFactory {
	if w == nil {
		return nil
	}
	return w.factory
}

func (w *World) SetPresenter(p Presenter) {
	if w == nil {
		return
	}
	if p == nil {
		p = NopPresenter{}
	}
	w.presenter = p
}

// Presenter never returns nil.
func (w *World) Presenter() Presenter {
	if w == nil || w.presenter == nil {
		return NopPresenter{}
	}
	return w.presenter
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	s, ok := w.stores[id]
	if !ok && create {
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}
