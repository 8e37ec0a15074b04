package system

import (
	"fmt"

	"github.com/milk9111/lightfall/common"
	"github.com/milk9111/lightfall/ecs"
	"github.com/milk9111/lightfall/ecs/component"
)

// recorder is a Presenter that keeps every request for assertions.
type recorder struct {
	anims    []string
	effects  []string
	overlays map[string]float64
	cameras  []float64
	scenes   []string
}

func newRecorder() *recorder {
	return &recorder{overlays: make(map[string]float64)}
}

func (r *recorder) Animate(e ecs.Entity, trigger string) {
	r.anims = append(r.anims, e.String()+":"+trigger)
}
func (r *recorder) Effect(name string, _ common.Vec3)   { r.effects = append(r.effects, name) }
func (r *recorder) Sound(string)                        {}
func (r *recorder) Overlay(layer string, alpha float64) { r.overlays[layer] = alpha }
func (r *recorder) Camera(fov float64, _ common.Vec3)   { r.cameras = append(r.cameras, fov) }
func (r *recorder) LoadScene(name string)               { r.scenes = append(r.scenes, name) }

func (r *recorder) animCount(e ecs.Entity, trigger string) int {
	n := 0
	for _, a := range r.anims {
		if a == e.String()+":"+trigger {
			n++
		}
	}
	return n
}

// stubFactory spawns bare 10 HP enemies and remembers where.
type stubFactory struct {
	spawned   []ecs.Entity
	positions []common.Vec3
	kinds     []string
}

func (f *stubFactory) Spawn(w *ecs.World, kind string, pos common.Vec3, yaw float64) (ecs.Entity, error) {
	if kind == "" {
		return 0, fmt.Errorf("entity: unknown actor kind %q", kind)
	}
	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: pos, Yaw: yaw})
	_ = ecs.Add(w, e, component.HealthComponent.Kind(), &component.Health{Max: 10, Current: 10})
	_ = ecs.Add(w, e, component.HurtboxComponent.Kind(), &component.Hurtbox{Radius: 0.5, Layer: component.LayerEnemy})
	_ = ecs.Add(w, e, component.EnemyTagComponent.Kind(), &component.EnemyTag{})
	f.spawned = append(f.spawned, e)
	f.positions = append(f.positions, pos)
	f.kinds = append(f.kinds, kind)
	return e, nil
}

func newActor(w *ecs.World, pos common.Vec3, hp float64) ecs.Entity {
	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: pos})
	if hp > 0 {
		_ = ecs.Add(w, e, component.HealthComponent.Kind(), &component.Health{Max: hp, Current: hp})
	}
	return e
}

func newPlayer(w *ecs.World, pos common.Vec3) ecs.Entity {
	e := newActor(w, pos, 100)
	_ = ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
	_ = ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{})
	_ = ecs.Add(w, e, component.HurtboxComponent.Kind(), &component.Hurtbox{Radius: 0.5, Layer: component.LayerPlayer})
	_ = ecs.Add(w, e, component.AttackControllerComponent.Kind(), component.NewAttackController(nil))
	return e
}

func step(w *ecs.World, dt float64, frames int) {
	for i := 0; i < frames; i++ {
		w.Update(dt)
	}
}

func healthOf(w *ecs.World, e ecs.Entity) *component.Health {
	h, _ := ecs.Get(w, e, component.HealthComponent.Kind())
	return h
}
