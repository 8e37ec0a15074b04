package main

import (
	"fmt"

	"github.com/milk9111/lightfall/common"
	"github.com/milk9111/lightfall/ecs"
	"github.com/milk9111/lightfall/ecs/system"
)

const (
	feedSize       = 8
	effectLifetime = 0.6
)

type effect struct {
	name string
	at   common.Vec3
	age  float64
}

// viewPresenter keeps just enough presentation state to draw overlays,
// effects and a scrolling feed of requests.
type viewPresenter struct {
	system.LogPresenter

	overlays  map[string]float64
	fov       float64
	focus     common.Vec3
	hasCamera bool
	effects   []effect
	feed      []string
}

func newViewPresenter() *viewPresenter {
	return &viewPresenter{overlays: make(map[string]float64)}
}

func (p *viewPresenter) push(line string) {
	p.feed = append(p.feed, line)
	if len(p.feed) > feedSize {
		p.feed = p.feed[len(p.feed)-feedSize:]
	}
}

func (p *viewPresenter) Animate(e ecs.Entity, trigger string) {
	p.LogPresenter.Animate(e, trigger)
	p.push(fmt.Sprintf("%s %s", e, trigger))
}

func (p *viewPresenter) Effect(name string, at common.Vec3) {
	p.LogPresenter.Effect(name, at)
	p.effects = append(p.effects, effect{name: name, at: at})
	p.push("fx " + name)
}

func (p *viewPresenter) Sound(name string) {
	p.LogPresenter.Sound(name)
	p.push("sfx " + name)
}

func (p *viewPresenter) Overlay(layer string, alpha float64) {
	p.LogPresenter.Overlay(layer, alpha)
	p.overlays[layer] = common.Clamp01(alpha)
}

func (p *viewPresenter) Camera(fov float64, focus common.Vec3) {
	p.LogPresenter.Camera(fov, focus)
	p.fov, p.focus, p.hasCamera = fov, focus, true
}

// LoadScene clears per-scene state; the session performs the change.
func (p *viewPresenter) LoadScene(name string) {
	p.LogPresenter.LoadScene(name)
	clear(p.overlays)
	p.effects = p.effects[:0]
	p.hasCamera = false
	p.push("scene " + name)
}

// age advances effects on real time and drops the expired ones.
func (p *viewPresenter) age(dt float64) {
	live := p.effects[:0]
	for _, fx := range p.effects {
		fx.age += dt
		if fx.age < effectLifetime {
			live = append(live, fx)
		}
	}
	p.effects = live
}
