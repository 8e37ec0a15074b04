package system

import (
	"github.com/milk9111/lightfall/common"
	"github.com/milk9111/lightfall/ecs"
	"github.com/milk9111/lightfall/ecs/component"
	"github.com/milk9111/lightfall/logger"
	"github.com/sirupsen/logrus"
)

const defaultDeathFade = 1.0

// PlayerControllerSystem turns the player's input into blocking, attack
// buffering and side-scrolling movement, and runs the death restart.
type PlayerControllerSystem struct{}

func NewPlayerControllerSystem() *PlayerControllerSystem { return &PlayerControllerSystem{} }

func (s *PlayerControllerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Clock().DT()
	ecs.ForEach3(w, component.PlayerComponent.Kind(), component.InputComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, p *component.Player, in *component.Input, t *component.Transform) {
		if IsDead(w, e) || p.Dying {
			s.updateDeath(w, e, p)
			return
		}

		c, hasAttacks := ecs.Get(w, e, component.AttackControllerComponent.Kind())
		attacking := hasAttacks && c.Attacking()
		frozen := ecs.Has(w, e, component.FrozenComponent.Kind()) || (hasAttacks && c.Frozen)

		SetBlocking(w, e, in.Block && !attacking && !frozen)
		if frozen {
			return
		}

		if in.LightPressed {
			BufferInput(w, e, component.ButtonLight)
		}
		if in.HeavyPressed {
			BufferInput(w, e, component.ButtonHeavy)
		}

		if attacking || in.Block || in.MoveX == 0 {
			return
		}
		t.Position.X += common.Clamp(in.MoveX, -1, 1) * p.MoveSpeed * dt
		if in.MoveX > 0 {
			t.Yaw = 90
		} else {
			t.Yaw = -90
		}
	})
}

func (s *PlayerControllerSystem) updateDeath(w *ecs.World, e ecs.Entity, p *component.Player) {
	if !p.Dying {
		p.Dying = true
		p.DeathElapsed = 0
		logger.Log.WithFields(logrus.Fields{"system": "player", "entity": e.String()}).Info("player died")
	}
	if p.Restarted {
		return
	}
	fade := p.DeathFade
	if fade <= 0 {
		fade = defaultDeathFade
	}
	p.DeathElapsed += w.Clock().UnscaledDT()
	w.Presenter().Overlay("blackout", common.Clamp01(p.DeathElapsed/fade))
	if p.DeathElapsed >= fade {
		p.Restarted = true
		logger.Log.WithFields(logrus.Fields{"system": "player", "scene": p.Scene}).Info("restarting scene")
		w.Presenter().LoadScene(p.Scene)
	}
}

// FindPlayer returns the live player actor and its transform.
func FindPlayer(w *ecs.World) (ecs.Entity, *component.Transform, bool) {
	e, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return 0, nil, false
	}
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return 0, nil, false
	}
	return e, t, true
}
