package system

import "github.com/milk9111/lightfall/ecs"

// Pipeline holds the installed systems that hosts and tests need to reach
// after Install.
type Pipeline struct {
	Input  *InputSystem
	Climax *ClimaxSystem
}

// Install registers the combat pipeline on w in frame order and attaches
// spatial as the world's spatial query. spatial may be nil for worlds that
// bring their own query.
func Install(w *ecs.World, spatial *ecs.SpatialWorld, source InputSource) *Pipeline {
	p := &Pipeline{
		Input:  NewInputSystem(source),
		Climax: NewClimaxSystem(),
	}
	if spatial != nil {
		w.SetSpatial(spatial)
	}

	w.AddSystem(p.Input)
	w.AddSystem(NewHealthSystem())
	w.AddSystem(NewPlayerControllerSystem())
	w.AddSystem(NewAttackWindowSystem())
	w.AddSystem(NewWalkerSystem())
	w.AddSystem(NewFlyerSystem())
	w.AddSystem(NewStalkerSystem())
	w.AddSystem(NewRusherSystem())
	w.AddSystem(NewEncounterSystem())
	w.AddSystem(NewCombatSystem())
	w.AddSystem(NewKillCreditSystem())
	w.AddSystem(p.Climax)
	w.AddSystem(NewMotionSystem())
	w.AddSystem(NewSpatialSyncSystem(spatial))
	w.AddSystem(NewDespawnSystem(spatial))
	return p
}
