package component

// Player holds the player actor's movement tuning and its death sequence.
type Player struct {
	MoveSpeed float64
	// DeathFade is the unscaled time the blackout takes before the restart.
	DeathFade float64
	Scene     string

	Dying        bool
	DeathElapsed float64
	Restarted    bool
}

var PlayerComponent = NewComponent[Player]()
