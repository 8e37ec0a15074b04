package component

// StateID identifies a behavior FSM state.
type StateID string

// AIState is the state core shared by every behavior archetype. Entering a
// state resets all of its timers.
type AIState struct {
	Current  StateID
	Previous StateID
	// Elapsed runs on the scaled clock, RealElapsed on the unscaled one.
	Elapsed     float64
	RealElapsed float64
	// Duration is an optional time limit for the entry, often randomized.
	Duration float64
}

func (s *AIState) Enter(next StateID) {
	s.Previous = s.Current
	s.Current = next
	s.Elapsed = 0
	s.RealElapsed = 0
	s.Duration = 0
}

func (s *AIState) Is(id StateID) bool {
	return s.Current == id
}

func (s *AIState) Tick(dt, realDt float64) {
	s.Elapsed += dt
	s.RealElapsed += realDt
}
