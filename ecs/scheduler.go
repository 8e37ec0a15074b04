package ecs

type System interface {
	Update(w *World)
}

// Scheduler runs systems in registration order. A system added while the
// scheduler is running first runs on the next tick.
type Scheduler struct {
	systems []System
}

func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

func (s *Scheduler) Update(w *World) {
	systems := s.systems
	for _, system := range systems {
		system.Update(w)
	}
}
