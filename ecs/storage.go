package ecs

// entityStore hands out entity slots and recycles destroyed ones with a
// bumped generation.
type entityStore struct {
	gen   []generation
	alive []bool
	free  []entityID
	count int
}

func (s *entityStore) create() Entity {
	if n := len(s.free); n > 0 {
		id := s.free[n-1]
		s.free = s.free[:n-1]
		s.alive[id-1] = true
		s.count++
		return makeEntity(id, s.gen[id-1])
	}
	s.gen = append(s.gen, 1)
	s.alive = append(s.alive, true)
	s.count++
	return makeEntity(entityID(len(s.gen)), 1)
}

func (s *entityStore) destroy(e Entity) bool {
	if !s.isAlive(e) {
		return false
	}
	idx := e.id() - 1
	s.gen[idx]++
	s.alive[idx] = false
	s.free = append(s.free, e.id())
	s.count--
	return true
}

func (s *entityStore) isAlive(e Entity) bool {
	if s == nil || e.id() == 0 || int(e.id()) > len(s.gen) {
		return false
	}
	idx := e.id() - 1
	return s.alive[idx] && s.gen[idx] == e.generation()
}

// entityAt rebuilds the live handle for a slot, or 0 if the slot is free.
func (s *entityStore) entityAt(id entityID) Entity {
	if id == 0 || int(id) > len(s.gen) || !s.alive[id-1] {
		return 0
	}
	return makeEntity(id, s.gen[id-1])
}
