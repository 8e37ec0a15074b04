package ecs

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

const (
	EventDamage = "damage"
	EventDeath  = "death"
	EventPhase  = "phase"
	EventClimax = "climax"
)

// DamageEvent is emitted for every non-fatal hit that landed.
type DamageEvent struct {
	Entity Entity
	Amount float64
	HP     float64
}

// DeathEvent is emitted once, when an actor's HP reaches zero.
type DeathEvent struct {
	Entity Entity
}

// PhaseEvent is emitted when an encounter changes phase.
type PhaseEvent struct {
	Entity Entity
	From   string
	To     string
}

// EventQueue is a simple FIFO queue. Events live until the end of the frame
// they were pushed in.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Pending returns the events pushed so far this frame without consuming them.
func (q *EventQueue) Pending() []Event {
	if q == nil {
		return nil
	}
	return q.items
}

// Deaths returns the death events pushed so far this frame.
func (q *EventQueue) Deaths() []DeathEvent {
	if q == nil {
		return nil
	}
	var out []DeathEvent
	for _, evt := range q.items {
		if d, ok := evt.Data.(DeathEvent); ok && evt.Type == EventDeath {
			out = append(out, d)
		}
	}
	return out
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
