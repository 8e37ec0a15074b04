package ecs

// Context holds the world-wide singletons that several systems coordinate
// through. It lives on the World so independent worlds never share state.
type Context struct {
	// ActiveStalker is the stalker currently holding the single active slot.
	ActiveStalker Entity
	// ClimaxStarted is set by the first boss death that wins the race.
	ClimaxStarted bool

	killTrackers []*KillTracker
	swingSeq     uint64
}

// KillTracker counts valid kills while registered.
type KillTracker struct {
	// Designated is the encounter's own actor; its death never counts.
	Designated Entity
	// EnableAt is the unscaled time before which deaths are ignored.
	EnableAt float64
	Kills    int
}

// NextSwingID returns a fresh swing identifier, never zero.
func (c *Context) NextSwingID() uint64 {
	c.swingSeq++
	return c.swingSeq
}

// ClaimStalkerSlot takes the active stalker slot if it is free or already
// held by e. A slot held by a dead entity counts as free.
func (c *Context) ClaimStalkerSlot(w *World, e Entity) bool {
	if c.ActiveStalker == e {
		return true
	}
	if c.ActiveStalker.Valid() && w.IsAlive(c.ActiveStalker) {
		return false
	}
	c.ActiveStalker = e
	return true
}

// ReleaseStalkerSlot frees the slot if e holds it.
func (c *Context) ReleaseStalkerSlot(e Entity) {
	if c.ActiveStalker == e {
		c.ActiveStalker = 0
	}
}

// TryStartClimax sets the climax flag and reports whether this caller won.
func (c *Context) TryStartClimax() bool {
	if c.ClimaxStarted {
		return false
	}
	c.ClimaxStarted = true
	return true
}

func (c *Context) RegisterKillTracker(t *KillTracker) {
	if t == nil {
		return
	}
	for _, existing := range c.killTrackers {
		if existing == t {
			return
		}
	}
	c.killTrackers = append(c.killTrackers, t)
}

func (c *Context) UnregisterKillTracker(t *KillTracker) {
	for i, existing := range c.killTrackers {
		if existing == t {
			c.killTrackers = append(c.killTrackers[:i], c.killTrackers[i+1:]...)
			return
		}
	}
}

func (c *Context) KillTrackers() []*KillTracker {
	return c.killTrackers
}
