package system

import (
	"math"

	"github.com/milk9111/lightfall/common"
	"github.com/milk9111/lightfall/ecs"
	"github.com/milk9111/lightfall/ecs/component"
	"github.com/milk9111/lightfall/logger"
	"github.com/sirupsen/logrus"
)

const (
	defaultStartFOV = 60.0
	minPulseSeconds = 0.05
	minBlackout     = 0.15
)

type climaxStage int

const (
	climaxZoom climaxStage = iota
	climaxSlowmo
	climaxFinale
	climaxExplode
	climaxBlackout
	climaxDone
)

func (s climaxStage) String() string {
	switch s {
	case climaxZoom:
		return "zoom"
	case climaxSlowmo:
		return "slowmo"
	case climaxFinale:
		return "finale"
	case climaxExplode:
		return "explode"
	case climaxBlackout:
		return "blackout"
	default:
		return "done"
	}
}

type climaxRun struct {
	boss  ecs.Entity
	enc   component.Encounter
	cfg   component.ClimaxConfig
	focus common.Vec3

	stage   climaxStage
	elapsed float64

	savedScale float64
	tracker    *ecs.KillTracker
	nextPulse  float64
	blood      float64
	bloodFrom  float64
}

// ClimaxSystem watches for the boss's death and runs the one-shot finale on
// the unscaled clock: zoom and flash, slow motion with rusher pulses and kill
// pressure, the final explosion, then the blackout and scene change.
type ClimaxSystem struct {
	// StartFOV is the camera FOV the zoom starts from.
	StartFOV float64

	run *climaxRun
}

func NewClimaxSystem() *ClimaxSystem { return &ClimaxSystem{StartFOV: defaultStartFOV} }

func (s *ClimaxSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	if s.run == nil {
		for _, d := range w.Events().Deaths() {
			if ecs.Has(w, d.Entity, component.EncounterComponent.Kind()) {
				s.begin(w, d.Entity)
			}
		}
	}
	if s.run != nil && s.run.stage != climaxDone {
		s.step(w, w.Clock().UnscaledDT())
	}
}

// Running reports whether a climax started and has not finished.
func (s *ClimaxSystem) Running() bool { return s.run != nil && s.run.stage != climaxDone }

// Done reports whether the climax ran to completion.
func (s *ClimaxSystem) Done() bool { return s.run != nil && s.run.stage == climaxDone }

// Kills returns the kill pressure counted so far.
func (s *ClimaxSystem) Kills() int {
	if s.run == nil || s.run.tracker == nil {
		return 0
	}
	return s.run.tracker.Kills
}

// Blood returns the eased kill-pressure accumulator.
func (s *ClimaxSystem) Blood() float64 {
	if s.run == nil {
		return 0
	}
	return s.run.blood
}

func (s *ClimaxSystem) begin(w *ecs.World, boss ecs.Entity) {
	if !w.Context().TryStartClimax() {
		return
	}
	enc, ok := ecs.Get(w, boss, component.EncounterComponent.Kind())
	if !ok {
		return
	}
	run := &climaxRun{boss: boss, cfg: enc.Climax, savedScale: 1}
	if t, ok := ecs.Get(w, boss, component.TransformComponent.Kind()); ok {
		run.focus = t.Position
	}

	from := enc.Runtime.Phase
	enc.Runtime.Phase = component.PhaseDead
	enc.Runtime.IntermissionActive = false
	enc.Runtime.Steps = nil
	enc.Runtime.Returning = false
	enc.Runtime.Attacking = false
	run.enc = *enc
	w.Events().Push(ecs.Event{Type: ecs.EventPhase, Data: ecs.PhaseEvent{Entity: boss, From: from.String(), To: component.PhaseDead.String()}})

	s.freezeBoss(w, boss)
	w.Events().Push(ecs.Event{Type: ecs.EventClimax, Data: boss})

	if player, _, ok := FindPlayer(w); ok {
		SetInvulnerable(w, player, true)
	}
	p := w.Presenter()
	p.Effect("light_explosion", run.focus)
	p.Overlay("flash", 1)
	p.Overlay("blood", 0)

	s.run = run
	logger.Log.WithFields(logrus.Fields{"system": "climax", "boss": boss.String()}).Info("climax started")
}

// freezeBoss stops everything the boss still does without destroying it.
func (s *ClimaxSystem) freezeBoss(w *ecs.World, boss ecs.Entity) {
	_ = ecs.Add(w, boss, component.FrozenComponent.Kind(), &component.Frozen{})
	_ = ecs.Add(w, boss, component.HiddenComponent.Kind(), &component.Hidden{})
	FreezeAttacks(w, boss)
	if hb, ok := ecs.Get(w, boss, component.HurtboxComponent.Kind()); ok {
		hb.Disabled = true
	}
	if cd, ok := ecs.Get(w, boss, component.ContactDamageComponent.Kind()); ok {
		cd.Damage = 0
	}
	if m, ok := ecs.Get(w, boss, component.MotionComponent.Kind()); ok {
		m.Velocity = common.Vec3{}
		m.Damping = false
	}
}

func (s *ClimaxSystem) step(w *ecs.World, udt float64) {
	run := s.run
	cfg := &run.cfg
	p := w.Presenter()
	run.elapsed += udt

	switch run.stage {
	case climaxZoom:
		t := 1.0
		if cfg.ZoomSeconds > 0 {
			t = common.Clamp01(run.elapsed / cfg.ZoomSeconds)
		}
		p.Camera(common.Lerp(s.startFOV(), cfg.ZoomFOV, t), run.focus)
		if cfg.FlashSeconds > 0 {
			p.Overlay("flash", 1-common.Clamp01(run.elapsed/cfg.FlashSeconds))
		}
		if t >= 1 {
			p.Overlay("flash", 0)
			s.advance(run, climaxSlowmo)
		}

	case climaxSlowmo:
		clock := w.Clock()
		run.savedScale = clock.TimeScale()
		if run.savedScale <= 0 {
			run.savedScale = 1
		}
		clock.SetTimeScale(common.Clamp(cfg.SlowmoScale, 0.01, 1))

		s.spawnFinale(w, cfg.GroundPerSide, cfg.FlyingCount)
		grace := math.Max(minPulseSeconds, math.Max(cfg.SlowmoSeconds*0.1, cfg.KillGraceSeconds))
		run.tracker = &ecs.KillTracker{Designated: run.boss, EnableAt: clock.UnscaledTime() + grace}
		w.Context().RegisterKillTracker(run.tracker)
		run.nextPulse = math.Max(minPulseSeconds, cfg.PulseInterval)
		s.advance(run, climaxFinale)

	case climaxFinale:
		if run.elapsed >= run.nextPulse {
			run.nextPulse += math.Max(minPulseSeconds, cfg.PulseInterval)
			s.spawnFinale(w, cfg.PulseGroundSide, cfg.PulseFlying)
		}
		target := 0.0
		if run.tracker.Kills > 0 {
			target = math.Min(cfg.BloodMax, float64(run.tracker.Kills)*cfg.BloodPerKill)
		}
		run.blood = math.Max(0, common.MoveTowards(run.blood, target, cfg.BloodEase*udt))
		p.Overlay("blood", run.blood)
		if run.elapsed >= cfg.Seconds {
			s.advance(run, climaxExplode)
		}

	case climaxExplode:
		w.Context().UnregisterKillTracker(run.tracker)
		w.Clock().SetTimeScale(run.savedScale)
		if cfg.FinalEffect != "" {
			p.Effect(cfg.FinalEffect, run.focus)
		}
		logger.Log.WithFields(logrus.Fields{"system": "climax", "kills": run.tracker.Kills}).Info("climax finale over")
		run.bloodFrom = run.blood
		s.advance(run, climaxBlackout)

	case climaxBlackout:
		t := common.Clamp01(run.elapsed / math.Max(minBlackout, cfg.FadeSeconds))
		run.blood = common.Lerp(run.bloodFrom, cfg.BloodMax, t)
		p.Overlay("blood", run.blood)
		if t >= 1 {
			s.advance(run, climaxDone)
			logger.Log.WithFields(logrus.Fields{"system": "climax", "scene": cfg.NextScene}).Info("loading next scene")
			p.LoadScene(cfg.NextScene)
		}
	}
}

func (s *ClimaxSystem) advance(run *climaxRun, next climaxStage) {
	logger.Log.WithFields(logrus.Fields{"system": "climax", "from": run.stage.String(), "to": next.String()}).Debug("climax stage")
	run.stage = next
	run.elapsed = 0
}

// spawnFinale spawns perSide ground rushers into each ground box and flying
// rushers across the flying span.
func (s *ClimaxSystem) spawnFinale(w *ecs.World, perSide, flying int) {
	run := s.run
	cfg := &run.cfg
	opts := component.SpawnOptions{
		KillCredit:  true,
		ArmDelay:    cfg.ArmDelay,
		Finale:      true,
		RusherSpeed: cfg.RusherSpeed,
	}
	if perSide > 0 {
		opts.Kind = firstNonEmpty(cfg.GroundKind, run.enc.GroundKind)
		SpawnWave(w, perSide*2, groundArea(&run.enc), opts)
	}
	if flying > 0 {
		opts.Kind = firstNonEmpty(cfg.FlyingKind, run.enc.FlyingKind)
		SpawnWave(w, flying, flyingArea(&run.enc), opts)
	}
}

func (s *ClimaxSystem) startFOV() float64 {
	if s.StartFOV > 0 {
		return s.StartFOV
	}
	return defaultStartFOV
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
