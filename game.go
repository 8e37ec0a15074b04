package main

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/lightfall/common"
	"github.com/milk9111/lightfall/ecs"
	"github.com/milk9111/lightfall/ecs/component"
	"github.com/milk9111/lightfall/ecs/system"
	"github.com/milk9111/lightfall/scene"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"
)

const (
	baseWidth  = 1280
	baseHeight = 720
	tps        = 60

	pixelsPerUnit = 48.0
	groundY       = baseHeight * 0.72
	depthSkew     = 0.35
	defaultFOV    = 60.0
)

var face = text.NewGoXFace(basicfont.Face7x13)

type Options struct {
	Level     string
	Seed      uint64
	PrefabDir string
	Watch     bool
	Debug     bool
}

type Game struct {
	frames int
	debug  bool

	session   *scene.Session
	presenter *viewPresenter
	camX      float64
}

func NewGame(opts Options) (*Game, error) {
	presenter := newViewPresenter()
	session, err := scene.New(scene.Config{
		Level:     opts.Level,
		Seed:      opts.Seed,
		PrefabDir: opts.PrefabDir,
		Watch:     opts.Watch,
		Presenter: presenter,
		Input:     keyboardInput{},
	})
	if err != nil {
		return nil, err
	}
	return &Game{debug: opts.Debug, session: session, presenter: presenter}, nil
}

func (g *Game) Close() error { return g.session.Close() }

func (g *Game) Update() error {
	g.frames++
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.debug = !g.debug
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.session.World.Presenter().LoadScene("")
	}

	dt := 1.0 / tps
	if err := g.session.Step(dt); err != nil {
		return err
	}
	g.presenter.age(dt)

	if _, pt, ok := system.FindPlayer(g.session.World); ok {
		g.camX = common.Lerp(g.camX, pt.Position.X, 0.1)
	}
	return nil
}

// project maps a world position to screen space, honoring the climax camera.
func (g *Game) project(p common.Vec3) (float32, float32, float64) {
	zoom := 1.0
	camX := g.camX
	if g.presenter.hasCamera && g.presenter.fov > 0 {
		zoom = defaultFOV / g.presenter.fov
		camX = g.presenter.focus.X
	}
	ppu := pixelsPerUnit * zoom
	x := baseWidth/2 + (p.X-camX)*ppu + p.Z*ppu*depthSkew
	y := groundY - p.Y*ppu - p.Z*ppu*depthSkew*0.5
	return float32(x), float32(y), ppu
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Midnightblue)
	if g.session.Finished != "" {
		g.drawCentered(screen, fmt.Sprintf("%s\n\npress Esc to quit", g.session.Finished))
		return
	}
	w := g.session.World

	_, gy, _ := g.project(common.Vec3{})
	vector.DrawFilledRect(screen, 0, gy, baseWidth, baseHeight-gy, colornames.Darkslategray, false)

	ecs.ForEach2(w, component.TransformComponent.Kind(), component.AppearanceComponent.Kind(), func(e ecs.Entity, t *component.Transform, a *component.Appearance) {
		if ecs.Has(w, e, component.HiddenComponent.Kind()) {
			return
		}
		g.drawActor(screen, w, e, t, a)
	})
	if g.debug {
		g.drawVolumes(screen, w)
	}
	for _, fx := range g.presenter.effects {
		x, y, ppu := g.project(fx.at)
		r := float32(ppu * (0.5 + 3*fx.age))
		alpha := uint8(255 * (1 - fx.age/effectLifetime))
		vector.StrokeCircle(screen, x, y, r, 3, color.NRGBA{R: 255, G: 240, B: 200, A: alpha}, true)
	}

	g.drawOverlays(screen)
	g.drawHUD(screen, w)
}

func (g *Game) drawActor(screen *ebiten.Image, w *ecs.World, e ecs.Entity, t *component.Transform, a *component.Appearance) {
	x, y, ppu := g.project(t.Position)
	r := float32(math.Max(a.Radius, 0.2) * ppu)

	var clr color.Color = colornames.White
	if a.Color != nil {
		clr = a.Color
	}
	if st, ok := ecs.Get(w, e, component.StalkerComponent.Kind()); ok {
		if st.Alpha <= 0 {
			return
		}
		n := color.NRGBAModel.Convert(clr).(color.NRGBA)
		n.A = uint8(255 * common.Clamp01(st.Alpha))
		clr = n
	}
	if system.IsDead(w, e) {
		clr = colornames.Dimgray
	}
	if system.IsBlocking(w, e) {
		vector.StrokeCircle(screen, x, y-r, r+4, 3, colornames.Skyblue, true)
	}
	vector.DrawFilledCircle(screen, x, y-r, r, clr, true)

	f := t.Forward()
	vector.StrokeLine(screen, x, y-r, x+float32(f.X)*r*1.4, y-r, 2, colornames.Black, true)

	if a.Label != "" {
		op := &text.DrawOptions{}
		op.GeoM.Translate(float64(x)-3, float64(y-r)-6)
		op.ColorScale.ScaleWithColor(colornames.Black)
		text.Draw(screen, a.Label, face, op)
	}
}

func (g *Game) drawVolumes(screen *ebiten.Image, w *ecs.World) {
	ecs.ForEach2(w, component.HurtboxComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, hb *component.Hurtbox, t *component.Transform) {
		if hb.Disabled {
			return
		}
		x, y, ppu := g.project(t.Position.Add(hb.Offset))
		vector.StrokeCircle(screen, x, y, float32(hb.Radius*ppu), 1, colornames.Lime, true)
	})
	ecs.ForEach2(w, component.AttackControllerComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, c *component.AttackController, t *component.Transform) {
		def := c.Definition()
		if def == nil {
			return
		}
		for i, lv := range c.Volumes {
			if !lv.Enabled || i >= len(def.Volumes) {
				continue
			}
			vol := def.Volumes[i]
			x, y, ppu := g.project(t.Position.Add(common.LocalToWorld(vol.Offset, t.Yaw)))
			vector.StrokeCircle(screen, x, y, float32(vol.Radius*ppu), 2, colornames.Red, true)
		}
	})
}

func (g *Game) drawOverlays(screen *ebiten.Image) {
	layers := []struct {
		name string
		clr  color.NRGBA
	}{
		{"blood", color.NRGBA{R: 120, A: 255}},
		{"flash", color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
		{"blackout", color.NRGBA{A: 255}},
	}
	for _, l := range layers {
		alpha := g.presenter.overlays[l.name]
		if alpha <= 0 {
			continue
		}
		c := l.clr
		c.A = uint8(float64(c.A) * alpha)
		vector.DrawFilledRect(screen, 0, 0, baseWidth, baseHeight, c, false)
	}
}

func (g *Game) drawHUD(screen *ebiten.Image, w *ecs.World) {
	ebitenutil.DebugPrint(screen, fmt.Sprintf("Frames: %d    FPS: %.2f    scale: %.2f    level: %s",
		g.frames, ebiten.ActualFPS(), w.Clock().TimeScale(), g.session.Level.Name))

	if player, _, ok := system.FindPlayer(w); ok {
		drawBar(screen, 16, 24, 240, system.HPPercent(w, player)/100, colornames.Seagreen)
	}
	if boss, ok := ecs.First(w, component.BossTagComponent.Kind()); ok {
		phase, _ := system.EncounterPhaseOf(w, boss)
		drawBar(screen, baseWidth/2-300, baseHeight-40, 600, system.HPPercent(w, boss)/100, colornames.Goldenrod)
		ebitenutil.DebugPrintAt(screen, "boss "+phase.String(), baseWidth/2-300, baseHeight-58)
	}
	if c := g.session.Pipeline.Climax; c.Running() {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("kills %d", c.Kills()), baseWidth-120, 24)
	}

	for i, line := range g.presenter.feed {
		ebitenutil.DebugPrintAt(screen, line, 16, 60+i*14)
	}
}

func (g *Game) drawCentered(screen *ebiten.Image, msg string) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(baseWidth/2-80, baseHeight/2-20)
	op.LineSpacing = 16
	op.ColorScale.ScaleWithColor(colornames.Whitesmoke)
	text.Draw(screen, msg, face, op)
}

func drawBar(screen *ebiten.Image, x, y, width float32, frac float64, clr color.Color) {
	vector.DrawFilledRect(screen, x, y, width, 10, colornames.Black, false)
	vector.DrawFilledRect(screen, x, y, width*float32(common.Clamp01(frac)), 10, clr, false)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
