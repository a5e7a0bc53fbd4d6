package spritegraph

import (
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/yohamta/donburi"
)

// RunConfig configures a Game.
type RunConfig struct {
	Settings Settings

	// Update runs game logic once per tick, before the scene advances
	// animations and the camera. A returned error ends the loop.
	Update func(dt float32) error

	// ShowStats prints FPS, TPS, and the last frame's draw counts in the
	// top-left corner.
	ShowStats bool

	// Script, when set, is stepped once per tick before Update.
	Script *FrameScript
	// ExitWhenScriptDone ends the loop once Script has finished.
	ExitWhenScriptDone bool
	// ScreenshotDir is where Screenshot writes PNGs. Default "screenshots".
	ScreenshotDir string
}

// Game adapts a Scene to ebiten.Game.
//
// Draw cannot return an error, so a failed frame is stored and returned from
// the next Update, which ends the loop.
type Game struct {
	Scene   *Scene
	Backend *EbitenBackend
	cfg     RunConfig
	err     error

	statsAcc  float32
	statsLine string
	shots     []string
}

// NewEbitenScene wires an EbitenBackend, Go Regular glyphs, a Renderer, and
// a Scene sized from s.
func NewEbitenScene(w donburi.World, sheets *SheetIndex, s Settings) (*Scene, *EbitenBackend, error) {
	backend := NewEbitenBackend()
	glyphs, err := NewEbitenGlyphs(backend, nil)
	if err != nil {
		return nil, nil, err
	}
	r, err := NewRenderer(backend, WithGlyphRenderer(glyphs))
	if err != nil {
		return nil, nil, err
	}
	scene := NewScene(w, r, sheets, float32(s.Width), float32(s.Height))
	scene.HiDPI = s.HiDPI
	scene.SetDebugMode(s.Debug)
	return scene, backend, nil
}

// NewGame creates a Game drawing scene through backend.
func NewGame(scene *Scene, backend *EbitenBackend, cfg RunConfig) *Game {
	if cfg.Settings.Width == 0 || cfg.Settings.Height == 0 {
		cfg.Settings = DefaultSettings()
	}
	if cfg.ScreenshotDir == "" {
		cfg.ScreenshotDir = "screenshots"
	}
	return &Game{Scene: scene, Backend: backend, cfg: cfg}
}

// Err returns the error that stopped the game, if any.
func (g *Game) Err() error {
	return g.err
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	if g.err != nil {
		return g.err
	}
	dt := float32(1.0 / float64(ebiten.TPS()))
	if sc := g.cfg.Script; sc != nil {
		if err := sc.step(g.Scene, g.Screenshot); err != nil {
			g.err = err
			return err
		}
		if sc.Done() && g.cfg.ExitWhenScriptDone && len(g.shots) == 0 {
			return ebiten.Termination
		}
	}
	if g.cfg.Update != nil {
		if err := g.cfg.Update(dt); err != nil {
			g.err = err
			return err
		}
	}
	g.Scene.Update(dt)

	if g.cfg.ShowStats {
		g.statsAcc += dt
		if g.statsAcc >= 0.5 {
			g.statsAcc = 0
			st := g.Scene.LastStats()
			g.statsLine = fmt.Sprintf("FPS: %.1f\nTPS: %.1f\ndraws: %d quads: %d",
				ebiten.ActualFPS(), ebiten.ActualTPS(), st.DrawCalls, st.Quads)
		}
	}
	return nil
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.cfg.Settings.ClearColor.toRGBA())
	if g.err != nil {
		return
	}
	g.Backend.SetTarget(screen)
	if err := g.Scene.Draw(); err != nil {
		g.err = err
		return
	}
	if len(g.shots) > 0 {
		// captured before the stats overlay
		if err := writeScreenshots(g.cfg.ScreenshotDir, g.shots, captureNRGBA(screen)); err != nil {
			log.Printf("Warning: Could not save screenshot: %v", err)
		}
		g.shots = g.shots[:0]
	}
	if g.cfg.ShowStats && g.statsLine != "" {
		ebitenutil.DebugPrint(screen, g.statsLine)
	}
}

// Screenshot queues a PNG of the next drawn frame, written to
// RunConfig.ScreenshotDir.
func (g *Game) Screenshot(label string) {
	g.shots = append(g.shots, label)
}

// Layout implements ebiten.Game. The logical screen is the settings size and
// the camera viewport follows it.
func (g *Game) Layout(_, _ int) (int, int) {
	w, h := g.cfg.Settings.Width, g.cfg.Settings.Height
	if cam := g.Scene.Camera; cam != nil {
		cam.Width, cam.Height = float32(w), float32(h)
	}
	return w, h
}

// Run applies the window settings and blocks in ebiten.RunGame.
func Run(g *Game) error {
	s := g.cfg.Settings
	ebiten.SetWindowTitle(s.Title)
	ebiten.SetWindowSize(int(float32(s.Width)*s.HiDPI), int(float32(s.Height)*s.HiDPI))
	ebiten.SetFullscreen(s.Fullscreen)
	ebiten.SetVsyncEnabled(s.VSync)
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("spritegraph: run: %w", err)
	}
	return nil
}

// ScaleFromBase returns the per-axis factor between the current logical size
// and a base design resolution. Use it for Scene.BaseScale.
func ScaleFromBase(baseW, baseH, w, h int) mgl32.Vec2 {
	if baseW == 0 || baseH == 0 {
		return mgl32.Vec2{1, 1}
	}
	return mgl32.Vec2{float32(w) / float32(baseW), float32(h) / float32(baseH)}
}
