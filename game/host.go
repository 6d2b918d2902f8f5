package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/50thycal/ant-farm/camera"
	"github.com/50thycal/ant-farm/config"
	"github.com/50thycal/ant-farm/renderer"
	"github.com/50thycal/ant-farm/telemetry"
	"github.com/50thycal/ant-farm/ui"
)

// Game is the windowed host around a Session: camera, renderers, UI and
// mouse tools. Create it after the raylib window is open.
type Game struct {
	session *Session
	cfg     *config.Config

	// Rendering
	camera        *camera.Camera
	background    *renderer.BackgroundRenderer
	terrain       *renderer.TerrainRenderer
	antRenderer   *renderer.AntRenderer
	fieldOverlays map[string]*renderer.FieldOverlay
	sprites       []renderer.AntSprite

	// UI
	uiHUD           *ui.HUD
	uiPerfPanel     *ui.PerfPanel
	uiColonyPanel   *ui.ColonyPanel
	uiControlsPanel *ui.ControlsPanel
	uiTools         *ui.ToolPanel
	uiInspector     *ui.Inspector
	uiOverlays      *ui.OverlayRegistry

	// State
	paused         bool
	stepsPerUpdate int
	selectedID     uint32
	hasSelection   bool
	lastStats      telemetry.WindowStats
	hasStats       bool
	snapshotDir    string

	screenWidth, screenHeight float32
}

// NewGame wraps s in a windowed host. snapshotDir is where the save key
// writes; empty means the working directory.
func NewGame(s *Session, stepsPerUpdate int, snapshotDir string) *Game {
	cfg := s.Config()
	g := s.Grid()
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())

	game := &Game{
		session:         s,
		cfg:             cfg,
		camera:          camera.New(w, h, float32(g.W), float32(g.H), float32(cfg.Screen.CellSize)),
		background:      renderer.NewBackgroundRenderer(int32(w), int32(h)),
		terrain:         renderer.NewTerrainRenderer(g.W, g.H, s.Seed()),
		antRenderer:     renderer.NewAntRenderer(),
		fieldOverlays:   make(map[string]*renderer.FieldOverlay),
		uiHUD:           ui.NewHUD(),
		uiPerfPanel:     ui.NewPerfPanel(int32(w)-330, 10),
		uiColonyPanel:   ui.NewColonyPanel(int32(w)-200, int32(h)-200, 190),
		uiControlsPanel: ui.NewControlsPanel(10, 100, 200),
		uiTools:         ui.NewToolPanel(int32(w)-130, 10, 120),
		uiInspector:     ui.NewInspector(10, 100, 220),
		uiOverlays:      ui.NewOverlayRegistry(),
		stepsPerUpdate:  max(1, stepsPerUpdate),
		snapshotDir:     snapshotDir,
		screenWidth:     w,
		screenHeight:    h,
	}
	game.terrain.Init()
	for _, name := range s.FieldNames() {
		o := renderer.NewFieldOverlay(g.W, g.H, renderer.FieldTint(name))
		o.Init()
		game.fieldOverlays[name] = o
	}
	game.uiOverlays.SetEnabled(ui.OverlayNest, true)
	game.layoutPanels()

	// Keep the latest window for the colony panel, then pass it on.
	prev := s.statsCallback
	s.statsCallback = func(ws telemetry.WindowStats) {
		game.lastStats = ws
		game.hasStats = true
		if prev != nil {
			prev(ws)
		}
	}

	slog.Info("window host ready", "width", w, "height", h, "zoom", game.camera.Zoom)
	return game
}

// Session returns the wrapped session.
func (g *Game) Session() *Session { return g.session }

// Tick returns the session tick.
func (g *Game) Tick() int32 { return g.session.Tick() }

// Update handles input and advances the simulation unless paused.
func (g *Game) Update() {
	g.handleInput()
	g.handleOverlayKeys()
	g.handleMouse()

	if g.paused {
		return
	}
	dt := float32(g.cfg.Physics.DT)
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.session.Step(dt)
	}
}

// Unload frees GPU resources. The session stays open.
func (g *Game) Unload() {
	g.terrain.Unload()
	for _, o := range g.fieldOverlays {
		o.Unload()
	}
}

// layoutPanels anchors right-side panels to the current screen size.
func (g *Game) layoutPanels() {
	w, h := int32(g.screenWidth), int32(g.screenHeight)
	g.uiTools.SetPosition(w-130, 10)
	g.uiPerfPanel.SetPosition(w-340, 10)
	g.uiColonyPanel.SetPosition(w-200, h-200)
}
