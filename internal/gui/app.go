package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/scene"
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColGrid    = rl.NewColor(30, 30, 30, 255)
	ColLoad    = rl.NewColor(255, 200, 0, 255)
)

const (
	screenW    = 1280
	screenH    = 720
	maxSamples = 300
)

type App struct {
	Registry *scene.Registry
	Config   *config.Config
	Scene    *scene.Scene
	Camera   rl.Camera3D
	Running  bool
	InMenu   bool
	InConfig bool
	Quit     bool

	Scenes    []string
	Selected  int
	ParamKeys []string
	ParamSel  int

	// kinetic energy per frame, for the telemetry strip
	Telemetry []float64
	Font      rl.Font
}

func initWindow() {
	rl.InitWindow(screenW, screenH, "partsim")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

func loadFont() rl.Font {
	font := rl.LoadFontEx("/usr/share/fonts/liberation/LiberationMono-Regular.ttf", 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// NewApp opens on the scene menu when cfg is nil, and runs cfg's scene
// straight away otherwise.
func NewApp(reg *scene.Registry, cfg *config.Config) (*App, error) {
	a := &App{
		Registry:  reg,
		Scenes:    reg.List(),
		Font:      loadFont(),
		Telemetry: make([]float64, 0, maxSamples),
		InMenu:    cfg == nil,
	}
	if cfg != nil {
		if err := a.load(cfg); err != nil {
			return nil, err
		}
		a.Running = true
	}
	return a, nil
}

// Run opens a window on cfg's scene, or on the scene menu when cfg is nil,
// and blocks until it is closed.
func Run(reg *scene.Registry, cfg *config.Config) error {
	initWindow()
	defer rl.CloseWindow()

	app, err := NewApp(reg, cfg)
	if err != nil {
		return err
	}
	app.RunLoop()
	return nil
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() && !a.Quit {
		a.Update()
		a.Draw()
	}
}

func (a *App) load(cfg *config.Config) error {
	sc, err := a.Registry.Build(cfg)
	if err != nil {
		return err
	}
	a.Config = cfg
	a.Scene = sc
	a.Telemetry = a.Telemetry[:0]
	a.ParamKeys = config.ParamNames(cfg.Scene)
	a.ParamSel = 0
	a.Camera = cameraFor(sc.View)
	return nil
}

// cameraFor frames the scene's view box from in front, slightly raised.
func cameraFor(v scene.Box) rl.Camera3D {
	cx := float32((v.MinX + v.MaxX) / 2)
	cy := float32((v.MinY + v.MaxY) / 2)
	dist := float32(max(v.Width(), v.Height())) * 1.3
	return rl.NewCamera3D(
		rl.NewVector3(cx, cy+dist*0.2, dist),
		rl.NewVector3(cx, cy, 0),
		rl.NewVector3(0, 1, 0),
		45.0,
		rl.CameraPerspective,
	)
}

func (a *App) Update() {
	if rl.IsKeyPressed(rl.KeyQ) {
		a.Quit = true
		return
	}

	if a.InMenu {
		a.updateMenu()
		return
	}
	if a.InConfig {
		a.updateConfig()
		return
	}

	if rl.IsKeyPressed(rl.KeyEscape) {
		a.InMenu = true
		a.Running = false
		return
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.Running = !a.Running
	}
	if rl.IsKeyPressed(rl.KeyR) {
		_ = a.load(a.Config)
	}

	a.updateLoad()

	if a.Running {
		a.Scene.Step(a.Config.Dt)
		a.Telemetry = append(a.Telemetry, a.Scene.KineticEnergy())
		if len(a.Telemetry) > maxSamples {
			a.Telemetry = a.Telemetry[1:]
		}
	}
}

func (a *App) updateMenu() {
	if rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyJ) {
		a.Selected++
	}
	if rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyK) {
		a.Selected--
	}
	if a.Selected >= len(a.Scenes) {
		a.Selected = 0
	}
	if a.Selected < 0 {
		a.Selected = len(a.Scenes) - 1
	}

	if rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeySpace) {
		cfg := config.DefaultConfig()
		cfg.Scene = a.Scenes[a.Selected]
		if cfg.Scene == "custom" {
			cfg = config.GetPreset("custom", "hammock")
		}
		if err := a.load(cfg); err != nil {
			return
		}
		a.InMenu = false
		a.InConfig = true
		a.Running = false
	}
}

func (a *App) updateConfig() {
	if rl.IsKeyPressed(rl.KeyEscape) {
		a.InMenu = true
		a.InConfig = false
		return
	}
	if rl.IsKeyPressed(rl.KeyEnter) {
		if a.Config.Validate() != nil || a.load(a.Config) != nil {
			return
		}
		a.InConfig = false
		a.Running = true
		return
	}
	if len(a.ParamKeys) == 0 {
		return
	}

	if rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyJ) {
		a.ParamSel = (a.ParamSel + 1) % len(a.ParamKeys)
	}
	if rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyK) {
		a.ParamSel--
		if a.ParamSel < 0 {
			a.ParamSel = len(a.ParamKeys) - 1
		}
	}

	key := a.ParamKeys[a.ParamSel]
	step := 0.1
	if rl.IsKeyDown(rl.KeyLeftShift) {
		step = 1.0
	}
	v, _ := a.Config.Param(key)
	if rl.IsKeyPressed(rl.KeyRight) || rl.IsKeyPressed(rl.KeyL) {
		_ = a.Config.SetParam(key, v+step)
	}
	if rl.IsKeyPressed(rl.KeyLeft) || rl.IsKeyPressed(rl.KeyH) {
		_ = a.Config.SetParam(key, v-step)
	}
}

// updateLoad lets the mouse drag the bridge load along the deck while the
// left button is held; the arrow keys move it across.
func (a *App) updateLoad() {
	x, z, ok := a.Scene.BallGrid()
	if !ok {
		return
	}

	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		ray := rl.GetMouseRay(rl.GetMousePosition(), a.Camera)
		if ray.Direction.Z != 0 {
			t := -ray.Position.Z / ray.Direction.Z
			if t > 0 {
				x = deckGrid(float64(ray.Position.X + t*ray.Direction.X))
			}
		}
	}
	if rl.IsKeyDown(rl.KeyUp) {
		z += 0.02
	}
	if rl.IsKeyDown(rl.KeyDown) {
		z -= 0.02
	}
	if rl.IsKeyDown(rl.KeyRight) {
		x += 0.05
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		x -= 0.05
	}
	_ = a.Scene.SetBallPosition(min(max(x, 0), 5), min(max(z, 0), 1))
}

// deckGrid converts a world x coordinate to the load's position along the
// bridge deck, whose particle pairs sit at x = 1, 3, 5 ...
func deckGrid(worldX float64) float64 {
	return (worldX - 1) / 2
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	switch {
	case a.InMenu:
		a.drawMenu()
	case a.InConfig:
		a.drawConfig()
	default:
		a.drawSim()
		a.DrawHUD()
	}

	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	a.drawText("partsim", 30, 30, 24, ColSelect)
	a.drawText(fmt.Sprintf(":: %s", a.Scene.Name), 150, 34, 16, ColText)

	a.DrawTelemetry()

	status := "RUNNING"
	col := ColSelect
	if !a.Running {
		status = "PAUSED"
		col = ColTextDim
	}
	a.drawText(status, 1150, 30, 16, col)

	w := a.Scene.World
	a.drawText(fmt.Sprintf("t %.2fs", a.Scene.Time()), 30, 70, 14, ColText)
	a.drawText(fmt.Sprintf("contacts %d/%d", len(w.Contacts()), w.MaxContacts()), 30, 90, 14, ColText)
	a.drawText(fmt.Sprintf("iterations %d/%d", w.IterationsUsed(), w.Iterations()), 30, 110, 14, ColText)
	if x, z, ok := a.Scene.BallGrid(); ok {
		a.drawText(fmt.Sprintf("load x %.2f z %.2f", x, z), 30, 130, 14, ColLoad)
	}

	hint := "[SPACE] PAUSE  [R] RESET  [ESC] MENU  [Q] QUIT"
	if a.Scene.HasLoad() {
		hint = "[MOUSE] DRAG LOAD  [ARROWS] MOVE LOAD  " + hint
	}
	a.drawText(hint, 560, 680, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), 30, 680, 14, ColTextDim)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

func (a *App) DrawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}

	rectX, rectY := 30, 600
	width, height := 400, 60

	minVal, maxVal := a.Telemetry[0], a.Telemetry[0]
	for _, v := range a.Telemetry {
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(rectX) + (float32(i)/float32(len(a.Telemetry)))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(rectY+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	a.drawText(fmt.Sprintf("KE: %.2e", a.Telemetry[len(a.Telemetry)-1]), rectX+width+10, rectY+height-10, 14, ColText)
}

func (a *App) drawMenu() {
	a.drawText("partsim", 50, 50, 40, ColSelect)
	a.drawText("Select Scene", 50, 100, 16, ColTextDim)

	y := 160
	for i, name := range a.Scenes {
		if i == a.Selected {
			a.drawText(fmt.Sprintf("> %s", name), 50, y, 20, ColSelect)
		} else {
			a.drawText(fmt.Sprintf("  %s", name), 50, y, 20, ColText)
		}
		y += 28
	}

	a.drawText("ARROWS: NAVIGATE  ENTER: SELECT  Q: QUIT", 850, 680, 14, ColTextDim)
}

func (a *App) drawConfig() {
	a.drawText("partsim", 50, 50, 40, ColTextDim)
	a.drawText("configure", 240, 65, 20, ColSelect)
	a.drawText(fmt.Sprintf("Scene: %s", a.Config.Scene), 50, 110, 16, ColAccent)

	y := 180
	for i, key := range a.ParamKeys {
		v, _ := a.Config.Param(key)
		if i == a.ParamSel {
			a.drawText(fmt.Sprintf("> %-18s %.3g", key, v), 50, y, 20, ColSelect)
		} else {
			a.drawText(fmt.Sprintf("  %-18s %.3g", key, v), 50, y, 20, ColText)
		}
		y += 28
	}
	if err := a.Config.Validate(); err != nil {
		a.drawText(err.Error(), 50, y+20, 16, rl.Red)
	}

	a.drawText("ARROWS: ADJUST  SHIFT: x10  ENTER: RUN  ESC: BACK", 760, 680, 14, ColTextDim)
}
