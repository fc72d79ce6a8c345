package viz

import (
	"fmt"
	"image"
	"image/gif"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/scene"
	"github.com/san-kum/partsim/internal/vecmath"
)

const (
	width           = 72
	height          = 24
	historyCapacity = 600
	ballStepX       = 0.25
	ballStepZ       = 0.1
)

// Snapshot is what the view needs to redraw a past frame.
type Snapshot struct {
	Time      float64
	Energy    float64
	Contacts  int
	Positions []vecmath.Vector3
	Links     [][2]vecmath.Vector3
	Ball      *vecmath.Vector3
}

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(44)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
)

type TickMsg time.Time

// Model runs a scene in the terminal. The arrow keys move the bridge load
// when the scene has one and rotate the camera otherwise.
type Model struct {
	reg     *scene.Registry
	cfg     *config.Config
	scene   *scene.Scene
	dt      float64
	fps     int
	canvas  *Canvas
	camera  *Camera
	running bool

	energyHistory  []float64
	contactHistory []float64
	history        []Snapshot
	playHead       int

	recording bool
	frames    []*image.Paletted
	gifPath   string

	showHelp bool
	err      error
}

// NewModel builds the configured scene and a view of it.
func NewModel(reg *scene.Registry, cfg *config.Config) (Model, error) {
	sc, err := reg.Build(cfg)
	if err != nil {
		return Model{}, err
	}
	return Model{
		reg:            reg,
		cfg:            cfg,
		scene:          sc,
		dt:             cfg.Dt,
		fps:            60,
		canvas:         NewCanvas(width, height),
		camera:         NewCamera(sc.View),
		running:        true,
		energyHistory:  make([]float64, 0, historyCapacity),
		contactHistory: make([]float64, 0, historyCapacity),
		history:        make([]Snapshot, 0, historyCapacity),
		playHead:       -1,
		gifPath:        "partsim.gif",
	}, nil
}

// SetFPS sets the tick rate. Physics still advances by dt per tick.
func (m *Model) SetFPS(fps int) {
	if fps > 0 {
		m.fps = fps
	}
}

func (m *Model) SetGIFPath(path string) { m.gifPath = path }

func (m Model) Scene() *scene.Scene { return m.scene }
func (m Model) Running() bool       { return m.running }
func (m Model) Err() error          { return m.err }

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case ".":
			if !m.running {
				m.step()
			}
		case "r":
			m.reset()
		case "[":
			m.scrub(-1)
		case "]":
			m.scrub(1)
		case "left", "h":
			m.moveOrRotate(-ballStepX, 0, 0, -0.1)
		case "right", "l":
			m.moveOrRotate(ballStepX, 0, 0, 0.1)
		case "up", "k":
			m.moveOrRotate(0, ballStepZ, -0.1, 0)
		case "down", "j":
			m.moveOrRotate(0, -ballStepZ, 0.1, 0)
		case "x":
			m.camera.RotateX(0.1)
		case "X":
			m.camera.RotateX(-0.1)
		case "y":
			m.camera.RotateY(0.1)
		case "Y":
			m.camera.RotateY(-0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case "c":
			m.camera.Reset()
		case "g":
			m.toggleRecording()
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			if m.playHead == -1 {
				m.step()
			} else {
				m.playHead++
				if m.playHead >= len(m.history) {
					m.playHead = -1
				}
			}
		}
		if m.recording {
			m.draw()
			m.frames = append(m.frames, m.canvas.Image(8, 16))
			if len(m.frames) > historyCapacity {
				m.frames = m.frames[1:]
			}
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) step() {
	m.scene.Step(m.dt)
	snap := m.snapshot()

	m.energyHistory = appendCapped(m.energyHistory, snap.Energy)
	m.contactHistory = appendCapped(m.contactHistory, float64(snap.Contacts))
	m.history = append(m.history, snap)
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
}

func appendCapped(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

func (m *Model) snapshot() Snapshot {
	ls := m.scene.Links()
	snap := Snapshot{
		Time:      m.scene.Time(),
		Energy:    m.scene.KineticEnergy(),
		Contacts:  len(m.scene.World.Contacts()),
		Positions: m.scene.Positions(make([]vecmath.Vector3, 0, len(m.scene.Particles))),
		Links:     make([][2]vecmath.Vector3, len(ls)),
	}
	for i, l := range ls {
		snap.Links[i][0], snap.Links[i][1] = l.Ends()
	}
	if ball, ok := m.scene.BallPosition(); ok {
		snap.Ball = &ball
	}
	return snap
}

func (m *Model) moveOrRotate(dx, dz, rotX, rotY float64) {
	x, z, ok := m.scene.BallGrid()
	if !ok {
		m.camera.RotateX(rotX)
		m.camera.RotateY(rotY)
		return
	}
	x = min(max(x+dx, 0), 5)
	z = min(max(z+dz, 0), 1)
	m.err = m.scene.SetBallPosition(x, z)
}

// scrub moves the replay head through the recorded history, pausing the
// live run.
func (m *Model) scrub(dir int) {
	if m.playHead == -1 {
		if len(m.history) == 0 {
			return
		}
		m.playHead = len(m.history) - 1
		m.running = false
	}
	m.playHead += dir
	if m.playHead < 0 {
		m.playHead = 0
	}
	if m.playHead >= len(m.history) {
		m.playHead = -1
	}
}

// reset rebuilds the scene from its config.
func (m *Model) reset() {
	sc, err := m.reg.Build(m.cfg)
	if err != nil {
		m.err = err
		return
	}
	m.scene = sc
	m.energyHistory = m.energyHistory[:0]
	m.contactHistory = m.contactHistory[:0]
	m.history = m.history[:0]
	m.playHead = -1
	m.err = nil
}

func (m *Model) toggleRecording() {
	if !m.recording {
		m.recording = true
		m.frames = m.frames[:0]
		return
	}
	m.recording = false
	m.err = m.saveGIF()
	m.frames = nil
}

func (m *Model) saveGIF() error {
	if len(m.frames) == 0 {
		return nil
	}
	anim := gif.GIF{}
	for _, frame := range m.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 100/m.fps+1)
	}
	f, err := os.Create(m.gifPath)
	if err != nil {
		return fmt.Errorf("save gif: %w", err)
	}
	if err := gif.EncodeAll(f, &anim); err != nil {
		f.Close()
		return fmt.Errorf("save gif: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("save gif: %w", err)
	}
	return nil
}

// current returns the frame being shown: the replay head, or the live scene.
func (m *Model) current() Snapshot {
	if m.playHead >= 0 && m.playHead < len(m.history) {
		return m.history[m.playHead]
	}
	return m.snapshot()
}

func (m *Model) draw() {
	m.drawSnapshot(m.current())
}

func (m *Model) drawSnapshot(snap Snapshot) {
	m.canvas.Clear()
	sw, sh := m.canvas.PixelWidth(), m.canvas.PixelHeight()

	if m.scene.Boundary != nil {
		v := m.scene.View
		x0, y0, _ := m.camera.Project(vecmath.New(v.MinX, 0, 0), sw, sh)
		x1, y1, _ := m.camera.Project(vecmath.New(v.MaxX, 0, 0), sw, sh)
		m.canvas.DrawLine(x0, y0, x1, y1)
	}
	for _, l := range snap.Links {
		x0, y0, _ := m.camera.Project(l[0], sw, sh)
		x1, y1, _ := m.camera.Project(l[1], sw, sh)
		m.canvas.DrawLine(x0, y0, x1, y1)
	}
	for _, p := range snap.Positions {
		if x, y, ok := m.camera.Project(p, sw, sh); ok {
			m.canvas.Dot(x, y)
		}
	}
	if snap.Ball != nil {
		if x, y, ok := m.camera.Project(*snap.Ball, sw, sh); ok {
			m.canvas.DrawLine(x-3, y-3, x+3, y+3)
			m.canvas.DrawLine(x-3, y+3, x+3, y-3)
		}
	}
}

func (m Model) View() string {
	snap := m.current()
	m.drawSnapshot(snap)

	theme := CurrentTheme
	canvasView := canvasStyle.Foreground(theme.Scene).Render(m.canvas.String())

	status := StatusRunning.Render("RUNNING")
	switch {
	case m.playHead != -1:
		last := m.history[len(m.history)-1].Time
		status = StatusPaused.Render(fmt.Sprintf("REPLAY (%.1fs)", snap.Time-last))
	case !m.running:
		status = StatusPaused.Render("PAUSED")
	}
	if m.recording {
		status += " " + StatusRecording.Render("● REC")
	}

	var s strings.Builder
	s.WriteString(GradientText(strings.ToUpper(m.scene.Name), theme.Primary, theme.Accent) + "\n")
	s.WriteString(status + "\n\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(MetricLabel.Render(label) + MetricValue.Render(value) + "\n")
	}
	w := m.scene.World
	row("Time", fmt.Sprintf("%.2fs", snap.Time))
	row("Particles", fmt.Sprintf("%d", len(snap.Positions)))
	row("Links", fmt.Sprintf("%d", len(snap.Links)))
	row("Energy", fmt.Sprintf("%.2f J", snap.Energy))
	row("Contacts", fmt.Sprintf("%d / %d", snap.Contacts, w.MaxContacts()))
	s.WriteString(MetricLabel.Render("") + UsageBar(float64(snap.Contacts)/float64(w.MaxContacts()), 20) + "\n")
	s.WriteString(MetricLabel.Render("") + SparklineChart(m.contactHistory, 20) + "\n")
	iters := fmt.Sprintf("%d / %d", w.IterationsUsed(), w.Iterations())
	if w.AutoIterations() {
		iters += " auto"
	}
	row("Iterations", iters)
	if x, z, ok := m.scene.BallGrid(); ok {
		row("Load", fmt.Sprintf("x %.2f  z %.2f", x, z))
	}
	if m.err != nil {
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.Warning).Render(m.err.Error()) + "\n")
	}

	s.WriteString(KeyHint.Render("\n─────────────────────\nSP:Pause R:Reset Q:Quit\nT:Theme  G:Record ?:Help\n[ ]:Time-Travel ←→↑↓:Load/Camera"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  .        - Single step when paused  ║
║  R        - Rebuild the scene        ║
║  Q        - Quit                     ║
║  Arrows   - Move load / rotate view  ║
║  X Y      - Rotate view              ║
║  + -      - Zoom                     ║
║  C        - Reset camera             ║
║  [ ]      - Rewind / forward         ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`
