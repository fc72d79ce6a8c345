package viz

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/scene"
)

var sceneInfo = map[string]string{
	"bridge":   "rope bridge with a load",
	"rope":     "hanging chain of cables",
	"swarm":    "particles in a box",
	"buoyancy": "floats on springs",
	"custom":   "particles from config",
}

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	subStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	descStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	idleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

const (
	stateScenes = iota
	statePresets
	stateConfig
	stateSim
)

const defaultPreset = "default"

// App picks a scene, a preset and parameters, then runs the live view.
type App struct {
	reg      *scene.Registry
	state    int
	cursor   int
	scenes   []string
	selected string
	presets  []string
	cfg      *config.Config
	params   []string
	editing  bool
	editBuf  string
	live     Model
	err      error
}

func NewInteractiveApp(reg *scene.Registry) *App {
	return &App{reg: reg, scenes: reg.List()}
}

func (m App) Init() tea.Cmd { return nil }

func (m App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch m.state {
		case stateScenes:
			return m.scenesKey(key)
		case statePresets:
			return m.presetsKey(key)
		case stateConfig:
			return m.configKey(key)
		}
	}
	if m.state == stateSim {
		next, cmd := m.live.Update(msg)
		m.live = next.(Model)
		return m, cmd
	}
	return m, nil
}

func (m *App) moveCursor(key string, n int) {
	switch key {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < n-1 {
			m.cursor++
		}
	}
}

func (m App) scenesKey(msg tea.KeyMsg) (App, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter", " ":
		if len(m.scenes) == 0 {
			return m, nil
		}
		m.selected = m.scenes[m.cursor]
		m.presets = append([]string{defaultPreset}, config.ListPresets(m.selected)...)
		m.state, m.cursor = statePresets, 0
	default:
		m.moveCursor(msg.String(), len(m.scenes))
	}
	return m, nil
}

func (m App) presetsKey(msg tea.KeyMsg) (App, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q", "esc":
		m.state, m.cursor = stateScenes, 0
	case "enter", " ":
		m.cfg = m.presetConfig(m.presets[m.cursor])
		m.params = config.ParamNames(m.cfg.Scene)
		m.state, m.cursor, m.err = stateConfig, 0, nil
	default:
		m.moveCursor(msg.String(), len(m.presets))
	}
	return m, nil
}

func (m App) presetConfig(preset string) *config.Config {
	if preset != defaultPreset {
		if cfg := config.GetPreset(m.selected, preset); cfg != nil {
			return cfg
		}
	}
	cfg := config.DefaultConfig()
	cfg.Scene = m.selected
	return cfg
}

func (m App) configKey(msg tea.KeyMsg) (App, tea.Cmd) {
	name := m.params[m.cursor]
	if m.editing {
		switch msg.String() {
		case "enter":
			if v, err := strconv.ParseFloat(m.editBuf, 64); err == nil {
				m.err = m.cfg.SetParam(name, v)
			}
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if s := msg.String(); len(s) == 1 && strings.ContainsAny(s, "0123456789.-e") {
				m.editBuf += s
			}
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q", "esc":
		m.state, m.cursor = statePresets, 0
	case "enter", " ":
		v, _ := m.cfg.Param(name)
		m.editing, m.editBuf = true, strconv.FormatFloat(v, 'g', -1, 64)
	case "left", "h":
		m.nudge(name, -1)
	case "right", "l":
		m.nudge(name, 1)
	case "s":
		return m.start()
	default:
		m.moveCursor(msg.String(), len(m.params))
	}
	return m, nil
}

// nudge changes a parameter by a tenth of its value, or by 0.1 from zero.
func (m *App) nudge(name string, dir float64) {
	v, err := m.cfg.Param(name)
	if err != nil {
		m.err = err
		return
	}
	step := 0.1
	if v != 0 {
		step = max(v, -v) * 0.1
	}
	m.err = m.cfg.SetParam(name, v+dir*step)
}

func (m App) start() (App, tea.Cmd) {
	if err := m.cfg.Validate(); err != nil {
		m.err = err
		return m, nil
	}
	live, err := NewModel(m.reg, m.cfg)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.live, m.state = live, stateSim
	return m, live.Init()
}

func (m App) View() string {
	switch m.state {
	case stateScenes:
		return m.viewList("PARTSIM", "particle physics sandbox", m.scenes, sceneInfo, "select")
	case statePresets:
		return m.viewList(strings.ToUpper(m.selected), "presets", m.presets, nil, "select  esc back")
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.live.View()
	}
	return ""
}

func (m App) viewList(title, sub string, items []string, info map[string]string, hint string) string {
	var b strings.Builder
	b.WriteString("\n\n    " + GradientText(title, CurrentTheme.Primary, CurrentTheme.Accent) + "\n    " + subStyle.Render(sub) + "\n    " + Separator(25) + "\n\n")
	for i, name := range items {
		desc := info[name]
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", cursorStyle.Render("▸"), activeStyle.Render(fmt.Sprintf("%-12s", name)), descStyle.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", idleStyle.Render(fmt.Sprintf("  %-12s", name)), idleStyle.Render(desc)))
		}
	}
	b.WriteString("\n    " + keyStyle.Render("j/k") + idleStyle.Render(" navigate  ") + keyStyle.Render("enter") + idleStyle.Render(" "+hint+"  ") + keyStyle.Render("q") + idleStyle.Render(" quit") + "\n")
	return b.String()
}

func (m App) viewConfig() string {
	var b strings.Builder
	b.WriteString("\n\n    " + titleStyle.Render(strings.ToUpper(m.cfg.Scene)) + "\n    " + subStyle.Render(sceneInfo[m.cfg.Scene]) + "\n    " + Separator(25) + "\n\n")
	for i, name := range m.params {
		v, _ := m.cfg.Param(name)
		val := fmt.Sprintf("%10.4g", v)
		if m.editing && i == m.cursor {
			val = fmt.Sprintf("%10s", m.editBuf+"_")
		}
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", cursorStyle.Render("▸"), activeStyle.Render(fmt.Sprintf("%-18s", name)), descStyle.Bold(true).Render(val)))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s\n", idleStyle.Render(fmt.Sprintf("  %-18s", name)), idleStyle.Render(val)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + lipgloss.NewStyle().Foreground(CurrentTheme.Warning).Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + keyStyle.Render("j/k") + idleStyle.Render(" select  ") + keyStyle.Render("h/l") + idleStyle.Render(" adjust  ") + keyStyle.Render("enter") + idleStyle.Render(" edit  ") + keyStyle.Render("s") + idleStyle.Render(" start  ") + keyStyle.Render("esc") + idleStyle.Render(" back") + "\n")
	return b.String()
}

func RunInteractive(reg *scene.Registry) error {
	_, err := tea.NewProgram(NewInteractiveApp(reg), tea.WithAltScreen()).Run()
	return err
}
