package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/mitiskuma/gitburst/internal/config"
	"github.com/mitiskuma/gitburst/internal/engine"
	"github.com/mitiskuma/gitburst/internal/tui/components"
)

// chromeLines is the terminal rows reserved below the scene: one
// divider, one status bar.
const chromeLines = 2

// uiFeed receives engine callbacks. The bubbletea model is copied on
// every Update, so callback state lives behind this shared pointer and
// the model reads it when it renders.
type uiFeed struct {
	lastDate time.Time
	status   engine.Status
}

type model struct {
	eng    *engine.Engine
	cfg    config.Config
	theme  Theme
	canvas *Canvas
	bar    *components.StatusBar
	feed   *uiFeed

	width  int
	height int

	repoIDs []string
	repoIdx int // index into repoIDs+1; 0 is the combined view

	contribIdx int // highlight cycle position; -1 is no highlight

	dragging   bool
	lastMouseX int
	lastMouseY int

	hover    string
	showHelp bool

	seeking   bool
	seekInput textinput.Model
}

// messages
type tickMsg time.Time

// Run wires an engine to a terminal and blocks until the user quits.
// The engine must not yet be initialized; Run binds the canvas surface
// and drives Frame from the tick loop.
func Run(eng *engine.Engine, cfg config.Config) error {
	theme := ThemeByName(cfg.Theme)
	canvas := NewCanvas(theme)
	canvas.SetShowLabels(cfg.ShowLabels)

	if err := eng.Initialize(canvas); err != nil {
		return fmt.Errorf("bind surface: %w", err)
	}
	feed := &uiFeed{status: engine.StatusStopped}
	eng.SetCallbacks(engine.Callbacks{
		OnPlaybackChange: func(s engine.Status) { feed.status = s },
		OnDateChange:     func(t time.Time) { feed.lastDate = t },
	})
	if err := eng.Start(); err != nil {
		return fmt.Errorf("start engine: %w", err)
	}

	in := textinput.New()
	in.Placeholder = "2024-01-15, 2024-01-15T10:30:00Z or +30s"
	in.CharLimit = 40

	m := model{
		eng:        eng,
		cfg:        cfg,
		theme:      theme,
		canvas:     canvas,
		bar:        components.NewStatusBar(),
		feed:       feed,
		repoIDs:    eng.RepoIDs(),
		contribIdx: -1,
		seekInput:  in,
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func (m model) Init() tea.Cmd {
	m.eng.Play()
	return m.tick()
}

func (m model) tick() tea.Cmd {
	interval := time.Second / time.Duration(m.cfg.FPS)
	return tea.Tick(interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.eng.Frame(time.Time(msg))
		return m, m.tick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Scene rows are half-height cells; the engine viewport is kept
		// in square units, so rows double back into viewport height.
		m.eng.Resize(msg.Width, sceneRows(msg.Height)*2)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

func sceneRows(termHeight int) int {
	rows := termHeight - chromeLines
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.seeking {
		return m.handleSeekKeys(msg)
	}
	if m.showHelp {
		switch msg.String() {
		case "q", "ctrl+c":
			m.eng.Destroy()
			return m, tea.Quit
		default:
			m.showHelp = false
			return m, nil
		}
	}

	st := m.eng.State()
	switch msg.String() {
	case "q", "ctrl+c":
		m.eng.Destroy()
		return m, tea.Quit
	case "?":
		m.showHelp = true
	case " ":
		if st.Playback.Status == engine.StatusPlaying {
			m.eng.Pause()
		} else {
			m.eng.Play()
		}
	case "0":
		m.eng.Reset()
		m.feed.lastDate = time.Time{}
	case "+", "=":
		m.eng.SetSpeed(clampSpeed(st.Playback.Speed * 2))
	case "-", "_":
		m.eng.SetSpeed(clampSpeed(st.Playback.Speed / 2))
	case "left", "h":
		m.eng.PanCamera(-panStep, 0)
	case "right", "l":
		m.eng.PanCamera(panStep, 0)
	case "up", "k":
		m.eng.PanCamera(0, -panStep)
	case "down", "j":
		m.eng.PanCamera(0, panStep)
	case "z":
		m.zoomAtCenter(1)
	case "x":
		m.zoomAtCenter(-1)
	case "tab":
		m.repoIdx = (m.repoIdx + 1) % (len(m.repoIDs) + 1)
		if m.repoIdx == 0 {
			m.eng.SetActiveRepo("")
		} else {
			m.eng.SetActiveRepo(m.repoIDs[m.repoIdx-1])
		}
	case "a":
		v := !st.Settings.ShowAvatars
		m.eng.SetSettings(engine.SettingsPatch{ShowAvatars: &v})
	case "n":
		v := !st.Settings.ShowLabels
		m.eng.SetSettings(engine.SettingsPatch{ShowLabels: &v})
		m.canvas.SetShowLabels(v)
	case "c":
		m.cycleHighlight()
	case "C":
		m.contribIdx = -1
		m.eng.HighlightContributor("")
	case "s":
		m.seeking = true
		m.seekInput.SetValue("")
		m.seekInput.Focus()
		return m, textinput.Blink
	}
	return m, nil
}

func (m *model) zoomAtCenter(direction float64) {
	st := m.eng.State()
	m.eng.ZoomCamera(direction, float64(st.Camera.ViewportW)/2, float64(st.Camera.ViewportH)/2)
}

func (m *model) cycleHighlight() {
	contribs := m.eng.Contributors()
	if len(contribs) == 0 {
		return
	}
	m.contribIdx = (m.contribIdx + 1) % len(contribs)
	m.eng.HighlightContributor(contribs[m.contribIdx].ID)
}

const panStep = 6.0

func clampSpeed(s float64) float64 {
	if s < 0.25 {
		return 0.25
	}
	if s > 64 {
		return 64
	}
	return s
}

func (m model) handleSeekKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.seeking = false
		m.seekInput.Blur()
		return m, nil
	case "enter":
		v := strings.TrimSpace(m.seekInput.Value())
		if ts, ok := parseSeekTime(v); ok {
			m.eng.Seek(ts)
		} else if d, err := time.ParseDuration(v); err == nil {
			// Relative jump, e.g. "+30s" or "-1h".
			m.eng.Seek(m.eng.State().Playback.SimTime.Add(d))
		}
		m.seeking = false
		m.seekInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.seekInput, cmd = m.seekInput.Update(msg)
	return m, cmd
}

// parseSeekTime accepts RFC3339, a date with time, or a bare date.
func parseSeekTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02 15:04", "2006-01-02"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.eng.ZoomCamera(1, float64(msg.X), float64(msg.Y)*2)
		return m, nil
	case tea.MouseButtonWheelDown:
		m.eng.ZoomCamera(-1, float64(msg.X), float64(msg.Y)*2)
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.dragging = true
			m.lastMouseX, m.lastMouseY = msg.X, msg.Y
		}
	case tea.MouseActionRelease:
		m.dragging = false
	case tea.MouseActionMotion:
		if m.dragging {
			dx := float64(m.lastMouseX - msg.X)
			dy := float64(m.lastMouseY-msg.Y) * 2
			m.eng.PanCamera(dx, dy)
			m.lastMouseX, m.lastMouseY = msg.X, msg.Y
		} else {
			m.hover = m.hoverAt(msg.X, msg.Y)
		}
	}
	return m, nil
}

// hoverAt hit-tests the scene under a terminal cell, preferring
// contributors over nodes when both match.
func (m model) hoverAt(cellX, cellY int) string {
	cam := m.eng.State().Camera
	wx, wy := engine.ScreenToWorld(cam, float64(cellX), float64(cellY)*2)
	if c, ok := engine.HitTestContributor(wx, wy, m.eng.Contributors()); ok {
		return c.DisplayName
	}
	if n, ok := engine.HitTestNode(wx, wy, m.eng.Nodes(), m.eng.State().Settings.NodeSizeScale); ok {
		return fmt.Sprintf("%s (%d edits)", n.Path, n.ModificationCount)
	}
	return ""
}

func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.showHelp {
		return m.helpView()
	}

	scene := m.canvas.Render()

	st := m.eng.State()
	m.bar.SetPlayback(st.Playback.Status.String(), st.Playback.Speed, m.feed.lastDate)
	m.bar.SetScene(len(m.eng.Nodes()), st.Camera.Zoom)
	m.bar.SetRepoLabel(m.repoLabel())
	m.bar.SetHover(m.hover)

	divider := m.theme.DividerText(strings.Repeat("─", m.width))
	if m.seeking {
		prompt := m.theme.AccentText("seek: ") + m.seekInput.View()
		return scene + "\n" + divider + "\n" + ansi.Truncate(prompt, m.width, "…")
	}
	return scene + "\n" + divider + "\n" + m.bar.Render(m.width)
}

func (m model) repoLabel() string {
	if m.repoIdx == 0 {
		if len(m.repoIDs) > 1 {
			return "all"
		}
		if len(m.repoIDs) == 1 {
			return m.repoIDs[0]
		}
		return ""
	}
	return m.repoIDs[m.repoIdx-1]
}

func (m model) helpView() string {
	rows := []string{
		"gitburst keys",
		"",
		"  space      play / pause",
		"  0          reset to start",
		"  s          seek to a date",
		"  + / -      faster / slower",
		"  arrows     pan (also h j k l)",
		"  z / x      zoom in / out",
		"  wheel      zoom at pointer",
		"  drag       pan",
		"  tab        cycle repositories",
		"  c / C      highlight next contributor / clear",
		"  a          toggle avatars",
		"  n          toggle labels",
		"  q          quit",
		"",
		m.theme.LabelText("press any key to close"),
	}
	body := lipgloss.NewStyle().
		Padding(1, 3).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.DividerColor)).
		Render(strings.Join(rows, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}
