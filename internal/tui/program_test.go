package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/mitiskuma/gitburst/internal/config"
	"github.com/mitiskuma/gitburst/internal/engine"
	"github.com/mitiskuma/gitburst/internal/tui/components"
)

func replayPayload() engine.Payload {
	return engine.Payload{
		Commits: []engine.CommitRecord{
			{SHA: "c1", Timestamp: "2024-03-01T12:00:00Z", RepoID: "app",
				Author: engine.AuthorMeta{ID: "ana", Name: "Ana Lima"},
				Files: []engine.FileChange{
					{Path: "src/main.go", Type: engine.ChangeAdd, Additions: 40},
					{Path: "README.md", Type: engine.ChangeAdd, Additions: 5},
				}},
			{SHA: "c2", Timestamp: "2024-03-01T12:00:05Z", RepoID: "app",
				Author: engine.AuthorMeta{ID: "bob", Name: "Bob Reis"},
				Files: []engine.FileChange{
					{Path: "src/main.go", Type: engine.ChangeModify, Additions: 3, Deletions: 1},
				}},
		},
		Contributors: []engine.ContributorMeta{
			{ID: "ana", Name: "Ana Lima"},
			{ID: "bob", Name: "Bob Reis"},
		},
	}
}

func modelForTest(t *testing.T) model {
	t.Helper()
	cfg := config.Default()
	settings := engine.DefaultSettings()
	eng := engine.New(replayPayload(), settings)

	theme := ThemeByName(cfg.Theme)
	canvas := NewCanvas(theme)
	canvas.SetShowLabels(cfg.ShowLabels)
	if err := eng.Initialize(canvas); err != nil {
		t.Fatal(err)
	}
	feed := &uiFeed{status: engine.StatusStopped}
	eng.SetCallbacks(engine.Callbacks{
		OnPlaybackChange: func(s engine.Status) { feed.status = s },
		OnDateChange:     func(ts time.Time) { feed.lastDate = ts },
	})
	if err := eng.Start(); err != nil {
		t.Fatal(err)
	}

	m := model{
		eng:        eng,
		cfg:        cfg,
		theme:      theme,
		canvas:     canvas,
		bar:        components.NewStatusBar(),
		feed:       feed,
		repoIDs:    eng.RepoIDs(),
		contribIdx: -1,
		seekInput:  textinput.New(),
	}
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return next.(model)
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestView_RendersSceneAndStatusBar(t *testing.T) {
	m := modelForTest(t)
	m.eng.Play()
	m.eng.Seek(time.Date(2024, 3, 1, 12, 0, 10, 0, time.UTC))

	next, _ := m.Update(tickMsg(time.Now()))
	m = next.(model)

	out := ansi.Strip(m.View())
	lines := strings.Split(out, "\n")
	// 22 scene rows, a divider, a status bar.
	if len(lines) != 24 {
		t.Fatalf("expected 24 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[22], "─") {
		t.Fatalf("expected divider line, got %q", lines[22])
	}
	// The seek consumed every event, so the first playing frame parks
	// the clock in paused.
	if !strings.Contains(lines[23], "paused") {
		t.Fatalf("expected playback status in bar, got %q", lines[23])
	}
	if !strings.ContainsAny(out, "·•●○◉") {
		t.Fatal("expected the scene to contain node glyphs")
	}
}

func TestUpdate_SpaceTogglesPlayback(t *testing.T) {
	m := modelForTest(t)

	next, _ := m.Update(key(" "))
	m = next.(model)
	if got := m.eng.State().Playback.Status; got != engine.StatusPlaying {
		t.Fatalf("after space: status = %v, want playing", got)
	}

	next, _ = m.Update(key(" "))
	m = next.(model)
	if got := m.eng.State().Playback.Status; got != engine.StatusPaused {
		t.Fatalf("after second space: status = %v, want paused", got)
	}
}

func TestUpdate_SpeedKeysClamp(t *testing.T) {
	m := modelForTest(t)

	for i := 0; i < 12; i++ {
		next, _ := m.Update(key("+"))
		m = next.(model)
	}
	if got := m.eng.State().Playback.Speed; got != 64 {
		t.Fatalf("speed = %v, want clamped 64", got)
	}

	for i := 0; i < 20; i++ {
		next, _ := m.Update(key("-"))
		m = next.(model)
	}
	if got := m.eng.State().Playback.Speed; got != 0.25 {
		t.Fatalf("speed = %v, want clamped 0.25", got)
	}
}

func TestUpdate_TabCyclesRepoFilter(t *testing.T) {
	m := modelForTest(t)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(model)
	if got := m.eng.State().Settings.ActiveRepo; got != "app" {
		t.Fatalf("active repo = %q, want app", got)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(model)
	if got := m.eng.State().Settings.ActiveRepo; got != "" {
		t.Fatalf("active repo = %q, want combined view", got)
	}
}

func TestUpdate_HighlightCycleAndClear(t *testing.T) {
	m := modelForTest(t)

	next, _ := m.Update(key("c"))
	m = next.(model)
	contribs := m.eng.Contributors()
	if !contribs[0].IsHighlighted {
		t.Fatal("expected first contributor highlighted")
	}

	next, _ = m.Update(key("C"))
	m = next.(model)
	for _, c := range m.eng.Contributors() {
		if c.IsHighlighted {
			t.Fatalf("expected no highlight after clear, %s still highlighted", c.ID)
		}
	}
}

func TestUpdate_WheelZoomsAtPointer(t *testing.T) {
	m := modelForTest(t)
	before := m.eng.State().Camera.Zoom

	next, _ := m.Update(tea.MouseMsg{
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonWheelUp,
		X:      10, Y: 5,
	})
	m = next.(model)
	if got := m.eng.State().Camera.Zoom; got <= before {
		t.Fatalf("zoom = %v, want > %v after wheel up", got, before)
	}
}

func TestUpdate_DragPansCamera(t *testing.T) {
	m := modelForTest(t)

	next, _ := m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft, X: 20, Y: 10})
	m = next.(model)
	next, _ = m.Update(tea.MouseMsg{Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft, X: 15, Y: 10})
	m = next.(model)
	// Pan coalesces until the next frame.
	next, _ = m.Update(tickMsg(time.Now()))
	m = next.(model)

	if got := m.eng.State().Camera.OffsetX; got == 0 {
		t.Fatal("expected horizontal pan after drag")
	}
}

func TestSeekPrompt_ParsesAndJumps(t *testing.T) {
	m := modelForTest(t)

	next, _ := m.Update(key("s"))
	m = next.(model)
	if !m.seeking {
		t.Fatal("expected seek prompt to open")
	}

	m.seekInput.SetValue("2024-03-01T12:00:05Z")
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(model)
	if m.seeking {
		t.Fatal("expected seek prompt to close on enter")
	}
	if got := m.eng.State().Playback.SimTime; !got.Equal(time.Date(2024, 3, 1, 12, 0, 5, 0, time.UTC)) {
		t.Fatalf("sim time = %v, want the sought timestamp", got)
	}
}

func TestSeekPrompt_RelativeDurationJumpsBackward(t *testing.T) {
	m := modelForTest(t)
	m.eng.Seek(time.Date(2024, 3, 1, 12, 0, 5, 0, time.UTC))

	next, _ := m.Update(key("s"))
	m = next.(model)
	m.seekInput.SetValue("-3s")
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(model)

	if got := m.eng.State().Playback.SimTime; !got.Equal(time.Date(2024, 3, 1, 12, 0, 2, 0, time.UTC)) {
		t.Fatalf("sim time = %v, want 3s before the previous position", got)
	}
}

func TestParseSeekTime(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2024-03-01T12:00:05Z", true},
		{"2024-03-01 12:00:05", true},
		{"2024-03-01 12:00", true},
		{"2024-03-01", true},
		{"yesterday", false},
		{"", false},
	}
	for _, tc := range cases {
		if _, ok := parseSeekTime(tc.in); ok != tc.ok {
			t.Errorf("parseSeekTime(%q) ok = %v, want %v", tc.in, ok, tc.ok)
		}
	}
}

func TestHelpOverlayListsKeys(t *testing.T) {
	m := modelForTest(t)

	next, _ := m.Update(key("?"))
	m = next.(model)
	out := ansi.Strip(m.View())
	if !strings.Contains(out, "play / pause") || !strings.Contains(out, "cycle repositories") {
		t.Fatal("expected help overlay content")
	}
	if !strings.Contains(out, "press any key to close") {
		t.Fatal("expected help overlay footer")
	}

	next, _ = m.Update(key("?"))
	m = next.(model)
	if m.showHelp {
		t.Fatal("expected any key to close help")
	}
}
