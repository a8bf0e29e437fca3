package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// StatusBar manages the bottom status bar.
type StatusBar struct {
	simTime   time.Time
	status    string
	speed     float64
	zoom      float64
	nodeCount int
	repoLabel string
	hover     string
}

// NewStatusBar creates a new status bar.
func NewStatusBar() *StatusBar {
	return &StatusBar{speed: 1, zoom: 1}
}

// SetPlayback updates the playback fields.
func (s *StatusBar) SetPlayback(status string, speed float64, simTime time.Time) {
	s.status = status
	s.speed = speed
	s.simTime = simTime
}

// SetScene updates the scene fields.
func (s *StatusBar) SetScene(nodeCount int, zoom float64) {
	s.nodeCount = nodeCount
	s.zoom = zoom
}

// SetRepoLabel updates the active repository label.
func (s *StatusBar) SetRepoLabel(label string) {
	s.repoLabel = label
}

// SetHover updates the hovered node or contributor description.
func (s *StatusBar) SetHover(desc string) {
	s.hover = desc
}

// Render renders the status bar.
func (s *StatusBar) Render(width int) string {
	leftText := "?: help"
	if s.hover != "" {
		leftText = s.hover
	}
	if s.repoLabel != "" {
		leftText += "  |  repo: " + s.repoLabel
	}

	date := "--"
	if !s.simTime.IsZero() {
		date = s.simTime.Format("2006-01-02 15:04")
	}
	rightText := fmt.Sprintf("%s  %s  %gx  %d nodes  %.1fx zoom",
		date, s.status, s.speed, s.nodeCount, s.zoom)

	leftStyled := lipgloss.NewStyle().Faint(true).Render(leftText)
	right := lipgloss.NewStyle().Faint(true).Render(rightText)

	// Ensure right part is always visible
	rightW := lipgloss.Width(right)
	if rightW >= width {
		return ansi.Truncate(right, width, "…")
	}

	avail := width - rightW - 1
	leftRendered := leftStyled
	if lipgloss.Width(leftRendered) > avail {
		leftRendered = ansi.Truncate(leftRendered, avail, "…")
	} else if lipgloss.Width(leftRendered) < avail {
		leftRendered = leftRendered + strings.Repeat(" ", avail-lipgloss.Width(leftRendered))
	}

	return leftRendered + " " + right
}
