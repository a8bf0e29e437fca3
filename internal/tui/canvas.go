package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mitiskuma/gitburst/internal/engine"
)

// cell is one terminal cell of the scene buffer. Color is a hex string
// already blended for opacity; empty means the background shows.
type cell struct {
	ch    rune
	color string
	bold  bool
}

// Canvas rasterizes engine draw calls into a terminal cell grid. It
// implements engine.Renderer; the engine hands it screen coordinates,
// so Canvas only plots cells and clips to the viewport.
type Canvas struct {
	theme      Theme
	width      int
	height     int
	cells      []cell
	showLabels bool
}

// NewCanvas builds an empty canvas for the given theme.
func NewCanvas(theme Theme) *Canvas {
	return &Canvas{theme: theme}
}

// SetShowLabels toggles node name labels on the next frame.
func (c *Canvas) SetShowLabels(on bool) {
	c.showLabels = on
}

// Clear starts a frame. The engine works in square screen units while
// terminal cells are roughly twice as tall as wide, so a viewport of
// height H becomes H/2 cell rows and every y coordinate is halved when
// plotted.
func (c *Canvas) Clear(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	c.width, c.height = width, height/2
	if n := width * height; cap(c.cells) < n {
		c.cells = make([]cell, n)
	} else {
		c.cells = c.cells[:n]
		for i := range c.cells {
			c.cells[i] = cell{}
		}
	}
}

func (c *Canvas) set(x, y int, ch rune, color string, bold bool) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	c.cells[y*c.width+x] = cell{ch: ch, color: color, bold: bold}
}

// setSoft plots only into empty cells, so labels never overwrite nodes.
func (c *Canvas) setSoft(x, y int, ch rune, color string) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	if c.cells[y*c.width+x].ch == 0 {
		c.cells[y*c.width+x] = cell{ch: ch, color: color}
	}
}

// DrawEdge plots a parent-child link with Bresenham's line algorithm.
func (c *Canvas) DrawEdge(x1, y1, x2, y2 float64, opacity float64) {
	if opacity <= 0 {
		return
	}
	color := c.theme.Faded(c.theme.EdgeColor, opacity)
	ax, ay := int(math.Round(x1)), int(math.Round(y1/2))
	bx, by := int(math.Round(x2)), int(math.Round(y2/2))
	c.line(ax, ay, bx, by, '·', color)
}

func (c *Canvas) line(x1, y1, x2, y2 int, ch rune, color string) {
	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx + dy
	x, y := x1, y1
	for {
		c.setSoft(x, y, ch, color)
		if x == x2 && y == y2 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func (c *Canvas) DrawNode(n engine.Node, x, y, radius float64) {
	if n.Opacity <= 0 {
		return
	}
	cx, cy := int(math.Round(x)), int(math.Round(y/2))
	color := c.theme.Faded(n.Color, n.Opacity)
	c.set(cx, cy, nodeGlyph(n.IsDirectory, radius), color, false)
	if c.showLabels && !n.IsDirectory && radius >= labelRadius {
		c.label(cx+2, cy, n.Name, c.theme.Faded(c.theme.LabelColor, n.Opacity))
	}
}

// labelRadius is the screen radius above which a file earns a label;
// below it the scene is too dense to annotate.
const labelRadius = 2.0

func nodeGlyph(dir bool, radius float64) rune {
	if dir {
		if radius >= 3 {
			return '◉'
		}
		return '○'
	}
	switch {
	case radius >= 3:
		return '●'
	case radius >= 1.5:
		return '•'
	default:
		return '·'
	}
}

func (c *Canvas) label(x, y int, s, color string) {
	for i, r := range s {
		c.setSoft(x+i, y, r, color)
	}
}

func (c *Canvas) DrawBeam(x1, y1, x2, y2 float64, intensity float64) {
	if intensity <= 0 {
		return
	}
	color := c.theme.Faded(c.theme.AccentColor, intensity)
	ax, ay := int(math.Round(x1)), int(math.Round(y1/2))
	bx, by := int(math.Round(x2)), int(math.Round(y2/2))
	c.line(ax, ay, bx, by, '∙', color)
}

func (c *Canvas) DrawAvatar(a engine.Contributor, x, y, radius float64) {
	if a.Opacity <= 0 {
		return
	}
	cx, cy := int(math.Round(x)), int(math.Round(y/2))
	color := c.theme.Faded(a.Color, a.Opacity)
	c.set(cx, cy, '◆', color, a.IsHighlighted)
	c.label(cx+2, cy, initials(a.DisplayName), color)
}

// initials shortens "Ana Lima" to "AL" for the marker tag.
func initials(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		for _, r := range word {
			b.WriteRune(r)
			break
		}
		if b.Len() >= 2 {
			break
		}
	}
	return strings.ToUpper(b.String())
}

// Render flattens the grid into a styled multi-line string. Runs of
// identically-colored cells share one style call to keep output small.
func (c *Canvas) Render() string {
	var out strings.Builder
	for y := 0; y < c.height; y++ {
		if y > 0 {
			out.WriteByte('\n')
		}
		x := 0
		for x < c.width {
			cl := c.cells[y*c.width+x]
			if cl.ch == 0 {
				out.WriteByte(' ')
				x++
				continue
			}
			var run strings.Builder
			start := cl
			for x < c.width {
				cur := c.cells[y*c.width+x]
				if cur.ch == 0 || cur.color != start.color || cur.bold != start.bold {
					break
				}
				run.WriteRune(cur.ch)
				x++
			}
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(start.color))
			if start.bold {
				style = style.Bold(true)
			}
			out.WriteString(style.Render(run.String()))
		}
	}
	return out.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
