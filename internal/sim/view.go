package sim

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/calder/browsershell/internal/shell"
)

var (
	chromeStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230")).
			Bold(true)

	contentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	sceneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("150"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// View renders the simulated screen: the chrome strip at its resolved
// offset, the active layout's scene tree, and a status footer.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "starting simulator..."
	}
	if m.quitting {
		return "bye\n"
	}

	screenRows := m.height - statusRows
	if screenRows < 1 {
		screenRows = 1
	}

	frame := m.orch.BuildFrame()

	var b strings.Builder
	chromeLines := m.renderChrome(frame.ChromeOffset)
	for _, line := range chromeLines {
		b.WriteString(line)
		b.WriteString("\n")
	}

	contentLines := m.renderScene(frame.Root, screenRows-len(chromeLines))
	for _, line := range contentLines {
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// renderChrome draws the strip's visible rows. The offset is in
// simulated pixels; a fully hidden strip renders nothing.
func (m *Model) renderChrome(offset float64) []string {
	height := m.chrome.Height()
	fullRows := int(math.Ceil(height / cellPxH))
	if fullRows < 1 {
		fullRows = 1
	}

	visibleFrac := 0.0
	if height > 0 {
		visibleFrac = 1 + offset/height
	}
	rows := int(math.Round(visibleFrac * float64(fullRows)))
	if rows <= 0 {
		return nil
	}

	label := fmt.Sprintf(" [%s] chrome  offset=%.1fpx ", m.chrome.State(), offset)
	lines := make([]string, rows)
	for i := range lines {
		text := strings.Repeat(" ", m.width)
		if i == rows-1 && len(label) <= m.width {
			text = label + strings.Repeat(" ", m.width-len(label))
		}
		lines[i] = chromeStyle.Render(text)
	}
	return lines
}

// renderScene flattens the scene tree into indented rows and pads the
// remainder of the simulated screen.
func (m *Model) renderScene(root *shell.SceneNode, rows int) []string {
	if rows < 0 {
		rows = 0
	}
	lines := make([]string, 0, rows)

	var walk func(n *shell.SceneNode, depth int)
	walk = func(n *shell.SceneNode, depth int) {
		if n == nil || len(lines) >= rows {
			return
		}
		indent := strings.Repeat("  ", depth)
		lines = append(lines, sceneStyle.Render(fmt.Sprintf("%s%s  %.0fx%.0f @ (%.0f, %.0f)  alpha=%.2f",
			indent, n.Name, n.Bounds.Width, n.Bounds.Height, n.Bounds.X, n.Bounds.Y, n.Alpha)))
		for _, child := range n.Children {
			walk(child, depth+1)
		}
	}
	walk(root, 0)

	for len(lines) < rows {
		lines = append(lines, contentStyle.Render("·"))
	}
	return lines
}

func (m *Model) renderStatus() string {
	pinned := "-"
	if m.token != 0 {
		pinned = "pinned"
	}
	chromeState := "chrome hidden"
	if m.chromeVisible {
		chromeState = "chrome visible"
	}
	video := ""
	if m.overlayVideo {
		video = "  video"
	}
	return statusStyle.Render(fmt.Sprintf(
		"layout=%s  %s  inset=%.0fpx  tokens=%d %s%s  scroll=%.0fpx  renders=%d  frames=%d",
		m.orch.ActiveKind(), chromeState, m.topInset, m.chrome.OutstandingTokens(), pinned, video, m.scrollPx, m.renderRequests, m.frames))
}
