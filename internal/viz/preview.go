package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/ledpanel/internal/anim"
	"github.com/san-kum/ledpanel/internal/metrics"
	"github.com/san-kum/ledpanel/internal/player"
)

const (
	historyCapacity = 120
	minSpeed        = 0.125
	maxSpeed        = 8
)

type TickMsg time.Time

// Model is the preview program state. The player it wraps is stepped on
// every tick while the preview is running.
type Model struct {
	player     *player.Player
	names      []string
	current    int
	fps        int
	speed      float64
	running    bool
	frame      anim.Frame
	t          float64
	frames     int
	brightness []float64
	showHelp   bool
	err        error
}

// NewModel previews p, cycling through every registered animation. If p is
// idle the first animation is started.
func NewModel(p *player.Player, fps int) Model {
	if fps <= 0 {
		fps = 30
	}
	m := Model{
		player:     p,
		names:      p.Registry().Names(),
		fps:        fps,
		speed:      1,
		running:    true,
		frame:      anim.NewFrame(p.Topology().TotalPixels()),
		brightness: make([]float64, 0, historyCapacity),
	}
	active := p.Active()
	for i, name := range m.names {
		if name == active {
			m.current = i
		}
	}
	if active == "" && len(m.names) > 0 {
		m.err = p.StartValues(m.names[0], nil)
	}
	return m
}

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
		case "n":
			m.switchTo(m.current + 1)
		case "p":
			m.switchTo(m.current - 1)
		case "r":
			m.restart()
		case "+", "=":
			if m.speed < maxSpeed {
				m.speed *= 2
			}
		case "-", "_":
			if m.speed > minSpeed {
				m.speed /= 2
			}
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) step() {
	dt := m.speed / float64(m.fps)
	copy(m.frame, m.player.Step(dt))
	m.t += dt
	m.frames++
	if len(m.brightness) == historyCapacity {
		m.brightness = m.brightness[1:]
	}
	m.brightness = append(m.brightness, metrics.Brightness(m.frame))
}

func (m *Model) switchTo(i int) {
	if len(m.names) == 0 {
		return
	}
	i = (i%len(m.names) + len(m.names)) % len(m.names)
	if m.err = m.player.StartValues(m.names[i], nil); m.err != nil {
		return
	}
	m.current = i
	m.reset()
}

func (m *Model) restart() {
	name := m.player.Active()
	if name == "" {
		return
	}
	if m.err = m.player.StartValues(name, m.player.Params()); m.err != nil {
		return
	}
	m.reset()
}

func (m *Model) reset() {
	m.t, m.frames = 0, 0
	m.brightness = m.brightness[:0]
	m.frame.Clear()
}

func (m Model) View() string {
	name := m.player.Active()
	if name == "" {
		name = "idle"
	}
	panelView := panelStyle.Render(RenderFrame(m.player.Topology(), m.frame))

	var s strings.Builder
	s.WriteString(headerStyle().Render(GradientText(strings.ToUpper(name), CurrentTheme.Primary, CurrentTheme.Accent)) + "\n")
	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	s.WriteString(statusStyle(m.running).Render(status) + "\n\n")

	s.WriteString(labelStyle().Render("Time") + valueStyle().Render(fmt.Sprintf("%.2fs", m.t)) + "\n")
	s.WriteString(labelStyle().Render("Frames") + valueStyle().Render(fmt.Sprintf("%d", m.frames)) + "\n")
	s.WriteString(labelStyle().Render("Speed") + valueStyle().Render(fmt.Sprintf("%gx", m.speed)) + "\n")
	s.WriteString(labelStyle().Render("Lit") + valueStyle().Render(fmt.Sprintf("%.0f%%", 100*metrics.Lit(m.frame))) + "\n")

	if len(m.brightness) > 1 {
		chart := asciigraph.Plot(m.brightness, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("brightness"))
		s.WriteString("\n" + chart + "\n")
	} else {
		s.WriteString("\n" + SparklineChart(nil, 30) + "\n")
	}

	s.WriteString("\nPARAMETERS\n")
	params := m.player.Params()
	if len(params) == 0 {
		s.WriteString(labelStyle().Render("  (none)") + "\n")
	} else {
		for _, kv := range strings.Fields(params.String()) {
			s.WriteString("  " + valueStyle().Render(kv) + "\n")
		}
	}
	if m.err != nil {
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(CurrentTheme.Warning).Render(m.err.Error()) + "\n")
	}
	s.WriteString(helpStyle().Render(Separator(30) + "\nSP:Pause N/P:Switch R:Restart\n+/-:Speed T:Theme ?:Help Q:Quit"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, panelView, statsStyle.Render(s.String()))
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  N / P    - Next/previous animation  ║
║  R        - Restart animation        ║
║  + / -    - Double/halve speed       ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

// Run starts the preview program and blocks until the user quits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
