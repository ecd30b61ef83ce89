package viz

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/drawfire/internal/field"
)

// StepLoader returns the slice shown for output step n.
type StepLoader func(n int) (*field.Slice, error)

// Inspector browses the output times of one field in the terminal.
type Inspector struct {
	title  string
	times  []int
	load   StepLoader
	step   int
	slice  *field.Slice
	stats  field.Stats
	maxes  []float64
	err    error
	theme  Theme
	width  int
	height int
}

func NewInspector(title string, times []int, load StepLoader) *Inspector {
	m := &Inspector{
		title:  title,
		times:  times,
		load:   load,
		maxes:  make([]float64, len(times)),
		theme:  ThemeEmber,
		width:  80,
		height: 24,
	}
	for i := range m.maxes {
		m.maxes[i] = math.NaN()
	}
	m.show(0)
	return m
}

func (m *Inspector) Step() int    { return m.step }
func (m *Inspector) Err() error   { return m.err }
func (m *Inspector) Theme() Theme { return m.theme }

func (m *Inspector) SetTheme(t Theme) { m.theme = t }

func (m *Inspector) show(n int) {
	if len(m.times) == 0 {
		return
	}
	n = min(max(n, 0), len(m.times)-1)
	s, err := m.load(n)
	m.step, m.err = n, err
	if err != nil {
		m.slice = nil
		return
	}
	m.slice = s
	m.stats = field.Summarize(s.Vals)
	if m.stats.Count > 0 {
		m.maxes[n] = m.stats.Max
	}
}

func (m *Inspector) Init() tea.Cmd { return nil }

func (m *Inspector) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			m.show(m.step - 1)
		case "right", "l", " ":
			m.show(m.step + 1)
		case "home", "g":
			m.show(0)
		case "end", "G":
			m.show(len(m.times) - 1)
		case "t":
			m.theme = nextTheme(m.theme)
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	}
	return m, nil
}

func (m *Inspector) View() string {
	title := lipgloss.NewStyle().Foreground(m.theme.Primary).Bold(true)
	accent := lipgloss.NewStyle().Foreground(m.theme.Accent)
	muted := lipgloss.NewStyle().Foreground(m.theme.Muted)

	var b strings.Builder
	b.WriteString("\n  " + title.Render(strings.ToUpper(m.title)))
	if len(m.times) == 0 {
		b.WriteString("\n\n  " + muted.Render("no output times") + "\n")
		return b.String()
	}
	b.WriteString("  " + accent.Render(fmt.Sprintf("t = %d s", m.times[m.step])))
	b.WriteString(muted.Render(fmt.Sprintf("  (%d/%d)", m.step+1, len(m.times))) + "\n\n")

	if m.err != nil {
		b.WriteString("  " + lipgloss.NewStyle().Foreground(m.theme.Error).Render(m.err.Error()) + "\n")
	} else {
		cw, ch := max(m.width-4, 8), max(m.height-10, 4)
		c := NewCanvas(cw, ch)
		c.Heatmap(m.slice, m.stats.Min, m.stats.Max)
		c.Frame()
		for _, line := range strings.Split(strings.TrimRight(c.String(), "\n"), "\n") {
			b.WriteString("  " + accent.Render(line) + "\n")
		}
		b.WriteString("\n  " + Metric("min", fmt.Sprintf("%.4g", m.stats.Min)) +
			"  " + Metric("max", fmt.Sprintf("%.4g", m.stats.Max)) +
			"  " + Metric("mean", fmt.Sprintf("%.4g", m.stats.Mean)) +
			"  " + Metric("cells", fmt.Sprintf("%d", m.stats.Count)) + "\n")
	}
	b.WriteString("  " + SparklineChart(m.maxes, min(len(m.maxes), max(m.width-4, 1))) + "\n")
	b.WriteString("  " + KeyHint.Render("h/l step  g/G first/last  t theme  q quit") + "\n")
	return b.String()
}

func RunInspector(m *Inspector) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
