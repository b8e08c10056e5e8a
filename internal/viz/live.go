package viz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/convmon/internal/monitor"
)

const (
	histWidth  = 40
	histHeight = 12
	trendCols  = 60
	trendRows  = 12
)

type TickMsg time.Time

// Options configures the live view.
type Options struct {
	Interval time.Duration
	// Ticks stops the animation after this many ticks. Zero runs until quit.
	Ticks int
	Nodes int
	Theme string
}

// Model drives the monitor from Bubble Tea's event loop. Every tick runs to
// completion inside Update, so ticks never overlap.
type Model struct {
	driver   *monitor.Driver
	opts     Options
	canvas   *Canvas
	frame    int
	running  bool
	done     bool
	showHelp bool
	theme    int
	err      error
}

func NewModel(driver *monitor.Driver, opts Options) Model {
	return Model{
		driver:  driver,
		opts:    opts,
		canvas:  NewCanvas(histWidth, histHeight),
		running: true,
		theme:   ThemeIndex(opts.Theme),
	}
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.opts.Interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			if !m.done {
				m.running = !m.running
			}
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.done {
			return m, nil
		}
		if m.running {
			if _, err := m.driver.Tick(m.frame); err != nil {
				m.err = err
				return m, tea.Quit
			}
			m.frame++
			if m.opts.Ticks > 0 && m.frame >= m.opts.Ticks {
				// budget spent: stop scheduling, keep the last frame on screen
				m.done = true
				return m, nil
			}
		}
		return m, m.tick()
	}
	return m, nil
}

// View renders both panels and the stats strip.
func (m Model) View() string {
	st := newStyles(Themes[m.theme])
	chart := m.driver.Chart()

	hist := st.panel.Render(st.title.Render("I. VELOCITY DISTRIBUTION") + "\n" + renderHistogram(m.canvas, chart, st))
	trend := st.panel.Render(st.title.Render("II. CONVERGENCE TREND (LOG)") + "\n" + renderTrend(chart, trendCols, trendRows, st))

	var s strings.Builder
	s.WriteString(st.header.Render(fmt.Sprintf("CONVERGENCE MONITOR · %d nodes", m.opts.Nodes)) + "\n")
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, hist, trend) + "\n")
	s.WriteString(m.stats(st))
	if m.showHelp {
		s.WriteString(st.help.Render("Space: pause/resume · T: theme (" + Themes[m.theme].Name + ") · ?: help · Q: quit"))
	} else {
		s.WriteString(st.help.Render("SP:Pause T:Theme ?:Help Q:Quit"))
	}
	return s.String()
}

func (m Model) stats(st styles) string {
	last := m.driver.Last()

	status := st.running.Render("RUNNING")
	switch {
	case m.err != nil:
		status = st.failed.Render("FAILED: " + m.err.Error())
	case m.done:
		status = st.done.Render("COMPLETE")
	case !m.running:
		status = st.paused.Render("PAUSED")
	}

	var b strings.Builder
	row := func(label, value string) {
		b.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Status", status)
	if m.opts.Ticks > 0 {
		row("Tick", fmt.Sprintf("%d/%d ", m.frame, m.opts.Ticks)+progressBar(float64(m.frame)/float64(m.opts.Ticks), 20, st.running))
	} else {
		row("Tick", fmt.Sprintf("%d", m.frame))
	}
	if m.driver.Ticks() > 0 {
		row("Mean velocity", fmt.Sprintf("%.5f", last.MeanVelocity))
	}
	if d, ok := m.driver.Dispersion(); ok {
		row("Dispersion", fmt.Sprintf("%.4f", d))
	}
	return b.String()
}

func (m Model) Err() error   { return m.err }
func (m Model) Frame() int   { return m.frame }
func (m Model) Done() bool   { return m.done }
func (m Model) Paused() bool { return !m.running }

// Run shows the model in the alternate screen until the user quits, ctx is
// canceled or a tick fails. The returned error is the tick failure, if any.
func Run(ctx context.Context, m Model) (Model, error) {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return m, nil
		}
		return m, err
	}
	fm, ok := final.(Model)
	if !ok {
		return m, nil
	}
	return fm, fm.Err()
}
