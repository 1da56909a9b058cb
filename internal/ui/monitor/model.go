// Package monitor renders the live monitoring view: a spinner while the
// pipeline runs and a rolling list of the most recent brand alerts.
package monitor

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/brandwatch/internal/pipeline"
	"github.com/nhle/brandwatch/internal/source"
	"github.com/nhle/brandwatch/internal/theme"
)

// maxVisible bounds the alert list kept on screen.
const maxVisible = 12

// doneMsg signals that the pipeline's run loop returned.
type doneMsg struct {
	err error
}

// alertMsg wraps a pipeline announcement for the Bubble Tea loop.
type alertMsg pipeline.AlertMsg

// Model is the Bubble Tea model for a monitoring session. It owns the
// session context: quitting cancels the pipeline, which drains in-flight
// events before Run returns.
type Model struct {
	pipe     *pipeline.Pipeline
	src      source.Source
	groupIDs []int64

	ctx    context.Context
	cancel context.CancelFunc

	spinner  spinner.Model
	alerts   []pipeline.AlertMsg
	seen     int
	stopping bool
	runErr   error
	width    int
}

// New creates a monitoring view over an already-constructed pipeline.
func New(p *pipeline.Pipeline, src source.Source, groupIDs []int64) Model {
	ctx, cancel := context.WithCancel(context.Background())

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.ColorBlue)

	return Model{
		pipe:     p,
		src:      src,
		groupIDs: groupIDs,
		ctx:      ctx,
		cancel:   cancel,
		spinner:  sp,
		width:    80,
	}
}

// Err reports why the run loop stopped, if it stopped with an error.
func (m Model) Err() error {
	return m.runErr
}

// Init starts the pipeline and subscribes to its alert stream.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.startPipeline(),
		m.waitForAlert(),
	)
}

// startPipeline runs the pipeline until the session context is canceled.
func (m Model) startPipeline() tea.Cmd {
	p := m.pipe
	ctx := m.ctx
	src := m.src
	ids := m.groupIDs

	return func() tea.Msg {
		return doneMsg{err: p.Run(ctx, src, ids)}
	}
}

// waitForAlert returns a command that blocks on the next alert
// announcement. It must be re-issued after each alertMsg to keep
// listening.
func (m Model) waitForAlert() tea.Cmd {
	ch := m.pipe.Alerts()
	ctx := m.ctx

	return func() tea.Msg {
		select {
		case msg := <-ch:
			return alertMsg(msg)
		case <-ctx.Done():
			return nil
		}
	}
}

// Update handles alerts, completion, and key presses.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case alertMsg:
		m.seen++
		m.alerts = append([]pipeline.AlertMsg{pipeline.AlertMsg(msg)}, m.alerts...)
		if len(m.alerts) > maxVisible {
			m.alerts = m.alerts[:maxVisible]
		}
		return m, m.waitForAlert()

	case doneMsg:
		m.runErr = msg.err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			// Cancel and keep rendering until the pipeline drains.
			m.stopping = true
			m.cancel()
			return m, nil
		}
	}

	return m, nil
}

// View renders the monitoring screen.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(theme.HeaderStyle.Render("Brand Monitor"))
	b.WriteString("\n\n")

	status := fmt.Sprintf("%s watching %d group(s) on %s, %d alert(s) so far",
		m.spinner.View(), len(m.groupIDs), m.src.Type(), m.seen)
	if m.stopping {
		status = m.spinner.View() + " stopping, draining in-flight messages"
	}
	b.WriteString(status)
	b.WriteString("\n\n")

	if len(m.alerts) == 0 {
		b.WriteString(theme.HelpStyle.Render("No brand mentions yet."))
	} else {
		var rows []string
		for _, a := range m.alerts {
			rows = append(rows, renderAlert(a))
		}
		b.WriteString(theme.PanelStyle.Width(m.width - 4).Render(strings.Join(rows, "\n")))
	}

	b.WriteString("\n\n")
	b.WriteString(theme.HelpStyle.Render("q quit"))

	return b.String()
}

// renderAlert formats one alert line: time, kind, brand, group, excerpt.
func renderAlert(a pipeline.AlertMsg) string {
	excerpt := a.Alert.Content
	if len(excerpt) > 60 {
		excerpt = excerpt[:57] + "..."
	}
	excerpt = strings.ReplaceAll(excerpt, "\n", " ")

	return fmt.Sprintf("%s %s %s in %s: %s",
		theme.TimestampStyle.Render(a.Alert.CreatedAt.Local().Format("15:04:05")),
		theme.KindStyle(a.Alert.Kind).Render(fmt.Sprintf("[%s]", a.Alert.Kind)),
		theme.BrandStyle.Render(a.Alert.Brand),
		theme.GroupStyle.Render(a.GroupName),
		excerpt,
	)
}

var _ tea.Model = Model{}
