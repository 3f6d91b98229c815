// Package ui renders interactive progress for directory analysis.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"avlint/internal/driver"
)

type progressModel struct {
	title      string
	events     <-chan driver.Event
	spinner    spinner.Model
	prog       progress.Model
	items      []unitItem
	index      map[string]int
	stageLabel string
	width      int
	done       bool
}

type unitItem struct {
	path   string
	status string
	stage  driver.Stage
}

type eventMsg driver.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders analysis progress
// for the given unit paths, fed by driver events.
func NewProgressModel(title string, units []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]unitItem, 0, len(units))
	index := make(map[string]int, len(units))
	for i, unit := range units {
		items = append(items, unitItem{path: unit, status: "queued"})
		index[unit] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		index:   index,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(driver.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		progressModel, cmd := m.prog.Update(msg)
		m.prog = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	if m.stageLabel != "" {
		header = fmt.Sprintf("%s (%s)", header, m.stageLabel)
	}
	if m.done {
		header = fmt.Sprintf("done: %s", header)
	} else {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	statusWidth := 12
	nameWidth := m.width - statusWidth - 4
	if nameWidth < 20 {
		nameWidth = 20
	}

	for _, item := range m.items {
		name := truncate(item.path, nameWidth)
		statusStyled := styleStatus(item.status).Render(fmt.Sprintf("%12s", item.status))
		b.WriteString(fmt.Sprintf("  %s %s", statusStyled, name))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")

	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev driver.Event) tea.Cmd {
	label := statusLabel(ev.Stage, ev.Status)
	if ev.Unit == "" {
		if label != "" {
			m.stageLabel = label
		}
		return nil
	}
	idx, ok := m.index[ev.Unit]
	if !ok {
		return nil
	}
	if label != "" {
		m.items[idx].status = label
		m.items[idx].stage = ev.Stage
	}

	if len(m.items) > 0 {
		totalProgress := 0.0
		for _, item := range m.items {
			if item.status == "done" || item.status == "error" {
				totalProgress += 1.0
			} else {
				totalProgress += progressFromStage(item.stage)
			}
		}
		return m.prog.SetPercent(totalProgress / float64(len(m.items)))
	}
	return nil
}

func progressFromStage(stage driver.Stage) float64 {
	switch stage {
	case driver.StageLoad:
		return 0.2
	case driver.StageAnalyze:
		return 0.6
	default:
		return 0.0
	}
}

func statusLabel(stage driver.Stage, status driver.Status) string {
	switch status {
	case driver.StatusQueued:
		return "queued"
	case driver.StatusDone:
		return "done"
	case driver.StatusError:
		return "error"
	case driver.StatusWorking:
		return stageLabel(stage)
	default:
		return ""
	}
}

func stageLabel(stage driver.Stage) string {
	switch stage {
	case driver.StageLoad:
		return "loading"
	case driver.StageAnalyze:
		return "analyzing"
	default:
		return ""
	}
}

func styleStatus(status string) lipgloss.Style {
	switch status {
	case "done":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case "error":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case "loading", "analyzing":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
