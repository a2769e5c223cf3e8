// Package ui holds the terminal views of the mynd CLI.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"mynd/internal/driver"
)

type progressModel struct {
	title    string
	events   <-chan driver.Event
	spinner  spinner.Model
	prog     progress.Model
	items    []fileItem
	index    map[string]int
	stage    string
	width    int
	finished int
	failed   int
	done     bool
}

type fileItem struct {
	path   string
	status string
	stage  driver.Stage
	final  bool
}

type eventMsg driver.Event
type doneMsg struct{}

// NewProgressModel renders per-file progress of `mynd check` until events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]fileItem, len(files))
	index := make(map[string]int, len(files))
	for i, file := range files {
		items[i] = fileItem{path: file, status: "queued"}
		index[file] = i
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
	return tea.Batch(m.spinner.Tick, m.listen())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.apply(driver.Event(msg))
		return m, tea.Batch(cmd, m.listen())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
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
	case progress.FrameMsg:
		next, cmd := m.prog.Update(msg)
		m.prog = next.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	header := m.title
	if m.stage != "" {
		header = fmt.Sprintf("%s (%s)", header, m.stage)
	}
	if m.done {
		header = fmt.Sprintf("done: %s, %d/%d files ok", header, m.finished-m.failed, len(m.items))
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(header))
	b.WriteString("\n\n")

	nameWidth := max(m.width-16, 20)
	for _, item := range m.items {
		status := styleStatus(item.status).Render(fmt.Sprintf("%10s", item.status))
		fmt.Fprintf(&b, "  %s %s\n", status, truncate(item.path, nameWidth))
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

func (m *progressModel) listen() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) apply(ev driver.Event) tea.Cmd {
	label := statusLabel(ev.Stage, ev.Status)
	if ev.File == "" {
		m.stage = label
		return nil
	}
	idx, ok := m.index[ev.File]
	if !ok {
		return nil
	}
	item := &m.items[idx]
	if item.final {
		return nil
	}
	item.status = label
	item.stage = ev.Stage
	if ev.Status == driver.StatusDone || ev.Status == driver.StatusError {
		item.final = true
		m.finished++
		if ev.Status == driver.StatusError {
			m.failed++
		}
	}
	return m.prog.SetPercent(m.percent())
}

func (m *progressModel) percent() float64 {
	total := 0.0
	for _, item := range m.items {
		switch {
		case item.final:
			total += 1
		case item.stage == driver.StageParse:
			total += 0.5
		case item.stage == driver.StageLoad:
			total += 0.2
		}
	}
	return total / float64(len(m.items))
}

func statusLabel(stage driver.Stage, status driver.Status) string {
	switch status {
	case driver.StatusDone:
		return "done"
	case driver.StatusError:
		return "error"
	case driver.StatusWorking:
		return stage.String()
	}
	return "queued"
}

func styleStatus(status string) lipgloss.Style {
	switch status {
	case "done":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case "error":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case "queued":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
