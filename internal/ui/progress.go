package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"scriptlint/internal/driver"
	"scriptlint/internal/record"
)

// maxRows bounds the record rows shown at once; exports run to thousands
// of records.
const maxRows = 12

type progressModel struct {
	title   string
	events  <-chan driver.Event
	spinner spinner.Model
	prog    progress.Model

	items    []recordItem
	index    map[string]int
	total    map[record.Kind]int
	finished map[record.Kind]int
	failed   int
	cached   int
	phase    string

	width int
	done  bool
}

type recordItem struct {
	name   string
	kind   record.Kind
	status driver.Status
}

type eventMsg driver.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders lint progress.
// Records appear as their batch queues them; the model quits when events is
// closed.
func NewProgressModel(title string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76 // Default width

	return &progressModel{
		title:    title,
		events:   events,
		spinner:  sp,
		prog:     prog,
		index:    make(map[string]int),
		total:    make(map[record.Kind]int),
		finished: make(map[record.Kind]int),
		width:    80,
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
	case tea.KeyMsg:
		// закрывается только UI, прогон доводится до конца
		if msg.Type == tea.KeyCtrlC {
			m.done = true
			return m, tea.Quit
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
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	if m.phase != "" {
		header = fmt.Sprintf("%s (%s)", header, m.phase)
	}
	if m.done {
		header = fmt.Sprintf("done: %s", header)
	} else {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n")
	b.WriteString(m.counters())
	b.WriteString("\n\n")

	statusWidth := 8
	nameWidth := max(m.width-statusWidth-14, 20)
	for _, item := range m.visibleItems() {
		name := truncate(item.name, nameWidth)
		statusStyled := styleStatus(item.status).Render(fmt.Sprintf("%8s", item.status))
		fmt.Fprintf(&b, "  %s %-7s %s\n", statusStyled, item.kind, name)
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

func (m *progressModel) counters() string {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	parts := make([]string, 0, 4)
	for _, kind := range []record.Kind{record.KindLibrary, record.KindTrigger} {
		if m.total[kind] == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %d/%d", kind, m.finished[kind], m.total[kind]))
	}
	if m.cached > 0 {
		parts = append(parts, fmt.Sprintf("%d cached", m.cached))
	}
	if m.failed > 0 {
		parts = append(parts, styleStatus(driver.StatusError).Render(fmt.Sprintf("%d failed", m.failed)))
	}
	return dim.Render("  ") + strings.Join(parts, dim.Render(" | "))
}

// visibleItems keeps failed records first, then records in flight, then the
// most recently finished ones.
func (m *progressModel) visibleItems() []recordItem {
	var errs, working, rest []recordItem
	for i := len(m.items) - 1; i >= 0; i-- {
		item := m.items[i]
		switch item.status {
		case driver.StatusError:
			errs = append(errs, item)
		case driver.StatusWorking:
			working = append(working, item)
		case driver.StatusDone, driver.StatusCached:
			rest = append(rest, item)
		}
	}
	out := append(append(errs, working...), rest...)
	if len(out) > maxRows {
		out = out[:maxRows]
	}
	return out
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
	if ev.Batch() {
		if ev.Status == driver.StatusQueued || ev.Status == driver.StatusWorking {
			m.phase = "linting " + ev.Kind.String()
		} else {
			m.phase = ev.Kind.String() + " " + string(ev.Status)
		}
		return nil
	}

	key := ev.Kind.String() + "/" + ev.Record
	idx, ok := m.index[key]
	if !ok {
		idx = len(m.items)
		m.index[key] = idx
		m.items = append(m.items, recordItem{name: ev.Record, kind: ev.Kind})
	}
	switch ev.Status {
	case driver.StatusQueued:
		m.total[ev.Kind]++
	case driver.StatusDone, driver.StatusCached, driver.StatusError:
		m.finished[ev.Kind]++
		if ev.Status == driver.StatusError {
			m.failed++
		}
		if ev.Status == driver.StatusCached {
			m.cached++
		}
	}
	m.items[idx].status = ev.Status

	total, finished := 0, 0
	for kind, n := range m.total {
		total += n
		finished += m.finished[kind]
	}
	if total == 0 {
		return nil
	}
	return m.prog.SetPercent(float64(finished) / float64(total))
}

func styleStatus(status driver.Status) lipgloss.Style {
	switch status {
	case driver.StatusDone, driver.StatusCached:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case driver.StatusError:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case driver.StatusWorking:
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
	return runewidth.Truncate(value, width, "...")
}
