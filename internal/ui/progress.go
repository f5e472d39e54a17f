package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"white/internal/driver"
)

// maxRows caps the file list; a formatting run may touch thousands of files.
const maxRows = 12

type progressModel struct {
	title   string
	events  <-chan driver.Event
	spinner spinner.Model
	prog    progress.Model

	items []fileItem
	index map[string]int
	// порядок, в котором файлы последний раз меняли состояние
	recent []int

	runStage driver.Stage
	cached   int
	errors   int
	finished int
	width    int
	done     bool
}

type fileItem struct {
	path   string
	stage  driver.Stage
	status driver.Status
}

type eventMsg driver.Event
type doneMsg struct{}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	countStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	workingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	cachedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	queuedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
)

// NewProgressModel returns a Bubble Tea model that renders formatting progress
// for files, fed by events until the channel is closed.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = workingStyle

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]fileItem, len(files))
	index := make(map[string]int, len(files))
	for i, file := range files {
		items[i] = fileItem{path: file, stage: driver.StageCollect, status: driver.StatusQueued}
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
	if label := stageLabel(m.runStage); label != "" && !m.done {
		header = fmt.Sprintf("%s (%s)", header, label)
	}
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("  ")
	b.WriteString(countStyle.Render(m.counters()))
	b.WriteString("\n\n")

	nameWidth := max(m.width-16, 20)
	for _, idx := range m.visibleRows() {
		item := m.items[idx]
		label := itemLabel(item)
		fmt.Fprintf(&b, "  %s %s\n", styleFor(item.status).Render(fmt.Sprintf("%12s", label)), truncate(item.path, nameWidth))
	}
	if hidden := len(m.items) - len(m.visibleRows()); hidden > 0 {
		fmt.Fprintf(&b, "  %s\n", countStyle.Render(fmt.Sprintf("%12s %d more", "", hidden)))
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
	s := fmt.Sprintf("%d/%d files", m.finished, len(m.items))
	if m.cached > 0 {
		s += fmt.Sprintf(", %d cached", m.cached)
	}
	if m.errors > 0 {
		s += fmt.Sprintf(", %d failed", m.errors)
	}
	return s
}

// visibleRows returns in-flight files first, then the most recently
// finished ones, at most maxRows in total.
func (m *progressModel) visibleRows() []int {
	if len(m.items) <= maxRows {
		rows := make([]int, len(m.items))
		for i := range rows {
			rows[i] = i
		}
		return rows
	}
	rows := make([]int, 0, maxRows)
	for i := len(m.recent) - 1; i >= 0 && len(rows) < maxRows; i-- {
		if m.items[m.recent[i]].status == driver.StatusWorking {
			rows = append(rows, m.recent[i])
		}
	}
	for i := len(m.recent) - 1; i >= 0 && len(rows) < maxRows; i-- {
		if isFinished(m.items[m.recent[i]].status) {
			rows = append(rows, m.recent[i])
		}
	}
	return rows
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
	if ev.File == "" {
		m.runStage = ev.Stage
		return nil
	}
	idx, ok := m.index[ev.File]
	if !ok {
		return nil
	}
	item := &m.items[idx]
	if isFinished(item.status) {
		return nil
	}
	item.stage = ev.Stage
	item.status = ev.Status
	m.touch(idx)

	switch ev.Status {
	case driver.StatusDone:
		m.finished++
	case driver.StatusCached:
		m.finished++
		m.cached++
	case driver.StatusError:
		m.finished++
		m.errors++
	}

	total := 0.0
	for _, it := range m.items {
		if isFinished(it.status) {
			total++
			continue
		}
		total += stageWeight(it)
	}
	return m.prog.SetPercent(total / float64(len(m.items)))
}

// touch moves idx to the end of the recent list.
func (m *progressModel) touch(idx int) {
	for i, v := range m.recent {
		if v == idx {
			m.recent = append(m.recent[:i], m.recent[i+1:]...)
			break
		}
	}
	m.recent = append(m.recent, idx)
	if len(m.recent) > 4*maxRows {
		m.recent = m.recent[len(m.recent)-4*maxRows:]
	}
}

func stageWeight(it fileItem) float64 {
	if it.status != driver.StatusWorking {
		return 0
	}
	switch it.stage {
	case driver.StageRead:
		return 0.2
	case driver.StageFormat:
		return 0.5
	case driver.StageWrite:
		return 0.9
	default:
		return 0
	}
}

func isFinished(status driver.Status) bool {
	return status == driver.StatusDone || status == driver.StatusCached || status == driver.StatusError
}

func itemLabel(it fileItem) string {
	if it.status == driver.StatusWorking {
		return stageLabel(it.stage)
	}
	return string(it.status)
}

func stageLabel(stage driver.Stage) string {
	switch stage {
	case driver.StageCollect:
		return "collecting"
	case driver.StageRead:
		return "reading"
	case driver.StageFormat:
		return "formatting"
	case driver.StageWrite:
		return "writing"
	default:
		return ""
	}
}

func styleFor(status driver.Status) lipgloss.Style {
	switch status {
	case driver.StatusDone:
		return doneStyle
	case driver.StatusError:
		return errorStyle
	case driver.StatusCached:
		return cachedStyle
	case driver.StatusWorking:
		return workingStyle
	default:
		return queuedStyle
	}
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
