// Package board is the interactive terminal view of the project collection.
package board

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fyrsmithlabs/projectctl/internal/project"
	"github.com/fyrsmithlabs/projectctl/internal/store"
	"github.com/fyrsmithlabs/projectctl/internal/view"
)

// Controller is the part of the store the board drives.
type Controller interface {
	Load(ctx context.Context) error
	Create(ctx context.Context, p project.Project) error
	Remove(ctx context.Context, id project.ID) error
	ApplySort(mode view.SortMode) store.Snapshot
	Visible(search string) []project.Project
}

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("51")).
			Bold(true).
			Padding(0, 1)

	columnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("45")).
			Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Background(lipgloss.Color("238")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("226")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	containerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(1, 2)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			MarginTop(1)

	footerKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51")).
			Bold(true)
)

// sortKeys maps the number keys to sort modes in dropdown order.
var sortKeys = map[string]view.SortMode{
	"1": view.NameAscending,
	"2": view.NameDescending,
	"3": view.DateAscending,
	"4": view.DateDescending,
}

const (
	nameWidth = 24
	dateWidth = 16
	descWidth = 36
)

// Model is the bubbletea model for the board.
type Model struct {
	ctx      context.Context
	ctrl     Controller
	search   textinput.Model
	form     *createForm
	rows     []project.Project
	cursor   int
	sort     view.SortMode
	loading  bool
	status   string
	err      error
	quitting bool
}

type loadedMsg struct{ err error }

type removedMsg struct {
	id  project.ID
	err error
}

// NewModel creates a board over ctrl. ctx bounds every store call.
func NewModel(ctx context.Context, ctrl Controller) Model {
	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search by name"
	search.CharLimit = 64

	return Model{
		ctx:     ctx,
		ctrl:    ctrl,
		search:  search,
		loading: true,
	}
}

// Init loads the collection.
func (m Model) Init() tea.Cmd {
	return load(m.ctx, m.ctrl)
}

func load(ctx context.Context, ctrl Controller) tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{err: ctrl.Load(ctx)}
	}
}

func remove(ctx context.Context, ctrl Controller, id project.ID) tea.Cmd {
	return func() tea.Msg {
		return removedMsg{id: id, err: ctrl.Remove(ctx, id)}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.form != nil {
			return m.updateForm(msg)
		}
		if m.search.Focused() {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)

	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.status = ""
		}
		m.resort()
		m.refresh()
		return m, nil

	case createdMsg:
		switch {
		case errors.Is(msg.err, store.ErrReloadFailed):
			m.form = nil
			m.err = nil
			m.status = fmt.Sprintf("created %s; list may be stale, press r to reload", msg.name)
		case msg.err != nil:
			if m.form != nil {
				m.form.submitting = false
				m.form.err = msg.err
			}
		default:
			m.form = nil
			m.err = nil
			m.status = fmt.Sprintf("created %s", msg.name)
		}
		m.resort()
		m.refresh()
		return m, nil

	case removedMsg:
		m.loading = false
		switch {
		case errors.Is(msg.err, store.ErrReloadFailed):
			m.err = nil
			m.status = fmt.Sprintf("deleted %s; list may be stale, press r to reload", msg.id)
		case msg.err != nil:
			m.err = msg.err
		default:
			m.err = nil
			m.status = fmt.Sprintf("deleted %s", msg.id)
		}
		m.resort()
		m.refresh()
		return m, nil
	}

	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyEnter, tea.KeyEsc:
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.refresh()
	return m, cmd
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if mode, ok := sortKeys[key]; ok {
		m.sort = mode
		m.ctrl.ApplySort(mode)
		m.refresh()
		return m, nil
	}

	switch key {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "/":
		return m, m.search.Focus()
	case "a":
		m.form = newCreateForm()
		return m, textinput.Blink
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case "r":
		m.loading = true
		return m, load(m.ctx, m.ctrl)
	case "d":
		if len(m.rows) == 0 {
			return m, nil
		}
		m.loading = true
		return m, remove(m.ctx, m.ctrl, m.rows[m.cursor].ID)
	}
	return m, nil
}

// resort reapplies the chosen order, since every reload returns the service
// order.
func (m *Model) resort() {
	if m.sort != 0 {
		m.ctrl.ApplySort(m.sort)
	}
}

// refresh recomputes the visible rows and clamps the cursor.
func (m *Model) refresh() {
	m.rows = m.ctrl.Visible(m.search.Value())
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// View renders the board.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.form != nil {
		return m.form.view()
	}

	var b strings.Builder

	sortLabel := "server order"
	if m.sort != 0 {
		sortLabel = m.sort.String()
	}
	b.WriteString(headerStyle.Render(" Projects "))
	b.WriteString("   " + dimStyle.Render(fmt.Sprintf("%d shown  sort: %s", len(m.rows), sortLabel)))
	b.WriteString("\n\n")
	b.WriteString(m.search.View())
	b.WriteString("\n\n")

	b.WriteString(columnStyle.Render(fmt.Sprintf("%-*s  %-*s  %-*s  %s",
		nameWidth, "NAME", dateWidth, "START", dateWidth, "END", "DESCRIPTION")))
	b.WriteString("\n")

	switch {
	case m.loading && len(m.rows) == 0:
		b.WriteString(dimStyle.Render("loading...") + "\n")
	case len(m.rows) == 0:
		b.WriteString(dimStyle.Render("no projects") + "\n")
	}

	for i, p := range m.rows {
		line := fmt.Sprintf("%-*s  %-*s  %-*s  %s",
			nameWidth, truncate(p.Name, nameWidth),
			dateWidth, p.StartDate,
			dateWidth, p.EndDate,
			truncate(p.Description, descWidth))
		if i == m.cursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}

	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render("✗ "+m.err.Error()) + "\n")
	} else if strings.Contains(m.status, "stale") {
		b.WriteString("\n" + warningStyle.Render("⚠ "+m.status) + "\n")
	} else if m.status != "" {
		b.WriteString("\n" + statusStyle.Render("✓ "+m.status) + "\n")
	}

	footer := footerKeyStyle.Render("[/]") + footerStyle.Render(" search  ") +
		footerKeyStyle.Render("[1-4]") + footerStyle.Render(" sort  ") +
		footerKeyStyle.Render("[a]") + footerStyle.Render(" add  ") +
		footerKeyStyle.Render("[d]") + footerStyle.Render(" delete  ") +
		footerKeyStyle.Render("[r]") + footerStyle.Render(" reload  ") +
		footerKeyStyle.Render("[q]") + footerStyle.Render(" quit")
	b.WriteString("\n" + footer)

	return containerStyle.Render(b.String())
}

// Run starts the board and blocks until the user quits.
func Run(ctx context.Context, ctrl Controller) error {
	p := tea.NewProgram(NewModel(ctx, ctrl), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
