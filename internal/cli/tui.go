package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/valter-silva-au/todo/internal/core"
	"github.com/valter-silva-au/todo/pkg/models"
)

// tuiMode is what keystrokes currently drive.
type tuiMode int

const (
	modeBrowse tuiMode = iota
	modeAdd
	modeEdit
)

const emptyListMessage = "No todos yet. Add one above!"

type tuiModel struct {
	list   core.ListService
	tasks  models.TaskList
	filter models.FilterMode
	cursor int
	mode   tuiMode

	// input holds the text being typed in modeAdd and modeEdit.
	input   []rune
	editing string
	notice  string
}

// Style definitions.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	tabStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1)
	activeTabStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).Padding(0, 1)

	inputStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	focusedInputStyle = inputStyle.BorderForeground(lipgloss.Color("62"))

	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true)
	doneStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Strikethrough(true)
	activeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	placeholder    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	noticeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	clearableStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
)

func newTUIModel(list core.ListService, filter models.FilterMode) tuiModel {
	if !filter.Valid() {
		filter = models.FilterAll
	}
	return tuiModel{
		list:   list,
		tasks:  list.Tasks(),
		filter: filter,
	}
}

func (m tuiModel) Init() tea.Cmd {
	return nil
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		m.notice = ""
		switch m.mode {
		case modeAdd:
			return m.updateAdd(msg)
		case modeEdit:
			return m.updateEdit(msg)
		default:
			return m.updateBrowse(msg)
		}
	}
	return m, nil
}

func (m tuiModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.visible()

	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
	case "a", "i":
		m.mode = modeAdd
		m.input = nil
	case "tab", "right", "l":
		m.filter = nextFilter(m.filter, 1)
		m.cursor = 0
	case "shift+tab", "left", "h":
		m.filter = nextFilter(m.filter, -1)
		m.cursor = 0
	case "1":
		m.filter, m.cursor = models.FilterAll, 0
	case "2":
		m.filter, m.cursor = models.FilterActive, 0
	case "3":
		m.filter, m.cursor = models.FilterCompleted, 0
	case " ", "x":
		if t, ok := m.selected(); ok {
			m.tasks = m.list.Toggle(t.ID)
		}
	case "e", "enter":
		if t, ok := m.selected(); ok {
			m.mode = modeEdit
			m.editing = t.ID
			m.input = []rune(t.Text)
		}
	case "d", "delete":
		if t, ok := m.selected(); ok {
			m.tasks = m.list.Delete(t.ID)
		}
	case "c":
		if core.CanClearCompleted(m.tasks) {
			m.tasks = m.list.ClearCompleted()
		} else {
			m.notice = "No completed tasks to clear."
		}
	}

	m.clampCursor()
	return m, nil
}

func (m tuiModel) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.input = nil
	case tea.KeyEnter:
		if strings.TrimSpace(string(m.input)) != "" {
			m.tasks = m.list.Add(string(m.input))
			m.cursor = 0
		}
		m.input = nil
	default:
		m.input = editInput(m.input, msg)
	}
	return m, nil
}

func (m tuiModel) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.input = nil
		m.editing = ""
	case tea.KeyEnter:
		if strings.TrimSpace(string(m.input)) == "" {
			m.notice = "Task text must not be blank."
			return m, nil
		}
		m.tasks = m.list.Edit(m.editing, string(m.input))
		m.mode = modeBrowse
		m.input = nil
		m.editing = ""
	default:
		m.input = editInput(m.input, msg)
	}
	return m, nil
}

// editInput applies a typing key to buf.
func editInput(buf []rune, msg tea.KeyMsg) []rune {
	switch msg.Type {
	case tea.KeyRunes:
		return append(buf, msg.Runes...)
	case tea.KeySpace:
		return append(buf, ' ')
	case tea.KeyBackspace:
		if len(buf) > 0 {
			return buf[:len(buf)-1]
		}
	case tea.KeyCtrlU:
		return nil
	}
	return buf
}

func nextFilter(current models.FilterMode, step int) models.FilterMode {
	modes := models.FilterModes()
	for i, mode := range modes {
		if mode == current {
			return modes[(i+step+len(modes))%len(modes)]
		}
	}
	return models.FilterAll
}

func (m tuiModel) visible() models.TaskList {
	return core.Filter(m.tasks, m.filter)
}

func (m tuiModel) selected() (models.Task, bool) {
	visible := m.visible()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return models.Task{}, false
	}
	return visible[m.cursor], true
}

func (m *tuiModel) clampCursor() {
	n := len(m.visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m tuiModel) View() string {
	var b strings.Builder
	view := core.Project(m.tasks, m.filter)

	b.WriteString(titleStyle.Render(" Todos "))
	b.WriteString("\n\n")
	b.WriteString(m.renderInput())
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	switch {
	case view.Total == 0:
		b.WriteString("  " + placeholder.Render(emptyListMessage) + "\n")
	case len(view.Tasks) == 0:
		b.WriteString("  " + placeholder.Render(fmt.Sprintf("No %s tasks.", view.Mode)) + "\n")
	default:
		for i, t := range view.Tasks {
			b.WriteString(m.renderTask(i, t))
			b.WriteString("\n")
		}
	}

	if view.Total > 0 {
		b.WriteString("\n  " + itemsLeft(view.Remaining))
		if view.CanClearCompleted {
			b.WriteString("  " + clearableStyle.Render("c: clear completed"))
		}
		b.WriteString("\n")
	}

	if m.notice != "" {
		b.WriteString("\n  " + noticeStyle.Render(m.notice) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render(m.helpLine()))
	return b.String()
}

func (m tuiModel) renderInput() string {
	if m.mode == modeAdd {
		return focusedInputStyle.Render("> " + string(m.input) + "█")
	}
	return inputStyle.Render(placeholder.Render("What needs to be done? (press a)"))
}

func (m tuiModel) renderTabs() string {
	labels := map[models.FilterMode]string{
		models.FilterAll:       "All",
		models.FilterActive:    "Active",
		models.FilterCompleted: "Completed",
	}
	tabs := make([]string, 0, len(labels))
	for _, mode := range models.FilterModes() {
		style := tabStyle
		if mode == m.filter {
			style = activeTabStyle
		}
		tabs = append(tabs, style.Render(labels[mode]))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m tuiModel) renderTask(i int, t models.Task) string {
	pointer := "  "
	if i == m.cursor && m.mode != modeAdd {
		pointer = cursorStyle.Render("> ")
	}

	if m.mode == modeEdit && t.ID == m.editing {
		return pointer + focusedInputStyle.Render(string(m.input)+"█")
	}

	if t.Completed {
		return pointer + "[x] " + doneStyle.Render(t.Text)
	}
	return pointer + "[ ] " + activeStyle.Render(t.Text)
}

func (m tuiModel) helpLine() string {
	switch m.mode {
	case modeAdd:
		return "enter: add | esc: done adding"
	case modeEdit:
		return "enter: save | esc: cancel"
	default:
		return "a: add | space: toggle | e: edit | d: delete | tab: filter | q: quit"
	}
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive terminal UI for the list",
	Long: `Launch an interactive view of the list. Add tasks, switch between the
All, Active and Completed filters, toggle, edit and delete tasks, and clear
completed ones.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := requireList()
		if err != nil {
			return err
		}
		p := tea.NewProgram(newTUIModel(list, DefaultFilter), tea.WithAltScreen())
		_, err = p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
