package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"
	"time"
	"unsafe"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/tada/internal/app"
	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/ui"
)

// listItem adapts a todo to bubbles/list.Item. key is the app's todo key;
// the list index is not a project index once a filter is applied.
type listItem struct {
	todo model.Todo
	due  string
	key  string
}

func (i listItem) TitleText() string {
	box := ui.Current().BoxUnchecked
	if i.todo.IsCompleted {
		box = ui.Current().BoxChecked
	}
	return fmt.Sprintf("%s %s", box, i.todo.Title)
}

// Implement list.Item interface
func (i listItem) Title() string       { return i.TitleText() }
func (i listItem) Description() string { return i.todo.Description }
func (i listItem) FilterValue() string { return i.todo.Title }

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(listItem)

	box := ui.MutedStyle.Render(ui.Current().BoxUnchecked)
	text := it.todo.Title
	if it.todo.IsCompleted {
		box = ui.SuccessStyle.Render(ui.Current().BoxChecked)
		text = ui.DoneStyle.Render(text)
	}
	tag := ""
	if lvl := it.todo.Priority.Level(); lvl > 0 {
		tag = ui.PriorityStyles[lvl-1].Render(fmt.Sprintf("p%d", lvl)) + " "
	}

	line := fmt.Sprintf("%s %s%s", box, tag, text)
	if it.due != "" {
		line += "  " + ui.MutedStyle.Render(it.due)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = ui.SelectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

type modelTUI struct {
	app       *app.App
	projectID string
	now       func() time.Time

	list list.Model

	// Inline add/edit share one text input
	adding   bool
	editing  bool
	editKey  string
	ti       textinput.Model
	inputErr string

	// last facade error, shown in the header
	err string
}

var (
	addBind     = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	editBind    = key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
	toggleBind  = key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "done"))
	deleteBind  = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	projectBind = key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "project"))
)

func newModel(a *app.App, opt Options) modelTUI {
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = ui.TitleStyle
	l.Styles.HelpStyle = ui.HelpStyle
	l.Styles.PaginationStyle = ui.HelpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("todo", "todos")

	binds := func() []key.Binding {
		return []key.Binding{addBind, editBind, toggleBind, deleteBind, projectBind}
	}
	l.AdditionalShortHelpKeys = binds
	l.AdditionalFullHelpKeys = binds

	m := modelTUI{
		app:       a,
		projectID: a.CurrentProject(),
		now:       opt.now,
		list:      l,
	}
	m.ti = textinput.New()
	m.ti.Prompt = "> "
	m.ti.Placeholder = "New todo title..."
	m.ti.CharLimit = 200

	m.refresh()
	return m
}

// runInteractive starts the Bubble Tea list. Every change is written
// through the app as it happens.
func runInteractive(a *app.App, opt Options) error {
	p := tea.NewProgram(newModel(a, opt), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// refresh reloads the list from the app. An applied filter is re-run and the
// cursor stays on the same todo when it is still visible.
func (m *modelTUI) refresh() {
	p, err := m.app.GetProject(m.projectID)
	if err != nil {
		m.projectID = m.app.CurrentProject()
		if p, err = m.app.GetProject(m.projectID); err != nil {
			m.err = err.Error()
			return
		}
	}
	todos := p.TodoItems()
	items := make([]list.Item, 0, len(todos))
	for i, t := range todos {
		k, err := m.app.TodoKey(m.projectID, i)
		if err != nil {
			m.err = err.Error()
			return
		}
		items = append(items, listItem{todo: t, due: ui.RelativeDate(t.Date, m.now()), key: k})
	}

	cursor := m.list.Index()
	prev, _ := m.selected()
	m.list.SetItems(items)
	if m.list.FilterState() == list.FilterApplied {
		m.list.SetFilterText(m.list.FilterValue())
	}
	if !m.selectKey(prev.key) {
		if n := len(m.list.VisibleItems()); cursor >= n {
			cursor = n - 1
		}
		if cursor >= 0 {
			m.list.Select(cursor)
		}
	}

	d, pn := stats(todos)
	m.list.Title = fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		ui.TitleStyle.Render(p.Title),
		ui.SuccessStyle.Render("✔"), d,
		ui.PendingStyle.Render("•"), pn,
		ui.AccentStyle.Render("Total"), len(todos),
	)
}

// selected returns the highlighted item, or false when nothing is visible.
func (m modelTUI) selected() (listItem, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	return it, ok
}

// selectKey moves the cursor to the visible todo with key.
func (m *modelTUI) selectKey(key string) bool {
	if key == "" {
		return false
	}
	for i, it := range m.list.VisibleItems() {
		if li, ok := it.(listItem); ok && li.key == key {
			m.list.Select(i)
			return true
		}
	}
	return false
}

// target maps the highlighted item to its current index in the project.
func (m modelTUI) target() (listItem, int, bool) {
	it, ok := m.selected()
	if !ok {
		return listItem{}, -1, false
	}
	idx, err := m.app.ResolveTodo(m.projectID, it.key)
	if err != nil {
		return listItem{}, -1, false
	}
	return it, idx, true
}

// apply records the outcome of a facade call and reloads the list.
func (m *modelTUI) apply(err error) {
	m.err = ""
	if err != nil {
		m.err = err.Error()
	}
	m.refresh()
}

// Update and View implement Bubble Tea's Model on modelTUI
func (m modelTUI) Init() tea.Cmd { return nil }

func (m modelTUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.adding || m.editing {
		return m.updateInput(msg)
	}
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "esc":
			if m.list.FilterState() == list.FilterApplied {
				break // the list clears its filter
			}
			return m, tea.Quit
		case " ":
			if it, i, ok := m.target(); ok {
				m.apply(m.app.CheckTodo(m.projectID, i, !it.todo.IsCompleted))
			}
			return m, nil
		case "d":
			if _, i, ok := m.target(); ok {
				m.apply(m.app.DeleteTodoByIndex(m.projectID, i))
			}
			return m, nil
		case "a":
			m.adding = true
			m.inputErr = ""
			m.ti.SetValue("")
			m.ti.Placeholder = "New todo title..."
			m.ti.Focus()
			return m, nil
		case "e":
			if it, ok := m.selected(); ok {
				m.editing = true
				m.editKey = it.key
				m.inputErr = ""
				m.ti.SetValue(it.todo.Title)
				m.ti.CursorEnd()
				m.ti.Placeholder = "Edit todo title..."
				m.ti.Focus()
			}
			return m, nil
		case "tab", "shift+tab":
			step := 1
			if msg.String() == "shift+tab" {
				step = -1
			}
			m.switchProject(step)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m modelTUI) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if x, ok := msg.(tea.KeyMsg); ok {
		switch x.String() {
		case "enter":
			title := strings.TrimSpace(m.ti.Value())
			if title == "" {
				m.inputErr = "Title cannot be empty"
				return m, nil
			}
			if m.adding {
				m.apply(m.app.AddTodoToProject(app.TodoInput{Title: title, ProjectID: m.projectID}))
				if n := len(m.list.Items()); n > 0 {
					k, _ := m.app.TodoKey(m.projectID, n-1)
					m.selectKey(k)
				}
			} else {
				i, err := m.app.ResolveTodo(m.projectID, m.editKey)
				if err == nil {
					err = m.app.EditTodo(m.projectID, i, app.TodoPatch{Title: &title})
				}
				m.apply(err)
			}
			m.closeInput()
			return m, nil
		case "esc":
			m.closeInput()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m *modelTUI) closeInput() {
	m.adding = false
	m.editing = false
	m.editKey = ""
	m.ti.SetValue("")
	m.ti.Blur()
}

// switchProject moves the view step projects forward (or back), wrapping.
func (m *modelTUI) switchProject(step int) {
	projects := m.app.ListProjects()
	if len(projects) < 2 {
		return
	}
	pos := 0
	for i, p := range projects {
		if p.ID == m.projectID {
			pos = i
			break
		}
	}
	next := projects[(pos+step+len(projects))%len(projects)].ID
	m.list.ResetFilter()
	m.list.Select(0)
	m.projectID = next
	m.apply(m.app.ViewProject(next))
}

func (m modelTUI) View() string {
	w, h := widthHeight()
	listHeight := h - 4
	if m.adding || m.editing {
		listHeight = h - 6
	}
	m.list.SetSize(w-2, listHeight)

	content := m.list.View()
	if m.err != "" {
		content = ui.ErrorStyle.Render(m.err) + "\n" + content
	}
	if m.adding || m.editing {
		title := "Add new todo"
		if m.editing {
			title = "Edit todo"
		}
		if m.inputErr != "" {
			title += " · " + ui.ErrorStyle.Render(m.inputErr)
		}
		content = content + "\n" + ui.PanelString(title+"\n"+m.ti.View())
	}
	return ui.PanelString(content)
}

func widthHeight() (int, int) {
	w, h := 80, 24
	if tw, th, err := termSize(); err == nil {
		w, h = tw, th
	}
	return w, h
}

// portable terminal size
func termSize() (int, int, error) {
	fd := int(os.Stdout.Fd())
	type winsize struct {
		Row, Col, Xpixel, Ypixel uint16
	}
	ws := &winsize{}
	_, _, err := syscall.Syscall(syscall.SYS_IOCTL,
		uintptr(fd), uintptr(syscall.TIOCGWINSZ), uintptr(unsafe.Pointer(ws)))
	if err != 0 {
		return 0, 0, fmt.Errorf("ioctl: %v", err)
	}
	return int(ws.Col), int(ws.Row), nil
}
