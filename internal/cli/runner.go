package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/idilsaglam/tada/internal/app"
	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/ui"
)

// Options tune output behavior from root flags.
type Options struct {
	Group bool // list grouped by pending/done
	Now   func() time.Time
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(a *app.App, args []string, opt Options) int {
	if len(args) == 0 {
		PrintHelp()
		return 2
	}
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0
	case "ls":
		return doList(a, rest, opt)
	case "add":
		return doAdd(a, rest)
	case "done":
		return doToggle(a, rest)
	case "rm":
		return doRemove(a, rest)
	case "edit":
		return doEdit(a, rest)
	case "mv":
		return doMove(a, rest)
	case "projects":
		return doProjects(a)
	case "project":
		return doProject(a, rest)
	case "use":
		return doUse(a, rest)
	case "tui":
		if err := runInteractive(a, opt); err != nil {
			ui.Fail("tui: " + err.Error())
			return 1
		}
		return 0
	}

	ui.Fail("unknown subcommand: " + cmd)
	PrintHelp()
	return 2
}

func PrintHelp() {
	ui.Print(`todo - projects and todos from the terminal

Usage:
  todo [root flags] <subcommand> [flags] [args]

Subcommands:
  ls [project]                       List todos of the current (or given) project
  add [flags] <title...>             Add a todo (-d description, -due YYYY-MM-DD, -p 1..4, -project ref)
  done <index>                       Toggle done for the todo at 1-based index
  rm <index>                         Remove the todo at 1-based index
  edit [flags] <index>               Edit a todo (-t, -d, -due, -p, -project ref moves it)
  mv <index> <project>               Move a todo to the end of another project
  projects                           List projects
  project add <title...>             Create a project
  project rename <project> <title>   Rename a project
  project rm <project>               Delete a project (the default project is kept)
  use <project>                      Switch the current project
  tui                                Interactive view of the current project

Projects are referenced by id, unique id prefix, or title.
Flags go before positional arguments.

Examples:
  todo add -p 2 -due 2025-09-12 "Buy milk"
  todo project add Work
  todo mv 1 work
  todo done 2
`)
}

// -------------- subcommand impls ----------------

func doList(a *app.App, args []string, opt Options) int {
	projectID := a.CurrentProject()
	if len(args) > 0 {
		id, err := resolveProject(a, strings.Join(args, " "))
		if err != nil {
			return failErr("ls", err)
		}
		projectID = id
	}
	p, err := a.GetProject(projectID)
	if err != nil {
		return failErr("ls", err)
	}
	todos := p.TodoItems()

	d, pend := stats(todos)
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		ui.C(ui.Current().Title, p.Title),
		ui.C(ui.Current().Success, ui.Current().SymDone), d,
		ui.C(ui.Current().Pending, ui.Current().SymUnchecked), pend,
		ui.C(ui.Current().Accent, "Total"), len(todos),
	)

	var lines []string
	lines = append(lines, header)
	lines = append(lines, ui.C(ui.Current().Muted, ui.ProgressBar(d, d+pend, 28)))
	lines = append(lines, "")

	if opt.Group {
		lines = append(lines, groupLines(todos, opt.now())...)
	} else {
		lines = append(lines, flatLines(indexed(todos), opt.now())...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(ui.Current().Muted, "Tip: add with `todo add \"Buy milk\"`"))
	ui.Panel(lines)
	return 0
}

func doAdd(a *app.App, args []string) int {
	fs := newFlagSet("add")
	desc := fs.String("d", "", "description")
	due := fs.String("due", "", "due date (YYYY-MM-DD)")
	prio := fs.String("p", "", "priority 1..4 (1 is most urgent)")
	projectRef := fs.String("project", "", "target project")
	if err := fs.Parse(args); err != nil {
		return usage("usage: todo add [-d text] [-due date] [-p 1..4] [-project ref] <title...>")
	}

	title := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if title == "" {
		ui.Fail("add: empty title")
		return 2
	}
	date, err := model.ParseDate(*due)
	if err != nil {
		return failErr("add", err)
	}
	priority, err := model.ParsePriority(*prio)
	if err != nil {
		return failErr("add", err)
	}
	projectID := a.CurrentProject()
	if *projectRef != "" {
		if projectID, err = resolveProject(a, *projectRef); err != nil {
			return failErr("add", err)
		}
	}

	err = a.AddTodoToProject(app.TodoInput{
		Title:       title,
		Description: *desc,
		Date:        date,
		Priority:    priority,
		ProjectID:   projectID,
	})
	if err != nil {
		return failErr("add", err)
	}
	ui.OK("added")
	return 0
}

func doToggle(a *app.App, args []string) int {
	if len(args) != 1 {
		return usage("usage: todo done <index>")
	}
	idx, err := parseIndex(args[0])
	if err != nil {
		return failErr("done", err)
	}
	projectID := a.CurrentProject()
	t, err := a.GetTodoFromProject(projectID, idx)
	if err != nil {
		return failErr("done", err)
	}
	if err := a.CheckTodo(projectID, idx, !t.IsCompleted); err != nil {
		return failErr("done", err)
	}
	ui.OK("toggled")
	return 0
}

func doRemove(a *app.App, args []string) int {
	if len(args) != 1 {
		return usage("usage: todo rm <index>")
	}
	idx, err := parseIndex(args[0])
	if err != nil {
		return failErr("rm", err)
	}
	if err := a.DeleteTodoByIndex(a.CurrentProject(), idx); err != nil {
		return failErr("rm", err)
	}
	ui.OK("removed")
	return 0
}

func doEdit(a *app.App, args []string) int {
	fs := newFlagSet("edit")
	title := fs.String("t", "", "new title")
	desc := fs.String("d", "", "new description")
	due := fs.String("due", "", "new due date (YYYY-MM-DD, or - to clear)")
	prio := fs.String("p", "", "new priority 1..4")
	projectRef := fs.String("project", "", "move to project")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		return usage("usage: todo edit [-t title] [-d text] [-due date] [-p 1..4] [-project ref] <index>")
	}
	idx, err := parseIndex(fs.Arg(0))
	if err != nil {
		return failErr("edit", err)
	}

	var patch app.TodoPatch
	var ferr error
	fs.Visit(func(f *flag.Flag) {
		if ferr != nil {
			return
		}
		switch f.Name {
		case "t":
			if strings.TrimSpace(*title) == "" {
				ferr = fmt.Errorf("%w: empty title", model.ErrValidation)
				return
			}
			patch.Title = title
		case "d":
			patch.Description = desc
		case "due":
			var d model.Date
			if *due != "-" {
				d, ferr = model.ParseDate(*due)
			}
			patch.Date = &d
		case "p":
			var p model.Priority
			p, ferr = model.ParsePriority(*prio)
			patch.Priority = &p
		case "project":
			var id string
			id, ferr = resolveProject(a, *projectRef)
			patch.ProjectID = &id
		}
	})
	if ferr != nil {
		return failErr("edit", ferr)
	}

	if err := a.EditTodo(a.CurrentProject(), idx, patch); err != nil {
		return failErr("edit", err)
	}
	ui.OK("edited")
	return 0
}

func doMove(a *app.App, args []string) int {
	if len(args) < 2 {
		return usage("usage: todo mv <index> <project>")
	}
	idx, err := parseIndex(args[0])
	if err != nil {
		return failErr("mv", err)
	}
	dst, err := resolveProject(a, strings.Join(args[1:], " "))
	if err != nil {
		return failErr("mv", err)
	}
	if err := a.EditTodo(a.CurrentProject(), idx, app.TodoPatch{ProjectID: &dst}); err != nil {
		return failErr("mv", err)
	}
	ui.OK("moved")
	return 0
}

func doProjects(a *app.App) int {
	var lines []string
	lines = append(lines, ui.C(ui.Current().Title, "Projects"), "")
	for _, p := range a.ListProjects() {
		marker := "  "
		if p.ID == a.CurrentProject() {
			marker = ui.C(ui.Current().Accent, "> ")
		}
		name := p.Title
		if p.ID == a.DefaultProjectID() {
			name += ui.C(ui.Current().Muted, " (default)")
		}
		lines = append(lines, fmt.Sprintf("%s%s  %s  %s",
			marker, ui.Dim(shortID(p.ID)), name,
			ui.C(ui.Current().Muted, fmt.Sprintf("%d todos", p.Len()))))
	}
	ui.Panel(lines)
	return 0
}

func doProject(a *app.App, args []string) int {
	const use = "usage: todo project <add|rename|rm> ..."
	if len(args) == 0 {
		return usage(use)
	}
	switch args[0] {
	case "add":
		title := strings.TrimSpace(strings.Join(args[1:], " "))
		if title == "" {
			ui.Fail("project add: empty title")
			return 2
		}
		id, err := a.RegisterProject(title)
		if err != nil {
			return failErr("project add", err)
		}
		ui.OK("created " + shortID(id))
		return 0

	case "rename":
		if len(args) < 3 {
			return usage("usage: todo project rename <project> <title...>")
		}
		id, err := resolveProject(a, args[1])
		if err != nil {
			return failErr("project rename", err)
		}
		title := strings.TrimSpace(strings.Join(args[2:], " "))
		if title == "" {
			ui.Fail("project rename: empty title")
			return 2
		}
		if err := a.EditProject(id, app.ProjectPatch{Title: &title}); err != nil {
			return failErr("project rename", err)
		}
		ui.OK("renamed")
		return 0

	case "rm":
		if len(args) < 2 {
			return usage("usage: todo project rm <project>")
		}
		id, err := resolveProject(a, strings.Join(args[1:], " "))
		if err != nil {
			return failErr("project rm", err)
		}
		if err := a.RemoveProject(id); err != nil {
			return failErr("project rm", err)
		}
		ui.OK("removed")
		return 0
	}
	return usage(use)
}

func doUse(a *app.App, args []string) int {
	if len(args) == 0 {
		return usage("usage: todo use <project>")
	}
	id, err := resolveProject(a, strings.Join(args, " "))
	if err != nil {
		return failErr("use", err)
	}
	if err := a.ViewProject(id); err != nil {
		return failErr("use", err)
	}
	ui.OK("now on " + shortID(id))
	return 0
}

// -------------- argument helpers --------------

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// parseIndex turns a 1-based user index into a 0-based one.
func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: not a number: %s", model.ErrValidation, s)
	}
	return n - 1, nil
}

// resolveProject matches an exact id, then a title (case-insensitive),
// then a unique id prefix.
func resolveProject(a *app.App, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("%w: empty project reference", model.ErrValidation)
	}
	projects := a.ListProjects()
	for _, p := range projects {
		if p.ID == ref {
			return p.ID, nil
		}
	}
	var titled, prefixed []string
	for _, p := range projects {
		if strings.EqualFold(p.Title, ref) {
			titled = append(titled, p.ID)
		}
		if strings.HasPrefix(p.ID, ref) {
			prefixed = append(prefixed, p.ID)
		}
	}
	for _, ids := range [][]string{titled, prefixed} {
		switch len(ids) {
		case 0:
			continue
		case 1:
			return ids[0], nil
		default:
			return "", fmt.Errorf("%w: %q matches %d projects", model.ErrValidation, ref, len(ids))
		}
	}
	return "", fmt.Errorf("%w: project %q", model.ErrNotFound, ref)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func usage(msg string) int {
	ui.Fail(msg)
	return 2
}

// failErr prints err and maps it to an exit code.
func failErr(cmd string, err error) int {
	ui.Fail(cmd + ": " + err.Error())
	switch {
	case errors.Is(err, model.ErrIndexOutOfRange):
		ui.Hint("Hint: run `todo ls` to see valid indexes")
		return 2
	case errors.Is(err, model.ErrProtectedEntity):
		ui.Hint("Hint: the default project always exists")
		return 2
	case errors.Is(err, model.ErrPersistence):
		return 1
	default:
		return 2
	}
}

// -------------- rendering helpers --------------

type indexedTodo struct {
	pos  int
	todo model.Todo
}

func indexed(todos []model.Todo) []indexedTodo {
	out := make([]indexedTodo, len(todos))
	for i, t := range todos {
		out[i] = indexedTodo{pos: i, todo: t}
	}
	return out
}

func stats(todos []model.Todo) (done, pending int) {
	for _, t := range todos {
		if t.IsCompleted {
			done++
		} else {
			pending++
		}
	}
	return
}

func flatLines(todos []indexedTodo, now time.Time) []string {
	if len(todos) == 0 {
		return []string{ui.C(ui.Current().Muted, "no todos")}
	}
	out := make([]string, 0, len(todos))
	for _, it := range todos {
		t := it.todo
		idx := fmt.Sprintf("%2d.", it.pos+1)
		box := ui.Current().BoxUnchecked
		color := ui.Current().Muted
		if t.IsCompleted {
			box, color = ui.Current().BoxChecked, ui.Current().Success
		}
		title := ui.Truncate(t.Title, 80)
		line := fmt.Sprintf("%s %s %s %s", ui.Dim(idx), ui.C(color, box), ui.PriorityTag(t.Priority), title)
		if due := ui.RelativeDate(t.Date, now); due != "" {
			dueColor := ui.Current().Muted
			if !t.IsCompleted && ui.Overdue(t.Date, now) {
				dueColor = ui.Current().Error
			}
			line += "  " + ui.C(dueColor, due)
		}
		out = append(out, line)
		if t.Description != "" {
			out = append(out, "       "+ui.C(ui.Current().Muted, t.Description))
		}
	}
	return out
}

func groupLines(todos []model.Todo, now time.Time) []string {
	var pend, done []indexedTodo
	for _, it := range indexed(todos) {
		if it.todo.IsCompleted {
			done = append(done, it)
		} else {
			pend = append(pend, it)
		}
	}
	var lines []string
	lines = append(lines, ui.C(ui.Current().Accent, "Pending"))
	if len(pend) == 0 {
		lines = append(lines, ui.C(ui.Current().Muted, "(none)"))
	} else {
		lines = append(lines, flatLines(pend, now)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(ui.Current().Accent, "Done"))
	if len(done) == 0 {
		lines = append(lines, ui.C(ui.Current().Muted, "(none)"))
	} else {
		lines = append(lines, flatLines(done, now)...)
	}
	return lines
}
