// Package app is the single entry point of the presentation layer. Every
// mutating call changes the in-memory store and then writes it through to
// the persistence adapter before returning.
package app

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/tada/internal/logging"
	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/store"
)

// Persister is the durable side of the app.
type Persister interface {
	Save(projects []model.Project) error
	Load() ([]*model.Project, bool, error)
	SaveLastViewedProject(id string) error
	LoadLastViewedProject() (string, bool, error)
}

// App composes the project store with a persister.
type App struct {
	store   *store.Store
	persist Persister
	logger  *log.Logger
	current string
}

// Option configures Open.
type Option func(*options)

type options struct {
	defaultTitle string
	logger       *log.Logger
}

// WithDefaultProject sets the title of the default project of a fresh store.
func WithDefaultProject(title string) Option {
	return func(o *options) { o.defaultTitle = title }
}

func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Open loads persisted state. Absent or unreadable state starts a fresh
// store with only the default project; a read failure is logged, not fatal.
func Open(p Persister, opts ...Option) (*App, error) {
	if p == nil {
		return nil, errors.New("nil persister")
	}
	o := options{defaultTitle: store.DefaultProjectTitle}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.Discard()
	}

	a := &App{persist: p, logger: o.logger}
	a.store = a.restore(o.defaultTitle)
	a.current = a.store.DefaultID()

	id, ok, err := p.LoadLastViewedProject()
	switch {
	case err != nil:
		a.logger.Warn("could not read last viewed project", "err", err)
	case ok:
		if _, err := a.store.FindProject(id); err == nil {
			a.current = id
		} else {
			a.logger.Debug("last viewed project is gone", "project", id)
		}
	}
	return a, nil
}

func (a *App) restore(defaultTitle string) *store.Store {
	projects, ok, err := a.persist.Load()
	if err != nil {
		a.logger.Warn("could not load saved projects, starting fresh", "err", err)
		return store.New(defaultTitle)
	}
	if !ok {
		return store.New(defaultTitle)
	}
	s, err := store.Restore(projects)
	if err != nil {
		a.logger.Warn("saved projects are unusable, starting fresh", "err", err)
		return store.New(defaultTitle)
	}
	a.logger.Debug("loaded projects", "count", s.Len())
	return s
}

// Flush writes the whole store to the persister.
func (a *App) Flush() error {
	if err := a.persist.Save(a.store.ListProjects()); err != nil {
		a.logger.Error("save failed", "err", err)
		return err
	}
	return nil
}

// Apply runs fn against the store and flushes once afterwards, even if fn
// failed part way. fn's error wins over the flush error.
func (a *App) Apply(fn func(s *store.Store) error) error {
	err := fn(a.store)
	if ferr := a.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}

// RegisterProject creates a project and returns its id.
func (a *App) RegisterProject(title string) (string, error) {
	p := a.store.CreateProject(title)
	a.logger.Debug("project created", "project", p.ID, "title", title)
	return p.ID, a.Flush()
}

// EditProject merges patch into the project.
func (a *App) EditProject(id string, patch ProjectPatch) error {
	p, err := a.store.FindProject(id)
	if err != nil {
		return err
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	a.logger.Debug("project edited", "project", id)
	return a.Flush()
}

// RemoveProject deletes a project. The default project is protected.
// Removing the viewed project switches the view to the default project.
func (a *App) RemoveProject(id string) error {
	if err := a.store.DeleteProject(id); err != nil {
		return err
	}
	a.logger.Debug("project removed", "project", id)
	err := a.Flush()
	if a.current == id {
		if verr := a.ViewProject(a.store.DefaultID()); verr != nil && err == nil {
			err = verr
		}
	}
	return err
}

// GetProject returns a snapshot of a project.
func (a *App) GetProject(id string) (model.Project, error) {
	p, err := a.store.FindProject(id)
	if err != nil {
		return model.Project{}, err
	}
	return p.Clone(), nil
}

// ListProjects returns snapshots in creation order.
func (a *App) ListProjects() []model.Project {
	return a.store.ListProjects()
}

func (a *App) DefaultProjectID() string { return a.store.DefaultID() }

// CurrentProject is the id of the viewed project.
func (a *App) CurrentProject() string { return a.current }

// ViewProject selects a project and remembers it across restarts.
func (a *App) ViewProject(id string) error {
	if _, err := a.store.FindProject(id); err != nil {
		return err
	}
	a.current = id
	if err := a.persist.SaveLastViewedProject(id); err != nil {
		a.logger.Error("save last viewed project failed", "err", err)
		return err
	}
	return nil
}

// AddTodoToProject appends a new todo to in.ProjectID.
func (a *App) AddTodoToProject(in TodoInput) error {
	p, err := a.store.FindProject(in.ProjectID)
	if err != nil {
		return err
	}
	p.AddTodoItem(model.NewTodo(in.Title, in.Description, in.Date, in.Priority))
	a.logger.Debug("todo added", "project", p.ID, "index", p.Len()-1)
	return a.Flush()
}

// EditTodo updates the todo at index, or moves it to the tail of another
// project when patch.ProjectID names one.
func (a *App) EditTodo(projectID string, index int, patch TodoPatch) error {
	src, err := a.store.FindProject(projectID)
	if err != nil {
		return err
	}
	current, err := src.TodoItem(index)
	if err != nil {
		return err
	}

	plan := PlanEdit(projectID, index, current, patch)
	switch plan.Kind {
	case MoveToProject:
		dst, err := a.store.FindProject(plan.To)
		if err != nil {
			return err
		}
		if err := src.DeleteTodoItem(plan.Index); err != nil {
			return err
		}
		dst.AddTodoItem(plan.Result)
	default:
		if err := src.UpdateTodoItem(plan.Index, func(t *model.Todo) { *t = plan.Result }); err != nil {
			return err
		}
	}
	a.logger.Debug("todo edited", "kind", plan.Kind, "from", plan.From, "to", plan.To, "index", plan.Index)
	return a.Flush()
}

// DeleteTodoByIndex removes one todo; later indices shift down by one.
func (a *App) DeleteTodoByIndex(projectID string, index int) error {
	p, err := a.store.FindProject(projectID)
	if err != nil {
		return err
	}
	if err := p.DeleteTodoItem(index); err != nil {
		return err
	}
	a.logger.Debug("todo deleted", "project", projectID, "index", index)
	return a.Flush()
}

// CheckTodo sets the completion flag and nothing else.
func (a *App) CheckTodo(projectID string, index int, isCompleted bool) error {
	p, err := a.store.FindProject(projectID)
	if err != nil {
		return err
	}
	if err := p.UpdateTodoItem(index, func(t *model.Todo) { t.IsCompleted = isCompleted }); err != nil {
		return err
	}
	a.logger.Debug("todo checked", "project", projectID, "index", index, "completed", isCompleted)
	return a.Flush()
}

// GetProjectTodos returns a copy of the project's todos.
func (a *App) GetProjectTodos(projectID string) ([]model.Todo, error) {
	p, err := a.store.FindProject(projectID)
	if err != nil {
		return nil, err
	}
	return p.TodoItems(), nil
}

// GetTodoFromProject returns a copy of one todo. Negative indices fail.
func (a *App) GetTodoFromProject(projectID string, index int) (model.Todo, error) {
	p, err := a.store.FindProject(projectID)
	if err != nil {
		return model.Todo{}, err
	}
	return p.TodoItem(index)
}

// ResolveTodo maps a todo key obtained from TodoKey back to its current index.
func (a *App) ResolveTodo(projectID, key string) (int, error) {
	p, err := a.store.FindProject(projectID)
	if err != nil {
		return -1, err
	}
	return p.IndexOf(key)
}

// TodoKey returns the in-memory key of the todo at index.
func (a *App) TodoKey(projectID string, index int) (string, error) {
	p, err := a.store.FindProject(projectID)
	if err != nil {
		return "", err
	}
	key, err := p.TodoKey(index)
	if err != nil {
		return "", fmt.Errorf("todo key: %w", err)
	}
	return key, nil
}
