// Package jsonstore persists projects as one JSON document in a key-value
// medium. Human-readable, portable, and replaced whole on every save.
package jsonstore

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/store/kv"
)

// Keys under which state is stored.
const (
	ProjectsKey   = "projects"
	LastViewedKey = "projectId"
)

const schemaURL = "https://tada.local/schema/projects.json"

//go:embed projects.schema.json
var schemaSource string

type todoRecord struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Date        model.Date `json:"date"`
	Priority    string     `json:"priority"`
	IsCompleted bool       `json:"isCompleted"`
}

type projectRecord struct {
	ID    string       `json:"id"`
	Title string       `json:"title"`
	Todos []todoRecord `json:"todos"`
}

// Adapter reads and writes project state through a kv.Medium.
type Adapter struct {
	medium kv.Medium
	schema *jsonschema.Schema
}

// New compiles the document schema and binds the adapter to medium.
func New(medium kv.Medium) (*Adapter, error) {
	schema, err := jsonschema.CompileString(schemaURL, schemaSource)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Adapter{medium: medium, schema: schema}, nil
}

// Save replaces the stored collection with projects, in order.
func (a *Adapter) Save(projects []model.Project) error {
	records := make([]projectRecord, 0, len(projects))
	for i := range projects {
		p := &projects[i]
		rec := projectRecord{ID: p.ID, Title: p.Title, Todos: make([]todoRecord, 0, p.Len())}
		for _, t := range p.TodoItems() {
			rec.Todos = append(rec.Todos, todoRecord{
				Title:       t.Title,
				Description: t.Description,
				Date:        t.Date,
				Priority:    string(t.Priority),
				IsCompleted: t.IsCompleted,
			})
		}
		records = append(records, rec)
	}
	b, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("%w: json marshal: %w", model.ErrPersistence, err)
	}
	if err := a.medium.Set(ProjectsKey, string(b)); err != nil {
		return fmt.Errorf("%w: write %s: %w", model.ErrPersistence, ProjectsKey, err)
	}
	return nil
}

// Load rebuilds the stored projects with their original ids. ok is false
// when nothing was ever saved. Malformed dates load as "no date" and
// unknown priorities as the default priority.
func (a *Adapter) Load() (projects []*model.Project, ok bool, err error) {
	raw, ok, err := a.medium.Get(ProjectsKey)
	if err != nil {
		return nil, false, fmt.Errorf("%w: read %s: %w", model.ErrPersistence, ProjectsKey, err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, false, nil
	}

	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, false, fmt.Errorf("%w: json unmarshal: %w", model.ErrPersistence, err)
	}
	if err := a.schema.Validate(doc); err != nil {
		return nil, false, fmt.Errorf("%w: invalid document: %w", model.ErrPersistence, err)
	}

	var records []projectRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, false, fmt.Errorf("%w: json unmarshal: %w", model.ErrPersistence, err)
	}
	projects = make([]*model.Project, 0, len(records))
	for _, rec := range records {
		p := model.NewProject(rec.ID, rec.Title)
		for _, t := range rec.Todos {
			priority := model.Priority(t.Priority)
			if !priority.Valid() {
				priority = model.DefaultPriority
			}
			todo := model.NewTodo(t.Title, t.Description, t.Date, priority)
			todo.IsCompleted = t.IsCompleted
			p.AddTodoItem(todo)
		}
		projects = append(projects, p)
	}
	return projects, true, nil
}

// SaveLastViewedProject stores the id of the selected project.
func (a *Adapter) SaveLastViewedProject(id string) error {
	if err := a.medium.Set(LastViewedKey, id); err != nil {
		return fmt.Errorf("%w: write %s: %w", model.ErrPersistence, LastViewedKey, err)
	}
	return nil
}

// LoadLastViewedProject returns ok=false when no project was ever selected.
func (a *Adapter) LoadLastViewedProject() (string, bool, error) {
	id, ok, err := a.medium.Get(LastViewedKey)
	if err != nil {
		return "", false, fmt.Errorf("%w: read %s: %w", model.ErrPersistence, LastViewedKey, err)
	}
	id = strings.TrimSpace(id)
	if !ok || id == "" {
		return "", false, nil
	}
	return id, true, nil
}
