package model

import (
	"fmt"

	"github.com/google/uuid"
)

// Project is a named, ordered collection of todos with a stable id.
// Each todo is paired with an in-memory key so a position can be
// re-resolved after other mutations; keys are never persisted.
type Project struct {
	ID    string
	Title string

	todos []Todo
	keys  []string
}

// NewProject builds an empty project. A blank id gets a fresh random UUID.
func NewProject(id, title string) *Project {
	if id == "" {
		id = uuid.NewString()
	}
	return &Project{ID: id, Title: title}
}

// AddTodoItem appends t to the end of the list.
func (p *Project) AddTodoItem(t Todo) {
	p.todos = append(p.todos, t)
	p.keys = append(p.keys, uuid.NewString())
}

// TodoItems returns a copy of the list.
func (p *Project) TodoItems() []Todo {
	out := make([]Todo, len(p.todos))
	copy(out, p.todos)
	return out
}

func (p *Project) Len() int { return len(p.todos) }

// TodoItem returns the todo at index. Negative indices are rejected.
func (p *Project) TodoItem(index int) (Todo, error) {
	if err := p.checkIndex(index); err != nil {
		return Todo{}, err
	}
	return p.todos[index], nil
}

// DeleteTodoItem removes the todo at index; later todos shift down by one.
func (p *Project) DeleteTodoItem(index int) error {
	if err := p.checkIndex(index); err != nil {
		return err
	}
	p.todos = append(p.todos[:index], p.todos[index+1:]...)
	p.keys = append(p.keys[:index], p.keys[index+1:]...)
	return nil
}

// UpdateTodoItem applies fn to the todo at index in place.
func (p *Project) UpdateTodoItem(index int, fn func(*Todo)) error {
	if err := p.checkIndex(index); err != nil {
		return err
	}
	fn(&p.todos[index])
	return nil
}

// TodoKey returns the in-memory key of the todo currently at index.
func (p *Project) TodoKey(index int) (string, error) {
	if err := p.checkIndex(index); err != nil {
		return "", err
	}
	return p.keys[index], nil
}

// IndexOf resolves a todo key to its current position.
func (p *Project) IndexOf(key string) (int, error) {
	for i, k := range p.keys {
		if k == key {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: todo %q in project %q", ErrNotFound, key, p.ID)
}

// Clone returns a deep copy, keys included.
func (p *Project) Clone() Project {
	c := Project{ID: p.ID, Title: p.Title}
	c.todos = p.TodoItems()
	c.keys = make([]string, len(p.keys))
	copy(c.keys, p.keys)
	return c
}

func (p *Project) checkIndex(index int) error {
	if index < 0 || index >= len(p.todos) {
		return fmt.Errorf("%w: index %d in project %q (have %d)", ErrIndexOutOfRange, index, p.ID, len(p.todos))
	}
	return nil
}
