// Package store holds the registry of projects owned by one application
// instance. Stores are constructed explicitly; there is no global registry.
package store

import (
	"fmt"

	"github.com/idilsaglam/tada/internal/model"
)

// DefaultProjectTitle names the default project of a fresh store.
const DefaultProjectTitle = "Inbox"

// Store maps project ids to projects and keeps insertion order.
// The first project is the default project and cannot be deleted.
type Store struct {
	order     []string
	projects  map[string]*model.Project
	defaultID string
}

// New returns a store holding only a default project.
func New(defaultTitle string) *Store {
	if defaultTitle == "" {
		defaultTitle = DefaultProjectTitle
	}
	s := &Store{projects: make(map[string]*model.Project)}
	p := model.NewProject("", defaultTitle)
	s.register(p)
	s.defaultID = p.ID
	return s
}

// Restore rebuilds a store from previously persisted projects. The first
// project becomes the default project.
func Restore(projects []*model.Project) (*Store, error) {
	if len(projects) == 0 {
		return nil, fmt.Errorf("%w: restore needs at least one project", model.ErrValidation)
	}
	s := &Store{projects: make(map[string]*model.Project, len(projects))}
	for _, p := range projects {
		if p == nil || p.ID == "" {
			return nil, fmt.Errorf("%w: project without id", model.ErrValidation)
		}
		if _, dup := s.projects[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate project id %q", model.ErrValidation, p.ID)
		}
		s.register(p)
	}
	s.defaultID = projects[0].ID
	return s, nil
}

// CreateProject registers a new empty project under a random UUID.
func (s *Store) CreateProject(title string) *model.Project {
	p := model.NewProject("", title)
	for s.has(p.ID) {
		p = model.NewProject("", title)
	}
	s.register(p)
	return p
}

// FindProject returns the store-owned project. Mutations through the
// returned pointer are visible to the store.
func (s *Store) FindProject(id string) (*model.Project, error) {
	p, ok := s.projects[id]
	if !ok {
		return nil, fmt.Errorf("%w: project %q", model.ErrNotFound, id)
	}
	return p, nil
}

// DeleteProject removes a project. The default project is protected.
func (s *Store) DeleteProject(id string) error {
	if id == s.defaultID {
		return fmt.Errorf("%w: default project %q cannot be deleted", model.ErrProtectedEntity, id)
	}
	if !s.has(id) {
		return fmt.Errorf("%w: project %q", model.ErrNotFound, id)
	}
	delete(s.projects, id)
	for i, pid := range s.order {
		if pid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// ListProjects returns deep copies in insertion order.
func (s *Store) ListProjects() []model.Project {
	out := make([]model.Project, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.projects[id].Clone())
	}
	return out
}

func (s *Store) DefaultID() string { return s.defaultID }

func (s *Store) Len() int { return len(s.order) }

func (s *Store) has(id string) bool {
	_, ok := s.projects[id]
	return ok
}

func (s *Store) register(p *model.Project) {
	s.projects[p.ID] = p
	s.order = append(s.order, p.ID)
}
