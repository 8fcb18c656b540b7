package app

import "github.com/idilsaglam/tada/internal/model"

// ProjectPatch lists project fields to overwrite; nil fields are kept.
type ProjectPatch struct {
	Title *string
}

// TodoInput carries the data for a new todo and its destination project.
type TodoInput struct {
	Title       string
	Description string
	Date        model.Date
	Priority    model.Priority
	ProjectID   string
}

// TodoPatch lists todo fields to overwrite; nil fields are kept.
// A ProjectID different from the current project turns the edit into a move.
type TodoPatch struct {
	Title       *string
	Description *string
	Date        *model.Date
	Priority    *model.Priority
	IsCompleted *bool
	ProjectID   *string
}

// EditKind tags how an edit is applied.
type EditKind int

const (
	UpdateInPlace EditKind = iota
	MoveToProject
)

func (k EditKind) String() string {
	if k == MoveToProject {
		return "move"
	}
	return "update"
}

// EditPlan is the resolved form of an EditTodo request.
type EditPlan struct {
	Kind   EditKind
	From   string
	To     string
	Index  int
	Result model.Todo
}

// PlanEdit merges patch into current and decides between an in-place
// update and a move to another project.
func PlanEdit(projectID string, index int, current model.Todo, patch TodoPatch) EditPlan {
	plan := EditPlan{
		Kind:   UpdateInPlace,
		From:   projectID,
		To:     projectID,
		Index:  index,
		Result: merge(current, patch),
	}
	if patch.ProjectID != nil && *patch.ProjectID != "" && *patch.ProjectID != projectID {
		plan.Kind = MoveToProject
		plan.To = *patch.ProjectID
	}
	return plan
}

func merge(t model.Todo, patch TodoPatch) model.Todo {
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Date != nil {
		t.Date = *patch.Date
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	if t.Priority == "" {
		t.Priority = model.DefaultPriority
	}
	if patch.IsCompleted != nil {
		t.IsCompleted = *patch.IsCompleted
	}
	return t
}
