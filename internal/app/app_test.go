package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/store"
	"github.com/idilsaglam/tada/internal/store/jsonstore"
	"github.com/idilsaglam/tada/internal/store/kv"
)

func openApp(t *testing.T, m kv.Medium) *App {
	t.Helper()
	adapter, err := jsonstore.New(m)
	require.NoError(t, err)
	a, err := Open(adapter)
	require.NoError(t, err)
	return a
}

func ptr[T any](v T) *T { return &v }

func TestOpen_FreshStateHasDefaultProject(t *testing.T) {
	a := openApp(t, kv.NewMemoryMedium())

	projects := a.ListProjects()
	require.Len(t, projects, 1)
	assert.Equal(t, "Inbox", projects[0].Title)
	assert.Equal(t, a.DefaultProjectID(), a.CurrentProject())
}

func TestOpen_CustomDefaultTitle(t *testing.T) {
	adapter, err := jsonstore.New(kv.NewMemoryMedium())
	require.NoError(t, err)
	a, err := Open(adapter, WithDefaultProject("Tasks"))
	require.NoError(t, err)

	p, err := a.GetProject(a.DefaultProjectID())
	require.NoError(t, err)
	assert.Equal(t, "Tasks", p.Title)
}

func TestOpen_BrokenStateFallsBackToDefault(t *testing.T) {
	m := kv.NewMemoryMedium()
	require.NoError(t, m.Set(jsonstore.ProjectsKey, "garbage"))

	a := openApp(t, m)
	assert.Len(t, a.ListProjects(), 1)
}

func TestOpen_NilPersister(t *testing.T) {
	_, err := Open(nil)
	assert.Error(t, err)
}

// Scenario from the facade contract: create, add, delete, protect default.
func TestFacade_Scenario(t *testing.T) {
	a := openApp(t, kv.NewMemoryMedium())
	d := a.DefaultProjectID()

	w, err := a.RegisterProject("Work")
	require.NoError(t, err)

	require.NoError(t, a.AddTodoToProject(TodoInput{
		Title:     "Write report",
		Priority:  model.Priority2,
		ProjectID: w,
	}))
	todos, err := a.GetProjectTodos(w)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, "Write report", todos[0].Title)
	assert.False(t, todos[0].IsCompleted)

	require.NoError(t, a.DeleteTodoByIndex(w, 0))
	todos, err = a.GetProjectTodos(w)
	require.NoError(t, err)
	assert.Empty(t, todos)

	assert.ErrorIs(t, a.RemoveProject(d), model.ErrProtectedEntity)
	require.NoError(t, a.RemoveProject(w))

	projects := a.ListProjects()
	require.Len(t, projects, 1)
	assert.Equal(t, d, projects[0].ID)
}

func TestEditTodo_MoveAppendsToDestination(t *testing.T) {
	a := openApp(t, kv.NewMemoryMedium())
	d := a.DefaultProjectID()
	w, err := a.RegisterProject("Work")
	require.NoError(t, err)

	require.NoError(t, a.AddTodoToProject(TodoInput{Title: "already here", ProjectID: d}))
	require.NoError(t, a.AddTodoToProject(TodoInput{Title: "stays", ProjectID: w}))
	require.NoError(t, a.AddTodoToProject(TodoInput{Title: "moves", Description: "x", ProjectID: w, Priority: model.Priority1}))

	require.NoError(t, a.EditTodo(w, 1, TodoPatch{ProjectID: &d, Title: ptr("moved")}))

	src, err := a.GetProjectTodos(w)
	require.NoError(t, err)
	require.Len(t, src, 1)
	assert.Equal(t, "stays", src[0].Title)

	dst, err := a.GetProjectTodos(d)
	require.NoError(t, err)
	require.Len(t, dst, 2)
	last := dst[len(dst)-1]
	assert.Equal(t, "moved", last.Title)
	assert.Equal(t, "x", last.Description)
	assert.Equal(t, model.Priority1, last.Priority)
}

func TestEditTodo_MoveKeepsCompletion(t *testing.T) {
	a := openApp(t, kv.NewMemoryMedium())
	d := a.DefaultProjectID()
	w, err := a.RegisterProject("Work")
	require.NoError(t, err)
	require.NoError(t, a.AddTodoToProject(TodoInput{Title: "done already", ProjectID: d}))
	require.NoError(t, a.CheckTodo(d, 0, true))

	require.NoError(t, a.EditTodo(d, 0, TodoPatch{ProjectID: &w}))

	moved, err := a.GetTodoFromProject(w, 0)
	require.NoError(t, err)
	assert.True(t, moved.IsCompleted)

	require.NoError(t, a.EditTodo(w, 0, TodoPatch{ProjectID: &d, IsCompleted: ptr(false)}))
	back, err := a.GetTodoFromProject(d, 0)
	require.NoError(t, err)
	assert.False(t, back.IsCompleted, "patch wins over the carried flag")
}

func TestEditTodo_MoveToMissingProjectKeepsTodo(t *testing.T) {
	a := openApp(t, kv.NewMemoryMedium())
	d := a.DefaultProjectID()
	require.NoError(t, a.AddTodoToProject(TodoInput{Title: "keep me", ProjectID: d}))

	err := a.EditTodo(d, 0, TodoPatch{ProjectID: ptr("nowhere")})
	assert.ErrorIs(t, err, model.ErrNotFound)

	todos, err := a.GetProjectTodos(d)
	require.NoError(t, err)
	assert.Len(t, todos, 1)
}

func TestEditTodo_InPlace(t *testing.T) {
	a := openApp(t, kv.NewMemoryMedium())
	d := a.DefaultProjectID()
	require.NoError(t, a.AddTodoToProject(TodoInput{Title: "a", ProjectID: d}))
	require.NoError(t, a.AddTodoToProject(TodoInput{Title: "b", ProjectID: d}))

	due := model.NewDate(2025, time.September, 12)
	require.NoError(t, a.EditTodo(d, 0, TodoPatch{
		Title:     ptr("A"),
		Date:      &due,
		ProjectID: &d, // same project: not a move
	}))

	todos, err := a.GetProjectTodos(d)
	require.NoError(t, err)
	require.Len(t, todos, 2)
	assert.Equal(t, "A", todos[0].Title)
	assert.True(t, due.Equal(todos[0].Date))
	assert.Equal(t, "b", todos[1].Title)

	assert.ErrorIs(t, a.EditTodo(d, 5, TodoPatch{Title: ptr("x")}), model.ErrIndexOutOfRange)
	assert.ErrorIs(t, a.EditTodo("nope", 0, TodoPatch{}), model.ErrNotFound)
}

func TestCheckTodo_TogglesOnlyCompletion(t *testing.T) {
	a := openApp(t, kv.NewMemoryMedium())
	d := a.DefaultProjectID()
	require.NoError(t, a.AddTodoToProject(TodoInput{
		Title: "a", Description: "desc", Priority: model.Priority3,
		Date: model.NewDate(2025, time.January, 2), ProjectID: d,
	}))
	before, err := a.GetTodoFromProject(d, 0)
	require.NoError(t, err)

	require.NoError(t, a.CheckTodo(d, 0, true))
	mid, err := a.GetTodoFromProject(d, 0)
	require.NoError(t, err)
	assert.True(t, mid.IsCompleted)

	require.NoError(t, a.CheckTodo(d, 0, false))
	after, err := a.GetTodoFromProject(d, 0)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestGetTodoFromProject_RejectsNegativeIndex(t *testing.T) {
	a := openApp(t, kv.NewMemoryMedium())
	d := a.DefaultProjectID()
	require.NoError(t, a.AddTodoToProject(TodoInput{Title: "only", ProjectID: d}))

	_, err := a.GetTodoFromProject(d, -1)
	assert.ErrorIs(t, err, model.ErrIndexOutOfRange)
	_, err = a.GetTodoFromProject("nope", 0)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestEditProject(t *testing.T) {
	a := openApp(t, kv.NewMemoryMedium())
	w, err := a.RegisterProject("Work")
	require.NoError(t, err)

	require.NoError(t, a.EditProject(w, ProjectPatch{Title: ptr("Job")}))
	p, err := a.GetProject(w)
	require.NoError(t, err)
	assert.Equal(t, "Job", p.Title)

	require.NoError(t, a.EditProject(w, ProjectPatch{}))
	p, _ = a.GetProject(w)
	assert.Equal(t, "Job", p.Title, "empty patch keeps fields")

	assert.ErrorIs(t, a.EditProject("nope", ProjectPatch{Title: ptr("x")}), model.ErrNotFound)
}

func TestEveryMutationWritesThrough(t *testing.T) {
	m := kv.NewMemoryMedium()
	a := openApp(t, m)
	d := a.DefaultProjectID()

	var work string
	steps := []func() error{
		func() (err error) { work, err = a.RegisterProject("Work"); return err },
		func() error { return a.AddTodoToProject(TodoInput{Title: "a", ProjectID: d}) },
		func() error { return a.CheckTodo(d, 0, true) },
		func() error { return a.EditTodo(d, 0, TodoPatch{Title: ptr("b")}) },
		func() error { return a.EditProject(d, ProjectPatch{Title: ptr("In")}) },
		func() error { return a.AddTodoToProject(TodoInput{Title: "c", ProjectID: d}) },
		func() error { return a.EditTodo(d, 1, TodoPatch{ProjectID: &work}) },
		func() error { return a.DeleteTodoByIndex(d, 0) },
		func() error { return a.RemoveProject(work) },
	}
	for i, step := range steps {
		before := m.Writes()
		require.NoError(t, step(), "step %d", i)
		assert.Greater(t, m.Writes(), before, "step %d must save", i)
	}
}

func TestFailedMutationDoesNotSave(t *testing.T) {
	m := kv.NewMemoryMedium()
	a := openApp(t, m)

	before := m.Writes()
	assert.Error(t, a.RemoveProject(a.DefaultProjectID()))
	assert.Error(t, a.DeleteTodoByIndex(a.DefaultProjectID(), 0))
	assert.Equal(t, before, m.Writes())
}

func TestSaveFailure_MutationStaysApplied(t *testing.T) {
	m := kv.NewMemoryMedium()
	a := openApp(t, m)
	m.FailWrites = true

	id, err := a.RegisterProject("Work")
	assert.ErrorIs(t, err, model.ErrPersistence)

	p, err := a.GetProject(id)
	require.NoError(t, err)
	assert.Equal(t, "Work", p.Title)
}

func TestStateSurvivesReopen(t *testing.T) {
	m := kv.NewMemoryMedium()
	a := openApp(t, m)
	d := a.DefaultProjectID()
	w, err := a.RegisterProject("Work")
	require.NoError(t, err)
	require.NoError(t, a.AddTodoToProject(TodoInput{Title: "x", ProjectID: w, Date: model.NewDate(2025, time.March, 3)}))
	require.NoError(t, a.ViewProject(w))

	b := openApp(t, m)
	assert.Equal(t, d, b.DefaultProjectID())
	assert.Equal(t, w, b.CurrentProject())
	todos, err := b.GetProjectTodos(w)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, "2025-03-03", todos[0].Date.String())
}

func TestRemoveProject_RedirectsViewToDefault(t *testing.T) {
	m := kv.NewMemoryMedium()
	a := openApp(t, m)
	w, err := a.RegisterProject("Work")
	require.NoError(t, err)
	require.NoError(t, a.ViewProject(w))

	require.NoError(t, a.RemoveProject(w))
	assert.Equal(t, a.DefaultProjectID(), a.CurrentProject())

	id, _, err := m.Get(jsonstore.LastViewedKey)
	require.NoError(t, err)
	assert.Equal(t, a.DefaultProjectID(), id)
}

func TestOpen_StaleLastViewedFallsBackToDefault(t *testing.T) {
	m := kv.NewMemoryMedium()
	require.NoError(t, m.Set(jsonstore.LastViewedKey, "gone"))

	a := openApp(t, m)
	assert.Equal(t, a.DefaultProjectID(), a.CurrentProject())
	assert.ErrorIs(t, a.ViewProject("gone"), model.ErrNotFound)
}

func TestApply_BatchesIntoOneFlush(t *testing.T) {
	m := kv.NewMemoryMedium()
	a := openApp(t, m)
	before := m.Writes()

	err := a.Apply(func(s *store.Store) error {
		for _, title := range []string{"a", "b", "c"} {
			p := s.CreateProject(title)
			p.AddTodoItem(model.NewTodo("imported", "", model.Date{}, ""))
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, before+1, m.Writes())
	assert.Len(t, a.ListProjects(), 4)
}

func TestTodoKeys_SurviveDeletion(t *testing.T) {
	a := openApp(t, kv.NewMemoryMedium())
	d := a.DefaultProjectID()
	for _, title := range []string{"a", "b", "c"} {
		require.NoError(t, a.AddTodoToProject(TodoInput{Title: title, ProjectID: d}))
	}
	key, err := a.TodoKey(d, 2)
	require.NoError(t, err)

	require.NoError(t, a.DeleteTodoByIndex(d, 0))

	idx, err := a.ResolveTodo(d, key)
	require.NoError(t, err)
	todo, err := a.GetTodoFromProject(d, idx)
	require.NoError(t, err)
	assert.Equal(t, "c", todo.Title)
}
