package model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func projectWith(titles ...string) *Project {
	p := NewProject("", "Test")
	for _, title := range titles {
		p.AddTodoItem(NewTodo(title, "", Date{}, ""))
	}
	return p
}

func titles(todos []Todo) []string {
	out := make([]string, len(todos))
	for i, t := range todos {
		out[i] = t.Title
	}
	return out
}

func TestNewProject_GeneratesID(t *testing.T) {
	a := NewProject("", "A")
	b := NewProject("", "B")
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)

	assert.Equal(t, "fixed", NewProject("fixed", "C").ID)
}

func TestProject_AddKeepsInsertionOrder(t *testing.T) {
	p := NewProject("", "Work")
	for i := 0; i < 5; i++ {
		p.AddTodoItem(NewTodo(fmt.Sprintf("t%d", i), "", Date{}, ""))
	}
	p.AddTodoItem(NewTodo("t0", "", Date{}, "")) // duplicates allowed

	todos := p.TodoItems()
	require.Len(t, todos, 6)
	assert.Equal(t, []string{"t0", "t1", "t2", "t3", "t4", "t0"}, titles(todos))
}

func TestProject_TodoItemsIsACopy(t *testing.T) {
	p := projectWith("a", "b")
	snapshot := p.TodoItems()

	snapshot[0].Title = "changed"
	require.NoError(t, p.DeleteTodoItem(1))
	p.AddTodoItem(NewTodo("c", "", Date{}, ""))

	assert.Equal(t, []string{"changed", "b"}, titles(snapshot))
	assert.Equal(t, []string{"a", "c"}, titles(p.TodoItems()))
}

func TestProject_DeleteShiftsLaterItems(t *testing.T) {
	p := projectWith("a", "b", "c", "d")

	require.NoError(t, p.DeleteTodoItem(1))

	assert.Equal(t, 3, p.Len())
	for j, want := range []string{"c", "d"} {
		got, err := p.TodoItem(1 + j)
		require.NoError(t, err)
		assert.Equal(t, want, got.Title, "index %d now holds what was at %d", 1+j, 2+j)
	}
}

func TestProject_IndexOutOfRange(t *testing.T) {
	p := projectWith("a", "b")

	for _, idx := range []int{-1, 2, 10} {
		_, err := p.TodoItem(idx)
		assert.ErrorIs(t, err, ErrIndexOutOfRange, "get %d", idx)
		assert.ErrorIs(t, p.DeleteTodoItem(idx), ErrIndexOutOfRange, "delete %d", idx)
		assert.ErrorIs(t, p.UpdateTodoItem(idx, func(*Todo) {}), ErrIndexOutOfRange, "update %d", idx)
	}
	assert.Equal(t, 2, p.Len(), "failed deletions must not remove anything")

	empty := NewProject("", "Empty")
	assert.ErrorIs(t, empty.DeleteTodoItem(0), ErrIndexOutOfRange)
}

func TestProject_UpdateTodoItem(t *testing.T) {
	p := projectWith("a")
	require.NoError(t, p.UpdateTodoItem(0, func(t *Todo) { t.IsCompleted = true }))

	got, err := p.TodoItem(0)
	require.NoError(t, err)
	assert.True(t, got.IsCompleted)
	assert.Equal(t, "a", got.Title)
}

func TestProject_KeysFollowTheirTodo(t *testing.T) {
	p := projectWith("a", "b", "c")
	keyC, err := p.TodoKey(2)
	require.NoError(t, err)

	// Deleting index 0 invalidates positional indices but not keys.
	require.NoError(t, p.DeleteTodoItem(0))

	idx, err := p.IndexOf(keyC)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	keyA := "missing"
	_, err = p.IndexOf(keyA)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProject_CloneIsDeep(t *testing.T) {
	p := projectWith("a")
	c := p.Clone()

	p.Title = "renamed"
	require.NoError(t, p.UpdateTodoItem(0, func(t *Todo) { t.Title = "x" }))

	assert.Equal(t, "Test", c.Title)
	got, err := c.TodoItem(0)
	require.NoError(t, err)
	assert.Equal(t, "a", got.Title)
}
