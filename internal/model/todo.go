package model

// Todo is a task record. It has no identity of its own: callers address it
// by position inside its project.
type Todo struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Date        Date     `json:"date"`
	Priority    Priority `json:"priority"`
	IsCompleted bool     `json:"isCompleted"`
}

// NewTodo builds an incomplete todo. An empty priority means DefaultPriority.
// Title validation belongs to the caller.
func NewTodo(title, description string, date Date, priority Priority) Todo {
	if priority == "" {
		priority = DefaultPriority
	}
	return Todo{
		Title:       title,
		Description: description,
		Date:        date,
		Priority:    priority,
	}
}
