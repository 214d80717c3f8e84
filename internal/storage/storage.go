// Package storage defines the persistence records and store contracts for
// the taskboard service.
package storage

import (
	"context"
	"time"
)

// User is a board member tasks can be assigned to.
type User struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// Task is a Kanban board card with its resolved assignees.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	DueDate     string    `json:"due_date"`
	Assignees   []User    `json:"assignees"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Item is a flat catalog row with no relationships.
type Item struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TaskDraft carries the fields needed to create a task.
type TaskDraft struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	DueDate     string  `json:"due_date"`
	AssigneeIDs []int64 `json:"assignee_ids"`
}

// TaskPatch is a partial task update. Only fields whose Optional is set
// overwrite stored values; a set assignee list replaces the whole
// assignment set.
type TaskPatch struct {
	Title       Optional[string]  `json:"title"`
	Description Optional[string]  `json:"description"`
	Status      Optional[string]  `json:"status"`
	Priority    Optional[string]  `json:"priority"`
	DueDate     Optional[string]  `json:"due_date"`
	AssigneeIDs Optional[[]int64] `json:"assignee_ids"`
}

// TaskStore provides task CRUD with assignee-set management.
type TaskStore interface {
	ListTasks(ctx context.Context) ([]Task, error)
	GetTask(ctx context.Context, id int64) (Task, error)
	CreateTask(ctx context.Context, draft TaskDraft) (Task, error)
	UpdateTask(ctx context.Context, id int64, patch TaskPatch) (Task, error)
	DeleteTask(ctx context.Context, id int64) error
}

// ItemStore provides flat item CRUD.
type ItemStore interface {
	ListItems(ctx context.Context) ([]Item, error)
	GetItem(ctx context.Context, id int64) (Item, error)
	CreateItem(ctx context.Context, name string) (Item, error)
	UpdateItem(ctx context.Context, id int64, name string) (Item, error)
	DeleteItem(ctx context.Context, id int64) error
}

// UserStore lists assignable users.
type UserStore interface {
	ListUsers(ctx context.Context) ([]User, error)
}
