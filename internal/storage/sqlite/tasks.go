package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/louisbranch/taskboard/internal/platform/errors"
	"github.com/louisbranch/taskboard/internal/storage"
)

const taskColumns = "id, title, description, status, priority, due_date, created_at, updated_at"

// ListTasks returns every task newest-first with resolved assignees.
func (s *Store) ListTasks(ctx context.Context) ([]storage.Task, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT `+taskColumns+`
FROM tasks
ORDER BY created_at DESC, id DESC
`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]storage.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}

	assignees, err := s.loadAllAssignees(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		tasks[i].Assignees = assignees[tasks[i].ID]
		if tasks[i].Assignees == nil {
			tasks[i].Assignees = []storage.User{}
		}
	}
	return tasks, nil
}

// GetTask returns one task with resolved assignees.
func (s *Store) GetTask(ctx context.Context, id int64) (storage.Task, error) {
	if s == nil || s.sqlDB == nil {
		return storage.Task{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT `+taskColumns+`
FROM tasks
WHERE id = ?
`, id)
	task, err := scanTask(row)
	if err != nil {
		if isNoRows(err) {
			return storage.Task{}, apperrors.E(apperrors.KindNotFound, fmt.Sprintf("task %d not found", id))
		}
		return storage.Task{}, err
	}

	task.Assignees, err = s.loadTaskAssignees(ctx, id)
	if err != nil {
		return storage.Task{}, err
	}
	return task, nil
}

// CreateTask inserts a task and its assignee rows in one transaction and
// returns the resolved task. Assignee ids are not validated against the
// users table; the engine's foreign keys enforce referential integrity.
func (s *Store) CreateTask(ctx context.Context, draft storage.TaskDraft) (storage.Task, error) {
	draft.Title = strings.TrimSpace(draft.Title)
	draft.Status = strings.TrimSpace(draft.Status)
	draft.Priority = strings.TrimSpace(draft.Priority)
	draft.DueDate = strings.TrimSpace(draft.DueDate)
	if draft.Title == "" {
		return storage.Task{}, apperrors.E(apperrors.KindInvalidInput, "task title is required")
	}
	if draft.Status == "" {
		return storage.Task{}, apperrors.E(apperrors.KindInvalidInput, "task status is required")
	}
	if draft.DueDate == "" {
		return storage.Task{}, apperrors.E(apperrors.KindInvalidInput, "task due date is required")
	}
	if draft.Priority == "" {
		draft.Priority = "normal"
	}

	now := time.Now().UTC()
	var taskID int64
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
INSERT INTO tasks (title, description, status, priority, due_date, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`,
			draft.Title,
			draft.Description,
			draft.Status,
			draft.Priority,
			draft.DueDate,
			now.UnixMilli(),
			now.UnixMilli(),
		)
		if err != nil {
			return fmt.Errorf("insert task: %w", err)
		}
		taskID, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("task insert id: %w", err)
		}
		return insertAssignees(ctx, tx, taskID, draft.AssigneeIDs)
	})
	if err != nil {
		return storage.Task{}, err
	}
	return s.GetTask(ctx, taskID)
}

// UpdateTask applies a field-level merge: present patch fields overwrite
// the stored columns, absent fields keep their values, and updated_at is
// refreshed on every successful update. A present assignee list, even an
// empty one, replaces the entire assignment set. Everything runs in one
// transaction.
func (s *Store) UpdateTask(ctx context.Context, id int64, patch storage.TaskPatch) (storage.Task, error) {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `
SELECT `+taskColumns+`
FROM tasks
WHERE id = ?
`, id)
		current, err := scanTask(row)
		if err != nil {
			if isNoRows(err) {
				return apperrors.E(apperrors.KindNotFound, fmt.Sprintf("task %d not found", id))
			}
			return err
		}

		merged := mergeTask(current, patch)
		if _, err := tx.ExecContext(ctx, `
UPDATE tasks
SET title = ?, description = ?, status = ?, priority = ?, due_date = ?, updated_at = ?
WHERE id = ?
`,
			merged.Title,
			merged.Description,
			merged.Status,
			merged.Priority,
			merged.DueDate,
			time.Now().UTC().UnixMilli(),
			id,
		); err != nil {
			return fmt.Errorf("update task %d: %w", id, err)
		}

		if patch.AssigneeIDs.Present() {
			if _, err := tx.ExecContext(ctx, "DELETE FROM task_assignees WHERE task_id = ?", id); err != nil {
				return fmt.Errorf("clear task %d assignees: %w", id, err)
			}
			if err := insertAssignees(ctx, tx, id, patch.AssigneeIDs.Value()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return storage.Task{}, err
	}
	return s.GetTask(ctx, id)
}

// DeleteTask removes a task; its assignee rows go away through the
// foreign-key cascade, not an explicit delete.
func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		var found int
		err := tx.QueryRowContext(ctx, "SELECT 1 FROM tasks WHERE id = ?", id).Scan(&found)
		if err != nil {
			if isNoRows(err) {
				return apperrors.E(apperrors.KindNotFound, fmt.Sprintf("task %d not found", id))
			}
			return fmt.Errorf("check task %d: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id); err != nil {
			return fmt.Errorf("delete task %d: %w", id, err)
		}
		return nil
	})
}

func mergeTask(current storage.Task, patch storage.TaskPatch) storage.Task {
	merged := current
	if patch.Title.Present() {
		merged.Title = patch.Title.Value()
	}
	if patch.Description.Present() {
		merged.Description = patch.Description.Value()
	}
	if patch.Status.Present() {
		merged.Status = patch.Status.Value()
	}
	if patch.Priority.Present() {
		merged.Priority = patch.Priority.Value()
	}
	if patch.DueDate.Present() {
		merged.DueDate = patch.DueDate.Value()
	}
	return merged
}

func insertAssignees(ctx context.Context, tx *sql.Tx, taskID int64, userIDs []int64) error {
	for _, userID := range userIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO task_assignees (task_id, user_id) VALUES (?, ?)",
			taskID, userID,
		); err != nil {
			return fmt.Errorf("assign user %d to task %d: %w", userID, taskID, err)
		}
	}
	return nil
}

func (s *Store) loadTaskAssignees(ctx context.Context, taskID int64) ([]storage.User, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT u.id, u.name, u.avatar
FROM task_assignees ta
JOIN users u ON u.id = ta.user_id
WHERE ta.task_id = ?
ORDER BY u.name, u.id
`, taskID)
	if err != nil {
		return nil, fmt.Errorf("load task %d assignees: %w", taskID, err)
	}
	defer rows.Close()

	users := make([]storage.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate task %d assignees: %w", taskID, err)
	}
	return users, nil
}

func (s *Store) loadAllAssignees(ctx context.Context) (map[int64][]storage.User, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT ta.task_id, u.id, u.name, u.avatar
FROM task_assignees ta
JOIN users u ON u.id = ta.user_id
ORDER BY u.name, u.id
`)
	if err != nil {
		return nil, fmt.Errorf("load assignees: %w", err)
	}
	defer rows.Close()

	assignees := make(map[int64][]storage.User)
	for rows.Next() {
		var taskID int64
		var user storage.User
		var avatar sql.NullString
		if err := rows.Scan(&taskID, &user.ID, &user.Name, &avatar); err != nil {
			return nil, fmt.Errorf("scan assignee: %w", err)
		}
		user.Avatar = avatar.String
		assignees[taskID] = append(assignees[taskID], user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assignees: %w", err)
	}
	return assignees, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (storage.Task, error) {
	var task storage.Task
	var description sql.NullString
	var createdAt, updatedAt int64
	if err := row.Scan(
		&task.ID,
		&task.Title,
		&description,
		&task.Status,
		&task.Priority,
		&task.DueDate,
		&createdAt,
		&updatedAt,
	); err != nil {
		if isNoRows(err) {
			return storage.Task{}, err
		}
		return storage.Task{}, fmt.Errorf("scan task: %w", err)
	}
	task.Description = description.String
	task.CreatedAt = unixMillisToTime(createdAt)
	task.UpdatedAt = unixMillisToTime(updatedAt)
	task.Assignees = []storage.User{}
	return task, nil
}

func scanUser(row rowScanner) (storage.User, error) {
	var user storage.User
	var avatar sql.NullString
	if err := row.Scan(&user.ID, &user.Name, &avatar); err != nil {
		return storage.User{}, fmt.Errorf("scan user: %w", err)
	}
	user.Avatar = avatar.String
	return user, nil
}

func isNoRows(err error) bool {
	return err == sql.ErrNoRows
}
