package sqlite

import (
	"context"
	"fmt"

	"github.com/louisbranch/taskboard/internal/storage"
)

// ListUsers returns every assignable user ordered by name.
func (s *Store) ListUsers(ctx context.Context) ([]storage.User, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, "SELECT id, name, avatar FROM users ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
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
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

var (
	_ storage.TaskStore = (*Store)(nil)
	_ storage.ItemStore = (*Store)(nil)
	_ storage.UserStore = (*Store)(nil)
)
