package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Default returns the taskboard schema history in registration order. The
// runner re-sorts by numeric prefix, so the order here is documentation.
func Default() []Migration {
	return []Migration{
		createItems(),
		createTasks(),
		addPriority(),
	}
}

func createItems() Migration {
	return Migration{
		Name: "001_create_items",
		Up: func(ctx context.Context, tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS items (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL
);
`); err != nil {
				return fmt.Errorf("create items table: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `
INSERT INTO items (name) VALUES ('Apple'), ('Banana'), ('Cherry');
`); err != nil {
				return fmt.Errorf("seed items: %w", err)
			}
			return nil
		},
		Down: func(ctx context.Context, tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS items"); err != nil {
				return fmt.Errorf("drop items table: %w", err)
			}
			return nil
		},
	}
}

func createTasks() Migration {
	return Migration{
		Name: "002_create_tasks",
		Up: func(ctx context.Context, tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    avatar TEXT
);
`); err != nil {
				return fmt.Errorf("create users table: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS tasks (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    description TEXT,
    status TEXT NOT NULL,
    due_date TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);
`); err != nil {
				return fmt.Errorf("create tasks table: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS task_assignees (
    task_id INTEGER NOT NULL,
    user_id INTEGER NOT NULL,
    PRIMARY KEY (task_id, user_id),
    FOREIGN KEY (task_id) REFERENCES tasks(id) ON DELETE CASCADE,
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);
`); err != nil {
				return fmt.Errorf("create task_assignees table: %w", err)
			}
			if err := seedTasks(ctx, tx); err != nil {
				return err
			}
			return nil
		},
		Down: func(ctx context.Context, tx *sql.Tx) error {
			for _, table := range []string{"task_assignees", "tasks", "users"} {
				if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
					return fmt.Errorf("drop %s table: %w", table, err)
				}
			}
			return nil
		},
	}
}

func addPriority() Migration {
	return Migration{
		Name: "003_add_priority",
		Up: func(ctx context.Context, tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, `
ALTER TABLE tasks ADD COLUMN priority TEXT NOT NULL DEFAULT 'normal';
`); err != nil {
				return fmt.Errorf("add priority column: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `
UPDATE tasks SET priority = 'high' WHERE status = 'in_progress';
`); err != nil {
				return fmt.Errorf("backfill priority: %w", err)
			}
			return nil
		},
		Down: func(ctx context.Context, tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, "ALTER TABLE tasks DROP COLUMN priority"); err != nil {
				// Older SQLite builds cannot drop columns. Leave the column
				// in place and let the runner clear the tracking record.
				if strings.Contains(strings.ToLower(err.Error()), "syntax error") ||
					strings.Contains(strings.ToLower(err.Error()), "near \"drop\"") {
					return fmt.Errorf("drop priority column unsupported by engine: %w", ErrPartialRevert)
				}
				return fmt.Errorf("drop priority column: %w", err)
			}
			return nil
		},
	}
}

func seedTasks(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `
INSERT INTO users (name, avatar) VALUES
    ('John Doe', 'https://api.dicebear.com/7.x/avataaars/svg?seed=John'),
    ('Jane Smith', 'https://api.dicebear.com/7.x/avataaars/svg?seed=Jane'),
    ('Mike Johnson', 'https://api.dicebear.com/7.x/avataaars/svg?seed=Mike'),
    ('Sarah Williams', 'https://api.dicebear.com/7.x/avataaars/svg?seed=Sarah');
`); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
INSERT INTO tasks (title, description, status, due_date, created_at, updated_at) VALUES
    ('Solutions Pages', 'Create solutions section pages', 'pending', '2026-02-15', unixepoch()*1000, unixepoch()*1000),
    ('Company Pages', 'Build company information pages', 'pending', '2026-02-16', unixepoch()*1000, unixepoch()*1000),
    ('Help Center Pages', 'Design and implement help center', 'pending', '2026-02-17', unixepoch()*1000, unixepoch()*1000),
    ('Order Flow', 'Implement new order processing flow', 'in_progress', '2026-02-10', unixepoch()*1000, unixepoch()*1000),
    ('New Work Flow', 'Design new workflow system', 'in_progress', '2026-02-12', unixepoch()*1000, unixepoch()*1000),
    ('About Us Illustration', 'Create about us page illustrations', 'completed', '2026-01-28', unixepoch()*1000, unixepoch()*1000),
    ('Hero Illustration', 'Design hero section illustration', 'completed', '2026-01-29', unixepoch()*1000, unixepoch()*1000),
    ('Moodboarding', 'Create mood boards for design direction', 'completed', '2026-01-25', unixepoch()*1000, unixepoch()*1000),
    ('Research', 'Conduct user research and analysis', 'completed', '2026-01-24', unixepoch()*1000, unixepoch()*1000),
    ('Features Pages', 'Build features showcase pages', 'launched', '2026-01-20', unixepoch()*1000, unixepoch()*1000);
`); err != nil {
		return fmt.Errorf("seed tasks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
INSERT INTO task_assignees (task_id, user_id) VALUES
    (1, 1), (1, 2),
    (2, 2), (2, 3),
    (3, 3), (3, 4),
    (4, 1), (4, 4),
    (5, 2), (5, 3),
    (6, 1),
    (7, 2),
    (8, 3), (8, 4),
    (9, 1), (9, 2),
    (10, 4);
`); err != nil {
		return fmt.Errorf("seed task assignees: %w", err)
	}
	return nil
}
