// Package migrate sequences versioned schema changes over a SQLite
// database. Each migration is a named pair of forward and reverse
// operations; the runner orders them by numeric name prefix, applies each
// at most once inside its own transaction, and tracks applied state in a
// schema_migrations table.
package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"
)

const migrationTable = "schema_migrations"

// ErrPartialRevert signals a reverse operation that could not fully undo
// its schema changes. The runner clears the tracking record anyway and
// logs the divergence instead of failing the downgrade.
var ErrPartialRevert = errors.New("schema change not fully undone")

// Migration is a named, versioned pair of forward and reverse operations.
// The runner never interprets their content, only sequences and tracks
// them. Names carry a numeric prefix before the first underscore, e.g.
// "002_create_tasks".
type Migration struct {
	Name string
	Up   func(ctx context.Context, tx *sql.Tx) error
	Down func(ctx context.Context, tx *sql.Tx) error
}

// Status describes one migration unit's applied state.
type Status struct {
	Name      string
	Applied   bool
	AppliedAt time.Time
}

// Runner applies and reverts an ordered migration sequence.
type Runner struct {
	sqlDB      *sql.DB
	logger     *log.Logger
	migrations []Migration
}

// NewRunner validates the migration set and returns a runner. Units are
// ordered by their numeric prefix regardless of registration order.
func NewRunner(sqlDB *sql.DB, migrations []Migration, logger *log.Logger) (*Runner, error) {
	if sqlDB == nil {
		return nil, fmt.Errorf("sql db is required")
	}
	if logger == nil {
		logger = log.Default()
	}
	if len(migrations) == 0 {
		return nil, fmt.Errorf("at least one migration is required")
	}

	ordered := make([]Migration, len(migrations))
	copy(ordered, migrations)

	seen := make(map[string]struct{}, len(ordered))
	versions := make(map[string]int, len(ordered))
	for _, m := range ordered {
		name := strings.TrimSpace(m.Name)
		if name == "" {
			return nil, fmt.Errorf("migration name is required")
		}
		if m.Up == nil || m.Down == nil {
			return nil, fmt.Errorf("migration %s: up and down operations are required", name)
		}
		version, err := versionPrefix(name)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("duplicate migration name %s", name)
		}
		seen[name] = struct{}{}
		versions[name] = version
	}

	sort.Slice(ordered, func(i, j int) bool {
		vi, vj := versions[ordered[i].Name], versions[ordered[j].Name]
		if vi != vj {
			return vi < vj
		}
		return ordered[i].Name < ordered[j].Name
	})

	return &Runner{sqlDB: sqlDB, logger: logger, migrations: ordered}, nil
}

// Statuses reports every unit in apply order, tagged applied or pending.
func (r *Runner) Statuses(ctx context.Context) ([]Status, error) {
	if err := r.ensureTable(ctx); err != nil {
		return nil, err
	}
	applied, err := r.appliedSet(ctx)
	if err != nil {
		return nil, err
	}

	statuses := make([]Status, 0, len(r.migrations))
	for _, m := range r.migrations {
		status := Status{Name: m.Name}
		if appliedAt, ok := applied[m.Name]; ok {
			status.Applied = true
			status.AppliedAt = time.UnixMilli(appliedAt).UTC()
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// Upgrade applies every pending unit in ascending order, one transaction
// per unit. A failing unit stops the run so later units never apply on top
// of a partially applied schema. Re-invocation is idempotent.
func (r *Runner) Upgrade(ctx context.Context) error {
	if err := r.ensureTable(ctx); err != nil {
		return err
	}
	applied, err := r.appliedSet(ctx)
	if err != nil {
		return err
	}

	for _, m := range r.migrations {
		if _, ok := applied[m.Name]; ok {
			r.logger.Printf("migration %s already applied, skipping", m.Name)
			continue
		}

		tx, err := r.sqlDB.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration %s: %w", m.Name, err)
		}
		if err := m.Up(ctx, tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration %s: %w", m.Name, err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO "+migrationTable+" (name, applied_at) VALUES (?, ?)",
			m.Name, time.Now().UTC().UnixMilli(),
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %s: %w", m.Name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", m.Name, err)
		}
		r.logger.Printf("migration %s applied", m.Name)
	}
	return nil
}

// Downgrade reverts applied units in descending order, one transaction per
// unit, removing each unit's record on success. Revert failures are logged
// and the run continues with the next unit; reverse operations are
// inherently best effort.
func (r *Runner) Downgrade(ctx context.Context) error {
	if err := r.ensureTable(ctx); err != nil {
		return err
	}
	applied, err := r.appliedSet(ctx)
	if err != nil {
		return err
	}

	for idx := len(r.migrations) - 1; idx >= 0; idx-- {
		m := r.migrations[idx]
		if _, ok := applied[m.Name]; !ok {
			r.logger.Printf("migration %s not applied, skipping revert", m.Name)
			continue
		}

		tx, err := r.sqlDB.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin revert %s: %w", m.Name, err)
		}
		if err := m.Down(ctx, tx); err != nil {
			if !errors.Is(err, ErrPartialRevert) {
				_ = tx.Rollback()
				r.logger.Printf("revert migration %s: %v, continuing", m.Name, err)
				continue
			}
			r.logger.Printf("migration %s reverted partially, schema diverges: %v", m.Name, err)
		}
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM "+migrationTable+" WHERE name = ?", m.Name,
		); err != nil {
			_ = tx.Rollback()
			r.logger.Printf("remove migration record %s: %v, continuing", m.Name, err)
			continue
		}
		if err := tx.Commit(); err != nil {
			r.logger.Printf("commit revert %s: %v, continuing", m.Name, err)
			continue
		}
		r.logger.Printf("migration %s reverted", m.Name)
	}
	return nil
}

func (r *Runner) ensureTable(ctx context.Context) error {
	_, err := r.sqlDB.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS `+migrationTable+` (
    name TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
);
`)
	if err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}
	return nil
}

func (r *Runner) appliedSet(ctx context.Context) (map[string]int64, error) {
	rows, err := r.sqlDB.QueryContext(ctx, "SELECT name, applied_at FROM "+migrationTable)
	if err != nil {
		return nil, fmt.Errorf("read applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]int64)
	for rows.Next() {
		var name string
		var appliedAt int64
		if err := rows.Scan(&name, &appliedAt); err != nil {
			return nil, fmt.Errorf("scan applied migration: %w", err)
		}
		applied[name] = appliedAt
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applied migrations: %w", err)
	}
	return applied, nil
}

func versionPrefix(name string) (int, error) {
	prefix, _, found := strings.Cut(name, "_")
	if !found {
		return 0, fmt.Errorf("migration %s: name needs a numeric prefix followed by an underscore", name)
	}
	version, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, fmt.Errorf("migration %s: non-numeric version prefix %q", name, prefix)
	}
	return version, nil
}
