// Package migrate parses migrate command flags and runs schema actions.
package migrate

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"time"

	entrypoint "github.com/louisbranch/taskboard/internal/platform/cmd"
	"github.com/louisbranch/taskboard/internal/storage/sqlite"
	schemamigrate "github.com/louisbranch/taskboard/internal/storage/sqlite/migrate"
)

// Actions the migrate command accepts as its positional argument.
const (
	ActionUpgrade   = "upgrade"
	ActionDowngrade = "downgrade"
	ActionList      = "list"
)

// Config holds migrate command configuration.
type Config struct {
	DBPath string `env:"TASKBOARD_DB_PATH" envDefault:"data/taskboard.db"`

	// Action is the positional argument: upgrade, downgrade, or list.
	Action string
}

// ParseConfig parses environment, flags, and the positional action.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "The SQLite database path")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	switch fs.NArg() {
	case 0:
		cfg.Action = ActionList
	case 1:
		cfg.Action = fs.Arg(0)
	default:
		return Config{}, fmt.Errorf("expected one action, got %d", fs.NArg())
	}
	switch cfg.Action {
	case ActionUpgrade, ActionDowngrade, ActionList:
	default:
		return Config{}, fmt.Errorf("unknown action %q (want upgrade, downgrade, or list)", cfg.Action)
	}
	return cfg, nil
}

// Run executes the requested migration action, writing list output to out.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceMigrate, func(ctx context.Context) error {
		sqlDB, err := sqlite.OpenDB(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer func() {
			if err := sqlDB.Close(); err != nil {
				log.Printf("close database: %v", err)
			}
		}()

		runner, err := schemamigrate.NewRunner(sqlDB, schemamigrate.Default(), log.Default())
		if err != nil {
			return err
		}

		switch cfg.Action {
		case ActionUpgrade:
			return runner.Upgrade(ctx)
		case ActionDowngrade:
			return runner.Downgrade(ctx)
		case ActionList:
			return list(ctx, runner, out)
		default:
			return fmt.Errorf("unknown action %q", cfg.Action)
		}
	})
}

func list(ctx context.Context, runner *schemamigrate.Runner, out io.Writer) error {
	statuses, err := runner.Statuses(ctx)
	if err != nil {
		return err
	}
	for _, status := range statuses {
		if status.Applied {
			fmt.Fprintf(out, "[APPLIED] %s (at %s)\n", status.Name, status.AppliedAt.Format(time.RFC3339))
			continue
		}
		fmt.Fprintf(out, "[PENDING] %s\n", status.Name)
	}
	return nil
}
