package migrate

import (
	"context"
	"flag"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DBPath != "data/taskboard.db" {
		t.Fatalf("expected default db path, got %q", cfg.DBPath)
	}
	if cfg.Action != ActionList {
		t.Fatalf("expected default action list, got %q", cfg.Action)
	}
}

func TestParseConfigAction(t *testing.T) {
	for _, action := range []string{ActionUpgrade, ActionDowngrade, ActionList} {
		fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
		cfg, err := ParseConfig(fs, []string{"-db-path", "/tmp/x.db", action})
		if err != nil {
			t.Fatalf("parse config %q: %v", action, err)
		}
		if cfg.Action != action {
			t.Fatalf("expected action %q, got %q", action, cfg.Action)
		}
		if cfg.DBPath != "/tmp/x.db" {
			t.Fatalf("expected db path override, got %q", cfg.DBPath)
		}
	}
}

func TestParseConfigRejectsUnknownAction(t *testing.T) {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	if _, err := ParseConfig(fs, []string{"sideways"}); err == nil {
		t.Fatal("expected error for unknown action")
	}
}

func TestParseConfigRejectsExtraArgs(t *testing.T) {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	if _, err := ParseConfig(fs, []string{"upgrade", "downgrade"}); err == nil {
		t.Fatal("expected error for extra positional arguments")
	}
}

func TestRunUpgradeAndList(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate.db")
	cfg := Config{DBPath: dbPath, Action: ActionUpgrade}
	ctx := context.Background()

	var out strings.Builder
	if err := Run(ctx, cfg, &out); err != nil {
		t.Fatalf("upgrade: %v", err)
	}

	out.Reset()
	cfg.Action = ActionList
	if err := Run(ctx, cfg, &out); err != nil {
		t.Fatalf("list: %v", err)
	}
	listing := out.String()
	for _, name := range []string{"001_create_items", "002_create_tasks", "003_add_priority"} {
		if !strings.Contains(listing, "[APPLIED] "+name) {
			t.Errorf("list output missing applied %s:\n%s", name, listing)
		}
	}

	out.Reset()
	cfg.Action = ActionDowngrade
	if err := Run(ctx, cfg, &out); err != nil {
		t.Fatalf("downgrade: %v", err)
	}

	out.Reset()
	cfg.Action = ActionList
	if err := Run(ctx, cfg, &out); err != nil {
		t.Fatalf("list after downgrade: %v", err)
	}
	listing = out.String()
	if !strings.Contains(listing, "[PENDING] 001_create_items") {
		t.Errorf("list output missing pending unit after downgrade:\n%s", listing)
	}
}

func TestRunListOnFreshDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "fresh.db")
	var out strings.Builder
	if err := Run(context.Background(), Config{DBPath: dbPath, Action: ActionList}, &out); err != nil {
		t.Fatalf("list: %v", err)
	}
	if got := strings.Count(out.String(), "[PENDING]"); got != 3 {
		t.Fatalf("pending units = %d, want 3:\n%s", got, out.String())
	}
}
