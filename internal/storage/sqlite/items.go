package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	apperrors "github.com/louisbranch/taskboard/internal/platform/errors"
	"github.com/louisbranch/taskboard/internal/storage"
)

// ListItems returns every item ordered by id.
func (s *Store) ListItems(ctx context.Context) ([]storage.Item, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, "SELECT id, name FROM items ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items := make([]storage.Item, 0)
	for rows.Next() {
		var item storage.Item
		if err := rows.Scan(&item.ID, &item.Name); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

// GetItem returns one item by id.
func (s *Store) GetItem(ctx context.Context, id int64) (storage.Item, error) {
	if s == nil || s.sqlDB == nil {
		return storage.Item{}, fmt.Errorf("storage is not configured")
	}

	var item storage.Item
	err := s.sqlDB.QueryRowContext(ctx, "SELECT id, name FROM items WHERE id = ?", id).
		Scan(&item.ID, &item.Name)
	if err != nil {
		if isNoRows(err) {
			return storage.Item{}, apperrors.E(apperrors.KindNotFound, fmt.Sprintf("item %d not found", id))
		}
		return storage.Item{}, fmt.Errorf("get item %d: %w", id, err)
	}
	return item, nil
}

// CreateItem inserts a new item.
func (s *Store) CreateItem(ctx context.Context, name string) (storage.Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return storage.Item{}, apperrors.E(apperrors.KindInvalidInput, "item name is required")
	}

	var item storage.Item
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, "INSERT INTO items (name) VALUES (?)", name)
		if err != nil {
			return fmt.Errorf("insert item: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("item insert id: %w", err)
		}
		item = storage.Item{ID: id, Name: name}
		return nil
	})
	if err != nil {
		return storage.Item{}, err
	}
	return item, nil
}

// UpdateItem replaces an item's name.
func (s *Store) UpdateItem(ctx context.Context, id int64, name string) (storage.Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return storage.Item{}, apperrors.E(apperrors.KindInvalidInput, "item name is required")
	}

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var found int
		err := tx.QueryRowContext(ctx, "SELECT 1 FROM items WHERE id = ?", id).Scan(&found)
		if err != nil {
			if isNoRows(err) {
				return apperrors.E(apperrors.KindNotFound, fmt.Sprintf("item %d not found", id))
			}
			return fmt.Errorf("check item %d: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx, "UPDATE items SET name = ? WHERE id = ?", name, id); err != nil {
			return fmt.Errorf("update item %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return storage.Item{}, err
	}
	return storage.Item{ID: id, Name: name}, nil
}

// DeleteItem removes an item by id.
func (s *Store) DeleteItem(ctx context.Context, id int64) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		var found int
		err := tx.QueryRowContext(ctx, "SELECT 1 FROM items WHERE id = ?", id).Scan(&found)
		if err != nil {
			if isNoRows(err) {
				return apperrors.E(apperrors.KindNotFound, fmt.Sprintf("item %d not found", id))
			}
			return fmt.Errorf("check item %d: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM items WHERE id = ?", id); err != nil {
			return fmt.Errorf("delete item %d: %w", id, err)
		}
		return nil
	})
}
