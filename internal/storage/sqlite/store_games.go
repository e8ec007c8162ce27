package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/airlock/internal/storage"
)

// PutGame inserts or replaces a game record.
func (s *Store) PutGame(ctx context.Context, record storage.GameRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(record.ID) == "" {
		return fmt.Errorf("game id is required")
	}
	if strings.TrimSpace(record.System) == "" {
		return fmt.Errorf("game system is required")
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO games (id, name, system, snapshot, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    name = excluded.name,
    system = excluded.system,
    snapshot = excluded.snapshot,
    updated_at = excluded.updated_at`,
		record.ID, record.Name, record.System, record.Snapshot,
		toMillis(record.CreatedAt), toMillis(record.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put game: %w", err)
	}
	return nil
}

// GetGame returns a game record or storage.ErrNotFound.
func (s *Store) GetGame(ctx context.Context, id string) (storage.GameRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.GameRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.GameRecord{}, fmt.Errorf("storage is not configured")
	}

	var (
		record    storage.GameRecord
		createdAt int64
		updatedAt int64
	)
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT id, name, system, snapshot, created_at, updated_at
FROM games WHERE id = ?`, id,
	).Scan(&record.ID, &record.Name, &record.System, &record.Snapshot, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return storage.GameRecord{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.GameRecord{}, fmt.Errorf("get game: %w", err)
	}
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}

// ListGames returns all game records, most recently updated first.
func (s *Store) ListGames(ctx context.Context) ([]storage.GameRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, name, system, snapshot, created_at, updated_at
FROM games ORDER BY updated_at DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var records []storage.GameRecord
	for rows.Next() {
		var (
			record    storage.GameRecord
			createdAt int64
			updatedAt int64
		)
		if err := rows.Scan(&record.ID, &record.Name, &record.System,
			&record.Snapshot, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		record.CreatedAt = fromMillis(createdAt)
		record.UpdatedAt = fromMillis(updatedAt)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate games: %w", err)
	}
	return records, nil
}

// DeleteGame removes a game record or returns storage.ErrNotFound.
func (s *Store) DeleteGame(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	result, err := s.sqlDB.ExecContext(ctx, "DELETE FROM games WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}
