package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/airlock/internal/storage"
)

// PutCampaign inserts or replaces a campaign document by module name.
func (s *Store) PutCampaign(ctx context.Context, record storage.CampaignRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(record.Name) == "" {
		return fmt.Errorf("campaign name is required")
	}
	if len(record.Document) == 0 {
		return fmt.Errorf("campaign document is required")
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO campaigns (name, document, created_at, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(name) DO UPDATE SET
    document = excluded.document,
    updated_at = excluded.updated_at`,
		record.Name, record.Document, toMillis(record.CreatedAt), toMillis(record.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put campaign: %w", err)
	}
	return nil
}

// GetCampaign returns a campaign document or storage.ErrNotFound.
func (s *Store) GetCampaign(ctx context.Context, name string) (storage.CampaignRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.CampaignRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.CampaignRecord{}, fmt.Errorf("storage is not configured")
	}

	var (
		record    storage.CampaignRecord
		createdAt int64
		updatedAt int64
	)
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT name, document, created_at, updated_at
FROM campaigns WHERE name = ?`, name,
	).Scan(&record.Name, &record.Document, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return storage.CampaignRecord{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.CampaignRecord{}, fmt.Errorf("get campaign: %w", err)
	}
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}

// ListCampaigns returns all campaign documents ordered by name.
func (s *Store) ListCampaigns(ctx context.Context) ([]storage.CampaignRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT name, document, created_at, updated_at
FROM campaigns ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	var records []storage.CampaignRecord
	for rows.Next() {
		var (
			record    storage.CampaignRecord
			createdAt int64
			updatedAt int64
		)
		if err := rows.Scan(&record.Name, &record.Document, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		record.CreatedAt = fromMillis(createdAt)
		record.UpdatedAt = fromMillis(updatedAt)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate campaigns: %w", err)
	}
	return records, nil
}
