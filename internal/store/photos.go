package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PutInventoryPhoto stores or replaces the photo of an inventory item.
func (s *Store) PutInventoryPhoto(ctx context.Context, itemID int64, data []byte, mime string) error {
	_, err := s.exec(ctx,
		`INSERT INTO inventory_photos (item_id, data, mime, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (item_id) DO UPDATE SET data = excluded.data, mime = excluded.mime, updated_at = excluded.updated_at`,
		itemID, data, mime, s.now(),
	)
	if err != nil {
		return fmt.Errorf("storing inventory photo: %w", err)
	}
	return nil
}

// GetInventoryPhoto returns the photo bytes and MIME type of an item.
func (s *Store) GetInventoryPhoto(ctx context.Context, itemID int64) ([]byte, string, error) {
	var (
		data []byte
		mime string
	)
	err := s.queryRow(ctx,
		`SELECT data, mime FROM inventory_photos WHERE item_id = ?`, itemID,
	).Scan(&data, &mime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting inventory photo: %w", err)
	}
	return data, mime, nil
}

// DeleteInventoryPhoto removes an item's photo. Missing photos are not an error.
func (s *Store) DeleteInventoryPhoto(ctx context.Context, itemID int64) error {
	if _, err := s.exec(ctx, `DELETE FROM inventory_photos WHERE item_id = ?`, itemID); err != nil {
		return fmt.Errorf("deleting inventory photo: %w", err)
	}
	return nil
}
