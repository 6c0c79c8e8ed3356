package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/SilverCoyote012/IngieneriaSoftwareProyecto/internal/model"
)

const inventoryColumns = `id, item_name, category, quantity, size, last_updated, has_photo`

func scanInventoryItem(row rowScanner) (*model.InventoryItem, error) {
	item := &model.InventoryItem{}
	err := row.Scan(&item.ID, &item.Name, &item.Category, &item.Quantity, &item.Size,
		timestamp{&item.LastUpdated}, &item.HasPhoto)
	if err != nil {
		return nil, err
	}
	return item, nil
}

// CreateInventoryItem inserts a new inventory item.
func (s *Store) CreateInventoryItem(ctx context.Context, item model.InventoryItem) (*model.InventoryItem, error) {
	now := s.now()
	id, err := s.insert(ctx,
		`INSERT INTO inventory (item_name, category, quantity, size, last_updated) VALUES (?, ?, ?, ?, ?)`,
		item.Name, item.Category, item.Quantity, item.Size, now,
	)
	if err != nil {
		return nil, fmt.Errorf("creating inventory item: %w", err)
	}

	item.ID = id
	item.LastUpdated = now
	item.HasPhoto = false
	return &item, nil
}

// GetInventoryItem returns an inventory item by ID.
func (s *Store) GetInventoryItem(ctx context.Context, id int64) (*model.InventoryItem, error) {
	item, err := scanInventoryItem(s.queryRow(ctx, `SELECT `+inventoryColumns+` FROM inventory WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting inventory item: %w", err)
	}
	return item, nil
}

// ListInventory returns all inventory items ordered by category and name.
func (s *Store) ListInventory(ctx context.Context) ([]model.InventoryItem, error) {
	rows, err := s.query(ctx, `SELECT `+inventoryColumns+` FROM inventory ORDER BY category, item_name, id`)
	if err != nil {
		return nil, fmt.Errorf("listing inventory: %w", err)
	}
	defer rows.Close()

	var items []model.InventoryItem
	for rows.Next() {
		item, err := scanInventoryItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning inventory item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// UpdateInventoryItem sets an item's name, category and size, and its
// quantity when quantity is non-nil. last_updated is bumped.
func (s *Store) UpdateInventoryItem(ctx context.Context, id int64, name, category, size string, quantity *int64) (*model.InventoryItem, error) {
	var quantityArg any
	if quantity != nil {
		quantityArg = *quantity
	}

	updated, err := scanInventoryItem(s.queryRow(ctx,
		`UPDATE inventory SET item_name = ?, category = ?, quantity = COALESCE(?, quantity), size = ?, last_updated = ?
		 WHERE id = ? RETURNING `+inventoryColumns,
		name, category, quantityArg, size, s.now(), id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("updating inventory item: %w", err)
	}
	return updated, nil
}

// SetInventoryPhotoFlag records whether an item has a stored photo.
func (s *Store) SetInventoryPhotoFlag(ctx context.Context, id int64, hasPhoto bool) error {
	res, err := s.exec(ctx, `UPDATE inventory SET has_photo = ? WHERE id = ?`, hasPhoto, id)
	if err != nil {
		return fmt.Errorf("setting inventory photo flag: %w", err)
	}
	return expectAffected(res)
}

// DeleteInventoryItem removes an inventory item and its stored photo row.
func (s *Store) DeleteInventoryItem(ctx context.Context, id int64) error {
	if err := s.deleteByID(ctx, "inventory", id); err != nil {
		return fmt.Errorf("deleting inventory item: %w", err)
	}
	return nil
}
