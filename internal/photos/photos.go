// Package photos stores normalised inventory photos either in the database or
// in an S3-compatible bucket.
package photos

import (
	"context"
	"errors"
	"fmt"

	"github.com/SilverCoyote012/IngieneriaSoftwareProyecto/internal/store"
)

// ErrNotFound is returned when an item has no stored photo.
var ErrNotFound = errors.New("photo not found")

// Storage keeps at most one photo per inventory item.
type Storage interface {
	Put(ctx context.Context, itemID int64, data []byte, mime string) error
	Get(ctx context.Context, itemID int64) (data []byte, mime string, err error)
	Delete(ctx context.Context, itemID int64) error
}

// DBStore is the subset of *store.Store used by DBStorage.
type DBStore interface {
	PutInventoryPhoto(ctx context.Context, itemID int64, data []byte, mime string) error
	GetInventoryPhoto(ctx context.Context, itemID int64) ([]byte, string, error)
	DeleteInventoryPhoto(ctx context.Context, itemID int64) error
}

// DBStorage keeps photos in the inventory_photos table.
type DBStorage struct {
	store DBStore
}

// NewDBStorage returns a Storage backed by the service database.
func NewDBStorage(s DBStore) *DBStorage {
	return &DBStorage{store: s}
}

func (d *DBStorage) Put(ctx context.Context, itemID int64, data []byte, mime string) error {
	return d.store.PutInventoryPhoto(ctx, itemID, data, mime)
}

func (d *DBStorage) Get(ctx context.Context, itemID int64) ([]byte, string, error) {
	data, mime, err := d.store.GetInventoryPhoto(ctx, itemID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("photos/db: %w", err)
	}
	return data, mime, nil
}

func (d *DBStorage) Delete(ctx context.Context, itemID int64) error {
	return d.store.DeleteInventoryPhoto(ctx, itemID)
}
