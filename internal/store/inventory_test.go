package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SilverCoyote012/IngieneriaSoftwareProyecto/internal/model"
)

func TestInventory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	shirt, err := s.CreateInventoryItem(ctx, model.InventoryItem{Name: "Shirt", Category: "clothes", Quantity: 10, Size: "M"})
	require.NoError(t, err)
	assert.NotZero(t, shirt.ID)
	assert.False(t, shirt.HasPhoto)

	_, err = s.CreateInventoryItem(ctx, model.InventoryItem{Name: "Apple", Category: "food", Quantity: 3})
	require.NoError(t, err)
	_, err = s.CreateInventoryItem(ctx, model.InventoryItem{Name: "Coat", Category: "clothes"})
	require.NoError(t, err)

	list, err := s.ListInventory(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"Coat", "Shirt", "Apple"},
		[]string{list[0].Name, list[1].Name, list[2].Name})

	four := int64(4)
	updated, err := s.UpdateInventoryItem(ctx, shirt.ID, "Shirt", "clothes", "L", &four)
	require.NoError(t, err)
	assert.Equal(t, int64(4), updated.Quantity)
	assert.Equal(t, "L", updated.Size)
	assert.True(t, updated.LastUpdated.After(shirt.LastUpdated))

	// Nil quantity keeps the stored value.
	updated, err = s.UpdateInventoryItem(ctx, shirt.ID, "T-shirt", "clothes", "M", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(4), updated.Quantity)
	assert.Equal(t, "T-shirt", updated.Name)

	_, err = s.UpdateInventoryItem(ctx, 999, "x", "y", "", nil)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.DeleteInventoryItem(ctx, shirt.ID))
	_, err = s.GetInventoryItem(ctx, shirt.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteInventoryItem(ctx, shirt.ID), ErrNotFound)
}

func TestInventoryRejectsNegativeQuantity(t *testing.T) {
	s := newTestStore(t)

	_, err := s.CreateInventoryItem(context.Background(), model.InventoryItem{Name: "x", Category: "y", Quantity: -1})
	assert.Error(t, err)
}

func TestInventoryPhotos(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	item, err := s.CreateInventoryItem(ctx, model.InventoryItem{Name: "Shirt", Category: "clothes"})
	require.NoError(t, err)

	_, _, err = s.GetInventoryPhoto(ctx, item.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.PutInventoryPhoto(ctx, item.ID, []byte("one"), "image/jpeg"))
	require.NoError(t, s.PutInventoryPhoto(ctx, item.ID, []byte("two"), "image/png"))
	require.NoError(t, s.SetInventoryPhotoFlag(ctx, item.ID, true))

	data, mime, err := s.GetInventoryPhoto(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), data)
	assert.Equal(t, "image/png", mime)

	got, err := s.GetInventoryItem(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, got.HasPhoto)

	assert.ErrorIs(t, s.SetInventoryPhotoFlag(ctx, 999, true), ErrNotFound)

	// Deleting the item drops its photo.
	require.NoError(t, s.DeleteInventoryItem(ctx, item.ID))
	_, _, err = s.GetInventoryPhoto(ctx, item.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, s.DeleteInventoryPhoto(ctx, item.ID))
}
