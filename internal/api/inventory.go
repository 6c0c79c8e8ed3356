package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SilverCoyote012/IngieneriaSoftwareProyecto/internal/metrics"
	"github.com/SilverCoyote012/IngieneriaSoftwareProyecto/internal/model"
	"github.com/SilverCoyote012/IngieneriaSoftwareProyecto/internal/photos"
	"github.com/SilverCoyote012/IngieneriaSoftwareProyecto/internal/store"
)

// InventoryHandler handles inventory items and their photos.
type InventoryHandler struct {
	responder
	Store   *store.Store
	Photos  photos.Storage
	Metrics *metrics.Metrics
}

type inventoryRequest struct {
	Name     string `json:"item_name" validate:"required"`
	Category string `json:"category" validate:"required"`
	Quantity *int64 `json:"quantity" validate:"omitempty,gte=0"`
	Size     string `json:"size"`
}

var inventoryMessages = messages{
	"item_name": "Item name and category are required",
	"category":  "Item name and category are required",
	"quantity":  "Quantity cannot be negative",
}

func (h *InventoryHandler) decodeItem(w http.ResponseWriter, r *http.Request) (inventoryRequest, error) {
	var req inventoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return req, err
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Category = strings.TrimSpace(req.Category)
	return req, check(&req, inventoryMessages)
}

// List handles GET /api/inventory.
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Store.ListInventory(r.Context())
	if err != nil {
		h.fail(w, r, errInternal("Error fetching inventory", err))
		return
	}
	if items == nil {
		items = []model.InventoryItem{}
	}
	jsonResponse(w, http.StatusOK, map[string]any{"inventory": items})
}

// Get handles GET /api/inventory/{id}.
func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	item, err := h.Store.GetInventoryItem(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		h.fail(w, r, errNotFound("Item not found"))
		return
	}
	if err != nil {
		h.fail(w, r, errInternal("Error fetching item", err))
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"item": item})
}

// Create handles POST /api/inventory.
func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodeItem(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	item := model.InventoryItem{Name: req.Name, Category: req.Category, Size: req.Size}
	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}

	created, err := h.Store.CreateInventoryItem(r.Context(), item)
	if err != nil {
		h.fail(w, r, errInternal("Error creating item", err))
		return
	}

	caller, _ := IdentityFrom(r.Context())
	slog.Info("inventory item created", "user", caller.Username, "item", created.Name, "quantity", created.Quantity)
	h.Metrics.Record("inventory_created")
	jsonResponse(w, http.StatusCreated, map[string]any{
		"message": "Item created successfully",
		"item":    created,
	})
}

// Update handles PUT /api/inventory/{id}. An omitted quantity keeps the
// stored one.
func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	req, err := h.decodeItem(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	updated, err := h.Store.UpdateInventoryItem(r.Context(), id, req.Name, req.Category, req.Size, req.Quantity)
	if errors.Is(err, store.ErrNotFound) {
		h.fail(w, r, errNotFound("Item not found"))
		return
	}
	if err != nil {
		h.fail(w, r, errInternal("Error updating item", err))
		return
	}

	caller, _ := IdentityFrom(r.Context())
	slog.Info("inventory item updated", "user", caller.Username, "item", updated.Name, "quantity", updated.Quantity)
	jsonResponse(w, http.StatusOK, map[string]any{
		"message": "Item updated successfully",
		"item":    updated,
	})
}

// Delete handles DELETE /api/inventory/{id}.
func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	err = h.Store.DeleteInventoryItem(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		h.fail(w, r, errNotFound("Item not found"))
		return
	}
	if err != nil {
		h.fail(w, r, errInternal("Error deleting item", err))
		return
	}

	// The database photo row cascades; external storage needs an explicit delete.
	if err := h.Photos.Delete(r.Context(), id); err != nil {
		slog.Error("failed to delete photo of removed item", "id", id, "error", err)
	}

	caller, _ := IdentityFrom(r.Context())
	slog.Info("inventory item deleted", "user", caller.Username, "id", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "Item deleted successfully"})
}
