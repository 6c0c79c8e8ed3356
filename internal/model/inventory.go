package model

import "time"

// InventoryItem is a stocked item available for distribution.
type InventoryItem struct {
	ID          int64     `json:"id"`
	Name        string    `json:"item_name"`
	Category    string    `json:"category"`
	Quantity    int64     `json:"quantity"`
	Size        string    `json:"size"`
	LastUpdated time.Time `json:"last_updated"`
	HasPhoto    bool      `json:"has_photo"`
}
