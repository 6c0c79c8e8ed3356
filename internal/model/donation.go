package model

import (
	"fmt"
	"time"
)

// DonationReceived is a donation an account reports having made.
type DonationReceived struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Amount      int64     `json:"amount"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`

	// Joined field (only populated by listings).
	Username string `json:"username,omitempty"`
}

// DonationRequest is a request for items submitted by an account.
type DonationRequest struct {
	ID       int64         `json:"id"`
	UserID   int64         `json:"user_id"`
	ItemType string        `json:"item_type"`
	Quantity int64         `json:"quantity"`
	Reason   string        `json:"reason"`
	Status   RequestStatus `json:"status"`
	Date     time.Time     `json:"date"`

	// Joined field (only populated by listings).
	Username string `json:"username,omitempty"`
}

// RequestStatus is the review state of a donation request.
type RequestStatus string

// Request statuses.
const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

// ParseRequestStatus converts s to a RequestStatus.
func ParseRequestStatus(s string) (RequestStatus, error) {
	st := RequestStatus(s)
	switch st {
	case StatusPending, StatusApproved, StatusRejected:
		return st, nil
	default:
		return "", fmt.Errorf("invalid status %q", s)
	}
}
