package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/SilverCoyote012/IngieneriaSoftwareProyecto/internal/model"
)

const requestColumns = `id, user_id, item_type, quantity, reason, status, date`

func scanRequest(row rowScanner, extra ...any) (*model.DonationRequest, error) {
	r := &model.DonationRequest{}
	dest := append([]any{&r.ID, &r.UserID, &r.ItemType, &r.Quantity, &r.Reason, &r.Status, timestamp{&r.Date}}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return r, nil
}

// CreateRequest records a pending request for items by userID.
func (s *Store) CreateRequest(ctx context.Context, userID int64, itemType string, quantity int64, reason string) (*model.DonationRequest, error) {
	now := s.now()
	id, err := s.insert(ctx,
		`INSERT INTO donation_requests (user_id, item_type, quantity, reason, status, date) VALUES (?, ?, ?, ?, ?, ?)`,
		userID, itemType, quantity, reason, string(model.StatusPending), now,
	)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	return &model.DonationRequest{
		ID:       id,
		UserID:   userID,
		ItemType: itemType,
		Quantity: quantity,
		Reason:   reason,
		Status:   model.StatusPending,
		Date:     now,
	}, nil
}

// ListRequests returns all requests with the requester's username, newest first.
func (s *Store) ListRequests(ctx context.Context) ([]model.DonationRequest, error) {
	rows, err := s.query(ctx,
		`SELECT r.id, r.user_id, r.item_type, r.quantity, r.reason, r.status, r.date, u.username
		 FROM donation_requests r
		 JOIN users u ON r.user_id = u.id
		 ORDER BY r.date DESC, r.id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing requests: %w", err)
	}
	defer rows.Close()

	var requests []model.DonationRequest
	for rows.Next() {
		var username string
		r, err := scanRequest(rows, &username)
		if err != nil {
			return nil, fmt.Errorf("scanning request: %w", err)
		}
		r.Username = username
		requests = append(requests, *r)
	}
	return requests, rows.Err()
}

// UpdateRequestStatus sets the review status of a request.
func (s *Store) UpdateRequestStatus(ctx context.Context, id int64, status model.RequestStatus) (*model.DonationRequest, error) {
	r, err := scanRequest(s.queryRow(ctx,
		`UPDATE donation_requests SET status = ? WHERE id = ? RETURNING `+requestColumns,
		string(status), id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("updating request status: %w", err)
	}
	return r, nil
}

// DeleteRequest removes a request.
func (s *Store) DeleteRequest(ctx context.Context, id int64) error {
	if err := s.deleteByID(ctx, "donation_requests", id); err != nil {
		return fmt.Errorf("deleting request: %w", err)
	}
	return nil
}
