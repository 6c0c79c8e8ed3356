package store

import (
	"context"
	"fmt"

	"github.com/SilverCoyote012/IngieneriaSoftwareProyecto/internal/model"
)

// CreateDonation records a donation made by userID.
func (s *Store) CreateDonation(ctx context.Context, userID, amount int64, description string) (*model.DonationReceived, error) {
	now := s.now()
	id, err := s.insert(ctx,
		`INSERT INTO donations_received (user_id, amount, description, date) VALUES (?, ?, ?, ?)`,
		userID, amount, description, now,
	)
	if err != nil {
		return nil, fmt.Errorf("creating donation: %w", err)
	}

	return &model.DonationReceived{
		ID:          id,
		UserID:      userID,
		Amount:      amount,
		Description: description,
		Date:        now,
	}, nil
}

// ListDonations returns all donations with the donor's username, newest first.
func (s *Store) ListDonations(ctx context.Context) ([]model.DonationReceived, error) {
	rows, err := s.query(ctx,
		`SELECT d.id, d.user_id, d.amount, d.description, d.date, u.username
		 FROM donations_received d
		 JOIN users u ON d.user_id = u.id
		 ORDER BY d.date DESC, d.id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing donations: %w", err)
	}
	defer rows.Close()

	var donations []model.DonationReceived
	for rows.Next() {
		var d model.DonationReceived
		if err := rows.Scan(&d.ID, &d.UserID, &d.Amount, &d.Description, timestamp{&d.Date}, &d.Username); err != nil {
			return nil, fmt.Errorf("scanning donation: %w", err)
		}
		donations = append(donations, d)
	}
	return donations, rows.Err()
}

// DeleteDonation removes a donation.
func (s *Store) DeleteDonation(ctx context.Context, id int64) error {
	if err := s.deleteByID(ctx, "donations_received", id); err != nil {
		return fmt.Errorf("deleting donation: %w", err)
	}
	return nil
}
