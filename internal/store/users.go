package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/SilverCoyote012/IngieneriaSoftwareProyecto/internal/db"
	"github.com/SilverCoyote012/IngieneriaSoftwareProyecto/internal/model"
)

const accountColumns = `id, username, email, password, role, created_at`

func scanAccount(row rowScanner) (*model.Account, error) {
	a := &model.Account{}
	if err := row.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.Role, timestamp{&a.CreatedAt}); err != nil {
		return nil, err
	}
	return a, nil
}

// CreateAccount inserts a new account. It returns ErrDuplicate when the
// username or email is taken.
func (s *Store) CreateAccount(ctx context.Context, username, email, passwordHash string, role model.Role) (*model.Account, error) {
	now := s.now()
	id, err := s.insert(ctx,
		`INSERT INTO users (username, email, password, role, created_at) VALUES (?, ?, ?, ?, ?)`,
		username, email, passwordHash, string(role), now,
	)
	if err != nil {
		return nil, fmt.Errorf("creating account: %w", err)
	}

	return &model.Account{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    now,
	}, nil
}

// GetAccount returns an account by ID.
func (s *Store) GetAccount(ctx context.Context, id int64) (*model.Account, error) {
	a, err := scanAccount(s.queryRow(ctx, `SELECT `+accountColumns+` FROM users WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting account: %w", err)
	}
	return a, nil
}

// GetAccountByUsername returns an account by username.
func (s *Store) GetAccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	a, err := scanAccount(s.queryRow(ctx, `SELECT `+accountColumns+` FROM users WHERE username = ?`, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting account by username: %w", err)
	}
	return a, nil
}

// AccountExists reports whether an account already uses username or email.
func (s *Store) AccountExists(ctx context.Context, username, email string) (bool, error) {
	var count int
	err := s.queryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE username = ? OR email = ?`, username, email,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking account: %w", err)
	}
	return count > 0, nil
}

// CountAdmins returns the number of admin accounts.
func (s *Store) CountAdmins(ctx context.Context) (int, error) {
	var count int
	err := s.queryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = ?`, string(model.RoleAdmin)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting admins: %w", err)
	}
	return count, nil
}

// ListAccounts returns all accounts, newest first.
func (s *Store) ListAccounts(ctx context.Context) ([]model.Account, error) {
	rows, err := s.query(ctx, `SELECT `+accountColumns+` FROM users ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}
		accounts = append(accounts, *a)
	}
	return accounts, rows.Err()
}

// UpdateAccount sets an account's username and email, and its role when role
// is non-nil.
func (s *Store) UpdateAccount(ctx context.Context, id int64, username, email string, role *model.Role) (*model.Account, error) {
	var roleArg any
	if role != nil {
		roleArg = string(*role)
	}

	a, err := scanAccount(s.queryRow(ctx,
		`UPDATE users SET username = ?, email = ?, role = COALESCE(?, role)
		 WHERE id = ? RETURNING `+accountColumns,
		username, email, roleArg, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if db.IsUniqueViolation(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("updating account: %w", err)
	}
	return a, nil
}

// UpdateAccountPassword replaces an account's password hash.
func (s *Store) UpdateAccountPassword(ctx context.Context, id int64, passwordHash string) error {
	res, err := s.exec(ctx, `UPDATE users SET password = ? WHERE id = ?`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("updating account password: %w", err)
	}
	return expectAffected(res)
}

// DeleteAccount removes an account together with its donations and requests.
func (s *Store) DeleteAccount(ctx context.Context, id int64) error {
	if err := s.deleteByID(ctx, "users", id); err != nil {
		return fmt.Errorf("deleting account: %w", err)
	}
	return nil
}
