package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/spf13/cobra"

	"github.com/SilverCoyote012/IngieneriaSoftwareProyecto/internal/auth"
	"github.com/SilverCoyote012/IngieneriaSoftwareProyecto/internal/model"
	"github.com/SilverCoyote012/IngieneriaSoftwareProyecto/internal/store"
)

func createAdminCmd() *cobra.Command {
	var username, email string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account with a random password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, database, cleanup, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if username == "" {
				username = cfg.Admin.Username
			}
			if email == "" {
				email = cfg.Admin.Email
			}

			password, err := createAdmin(cmd.Context(), store.New(database), username, email)
			if err != nil {
				return err
			}
			printAdminResult(cmd.OutOrStdout(), username, email, password)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "admin username (default: admin.username)")
	cmd.Flags().StringVarP(&email, "email", "e", "", "admin email (default: admin.email)")
	return cmd
}

// seedAdmin creates the configured admin account when no admin exists yet.
// It returns the generated password, or "" when nothing was created.
func seedAdmin(ctx context.Context, st *store.Store, username, email string) (string, error) {
	n, err := st.CountAdmins(ctx)
	if err != nil {
		return "", fmt.Errorf("counting admins: %w", err)
	}
	if n > 0 {
		return "", nil
	}
	return createAdmin(ctx, st, username, email)
}

func createAdmin(ctx context.Context, st *store.Store, username, email string) (string, error) {
	password, err := generatePassword(16)
	if err != nil {
		return "", fmt.Errorf("generating password: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}

	if _, err := st.CreateAccount(ctx, username, email, hash, model.RoleAdmin); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return "", fmt.Errorf("account %q or email %q already exists", username, email)
		}
		return "", fmt.Errorf("creating admin account: %w", err)
	}
	return password, nil
}

// printAdminResult prints the new admin's credentials.
func printAdminResult(w io.Writer, username, email, password string) {
	fmt.Fprintln(w, "Admin account created:")
	fmt.Fprintf(w, "  Username: %s\n", username)
	fmt.Fprintf(w, "  Email:    %s\n", email)
	fmt.Fprintf(w, "  Password: %s\n", password)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Save this password, it cannot be recovered.")
	fmt.Fprintln(w, "The admin can change it after logging in.")
}

// generatePassword creates a random password of the given length.
func generatePassword(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%&*"
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		result[i] = charset[n.Int64()]
	}
	return string(result), nil
}
