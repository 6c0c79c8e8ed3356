package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SilverCoyote012/IngieneriaSoftwareProyecto/internal/model"
)

func TestDonations(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustAccount(t, s, "alice", model.RoleUser)
	bob := mustAccount(t, s, "bob", model.RoleUser)

	first, err := s.CreateDonation(ctx, alice.ID, 500, "monthly")
	require.NoError(t, err)
	assert.Equal(t, int64(500), first.Amount)
	assert.Equal(t, "monthly", first.Description)
	assert.Empty(t, first.Username)

	second, err := s.CreateDonation(ctx, bob.ID, 20, "")
	require.NoError(t, err)

	list, err := s.ListDonations(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, "bob", list[0].Username)
	assert.Equal(t, first.ID, list[1].ID)
	assert.Equal(t, "alice", list[1].Username)
	assert.True(t, first.Date.Equal(list[1].Date))

	require.NoError(t, s.DeleteDonation(ctx, first.ID))
	assert.ErrorIs(t, s.DeleteDonation(ctx, first.ID), ErrNotFound)

	list, err = s.ListDonations(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCreateDonationRejectsNonPositiveAmount(t *testing.T) {
	s := newTestStore(t)
	alice := mustAccount(t, s, "alice", model.RoleUser)

	_, err := s.CreateDonation(context.Background(), alice.ID, 0, "")
	assert.Error(t, err)
}

func TestCreateDonationUnknownUser(t *testing.T) {
	s := newTestStore(t)

	_, err := s.CreateDonation(context.Background(), 42, 10, "")
	assert.Error(t, err)
}
