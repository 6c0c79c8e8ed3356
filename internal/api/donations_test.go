package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SilverCoyote012/IngieneriaSoftwareProyecto/internal/model"
)

func TestDonationsReceived(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.admin(t)
	_, aliceToken := env.account(t, "alice", "secret1", model.RoleUser)

	status, body := env.do(t, http.MethodPost, "/api/donations/received", aliceToken, map[string]any{
		"amount": 500, "description": "monthly",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Donation recorded successfully", body["message"])
	donation := body["donation"].(map[string]any)
	assert.Equal(t, float64(500), donation["amount"])
	id := int64(donation["id"].(float64))

	status, body = env.do(t, http.MethodGet, "/api/donations/received", aliceToken, nil)
	require.Equal(t, http.StatusOK, status)
	list := body["donations"].([]any)
	require.Len(t, list, 1)
	assert.Equal(t, "alice", list[0].(map[string]any)["username"])

	status, body = env.do(t, http.MethodDelete, "/api/donations/received/"+itoa(id), aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Admin access required", body["error"])

	status, body = env.do(t, http.MethodDelete, "/api/donations/received/"+itoa(id), adminToken, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Donation deleted successfully", body["message"])

	status, body = env.do(t, http.MethodDelete, "/api/donations/received/"+itoa(id), adminToken, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Donation not found", body["error"])
}

func TestDonationAmountMustBePositive(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.account(t, "alice", "secret1", model.RoleUser)

	for _, payload := range []map[string]any{
		{"amount": 0},
		{"amount": -10},
		{"description": "no amount"},
		{"amount": "lots"},
	} {
		status, body := env.do(t, http.MethodPost, "/api/donations/received", token, payload)
		assert.Equal(t, http.StatusBadRequest, status, "%v", payload)
		assert.Equal(t, "Valid amount is required", body["error"])
	}

	donations, err := env.store.ListDonations(context.Background())
	require.NoError(t, err)
	assert.Empty(t, donations)
}

func TestDonationListEmptyIsArray(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.account(t, "alice", "secret1", model.RoleUser)

	status, body := env.do(t, http.MethodGet, "/api/donations/received", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []any{}, body["donations"])
}

func TestDonationRequests(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.admin(t)
	_, aliceToken := env.account(t, "alice", "secret1", model.RoleUser)

	status, body := env.do(t, http.MethodPost, "/api/donations/requests", aliceToken, map[string]any{
		"item_type": "jacket", "quantity": 2, "reason": "winter",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Donation request created successfully", body["message"])
	request := body["request"].(map[string]any)
	assert.Equal(t, "pending", request["status"])
	id := int64(request["id"].(float64))

	status, body = env.do(t, http.MethodPost, "/api/donations/requests", aliceToken, map[string]any{
		"item_type": "jacket", "quantity": 0,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Item type and valid quantity are required", body["error"])

	status, body = env.do(t, http.MethodPost, "/api/donations/requests", aliceToken, map[string]any{"quantity": 3})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Item type and valid quantity are required", body["error"])

	status, body = env.do(t, http.MethodGet, "/api/donations/requests", aliceToken, nil)
	require.Equal(t, http.StatusOK, status)
	list := body["requests"].([]any)
	require.Len(t, list, 1)
	assert.Equal(t, "alice", list[0].(map[string]any)["username"])

	status, _ = env.do(t, http.MethodPatch, "/api/donations/requests/"+itoa(id), aliceToken, map[string]string{"status": "approved"})
	assert.Equal(t, http.StatusForbidden, status)

	status, body = env.do(t, http.MethodPatch, "/api/donations/requests/"+itoa(id), adminToken, map[string]string{"status": "approved"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Request updated successfully", body["message"])
	assert.Equal(t, "approved", body["request"].(map[string]any)["status"])

	status, _ = env.do(t, http.MethodPatch, "/api/donations/requests/999", adminToken, map[string]string{"status": "rejected"})
	assert.Equal(t, http.StatusNotFound, status)

	status, body = env.do(t, http.MethodDelete, "/api/donations/requests/"+itoa(id), adminToken, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Request deleted successfully", body["message"])

	status, body = env.do(t, http.MethodDelete, "/api/donations/requests/"+itoa(id), adminToken, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Request not found", body["error"])
}

func TestInvalidStatusLeavesRequestUnchanged(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.admin(t)
	alice, _ := env.account(t, "alice", "secret1", model.RoleUser)

	r, err := env.store.CreateRequest(context.Background(), alice.ID, "blanket", 1, "")
	require.NoError(t, err)

	for _, s := range []string{"done", "", "APPROVED"} {
		status, body := env.do(t, http.MethodPatch, "/api/donations/requests/"+itoa(r.ID), adminToken, map[string]string{"status": s})
		assert.Equal(t, http.StatusBadRequest, status, s)
		assert.Equal(t, "Invalid status", body["error"])
	}

	list, err := env.store.ListRequests(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, r.ID, list[0].ID)
	assert.Equal(t, model.StatusPending, list[0].Status)
}
