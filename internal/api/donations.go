package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SilverCoyote012/IngieneriaSoftwareProyecto/internal/metrics"
	"github.com/SilverCoyote012/IngieneriaSoftwareProyecto/internal/model"
	"github.com/SilverCoyote012/IngieneriaSoftwareProyecto/internal/store"
)

// DonationsHandler handles donations received and donation requests.
type DonationsHandler struct {
	responder
	Store   *store.Store
	Metrics *metrics.Metrics
}

type createDonationRequest struct {
	Amount      int64  `json:"amount" validate:"gt=0"`
	Description string `json:"description"`
}

var createDonationMessages = messages{
	"amount": "Valid amount is required",
}

type createRequestRequest struct {
	ItemType string `json:"item_type" validate:"required"`
	Quantity int64  `json:"quantity" validate:"gt=0"`
	Reason   string `json:"reason"`
}

var createRequestMessages = messages{
	"item_type": "Item type and valid quantity are required",
	"quantity":  "Item type and valid quantity are required",
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved rejected"`
}

var updateStatusMessages = messages{
	"status": "Invalid status",
}

// CreateDonation handles POST /api/donations/received.
func (h *DonationsHandler) CreateDonation(w http.ResponseWriter, r *http.Request) {
	caller, _ := IdentityFrom(r.Context())

	var req createDonationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, errValidation("Valid amount is required"))
		return
	}
	if err := check(&req, createDonationMessages); err != nil {
		h.fail(w, r, err)
		return
	}

	donation, err := h.Store.CreateDonation(r.Context(), caller.ID, req.Amount, req.Description)
	if err != nil {
		h.fail(w, r, errInternal("Error recording donation", err))
		return
	}

	slog.Info("donation recorded", "user", caller.Username, "amount", donation.Amount)
	h.Metrics.Record("donation_created")
	jsonResponse(w, http.StatusCreated, map[string]any{
		"message":  "Donation recorded successfully",
		"donation": donation,
	})
}

// ListDonations handles GET /api/donations/received.
func (h *DonationsHandler) ListDonations(w http.ResponseWriter, r *http.Request) {
	donations, err := h.Store.ListDonations(r.Context())
	if err != nil {
		h.fail(w, r, errInternal("Error fetching donations", err))
		return
	}
	if donations == nil {
		donations = []model.DonationReceived{}
	}
	jsonResponse(w, http.StatusOK, map[string]any{"donations": donations})
}

// DeleteDonation handles DELETE /api/donations/received/{id}.
func (h *DonationsHandler) DeleteDonation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	err = h.Store.DeleteDonation(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		h.fail(w, r, errNotFound("Donation not found"))
		return
	}
	if err != nil {
		h.fail(w, r, errInternal("Error deleting donation", err))
		return
	}

	caller, _ := IdentityFrom(r.Context())
	slog.Info("donation deleted", "user", caller.Username, "id", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "Donation deleted successfully"})
}

// CreateRequest handles POST /api/donations/requests.
func (h *DonationsHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	caller, _ := IdentityFrom(r.Context())

	var req createRequestRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, errValidation("Item type and valid quantity are required"))
		return
	}
	if err := check(&req, createRequestMessages); err != nil {
		h.fail(w, r, err)
		return
	}

	request, err := h.Store.CreateRequest(r.Context(), caller.ID, req.ItemType, req.Quantity, req.Reason)
	if err != nil {
		h.fail(w, r, errInternal("Error creating donation request", err))
		return
	}

	slog.Info("donation request created", "user", caller.Username, "item_type", request.ItemType, "quantity", request.Quantity)
	h.Metrics.Record("request_created")
	jsonResponse(w, http.StatusCreated, map[string]any{
		"message": "Donation request created successfully",
		"request": request,
	})
}

// ListRequests handles GET /api/donations/requests.
func (h *DonationsHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.Store.ListRequests(r.Context())
	if err != nil {
		h.fail(w, r, errInternal("Error fetching donation requests", err))
		return
	}
	if requests == nil {
		requests = []model.DonationRequest{}
	}
	jsonResponse(w, http.StatusOK, map[string]any{"requests": requests})
}

// UpdateRequestStatus handles PATCH /api/donations/requests/{id}.
func (h *DonationsHandler) UpdateRequestStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req updateStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, errValidation("Invalid status"))
		return
	}
	if err := check(&req, updateStatusMessages); err != nil {
		h.fail(w, r, err)
		return
	}
	status, err := model.ParseRequestStatus(req.Status)
	if err != nil {
		h.fail(w, r, errValidation("Invalid status"))
		return
	}

	request, err := h.Store.UpdateRequestStatus(r.Context(), id, status)
	if errors.Is(err, store.ErrNotFound) {
		h.fail(w, r, errNotFound("Request not found"))
		return
	}
	if err != nil {
		h.fail(w, r, errInternal("Error updating request", err))
		return
	}

	caller, _ := IdentityFrom(r.Context())
	slog.Info("donation request reviewed", "user", caller.Username, "id", id, "status", status)
	h.Metrics.Record("request_" + string(status))
	jsonResponse(w, http.StatusOK, map[string]any{
		"message": "Request updated successfully",
		"request": request,
	})
}

// DeleteRequest handles DELETE /api/donations/requests/{id}.
func (h *DonationsHandler) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	err = h.Store.DeleteRequest(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		h.fail(w, r, errNotFound("Request not found"))
		return
	}
	if err != nil {
		h.fail(w, r, errInternal("Error deleting request", err))
		return
	}

	caller, _ := IdentityFrom(r.Context())
	slog.Info("donation request deleted", "user", caller.Username, "id", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "Request deleted successfully"})
}
