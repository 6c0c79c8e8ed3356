package api

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/SilverCoyote012/IngieneriaSoftwareProyecto/internal/report"
	"github.com/SilverCoyote012/IngieneriaSoftwareProyecto/internal/store"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportsHandler exports the donation ledger.
type ReportsHandler struct {
	responder
	Store *store.Store
}

// Donations handles GET /api/reports/donations.xlsx.
func (h *ReportsHandler) Donations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		data report.Data
		err  error
	)
	if data.Donations, err = h.Store.ListDonations(ctx); err != nil {
		h.fail(w, r, errInternal("Error generating report", err))
		return
	}
	if data.Requests, err = h.Store.ListRequests(ctx); err != nil {
		h.fail(w, r, errInternal("Error generating report", err))
		return
	}
	if data.Inventory, err = h.Store.ListInventory(ctx); err != nil {
		h.fail(w, r, errInternal("Error generating report", err))
		return
	}

	var buf bytes.Buffer
	if err := report.Write(&buf, data); err != nil {
		h.fail(w, r, errInternal("Error generating report", err))
		return
	}

	caller, _ := IdentityFrom(ctx)
	slog.Info("report exported", "user", caller.Username,
		"donations", len(data.Donations), "requests", len(data.Requests), "inventory", len(data.Inventory))

	name := fmt.Sprintf("donaciones-%s.xlsx", time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", xlsxMIME)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())
}
