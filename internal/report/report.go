// Package report renders the donation ledger as an XLSX workbook.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/SilverCoyote012/IngieneriaSoftwareProyecto/internal/model"
)

// Sheet names, in workbook order.
const (
	SheetDonations = "Donations"
	SheetRequests  = "Requests"
	SheetInventory = "Inventory"
)

const dateLayout = "2006-01-02 15:04:05"

// Data is everything that goes into a report.
type Data struct {
	Donations []model.DonationReceived
	Requests  []model.DonationRequest
	Inventory []model.InventoryItem
}

// Write renders data as a workbook with one sheet per record type and a
// header row on each.
func Write(w io.Writer, data Data) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), SheetDonations); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	for _, name := range []string{SheetRequests, SheetInventory} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("creating sheet %s: %w", name, err)
		}
	}

	donations := make([][]any, 0, len(data.Donations))
	for _, d := range data.Donations {
		donations = append(donations, []any{d.ID, d.Username, d.Amount, d.Description, formatDate(d.Date)})
	}
	if err := writeSheet(f, SheetDonations,
		[]any{"id", "username", "amount", "description", "date"}, donations); err != nil {
		return err
	}

	requests := make([][]any, 0, len(data.Requests))
	for _, r := range data.Requests {
		requests = append(requests, []any{r.ID, r.Username, r.ItemType, r.Quantity, r.Reason, string(r.Status), formatDate(r.Date)})
	}
	if err := writeSheet(f, SheetRequests,
		[]any{"id", "username", "item_type", "quantity", "reason", "status", "date"}, requests); err != nil {
		return err
	}

	inventory := make([][]any, 0, len(data.Inventory))
	for _, item := range data.Inventory {
		inventory = append(inventory, []any{item.ID, item.Name, item.Category, item.Quantity, item.Size, formatDate(item.LastUpdated)})
	}
	if err := writeSheet(f, SheetInventory,
		[]any{"id", "item_name", "category", "quantity", "size", "last_updated"}, inventory); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, header []any, rows [][]any) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing %s header: %w", sheet, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateLayout)
}
