package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/SilverCoyote012/IngieneriaSoftwareProyecto/internal/model"
)

func TestWrite(t *testing.T) {
	when := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	data := Data{
		Donations: []model.DonationReceived{
			{ID: 2, Username: "bob", Amount: 20, Date: when},
			{ID: 1, Username: "alice", Amount: 500, Description: "monthly", Date: when},
		},
		Requests: []model.DonationRequest{
			{ID: 1, Username: "alice", ItemType: "jacket", Quantity: 2, Reason: "winter", Status: model.StatusApproved, Date: when},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, data))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetDonations, SheetRequests, SheetInventory}, f.GetSheetList())

	rows, err := f.GetRows(SheetDonations)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"id", "username", "amount", "description", "date"}, rows[0])
	assert.Equal(t, []string{"1", "alice", "500", "monthly", "2024-05-01 09:30:00"}, rows[2])

	rows, err = f.GetRows(SheetRequests)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "approved", rows[1][5])

	rows, err = f.GetRows(SheetInventory)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
