package api

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/SilverCoyote012/IngieneriaSoftwareProyecto/internal/model"
	"github.com/SilverCoyote012/IngieneriaSoftwareProyecto/internal/report"
)

func TestJacketScenario(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.admin(t)

	status, body := env.do(t, http.MethodPost, "/api/inventory", adminToken, map[string]any{
		"item_name": "Jacket", "category": "clothing", "quantity": 5,
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Item created successfully", body["message"])
	id := int64(body["item"].(map[string]any)["id"].(float64))

	status, body = env.do(t, http.MethodGet, "/api/inventory/"+itoa(id), adminToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(5), body["item"].(map[string]any)["quantity"])

	status, body = env.do(t, http.MethodPut, "/api/inventory/"+itoa(id), adminToken, map[string]any{
		"item_name": "Jacket", "category": "clothing", "quantity": -1,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Quantity cannot be negative", body["error"])

	item, err := env.store.GetInventoryItem(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, int64(5), item.Quantity)
}

func TestInventoryCRUD(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.admin(t)
	_, userToken := env.account(t, "alice", "secret1", model.RoleUser)

	status, body := env.do(t, http.MethodPost, "/api/inventory", userToken, map[string]any{
		"item_name": "Coat", "category": "clothing",
	})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Admin access required", body["error"])

	status, body = env.do(t, http.MethodPost, "/api/inventory", adminToken, map[string]any{"item_name": "Coat"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Item name and category are required", body["error"])

	status, body = env.do(t, http.MethodPost, "/api/inventory", adminToken, map[string]any{
		"item_name": "Coat", "category": "clothing", "size": "L",
	})
	require.Equal(t, http.StatusCreated, status)
	item := body["item"].(map[string]any)
	assert.Equal(t, float64(0), item["quantity"])
	assert.Equal(t, false, item["has_photo"])
	id := int64(item["id"].(float64))

	// Omitted quantity keeps the stored value.
	seven := int64(7)
	_, err := env.store.UpdateInventoryItem(context.Background(), id, "Coat", "clothing", "L", &seven)
	require.NoError(t, err)
	status, body = env.do(t, http.MethodPut, "/api/inventory/"+itoa(id), adminToken, map[string]any{
		"item_name": "Winter coat", "category": "clothing",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Item updated successfully", body["message"])
	assert.Equal(t, "Winter coat", body["item"].(map[string]any)["item_name"])
	assert.Equal(t, float64(7), body["item"].(map[string]any)["quantity"])

	status, body = env.do(t, http.MethodGet, "/api/inventory", userToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["inventory"].([]any), 1)

	status, _ = env.do(t, http.MethodPut, "/api/inventory/999", adminToken, map[string]any{
		"item_name": "x", "category": "y",
	})
	assert.Equal(t, http.StatusNotFound, status)

	status, body = env.do(t, http.MethodDelete, "/api/inventory/"+itoa(id), adminToken, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Item deleted successfully", body["message"])

	status, body = env.do(t, http.MethodGet, "/api/inventory/"+itoa(id), userToken, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Item not found", body["error"])
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{0, 128, 0, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// hugePNGHeader returns a small PNG whose header claims 40000x40000 pixels.
func hugePNGHeader(t *testing.T) []byte {
	t.Helper()
	data := pngBytes(t, 4, 4)
	binary.BigEndian.PutUint32(data[16:20], 40000)
	binary.BigEndian.PutUint32(data[20:24], 40000)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return data
}

func uploadPhoto(t *testing.T, env *testEnv, id int64, token, field string, data []byte) int {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(field, "photo.png")
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPut, env.server.URL+"/api/inventory/"+itoa(id)+"/photo", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestInventoryPhoto(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.admin(t)
	_, userToken := env.account(t, "alice", "secret1", model.RoleUser)

	item, err := env.store.CreateInventoryItem(context.Background(), model.InventoryItem{Name: "Shirt", Category: "clothing"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, uploadPhoto(t, env, item.ID, userToken, "photo", pngBytes(t, 20, 20)))
	assert.Equal(t, http.StatusBadRequest, uploadPhoto(t, env, item.ID, adminToken, "image", pngBytes(t, 20, 20)))
	assert.Equal(t, http.StatusBadRequest, uploadPhoto(t, env, item.ID, adminToken, "photo", []byte("not an image")))
	assert.Equal(t, http.StatusBadRequest, uploadPhoto(t, env, item.ID, adminToken, "photo", hugePNGHeader(t)))
	assert.Equal(t, http.StatusNotFound, uploadPhoto(t, env, 999, adminToken, "photo", pngBytes(t, 20, 20)))
	require.Equal(t, http.StatusOK, uploadPhoto(t, env, item.ID, adminToken, "photo", pngBytes(t, 20, 20)))

	req, err := http.NewRequest(http.MethodGet, env.server.URL+"/api/inventory/"+itoa(item.ID)+"/photo", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+userToken)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/jpeg", resp.Header.Get("Content-Type"))
	_, format, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)

	got, err := env.store.GetInventoryItem(context.Background(), item.ID)
	require.NoError(t, err)
	assert.True(t, got.HasPhoto)

	status, _ := env.do(t, http.MethodDelete, "/api/inventory/"+itoa(item.ID)+"/photo", adminToken, nil)
	assert.Equal(t, http.StatusOK, status)

	status, body := env.do(t, http.MethodGet, "/api/inventory/"+itoa(item.ID)+"/photo", userToken, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Photo not found", body["error"])
}

func TestDonationsReport(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.admin(t)
	alice, userToken := env.account(t, "alice", "secret1", model.RoleUser)
	ctx := context.Background()

	_, err := env.store.CreateDonation(ctx, alice.ID, 100, "first")
	require.NoError(t, err)
	_, err = env.store.CreateDonation(ctx, alice.ID, 50, "")
	require.NoError(t, err)
	_, err = env.store.CreateRequest(ctx, alice.ID, "jacket", 1, "")
	require.NoError(t, err)

	status, _ := env.do(t, http.MethodGet, "/api/reports/donations.xlsx", userToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	req, err := http.NewRequest(http.MethodGet, env.server.URL+"/api/reports/donations.xlsx", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, xlsxMIME, resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")

	f, err := excelize.OpenReader(resp.Body)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(report.SheetDonations)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	rows, err = f.GetRows(report.SheetRequests)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
