package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SilverCoyote012/IngieneriaSoftwareProyecto/internal/imaging"
	"github.com/SilverCoyote012/IngieneriaSoftwareProyecto/internal/photos"
	"github.com/SilverCoyote012/IngieneriaSoftwareProyecto/internal/store"
)

// multipartOverhead leaves room for form boundaries and headers on top of
// the photo itself.
const multipartOverhead = 64 << 10

// UploadPhoto handles PUT /api/inventory/{id}/photo.
func (h *InventoryHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if _, err := h.Store.GetInventoryItem(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.fail(w, r, errNotFound("Item not found"))
			return
		}
		h.fail(w, r, errInternal("Error uploading photo", err))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(imaging.MaxUploadBytes); err != nil {
		h.fail(w, r, errValidation("Photo too large or invalid multipart form"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, _, err := r.FormFile("photo")
	if err != nil {
		h.fail(w, r, errValidation("Photo file is required"))
		return
	}
	defer file.Close()

	photo, err := imaging.Normalize(file)
	switch {
	case errors.Is(err, imaging.ErrUnsupportedFormat):
		h.fail(w, r, errValidation("Photo must be a JPEG or PNG image"))
		return
	case errors.Is(err, imaging.ErrTooLarge):
		h.fail(w, r, errValidation("Photo must be at most 5 MB"))
		return
	case errors.Is(err, imaging.ErrTooManyPixels):
		h.fail(w, r, errValidation("Photo dimensions are too large"))
		return
	case err != nil:
		h.fail(w, r, errInternal("Error uploading photo", err))
		return
	}

	if err := h.Photos.Put(r.Context(), id, photo.Data, photo.MIME); err != nil {
		h.fail(w, r, errInternal("Error uploading photo", err))
		return
	}
	if err := h.Store.SetInventoryPhotoFlag(r.Context(), id, true); err != nil {
		h.fail(w, r, errInternal("Error uploading photo", err))
		return
	}

	caller, _ := IdentityFrom(r.Context())
	slog.Info("inventory photo uploaded", "user", caller.Username, "id", id, "bytes", len(photo.Data))
	jsonResponse(w, http.StatusOK, map[string]string{"message": "Photo uploaded successfully"})
}

// GetPhoto handles GET /api/inventory/{id}/photo.
func (h *InventoryHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	data, mime, err := h.Photos.Get(r.Context(), id)
	if errors.Is(err, photos.ErrNotFound) {
		h.fail(w, r, errNotFound("Photo not found"))
		return
	}
	if err != nil {
		h.fail(w, r, errInternal("Error fetching photo", err))
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Write(data)
}

// DeletePhoto handles DELETE /api/inventory/{id}/photo.
func (h *InventoryHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	err = h.Store.SetInventoryPhotoFlag(r.Context(), id, false)
	if errors.Is(err, store.ErrNotFound) {
		h.fail(w, r, errNotFound("Item not found"))
		return
	}
	if err != nil {
		h.fail(w, r, errInternal("Error deleting photo", err))
		return
	}
	if err := h.Photos.Delete(r.Context(), id); err != nil {
		h.fail(w, r, errInternal("Error deleting photo", err))
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "Photo deleted successfully"})
}
