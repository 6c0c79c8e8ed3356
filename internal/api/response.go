package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// errInvalidBody is returned by decodeJSON for unreadable bodies.
var errInvalidBody = errValidation("Invalid request body")

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// responder writes handler failures. In development mode internal errors
// carry their detail in a "message" field.
type responder struct {
	dev bool
}

func (rs responder) fail(w http.ResponseWriter, r *http.Request, err error) {
	e := asError(err)
	if e.Kind != KindInternal {
		jsonError(w, e.Status, e.Message)
		return
	}

	slog.Error(e.Message,
		"error", e.Err,
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", middleware.GetReqID(r.Context()),
	)
	body := map[string]string{"error": e.Message}
	if rs.dev && e.Err != nil {
		body["message"] = e.Err.Error()
	}
	jsonResponse(w, e.Status, body)
}

// decodeJSON decodes a JSON request body into the given target. An empty
// body leaves target untouched so that field validation reports what is
// missing.
func decodeJSON(w http.ResponseWriter, r *http.Request, target any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return errInvalidBody
	}
	return nil
}

// pathID parses the {id} URL parameter.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errValidation("Invalid id")
	}
	return id, nil
}
