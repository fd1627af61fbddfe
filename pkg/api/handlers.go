package api

import (
	"encoding/json"
	"net/http"

	"github.com/dreamcatcher45/jserve/pkg/domain"
)

// maxBodyBytes caps the size of a request body
const maxBodyBytes = 10 << 20

// Handler provides HTTP handlers for the resource API
type Handler struct {
	storage domain.StorageEngine
}

// NewHandler creates a new API handler with dependency injection
func NewHandler(storage domain.StorageEngine) *Handler {
	return &Handler{
		storage: storage,
	}
}

// decodeBody decodes a single JSON value from the request body. Whether it
// is an object is decided by the storage engine.
func decodeBody(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	defer r.Body.Close()
	return domain.DecodeJSON(http.MaxBytesReader(w, r.Body, maxBodyBytes))
}

// writeJSON writes v as a JSON response with the given status code
func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}
