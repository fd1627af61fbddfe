package api

import (
	"net/http"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status      string   `json:"status"`
	Collections []string `json:"collections"`
}

// HandleHealth handles GET requests to the root path
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	collections := h.storage.ListCollections()
	if collections == nil {
		collections = []string{}
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:      "healthy",
		Collections: collections,
	})
}
