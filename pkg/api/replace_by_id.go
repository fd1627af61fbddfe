package api

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
)

// HandleReplaceById handles PUT requests to completely replace a record by ID
// This performs an absolute update, replacing the entire record content
func (h *Handler) HandleReplaceById(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	collName := vars["resource"]
	id := vars["id"]

	payload, err := decodeBody(w, r)
	if err != nil {
		log.Printf("WARN: Decoding body failed: %v", err)
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	replacedID, err := h.storage.ReplaceById(collName, id, payload)
	if err != nil {
		WriteStoreError(w, "replace '"+collName+"/"+id+"'", err)
		return
	}

	log.Printf("INFO: Replaced record '%s' in collection '%s'", replacedID, collName)
	writeJSON(w, http.StatusOK, replacedID)
}
