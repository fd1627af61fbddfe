package api

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
)

// HandleFindAll handles GET requests listing every record of a collection
func (h *Handler) HandleFindAll(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	collName := vars["resource"]

	records, err := h.storage.FindAll(collName)
	if err != nil {
		WriteStoreError(w, "find all in '"+collName+"'", err)
		return
	}

	log.Printf("INFO: Found %d records in collection '%s'", len(records), collName)
	writeJSON(w, http.StatusOK, records)
}
