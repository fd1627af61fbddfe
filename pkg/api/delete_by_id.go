package api

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
)

// HandleDeleteById handles DELETE requests to remove a specific record by ID
func (h *Handler) HandleDeleteById(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	collName := vars["resource"]
	id := vars["id"]

	removed, err := h.storage.DeleteById(collName, id)
	if err != nil {
		WriteStoreError(w, "delete '"+collName+"/"+id+"'", err)
		return
	}

	log.Printf("INFO: Deleted record '%s' from collection '%s'", id, collName)
	writeJSON(w, http.StatusOK, removed)
}
