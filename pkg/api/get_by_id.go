package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// HandleGetById handles GET requests to retrieve a specific record by ID
func (h *Handler) HandleGetById(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	collName := vars["resource"]
	id := vars["id"]

	rec, err := h.storage.GetById(collName, id)
	if err != nil {
		WriteStoreError(w, "get '"+collName+"/"+id+"'", err)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}
