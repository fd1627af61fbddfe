package api

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
)

// HandleInsert handles POST requests creating a record; it responds with the record's id
func (h *Handler) HandleInsert(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	collName := vars["resource"]

	payload, err := decodeBody(w, r)
	if err != nil {
		log.Printf("WARN: Decoding body failed: %v", err)
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id, err := h.storage.Insert(collName, payload)
	if err != nil {
		WriteStoreError(w, "insert into '"+collName+"'", err)
		return
	}

	log.Printf("INFO: Inserted record '%s' into collection '%s'", id, collName)
	writeJSON(w, http.StatusCreated, id)
}
