package api

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API routes with the given router
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/", h.HandleHealth).Methods("GET")

	// Collection operations
	router.HandleFunc("/{resource}", h.HandleFindAll).Methods("GET")
	router.HandleFunc("/{resource}", h.HandleInsert).Methods("POST")

	// Record operations (by ID)
	router.HandleFunc("/{resource}/{id}", h.HandleGetById).Methods("GET")
	router.HandleFunc("/{resource}/{id}", h.HandleReplaceById).Methods("PUT")
	router.HandleFunc("/{resource}/{id}", h.HandleDeleteById).Methods("DELETE")
}
