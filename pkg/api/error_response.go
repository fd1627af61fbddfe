package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/dreamcatcher45/jserve/pkg/domain"
)

// ErrorResponse represents a standard JSON error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// WriteJSONError writes a JSON error response with the given status code and message
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	}

	json.NewEncoder(w).Encode(response)
}

// StatusForError maps a storage error to the HTTP status code reported to clients
func StatusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidPayload):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDuplicateID):
		return http.StatusConflict
	case domain.IsNotFound(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// WriteStoreError logs err and writes the matching JSON error response.
// Client errors are logged as warnings, everything else as a server fault.
func WriteStoreError(w http.ResponseWriter, op string, err error) {
	status := StatusForError(err)
	message := publicMessage(err)
	if status >= http.StatusInternalServerError {
		log.Printf("ERROR: %s failed: %v", op, err)
	} else {
		log.Printf("WARN: %s rejected: %v", op, err)
	}
	WriteJSONError(w, status, message)
}

// publicMessage picks the client-facing message for a storage error
func publicMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidPayload):
		return domain.ErrInvalidPayload.Error()
	case errors.Is(err, domain.ErrDuplicateID):
		return domain.ErrDuplicateID.Error()
	case errors.Is(err, domain.ErrCollectionNotFound):
		return domain.ErrCollectionNotFound.Error()
	case errors.Is(err, domain.ErrItemNotFound):
		return domain.ErrItemNotFound.Error()
	case errors.Is(err, domain.ErrPersist):
		return domain.ErrPersist.Error()
	default:
		return "internal server error"
	}
}
