package http

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/fjod/dhnaturally/internal/storage"
)

var errTrailingData = errors.New("unexpected data after JSON body")

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondErrorDetails(w, status, code, message, "")
}

func respondErrorDetails(w http.ResponseWriter, status int, code, message, details string) {
	respondJSON(w, status, ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	})
}

// handleStoreError maps a storage failure onto an HTTP status.
func handleStoreError(w http.ResponseWriter, err error) {
	var missing *storage.MissingProductError
	switch {
	case errors.As(err, &missing):
		respondErrorDetails(w, http.StatusConflict, "missing_product",
			"cart references a product that no longer exists", missing.Error())
	case errors.Is(err, storage.ErrMissingProduct):
		respondError(w, http.StatusConflict, "missing_product", "cart references a product that no longer exists")
	case errors.Is(err, storage.ErrInvalidQuantity):
		respondError(w, http.StatusBadRequest, "invalid_quantity", err.Error())
	default:
		log.Printf("storage error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// decodeJSON reads exactly one JSON value into v. Trailing data is
// rejected; unknown fields are ignored.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(r.Body)
	err := dec.Decode(v)
	if err == nil {
		if _, errTrail := dec.Token(); !errors.Is(errTrail, io.EOF) {
			err = errTrailingData
			if errTrail != nil {
				err = errTrail
			}
		}
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "invalid_request", "request body too large")
			return false
		}
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return false
	}
	return true
}
