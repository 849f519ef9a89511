package utils

import (
	"encoding/json"
	"log"
	"net/http"

	"termometro/models"
)

// RespondWithError sends a JSON error response using the APIError model.
func RespondWithError(writer http.ResponseWriter, apiErr models.APIError) {
	RespondWithJSON(writer, apiErr.StatusCode, apiErr)
}

// RespondWithJSON sends payload as JSON with the given status code.
func RespondWithJSON(writer http.ResponseWriter, statusCode int, payload interface{}) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(writer).Encode(payload); err != nil {
		log.Printf("Failed to encode JSON response: %v", err)
	}
}

// DecodeJSON reads a bounded JSON body into dst. A failure has already been
// answered with a 400 when it returns false.
func DecodeJSON(writer http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(writer, r.Body, 1<<16)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.Printf("Invalid request body on %s: %v", r.URL.Path, err)
		RespondWithError(writer, models.NewAPIError(models.ErrorCodeInvalidFormat, "invalid JSON body", err.Error(), http.StatusBadRequest))
		return false
	}
	return true
}
