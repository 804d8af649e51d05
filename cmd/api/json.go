package main

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/bigbluetruck333-spec/BluCollarBookings/internal/bookings"
)

type ApiError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type ErrorResponse struct {
	Success bool     `json:"success"`
	Error   ApiError `json:"error"`
}

func (cfg *apiConfig) respondWithError(w http.ResponseWriter, r *http.Request, code int, apiErr ApiError) {
	if code >= 500 {
		cfg.logger.Error("Responding with 5XX error",
			zap.String("code", apiErr.Code),
			zap.String("message", apiErr.Message),
			zap.String("path", r.URL.Path),
			zap.String("request_id", requestIDFrom(r.Context())))
	}

	respondWithJSON(w, code, ErrorResponse{
		Success: false,
		Error:   apiErr,
	})
}

// respondWithServiceError maps a service-layer failure onto its HTTP status.
func (cfg *apiConfig) respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	svcErr := bookings.AsError(err)
	cfg.respondWithError(w, r, svcErr.HTTPStatus(), ApiError{
		Code:    svcErr.Code,
		Message: svcErr.Message,
	})
}

func (cfg *apiConfig) respondWithInvalidBody(w http.ResponseWriter, r *http.Request) {
	cfg.respondWithError(w, r, http.StatusBadRequest, ApiError{
		Code:    "INVALID_REQUEST",
		Message: "Invalid request body",
	})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")

	data, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		fallbackError := ErrorResponse{
			Success: false,
			Error: ApiError{
				Code:    "INTERNAL_ERROR",
				Message: "Failed to generate response",
			},
		}
		json.NewEncoder(w).Encode(fallbackError)
		return
	}

	w.WriteHeader(code)
	w.Write(data)
}
