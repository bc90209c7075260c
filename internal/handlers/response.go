package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/kart-challenge/checkout-calculator/internal/checkout"
	"github.com/Lixing-Zhang/kart-challenge/checkout-calculator/internal/models"
)

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, data interface{}, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes an error response in JSON format
func WriteError(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	WriteJSON(w, status, models.ErrorResponse{Error: message}, logger)
}

// WriteCheckoutError maps a checkout failure to a status code.
// Request errors are 400 with their kind; anything else is a 500.
func WriteCheckoutError(w http.ResponseWriter, err error, logger *slog.Logger) {
	status, body := checkoutErrorResponse(err)
	WriteJSON(w, status, body, logger)
}

func checkoutErrorResponse(err error) (int, models.ErrorResponse) {
	var cerr *checkout.Error
	if errors.As(err, &cerr) {
		return http.StatusBadRequest, models.ErrorResponse{
			Error: cerr.Message,
			Kind:  checkout.KindName(err),
		}
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return http.StatusServiceUnavailable, models.ErrorResponse{Error: "Request cancelled"}
	}

	return http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"}
}
