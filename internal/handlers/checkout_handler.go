package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/kart-challenge/checkout-calculator/internal/checkout"
	"github.com/Lixing-Zhang/kart-challenge/checkout-calculator/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/checkout-calculator/internal/service"
)

// maxBodyBytes caps request bodies for both checkout endpoints
const maxBodyBytes = 1 << 20

// checkoutService is the subset of service.CheckoutService the handler uses
type checkoutService interface {
	Checkout(ctx context.Context, req checkout.Request) (*checkout.Summary, error)
	CheckoutBatch(ctx context.Context, reqs []checkout.Request) ([]service.BatchResult, error)
	RecordBatchSize(n int)
}

// CheckoutHandler handles checkout HTTP requests
type CheckoutHandler struct {
	service  checkoutService
	log      *slog.Logger
	maxBatch int
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(svc checkoutService, log *slog.Logger, maxBatch int) *CheckoutHandler {
	return &CheckoutHandler{
		service:  svc,
		log:      log,
		maxBatch: maxBatch,
	}
}

// Checkout handles POST /api/checkout
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.log.Warn("failed to read checkout request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	req, err := checkout.Parse(body)
	if err != nil {
		h.log.Warn("failed to parse checkout request", "error", err)
		WriteCheckoutError(w, err, h.log)
		return
	}

	summary, err := h.service.Checkout(r.Context(), req)
	if err != nil {
		WriteCheckoutError(w, err, h.log)
		return
	}

	WriteJSON(w, http.StatusOK, models.NewOrderSummary(*summary), h.log)
}

// CheckoutBatch handles POST /api/checkout/batch
func (h *CheckoutHandler) CheckoutBatch(w http.ResponseWriter, r *http.Request) {
	var batch models.BatchCheckoutRequest

	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&batch); err != nil {
		h.log.Warn("failed to decode batch request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	if len(batch.Requests) == 0 {
		WriteError(w, http.StatusBadRequest, "Batch must contain at least one request", h.log)
		return
	}

	if len(batch.Requests) > h.maxBatch {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("Batch must not exceed %d requests", h.maxBatch), h.log)
		return
	}

	h.service.RecordBatchSize(len(batch.Requests))

	response := models.BatchCheckoutResponse{
		Results: make([]models.BatchCheckoutResult, len(batch.Requests)),
	}

	// Entries that fail to parse are answered directly; the rest go to the
	// service, remembering where each one came from.
	reqs := make([]checkout.Request, 0, len(batch.Requests))
	positions := make([]int, 0, len(batch.Requests))

	for i, raw := range batch.Requests {
		response.Results[i].Index = i

		req, err := checkout.Parse(raw)
		if err != nil {
			_, body := checkoutErrorResponse(err)
			response.Results[i].Error = &body
			continue
		}

		reqs = append(reqs, req)
		positions = append(positions, i)
	}

	results, err := h.service.CheckoutBatch(r.Context(), reqs)
	if err != nil {
		h.log.Error("batch checkout failed", "error", err)
		WriteCheckoutError(w, err, h.log)
		return
	}

	for j, res := range results {
		i := positions[j]
		if res.Err != nil {
			_, body := checkoutErrorResponse(res.Err)
			response.Results[i].Error = &body
			continue
		}
		summary := models.NewOrderSummary(*res.Summary)
		response.Results[i].Summary = &summary
	}

	for _, res := range response.Results {
		if res.Error != nil {
			response.Failed++
		} else {
			response.Succeeded++
		}
	}

	WriteJSON(w, http.StatusOK, response, h.log)
	h.log.Info("batch checkout processed",
		"requests", len(batch.Requests),
		"succeeded", response.Succeeded,
		"failed", response.Failed,
	)
}
