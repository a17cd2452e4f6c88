package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ewhitmore/lawdesk/internal/api/middleware"
	"github.com/ewhitmore/lawdesk/internal/domain"
	"github.com/ewhitmore/lawdesk/internal/service"
	"github.com/google/uuid"
)

type BillingHandler struct {
	billingService *service.BillingService
}

func NewBillingHandler(billingService *service.BillingService) *BillingHandler {
	return &BillingHandler{billingService: billingService}
}

type CreateCheckoutRequest struct {
	QuoteID string `json:"quoteId"`
	Amount  int64  `json:"amount"`
}

type VerifyPaymentRequest struct {
	SessionID string `json:"sessionId"`
	QuoteID   string `json:"quoteId"`
}

type VerifyPaymentResponse struct {
	Success       bool    `json:"success"`
	CaseTitle     string  `json:"caseTitle"`
	Amount        float64 `json:"amount"`
	PaidAt        string  `json:"paidAt"`
	TransactionID string  `json:"transactionId"`
}

func (h *BillingHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.QuoteID == "" || req.Amount == 0 {
		respondError(w, http.StatusBadRequest, "Missing required parameters: quoteId and amount")
		return
	}

	quoteID, err := uuid.Parse(req.QuoteID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid quote id")
		return
	}

	intent, err := h.billingService.CreateCheckout(r.Context(), userID, quoteID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAmount):
			respondError(w, http.StatusBadRequest, "Amount must be a positive number of cents")
		case errors.Is(err, domain.ErrQuoteNotFound):
			respondError(w, http.StatusNotFound, "Quote not found or not accepted")
		default:
			respondError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondJSON(w, http.StatusOK, intent)
}

func (h *BillingHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req VerifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.SessionID == "" || req.QuoteID == "" {
		respondError(w, http.StatusBadRequest, "Missing sessionId or quoteId")
		return
	}

	quoteID, err := uuid.Parse(req.QuoteID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid quote id")
		return
	}

	receipt, err := h.billingService.VerifyPayment(r.Context(), userID, quoteID, req.SessionID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentNotCompleted):
			respondError(w, http.StatusBadRequest, "Payment not completed")
		case errors.Is(err, domain.ErrQuoteNotFound):
			respondError(w, http.StatusNotFound, "Quote not found")
		case errors.Is(err, domain.ErrQuoteNotPayable):
			respondError(w, http.StatusBadRequest, "Quote is not in a payable state")
		default:
			respondError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondJSON(w, http.StatusOK, VerifyPaymentResponse{
		Success:       true,
		CaseTitle:     receipt.CaseTitle,
		Amount:        receipt.Amount,
		PaidAt:        receipt.PaidAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		TransactionID: receipt.TransactionID,
	})
}
