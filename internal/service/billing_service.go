package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ewhitmore/lawdesk/internal/domain"
	"github.com/ewhitmore/lawdesk/internal/gateway"
	"github.com/ewhitmore/lawdesk/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrInvalidAmount       = errors.New("amount must be a positive number of cents")
	ErrPaymentNotCompleted = errors.New("payment not completed")
)

type BillingService struct {
	quoteRepo     repository.QuoteRepository
	paymentRepo   repository.PaymentRepository
	checkout      gateway.Checkout
	notifications *NotificationService
	baseURL       string
	logger        zerolog.Logger
}

func NewBillingService(
	quoteRepo repository.QuoteRepository,
	paymentRepo repository.PaymentRepository,
	checkout gateway.Checkout,
	notifications *NotificationService,
	baseURL string,
	logger zerolog.Logger,
) *BillingService {
	return &BillingService{
		quoteRepo:     quoteRepo,
		paymentRepo:   paymentRepo,
		checkout:      checkout,
		notifications: notifications,
		baseURL:       baseURL,
		logger:        logger,
	}
}

type CheckoutIntent struct {
	SessionID   string `json:"sessionId"`
	CheckoutURL string `json:"checkoutUrl"`
}

// CreateCheckout opens a hosted checkout session for the caller's own
// accepted quote and records the attempt as a PENDING payment. A quote
// that is missing, foreign, or not ACCEPTED reads as not found.
func (s *BillingService) CreateCheckout(ctx context.Context, clientID, quoteID uuid.UUID, amountCents int64) (*CheckoutIntent, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}

	quote, err := s.quoteRepo.GetAcceptedForClient(ctx, quoteID, clientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrQuoteNotFound
		}
		return nil, err
	}

	caseTitle := ""
	lawyerID := ""
	customerEmail := ""
	if quote.Case != nil {
		caseTitle = quote.Case.Title
		lawyerID = quote.Case.LawyerID.String()
		if quote.Case.Client != nil {
			customerEmail = quote.Case.Client.Email
		}
	}

	description := quote.Description
	if description == "" {
		description = "Legal consultation and services"
	}

	session, err := s.checkout.CreateCheckoutSession(ctx, gateway.CreateCheckoutParams{
		ProductName:   "Legal Services - " + caseTitle,
		Description:   description,
		AmountCents:   amountCents,
		Currency:      "usd",
		SuccessURL:    fmt.Sprintf("%s/client/payments/success?session_id={CHECKOUT_SESSION_ID}&quote_id=%s", s.baseURL, quoteID),
		CancelURL:     s.baseURL + "/client/payments?canceled=true",
		CustomerEmail: customerEmail,
		Metadata: map[string]string{
			"quoteId":  quoteID.String(),
			"clientId": clientID.String(),
			"lawyerId": lawyerID,
		},
	})
	if err != nil {
		return nil, err
	}

	metadata, _ := json.Marshal(map[string]string{
		"lawyerId": lawyerID,
	})

	payment := &domain.Payment{
		ID:                uuid.New(),
		QuoteID:           quoteID,
		ClientID:          clientID,
		CheckoutSessionID: session.ID,
		AmountCents:       amountCents,
		Status:            domain.PaymentStatusPending,
		Metadata:          datatypes.JSON(metadata),
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	return &CheckoutIntent{
		SessionID:   session.ID,
		CheckoutURL: session.URL,
	}, nil
}

type PaymentReceipt struct {
	CaseTitle     string    `json:"caseTitle"`
	Amount        float64   `json:"amount"`
	PaidAt        time.Time `json:"paidAt"`
	TransactionID string    `json:"transactionId"`
}

// VerifyPayment confirms a checkout session with the gateway and settles
// the quote. The settle step runs as one transaction; the lawyer
// notification afterwards is best effort and never rolls it back.
func (s *BillingService) VerifyPayment(ctx context.Context, clientID, quoteID uuid.UUID, sessionID string) (*PaymentReceipt, error) {
	checkoutSession, err := s.checkout.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !checkoutSession.Paid() {
		return nil, ErrPaymentNotCompleted
	}

	paidAt := time.Now()
	quote, settled, err := s.paymentRepo.Settle(ctx, sessionID, clientID, quoteID, paidAt)
	if err != nil {
		return nil, err
	}

	caseTitle := ""
	if quote.Case != nil {
		caseTitle = quote.Case.Title

		// Only the call that performed the transition notifies, so
		// verification retries cannot double-fire.
		if settled {
			if err := s.notifications.NotifyPaymentReceived(ctx, quote.Case.LawyerID, quote); err != nil {
				s.logger.Warn().Err(err).
					Str("quote_id", quoteID.String()).
					Msg("payment settled but lawyer notification failed")
			}
		}
	}

	if quote.PaidAt != nil {
		paidAt = *quote.PaidAt
	}

	return &PaymentReceipt{
		CaseTitle:     caseTitle,
		Amount:        float64(quote.AmountCents) / 100,
		PaidAt:        paidAt,
		TransactionID: checkoutSession.PaymentIntentID,
	}, nil
}
