package handlers_test

import (
	"net/http"
	"testing"

	"github.com/ewhitmore/lawdesk/internal/domain"
	"github.com/ewhitmore/lawdesk/internal/service"
	"github.com/ewhitmore/lawdesk/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type billingScenario struct {
	ts     *testutil.TestServer
	client *domain.User
	lawyer *domain.User
	quote  *domain.Quote
	token  string
}

func newBillingScenario(t *testing.T) *billingScenario {
	t.Helper()

	ts := testutil.NewTestServer(t)

	lawyer, _ := testutil.NewUserBuilder().WithRole(domain.RoleLawyer).Build(t, ts.DB.DB)
	client, token := testutil.NewUserBuilder().WithRole(domain.RoleClient).BuildAndAuthenticate(t, ts)

	kase := testutil.NewCaseBuilder(client.ID, lawyer.ID).WithTitle("Contract Dispute").Build(t, ts.DB.DB)
	quote := testutil.NewQuoteBuilder(kase.ID).WithAmountCents(10000).Build(t, ts.DB.DB)

	return &billingScenario{
		ts:     ts,
		client: client,
		lawyer: lawyer,
		quote:  quote,
		token:  token,
	}
}

func (s *billingScenario) createCheckout(t *testing.T) *service.CheckoutIntent {
	t.Helper()

	resp := doRequest(t, http.MethodPost, s.ts.APIURL("/billing/checkout-session"), s.token, map[string]interface{}{
		"quoteId": s.quote.ID.String(),
		"amount":  s.quote.AmountCents,
	})
	defer resp.Body.Close()

	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var intent service.CheckoutIntent
	testutil.AssertJSONResponse(t, resp, &intent)
	require.NotEmpty(t, intent.SessionID)
	return &intent
}

func TestCreateCheckout(t *testing.T) {
	s := newBillingScenario(t)

	intent := s.createCheckout(t)
	assert.NotEmpty(t, intent.CheckoutURL)

	var payment domain.Payment
	require.NoError(t, s.ts.DB.DB.First(&payment, "checkout_session_id = ?", intent.SessionID).Error)
	assert.Equal(t, domain.PaymentStatusPending, payment.Status)
	assert.Equal(t, s.quote.ID, payment.QuoteID)
}

func TestCreateCheckout_Rejections(t *testing.T) {
	s := newBillingScenario(t)

	tests := []struct {
		name       string
		body       map[string]interface{}
		wantStatus int
		wantError  string
	}{
		{
			name:       "missing amount",
			body:       map[string]interface{}{"quoteId": s.quote.ID.String()},
			wantStatus: http.StatusBadRequest,
			wantError:  "Missing required parameters",
		},
		{
			name:       "missing quote id",
			body:       map[string]interface{}{"amount": 10000},
			wantStatus: http.StatusBadRequest,
			wantError:  "Missing required parameters",
		},
		{
			name:       "malformed quote id",
			body:       map[string]interface{}{"quoteId": "not-a-uuid", "amount": 10000},
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid quote id",
		},
		{
			name:       "unknown quote",
			body:       map[string]interface{}{"quoteId": uuid.New().String(), "amount": 10000},
			wantStatus: http.StatusNotFound,
			wantError:  "Quote not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, http.MethodPost, s.ts.APIURL("/billing/checkout-session"), s.token, tt.body)
			defer resp.Body.Close()
			testutil.AssertErrorResponse(t, resp, tt.wantStatus, tt.wantError)
		})
	}
}

func TestCreateCheckout_Unauthenticated(t *testing.T) {
	s := newBillingScenario(t)

	resp := doRequest(t, http.MethodPost, s.ts.APIURL("/billing/checkout-session"), "", map[string]interface{}{
		"quoteId": s.quote.ID.String(),
		"amount":  10000,
	})
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusUnauthorized)
}

func TestVerifyPayment(t *testing.T) {
	s := newBillingScenario(t)

	intent := s.createCheckout(t)
	s.ts.Checkout.MarkPaid(intent.SessionID, "pi_test_123")

	resp := doRequest(t, http.MethodPost, s.ts.APIURL("/billing/verify"), s.token, map[string]string{
		"sessionId": intent.SessionID,
		"quoteId":   s.quote.ID.String(),
	})
	defer resp.Body.Close()

	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var body struct {
		Success       bool    `json:"success"`
		CaseTitle     string  `json:"caseTitle"`
		Amount        float64 `json:"amount"`
		PaidAt        string  `json:"paidAt"`
		TransactionID string  `json:"transactionId"`
	}
	testutil.AssertJSONResponse(t, resp, &body)

	assert.True(t, body.Success)
	assert.Equal(t, "Contract Dispute", body.CaseTitle)
	assert.Equal(t, 100.00, body.Amount)
	assert.Equal(t, "pi_test_123", body.TransactionID)
	assert.NotEmpty(t, body.PaidAt)

	var quote domain.Quote
	require.NoError(t, s.ts.DB.DB.First(&quote, "id = ?", s.quote.ID).Error)
	assert.Equal(t, domain.QuoteStatusPaid, quote.Status)
	require.NotNil(t, quote.PaidAt)

	var payment domain.Payment
	require.NoError(t, s.ts.DB.DB.First(&payment, "checkout_session_id = ?", intent.SessionID).Error)
	assert.Equal(t, domain.PaymentStatusCompleted, payment.Status)

	var count int64
	require.NoError(t, s.ts.DB.DB.Model(&domain.Notification{}).
		Where("user_id = ? AND type = ?", s.lawyer.ID, domain.NotificationPaymentReceived).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestVerifyPayment_Rejections(t *testing.T) {
	s := newBillingScenario(t)

	unpaid := s.createCheckout(t)

	tests := []struct {
		name       string
		body       map[string]string
		wantStatus int
		wantError  string
	}{
		{
			name:       "missing session id",
			body:       map[string]string{"quoteId": s.quote.ID.String()},
			wantStatus: http.StatusBadRequest,
			wantError:  "Missing sessionId or quoteId",
		},
		{
			name:       "missing quote id",
			body:       map[string]string{"sessionId": unpaid.SessionID},
			wantStatus: http.StatusBadRequest,
			wantError:  "Missing sessionId or quoteId",
		},
		{
			name:       "session not paid",
			body:       map[string]string{"sessionId": unpaid.SessionID, "quoteId": s.quote.ID.String()},
			wantStatus: http.StatusBadRequest,
			wantError:  "Payment not completed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, http.MethodPost, s.ts.APIURL("/billing/verify"), s.token, tt.body)
			defer resp.Body.Close()
			testutil.AssertErrorResponse(t, resp, tt.wantStatus, tt.wantError)
		})
	}

	// The rejected verifications must not have touched the quote.
	var quote domain.Quote
	require.NoError(t, s.ts.DB.DB.First(&quote, "id = ?", s.quote.ID).Error)
	assert.Equal(t, domain.QuoteStatusAccepted, quote.Status)
}

func TestVerifyPayment_UnknownQuote(t *testing.T) {
	s := newBillingScenario(t)

	intent := s.createCheckout(t)
	s.ts.Checkout.MarkPaid(intent.SessionID, "pi_test_456")

	resp := doRequest(t, http.MethodPost, s.ts.APIURL("/billing/verify"), s.token, map[string]string{
		"sessionId": intent.SessionID,
		"quoteId":   uuid.New().String(),
	})
	defer resp.Body.Close()
	testutil.AssertErrorResponse(t, resp, http.StatusNotFound, "Quote not found")
}

func TestVerifyPayment_RetryIsIdempotent(t *testing.T) {
	s := newBillingScenario(t)

	intent := s.createCheckout(t)
	s.ts.Checkout.MarkPaid(intent.SessionID, "pi_test_789")

	verify := func() *http.Response {
		return doRequest(t, http.MethodPost, s.ts.APIURL("/billing/verify"), s.token, map[string]string{
			"sessionId": intent.SessionID,
			"quoteId":   s.quote.ID.String(),
		})
	}

	first := verify()
	defer first.Body.Close()
	testutil.AssertStatusCode(t, first, http.StatusOK)

	second := verify()
	defer second.Body.Close()
	testutil.AssertStatusCode(t, second, http.StatusOK)

	var body struct {
		Success bool    `json:"success"`
		Amount  float64 `json:"amount"`
	}
	testutil.AssertJSONResponse(t, second, &body)
	assert.True(t, body.Success)
	assert.Equal(t, 100.00, body.Amount)

	// Retries must not notify the lawyer twice.
	var count int64
	require.NoError(t, s.ts.DB.DB.Model(&domain.Notification{}).
		Where("user_id = ?", s.lawyer.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
