// Package gateway defines the interfaces to the third-party services the
// portal depends on: the hosted checkout provider and the OAuth identity
// provider.
package gateway

import "context"

// PaymentStatusPaid is the gateway's flag for a completed checkout.
const PaymentStatusPaid = "paid"

// CheckoutSession is the gateway-side view of a hosted checkout.
type CheckoutSession struct {
	ID              string
	URL             string
	PaymentStatus   string
	PaymentIntentID string
	AmountTotal     int64
}

// Paid reports whether the gateway confirmed the payment.
func (s *CheckoutSession) Paid() bool {
	return s.PaymentStatus == PaymentStatusPaid
}

type CreateCheckoutParams struct {
	ProductName   string
	Description   string
	AmountCents   int64
	Currency      string
	SuccessURL    string
	CancelURL     string
	CustomerEmail string
	Metadata      map[string]string
}

// Checkout creates and retrieves hosted checkout sessions.
type Checkout interface {
	CreateCheckoutSession(ctx context.Context, params CreateCheckoutParams) (*CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, id string) (*CheckoutSession, error)
}

// Profile is the identity the OAuth provider reports after an authorization
// flow. Subject and Email are mandatory; a profile missing either must be
// rejected by the caller.
type Profile struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// ProfileProvider exchanges an authorization flow for a profile.
type ProfileProvider interface {
	AuthCodeURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*Profile, error)
}
