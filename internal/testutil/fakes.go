package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ewhitmore/lawdesk/internal/gateway"
)

// FakeCheckout is an in-memory stand-in for the hosted checkout gateway.
type FakeCheckout struct {
	mu       sync.Mutex
	sessions map[string]*gateway.CheckoutSession
	seq      int

	// CreateErr and GetErr force the next call to fail
	CreateErr error
	GetErr    error
}

func NewFakeCheckout() *FakeCheckout {
	return &FakeCheckout{
		sessions: make(map[string]*gateway.CheckoutSession),
	}
}

func (f *FakeCheckout) CreateCheckoutSession(ctx context.Context, params gateway.CreateCheckoutParams) (*gateway.CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.CreateErr != nil {
		return nil, f.CreateErr
	}

	f.seq++
	session := &gateway.CheckoutSession{
		ID:            fmt.Sprintf("cs_test_%d", f.seq),
		URL:           fmt.Sprintf("https://checkout.example.com/%d", f.seq),
		PaymentStatus: "unpaid",
		AmountTotal:   params.AmountCents,
	}
	f.sessions[session.ID] = session
	return copySession(session), nil
}

func (f *FakeCheckout) GetCheckoutSession(ctx context.Context, id string) (*gateway.CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.GetErr != nil {
		return nil, f.GetErr
	}

	session, ok := f.sessions[id]
	if !ok {
		return nil, errors.New("no such checkout session")
	}
	return copySession(session), nil
}

// MarkPaid flips a session to paid with the given payment intent reference.
func (f *FakeCheckout) MarkPaid(id, paymentIntentID string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if session, ok := f.sessions[id]; ok {
		session.PaymentStatus = gateway.PaymentStatusPaid
		session.PaymentIntentID = paymentIntentID
	}
}

func copySession(s *gateway.CheckoutSession) *gateway.CheckoutSession {
	c := *s
	return &c
}

// FakeProfileProvider maps authorization codes to canned OAuth profiles.
type FakeProfileProvider struct {
	mu       sync.Mutex
	profiles map[string]*gateway.Profile
}

func NewFakeProfileProvider() *FakeProfileProvider {
	return &FakeProfileProvider{
		profiles: make(map[string]*gateway.Profile),
	}
}

// SetProfile registers the profile returned for a code.
func (f *FakeProfileProvider) SetProfile(code string, profile *gateway.Profile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles[code] = profile
}

func (f *FakeProfileProvider) AuthCodeURL(state string) string {
	return "https://oauth.example.com/consent?state=" + state
}

func (f *FakeProfileProvider) ExchangeCode(ctx context.Context, code string) (*gateway.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	profile, ok := f.profiles[code]
	if !ok {
		return nil, errors.New("invalid authorization code")
	}
	return profile, nil
}
