// Package stripe talks to the Stripe checkout API over its form-encoded
// HTTP surface.
package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ewhitmore/lawdesk/internal/gateway"
)

const apiBaseURL = "https://api.stripe.com"

var ErrMissingAPIKey = errors.New("stripe api key is not configured")

type checkoutSessionResponse struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	PaymentStatus string `json:"payment_status"`
	PaymentIntent string `json:"payment_intent"`
	AmountTotal   int64  `json:"amount_total"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: apiBaseURL,
		client:  &http.Client{Timeout: 12 * time.Second},
	}
}

// NewClientWithBaseURL points the client at a non-default API host. Used by
// tests to talk to a stub server.
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	c := NewClient(apiKey)
	c.baseURL = strings.TrimSuffix(baseURL, "/")
	return c
}

func (c *Client) CreateCheckoutSession(ctx context.Context, params gateway.CreateCheckoutParams) (*gateway.CheckoutSession, error) {
	values := url.Values{}
	values.Set("mode", "payment")
	values.Set("payment_method_types[]", "card")
	values.Set("line_items[0][price_data][currency]", strings.ToLower(params.Currency))
	values.Set("line_items[0][price_data][product_data][name]", params.ProductName)
	if params.Description != "" {
		values.Set("line_items[0][price_data][product_data][description]", params.Description)
	}
	values.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(params.AmountCents, 10))
	values.Set("line_items[0][quantity]", "1")
	values.Set("success_url", params.SuccessURL)
	values.Set("cancel_url", params.CancelURL)
	if params.CustomerEmail != "" {
		values.Set("customer_email", params.CustomerEmail)
	}
	for key, value := range params.Metadata {
		values.Set(fmt.Sprintf("metadata[%s]", key), value)
	}

	return c.doRequest(ctx, http.MethodPost, "/v1/checkout/sessions", values)
}

func (c *Client) GetCheckoutSession(ctx context.Context, id string) (*gateway.CheckoutSession, error) {
	session, err := c.doRequest(ctx, http.MethodGet, "/v1/checkout/sessions/"+url.PathEscape(id), nil)
	if err == nil {
		return session, nil
	}
	// Retrieval is read-only, so one retry on a transport failure is safe.
	var urlErr *url.Error
	if errors.As(err, &urlErr) && ctx.Err() == nil {
		return c.doRequest(ctx, http.MethodGet, "/v1/checkout/sessions/"+url.PathEscape(id), nil)
	}
	return nil, err
}

func (c *Client) doRequest(ctx context.Context, method, path string, values url.Values) (*gateway.CheckoutSession, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	body := ""
	if values != nil {
		body = values.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, strings.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if values != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var stripeErr errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&stripeErr); err != nil {
			return nil, fmt.Errorf("stripe request failed with status %d", resp.StatusCode)
		}
		message := strings.TrimSpace(stripeErr.Error.Message)
		if message == "" {
			message = fmt.Sprintf("stripe request failed with status %d", resp.StatusCode)
		}
		return nil, errors.New(message)
	}

	var session checkoutSessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, err
	}
	if session.ID == "" {
		return nil, errors.New("stripe returned an invalid checkout session")
	}

	return &gateway.CheckoutSession{
		ID:              session.ID,
		URL:             session.URL,
		PaymentStatus:   session.PaymentStatus,
		PaymentIntentID: session.PaymentIntent,
		AmountTotal:     session.AmountTotal,
	}, nil
}
