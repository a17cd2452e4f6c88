// Package google exchanges a Google OAuth authorization code for a profile.
package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ewhitmore/lawdesk/internal/gateway"
)

const (
	authURL     = "https://accounts.google.com/o/oauth2/v2/auth"
	tokenURL    = "https://oauth2.googleapis.com/token"
	userinfoURL = "https://openidconnect.googleapis.com/v1/userinfo"
)

var ErrExchangeFailed = errors.New("google code exchange failed")

type Client struct {
	clientID     string
	clientSecret string
	redirectURL  string
	tokenURL     string
	userinfoURL  string
	client       *http.Client
}

func NewClient(clientID, clientSecret, redirectURL string) *Client {
	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURL:  redirectURL,
		tokenURL:     tokenURL,
		userinfoURL:  userinfoURL,
		client:       &http.Client{Timeout: 10 * time.Second},
	}
}

// NewClientWithEndpoints overrides the provider endpoints. Used by tests.
func NewClientWithEndpoints(clientID, clientSecret, redirectURL, tokenEndpoint, userinfoEndpoint string) *Client {
	c := NewClient(clientID, clientSecret, redirectURL)
	c.tokenURL = tokenEndpoint
	c.userinfoURL = userinfoEndpoint
	return c
}

func (c *Client) AuthCodeURL(state string) string {
	values := url.Values{}
	values.Set("client_id", c.clientID)
	values.Set("redirect_uri", c.redirectURL)
	values.Set("response_type", "code")
	values.Set("scope", "openid email profile")
	values.Set("state", state)
	values.Set("access_type", "offline")
	values.Set("prompt", "consent")
	return authURL + "?" + values.Encode()
}

func (c *Client) ExchangeCode(ctx context.Context, code string) (*gateway.Profile, error) {
	token, err := c.exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	return c.fetchProfile(ctx, token)
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (c *Client) exchange(ctx context.Context, code string) (string, error) {
	values := url.Values{}
	values.Set("code", code)
	values.Set("client_id", c.clientID)
	values.Set("client_secret", c.clientSecret)
	values.Set("redirect_uri", c.redirectURL)
	values.Set("grant_type", "authorization_code")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(values.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrExchangeFailed, resp.StatusCode)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", err
	}
	if token.AccessToken == "" {
		return "", ErrExchangeFailed
	}
	return token.AccessToken, nil
}

type userinfoResponse struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (c *Client) fetchProfile(ctx context.Context, accessToken string) (*gateway.Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userinfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: userinfo status %d", ErrExchangeFailed, resp.StatusCode)
	}

	var info userinfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}

	return &gateway.Profile{
		Subject: info.Sub,
		Email:   info.Email,
		Name:    info.Name,
		Picture: info.Picture,
	}, nil
}
