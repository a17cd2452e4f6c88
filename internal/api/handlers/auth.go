package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ewhitmore/lawdesk/internal/api/middleware"
	"github.com/ewhitmore/lawdesk/internal/config"
	"github.com/ewhitmore/lawdesk/internal/service"
	"github.com/ewhitmore/lawdesk/internal/session"
)

type AuthHandler struct {
	authService *service.AuthService
	cfg         *config.Config
}

func NewAuthHandler(authService *service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type GoogleCallbackRequest struct {
	Code     string `json:"code"`
	Redirect string `json:"redirect"`
}

type AuthResponse struct {
	User        UserResponse `json:"user"`
	Token       string       `json:"token"`
	CallbackURL string       `json:"callbackUrl"`
}

type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Image string `json:"image,omitempty"`
	Role  string `json:"role"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, h.authResponse(result, ""))
}

// GoogleURL hands the UI the provider consent page URL.
func (h *AuthHandler) GoogleURL(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	if state == "" {
		buf := make([]byte, 16)
		if _, err := rand.Read(buf); err != nil {
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		state = hex.EncodeToString(buf)
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"url":   h.authService.GoogleAuthURL(state),
		"state": state,
	})
}

func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	var req GoogleCallbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Code == "" {
		respondError(w, http.StatusBadRequest, "Authorization code is required")
		return
	}

	result, err := h.authService.SignInWithGoogle(r.Context(), req.Code)
	if err != nil {
		// All sign-in failures collapse into one generic response.
		respondError(w, http.StatusUnauthorized, "Authentication failed")
		return
	}

	respondJSON(w, http.StatusOK, h.authResponse(result, req.Redirect))
}

// Session projects the verified token into the externally visible session.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	respondJSON(w, http.StatusOK, claims.Project())
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	// Session tokens are self-contained; the client discards its copy.
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AuthHandler) authResponse(result *service.AuthResult, redirect string) AuthResponse {
	callbackURL := result.LandingPath
	if redirect != "" {
		callbackURL = session.ResolveRedirect(redirect, h.cfg.BaseURL)
	}

	return AuthResponse{
		User: UserResponse{
			ID:    result.User.ID.String(),
			Email: result.User.Email,
			Name:  result.User.Name,
			Image: result.User.Image,
			Role:  result.User.Role.String(),
		},
		Token:       result.Token,
		CallbackURL: callbackURL,
	}
}
