package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ewhitmore/lawdesk/internal/api/middleware"
	"github.com/ewhitmore/lawdesk/internal/domain"
	"github.com/ewhitmore/lawdesk/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type CaseHandler struct {
	caseService *service.CaseService
}

func NewCaseHandler(caseService *service.CaseService) *CaseHandler {
	return &CaseHandler{caseService: caseService}
}

func (h *CaseHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	cases, err := h.caseService.ListForUser(r.Context(), userID, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"cases": cases})
}

func (h *CaseHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	caseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid case id")
		return
	}

	c, err := h.caseService.Get(r.Context(), caseID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrCaseNotFound) {
			respondError(w, http.StatusNotFound, "Case not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, c)
}

func (h *CaseHandler) ListQuotes(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	caseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid case id")
		return
	}

	quotes, err := h.caseService.ListQuotes(r.Context(), caseID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrCaseNotFound) {
			respondError(w, http.StatusNotFound, "Case not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"quotes": quotes})
}
