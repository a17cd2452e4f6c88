package service

import (
	"context"
	"errors"

	"github.com/ewhitmore/lawdesk/internal/domain"
	"github.com/ewhitmore/lawdesk/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CaseService struct {
	caseRepo  repository.CaseRepository
	quoteRepo repository.QuoteRepository
}

func NewCaseService(caseRepo repository.CaseRepository, quoteRepo repository.QuoteRepository) *CaseService {
	return &CaseService{
		caseRepo:  caseRepo,
		quoteRepo: quoteRepo,
	}
}

func (s *CaseService) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Case, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.caseRepo.ListForUser(ctx, userID, limit, offset)
}

// Get scopes the lookup to the caller's own cases; anything else is
// reported as not found.
func (s *CaseService) Get(ctx context.Context, id, userID uuid.UUID) (*domain.Case, error) {
	c, err := s.caseRepo.GetForUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCaseNotFound
		}
		return nil, err
	}
	return c, nil
}

// ListQuotes returns the quotes of a case the caller participates in.
func (s *CaseService) ListQuotes(ctx context.Context, caseID, userID uuid.UUID) ([]*domain.Quote, error) {
	if _, err := s.Get(ctx, caseID, userID); err != nil {
		return nil, err
	}
	return s.quoteRepo.ListByCaseID(ctx, caseID)
}
