package postgres

import (
	"context"

	"github.com/ewhitmore/lawdesk/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type quoteRepository struct {
	db *gorm.DB
}

func NewQuoteRepository(db *gorm.DB) *quoteRepository {
	return &quoteRepository{db: db}
}

func (r *quoteRepository) Create(ctx context.Context, quote *domain.Quote) error {
	return r.db.WithContext(ctx).Create(quote).Error
}

func (r *quoteRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quote, error) {
	var quote domain.Quote
	err := r.db.WithContext(ctx).
		Preload("Case").
		First(&quote, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

func (r *quoteRepository) GetAcceptedForClient(ctx context.Context, id, clientID uuid.UUID) (*domain.Quote, error) {
	var quote domain.Quote
	err := r.db.WithContext(ctx).
		Preload("Case").
		Preload("Case.Client").
		Joins("JOIN cases ON cases.id = quotes.case_id").
		Where("quotes.id = ? AND cases.client_id = ? AND quotes.status = ?", id, clientID, domain.QuoteStatusAccepted).
		First(&quote).Error
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

func (r *quoteRepository) ListByCaseID(ctx context.Context, caseID uuid.UUID) ([]*domain.Quote, error) {
	var quotes []*domain.Quote
	err := r.db.WithContext(ctx).
		Where("case_id = ?", caseID).
		Order("created_at DESC").
		Find(&quotes).Error
	if err != nil {
		return nil, err
	}
	return quotes, nil
}

func (r *quoteRepository) Update(ctx context.Context, quote *domain.Quote) error {
	return r.db.WithContext(ctx).Save(quote).Error
}
