package postgres

import (
	"context"

	"github.com/ewhitmore/lawdesk/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type caseRepository struct {
	db *gorm.DB
}

func NewCaseRepository(db *gorm.DB) *caseRepository {
	return &caseRepository{db: db}
}

func (r *caseRepository) Create(ctx context.Context, c *domain.Case) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *caseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Case, error) {
	var c domain.Case
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Lawyer").
		First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetForUser scopes the lookup to cases the user participates in, so a
// foreign case is indistinguishable from a missing one.
func (r *caseRepository) GetForUser(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*domain.Case, error) {
	var c domain.Case
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Lawyer").
		Where("id = ?", id).
		Where("client_id = ? OR lawyer_id = ?", userID, userID).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *caseRepository) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Case, error) {
	var cases []*domain.Case
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Lawyer").
		Where("client_id = ? OR lawyer_id = ?", userID, userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&cases).Error
	if err != nil {
		return nil, err
	}
	return cases, nil
}
