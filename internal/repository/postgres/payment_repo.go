package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/ewhitmore/lawdesk/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *paymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepository) GetBySessionID(ctx context.Context, sessionID string) (*domain.Payment, error) {
	var payment domain.Payment
	err := r.db.WithContext(ctx).First(&payment, "checkout_session_id = ?", sessionID).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// Settle applies the payment completion and the quote transition in one
// transaction. Both updates are conditional on the current status, so two
// concurrent verifications of the same checkout session cannot both settle.
func (r *paymentRepository) Settle(ctx context.Context, sessionID string, clientID, quoteID uuid.UUID, paidAt time.Time) (*domain.Quote, bool, error) {
	settled := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Quote{}).
			Where("id = ? AND status = ?", quoteID, domain.QuoteStatusAccepted).
			Updates(map[string]interface{}{
				"status":  domain.QuoteStatusPaid,
				"paid_at": paidAt,
			})
		if res.Error != nil {
			return res.Error
		}
		settled = res.RowsAffected > 0

		if res.RowsAffected == 0 {
			var quote domain.Quote
			if err := tx.First(&quote, "id = ?", quoteID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domain.ErrQuoteNotFound
				}
				return err
			}
			// An already-paid quote makes the retry a no-op rather
			// than an error; anything else is not payable.
			if quote.Status != domain.QuoteStatusPaid {
				return domain.ErrQuoteNotPayable
			}
		}

		return tx.Model(&domain.Payment{}).
			Where("checkout_session_id = ? AND client_id = ? AND status <> ?",
				sessionID, clientID, domain.PaymentStatusCompleted).
			Updates(map[string]interface{}{
				"status":  domain.PaymentStatusCompleted,
				"paid_at": paidAt,
			}).Error
	})
	if err != nil {
		return nil, false, err
	}

	var quote domain.Quote
	err = r.db.WithContext(ctx).
		Preload("Case").
		Preload("Case.Lawyer").
		First(&quote, "id = ?", quoteID).Error
	if err != nil {
		return nil, false, err
	}
	return &quote, settled, nil
}
