package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ewhitmore/lawdesk/internal/domain"
	"github.com/ewhitmore/lawdesk/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Publisher pushes a freshly created notification to any live subscriber,
// typically the websocket hub.
type Publisher interface {
	Publish(n *domain.Notification)
}

type NotificationService struct {
	notificationRepo repository.NotificationRepository
	publisher        Publisher
	logger           zerolog.Logger
}

func NewNotificationService(notificationRepo repository.NotificationRepository, publisher Publisher, logger zerolog.Logger) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		publisher:        publisher,
		logger:           logger,
	}
}

func (s *NotificationService) Create(ctx context.Context, n *domain.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	if err := s.notificationRepo.Create(ctx, n); err != nil {
		return err
	}

	if s.publisher != nil {
		s.publisher.Publish(n)
	}
	return nil
}

// NotifyPaymentReceived tells the responsible lawyer a quote was settled.
func (s *NotificationService) NotifyPaymentReceived(ctx context.Context, lawyerID uuid.UUID, quote *domain.Quote) error {
	caseTitle := ""
	if quote.Case != nil {
		caseTitle = quote.Case.Title
	}

	refID := quote.ID
	return s.Create(ctx, &domain.Notification{
		UserID:      lawyerID,
		Type:        domain.NotificationPaymentReceived,
		Title:       "Payment Received",
		Message:     fmt.Sprintf("Payment of $%.2f received for case %q", float64(quote.AmountCents)/100, caseTitle),
		ReferenceID: &refID,
	})
}

func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.notificationRepo.ListByUserID(ctx, userID, limit, offset)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.notificationRepo.CountUnread(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	err := s.notificationRepo.MarkRead(ctx, id, userID, time.Now())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotificationNotFound
	}
	return err
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.notificationRepo.MarkAllRead(ctx, userID, time.Now())
}
