package repository

import (
	"context"
	"time"

	"github.com/ewhitmore/lawdesk/internal/domain"
	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, name, image string) error
}

type CaseRepository interface {
	Create(ctx context.Context, c *domain.Case) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Case, error)
	GetForUser(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*domain.Case, error)
	ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Case, error)
}

type QuoteRepository interface {
	Create(ctx context.Context, quote *domain.Quote) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Quote, error)
	// GetAcceptedForClient returns the quote only when it belongs to a case
	// owned by the given client and is in ACCEPTED status.
	GetAcceptedForClient(ctx context.Context, id, clientID uuid.UUID) (*domain.Quote, error)
	ListByCaseID(ctx context.Context, caseID uuid.UUID) ([]*domain.Quote, error)
	Update(ctx context.Context, quote *domain.Quote) error
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetBySessionID(ctx context.Context, sessionID string) (*domain.Payment, error)
	// Settle atomically marks the payments for (sessionID, clientID) as
	// COMPLETED and transitions the quote to PAID. Both updates are
	// status-guarded so a session reference settles at most once. The
	// bool reports whether this call performed the transition; a retry
	// against an already-paid quote returns false. Returns the settled
	// quote with its case preloaded.
	Settle(ctx context.Context, sessionID string, clientID, quoteID uuid.UUID, paidAt time.Time) (*domain.Quote, bool, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID, readAt time.Time) error
	MarkAllRead(ctx context.Context, userID uuid.UUID, readAt time.Time) error
}

type Repositories struct {
	User         UserRepository
	Case         CaseRepository
	Quote        QuoteRepository
	Payment      PaymentRepository
	Notification NotificationRepository
}
