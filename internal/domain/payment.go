package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PaymentStatus represents the state of a checkout attempt
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
)

// Payment records one checkout attempt against a quote. The gateway's
// checkout session id is unique so a session can settle at most once.
type Payment struct {
	ID                uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	QuoteID           uuid.UUID      `json:"quoteId" gorm:"type:uuid;not null;index"`
	ClientID          uuid.UUID      `json:"clientId" gorm:"type:uuid;not null;index"`
	CheckoutSessionID string         `json:"checkoutSessionId" gorm:"uniqueIndex;not null"`
	AmountCents       int64          `json:"amountCents" gorm:"not null"`
	Status            PaymentStatus  `json:"status" gorm:"type:varchar(16);not null;default:'PENDING'"`
	Metadata          datatypes.JSON `json:"metadata"`
	PaidAt            *time.Time     `json:"paidAt"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}
