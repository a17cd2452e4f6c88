package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType tags the event a notification describes
type NotificationType string

const (
	NotificationPaymentReceived NotificationType = "PAYMENT_RECEIVED"
	NotificationQuoteAccepted   NotificationType = "QUOTE_ACCEPTED"
	NotificationCaseUpdated     NotificationType = "CASE_UPDATED"
)

type Notification struct {
	ID          uuid.UUID        `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID      uuid.UUID        `json:"userId" gorm:"type:uuid;not null;index"`
	Type        NotificationType `json:"type" gorm:"type:varchar(32);not null"`
	Title       string           `json:"title" gorm:"not null"`
	Message     string           `json:"message"`
	ReferenceID *uuid.UUID       `json:"referenceId" gorm:"type:uuid"`
	ReadAt      *time.Time       `json:"readAt"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// IsRead reports whether the recipient has seen the notification
func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}
