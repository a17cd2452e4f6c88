package domain

import (
	"time"

	"github.com/google/uuid"
)

// CaseStatus represents the lifecycle state of a legal case
type CaseStatus string

const (
	CaseStatusOpen       CaseStatus = "OPEN"
	CaseStatusInProgress CaseStatus = "IN_PROGRESS"
	CaseStatusClosed     CaseStatus = "CLOSED"
)

type Case struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description"`
	Status      CaseStatus `json:"status" gorm:"type:varchar(16);not null;default:'OPEN'"`
	ClientID    uuid.UUID  `json:"clientId" gorm:"type:uuid;not null;index"`
	LawyerID    uuid.UUID  `json:"lawyerId" gorm:"type:uuid;not null;index"`
	Client      *User      `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	Lawyer      *User      `json:"lawyer,omitempty" gorm:"foreignKey:LawyerID"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// QuoteStatus represents the lifecycle state of a price quote. The payment
// workflow only ever performs the ACCEPTED -> PAID transition.
type QuoteStatus string

const (
	QuoteStatusPending  QuoteStatus = "PENDING"
	QuoteStatusAccepted QuoteStatus = "ACCEPTED"
	QuoteStatusRejected QuoteStatus = "REJECTED"
	QuoteStatusPaid     QuoteStatus = "PAID"
)

// IsValid checks if a quote status is valid
func (s QuoteStatus) IsValid() bool {
	switch s {
	case QuoteStatusPending, QuoteStatusAccepted, QuoteStatusRejected, QuoteStatusPaid:
		return true
	}
	return false
}

// Quote is a priced estimate for legal services tied to one case. Amounts
// are stored in the smallest currency unit (cents).
type Quote struct {
	ID          uuid.UUID   `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CaseID      uuid.UUID   `json:"caseId" gorm:"type:uuid;not null;index"`
	Case        *Case       `json:"case,omitempty" gorm:"foreignKey:CaseID"`
	Description string      `json:"description"`
	AmountCents int64       `json:"amountCents" gorm:"not null"`
	Status      QuoteStatus `json:"status" gorm:"type:varchar(16);not null;default:'PENDING'"`
	PaidAt      *time.Time  `json:"paidAt"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}
