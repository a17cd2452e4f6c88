package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/ewhitmore/lawdesk/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	email    string
	name     string
	role     domain.Role
	password string
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		email:    fmt.Sprintf("user_%s@example.com", uuid.New().String()[:8]),
		name:     "Test User",
		role:     domain.RoleClient,
		password: "testpassword123",
	}
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

func (b *UserBuilder) WithName(name string) *UserBuilder {
	b.name = name
	return b
}

func (b *UserBuilder) WithRole(role domain.Role) *UserBuilder {
	b.role = role
	return b
}

func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        b.email,
		Name:         b.name,
		Role:         b.role,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// LoginResponse matches the API auth response
type LoginResponse struct {
	User struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"user"`
	Token       string `json:"token"`
	CallbackURL string `json:"callbackUrl"`
}

// BuildAndAuthenticate creates a user and logs in via the API, returning the
// user and session token.
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	user, password := b.Build(t, ts.DB.DB)

	reqBody := map[string]string{
		"email":    b.email,
		"password": password,
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(ts.APIURL("/auth/login"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to log in user: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}

	var loginResp LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}

	return user, loginResp.Token
}

// CaseBuilder creates test cases
type CaseBuilder struct {
	title    string
	clientID uuid.UUID
	lawyerID uuid.UUID
	status   domain.CaseStatus
}

func NewCaseBuilder(clientID, lawyerID uuid.UUID) *CaseBuilder {
	return &CaseBuilder{
		title:    "Contract Dispute",
		clientID: clientID,
		lawyerID: lawyerID,
		status:   domain.CaseStatusOpen,
	}
}

func (b *CaseBuilder) WithTitle(title string) *CaseBuilder {
	b.title = title
	return b
}

func (b *CaseBuilder) WithStatus(status domain.CaseStatus) *CaseBuilder {
	b.status = status
	return b
}

func (b *CaseBuilder) Build(t *testing.T, db *gorm.DB) *domain.Case {
	t.Helper()

	c := &domain.Case{
		ID:        uuid.New(),
		Title:     b.title,
		Status:    b.status,
		ClientID:  b.clientID,
		LawyerID:  b.lawyerID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := db.Create(c).Error; err != nil {
		t.Fatalf("failed to create case: %v", err)
	}
	return c
}

// QuoteBuilder creates test quotes
type QuoteBuilder struct {
	caseID      uuid.UUID
	amountCents int64
	status      domain.QuoteStatus
}

func NewQuoteBuilder(caseID uuid.UUID) *QuoteBuilder {
	return &QuoteBuilder{
		caseID:      caseID,
		amountCents: 10000,
		status:      domain.QuoteStatusAccepted,
	}
}

func (b *QuoteBuilder) WithAmountCents(amount int64) *QuoteBuilder {
	b.amountCents = amount
	return b
}

func (b *QuoteBuilder) WithStatus(status domain.QuoteStatus) *QuoteBuilder {
	b.status = status
	return b
}

func (b *QuoteBuilder) Build(t *testing.T, db *gorm.DB) *domain.Quote {
	t.Helper()

	quote := &domain.Quote{
		ID:          uuid.New(),
		CaseID:      b.caseID,
		AmountCents: b.amountCents,
		Status:      b.status,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := db.Create(quote).Error; err != nil {
		t.Fatalf("failed to create quote: %v", err)
	}
	return quote
}

// NotificationBuilder creates test notifications
type NotificationBuilder struct {
	userID uuid.UUID
	title  string
}

func NewNotificationBuilder(userID uuid.UUID) *NotificationBuilder {
	return &NotificationBuilder{
		userID: userID,
		title:  "Case Updated",
	}
}

func (b *NotificationBuilder) WithTitle(title string) *NotificationBuilder {
	b.title = title
	return b
}

func (b *NotificationBuilder) Build(t *testing.T, db *gorm.DB) *domain.Notification {
	t.Helper()

	n := &domain.Notification{
		ID:        uuid.New(),
		UserID:    b.userID,
		Type:      domain.NotificationCaseUpdated,
		Title:     b.title,
		Message:   "Something changed",
		CreatedAt: time.Now(),
	}

	if err := db.Create(n).Error; err != nil {
		t.Fatalf("failed to create notification: %v", err)
	}
	return n
}
