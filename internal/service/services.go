package service

import (
	"github.com/ewhitmore/lawdesk/internal/config"
	"github.com/ewhitmore/lawdesk/internal/gateway"
	"github.com/ewhitmore/lawdesk/internal/repository"
	"github.com/ewhitmore/lawdesk/internal/session"
	"github.com/rs/zerolog"
)

type Services struct {
	Auth         *AuthService
	Billing      *BillingService
	Case         *CaseService
	Notification *NotificationService
}

func NewServices(
	repos *repository.Repositories,
	cfg *config.Config,
	tokens *session.Manager,
	checkout gateway.Checkout,
	oauth gateway.ProfileProvider,
	publisher Publisher,
	logger zerolog.Logger,
) *Services {
	notifications := NewNotificationService(repos.Notification, publisher, logger)

	return &Services{
		Auth:         NewAuthService(repos.User, tokens, oauth, logger),
		Billing:      NewBillingService(repos.Quote, repos.Payment, checkout, notifications, cfg.BaseURL, logger),
		Case:         NewCaseService(repos.Case, repos.Quote),
		Notification: notifications,
	}
}
