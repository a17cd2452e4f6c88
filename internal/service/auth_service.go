package service

import (
	"context"
	"errors"
	"time"

	"github.com/ewhitmore/lawdesk/internal/domain"
	"github.com/ewhitmore/lawdesk/internal/gateway"
	"github.com/ewhitmore/lawdesk/internal/repository"
	"github.com/ewhitmore/lawdesk/internal/session"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrProfileIncomplete  = errors.New("oauth profile is missing required fields")
	ErrUserNotFound       = errors.New("user not found")
)

type AuthService struct {
	userRepo repository.UserRepository
	tokens   *session.Manager
	provider gateway.ProfileProvider
	logger   zerolog.Logger
}

func NewAuthService(userRepo repository.UserRepository, tokens *session.Manager, provider gateway.ProfileProvider, logger zerolog.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		provider: provider,
		logger:   logger,
	}
}

type AuthResult struct {
	User        *domain.User
	Token       string
	LandingPath string
}

// Login authenticates an email/password pair. Every failure mode collapses
// into ErrInvalidCredentials so callers cannot probe which check failed.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueFor(user)
}

// GoogleAuthURL returns the provider's consent page URL.
func (s *AuthService) GoogleAuthURL(state string) string {
	return s.provider.AuthCodeURL(state)
}

// SignInWithGoogle completes the OAuth flow: exchanges the code for a
// profile and resolves the profile to a local user.
func (s *AuthService) SignInWithGoogle(ctx context.Context, code string) (*AuthResult, error) {
	profile, err := s.provider.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.SignInWithProfile(ctx, profile)
}

// SignInWithProfile resolves an OAuth profile to a user record. First
// sign-in creates the user as a CLIENT with a verified email; later
// sign-ins sync name and image but never touch the role.
func (s *AuthService) SignInWithProfile(ctx context.Context, profile *gateway.Profile) (*AuthResult, error) {
	if profile == nil || profile.Subject == "" || profile.Email == "" {
		return nil, ErrProfileIncomplete
	}

	user, err := s.userRepo.GetByEmail(ctx, profile.Email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		now := time.Now()
		user = &domain.User{
			ID:              uuid.New(),
			Email:           profile.Email,
			Name:            profile.Name,
			Image:           profile.Picture,
			Role:            domain.RoleClient,
			EmailVerifiedAt: &now,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
		return s.issueFor(user)
	}

	if user.Name != profile.Name || user.Image != profile.Picture {
		if err := s.userRepo.UpdateProfile(ctx, user.ID, profile.Name, profile.Picture); err != nil {
			return nil, err
		}
		user.Name = profile.Name
		user.Image = profile.Picture
	}

	return s.issueFor(user)
}

func (s *AuthService) issueFor(user *domain.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		User:        user,
		Token:       token,
		LandingPath: user.Role.LandingPath(),
	}, nil
}

// ParseToken verifies a session token.
func (s *AuthService) ParseToken(tokenString string) (*session.Claims, error) {
	return s.tokens.Parse(tokenString)
}

// RefreshClaims re-reads the role from the store when the token has gone
// stale. A store failure is downgraded to a no-op so a transient outage
// never breaks an otherwise valid session.
func (s *AuthService) RefreshClaims(ctx context.Context, claims *session.Claims) (*session.Claims, string, bool) {
	if claims.State(time.Now(), s.tokens.RefreshWindow()) == session.Fresh {
		return claims, "", false
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return claims, "", false
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", claims.UserID).Msg("role refresh failed, keeping cached session")
		return claims, "", false
	}

	refreshed, token, err := s.tokens.Reissue(claims, user.Role)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", claims.UserID).Msg("failed to reissue session token")
		return claims, "", false
	}

	return refreshed, token, true
}

func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
