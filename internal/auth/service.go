package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/minicrm/minicrm/internal/shared"
)

// Notifier delivers account notifications out of band.
type Notifier interface {
	WelcomeEmail(ctx context.Context, email, name string) error
}

// DashboardPrimer schedules a dashboard cache warmup for one account
// so the first dashboard load is served from cache.
type DashboardPrimer interface {
	PrimeDashboard(ctx context.Context, userID string) error
}

// Service wraps authentication business rules.
type Service struct {
	repo     Repository
	tokens   *TokenStore
	notifier Notifier
	primer   DashboardPrimer
	logger   *slog.Logger
}

// NewService constructs a Service. The notifier and primer may be nil.
func NewService(repo Repository, tokens *TokenStore, notifier Notifier, primer DashboardPrimer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, tokens: tokens, notifier: notifier, primer: primer, logger: logger}
}

// RegisterRequest carries the fields required to create an account.
type RegisterRequest struct {
	Name     string      `json:"name" validate:"required,max=200"`
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=6"`
	Role     shared.Role `json:"role"`
}

// LoginRequest carries login credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register creates an account and issues a token for it.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*Token, error) {
	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", shared.ErrDuplicate)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = shared.RoleUser
	}
	user := User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		Role:         role,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.WelcomeEmail(ctx, user.Email, user.Name); err != nil {
			s.logger.Warn("enqueue welcome email", slog.Any("error", err))
		}
	}
	if s.primer != nil {
		if err := s.primer.PrimeDashboard(ctx, user.ID); err != nil {
			s.logger.Warn("enqueue dashboard warmup", slog.Any("error", err))
		}
	}

	return s.issueToken(ctx, user)
}

// Login validates credentials and issues a token.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*Token, error) {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return s.issueToken(ctx, *user)
}

// Logout revokes a previously issued token.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.tokens.Revoke(ctx, token)
}

// UserByToken resolves a bearer token into its account.
func (s *Service) UserByToken(ctx context.Context, token string) (*User, error) {
	userID, err := s.tokens.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: user not found", shared.ErrUnauthorized)
	}
	return user, nil
}

func (s *Service) issueToken(ctx context.Context, user User) (*Token, error) {
	token, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &Token{AccessToken: token, TokenType: "bearer", User: user}, nil
}
