package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/minicrm/minicrm/internal/shared"
)

// EnsureSeedUsers creates the sample admin and regular accounts.
// It reports existed=true without touching anything when any user
// already exists.
func (s *Service) EnsureSeedUsers(ctx context.Context) (adminID, regularID string, existed bool, err error) {
	count, err := s.repo.CountUsers(ctx)
	if err != nil {
		return "", "", false, err
	}
	if count > 0 {
		return "", "", true, nil
	}

	admin, err := s.seedUser(ctx, "Admin User", "admin@minicrm.com", "admin123", shared.RoleAdmin)
	if err != nil {
		return "", "", false, err
	}
	regular, err := s.seedUser(ctx, "John Doe", "john@minicrm.com", "user123", shared.RoleUser)
	if err != nil {
		return "", "", false, err
	}
	return admin.ID, regular.ID, false, nil
}

func (s *Service) seedUser(ctx context.Context, name, email, password string, role shared.Role) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash seed password: %w", err)
	}
	user := User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		Role:         role,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return &user, nil
}
