package service

import (
	"context"
	"fmt"

	"github.com/inquizitive-iiitdwd/inquizitive.web/internal/models"
	"github.com/inquizitive-iiitdwd/inquizitive.web/pkg/validator"
)

type AdminStore interface {
	AddMember(ctx context.Context, m *models.Member) (*models.Member, error)
	ListMembers(ctx context.Context) ([]*models.Member, error)
	BlockEmail(ctx context.Context, email string) error
	UnblockEmail(ctx context.Context, email string) error
}

// AdminService backs the admin console: the club member roster and the
// registration blocklist.
type AdminService struct {
	admin AdminStore
}

func NewAdminService(admin AdminStore) *AdminService {
	return &AdminService{admin: admin}
}

func (s *AdminService) AddMember(ctx context.Context, m *models.Member) (*models.Member, error) {
	if m.Name == "" || m.Role == "" {
		return nil, fmt.Errorf("%w: member name and role are required", ErrInvalidInput)
	}
	return s.admin.AddMember(ctx, m)
}

func (s *AdminService) ListMembers(ctx context.Context) ([]*models.Member, error) {
	return s.admin.ListMembers(ctx)
}

// BlockEmail prevents the address from registering or logging in. Blocking
// an already blocked address is a no-op.
func (s *AdminService) BlockEmail(ctx context.Context, email string) error {
	email = validator.NormalizeEmail(email)
	if err := validator.ValidateEmail(email); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.admin.BlockEmail(ctx, email)
}

func (s *AdminService) UnblockEmail(ctx context.Context, email string) error {
	return s.admin.UnblockEmail(ctx, validator.NormalizeEmail(email))
}
