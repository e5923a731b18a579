package service

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	authpkg "github.com/campus-desk/complaint-service/internal/auth"
	"github.com/campus-desk/complaint-service/internal/config"
	"github.com/campus-desk/complaint-service/internal/domain"
	"github.com/campus-desk/complaint-service/internal/repository"
	apperrors "github.com/campus-desk/complaint-service/pkg/util"
)

// UserAdminService handles administrator operations over user accounts.
type UserAdminService struct {
	users      repository.UserRepository
	bcryptCost int
}

// UserCreateInput describes admin user creation payload.
type UserCreateInput struct {
	Name       string
	Email      string
	Password   string
	Role       domain.Role
	Department string
}

// UserPage is one page of the admin user listing.
type UserPage struct {
	Users      []repository.UserWithComplaintCount
	TotalUsers int
}

// NewUserAdminService builds the service.
func NewUserAdminService(cfg config.Config, users repository.UserRepository) *UserAdminService {
	return &UserAdminService{users: users, bcryptCost: cfg.Auth.BcryptCost}
}

// List returns a page of users, each with their submitted-complaint count.
// The caller's own record is excluded from the listing.
func (s *UserAdminService) List(ctx context.Context, caller *authpkg.Principal, page, limit int, sortField, sortOrder string) (*UserPage, error) {
	if !authpkg.CanAccess(caller, authpkg.ActionUserList, nil) {
		return nil, apperrors.NewForbidden("admin role required")
	}

	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultAdminPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	users, err := s.users.ListExcluding(ctx, caller.User.ID, repository.UserListOptions{
		Limit:     limit,
		Offset:    (page - 1) * limit,
		SortField: sortField,
		SortOrder: sortOrder,
	})
	if err != nil {
		return nil, err
	}

	total, err := s.users.CountExcluding(ctx, caller.User.ID)
	if err != nil {
		return nil, err
	}

	return &UserPage{Users: users, TotalUsers: total}, nil
}

// Create registers a new account with an explicit role, on behalf of an admin.
func (s *UserAdminService) Create(ctx context.Context, caller *authpkg.Principal, input UserCreateInput) (*domain.User, error) {
	if !authpkg.CanAccess(caller, authpkg.ActionUserCreate, nil) {
		return nil, apperrors.NewForbidden("admin role required")
	}
	if err := validateUserInput(input); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("Email already registered", nil)
	} else if err != pgx.ErrNoRows {
		return nil, err
	}

	hash, err := authpkg.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         input.Name,
		Email:        email,
		PasswordHash: hash,
		Department:   input.Department,
		Role:         input.Role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func validateUserInput(input UserCreateInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return apperrors.NewValidationError("Name is required", nil)
	}
	if strings.TrimSpace(input.Email) == "" {
		return apperrors.NewValidationError("Email is required", nil)
	}
	if strings.TrimSpace(input.Password) == "" {
		return apperrors.NewValidationError("Password is required", nil)
	}
	if input.Role == "" {
		return apperrors.NewValidationError("Role is required", nil)
	}
	if !domain.ValidRole(input.Role) {
		return apperrors.NewValidationError("Invalid role", map[string]any{"role": input.Role})
	}
	if strings.TrimSpace(input.Department) == "" {
		return apperrors.NewValidationError("Department is required", nil)
	}
	return nil
}
