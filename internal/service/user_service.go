package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/nwced/clc-registry-api/internal/models"
	"github.com/nwced/clc-registry-api/internal/store"
	appErrors "github.com/nwced/clc-registry-api/pkg/errors"
)

// CreateUserRequest holds payload for provisioning a user account.
type CreateUserRequest struct {
	Username string          `json:"username" validate:"required,min=3"`
	Password string          `json:"password" validate:"required,min=8"`
	Name     string          `json:"name" validate:"required"`
	Role     models.UserRole `json:"role" validate:"required,oneof=ADMIN PROJECT_MANAGER DATA_ANALYST FIELD_ASSESSOR VIEWER"`
	Email    string          `json:"email" validate:"omitempty,email"`
	Phone    string          `json:"phone"`
}

// UserService handles account management use-cases.
type UserService struct {
	users     store.Users
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs the user service.
func NewUserService(users store.Users, validate *validator.Validate, logger *zap.Logger) *UserService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{users: users, validator: validate, logger: logger}
}

// List returns accounts matching the filter plus pagination metadata.
// Password hashes never leave the model's JSON boundary.
func (s *UserService) List(ctx context.Context, filter models.UserFilter) ([]models.User, *models.Pagination, error) {
	rows, err := s.users.GetAll(ctx)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}

	filtered := make([]models.User, 0, len(rows))
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	for _, user := range rows {
		if filter.Role != nil && user.Role != *filter.Role {
			continue
		}
		if filter.Active != nil && user.Active != *filter.Active {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(user.Username), search) &&
			!strings.Contains(strings.ToLower(user.Name), search) {
			continue
		}
		filtered = append(filtered, user)
	}

	sortUsers(filtered, filter.SortBy, filter.SortOrder)

	page, size, pagination := paginate(len(filtered), filter.Page, filter.PageSize)
	return pageSlice(filtered, page, size), pagination, nil
}

// Get returns a single account by internal id.
func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.users.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	return user, nil
}

// Create provisions an account. The plaintext password is hashed with bcrypt
// before it reaches the store and is never persisted or returned.
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid user payload")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.User{
		Username:     strings.TrimSpace(strings.ToLower(req.Username)),
		PasswordHash: string(hash),
		Name:         req.Name,
		Role:         req.Role,
		Email:        req.Email,
		Phone:        req.Phone,
		Active:       true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateID) {
			return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("username %s already taken", user.Username))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create user")
	}
	return user, nil
}

// Update applies a partial update to an account.
func (s *UserService) Update(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error) {
	if patch.Role != nil {
		switch *patch.Role {
		case models.RoleAdmin, models.RoleProjectManager, models.RoleDataAnalyst, models.RoleFieldAssessor, models.RoleViewer:
		default:
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown role %q", *patch.Role))
		}
	}

	user, err := s.users.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update user")
	}
	return user, nil
}

// Deactivate soft-disables an account and revokes its sessions.
func (s *UserService) Deactivate(ctx context.Context, id int64) error {
	inactive := false
	if _, err := s.users.Update(ctx, id, models.UserPatch{Active: &inactive}); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate user")
	}
	if err := s.users.RevokeUserRefreshTokens(ctx, id); err != nil {
		s.logger.Warn("failed to revoke refresh tokens for deactivated user", zap.Int64("user_id", id), zap.Error(err))
	}
	return nil
}

func sortUsers(rows []models.User, sortBy, sortOrder string) {
	less := func(a, b models.User) bool { return a.ID < b.ID }
	switch sortBy {
	case "username":
		less = func(a, b models.User) bool { return a.Username < b.Username }
	case "name":
		less = func(a, b models.User) bool { return a.Name < b.Name }
	case "role":
		less = func(a, b models.User) bool { return a.Role < b.Role }
	}
	desc := strings.EqualFold(sortOrder, "desc")
	sort.SliceStable(rows, func(i, j int) bool {
		if desc {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})
}
