package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/nwced/clc-registry-api/internal/models"
	appErrors "github.com/nwced/clc-registry-api/pkg/errors"
)

func validUserRequest(username string) CreateUserRequest {
	return CreateUserRequest{
		Username: username,
		Password: "password123",
		Name:     "Dana Field",
		Role:     models.RoleFieldAssessor,
	}
}

func TestUserServiceCreateHashesPassword(t *testing.T) {
	svc := NewUserService(newTestTables().Users, nil, nil)

	user, err := svc.Create(context.Background(), validUserRequest("dana"))
	require.NoError(t, err)

	assert.NotEqual(t, "password123", user.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
	assert.True(t, user.Active)
}

func TestUserServicePasswordHashNeverSerialized(t *testing.T) {
	svc := NewUserService(newTestTables().Users, nil, nil)

	user, err := svc.Create(context.Background(), validUserRequest("dana"))
	require.NoError(t, err)

	payload, err := json.Marshal(user)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.NotContains(t, decoded, "password_hash")
	assert.NotContains(t, string(payload), user.PasswordHash)
}

func TestUserServiceCreateNormalizesUsername(t *testing.T) {
	svc := NewUserService(newTestTables().Users, nil, nil)

	user, err := svc.Create(context.Background(), validUserRequest("  Dana "))
	require.NoError(t, err)
	assert.Equal(t, "dana", user.Username)
}

func TestUserServiceCreateDuplicateUsername(t *testing.T) {
	svc := NewUserService(newTestTables().Users, nil, nil)

	_, err := svc.Create(context.Background(), validUserRequest("dana"))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), validUserRequest("dana"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestUserServiceCreateRejectsShortPassword(t *testing.T) {
	svc := NewUserService(newTestTables().Users, nil, nil)

	req := validUserRequest("dana")
	req.Password = "short"
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestUserServiceUpdateRejectsUnknownRole(t *testing.T) {
	tables := newTestTables()
	svc := NewUserService(tables.Users, nil, nil)

	user, err := svc.Create(context.Background(), validUserRequest("dana"))
	require.NoError(t, err)

	bogus := models.UserRole("SUPERUSER")
	_, err = svc.Update(context.Background(), user.ID, models.UserPatch{Role: &bogus})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestUserServiceDeactivate(t *testing.T) {
	tables := newTestTables()
	svc := NewUserService(tables.Users, nil, nil)

	user, err := svc.Create(context.Background(), validUserRequest("dana"))
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(context.Background(), user.ID))

	stored, err := tables.Users.Get(context.Background(), user.ID)
	require.NoError(t, err)
	assert.False(t, stored.Active)
}

func TestUserServiceListFiltersByRole(t *testing.T) {
	svc := NewUserService(newTestTables().Users, nil, nil)

	_, err := svc.Create(context.Background(), validUserRequest("dana"))
	require.NoError(t, err)
	admin := validUserRequest("root")
	admin.Role = models.RoleAdmin
	_, err = svc.Create(context.Background(), admin)
	require.NoError(t, err)

	role := models.RoleAdmin
	rows, pagination, err := svc.List(context.Background(), models.UserFilter{Role: &role})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "root", rows[0].Username)
	assert.Equal(t, 1, pagination.TotalCount)
}
