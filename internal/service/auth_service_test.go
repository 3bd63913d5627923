package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/nwced/clc-registry-api/internal/models"
	"github.com/nwced/clc-registry-api/internal/store"
	appErrors "github.com/nwced/clc-registry-api/pkg/errors"
)

func testAuthConfig() AuthConfig {
	return AuthConfig{
		AccessTokenSecret:  "secret",
		AccessTokenExpiry:  time.Hour,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "clc-registry-api",
	}
}

func seedUser(t *testing.T, users store.Users, username, password string, active bool) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		Name:         "Test User",
		Role:         models.RoleAdmin,
		Active:       active,
	}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func TestAuthServiceLoginIssuesTokens(t *testing.T) {
	tables := newTestTables()
	user := seedUser(t, tables.Users, "admin", "password123", true)
	svc := NewAuthService(tables.Users, nil, nil, testAuthConfig())

	res, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "password123"})
	require.NoError(t, err)

	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)
	assert.Equal(t, user.ID, res.User.ID)
	assert.Equal(t, models.RoleAdmin, res.User.Role)

	stored, err := tables.Users.Get(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLogin)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	tables := newTestTables()
	seedUser(t, tables.Users, "admin", "password123", true)
	svc := NewAuthService(tables.Users, nil, nil, testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "nope-nope"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginUnknownUser(t *testing.T) {
	svc := NewAuthService(newTestTables().Users, nil, nil, testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "ghost", Password: "password123"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginInactiveAccount(t *testing.T) {
	tables := newTestTables()
	seedUser(t, tables.Users, "former", "password123", false)
	svc := NewAuthService(tables.Users, nil, nil, testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "former", Password: "password123"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceRefreshRotatesToken(t *testing.T) {
	tables := newTestTables()
	seedUser(t, tables.Users, "admin", "password123", true)
	svc := NewAuthService(tables.Users, nil, nil, testAuthConfig())

	login, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "password123"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// the old token was revoked during rotation
	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.Error(t, err)
}

func TestAuthServiceValidateToken(t *testing.T) {
	tables := newTestTables()
	user := seedUser(t, tables.Users, "admin", "password123", true)
	svc := NewAuthService(tables.Users, nil, nil, testAuthConfig())

	login, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "password123"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, models.RoleAdmin, claims.Role)

	_, err = svc.ValidateToken("not-a-jwt")
	require.Error(t, err)
}

func TestAuthServiceChangePassword(t *testing.T) {
	tables := newTestTables()
	user := seedUser(t, tables.Users, "admin", "password123", true)
	svc := NewAuthService(tables.Users, nil, nil, testAuthConfig())

	err := svc.ChangePassword(context.Background(), user.ID, models.ChangePasswordRequest{
		OldPassword: "password123",
		NewPassword: "replacement-9",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "password123"})
	require.Error(t, err)

	_, err = svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "replacement-9"})
	require.NoError(t, err)
}

func TestAuthServiceChangePasswordWrongOld(t *testing.T) {
	tables := newTestTables()
	user := seedUser(t, tables.Users, "admin", "password123", true)
	svc := NewAuthService(tables.Users, nil, nil, testAuthConfig())

	err := svc.ChangePassword(context.Background(), user.ID, models.ChangePasswordRequest{
		OldPassword: "wrong-guess",
		NewPassword: "replacement-9",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLogoutRevokesToken(t *testing.T) {
	tables := newTestTables()
	user := seedUser(t, tables.Users, "admin", "password123", true)
	svc := NewAuthService(tables.Users, nil, nil, testAuthConfig())

	login, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), login.RefreshToken, user.ID))

	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.Error(t, err)
}
