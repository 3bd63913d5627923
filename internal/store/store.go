// Package store defines the persistence contract for the registry entities.
// Two implementations exist: the sqlx/PostgreSQL repositories under
// internal/repository and the in-memory arena under internal/store/memory,
// which doubles as the test fixture and the DB_DRIVER=memory backend.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/nwced/clc-registry-api/internal/models"
)

// ErrNotFound is returned by point lookups and by Update on an unknown
// internal id. Absence on a read is an expected outcome; on Update it is a
// hard error that the boundary layer maps to a missing-resource response.
var ErrNotFound = errors.New("store: row not found")

// ErrDuplicateID is returned when a caller-supplied business identifier
// (siteId, staffId, assetId, programId, username) is already taken.
var ErrDuplicateID = errors.New("store: duplicate business identifier")

// Sites persists site rows. GetAll preserves insertion order; no other
// ordering is guaranteed.
type Sites interface {
	GetAll(ctx context.Context) ([]models.Site, error)
	Get(ctx context.Context, id int64) (*models.Site, error)
	Create(ctx context.Context, site *models.Site) error
	Update(ctx context.Context, id int64, patch models.SitePatch) (*models.Site, error)
	Delete(ctx context.Context, id int64) (bool, error)
	RecordVisit(ctx context.Context, id int64, visitorID int64, visitedAt time.Time) (*models.Site, error)
}

// Staff persists staff rows.
type Staff interface {
	GetAll(ctx context.Context) ([]models.Staff, error)
	Get(ctx context.Context, id int64) (*models.Staff, error)
	GetBySite(ctx context.Context, siteID int64) ([]models.Staff, error)
	Create(ctx context.Context, staff *models.Staff) error
	Update(ctx context.Context, id int64, patch models.StaffPatch) (*models.Staff, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// Assets persists asset rows.
type Assets interface {
	GetAll(ctx context.Context) ([]models.Asset, error)
	Get(ctx context.Context, id int64) (*models.Asset, error)
	GetBySite(ctx context.Context, siteID int64) ([]models.Asset, error)
	Create(ctx context.Context, asset *models.Asset) error
	Update(ctx context.Context, id int64, patch models.AssetPatch) (*models.Asset, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// Programs persists program rows.
type Programs interface {
	GetAll(ctx context.Context) ([]models.Program, error)
	Get(ctx context.Context, id int64) (*models.Program, error)
	GetBySite(ctx context.Context, siteID int64) ([]models.Program, error)
	Create(ctx context.Context, program *models.Program) error
	Update(ctx context.Context, id int64, patch models.ProgramPatch) (*models.Program, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// Activities persists the append-only audit trail. Create stamps the
// timestamp. UpdateStatus and Delete exist for the recommendation subtype
// only; the service layer enforces that restriction.
type Activities interface {
	GetAll(ctx context.Context) ([]models.Activity, error)
	Get(ctx context.Context, id int64) (*models.Activity, error)
	GetBySite(ctx context.Context, siteID int64) ([]models.Activity, error)
	List(ctx context.Context, filter models.ActivityFilter) ([]models.Activity, int, error)
	Create(ctx context.Context, activity *models.Activity) error
	UpdateStatus(ctx context.Context, id int64, status string) (*models.Activity, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// Users persists user accounts and their refresh-token sessions.
type Users interface {
	GetAll(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id int64, ts time.Time) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string, updatedAt time.Time) error

	CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error
	FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error
	RevokeUserRefreshTokens(ctx context.Context, userID int64) error
}

// Store bundles every entity table behind one handle so wiring code can pass
// a single value around regardless of the backing implementation.
type Store struct {
	Users      Users
	Sites      Sites
	Staff      Staff
	Assets     Assets
	Programs   Programs
	Activities Activities
}
