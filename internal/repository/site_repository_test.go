package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nwced/clc-registry-api/internal/models"
	"github.com/nwced/clc-registry-api/internal/store"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func emptySiteRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "site_id", "name", "type", "district", "address", "latitude", "longitude",
		"operational_status", "assessment_status", "classrooms", "offices", "labs", "workshops",
		"building_condition", "electrical_status", "plumbing_status", "interior_condition", "exterior_condition",
		"notes", "image_urls", "created_by", "last_visited_by", "last_visit_date", "created_at", "updated_at",
	})
}

func siteRows() *sqlmock.Rows {
	now := time.Now()
	return emptySiteRows().AddRow(
		1, "CLC-001", "Moruleng CLC", "CLC", "Bojanala", "Main Rd", -25.2, 27.1,
		"Active", "To Visit", 4, 1, 0, 0,
		"Good", "Fair", "Fair", "Good", "Good",
		"", "{}", 1, nil, nil, now, now,
	)
}

func TestSiteRepositoryGetAll(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSiteRepository(db)

	mock.ExpectQuery(`SELECT (.+) FROM sites ORDER BY id`).WillReturnRows(siteRows())

	sites, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, sites, 1)
	assert.Equal(t, "CLC-001", sites[0].SiteID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSiteRepositoryGetNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSiteRepository(db)

	mock.ExpectQuery(`SELECT (.+) FROM sites WHERE id = \$1`).
		WithArgs(int64(42)).
		WillReturnRows(emptySiteRows())

	_, err := repo.Get(context.Background(), 42)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSiteRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSiteRepository(db)

	mock.ExpectQuery(`INSERT INTO sites`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	site := &models.Site{SiteID: "CLC-007", Name: "New Site", Type: "CLC", District: "Bojanala", CreatedBy: 1}
	require.NoError(t, repo.Create(context.Background(), site))
	assert.Equal(t, int64(7), site.ID)
	assert.False(t, site.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSiteRepositoryCreateDuplicateSiteID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSiteRepository(db)

	mock.ExpectQuery(`INSERT INTO sites`).
		WillReturnError(&pq.Error{Code: uniqueViolation})

	err := repo.Create(context.Background(), &models.Site{SiteID: "CLC-001"})
	assert.ErrorIs(t, err, store.ErrDuplicateID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSiteRepositoryUpdatePatchesOnlyGivenFields(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSiteRepository(db)

	mock.ExpectQuery(`UPDATE sites SET operational_status = \$1, updated_at = \$2 WHERE id = \$3 RETURNING`).
		WithArgs("Inactive", sqlmock.AnyArg(), int64(1)).
		WillReturnRows(siteRows())

	inactive := "Inactive"
	site, err := repo.Update(context.Background(), 1, models.SitePatch{OperationalStatus: &inactive})
	require.NoError(t, err)
	assert.Equal(t, int64(1), site.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSiteRepositoryUpdateMissingRow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSiteRepository(db)

	mock.ExpectQuery(`UPDATE sites SET`).
		WillReturnRows(emptySiteRows())

	name := "whatever"
	_, err := repo.Update(context.Background(), 999999, models.SitePatch{Name: &name})
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSiteRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSiteRepository(db)

	mock.ExpectExec(`DELETE FROM sites WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM sites WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	removed, err := repo.Delete(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Delete(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSiteRepositoryRecordVisit(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSiteRepository(db)

	visitedAt := time.Now().UTC()
	mock.ExpectQuery(`UPDATE sites SET last_visited_by = \$1, last_visit_date = \$2, updated_at = \$3`).
		WithArgs(int64(3), visitedAt, sqlmock.AnyArg(), int64(1)).
		WillReturnRows(siteRows())

	site, err := repo.RecordVisit(context.Background(), 1, 3, visitedAt)
	require.NoError(t, err)
	assert.Equal(t, int64(1), site.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
