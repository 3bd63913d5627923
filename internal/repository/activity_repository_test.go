package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nwced/clc-registry-api/internal/models"
)

func activityRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "type", "description", "related_entity_type", "related_entity_id",
		"performed_by", "status", "timestamp",
	}).AddRow(3, "site_creation", "registered site", "site", 1, 1, nil, time.Now())
}

func TestActivityRepositoryCreateStampsTimestamp(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewActivityRepository(db)

	mock.ExpectQuery(`INSERT INTO activities`).
		WithArgs("site_creation", "registered site", models.EntitySite, int64(1), int64(1), nil, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))

	activity := &models.Activity{
		Type:              models.ActivitySiteCreation,
		Description:       "registered site",
		RelatedEntityType: models.EntitySite,
		RelatedEntityID:   1,
		PerformedBy:       1,
	}
	require.NoError(t, repo.Create(context.Background(), activity))
	assert.Equal(t, int64(3), activity.ID)
	assert.False(t, activity.Timestamp.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewActivityRepository(db)

	mock.ExpectQuery(`SELECT (.+) FROM activities WHERE 1=1 AND type = \$1 ORDER BY id DESC LIMIT 20 OFFSET 0`).
		WithArgs("site_creation").
		WillReturnRows(activityRows())
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM activities WHERE 1=1 AND type = \$1`).
		WithArgs("site_creation").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	rows, total, err := repo.List(context.Background(), models.ActivityFilter{Type: models.ActivitySiteCreation})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityRepositoryGetBySite(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewActivityRepository(db)

	mock.ExpectQuery(`SELECT (.+) FROM activities\s+WHERE related_entity_type = \$1 AND related_entity_id = \$2 ORDER BY id`).
		WithArgs(models.EntitySite, int64(1)).
		WillReturnRows(activityRows())

	rows, err := repo.GetBySite(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, models.EntitySite, rows[0].RelatedEntityType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityRepositoryUpdateStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewActivityRepository(db)

	completed := "Completed"
	rows := sqlmock.NewRows([]string{
		"id", "type", "description", "related_entity_type", "related_entity_id",
		"performed_by", "status", "timestamp",
	}).AddRow(9, "recommendation", "replace roof", "site", 1, 2, completed, time.Now())

	mock.ExpectQuery(`UPDATE activities SET status = \$1 WHERE id = \$2 RETURNING`).
		WithArgs("Completed", int64(9)).
		WillReturnRows(rows)

	activity, err := repo.UpdateStatus(context.Background(), 9, "Completed")
	require.NoError(t, err)
	require.NotNil(t, activity.Status)
	assert.Equal(t, "Completed", *activity.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
