package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nwced/clc-registry-api/internal/models"
	appErrors "github.com/nwced/clc-registry-api/pkg/errors"
)

func newActivityServiceForTest() *ActivityService {
	return NewActivityService(newTestTables().Activities, nil, nil)
}

func TestActivityServiceCreateStampsActor(t *testing.T) {
	svc := newActivityServiceForTest()

	activity, err := svc.Create(context.Background(), CreateActivityRequest{
		Type:              models.ActivityDataVerification,
		Description:       "Checked enrolment figures",
		RelatedEntityType: "site",
		RelatedEntityID:   12,
	}, 9)
	require.NoError(t, err)

	assert.Equal(t, int64(9), activity.PerformedBy)
	assert.Equal(t, models.EntitySite, activity.RelatedEntityType)
	assert.False(t, activity.Timestamp.IsZero())
	assert.Nil(t, activity.Status)
}

func TestActivityServiceCreateRequiresActor(t *testing.T) {
	svc := newActivityServiceForTest()

	_, err := svc.Create(context.Background(), CreateActivityRequest{
		Type:              models.ActivitySiteVisit,
		Description:       "walkthrough",
		RelatedEntityType: "site",
		RelatedEntityID:   1,
	}, 0)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestActivityServiceCreateRejectsUnknownEntity(t *testing.T) {
	svc := newActivityServiceForTest()

	_, err := svc.Create(context.Background(), CreateActivityRequest{
		Type:              models.ActivitySiteVisit,
		Description:       "walkthrough",
		RelatedEntityType: "district",
		RelatedEntityID:   1,
	}, 1)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestActivityServiceRecommendationStartsPending(t *testing.T) {
	svc := newActivityServiceForTest()

	activity, err := svc.Create(context.Background(), CreateActivityRequest{
		Type:              models.ActivityRecommendation,
		Description:       "Replace the roof sheeting",
		RelatedEntityType: "site",
		RelatedEntityID:   3,
	}, 2)
	require.NoError(t, err)

	require.NotNil(t, activity.Status)
	assert.Equal(t, models.RecommendationPending, *activity.Status)
}

func TestActivityServiceUpdateStatusOnlyForRecommendations(t *testing.T) {
	svc := newActivityServiceForTest()

	visit, err := svc.Create(context.Background(), CreateActivityRequest{
		Type:              models.ActivitySiteVisit,
		Description:       "walkthrough",
		RelatedEntityType: "site",
		RelatedEntityID:   3,
	}, 2)
	require.NoError(t, err)

	_, err = svc.UpdateRecommendationStatus(context.Background(), visit.ID, models.RecommendationCompleted)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestActivityServiceRecommendationWorkflow(t *testing.T) {
	svc := newActivityServiceForTest()

	rec, err := svc.Create(context.Background(), CreateActivityRequest{
		Type:              models.ActivityRecommendation,
		Description:       "Install new lab benches",
		RelatedEntityType: "site",
		RelatedEntityID:   4,
	}, 2)
	require.NoError(t, err)

	updated, err := svc.UpdateRecommendationStatus(context.Background(), rec.ID, models.RecommendationCompleted)
	require.NoError(t, err)
	require.NotNil(t, updated.Status)
	assert.Equal(t, models.RecommendationCompleted, *updated.Status)

	_, err = svc.UpdateRecommendationStatus(context.Background(), rec.ID, "Archived")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	require.NoError(t, svc.DeleteRecommendation(context.Background(), rec.ID))
	_, err = svc.Get(context.Background(), rec.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestActivityServiceDeleteRejectsAuditEntries(t *testing.T) {
	svc := newActivityServiceForTest()

	visit, err := svc.Create(context.Background(), CreateActivityRequest{
		Type:              models.ActivityPhotoUpload,
		Description:       "Uploaded facade photos",
		RelatedEntityType: "site",
		RelatedEntityID:   5,
	}, 2)
	require.NoError(t, err)

	err = svc.DeleteRecommendation(context.Background(), visit.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestActivityServiceListNewestFirst(t *testing.T) {
	svc := newActivityServiceForTest()

	for _, desc := range []string{"first", "second", "third"} {
		_, err := svc.Create(context.Background(), CreateActivityRequest{
			Type:              models.ActivityDataVerification,
			Description:       desc,
			RelatedEntityType: "site",
			RelatedEntityID:   1,
		}, 1)
		require.NoError(t, err)
	}

	rows, pagination, err := svc.List(context.Background(), models.ActivityFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "third", rows[0].Description)
	assert.Equal(t, "first", rows[2].Description)
	assert.Equal(t, 3, pagination.TotalCount)
}
