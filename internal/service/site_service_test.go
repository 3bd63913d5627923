package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nwced/clc-registry-api/internal/models"
	"github.com/nwced/clc-registry-api/internal/store"
	"github.com/nwced/clc-registry-api/internal/store/memory"
	appErrors "github.com/nwced/clc-registry-api/pkg/errors"
)

func newTestTables() store.Store {
	return memory.New().Tables()
}

func newSiteServiceForTest(tables store.Store) *SiteService {
	return NewSiteService(tables.Sites, tables.Activities, nil, nil, nil, nil)
}

func validSiteRequest(siteID string) CreateSiteRequest {
	return CreateSiteRequest{
		SiteID:   siteID,
		Name:     "Riverside Learning Center",
		Type:     "CLC",
		District: "North",
	}
}

func TestSiteServiceCreateAppliesDefaults(t *testing.T) {
	tables := newTestTables()
	svc := newSiteServiceForTest(tables)

	site, err := svc.Create(context.Background(), validSiteRequest("CLC-001"), 42)
	require.NoError(t, err)

	assert.Equal(t, int64(1), site.ID)
	assert.Equal(t, models.StatusActive, site.OperationalStatus)
	assert.Equal(t, models.AssessmentToVisit, site.AssessmentStatus)
	assert.Equal(t, models.ConditionNotAssessed, site.BuildingCondition)
	assert.False(t, site.CreatedAt.IsZero())
}

func TestSiteServiceCreateRecordsActivity(t *testing.T) {
	tables := newTestTables()
	svc := newSiteServiceForTest(tables)

	site, err := svc.Create(context.Background(), validSiteRequest("CLC-002"), 7)
	require.NoError(t, err)

	rows, err := tables.Activities.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, models.ActivitySiteCreation, rows[0].Type)
	assert.Equal(t, models.EntitySite, rows[0].RelatedEntityType)
	assert.Equal(t, site.ID, rows[0].RelatedEntityID)
	assert.Equal(t, int64(7), rows[0].PerformedBy)
}

func TestSiteServiceCreateRequiresActor(t *testing.T) {
	svc := newSiteServiceForTest(newTestTables())

	_, err := svc.Create(context.Background(), validSiteRequest("CLC-003"), 0)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestSiteServiceCreateDuplicateSiteID(t *testing.T) {
	svc := newSiteServiceForTest(newTestTables())

	_, err := svc.Create(context.Background(), validSiteRequest("CLC-004"), 1)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), validSiteRequest("CLC-004"), 1)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestSiteServiceCreateRejectsUnknownType(t *testing.T) {
	svc := newSiteServiceForTest(newTestTables())

	req := validSiteRequest("CLC-005")
	req.Type = "Warehouse"
	_, err := svc.Create(context.Background(), req, 1)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSiteServiceListFiltersByDistrict(t *testing.T) {
	tables := newTestTables()
	svc := newSiteServiceForTest(tables)

	north := validSiteRequest("CLC-010")
	south := validSiteRequest("CLC-011")
	south.District = "South"
	_, err := svc.Create(context.Background(), north, 1)
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), south, 1)
	require.NoError(t, err)

	rows, pagination, err := svc.List(context.Background(), models.SiteFilter{District: "South"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "CLC-011", rows[0].SiteID)
	assert.Equal(t, 1, pagination.TotalCount)
}

func TestSiteServiceListSearchMatchesNameAndSiteID(t *testing.T) {
	svc := newSiteServiceForTest(newTestTables())

	req := validSiteRequest("CLC-020")
	req.Name = "Hillside Annex"
	_, err := svc.Create(context.Background(), req, 1)
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), validSiteRequest("CLC-021"), 1)
	require.NoError(t, err)

	rows, _, err := svc.List(context.Background(), models.SiteFilter{Search: "hillside"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "CLC-020", rows[0].SiteID)

	rows, _, err = svc.List(context.Background(), models.SiteFilter{Search: "clc-021"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "CLC-021", rows[0].SiteID)
}

func TestSiteServiceUpdateMergesPatch(t *testing.T) {
	tables := newTestTables()
	svc := newSiteServiceForTest(tables)

	site, err := svc.Create(context.Background(), validSiteRequest("CLC-030"), 3)
	require.NoError(t, err)

	status := models.StatusInactive
	updated, err := svc.Update(context.Background(), site.ID, models.SitePatch{OperationalStatus: &status}, 3)
	require.NoError(t, err)

	assert.Equal(t, models.StatusInactive, updated.OperationalStatus)
	assert.Equal(t, site.Name, updated.Name)
	assert.Equal(t, site.District, updated.District)

	rows, err := tables.Activities.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, models.ActivitySiteUpdate, rows[1].Type)
}

func TestSiteServiceUpdateUnknownSite(t *testing.T) {
	svc := newSiteServiceForTest(newTestTables())

	name := "nope"
	_, err := svc.Update(context.Background(), 99, models.SitePatch{Name: &name}, 1)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSiteServiceDelete(t *testing.T) {
	svc := newSiteServiceForTest(newTestTables())

	site, err := svc.Create(context.Background(), validSiteRequest("CLC-040"), 1)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), site.ID))

	_, err = svc.Get(context.Background(), site.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSiteServiceRecordVisit(t *testing.T) {
	tables := newTestTables()
	svc := newSiteServiceForTest(tables)

	site, err := svc.Create(context.Background(), validSiteRequest("CLC-050"), 5)
	require.NoError(t, err)

	visited, err := svc.RecordVisit(context.Background(), site.ID, 5, "roof inspection")
	require.NoError(t, err)
	require.NotNil(t, visited.LastVisitDate)

	rows, err := tables.Activities.GetBySite(context.Background(), site.ID)
	require.NoError(t, err)
	var visit *models.Activity
	for i := range rows {
		if rows[i].Type == models.ActivitySiteVisit {
			visit = &rows[i]
		}
	}
	require.NotNil(t, visit)
	assert.Contains(t, visit.Description, "roof inspection")
	assert.Equal(t, int64(5), visit.PerformedBy)
}
