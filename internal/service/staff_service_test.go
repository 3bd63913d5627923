package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nwced/clc-registry-api/internal/models"
	appErrors "github.com/nwced/clc-registry-api/pkg/errors"
)

func TestStaffServiceCreateRejectsUnknownSite(t *testing.T) {
	tables := newTestTables()
	svc := NewStaffService(tables.Staff, tables.Sites, tables.Activities, nil, nil, nil)

	missing := int64(404)
	_, err := svc.Create(context.Background(), CreateStaffRequest{
		StaffID:   "STF-010",
		FirstName: "Amina",
		LastName:  "Noor",
		SiteID:    &missing,
	}, 1)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestStaffServiceCreateAssignsToSite(t *testing.T) {
	tables := newTestTables()
	siteSvc := newSiteServiceForTest(tables)
	site, err := siteSvc.Create(context.Background(), validSiteRequest("CLC-300"), 1)
	require.NoError(t, err)

	svc := NewStaffService(tables.Staff, tables.Sites, tables.Activities, nil, nil, nil)
	member, err := svc.Create(context.Background(), CreateStaffRequest{
		StaffID:   "STF-011",
		FirstName: "Amina",
		LastName:  "Noor",
		SiteID:    &site.ID,
	}, 1)
	require.NoError(t, err)
	require.NotNil(t, member.SiteID)
	assert.Equal(t, site.ID, *member.SiteID)

	assigned, err := svc.GetBySite(context.Background(), site.ID)
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, "STF-011", assigned[0].StaffID)
}

func TestStaffServiceUpdateUnassignsWithZeroSiteID(t *testing.T) {
	tables := newTestTables()
	siteSvc := newSiteServiceForTest(tables)
	site, err := siteSvc.Create(context.Background(), validSiteRequest("CLC-301"), 1)
	require.NoError(t, err)

	svc := NewStaffService(tables.Staff, tables.Sites, tables.Activities, nil, nil, nil)
	member, err := svc.Create(context.Background(), CreateStaffRequest{
		StaffID:   "STF-012",
		FirstName: "Omar",
		LastName:  "Hale",
		SiteID:    &site.ID,
	}, 1)
	require.NoError(t, err)

	unassign := int64(0)
	updated, err := svc.Update(context.Background(), member.ID, models.StaffPatch{SiteID: &unassign}, 1)
	require.NoError(t, err)
	assert.Nil(t, updated.SiteID)
}

func TestStaffServiceCreateRecordsActivity(t *testing.T) {
	tables := newTestTables()
	svc := NewStaffService(tables.Staff, tables.Sites, tables.Activities, nil, nil, nil)

	member, err := svc.Create(context.Background(), CreateStaffRequest{
		StaffID:   "STF-013",
		FirstName: "Lena",
		LastName:  "Park",
	}, 6)
	require.NoError(t, err)

	rows, err := tables.Activities.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, models.ActivityStaffCreation, rows[0].Type)
	assert.Equal(t, models.EntityStaff, rows[0].RelatedEntityType)
	assert.Equal(t, member.ID, rows[0].RelatedEntityID)
	assert.Equal(t, int64(6), rows[0].PerformedBy)
}

func TestStaffServiceDuplicateStaffID(t *testing.T) {
	tables := newTestTables()
	svc := NewStaffService(tables.Staff, tables.Sites, tables.Activities, nil, nil, nil)

	req := CreateStaffRequest{StaffID: "STF-014", FirstName: "A", LastName: "B"}
	_, err := svc.Create(context.Background(), req, 1)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), req, 1)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}
