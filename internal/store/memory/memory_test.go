package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nwced/clc-registry-api/internal/models"
	"github.com/nwced/clc-registry-api/internal/store"
)

func newSite(siteID, name string) *models.Site {
	return &models.Site{
		SiteID:            siteID,
		Name:              name,
		Type:              models.SiteTypeCLC,
		District:          "Bojanala",
		OperationalStatus: models.StatusActive,
		AssessmentStatus:  models.AssessmentToVisit,
	}
}

func TestSiteCreateAssignsIncreasingIDs(t *testing.T) {
	tables := New().Tables()
	ctx := context.Background()

	a := newSite("CLC-001", "Alpha")
	b := newSite("CLC-002", "Bravo")
	require.NoError(t, tables.Sites.Create(ctx, a))
	require.NoError(t, tables.Sites.Create(ctx, b))
	assert.Less(t, a.ID, b.ID)

	removed, err := tables.Sites.Delete(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	c := newSite("CLC-003", "Charlie")
	require.NoError(t, tables.Sites.Create(ctx, c))
	assert.Greater(t, c.ID, b.ID, "ids are never reused after delete")
}

func TestSiteRoundTrip(t *testing.T) {
	tables := New().Tables()
	ctx := context.Background()

	site := newSite("CLC-010", "Round Trip")
	site.Classrooms = 4
	site.ImageURLs = []string{"https://img.example/1.jpg"}
	require.NoError(t, tables.Sites.Create(ctx, site))

	got, err := tables.Sites.Get(ctx, site.ID)
	require.NoError(t, err)
	assert.Equal(t, *site, *got)
}

func TestSiteUpdateIsMergeNotReplace(t *testing.T) {
	tables := New().Tables()
	ctx := context.Background()

	site := newSite("CLC-099", "Test CLC")
	require.NoError(t, tables.Sites.Create(ctx, site))

	inactive := models.StatusInactive
	updated, err := tables.Sites.Update(ctx, site.ID, models.SitePatch{OperationalStatus: &inactive})
	require.NoError(t, err)

	assert.Equal(t, site.ID, updated.ID)
	assert.Equal(t, models.StatusInactive, updated.OperationalStatus)
	assert.Equal(t, models.AssessmentToVisit, updated.AssessmentStatus, "untouched field survives")
	assert.Equal(t, "Test CLC", updated.Name)
}

func TestSiteUpdateAbsentIDFails(t *testing.T) {
	tables := New().Tables()
	name := "anything"

	_, err := tables.Sites.Update(context.Background(), 999999, models.SitePatch{Name: &name})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSiteDeleteSemantics(t *testing.T) {
	tables := New().Tables()
	ctx := context.Background()

	site := newSite("CLC-020", "Doomed")
	require.NoError(t, tables.Sites.Create(ctx, site))

	removed, err := tables.Sites.Delete(ctx, site.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = tables.Sites.Get(ctx, site.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	removed, err = tables.Sites.Delete(ctx, site.ID)
	require.NoError(t, err)
	assert.False(t, removed, "second delete reports nothing to remove")
}

func TestSiteDuplicateBusinessIDRejected(t *testing.T) {
	tables := New().Tables()
	ctx := context.Background()

	require.NoError(t, tables.Sites.Create(ctx, newSite("CLC-030", "First")))
	err := tables.Sites.Create(ctx, newSite("CLC-030", "Second"))
	assert.ErrorIs(t, err, store.ErrDuplicateID)

	other := newSite("CLC-031", "Third")
	require.NoError(t, tables.Sites.Create(ctx, other))
	taken := "CLC-030"
	_, err = tables.Sites.Update(ctx, other.ID, models.SitePatch{SiteID: &taken})
	assert.ErrorIs(t, err, store.ErrDuplicateID)
}

func TestGetAllPreservesInsertionOrder(t *testing.T) {
	tables := New().Tables()
	ctx := context.Background()

	for _, id := range []string{"CLC-001", "CLC-002", "CLC-003"} {
		require.NoError(t, tables.Sites.Create(ctx, newSite(id, id)))
	}
	all, err := tables.Sites.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "CLC-001", all[0].SiteID)
	assert.Equal(t, "CLC-002", all[1].SiteID)
	assert.Equal(t, "CLC-003", all[2].SiteID)
}

func TestStaffGetBySiteIsConsistentSubset(t *testing.T) {
	tables := New().Tables()
	ctx := context.Background()

	siteA := newSite("CLC-040", "A")
	siteB := newSite("CLC-041", "B")
	require.NoError(t, tables.Sites.Create(ctx, siteA))
	require.NoError(t, tables.Sites.Create(ctx, siteB))

	mk := func(staffID string, siteID *int64) *models.Staff {
		return &models.Staff{StaffID: staffID, FirstName: "S", LastName: staffID, SiteID: siteID}
	}
	require.NoError(t, tables.Staff.Create(ctx, mk("ST-1", &siteA.ID)))
	require.NoError(t, tables.Staff.Create(ctx, mk("ST-2", &siteB.ID)))
	require.NoError(t, tables.Staff.Create(ctx, mk("ST-3", &siteA.ID)))
	require.NoError(t, tables.Staff.Create(ctx, mk("ST-4", nil)))

	bySite, err := tables.Staff.GetBySite(ctx, siteA.ID)
	require.NoError(t, err)

	all, err := tables.Staff.GetAll(ctx)
	require.NoError(t, err)

	expected := make([]models.Staff, 0)
	for _, row := range all {
		if row.SiteID != nil && *row.SiteID == siteA.ID {
			expected = append(expected, row)
		}
	}
	assert.ElementsMatch(t, expected, bySite)
}

func TestGetBySiteUnknownSiteReturnsEmptyList(t *testing.T) {
	tables := New().Tables()

	rows, err := tables.Staff.GetBySite(context.Background(), 424242)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.NotNil(t, rows)
}

func TestActivityCreateStampsTimestamp(t *testing.T) {
	tables := New().Tables()
	ctx := context.Background()

	activity := &models.Activity{
		Type:              models.ActivitySiteCreation,
		Description:       "registered site",
		RelatedEntityType: models.EntitySite,
		RelatedEntityID:   1,
		PerformedBy:       1,
	}
	require.NoError(t, tables.Activities.Create(ctx, activity))
	assert.False(t, activity.Timestamp.IsZero())
	assert.Positive(t, activity.ID)
}

func TestActivityListNewestFirstWithPaging(t *testing.T) {
	tables := New().Tables()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, tables.Activities.Create(ctx, &models.Activity{
			Type:              models.ActivitySiteVisit,
			RelatedEntityType: models.EntitySite,
			RelatedEntityID:   int64(i + 1),
			PerformedBy:       1,
		}))
	}

	page, total, err := tables.Activities.List(ctx, models.ActivityFilter{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page, 2)
	assert.Equal(t, int64(5), page[0].ID, "newest first")
	assert.Equal(t, int64(4), page[1].ID)

	filtered, total, err := tables.Activities.List(ctx, models.ActivityFilter{Type: models.ActivityRecommendation})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, filtered)
}

func TestAssetAndProgramCountersAreIndependent(t *testing.T) {
	tables := New().Tables()
	ctx := context.Background()

	asset := &models.Asset{AssetID: "AST-001", Name: "Projector", Category: models.AssetCategoryIT}
	require.NoError(t, tables.Assets.Create(ctx, asset))

	program := &models.Program{ProgramID: "PRG-001", Name: "Literacy", Status: models.StatusActive}
	require.NoError(t, tables.Programs.Create(ctx, program))

	assert.Equal(t, int64(1), asset.ID)
	assert.Equal(t, int64(1), program.ID, "each entity type has its own counter")
}

func TestUserUsernameUniqueness(t *testing.T) {
	tables := New().Tables()
	ctx := context.Background()

	require.NoError(t, tables.Users.Create(ctx, &models.User{Username: "thandi", Role: models.RoleAdmin}))
	err := tables.Users.Create(ctx, &models.User{Username: "thandi", Role: models.RoleViewer})
	assert.ErrorIs(t, err, store.ErrDuplicateID)

	found, err := tables.Users.FindByUsername(ctx, "thandi")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, found.Role)
}
