package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nwced/clc-registry-api/internal/models"
	"github.com/nwced/clc-registry-api/internal/store"
	appErrors "github.com/nwced/clc-registry-api/pkg/errors"
)

type fakeCacheRepo struct {
	entries map[string][]byte
	gets    int
	sets    int
}

func (f *fakeCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	f.gets++
	payload, ok := f.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (f *fakeCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	f.sets++
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if f.entries == nil {
		f.entries = make(map[string][]byte)
	}
	f.entries[key] = payload
	return nil
}

func (f *fakeCacheRepo) DeleteByPattern(_ context.Context, _ string) error {
	f.entries = nil
	return nil
}

func seedRegistry(t *testing.T, tables store.Store) {
	t.Helper()
	ctx := context.Background()

	siteSvc := newSiteServiceForTest(tables)
	north := validSiteRequest("CLC-100")
	south := validSiteRequest("CLC-101")
	south.District = "South"
	site, err := siteSvc.Create(ctx, north, 1)
	require.NoError(t, err)
	_, err = siteSvc.Create(ctx, south, 1)
	require.NoError(t, err)

	staffSvc := NewStaffService(tables.Staff, tables.Sites, tables.Activities, nil, nil, nil)
	_, err = staffSvc.Create(ctx, CreateStaffRequest{
		StaffID:    "STF-001",
		FirstName:  "Amina",
		LastName:   "Noor",
		Department: "Administration",
		Verified:   true,
		SiteID:     &site.ID,
	}, 1)
	require.NoError(t, err)
	_, err = staffSvc.Create(ctx, CreateStaffRequest{
		StaffID:   "STF-002",
		FirstName: "Omar",
		LastName:  "Hale",
	}, 1)
	require.NoError(t, err)

	assetSvc := NewAssetService(tables.Assets, tables.Sites, tables.Activities, nil, nil, nil)
	_, err = assetSvc.Create(ctx, CreateAssetRequest{
		AssetID:  "AST-001",
		Name:     "Projector",
		Category: "IT",
		SiteID:   &site.ID,
	}, 1)
	require.NoError(t, err)

	programSvc := NewProgramService(tables.Programs, tables.Sites, tables.Activities, nil, nil, nil)
	_, err = programSvc.Create(ctx, CreateProgramRequest{
		ProgramID:       "PRG-001",
		Name:            "Adult Literacy",
		EnrollmentCount: 35,
		SiteID:          &site.ID,
	}, 1)
	require.NoError(t, err)
	_, err = programSvc.Create(ctx, CreateProgramRequest{
		ProgramID:       "PRG-002",
		Name:            "Evening IT Skills",
		EnrollmentCount: 20,
		Status:          models.StatusPlanned,
	}, 1)
	require.NoError(t, err)
}

func TestDashboardSummaryAggregates(t *testing.T) {
	tables := newTestTables()
	seedRegistry(t, tables)

	svc := NewDashboardService(tables, NewCacheService(nil, nil, 0, nil, false), time.Minute, nil)
	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Sites.Total)
	assert.Equal(t, 1, summary.Sites.ByDistrict["North"])
	assert.Equal(t, 1, summary.Sites.ByDistrict["South"])
	assert.Equal(t, 2, summary.Sites.ByStatus[models.StatusActive])

	assert.Equal(t, 2, summary.Staff.Total)
	assert.Equal(t, 1, summary.Staff.Verified)
	assert.Equal(t, 1, summary.Staff.Unassigned)
	assert.Equal(t, 1, summary.Staff.ByDepartment["Administration"])

	assert.Equal(t, 1, summary.Assets.Total)
	assert.Equal(t, 1, summary.Assets.ByCategory["IT"])

	assert.Equal(t, 2, summary.Programs.Total)
	assert.Equal(t, 55, summary.Programs.TotalEnrollment)
	assert.Equal(t, 1, summary.Programs.ByStatus[models.StatusPlanned])

	assert.NotEmpty(t, summary.RecentActivities)
}

func TestDashboardSummaryRecentActivitiesCapped(t *testing.T) {
	tables := newTestTables()
	siteSvc := newSiteServiceForTest(tables)
	for i := 0; i < 15; i++ {
		req := validSiteRequest("CLC-" + string(rune('A'+i)))
		_, err := siteSvc.Create(context.Background(), req, 1)
		require.NoError(t, err)
	}

	svc := NewDashboardService(tables, NewCacheService(nil, nil, 0, nil, false), time.Minute, nil)
	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Len(t, summary.RecentActivities, 10)
}

func TestDashboardSummaryUsesCache(t *testing.T) {
	tables := newTestTables()
	seedRegistry(t, tables)

	repo := &fakeCacheRepo{}
	cacheSvc := NewCacheService(repo, nil, time.Minute, nil, true)
	svc := NewDashboardService(tables, cacheSvc, time.Minute, nil)

	first, err := svc.Summary(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, repo.sets)

	second, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.Sites.Total, second.Sites.Total)
	assert.Equal(t, 1, repo.sets, "second read should come from cache")
}

func TestSiteMutationInvalidatesDashboardCache(t *testing.T) {
	tables := newTestTables()

	repo := &fakeCacheRepo{}
	cacheSvc := NewCacheService(repo, nil, time.Minute, nil, true)
	dashboard := NewDashboardService(tables, cacheSvc, time.Minute, nil)
	sites := NewSiteService(tables.Sites, tables.Activities, cacheSvc, nil, nil, nil)

	_, err := sites.Create(context.Background(), validSiteRequest("CLC-200"), 1)
	require.NoError(t, err)

	_, err = dashboard.Summary(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, repo.entries)

	_, err = sites.Create(context.Background(), validSiteRequest("CLC-201"), 1)
	require.NoError(t, err)
	assert.Empty(t, repo.entries, "site creation should flush the dashboard cache")

	summary, err := dashboard.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Sites.Total)
}
