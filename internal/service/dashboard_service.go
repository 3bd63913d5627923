package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/nwced/clc-registry-api/internal/dto"
	"github.com/nwced/clc-registry-api/internal/models"
	"github.com/nwced/clc-registry-api/internal/store"
	appErrors "github.com/nwced/clc-registry-api/pkg/errors"
)

const dashboardSummaryCacheKey = "dashboard:summary"

// recentActivityLimit bounds the activity feed on the summary payload.
const recentActivityLimit = 10

// DashboardService aggregates registry counts into the summary payload.
type DashboardService struct {
	store    store.Store
	cache    *CacheService
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewDashboardService constructs the dashboard service.
func NewDashboardService(st store.Store, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &DashboardService{store: st, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// Summary composes the dashboard payload, serving from cache when possible.
func (s *DashboardService) Summary(ctx context.Context) (*dto.DashboardSummaryResponse, error) {
	var cached dto.DashboardSummaryResponse
	if hit, err := s.cache.Get(ctx, dashboardSummaryCacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	summary, err := s.build(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, dashboardSummaryCacheKey, summary, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache dashboard summary", zap.Error(err))
	}
	return summary, nil
}

func (s *DashboardService) build(ctx context.Context) (*dto.DashboardSummaryResponse, error) {
	sites, err := s.store.Sites.GetAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate sites")
	}
	staff, err := s.store.Staff.GetAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate staff")
	}
	assets, err := s.store.Assets.GetAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate assets")
	}
	programs, err := s.store.Programs.GetAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate programs")
	}
	recent, _, err := s.store.Activities.List(ctx, models.ActivityFilter{Page: 1, PageSize: recentActivityLimit})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load recent activities")
	}

	summary := &dto.DashboardSummaryResponse{
		Sites: dto.SiteSection{
			Total:        len(sites),
			ByDistrict:   map[string]int{},
			ByStatus:     map[string]int{},
			ByAssessment: map[string]int{},
			ByType:       map[string]int{},
		},
		Staff: dto.StaffSection{
			Total:        len(staff),
			ByDepartment: map[string]int{},
		},
		Assets: dto.AssetSection{
			Total:       len(assets),
			ByCategory:  map[string]int{},
			ByCondition: map[string]int{},
		},
		Programs: dto.ProgramSection{
			Total:    len(programs),
			ByStatus: map[string]int{},
		},
		RecentActivities: recent,
	}

	for _, site := range sites {
		summary.Sites.ByDistrict[site.District]++
		summary.Sites.ByStatus[site.OperationalStatus]++
		summary.Sites.ByAssessment[site.AssessmentStatus]++
		summary.Sites.ByType[site.Type]++
	}
	for _, member := range staff {
		if member.Verified {
			summary.Staff.Verified++
		}
		if member.SiteID == nil {
			summary.Staff.Unassigned++
		}
		if member.Department != "" {
			summary.Staff.ByDepartment[member.Department]++
		}
	}
	for _, asset := range assets {
		summary.Assets.ByCategory[asset.Category]++
		summary.Assets.ByCondition[asset.Condition]++
		if asset.SiteID == nil {
			summary.Assets.Unassigned++
		}
	}
	for _, program := range programs {
		summary.Programs.ByStatus[program.Status]++
		summary.Programs.TotalEnrollment += program.EnrollmentCount
	}

	return summary, nil
}
