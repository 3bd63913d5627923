package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/nwced/clc-registry-api/internal/models"
	"github.com/nwced/clc-registry-api/internal/store"
	appErrors "github.com/nwced/clc-registry-api/pkg/errors"
)

// CreateSiteRequest holds payload for registering a site.
type CreateSiteRequest struct {
	SiteID            string   `json:"site_id" validate:"required"`
	Name              string   `json:"name" validate:"required"`
	Type              string   `json:"type" validate:"required,oneof=CLC Satellite Operational"`
	District          string   `json:"district" validate:"required"`
	Address           string   `json:"address"`
	Latitude          float64  `json:"latitude"`
	Longitude         float64  `json:"longitude"`
	OperationalStatus string   `json:"operational_status" validate:"omitempty,oneof=Active Inactive Planned"`
	AssessmentStatus  string   `json:"assessment_status"`
	Classrooms        int      `json:"classrooms" validate:"gte=0"`
	Offices           int      `json:"offices" validate:"gte=0"`
	Labs              int      `json:"labs" validate:"gte=0"`
	Workshops         int      `json:"workshops" validate:"gte=0"`
	BuildingCondition string   `json:"building_condition"`
	ElectricalStatus  string   `json:"electrical_status"`
	PlumbingStatus    string   `json:"plumbing_status"`
	InteriorCondition string   `json:"interior_condition"`
	ExteriorCondition string   `json:"exterior_condition"`
	Notes             string   `json:"notes"`
	ImageURLs         []string `json:"image_urls"`
}

// SiteService handles site use-cases and their audit side effects.
type SiteService struct {
	sites     store.Sites
	audit     *auditTrail
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSiteService constructs the site service.
func NewSiteService(sites store.Sites, activities store.Activities, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *SiteService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SiteService{
		sites:     sites,
		audit:     newAuditTrail(activities, logger),
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
	}
}

// List returns sites matching the filter plus pagination metadata.
func (s *SiteService) List(ctx context.Context, filter models.SiteFilter) ([]models.Site, *models.Pagination, error) {
	sites, err := s.sites.GetAll(ctx)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sites")
	}

	filtered := make([]models.Site, 0, len(sites))
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	for _, site := range sites {
		if filter.District != "" && site.District != filter.District {
			continue
		}
		if filter.Type != "" && site.Type != filter.Type {
			continue
		}
		if filter.OperationalStatus != "" && site.OperationalStatus != filter.OperationalStatus {
			continue
		}
		if filter.AssessmentStatus != "" && site.AssessmentStatus != filter.AssessmentStatus {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(site.Name), search) &&
			!strings.Contains(strings.ToLower(site.SiteID), search) {
			continue
		}
		filtered = append(filtered, site)
	}

	sortSites(filtered, filter.SortBy, filter.SortOrder)

	page, size, pagination := paginate(len(filtered), filter.Page, filter.PageSize)
	return pageSlice(filtered, page, size), pagination, nil
}

// Get returns a single site by internal id.
func (s *SiteService) Get(ctx context.Context, id int64) (*models.Site, error) {
	site, err := s.sites.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "site not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load site")
	}
	return site, nil
}

// Create registers a new site and records a site_creation activity
// attributed to the acting user.
func (s *SiteService) Create(ctx context.Context, req CreateSiteRequest, actorID int64) (*models.Site, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid site payload")
	}
	if actorID == 0 {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "acting user required")
	}

	site := &models.Site{
		SiteID:            strings.TrimSpace(req.SiteID),
		Name:              req.Name,
		Type:              req.Type,
		District:          req.District,
		Address:           req.Address,
		Latitude:          req.Latitude,
		Longitude:         req.Longitude,
		OperationalStatus: defaultString(req.OperationalStatus, models.StatusActive),
		AssessmentStatus:  defaultString(req.AssessmentStatus, models.AssessmentToVisit),
		Classrooms:        req.Classrooms,
		Offices:           req.Offices,
		Labs:              req.Labs,
		Workshops:         req.Workshops,
		BuildingCondition: defaultString(req.BuildingCondition, models.ConditionNotAssessed),
		ElectricalStatus:  defaultString(req.ElectricalStatus, models.ConditionNotAssessed),
		PlumbingStatus:    defaultString(req.PlumbingStatus, models.ConditionNotAssessed),
		InteriorCondition: defaultString(req.InteriorCondition, models.ConditionNotAssessed),
		ExteriorCondition: defaultString(req.ExteriorCondition, models.ConditionNotAssessed),
		Notes:             req.Notes,
		ImageURLs:         req.ImageURLs,
		CreatedBy:         actorID,
	}

	if err := s.sites.Create(ctx, site); err != nil {
		if errors.Is(err, store.ErrDuplicateID) {
			return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("site id %s already used", site.SiteID))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create site")
	}

	s.audit.record(ctx, models.ActivitySiteCreation,
		fmt.Sprintf("Site %s (%s) registered", site.Name, site.SiteID),
		models.EntitySite, site.ID, actorID)
	s.metrics.RecordEntityWrite("site", "create")
	s.invalidateSummaries(ctx)

	return site, nil
}

// Update applies a partial update and records a site_update activity.
func (s *SiteService) Update(ctx context.Context, id int64, patch models.SitePatch, actorID int64) (*models.Site, error) {
	if actorID == 0 {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "acting user required")
	}
	site, err := s.sites.Update(ctx, id, patch)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return nil, appErrors.Clone(appErrors.ErrNotFound, "site not found")
		case errors.Is(err, store.ErrDuplicateID):
			return nil, appErrors.Clone(appErrors.ErrConflict, "site id already used")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update site")
	}

	s.audit.record(ctx, models.ActivitySiteUpdate,
		fmt.Sprintf("Site %s (%s) updated", site.Name, site.SiteID),
		models.EntitySite, site.ID, actorID)
	s.metrics.RecordEntityWrite("site", "update")
	s.invalidateSummaries(ctx)

	return site, nil
}

// Delete removes a site. Rows referencing it keep their weak references.
func (s *SiteService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.sites.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete site")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "site not found")
	}
	s.metrics.RecordEntityWrite("site", "delete")
	s.invalidateSummaries(ctx)
	return nil
}

// RecordVisit stamps the visit metadata on the site and appends a
// site_visit activity.
func (s *SiteService) RecordVisit(ctx context.Context, id int64, actorID int64, notes string) (*models.Site, error) {
	if actorID == 0 {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "acting user required")
	}
	visitedAt := time.Now().UTC()
	site, err := s.sites.RecordVisit(ctx, id, actorID, visitedAt)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "site not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record visit")
	}

	description := fmt.Sprintf("Site %s (%s) visited", site.Name, site.SiteID)
	if notes != "" {
		description = fmt.Sprintf("%s: %s", description, notes)
	}
	s.audit.record(ctx, models.ActivitySiteVisit, description, models.EntitySite, site.ID, actorID)
	s.invalidateSummaries(ctx)

	return site, nil
}

func (s *SiteService) invalidateSummaries(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, dashboardCachePattern); err != nil {
		s.logger.Warn("failed to invalidate dashboard cache", zap.Error(err))
	}
}

func sortSites(sites []models.Site, sortBy, sortOrder string) {
	less := func(a, b models.Site) bool { return a.ID < b.ID }
	switch sortBy {
	case "name":
		less = func(a, b models.Site) bool { return a.Name < b.Name }
	case "district":
		less = func(a, b models.Site) bool { return a.District < b.District }
	case "site_id":
		less = func(a, b models.Site) bool { return a.SiteID < b.SiteID }
	case "created_at":
		less = func(a, b models.Site) bool { return a.CreatedAt.Before(b.CreatedAt) }
	}
	desc := strings.EqualFold(sortOrder, "desc")
	sort.SliceStable(sites, func(i, j int) bool {
		if desc {
			return less(sites[j], sites[i])
		}
		return less(sites[i], sites[j])
	})
}
