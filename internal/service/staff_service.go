package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/nwced/clc-registry-api/internal/models"
	"github.com/nwced/clc-registry-api/internal/store"
	appErrors "github.com/nwced/clc-registry-api/pkg/errors"
)

// CreateStaffRequest holds payload for registering a staff member.
type CreateStaffRequest struct {
	StaffID        string   `json:"staff_id" validate:"required"`
	FirstName      string   `json:"first_name" validate:"required"`
	LastName       string   `json:"last_name" validate:"required"`
	Position       string   `json:"position"`
	Department     string   `json:"department"`
	Email          string   `json:"email" validate:"omitempty,email"`
	Phone          string   `json:"phone"`
	Verified       bool     `json:"verified"`
	Qualifications []string `json:"qualifications"`
	Skills         []string `json:"skills"`
	Workload       int      `json:"workload" validate:"gte=0"`
	SiteID         *int64   `json:"site_id"`
}

// StaffService handles staff use-cases and their audit side effects.
type StaffService struct {
	staff     store.Staff
	sites     store.Sites
	audit     *auditTrail
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStaffService constructs the staff service.
func NewStaffService(staff store.Staff, sites store.Sites, activities store.Activities, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *StaffService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StaffService{
		staff:     staff,
		sites:     sites,
		audit:     newAuditTrail(activities, logger),
		metrics:   metrics,
		validator: validate,
		logger:    logger,
	}
}

// List returns staff matching the filter plus pagination metadata.
func (s *StaffService) List(ctx context.Context, filter models.StaffFilter) ([]models.Staff, *models.Pagination, error) {
	rows, err := s.staff.GetAll(ctx)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list staff")
	}

	filtered := make([]models.Staff, 0, len(rows))
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	for _, member := range rows {
		if filter.Department != "" && member.Department != filter.Department {
			continue
		}
		if filter.SiteID != nil && (member.SiteID == nil || *member.SiteID != *filter.SiteID) {
			continue
		}
		if filter.Verified != nil && member.Verified != *filter.Verified {
			continue
		}
		if search != "" {
			fullName := strings.ToLower(member.FirstName + " " + member.LastName)
			if !strings.Contains(fullName, search) &&
				!strings.Contains(strings.ToLower(member.StaffID), search) {
				continue
			}
		}
		filtered = append(filtered, member)
	}

	sortStaff(filtered, filter.SortBy, filter.SortOrder)

	page, size, pagination := paginate(len(filtered), filter.Page, filter.PageSize)
	return pageSlice(filtered, page, size), pagination, nil
}

// Get returns a single staff member by internal id.
func (s *StaffService) Get(ctx context.Context, id int64) (*models.Staff, error) {
	member, err := s.staff.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "staff member not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load staff member")
	}
	return member, nil
}

// GetBySite returns the staff assigned to one site. An unknown site yields
// an empty list, not an error.
func (s *StaffService) GetBySite(ctx context.Context, siteID int64) ([]models.Staff, error) {
	rows, err := s.staff.GetBySite(ctx, siteID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list staff by site")
	}
	return rows, nil
}

// Create registers a new staff member and records a staff_creation activity.
func (s *StaffService) Create(ctx context.Context, req CreateStaffRequest, actorID int64) (*models.Staff, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid staff payload")
	}
	if actorID == 0 {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "acting user required")
	}
	if req.SiteID != nil {
		if _, err := s.sites.Get(ctx, *req.SiteID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, appErrors.Clone(appErrors.ErrValidation, "assigned site does not exist")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify site")
		}
	}

	member := &models.Staff{
		StaffID:        strings.TrimSpace(req.StaffID),
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Position:       req.Position,
		Department:     req.Department,
		Email:          req.Email,
		Phone:          req.Phone,
		Verified:       req.Verified,
		Qualifications: req.Qualifications,
		Skills:         req.Skills,
		Workload:       req.Workload,
		SiteID:         req.SiteID,
	}

	if err := s.staff.Create(ctx, member); err != nil {
		if errors.Is(err, store.ErrDuplicateID) {
			return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("staff id %s already used", member.StaffID))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create staff member")
	}

	s.audit.record(ctx, models.ActivityStaffCreation,
		fmt.Sprintf("Staff member %s %s (%s) registered", member.FirstName, member.LastName, member.StaffID),
		models.EntityStaff, member.ID, actorID)
	s.metrics.RecordEntityWrite("staff", "create")

	return member, nil
}

// Update applies a partial update and records a staff_update activity.
func (s *StaffService) Update(ctx context.Context, id int64, patch models.StaffPatch, actorID int64) (*models.Staff, error) {
	if actorID == 0 {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "acting user required")
	}
	if patch.SiteID != nil && *patch.SiteID != 0 {
		if _, err := s.sites.Get(ctx, *patch.SiteID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, appErrors.Clone(appErrors.ErrValidation, "assigned site does not exist")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify site")
		}
	}

	member, err := s.staff.Update(ctx, id, patch)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return nil, appErrors.Clone(appErrors.ErrNotFound, "staff member not found")
		case errors.Is(err, store.ErrDuplicateID):
			return nil, appErrors.Clone(appErrors.ErrConflict, "staff id already used")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update staff member")
	}

	s.audit.record(ctx, models.ActivityStaffUpdate,
		fmt.Sprintf("Staff member %s %s (%s) updated", member.FirstName, member.LastName, member.StaffID),
		models.EntityStaff, member.ID, actorID)
	s.metrics.RecordEntityWrite("staff", "update")

	return member, nil
}

// Delete removes a staff member.
func (s *StaffService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.staff.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete staff member")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "staff member not found")
	}
	s.metrics.RecordEntityWrite("staff", "delete")
	return nil
}

func sortStaff(rows []models.Staff, sortBy, sortOrder string) {
	less := func(a, b models.Staff) bool { return a.ID < b.ID }
	switch sortBy {
	case "last_name":
		less = func(a, b models.Staff) bool { return a.LastName < b.LastName }
	case "staff_id":
		less = func(a, b models.Staff) bool { return a.StaffID < b.StaffID }
	case "department":
		less = func(a, b models.Staff) bool { return a.Department < b.Department }
	case "workload":
		less = func(a, b models.Staff) bool { return a.Workload < b.Workload }
	}
	desc := strings.EqualFold(sortOrder, "desc")
	sort.SliceStable(rows, func(i, j int) bool {
		if desc {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})
}
