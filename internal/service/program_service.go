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

// CreateProgramRequest holds payload for registering a program.
type CreateProgramRequest struct {
	ProgramID       string     `json:"program_id" validate:"required"`
	Name            string     `json:"name" validate:"required"`
	Category        string     `json:"category"`
	Description     string     `json:"description"`
	EnrollmentCount int        `json:"enrollment_count" validate:"gte=0"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	Status          string     `json:"status" validate:"omitempty,oneof=Active Inactive Planned"`
	Notes           string     `json:"notes"`
	SiteID          *int64     `json:"site_id"`
}

// ProgramService handles program use-cases and their audit side effects.
type ProgramService struct {
	programs  store.Programs
	sites     store.Sites
	audit     *auditTrail
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProgramService constructs the program service.
func NewProgramService(programs store.Programs, sites store.Sites, activities store.Activities, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *ProgramService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgramService{
		programs:  programs,
		sites:     sites,
		audit:     newAuditTrail(activities, logger),
		metrics:   metrics,
		validator: validate,
		logger:    logger,
	}
}

// List returns programs matching the filter plus pagination metadata.
func (s *ProgramService) List(ctx context.Context, filter models.ProgramFilter) ([]models.Program, *models.Pagination, error) {
	rows, err := s.programs.GetAll(ctx)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list programs")
	}

	filtered := make([]models.Program, 0, len(rows))
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	for _, program := range rows {
		if filter.Category != "" && program.Category != filter.Category {
			continue
		}
		if filter.Status != "" && program.Status != filter.Status {
			continue
		}
		if filter.SiteID != nil && (program.SiteID == nil || *program.SiteID != *filter.SiteID) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(program.Name), search) &&
			!strings.Contains(strings.ToLower(program.ProgramID), search) {
			continue
		}
		filtered = append(filtered, program)
	}

	sortPrograms(filtered, filter.SortBy, filter.SortOrder)

	page, size, pagination := paginate(len(filtered), filter.Page, filter.PageSize)
	return pageSlice(filtered, page, size), pagination, nil
}

// Get returns a single program by internal id.
func (s *ProgramService) Get(ctx context.Context, id int64) (*models.Program, error) {
	program, err := s.programs.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "program not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load program")
	}
	return program, nil
}

// GetBySite returns the programs hosted at one site.
func (s *ProgramService) GetBySite(ctx context.Context, siteID int64) ([]models.Program, error) {
	rows, err := s.programs.GetBySite(ctx, siteID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list programs by site")
	}
	return rows, nil
}

// Create registers a new program and records a program_creation activity.
func (s *ProgramService) Create(ctx context.Context, req CreateProgramRequest, actorID int64) (*models.Program, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid program payload")
	}
	if actorID == 0 {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "acting user required")
	}
	if req.SiteID != nil {
		if _, err := s.sites.Get(ctx, *req.SiteID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, appErrors.Clone(appErrors.ErrValidation, "host site does not exist")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify site")
		}
	}

	program := &models.Program{
		ProgramID:       strings.TrimSpace(req.ProgramID),
		Name:            req.Name,
		Category:        req.Category,
		Description:     req.Description,
		EnrollmentCount: req.EnrollmentCount,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		Status:          defaultString(req.Status, models.StatusActive),
		Notes:           req.Notes,
		SiteID:          req.SiteID,
	}

	if err := s.programs.Create(ctx, program); err != nil {
		if errors.Is(err, store.ErrDuplicateID) {
			return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("program id %s already used", program.ProgramID))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create program")
	}

	s.audit.record(ctx, models.ActivityProgramCreation,
		fmt.Sprintf("Program %s (%s) registered", program.Name, program.ProgramID),
		models.EntityProgram, program.ID, actorID)
	s.metrics.RecordEntityWrite("program", "create")

	return program, nil
}

// Update applies a partial update and records a program_update activity.
func (s *ProgramService) Update(ctx context.Context, id int64, patch models.ProgramPatch, actorID int64) (*models.Program, error) {
	if actorID == 0 {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "acting user required")
	}
	if patch.SiteID != nil && *patch.SiteID != 0 {
		if _, err := s.sites.Get(ctx, *patch.SiteID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, appErrors.Clone(appErrors.ErrValidation, "host site does not exist")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify site")
		}
	}

	program, err := s.programs.Update(ctx, id, patch)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return nil, appErrors.Clone(appErrors.ErrNotFound, "program not found")
		case errors.Is(err, store.ErrDuplicateID):
			return nil, appErrors.Clone(appErrors.ErrConflict, "program id already used")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update program")
	}

	s.audit.record(ctx, models.ActivityProgramUpdate,
		fmt.Sprintf("Program %s (%s) updated", program.Name, program.ProgramID),
		models.EntityProgram, program.ID, actorID)
	s.metrics.RecordEntityWrite("program", "update")

	return program, nil
}

// Delete removes a program.
func (s *ProgramService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.programs.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete program")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "program not found")
	}
	s.metrics.RecordEntityWrite("program", "delete")
	return nil
}

func sortPrograms(rows []models.Program, sortBy, sortOrder string) {
	less := func(a, b models.Program) bool { return a.ID < b.ID }
	switch sortBy {
	case "name":
		less = func(a, b models.Program) bool { return a.Name < b.Name }
	case "program_id":
		less = func(a, b models.Program) bool { return a.ProgramID < b.ProgramID }
	case "category":
		less = func(a, b models.Program) bool { return a.Category < b.Category }
	case "enrollment_count":
		less = func(a, b models.Program) bool { return a.EnrollmentCount < b.EnrollmentCount }
	}
	desc := strings.EqualFold(sortOrder, "desc")
	sort.SliceStable(rows, func(i, j int) bool {
		if desc {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})
}
