package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/nwced/clc-registry-api/internal/models"
	"github.com/nwced/clc-registry-api/internal/store"
	appErrors "github.com/nwced/clc-registry-api/pkg/errors"
)

// CreateActivityRequest holds payload for manually recorded activities:
// field observations, verifications and recommendations. System entries
// (creation/update trail) are appended by the entity services instead.
type CreateActivityRequest struct {
	Type              string `json:"type" validate:"required,oneof=site_visit data_verification photo_upload recommendation"`
	Description       string `json:"description" validate:"required"`
	RelatedEntityType string `json:"related_entity_type" validate:"required"`
	RelatedEntityID   int64  `json:"related_entity_id" validate:"required,gt=0"`
}

// ActivityService manages the audit trail and the recommendation workflow.
type ActivityService struct {
	activities store.Activities
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewActivityService constructs the activity service.
func NewActivityService(activities store.Activities, validate *validator.Validate, logger *zap.Logger) *ActivityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityService{activities: activities, validator: validate, logger: logger}
}

// List returns newest-first pages of the trail.
func (s *ActivityService) List(ctx context.Context, filter models.ActivityFilter) ([]models.Activity, *models.Pagination, error) {
	if filter.RelatedEntityType != "" {
		if _, err := models.ParseEntityType(filter.RelatedEntityType); err != nil {
			return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid related entity type")
		}
	}
	rows, total, err := s.activities.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list activities")
	}
	_, _, pagination := paginate(total, filter.Page, filter.PageSize)
	return rows, pagination, nil
}

// Get returns a single trail entry.
func (s *ActivityService) Get(ctx context.Context, id int64) (*models.Activity, error) {
	activity, err := s.activities.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "activity not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load activity")
	}
	return activity, nil
}

// GetBySite returns trail entries referencing one site.
func (s *ActivityService) GetBySite(ctx context.Context, siteID int64) ([]models.Activity, error) {
	rows, err := s.activities.GetBySite(ctx, siteID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list site activities")
	}
	return rows, nil
}

// Visits returns the site_visit entries for one site.
func (s *ActivityService) Visits(ctx context.Context, siteID int64) ([]models.Activity, error) {
	rows, err := s.activities.GetBySite(ctx, siteID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list site visits")
	}
	visits := make([]models.Activity, 0, len(rows))
	for _, activity := range rows {
		if activity.Type == models.ActivitySiteVisit {
			visits = append(visits, activity)
		}
	}
	return visits, nil
}

// Create appends a manually recorded activity attributed to the actor.
// Recommendations start in the Pending state.
func (s *ActivityService) Create(ctx context.Context, req CreateActivityRequest, actorID int64) (*models.Activity, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid activity payload")
	}
	if actorID == 0 {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "acting user required")
	}
	entityType, err := models.ParseEntityType(req.RelatedEntityType)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid related entity type")
	}

	activity := &models.Activity{
		Type:              req.Type,
		Description:       req.Description,
		RelatedEntityType: entityType,
		RelatedEntityID:   req.RelatedEntityID,
		PerformedBy:       actorID,
	}
	if activity.IsRecommendation() {
		pending := models.RecommendationPending
		activity.Status = &pending
	}

	if err := s.activities.Create(ctx, activity); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record activity")
	}
	return activity, nil
}

// UpdateRecommendationStatus moves a recommendation through its workflow.
// Every other activity subtype is immutable.
func (s *ActivityService) UpdateRecommendationStatus(ctx context.Context, id int64, status string) (*models.Activity, error) {
	switch status {
	case models.RecommendationPending, models.RecommendationCompleted, models.RecommendationDiscarded:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown recommendation status %q", status))
	}

	existing, err := s.activities.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "activity not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load activity")
	}
	if !existing.IsRecommendation() {
		return nil, appErrors.Clone(appErrors.ErrConflict, "only recommendations carry a status")
	}

	updated, err := s.activities.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "activity not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update recommendation")
	}
	return updated, nil
}

// DeleteRecommendation removes a recommendation entry. Audit entries of any
// other subtype cannot be deleted.
func (s *ActivityService) DeleteRecommendation(ctx context.Context, id int64) error {
	existing, err := s.activities.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return appErrors.Clone(appErrors.ErrNotFound, "activity not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load activity")
	}
	if !existing.IsRecommendation() {
		return appErrors.Clone(appErrors.ErrConflict, "only recommendations can be deleted")
	}

	deleted, err := s.activities.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete recommendation")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "activity not found")
	}
	return nil
}
