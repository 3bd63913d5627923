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

// CreateAssetRequest holds payload for registering an asset.
type CreateAssetRequest struct {
	AssetID             string     `json:"asset_id" validate:"required"`
	Name                string     `json:"name" validate:"required"`
	Category            string     `json:"category" validate:"required,oneof=Equipment Furniture IT Teaching Office Other"`
	Type                string     `json:"type"`
	Manufacturer        string     `json:"manufacturer"`
	Model               string     `json:"model"`
	SerialNumbers       []string   `json:"serial_numbers"`
	PurchaseDate        *time.Time `json:"purchase_date"`
	PurchasePrice       *float64   `json:"purchase_price"`
	Condition           string     `json:"condition"`
	Location            string     `json:"location"`
	AssignedTo          string     `json:"assigned_to"`
	LastMaintenanceDate *time.Time `json:"last_maintenance_date"`
	NextMaintenanceDate *time.Time `json:"next_maintenance_date"`
	Notes               string     `json:"notes"`
	ImageURLs           []string   `json:"image_urls"`
	SiteID              *int64     `json:"site_id"`
}

// AssetService handles asset use-cases and their audit side effects.
type AssetService struct {
	assets    store.Assets
	sites     store.Sites
	audit     *auditTrail
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAssetService constructs the asset service.
func NewAssetService(assets store.Assets, sites store.Sites, activities store.Activities, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *AssetService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssetService{
		assets:    assets,
		sites:     sites,
		audit:     newAuditTrail(activities, logger),
		metrics:   metrics,
		validator: validate,
		logger:    logger,
	}
}

// List returns assets matching the filter plus pagination metadata.
func (s *AssetService) List(ctx context.Context, filter models.AssetFilter) ([]models.Asset, *models.Pagination, error) {
	rows, err := s.assets.GetAll(ctx)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assets")
	}

	filtered := make([]models.Asset, 0, len(rows))
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	for _, asset := range rows {
		if filter.Category != "" && asset.Category != filter.Category {
			continue
		}
		if filter.Condition != "" && asset.Condition != filter.Condition {
			continue
		}
		if filter.SiteID != nil && (asset.SiteID == nil || *asset.SiteID != *filter.SiteID) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(asset.Name), search) &&
			!strings.Contains(strings.ToLower(asset.AssetID), search) {
			continue
		}
		filtered = append(filtered, asset)
	}

	sortAssets(filtered, filter.SortBy, filter.SortOrder)

	page, size, pagination := paginate(len(filtered), filter.Page, filter.PageSize)
	return pageSlice(filtered, page, size), pagination, nil
}

// Get returns a single asset by internal id.
func (s *AssetService) Get(ctx context.Context, id int64) (*models.Asset, error) {
	asset, err := s.assets.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "asset not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load asset")
	}
	return asset, nil
}

// GetBySite returns the assets assigned to one site.
func (s *AssetService) GetBySite(ctx context.Context, siteID int64) ([]models.Asset, error) {
	rows, err := s.assets.GetBySite(ctx, siteID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assets by site")
	}
	return rows, nil
}

// Create registers a new asset and records an asset_creation activity.
func (s *AssetService) Create(ctx context.Context, req CreateAssetRequest, actorID int64) (*models.Asset, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid asset payload")
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

	asset := &models.Asset{
		AssetID:             strings.TrimSpace(req.AssetID),
		Name:                req.Name,
		Category:            req.Category,
		Type:                req.Type,
		Manufacturer:        req.Manufacturer,
		Model:               req.Model,
		SerialNumbers:       req.SerialNumbers,
		PurchaseDate:        req.PurchaseDate,
		PurchasePrice:       req.PurchasePrice,
		Condition:           defaultString(req.Condition, models.ConditionNotAssessed),
		Location:            req.Location,
		AssignedTo:          req.AssignedTo,
		LastMaintenanceDate: req.LastMaintenanceDate,
		NextMaintenanceDate: req.NextMaintenanceDate,
		Notes:               req.Notes,
		ImageURLs:           req.ImageURLs,
		SiteID:              req.SiteID,
	}

	if err := s.assets.Create(ctx, asset); err != nil {
		if errors.Is(err, store.ErrDuplicateID) {
			return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("asset id %s already used", asset.AssetID))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create asset")
	}

	s.audit.record(ctx, models.ActivityAssetCreation,
		fmt.Sprintf("Asset %s (%s) registered", asset.Name, asset.AssetID),
		models.EntityAsset, asset.ID, actorID)
	s.metrics.RecordEntityWrite("asset", "create")

	return asset, nil
}

// Update applies a partial update and records an asset_update activity.
func (s *AssetService) Update(ctx context.Context, id int64, patch models.AssetPatch, actorID int64) (*models.Asset, error) {
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

	asset, err := s.assets.Update(ctx, id, patch)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return nil, appErrors.Clone(appErrors.ErrNotFound, "asset not found")
		case errors.Is(err, store.ErrDuplicateID):
			return nil, appErrors.Clone(appErrors.ErrConflict, "asset id already used")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update asset")
	}

	s.audit.record(ctx, models.ActivityAssetUpdate,
		fmt.Sprintf("Asset %s (%s) updated", asset.Name, asset.AssetID),
		models.EntityAsset, asset.ID, actorID)
	s.metrics.RecordEntityWrite("asset", "update")

	return asset, nil
}

// Delete removes an asset.
func (s *AssetService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.assets.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete asset")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "asset not found")
	}
	s.metrics.RecordEntityWrite("asset", "delete")
	return nil
}

func sortAssets(rows []models.Asset, sortBy, sortOrder string) {
	less := func(a, b models.Asset) bool { return a.ID < b.ID }
	switch sortBy {
	case "name":
		less = func(a, b models.Asset) bool { return a.Name < b.Name }
	case "asset_id":
		less = func(a, b models.Asset) bool { return a.AssetID < b.AssetID }
	case "category":
		less = func(a, b models.Asset) bool { return a.Category < b.Category }
	case "condition":
		less = func(a, b models.Asset) bool { return a.Condition < b.Condition }
	}
	desc := strings.EqualFold(sortOrder, "desc")
	sort.SliceStable(rows, func(i, j int) bool {
		if desc {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})
}
