package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/nwced/clc-registry-api/internal/models"
)

const assetColumns = `id, asset_id, name, category, type, manufacturer, model, serial_numbers,
	purchase_date, purchase_price, condition, location, assigned_to,
	last_maintenance_date, next_maintenance_date, notes, image_urls, site_id, created_at, updated_at`

// AssetRepository manages persistence for asset records.
type AssetRepository struct {
	db *sqlx.DB
}

// NewAssetRepository constructs an AssetRepository.
func NewAssetRepository(db *sqlx.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

// GetAll returns every asset in insertion order.
func (r *AssetRepository) GetAll(ctx context.Context) ([]models.Asset, error) {
	query := fmt.Sprintf("SELECT %s FROM assets ORDER BY id", assetColumns)
	rows := []models.Asset{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, translate(err, "list assets")
	}
	return rows, nil
}

// Get fetches an asset by internal id.
func (r *AssetRepository) Get(ctx context.Context, id int64) (*models.Asset, error) {
	query := fmt.Sprintf("SELECT %s FROM assets WHERE id = $1", assetColumns)
	var row models.Asset
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, translate(err, "get asset")
	}
	return &row, nil
}

// GetBySite returns assets assigned to the given site.
func (r *AssetRepository) GetBySite(ctx context.Context, siteID int64) ([]models.Asset, error) {
	query := fmt.Sprintf("SELECT %s FROM assets WHERE site_id = $1 ORDER BY id", assetColumns)
	rows := []models.Asset{}
	if err := r.db.SelectContext(ctx, &rows, query, siteID); err != nil {
		return nil, translate(err, "list assets by site")
	}
	return rows, nil
}

// Create inserts a new asset and assigns its internal id.
func (r *AssetRepository) Create(ctx context.Context, asset *models.Asset) error {
	now := time.Now().UTC()
	asset.CreatedAt = now
	asset.UpdatedAt = now
	if asset.SerialNumbers == nil {
		asset.SerialNumbers = pq.StringArray{}
	}
	if asset.ImageURLs == nil {
		asset.ImageURLs = pq.StringArray{}
	}
	const query = `INSERT INTO assets (asset_id, name, category, type, manufacturer, model, serial_numbers,
		purchase_date, purchase_price, condition, location, assigned_to,
		last_maintenance_date, next_maintenance_date, notes, image_urls, site_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING id`
	err := r.db.GetContext(ctx, &asset.ID, query,
		asset.AssetID, asset.Name, asset.Category, asset.Type, asset.Manufacturer, asset.Model, asset.SerialNumbers,
		asset.PurchaseDate, asset.PurchasePrice, asset.Condition, asset.Location, asset.AssignedTo,
		asset.LastMaintenanceDate, asset.NextMaintenanceDate, asset.Notes, asset.ImageURLs, asset.SiteID,
		asset.CreatedAt, asset.UpdatedAt,
	)
	if err != nil {
		return translate(err, "create asset")
	}
	return nil
}

// Update merges the non-nil patch fields onto the stored row.
func (r *AssetRepository) Update(ctx context.Context, id int64, patch models.AssetPatch) (*models.Asset, error) {
	sets := []string{}
	args := []interface{}{}
	add := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)+1))
		args = append(args, value)
	}

	if patch.AssetID != nil {
		add("asset_id", *patch.AssetID)
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Category != nil {
		add("category", *patch.Category)
	}
	if patch.Type != nil {
		add("type", *patch.Type)
	}
	if patch.Manufacturer != nil {
		add("manufacturer", *patch.Manufacturer)
	}
	if patch.Model != nil {
		add("model", *patch.Model)
	}
	if patch.SerialNumbers != nil {
		add("serial_numbers", pq.StringArray(*patch.SerialNumbers))
	}
	if patch.PurchaseDate != nil {
		add("purchase_date", *patch.PurchaseDate)
	}
	if patch.PurchasePrice != nil {
		add("purchase_price", *patch.PurchasePrice)
	}
	if patch.Condition != nil {
		add("condition", *patch.Condition)
	}
	if patch.Location != nil {
		add("location", *patch.Location)
	}
	if patch.AssignedTo != nil {
		add("assigned_to", *patch.AssignedTo)
	}
	if patch.LastMaintenanceDate != nil {
		add("last_maintenance_date", *patch.LastMaintenanceDate)
	}
	if patch.NextMaintenanceDate != nil {
		add("next_maintenance_date", *patch.NextMaintenanceDate)
	}
	if patch.Notes != nil {
		add("notes", *patch.Notes)
	}
	if patch.ImageURLs != nil {
		add("image_urls", pq.StringArray(*patch.ImageURLs))
	}
	if patch.SiteID != nil {
		if *patch.SiteID == 0 {
			add("site_id", nil)
		} else {
			add("site_id", *patch.SiteID)
		}
	}
	if len(sets) == 0 {
		return r.Get(ctx, id)
	}
	add("updated_at", time.Now().UTC())

	args = append(args, id)
	query := fmt.Sprintf("UPDATE assets SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), assetColumns)

	var row models.Asset
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return nil, translate(err, "update asset")
	}
	return &row, nil
}

// Delete removes an asset, reporting whether a row was deleted.
func (r *AssetRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM assets WHERE id = $1", id)
	if err != nil {
		return false, translate(err, "delete asset")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, translate(err, "delete asset")
	}
	return affected > 0, nil
}
