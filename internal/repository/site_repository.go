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

const siteColumns = `id, site_id, name, type, district, address, latitude, longitude,
	operational_status, assessment_status, classrooms, offices, labs, workshops,
	building_condition, electrical_status, plumbing_status, interior_condition, exterior_condition,
	notes, image_urls, created_by, last_visited_by, last_visit_date, created_at, updated_at`

// SiteRepository manages persistence for site records.
type SiteRepository struct {
	db *sqlx.DB
}

// NewSiteRepository constructs a SiteRepository.
func NewSiteRepository(db *sqlx.DB) *SiteRepository {
	return &SiteRepository{db: db}
}

// GetAll returns every site in insertion order.
func (r *SiteRepository) GetAll(ctx context.Context) ([]models.Site, error) {
	query := fmt.Sprintf("SELECT %s FROM sites ORDER BY id", siteColumns)
	sites := []models.Site{}
	if err := r.db.SelectContext(ctx, &sites, query); err != nil {
		return nil, translate(err, "list sites")
	}
	return sites, nil
}

// Get fetches a site by internal id.
func (r *SiteRepository) Get(ctx context.Context, id int64) (*models.Site, error) {
	query := fmt.Sprintf("SELECT %s FROM sites WHERE id = $1", siteColumns)
	var site models.Site
	if err := r.db.GetContext(ctx, &site, query, id); err != nil {
		return nil, translate(err, "get site")
	}
	return &site, nil
}

// Create inserts a new site and assigns its internal id.
func (r *SiteRepository) Create(ctx context.Context, site *models.Site) error {
	now := time.Now().UTC()
	site.CreatedAt = now
	site.UpdatedAt = now
	if site.ImageURLs == nil {
		site.ImageURLs = pq.StringArray{}
	}
	const query = `INSERT INTO sites (site_id, name, type, district, address, latitude, longitude,
		operational_status, assessment_status, classrooms, offices, labs, workshops,
		building_condition, electrical_status, plumbing_status, interior_condition, exterior_condition,
		notes, image_urls, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
		RETURNING id`
	err := r.db.GetContext(ctx, &site.ID, query,
		site.SiteID, site.Name, site.Type, site.District, site.Address, site.Latitude, site.Longitude,
		site.OperationalStatus, site.AssessmentStatus, site.Classrooms, site.Offices, site.Labs, site.Workshops,
		site.BuildingCondition, site.ElectricalStatus, site.PlumbingStatus, site.InteriorCondition, site.ExteriorCondition,
		site.Notes, site.ImageURLs, site.CreatedBy, site.CreatedAt, site.UpdatedAt,
	)
	if err != nil {
		return translate(err, "create site")
	}
	return nil
}

// Update merges the non-nil patch fields onto the stored row and returns the
// updated site. A missing id surfaces as store.ErrNotFound.
func (r *SiteRepository) Update(ctx context.Context, id int64, patch models.SitePatch) (*models.Site, error) {
	sets := []string{}
	args := []interface{}{}
	add := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)+1))
		args = append(args, value)
	}

	if patch.SiteID != nil {
		add("site_id", *patch.SiteID)
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Type != nil {
		add("type", *patch.Type)
	}
	if patch.District != nil {
		add("district", *patch.District)
	}
	if patch.Address != nil {
		add("address", *patch.Address)
	}
	if patch.Latitude != nil {
		add("latitude", *patch.Latitude)
	}
	if patch.Longitude != nil {
		add("longitude", *patch.Longitude)
	}
	if patch.OperationalStatus != nil {
		add("operational_status", *patch.OperationalStatus)
	}
	if patch.AssessmentStatus != nil {
		add("assessment_status", *patch.AssessmentStatus)
	}
	if patch.Classrooms != nil {
		add("classrooms", *patch.Classrooms)
	}
	if patch.Offices != nil {
		add("offices", *patch.Offices)
	}
	if patch.Labs != nil {
		add("labs", *patch.Labs)
	}
	if patch.Workshops != nil {
		add("workshops", *patch.Workshops)
	}
	if patch.BuildingCondition != nil {
		add("building_condition", *patch.BuildingCondition)
	}
	if patch.ElectricalStatus != nil {
		add("electrical_status", *patch.ElectricalStatus)
	}
	if patch.PlumbingStatus != nil {
		add("plumbing_status", *patch.PlumbingStatus)
	}
	if patch.InteriorCondition != nil {
		add("interior_condition", *patch.InteriorCondition)
	}
	if patch.ExteriorCondition != nil {
		add("exterior_condition", *patch.ExteriorCondition)
	}
	if patch.Notes != nil {
		add("notes", *patch.Notes)
	}
	if patch.ImageURLs != nil {
		add("image_urls", pq.StringArray(*patch.ImageURLs))
	}
	if len(sets) == 0 {
		return r.Get(ctx, id)
	}
	add("updated_at", time.Now().UTC())

	args = append(args, id)
	query := fmt.Sprintf("UPDATE sites SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), siteColumns)

	var site models.Site
	if err := r.db.GetContext(ctx, &site, query, args...); err != nil {
		return nil, translate(err, "update site")
	}
	return &site, nil
}

// Delete removes a site, reporting whether a row was actually deleted.
func (r *SiteRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM sites WHERE id = $1", id)
	if err != nil {
		return false, translate(err, "delete site")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, translate(err, "delete site")
	}
	return affected > 0, nil
}

// RecordVisit stamps the audit fields for a completed field visit.
func (r *SiteRepository) RecordVisit(ctx context.Context, id int64, visitorID int64, visitedAt time.Time) (*models.Site, error) {
	query := fmt.Sprintf(`UPDATE sites SET last_visited_by = $1, last_visit_date = $2, updated_at = $3
		WHERE id = $4 RETURNING %s`, siteColumns)
	var site models.Site
	if err := r.db.GetContext(ctx, &site, query, visitorID, visitedAt, time.Now().UTC(), id); err != nil {
		return nil, translate(err, "record site visit")
	}
	return &site, nil
}
