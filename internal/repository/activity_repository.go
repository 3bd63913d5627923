package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nwced/clc-registry-api/internal/models"
)

const activityColumns = `id, type, description, related_entity_type, related_entity_id,
	performed_by, status, timestamp`

// ActivityRepository manages persistence for the activity audit trail.
type ActivityRepository struct {
	db *sqlx.DB
}

// NewActivityRepository constructs an ActivityRepository.
func NewActivityRepository(db *sqlx.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// GetAll returns every activity in insertion order.
func (r *ActivityRepository) GetAll(ctx context.Context) ([]models.Activity, error) {
	query := fmt.Sprintf(`SELECT %s FROM activities ORDER BY id`, activityColumns)
	rows := []models.Activity{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, translate(err, "list activities")
	}
	return rows, nil
}

// Get fetches an activity by internal id.
func (r *ActivityRepository) Get(ctx context.Context, id int64) (*models.Activity, error) {
	query := fmt.Sprintf(`SELECT %s FROM activities WHERE id = $1`, activityColumns)
	var row models.Activity
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, translate(err, "get activity")
	}
	return &row, nil
}

// GetBySite returns activities referencing the given site.
func (r *ActivityRepository) GetBySite(ctx context.Context, siteID int64) ([]models.Activity, error) {
	query := fmt.Sprintf(`SELECT %s FROM activities
		WHERE related_entity_type = $1 AND related_entity_id = $2 ORDER BY id`, activityColumns)
	rows := []models.Activity{}
	if err := r.db.SelectContext(ctx, &rows, query, models.EntitySite, siteID); err != nil {
		return nil, translate(err, "list activities by site")
	}
	return rows, nil
}

// List returns newest-first pages of the trail matching the filter.
func (r *ActivityRepository) List(ctx context.Context, filter models.ActivityFilter) ([]models.Activity, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	if filter.Type != "" {
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)+1))
		args = append(args, filter.Type)
	}
	if filter.RelatedEntityType != "" {
		conditions = append(conditions, fmt.Sprintf("related_entity_type = $%d", len(args)+1))
		args = append(args, filter.RelatedEntityType)
	}
	if filter.RelatedEntityID != nil {
		conditions = append(conditions, fmt.Sprintf("related_entity_id = $%d", len(args)+1))
		args = append(args, *filter.RelatedEntityID)
	}
	if filter.PerformedBy != nil {
		conditions = append(conditions, fmt.Sprintf("performed_by = $%d", len(args)+1))
		args = append(args, *filter.PerformedBy)
	}
	where := strings.Join(conditions, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT %s FROM activities WHERE %s ORDER BY id DESC LIMIT %d OFFSET %d`,
		activityColumns, where, size, offset)
	rows := []models.Activity{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, translate(err, "list activities")
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM activities WHERE %s", where)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, translate(err, "count activities")
	}
	return rows, total, nil
}

// Create appends an activity, stamping the server-side timestamp.
func (r *ActivityRepository) Create(ctx context.Context, activity *models.Activity) error {
	activity.Timestamp = time.Now().UTC()
	const query = `INSERT INTO activities (type, description, related_entity_type, related_entity_id,
		performed_by, status, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.db.GetContext(ctx, &activity.ID, query,
		activity.Type, activity.Description, activity.RelatedEntityType, activity.RelatedEntityID,
		activity.PerformedBy, activity.Status, activity.Timestamp,
	)
	if err != nil {
		return translate(err, "create activity")
	}
	return nil
}

// UpdateStatus sets the workflow status in place. The service layer
// restricts this to the recommendation subtype.
func (r *ActivityRepository) UpdateStatus(ctx context.Context, id int64, status string) (*models.Activity, error) {
	query := fmt.Sprintf(`UPDATE activities SET status = $1 WHERE id = $2 RETURNING %s`, activityColumns)
	var row models.Activity
	if err := r.db.GetContext(ctx, &row, query, status, id); err != nil {
		return nil, translate(err, "update activity status")
	}
	return &row, nil
}

// Delete removes an activity, reporting whether a row was deleted.
func (r *ActivityRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM activities WHERE id = $1", id)
	if err != nil {
		return false, translate(err, "delete activity")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, translate(err, "delete activity")
	}
	return affected > 0, nil
}
