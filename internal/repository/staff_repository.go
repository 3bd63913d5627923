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

const staffColumns = `id, staff_id, first_name, last_name, position, department, email, phone,
	verified, qualifications, skills, workload, site_id, created_at, updated_at`

// StaffRepository manages persistence for staff records.
type StaffRepository struct {
	db *sqlx.DB
}

// NewStaffRepository constructs a StaffRepository.
func NewStaffRepository(db *sqlx.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

// GetAll returns every staff member in insertion order.
func (r *StaffRepository) GetAll(ctx context.Context) ([]models.Staff, error) {
	query := fmt.Sprintf("SELECT %s FROM staff ORDER BY id", staffColumns)
	rows := []models.Staff{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, translate(err, "list staff")
	}
	return rows, nil
}

// Get fetches a staff member by internal id.
func (r *StaffRepository) Get(ctx context.Context, id int64) (*models.Staff, error) {
	query := fmt.Sprintf("SELECT %s FROM staff WHERE id = $1", staffColumns)
	var row models.Staff
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, translate(err, "get staff")
	}
	return &row, nil
}

// GetBySite returns staff assigned to the given site.
func (r *StaffRepository) GetBySite(ctx context.Context, siteID int64) ([]models.Staff, error) {
	query := fmt.Sprintf("SELECT %s FROM staff WHERE site_id = $1 ORDER BY id", staffColumns)
	rows := []models.Staff{}
	if err := r.db.SelectContext(ctx, &rows, query, siteID); err != nil {
		return nil, translate(err, "list staff by site")
	}
	return rows, nil
}

// Create inserts a new staff member and assigns its internal id.
func (r *StaffRepository) Create(ctx context.Context, staff *models.Staff) error {
	now := time.Now().UTC()
	staff.CreatedAt = now
	staff.UpdatedAt = now
	if staff.Qualifications == nil {
		staff.Qualifications = pq.StringArray{}
	}
	if staff.Skills == nil {
		staff.Skills = pq.StringArray{}
	}
	const query = `INSERT INTO staff (staff_id, first_name, last_name, position, department, email, phone,
		verified, qualifications, skills, workload, site_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id`
	err := r.db.GetContext(ctx, &staff.ID, query,
		staff.StaffID, staff.FirstName, staff.LastName, staff.Position, staff.Department, staff.Email, staff.Phone,
		staff.Verified, staff.Qualifications, staff.Skills, staff.Workload, staff.SiteID, staff.CreatedAt, staff.UpdatedAt,
	)
	if err != nil {
		return translate(err, "create staff")
	}
	return nil
}

// Update merges the non-nil patch fields onto the stored row.
func (r *StaffRepository) Update(ctx context.Context, id int64, patch models.StaffPatch) (*models.Staff, error) {
	sets := []string{}
	args := []interface{}{}
	add := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)+1))
		args = append(args, value)
	}

	if patch.StaffID != nil {
		add("staff_id", *patch.StaffID)
	}
	if patch.FirstName != nil {
		add("first_name", *patch.FirstName)
	}
	if patch.LastName != nil {
		add("last_name", *patch.LastName)
	}
	if patch.Position != nil {
		add("position", *patch.Position)
	}
	if patch.Department != nil {
		add("department", *patch.Department)
	}
	if patch.Email != nil {
		add("email", *patch.Email)
	}
	if patch.Phone != nil {
		add("phone", *patch.Phone)
	}
	if patch.Verified != nil {
		add("verified", *patch.Verified)
	}
	if patch.Qualifications != nil {
		add("qualifications", pq.StringArray(*patch.Qualifications))
	}
	if patch.Skills != nil {
		add("skills", pq.StringArray(*patch.Skills))
	}
	if patch.Workload != nil {
		add("workload", *patch.Workload)
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
	query := fmt.Sprintf("UPDATE staff SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), staffColumns)

	var row models.Staff
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return nil, translate(err, "update staff")
	}
	return &row, nil
}

// Delete removes a staff member, reporting whether a row was deleted.
func (r *StaffRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM staff WHERE id = $1", id)
	if err != nil {
		return false, translate(err, "delete staff")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, translate(err, "delete staff")
	}
	return affected > 0, nil
}
