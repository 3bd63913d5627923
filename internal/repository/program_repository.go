package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nwced/clc-registry-api/internal/models"
)

const programColumns = `id, program_id, name, category, description, enrollment_count,
	start_date, end_date, status, notes, site_id, created_at, updated_at`

// ProgramRepository manages persistence for program records.
type ProgramRepository struct {
	db *sqlx.DB
}

// NewProgramRepository constructs a ProgramRepository.
func NewProgramRepository(db *sqlx.DB) *ProgramRepository {
	return &ProgramRepository{db: db}
}

// GetAll returns every program in insertion order.
func (r *ProgramRepository) GetAll(ctx context.Context) ([]models.Program, error) {
	query := fmt.Sprintf("SELECT %s FROM programs ORDER BY id", programColumns)
	rows := []models.Program{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, translate(err, "list programs")
	}
	return rows, nil
}

// Get fetches a program by internal id.
func (r *ProgramRepository) Get(ctx context.Context, id int64) (*models.Program, error) {
	query := fmt.Sprintf("SELECT %s FROM programs WHERE id = $1", programColumns)
	var row models.Program
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, translate(err, "get program")
	}
	return &row, nil
}

// GetBySite returns programs hosted at the given site.
func (r *ProgramRepository) GetBySite(ctx context.Context, siteID int64) ([]models.Program, error) {
	query := fmt.Sprintf("SELECT %s FROM programs WHERE site_id = $1 ORDER BY id", programColumns)
	rows := []models.Program{}
	if err := r.db.SelectContext(ctx, &rows, query, siteID); err != nil {
		return nil, translate(err, "list programs by site")
	}
	return rows, nil
}

// Create inserts a new program and assigns its internal id.
func (r *ProgramRepository) Create(ctx context.Context, program *models.Program) error {
	now := time.Now().UTC()
	program.CreatedAt = now
	program.UpdatedAt = now
	const query = `INSERT INTO programs (program_id, name, category, description, enrollment_count,
		start_date, end_date, status, notes, site_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`
	err := r.db.GetContext(ctx, &program.ID, query,
		program.ProgramID, program.Name, program.Category, program.Description, program.EnrollmentCount,
		program.StartDate, program.EndDate, program.Status, program.Notes, program.SiteID,
		program.CreatedAt, program.UpdatedAt,
	)
	if err != nil {
		return translate(err, "create program")
	}
	return nil
}

// Update merges the non-nil patch fields onto the stored row.
func (r *ProgramRepository) Update(ctx context.Context, id int64, patch models.ProgramPatch) (*models.Program, error) {
	sets := []string{}
	args := []interface{}{}
	add := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)+1))
		args = append(args, value)
	}

	if patch.ProgramID != nil {
		add("program_id", *patch.ProgramID)
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Category != nil {
		add("category", *patch.Category)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.EnrollmentCount != nil {
		add("enrollment_count", *patch.EnrollmentCount)
	}
	if patch.StartDate != nil {
		add("start_date", *patch.StartDate)
	}
	if patch.EndDate != nil {
		add("end_date", *patch.EndDate)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.Notes != nil {
		add("notes", *patch.Notes)
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
	query := fmt.Sprintf("UPDATE programs SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), programColumns)

	var row models.Program
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return nil, translate(err, "update program")
	}
	return &row, nil
}

// Delete removes a program, reporting whether a row was deleted.
func (r *ProgramRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM programs WHERE id = $1", id)
	if err != nil {
		return false, translate(err, "delete program")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, translate(err, "delete program")
	}
	return affected > 0, nil
}
