package models

import "time"

// Program represents an educational offering hosted at a site.
type Program struct {
	ID              int64      `db:"id" json:"id"`
	ProgramID       string     `db:"program_id" json:"program_id"`
	Name            string     `db:"name" json:"name"`
	Category        string     `db:"category" json:"category"`
	Description     string     `db:"description" json:"description"`
	EnrollmentCount int        `db:"enrollment_count" json:"enrollment_count"`
	StartDate       *time.Time `db:"start_date" json:"start_date,omitempty"`
	EndDate         *time.Time `db:"end_date" json:"end_date,omitempty"`
	Status          string     `db:"status" json:"status"`
	Notes           string     `db:"notes" json:"notes"`
	SiteID          *int64     `db:"site_id" json:"site_id,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// ProgramPatch carries the mutable subset of program fields for partial updates.
type ProgramPatch struct {
	ProgramID       *string    `json:"program_id"`
	Name            *string    `json:"name"`
	Category        *string    `json:"category"`
	Description     *string    `json:"description"`
	EnrollmentCount *int       `json:"enrollment_count"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	Status          *string    `json:"status"`
	Notes           *string    `json:"notes"`
	SiteID          *int64     `json:"site_id"`
}

// ProgramFilter captures allowed search parameters for listing programs.
type ProgramFilter struct {
	Search    string
	Category  string
	Status    string
	SiteID    *int64
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
