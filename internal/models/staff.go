package models

import (
	"time"

	"github.com/lib/pq"
)

// Staff represents a person assigned to at most one site. SiteID is a weak
// reference: deleting the site neither cascades nor blocks.
type Staff struct {
	ID             int64          `db:"id" json:"id"`
	StaffID        string         `db:"staff_id" json:"staff_id"`
	FirstName      string         `db:"first_name" json:"first_name"`
	LastName       string         `db:"last_name" json:"last_name"`
	Position       string         `db:"position" json:"position"`
	Department     string         `db:"department" json:"department"`
	Email          string         `db:"email" json:"email"`
	Phone          string         `db:"phone" json:"phone"`
	Verified       bool           `db:"verified" json:"verified"`
	Qualifications pq.StringArray `db:"qualifications" json:"qualifications"`
	Skills         pq.StringArray `db:"skills" json:"skills"`
	Workload       int            `db:"workload" json:"workload"`
	SiteID         *int64         `db:"site_id" json:"site_id,omitempty"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

// StaffPatch carries the mutable subset of staff fields for partial updates.
type StaffPatch struct {
	StaffID        *string   `json:"staff_id"`
	FirstName      *string   `json:"first_name"`
	LastName       *string   `json:"last_name"`
	Position       *string   `json:"position"`
	Department     *string   `json:"department"`
	Email          *string   `json:"email"`
	Phone          *string   `json:"phone"`
	Verified       *bool     `json:"verified"`
	Qualifications *[]string `json:"qualifications"`
	Skills         *[]string `json:"skills"`
	Workload       *int      `json:"workload"`
	SiteID         *int64    `json:"site_id"`
}

// StaffFilter captures allowed search parameters for listing staff.
type StaffFilter struct {
	Search     string
	Department string
	SiteID     *int64
	Verified   *bool
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
