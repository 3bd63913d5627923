package models

import (
	"time"

	"github.com/lib/pq"
)

// SiteType classifies a physical location.
const (
	SiteTypeCLC         = "CLC"
	SiteTypeSatellite   = "Satellite"
	SiteTypeOperational = "Operational"
)

// Operational status values shared by sites and programs.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
	StatusPlanned  = "Planned"
)

// Assessment workflow labels. These are labels only, not a governed state
// machine; the store accepts any of them in any order.
const (
	AssessmentToVisit      = "To Visit"
	AssessmentVisited      = "Visited"
	AssessmentDataVerified = "Data Verified"
)

// Condition rating values for site infrastructure and assets.
const (
	ConditionNotAssessed   = "Not assessed"
	ConditionExcellent     = "Excellent"
	ConditionGood          = "Good"
	ConditionFair          = "Fair"
	ConditionPoor          = "Poor"
	ConditionCritical      = "Critical"
	ConditionNonFunctional = "NonFunctional"
)

// Site represents a physical college location tracked by the registry.
// SiteID is the human-assigned business identifier (e.g. "CLC-001") and is
// unique across all sites; ID is the internal surrogate key.
type Site struct {
	ID                int64          `db:"id" json:"id"`
	SiteID            string         `db:"site_id" json:"site_id"`
	Name              string         `db:"name" json:"name"`
	Type              string         `db:"type" json:"type"`
	District          string         `db:"district" json:"district"`
	Address           string         `db:"address" json:"address"`
	Latitude          float64        `db:"latitude" json:"latitude"`
	Longitude         float64        `db:"longitude" json:"longitude"`
	OperationalStatus string         `db:"operational_status" json:"operational_status"`
	AssessmentStatus  string         `db:"assessment_status" json:"assessment_status"`
	Classrooms        int            `db:"classrooms" json:"classrooms"`
	Offices           int            `db:"offices" json:"offices"`
	Labs              int            `db:"labs" json:"labs"`
	Workshops         int            `db:"workshops" json:"workshops"`
	BuildingCondition string         `db:"building_condition" json:"building_condition"`
	ElectricalStatus  string         `db:"electrical_status" json:"electrical_status"`
	PlumbingStatus    string         `db:"plumbing_status" json:"plumbing_status"`
	InteriorCondition string         `db:"interior_condition" json:"interior_condition"`
	ExteriorCondition string         `db:"exterior_condition" json:"exterior_condition"`
	Notes             string         `db:"notes" json:"notes"`
	ImageURLs         pq.StringArray `db:"image_urls" json:"image_urls"`
	CreatedBy         int64          `db:"created_by" json:"created_by"`
	LastVisitedBy     *int64         `db:"last_visited_by" json:"last_visited_by,omitempty"`
	LastVisitDate     *time.Time     `db:"last_visit_date" json:"last_visit_date,omitempty"`
	CreatedAt         time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at" json:"updated_at"`
}

// SitePatch carries the mutable subset of site fields for partial updates.
// Nil fields are left untouched by the store.
type SitePatch struct {
	SiteID            *string   `json:"site_id"`
	Name              *string   `json:"name"`
	Type              *string   `json:"type"`
	District          *string   `json:"district"`
	Address           *string   `json:"address"`
	Latitude          *float64  `json:"latitude"`
	Longitude         *float64  `json:"longitude"`
	OperationalStatus *string   `json:"operational_status"`
	AssessmentStatus  *string   `json:"assessment_status"`
	Classrooms        *int      `json:"classrooms"`
	Offices           *int      `json:"offices"`
	Labs              *int      `json:"labs"`
	Workshops         *int      `json:"workshops"`
	BuildingCondition *string   `json:"building_condition"`
	ElectricalStatus  *string   `json:"electrical_status"`
	PlumbingStatus    *string   `json:"plumbing_status"`
	InteriorCondition *string   `json:"interior_condition"`
	ExteriorCondition *string   `json:"exterior_condition"`
	Notes             *string   `json:"notes"`
	ImageURLs         *[]string `json:"image_urls"`
}

// SiteFilter captures allowed search parameters for listing sites.
type SiteFilter struct {
	Search            string
	District          string
	Type              string
	OperationalStatus string
	AssessmentStatus  string
	Page              int
	PageSize          int
	SortBy            string
	SortOrder         string
}
