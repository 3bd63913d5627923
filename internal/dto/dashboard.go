package dto

import "github.com/nwced/clc-registry-api/internal/models"

// DashboardSummaryResponse captures the aggregated registry dashboard payload.
type DashboardSummaryResponse struct {
	Sites            SiteSection       `json:"sites"`
	Staff            StaffSection      `json:"staff"`
	Assets           AssetSection      `json:"assets"`
	Programs         ProgramSection    `json:"programs"`
	RecentActivities []models.Activity `json:"recent_activities"`
}

// SiteSection summarises the site register.
type SiteSection struct {
	Total        int            `json:"total"`
	ByDistrict   map[string]int `json:"by_district"`
	ByStatus     map[string]int `json:"by_status"`
	ByAssessment map[string]int `json:"by_assessment"`
	ByType       map[string]int `json:"by_type"`
}

// StaffSection summarises the staff register.
type StaffSection struct {
	Total        int            `json:"total"`
	Verified     int            `json:"verified"`
	Unassigned   int            `json:"unassigned"`
	ByDepartment map[string]int `json:"by_department"`
}

// AssetSection summarises the asset register.
type AssetSection struct {
	Total       int            `json:"total"`
	ByCategory  map[string]int `json:"by_category"`
	ByCondition map[string]int `json:"by_condition"`
	Unassigned  int            `json:"unassigned"`
}

// ProgramSection summarises the program register.
type ProgramSection struct {
	Total           int            `json:"total"`
	ByStatus        map[string]int `json:"by_status"`
	TotalEnrollment int            `json:"total_enrollment"`
}
