package models

import (
	"time"

	"github.com/lib/pq"
)

// AssetCategory is the closed set of inventory categories.
const (
	AssetCategoryEquipment = "Equipment"
	AssetCategoryFurniture = "Furniture"
	AssetCategoryIT        = "IT"
	AssetCategoryTeaching  = "Teaching"
	AssetCategoryOffice    = "Office"
	AssetCategoryOther     = "Other"
)

// Asset represents a physical inventory item, optionally assigned to a site.
type Asset struct {
	ID                  int64          `db:"id" json:"id"`
	AssetID             string         `db:"asset_id" json:"asset_id"`
	Name                string         `db:"name" json:"name"`
	Category            string         `db:"category" json:"category"`
	Type                string         `db:"type" json:"type"`
	Manufacturer        string         `db:"manufacturer" json:"manufacturer"`
	Model               string         `db:"model" json:"model"`
	SerialNumbers       pq.StringArray `db:"serial_numbers" json:"serial_numbers"`
	PurchaseDate        *time.Time     `db:"purchase_date" json:"purchase_date,omitempty"`
	PurchasePrice       *float64       `db:"purchase_price" json:"purchase_price,omitempty"`
	Condition           string         `db:"condition" json:"condition"`
	Location            string         `db:"location" json:"location"`
	AssignedTo          string         `db:"assigned_to" json:"assigned_to"`
	LastMaintenanceDate *time.Time     `db:"last_maintenance_date" json:"last_maintenance_date,omitempty"`
	NextMaintenanceDate *time.Time     `db:"next_maintenance_date" json:"next_maintenance_date,omitempty"`
	Notes               string         `db:"notes" json:"notes"`
	ImageURLs           pq.StringArray `db:"image_urls" json:"image_urls"`
	SiteID              *int64         `db:"site_id" json:"site_id,omitempty"`
	CreatedAt           time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at" json:"updated_at"`
}

// AssetPatch carries the mutable subset of asset fields for partial updates.
type AssetPatch struct {
	AssetID             *string    `json:"asset_id"`
	Name                *string    `json:"name"`
	Category            *string    `json:"category"`
	Type                *string    `json:"type"`
	Manufacturer        *string    `json:"manufacturer"`
	Model               *string    `json:"model"`
	SerialNumbers       *[]string  `json:"serial_numbers"`
	PurchaseDate        *time.Time `json:"purchase_date"`
	PurchasePrice       *float64   `json:"purchase_price"`
	Condition           *string    `json:"condition"`
	Location            *string    `json:"location"`
	AssignedTo          *string    `json:"assigned_to"`
	LastMaintenanceDate *time.Time `json:"last_maintenance_date"`
	NextMaintenanceDate *time.Time `json:"next_maintenance_date"`
	Notes               *string    `json:"notes"`
	ImageURLs           *[]string  `json:"image_urls"`
	SiteID              *int64     `json:"site_id"`
}

// AssetFilter captures allowed search parameters for listing assets.
type AssetFilter struct {
	Search    string
	Category  string
	Condition string
	SiteID    *int64
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
