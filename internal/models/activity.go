package models

import (
	"fmt"
	"time"
)

// EntityType names the kind of registry row an activity refers to. Keeping
// this a closed enum (validated by ParseEntityType) prevents untyped
// "entity kind string" values from reaching the store.
type EntityType string

const (
	EntitySite    EntityType = "site"
	EntityStaff   EntityType = "staff"
	EntityAsset   EntityType = "asset"
	EntityProgram EntityType = "program"
)

// ParseEntityType validates a raw entity-type string.
func ParseEntityType(raw string) (EntityType, error) {
	switch EntityType(raw) {
	case EntitySite, EntityStaff, EntityAsset, EntityProgram:
		return EntityType(raw), nil
	}
	return "", fmt.Errorf("unknown related entity type %q", raw)
}

// Activity type constants record what happened.
const (
	ActivitySiteVisit        = "site_visit"
	ActivityDataVerification = "data_verification"
	ActivityPhotoUpload      = "photo_upload"
	ActivitySiteCreation     = "site_creation"
	ActivitySiteUpdate       = "site_update"
	ActivityStaffCreation    = "staff_creation"
	ActivityStaffUpdate      = "staff_update"
	ActivityAssetCreation    = "asset_creation"
	ActivityAssetUpdate      = "asset_update"
	ActivityProgramCreation  = "program_creation"
	ActivityProgramUpdate    = "program_update"
	ActivityRecommendation   = "recommendation"
)

// Recommendation workflow states. Only the recommendation activity subtype
// carries a status; all other activities are immutable audit entries.
const (
	RecommendationPending   = "Pending"
	RecommendationCompleted = "Completed"
	RecommendationDiscarded = "Discarded"
)

// Activity is an append-only audit-log entry. The related entity reference is
// weak: the referenced row may have been deleted. Timestamp is assigned by
// the store at creation and never updated.
type Activity struct {
	ID                int64      `db:"id" json:"id"`
	Type              string     `db:"type" json:"type"`
	Description       string     `db:"description" json:"description"`
	RelatedEntityType EntityType `db:"related_entity_type" json:"related_entity_type"`
	RelatedEntityID   int64      `db:"related_entity_id" json:"related_entity_id"`
	PerformedBy       int64      `db:"performed_by" json:"performed_by"`
	Status            *string    `db:"status" json:"status,omitempty"`
	Timestamp         time.Time  `db:"timestamp" json:"timestamp"`
}

// IsRecommendation reports whether the row belongs to the mutable
// recommendation subtype.
func (a *Activity) IsRecommendation() bool {
	return a != nil && a.Type == ActivityRecommendation
}

// ActivityFilter captures allowed search parameters for listing activities.
type ActivityFilter struct {
	Type              string
	RelatedEntityType string
	RelatedEntityID   *int64
	PerformedBy       *int64
	Page              int
	PageSize          int
}
