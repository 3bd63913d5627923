package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/nwced/clc-registry-api/internal/models"
	"github.com/nwced/clc-registry-api/internal/store"
)

// dashboardCachePattern matches every cached summary payload.
const dashboardCachePattern = "dashboard:*"

// auditTrail appends activity entries for entity mutations. Recording is
// best-effort: the primary write has already committed, so a failure here is
// logged and swallowed rather than rolled back.
type auditTrail struct {
	activities store.Activities
	logger     *zap.Logger
}

func newAuditTrail(activities store.Activities, logger *zap.Logger) *auditTrail {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &auditTrail{activities: activities, logger: logger}
}

func (t *auditTrail) record(ctx context.Context, activityType, description string, entityType models.EntityType, entityID, actorID int64) {
	if t == nil || t.activities == nil {
		return
	}
	entry := &models.Activity{
		Type:              activityType,
		Description:       description,
		RelatedEntityType: entityType,
		RelatedEntityID:   entityID,
		PerformedBy:       actorID,
	}
	if err := t.activities.Create(ctx, entry); err != nil {
		t.logger.Warn("failed to record activity",
			zap.String("activity_type", activityType),
			zap.String("entity_type", string(entityType)),
			zap.Int64("entity_id", entityID),
			zap.Error(err))
	}
}
