package memory

import (
	"context"
	"time"

	"github.com/nwced/clc-registry-api/internal/models"
	"github.com/nwced/clc-registry-api/internal/store"
)

type activityTable struct {
	s *Store
}

func (t *activityTable) GetAll(ctx context.Context) ([]models.Activity, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	out := make([]models.Activity, 0, len(t.s.activityOrder))
	for _, id := range t.s.activityOrder {
		out = append(out, t.s.activities[id])
	}
	return out, nil
}

func (t *activityTable) Get(ctx context.Context, id int64) (*models.Activity, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	activity, ok := t.s.activities[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &activity, nil
}

func (t *activityTable) GetBySite(ctx context.Context, siteID int64) ([]models.Activity, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	out := make([]models.Activity, 0)
	for _, id := range t.s.activityOrder {
		row := t.s.activities[id]
		if row.RelatedEntityType == models.EntitySite && row.RelatedEntityID == siteID {
			out = append(out, row)
		}
	}
	return out, nil
}

// List returns newest-first pages of the trail.
func (t *activityTable) List(ctx context.Context, filter models.ActivityFilter) ([]models.Activity, int, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	matches := make([]models.Activity, 0, len(t.s.activityOrder))
	for i := len(t.s.activityOrder) - 1; i >= 0; i-- {
		row := t.s.activities[t.s.activityOrder[i]]
		if filter.Type != "" && row.Type != filter.Type {
			continue
		}
		if filter.RelatedEntityType != "" && string(row.RelatedEntityType) != filter.RelatedEntityType {
			continue
		}
		if filter.RelatedEntityID != nil && row.RelatedEntityID != *filter.RelatedEntityID {
			continue
		}
		if filter.PerformedBy != nil && row.PerformedBy != *filter.PerformedBy {
			continue
		}
		matches = append(matches, row)
	}

	total := len(matches)
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	start := (page - 1) * size
	if start >= total {
		return []models.Activity{}, total, nil
	}
	end := start + size
	if end > total {
		end = total
	}
	return matches[start:end], total, nil
}

func (t *activityTable) Create(ctx context.Context, activity *models.Activity) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.s.activitySeq++
	activity.ID = t.s.activitySeq
	activity.Timestamp = time.Now().UTC()
	t.s.activities[activity.ID] = *activity
	t.s.activityOrder = append(t.s.activityOrder, activity.ID)
	return nil
}

func (t *activityTable) UpdateStatus(ctx context.Context, id int64, status string) (*models.Activity, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	row, ok := t.s.activities[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	row.Status = &status
	t.s.activities[id] = row
	return &row, nil
}

func (t *activityTable) Delete(ctx context.Context, id int64) (bool, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if _, ok := t.s.activities[id]; !ok {
		return false, nil
	}
	delete(t.s.activities, id)
	t.s.activityOrder = removeID(t.s.activityOrder, id)
	return true, nil
}
