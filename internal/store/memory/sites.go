package memory

import (
	"context"
	"time"

	"github.com/nwced/clc-registry-api/internal/models"
	"github.com/nwced/clc-registry-api/internal/store"
)

type siteTable struct {
	s *Store
}

func (t *siteTable) GetAll(ctx context.Context) ([]models.Site, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	out := make([]models.Site, 0, len(t.s.siteOrder))
	for _, id := range t.s.siteOrder {
		out = append(out, t.s.sites[id])
	}
	return out, nil
}

func (t *siteTable) Get(ctx context.Context, id int64) (*models.Site, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	site, ok := t.s.sites[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &site, nil
}

func (t *siteTable) Create(ctx context.Context, site *models.Site) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if _, taken := t.s.siteIDs[site.SiteID]; taken {
		return store.ErrDuplicateID
	}
	t.s.siteSeq++
	site.ID = t.s.siteSeq
	now := time.Now().UTC()
	site.CreatedAt = now
	site.UpdatedAt = now
	t.s.sites[site.ID] = *site
	t.s.siteOrder = append(t.s.siteOrder, site.ID)
	t.s.siteIDs[site.SiteID] = site.ID
	return nil
}

func (t *siteTable) Update(ctx context.Context, id int64, patch models.SitePatch) (*models.Site, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	site, ok := t.s.sites[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if patch.SiteID != nil && *patch.SiteID != site.SiteID {
		if owner, taken := t.s.siteIDs[*patch.SiteID]; taken && owner != id {
			return nil, store.ErrDuplicateID
		}
		delete(t.s.siteIDs, site.SiteID)
		site.SiteID = *patch.SiteID
		t.s.siteIDs[site.SiteID] = id
	}
	if patch.Name != nil {
		site.Name = *patch.Name
	}
	if patch.Type != nil {
		site.Type = *patch.Type
	}
	if patch.District != nil {
		site.District = *patch.District
	}
	if patch.Address != nil {
		site.Address = *patch.Address
	}
	if patch.Latitude != nil {
		site.Latitude = *patch.Latitude
	}
	if patch.Longitude != nil {
		site.Longitude = *patch.Longitude
	}
	if patch.OperationalStatus != nil {
		site.OperationalStatus = *patch.OperationalStatus
	}
	if patch.AssessmentStatus != nil {
		site.AssessmentStatus = *patch.AssessmentStatus
	}
	if patch.Classrooms != nil {
		site.Classrooms = *patch.Classrooms
	}
	if patch.Offices != nil {
		site.Offices = *patch.Offices
	}
	if patch.Labs != nil {
		site.Labs = *patch.Labs
	}
	if patch.Workshops != nil {
		site.Workshops = *patch.Workshops
	}
	if patch.BuildingCondition != nil {
		site.BuildingCondition = *patch.BuildingCondition
	}
	if patch.ElectricalStatus != nil {
		site.ElectricalStatus = *patch.ElectricalStatus
	}
	if patch.PlumbingStatus != nil {
		site.PlumbingStatus = *patch.PlumbingStatus
	}
	if patch.InteriorCondition != nil {
		site.InteriorCondition = *patch.InteriorCondition
	}
	if patch.ExteriorCondition != nil {
		site.ExteriorCondition = *patch.ExteriorCondition
	}
	if patch.Notes != nil {
		site.Notes = *patch.Notes
	}
	if patch.ImageURLs != nil {
		site.ImageURLs = append(site.ImageURLs[:0:0], *patch.ImageURLs...)
	}
	site.UpdatedAt = time.Now().UTC()
	t.s.sites[id] = site
	return &site, nil
}

func (t *siteTable) Delete(ctx context.Context, id int64) (bool, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	site, ok := t.s.sites[id]
	if !ok {
		return false, nil
	}
	delete(t.s.sites, id)
	delete(t.s.siteIDs, site.SiteID)
	t.s.siteOrder = removeID(t.s.siteOrder, id)
	return true, nil
}

func (t *siteTable) RecordVisit(ctx context.Context, id int64, visitorID int64, visitedAt time.Time) (*models.Site, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	site, ok := t.s.sites[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	site.LastVisitedBy = &visitorID
	site.LastVisitDate = &visitedAt
	site.UpdatedAt = time.Now().UTC()
	t.s.sites[id] = site
	return &site, nil
}
