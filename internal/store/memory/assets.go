package memory

import (
	"context"
	"time"

	"github.com/nwced/clc-registry-api/internal/models"
	"github.com/nwced/clc-registry-api/internal/store"
)

type assetTable struct {
	s *Store
}

func (t *assetTable) GetAll(ctx context.Context) ([]models.Asset, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	out := make([]models.Asset, 0, len(t.s.assetOrder))
	for _, id := range t.s.assetOrder {
		out = append(out, t.s.assets[id])
	}
	return out, nil
}

func (t *assetTable) Get(ctx context.Context, id int64) (*models.Asset, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	asset, ok := t.s.assets[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &asset, nil
}

func (t *assetTable) GetBySite(ctx context.Context, siteID int64) ([]models.Asset, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	out := make([]models.Asset, 0)
	for _, id := range t.s.assetOrder {
		row := t.s.assets[id]
		if row.SiteID != nil && *row.SiteID == siteID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (t *assetTable) Create(ctx context.Context, asset *models.Asset) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if _, taken := t.s.assetIDs[asset.AssetID]; taken {
		return store.ErrDuplicateID
	}
	t.s.assetSeq++
	asset.ID = t.s.assetSeq
	now := time.Now().UTC()
	asset.CreatedAt = now
	asset.UpdatedAt = now
	t.s.assets[asset.ID] = *asset
	t.s.assetOrder = append(t.s.assetOrder, asset.ID)
	t.s.assetIDs[asset.AssetID] = asset.ID
	return nil
}

func (t *assetTable) Update(ctx context.Context, id int64, patch models.AssetPatch) (*models.Asset, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	row, ok := t.s.assets[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if patch.AssetID != nil && *patch.AssetID != row.AssetID {
		if owner, taken := t.s.assetIDs[*patch.AssetID]; taken && owner != id {
			return nil, store.ErrDuplicateID
		}
		delete(t.s.assetIDs, row.AssetID)
		row.AssetID = *patch.AssetID
		t.s.assetIDs[row.AssetID] = id
	}
	if patch.Name != nil {
		row.Name = *patch.Name
	}
	if patch.Category != nil {
		row.Category = *patch.Category
	}
	if patch.Type != nil {
		row.Type = *patch.Type
	}
	if patch.Manufacturer != nil {
		row.Manufacturer = *patch.Manufacturer
	}
	if patch.Model != nil {
		row.Model = *patch.Model
	}
	if patch.SerialNumbers != nil {
		row.SerialNumbers = append(row.SerialNumbers[:0:0], *patch.SerialNumbers...)
	}
	if patch.PurchaseDate != nil {
		row.PurchaseDate = patch.PurchaseDate
	}
	if patch.PurchasePrice != nil {
		row.PurchasePrice = patch.PurchasePrice
	}
	if patch.Condition != nil {
		row.Condition = *patch.Condition
	}
	if patch.Location != nil {
		row.Location = *patch.Location
	}
	if patch.AssignedTo != nil {
		row.AssignedTo = *patch.AssignedTo
	}
	if patch.LastMaintenanceDate != nil {
		row.LastMaintenanceDate = patch.LastMaintenanceDate
	}
	if patch.NextMaintenanceDate != nil {
		row.NextMaintenanceDate = patch.NextMaintenanceDate
	}
	if patch.Notes != nil {
		row.Notes = *patch.Notes
	}
	if patch.ImageURLs != nil {
		row.ImageURLs = append(row.ImageURLs[:0:0], *patch.ImageURLs...)
	}
	if patch.SiteID != nil {
		if *patch.SiteID == 0 {
			row.SiteID = nil
		} else {
			row.SiteID = patch.SiteID
		}
	}
	row.UpdatedAt = time.Now().UTC()
	t.s.assets[id] = row
	return &row, nil
}

func (t *assetTable) Delete(ctx context.Context, id int64) (bool, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	row, ok := t.s.assets[id]
	if !ok {
		return false, nil
	}
	delete(t.s.assets, id)
	delete(t.s.assetIDs, row.AssetID)
	t.s.assetOrder = removeID(t.s.assetOrder, id)
	return true, nil
}
