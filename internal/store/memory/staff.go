package memory

import (
	"context"
	"time"

	"github.com/nwced/clc-registry-api/internal/models"
	"github.com/nwced/clc-registry-api/internal/store"
)

type staffTable struct {
	s *Store
}

func (t *staffTable) GetAll(ctx context.Context) ([]models.Staff, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	out := make([]models.Staff, 0, len(t.s.staffOrder))
	for _, id := range t.s.staffOrder {
		out = append(out, t.s.staff[id])
	}
	return out, nil
}

func (t *staffTable) Get(ctx context.Context, id int64) (*models.Staff, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	staff, ok := t.s.staff[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &staff, nil
}

// GetBySite is a linear filter over every row; the table carries no index on
// the weak site reference.
func (t *staffTable) GetBySite(ctx context.Context, siteID int64) ([]models.Staff, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	out := make([]models.Staff, 0)
	for _, id := range t.s.staffOrder {
		row := t.s.staff[id]
		if row.SiteID != nil && *row.SiteID == siteID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (t *staffTable) Create(ctx context.Context, staff *models.Staff) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if _, taken := t.s.staffIDs[staff.StaffID]; taken {
		return store.ErrDuplicateID
	}
	t.s.staffSeq++
	staff.ID = t.s.staffSeq
	now := time.Now().UTC()
	staff.CreatedAt = now
	staff.UpdatedAt = now
	t.s.staff[staff.ID] = *staff
	t.s.staffOrder = append(t.s.staffOrder, staff.ID)
	t.s.staffIDs[staff.StaffID] = staff.ID
	return nil
}

func (t *staffTable) Update(ctx context.Context, id int64, patch models.StaffPatch) (*models.Staff, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	row, ok := t.s.staff[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if patch.StaffID != nil && *patch.StaffID != row.StaffID {
		if owner, taken := t.s.staffIDs[*patch.StaffID]; taken && owner != id {
			return nil, store.ErrDuplicateID
		}
		delete(t.s.staffIDs, row.StaffID)
		row.StaffID = *patch.StaffID
		t.s.staffIDs[row.StaffID] = id
	}
	if patch.FirstName != nil {
		row.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		row.LastName = *patch.LastName
	}
	if patch.Position != nil {
		row.Position = *patch.Position
	}
	if patch.Department != nil {
		row.Department = *patch.Department
	}
	if patch.Email != nil {
		row.Email = *patch.Email
	}
	if patch.Phone != nil {
		row.Phone = *patch.Phone
	}
	if patch.Verified != nil {
		row.Verified = *patch.Verified
	}
	if patch.Qualifications != nil {
		row.Qualifications = append(row.Qualifications[:0:0], *patch.Qualifications...)
	}
	if patch.Skills != nil {
		row.Skills = append(row.Skills[:0:0], *patch.Skills...)
	}
	if patch.Workload != nil {
		row.Workload = *patch.Workload
	}
	if patch.SiteID != nil {
		// Zero unassigns the weak reference.
		if *patch.SiteID == 0 {
			row.SiteID = nil
		} else {
			row.SiteID = patch.SiteID
		}
	}
	row.UpdatedAt = time.Now().UTC()
	t.s.staff[id] = row
	return &row, nil
}

func (t *staffTable) Delete(ctx context.Context, id int64) (bool, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	row, ok := t.s.staff[id]
	if !ok {
		return false, nil
	}
	delete(t.s.staff, id)
	delete(t.s.staffIDs, row.StaffID)
	t.s.staffOrder = removeID(t.s.staffOrder, id)
	return true, nil
}
