package memory

import (
	"context"
	"time"

	"github.com/nwced/clc-registry-api/internal/models"
	"github.com/nwced/clc-registry-api/internal/store"
)

type programTable struct {
	s *Store
}

func (t *programTable) GetAll(ctx context.Context) ([]models.Program, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	out := make([]models.Program, 0, len(t.s.programOrder))
	for _, id := range t.s.programOrder {
		out = append(out, t.s.programs[id])
	}
	return out, nil
}

func (t *programTable) Get(ctx context.Context, id int64) (*models.Program, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	program, ok := t.s.programs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &program, nil
}

func (t *programTable) GetBySite(ctx context.Context, siteID int64) ([]models.Program, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	out := make([]models.Program, 0)
	for _, id := range t.s.programOrder {
		row := t.s.programs[id]
		if row.SiteID != nil && *row.SiteID == siteID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (t *programTable) Create(ctx context.Context, program *models.Program) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if _, taken := t.s.programIDs[program.ProgramID]; taken {
		return store.ErrDuplicateID
	}
	t.s.programSeq++
	program.ID = t.s.programSeq
	now := time.Now().UTC()
	program.CreatedAt = now
	program.UpdatedAt = now
	t.s.programs[program.ID] = *program
	t.s.programOrder = append(t.s.programOrder, program.ID)
	t.s.programIDs[program.ProgramID] = program.ID
	return nil
}

func (t *programTable) Update(ctx context.Context, id int64, patch models.ProgramPatch) (*models.Program, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	row, ok := t.s.programs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if patch.ProgramID != nil && *patch.ProgramID != row.ProgramID {
		if owner, taken := t.s.programIDs[*patch.ProgramID]; taken && owner != id {
			return nil, store.ErrDuplicateID
		}
		delete(t.s.programIDs, row.ProgramID)
		row.ProgramID = *patch.ProgramID
		t.s.programIDs[row.ProgramID] = id
	}
	if patch.Name != nil {
		row.Name = *patch.Name
	}
	if patch.Category != nil {
		row.Category = *patch.Category
	}
	if patch.Description != nil {
		row.Description = *patch.Description
	}
	if patch.EnrollmentCount != nil {
		row.EnrollmentCount = *patch.EnrollmentCount
	}
	if patch.StartDate != nil {
		row.StartDate = patch.StartDate
	}
	if patch.EndDate != nil {
		row.EndDate = patch.EndDate
	}
	if patch.Status != nil {
		row.Status = *patch.Status
	}
	if patch.Notes != nil {
		row.Notes = *patch.Notes
	}
	if patch.SiteID != nil {
		if *patch.SiteID == 0 {
			row.SiteID = nil
		} else {
			row.SiteID = patch.SiteID
		}
	}
	row.UpdatedAt = time.Now().UTC()
	t.s.programs[id] = row
	return &row, nil
}

func (t *programTable) Delete(ctx context.Context, id int64) (bool, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	row, ok := t.s.programs[id]
	if !ok {
		return false, nil
	}
	delete(t.s.programs, id)
	delete(t.s.programIDs, row.ProgramID)
	t.s.programOrder = removeID(t.s.programOrder, id)
	return true, nil
}
