package memory

import (
	"context"
	"time"

	"github.com/nwced/clc-registry-api/internal/models"
	"github.com/nwced/clc-registry-api/internal/store"
)

type userTable struct {
	s *Store
}

func (t *userTable) GetAll(ctx context.Context) ([]models.User, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	out := make([]models.User, 0, len(t.s.userOrder))
	for _, id := range t.s.userOrder {
		out = append(out, t.s.users[id])
	}
	return out, nil
}

func (t *userTable) Get(ctx context.Context, id int64) (*models.User, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	user, ok := t.s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &user, nil
}

func (t *userTable) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	id, ok := t.s.usernames[username]
	if !ok {
		return nil, store.ErrNotFound
	}
	user := t.s.users[id]
	return &user, nil
}

func (t *userTable) Create(ctx context.Context, user *models.User) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if _, taken := t.s.usernames[user.Username]; taken {
		return store.ErrDuplicateID
	}
	t.s.userSeq++
	user.ID = t.s.userSeq
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	t.s.users[user.ID] = *user
	t.s.userOrder = append(t.s.userOrder, user.ID)
	t.s.usernames[user.Username] = user.ID
	return nil
}

func (t *userTable) Update(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	user, ok := t.s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Role != nil {
		user.Role = *patch.Role
	}
	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.Phone != nil {
		user.Phone = *patch.Phone
	}
	if patch.Active != nil {
		user.Active = *patch.Active
	}
	user.UpdatedAt = time.Now().UTC()
	t.s.users[id] = user
	return &user, nil
}

func (t *userTable) UpdateLastLogin(ctx context.Context, id int64, ts time.Time) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	user, ok := t.s.users[id]
	if !ok {
		return store.ErrNotFound
	}
	user.LastLogin = &ts
	t.s.users[id] = user
	return nil
}

func (t *userTable) UpdatePassword(ctx context.Context, id int64, passwordHash string, updatedAt time.Time) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	user, ok := t.s.users[id]
	if !ok {
		return store.ErrNotFound
	}
	user.PasswordHash = passwordHash
	user.UpdatedAt = updatedAt
	t.s.users[id] = user
	return nil
}

func (t *userTable) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.s.tokens[token.Token] = *token
	return nil
}

func (t *userTable) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	row, ok := t.s.tokens[token]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &row, nil
}

func (t *userTable) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for key, row := range t.s.tokens {
		if row.ID == id {
			row.Revoked = true
			row.RevokedAt = &revokedAt
			t.s.tokens[key] = row
			return nil
		}
	}
	return store.ErrNotFound
}

func (t *userTable) RevokeUserRefreshTokens(ctx context.Context, userID int64) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	now := time.Now().UTC()
	for key, row := range t.s.tokens {
		if row.UserID == userID && !row.Revoked {
			row.Revoked = true
			row.RevokedAt = &now
			t.s.tokens[key] = row
		}
	}
	return nil
}
