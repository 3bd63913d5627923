// Package memory implements the store contract with in-process maps. It is
// the test fixture for the service layer and the runtime backend when
// DB_DRIVER=memory. Every internal id comes from a per-entity counter that
// only moves forward, so ids are never reused even after a delete.
package memory

import (
	"sync"

	"github.com/nwced/clc-registry-api/internal/models"
	"github.com/nwced/clc-registry-api/internal/store"
)

// Store is an arena owning one typed table per entity. A single RWMutex
// guards all tables; every operation is one synchronous map mutation, so
// there is no partial-failure state to recover from.
type Store struct {
	mu sync.RWMutex

	userSeq   int64
	users     map[int64]models.User
	userOrder []int64
	usernames map[string]int64
	tokens    map[string]models.RefreshToken

	siteSeq   int64
	sites     map[int64]models.Site
	siteOrder []int64
	siteIDs   map[string]int64

	staffSeq   int64
	staff      map[int64]models.Staff
	staffOrder []int64
	staffIDs   map[string]int64

	assetSeq   int64
	assets     map[int64]models.Asset
	assetOrder []int64
	assetIDs   map[string]int64

	programSeq   int64
	programs     map[int64]models.Program
	programOrder []int64
	programIDs   map[string]int64

	activitySeq   int64
	activities    map[int64]models.Activity
	activityOrder []int64
}

// New returns an empty arena.
func New() *Store {
	return &Store{
		users:      make(map[int64]models.User),
		usernames:  make(map[string]int64),
		tokens:     make(map[string]models.RefreshToken),
		sites:      make(map[int64]models.Site),
		siteIDs:    make(map[string]int64),
		staff:      make(map[int64]models.Staff),
		staffIDs:   make(map[string]int64),
		assets:     make(map[int64]models.Asset),
		assetIDs:   make(map[string]int64),
		programs:   make(map[int64]models.Program),
		programIDs: make(map[string]int64),
		activities: make(map[int64]models.Activity),
	}
}

// Tables exposes the arena through the store interfaces.
func (s *Store) Tables() store.Store {
	return store.Store{
		Users:      &userTable{s},
		Sites:      &siteTable{s},
		Staff:      &staffTable{s},
		Assets:     &assetTable{s},
		Programs:   &programTable{s},
		Activities: &activityTable{s},
	}
}

// removeID deletes id from an insertion-order slice in place.
func removeID(order []int64, id int64) []int64 {
	for i, v := range order {
		if v == id {
			return append(order[:i], order[i+1:]...)
		}
	}
	return order
}
