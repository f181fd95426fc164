package inmemory

import (
	"context"
	"sync"
	"time"

	"assetTracker/internal/models"
	repo "assetTracker/internal/repository"

	"github.com/google/uuid"
)

type AssetStorage struct {
	storage map[uuid.UUID]*models.Asset
	mtx     *sync.RWMutex
	ids     []uuid.UUID
	now     func() time.Time
}

func NewAssetStorage() *AssetStorage {
	return &AssetStorage{
		storage: make(map[uuid.UUID]*models.Asset),
		mtx:     &sync.RWMutex{},
		ids:     []uuid.UUID{},
		now:     time.Now,
	}
}

// SetClock подменяет источник времени в тестах окна видимости
func (s *AssetStorage) SetClock(now func() time.Time) {
	s.now = now
}

func (s *AssetStorage) Create(ctx context.Context, a *models.Asset) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	a.CreatedAt = s.now()
	a.Version = 1

	s.storage[a.ID] = clone(a)
	s.ids = append(s.ids, a.ID)
	return nil
}

func (s *AssetStorage) Update(ctx context.Context, a *models.Asset) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	current, ok := s.storage[a.ID]
	if !ok {
		return repo.ErrNotFound
	}
	if current.Version != a.Version {
		return repo.ErrVersionConflict
	}

	now := s.now()
	a.UpdatedAt = &now
	a.Version++
	s.storage[a.ID] = clone(a)
	return nil
}

func (s *AssetStorage) GetByID(ctx context.Context, id uuid.UUID) (*models.Asset, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	a, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return clone(a), nil
}

func (s *AssetStorage) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Asset, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	assets := []*models.Asset{}
	for _, id := range ids {
		if a, ok := s.storage[id]; ok {
			assets = append(assets, clone(a))
		}
	}
	return assets, nil
}

func (s *AssetStorage) List(ctx context.Context, status *models.AssetStatus, category *models.AssetCategory) ([]*models.Asset, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	cutoff := s.now().Add(-models.VisibilityWindow)

	assets := []*models.Asset{}
	for i := len(s.ids) - 1; i >= 0; i-- {
		a, ok := s.storage[s.ids[i]]
		if !ok {
			continue
		}
		if status != nil {
			if a.Status != *status {
				continue
			}
			// implemented старше 7 дней скрываются, строка остаётся
			if *status == models.StatusImplemented &&
				(a.ImplementedAt == nil || a.ImplementedAt.Before(cutoff)) {
				continue
			}
		}
		if category != nil && (a.Category == nil || *a.Category != *category) {
			continue
		}
		assets = append(assets, clone(a))
	}
	return assets, nil
}

func (s *AssetStorage) Delete(ctx context.Context, id uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return repo.ErrNotFound
	}
	delete(s.storage, id)
	for i, existing := range s.ids {
		if existing == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			break
		}
	}
	return nil
}

func (s *AssetStorage) UnclaimAllBy(ctx context.Context, userID uuid.UUID) (int64, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	var count int64
	for _, a := range s.storage {
		if a.ClaimedBy != nil && *a.ClaimedBy == userID {
			a.ClaimedBy = nil
			a.ClaimedAt = nil
			a.Version++
			count++
		}
	}
	return count, nil
}

func clone(a *models.Asset) *models.Asset {
	copied := *a
	return &copied
}
