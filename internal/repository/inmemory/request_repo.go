package inmemory

import (
	"context"
	"sync"
	"time"

	"assetTracker/internal/models"
	repo "assetTracker/internal/repository"

	"github.com/google/uuid"
)

type RequestStorage struct {
	storage map[uuid.UUID]*models.Request
	mtx     *sync.RWMutex
	ids     []uuid.UUID
	now     func() time.Time
}

func NewRequestStorage() *RequestStorage {
	return &RequestStorage{
		storage: make(map[uuid.UUID]*models.Request),
		mtx:     &sync.RWMutex{},
		ids:     []uuid.UUID{},
		now:     time.Now,
	}
}

func (s *RequestStorage) SetClock(now func() time.Time) {
	s.now = now
}

func (s *RequestStorage) Create(ctx context.Context, q *models.Request) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	q.CreatedAt = s.now()
	q.Version = 1
	s.storage[q.ID] = cloneRequest(q)
	s.ids = append(s.ids, q.ID)
	return nil
}

func (s *RequestStorage) Update(ctx context.Context, q *models.Request) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	current, ok := s.storage[q.ID]
	if !ok {
		return repo.ErrNotFound
	}
	if current.Version != q.Version {
		return repo.ErrVersionConflict
	}

	now := s.now()
	q.UpdatedAt = &now
	q.Version++
	s.storage[q.ID] = cloneRequest(q)
	return nil
}

func (s *RequestStorage) GetByID(ctx context.Context, id uuid.UUID) (*models.Request, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	q, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return cloneRequest(q), nil
}

func (s *RequestStorage) List(ctx context.Context, status *models.RequestStatus) ([]*models.Request, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	cutoff := s.now().Add(-models.VisibilityWindow)

	requests := []*models.Request{}
	for i := len(s.ids) - 1; i >= 0; i-- {
		q, ok := s.storage[s.ids[i]]
		if !ok {
			continue
		}
		// denied старше 7 дней скрываются на чтении
		if q.Status == models.RequestDenied &&
			(q.DeniedAt == nil || q.DeniedAt.Before(cutoff)) {
			continue
		}
		if status != nil && q.Status != *status {
			continue
		}
		requests = append(requests, cloneRequest(q))
	}
	return requests, nil
}

func (s *RequestStorage) Delete(ctx context.Context, id uuid.UUID) error {
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

func (s *RequestStorage) UnlinkAsset(ctx context.Context, assetID uuid.UUID) (int64, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	var count int64
	for _, q := range s.storage {
		if q.LinkedAssetID != nil && *q.LinkedAssetID == assetID {
			q.LinkedAssetID = nil
			q.Version++
			count++
		}
	}
	return count, nil
}

func cloneRequest(q *models.Request) *models.Request {
	copied := *q
	return &copied
}
