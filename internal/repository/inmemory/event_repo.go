package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	"assetTracker/internal/models"
	repo "assetTracker/internal/repository"

	"github.com/google/uuid"
)

type EventStorage struct {
	storage map[uuid.UUID]*models.Event
	mtx     *sync.RWMutex
}

func NewEventStorage() *EventStorage {
	return &EventStorage{
		storage: make(map[uuid.UUID]*models.Event),
		mtx:     &sync.RWMutex{},
	}
}

func (s *EventStorage) Create(ctx context.Context, e *models.Event) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	e.CreatedAt = time.Now()
	e.Version = 1
	s.storage[e.ID] = cloneEvent(e)
	return nil
}

func (s *EventStorage) Update(ctx context.Context, e *models.Event) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	current, ok := s.storage[e.ID]
	if !ok {
		return repo.ErrNotFound
	}
	if current.Version != e.Version {
		return repo.ErrVersionConflict
	}

	now := time.Now()
	e.UpdatedAt = &now
	e.Version++
	s.storage[e.ID] = cloneEvent(e)
	return nil
}

func (s *EventStorage) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	e, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return cloneEvent(e), nil
}

func (s *EventStorage) List(ctx context.Context, from, to time.Time) ([]*models.Event, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	events := []*models.Event{}
	for _, e := range s.storage {
		if !from.IsZero() && e.EventDate.Before(from) {
			continue
		}
		if !to.IsZero() && e.EventDate.After(to) {
			continue
		}
		events = append(events, cloneEvent(e))
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].EventDate.Before(events[j].EventDate)
	})
	return events, nil
}

func (s *EventStorage) Delete(ctx context.Context, id uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return repo.ErrNotFound
	}
	delete(s.storage, id)
	return nil
}

func (s *EventStorage) UnlinkAsset(ctx context.Context, assetID uuid.UUID) (int64, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	var count int64
	for _, e := range s.storage {
		if e.LinkedAssetID != nil && *e.LinkedAssetID == assetID {
			e.LinkedAssetID = nil
			e.Version++
			count++
		}
	}
	return count, nil
}

func cloneEvent(e *models.Event) *models.Event {
	copied := *e
	return &copied
}
