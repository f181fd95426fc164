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

type SprintStorage struct {
	sprints map[uuid.UUID]*models.Sprint
	tasks   map[uuid.UUID][]*models.SprintTask // по sprint_id
	deps    map[uuid.UUID]*models.TaskDependency
	mtx     *sync.RWMutex
}

func NewSprintStorage() *SprintStorage {
	return &SprintStorage{
		sprints: make(map[uuid.UUID]*models.Sprint),
		tasks:   make(map[uuid.UUID][]*models.SprintTask),
		deps:    make(map[uuid.UUID]*models.TaskDependency),
		mtx:     &sync.RWMutex{},
	}
}

func (s *SprintStorage) Create(ctx context.Context, sp *models.Sprint) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	sp.CreatedAt = time.Now()
	sp.Version = 1
	s.sprints[sp.ID] = cloneSprint(sp)
	return nil
}

func (s *SprintStorage) Update(ctx context.Context, sp *models.Sprint) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	current, ok := s.sprints[sp.ID]
	if !ok {
		return repo.ErrNotFound
	}
	if current.Version != sp.Version {
		return repo.ErrVersionConflict
	}

	now := time.Now()
	sp.UpdatedAt = &now
	sp.Version++
	s.sprints[sp.ID] = cloneSprint(sp)
	return nil
}

func (s *SprintStorage) GetByID(ctx context.Context, id uuid.UUID) (*models.Sprint, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	sp, ok := s.sprints[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return cloneSprint(sp), nil
}

func (s *SprintStorage) List(ctx context.Context, status *models.SprintStatus) ([]*models.Sprint, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	sprints := []*models.Sprint{}
	for _, sp := range s.sprints {
		if status != nil && sp.Status != *status {
			continue
		}
		sprints = append(sprints, cloneSprint(sp))
	}
	sort.Slice(sprints, func(i, j int) bool {
		return sprints[i].CreatedAt.After(sprints[j].CreatedAt)
	})
	return sprints, nil
}

func (s *SprintStorage) Delete(ctx context.Context, id uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.sprints[id]; !ok {
		return repo.ErrNotFound
	}
	delete(s.sprints, id)
	delete(s.tasks, id)
	for depID, d := range s.deps {
		if d.SprintID != nil && *d.SprintID == id {
			delete(s.deps, depID)
		}
	}
	return nil
}

func (s *SprintStorage) CompleteIfActive(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	sp, ok := s.sprints[id]
	if !ok {
		return false, repo.ErrNotFound
	}
	if sp.Status != models.SprintActive {
		return false, nil
	}
	sp.Status = models.SprintCompleted
	sp.CompletedAt = &at
	sp.Version++
	return true, nil
}

func (s *SprintStorage) ListActiveIDs(ctx context.Context, limit int) ([]uuid.UUID, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	ids := []uuid.UUID{}
	for id, sp := range s.sprints {
		if sp.Status == models.SprintActive {
			ids = append(ids, id)
		}
		if len(ids) >= limit {
			break
		}
	}
	return ids, nil
}

func (s *SprintStorage) AddTask(ctx context.Context, st *models.SprintTask) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for _, existing := range s.tasks[st.SprintID] {
		if existing.AssetID == st.AssetID {
			return repo.ErrAlreadyExists
		}
	}
	copied := *st
	s.tasks[st.SprintID] = append(s.tasks[st.SprintID], &copied)
	return nil
}

func (s *SprintStorage) RemoveTask(ctx context.Context, sprintID, assetID uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	links := s.tasks[sprintID]
	for i, st := range links {
		if st.AssetID == assetID {
			s.tasks[sprintID] = append(links[:i], links[i+1:]...)
			return nil
		}
	}
	return repo.ErrNotFound
}

func (s *SprintStorage) ListTasks(ctx context.Context, sprintID uuid.UUID) ([]*models.SprintTask, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	links := []*models.SprintTask{}
	for _, st := range s.tasks[sprintID] {
		copied := *st
		links = append(links, &copied)
	}
	sort.Slice(links, func(i, j int) bool {
		return links[i].OrderIndex < links[j].OrderIndex
	})
	return links, nil
}

func (s *SprintStorage) SprintsForAsset(ctx context.Context, assetID uuid.UUID) ([]uuid.UUID, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	ids := []uuid.UUID{}
	for sprintID, links := range s.tasks {
		for _, st := range links {
			if st.AssetID == assetID {
				ids = append(ids, sprintID)
				break
			}
		}
	}
	return ids, nil
}

func (s *SprintStorage) MaxOrderIndex(ctx context.Context, sprintID uuid.UUID) (int, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	max := -1
	for _, st := range s.tasks[sprintID] {
		if st.OrderIndex > max {
			max = st.OrderIndex
		}
	}
	return max, nil
}

func (s *SprintStorage) SetTaskOrder(ctx context.Context, sprintID, assetID uuid.UUID, orderIndex int) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for _, st := range s.tasks[sprintID] {
		if st.AssetID == assetID {
			st.OrderIndex = orderIndex
			return nil
		}
	}
	return repo.ErrNotFound
}

func (s *SprintStorage) AddDependency(ctx context.Context, d *models.TaskDependency) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for _, existing := range s.deps {
		if existing.DependentTaskID == d.DependentTaskID &&
			existing.DependencyTaskID == d.DependencyTaskID {
			return repo.ErrAlreadyExists
		}
	}
	d.CreatedAt = time.Now()
	copied := *d
	s.deps[d.ID] = &copied
	return nil
}

func (s *SprintStorage) RemoveDependency(ctx context.Context, dependentID, dependencyID uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for id, d := range s.deps {
		if d.DependentTaskID == dependentID && d.DependencyTaskID == dependencyID {
			delete(s.deps, id)
			return nil
		}
	}
	return repo.ErrNotFound
}

func (s *SprintStorage) listDeps(match func(*models.TaskDependency) bool) []*models.TaskDependency {
	deps := []*models.TaskDependency{}
	for _, d := range s.deps {
		if match(d) {
			copied := *d
			deps = append(deps, &copied)
		}
	}
	sort.Slice(deps, func(i, j int) bool {
		return deps[i].CreatedAt.Before(deps[j].CreatedAt)
	})
	return deps
}

func (s *SprintStorage) DependenciesOf(ctx context.Context, assetID uuid.UUID) ([]*models.TaskDependency, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.listDeps(func(d *models.TaskDependency) bool {
		return d.DependentTaskID == assetID
	}), nil
}

func (s *SprintStorage) DependentsOf(ctx context.Context, assetID uuid.UUID) ([]*models.TaskDependency, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.listDeps(func(d *models.TaskDependency) bool {
		return d.DependencyTaskID == assetID
	}), nil
}

func (s *SprintStorage) DependenciesForSprint(ctx context.Context, sprintID uuid.UUID) ([]*models.TaskDependency, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.listDeps(func(d *models.TaskDependency) bool {
		return d.SprintID != nil && *d.SprintID == sprintID
	}), nil
}

func cloneSprint(sp *models.Sprint) *models.Sprint {
	copied := *sp
	return &copied
}
