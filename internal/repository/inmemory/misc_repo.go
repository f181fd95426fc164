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

type CommentStorage struct {
	storage map[uuid.UUID]*models.Comment
	mtx     *sync.RWMutex
}

func NewCommentStorage() *CommentStorage {
	return &CommentStorage{
		storage: make(map[uuid.UUID]*models.Comment),
		mtx:     &sync.RWMutex{},
	}
}

func (s *CommentStorage) Create(ctx context.Context, c *models.Comment) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	c.CreatedAt = time.Now()
	copied := *c
	s.storage[c.ID] = &copied
	return nil
}

func (s *CommentStorage) GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	c, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (s *CommentStorage) listWhere(match func(*models.Comment) bool) []*models.Comment {
	comments := []*models.Comment{}
	for _, c := range s.storage {
		if match(c) {
			copied := *c
			comments = append(comments, &copied)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments
}

func (s *CommentStorage) ListForAsset(ctx context.Context, assetID uuid.UUID) ([]*models.Comment, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.listWhere(func(c *models.Comment) bool {
		return c.AssetID != nil && *c.AssetID == assetID
	}), nil
}

func (s *CommentStorage) ListForSprint(ctx context.Context, sprintID uuid.UUID) ([]*models.Comment, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.listWhere(func(c *models.Comment) bool {
		return c.SprintID != nil && *c.SprintID == sprintID
	}), nil
}

func (s *CommentStorage) Delete(ctx context.Context, id uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return repo.ErrNotFound
	}
	delete(s.storage, id)
	return nil
}

type ProfileStorage struct {
	storage map[uuid.UUID]*models.Profile
	mtx     *sync.RWMutex
}

func NewProfileStorage() *ProfileStorage {
	return &ProfileStorage{
		storage: make(map[uuid.UUID]*models.Profile),
		mtx:     &sync.RWMutex{},
	}
}

func (s *ProfileStorage) Create(ctx context.Context, p *models.Profile) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for _, existing := range s.storage {
		if existing.Email == p.Email {
			return repo.ErrAlreadyExists
		}
	}

	p.CreatedAt = time.Now()
	copied := *p
	s.storage[p.ID] = &copied
	return nil
}

func (s *ProfileStorage) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	p, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (s *ProfileStorage) List(ctx context.Context) ([]*models.Profile, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	profiles := []*models.Profile{}
	for _, p := range s.storage {
		copied := *p
		profiles = append(profiles, &copied)
	}
	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].CreatedAt.After(profiles[j].CreatedAt)
	})
	return profiles, nil
}

func (s *ProfileStorage) Update(ctx context.Context, p *models.Profile) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[p.ID]; !ok {
		return repo.ErrNotFound
	}
	now := time.Now()
	p.UpdatedAt = &now
	copied := *p
	s.storage[p.ID] = &copied
	return nil
}

type NotificationStorage struct {
	storage []*models.Notification
	mtx     *sync.RWMutex
}

func NewNotificationStorage() *NotificationStorage {
	return &NotificationStorage{
		storage: []*models.Notification{},
		mtx:     &sync.RWMutex{},
	}
}

func (s *NotificationStorage) Insert(ctx context.Context, n *models.Notification) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	n.CreatedAt = time.Now()
	copied := *n
	s.storage = append(s.storage, &copied)
	return nil
}

func (s *NotificationStorage) List(ctx context.Context, page, pageSize int) ([]*models.Notification, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	// свежие сверху
	total := len(s.storage)
	from := page * pageSize
	if from >= total {
		return []*models.Notification{}, nil
	}

	notifications := []*models.Notification{}
	for i := total - 1 - from; i >= 0 && len(notifications) < pageSize; i-- {
		copied := *s.storage[i]
		notifications = append(notifications, &copied)
	}
	return notifications, nil
}
