package service_test

import (
	"context"
	"sync"
	"time"

	"assetTracker/internal/models"
	"assetTracker/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockAssetRepository - мок репозитория задач
type MockAssetRepository struct {
	mock.Mock
}

func (m *MockAssetRepository) Create(ctx context.Context, a *models.Asset) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAssetRepository) Update(ctx context.Context, a *models.Asset) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAssetRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Asset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Asset), args.Error(1)
}

func (m *MockAssetRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Asset, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Asset), args.Error(1)
}

func (m *MockAssetRepository) List(ctx context.Context, status *models.AssetStatus, category *models.AssetCategory) ([]*models.Asset, error) {
	args := m.Called(ctx, status, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Asset), args.Error(1)
}

func (m *MockAssetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAssetRepository) UnclaimAllBy(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

var _ service.AssetRepository = (*MockAssetRepository)(nil)

// MockRequestRepository - мок репозитория заявок
type MockRequestRepository struct {
	mock.Mock
}

func (m *MockRequestRepository) Create(ctx context.Context, q *models.Request) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockRequestRepository) Update(ctx context.Context, q *models.Request) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Request, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Request), args.Error(1)
}

func (m *MockRequestRepository) List(ctx context.Context, status *models.RequestStatus) ([]*models.Request, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Request), args.Error(1)
}

func (m *MockRequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRequestRepository) UnlinkAsset(ctx context.Context, assetID uuid.UUID) (int64, error) {
	args := m.Called(ctx, assetID)
	return args.Get(0).(int64), args.Error(1)
}

var _ service.RequestRepository = (*MockRequestRepository)(nil)

// MockEventRepository - мок репозитория событий
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, e *models.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEventRepository) Update(ctx context.Context, e *models.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEventRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *MockEventRepository) List(ctx context.Context, from, to time.Time) ([]*models.Event, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Event), args.Error(1)
}

func (m *MockEventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEventRepository) UnlinkAsset(ctx context.Context, assetID uuid.UUID) (int64, error) {
	args := m.Called(ctx, assetID)
	return args.Get(0).(int64), args.Error(1)
}

var _ service.EventRepository = (*MockEventRepository)(nil)

// MockSprintRepository - мок репозитория спринтов
type MockSprintRepository struct {
	mock.Mock
}

func (m *MockSprintRepository) Create(ctx context.Context, sp *models.Sprint) error {
	args := m.Called(ctx, sp)
	return args.Error(0)
}

func (m *MockSprintRepository) Update(ctx context.Context, sp *models.Sprint) error {
	args := m.Called(ctx, sp)
	return args.Error(0)
}

func (m *MockSprintRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Sprint, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Sprint), args.Error(1)
}

func (m *MockSprintRepository) List(ctx context.Context, status *models.SprintStatus) ([]*models.Sprint, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Sprint), args.Error(1)
}

func (m *MockSprintRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSprintRepository) CompleteIfActive(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	args := m.Called(ctx, id, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockSprintRepository) ListActiveIDs(ctx context.Context, limit int) ([]uuid.UUID, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockSprintRepository) AddTask(ctx context.Context, st *models.SprintTask) error {
	args := m.Called(ctx, st)
	return args.Error(0)
}

func (m *MockSprintRepository) RemoveTask(ctx context.Context, sprintID, assetID uuid.UUID) error {
	args := m.Called(ctx, sprintID, assetID)
	return args.Error(0)
}

func (m *MockSprintRepository) ListTasks(ctx context.Context, sprintID uuid.UUID) ([]*models.SprintTask, error) {
	args := m.Called(ctx, sprintID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SprintTask), args.Error(1)
}

func (m *MockSprintRepository) SprintsForAsset(ctx context.Context, assetID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockSprintRepository) MaxOrderIndex(ctx context.Context, sprintID uuid.UUID) (int, error) {
	args := m.Called(ctx, sprintID)
	return args.Int(0), args.Error(1)
}

func (m *MockSprintRepository) SetTaskOrder(ctx context.Context, sprintID, assetID uuid.UUID, orderIndex int) error {
	args := m.Called(ctx, sprintID, assetID, orderIndex)
	return args.Error(0)
}

func (m *MockSprintRepository) AddDependency(ctx context.Context, d *models.TaskDependency) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockSprintRepository) RemoveDependency(ctx context.Context, dependentID, dependencyID uuid.UUID) error {
	args := m.Called(ctx, dependentID, dependencyID)
	return args.Error(0)
}

func (m *MockSprintRepository) DependenciesOf(ctx context.Context, assetID uuid.UUID) ([]*models.TaskDependency, error) {
	args := m.Called(ctx, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TaskDependency), args.Error(1)
}

func (m *MockSprintRepository) DependentsOf(ctx context.Context, assetID uuid.UUID) ([]*models.TaskDependency, error) {
	args := m.Called(ctx, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TaskDependency), args.Error(1)
}

func (m *MockSprintRepository) DependenciesForSprint(ctx context.Context, sprintID uuid.UUID) ([]*models.TaskDependency, error) {
	args := m.Called(ctx, sprintID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TaskDependency), args.Error(1)
}

var _ service.SprintRepository = (*MockSprintRepository)(nil)

// MockCommentRepository - мок репозитория комментариев
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, c *models.Comment) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) ListForAsset(ctx context.Context, assetID uuid.UUID) ([]*models.Comment, error) {
	args := m.Called(ctx, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) ListForSprint(ctx context.Context, sprintID uuid.UUID) ([]*models.Comment, error) {
	args := m.Called(ctx, sprintID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ service.CommentRepository = (*MockCommentRepository)(nil)

// MockProfileRepository - мок репозитория профилей
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) Create(ctx context.Context, p *models.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileRepository) List(ctx context.Context) ([]*models.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Profile), args.Error(1)
}

func (m *MockProfileRepository) Update(ctx context.Context, p *models.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

var _ service.ProfileRepository = (*MockProfileRepository)(nil)

// recordedNotify - одно зафиксированное уведомление
type recordedNotify struct {
	Type     models.NotificationType
	ItemName string
	Actor    *models.Profile
}

// SpyNotifier записывает вызовы Notify, ничего не шлёт
type SpyNotifier struct {
	mu    sync.Mutex
	calls []recordedNotify
}

func (n *SpyNotifier) Notify(ctx context.Context, t models.NotificationType, itemName string, actor *models.Profile) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, recordedNotify{Type: t, ItemName: itemName, Actor: actor})
}

func (n *SpyNotifier) Calls() []recordedNotify {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]recordedNotify, len(n.calls))
	copy(out, n.calls)
	return out
}

var _ service.Notifier = (*SpyNotifier)(nil)

// SpyRecomputer записывает id задач, для которых запрошен пересчёт
type SpyRecomputer struct {
	mu    sync.Mutex
	calls []uuid.UUID
}

func (r *SpyRecomputer) RecomputeForAsset(ctx context.Context, assetID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, assetID)
	return nil
}

func (r *SpyRecomputer) Calls() []uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]uuid.UUID, len(r.calls))
	copy(out, r.calls)
	return out
}

var _ service.SprintRecomputer = (*SpyRecomputer)(nil)

func testProfile(name string) *models.Profile {
	return &models.Profile{
		ID:          uuid.New(),
		Email:       name + "@example.com",
		DisplayName: &name,
	}
}
