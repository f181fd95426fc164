package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"assetTracker/internal/logger"
	"assetTracker/internal/models"
	repo "assetTracker/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SprintService struct {
	repo   SprintRepository
	assets AssetRepository
}

func NewSprintService(repo SprintRepository, assets AssetRepository) *SprintService {
	return &SprintService{
		repo:   repo,
		assets: assets,
	}
}

func (s *SprintService) CreateSprint(ctx context.Context, actor *models.Profile, name, description string) (*models.Sprint, error) {
	if actor == nil {
		return nil, NewNotAuthenticated()
	}
	if name == "" {
		return nil, NewValidationError("name", "пустое значение")
	}

	sprint := &models.Sprint{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Status:      models.SprintActive,
		CreatedBy:   &actor.ID,
	}

	if err := s.repo.Create(ctx, sprint); err != nil {
		return nil, fmt.Errorf("создание спринта: %w", err)
	}
	return sprint, nil
}

func (s *SprintService) GetSprintByID(ctx context.Context, id uuid.UUID) (*models.Sprint, error) {
	sprint, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: Спринт не найден", zap.String("target_id", id.String()))
			return nil, NewNotFound("спринт", id.String())
		}
		return nil, fmt.Errorf("получение спринта: %w", err)
	}
	return sprint, nil
}

func (s *SprintService) ListSprints(ctx context.Context, status *models.SprintStatus) ([]*models.Sprint, error) {
	sprints, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("получение спринтов: %w", err)
	}
	return sprints, nil
}

func (s *SprintService) UpdateSprint(ctx context.Context, actor *models.Profile, id uuid.UUID, name, description *string) (*models.Sprint, error) {
	if actor == nil {
		return nil, NewNotAuthenticated()
	}

	sprint, err := s.GetSprintByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name != nil {
		if *name == "" {
			return nil, NewValidationError("name", "пустое значение")
		}
		sprint.Name = *name
	}
	if description != nil {
		sprint.Description = *description
	}

	if err := s.repo.Update(ctx, sprint); err != nil {
		return nil, err
	}
	return sprint, nil
}

func (s *SprintService) DeleteSprint(ctx context.Context, actor *models.Profile, id uuid.UUID) error {
	if actor == nil {
		return NewNotAuthenticated()
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFound("спринт", id.String())
		}
		return fmt.Errorf("удаление спринта: %w", err)
	}
	return nil
}

// AddTask добавляет задачу в спринт. Без явного order_index (меньше
// нуля) задача встаёт в конец. После добавления - пересчёт
// автозавершения.
func (s *SprintService) AddTask(ctx context.Context, actor *models.Profile, sprintID, assetID uuid.UUID, orderIndex int) (*models.SprintTask, error) {
	if actor == nil {
		return nil, NewNotAuthenticated()
	}

	if _, err := s.GetSprintByID(ctx, sprintID); err != nil {
		return nil, err
	}
	if _, err := s.assets.GetByID(ctx, assetID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewNotFound("задача", assetID.String())
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	if orderIndex < 0 {
		max, err := s.repo.MaxOrderIndex(ctx, sprintID)
		if err != nil {
			return nil, err
		}
		orderIndex = max + 1
	}

	link := &models.SprintTask{
		SprintID:   sprintID,
		AssetID:    assetID,
		OrderIndex: orderIndex,
	}
	if err := s.repo.AddTask(ctx, link); err != nil {
		if errors.Is(err, repo.ErrAlreadyExists) {
			return nil, NewBusinessError("ALREADY_IN_SPRINT", "Задача уже в спринте")
		}
		return nil, err
	}

	if err := s.RecomputeCompletion(ctx, sprintID); err != nil {
		logger.Warn("Service: Ошибка пересчёта автозавершения", zap.Error(err),
			zap.String("sprint_id", sprintID.String()))
	}
	return link, nil
}

func (s *SprintService) RemoveTask(ctx context.Context, actor *models.Profile, sprintID, assetID uuid.UUID) error {
	if actor == nil {
		return NewNotAuthenticated()
	}

	if err := s.repo.RemoveTask(ctx, sprintID, assetID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFound("связь спринт-задача", assetID.String())
		}
		return err
	}

	if err := s.RecomputeCompletion(ctx, sprintID); err != nil {
		logger.Warn("Service: Ошибка пересчёта автозавершения", zap.Error(err),
			zap.String("sprint_id", sprintID.String()))
	}
	return nil
}

func (s *SprintService) ListTasks(ctx context.Context, sprintID uuid.UUID) ([]*models.Asset, error) {
	links, err := s.repo.ListTasks(ctx, sprintID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(links))
	for _, link := range links {
		ids = append(ids, link.AssetID)
	}

	assets, err := s.assets.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	// сохраняем порядок order_index
	byID := make(map[uuid.UUID]*models.Asset, len(assets))
	for _, a := range assets {
		byID[a.ID] = a
	}
	ordered := make([]*models.Asset, 0, len(links))
	for _, link := range links {
		if a, ok := byID[link.AssetID]; ok {
			ordered = append(ordered, a)
		}
	}
	return ordered, nil
}

type TaskOrder struct {
	AssetID    uuid.UUID `json:"asset_id"`
	OrderIndex int       `json:"order_index"`
}

func (s *SprintService) ReorderTasks(ctx context.Context, actor *models.Profile, sprintID uuid.UUID, orders []TaskOrder) error {
	if actor == nil {
		return NewNotAuthenticated()
	}

	for _, o := range orders {
		if err := s.repo.SetTaskOrder(ctx, sprintID, o.AssetID, o.OrderIndex); err != nil {
			return fmt.Errorf("изменение порядка задачи %s: %w", o.AssetID, err)
		}
	}
	return nil
}

// RecomputeCompletion переводит спринт active->completed, когда
// непустое множество его задач целиком в статусе implemented.
// Идемпотентно: обновляются только строки со status='active'.
func (s *SprintService) RecomputeCompletion(ctx context.Context, sprintID uuid.UUID) error {
	links, err := s.repo.ListTasks(ctx, sprintID)
	if err != nil {
		return err
	}
	if len(links) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(links))
	for _, link := range links {
		ids = append(ids, link.AssetID)
	}

	assets, err := s.assets.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(assets) == 0 {
		return nil
	}

	for _, a := range assets {
		if a.Status != models.StatusImplemented {
			return nil
		}
	}

	completed, err := s.repo.CompleteIfActive(ctx, sprintID, time.Now())
	if err != nil {
		return err
	}
	if completed {
		logger.Info("Service: Спринт автозавершён", zap.String("sprint_id", sprintID.String()))
	}
	return nil
}

// RecomputeForAsset пересчитывает все спринты, в которых состоит задача
// (вызывается после перехода задачи в implemented)
func (s *SprintService) RecomputeForAsset(ctx context.Context, assetID uuid.UUID) error {
	sprintIDs, err := s.repo.SprintsForAsset(ctx, assetID)
	if err != nil {
		return err
	}
	for _, sprintID := range sprintIDs {
		if err := s.RecomputeCompletion(ctx, sprintID); err != nil {
			logger.Warn("Service: Ошибка пересчёта автозавершения", zap.Error(err),
				zap.String("sprint_id", sprintID.String()))
		}
	}
	return nil
}

func (s *SprintService) AddDependency(ctx context.Context, actor *models.Profile,
	dependentID, dependencyID uuid.UUID, sprintID *uuid.UUID) (*models.TaskDependency, error) {
	if actor == nil {
		return nil, NewNotAuthenticated()
	}
	if dependentID == dependencyID {
		return nil, NewValidationError("dependency_task_id", "задача не может зависеть от себя")
	}

	dep := &models.TaskDependency{
		ID:               uuid.New(),
		DependentTaskID:  dependentID,
		DependencyTaskID: dependencyID,
		SprintID:         sprintID,
	}
	if err := s.repo.AddDependency(ctx, dep); err != nil {
		if errors.Is(err, repo.ErrAlreadyExists) {
			return nil, NewBusinessError("DEPENDENCY_EXISTS", "Зависимость уже объявлена")
		}
		return nil, err
	}
	return dep, nil
}

func (s *SprintService) RemoveDependency(ctx context.Context, actor *models.Profile, dependentID, dependencyID uuid.UUID) error {
	if actor == nil {
		return NewNotAuthenticated()
	}
	if err := s.repo.RemoveDependency(ctx, dependentID, dependencyID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFound("зависимость", dependentID.String())
		}
		return err
	}
	return nil
}

func (s *SprintService) DependenciesOf(ctx context.Context, assetID uuid.UUID) ([]*models.TaskDependency, error) {
	return s.repo.DependenciesOf(ctx, assetID)
}

func (s *SprintService) DependentsOf(ctx context.Context, assetID uuid.UUID) ([]*models.TaskDependency, error) {
	return s.repo.DependentsOf(ctx, assetID)
}

func (s *SprintService) DependenciesForSprint(ctx context.Context, sprintID uuid.UUID) ([]*models.TaskDependency, error) {
	return s.repo.DependenciesForSprint(ctx, sprintID)
}

// CanStart - совещательная проверка: все зависимости задачи в
// completed/implemented. Мутации статуса её НЕ консультируют, это
// только подсказка для клиента.
func (s *SprintService) CanStart(ctx context.Context, assetID uuid.UUID) (bool, []*models.TaskDependency, error) {
	deps, err := s.repo.DependenciesOf(ctx, assetID)
	if err != nil {
		return false, nil, err
	}
	if len(deps) == 0 {
		return true, nil, nil
	}

	ids := make([]uuid.UUID, 0, len(deps))
	for _, d := range deps {
		ids = append(ids, d.DependencyTaskID)
	}
	assets, err := s.assets.GetByIDs(ctx, ids)
	if err != nil {
		return false, nil, err
	}

	statusByID := make(map[uuid.UUID]models.AssetStatus, len(assets))
	for _, a := range assets {
		statusByID[a.ID] = a.Status
	}

	unmet := []*models.TaskDependency{}
	for _, d := range deps {
		status, ok := statusByID[d.DependencyTaskID]
		if !ok || !status.Terminal() {
			unmet = append(unmet, d)
		}
	}
	return len(unmet) == 0, unmet, nil
}
