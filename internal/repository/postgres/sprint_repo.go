package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"assetTracker/internal/logger"
	"assetTracker/internal/models"
	repo "assetTracker/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const sprintColumns = `id, name, description, status, created_by,
	completed_at, created_at, updated_at, version`

type SprintRepo struct {
	pool *pgxpool.Pool
}

func NewSprintRepo(s *Storage) *SprintRepo {
	return &SprintRepo{pool: s.pool}
}

func scanSprint(row pgx.Row) (*models.Sprint, error) {
	sp := &models.Sprint{}
	err := row.Scan(
		&sp.ID, &sp.Name, &sp.Description, &sp.Status, &sp.CreatedBy,
		&sp.CompletedAt, &sp.CreatedAt, &sp.UpdatedAt, &sp.Version,
	)
	return sp, err
}

func (r *SprintRepo) Create(ctx context.Context, sp *models.Sprint) error {
	query := `INSERT INTO sprints
				(id, name, description, status, created_by)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING created_at, version`

	err := r.pool.QueryRow(ctx, query,
		sp.ID, sp.Name, sp.Description, sp.Status, sp.CreatedBy,
	).Scan(&sp.CreatedAt, &sp.Version)

	if err != nil {
		logger.Error("Repository: Не удалось добавить спринт", err)
		return fmt.Errorf("добавление спринта: %w", err)
	}
	return nil
}

func (r *SprintRepo) Update(ctx context.Context, sp *models.Sprint) error {
	query := `UPDATE sprints
			SET name = $1,
				description = $2,
				status = $3,
				completed_at = $4,
				version = version + 1,
				updated_at = NOW()
			WHERE id = $5 AND version = $6
			RETURNING updated_at, version`

	err := r.pool.QueryRow(ctx, query,
		sp.Name, sp.Description, sp.Status, sp.CompletedAt,
		sp.ID, sp.Version,
	).Scan(&sp.UpdatedAt, &sp.Version)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Warn("Repository: Конфликт версий при обновлении спринта",
				zap.String("sprint_id", sp.ID.String()),
				zap.Int("expected_version", sp.Version))
			return repo.ErrVersionConflict
		}
		logger.Error("Repository: Не удалось обновить спринт", err)
		return fmt.Errorf("обновление спринта: %w", err)
	}
	return nil
}

func (r *SprintRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Sprint, error) {
	query := `SELECT ` + sprintColumns + ` FROM sprints WHERE id = $1`

	sp, err := scanSprint(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить спринт", err)
		return nil, fmt.Errorf("получение спринта: %w", err)
	}
	return sp, nil
}

func (r *SprintRepo) List(ctx context.Context, status *models.SprintStatus) ([]*models.Sprint, error) {
	query := `SELECT ` + sprintColumns + ` FROM sprints`
	args := []any{}

	if status != nil {
		args = append(args, *status)
		query += " WHERE status = $1"
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: Не удалось получить спринты", err)
		return nil, fmt.Errorf("получение спринтов: %w", err)
	}
	defer rows.Close()

	sprints := []*models.Sprint{}
	for rows.Next() {
		sp, err := scanSprint(rows)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования спринта", zap.Error(err))
			continue
		}
		sprints = append(sprints, sp)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}
	return sprints, nil
}

func (r *SprintRepo) Delete(ctx context.Context, id uuid.UUID) error {
	// sprint_tasks и task_dependencies удаляются каскадом
	tag, err := r.pool.Exec(ctx, `DELETE FROM sprints WHERE id = $1`, id)
	if err != nil {
		logger.Error("Repository: Не удалось удалить спринт", err)
		return fmt.Errorf("удаление спринта: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// CompleteIfActive переводит active->completed, идемпотентно за счёт
// условия status='active'. Возвращает true, если переход произошёл.
func (r *SprintRepo) CompleteIfActive(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE sprints
			SET status = $1,
				completed_at = $2,
				version = version + 1,
				updated_at = NOW()
			WHERE id = $3 AND status = $4`,
		models.SprintCompleted, at, id, models.SprintActive)
	if err != nil {
		logger.Error("Repository: Не удалось завершить спринт", err)
		return false, fmt.Errorf("завершение спринта: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *SprintRepo) ListActiveIDs(ctx context.Context, limit int) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id FROM sprints WHERE status = $1 ORDER BY created_at LIMIT $2`,
		models.SprintActive, limit)
	if err != nil {
		logger.Error("Repository: Не удалось получить активные спринты", err)
		return nil, fmt.Errorf("получение активных спринтов: %w", err)
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			logger.Warn("Repository: Ошибка сканирования id", zap.Error(err))
			continue
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *SprintRepo) AddTask(ctx context.Context, st *models.SprintTask) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO sprint_tasks (sprint_id, asset_id, order_index)
			VALUES ($1, $2, $3)`,
		st.SprintID, st.AssetID, st.OrderIndex)
	if err != nil {
		if isUniqueViolation(err) {
			return repo.ErrAlreadyExists
		}
		logger.Error("Repository: Не удалось добавить задачу в спринт", err,
			zap.String("sprint_id", st.SprintID.String()),
			zap.String("asset_id", st.AssetID.String()))
		return fmt.Errorf("добавление задачи в спринт: %w", err)
	}
	return nil
}

func (r *SprintRepo) RemoveTask(ctx context.Context, sprintID, assetID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM sprint_tasks WHERE sprint_id = $1 AND asset_id = $2`,
		sprintID, assetID)
	if err != nil {
		logger.Error("Repository: Не удалось убрать задачу из спринта", err)
		return fmt.Errorf("удаление задачи из спринта: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// ListTasks возвращает связи спринта в порядке order_index
func (r *SprintRepo) ListTasks(ctx context.Context, sprintID uuid.UUID) ([]*models.SprintTask, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT sprint_id, asset_id, order_index
			FROM sprint_tasks
			WHERE sprint_id = $1
			ORDER BY order_index`, sprintID)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи спринта", err)
		return nil, fmt.Errorf("получение задач спринта: %w", err)
	}
	defer rows.Close()

	links := []*models.SprintTask{}
	for rows.Next() {
		st := &models.SprintTask{}
		if err := rows.Scan(&st.SprintID, &st.AssetID, &st.OrderIndex); err != nil {
			logger.Warn("Repository: Ошибка сканирования связи", zap.Error(err))
			continue
		}
		links = append(links, st)
	}
	return links, rows.Err()
}

// SprintsForAsset - спринты, в которых состоит задача (нужно для
// пересчёта автозавершения после смены статуса задачи)
func (r *SprintRepo) SprintsForAsset(ctx context.Context, assetID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT sprint_id FROM sprint_tasks WHERE asset_id = $1`, assetID)
	if err != nil {
		logger.Error("Repository: Не удалось получить спринты задачи", err)
		return nil, fmt.Errorf("получение спринтов задачи: %w", err)
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			logger.Warn("Repository: Ошибка сканирования id", zap.Error(err))
			continue
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// MaxOrderIndex - текущий максимум order_index, -1 для пустого спринта
func (r *SprintRepo) MaxOrderIndex(ctx context.Context, sprintID uuid.UUID) (int, error) {
	var max int
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(order_index), -1) FROM sprint_tasks WHERE sprint_id = $1`,
		sprintID).Scan(&max)
	if err != nil {
		logger.Error("Repository: Не удалось получить максимальный order_index", err)
		return 0, fmt.Errorf("получение order_index: %w", err)
	}
	return max, nil
}

func (r *SprintRepo) SetTaskOrder(ctx context.Context, sprintID, assetID uuid.UUID, orderIndex int) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE sprint_tasks SET order_index = $1 WHERE sprint_id = $2 AND asset_id = $3`,
		orderIndex, sprintID, assetID)
	if err != nil {
		logger.Error("Repository: Не удалось изменить порядок задачи", err)
		return fmt.Errorf("изменение порядка: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *SprintRepo) AddDependency(ctx context.Context, d *models.TaskDependency) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO task_dependencies
			(id, dependent_task_id, dependency_task_id, sprint_id)
			VALUES ($1, $2, $3, $4)
			RETURNING created_at`,
		d.ID, d.DependentTaskID, d.DependencyTaskID, d.SprintID,
	).Scan(&d.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return repo.ErrAlreadyExists
		}
		logger.Error("Repository: Не удалось добавить зависимость", err)
		return fmt.Errorf("добавление зависимости: %w", err)
	}
	return nil
}

func (r *SprintRepo) RemoveDependency(ctx context.Context, dependentID, dependencyID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM task_dependencies
			WHERE dependent_task_id = $1 AND dependency_task_id = $2`,
		dependentID, dependencyID)
	if err != nil {
		logger.Error("Repository: Не удалось удалить зависимость", err)
		return fmt.Errorf("удаление зависимости: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *SprintRepo) listDependencies(ctx context.Context, where string, arg any) ([]*models.TaskDependency, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, dependent_task_id, dependency_task_id, sprint_id, created_at
			FROM task_dependencies WHERE `+where, arg)
	if err != nil {
		logger.Error("Repository: Не удалось получить зависимости", err)
		return nil, fmt.Errorf("получение зависимостей: %w", err)
	}
	defer rows.Close()

	deps := []*models.TaskDependency{}
	for rows.Next() {
		d := &models.TaskDependency{}
		if err := rows.Scan(&d.ID, &d.DependentTaskID, &d.DependencyTaskID, &d.SprintID, &d.CreatedAt); err != nil {
			logger.Warn("Repository: Ошибка сканирования зависимости", zap.Error(err))
			continue
		}
		deps = append(deps, d)
	}
	return deps, rows.Err()
}

// DependenciesOf - от чего зависит задача
func (r *SprintRepo) DependenciesOf(ctx context.Context, assetID uuid.UUID) ([]*models.TaskDependency, error) {
	return r.listDependencies(ctx, "dependent_task_id = $1", assetID)
}

// DependentsOf - кто зависит от задачи
func (r *SprintRepo) DependentsOf(ctx context.Context, assetID uuid.UUID) ([]*models.TaskDependency, error) {
	return r.listDependencies(ctx, "dependency_task_id = $1", assetID)
}

func (r *SprintRepo) DependenciesForSprint(ctx context.Context, sprintID uuid.UUID) ([]*models.TaskDependency, error) {
	return r.listDependencies(ctx, "sprint_id = $1", sprintID)
}
