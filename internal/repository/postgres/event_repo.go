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

const eventColumns = `id, type, title, description, event_date, event_time,
	visibility, linked_asset_id, auto_create_task, created_by,
	created_at, updated_at, version`

type EventRepo struct {
	pool *pgxpool.Pool
}

func NewEventRepo(s *Storage) *EventRepo {
	return &EventRepo{pool: s.pool}
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	e := &models.Event{}
	err := row.Scan(
		&e.ID, &e.Type, &e.Title, &e.Description, &e.EventDate, &e.EventTime,
		&e.Visibility, &e.LinkedAssetID, &e.AutoCreateTask, &e.CreatedBy,
		&e.CreatedAt, &e.UpdatedAt, &e.Version,
	)
	return e, err
}

func (r *EventRepo) Create(ctx context.Context, e *models.Event) error {
	start := time.Now()

	query := `INSERT INTO events
				(id, type, title, description, event_date, event_time,
				 visibility, linked_asset_id, auto_create_task, created_by)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
				RETURNING created_at, version`

	err := r.pool.QueryRow(ctx, query,
		e.ID, e.Type, e.Title, e.Description, e.EventDate, e.EventTime,
		e.Visibility, e.LinkedAssetID, e.AutoCreateTask, e.CreatedBy,
	).Scan(&e.CreatedAt, &e.Version)

	if err != nil {
		logger.Error("Repository: Не удалось добавить событие", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление события: %w", err)
	}
	return nil
}

func (r *EventRepo) Update(ctx context.Context, e *models.Event) error {
	query := `UPDATE events
			SET type = $1,
				title = $2,
				description = $3,
				event_date = $4,
				event_time = $5,
				visibility = $6,
				linked_asset_id = $7,
				auto_create_task = $8,
				version = version + 1,
				updated_at = NOW()
			WHERE id = $9 AND version = $10
			RETURNING updated_at, version`

	err := r.pool.QueryRow(ctx, query,
		e.Type, e.Title, e.Description, e.EventDate, e.EventTime,
		e.Visibility, e.LinkedAssetID, e.AutoCreateTask,
		e.ID, e.Version,
	).Scan(&e.UpdatedAt, &e.Version)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Warn("Repository: Конфликт версий при обновлении события",
				zap.String("event_id", e.ID.String()),
				zap.Int("expected_version", e.Version))
			return repo.ErrVersionConflict
		}
		logger.Error("Repository: Не удалось обновить событие", err)
		return fmt.Errorf("обновление события: %w", err)
	}
	return nil
}

func (r *EventRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	e, err := scanEvent(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить событие", err)
		return nil, fmt.Errorf("получение события: %w", err)
	}
	return e, nil
}

// List возвращает события в диапазоне дат (нулевые границы не ограничивают)
func (r *EventRepo) List(ctx context.Context, from, to time.Time) ([]*models.Event, error) {
	start := time.Now()

	query := `SELECT ` + eventColumns + ` FROM events WHERE 1=1`
	args := []any{}

	if !from.IsZero() {
		args = append(args, from)
		query += fmt.Sprintf(" AND event_date >= $%d", len(args))
	}
	if !to.IsZero() {
		args = append(args, to)
		query += fmt.Sprintf(" AND event_date <= $%d", len(args))
	}
	query += " ORDER BY event_date ASC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: Не удалось получить события", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение событий: %w", err)
	}
	defer rows.Close()

	events := []*models.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования события", zap.Error(err))
			continue
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}
	return events, nil
}

func (r *EventRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		logger.Error("Repository: Не удалось удалить событие", err)
		return fmt.Errorf("удаление события: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// UnlinkAsset обнуляет linked_asset_id на всех событиях задачи
func (r *EventRepo) UnlinkAsset(ctx context.Context, assetID uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE events
			SET linked_asset_id = NULL,
				version = version + 1,
				updated_at = NOW()
			WHERE linked_asset_id = $1`, assetID)
	if err != nil {
		logger.Error("Repository: Не удалось отвязать задачу от событий", err)
		return 0, fmt.Errorf("отвязка задачи: %w", err)
	}
	return tag.RowsAffected(), nil
}
