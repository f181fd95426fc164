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

const requestColumns = `id, name, description, priority, status,
	created_by, accepted_by, accepted_at,
	denied_by, denied_at, denial_reason,
	linked_asset_id, created_at, updated_at, version`

// RequestRepo обслуживает model_requests либо feature_requests -
// таблицы одинаковой формы, таблица фиксируется при создании
type RequestRepo struct {
	pool  *pgxpool.Pool
	table string
}

func NewRequestRepo(s *Storage, kind models.RequestKind) *RequestRepo {
	return &RequestRepo{pool: s.pool, table: kind.Table()}
}

func scanRequest(row pgx.Row) (*models.Request, error) {
	q := &models.Request{}
	err := row.Scan(
		&q.ID, &q.Name, &q.Description, &q.Priority, &q.Status,
		&q.CreatedBy, &q.AcceptedBy, &q.AcceptedAt,
		&q.DeniedBy, &q.DeniedAt, &q.DenialReason,
		&q.LinkedAssetID, &q.CreatedAt, &q.UpdatedAt, &q.Version,
	)
	return q, err
}

func (r *RequestRepo) Create(ctx context.Context, q *models.Request) error {
	start := time.Now()

	query := `INSERT INTO ` + r.table + `
				(id, name, description, priority, status, created_by)
				VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING created_at, version`

	err := r.pool.QueryRow(ctx, query,
		q.ID, q.Name, q.Description, q.Priority, q.Status, q.CreatedBy,
	).Scan(&q.CreatedAt, &q.Version)

	if err != nil {
		logger.Error("Repository: Не удалось добавить заявку", err,
			zap.String("table", r.table), zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление заявки: %w", err)
	}
	return nil
}

func (r *RequestRepo) Update(ctx context.Context, q *models.Request) error {
	start := time.Now()

	query := `UPDATE ` + r.table + `
			SET name = $1,
				description = $2,
				priority = $3,
				status = $4,
				accepted_by = $5,
				accepted_at = $6,
				denied_by = $7,
				denied_at = $8,
				denial_reason = $9,
				linked_asset_id = $10,
				version = version + 1,
				updated_at = NOW()
			WHERE id = $11 AND version = $12
			RETURNING updated_at, version`

	err := r.pool.QueryRow(ctx, query,
		q.Name, q.Description, q.Priority, q.Status,
		q.AcceptedBy, q.AcceptedAt,
		q.DeniedBy, q.DeniedAt, q.DenialReason,
		q.LinkedAssetID,
		q.ID, q.Version,
	).Scan(&q.UpdatedAt, &q.Version)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Warn("Repository: Конфликт версий при обновлении заявки",
				zap.String("request_id", q.ID.String()),
				zap.Int("expected_version", q.Version))
			return repo.ErrVersionConflict
		}
		logger.Error("Repository: Не удалось обновить заявку", err, zap.String("table", r.table))
		return fmt.Errorf("обновление заявки: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (r *RequestRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM ` + r.table + ` WHERE id = $1`

	q, err := scanRequest(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить заявку", err, zap.String("table", r.table))
		return nil, fmt.Errorf("получение заявки: %w", err)
	}
	return q, nil
}

// List возвращает заявки; denied старше 7 дней скрываются на чтении
func (r *RequestRepo) List(ctx context.Context, status *models.RequestStatus) ([]*models.Request, error) {
	start := time.Now()

	query := `SELECT ` + requestColumns + ` FROM ` + r.table +
		` WHERE (status != 'denied' OR denied_at > NOW() - INTERVAL '7 days')`
	args := []any{}

	if status != nil {
		args = append(args, *status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: Не удалось получить заявки", err,
			zap.String("table", r.table), zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение заявок: %w", err)
	}
	defer rows.Close()

	requests := []*models.Request{}
	for rows.Next() {
		q, err := scanRequest(rows)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования заявки", zap.Error(err))
			continue
		}
		requests = append(requests, q)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}
	return requests, nil
}

func (r *RequestRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM `+r.table+` WHERE id = $1`, id)
	if err != nil {
		logger.Error("Repository: Не удалось удалить заявку", err, zap.String("table", r.table))
		return fmt.Errorf("удаление заявки: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// UnlinkAsset обнуляет linked_asset_id перед удалением задачи
func (r *RequestRepo) UnlinkAsset(ctx context.Context, assetID uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE `+r.table+`
			SET linked_asset_id = NULL,
				version = version + 1,
				updated_at = NOW()
			WHERE linked_asset_id = $1`, assetID)
	if err != nil {
		logger.Error("Repository: Не удалось отвязать задачу от заявок", err, zap.String("table", r.table))
		return 0, fmt.Errorf("отвязка задачи: %w", err)
	}
	return tag.RowsAffected(), nil
}
