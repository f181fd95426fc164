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

const assetColumns = `id, name, blurb, status, category, priority, due_date,
	created_by, claimed_by, claimed_at,
	in_progress_by, in_progress_at,
	completed_by, completed_at,
	implemented_by, implemented_at,
	created_at, updated_at, version`

type AssetRepo struct {
	pool *pgxpool.Pool
}

func NewAssetRepo(s *Storage) *AssetRepo {
	return &AssetRepo{pool: s.pool}
}

func scanAsset(row pgx.Row) (*models.Asset, error) {
	a := &models.Asset{}
	err := row.Scan(
		&a.ID, &a.Name, &a.Blurb, &a.Status, &a.Category, &a.Priority, &a.DueDate,
		&a.CreatedBy, &a.ClaimedBy, &a.ClaimedAt,
		&a.InProgressBy, &a.InProgressAt,
		&a.CompletedBy, &a.CompletedAt,
		&a.ImplementedBy, &a.ImplementedAt,
		&a.CreatedAt, &a.UpdatedAt, &a.Version,
	)
	return a, err
}

func (r *AssetRepo) Create(ctx context.Context, a *models.Asset) error {
	start := time.Now()

	query := `INSERT INTO assets
				(id, name, blurb, status, category, priority, due_date, created_by)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
				RETURNING created_at, version`

	err := r.pool.QueryRow(ctx, query,
		a.ID, a.Name, a.Blurb, a.Status, a.Category, a.Priority, a.DueDate, a.CreatedBy,
	).Scan(&a.CreatedAt, &a.Version)

	if err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*50 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

// Update перезаписывает все изменяемые поля с проверкой версии
func (r *AssetRepo) Update(ctx context.Context, a *models.Asset) error {
	start := time.Now()

	query := `UPDATE assets
			SET name = $1,
				blurb = $2,
				status = $3,
				category = $4,
				priority = $5,
				due_date = $6,
				claimed_by = $7,
				claimed_at = $8,
				in_progress_by = $9,
				in_progress_at = $10,
				completed_by = $11,
				completed_at = $12,
				implemented_by = $13,
				implemented_at = $14,
				version = version + 1,
				updated_at = NOW()
			WHERE id = $15 AND version = $16
			RETURNING updated_at, version`

	err := r.pool.QueryRow(ctx, query,
		a.Name, a.Blurb, a.Status, a.Category, a.Priority, a.DueDate,
		a.ClaimedBy, a.ClaimedAt,
		a.InProgressBy, a.InProgressAt,
		a.CompletedBy, a.CompletedAt,
		a.ImplementedBy, a.ImplementedAt,
		a.ID, a.Version,
	).Scan(&a.UpdatedAt, &a.Version)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Warn("Repository: Конфликт версий при обновлении задачи",
				zap.String("asset_id", a.ID.String()),
				zap.Int("expected_version", a.Version))
			return repo.ErrVersionConflict
		}
		logger.Error("Repository: Не удалось обновить задачу", err)
		return fmt.Errorf("обновление задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (r *AssetRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Asset, error) {
	start := time.Now()

	query := `SELECT ` + assetColumns + ` FROM assets WHERE id = $1`

	a, err := scanAsset(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}
	return a, nil
}

func (r *AssetRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Asset, error) {
	if len(ids) == 0 {
		return []*models.Asset{}, nil
	}
	start := time.Now()

	query := `SELECT ` + assetColumns + ` FROM assets WHERE id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	defer rows.Close()

	return collectAssets(rows)
}

// List возвращает задачи по фильтру. Для status=implemented действует
// окно видимости: строки старше 7 дней не возвращаются (фильтр на чтении,
// строки остаются в таблице).
func (r *AssetRepo) List(ctx context.Context, status *models.AssetStatus, category *models.AssetCategory) ([]*models.Asset, error) {
	start := time.Now()

	query := `SELECT ` + assetColumns + ` FROM assets WHERE 1=1`
	args := []any{}

	if status != nil {
		args = append(args, *status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
		if *status == models.StatusImplemented {
			query += " AND implemented_at > NOW() - INTERVAL '7 days'"
		}
	}
	if category != nil {
		args = append(args, *category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	defer rows.Close()

	assets, err := collectAssets(rows)
	if err != nil {
		return nil, err
	}

	if time.Since(start) > time.Millisecond*50+time.Millisecond*time.Duration(len(assets)) {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}
	return assets, nil
}

func (r *AssetRepo) Delete(ctx context.Context, id uuid.UUID) error {
	start := time.Now()

	tag, err := r.pool.Exec(ctx, `DELETE FROM assets WHERE id = $1`, id)
	if err != nil {
		logger.Error("Repository: Не удалось удалить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("удаление задачи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// UnclaimAllBy снимает claim со всех задач пользователя (блокировка)
func (r *AssetRepo) UnclaimAllBy(ctx context.Context, userID uuid.UUID) (int64, error) {
	start := time.Now()

	tag, err := r.pool.Exec(ctx,
		`UPDATE assets
			SET claimed_by = NULL,
				claimed_at = NULL,
				version = version + 1,
				updated_at = NOW()
			WHERE claimed_by = $1`, userID)
	if err != nil {
		logger.Error("Repository: Не удалось снять claim", err, zap.Duration("ms", time.Since(start)))
		return 0, fmt.Errorf("снятие claim: %w", err)
	}

	return tag.RowsAffected(), nil
}

func collectAssets(rows pgx.Rows) ([]*models.Asset, error) {
	assets := []*models.Asset{}
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования задачи", zap.Error(err))
			continue
		}
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}
	return assets, nil
}
