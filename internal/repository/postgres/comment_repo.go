package postgres

import (
	"context"
	"errors"
	"fmt"

	"assetTracker/internal/logger"
	"assetTracker/internal/models"
	repo "assetTracker/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type CommentRepo struct {
	pool *pgxpool.Pool
}

func NewCommentRepo(s *Storage) *CommentRepo {
	return &CommentRepo{pool: s.pool}
}

func (r *CommentRepo) Create(ctx context.Context, c *models.Comment) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO comments (id, asset_id, sprint_id, content, created_by)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING created_at`,
		c.ID, c.AssetID, c.SprintID, c.Content, c.CreatedBy,
	).Scan(&c.CreatedAt)
	if err != nil {
		logger.Error("Repository: Не удалось добавить комментарий", err)
		return fmt.Errorf("добавление комментария: %w", err)
	}
	return nil
}

func (r *CommentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	c := &models.Comment{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, asset_id, sprint_id, content, created_by, created_at
			FROM comments WHERE id = $1`, id,
	).Scan(&c.ID, &c.AssetID, &c.SprintID, &c.Content, &c.CreatedBy, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить комментарий", err)
		return nil, fmt.Errorf("получение комментария: %w", err)
	}
	return c, nil
}

func (r *CommentRepo) listWhere(ctx context.Context, where string, arg any) ([]*models.Comment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, asset_id, sprint_id, content, created_by, created_at
			FROM comments WHERE `+where+` ORDER BY created_at`, arg)
	if err != nil {
		logger.Error("Repository: Не удалось получить комментарии", err)
		return nil, fmt.Errorf("получение комментариев: %w", err)
	}
	defer rows.Close()

	comments := []*models.Comment{}
	for rows.Next() {
		c := &models.Comment{}
		if err := rows.Scan(&c.ID, &c.AssetID, &c.SprintID, &c.Content, &c.CreatedBy, &c.CreatedAt); err != nil {
			logger.Warn("Repository: Ошибка сканирования комментария", zap.Error(err))
			continue
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *CommentRepo) ListForAsset(ctx context.Context, assetID uuid.UUID) ([]*models.Comment, error) {
	return r.listWhere(ctx, "asset_id = $1", assetID)
}

func (r *CommentRepo) ListForSprint(ctx context.Context, sprintID uuid.UUID) ([]*models.Comment, error) {
	return r.listWhere(ctx, "sprint_id = $1", sprintID)
}

func (r *CommentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		logger.Error("Repository: Не удалось удалить комментарий", err)
		return fmt.Errorf("удаление комментария: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}
