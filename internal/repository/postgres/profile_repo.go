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

const profileColumns = `id, email, display_name, is_blocked, blocked_at,
	blocked_reason, created_at, updated_at`

type ProfileRepo struct {
	pool *pgxpool.Pool
}

func NewProfileRepo(s *Storage) *ProfileRepo {
	return &ProfileRepo{pool: s.pool}
}

func scanProfile(row pgx.Row) (*models.Profile, error) {
	p := &models.Profile{}
	err := row.Scan(
		&p.ID, &p.Email, &p.DisplayName, &p.IsBlocked, &p.BlockedAt,
		&p.BlockedReason, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func (r *ProfileRepo) Create(ctx context.Context, p *models.Profile) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO profiles (id, email, display_name)
			VALUES ($1, $2, $3)
			RETURNING created_at`,
		p.ID, p.Email, p.DisplayName,
	).Scan(&p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return repo.ErrAlreadyExists
		}
		logger.Error("Repository: Не удалось добавить профиль", err)
		return fmt.Errorf("добавление профиля: %w", err)
	}
	return nil
}

func (r *ProfileRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	p, err := scanProfile(r.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить профиль", err)
		return nil, fmt.Errorf("получение профиля: %w", err)
	}
	return p, nil
}

func (r *ProfileRepo) List(ctx context.Context) ([]*models.Profile, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+profileColumns+` FROM profiles ORDER BY created_at DESC`)
	if err != nil {
		logger.Error("Repository: Не удалось получить профили", err)
		return nil, fmt.Errorf("получение профилей: %w", err)
	}
	defer rows.Close()

	profiles := []*models.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования профиля", zap.Error(err))
			continue
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (r *ProfileRepo) Update(ctx context.Context, p *models.Profile) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE profiles
			SET email = $1,
				display_name = $2,
				is_blocked = $3,
				blocked_at = $4,
				blocked_reason = $5,
				updated_at = NOW()
			WHERE id = $6
			RETURNING updated_at`,
		p.Email, p.DisplayName, p.IsBlocked, p.BlockedAt, p.BlockedReason, p.ID,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось обновить профиль", err)
		return fmt.Errorf("обновление профиля: %w", err)
	}
	return nil
}
