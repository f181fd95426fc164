package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"assetTracker/internal/logger"
	"assetTracker/internal/migrations"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Storage держит пул соединений, общий для всех репозиториев
type Storage struct {
	pool    *pgxpool.Pool
	connStr string
}

func New(ctx context.Context, connString string, maxConns, minConns int, idleTimeout time.Duration) (*Storage, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		logger.Error("Repository: Ошибка загрузки конфига", err)
		return nil, fmt.Errorf("загрузка конфига: %w", err)
	}

	config.MaxConns = int32(maxConns)
	config.MinConns = int32(minConns)
	config.MaxConnIdleTime = idleTimeout

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		logger.Error("Repository: Ошибка создания пула", err)
		return nil, fmt.Errorf("создание пула: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return nil, fmt.Errorf("проверка соединения ping: %w", err)
	}

	logger.Info("Repository: Успешное создание подключения к PostgreSQL")
	return &Storage{pool: pool, connStr: connString}, nil
}

func (s *Storage) Close() {
	s.pool.Close()
	logger.Info("Repository: Закрытие всех соединений PostgreSQL")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	err := s.pool.Ping(ctx)
	if err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

// ConnString - строка подключения (нужна realtime-слушателю для
// отдельного соединения под LISTEN)
func (s *Storage) ConnString() string {
	return s.connStr
}

// Migrate применяет встроенные миграции через golang-migrate
func (s *Storage) Migrate() error {
	logger.Info("Repository: Применение миграций")

	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		logger.Error("Repository: Ошибка чтения миграций", err)
		return fmt.Errorf("чтение миграций: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, migrateURL(s.connStr))
	if err != nil {
		logger.Error("Repository: Ошибка инициализации мигратора", err)
		return fmt.Errorf("инициализация мигратора: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		logger.Error("Repository: Ошибка применения миграций", err)
		return fmt.Errorf("применение миграций: %w", err)
	}

	logger.Info("Repository: Миграции применены")
	return nil
}

func (s *Storage) MigrateDown() error {
	logger.Info("Repository: Откат миграций")

	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("чтение миграций: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, migrateURL(s.connStr))
	if err != nil {
		return fmt.Errorf("инициализация мигратора: %w", err)
	}
	defer m.Close()

	if err := m.Down(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("откат миграций: %w", err)
	}
	return nil
}

// isUniqueViolation - нарушение уникального ограничения (23505)
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// драйвер pgx/v5 в golang-migrate регистрируется под схемой pgx5
func migrateURL(connString string) string {
	if strings.HasPrefix(connString, "postgres://") {
		return "pgx5://" + strings.TrimPrefix(connString, "postgres://")
	}
	if strings.HasPrefix(connString, "postgresql://") {
		return "pgx5://" + strings.TrimPrefix(connString, "postgresql://")
	}
	return connString
}
