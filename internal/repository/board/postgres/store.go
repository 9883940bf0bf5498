package postgres

import (
	"context"
	"embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ShazSiddiq/Employee-Engagement-System/internal/logger"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

type Store struct {
	pool *pgxpool.Pool
}

type Options struct {
	MaxConns    int
	MinConns    int
	IdleTimeout time.Duration
}

func New(ctx context.Context, connString string, opts Options) (*Store, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		logger.Error("Repository: Ошибка загрузки конфига", err)
		return nil, fmt.Errorf("загрузка конфига: %w", err)
	}

	if opts.MaxConns > 0 {
		config.MaxConns = int32(opts.MaxConns)
	}
	if opts.MinConns > 0 {
		config.MinConns = int32(opts.MinConns)
	}
	if opts.IdleTimeout > 0 {
		config.MaxConnIdleTime = opts.IdleTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		logger.Error("Repository: Ошибка создания пула", err)
		return nil, fmt.Errorf("создание пула: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return nil, fmt.Errorf("проверка соединения ping: %w", err)
	}

	logger.Info("Repository: Успешное создание подключения к PostgreSQL")
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
	logger.Info("Repository: Закрытие всех соединений PostgreSQL")
}

func (s *Store) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

func (s *Store) Migrate(ctx context.Context) error {
	logger.Info("Repository: Применение миграций")

	for _, name := range []string{"migrations/001_init.up.sql", "migrations/002_indexes.up.sql"} {
		sql, err := migrationFiles.ReadFile(name)
		if err != nil {
			logger.Error("Repository: Миграция не прочитана", err)
			return fmt.Errorf("чтение %s: %w", name, err)
		}
		if _, err := s.pool.Exec(ctx, string(sql)); err != nil {
			logger.Error("Repository: Миграция не применена", err)
			return fmt.Errorf("применение %s: %w", name, err)
		}
	}

	logger.Info("Repository: Миграции применены")
	return nil
}

func (s *Store) Down(ctx context.Context) error {
	logger.Info("Repository: Откат миграций")

	for _, name := range []string{"migrations/002_indexes.down.sql", "migrations/001_init.down.sql"} {
		sql, err := migrationFiles.ReadFile(name)
		if err != nil {
			return fmt.Errorf("чтение %s: %w", name, err)
		}
		if _, err := s.pool.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("откат %s: %w", name, err)
		}
	}

	logger.Info("Repository: Откат выполнен")
	return nil
}
