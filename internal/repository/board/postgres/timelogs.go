package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/ShazSiddiq/Employee-Engagement-System/internal/logger"
	"github.com/ShazSiddiq/Employee-Engagement-System/internal/models"
	"github.com/ShazSiddiq/Employee-Engagement-System/internal/repository"
)

const uniqueViolation = "23505"

func (s *Store) OpenInterval(ctx context.Context, entry *models.TimelogEntry) error {
	query := `INSERT INTO timelogs
			(id, task_id, project_id, stage, start_time)
			VALUES ($1, $2, $3, $4, $5)`

	_, err := s.pool.Exec(ctx, query,
		entry.ID,
		entry.TaskID,
		entry.ProjectID,
		entry.Stage,
		entry.StartTime,
	)
	if err != nil {
		// частичный уникальный индекс timelogs_one_open
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			logger.Warn("Repository: Попытка второго открытого интервала",
				zap.String("task_id", entry.TaskID.String()))
			return repository.ErrOpenInterval
		}
		logger.Error("Repository: Не удалось открыть интервал", err)
		return fmt.Errorf("открытие интервала: %w", err)
	}
	return nil
}

// CloseOpenInterval закрывает единственный открытый интервал задачи.
// Если открытого нет (в том числе при повторном вызове) - ErrNotFound
func (s *Store) CloseOpenInterval(ctx context.Context, taskID uuid.UUID, closedAt time.Time) (*models.TimelogEntry, error) {
	query := `UPDATE timelogs
			SET end_time = $1
			WHERE task_id = $2 AND end_time IS NULL
			RETURNING id, task_id, project_id, stage, start_time, end_time`

	entry := &models.TimelogEntry{}
	err := s.pool.QueryRow(ctx, query, closedAt, taskID).Scan(
		&entry.ID,
		&entry.TaskID,
		&entry.ProjectID,
		&entry.Stage,
		&entry.StartTime,
		&entry.EndTime,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		logger.Error("Repository: Не удалось закрыть интервал", err)
		return nil, fmt.Errorf("закрытие интервала: %w", err)
	}
	return entry, nil
}

func (s *Store) History(ctx context.Context, taskID uuid.UUID) ([]*models.TimelogEntry, error) {
	query := `SELECT id, task_id, project_id, stage, start_time, end_time
			FROM timelogs
			WHERE task_id = $1
			ORDER BY start_time`

	rows, err := s.pool.Query(ctx, query, taskID)
	if err != nil {
		logger.Error("Repository: Не удалось прочитать журнал", err)
		return nil, fmt.Errorf("чтение журнала: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (s *Store) HistoryForTasks(ctx context.Context, taskIDs []uuid.UUID) (map[uuid.UUID][]*models.TimelogEntry, error) {
	res := make(map[uuid.UUID][]*models.TimelogEntry, len(taskIDs))
	if len(taskIDs) == 0 {
		return res, nil
	}

	query := `SELECT id, task_id, project_id, stage, start_time, end_time
			FROM timelogs
			WHERE task_id = ANY($1)
			ORDER BY task_id, start_time`

	rows, err := s.pool.Query(ctx, query, taskIDs)
	if err != nil {
		logger.Error("Repository: Не удалось прочитать журналы", err)
		return nil, fmt.Errorf("чтение журналов: %w", err)
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		res[entry.TaskID] = append(res[entry.TaskID], entry)
	}
	return res, nil
}

func scanEntries(rows pgx.Rows) ([]*models.TimelogEntry, error) {
	entries := []*models.TimelogEntry{}
	for rows.Next() {
		entry := &models.TimelogEntry{}
		err := rows.Scan(
			&entry.ID,
			&entry.TaskID,
			&entry.ProjectID,
			&entry.Stage,
			&entry.StartTime,
			&entry.EndTime,
		)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования интервала", zap.Error(err))
			continue
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}
	return entries, nil
}
