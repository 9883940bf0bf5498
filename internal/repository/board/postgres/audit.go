package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ShazSiddiq/Employee-Engagement-System/internal/logger"
	"github.com/ShazSiddiq/Employee-Engagement-System/internal/models"
)

// журналы ремарок и продлений: только вставка, записи не меняются

func (s *Store) AppendRemarkLog(ctx context.Context, entry *models.RemarkLogEntry) error {
	query := `INSERT INTO remark_logs
			(id, user_id, task_id, project_id, remark, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.pool.Exec(ctx, query,
		entry.ID,
		entry.UserID,
		entry.TaskID,
		entry.ProjectID,
		entry.Remark,
		entry.CreatedAt,
	)
	if err != nil {
		logger.Error("Repository: Не удалось записать ремарку", err)
		return fmt.Errorf("запись ремарки: %w", err)
	}
	return nil
}

func (s *Store) AppendExtensionLog(ctx context.Context, entry *models.ExtensionLogEntry) error {
	query := `INSERT INTO extension_logs
			(id, task_id, previous_deadline, new_deadline, resolution, granted_at)
			VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.pool.Exec(ctx, query,
		entry.ID,
		entry.TaskID,
		entry.PreviousDeadline,
		entry.NewDeadline,
		entry.Resolution,
		entry.GrantedAt,
	)
	if err != nil {
		logger.Error("Repository: Не удалось записать продление", err)
		return fmt.Errorf("запись продления: %w", err)
	}
	return nil
}

func (s *Store) ListRemarkLogs(ctx context.Context, taskID uuid.UUID) ([]*models.RemarkLogEntry, error) {
	query := `SELECT id, user_id, task_id, project_id, remark, created_at
			FROM remark_logs
			WHERE task_id = $1
			ORDER BY created_at`

	rows, err := s.pool.Query(ctx, query, taskID)
	if err != nil {
		logger.Error("Repository: Не удалось прочитать журнал ремарок", err)
		return nil, fmt.Errorf("чтение журнала ремарок: %w", err)
	}
	defer rows.Close()

	entries := []*models.RemarkLogEntry{}
	for rows.Next() {
		entry := &models.RemarkLogEntry{}
		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.TaskID,
			&entry.ProjectID,
			&entry.Remark,
			&entry.CreatedAt,
		)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования ремарки", zap.Error(err))
			continue
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}
	return entries, nil
}

func (s *Store) ListExtensionLogs(ctx context.Context, taskID uuid.UUID) ([]*models.ExtensionLogEntry, error) {
	query := `SELECT id, task_id, previous_deadline, new_deadline, resolution, granted_at
			FROM extension_logs
			WHERE task_id = $1
			ORDER BY granted_at`

	rows, err := s.pool.Query(ctx, query, taskID)
	if err != nil {
		logger.Error("Repository: Не удалось прочитать журнал продлений", err)
		return nil, fmt.Errorf("чтение журнала продлений: %w", err)
	}
	defer rows.Close()

	entries := []*models.ExtensionLogEntry{}
	for rows.Next() {
		entry := &models.ExtensionLogEntry{}
		err := rows.Scan(
			&entry.ID,
			&entry.TaskID,
			&entry.PreviousDeadline,
			&entry.NewDeadline,
			&entry.Resolution,
			&entry.GrantedAt,
		)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования продления", zap.Error(err))
			continue
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}
	return entries, nil
}
