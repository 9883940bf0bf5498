package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ShazSiddiq/Employee-Engagement-System/internal/logger"
	"github.com/ShazSiddiq/Employee-Engagement-System/internal/models"
	"github.com/ShazSiddiq/Employee-Engagement-System/internal/repository"
)

// запросы на продление дедлайна: подать может владелец просроченной
// задачи, рассмотреть - администратор. Оба исхода чистят запрос и
// вместе со строкой журнала продлений записываются атомарно

func (s *BoardService) RequestExtension(ctx context.Context, taskID uuid.UUID, text string) (*models.Task, error) {
	if n := utf8.RuneCountInString(text); n < extensionMinLen || n > extensionMaxLen {
		return nil, NewValidationError("extensionRequest", "обоснование должно быть от 3 до 500 символов")
	}

	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Deleted {
		return nil, NewTaskDeleted(taskID)
	}
	if task.Stage.Terminal() {
		return nil, NewValidationError("stage", "завершённой задаче продление не нужно")
	}
	if !task.Expired(s.Now()) {
		return nil, NewValidationError("deadline", "дедлайн ещё не прошёл")
	}
	if task.Extension.Requested {
		// повторная подача не перетирает висящий запрос молча
		return nil, NewExtensionPending(taskID)
	}

	task.Extension = models.PendingExtension(text)
	if err := s.saveTask(ctx, task); err != nil {
		return nil, err
	}

	logger.Info("Service: Подан запрос на продление", zap.String("task_id", taskID.String()))
	return task, nil
}

func (s *BoardService) GrantExtension(ctx context.Context, taskID uuid.UUID, newDeadline time.Time) (*models.Task, error) {
	now := s.Now()
	if !newDeadline.After(now) {
		return nil, NewValidationError("newDateTime", "новый дедлайн должен быть в будущем")
	}

	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !task.Extension.Requested {
		return nil, NewNoExtensionPending(taskID)
	}

	previous := task.Deadline
	task.Deadline = newDeadline
	task.Extension = models.NoExtension()

	entry := &models.ExtensionLogEntry{
		ID:               uuid.New(),
		TaskID:           taskID,
		PreviousDeadline: previous,
		NewDeadline:      newDeadline,
		Resolution:       models.ExtensionGranted,
		GrantedAt:        now,
	}
	if err := s.resolveExtension(ctx, task, entry); err != nil {
		return nil, err
	}

	logger.Info("Service: Продление одобрено",
		zap.String("task_id", taskID.String()),
		zap.Time("previous_deadline", previous),
		zap.Time("new_deadline", newDeadline))

	return task, nil
}

func (s *BoardService) DenyExtension(ctx context.Context, taskID uuid.UUID) (*models.Task, error) {
	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !task.Extension.Requested {
		return nil, NewNoExtensionPending(taskID)
	}

	task.Extension = models.NoExtension()

	// отказ тоже остаётся в журнале, дедлайн не двигается
	entry := &models.ExtensionLogEntry{
		ID:               uuid.New(),
		TaskID:           taskID,
		PreviousDeadline: task.Deadline,
		NewDeadline:      task.Deadline,
		Resolution:       models.ExtensionDenied,
		GrantedAt:        s.Now(),
	}
	if err := s.resolveExtension(ctx, task, entry); err != nil {
		return nil, err
	}

	logger.Info("Service: Продление отклонено", zap.String("task_id", taskID.String()))
	return task, nil
}

func (s *BoardService) resolveExtension(ctx context.Context, task *models.Task, entry *models.ExtensionLogEntry) error {
	if err := s.store.ResolveExtension(ctx, task, entry); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return NewVersionConflict(task.ID)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return NewNotFound("задача", task.ID.String())
		}
		return fmt.Errorf("решение по продлению: %w", err)
	}
	return nil
}
