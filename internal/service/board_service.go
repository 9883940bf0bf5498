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

// здесь живёт бизнес-логика доски: переходы этапов, журнал, продления

type BoardService struct {
	store Store

	// подменяется в тестах
	Now func() time.Time
}

func NewBoardService(store Store) *BoardService {
	return &BoardService{
		store: store,
		Now:   time.Now,
	}
}

func (s *BoardService) HealthCheck(ctx context.Context) error {
	if err := s.store.HealthCheck(ctx); err != nil {
		return fmt.Errorf("проверка здоровья сервиса: %w", err)
	}
	return nil
}

func (s *BoardService) CreateProject(ctx context.Context, title, description string, deadline time.Time) (*models.Project, error) {
	if title == "" {
		return nil, NewValidationError("title", "название не может быть пустым")
	}

	project := &models.Project{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Deadline:    deadline,
		CreatedAt:   s.Now(),
	}

	if err := s.store.CreateProject(ctx, project); err != nil {
		return nil, fmt.Errorf("создание проекта: %w", err)
	}
	return project, nil
}

func (s *BoardService) GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	project, err := s.store.GetProject(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFound("проект", id.String())
		}
		return nil, fmt.Errorf("получение проекта: %w", err)
	}
	return project, nil
}

// CreateTask заводит задачу на этапе In Progress и открывает первый
// интервал журнала с startTime = created_at, одной атомарной записью
func (s *BoardService) CreateTask(ctx context.Context, projectID uuid.UUID, title, description string, assigneeID uuid.UUID, deadline time.Time, order int) (*models.Task, error) {
	if title == "" {
		return nil, NewValidationError("title", "название не может быть пустым")
	}
	if deadline.IsZero() {
		return nil, NewValidationError("deadline", "дедлайн должен быть задан")
	}

	if _, err := s.GetProject(ctx, projectID); err != nil {
		return nil, err
	}

	now := s.Now()
	task := &models.Task{
		ID:          uuid.New(),
		ProjectID:   projectID,
		Title:       title,
		Description: description,
		AssigneeID:  assigneeID,
		Deadline:    deadline,
		Stage:       models.StageInProgress,
		Order:       order,
		Extension:   models.NoExtension(),
		CreatedAt:   now,
		Version:     1,
	}

	firstEntry := &models.TimelogEntry{
		ID:        uuid.New(),
		TaskID:    task.ID,
		ProjectID: projectID,
		Stage:     models.StageInProgress,
		StartTime: now,
	}

	if err := s.store.CreateTask(ctx, task, firstEntry); err != nil {
		return nil, fmt.Errorf("создание задачи: %w", err)
	}

	logger.Info("Service: Задача создана",
		zap.String("task_id", task.ID.String()),
		zap.String("project_id", projectID.String()))

	return task, nil
}

func (s *BoardService) GetTask(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id.String()))
			return nil, NewNotFound("задача", id.String())
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return task, nil
}

// MoveTask проводит задачу через машину этапов. При успехе этап,
// закрытие старого интервала и открытие нового фиксируются одной
// CAS-операцией; параллельный переход получает VERSION_CONFLICT
func (s *BoardService) MoveTask(ctx context.Context, taskID uuid.UUID, target models.Stage, opts MoveOptions) (*models.Task, error) {
	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Deleted {
		return nil, NewTaskDeleted(taskID)
	}

	now := s.Now()
	if busErr := checkTransition(task, target, now, opts); busErr != nil {
		logger.Warn("Service: Переход отклонён",
			zap.String("task_id", taskID.String()),
			zap.String("from", string(task.Stage)),
			zap.String("to", string(target)),
			zap.String("code", busErr.Code))
		return nil, busErr
	}

	previousStage := task.Stage
	task.Stage = target

	// ремарка уходит в хранилище вместе с переходом: пауза без
	// записи в журнале ремарок появиться не может
	var remarkLog *models.RemarkLogEntry
	if target == models.StagePause {
		task.Remark = opts.Remark
		remarkLog = &models.RemarkLogEntry{
			ID:        uuid.New(),
			UserID:    task.AssigneeID,
			TaskID:    task.ID,
			ProjectID: task.ProjectID,
			Remark:    opts.Remark,
			CreatedAt: now,
		}
	}

	opened := &models.TimelogEntry{
		ID:        uuid.New(),
		TaskID:    task.ID,
		ProjectID: task.ProjectID,
		Stage:     target,
		StartTime: now,
	}

	if err := s.store.ApplyTransition(ctx, task, now, opened, remarkLog); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, NewVersionConflict(taskID)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFound("задача", taskID.String())
		}
		return nil, fmt.Errorf("применение перехода: %w", err)
	}

	logger.Info("Service: Переход выполнен",
		zap.String("task_id", taskID.String()),
		zap.String("from", string(previousStage)),
		zap.String("to", string(target)))

	return task, nil
}

// Reorder - перестановка внутри колонки. Журнал не трогаем,
// это не переход этапа
func (s *BoardService) Reorder(ctx context.Context, taskID uuid.UUID, position int) error {
	if position < 0 {
		return NewValidationError("order", "позиция не может быть отрицательной")
	}

	if err := s.store.UpdateOrder(ctx, taskID, position); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NewNotFound("задача", taskID.String())
		}
		return fmt.Errorf("перестановка задачи: %w", err)
	}
	return nil
}

func (s *BoardService) UpdateTaskMeta(ctx context.Context, taskID uuid.UUID, title, description string) (*models.Task, error) {
	if utf8.RuneCountInString(title) < 3 {
		return nil, NewValidationError("title", "название должно быть не короче 3 символов")
	}

	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Deleted {
		return nil, NewTaskDeleted(taskID)
	}
	if task.Stage == models.StageArchive {
		return nil, NewArchivedImmutable(taskID)
	}

	task.Title = title
	task.Description = description

	if err := s.saveTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// SoftDeleteTask помечает задачу удалённой; журнал остаётся как есть
func (s *BoardService) SoftDeleteTask(ctx context.Context, taskID uuid.UUID) (*models.Task, error) {
	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Deleted {
		return nil, NewTaskDeleted(taskID)
	}

	now := s.Now()
	task.Deleted = true
	task.DeletedAt = &now

	if err := s.saveTask(ctx, task); err != nil {
		return nil, err
	}

	logger.Info("Service: Задача помечена удалённой", zap.String("task_id", taskID.String()))
	return task, nil
}

func (s *BoardService) saveTask(ctx context.Context, task *models.Task) error {
	if err := s.store.Update(ctx, task); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return NewVersionConflict(task.ID)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return NewNotFound("задача", task.ID.String())
		}
		return fmt.Errorf("сохранение задачи: %w", err)
	}
	return nil
}
