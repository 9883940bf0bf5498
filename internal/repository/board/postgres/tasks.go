package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/ShazSiddiq/Employee-Engagement-System/internal/logger"
	"github.com/ShazSiddiq/Employee-Engagement-System/internal/models"
	"github.com/ShazSiddiq/Employee-Engagement-System/internal/repository"
)

const taskColumns = `id,
				project_id,
				title,
				description,
				assignee_id,
				deadline,
				stage,
				position,
				remark,
				extension_requested,
				extension_text,
				deleted,
				deleted_at,
				created_at,
				updated_at,
				version`

func scanTask(row pgx.Row) (*models.Task, error) {
	task := &models.Task{}
	err := row.Scan(
		&task.ID,
		&task.ProjectID,
		&task.Title,
		&task.Description,
		&task.AssigneeID,
		&task.Deadline,
		&task.Stage,
		&task.Order,
		&task.Remark,
		&task.Extension.Requested,
		&task.Extension.Text,
		&task.Deleted,
		&task.DeletedAt,
		&task.CreatedAt,
		&task.UpdatedAt,
		&task.Version,
	)
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *Store) CreateProject(ctx context.Context, project *models.Project) error {
	start := time.Now()

	query := `INSERT INTO projects
				(id, title, description, deadline, created_at)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING created_at`

	err := s.pool.QueryRow(ctx, query,
		project.ID,
		project.Title,
		project.Description,
		project.Deadline,
		project.CreatedAt,
	).Scan(&project.CreatedAt)

	if err != nil {
		logger.Error("Repository: Не удалось добавить проект", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление проекта: %w", err)
	}
	return nil
}

func (s *Store) GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	query := `SELECT id, title, description, deadline, deleted, deleted_at, created_at
				FROM projects
				WHERE id = $1`

	project := &models.Project{}
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&project.ID,
		&project.Title,
		&project.Description,
		&project.Deadline,
		&project.Deleted,
		&project.DeletedAt,
		&project.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить проект", err)
		return nil, fmt.Errorf("получение проекта: %w", err)
	}
	return project, nil
}

func (s *Store) ListProjects(ctx context.Context) ([]*models.Project, error) {
	query := `SELECT id, title, description, deadline, deleted, deleted_at, created_at
				FROM projects
				ORDER BY created_at`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		logger.Error("Repository: Не удалось получить проекты", err)
		return nil, fmt.Errorf("получение проектов: %w", err)
	}
	defer rows.Close()

	projects := []*models.Project{}
	for rows.Next() {
		project := &models.Project{}
		err := rows.Scan(
			&project.ID,
			&project.Title,
			&project.Description,
			&project.Deadline,
			&project.Deleted,
			&project.DeletedAt,
			&project.CreatedAt,
		)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования проекта", zap.Error(err))
			continue
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}
	return projects, nil
}

// CreateTask вставляет задачу и первый интервал журнала одной транзакцией:
// задачи без журнала существовать не должно
func (s *Store) CreateTask(ctx context.Context, task *models.Task, firstEntry *models.TimelogEntry) error {
	start := time.Now()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("открытие транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	taskQuery := `INSERT INTO tasks
				(id, project_id, title, description, assignee_id, deadline, stage, position, created_at, version)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 1)
				RETURNING created_at`

	err = tx.QueryRow(ctx, taskQuery,
		task.ID,
		task.ProjectID,
		task.Title,
		task.Description,
		task.AssigneeID,
		task.Deadline,
		task.Stage,
		task.Order,
		task.CreatedAt,
	).Scan(&task.CreatedAt)
	if err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление задачи: %w", err)
	}

	entryQuery := `INSERT INTO timelogs
				(id, task_id, project_id, stage, start_time)
				VALUES ($1, $2, $3, $4, $5)`

	_, err = tx.Exec(ctx, entryQuery,
		firstEntry.ID,
		firstEntry.TaskID,
		firstEntry.ProjectID,
		firstEntry.Stage,
		firstEntry.StartTime,
	)
	if err != nil {
		logger.Error("Repository: Не удалось открыть первый интервал", err)
		return fmt.Errorf("открытие первого интервала: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("фиксация транзакции: %w", err)
	}

	if time.Since(start) > time.Millisecond*50 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (s *Store) GetTask(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err)
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return task, nil
}

func (s *Store) listTasks(ctx context.Context, query string, args ...any) ([]*models.Task, error) {
	start := time.Now()

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	defer rows.Close()

	tasks := []*models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования задачи", zap.Error(err))
			continue
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}
	return tasks, nil
}

func (s *Store) ListTasks(ctx context.Context) ([]*models.Task, error) {
	return s.listTasks(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY created_at`)
}

func (s *Store) ListProjectTasks(ctx context.Context, projectID uuid.UUID) ([]*models.Task, error) {
	return s.listTasks(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE project_id = $1 ORDER BY stage, position`,
		projectID)
}

func (s *Store) ListUserTasks(ctx context.Context, userID uuid.UUID) ([]*models.Task, error) {
	return s.listTasks(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE assignee_id = $1 ORDER BY created_at`,
		userID)
}

func (s *Store) ListUserProjectTasks(ctx context.Context, projectID, userID uuid.UUID) ([]*models.Task, error) {
	return s.listTasks(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE project_id = $1 AND assignee_id = $2 ORDER BY created_at`,
		projectID, userID)
}

func (s *Store) ListExpiring(ctx context.Context, now time.Time, limit int) ([]*models.Task, error) {
	return s.listTasks(ctx,
		`SELECT `+taskColumns+` FROM tasks
			WHERE NOT deleted
				AND stage NOT IN ($1, $2)
				AND NOT extension_requested
				AND deadline < $3
			ORDER BY deadline
			LIMIT $4`,
		models.StageDone, models.StageArchive, now, limit)
}

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// resolveCASMiss разбирает пустой результат version-guarded UPDATE:
// задачи либо нет вовсе, либо её версия устарела
func resolveCASMiss(ctx context.Context, q rowQuerier, task *models.Task) error {
	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM tasks WHERE id = $1)`, task.ID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("проверка существования задачи: %w", err)
	}
	if !exists {
		return repository.ErrNotFound
	}

	logger.Warn("Repository: Конфликт версий",
		zap.String("task_id", task.ID.String()),
		zap.Int("expected_version", task.Version))
	return repository.ErrVersionConflict
}

// casUpdateTask переписывает изменяемые поля задачи с проверкой version
func casUpdateTask(ctx context.Context, q rowQuerier, task *models.Task) error {
	query := `UPDATE tasks
			SET title = $1,
				description = $2,
				deadline = $3,
				position = $4,
				remark = $5,
				extension_requested = $6,
				extension_text = $7,
				deleted = $8,
				deleted_at = $9,
				version = version + 1,
				updated_at = NOW()
			WHERE id = $10 AND version = $11
			RETURNING updated_at, version`

	err := q.QueryRow(ctx, query,
		task.Title,
		task.Description,
		task.Deadline,
		task.Order,
		task.Remark,
		task.Extension.Requested,
		task.Extension.Text,
		task.Deleted,
		task.DeletedAt,
		task.ID,
		task.Version,
	).Scan(&task.UpdatedAt, &task.Version)

	if err != nil {
		if err == pgx.ErrNoRows {
			return resolveCASMiss(ctx, q, task)
		}
		logger.Error("Repository: Не удалось обновить задачу", err)
		return fmt.Errorf("обновление задачи: %w", err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, task *models.Task) error {
	start := time.Now()

	if err := casUpdateTask(ctx, s.pool, task); err != nil {
		return err
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

// ResolveExtension - CAS-запись задачи и строка журнала продлений в одной
// транзакции: решения по продлению без следа в журнале быть не может
func (s *Store) ResolveExtension(ctx context.Context, task *models.Task, entry *models.ExtensionLogEntry) error {
	start := time.Now()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("открытие транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := casUpdateTask(ctx, tx, task); err != nil {
		return err
	}

	logQuery := `INSERT INTO extension_logs
			(id, task_id, previous_deadline, new_deadline, resolution, granted_at)
			VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = tx.Exec(ctx, logQuery,
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

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("фиксация транзакции: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

// UpdateOrder - дешёвая запись позиции, version намеренно не трогается
func (s *Store) UpdateOrder(ctx context.Context, taskID uuid.UUID, position int) error {
	query := `UPDATE tasks
			SET position = $1,
				updated_at = NOW()
			WHERE id = $2
			RETURNING id`

	var id uuid.UUID
	if err := s.pool.QueryRow(ctx, query, position, taskID).Scan(&id); err != nil {
		if err == pgx.ErrNoRows {
			return repository.ErrNotFound
		}
		logger.Error("Repository: Не удалось переставить задачу", err)
		return fmt.Errorf("перестановка задачи: %w", err)
	}
	return nil
}

// ApplyTransition - атомарная единица смены этапа: CAS по version,
// закрытие открытого интервала, вставка нового и, для паузы, запись
// ремарки в одной транзакции
func (s *Store) ApplyTransition(ctx context.Context, task *models.Task, closedAt time.Time, opened *models.TimelogEntry, remark *models.RemarkLogEntry) error {
	start := time.Now()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("открытие транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	casQuery := `UPDATE tasks
			SET stage = $1,
				remark = $2,
				version = version + 1,
				updated_at = NOW()
			WHERE id = $3 AND version = $4
			RETURNING updated_at, version`

	err = tx.QueryRow(ctx, casQuery,
		task.Stage,
		task.Remark,
		task.ID,
		task.Version,
	).Scan(&task.UpdatedAt, &task.Version)
	if err != nil {
		if err == pgx.ErrNoRows {
			return resolveCASMiss(ctx, tx, task)
		}
		logger.Error("Repository: Не удалось обновить этап", err)
		return fmt.Errorf("обновление этапа: %w", err)
	}

	closeQuery := `UPDATE timelogs
			SET end_time = $1
			WHERE task_id = $2 AND end_time IS NULL`

	if _, err := tx.Exec(ctx, closeQuery, closedAt, task.ID); err != nil {
		logger.Error("Repository: Не удалось закрыть интервал", err)
		return fmt.Errorf("закрытие интервала: %w", err)
	}

	openQuery := `INSERT INTO timelogs
			(id, task_id, project_id, stage, start_time)
			VALUES ($1, $2, $3, $4, $5)`

	_, err = tx.Exec(ctx, openQuery,
		opened.ID,
		opened.TaskID,
		opened.ProjectID,
		opened.Stage,
		opened.StartTime,
	)
	if err != nil {
		logger.Error("Repository: Не удалось открыть интервал", err)
		return fmt.Errorf("открытие интервала: %w", err)
	}

	if remark != nil {
		remarkQuery := `INSERT INTO remark_logs
				(id, user_id, task_id, project_id, remark, created_at)
				VALUES ($1, $2, $3, $4, $5, $6)`

		_, err = tx.Exec(ctx, remarkQuery,
			remark.ID,
			remark.UserID,
			remark.TaskID,
			remark.ProjectID,
			remark.Remark,
			remark.CreatedAt,
		)
		if err != nil {
			logger.Error("Repository: Не удалось записать ремарку", err)
			return fmt.Errorf("запись ремарки: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("фиксация транзакции: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return nil
}
