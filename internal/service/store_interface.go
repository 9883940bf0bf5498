package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ShazSiddiq/Employee-Engagement-System/internal/models"
)

type TaskStore interface {
	CreateProject(context.Context, *models.Project) error
	GetProject(context.Context, uuid.UUID) (*models.Project, error)
	ListProjects(context.Context) ([]*models.Project, error)

	// CreateTask записывает задачу вместе с её первым интервалом журнала
	// одной атомарной операцией
	CreateTask(context.Context, *models.Task, *models.TimelogEntry) error
	GetTask(context.Context, uuid.UUID) (*models.Task, error)
	ListTasks(context.Context) ([]*models.Task, error)
	ListProjectTasks(context.Context, uuid.UUID) ([]*models.Task, error)
	ListUserTasks(context.Context, uuid.UUID) ([]*models.Task, error)
	ListUserProjectTasks(ctx context.Context, projectID, userID uuid.UUID) ([]*models.Task, error)

	// Update - CAS-запись всех изменяемых полей, кроме перехода этапа
	Update(context.Context, *models.Task) error

	// UpdateOrder - дешёвый путь для перестановки внутри колонки:
	// журнал и version не трогаются
	UpdateOrder(ctx context.Context, taskID uuid.UUID, position int) error

	// ApplyTransition атомарно: CAS-обновление этапа задачи, закрытие
	// открытого интервала и вставка нового. После неё у задачи ровно
	// один открытый интервал. Непустая remark входит в ту же единицу:
	// пауза без ремарки в журнале невозможна
	ApplyTransition(ctx context.Context, task *models.Task, closedAt time.Time, opened *models.TimelogEntry, remark *models.RemarkLogEntry) error

	// ResolveExtension - CAS-запись задачи вместе со строкой журнала
	// продлений: решение и его след фиксируются атомарно
	ResolveExtension(ctx context.Context, task *models.Task, entry *models.ExtensionLogEntry) error

	// ListExpiring - живые задачи с прошедшим дедлайном без запроса на продление
	ListExpiring(ctx context.Context, now time.Time, limit int) ([]*models.Task, error)
}

type TimelogStore interface {
	OpenInterval(context.Context, *models.TimelogEntry) error
	CloseOpenInterval(ctx context.Context, taskID uuid.UUID, closedAt time.Time) (*models.TimelogEntry, error)
	History(ctx context.Context, taskID uuid.UUID) ([]*models.TimelogEntry, error)
	HistoryForTasks(ctx context.Context, taskIDs []uuid.UUID) (map[uuid.UUID][]*models.TimelogEntry, error)
}

type AuditStore interface {
	AppendRemarkLog(context.Context, *models.RemarkLogEntry) error
	AppendExtensionLog(context.Context, *models.ExtensionLogEntry) error
	ListRemarkLogs(ctx context.Context, taskID uuid.UUID) ([]*models.RemarkLogEntry, error)
	ListExtensionLogs(ctx context.Context, taskID uuid.UUID) ([]*models.ExtensionLogEntry, error)
}

// Store - полный набор хранилищ; реализации (postgres, inmemory)
// закрывают его целиком
type Store interface {
	TaskStore
	TimelogStore
	AuditStore
	HealthCheck(context.Context) error
}
