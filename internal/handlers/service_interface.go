package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ShazSiddiq/Employee-Engagement-System/internal/models"
	"github.com/ShazSiddiq/Employee-Engagement-System/internal/service"
)

type BoardService interface {
	HealthCheck(ctx context.Context) error
	CreateProject(ctx context.Context, title, description string, deadline time.Time) (*models.Project, error)
	GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error)
	CreateTask(ctx context.Context, projectID uuid.UUID, title, description string, assigneeID uuid.UUID, deadline time.Time, order int) (*models.Task, error)
	GetTask(ctx context.Context, id uuid.UUID) (*models.Task, error)
	MoveTask(ctx context.Context, taskID uuid.UUID, target models.Stage, opts service.MoveOptions) (*models.Task, error)
	UpdateTaskMeta(ctx context.Context, taskID uuid.UUID, title, description string) (*models.Task, error)
	SoftDeleteTask(ctx context.Context, taskID uuid.UUID) (*models.Task, error)
	BulkBoardUpdate(ctx context.Context, projectID uuid.UUID, columns []service.BoardColumn) ([]service.MoveResult, error)
	RequestExtension(ctx context.Context, taskID uuid.UUID, text string) (*models.Task, error)
	GrantExtension(ctx context.Context, taskID uuid.UUID, newDeadline time.Time) (*models.Task, error)
	DenyExtension(ctx context.Context, taskID uuid.UUID) (*models.Task, error)
}

type ReportService interface {
	TaskTimelogs(ctx context.Context, taskID uuid.UUID) ([]*models.TimelogEntry, error)
	UserData(ctx context.Context) ([]service.UserReport, error)
	ProjectHistory(ctx context.Context, projectID, userID uuid.UUID) (*service.ProjectReport, error)
	ProjectsHistory(ctx context.Context, userID uuid.UUID) ([]service.ProjectReport, error)
	TaskAudit(ctx context.Context, taskID uuid.UUID) ([]*models.RemarkLogEntry, []*models.ExtensionLogEntry, error)
}
