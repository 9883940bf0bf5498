package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ShazSiddiq/Employee-Engagement-System/internal/calendar"
	"github.com/ShazSiddiq/Employee-Engagement-System/internal/models"
	"github.com/ShazSiddiq/Employee-Engagement-System/internal/repository"
	"github.com/ShazSiddiq/Employee-Engagement-System/internal/worktime"
)

// отчёты: история по пользователю, по проекту, сырой журнал задачи.
// Всё только чтение, открытый интервал живой задачи считается до "сейчас",
// поэтому эти ручки можно дёргать опросом без блокировок

type ReportService struct {
	store Store
	cal   calendar.Calendar

	Now func() time.Time
}

func NewReportService(store Store, cal calendar.Calendar) *ReportService {
	return &ReportService{
		store: store,
		cal:   cal,
		Now:   time.Now,
	}
}

type TaskReport struct {
	Task           *models.Task           `json:"task"`
	Timelogs       []*models.TimelogEntry `json:"timelogs"`
	TimeSpent      time.Duration          `json:"time_spent_ms"`
	TimeSpentHuman string                 `json:"time_spent"`
}

type UserReport struct {
	UserID uuid.UUID    `json:"user_id"`
	Tasks  []TaskReport `json:"tasks"`
}

type ProjectReport struct {
	Project *models.Project `json:"project"`
	Tasks   []TaskReport    `json:"tasks"`
}

// TaskTimelogs - сырой журнал задачи, старые записи первыми
func (s *ReportService) TaskTimelogs(ctx context.Context, taskID uuid.UUID) ([]*models.TimelogEntry, error) {
	if _, err := s.store.GetTask(ctx, taskID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFound("задача", taskID.String())
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	history, err := s.store.History(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("чтение журнала: %w", err)
	}
	return history, nil
}

// UserData - сводка по всем пользователям для панели администратора
func (s *ReportService) UserData(ctx context.Context) ([]UserReport, error) {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}

	byUser := map[uuid.UUID][]*models.Task{}
	order := []uuid.UUID{}
	for _, task := range tasks {
		if task.Deleted {
			continue
		}
		if _, seen := byUser[task.AssigneeID]; !seen {
			order = append(order, task.AssigneeID)
		}
		byUser[task.AssigneeID] = append(byUser[task.AssigneeID], task)
	}

	reports := []UserReport{}
	for _, userID := range order {
		taskReports, err := s.buildTaskReports(ctx, byUser[userID])
		if err != nil {
			return nil, err
		}
		reports = append(reports, UserReport{UserID: userID, Tasks: taskReports})
	}

	return reports, nil
}

// ProjectHistory - задачи одного пользователя внутри одного проекта
func (s *ReportService) ProjectHistory(ctx context.Context, projectID, userID uuid.UUID) (*ProjectReport, error) {
	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFound("проект", projectID.String())
		}
		return nil, fmt.Errorf("получение проекта: %w", err)
	}

	tasks, err := s.store.ListUserProjectTasks(ctx, projectID, userID)
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}

	taskReports, err := s.buildTaskReports(ctx, liveOnly(tasks))
	if err != nil {
		return nil, err
	}

	return &ProjectReport{Project: project, Tasks: taskReports}, nil
}

// ProjectsHistory - вся история пользователя, сгруппированная по проектам
func (s *ReportService) ProjectsHistory(ctx context.Context, userID uuid.UUID) ([]ProjectReport, error) {
	tasks, err := s.store.ListUserTasks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}

	byProject := map[uuid.UUID][]*models.Task{}
	order := []uuid.UUID{}
	for _, task := range liveOnly(tasks) {
		if _, seen := byProject[task.ProjectID]; !seen {
			order = append(order, task.ProjectID)
		}
		byProject[task.ProjectID] = append(byProject[task.ProjectID], task)
	}

	reports := []ProjectReport{}
	for _, projectID := range order {
		project, err := s.store.GetProject(ctx, projectID)
		if err != nil {
			return nil, fmt.Errorf("получение проекта: %w", err)
		}

		taskReports, err := s.buildTaskReports(ctx, byProject[projectID])
		if err != nil {
			return nil, err
		}
		reports = append(reports, ProjectReport{Project: project, Tasks: taskReports})
	}

	return reports, nil
}

// TaskAudit - журналы ремарок и продлений для карточки администратора
func (s *ReportService) TaskAudit(ctx context.Context, taskID uuid.UUID) ([]*models.RemarkLogEntry, []*models.ExtensionLogEntry, error) {
	remarks, err := s.store.ListRemarkLogs(ctx, taskID)
	if err != nil {
		return nil, nil, fmt.Errorf("чтение журнала ремарок: %w", err)
	}
	extensions, err := s.store.ListExtensionLogs(ctx, taskID)
	if err != nil {
		return nil, nil, fmt.Errorf("чтение журнала продлений: %w", err)
	}
	return remarks, extensions, nil
}

func (s *ReportService) buildTaskReports(ctx context.Context, tasks []*models.Task) ([]TaskReport, error) {
	ids := make([]uuid.UUID, 0, len(tasks))
	for _, task := range tasks {
		ids = append(ids, task.ID)
	}

	histories, err := s.store.HistoryForTasks(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("чтение журналов: %w", err)
	}

	now := s.Now()
	reports := make([]TaskReport, 0, len(tasks))
	for _, task := range tasks {
		entries := histories[task.ID]
		spent := worktime.SpentOn(s.cal, entries, task.Stage, now)
		reports = append(reports, TaskReport{
			Task:           task,
			Timelogs:       entries,
			TimeSpent:      spent,
			TimeSpentHuman: worktime.Format(spent),
		})
	}
	return reports, nil
}

func liveOnly(tasks []*models.Task) []*models.Task {
	res := make([]*models.Task, 0, len(tasks))
	for _, task := range tasks {
		if !task.Deleted {
			res = append(res, task)
		}
	}
	return res
}
