package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ShazSiddiq/Employee-Engagement-System/internal/logger"
	"github.com/ShazSiddiq/Employee-Engagement-System/internal/models"
	"github.com/ShazSiddiq/Employee-Engagement-System/internal/repository"
)

// Store - хранилище доски в памяти для разработки и тестов.
// Семантика version и единственного открытого интервала та же,
// что у postgres-реализации, иначе сервис ведёт себя по-разному
type Store struct {
	mtx sync.RWMutex

	projects  map[uuid.UUID]*models.Project
	tasks     map[uuid.UUID]*models.Task
	taskOrder []uuid.UUID

	timelogs      map[uuid.UUID][]*models.TimelogEntry
	remarkLogs    []*models.RemarkLogEntry
	extensionLogs []*models.ExtensionLogEntry
}

func NewStore() *Store {
	return &Store{
		projects: make(map[uuid.UUID]*models.Project),
		tasks:    make(map[uuid.UUID]*models.Task),
		timelogs: make(map[uuid.UUID][]*models.TimelogEntry),
	}
}

func (s *Store) HealthCheck(ctx context.Context) error {
	logger.Info("Repository: Соединение стабильно")
	return nil
}

// наружу всегда уходят копии: вызывающий держит снапшот,
// а не указатель внутрь хранилища
func cloneTask(t *models.Task) *models.Task {
	c := *t
	return &c
}

func cloneEntry(e *models.TimelogEntry) *models.TimelogEntry {
	c := *e
	if e.EndTime != nil {
		end := *e.EndTime
		c.EndTime = &end
	}
	return &c
}

func (s *Store) CreateProject(ctx context.Context, project *models.Project) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	c := *project
	s.projects[project.ID] = &c
	return nil
}

func (s *Store) GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	project, ok := s.projects[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *project
	return &c, nil
}

func (s *Store) ListProjects(ctx context.Context) ([]*models.Project, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*models.Project{}
	for _, project := range s.projects {
		c := *project
		res = append(res, &c)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.Before(res[j].CreatedAt) })
	return res, nil
}

func (s *Store) CreateTask(ctx context.Context, task *models.Task, firstEntry *models.TimelogEntry) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.projects[task.ProjectID]; !ok {
		return repository.ErrNotFound
	}

	s.tasks[task.ID] = cloneTask(task)
	s.taskOrder = append(s.taskOrder, task.ID)
	s.timelogs[task.ID] = append(s.timelogs[task.ID], cloneEntry(firstEntry))
	return nil
}

func (s *Store) GetTask(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneTask(task), nil
}

func (s *Store) ListTasks(ctx context.Context) ([]*models.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*models.Task{}
	for _, id := range s.taskOrder {
		res = append(res, cloneTask(s.tasks[id]))
	}
	return res, nil
}

func (s *Store) ListProjectTasks(ctx context.Context, projectID uuid.UUID) ([]*models.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*models.Task{}
	for _, id := range s.taskOrder {
		task := s.tasks[id]
		if task.ProjectID == projectID {
			res = append(res, cloneTask(task))
		}
	}
	return res, nil
}

func (s *Store) ListUserTasks(ctx context.Context, userID uuid.UUID) ([]*models.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*models.Task{}
	for _, id := range s.taskOrder {
		task := s.tasks[id]
		if task.AssigneeID == userID {
			res = append(res, cloneTask(task))
		}
	}
	return res, nil
}

func (s *Store) ListUserProjectTasks(ctx context.Context, projectID, userID uuid.UUID) ([]*models.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*models.Task{}
	for _, id := range s.taskOrder {
		task := s.tasks[id]
		if task.ProjectID == projectID && task.AssigneeID == userID {
			res = append(res, cloneTask(task))
		}
	}
	return res, nil
}

func (s *Store) Update(ctx context.Context, task *models.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existing, ok := s.tasks[task.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if existing.Version != task.Version {
		return repository.ErrVersionConflict
	}

	now := time.Now()
	task.Version++
	task.UpdatedAt = &now
	s.tasks[task.ID] = cloneTask(task)
	return nil
}

func (s *Store) UpdateOrder(ctx context.Context, taskID uuid.UUID, position int) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	task, ok := s.tasks[taskID]
	if !ok {
		return repository.ErrNotFound
	}

	// позиция - чисто оформительское поле, version не участвует
	now := time.Now()
	task.Order = position
	task.UpdatedAt = &now
	return nil
}

func (s *Store) ApplyTransition(ctx context.Context, task *models.Task, closedAt time.Time, opened *models.TimelogEntry, remark *models.RemarkLogEntry) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existing, ok := s.tasks[task.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if existing.Version != task.Version {
		return repository.ErrVersionConflict
	}

	for _, entry := range s.timelogs[task.ID] {
		if entry.EndTime == nil {
			end := closedAt
			entry.EndTime = &end
			break
		}
	}

	s.timelogs[task.ID] = append(s.timelogs[task.ID], cloneEntry(opened))

	// ремарка под тем же замком: переход и его след неразделимы
	if remark != nil {
		c := *remark
		s.remarkLogs = append(s.remarkLogs, &c)
	}

	now := time.Now()
	task.Version++
	task.UpdatedAt = &now
	s.tasks[task.ID] = cloneTask(task)
	return nil
}

// ResolveExtension - CAS-запись задачи вместе со строкой журнала
// продлений, той же семантики, что и транзакция в postgres
func (s *Store) ResolveExtension(ctx context.Context, task *models.Task, entry *models.ExtensionLogEntry) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existing, ok := s.tasks[task.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if existing.Version != task.Version {
		return repository.ErrVersionConflict
	}

	c := *entry
	s.extensionLogs = append(s.extensionLogs, &c)

	now := time.Now()
	task.Version++
	task.UpdatedAt = &now
	s.tasks[task.ID] = cloneTask(task)
	return nil
}

func (s *Store) ListExpiring(ctx context.Context, now time.Time, limit int) ([]*models.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*models.Task{}
	for _, id := range s.taskOrder {
		if len(res) >= limit {
			break
		}
		task := s.tasks[id]
		if task.Deleted || task.Stage.Terminal() || task.Extension.Requested {
			continue
		}
		if task.Deadline.Before(now) {
			res = append(res, cloneTask(task))
		}
	}
	return res, nil
}
