package inmemory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ShazSiddiq/Employee-Engagement-System/internal/models"
	"github.com/ShazSiddiq/Employee-Engagement-System/internal/repository"
)

func (s *Store) OpenInterval(ctx context.Context, entry *models.TimelogEntry) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for _, existing := range s.timelogs[entry.TaskID] {
		if existing.EndTime == nil {
			return repository.ErrOpenInterval
		}
	}

	s.timelogs[entry.TaskID] = append(s.timelogs[entry.TaskID], cloneEntry(entry))
	return nil
}

// CloseOpenInterval закрывает единственный открытый интервал задачи.
// Повторный вызов находит нечего закрывать и возвращает ErrNotFound
func (s *Store) CloseOpenInterval(ctx context.Context, taskID uuid.UUID, closedAt time.Time) (*models.TimelogEntry, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for _, entry := range s.timelogs[taskID] {
		if entry.EndTime == nil {
			end := closedAt
			entry.EndTime = &end
			return cloneEntry(entry), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) History(ctx context.Context, taskID uuid.UUID) ([]*models.TimelogEntry, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return s.historyLocked(taskID), nil
}

func (s *Store) HistoryForTasks(ctx context.Context, taskIDs []uuid.UUID) (map[uuid.UUID][]*models.TimelogEntry, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make(map[uuid.UUID][]*models.TimelogEntry, len(taskIDs))
	for _, id := range taskIDs {
		res[id] = s.historyLocked(id)
	}
	return res, nil
}

func (s *Store) historyLocked(taskID uuid.UUID) []*models.TimelogEntry {
	entries := s.timelogs[taskID]
	res := make([]*models.TimelogEntry, 0, len(entries))
	for _, entry := range entries {
		res = append(res, cloneEntry(entry))
	}
	sort.Slice(res, func(i, j int) bool { return res[i].StartTime.Before(res[j].StartTime) })
	return res
}
