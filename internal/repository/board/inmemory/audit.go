package inmemory

import (
	"context"

	"github.com/google/uuid"

	"github.com/ShazSiddiq/Employee-Engagement-System/internal/models"
)

func (s *Store) AppendRemarkLog(ctx context.Context, entry *models.RemarkLogEntry) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	c := *entry
	s.remarkLogs = append(s.remarkLogs, &c)
	return nil
}

func (s *Store) AppendExtensionLog(ctx context.Context, entry *models.ExtensionLogEntry) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	c := *entry
	s.extensionLogs = append(s.extensionLogs, &c)
	return nil
}

func (s *Store) ListRemarkLogs(ctx context.Context, taskID uuid.UUID) ([]*models.RemarkLogEntry, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*models.RemarkLogEntry{}
	for _, entry := range s.remarkLogs {
		if entry.TaskID == taskID {
			c := *entry
			res = append(res, &c)
		}
	}
	return res, nil
}

func (s *Store) ListExtensionLogs(ctx context.Context, taskID uuid.UUID) ([]*models.ExtensionLogEntry, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*models.ExtensionLogEntry{}
	for _, entry := range s.extensionLogs {
		if entry.TaskID == taskID {
			c := *entry
			res = append(res, &c)
		}
	}
	return res, nil
}
