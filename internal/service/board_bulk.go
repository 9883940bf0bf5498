package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ShazSiddiq/Employee-Engagement-System/internal/logger"
	"github.com/ShazSiddiq/Employee-Engagement-System/internal/models"
)

// BoardColumn - одна колонка доски при массовом обновлении
type BoardColumn struct {
	Stage models.Stage
	Items []BoardItem
}

// BoardItem - задача в колонке после перетаскивания
type BoardItem struct {
	TaskID    uuid.UUID
	Order     int
	Remark    string
	Confirmed bool
}

// MoveResult - исход по одной задаче массового обновления
type MoveResult struct {
	TaskID  uuid.UUID `json:"task_id"`
	OK      bool      `json:"ok"`
	Code    string    `json:"code,omitempty"`
	Message string    `json:"message,omitempty"`
}

// BulkBoardUpdate применяет перетаскивание колонок. Каждая задача -
// независимая атомарная операция: частичный отказ не откатывает
// остальных, результат отдаётся по каждой задаче отдельно
func (s *BoardService) BulkBoardUpdate(ctx context.Context, projectID uuid.UUID, columns []BoardColumn) ([]MoveResult, error) {
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return nil, err
	}

	results := []MoveResult{}
	for _, column := range columns {
		for _, item := range column.Items {
			results = append(results, s.applyBoardItem(ctx, projectID, column.Stage, item))
		}
	}

	return results, nil
}

func (s *BoardService) applyBoardItem(ctx context.Context, projectID uuid.UUID, target models.Stage, item BoardItem) MoveResult {
	task, err := s.GetTask(ctx, item.TaskID)
	if err != nil {
		return toMoveResult(item.TaskID, err)
	}
	if task.ProjectID != projectID {
		return toMoveResult(item.TaskID, NewNotFound("задача", item.TaskID.String()))
	}

	if task.Stage != target {
		_, err = s.MoveTask(ctx, item.TaskID, target, MoveOptions{
			Remark:    item.Remark,
			Confirmed: item.Confirmed,
		})
		if err != nil {
			return toMoveResult(item.TaskID, err)
		}
	}

	if err := s.Reorder(ctx, item.TaskID, item.Order); err != nil {
		return toMoveResult(item.TaskID, err)
	}

	return MoveResult{TaskID: item.TaskID, OK: true}
}

func toMoveResult(taskID uuid.UUID, err error) MoveResult {
	var busErr *BusinessError
	if errors.As(err, &busErr) {
		return MoveResult{
			TaskID:  taskID,
			Code:    busErr.Code,
			Message: busErr.Message,
		}
	}

	logger.Error("Service: Ошибка массового обновления", err, zap.String("task_id", taskID.String()))
	return MoveResult{
		TaskID:  taskID,
		Code:    "INTERNAL",
		Message: err.Error(),
	}
}
