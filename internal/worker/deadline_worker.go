package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ShazSiddiq/Employee-Engagement-System/internal/logger"
	"github.com/ShazSiddiq/Employee-Engagement-System/internal/models"
)

type ExpiringLister interface {
	ListExpiring(ctx context.Context, now time.Time, limit int) ([]*models.Task, error)
}

// DeadlineWorker периодически находит просроченные живые задачи без
// поданной заявки на продление и пишет их в лог. Этап задачи при этом
// не меняется: просроченность вычисляется по дедлайну, а не хранится
type DeadlineWorker struct {
	store     ExpiringLister
	interval  time.Duration
	batchSize int
}

func NewDeadlineWorker(store ExpiringLister, interval time.Duration, batchSize int) *DeadlineWorker {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return &DeadlineWorker{
		store:     store,
		interval:  interval,
		batchSize: batchSize,
	}
}

func (w *DeadlineWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			logger.Info("Worker: Фоновая проверка задач на просроченность", zap.Time("started_at", time.Now()))
			w.Check(ctx)
		case <-ctx.Done():
			logger.Info("Worker: Фоновая проверка останавливается")
			return
		}
	}
}

func (w *DeadlineWorker) Check(ctx context.Context) {
	start := time.Now()
	now := time.Now()

	tasks, err := w.store.ListExpiring(ctx, now, w.batchSize)
	if err != nil {
		logger.Warn("Worker: ошибка получения задач", zap.Error(err))
		return
	}

	for _, t := range tasks {
		logger.Warn("Worker: Задача просрочена",
			zap.String("task_id", t.ID.String()),
			zap.String("project_id", t.ProjectID.String()),
			zap.String("stage", string(t.Stage)),
			zap.Time("deadline", t.Deadline),
			zap.Duration("overdue", now.Sub(t.Deadline)),
		)
	}

	logger.Info("Worker: Завершение проверки задач",
		zap.Duration("ms", time.Since(start)),
		zap.Int("expired", len(tasks)),
	)
}
