package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ShazSiddiq/Employee-Engagement-System/internal/calendar"
	"github.com/ShazSiddiq/Employee-Engagement-System/internal/config"
	"github.com/ShazSiddiq/Employee-Engagement-System/internal/handlers"
	"github.com/ShazSiddiq/Employee-Engagement-System/internal/logger"
	"github.com/ShazSiddiq/Employee-Engagement-System/internal/repository/board/inmemory"
	"github.com/ShazSiddiq/Employee-Engagement-System/internal/repository/board/postgres"
	"github.com/ShazSiddiq/Employee-Engagement-System/internal/service"
	"github.com/ShazSiddiq/Employee-Engagement-System/internal/worker"
)

type App struct {
	config    *config.Config
	server    *http.Server
	store     service.Store
	worker    *worker.DeadlineWorker
	shutdowns []func() // функции для graceful shutdown
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("инициализация логгера: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	cal, err := a.buildCalendar()
	if err != nil {
		return fmt.Errorf("рабочий календарь: %w", err)
	}

	if err := a.initStore(ctx); err != nil {
		return err
	}

	boardService := service.NewBoardService(a.store)
	reportService := service.NewReportService(a.store, cal)

	boardHandler := handlers.NewBoardHandler(boardService, reportService)
	router := handlers.NewRouter(&boardHandler)

	a.server = &http.Server{
		Addr:         a.config.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	a.worker = worker.NewDeadlineWorker(a.store, a.config.Worker.Interval.Std(), a.config.Worker.BatchSize)

	return nil
}

func (a *App) buildCalendar() (calendar.Calendar, error) {
	if len(a.config.Calendar) == 0 {
		logger.Info("Календарь не задан в конфиге, используется расписание по умолчанию")
		return calendar.Default(), nil
	}

	windows := make(map[string]calendar.Window, len(a.config.Calendar))
	for day, hw := range a.config.Calendar {
		windows[day] = calendar.Window{StartHour: hw.Start, EndHour: hw.End}
	}
	return calendar.New(windows)
}

func (a *App) initStore(ctx context.Context) error {
	switch a.config.Repository.Type {
	case "postgres":
		store, err := postgres.New(ctx, a.config.Database.URL, postgres.Options{
			MaxConns:    a.config.Database.MaxConnections,
			MinConns:    a.config.Database.MinConnections,
			IdleTimeout: a.config.Database.IdleTimeout.Std(),
		})
		if err != nil {
			return fmt.Errorf("подключение к postgres: %w", err)
		}
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return fmt.Errorf("миграции: %w", err)
		}
		a.store = store
		a.shutdowns = append(a.shutdowns, func() {
			logger.Info("Закрытие пула соединений с базой...")
			store.Close()
		})
		logger.Info("Хранилище: postgres")
	case "inmemory", "":
		a.store = inmemory.NewStore()
		logger.Info("Хранилище: inmemory")
	default:
		return fmt.Errorf("неизвестный тип хранилища: %s", a.config.Repository.Type)
	}
	return nil
}

// Run блокируется до отмены ctx, затем гасит сервер и фоновые задачи
func (a *App) Run(ctx context.Context) error {
	workerCtx, cancelWorker := context.WithCancel(ctx)
	go a.worker.Start(workerCtx)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Сервер запущен", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		cancelWorker()
		return fmt.Errorf("http сервер: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Получен сигнал остановки, завершаем работу...")
	cancelWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ошибка остановки сервера", err)
	}

	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
	return nil
}
