package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ShazSiddiq/Employee-Engagement-System/internal/logger"
	"github.com/ShazSiddiq/Employee-Engagement-System/internal/models"
	"github.com/ShazSiddiq/Employee-Engagement-System/internal/service"
)

type BoardHandler struct {
	Board   BoardService
	Reports ReportService
}

func NewBoardHandler(board BoardService, reports ReportService) BoardHandler {
	return BoardHandler{
		Board:   board,
		Reports: reports,
	}
}

func parseUUIDParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	idParam := chi.URLParam(r, name)
	id, err := uuid.Parse(idParam)
	if err != nil {
		logger.Warn("HTTP: Не удалось получить "+name,
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "не удалось получить "+name+": "+err.Error())
		return uuid.Nil, false
	}
	if id == uuid.Nil {
		responseWithError(w, http.StatusBadRequest, name+" не может быть пустым")
		return uuid.Nil, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return false
	}
	return true
}

func (h *BoardHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")

	if err := h.Board.HealthCheck(r.Context()); err != nil {
		responseWithJSON(w, http.StatusServiceUnavailable, toPayload("status", "unhealthy"))
		return
	}
	responseWithJSON(w, http.StatusOK, toPayload("status", "ok"))
}

func (h *BoardHandler) PostProject(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request CreateProjectRequest
	if !decodeBody(w, r, &request) {
		return
	}

	if request.Title == "" {
		responseWithError(w, http.StatusBadRequest, "название не может быть пустым")
		return
	}
	if request.DateTime.IsZero() {
		responseWithError(w, http.StatusBadRequest, "дедлайн должен быть задан")
		return
	}

	project, err := h.Board.CreateProject(r.Context(), request.Title, request.Description, request.DateTime)
	if err != nil {
		serviceError(w, err, "create_project")
		return
	}

	responseWithJSON(w, http.StatusCreated, toPayload("project", project))
}

func (h *BoardHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	project, err := h.Board.GetProject(r.Context(), id)
	if err != nil {
		serviceError(w, err, "get_project")
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("project", project))
}

func (h *BoardHandler) PostTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	projectID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	var request CreateTaskRequest
	if !decodeBody(w, r, &request) {
		return
	}

	if request.Title == "" {
		logger.Warn("HTTP: Ошибка валидации",
			zap.String("field", "title"),
			zap.String("error", "empty_field"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "название не может быть пустым")
		return
	}
	if request.DateTime.IsZero() {
		logger.Warn("HTTP: Ошибка валидации",
			zap.String("field", "dateTime"),
			zap.String("error", "empty_field"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "дедлайн должен быть задан")
		return
	}
	if time.Now().After(request.DateTime) {
		responseWithError(w, http.StatusBadRequest, "дедлайн не может быть в прошлом")
		return
	}

	task, err := h.Board.CreateTask(r.Context(), projectID, request.Title, request.Description, request.UserID, request.DateTime, request.Order)
	if err != nil {
		serviceError(w, err, "create_task")
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.String("task_id", task.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, toPayload("task", task))
}

func (h *BoardHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	taskID, ok := parseUUIDParam(w, r, "taskId")
	if !ok {
		return
	}

	task, err := h.Board.GetTask(r.Context(), taskID)
	if err != nil {
		serviceError(w, err, "get_task")
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("task", task))
}

func (h *BoardHandler) PutTask(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	taskID, ok := parseUUIDParam(w, r, "taskId")
	if !ok {
		return
	}

	var request UpdateTaskRequest
	if !decodeBody(w, r, &request) {
		return
	}

	task, err := h.Board.UpdateTaskMeta(r.Context(), taskID, request.Title, request.Description)
	if err != nil {
		serviceError(w, err, "update_task")
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("task", task))
}

func (h *BoardHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	taskID, ok := parseUUIDParam(w, r, "taskId")
	if !ok {
		return
	}

	task, err := h.Board.SoftDeleteTask(r.Context(), taskID)
	if err != nil {
		serviceError(w, err, "delete_task")
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("task", task))
}

// PutRemark - перевод задачи в паузу с обязательной ремаркой
func (h *BoardHandler) PutRemark(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	taskID, ok := parseUUIDParam(w, r, "taskId")
	if !ok {
		return
	}

	var request RemarkRequest
	if !decodeBody(w, r, &request) {
		return
	}

	task, err := h.Board.MoveTask(r.Context(), taskID, models.StagePause, service.MoveOptions{
		Remark: request.Remark,
	})
	if err != nil {
		serviceError(w, err, "pause_task")
		return
	}

	logger.Info("HTTP_OUT: Задача на паузе",
		zap.String("task_id", task.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("task", task))
}

// PutMove - одиночный переход этапа
func (h *BoardHandler) PutMove(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	taskID, ok := parseUUIDParam(w, r, "taskId")
	if !ok {
		return
	}

	var request MoveTaskRequest
	if !decodeBody(w, r, &request) {
		return
	}

	task, err := h.Board.MoveTask(r.Context(), taskID, models.Stage(request.Stage), service.MoveOptions{
		Remark:    request.Remark,
		Confirmed: request.Confirmed,
	})
	if err != nil {
		serviceError(w, err, "move_task")
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("task", task))
}

// PutTodo - массовое обновление доски после перетаскивания колонок
func (h *BoardHandler) PutTodo(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	projectID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	var body map[string]TodoColumn
	if !decodeBody(w, r, &body) {
		return
	}

	columns := make([]service.BoardColumn, 0, len(body))
	for _, column := range body {
		items := make([]service.BoardItem, 0, len(column.Items))
		for _, item := range column.Items {
			items = append(items, service.BoardItem{
				TaskID:    item.ID,
				Order:     item.Order,
				Remark:    item.Remark,
				Confirmed: item.Confirmed,
			})
		}
		columns = append(columns, service.BoardColumn{
			Stage: models.Stage(column.Name),
			Items: items,
		})
	}

	results, err := h.Board.BulkBoardUpdate(r.Context(), projectID, columns)
	if err != nil {
		serviceError(w, err, "bulk_board_update")
		return
	}

	logger.Info("HTTP_OUT: Доска обновлена",
		zap.Int("tasks", len(results)),
		zap.Duration("ms", time.Since(start)))

	responseWithJSON(w, http.StatusOK, toPayload("results", results))
}

func (h *BoardHandler) PutExtensionRequest(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	taskID, ok := parseUUIDParam(w, r, "taskId")
	if !ok {
		return
	}

	var request ExtensionRequestBody
	if !decodeBody(w, r, &request) {
		return
	}

	task, err := h.Board.RequestExtension(r.Context(), taskID, request.ExtensionRequest)
	if err != nil {
		serviceError(w, err, "request_extension")
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("task", task))
}

func (h *BoardHandler) PutGrantExtension(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	taskID, ok := parseUUIDParam(w, r, "taskId")
	if !ok {
		return
	}

	var request GrantExtensionRequest
	if !decodeBody(w, r, &request) {
		return
	}

	if request.NewDateTime.IsZero() {
		responseWithError(w, http.StatusBadRequest, "newDateTime должен быть задан")
		return
	}

	task, err := h.Board.GrantExtension(r.Context(), taskID, request.NewDateTime)
	if err != nil {
		serviceError(w, err, "grant_extension")
		return
	}

	responseWithJSON(w, http.StatusOK,
		toPayload("message", "продление одобрено"),
		toPayload("task", task))
}

func (h *BoardHandler) PutDenyExtension(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	taskID, ok := parseUUIDParam(w, r, "taskId")
	if !ok {
		return
	}

	task, err := h.Board.DenyExtension(r.Context(), taskID)
	if err != nil {
		serviceError(w, err, "deny_extension")
		return
	}

	responseWithJSON(w, http.StatusOK,
		toPayload("message", "продление отклонено"),
		toPayload("task", task))
}
