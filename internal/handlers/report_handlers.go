package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ShazSiddiq/Employee-Engagement-System/internal/logger"
)

// GetTimelogs - журнал интервалов задачи
func (h *BoardHandler) GetTimelogs(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	taskID, ok := parseUUIDParam(w, r, "taskId")
	if !ok {
		return
	}

	entries, err := h.Reports.TaskTimelogs(r.Context(), taskID)
	if err != nil {
		serviceError(w, err, "task_timelogs")
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("timelogs", entries))
}

// GetUserData - живые задачи всех исполнителей с учётом рабочего времени
func (h *BoardHandler) GetUserData(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	reports, err := h.Reports.UserData(r.Context())
	if err != nil {
		serviceError(w, err, "user_data")
		return
	}

	logger.Info("HTTP_OUT: Отчёт по исполнителям собран",
		zap.Int("users", len(reports)),
		zap.Duration("ms", time.Since(start)))

	responseWithJSON(w, http.StatusOK, toPayload("users", reports))
}

// GetProjectHistory - история задач исполнителя внутри одного проекта
func (h *BoardHandler) GetProjectHistory(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	projectID, ok := parseUUIDParam(w, r, "projectId")
	if !ok {
		return
	}
	userID, ok := parseUUIDParam(w, r, "userId")
	if !ok {
		return
	}

	report, err := h.Reports.ProjectHistory(r.Context(), projectID, userID)
	if err != nil {
		serviceError(w, err, "project_history")
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("history", report))
}

// GetProjectsHistory - история задач исполнителя по всем проектам
func (h *BoardHandler) GetProjectsHistory(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	userID, ok := parseUUIDParam(w, r, "userId")
	if !ok {
		return
	}

	reports, err := h.Reports.ProjectsHistory(r.Context(), userID)
	if err != nil {
		serviceError(w, err, "projects_history")
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("history", reports))
}

// GetTaskAudit - ремарки и решения по продлениям одной задачи
func (h *BoardHandler) GetTaskAudit(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	taskID, ok := parseUUIDParam(w, r, "taskId")
	if !ok {
		return
	}

	remarks, extensions, err := h.Reports.TaskAudit(r.Context(), taskID)
	if err != nil {
		serviceError(w, err, "task_audit")
		return
	}

	responseWithJSON(w, http.StatusOK,
		toPayload("remarks", remarks),
		toPayload("extensions", extensions))
}
