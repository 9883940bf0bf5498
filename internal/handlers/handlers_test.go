package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ShazSiddiq/Employee-Engagement-System/internal/handlers"
	"github.com/ShazSiddiq/Employee-Engagement-System/internal/models"
	"github.com/ShazSiddiq/Employee-Engagement-System/internal/service"
)

// MockBoardService - мок сервиса доски
type MockBoardService struct {
	mock.Mock
}

func (m *MockBoardService) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockBoardService) CreateProject(ctx context.Context, title, description string, deadline time.Time) (*models.Project, error) {
	args := m.Called(ctx, title, description, deadline)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *MockBoardService) GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *MockBoardService) CreateTask(ctx context.Context, projectID uuid.UUID, title, description string, assigneeID uuid.UUID, deadline time.Time, order int) (*models.Task, error) {
	args := m.Called(ctx, projectID, title, description, assigneeID, deadline, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockBoardService) GetTask(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockBoardService) MoveTask(ctx context.Context, taskID uuid.UUID, target models.Stage, opts service.MoveOptions) (*models.Task, error) {
	args := m.Called(ctx, taskID, target, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockBoardService) UpdateTaskMeta(ctx context.Context, taskID uuid.UUID, title, description string) (*models.Task, error) {
	args := m.Called(ctx, taskID, title, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockBoardService) SoftDeleteTask(ctx context.Context, taskID uuid.UUID) (*models.Task, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockBoardService) BulkBoardUpdate(ctx context.Context, projectID uuid.UUID, columns []service.BoardColumn) ([]service.MoveResult, error) {
	args := m.Called(ctx, projectID, columns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.MoveResult), args.Error(1)
}

func (m *MockBoardService) RequestExtension(ctx context.Context, taskID uuid.UUID, text string) (*models.Task, error) {
	args := m.Called(ctx, taskID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockBoardService) GrantExtension(ctx context.Context, taskID uuid.UUID, newDeadline time.Time) (*models.Task, error) {
	args := m.Called(ctx, taskID, newDeadline)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockBoardService) DenyExtension(ctx context.Context, taskID uuid.UUID) (*models.Task, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

// MockReportService - мок отчётов
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) TaskTimelogs(ctx context.Context, taskID uuid.UUID) ([]*models.TimelogEntry, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TimelogEntry), args.Error(1)
}

func (m *MockReportService) UserData(ctx context.Context) ([]service.UserReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.UserReport), args.Error(1)
}

func (m *MockReportService) ProjectHistory(ctx context.Context, projectID, userID uuid.UUID) (*service.ProjectReport, error) {
	args := m.Called(ctx, projectID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProjectReport), args.Error(1)
}

func (m *MockReportService) ProjectsHistory(ctx context.Context, userID uuid.UUID) ([]service.ProjectReport, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.ProjectReport), args.Error(1)
}

func (m *MockReportService) TaskAudit(ctx context.Context, taskID uuid.UUID) ([]*models.RemarkLogEntry, []*models.ExtensionLogEntry, error) {
	args := m.Called(ctx, taskID)
	var remarks []*models.RemarkLogEntry
	var extensions []*models.ExtensionLogEntry
	if args.Get(0) != nil {
		remarks = args.Get(0).([]*models.RemarkLogEntry)
	}
	if args.Get(1) != nil {
		extensions = args.Get(1).([]*models.ExtensionLogEntry)
	}
	return remarks, extensions, args.Error(2)
}

var _ handlers.BoardService = (*MockBoardService)(nil)
var _ handlers.ReportService = (*MockReportService)(nil)

func newTestRouter(board *MockBoardService, reports *MockReportService) http.Handler {
	h := handlers.NewBoardHandler(board, reports)
	return handlers.NewRouter(&h)
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// TestBoardHandler_HealthCheck тестирует HealthCheck
func TestBoardHandler_HealthCheck(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*MockBoardService)
		expectedStatus int
	}{
		{
			name: "success - healthy",
			setupMock: func(m *MockBoardService) {
				m.On("HealthCheck", mock.Anything).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "error - unhealthy",
			setupMock: func(m *MockBoardService) {
				m.On("HealthCheck", mock.Anything).Return(errors.New("store unavailable"))
			},
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockBoard := new(MockBoardService)
			tt.setupMock(mockBoard)
			router := newTestRouter(mockBoard, new(MockReportService))

			w := doRequest(t, router, "GET", "/health", "")

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockBoard.AssertExpectations(t)
		})
	}
}

// TestBoardHandler_PostTask тестирует создание задачи
func TestBoardHandler_PostTask(t *testing.T) {
	projectID := uuid.New()
	taskID := uuid.New()
	userID := uuid.New()
	deadline := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)

	tests := []struct {
		name           string
		path           string
		requestBody    string
		setupMock      func(*MockBoardService)
		expectedStatus int
	}{
		{
			name: "success - create task",
			path: "/project/" + projectID.String() + "/task",
			requestBody: fmt.Sprintf(`{
				"title": "Prepare demo",
				"description": "for friday",
				"userid": %q,
				"dateTime": %q,
				"order": 2
			}`, userID, deadline.Format(time.RFC3339)),
			setupMock: func(m *MockBoardService) {
				m.On("CreateTask", mock.Anything, projectID, "Prepare demo", "for friday", userID, mock.Anything, 2).
					Return(&models.Task{
						ID:        taskID,
						ProjectID: projectID,
						Title:     "Prepare demo",
						Stage:     models.StageInProgress,
						Deadline:  deadline,
						Version:   1,
					}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "error - invalid project id",
			path:           "/project/not-a-uuid/task",
			requestBody:    `{}`,
			setupMock:      func(m *MockBoardService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "error - invalid JSON",
			path:           "/project/" + projectID.String() + "/task",
			requestBody:    `{broken`,
			setupMock:      func(m *MockBoardService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "error - missing title",
			path: "/project/" + projectID.String() + "/task",
			requestBody: fmt.Sprintf(`{
				"userid": %q,
				"dateTime": %q
			}`, userID, deadline.Format(time.RFC3339)),
			setupMock:      func(m *MockBoardService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "error - deadline in the past",
			path: "/project/" + projectID.String() + "/task",
			requestBody: fmt.Sprintf(`{
				"title": "Late",
				"userid": %q,
				"dateTime": %q
			}`, userID, time.Now().Add(-time.Hour).Format(time.RFC3339)),
			setupMock:      func(m *MockBoardService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "error - project not found",
			path: "/project/" + projectID.String() + "/task",
			requestBody: fmt.Sprintf(`{
				"title": "Orphan",
				"userid": %q,
				"dateTime": %q
			}`, userID, deadline.Format(time.RFC3339)),
			setupMock: func(m *MockBoardService) {
				m.On("CreateTask", mock.Anything, projectID, "Orphan", "", userID, mock.Anything, 0).
					Return(nil, service.NewNotFound("проект", projectID.String()))
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockBoard := new(MockBoardService)
			tt.setupMock(mockBoard)
			router := newTestRouter(mockBoard, new(MockReportService))

			w := doRequest(t, router, "POST", tt.path, tt.requestBody)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockBoard.AssertExpectations(t)
		})
	}
}

// TestBoardHandler_PutMove тестирует маппинг бизнес-ошибок перехода
func TestBoardHandler_PutMove(t *testing.T) {
	projectID := uuid.New()
	taskID := uuid.New()

	tests := []struct {
		name           string
		requestBody    string
		setupMock      func(*MockBoardService)
		expectedStatus int
		expectedCode   string
	}{
		{
			name:        "success - move to done",
			requestBody: `{"stage": "Done", "confirmed": true}`,
			setupMock: func(m *MockBoardService) {
				m.On("MoveTask", mock.Anything, taskID, models.StageDone,
					service.MoveOptions{Confirmed: true}).
					Return(&models.Task{ID: taskID, Stage: models.StageDone}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:        "conflict - confirmation required",
			requestBody: `{"stage": "Done"}`,
			setupMock: func(m *MockBoardService) {
				m.On("MoveTask", mock.Anything, taskID, models.StageDone, service.MoveOptions{}).
					Return(nil, service.NewMustConfirmCompletion(taskID))
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   "MUST_CONFIRM_COMPLETION",
		},
		{
			name:        "conflict - archived task",
			requestBody: `{"stage": "In Progress"}`,
			setupMock: func(m *MockBoardService) {
				m.On("MoveTask", mock.Anything, taskID, models.StageInProgress, service.MoveOptions{}).
					Return(nil, service.NewArchivedImmutable(taskID))
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   "ARCHIVED_IMMUTABLE",
		},
		{
			name:        "conflict - version race lost",
			requestBody: `{"stage": "Pause", "remark": "parked"}`,
			setupMock: func(m *MockBoardService) {
				m.On("MoveTask", mock.Anything, taskID, models.StagePause,
					service.MoveOptions{Remark: "parked"}).
					Return(nil, service.NewVersionConflict(taskID))
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   "VERSION_CONFLICT",
		},
		{
			name:        "gone - deleted task",
			requestBody: `{"stage": "Pause", "remark": "parked"}`,
			setupMock: func(m *MockBoardService) {
				m.On("MoveTask", mock.Anything, taskID, models.StagePause,
					service.MoveOptions{Remark: "parked"}).
					Return(nil, service.NewTaskDeleted(taskID))
			},
			expectedStatus: http.StatusGone,
			expectedCode:   "TASK_DELETED",
		},
		{
			name:        "internal - unexpected error",
			requestBody: `{"stage": "Pause", "remark": "parked"}`,
			setupMock: func(m *MockBoardService) {
				m.On("MoveTask", mock.Anything, taskID, models.StagePause,
					service.MoveOptions{Remark: "parked"}).
					Return(nil, errors.New("connection reset"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockBoard := new(MockBoardService)
			tt.setupMock(mockBoard)
			router := newTestRouter(mockBoard, new(MockReportService))

			path := "/project/" + projectID.String() + "/move/" + taskID.String()
			w := doRequest(t, router, "PUT", path, tt.requestBody)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedCode != "" {
				var body map[string]any
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, tt.expectedCode, body["error"])
			}
			mockBoard.AssertExpectations(t)
		})
	}
}

// TestBoardHandler_PutRemark тестирует постановку на паузу через ремарку
func TestBoardHandler_PutRemark(t *testing.T) {
	projectID := uuid.New()
	taskID := uuid.New()

	mockBoard := new(MockBoardService)
	mockBoard.On("MoveTask", mock.Anything, taskID, models.StagePause,
		service.MoveOptions{Remark: "blocked by backend"}).
		Return(&models.Task{ID: taskID, Stage: models.StagePause, Remark: "blocked by backend"}, nil)

	router := newTestRouter(mockBoard, new(MockReportService))
	path := "/project/" + projectID.String() + "/remark/" + taskID.String()
	w := doRequest(t, router, "PUT", path, `{"remark": "blocked by backend"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	mockBoard.AssertExpectations(t)
}

// TestBoardHandler_PutTodo тестирует массовое обновление доски
func TestBoardHandler_PutTodo(t *testing.T) {
	projectID := uuid.New()
	firstID := uuid.New()
	secondID := uuid.New()

	mockBoard := new(MockBoardService)
	mockBoard.On("BulkBoardUpdate", mock.Anything, projectID, mock.MatchedBy(func(columns []service.BoardColumn) bool {
		total := 0
		for _, c := range columns {
			total += len(c.Items)
		}
		return len(columns) == 2 && total == 2
	})).Return([]service.MoveResult{
		{TaskID: firstID, OK: true},
		{TaskID: secondID, Code: "MUST_CONFIRM_COMPLETION"},
	}, nil)

	body := fmt.Sprintf(`{
		"column-1": {"name": "In Progress", "items": [{"_id": %q, "order": 0}]},
		"column-2": {"name": "Done", "items": [{"_id": %q, "order": 0}]}
	}`, firstID, secondID)

	router := newTestRouter(mockBoard, new(MockReportService))
	w := doRequest(t, router, "PUT", "/project/"+projectID.String()+"/todo", body)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string][]service.MoveResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp["results"], 2)
	mockBoard.AssertExpectations(t)
}

// TestBoardHandler_Extensions тестирует ручки продления дедлайна
func TestBoardHandler_Extensions(t *testing.T) {
	projectID := uuid.New()
	taskID := uuid.New()

	t.Run("request extension", func(t *testing.T) {
		mockBoard := new(MockBoardService)
		mockBoard.On("RequestExtension", mock.Anything, taskID, "ran out of review cycles").
			Return(&models.Task{ID: taskID, Extension: models.PendingExtension("ran out of review cycles")}, nil)

		router := newTestRouter(mockBoard, new(MockReportService))
		path := "/project/" + projectID.String() + "/extensionRequest/" + taskID.String()
		w := doRequest(t, router, "PUT", path, `{"extensionRequest": "ran out of review cycles"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		mockBoard.AssertExpectations(t)
	})

	t.Run("grant without new deadline", func(t *testing.T) {
		router := newTestRouter(new(MockBoardService), new(MockReportService))
		w := doRequest(t, router, "PUT", "/project/grantExtension/"+taskID.String(), `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("grant", func(t *testing.T) {
		newDeadline := time.Now().Add(72 * time.Hour).UTC().Truncate(time.Second)
		mockBoard := new(MockBoardService)
		mockBoard.On("GrantExtension", mock.Anything, taskID, mock.Anything).
			Return(&models.Task{ID: taskID, Deadline: newDeadline}, nil)

		router := newTestRouter(mockBoard, new(MockReportService))
		body := fmt.Sprintf(`{"newDateTime": %q}`, newDeadline.Format(time.RFC3339))
		w := doRequest(t, router, "PUT", "/project/grantExtension/"+taskID.String(), body)

		assert.Equal(t, http.StatusOK, w.Code)
		mockBoard.AssertExpectations(t)
	})

	t.Run("deny without pending request", func(t *testing.T) {
		mockBoard := new(MockBoardService)
		mockBoard.On("DenyExtension", mock.Anything, taskID).
			Return(nil, service.NewNoExtensionPending(taskID))

		router := newTestRouter(mockBoard, new(MockReportService))
		w := doRequest(t, router, "PUT", "/project/denyExtension/"+taskID.String(), "")

		assert.Equal(t, http.StatusConflict, w.Code)
		mockBoard.AssertExpectations(t)
	})
}

// TestBoardHandler_Reports тестирует ручки отчётов
func TestBoardHandler_Reports(t *testing.T) {
	taskID := uuid.New()
	userID := uuid.New()
	projectID := uuid.New()

	t.Run("timelogs", func(t *testing.T) {
		mockReports := new(MockReportService)
		mockReports.On("TaskTimelogs", mock.Anything, taskID).
			Return([]*models.TimelogEntry{
				{ID: uuid.New(), TaskID: taskID, Stage: models.StageInProgress, StartTime: time.Now()},
			}, nil)

		router := newTestRouter(new(MockBoardService), mockReports)
		w := doRequest(t, router, "GET", "/timelogs/"+taskID.String(), "")

		assert.Equal(t, http.StatusOK, w.Code)
		mockReports.AssertExpectations(t)
	})

	t.Run("timelogs of unknown task", func(t *testing.T) {
		mockReports := new(MockReportService)
		mockReports.On("TaskTimelogs", mock.Anything, taskID).
			Return(nil, service.NewNotFound("задача", taskID.String()))

		router := newTestRouter(new(MockBoardService), mockReports)
		w := doRequest(t, router, "GET", "/timelogs/"+taskID.String(), "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("userdata", func(t *testing.T) {
		mockReports := new(MockReportService)
		mockReports.On("UserData", mock.Anything).
			Return([]service.UserReport{{UserID: userID}}, nil)

		router := newTestRouter(new(MockBoardService), mockReports)
		w := doRequest(t, router, "GET", "/userdata", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.String())
	})

	t.Run("project history", func(t *testing.T) {
		mockReports := new(MockReportService)
		mockReports.On("ProjectHistory", mock.Anything, projectID, userID).
			Return(&service.ProjectReport{Project: &models.Project{ID: projectID}}, nil)

		router := newTestRouter(new(MockBoardService), mockReports)
		w := doRequest(t, router, "GET", "/project-history/"+projectID.String()+"/"+userID.String(), "")

		assert.Equal(t, http.StatusOK, w.Code)
		mockReports.AssertExpectations(t)
	})

	t.Run("projects history", func(t *testing.T) {
		mockReports := new(MockReportService)
		mockReports.On("ProjectsHistory", mock.Anything, userID).
			Return([]service.ProjectReport{}, nil)

		router := newTestRouter(new(MockBoardService), mockReports)
		w := doRequest(t, router, "GET", "/projects-history/"+userID.String(), "")

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("audit", func(t *testing.T) {
		mockReports := new(MockReportService)
		mockReports.On("TaskAudit", mock.Anything, taskID).
			Return([]*models.RemarkLogEntry{}, []*models.ExtensionLogEntry{}, nil)

		router := newTestRouter(new(MockBoardService), mockReports)
		w := doRequest(t, router, "GET", "/audit/"+taskID.String(), "")

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
