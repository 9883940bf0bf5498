package handlers

import (
	"time"

	"github.com/google/uuid"
)

// тела запросов в формате, который исторически шлёт клиент доски

type CreateProjectRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DateTime    time.Time `json:"dateTime"`
}

type CreateTaskRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	UserID      uuid.UUID `json:"userid"`
	DateTime    time.Time `json:"dateTime"`
	Order       int       `json:"order"`
}

type UpdateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type RemarkRequest struct {
	Remark string `json:"remark"`
}

type MoveTaskRequest struct {
	Stage     string `json:"stage"`
	Remark    string `json:"remark,omitempty"`
	Confirmed bool   `json:"confirmed,omitempty"`
}

type ExtensionRequestBody struct {
	ExtensionRequest string `json:"extensionRequest"`
}

type GrantExtensionRequest struct {
	NewDateTime time.Time `json:"newDateTime"`
}

// TodoColumn - колонка доски при массовом обновлении, ключи тела
// запроса это идентификаторы колонок
type TodoColumn struct {
	Name  string     `json:"name"`
	Items []TodoItem `json:"items"`
}

type TodoItem struct {
	ID        uuid.UUID `json:"_id"`
	Order     int       `json:"order"`
	Remark    string    `json:"remark,omitempty"`
	Confirmed bool      `json:"confirmed,omitempty"`
}
