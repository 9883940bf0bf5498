package models

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	ID          uuid.UUID        `json:"id" db:"id"`
	ProjectID   uuid.UUID        `json:"project_id" db:"project_id"`
	Title       string           `json:"title" db:"title"`
	Description string           `json:"description" db:"description"`
	AssigneeID  uuid.UUID        `json:"assignee_id" db:"assignee_id"`
	Deadline    time.Time        `json:"deadline" db:"deadline"`
	Stage       Stage            `json:"stage" db:"stage"`
	Order       int              `json:"order" db:"position"`
	Remark      string           `json:"remark" db:"remark"`
	Extension   ExtensionRequest `json:"extension" db:"-"`
	Deleted     bool             `json:"deleted" db:"deleted"`
	DeletedAt   *time.Time       `json:"deleted_at,omitempty" db:"deleted_at"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt   *time.Time       `json:"updated_at,omitempty" db:"updated_at"`
	Version     int              `json:"version" db:"version"`
}

// Expired - дедлайн прошёл; для терминальных этапов не имеет смысла
func (t *Task) Expired(now time.Time) bool {
	if t.Stage.Terminal() {
		return false
	}
	return now.After(t.Deadline)
}

// ExtensionRequest - явный вариант {нет запроса} | {запрос с текстом},
// вместо признака "непустая строка = запрос есть"
type ExtensionRequest struct {
	Requested bool   `json:"requested"`
	Text      string `json:"text,omitempty"`
}

func PendingExtension(text string) ExtensionRequest {
	return ExtensionRequest{Requested: true, Text: text}
}

func NoExtension() ExtensionRequest {
	return ExtensionRequest{}
}

type Project struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Deadline    time.Time  `json:"deadline" db:"deadline"`
	Deleted     bool       `json:"deleted" db:"deleted"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}
