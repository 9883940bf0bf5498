package models

import (
	"time"

	"github.com/google/uuid"
)

// TimelogEntry - интервал, который задача провела на одном этапе.
// Журнал только дописывается: единственная мутация это заполнение EndTime
type TimelogEntry struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	TaskID    uuid.UUID  `json:"task_id" db:"task_id"`
	ProjectID uuid.UUID  `json:"project_id" db:"project_id"`
	Stage     Stage      `json:"stage" db:"stage"`
	StartTime time.Time  `json:"start_time" db:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty" db:"end_time"`
}

// Open - интервал ещё не закрыт
func (e *TimelogEntry) Open() bool {
	return e.EndTime == nil
}

type ExtensionResolution string

const ExtensionGranted ExtensionResolution = "granted"
const ExtensionDenied ExtensionResolution = "denied"

type ExtensionLogEntry struct {
	ID               uuid.UUID           `json:"id" db:"id"`
	TaskID           uuid.UUID           `json:"task_id" db:"task_id"`
	PreviousDeadline time.Time           `json:"previous_deadline" db:"previous_deadline"`
	NewDeadline      time.Time           `json:"new_deadline" db:"new_deadline"`
	Resolution       ExtensionResolution `json:"resolution" db:"resolution"`
	GrantedAt        time.Time           `json:"granted_at" db:"granted_at"`
}

type RemarkLogEntry struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	TaskID    uuid.UUID `json:"task_id" db:"task_id"`
	ProjectID uuid.UUID `json:"project_id" db:"project_id"`
	Remark    string    `json:"remark" db:"remark"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
