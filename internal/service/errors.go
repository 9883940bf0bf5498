package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ShazSiddiq/Employee-Engagement-System/internal/models"
)

type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

type Detail struct {
	Key     string
	Payload any
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func ToDetail(key string, payload any) Detail {
	return Detail{
		Key:     key,
		Payload: payload,
	}
}

func NewBusinessError(code string, message string, details ...Detail) *BusinessError {
	busErr := &BusinessError{
		Code:    code,
		Message: message,
		Details: make(map[string]any),
	}

	for _, detail := range details {
		busErr.Details[detail.Key] = detail.Payload
	}

	return busErr
}

func NewNotFound(resource string, id string) *BusinessError {
	return &BusinessError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s %s не найден(а)", resource, id),
		Details: map[string]any{
			"resource": resource,
			"id":       id,
		},
	}
}

func NewValidationError(field, reason string) *BusinessError {
	return &BusinessError{
		Code:    "VALIDATION_ERROR",
		Message: fmt.Sprintf("Неверное значение поля '%s': %s", field, reason),
		Details: map[string]any{
			"field":  field,
			"reason": reason,
		},
	}
}

func NewVersionConflict(taskID uuid.UUID) *BusinessError {
	return &BusinessError{
		Code:    "VERSION_CONFLICT",
		Message: "Задача изменена параллельным запросом, повторите с актуальной версией",
		Details: map[string]any{"task_id": taskID.String()},
	}
}

func NewTaskDeleted(taskID uuid.UUID) *BusinessError {
	return &BusinessError{
		Code:    "TASK_DELETED",
		Message: "Задача удалена",
		Details: map[string]any{"task_id": taskID.String()},
	}
}

// ошибки переходов доски

func NewArchivedImmutable(taskID uuid.UUID) *BusinessError {
	return &BusinessError{
		Code:    "ARCHIVED_IMMUTABLE",
		Message: "Архивные задачи неизменяемы",
		Details: map[string]any{"task_id": taskID.String()},
	}
}

func NewExpiredCannotResume(taskID uuid.UUID, deadline time.Time) *BusinessError {
	return &BusinessError{
		Code:    "EXPIRED_CANNOT_RESUME",
		Message: "Дедлайн прошёл, вернуть задачу в работу можно только после продления",
		Details: map[string]any{
			"task_id":  taskID.String(),
			"deadline": deadline,
		},
	}
}

func NewMustConfirmCompletion(taskID uuid.UUID) *BusinessError {
	return &BusinessError{
		Code:    "MUST_CONFIRM_COMPLETION",
		Message: "Завершение задачи требует явного подтверждения",
		Details: map[string]any{"task_id": taskID.String()},
	}
}

func NewInvalidTargetStage(from, to models.Stage) *BusinessError {
	return &BusinessError{
		Code:    "INVALID_TARGET_STAGE",
		Message: fmt.Sprintf("Переход %q -> %q не разрешён", from, to),
		Details: map[string]any{
			"from": string(from),
			"to":   string(to),
		},
	}
}

// ошибки продления дедлайна

func NewExtensionPending(taskID uuid.UUID) *BusinessError {
	return &BusinessError{
		Code:    "EXTENSION_PENDING",
		Message: "По задаче уже есть нерассмотренный запрос на продление",
		Details: map[string]any{"task_id": taskID.String()},
	}
}

func NewNoExtensionPending(taskID uuid.UUID) *BusinessError {
	return &BusinessError{
		Code:    "NO_EXTENSION_PENDING",
		Message: "По задаче нет запроса на продление",
		Details: map[string]any{"task_id": taskID.String()},
	}
}
