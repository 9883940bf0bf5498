package service

import (
	"time"
	"unicode/utf8"

	"github.com/ShazSiddiq/Employee-Engagement-System/internal/models"
)

// границы текста в символах, не байтах; проверяются до любых записей
const remarkMinLen = 3
const remarkMaxLen = 150
const extensionMinLen = 3
const extensionMaxLen = 500

// MoveOptions - сопровождение перехода: ремарка для паузы,
// подтверждение для завершения
type MoveOptions struct {
	Remark    string
	Confirmed bool
}

// checkTransition - таблица разрешённых переходов.
// Всё, чего здесь нет, отклоняется без изменения задачи и журнала
func checkTransition(task *models.Task, target models.Stage, now time.Time, opts MoveOptions) *BusinessError {
	if !target.Valid() {
		return NewInvalidTargetStage(task.Stage, target)
	}
	if target == task.Stage {
		return NewInvalidTargetStage(task.Stage, target)
	}

	switch task.Stage {
	case models.StageArchive:
		// из архива выхода нет
		return NewArchivedImmutable(task.ID)

	case models.StageDone:
		if target != models.StageArchive {
			return NewInvalidTargetStage(task.Stage, target)
		}
		return nil

	case models.StageInProgress:
		switch target {
		case models.StagePause:
			if n := utf8.RuneCountInString(opts.Remark); n < remarkMinLen || n > remarkMaxLen {
				return NewValidationError("remark", "текст ремарки должен быть от 3 до 150 символов")
			}
			return nil
		case models.StageDone:
			if !opts.Confirmed {
				return NewMustConfirmCompletion(task.ID)
			}
			return nil
		default:
			return NewInvalidTargetStage(task.Stage, target)
		}

	case models.StagePause:
		switch target {
		case models.StageInProgress:
			// просроченную задачу нельзя молча вернуть в работу
			if task.Expired(now) {
				return NewExpiredCannotResume(task.ID, task.Deadline)
			}
			return nil
		case models.StageDone:
			if !opts.Confirmed {
				return NewMustConfirmCompletion(task.ID)
			}
			return nil
		default:
			return NewInvalidTargetStage(task.Stage, target)
		}
	}

	return NewInvalidTargetStage(task.Stage, target)
}
