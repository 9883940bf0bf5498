package models

// Stage - этап жизненного цикла задачи на доске
type Stage string

const StageInProgress Stage = "In Progress"
const StagePause Stage = "Pause"
const StageDone Stage = "Done"
const StageArchive Stage = "Archive"

func (s Stage) Valid() bool {
	switch s {
	case StageInProgress, StagePause, StageDone, StageArchive:
		return true
	}
	return false
}

// Terminal - задача больше не в работе, остаток времени по дедлайну не считается
func (s Stage) Terminal() bool {
	return s == StageDone || s == StageArchive
}
