// Package worktime считает рабочее время внутри календарных интервалов.
// Единственное место в системе, где живёт этот алгоритм - все отчёты
// обязаны ходить сюда, а не пересчитывать заново.
package worktime

import (
	"fmt"
	"time"

	"github.com/ShazSiddiq/Employee-Engagement-System/internal/calendar"
	"github.com/ShazSiddiq/Employee-Engagement-System/internal/models"
)

// Between возвращает часть интервала [start, end), попавшую в рабочие окна.
// end раньше start и выходные дни дают ноль, отрицательных значений не бывает
func Between(cal calendar.Calendar, start, end time.Time) time.Duration {
	if !end.After(start) {
		return 0
	}

	var total time.Duration
	cursor := start

	for cursor.Before(end) {
		if cal.WindowFor(cursor).Working() {
			dayStart, dayEnd := cal.Bounds(cursor)

			workStart := cursor
			if dayStart.After(workStart) {
				workStart = dayStart
			}
			workEnd := end
			if dayEnd.Before(workEnd) {
				workEnd = dayEnd
			}

			if workStart.Before(workEnd) {
				total += workEnd.Sub(workStart)
			}
		}

		// к полуночи следующего дня
		year, month, day := cursor.Date()
		cursor = time.Date(year, month, day, 0, 0, 0, 0, cursor.Location()).AddDate(0, 0, 1)
	}

	return total
}

// SpentOn проигрывает журнал задачи и суммирует рабочее время.
// Открытый интервал живой задачи считается до now. Для Done/Archive
// граница - момент входа в терминальный этап: каждый интервал
// обрезается по ней, поэтому хвост после завершения не растёт
func SpentOn(cal calendar.Calendar, entries []*models.TimelogEntry, stage models.Stage, now time.Time) time.Duration {
	bound := now
	if stage.Terminal() {
		if t, ok := terminalBound(entries); ok {
			bound = t
		}
	}

	var total time.Duration
	for _, entry := range entries {
		end := bound
		if entry.EndTime != nil && entry.EndTime.Before(bound) {
			end = *entry.EndTime
		}

		// битые записи (end < start) дают ноль, отчёт не падает
		total += Between(cal, entry.StartTime, end)
	}

	return total
}

func terminalBound(entries []*models.TimelogEntry) (time.Time, bool) {
	for _, entry := range entries {
		if entry.Stage == models.StageDone {
			return entry.StartTime, true
		}
	}
	for _, entry := range entries {
		if entry.Stage == models.StageArchive {
			return entry.StartTime, true
		}
	}
	return time.Time{}, false
}

// Format - представление "D day Hh Mm Ss", как в отчётах
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	totalSeconds := int64(d / time.Second)
	days := totalSeconds / (3600 * 24)
	hours := (totalSeconds % (3600 * 24)) / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60
	return fmt.Sprintf("%d day %dh %dm %ds", days, hours, minutes, seconds)
}
