package worktime_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/ShazSiddiq/Employee-Engagement-System/internal/calendar"
	"github.com/ShazSiddiq/Employee-Engagement-System/internal/models"
	"github.com/ShazSiddiq/Employee-Engagement-System/internal/worktime"
)

// даты привязаны к первой неделе января 2026:
// Пн 05.01, Вт 06.01 ... Сб 10.01, Вс 11.01, Пн 12.01
func at(day, hour, min int) time.Time {
	return time.Date(2026, 1, day, hour, min, 0, 0, time.UTC)
}

// TestBetween тестирует расчёт рабочего времени внутри интервала
func TestBetween(t *testing.T) {
	cal := calendar.Default()

	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		expected time.Duration
	}{
		{
			name:     "start before opening counts from opening",
			start:    at(5, 9, 0),
			end:      at(5, 11, 0),
			expected: time.Hour,
		},
		{
			name:     "weekend gap - saturday evening to monday morning",
			start:    at(10, 17, 0),
			end:      at(12, 11, 0),
			expected: 2 * time.Hour,
		},
		{
			name:     "inside one working day",
			start:    at(5, 10, 30),
			end:      at(5, 12, 0),
			expected: 90 * time.Minute,
		},
		{
			name:     "whole closed day is zero",
			start:    at(11, 9, 0),
			end:      at(11, 23, 0),
			expected: 0,
		},
		{
			name:     "end before start is zero",
			start:    at(5, 12, 0),
			end:      at(5, 10, 0),
			expected: 0,
		},
		{
			name:     "empty interval is zero",
			start:    at(5, 12, 0),
			end:      at(5, 12, 0),
			expected: 0,
		},
		{
			name:     "several full days",
			start:    at(5, 10, 0),
			end:      at(7, 18, 0),
			expected: 24 * time.Hour,
		},
		{
			name:     "after closing until next opening is zero",
			start:    at(5, 19, 0),
			end:      at(6, 10, 0),
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, worktime.Between(cal, tt.start, tt.end))
		})
	}
}

// TestBetween_Additivity тестирует склейку смежных интервалов
func TestBetween_Additivity(t *testing.T) {
	cal := calendar.Default()

	start := at(5, 9, 0)
	mid := at(10, 13, 37)
	end := at(12, 16, 45)

	whole := worktime.Between(cal, start, end)
	parts := worktime.Between(cal, start, mid) + worktime.Between(cal, mid, end)
	assert.Equal(t, whole, parts)
}

func entry(stage models.Stage, start time.Time, end *time.Time) *models.TimelogEntry {
	return &models.TimelogEntry{
		ID:        uuid.New(),
		TaskID:    uuid.New(),
		Stage:     stage,
		StartTime: start,
		EndTime:   end,
	}
}

func ptr(t time.Time) *time.Time { return &t }

// TestSpentOn тестирует проигрывание журнала задачи
func TestSpentOn(t *testing.T) {
	cal := calendar.Default()

	t.Run("open interval counts until now", func(t *testing.T) {
		entries := []*models.TimelogEntry{
			entry(models.StageInProgress, at(5, 10, 0), nil),
		}
		now := at(5, 13, 0)
		assert.Equal(t, 3*time.Hour, worktime.SpentOn(cal, entries, models.StageInProgress, now))
	})

	t.Run("closed intervals sum up", func(t *testing.T) {
		entries := []*models.TimelogEntry{
			entry(models.StageInProgress, at(5, 10, 0), ptr(at(5, 12, 0))),
			entry(models.StagePause, at(5, 12, 0), ptr(at(5, 13, 0))),
			entry(models.StageInProgress, at(5, 13, 0), nil),
		}
		now := at(5, 14, 0)
		assert.Equal(t, 4*time.Hour, worktime.SpentOn(cal, entries, models.StageInProgress, now))
	})

	t.Run("done task does not grow after completion", func(t *testing.T) {
		doneAt := at(5, 15, 0)
		entries := []*models.TimelogEntry{
			entry(models.StageInProgress, at(5, 10, 0), ptr(doneAt)),
			entry(models.StageDone, doneAt, nil),
		}

		week := worktime.SpentOn(cal, entries, models.StageDone, at(12, 17, 0))
		assert.Equal(t, 5*time.Hour, week)

		// и спустя ещё сутки ничего не прибавилось
		later := worktime.SpentOn(cal, entries, models.StageDone, at(13, 17, 0))
		assert.Equal(t, week, later)
	})

	t.Run("archive entry bounds when there was no done", func(t *testing.T) {
		archivedAt := at(5, 12, 0)
		entries := []*models.TimelogEntry{
			entry(models.StageInProgress, at(5, 10, 0), ptr(archivedAt)),
			entry(models.StageArchive, archivedAt, nil),
		}
		spent := worktime.SpentOn(cal, entries, models.StageArchive, at(7, 17, 0))
		assert.Equal(t, 2*time.Hour, spent)
	})

	t.Run("broken entry with end before start gives zero", func(t *testing.T) {
		entries := []*models.TimelogEntry{
			entry(models.StageInProgress, at(5, 14, 0), ptr(at(5, 11, 0))),
		}
		assert.Equal(t, time.Duration(0), worktime.SpentOn(cal, entries, models.StageInProgress, at(5, 14, 0)))
	})

	t.Run("empty history is zero", func(t *testing.T) {
		assert.Equal(t, time.Duration(0), worktime.SpentOn(cal, nil, models.StageInProgress, at(5, 14, 0)))
	})
}

// TestFormat тестирует человекочитаемое представление
func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		d        time.Duration
		expected string
	}{
		{"zero", 0, "0 day 0h 0m 0s"},
		{"hours and minutes", 2*time.Hour + 30*time.Minute + 5*time.Second, "0 day 2h 30m 5s"},
		{"more than a day", 26*time.Hour + 30*time.Minute + 5*time.Second, "1 day 2h 30m 5s"},
		{"negative clamps to zero", -time.Hour, "0 day 0h 0m 0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, worktime.Format(tt.d))
		})
	}
}
