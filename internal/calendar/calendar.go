// Package calendar хранит таблицу рабочих часов по дням недели.
// Значение собирается один раз из конфига и дальше только читается.
package calendar

import (
	"fmt"
	"strings"
	"time"
)

// Window - рабочее окно одного дня, часы 0-24.
// StartHour == EndHour означает выходной день
type Window struct {
	StartHour int
	EndHour   int
}

// Working - окно ненулевой ширины
func (w Window) Working() bool {
	return w.StartHour < w.EndHour
}

type Calendar struct {
	windows [7]Window // индекс time.Weekday: Sunday == 0
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// New строит календарь из таблицы "имя дня -> окно".
// Дни, которых нет в таблице, считаются выходными
func New(days map[string]Window) (Calendar, error) {
	var c Calendar
	for name, w := range days {
		day, ok := weekdays[strings.ToLower(name)]
		if !ok {
			return Calendar{}, fmt.Errorf("неизвестный день недели: %q", name)
		}
		if w.StartHour < 0 || w.EndHour > 24 || w.StartHour > w.EndHour {
			return Calendar{}, fmt.Errorf("неверное окно для %s: %d-%d", name, w.StartHour, w.EndHour)
		}
		c.windows[day] = w
	}
	return c, nil
}

// Default - Пн-Сб 10:00-18:00, воскресенье выходной
func Default() Calendar {
	var c Calendar
	for day := time.Monday; day <= time.Saturday; day++ {
		c.windows[day] = Window{StartHour: 10, EndHour: 18}
	}
	return c
}

// WindowFor возвращает окно для дня недели данной даты
func (c Calendar) WindowFor(t time.Time) Window {
	return c.windows[t.Weekday()]
}

// Bounds - границы рабочего окна дня t как пара моментов в его локации.
// Для выходного дня обе границы совпадают
func (c Calendar) Bounds(t time.Time) (time.Time, time.Time) {
	w := c.WindowFor(t)
	year, month, day := t.Date()
	start := time.Date(year, month, day, w.StartHour, 0, 0, 0, t.Location())
	end := time.Date(year, month, day, w.EndHour, 0, 0, 0, t.Location())
	return start, end
}
