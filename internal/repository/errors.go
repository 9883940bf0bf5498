package repository

import "errors"

var ErrNotFound = errors.New("запись не найдена")

// ErrVersionConflict - CAS по полю version не прошёл, у вызывающего устаревшая копия
var ErrVersionConflict = errors.New("конфликт версий")

// ErrOpenInterval - попытка открыть второй интервал журнала для одной задачи
var ErrOpenInterval = errors.New("у задачи уже есть открытый интервал")
