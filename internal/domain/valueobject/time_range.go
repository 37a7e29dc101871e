package valueobject

import (
	"errors"
	"time"
)

// TimeRange временной диапазон (Value Object)
// Нулевая граница означает открытый диапазон с этой стороны.
type TimeRange struct {
	start time.Time
	end   time.Time
}

// NewTimeRange создает TimeRange с валидацией
func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if !start.IsZero() && !end.IsZero() && start.After(end) {
		return TimeRange{}, errors.New("invalid time range: start must not be after end")
	}
	return TimeRange{start: start, end: end}, nil
}

// SpacedRange диапазон, покрывающий count отсчетов с шагом spacing, заканчивающийся в end
func SpacedRange(count int, spacing time.Duration, end time.Time) (TimeRange, error) {
	if count < 1 {
		return TimeRange{}, errors.New("count must be positive")
	}
	if spacing <= 0 {
		return TimeRange{}, errors.New("spacing must be positive")
	}
	return TimeRange{
		start: end.Add(-time.Duration(count-1) * spacing),
		end:   end,
	}, nil
}

// Start возвращает начальное время
func (tr TimeRange) Start() time.Time {
	return tr.start
}

// Contains проверяет, попадает ли время в диапазон (границы включены)
func (tr TimeRange) Contains(t time.Time) bool {
	if !tr.start.IsZero() && t.Before(tr.start) {
		return false
	}
	if !tr.end.IsZero() && t.After(tr.end) {
		return false
	}
	return true
}
