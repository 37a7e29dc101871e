package valueobject

import "fmt"

const (
	PercentMin = 0.0
	PercentMax = 100.0
)

// Percent значение в диапазоне [0,100] (Value Object)
type Percent struct {
	value   float64
	raw     float64
	clamped bool
}

// NewPercent приводит значение к диапазону [0,100].
// Исходное значение сохраняется, Clamped сообщает, была ли коррекция.
func NewPercent(v float64) Percent {
	p := Percent{value: v, raw: v}
	switch {
	case v < PercentMin:
		p.value, p.clamped = PercentMin, true
	case v > PercentMax:
		p.value, p.clamped = PercentMax, true
	}
	return p
}

// Value возвращает значение для отображения
func (p Percent) Value() float64 {
	return p.value
}

// Raw возвращает исходное значение
func (p Percent) Raw() float64 {
	return p.raw
}

// Clamped true, если исходное значение было вне диапазона
func (p Percent) Clamped() bool {
	return p.clamped
}

// String возвращает строковое представление
func (p Percent) String() string {
	return fmt.Sprintf("%.1f%%", p.value)
}
