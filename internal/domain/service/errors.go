package service

import (
	"errors"
	"fmt"
)

// ErrEmptyInput возвращается агрегатами над пустым набором
var ErrEmptyInput = errors.New("empty input")

// EmptyInputError агрегат не определен для пустого набора или нулевого знаменателя
type EmptyInputError struct {
	Op string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, ErrEmptyInput)
}

// Is позволяет сравнивать через errors.Is(err, ErrEmptyInput)
func (e *EmptyInputError) Is(target error) bool {
	return target == ErrEmptyInput
}

func emptyInput(op string) error {
	return &EmptyInputError{Op: op}
}

// OutOfRangeWarning значение вне [0,100], приведенное к границе для отображения.
// Не фатальная ошибка: пишется в лог и учитывается в метриках.
type OutOfRangeWarning struct {
	Field   string
	Value   float64
	Clamped float64
}

func (w OutOfRangeWarning) Error() string {
	return fmt.Sprintf("%s out of range: %g clamped to %g", w.Field, w.Value, w.Clamped)
}
