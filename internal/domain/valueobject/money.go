package valueobject

import (
	"errors"
	"fmt"
)

// CurrencySymbol префикс денежных сумм на дашборде
const CurrencySymbol = "$"

// smallAmountThreshold граница, ниже которой сумма выводится с пятью знаками
const smallAmountThreshold = 0.01

// Money денежная сумма в долларах (Value Object)
// Иммутабельный объект
type Money struct {
	amount float64
}

// NewMoney создает сумму с валидацией
func NewMoney(amount float64) (Money, error) {
	if amount < 0 {
		return Money{}, errors.New("amount cannot be negative")
	}
	return Money{amount: amount}, nil
}

// String форматирует сумму: меньше 0.01 с пятью знаками, иначе с четырьмя.
func (m Money) String() string {
	if m.amount < smallAmountThreshold {
		return fmt.Sprintf("%s%.5f", CurrencySymbol, m.amount)
	}
	return fmt.Sprintf("%s%.4f", CurrencySymbol, m.amount)
}
