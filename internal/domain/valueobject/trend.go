package valueobject

import "errors"

// Trend направление изменения метрики
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// Validate проверяет валидность тренда
func (t Trend) Validate() error {
	switch t {
	case TrendUp, TrendDown, TrendStable:
		return nil
	default:
		return errors.New("invalid trend")
	}
}

// Icon возвращает стрелку для отображения тренда
func (t Trend) Icon() string {
	switch t {
	case TrendUp:
		return "↗"
	case TrendDown:
		return "↘"
	default:
		return "→"
	}
}

// RiskLevel уровень риска метрики. Информационное поле, не связано со значением.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Validate проверяет валидность уровня риска
func (r RiskLevel) Validate() error {
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return nil
	default:
		return errors.New("invalid risk level")
	}
}

// Severity важность события guardrail
type Severity = RiskLevel
