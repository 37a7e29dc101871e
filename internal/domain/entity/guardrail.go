package entity

import (
	"time"

	"github.com/dreschagin/rai-dashboard/internal/domain/valueobject"
)

// GuardrailMetrics счетчики срабатываний guardrail.
// Ожидается blocked + passed == triggered, но это не проверяется.
type GuardrailMetrics struct {
	Triggered     int
	Blocked       int
	Passed        int
	Effectiveness float64
}

// Guardrail именованный контроль безопасности контента
type Guardrail struct {
	ID            string
	Name          string
	Description   string
	Type          valueobject.GuardrailType
	Status        valueobject.GuardrailStatus
	Category      string
	Metrics       GuardrailMetrics
	LastTriggered string
	CreatedAt     time.Time
}

// IsActive проверяет, включен ли guardrail
func (g Guardrail) IsActive() bool {
	return g.Status == valueobject.GuardrailActive
}

// CategoryStats агрегат по категории guardrail
type CategoryStats struct {
	Category      string
	Count         int
	Effectiveness float64
}

// GuardrailsStats агрегат по всему набору guardrail.
// Всегда вычисляется из набора, никогда не хранится отдельно.
type GuardrailsStats struct {
	TotalGuardrails      int
	ActiveGuardrails     int
	TotalBlocked         int
	TotalTriggered       int
	TotalPassed          int
	OverallEffectiveness float64
	ByCategory           []CategoryStats
}

// EffectivenessSample точка графика эффективности guardrail
type EffectivenessSample struct {
	Name           string
	Effectiveness  float64
	DetectionRate  float64
	PreventionRate float64
	Color          string
}

// LiveEvent событие в ленте живого дашборда
type LiveEvent struct {
	ID        string
	Type      valueobject.EventType
	Guardrail string
	Message   string
	Time      string
	Severity  valueobject.Severity
}
