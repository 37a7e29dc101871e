package service

import (
	"fmt"

	"github.com/dreschagin/rai-dashboard/internal/domain/entity"
	"github.com/dreschagin/rai-dashboard/internal/domain/valueobject"
)

// RecordValidator проверяет диапазоны значений в наборах записей (Domain Service)
// Ничего не отклоняет, только собирает предупреждения.
type RecordValidator struct{}

// NewRecordValidator создает новый RecordValidator
func NewRecordValidator() *RecordValidator {
	return &RecordValidator{}
}

// ClampPercent приводит значение к [0,100] и возвращает предупреждение, если пришлось
func ClampPercent(field string, v float64) (float64, *OutOfRangeWarning) {
	p := valueobject.NewPercent(v)
	if !p.Clamped() {
		return p.Value(), nil
	}
	return p.Value(), &OutOfRangeWarning{Field: field, Value: p.Raw(), Clamped: p.Value()}
}

// CheckRAIMetrics проверяет значения метрик RAI
func (v *RecordValidator) CheckRAIMetrics(metrics []entity.RAIMetric) []OutOfRangeWarning {
	var warnings []OutOfRangeWarning
	for _, m := range metrics {
		warnings = appendWarning(warnings, fmt.Sprintf("rai.%s.value", m.Name), m.Value)
	}
	return warnings
}

// CheckESGMetrics проверяет оценки ESG
func (v *RecordValidator) CheckESGMetrics(metrics []entity.ESGMetric) []OutOfRangeWarning {
	var warnings []OutOfRangeWarning
	for _, m := range metrics {
		warnings = appendWarning(warnings, fmt.Sprintf("esg.%s.score", m.Category), m.Score)
	}
	return warnings
}

// CheckGuardrails проверяет эффективность guardrail
func (v *RecordValidator) CheckGuardrails(guardrails []entity.Guardrail) []OutOfRangeWarning {
	var warnings []OutOfRangeWarning
	for _, g := range guardrails {
		warnings = appendWarning(warnings, fmt.Sprintf("guardrail.%s.effectiveness", g.ID), g.Metrics.Effectiveness)
	}
	return warnings
}

// CheckEffectivenessSamples проверяет точки графика эффективности
func (v *RecordValidator) CheckEffectivenessSamples(samples []entity.EffectivenessSample) []OutOfRangeWarning {
	var warnings []OutOfRangeWarning
	for _, s := range samples {
		warnings = appendWarning(warnings, fmt.Sprintf("effectiveness.%s.effectiveness", s.Name), s.Effectiveness)
		warnings = appendWarning(warnings, fmt.Sprintf("effectiveness.%s.detection_rate", s.Name), s.DetectionRate)
		warnings = appendWarning(warnings, fmt.Sprintf("effectiveness.%s.prevention_rate", s.Name), s.PreventionRate)
	}
	return warnings
}

// CheckCostBreakdown проверяет доли расходов
func (v *RecordValidator) CheckCostBreakdown(items []entity.CostBreakdown) []OutOfRangeWarning {
	var warnings []OutOfRangeWarning
	for _, item := range items {
		warnings = appendWarning(warnings, fmt.Sprintf("cost.%s.percentage", item.Category), item.Percentage)
	}
	return warnings
}

// CheckPerformance проверяет процентные показатели производительности
func (v *RecordValidator) CheckPerformance(p entity.PerformanceMetrics) []OutOfRangeWarning {
	var warnings []OutOfRangeWarning
	warnings = appendWarning(warnings, "performance.uptime", p.Uptime)
	warnings = appendWarning(warnings, "performance.error_rate", p.ErrorRate)
	warnings = appendWarning(warnings, "performance.success_rate", p.SuccessRate)
	return warnings
}

func appendWarning(warnings []OutOfRangeWarning, field string, value float64) []OutOfRangeWarning {
	if _, w := ClampPercent(field, value); w != nil {
		return append(warnings, *w)
	}
	return warnings
}
