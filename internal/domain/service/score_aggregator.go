package service

import (
	"fmt"
	"math"

	"github.com/dreschagin/rai-dashboard/internal/domain/entity"
)

// ScoreAggregator вычисляет агрегаты из исходных наборов (Domain Service)
// Агрегаты никогда не хранятся, а всегда пересчитываются из записей.
type ScoreAggregator struct{}

// NewScoreAggregator создает новый ScoreAggregator
func NewScoreAggregator() *ScoreAggregator {
	return &ScoreAggregator{}
}

// OverallESGScore среднее по оценкам ESG, округленное до целого
func (a *ScoreAggregator) OverallESGScore(metrics []entity.ESGMetric) (int, error) {
	if len(metrics) == 0 {
		return 0, emptyInput("overall ESG score")
	}

	var sum float64
	for _, m := range metrics {
		sum += m.Score
	}
	return roundHalfUp(sum / float64(len(metrics))), nil
}

// OverallRAIScore среднее по метрикам RAI, округленное до целого
func (a *ScoreAggregator) OverallRAIScore(metrics []entity.RAIMetric) (int, error) {
	if len(metrics) == 0 {
		return 0, emptyInput("overall RAI score")
	}

	var sum float64
	for _, m := range metrics {
		sum += m.Value
	}
	return roundHalfUp(sum / float64(len(metrics))), nil
}

// GuardrailEffectiveness доля заблокированных среди сработавших, в процентах
func (a *ScoreAggregator) GuardrailEffectiveness(g entity.Guardrail) (float64, error) {
	if g.Metrics.Triggered == 0 {
		return 0, emptyInput(fmt.Sprintf("guardrail %s effectiveness", g.ID))
	}
	return percentage(g.Metrics.Blocked, g.Metrics.Triggered), nil
}

// GuardrailStats строит агрегат по набору guardrail.
// Категории идут в порядке первого появления.
func (a *ScoreAggregator) GuardrailStats(guardrails []entity.Guardrail) (entity.GuardrailsStats, error) {
	if len(guardrails) == 0 {
		return entity.GuardrailsStats{}, emptyInput("guardrail stats")
	}

	type bucket struct {
		count     int
		blocked   int
		triggered int
	}

	stats := entity.GuardrailsStats{TotalGuardrails: len(guardrails)}
	buckets := make(map[string]*bucket)
	var order []string

	for _, g := range guardrails {
		if g.IsActive() {
			stats.ActiveGuardrails++
		}
		stats.TotalBlocked += g.Metrics.Blocked
		stats.TotalTriggered += g.Metrics.Triggered
		stats.TotalPassed += g.Metrics.Passed

		b, ok := buckets[g.Category]
		if !ok {
			b = &bucket{}
			buckets[g.Category] = b
			order = append(order, g.Category)
		}
		b.count++
		b.blocked += g.Metrics.Blocked
		b.triggered += g.Metrics.Triggered
	}

	if stats.TotalTriggered == 0 {
		return entity.GuardrailsStats{}, emptyInput("guardrail overall effectiveness")
	}
	stats.OverallEffectiveness = roundTo1(percentage(stats.TotalBlocked, stats.TotalTriggered))

	stats.ByCategory = make([]entity.CategoryStats, 0, len(order))
	for _, category := range order {
		b := buckets[category]
		if b.triggered == 0 {
			return entity.GuardrailsStats{}, emptyInput(fmt.Sprintf("guardrail category %s effectiveness", category))
		}
		stats.ByCategory = append(stats.ByCategory, entity.CategoryStats{
			Category:      category,
			Count:         b.count,
			Effectiveness: roundTo1(percentage(b.blocked, b.triggered)),
		})
	}

	return stats, nil
}

// EffectivenessSummary средние по точкам графика эффективности, один знак после запятой
func (a *ScoreAggregator) EffectivenessSummary(samples []entity.EffectivenessSample) (entity.EffectivenessSample, error) {
	if len(samples) == 0 {
		return entity.EffectivenessSample{}, emptyInput("effectiveness summary")
	}

	var summary entity.EffectivenessSample
	for _, s := range samples {
		summary.Effectiveness += s.Effectiveness
		summary.DetectionRate += s.DetectionRate
		summary.PreventionRate += s.PreventionRate
	}

	n := float64(len(samples))
	summary.Name = "Average"
	summary.Effectiveness = roundTo1(summary.Effectiveness / n)
	summary.DetectionRate = roundTo1(summary.DetectionRate / n)
	summary.PreventionRate = roundTo1(summary.PreventionRate / n)
	return summary, nil
}

func percentage(part, total int) float64 {
	return 100 * float64(part) / float64(total)
}

// roundHalfUp округляет половину вверх, как это делает дашборд при выводе
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}
