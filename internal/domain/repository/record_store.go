package repository

import "github.com/dreschagin/rai-dashboard/internal/domain/entity"

// RecordStore определяет доступ к статическим наборам метрик (Port)
// Данные только для чтения, каждый вызов возвращает копию.
type RecordStore interface {
	RAIScore() entity.RAIScoreData
	GaugeBands() []entity.GaugeBand
	ESGMetrics() []entity.ESGMetric
	Sustainability() entity.SustainabilityMetrics
	Guardrails() []entity.Guardrail
	EffectivenessSamples() []entity.EffectivenessSample
	LiveEvents() []entity.LiveEvent
	TokenUsage() entity.TokenUsage
	CostBreakdown() []entity.CostBreakdown
	CostMetrics() entity.CostMetrics
	Performance() entity.PerformanceMetrics
	Incidents() []entity.Incident
	Policies() []entity.Policy
	SidebarItems() []entity.SidebarItem
}
