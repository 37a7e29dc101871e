package service

import (
	"github.com/dreschagin/rai-dashboard/internal/domain/valueobject"
)

// InteractionKind тип клика на обзорной странице
type InteractionKind string

const (
	InteractionMetric   InteractionKind = "metric"
	InteractionCategory InteractionKind = "category"
	InteractionCostCard InteractionKind = "cost-card"
)

// InteractionRouter сопоставляет клики на обзоре с разделами (Domain Service)
type InteractionRouter struct {
	metricTargets   map[string]valueobject.DashboardSection
	categoryTargets map[string]valueobject.DashboardSection
	costCardTarget  valueobject.DashboardSection
}

// NewInteractionRouter создает маршрутизатор с переходами дашборда
func NewInteractionRouter() *InteractionRouter {
	return &InteractionRouter{
		metricTargets: map[string]valueobject.DashboardSection{
			"AI Safety": valueobject.SectionPerformance,
		},
		categoryTargets: map[string]valueobject.DashboardSection{
			string(valueobject.ESGEnvironmental): valueobject.SectionSustainability,
		},
		costCardTarget: valueobject.SectionSustainability,
	}
}

// Route возвращает раздел для перехода. false означает, что клик только логируется.
func (r *InteractionRouter) Route(kind InteractionKind, name string) (valueobject.DashboardSection, bool) {
	switch kind {
	case InteractionMetric:
		section, ok := r.metricTargets[name]
		return section, ok
	case InteractionCategory:
		section, ok := r.categoryTargets[name]
		return section, ok
	case InteractionCostCard:
		return r.costCardTarget, true
	default:
		return "", false
	}
}
