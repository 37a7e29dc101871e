package memory

import (
	"time"

	"github.com/dreschagin/rai-dashboard/internal/domain/entity"
	"github.com/dreschagin/rai-dashboard/internal/domain/repository"
)

// StaticStore хранилище статических наборов, собранных при старте
type StaticStore struct {
	rai            entity.RAIScoreData
	gaugeBands     []entity.GaugeBand
	esg            []entity.ESGMetric
	sustainability entity.SustainabilityMetrics
	guardrails     []entity.Guardrail
	effectiveness  []entity.EffectivenessSample
	liveEvents     []entity.LiveEvent
	tokenUsage     entity.TokenUsage
	costBreakdown  []entity.CostBreakdown
	costMetrics    entity.CostMetrics
	performance    entity.PerformanceMetrics
	incidents      []entity.Incident
	policies       []entity.Policy
	sidebar        []entity.SidebarItem
}

var _ repository.RecordStore = (*StaticStore)(nil)

// NewStaticStore создает хранилище с данными дашборда
func NewStaticStore(loadedAt time.Time) *StaticStore {
	return &StaticStore{
		rai: entity.RAIScoreData{
			Metrics:     seedRAIMetrics(),
			LastUpdated: loadedAt,
		},
		gaugeBands:     seedGaugeBands(),
		esg:            seedESGMetrics(),
		sustainability: seedSustainability(),
		guardrails:     seedGuardrails(),
		effectiveness:  seedEffectivenessSamples(),
		liveEvents:     seedLiveEvents(),
		tokenUsage:     seedTokenUsage(),
		costBreakdown:  seedCostBreakdown(),
		costMetrics:    seedCostMetrics(),
		performance:    seedPerformance(),
		incidents:      seedIncidents(),
		policies:       seedPolicies(),
		sidebar:        seedSidebarItems(),
	}
}

func (s *StaticStore) RAIScore() entity.RAIScoreData {
	return entity.RAIScoreData{
		Metrics:     clone(s.rai.Metrics),
		LastUpdated: s.rai.LastUpdated,
	}
}

func (s *StaticStore) GaugeBands() []entity.GaugeBand { return clone(s.gaugeBands) }

func (s *StaticStore) ESGMetrics() []entity.ESGMetric { return clone(s.esg) }

func (s *StaticStore) Sustainability() entity.SustainabilityMetrics { return s.sustainability }

func (s *StaticStore) Guardrails() []entity.Guardrail { return clone(s.guardrails) }

func (s *StaticStore) EffectivenessSamples() []entity.EffectivenessSample {
	return clone(s.effectiveness)
}

func (s *StaticStore) LiveEvents() []entity.LiveEvent { return clone(s.liveEvents) }

func (s *StaticStore) TokenUsage() entity.TokenUsage { return s.tokenUsage }

func (s *StaticStore) CostBreakdown() []entity.CostBreakdown { return clone(s.costBreakdown) }

func (s *StaticStore) CostMetrics() entity.CostMetrics { return s.costMetrics }

func (s *StaticStore) Performance() entity.PerformanceMetrics { return s.performance }

func (s *StaticStore) Incidents() []entity.Incident { return clone(s.incidents) }

func (s *StaticStore) Policies() []entity.Policy { return clone(s.policies) }

func (s *StaticStore) SidebarItems() []entity.SidebarItem { return clone(s.sidebar) }

func clone[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}
