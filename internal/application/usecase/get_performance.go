package usecase

import (
	"context"

	"github.com/dreschagin/rai-dashboard/internal/application/dto"
	"github.com/dreschagin/rai-dashboard/internal/domain/valueobject"
)

// GetPerformanceUseCase раздел производительности и надежности
type GetPerformanceUseCase struct {
	deriver *Deriver
}

// NewGetPerformanceUseCase создает новый use case
func NewGetPerformanceUseCase(deriver *Deriver) *GetPerformanceUseCase {
	return &GetPerformanceUseCase{deriver: deriver}
}

// Execute возвращает показатели и инциденты
func (uc *GetPerformanceUseCase) Execute(_ context.Context) (*dto.PerformanceDTO, error) {
	p := uc.deriver.store.Performance()
	uc.deriver.reportWarnings(valueobject.SectionPerformance.String(), uc.deriver.validator.CheckPerformance(p))

	records := uc.deriver.store.Incidents()
	incidents := make([]dto.IncidentDTO, 0, len(records))
	for _, i := range records {
		incidents = append(incidents, dto.IncidentDTO{
			ID:       i.ID,
			Status:   i.Status,
			Title:    i.Title,
			Time:     i.Time,
			Duration: i.Duration,
		})
	}

	return &dto.PerformanceDTO{
		Metrics: dto.PerformanceMetricsDTO{
			AvgLatencyMs:      p.AvgLatencyMs,
			P99LatencyMs:      p.P99LatencyMs,
			Uptime:            clamp(p.Uptime),
			RequestsPerMinute: p.RequestsPerMinute,
			ErrorRate:         clamp(p.ErrorRate),
			SuccessRate:       clamp(p.SuccessRate),
		},
		Incidents: incidents,
	}, nil
}
