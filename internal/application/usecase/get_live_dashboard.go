package usecase

import (
	"context"
	"fmt"

	"github.com/dreschagin/rai-dashboard/internal/application/dto"
	"github.com/dreschagin/rai-dashboard/internal/domain/valueobject"
)

// GetLiveDashboardUseCase строит живой дашборд guardrail
type GetLiveDashboardUseCase struct {
	deriver *Deriver
}

// NewGetLiveDashboardUseCase создает новый use case
func NewGetLiveDashboardUseCase(deriver *Deriver) *GetLiveDashboardUseCase {
	return &GetLiveDashboardUseCase{deriver: deriver}
}

// Execute возвращает агрегаты, ленту событий и график эффективности
func (uc *GetLiveDashboardUseCase) Execute(_ context.Context) (*dto.LiveDashboardDTO, error) {
	page := valueobject.SectionLiveDashboard.String()

	stats, err := uc.deriver.guardrailStats(page)
	if err != nil {
		return nil, fmt.Errorf("failed to derive guardrail stats: %w", err)
	}

	samples, summary, err := uc.deriver.effectiveness(page)
	if err != nil {
		return nil, fmt.Errorf("failed to derive effectiveness summary: %w", err)
	}

	return &dto.LiveDashboardDTO{
		Stats:         *stats,
		DetectionRate: summary.DetectionRate,
		Events:        uc.Events(),
		Effectiveness: samples,
	}, nil
}

// Events возвращает ленту событий с тонами
func (uc *GetLiveDashboardUseCase) Events() []dto.LiveEventDTO {
	records := uc.deriver.store.LiveEvents()
	events := make([]dto.LiveEventDTO, 0, len(records))
	for _, e := range records {
		events = append(events, liveEventDTO(e))
	}
	return events
}
