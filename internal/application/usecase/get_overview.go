package usecase

import (
	"context"
	"fmt"

	"github.com/dreschagin/rai-dashboard/internal/application/dto"
	"github.com/dreschagin/rai-dashboard/internal/domain/service"
	"github.com/dreschagin/rai-dashboard/internal/domain/valueobject"
)

// GetOverviewUseCase собирает домашнюю страницу: RAI, ESG и карточку расходов
type GetOverviewUseCase struct {
	deriver *Deriver
	router  *service.InteractionRouter
}

// NewGetOverviewUseCase создает новый use case
func NewGetOverviewUseCase(deriver *Deriver, router *service.InteractionRouter) *GetOverviewUseCase {
	return &GetOverviewUseCase{deriver: deriver, router: router}
}

// Execute строит обзор
func (uc *GetOverviewUseCase) Execute(_ context.Context) (*dto.OverviewDTO, error) {
	page := valueobject.SectionOverview.String()

	rai, err := uc.deriver.raiScore(page)
	if err != nil {
		return nil, fmt.Errorf("failed to derive overview RAI score: %w", err)
	}

	esg, err := uc.deriver.esgReport(page)
	if err != nil {
		return nil, fmt.Errorf("failed to derive overview ESG report: %w", err)
	}

	usage := uc.deriver.store.TokenUsage()
	costMetrics := uc.deriver.store.CostMetrics()
	target, _ := uc.router.Route(service.InteractionCostCard, "")

	return &dto.OverviewDTO{
		RAIScore: *rai,
		ESG:      *esg,
		CostCard: dto.CostCardDTO{
			TotalCost:     service.FormatCurrency(usage.TotalCost),
			TotalTokens:   usage.TotalTokens,
			Model:         usage.Model,
			Trend:         costTrendDTO(costMetrics.CostTrend),
			TargetSection: target.String(),
		},
	}, nil
}
