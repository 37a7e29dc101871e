package usecase

import (
	"context"
	"fmt"

	"github.com/dreschagin/rai-dashboard/internal/application/dto"
	"github.com/dreschagin/rai-dashboard/internal/domain/service"
	"github.com/dreschagin/rai-dashboard/internal/domain/valueobject"
)

// GetCostReportUseCase раздел устойчивости и расходов
type GetCostReportUseCase struct {
	deriver        *Deriver
	history        *GetCostHistoryUseCase
	historySamples int
}

// NewGetCostReportUseCase создает новый use case
func NewGetCostReportUseCase(deriver *Deriver, history *GetCostHistoryUseCase, historySamples int) *GetCostReportUseCase {
	return &GetCostReportUseCase{
		deriver:        deriver,
		history:        history,
		historySamples: historySamples,
	}
}

// Execute собирает учет токенов, разбивку расходов, тренд и историю
func (uc *GetCostReportUseCase) Execute(ctx context.Context) (*dto.CostReportDTO, error) {
	store := uc.deriver.store

	breakdownRecords := store.CostBreakdown()
	uc.deriver.reportWarnings(valueobject.SectionSustainability.String(), uc.deriver.validator.CheckCostBreakdown(breakdownRecords))

	breakdown := make([]dto.CostBreakdownDTO, 0, len(breakdownRecords))
	for _, b := range breakdownRecords {
		breakdown = append(breakdown, dto.CostBreakdownDTO{
			Category:   b.Category,
			Cost:       b.Cost,
			CostLabel:  service.FormatCurrency(b.Cost),
			Percentage: clamp(b.Percentage),
			Color:      b.Color,
		})
	}

	usage := store.TokenUsage()
	metrics := store.CostMetrics()
	per1K := service.CostPer1KTokens(metrics.CostPerToken)

	history, err := uc.history.Execute(ctx, uc.historySamples)
	if err != nil {
		return nil, fmt.Errorf("failed to build cost history: %w", err)
	}

	return &dto.CostReportDTO{
		TokenUsage: dto.TokenUsageDTO{
			TotalTokens:        usage.TotalTokens,
			PromptTokens:       usage.PromptTokens,
			CompletionTokens:   usage.CompletionTokens,
			SuccessfulRequests: usage.SuccessfulRequests,
			TotalCost:          usage.TotalCost,
			TotalCostLabel:     service.FormatCurrency(usage.TotalCost),
			TimeTakenSeconds:   usage.TimeTakenSeconds,
			Provider:           usage.Provider,
			Model:              usage.Model,
		},
		Breakdown: breakdown,
		Metrics: dto.CostMetricsDTO{
			TotalDailyCost:       metrics.TotalDailyCost,
			TotalDailyCostLabel:  service.FormatCurrency(metrics.TotalDailyCost),
			CostPerToken:         metrics.CostPerToken,
			CostPer1KTokens:      per1K,
			CostPer1KTokensLabel: service.FormatCurrency(per1K),
			CostPerMinute:        metrics.CostPerMinute,
			CostPerMinuteLabel:   service.FormatCurrency(metrics.CostPerMinute),
			Trend:                costTrendDTO(metrics.CostTrend),
		},
		Sustainability: sustainabilityDTO(store.Sustainability()),
		History:        history,
	}, nil
}
