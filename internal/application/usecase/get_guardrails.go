package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/dreschagin/rai-dashboard/internal/application/dto"
	"github.com/dreschagin/rai-dashboard/internal/domain/service"
	"github.com/dreschagin/rai-dashboard/internal/domain/valueobject"
)

// GetGuardrailsUseCase строит раздел настройки guardrail
type GetGuardrailsUseCase struct {
	deriver *Deriver
}

// NewGetGuardrailsUseCase создает новый use case
func NewGetGuardrailsUseCase(deriver *Deriver) *GetGuardrailsUseCase {
	return &GetGuardrailsUseCase{deriver: deriver}
}

// Execute возвращает guardrail, агрегаты и график эффективности
func (uc *GetGuardrailsUseCase) Execute(_ context.Context) (*dto.GuardrailsPageDTO, error) {
	page := valueobject.SectionGuardrails.String()

	stats, err := uc.deriver.guardrailStats(page)
	if err != nil {
		return nil, fmt.Errorf("failed to derive guardrail stats: %w", err)
	}

	samples, summary, err := uc.deriver.effectiveness(page)
	if err != nil {
		return nil, fmt.Errorf("failed to derive effectiveness summary: %w", err)
	}

	records := uc.deriver.store.Guardrails()
	guardrails := make([]dto.GuardrailDTO, 0, len(records))
	for _, g := range records {
		derived, err := uc.deriver.aggregator.GuardrailEffectiveness(g)
		if err != nil && !errors.Is(err, service.ErrEmptyInput) {
			return nil, err
		}
		// guardrail без срабатываний показывается без вычисленной эффективности
		guardrails = append(guardrails, dto.GuardrailDTO{
			ID:                   g.ID,
			Name:                 g.Name,
			Description:          g.Description,
			Type:                 string(g.Type),
			Status:               string(g.Status),
			Category:             g.Category,
			Triggered:            g.Metrics.Triggered,
			Blocked:              g.Metrics.Blocked,
			Passed:               g.Metrics.Passed,
			Effectiveness:        clamp(g.Metrics.Effectiveness),
			DerivedEffectiveness: derived,
			LastTriggered:        g.LastTriggered,
			CreatedAt:            g.CreatedAt,
		})
	}

	return &dto.GuardrailsPageDTO{
		Stats:         *stats,
		Guardrails:    guardrails,
		Effectiveness: samples,
		Summary:       summary,
	}, nil
}
