package usecase

import (
	"context"
	"fmt"

	"github.com/dreschagin/rai-dashboard/internal/application/dto"
)

// GetESGReportUseCase возвращает отчет ESG с буквенной оценкой
type GetESGReportUseCase struct {
	deriver *Deriver
}

// NewGetESGReportUseCase создает новый use case
func NewGetESGReportUseCase(deriver *Deriver) *GetESGReportUseCase {
	return &GetESGReportUseCase{deriver: deriver}
}

// Execute вычисляет общую оценку ESG и тона карточек
func (uc *GetESGReportUseCase) Execute(_ context.Context) (*dto.ESGReportDTO, error) {
	report, err := uc.deriver.esgReport("esg")
	if err != nil {
		uc.deriver.logger.Error("Failed to derive ESG report", err)
		return nil, fmt.Errorf("failed to derive ESG report: %w", err)
	}
	return report, nil
}
