package usecase

import (
	"context"
	"fmt"

	"github.com/dreschagin/rai-dashboard/internal/application/dto"
)

// GetRAIScoreUseCase возвращает общую оценку RAI с вердиктом
type GetRAIScoreUseCase struct {
	deriver *Deriver
}

// NewGetRAIScoreUseCase создает новый use case
func NewGetRAIScoreUseCase(deriver *Deriver) *GetRAIScoreUseCase {
	return &GetRAIScoreUseCase{deriver: deriver}
}

// Execute вычисляет оценку из метрик RAI
func (uc *GetRAIScoreUseCase) Execute(_ context.Context) (*dto.RAIScoreDTO, error) {
	score, err := uc.deriver.raiScore("rai_score")
	if err != nil {
		uc.deriver.logger.Error("Failed to derive RAI score", err)
		return nil, fmt.Errorf("failed to derive RAI score: %w", err)
	}
	return score, nil
}
