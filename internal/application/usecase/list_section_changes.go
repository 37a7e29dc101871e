package usecase

import (
	"context"
	"fmt"

	"github.com/dreschagin/rai-dashboard/internal/application/dto"
	"github.com/dreschagin/rai-dashboard/internal/domain/repository"
	"github.com/dreschagin/rai-dashboard/pkg/logger"
)

const (
	defaultSectionChangesLimit = 50
	maxSectionChangesLimit     = 500
)

// ListSectionChangesUseCase читает журнал смен раздела
type ListSectionChangesUseCase struct {
	repository repository.SectionChangeRepository
	logger     *logger.Logger
}

// NewListSectionChangesUseCase создает новый use case
func NewListSectionChangesUseCase(repo repository.SectionChangeRepository, logger *logger.Logger) *ListSectionChangesUseCase {
	return &ListSectionChangesUseCase{
		repository: repo,
		logger:     logger,
	}
}

// Execute возвращает последние limit событий, новые первыми
func (uc *ListSectionChangesUseCase) Execute(ctx context.Context, limit int) ([]dto.SectionChangeDTO, error) {
	if limit <= 0 {
		limit = defaultSectionChangesLimit
	}
	if limit > maxSectionChangesLimit {
		limit = maxSectionChangesLimit
	}

	changes, err := uc.repository.FindRecent(ctx, limit)
	if err != nil {
		uc.logger.Error("Failed to load section changes", err, "limit", limit)
		return nil, fmt.Errorf("failed to load section changes: %w", err)
	}

	result := make([]dto.SectionChangeDTO, 0, len(changes))
	for _, c := range changes {
		result = append(result, dto.FromSectionChange(c))
	}
	return result, nil
}
