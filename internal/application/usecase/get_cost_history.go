package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/dreschagin/rai-dashboard/internal/application/dto"
	"github.com/dreschagin/rai-dashboard/internal/application/port"
	"github.com/dreschagin/rai-dashboard/internal/domain/service"
	"github.com/dreschagin/rai-dashboard/internal/infrastructure/cache/redis"
	"github.com/dreschagin/rai-dashboard/pkg/logger"
)

// ErrTooManySamples запрошено больше отсчетов, чем разрешено конфигурацией
var ErrTooManySamples = errors.New("too many cost history samples requested")

// GetCostHistoryUseCase возвращает синтетическую историю расходов с кешированием
type GetCostHistoryUseCase struct {
	generator  *service.CostHistoryGenerator
	cache      port.Cache
	maxSamples int
	logger     *logger.Logger

	// генератор держит общий источник случайности
	mu sync.Mutex
}

// NewGetCostHistoryUseCase создает новый use case. cache может быть nil.
func NewGetCostHistoryUseCase(
	generator *service.CostHistoryGenerator,
	cache port.Cache,
	maxSamples int,
	logger *logger.Logger,
) *GetCostHistoryUseCase {
	return &GetCostHistoryUseCase{
		generator:  generator,
		cache:      cache,
		maxSamples: maxSamples,
		logger:     logger,
	}
}

// Execute возвращает samples отсчетов, последний соответствует текущему моменту
func (uc *GetCostHistoryUseCase) Execute(ctx context.Context, samples int) ([]dto.CostHistoryPointDTO, error) {
	if samples < 1 {
		return nil, fmt.Errorf("invalid sample count %d: %w", samples, service.ErrInvalidSampleCount)
	}
	if uc.maxSamples > 0 && samples > uc.maxSamples {
		return nil, fmt.Errorf("%d > %d: %w", samples, uc.maxSamples, ErrTooManySamples)
	}

	// Если кеш не настроен, генерируем напрямую
	if uc.cache == nil {
		return uc.generate(samples)
	}

	cacheKey := redis.GenerateCacheKey("cost_history", strconv.Itoa(samples))

	var cached []dto.CostHistoryPointDTO
	if err := uc.cache.Get(ctx, cacheKey, &cached); err == nil && len(cached) == samples {
		if err := uc.reanchor(cached); err == nil {
			uc.logger.Debug("Cache hit for cost history", "samples", samples)
			return cached, nil
		}
	}

	uc.logger.Debug("Cache miss for cost history, generating", "samples", samples)

	points, err := uc.generate(samples)
	if err != nil {
		return nil, err
	}

	// Сохраняем в кеш асинхронно, не блокируем ответ
	go func() {
		if err := uc.cache.Set(context.Background(), cacheKey, points); err != nil {
			uc.logger.Warn("Failed to cache cost history", "error", err.Error())
		}
	}()

	return points, nil
}

// reanchor переносит закешированные суммы на шкалу времени, заканчивающуюся сейчас
func (uc *GetCostHistoryUseCase) reanchor(points []dto.CostHistoryPointDTO) error {
	times, err := uc.generator.Timeline(len(points))
	if err != nil {
		return err
	}
	for i := range points {
		points[i].At = times[i]
		points[i].Label = service.CostHistoryLabel(times[i])
	}
	return nil
}

func (uc *GetCostHistoryUseCase) generate(samples int) ([]dto.CostHistoryPointDTO, error) {
	uc.mu.Lock()
	points, err := uc.generator.Generate(samples)
	uc.mu.Unlock()
	if err != nil {
		uc.logger.Error("Failed to generate cost history", err)
		return nil, fmt.Errorf("failed to generate cost history: %w", err)
	}
	return costHistoryDTOs(points), nil
}
