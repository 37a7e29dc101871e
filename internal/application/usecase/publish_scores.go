package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/dreschagin/rai-dashboard/internal/application/port"
	"github.com/dreschagin/rai-dashboard/pkg/logger"
)

const (
	perMetricRAI = "rai_metric"
	perMetricESG = "esg_category"
)

// PublishScoresUseCase периодически выгружает производные оценки во внешние системы
type PublishScoresUseCase struct {
	deriver   *Deriver
	publisher port.ScorePublisher
	metrics   port.DashboardMetrics
	logger    *logger.Logger
	now       func() time.Time
}

// NewPublishScoresUseCase создает новый use case. publisher и metrics могут быть nil.
func NewPublishScoresUseCase(
	deriver *Deriver,
	publisher port.ScorePublisher,
	metrics port.DashboardMetrics,
	logger *logger.Logger,
) *PublishScoresUseCase {
	return &PublishScoresUseCase{
		deriver:   deriver,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Samples вычисляет текущий набор оценок
func (uc *PublishScoresUseCase) Samples() ([]port.ScoreSample, error) {
	const page = "scores"
	ts := uc.now()

	rai, err := uc.deriver.raiScore(page)
	if err != nil {
		return nil, fmt.Errorf("failed to derive RAI score: %w", err)
	}
	esg, err := uc.deriver.esgReport(page)
	if err != nil {
		return nil, fmt.Errorf("failed to derive ESG score: %w", err)
	}
	stats, err := uc.deriver.guardrailStats(page)
	if err != nil {
		return nil, fmt.Errorf("failed to derive guardrail stats: %w", err)
	}

	cost := uc.deriver.store.CostMetrics()
	perf := uc.deriver.store.Performance()

	samples := []port.ScoreSample{
		{Name: "rai_overall_score", Kind: "rai", Value: float64(rai.OverallScore), Unit: "None", Timestamp: ts},
		{Name: "esg_overall_score", Kind: "esg", Value: float64(esg.OverallScore), Unit: "None", Timestamp: ts},
		{Name: "guardrail_effectiveness", Kind: "guardrails", Value: stats.OverallEffectiveness, Unit: "Percent", Timestamp: ts},
		{Name: "guardrail_blocked_total", Kind: "guardrails", Value: float64(stats.TotalBlocked), Unit: "Count", Timestamp: ts},
		{Name: "cost_daily_total", Kind: "cost", Value: cost.TotalDailyCost, Unit: "None", Timestamp: ts},
		{Name: "cost_per_1k_tokens", Kind: "cost", Value: cost.CostPerToken * 1000, Unit: "None", Timestamp: ts},
		{Name: "uptime", Kind: "performance", Value: clamp(perf.Uptime), Unit: "Percent", Timestamp: ts},
		{Name: "avg_latency", Kind: "performance", Value: perf.AvgLatencyMs, Unit: "Milliseconds", Timestamp: ts},
	}

	for _, m := range rai.Metrics {
		samples = append(samples, port.ScoreSample{
			Name: perMetricRAI, Kind: m.Name, Value: m.Value, Unit: "Percent", Timestamp: ts,
		})
	}
	for _, m := range esg.Metrics {
		samples = append(samples, port.ScoreSample{
			Name: perMetricESG, Kind: m.Category, Value: m.Score, Unit: "Percent", Timestamp: ts,
		})
	}

	return samples, nil
}

// Execute выполняет одну выгрузку
func (uc *PublishScoresUseCase) Execute(ctx context.Context) error {
	samples, err := uc.Samples()
	if err != nil {
		uc.logger.Error("Failed to derive scores", err)
		return err
	}

	if uc.metrics != nil {
		for _, s := range samples {
			uc.metrics.SetScore(scoreKey(s), s.Value)
		}
	}

	if uc.publisher == nil {
		return nil
	}
	if err := uc.publisher.PublishBatch(ctx, samples); err != nil {
		uc.logger.Warn("Failed to publish scores", "count", len(samples), "error", err.Error())
		return fmt.Errorf("failed to publish scores: %w", err)
	}

	uc.logger.Debug("Scores published", "count", len(samples))
	return nil
}

// Run выполняет Execute с заданным интервалом до отмены контекста
func (uc *PublishScoresUseCase) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Первая выгрузка сразу
	_ = uc.Execute(ctx)

	for {
		select {
		case <-ctx.Done():
			uc.logger.Info("Score publishing stopped")
			if uc.publisher != nil {
				flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				if err := uc.publisher.Flush(flushCtx); err != nil {
					uc.logger.Warn("Failed to flush scores", "error", err.Error())
				}
				cancel()
			}
			return
		case <-ticker.C:
			_ = uc.Execute(ctx)
		}
	}
}

// scoreKey имя оценки для Prometheus. У поштучных метрик к имени добавляется Kind.
func scoreKey(s port.ScoreSample) string {
	switch s.Name {
	case perMetricRAI, perMetricESG:
		return s.Name + "." + s.Kind
	default:
		return s.Name
	}
}
