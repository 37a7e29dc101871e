package usecase

import (
	"github.com/dreschagin/rai-dashboard/internal/application/dto"
	"github.com/dreschagin/rai-dashboard/internal/application/port"
	"github.com/dreschagin/rai-dashboard/internal/domain/entity"
	"github.com/dreschagin/rai-dashboard/internal/domain/repository"
	"github.com/dreschagin/rai-dashboard/internal/domain/service"
	"github.com/dreschagin/rai-dashboard/internal/domain/valueobject"
	"github.com/dreschagin/rai-dashboard/pkg/logger"
)

// Deriver общий набор зависимостей для построения страниц из статических записей.
// Сам по себе состояния не имеет.
type Deriver struct {
	store      repository.RecordStore
	aggregator *service.ScoreAggregator
	classifier *service.Classifier
	validator  *service.RecordValidator
	metrics    port.DashboardMetrics
	logger     *logger.Logger
}

// NewDeriver создает Deriver. metrics может быть nil.
func NewDeriver(
	store repository.RecordStore,
	aggregator *service.ScoreAggregator,
	classifier *service.Classifier,
	validator *service.RecordValidator,
	metrics port.DashboardMetrics,
	logger *logger.Logger,
) *Deriver {
	return &Deriver{
		store:      store,
		aggregator: aggregator,
		classifier: classifier,
		validator:  validator,
		metrics:    metrics,
		logger:     logger,
	}
}

// Store возвращает хранилище записей
func (d *Deriver) Store() repository.RecordStore {
	return d.store
}

// reportWarnings пишет предупреждения о выходе за диапазон и учитывает их в метриках
func (d *Deriver) reportWarnings(page string, warnings []service.OutOfRangeWarning) {
	if len(warnings) == 0 {
		return
	}
	for _, w := range warnings {
		d.logger.Warn("Value out of range, clamped for display",
			"page", page,
			"field", w.Field,
			"value", w.Value,
			"clamped", w.Clamped)
	}
	if d.metrics != nil {
		d.metrics.ObserveRangeWarnings(page, len(warnings))
	}
}

func clamp(v float64) float64 {
	return valueobject.NewPercent(v).Value()
}

// clampedRAIMetrics копия метрик с ограниченными значениями.
// Итоговые оценки считаются по тем же значениям, что и показываются.
func clampedRAIMetrics(metrics []entity.RAIMetric) []entity.RAIMetric {
	out := make([]entity.RAIMetric, len(metrics))
	for i, m := range metrics {
		m.Value = clamp(m.Value)
		out[i] = m
	}
	return out
}

func clampedESGMetrics(metrics []entity.ESGMetric) []entity.ESGMetric {
	out := make([]entity.ESGMetric, len(metrics))
	for i, m := range metrics {
		m.Score = clamp(m.Score)
		out[i] = m
	}
	return out
}

func clampedSamples(samples []entity.EffectivenessSample) []entity.EffectivenessSample {
	out := make([]entity.EffectivenessSample, len(samples))
	for i, s := range samples {
		s.Effectiveness = clamp(s.Effectiveness)
		s.DetectionRate = clamp(s.DetectionRate)
		s.PreventionRate = clamp(s.PreventionRate)
		out[i] = s
	}
	return out
}

func (d *Deriver) raiScore(page string) (*dto.RAIScoreDTO, error) {
	data := d.store.RAIScore()
	d.reportWarnings(page, d.validator.CheckRAIMetrics(data.Metrics))

	overall, err := d.aggregator.OverallRAIScore(clampedRAIMetrics(data.Metrics))
	if err != nil {
		return nil, err
	}
	verdict, verdictTone := d.classifier.Verdict(float64(overall))

	metrics := make([]dto.RAIMetricDTO, 0, len(data.Metrics))
	for _, m := range data.Metrics {
		metrics = append(metrics, dto.RAIMetricDTO{
			Name:      m.Name,
			Value:     clamp(m.Value),
			Color:     m.Color,
			Trend:     string(m.Trend),
			TrendIcon: m.Trend.Icon(),
			TrendTone: service.TrendTone(m.Trend).String(),
			RiskLevel: string(m.RiskLevel),
			RiskTone:  service.RiskTone(m.RiskLevel).String(),
		})
	}

	bands := d.store.GaugeBands()
	gauge := make([]dto.GaugeBandDTO, 0, len(bands))
	for _, b := range bands {
		gauge = append(gauge, dto.GaugeBandDTO{Name: b.Name, Value: b.Value, Color: b.Color})
	}

	return &dto.RAIScoreDTO{
		OverallScore: overall,
		Verdict:      string(verdict),
		VerdictTone:  verdictTone.String(),
		Metrics:      metrics,
		GaugeBands:   gauge,
		LastUpdated:  data.LastUpdated,
	}, nil
}

func (d *Deriver) esgReport(page string) (*dto.ESGReportDTO, error) {
	records := d.store.ESGMetrics()
	d.reportWarnings(page, d.validator.CheckESGMetrics(records))

	overall, err := d.aggregator.OverallESGScore(clampedESGMetrics(records))
	if err != nil {
		return nil, err
	}
	rating := d.classifier.Rating(float64(overall))

	metrics := make([]dto.ESGMetricDTO, 0, len(records))
	for _, m := range records {
		score := clamp(m.Score)
		tone, err := d.classifier.Tone(service.KindESGItem, score)
		if err != nil {
			return nil, err
		}
		metrics = append(metrics, dto.ESGMetricDTO{
			Category: string(m.Category),
			Score:    score,
			Status:   string(m.Status),
			Details:  m.Details,
			Color:    m.Color,
			Tone:     tone.String(),
		})
	}

	return &dto.ESGReportDTO{
		OverallScore:   overall,
		Rating:         string(rating),
		RatingTone:     service.RatingTone(rating).String(),
		Metrics:        metrics,
		Sustainability: sustainabilityDTO(d.store.Sustainability()),
	}, nil
}

func sustainabilityDTO(s entity.SustainabilityMetrics) dto.SustainabilityDTO {
	return dto.SustainabilityDTO{
		EnergyKWh:   s.EnergyKWh,
		CarbonGCO2:  s.CarbonGCO2,
		WaterLiters: s.WaterLiters,
		ModelName:   s.ModelName,
	}
}

func costTrendDTO(percent float64) dto.CostTrendDTO {
	view := service.CostTrend(percent)
	return dto.CostTrendDTO{
		Percent:   view.Percent,
		Label:     view.Label,
		Favorable: view.Favorable,
		Tone:      view.Tone.String(),
		Direction: string(view.Direction),
		Icon:      view.Direction.Icon(),
	}
}

func (d *Deriver) guardrailStats(page string) (*dto.GuardrailsStatsDTO, error) {
	guardrails := d.store.Guardrails()
	d.reportWarnings(page, d.validator.CheckGuardrails(guardrails))

	stats, err := d.aggregator.GuardrailStats(guardrails)
	if err != nil {
		return nil, err
	}

	categories := make([]dto.CategoryStatsDTO, 0, len(stats.ByCategory))
	for _, c := range stats.ByCategory {
		categories = append(categories, dto.CategoryStatsDTO{
			Category:      c.Category,
			Count:         c.Count,
			Effectiveness: c.Effectiveness,
		})
	}

	return &dto.GuardrailsStatsDTO{
		TotalGuardrails:      stats.TotalGuardrails,
		ActiveGuardrails:     stats.ActiveGuardrails,
		TotalBlocked:         stats.TotalBlocked,
		TotalTriggered:       stats.TotalTriggered,
		TotalPassed:          stats.TotalPassed,
		OverallEffectiveness: stats.OverallEffectiveness,
		ByCategory:           categories,
	}, nil
}

func (d *Deriver) effectiveness(page string) ([]dto.EffectivenessSampleDTO, dto.EffectivenessSampleDTO, error) {
	samples := d.store.EffectivenessSamples()
	d.reportWarnings(page, d.validator.CheckEffectivenessSamples(samples))

	summary, err := d.aggregator.EffectivenessSummary(clampedSamples(samples))
	if err != nil {
		return nil, dto.EffectivenessSampleDTO{}, err
	}

	result := make([]dto.EffectivenessSampleDTO, 0, len(samples))
	for _, s := range samples {
		result = append(result, dto.EffectivenessSampleDTO{
			Name:           s.Name,
			Effectiveness:  clamp(s.Effectiveness),
			DetectionRate:  clamp(s.DetectionRate),
			PreventionRate: clamp(s.PreventionRate),
			Color:          s.Color,
		})
	}

	return result, dto.EffectivenessSampleDTO{
		Name:           summary.Name,
		Effectiveness:  summary.Effectiveness,
		DetectionRate:  summary.DetectionRate,
		PreventionRate: summary.PreventionRate,
	}, nil
}

func liveEventDTO(e entity.LiveEvent) dto.LiveEventDTO {
	return dto.LiveEventDTO{
		ID:           e.ID,
		Type:         string(e.Type),
		Tone:         service.EventTone(e.Type).String(),
		Guardrail:    e.Guardrail,
		Message:      e.Message,
		Time:         e.Time,
		Severity:     string(e.Severity),
		SeverityTone: service.RiskTone(e.Severity).String(),
	}
}

func costHistoryDTOs(points []entity.CostHistoryPoint) []dto.CostHistoryPointDTO {
	result := make([]dto.CostHistoryPointDTO, 0, len(points))
	for _, p := range points {
		result = append(result, dto.CostHistoryPointDTO{
			At:             p.At,
			Label:          p.Label,
			TotalCost:      p.TotalCost,
			PromptCost:     p.PromptCost,
			CompletionCost: p.CompletionCost,
			InfraCost:      p.InfraCost,
			EnergyCost:     p.EnergyCost,
		})
	}
	return result
}
