package service

import (
	"errors"
	"math/rand"
	"time"

	"github.com/dreschagin/rai-dashboard/internal/domain/entity"
	"github.com/dreschagin/rai-dashboard/internal/domain/valueobject"
)

const (
	DefaultCostHistoryBase    = 0.022
	DefaultCostHistorySpacing = 3 * time.Minute

	// Доли от общей суммы, остаток покрывают инфраструктура и энергия
	promptShare     = 0.7
	completionShare = 0.2

	// Фиксированные составляющие, не входят в TotalCost
	fixedInfraCost  = 0.0014
	fixedEnergyCost = 0.00045

	jitterLow  = 0.8
	jitterSpan = 0.4
)

// ErrInvalidSampleCount запрошено меньше одного отсчета
var ErrInvalidSampleCount = errors.New("sample count must be at least 1")

// CostHistoryConfig параметры генератора истории расходов
type CostHistoryConfig struct {
	Base    float64
	Spacing time.Duration
	// Rand источник случайности, по умолчанию засевается текущим временем
	Rand *rand.Rand
	// Now часы генератора, по умолчанию time.Now
	Now func() time.Time
}

// CostHistoryGenerator строит синтетическую историю расходов (Domain Service)
// Результат недетерминирован, стабильны только форма и диапазоны.
type CostHistoryGenerator struct {
	base    float64
	spacing time.Duration
	rnd     *rand.Rand
	now     func() time.Time
}

// NewCostHistoryGenerator создает генератор, подставляя значения по умолчанию
func NewCostHistoryGenerator(cfg CostHistoryConfig) *CostHistoryGenerator {
	g := &CostHistoryGenerator{
		base:    cfg.Base,
		spacing: cfg.Spacing,
		rnd:     cfg.Rand,
		now:     cfg.Now,
	}
	if g.base <= 0 {
		g.base = DefaultCostHistoryBase
	}
	if g.spacing <= 0 {
		g.spacing = DefaultCostHistorySpacing
	}
	if g.rnd == nil {
		g.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if g.now == nil {
		g.now = time.Now
	}
	return g
}

// Base возвращает базовую сумму
func (g *CostHistoryGenerator) Base() float64 {
	return g.base
}

// Spacing возвращает шаг между отсчетами
func (g *CostHistoryGenerator) Spacing() time.Duration {
	return g.spacing
}

// Timeline возвращает n моментов с шагом Spacing, последний равен текущему моменту
func (g *CostHistoryGenerator) Timeline(n int) ([]time.Time, error) {
	if n < 1 {
		return nil, ErrInvalidSampleCount
	}

	window, err := valueobject.SpacedRange(n, g.spacing, g.now())
	if err != nil {
		return nil, err
	}

	times := make([]time.Time, n)
	for i := range times {
		times[i] = window.Start().Add(time.Duration(i) * g.spacing)
	}
	return times, nil
}

// CostHistoryLabel подпись отсчета на графике
func CostHistoryLabel(at time.Time) string {
	return at.Format("15:04")
}

// Generate возвращает n отсчетов, последний соответствует текущему моменту.
// Не безопасен для параллельного вызова, если Rand общий.
func (g *CostHistoryGenerator) Generate(n int) ([]entity.CostHistoryPoint, error) {
	times, err := g.Timeline(n)
	if err != nil {
		return nil, err
	}

	points := make([]entity.CostHistoryPoint, 0, n)
	for _, at := range times {
		total := g.base * (jitterLow + g.rnd.Float64()*jitterSpan)

		points = append(points, entity.CostHistoryPoint{
			At:             at,
			Label:          CostHistoryLabel(at),
			TotalCost:      total,
			PromptCost:     total * promptShare,
			CompletionCost: total * completionShare,
			InfraCost:      fixedInfraCost,
			EnergyCost:     fixedEnergyCost,
		})
	}
	return points, nil
}
