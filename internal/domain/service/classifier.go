package service

import (
	"fmt"

	"github.com/dreschagin/rai-dashboard/internal/domain/valueobject"
)

// MetricKind место вызова классификации со своими порогами
type MetricKind string

const (
	// KindESGItem окраска отдельной карточки ESG
	KindESGItem MetricKind = "esg_item"
	// KindRAIVerdict вердикт по общей оценке RAI
	KindRAIVerdict MetricKind = "rai_verdict"
)

// Band пороги трехуровневой классификации: >= High хорошо, >= Low внимание, иначе плохо
type Band struct {
	Low  float64
	High float64
}

// Thresholds пороги по местам вызова. Общей константы нет намеренно.
type Thresholds map[MetricKind]Band

// GradeScale нижние границы буквенных оценок ESG
type GradeScale struct {
	A     float64
	BPlus float64
	B     float64
	C     float64
}

// DefaultThresholds пороги дашборда по умолчанию
func DefaultThresholds() Thresholds {
	return Thresholds{
		KindESGItem:    {Low: 70, High: 85},
		KindRAIVerdict: {Low: 65, High: 80},
	}
}

// DefaultGradeScale шкала букв по умолчанию
func DefaultGradeScale() GradeScale {
	return GradeScale{A: 90, BPlus: 80, B: 70, C: 60}
}

// Classifier переводит оценки в тона, вердикты и буквы (Domain Service)
type Classifier struct {
	thresholds Thresholds
	grades     GradeScale
}

// NewClassifier создает Classifier и проверяет конфигурацию
func NewClassifier(thresholds Thresholds, grades GradeScale) (*Classifier, error) {
	for _, kind := range []MetricKind{KindESGItem, KindRAIVerdict} {
		band, ok := thresholds[kind]
		if !ok {
			return nil, fmt.Errorf("missing thresholds for %s", kind)
		}
		if band.Low > band.High {
			return nil, fmt.Errorf("invalid thresholds for %s: low %g > high %g", kind, band.Low, band.High)
		}
	}
	if !(grades.A >= grades.BPlus && grades.BPlus >= grades.B && grades.B >= grades.C) {
		return nil, fmt.Errorf("grade scale must be descending: %+v", grades)
	}

	copied := make(Thresholds, len(thresholds))
	for k, v := range thresholds {
		copied[k] = v
	}
	return &Classifier{thresholds: copied, grades: grades}, nil
}

// MustDefaultClassifier классификатор с порогами по умолчанию
func MustDefaultClassifier() *Classifier {
	c, err := NewClassifier(DefaultThresholds(), DefaultGradeScale())
	if err != nil {
		panic(err)
	}
	return c
}

// Thresholds возвращает копию порогов
func (c *Classifier) Thresholds() Thresholds {
	copied := make(Thresholds, len(c.thresholds))
	for k, v := range c.thresholds {
		copied[k] = v
	}
	return copied
}

// Tone классифицирует оценку по порогам указанного места вызова
func (c *Classifier) Tone(kind MetricKind, score float64) (valueobject.Tone, error) {
	band, ok := c.thresholds[kind]
	if !ok {
		return "", fmt.Errorf("unknown metric kind: %s", kind)
	}

	switch {
	case score >= band.High:
		return valueobject.ToneSuccess, nil
	case score >= band.Low:
		return valueobject.ToneWarning, nil
	default:
		return valueobject.ToneDestructive, nil
	}
}

// Verdict вердикт по общей оценке RAI и его тон
func (c *Classifier) Verdict(score float64) (valueobject.Verdict, valueobject.Tone) {
	band := c.thresholds[KindRAIVerdict]
	switch {
	case score >= band.High:
		return valueobject.VerdictExcellent, valueobject.ToneSuccess
	case score >= band.Low:
		return valueobject.VerdictGood, valueobject.ToneWarning
	default:
		return valueobject.VerdictNeedsAttention, valueobject.ToneDestructive
	}
}

// Rating буквенная оценка ESG, нижняя граница включается
func (c *Classifier) Rating(score float64) valueobject.Rating {
	switch {
	case score >= c.grades.A:
		return valueobject.RatingA
	case score >= c.grades.BPlus:
		return valueobject.RatingBPlus
	case score >= c.grades.B:
		return valueobject.RatingB
	case score >= c.grades.C:
		return valueobject.RatingC
	default:
		return valueobject.RatingD
	}
}

// RatingTone тон буквенной оценки
func RatingTone(r valueobject.Rating) valueobject.Tone {
	switch r {
	case valueobject.RatingA:
		return valueobject.ToneSuccess
	case valueobject.RatingBPlus, valueobject.RatingB:
		return valueobject.ToneAccent
	case valueobject.RatingC:
		return valueobject.ToneWarning
	default:
		return valueobject.ToneDestructive
	}
}

// TrendTone тон общего тренда метрики
func TrendTone(t valueobject.Trend) valueobject.Tone {
	switch t {
	case valueobject.TrendUp:
		return valueobject.ToneSuccess
	case valueobject.TrendDown:
		return valueobject.ToneDestructive
	default:
		return valueobject.ToneMuted
	}
}

// RiskTone тон уровня риска (и важности события)
func RiskTone(r valueobject.RiskLevel) valueobject.Tone {
	switch r {
	case valueobject.RiskLow:
		return valueobject.ToneSuccess
	case valueobject.RiskMedium:
		return valueobject.ToneWarning
	default:
		return valueobject.ToneDestructive
	}
}

// EventTone тон исхода проверки в ленте событий
func EventTone(t valueobject.EventType) valueobject.Tone {
	switch t {
	case valueobject.EventBlocked:
		return valueobject.ToneDestructive
	case valueobject.EventTriggered:
		return valueobject.ToneWarning
	default:
		return valueobject.ToneSuccess
	}
}
