package entity

import (
	"time"

	"github.com/dreschagin/rai-dashboard/internal/domain/valueobject"
)

// RAIMetric отдельная метрика Responsible AI
type RAIMetric struct {
	Name      string
	Value     float64
	Color     string
	Trend     valueobject.Trend
	RiskLevel valueobject.RiskLevel
}

// RAIScoreData набор метрик RAI. Общая оценка не хранится, а вычисляется.
type RAIScoreData struct {
	Metrics     []RAIMetric
	LastUpdated time.Time
}

// GaugeBand цветовая зона фона шкалы RAI
type GaugeBand struct {
	Name  string
	Value float64
	Color string
}
