package entity

import "github.com/dreschagin/rai-dashboard/internal/domain/valueobject"

// ESGMetric оценка по одной оси ESG
type ESGMetric struct {
	Category valueobject.ESGCategory
	Score    float64
	Status   valueobject.ESGStatus
	Details  string
	Color    string
}

// SustainabilityMetrics ресурсы, затраченные на один инференс
type SustainabilityMetrics struct {
	EnergyKWh   float64
	CarbonGCO2  float64
	WaterLiters float64
	ModelName   string
}
