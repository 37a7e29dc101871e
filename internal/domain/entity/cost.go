package entity

import "time"

// TokenUsage учет токенов и стоимости за сессию
type TokenUsage struct {
	TotalTokens        int
	PromptTokens       int
	CompletionTokens   int
	SuccessfulRequests int
	TotalCost          float64
	TimeTakenSeconds   float64
	Provider           string
	Model              string
}

// CostBreakdown доля категории в общих расходах
type CostBreakdown struct {
	Category   string
	Cost       float64
	Percentage float64
	Color      string
}

// CostMetrics сводные показатели расходов
type CostMetrics struct {
	TotalDailyCost float64
	CostPerToken   float64
	CostPerMinute  float64
	// CostTrend изменение в процентах, отрицательное значение означает снижение расходов
	CostTrend float64
}

// CostHistoryPoint отсчет синтетической истории расходов
type CostHistoryPoint struct {
	At             time.Time
	Label          string
	TotalCost      float64
	PromptCost     float64
	CompletionCost float64
	InfraCost      float64
	EnergyCost     float64
}
