package dto

import "time"

// RAIMetricDTO метрика RAI с классификацией для отображения
type RAIMetricDTO struct {
	Name      string  `json:"name"`
	Value     float64 `json:"value"`
	Color     string  `json:"color"`
	Trend     string  `json:"trend"`
	TrendIcon string  `json:"trend_icon"`
	TrendTone string  `json:"trend_tone"`
	RiskLevel string  `json:"risk_level"`
	RiskTone  string  `json:"risk_tone"`
}

// GaugeBandDTO зона шкалы
type GaugeBandDTO struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// RAIScoreDTO общая оценка RAI. OverallScore вычисляется из метрик.
type RAIScoreDTO struct {
	OverallScore int            `json:"overall_score"`
	Verdict      string         `json:"verdict"`
	VerdictTone  string         `json:"verdict_tone"`
	Metrics      []RAIMetricDTO `json:"metrics"`
	GaugeBands   []GaugeBandDTO `json:"gauge_bands"`
	LastUpdated  time.Time      `json:"last_updated"`
}

// ESGMetricDTO оценка по оси ESG
type ESGMetricDTO struct {
	Category string  `json:"category"`
	Score    float64 `json:"score"`
	Status   string  `json:"status"`
	Details  string  `json:"details"`
	Color    string  `json:"color"`
	Tone     string  `json:"tone"`
}

// SustainabilityDTO ресурсы на один инференс
type SustainabilityDTO struct {
	EnergyKWh   float64 `json:"energy_kwh"`
	CarbonGCO2  float64 `json:"carbon_g_co2"`
	WaterLiters float64 `json:"water_liters"`
	ModelName   string  `json:"model_name"`
}

// ESGReportDTO отчет ESG
type ESGReportDTO struct {
	OverallScore   int               `json:"overall_score"`
	Rating         string            `json:"rating"`
	RatingTone     string            `json:"rating_tone"`
	Metrics        []ESGMetricDTO    `json:"metrics"`
	Sustainability SustainabilityDTO `json:"sustainability"`
}

// CostCardDTO карточка расходов на обзоре
type CostCardDTO struct {
	TotalCost     string       `json:"total_cost"`
	TotalTokens   int          `json:"total_tokens"`
	Model         string       `json:"model"`
	Trend         CostTrendDTO `json:"trend"`
	TargetSection string       `json:"target_section"`
}

// OverviewDTO домашняя страница
type OverviewDTO struct {
	RAIScore RAIScoreDTO  `json:"rai_score"`
	ESG      ESGReportDTO `json:"esg"`
	CostCard CostCardDTO  `json:"cost_card"`
}

// GuardrailDTO guardrail с вычисленной эффективностью
type GuardrailDTO struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Description          string    `json:"description"`
	Type                 string    `json:"type"`
	Status               string    `json:"status"`
	Category             string    `json:"category"`
	Triggered            int       `json:"triggered"`
	Blocked              int       `json:"blocked"`
	Passed               int       `json:"passed"`
	Effectiveness        float64   `json:"effectiveness"`
	DerivedEffectiveness float64   `json:"derived_effectiveness"`
	LastTriggered        string    `json:"last_triggered"`
	CreatedAt            time.Time `json:"created_at"`
}

// CategoryStatsDTO агрегат по категории
type CategoryStatsDTO struct {
	Category      string  `json:"category"`
	Count         int     `json:"count"`
	Effectiveness float64 `json:"effectiveness"`
}

// GuardrailsStatsDTO агрегат по всем guardrail
type GuardrailsStatsDTO struct {
	TotalGuardrails      int                `json:"total_guardrails"`
	ActiveGuardrails     int                `json:"active_guardrails"`
	TotalBlocked         int                `json:"total_blocked"`
	TotalTriggered       int                `json:"total_triggered"`
	TotalPassed          int                `json:"total_passed"`
	OverallEffectiveness float64            `json:"overall_effectiveness"`
	ByCategory           []CategoryStatsDTO `json:"by_category"`
}

// EffectivenessSampleDTO точка графика эффективности
type EffectivenessSampleDTO struct {
	Name           string  `json:"name"`
	Effectiveness  float64 `json:"effectiveness"`
	DetectionRate  float64 `json:"detection_rate"`
	PreventionRate float64 `json:"prevention_rate"`
	Color          string  `json:"color,omitempty"`
}

// GuardrailsPageDTO раздел guardrails-section
type GuardrailsPageDTO struct {
	Stats         GuardrailsStatsDTO       `json:"stats"`
	Guardrails    []GuardrailDTO           `json:"guardrails"`
	Effectiveness []EffectivenessSampleDTO `json:"effectiveness"`
	Summary       EffectivenessSampleDTO   `json:"summary"`
}

// LiveEventDTO событие ленты
type LiveEventDTO struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	Tone         string `json:"tone"`
	Guardrail    string `json:"guardrail"`
	Message      string `json:"message"`
	Time         string `json:"time"`
	Severity     string `json:"severity"`
	SeverityTone string `json:"severity_tone"`
}

// LiveDashboardDTO раздел dashboard
type LiveDashboardDTO struct {
	Stats         GuardrailsStatsDTO       `json:"stats"`
	DetectionRate float64                  `json:"detection_rate"`
	Events        []LiveEventDTO           `json:"events"`
	Effectiveness []EffectivenessSampleDTO `json:"effectiveness"`
}

// PerformanceMetricsDTO показатели производительности
type PerformanceMetricsDTO struct {
	AvgLatencyMs      float64 `json:"avg_latency_ms"`
	P99LatencyMs      float64 `json:"p99_latency_ms"`
	Uptime            float64 `json:"uptime"`
	RequestsPerMinute int     `json:"requests_per_minute"`
	ErrorRate         float64 `json:"error_rate"`
	SuccessRate       float64 `json:"success_rate"`
}

// IncidentDTO инцидент
type IncidentDTO struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Title    string `json:"title"`
	Time     string `json:"time"`
	Duration string `json:"duration"`
}

// PerformanceDTO раздел performance-reliability
type PerformanceDTO struct {
	Metrics   PerformanceMetricsDTO `json:"metrics"`
	Incidents []IncidentDTO         `json:"incidents"`
}

// TokenUsageDTO учет токенов
type TokenUsageDTO struct {
	TotalTokens        int     `json:"total_tokens"`
	PromptTokens       int     `json:"prompt_tokens"`
	CompletionTokens   int     `json:"completion_tokens"`
	SuccessfulRequests int     `json:"successful_requests"`
	TotalCost          float64 `json:"total_cost"`
	TotalCostLabel     string  `json:"total_cost_label"`
	TimeTakenSeconds   float64 `json:"time_taken_seconds"`
	Provider           string  `json:"provider"`
	Model              string  `json:"model"`
}

// CostBreakdownDTO доля расходов
type CostBreakdownDTO struct {
	Category   string  `json:"category"`
	Cost       float64 `json:"cost"`
	CostLabel  string  `json:"cost_label"`
	Percentage float64 `json:"percentage"`
	Color      string  `json:"color"`
}

// CostTrendDTO тренд расходов с инвертированной полярностью
type CostTrendDTO struct {
	Percent   float64 `json:"percent"`
	Label     string  `json:"label"`
	Favorable bool    `json:"favorable"`
	Tone      string  `json:"tone"`
	Direction string  `json:"direction"`
	Icon      string  `json:"icon"`
}

// CostMetricsDTO сводные показатели расходов
type CostMetricsDTO struct {
	TotalDailyCost       float64      `json:"total_daily_cost"`
	TotalDailyCostLabel  string       `json:"total_daily_cost_label"`
	CostPerToken         float64      `json:"cost_per_token"`
	CostPer1KTokens      float64      `json:"cost_per_1k_tokens"`
	CostPer1KTokensLabel string       `json:"cost_per_1k_tokens_label"`
	CostPerMinute        float64      `json:"cost_per_minute"`
	CostPerMinuteLabel   string       `json:"cost_per_minute_label"`
	Trend                CostTrendDTO `json:"trend"`
}

// CostHistoryPointDTO отсчет истории расходов
type CostHistoryPointDTO struct {
	At             time.Time `json:"at"`
	Label          string    `json:"label"`
	TotalCost      float64   `json:"total_cost"`
	PromptCost     float64   `json:"prompt_cost"`
	CompletionCost float64   `json:"completion_cost"`
	InfraCost      float64   `json:"infra_cost"`
	EnergyCost     float64   `json:"energy_cost"`
}

// CostReportDTO раздел sustainability-cost
type CostReportDTO struct {
	TokenUsage     TokenUsageDTO         `json:"token_usage"`
	Breakdown      []CostBreakdownDTO    `json:"breakdown"`
	Metrics        CostMetricsDTO        `json:"metrics"`
	Sustainability SustainabilityDTO     `json:"sustainability"`
	History        []CostHistoryPointDTO `json:"history"`
}

// PolicyDTO карточка политики
type PolicyDTO struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Organization string `json:"organization"`
	Kind         string `json:"kind"`
	PolicyType   string `json:"policy_type"`
	Region       string `json:"region,omitempty"`
	Updated      string `json:"updated"`
	Requirements string `json:"requirements"`
	Description  string `json:"description"`
}

// PolicyCountsDTO счетчики для вкладок фильтра
type PolicyCountsDTO struct {
	All        int `json:"all"`
	Internal   int `json:"internal"`
	Regulatory int `json:"regulatory"`
}

// PoliciesDTO раздел policies
type PoliciesDTO struct {
	TypeFilter   string          `json:"type_filter"`
	RegionFilter string          `json:"region_filter"`
	Counts       PolicyCountsDTO `json:"counts"`
	Policies     []PolicyDTO     `json:"policies"`
}

// SectionPageDTO страница раздела. Заполнено ровно одно поле, соответствующее Section.
type SectionPageDTO struct {
	Section     string             `json:"section"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Overview    *OverviewDTO       `json:"overview,omitempty"`
	Live        *LiveDashboardDTO  `json:"dashboard,omitempty"`
	Guardrails  *GuardrailsPageDTO `json:"guardrails,omitempty"`
	Performance *PerformanceDTO    `json:"performance,omitempty"`
	Cost        *CostReportDTO     `json:"sustainability,omitempty"`
	Policies    *PoliciesDTO       `json:"policies,omitempty"`
}
