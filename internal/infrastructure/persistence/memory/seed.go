package memory

import (
	"time"

	"github.com/dreschagin/rai-dashboard/internal/domain/entity"
	"github.com/dreschagin/rai-dashboard/internal/domain/valueobject"
)

func seedRAIMetrics() []entity.RAIMetric {
	return []entity.RAIMetric{
		{Name: "AI Safety", Value: 85, Color: "#8b5cf6", Trend: valueobject.TrendUp, RiskLevel: valueobject.RiskLow},
		{Name: "Performance", Value: 82, Color: "#06b6d4", Trend: valueobject.TrendStable, RiskLevel: valueobject.RiskLow},
		{Name: "Security", Value: 72, Color: "#10b981", Trend: valueobject.TrendDown, RiskLevel: valueobject.RiskMedium},
		{Name: "Compliance", Value: 74, Color: "#f59e0b", Trend: valueobject.TrendUp, RiskLevel: valueobject.RiskMedium},
	}
}

func seedGaugeBands() []entity.GaugeBand {
	return []entity.GaugeBand{
		{Name: "Critical", Value: 40, Color: "#ef4444"},
		{Name: "Warning", Value: 40, Color: "#f59e0b"},
		{Name: "Good", Value: 20, Color: "#10b981"},
	}
}

func seedESGMetrics() []entity.ESGMetric {
	return []entity.ESGMetric{
		{
			Category: valueobject.ESGEnvironmental,
			Score:    85,
			Status:   valueobject.ESGExcellent,
			Details:  "Carbon: 0.066g CO₂, Energy: 0.0003 kWh",
			Color:    "#10b981",
		},
		{
			Category: valueobject.ESGSocial,
			Score:    68,
			Status:   valueobject.ESGGood,
			Details:  "Based on bias detection and fairness metrics",
			Color:    "#3b82f6",
		},
		{
			Category: valueobject.ESGGovernance,
			Score:    58,
			Status:   valueobject.ESGAttention,
			Details:  "Constitutional AI principles + compliance framework",
			Color:    "#8b5cf6",
		},
	}
}

func seedSustainability() entity.SustainabilityMetrics {
	return entity.SustainabilityMetrics{
		EnergyKWh:   0.0003,
		CarbonGCO2:  0.066,
		WaterLiters: 0.0005,
		ModelName:   "gpt-4o",
	}
}

func seedGuardrails() []entity.Guardrail {
	type row struct {
		id, name, description, category, lastTriggered, createdAt string
		typ                                                       valueobject.GuardrailType
		triggered, blocked, passed                                int
		effectiveness                                             float64
	}

	rows := []row{
		{"gr-001", "PII Detection", "Detects and blocks personally identifiable information in responses", "Privacy", "2 minutes ago", "2024-01-15T10:00:00Z", valueobject.GuardrailOutput, 245, 230, 15, 93.9},
		{"gr-002", "Toxicity Filter", "Filters toxic, harmful, or offensive content", "Safety", "5 minutes ago", "2024-01-10T08:30:00Z", valueobject.GuardrailBoth, 189, 185, 4, 97.9},
		{"gr-003", "Bias Detection", "Monitors and mitigates biased outputs", "Fairness", "15 minutes ago", "2024-01-12T14:00:00Z", valueobject.GuardrailOutput, 156, 142, 14, 91.0},
		{"gr-004", "Prompt Injection Guard", "Protects against prompt injection attacks", "Security", "1 hour ago", "2024-01-08T09:00:00Z", valueobject.GuardrailInput, 78, 78, 0, 100},
		{"gr-005", "Hallucination Check", "Validates factual accuracy of generated content", "Accuracy", "30 seconds ago", "2024-01-20T11:00:00Z", valueobject.GuardrailOutput, 312, 267, 45, 85.6},
		{"gr-006", "Rate Limiter", "Controls request rate to prevent abuse", "Security", "3 hours ago", "2024-01-05T16:00:00Z", valueobject.GuardrailInput, 45, 45, 0, 100},
	}

	guardrails := make([]entity.Guardrail, 0, len(rows))
	for _, r := range rows {
		createdAt, _ := time.Parse(time.RFC3339, r.createdAt)
		guardrails = append(guardrails, entity.Guardrail{
			ID:          r.id,
			Name:        r.name,
			Description: r.description,
			Type:        r.typ,
			Status:      valueobject.GuardrailActive,
			Category:    r.category,
			Metrics: entity.GuardrailMetrics{
				Triggered:     r.triggered,
				Blocked:       r.blocked,
				Passed:        r.passed,
				Effectiveness: r.effectiveness,
			},
			LastTriggered: r.lastTriggered,
			CreatedAt:     createdAt,
		})
	}
	return guardrails
}

func seedEffectivenessSamples() []entity.EffectivenessSample {
	return []entity.EffectivenessSample{
		{Name: "PII Detection", Effectiveness: 98.5, DetectionRate: 99.2, PreventionRate: 97.8, Color: "#ef4444"},
		{Name: "Bias Detection", Effectiveness: 94.3, DetectionRate: 95.1, PreventionRate: 93.5, Color: "#8b5cf6"},
		{Name: "Toxicity Filter", Effectiveness: 96.7, DetectionRate: 97.5, PreventionRate: 95.9, Color: "#f59e0b"},
		{Name: "Content Safety", Effectiveness: 97.2, DetectionRate: 98.0, PreventionRate: 96.4, Color: "#10b981"},
	}
}

func seedLiveEvents() []entity.LiveEvent {
	return []entity.LiveEvent{
		{ID: "1", Type: valueobject.EventBlocked, Guardrail: "PII Detection", Message: "Blocked PII in output", Time: "2 min ago", Severity: valueobject.RiskHigh},
		{ID: "2", Type: valueobject.EventTriggered, Guardrail: "Toxicity Filter", Message: "Content flagged for review", Time: "5 min ago", Severity: valueobject.RiskMedium},
		{ID: "3", Type: valueobject.EventBlocked, Guardrail: "Bias Detection", Message: "Potential bias detected", Time: "8 min ago", Severity: valueobject.RiskMedium},
		{ID: "4", Type: valueobject.EventPassed, Guardrail: "Content Safety", Message: "Content approved", Time: "10 min ago", Severity: valueobject.RiskLow},
		{ID: "5", Type: valueobject.EventBlocked, Guardrail: "Prompt Injection", Message: "Attack attempt blocked", Time: "15 min ago", Severity: valueobject.RiskHigh},
	}
}

func seedTokenUsage() entity.TokenUsage {
	return entity.TokenUsage{
		TotalTokens:        6329,
		PromptTokens:       5707,
		CompletionTokens:   622,
		SuccessfulRequests: 1,
		TotalCost:          0.0205,
		TimeTakenSeconds:   12.60,
		Provider:           "openai",
		Model:              "gpt-4o",
	}
}

func seedCostBreakdown() []entity.CostBreakdown {
	return []entity.CostBreakdown{
		{Category: "API Costs", Cost: 0.0205, Percentage: 91.5, Color: "#3b82f6"},
		{Category: "Infrastructure", Cost: 0.0014, Percentage: 6.5, Color: "#10b981"},
		{Category: "Energy", Cost: 0.00045, Percentage: 2.0, Color: "#f59e0b"},
	}
}

func seedCostMetrics() entity.CostMetrics {
	return entity.CostMetrics{
		TotalDailyCost: 6.58,
		CostPerToken:   0.0000032,
		CostPerMinute:  0.0977,
		CostTrend:      -2.3,
	}
}

func seedPerformance() entity.PerformanceMetrics {
	return entity.PerformanceMetrics{
		AvgLatencyMs:      245,
		P99LatencyMs:      520,
		Uptime:            99.97,
		RequestsPerMinute: 1250,
		ErrorRate:         0.03,
		SuccessRate:       99.97,
	}
}

func seedIncidents() []entity.Incident {
	return []entity.Incident{
		{ID: "1", Status: "resolved", Title: "Latency spike detected", Time: "2 hours ago", Duration: "5 min"},
		{ID: "2", Status: "resolved", Title: "Rate limit reached", Time: "1 day ago", Duration: "2 min"},
		{ID: "3", Status: "resolved", Title: "Model timeout", Time: "3 days ago", Duration: "10 min"},
	}
}

func seedPolicies() []entity.Policy {
	internal := func(id, title, requirements, description string) entity.Policy {
		return entity.Policy{
			ID:           id,
			Title:        title,
			Organization: "Internal RAI Framework",
			Kind:         "Internal Policy",
			PolicyType:   valueobject.PolicyInternal,
			Region:       valueobject.RegionNone,
			Updated:      "Oct 1, 2025",
			Requirements: requirements + " Requirements",
			Description:  description,
		}
	}
	law := func(id, title, organization string, region valueobject.Region, updated, requirements, description string) entity.Policy {
		return entity.Policy{
			ID:           id,
			Title:        title,
			Organization: organization,
			Kind:         "Law",
			PolicyType:   valueobject.PolicyRegulatory,
			Region:       region,
			Updated:      updated,
			Requirements: requirements,
			Description:  description,
		}
	}

	return []entity.Policy{
		internal("1", "Bias Detection and Fairness Policy", "12",
			"Framework for detecting and mitigating algorithmic bias with mandatory bias testing and fairness evaluation."),
		internal("2", "PII Leakage Prevention Policy", "8",
			"Prevents personally identifiable information from leaking into model outputs."),
		internal("3", "AI Hallucination Mitigation Policy", "6",
			"Validation and fact-checking requirements against false information generation."),
		internal("4", "Content Safety and Moderation Policy", "15",
			"Prohibited content categories and automated moderation of generated content."),
		internal("5", "Toxicity Detection Policy", "9",
			"Toxicity scoring thresholds for language in AI interactions."),
		internal("6", "Copyright and IP Policy", "11",
			"Attribution requirements and fair use guidelines to prevent copyright infringement."),
		internal("7", "Injection Attack Prevention", "7",
			"Input validation and detection of prompt injection and adversarial attacks."),
		internal("8", "Privacy Protection Policy", "13",
			"User consent requirements and data retention limits for AI systems."),
		law("9", "EU AI Act", "European Parliament", valueobject.RegionEurope, "Sep 30, 2025", "+27",
			"Unified risk-based regulatory framework for AI systems in the EU."),
		law("10", "Digital Markets Act (DMA)", "European Commission", valueobject.RegionEurope, "Oct 17, 2024", "+27",
			"Rules that keep digital sector markets fair and contestable."),
		law("11", "National AI Initiative Act", "US Congress", valueobject.RegionUSA, "Jun 21, 2024", "+1",
			"Coordinates federal AI research and development for economic and national security."),
	}
}

func seedSidebarItems() []entity.SidebarItem {
	return []entity.SidebarItem{
		{Section: valueobject.SectionOverview, Label: "Home", Description: "Dashboard home and overview"},
		{Section: valueobject.SectionPolicies, Label: "Policies", Description: "Policy management and documentation"},
		{Section: valueobject.SectionGuardrails, Label: "Guardrails", Description: "Guardrail configuration and management"},
		{Section: valueobject.SectionLiveDashboard, Label: "Live Dashboard", Description: "Guardrail monitoring and health metrics"},
		{Section: valueobject.SectionPerformance, Label: "Performance", Description: "System performance metrics and reliability"},
		{Section: valueobject.SectionSustainability, Label: "Sustainability", Description: "Environmental impact and cost optimization"},
	}
}
