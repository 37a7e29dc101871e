package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dreschagin/rai-dashboard/internal/application/dto"
)

func pct(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// renderPage печатает страницу раздела. Заполнено ровно одно поле page.
func renderPage(page *dto.SectionPageDTO) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(page.Title))
	b.WriteString("\n")
	if page.Description != "" {
		b.WriteString(mutedStyle.Render(page.Description))
		b.WriteString("\n")
	}

	switch {
	case page.Overview != nil:
		b.WriteString(renderOverview(page.Overview))
	case page.Live != nil:
		b.WriteString(renderLive(page.Live))
	case page.Guardrails != nil:
		b.WriteString(renderGuardrails(page.Guardrails))
	case page.Performance != nil:
		b.WriteString(renderPerformance(page.Performance))
	case page.Cost != nil:
		b.WriteString(renderCost(page.Cost))
	case page.Policies != nil:
		b.WriteString(renderPolicies(page.Policies))
	}
	return b.String()
}

func heading(text string) string {
	return headingStyle.Render(text) + "\n"
}

func renderOverview(o *dto.OverviewDTO) string {
	var b strings.Builder
	b.WriteString(renderRAIScore(o.RAIScore))
	b.WriteString(renderESG(o.ESG))

	c := o.CostCard
	b.WriteString(heading("Daily Cost"))
	fmt.Fprintf(&b, "%s  %d tokens  %s  %s\n",
		c.TotalCost, c.TotalTokens,
		toned(c.Trend.Icon+" "+c.Trend.Label, c.Trend.Tone),
		mutedStyle.Render(c.Model))
	return b.String()
}

func renderRAIScore(r dto.RAIScoreDTO) string {
	var b strings.Builder
	b.WriteString(heading("Responsible AI Score"))
	fmt.Fprintf(&b, "Overall %d  %s\n", r.OverallScore, toned(r.Verdict, r.VerdictTone))

	t := newTable("Metric", "Value", "Trend", "Risk")
	for _, m := range r.Metrics {
		t.Row(m.Name, pct(m.Value), toned(m.TrendIcon+" "+m.Trend, m.TrendTone), toned(m.RiskLevel, m.RiskTone))
	}
	b.WriteString(t.Render())
	b.WriteString("\n")
	return b.String()
}

func renderESG(e dto.ESGReportDTO) string {
	var b strings.Builder
	b.WriteString(heading("ESG"))
	fmt.Fprintf(&b, "Score %d  Rating %s\n", e.OverallScore, toned(e.Rating, e.RatingTone))

	t := newTable("Category", "Score", "Status", "Details")
	for _, m := range e.Metrics {
		t.Row(m.Category, pct(m.Score), toned(m.Status, m.Tone), m.Details)
	}
	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(renderSustainability(e.Sustainability))
	return b.String()
}

func renderSustainability(s dto.SustainabilityDTO) string {
	return fmt.Sprintf("Per inference (%s): %s kWh  %s gCO2  %s L\n",
		s.ModelName,
		strconv.FormatFloat(s.EnergyKWh, 'f', 4, 64),
		strconv.FormatFloat(s.CarbonGCO2, 'f', 2, 64),
		strconv.FormatFloat(s.WaterLiters, 'f', 3, 64))
}

func renderStats(s dto.GuardrailsStatsDTO) string {
	return fmt.Sprintf("Guardrails %d  Active %s  Blocked %s  Triggered %s  Effectiveness %s\n",
		s.TotalGuardrails,
		toned(strconv.Itoa(s.ActiveGuardrails), "success"),
		toned(strconv.Itoa(s.TotalBlocked), "destructive"),
		toned(strconv.Itoa(s.TotalTriggered), "warning"),
		pct(s.OverallEffectiveness))
}

func renderLive(l *dto.LiveDashboardDTO) string {
	var b strings.Builder
	b.WriteString(renderStats(l.Stats))
	fmt.Fprintf(&b, "Detection rate %s\n", toned(pct(l.DetectionRate), "accent"))

	b.WriteString(heading("Live events"))
	t := newTable("Time", "Type", "Guardrail", "Message", "Severity")
	for _, e := range l.Events {
		t.Row(e.Time, toned(e.Type, e.Tone), e.Guardrail, e.Message, toned(e.Severity, e.SeverityTone))
	}
	b.WriteString(t.Render())
	b.WriteString("\n")
	return b.String()
}

func renderGuardrails(g *dto.GuardrailsPageDTO) string {
	var b strings.Builder
	b.WriteString(renderStats(g.Stats))

	t := newTable("Name", "Type", "Status", "Category", "Triggered", "Blocked", "Effectiveness", "Last triggered")
	for _, gr := range g.Guardrails {
		t.Row(gr.Name, gr.Type, gr.Status, gr.Category,
			strconv.Itoa(gr.Triggered), strconv.Itoa(gr.Blocked),
			pct(gr.DerivedEffectiveness), gr.LastTriggered)
	}
	b.WriteString(t.Render())
	b.WriteString("\n")

	b.WriteString(heading("Effectiveness"))
	samples := newTable("Sample", "Effectiveness", "Detection", "Prevention")
	for _, s := range append(append([]dto.EffectivenessSampleDTO(nil), g.Effectiveness...), g.Summary) {
		samples.Row(s.Name, pct(s.Effectiveness), pct(s.DetectionRate), pct(s.PreventionRate))
	}
	b.WriteString(samples.Render())
	b.WriteString("\n")
	return b.String()
}

func renderPerformance(p *dto.PerformanceDTO) string {
	var b strings.Builder
	m := p.Metrics
	fmt.Fprintf(&b, "Avg latency %.0f ms  P99 %.0f ms  Uptime %s  Requests/min %d  Errors %s  Success %s\n",
		m.AvgLatencyMs, m.P99LatencyMs,
		toned(pct(m.Uptime), "success"),
		m.RequestsPerMinute,
		toned(pct(m.ErrorRate), "warning"),
		toned(pct(m.SuccessRate), "success"))

	b.WriteString(heading("Incidents"))
	t := newTable("ID", "Title", "Status", "Time", "Duration")
	for _, inc := range p.Incidents {
		t.Row(inc.ID, inc.Title, inc.Status, inc.Time, inc.Duration)
	}
	b.WriteString(t.Render())
	b.WriteString("\n")
	return b.String()
}

func renderCost(c *dto.CostReportDTO) string {
	var b strings.Builder
	m := c.Metrics
	fmt.Fprintf(&b, "Daily %s  Per 1K tokens %s  Per minute %s  Trend %s\n",
		m.TotalDailyCostLabel, m.CostPer1KTokensLabel, m.CostPerMinuteLabel,
		toned(m.Trend.Icon+" "+m.Trend.Label, m.Trend.Tone))

	u := c.TokenUsage
	b.WriteString(heading("Token usage"))
	fmt.Fprintf(&b, "%d tokens (%d prompt, %d completion)  %d requests  %s  %s\n",
		u.TotalTokens, u.PromptTokens, u.CompletionTokens, u.SuccessfulRequests,
		u.TotalCostLabel, mutedStyle.Render(u.Provider+" / "+u.Model))

	b.WriteString(heading("Cost breakdown"))
	t := newTable("Category", "Cost", "Share")
	for _, item := range c.Breakdown {
		t.Row(item.Category, item.CostLabel, pct(item.Percentage))
	}
	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(renderSustainability(c.Sustainability))

	if len(c.History) > 0 {
		b.WriteString(heading("Cost history"))
		b.WriteString(renderCostHistory(c.History))
	}
	return b.String()
}

func renderCostHistory(points []dto.CostHistoryPointDTO) string {
	t := newTable("Time", "Total", "Prompt", "Completion", "Infra", "Energy")
	for _, p := range points {
		t.Row(p.Label, money(p.TotalCost), money(p.PromptCost), money(p.CompletionCost), money(p.InfraCost), money(p.EnergyCost))
	}
	return t.Render() + "\n"
}

func renderPolicies(p *dto.PoliciesDTO) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Type %s  Region %s  %s\n", p.TypeFilter, p.RegionFilter,
		mutedStyle.Render(fmt.Sprintf("all %d · internal %d · regulatory %d",
			p.Counts.All, p.Counts.Internal, p.Counts.Regulatory)))

	t := newTable("Title", "Organization", "Type", "Region", "Updated")
	for _, policy := range p.Policies {
		region := policy.Region
		if region == "" {
			region = "-"
		}
		t.Row(policy.Title, policy.Organization, policy.PolicyType, region, policy.Updated)
	}
	b.WriteString(t.Render())
	b.WriteString("\n")
	return b.String()
}
