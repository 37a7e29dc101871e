//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.977 generate

package view

import (
	"strconv"

	"github.com/dreschagin/rai-dashboard/internal/application/dto"
)

// Shell данные оболочки: навигация, меню и текущая страница
type Shell struct {
	Navigation dto.NavigationStateDTO
	Sidebar    []dto.SidebarItemDTO
	Page       *dto.SectionPageDTO
	WSToken    string
}

func bodyClass(nav dto.NavigationStateDTO) string {
	class := "rai-dashboard"
	if nav.ClassName != "" {
		class += " " + nav.ClassName
	}
	if nav.IsNarrowViewport {
		class += " narrow"
	}
	if nav.SidebarOpen {
		class += " sidebar-open"
	}
	return class
}

func sidebarItemClass(item dto.SidebarItemDTO) string {
	if item.Active {
		return "sidebar-item active"
	}
	return "sidebar-item"
}

func toneClass(base, tone string) string {
	if tone == "" {
		return base
	}
	return base + " tone-" + tone
}

func itoa(v int) string {
	return strconv.Itoa(v)
}

func pct(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

func fixed(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}

type policyTab struct {
	Filter string
	Label  string
	Count  int
	Active bool
}

func policyTabs(p *dto.PoliciesDTO) []policyTab {
	tabs := []policyTab{
		{Filter: "all", Label: "All", Count: p.Counts.All},
		{Filter: "internal", Label: "Internal", Count: p.Counts.Internal},
		{Filter: "regulatory", Label: "Regulatory", Count: p.Counts.Regulatory},
	}
	for i := range tabs {
		tabs[i].Active = tabs[i].Filter == p.TypeFilter
	}
	return tabs
}

func tabClass(tab policyTab) string {
	if tab.Active {
		return "tab active"
	}
	return "tab"
}

// effectivenessRows выборки и итоговая строка в одном списке
func effectivenessRows(g *dto.GuardrailsPageDTO) []dto.EffectivenessSampleDTO {
	rows := make([]dto.EffectivenessSampleDTO, 0, len(g.Effectiveness)+1)
	rows = append(rows, g.Effectiveness...)
	return append(rows, g.Summary)
}

func historyCosts(p dto.CostHistoryPointDTO) []string {
	costs := []float64{p.TotalCost, p.PromptCost, p.CompletionCost, p.InfraCost, p.EnergyCost}
	cells := make([]string, len(costs))
	for i, v := range costs {
		cells[i] = fixed(v, 4)
	}
	return cells
}
