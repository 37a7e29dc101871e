package valueobject

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownSection возвращается для значения вне перечисления разделов
var ErrUnknownSection = errors.New("unknown dashboard section")

// DashboardSection представляет раздел дашборда (Value Object)
type DashboardSection string

const (
	SectionOverview       DashboardSection = "overview"
	SectionLiveDashboard  DashboardSection = "dashboard"
	SectionGuardrails     DashboardSection = "guardrails-section"
	SectionPerformance    DashboardSection = "performance-reliability"
	SectionSustainability DashboardSection = "sustainability-cost"
	SectionPolicies       DashboardSection = "policies"
)

// DefaultSection раздел, с которого стартует дашборд
const DefaultSection = SectionOverview

// Validate проверяет, что раздел входит в перечисление
func (s DashboardSection) Validate() error {
	switch s {
	case SectionOverview, SectionLiveDashboard, SectionGuardrails,
		SectionPerformance, SectionSustainability, SectionPolicies:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSection, string(s))
	}
}

// String возвращает строковое представление раздела
func (s DashboardSection) String() string {
	return string(s)
}

// ParseSection разбирает строку в раздел
func ParseSection(raw string) (DashboardSection, error) {
	section := DashboardSection(strings.TrimSpace(raw))
	if err := section.Validate(); err != nil {
		return "", err
	}
	return section, nil
}

// AllSections возвращает все разделы в порядке бокового меню
func AllSections() []DashboardSection {
	return []DashboardSection{
		SectionOverview,
		SectionPolicies,
		SectionGuardrails,
		SectionLiveDashboard,
		SectionPerformance,
		SectionSustainability,
	}
}
