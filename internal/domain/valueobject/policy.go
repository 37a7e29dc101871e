package valueobject

import (
	"fmt"
	"strings"
)

// PolicyType происхождение политики
type PolicyType string

const (
	PolicyInternal   PolicyType = "internal"
	PolicyRegulatory PolicyType = "regulatory"
)

// Region регион действия регуляторной политики. Пустой регион у внутренних политик.
type Region string

const (
	RegionNone   Region = ""
	RegionUSA    Region = "USA"
	RegionEurope Region = "Europe"
)

// PolicyTypeFilter фильтр по типу политики ("all" пропускает всё)
type PolicyTypeFilter string

// RegionFilter фильтр по региону ("all" пропускает всё)
type RegionFilter string

const (
	FilterAll = "all"

	PolicyTypeAll        PolicyTypeFilter = FilterAll
	PolicyTypeInternal   PolicyTypeFilter = PolicyTypeFilter(PolicyInternal)
	PolicyTypeRegulatory PolicyTypeFilter = PolicyTypeFilter(PolicyRegulatory)

	RegionFilterAll    RegionFilter = FilterAll
	RegionFilterUSA    RegionFilter = RegionFilter(RegionUSA)
	RegionFilterEurope RegionFilter = RegionFilter(RegionEurope)
)

// ParsePolicyTypeFilter разбирает фильтр типа, пустая строка означает "all"
func ParsePolicyTypeFilter(raw string) (PolicyTypeFilter, error) {
	switch f := PolicyTypeFilter(strings.ToLower(strings.TrimSpace(raw))); f {
	case "":
		return PolicyTypeAll, nil
	case PolicyTypeAll, PolicyTypeInternal, PolicyTypeRegulatory:
		return f, nil
	default:
		return "", fmt.Errorf("invalid policy type filter: %q", raw)
	}
}

// ParseRegionFilter разбирает фильтр региона, пустая строка означает "all"
func ParseRegionFilter(raw string) (RegionFilter, error) {
	trimmed := strings.TrimSpace(raw)
	switch {
	case trimmed == "" || strings.EqualFold(trimmed, FilterAll):
		return RegionFilterAll, nil
	case strings.EqualFold(trimmed, string(RegionUSA)):
		return RegionFilterUSA, nil
	case strings.EqualFold(trimmed, string(RegionEurope)):
		return RegionFilterEurope, nil
	default:
		return "", fmt.Errorf("invalid region filter: %q", raw)
	}
}

// MatchesType проверяет тип политики против фильтра
func (f PolicyTypeFilter) MatchesType(t PolicyType) bool {
	return f == PolicyTypeAll || PolicyType(f) == t
}

// MatchesRegion проверяет регион политики против фильтра
func (f RegionFilter) MatchesRegion(r Region) bool {
	return f == RegionFilterAll || Region(f) == r
}
