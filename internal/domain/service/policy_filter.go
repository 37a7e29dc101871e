package service

import (
	"github.com/dreschagin/rai-dashboard/internal/domain/entity"
	"github.com/dreschagin/rai-dashboard/internal/domain/valueobject"
)

// PolicyCounts количество политик по фильтрам типа
type PolicyCounts struct {
	All        int
	Internal   int
	Regulatory int
}

// FilterPolicies оставляет политики, подходящие под оба фильтра, сохраняя порядок
func FilterPolicies(
	policies []entity.Policy,
	typeFilter valueobject.PolicyTypeFilter,
	regionFilter valueobject.RegionFilter,
) []entity.Policy {
	result := make([]entity.Policy, 0, len(policies))
	for _, p := range policies {
		if typeFilter.MatchesType(p.PolicyType) && regionFilter.MatchesRegion(p.Region) {
			result = append(result, p)
		}
	}
	return result
}

// CountPolicies считает политики по типам
func CountPolicies(policies []entity.Policy) PolicyCounts {
	counts := PolicyCounts{All: len(policies)}
	for _, p := range policies {
		switch p.PolicyType {
		case valueobject.PolicyInternal:
			counts.Internal++
		case valueobject.PolicyRegulatory:
			counts.Regulatory++
		}
	}
	return counts
}
