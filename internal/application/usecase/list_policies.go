package usecase

import (
	"context"

	"github.com/dreschagin/rai-dashboard/internal/application/dto"
	"github.com/dreschagin/rai-dashboard/internal/domain/service"
	"github.com/dreschagin/rai-dashboard/internal/domain/valueobject"
)

// ListPoliciesUseCase раздел политик с фильтрами по типу и региону
type ListPoliciesUseCase struct {
	deriver *Deriver
}

// NewListPoliciesUseCase создает новый use case
func NewListPoliciesUseCase(deriver *Deriver) *ListPoliciesUseCase {
	return &ListPoliciesUseCase{deriver: deriver}
}

// Execute фильтрует карточки. Счетчики вкладок считаются по всему набору.
func (uc *ListPoliciesUseCase) Execute(
	_ context.Context,
	typeFilter valueobject.PolicyTypeFilter,
	regionFilter valueobject.RegionFilter,
) (*dto.PoliciesDTO, error) {
	if typeFilter == "" {
		typeFilter = valueobject.PolicyTypeAll
	}
	if regionFilter == "" {
		regionFilter = valueobject.RegionFilterAll
	}

	all := uc.deriver.store.Policies()
	counts := service.CountPolicies(all)
	filtered := service.FilterPolicies(all, typeFilter, regionFilter)

	policies := make([]dto.PolicyDTO, 0, len(filtered))
	for _, p := range filtered {
		policies = append(policies, dto.PolicyDTO{
			ID:           p.ID,
			Title:        p.Title,
			Organization: p.Organization,
			Kind:         p.Kind,
			PolicyType:   string(p.PolicyType),
			Region:       string(p.Region),
			Updated:      p.Updated,
			Requirements: p.Requirements,
			Description:  p.Description,
		})
	}

	uc.deriver.logger.Debug("Policies filtered",
		"type", string(typeFilter),
		"region", string(regionFilter),
		"count", len(policies))

	return &dto.PoliciesDTO{
		TypeFilter:   string(typeFilter),
		RegionFilter: string(regionFilter),
		Counts: dto.PolicyCountsDTO{
			All:        counts.All,
			Internal:   counts.Internal,
			Regulatory: counts.Regulatory,
		},
		Policies: policies,
	}, nil
}
