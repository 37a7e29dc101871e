package usecase

import (
	"context"
	"fmt"

	"github.com/dreschagin/rai-dashboard/internal/application/dto"
	"github.com/dreschagin/rai-dashboard/internal/application/port"
	"github.com/dreschagin/rai-dashboard/internal/domain/repository"
	"github.com/dreschagin/rai-dashboard/internal/domain/valueobject"
	"github.com/dreschagin/rai-dashboard/pkg/logger"
)

// SectionPages use cases, строящие страницы разделов
type SectionPages struct {
	Overview    *GetOverviewUseCase
	Live        *GetLiveDashboardUseCase
	Guardrails  *GetGuardrailsUseCase
	Performance *GetPerformanceUseCase
	Cost        *GetCostReportUseCase
	Policies    *ListPoliciesUseCase
}

type pageBuilder func(ctx context.Context, page *dto.SectionPageDTO) error

// GetSectionPageUseCase сопоставляет каждому разделу ровно одну страницу
type GetSectionPageUseCase struct {
	builders map[valueobject.DashboardSection]pageBuilder
	sidebar  map[valueobject.DashboardSection]dto.SidebarItemDTO
	metrics  port.DashboardMetrics
	logger   *logger.Logger
}

// NewGetSectionPageUseCase создает реестр страниц и проверяет, что покрыт каждый раздел
func NewGetSectionPageUseCase(
	pages SectionPages,
	store repository.RecordStore,
	metrics port.DashboardMetrics,
	logger *logger.Logger,
) (*GetSectionPageUseCase, error) {
	uc := &GetSectionPageUseCase{
		builders: make(map[valueobject.DashboardSection]pageBuilder),
		sidebar:  make(map[valueobject.DashboardSection]dto.SidebarItemDTO),
		metrics:  metrics,
		logger:   logger,
	}

	for _, item := range store.SidebarItems() {
		uc.sidebar[item.Section] = dto.SidebarItemDTO{
			Section:     item.Section.String(),
			Label:       item.Label,
			Description: item.Description,
		}
	}

	for _, section := range valueobject.AllSections() {
		builder := builderFor(section, pages)
		if builder == nil {
			return nil, fmt.Errorf("no page registered for section %q", section)
		}
		uc.builders[section] = builder
	}

	return uc, nil
}

// builderFor обязан покрывать каждое значение DashboardSection
func builderFor(section valueobject.DashboardSection, pages SectionPages) pageBuilder {
	switch section {
	case valueobject.SectionOverview:
		if pages.Overview == nil {
			return nil
		}
		return func(ctx context.Context, page *dto.SectionPageDTO) (err error) {
			page.Overview, err = pages.Overview.Execute(ctx)
			return err
		}
	case valueobject.SectionLiveDashboard:
		if pages.Live == nil {
			return nil
		}
		return func(ctx context.Context, page *dto.SectionPageDTO) (err error) {
			page.Live, err = pages.Live.Execute(ctx)
			return err
		}
	case valueobject.SectionGuardrails:
		if pages.Guardrails == nil {
			return nil
		}
		return func(ctx context.Context, page *dto.SectionPageDTO) (err error) {
			page.Guardrails, err = pages.Guardrails.Execute(ctx)
			return err
		}
	case valueobject.SectionPerformance:
		if pages.Performance == nil {
			return nil
		}
		return func(ctx context.Context, page *dto.SectionPageDTO) (err error) {
			page.Performance, err = pages.Performance.Execute(ctx)
			return err
		}
	case valueobject.SectionSustainability:
		if pages.Cost == nil {
			return nil
		}
		return func(ctx context.Context, page *dto.SectionPageDTO) (err error) {
			page.Cost, err = pages.Cost.Execute(ctx)
			return err
		}
	case valueobject.SectionPolicies:
		if pages.Policies == nil {
			return nil
		}
		return func(ctx context.Context, page *dto.SectionPageDTO) (err error) {
			page.Policies, err = pages.Policies.Execute(ctx, valueobject.PolicyTypeAll, valueobject.RegionFilterAll)
			return err
		}
	default:
		return nil
	}
}

// Execute строит страницу раздела
func (uc *GetSectionPageUseCase) Execute(ctx context.Context, section valueobject.DashboardSection) (*dto.SectionPageDTO, error) {
	if err := section.Validate(); err != nil {
		return nil, err
	}

	builder := uc.builders[section]
	item := uc.sidebar[section]
	page := &dto.SectionPageDTO{
		Section:     section.String(),
		Title:       item.Label,
		Description: item.Description,
	}

	err := builder(ctx, page)
	if uc.metrics != nil {
		uc.metrics.ObservePageBuild(section.String(), err != nil)
	}
	if err != nil {
		uc.logger.Error("Failed to build section page", err, "section", section.String())
		return nil, fmt.Errorf("failed to build %s page: %w", section, err)
	}

	return page, nil
}

// Sidebar возвращает пункты меню в порядке отображения с отметкой активного
func (uc *GetSectionPageUseCase) Sidebar(active valueobject.DashboardSection) []dto.SidebarItemDTO {
	items := make([]dto.SidebarItemDTO, 0, len(uc.sidebar))
	for _, section := range valueobject.AllSections() {
		item, ok := uc.sidebar[section]
		if !ok {
			item = dto.SidebarItemDTO{Section: section.String(), Label: section.String()}
		}
		item.Active = section == active
		items = append(items, item)
	}
	return items
}
