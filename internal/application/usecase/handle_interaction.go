package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/dreschagin/rai-dashboard/internal/application/dto"
	"github.com/dreschagin/rai-dashboard/internal/application/port"
	"github.com/dreschagin/rai-dashboard/internal/domain/entity"
	"github.com/dreschagin/rai-dashboard/internal/domain/service"
	"github.com/dreschagin/rai-dashboard/pkg/logger"
)

// HandleInteractionUseCase обрабатывает клики на обзорной странице
type HandleInteractionUseCase struct {
	router   *service.InteractionRouter
	navigate *NavigateUseCase
	metrics  port.DashboardMetrics
	logger   *logger.Logger
}

// NewHandleInteractionUseCase создает новый use case
func NewHandleInteractionUseCase(
	router *service.InteractionRouter,
	navigate *NavigateUseCase,
	metrics port.DashboardMetrics,
	logger *logger.Logger,
) *HandleInteractionUseCase {
	return &HandleInteractionUseCase{
		router:   router,
		navigate: navigate,
		metrics:  metrics,
		logger:   logger,
	}
}

// Execute переходит в целевой раздел, если клик маршрутизируется.
// Остальные клики только логируются.
func (uc *HandleInteractionUseCase) Execute(
	ctx context.Context,
	kind service.InteractionKind,
	name string,
) (*dto.InteractionResultDTO, error) {
	name = strings.TrimSpace(name)
	if kind != service.InteractionCostCard && name == "" {
		return nil, fmt.Errorf("%s interaction requires a name", kind)
	}

	result := &dto.InteractionResultDTO{
		Kind: string(kind),
		Name: name,
	}

	target, routed := uc.router.Route(kind, name)
	if uc.metrics != nil {
		uc.metrics.ObserveInteraction(string(kind), routed)
	}

	if !routed {
		uc.logger.Info("Interaction without navigation target", "kind", string(kind), "name", name)
		state := uc.navigate.State()
		result.Navigation = &state
		return result, nil
	}

	update, err := uc.navigate.Select(ctx, target, entity.SourceInteraction)
	if err != nil {
		return nil, fmt.Errorf("failed to navigate to %s: %w", target, err)
	}

	result.Routed = true
	result.Target = target.String()
	result.Navigation = &update.State
	return result, nil
}
