package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dreschagin/rai-dashboard/internal/application/dto"
	"github.com/dreschagin/rai-dashboard/internal/application/port"
	"github.com/dreschagin/rai-dashboard/internal/domain/entity"
	"github.com/dreschagin/rai-dashboard/internal/domain/repository"
	"github.com/dreschagin/rai-dashboard/internal/domain/valueobject"
	"github.com/dreschagin/rai-dashboard/pkg/logger"
)

// SectionChangedEvent событие смены раздела для брокера сообщений
type SectionChangedEvent struct {
	ID         string    `json:"id"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	Source     string    `json:"source"`
	OccurredAt time.Time `json:"occurred_at"`
	Reselect   bool      `json:"reselect"`
}

// NavigateUseCase управляет состоянием навигации и рассылает изменения.
// Все внешние зависимости, кроме state, опциональны.
type NavigateUseCase struct {
	// mu держится от перехода до конца рассылки, чтобы подписчики получали
	// изменения в порядке переходов
	mu sync.Mutex

	state     *entity.NavigationState
	publisher port.EventPublisher
	changes   repository.SectionChangeRepository
	notifier  port.NotificationService
	metrics   port.DashboardMetrics
	subject   string
	logger    *logger.Logger
	now       func() time.Time
}

// NavigateDeps зависимости NavigateUseCase
type NavigateDeps struct {
	Publisher port.EventPublisher
	Changes   repository.SectionChangeRepository
	Notifier  port.NotificationService
	Metrics   port.DashboardMetrics
	Subject   string
}

// NewNavigateUseCase создает новый use case
func NewNavigateUseCase(state *entity.NavigationState, deps NavigateDeps, logger *logger.Logger) *NavigateUseCase {
	return &NavigateUseCase{
		state:     state,
		publisher: deps.Publisher,
		changes:   deps.Changes,
		notifier:  deps.Notifier,
		metrics:   deps.Metrics,
		subject:   deps.Subject,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// State возвращает текущее состояние навигации
func (uc *NavigateUseCase) State() dto.NavigationStateDTO {
	return dto.FromNavigationSnapshot(uc.state.Snapshot())
}

// ActiveSection возвращает активный раздел
func (uc *NavigateUseCase) ActiveSection() valueobject.DashboardSection {
	return uc.state.ActiveSection()
}

// Select делает раздел активным. Повторный выбор того же раздела тоже порождает событие.
func (uc *NavigateUseCase) Select(
	ctx context.Context,
	section valueobject.DashboardSection,
	source entity.ChangeSource,
) (*dto.NavigationUpdateDTO, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	transition, err := uc.state.Select(section)
	if err != nil {
		return nil, err
	}

	change, err := entity.NewSectionChange(transition.From, transition.To, source, uc.now())
	if err != nil {
		return nil, fmt.Errorf("failed to record section change: %w", err)
	}

	changeDTO := dto.FromSectionChange(change)
	update := &dto.NavigationUpdateDTO{
		State:  dto.FromNavigationSnapshot(transition.State),
		Change: &changeDTO,
	}

	uc.logger.Info("Section changed",
		"from", change.From().String(),
		"to", change.To().String(),
		"source", string(change.Source()))

	if uc.metrics != nil {
		uc.metrics.ObserveSectionChange(change.From().String(), change.To().String(), string(change.Source()))
	}

	// Ошибки доставки не отменяют переход: состояние уже изменено
	if uc.changes != nil {
		if err := uc.changes.Save(ctx, change); err != nil {
			uc.logger.Error("Failed to save section change", err, "id", change.ID())
		}
	}

	if uc.publisher != nil && uc.subject != "" {
		if err := uc.publisher.PublishEvent(ctx, uc.subject, toSectionChangedEvent(change)); err != nil {
			uc.logger.Warn("Failed to publish section change", "id", change.ID(), "error", err.Error())
		}
	}

	uc.broadcast(update)

	return update, nil
}

// ToggleSidebar переключает мобильный sidebar. На широком экране ничего не меняет.
func (uc *NavigateUseCase) ToggleSidebar(_ context.Context) *dto.NavigationUpdateDTO {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	snapshot, changed := uc.state.ToggleSidebar()
	update := &dto.NavigationUpdateDTO{State: dto.FromNavigationSnapshot(snapshot)}
	if changed {
		uc.broadcast(update)
	}
	return update
}

// CloseSidebar закрывает sidebar (клик по оверлею)
func (uc *NavigateUseCase) CloseSidebar(_ context.Context) *dto.NavigationUpdateDTO {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	update := &dto.NavigationUpdateDTO{State: dto.FromNavigationSnapshot(uc.state.CloseSidebar())}
	uc.broadcast(update)
	return update
}

// SetViewportWidth пересчитывает признак узкого экрана
func (uc *NavigateUseCase) SetViewportWidth(_ context.Context, width int) (*dto.NavigationUpdateDTO, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	snapshot, err := uc.state.SetViewportWidth(width)
	if err != nil {
		return nil, err
	}
	update := &dto.NavigationUpdateDTO{State: dto.FromNavigationSnapshot(snapshot)}
	uc.broadcast(update)
	return update, nil
}

func (uc *NavigateUseCase) broadcast(update *dto.NavigationUpdateDTO) {
	if uc.notifier == nil {
		return
	}
	uc.notifier.BroadcastNavigation(update)
	uc.logger.Debug("Navigation broadcasted to clients", "client_count", uc.notifier.ClientCount())
}

func toSectionChangedEvent(change *entity.SectionChange) SectionChangedEvent {
	return SectionChangedEvent{
		ID:         change.ID(),
		From:       change.From().String(),
		To:         change.To().String(),
		Source:     string(change.Source()),
		OccurredAt: change.OccurredAt(),
		Reselect:   change.IsReselect(),
	}
}
