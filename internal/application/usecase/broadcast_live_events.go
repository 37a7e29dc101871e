package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/dreschagin/rai-dashboard/internal/application/dto"
	"github.com/dreschagin/rai-dashboard/internal/application/port"
	"github.com/dreschagin/rai-dashboard/pkg/logger"
)

// BroadcastLiveEventsUseCase по кругу рассылает события ленты guardrail подключенным клиентам
type BroadcastLiveEventsUseCase struct {
	live     *GetLiveDashboardUseCase
	notifier port.NotificationService
	logger   *logger.Logger

	mu   sync.Mutex
	next int
}

// NewBroadcastLiveEventsUseCase создает новый use case
func NewBroadcastLiveEventsUseCase(
	live *GetLiveDashboardUseCase,
	notifier port.NotificationService,
	logger *logger.Logger,
) *BroadcastLiveEventsUseCase {
	return &BroadcastLiveEventsUseCase{
		live:     live,
		notifier: notifier,
		logger:   logger,
	}
}

// Execute отправляет следующее событие ленты. Возвращает nil, если лента пуста.
func (uc *BroadcastLiveEventsUseCase) Execute(_ context.Context) *dto.LiveEventDTO {
	events := uc.live.Events()
	if len(events) == 0 {
		return nil
	}

	uc.mu.Lock()
	event := events[uc.next%len(events)]
	uc.next = (uc.next + 1) % len(events)
	uc.mu.Unlock()

	if uc.notifier != nil && uc.notifier.ClientCount() > 0 {
		uc.notifier.BroadcastLiveEvent(&event)
		uc.logger.Debug("Live event broadcasted", "id", event.ID, "type", event.Type)
	}
	return &event
}

// Run рассылает события с заданным интервалом до отмены контекста
func (uc *BroadcastLiveEventsUseCase) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			uc.Execute(ctx)
		}
	}
}
