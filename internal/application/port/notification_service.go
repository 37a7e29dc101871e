package port

import "github.com/dreschagin/rai-dashboard/internal/application/dto"

// NotificationService рассылает обновления подключенным клиентам (Port)
// Реализация в Infrastructure слое (WebSocket Hub)
type NotificationService interface {
	// BroadcastNavigation отправляет новое состояние навигации
	BroadcastNavigation(update *dto.NavigationUpdateDTO)

	// BroadcastLiveEvent отправляет событие ленты guardrail
	BroadcastLiveEvent(event *dto.LiveEventDTO)

	// ClientCount возвращает количество подключенных клиентов
	ClientCount() int
}
