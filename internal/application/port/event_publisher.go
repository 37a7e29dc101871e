package port

import "context"

// EventPublisher отправляет события смены раздела во внешний брокер (Port).
// Ошибка публикации не прерывает навигацию.
type EventPublisher interface {
	PublishEvent(ctx context.Context, subject string, event interface{}) error
}
