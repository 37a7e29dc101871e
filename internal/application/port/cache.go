package port

import "context"

// Cache кэш производных данных (Port).
// Вызывающий трактует любую ошибку Get как промах.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	// Set сохраняет значение с TTL реализации
	Set(ctx context.Context, key string, value interface{}) error
}
