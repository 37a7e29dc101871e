package repository

import (
	"context"

	"github.com/dreschagin/rai-dashboard/internal/domain/entity"
)

// SectionChangeRepository журнал смен раздела (Port)
// Журнал только дополняется и не используется для восстановления состояния навигации.
type SectionChangeRepository interface {
	// Save сохраняет одно событие
	Save(ctx context.Context, change *entity.SectionChange) error

	// FindRecent возвращает последние события, новые первыми
	FindRecent(ctx context.Context, limit int) ([]*entity.SectionChange, error)
}
