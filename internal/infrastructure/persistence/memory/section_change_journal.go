package memory

import (
	"context"
	"sync"

	"github.com/dreschagin/rai-dashboard/internal/domain/entity"
	"github.com/dreschagin/rai-dashboard/internal/domain/repository"
)

const defaultJournalCapacity = 500

// SectionChangeJournal журнал смен раздела в памяти процесса.
// Хранит последние capacity событий, старые вытесняются.
type SectionChangeJournal struct {
	mu       sync.RWMutex
	changes  []*entity.SectionChange
	capacity int
}

var _ repository.SectionChangeRepository = (*SectionChangeJournal)(nil)

// NewSectionChangeJournal создает журнал. capacity <= 0 означает значение по умолчанию.
func NewSectionChangeJournal(capacity int) *SectionChangeJournal {
	if capacity <= 0 {
		capacity = defaultJournalCapacity
	}
	return &SectionChangeJournal{
		changes:  make([]*entity.SectionChange, 0, capacity),
		capacity: capacity,
	}
}

func (j *SectionChangeJournal) Save(_ context.Context, change *entity.SectionChange) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if len(j.changes) == j.capacity {
		copy(j.changes, j.changes[1:])
		j.changes = j.changes[:j.capacity-1]
	}
	j.changes = append(j.changes, change)
	return nil
}

// FindRecent возвращает последние события, новые первыми
func (j *SectionChangeJournal) FindRecent(_ context.Context, limit int) ([]*entity.SectionChange, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if limit <= 0 || limit > len(j.changes) {
		limit = len(j.changes)
	}

	result := make([]*entity.SectionChange, 0, limit)
	for i := len(j.changes) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, j.changes[i])
	}
	return result, nil
}
