package entity

import (
	"time"

	"github.com/dreschagin/rai-dashboard/internal/domain/valueobject"
	"github.com/google/uuid"
)

// ChangeSource откуда пришел выбор раздела
type ChangeSource string

const (
	SourceSidebar     ChangeSource = "sidebar"
	SourceInteraction ChangeSource = "interaction"
	SourceAPI         ChangeSource = "api"
	SourceTerminal    ChangeSource = "terminal"
)

// SectionChange событие смены раздела (Domain Event)
// Возникает на каждый select, в том числе при повторном выборе активного раздела.
type SectionChange struct {
	id         string
	from       valueobject.DashboardSection
	to         valueobject.DashboardSection
	source     ChangeSource
	occurredAt time.Time
}

// NewSectionChange создает событие смены раздела (Factory Method)
func NewSectionChange(
	from, to valueobject.DashboardSection,
	source ChangeSource,
	occurredAt time.Time,
) (*SectionChange, error) {
	if err := to.Validate(); err != nil {
		return nil, err
	}
	if source == "" {
		source = SourceAPI
	}
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	return &SectionChange{
		id:         uuid.New().String(),
		from:       from,
		to:         to,
		source:     source,
		occurredAt: occurredAt,
	}, nil
}

// ReconstructSectionChange восстанавливает событие из хранилища (для Repository)
func ReconstructSectionChange(
	id string,
	from, to valueobject.DashboardSection,
	source ChangeSource,
	occurredAt time.Time,
) *SectionChange {
	return &SectionChange{
		id:         id,
		from:       from,
		to:         to,
		source:     source,
		occurredAt: occurredAt,
	}
}

// ID возвращает идентификатор события
func (c *SectionChange) ID() string {
	return c.id
}

// From возвращает раздел до перехода
func (c *SectionChange) From() valueobject.DashboardSection {
	return c.from
}

// To возвращает выбранный раздел
func (c *SectionChange) To() valueobject.DashboardSection {
	return c.to
}

// Source возвращает источник выбора
func (c *SectionChange) Source() ChangeSource {
	return c.source
}

// OccurredAt возвращает время события
func (c *SectionChange) OccurredAt() time.Time {
	return c.occurredAt
}

// IsReselect проверяет, был ли выбран уже активный раздел
func (c *SectionChange) IsReselect() bool {
	return c.from == c.to
}
