package dto

import (
	"time"

	"github.com/dreschagin/rai-dashboard/internal/domain/entity"
)

// NavigationStateDTO состояние навигации для клиентов
type NavigationStateDTO struct {
	ActiveSection    string `json:"active_section"`
	SidebarOpen      bool   `json:"sidebar_open"`
	IsNarrowViewport bool   `json:"is_narrow_viewport"`
	ShowSidebar      bool   `json:"show_sidebar"`
	ClassName        string `json:"class_name,omitempty"`
	Breakpoint       int    `json:"breakpoint"`
}

// FromNavigationSnapshot конвертирует снимок состояния в DTO
func FromNavigationSnapshot(s entity.NavigationSnapshot) NavigationStateDTO {
	return NavigationStateDTO{
		ActiveSection:    s.ActiveSection.String(),
		SidebarOpen:      s.SidebarOpen,
		IsNarrowViewport: s.IsNarrowViewport,
		ShowSidebar:      s.ShowSidebar,
		ClassName:        s.ClassName,
		Breakpoint:       s.Breakpoint,
	}
}

// SidebarItemDTO пункт меню
type SidebarItemDTO struct {
	Section     string `json:"section"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
}

// SectionChangeDTO событие смены раздела для брокера и WebSocket
type SectionChangeDTO struct {
	ID         string    `json:"id"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	Source     string    `json:"source"`
	OccurredAt time.Time `json:"occurred_at"`
}

// FromSectionChange конвертирует событие в DTO
func FromSectionChange(c *entity.SectionChange) SectionChangeDTO {
	return SectionChangeDTO{
		ID:         c.ID(),
		From:       c.From().String(),
		To:         c.To().String(),
		Source:     string(c.Source()),
		OccurredAt: c.OccurredAt(),
	}
}

// NavigationUpdateDTO сообщение об изменении навигации
type NavigationUpdateDTO struct {
	State  NavigationStateDTO `json:"state"`
	Change *SectionChangeDTO  `json:"change,omitempty"`
}

// InteractionResultDTO результат клика на обзорной странице
type InteractionResultDTO struct {
	Kind       string              `json:"kind"`
	Name       string              `json:"name,omitempty"`
	Routed     bool                `json:"routed"`
	Target     string              `json:"target,omitempty"`
	Navigation *NavigationStateDTO `json:"navigation,omitempty"`
}
