package entity

import "github.com/dreschagin/rai-dashboard/internal/domain/valueobject"

// SidebarItem пункт бокового меню
type SidebarItem struct {
	Section     valueobject.DashboardSection
	Label       string
	Description string
}
