package entity

import (
	"errors"
	"sync"

	"github.com/dreschagin/rai-dashboard/internal/domain/valueobject"
)

// DefaultBreakpoint ширина в логических пикселях, ниже которой viewport считается узким
const DefaultBreakpoint = 1024

// NavigationConfig параметры оболочки дашборда
type NavigationConfig struct {
	InitialSection valueobject.DashboardSection
	// OnSectionChange вызывается ровно один раз на каждый Select в порядке вызовов.
	// Может вызывать Select. nil отключает уведомления.
	OnSectionChange func(valueobject.DashboardSection)
	ShowSidebar     bool
	ClassName       string
	Breakpoint      int
}

// DefaultNavigationConfig возвращает конфигурацию по умолчанию
func DefaultNavigationConfig() NavigationConfig {
	return NavigationConfig{
		InitialSection: valueobject.DefaultSection,
		ShowSidebar:    true,
		Breakpoint:     DefaultBreakpoint,
	}
}

// NavigationSnapshot неизменяемый снимок состояния навигации
type NavigationSnapshot struct {
	ActiveSection    valueobject.DashboardSection
	SidebarOpen      bool
	IsNarrowViewport bool
	ShowSidebar      bool
	ClassName        string
	Breakpoint       int
}

// SectionTransition результат Select
type SectionTransition struct {
	From  valueobject.DashboardSection
	To    valueobject.DashboardSection
	State NavigationSnapshot
}

// NavigationState состояние навигации по разделам (Aggregate Root)
// Меняется только через методы переходов.
type NavigationState struct {
	mu sync.Mutex
	// pending очередь уведомлений в порядке Select, delivering true пока
	// какой-то вызов Select ее разбирает
	pending    []valueobject.DashboardSection
	delivering bool

	activeSection    valueobject.DashboardSection
	sidebarOpen      bool
	isNarrowViewport bool

	showSidebar     bool
	className       string
	breakpoint      int
	onSectionChange func(valueobject.DashboardSection)
}

// NewNavigationState создает состояние навигации (Factory Method)
// До первого сигнала о ширине viewport считается широким, сайдбар закрыт.
func NewNavigationState(cfg NavigationConfig) (*NavigationState, error) {
	initial := cfg.InitialSection
	if initial == "" {
		initial = valueobject.DefaultSection
	}
	if err := initial.Validate(); err != nil {
		return nil, err
	}

	breakpoint := cfg.Breakpoint
	if breakpoint <= 0 {
		breakpoint = DefaultBreakpoint
	}

	return &NavigationState{
		activeSection:   initial,
		showSidebar:     cfg.ShowSidebar,
		className:       cfg.ClassName,
		breakpoint:      breakpoint,
		onSectionChange: cfg.OnSectionChange,
	}, nil
}

// Select делает раздел активным без каких-либо проверок переходов.
// На узком viewport закрывает сайдбар. Уведомление приходит даже при повторном выборе.
func (n *NavigationState) Select(section valueobject.DashboardSection) (SectionTransition, error) {
	if err := section.Validate(); err != nil {
		return SectionTransition{}, err
	}

	n.mu.Lock()
	from := n.activeSection
	n.activeSection = section
	if n.isNarrowViewport {
		n.sidebarOpen = false
	}
	snapshot := n.snapshotLocked()
	n.pending = append(n.pending, section)
	n.deliverLocked()
	n.mu.Unlock()

	return SectionTransition{From: from, To: section, State: snapshot}, nil
}

// deliverLocked разбирает очередь уведомлений, если этого не делает другой вызов.
// Колбэк вызывается без блокировки, поэтому может сам вызвать Select: такое
// уведомление встает в очередь и уходит следом за текущим.
func (n *NavigationState) deliverLocked() {
	if n.onSectionChange == nil {
		n.pending = nil
		return
	}
	if n.delivering {
		return
	}

	n.delivering = true
	for len(n.pending) > 0 {
		next := n.pending[0]
		n.pending = n.pending[1:]
		n.mu.Unlock()
		n.onSectionChange(next)
		n.mu.Lock()
	}
	n.delivering = false
}

// ToggleSidebar переключает сайдбар. На широком viewport ничего не делает.
// Второе значение сообщает, изменилось ли состояние.
func (n *NavigationState) ToggleSidebar() (NavigationSnapshot, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.isNarrowViewport {
		return n.snapshotLocked(), false
	}
	n.sidebarOpen = !n.sidebarOpen
	return n.snapshotLocked(), true
}

// CloseSidebar закрывает сайдбар (клик по подложке)
func (n *NavigationState) CloseSidebar() NavigationSnapshot {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.sidebarOpen = false
	return n.snapshotLocked()
}

// SetViewportWidth пересчитывает признак узкого viewport.
// На широком viewport сайдбар всегда закрыт, поэтому переход узкий→широкий его закрывает.
func (n *NavigationState) SetViewportWidth(width int) (NavigationSnapshot, error) {
	if width < 0 {
		return NavigationSnapshot{}, errors.New("viewport width cannot be negative")
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	n.isNarrowViewport = width < n.breakpoint
	if !n.isNarrowViewport {
		n.sidebarOpen = false
	}
	return n.snapshotLocked(), nil
}

// Snapshot возвращает текущее состояние
func (n *NavigationState) Snapshot() NavigationSnapshot {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.snapshotLocked()
}

// ActiveSection возвращает активный раздел
func (n *NavigationState) ActiveSection() valueobject.DashboardSection {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.activeSection
}

func (n *NavigationState) snapshotLocked() NavigationSnapshot {
	return NavigationSnapshot{
		ActiveSection:    n.activeSection,
		SidebarOpen:      n.sidebarOpen,
		IsNarrowViewport: n.isNarrowViewport,
		ShowSidebar:      n.showSidebar,
		ClassName:        n.className,
		Breakpoint:       n.breakpoint,
	}
}
