package cli

import (
	"context"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/dreschagin/rai-dashboard/internal/app"
	"github.com/dreschagin/rai-dashboard/pkg/config"
	"github.com/dreschagin/rai-dashboard/pkg/logger"
)

func newTestTUI(t *testing.T) (*tuiModel, *app.Dashboard) {
	t.Helper()

	cfg := &config.Config{
		Dashboard: config.DashboardConfig{
			InitialSection:        "overview",
			Breakpoint:            defaultTerminalBreakpoint,
			ShowSidebar:           true,
			CostHistorySamples:    5,
			CostHistoryMaxSamples: 50,
			CostHistorySpacing:    3 * time.Minute,
		},
		Thresholds: config.ThresholdsConfig{
			ESGItemLow: 70, ESGItemHigh: 85,
			RAIVerdictLow: 65, RAIVerdictHigh: 80,
			GradeA: 90, GradeBPlus: 80, GradeB: 70, GradeC: 60,
		},
	}
	dashboard, err := app.Build(cfg, app.Deps{}, logger.New("error"))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	model, err := newTUIModel(context.Background(), dashboard.Navigate, dashboard.Pages)
	if err != nil {
		t.Fatalf("newTUIModel() error = %v", err)
	}
	return model, dashboard
}

func press(m *tuiModel, text string) tea.Cmd {
	_, cmd := m.Update(tea.KeyPressMsg{Code: rune(text[0]), Text: text})
	return cmd
}

func TestTUI_StartsOnActiveSection(t *testing.T) {
	m, _ := newTestTUI(t)

	if m.page == nil || m.page.Section != "overview" {
		t.Fatalf("expected overview page, got %+v", m.page)
	}
	if !m.items[m.cursor].Active {
		t.Fatal("cursor should start on the active section")
	}
	if m.nav.IsNarrowViewport {
		t.Fatal("viewport is wide until the first size signal")
	}
}

func TestTUI_ViewportDrivesSidebar(t *testing.T) {
	m, _ := newTestTUI(t)

	m.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	if m.nav.IsNarrowViewport || !m.sidebarVisible() {
		t.Fatalf("wide terminal should pin the sidebar: %+v", m.nav)
	}

	press(m, "s")
	if m.nav.SidebarOpen {
		t.Fatal("toggle must be a no-op on a wide terminal")
	}

	m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	if !m.nav.IsNarrowViewport || m.sidebarVisible() {
		t.Fatalf("narrow terminal should hide the sidebar: %+v", m.nav)
	}

	press(m, "s")
	if !m.nav.SidebarOpen || !m.sidebarVisible() {
		t.Fatal("toggle should open the sidebar on a narrow terminal")
	}

	m.handleKey("esc")
	if m.nav.SidebarOpen {
		t.Fatal("esc should close the sidebar")
	}

	press(m, "s")
	m.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	if m.nav.SidebarOpen {
		t.Fatal("growing past the breakpoint should close the sidebar")
	}
}

func TestTUI_SelectRecordsTerminalChange(t *testing.T) {
	m, dashboard := newTestTUI(t)

	press(m, "j")
	press(m, "j")
	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	want := m.items[2].Section
	if m.nav.ActiveSection != want || m.page.Section != want {
		t.Fatalf("expected %s to be active, got nav=%s page=%s", want, m.nav.ActiveSection, m.page.Section)
	}
	if !m.items[2].Active {
		t.Fatal("sidebar should mark the selected section")
	}

	changes, err := dashboard.History.Execute(context.Background(), 10)
	if err != nil {
		t.Fatalf("History.Execute() error = %v", err)
	}
	if len(changes) != 1 || changes[0].Source != "terminal" || changes[0].To != want {
		t.Fatalf("unexpected history: %+v", changes)
	}
}

func TestTUI_DigitJumpsAndSelectClosesNarrowSidebar(t *testing.T) {
	m, _ := newTestTUI(t)

	m.Update(tea.WindowSizeMsg{Width: 60, Height: 30})
	press(m, "s")
	press(m, "6")

	if m.cursor != 5 || m.nav.ActiveSection != m.items[5].Section {
		t.Fatalf("expected sixth section, got cursor=%d active=%s", m.cursor, m.nav.ActiveSection)
	}
	if m.nav.SidebarOpen {
		t.Fatal("selecting on a narrow terminal should close the sidebar")
	}

	press(m, "9")
	if m.cursor != 5 {
		t.Fatal("out of range digit must be ignored")
	}
}

func TestTUI_CursorStaysInBounds(t *testing.T) {
	m, _ := newTestTUI(t)

	press(m, "k")
	if m.cursor != 0 {
		t.Fatalf("cursor moved above the first item: %d", m.cursor)
	}
	for range 20 {
		press(m, "j")
	}
	if m.cursor != len(m.items)-1 {
		t.Fatalf("cursor moved past the last item: %d", m.cursor)
	}
}

func TestTUI_Quit(t *testing.T) {
	m, _ := newTestTUI(t)

	if v := m.View(); !v.AltScreen {
		t.Fatal("expected alt screen view")
	}
	if cmd := press(m, "q"); cmd == nil {
		t.Fatal("expected quit command")
	}
	if !m.quitting {
		t.Fatal("expected model to be quitting")
	}
}
