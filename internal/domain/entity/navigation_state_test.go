package entity

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dreschagin/rai-dashboard/internal/domain/valueobject"
)

type sectionRecorder struct {
	mu       sync.Mutex
	sections []valueobject.DashboardSection
}

func (r *sectionRecorder) record(section valueobject.DashboardSection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sections = append(r.sections, section)
}

func (r *sectionRecorder) calls() []valueobject.DashboardSection {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]valueobject.DashboardSection(nil), r.sections...)
}

func newTestNavigation(t *testing.T, recorder *sectionRecorder) *NavigationState {
	t.Helper()

	cfg := DefaultNavigationConfig()
	if recorder != nil {
		cfg.OnSectionChange = recorder.record
	}
	state, err := NewNavigationState(cfg)
	if err != nil {
		t.Fatalf("NewNavigationState() error = %v", err)
	}
	return state
}

func TestNewNavigationState_Defaults(t *testing.T) {
	state, err := NewNavigationState(NavigationConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := state.Snapshot()
	if got.ActiveSection != valueobject.SectionOverview {
		t.Fatalf("expected overview, got %s", got.ActiveSection)
	}
	if got.SidebarOpen {
		t.Fatal("expected sidebar closed initially")
	}
	if got.IsNarrowViewport {
		t.Fatal("expected wide viewport before first width signal")
	}
	if got.Breakpoint != DefaultBreakpoint {
		t.Fatalf("expected breakpoint %d, got %d", DefaultBreakpoint, got.Breakpoint)
	}
}

func TestNewNavigationState_RejectsUnknownInitialSection(t *testing.T) {
	_, err := NewNavigationState(NavigationConfig{InitialSection: "reports"})
	if !errors.Is(err, valueobject.ErrUnknownSection) {
		t.Fatalf("expected ErrUnknownSection, got %v", err)
	}
}

func TestNavigationState_SelectReachesEverySection(t *testing.T) {
	for _, from := range valueobject.AllSections() {
		for _, to := range valueobject.AllSections() {
			state, err := NewNavigationState(NavigationConfig{InitialSection: from})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			transition, err := state.Select(to)
			if err != nil {
				t.Fatalf("Select(%s) from %s error = %v", to, from, err)
			}
			if transition.From != from || transition.To != to {
				t.Fatalf("unexpected transition %+v", transition)
			}
			if state.ActiveSection() != to {
				t.Fatalf("expected %s, got %s", to, state.ActiveSection())
			}
		}
	}
}

func TestNavigationState_SelectClosesSidebarOnNarrowViewport(t *testing.T) {
	tests := []struct {
		name        string
		openBefore  bool
		wantSidebar bool
	}{
		{name: "sidebar open", openBefore: true, wantSidebar: false},
		{name: "sidebar closed", openBefore: false, wantSidebar: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := newTestNavigation(t, nil)
			if _, err := state.SetViewportWidth(800); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.openBefore {
				state.ToggleSidebar()
			}

			transition, err := state.Select(valueobject.SectionPolicies)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if transition.State.SidebarOpen != tt.wantSidebar {
				t.Fatalf("expected sidebarOpen=%v, got %v", tt.wantSidebar, transition.State.SidebarOpen)
			}
		})
	}
}

func TestNavigationState_SelectNotifiesWithoutDeduplication(t *testing.T) {
	recorder := &sectionRecorder{}
	state := newTestNavigation(t, recorder)

	if _, err := state.Select(valueobject.SectionOverview); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := state.Select(valueobject.SectionOverview); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	calls := recorder.calls()
	if len(calls) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(calls))
	}
	for _, section := range calls {
		if section != valueobject.SectionOverview {
			t.Fatalf("unexpected notification %s", section)
		}
	}
}

func TestNavigationState_SelectUnknownSectionDoesNotNotify(t *testing.T) {
	recorder := &sectionRecorder{}
	state := newTestNavigation(t, recorder)

	_, err := state.Select("unknown")
	if !errors.Is(err, valueobject.ErrUnknownSection) {
		t.Fatalf("expected ErrUnknownSection, got %v", err)
	}
	if len(recorder.calls()) != 0 {
		t.Fatal("callback must not fire for rejected select")
	}
	if state.ActiveSection() != valueobject.SectionOverview {
		t.Fatalf("active section changed to %s", state.ActiveSection())
	}
}

func TestNavigationState_ToggleSidebarIsNoopWhenWide(t *testing.T) {
	state := newTestNavigation(t, nil)
	if _, err := state.SetViewportWidth(1440); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snapshot, changed := state.ToggleSidebar()
	if changed {
		t.Fatal("toggle must be a no-op on wide viewport")
	}
	if snapshot.SidebarOpen {
		t.Fatal("sidebar must stay closed on wide viewport")
	}
}

func TestNavigationState_ViewportRecompute(t *testing.T) {
	tests := []struct {
		name       string
		width      int
		wantNarrow bool
	}{
		{name: "below breakpoint", width: 1023, wantNarrow: true},
		{name: "at breakpoint", width: 1024, wantNarrow: false},
		{name: "zero width", width: 0, wantNarrow: true},
		{name: "desktop", width: 1920, wantNarrow: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := newTestNavigation(t, nil)
			snapshot, err := state.SetViewportWidth(tt.width)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if snapshot.IsNarrowViewport != tt.wantNarrow {
				t.Fatalf("expected narrow=%v, got %v", tt.wantNarrow, snapshot.IsNarrowViewport)
			}
		})
	}

	state := newTestNavigation(t, nil)
	if _, err := state.SetViewportWidth(-1); err == nil {
		t.Fatal("expected error for negative width")
	}
}

func TestNavigationState_NarrowToWideClosesSidebar(t *testing.T) {
	state := newTestNavigation(t, nil)
	if _, err := state.SetViewportWidth(600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snapshot, _ := state.ToggleSidebar(); !snapshot.SidebarOpen {
		t.Fatal("expected sidebar open after toggle on narrow viewport")
	}

	snapshot, err := state.SetViewportWidth(1280)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snapshot.IsNarrowViewport || snapshot.SidebarOpen {
		t.Fatalf("expected wide viewport with closed sidebar, got %+v", snapshot)
	}
}

func TestNavigationState_CloseSidebar(t *testing.T) {
	state := newTestNavigation(t, nil)
	if _, err := state.SetViewportWidth(600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	state.ToggleSidebar()

	if snapshot := state.CloseSidebar(); snapshot.SidebarOpen {
		t.Fatal("expected sidebar closed")
	}
}

func TestNavigationState_EndToEndScenario(t *testing.T) {
	recorder := &sectionRecorder{}
	state := newTestNavigation(t, recorder)

	snapshot, err := state.SetViewportWidth(1200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snapshot.IsNarrowViewport || snapshot.SidebarOpen {
		t.Fatalf("step 1: unexpected state %+v", snapshot)
	}

	snapshot, err = state.SetViewportWidth(800)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !snapshot.IsNarrowViewport {
		t.Fatal("step 2: expected narrow viewport")
	}

	snapshot, _ = state.ToggleSidebar()
	if !snapshot.SidebarOpen {
		t.Fatal("step 3: expected sidebar open")
	}

	transition, err := state.Select(valueobject.SectionLiveDashboard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if transition.State.ActiveSection != valueobject.SectionLiveDashboard || transition.State.SidebarOpen {
		t.Fatalf("step 4: unexpected state %+v", transition.State)
	}

	calls := recorder.calls()
	if len(calls) != 1 || calls[0] != valueobject.SectionLiveDashboard {
		t.Fatalf("expected one notification with dashboard, got %v", calls)
	}
}

func TestNavigationState_SelectAndResizeCommute(t *testing.T) {
	orders := map[string]func(*NavigationState){
		"select then resize": func(s *NavigationState) {
			_, _ = s.Select(valueobject.SectionPerformance)
			_, _ = s.SetViewportWidth(1300)
		},
		"resize then select": func(s *NavigationState) {
			_, _ = s.SetViewportWidth(1300)
			_, _ = s.Select(valueobject.SectionPerformance)
		},
	}

	for name, apply := range orders {
		t.Run(name, func(t *testing.T) {
			state := newTestNavigation(t, nil)
			_, _ = state.SetViewportWidth(700)
			state.ToggleSidebar()

			apply(state)

			got := state.Snapshot()
			if got.ActiveSection != valueobject.SectionPerformance || got.SidebarOpen || got.IsNarrowViewport {
				t.Fatalf("unexpected final state %+v", got)
			}
		})
	}
}

func TestNavigationState_ConcurrentSelectsNotifyOncePerCall(t *testing.T) {
	recorder := &sectionRecorder{}
	state := newTestNavigation(t, recorder)

	const workers = 16
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sections := valueobject.AllSections()
			_, _ = state.Select(sections[i%len(sections)])
		}(i)
	}
	wg.Wait()

	if got := len(recorder.calls()); got != workers {
		t.Fatalf("expected %d notifications, got %d", workers, got)
	}
}

func TestNavigationState_CallbackMaySelect(t *testing.T) {
	recorder := &sectionRecorder{}
	var state *NavigationState

	cfg := DefaultNavigationConfig()
	cfg.OnSectionChange = func(section valueobject.DashboardSection) {
		recorder.record(section)
		// хост перенаправляет policies на overview
		if section == valueobject.SectionPolicies {
			if _, err := state.Select(valueobject.SectionOverview); err != nil {
				t.Errorf("nested Select() error = %v", err)
			}
		}
	}
	var err error
	state, err = NewNavigationState(cfg)
	if err != nil {
		t.Fatalf("NewNavigationState() error = %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = state.Select(valueobject.SectionPolicies)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Select from the callback deadlocked")
	}

	want := []valueobject.DashboardSection{valueobject.SectionPolicies, valueobject.SectionOverview}
	calls := recorder.calls()
	if len(calls) != len(want) {
		t.Fatalf("expected %v, got %v", want, calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, calls)
		}
	}
	if state.ActiveSection() != valueobject.SectionOverview {
		t.Fatalf("expected overview active, got %s", state.ActiveSection())
	}
}

func TestNavigationState_ConcurrentSelectsNotifyInStateOrder(t *testing.T) {
	var (
		mu       sync.Mutex
		notified []valueobject.DashboardSection
		state    *NavigationState
	)
	cfg := DefaultNavigationConfig()
	cfg.OnSectionChange = func(section valueobject.DashboardSection) {
		mu.Lock()
		notified = append(notified, section)
		mu.Unlock()
	}
	var err error
	state, err = NewNavigationState(cfg)
	if err != nil {
		t.Fatalf("NewNavigationState() error = %v", err)
	}

	sections := valueobject.AllSections()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = state.Select(sections[i%len(sections)])
		}(i)
	}
	wg.Wait()

	if len(notified) != 32 {
		t.Fatalf("expected 32 notifications, got %d", len(notified))
	}
	if last := notified[len(notified)-1]; last != state.ActiveSection() {
		t.Fatalf("last notification %s differs from active %s", last, state.ActiveSection())
	}
}
