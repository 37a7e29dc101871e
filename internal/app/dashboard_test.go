package app

import (
	"context"
	"testing"
	"time"

	"github.com/dreschagin/rai-dashboard/internal/domain/entity"
	"github.com/dreschagin/rai-dashboard/internal/domain/valueobject"
	"github.com/dreschagin/rai-dashboard/pkg/config"
	"github.com/dreschagin/rai-dashboard/pkg/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		Dashboard: config.DashboardConfig{
			InitialSection:        "overview",
			Breakpoint:            1024,
			ShowSidebar:           true,
			CostHistorySamples:    20,
			CostHistoryMaxSamples: 500,
			CostHistoryBase:       0.022,
			CostHistorySpacing:    3 * time.Minute,
		},
		Thresholds: config.ThresholdsConfig{
			ESGItemLow:     70,
			ESGItemHigh:    85,
			RAIVerdictLow:  65,
			RAIVerdictHigh: 80,
			GradeA:         90,
			GradeBPlus:     80,
			GradeB:         70,
			GradeC:         60,
		},
		Snapshot: config.SnapshotConfig{DefaultLimit: 20, MaxLimit: 100},
	}
}

func TestBuild_EverySectionHasPage(t *testing.T) {
	d, err := Build(testConfig(), Deps{}, logger.New("error"))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	for _, section := range valueobject.AllSections() {
		page, err := d.Pages.Execute(context.Background(), section)
		if err != nil {
			t.Fatalf("Execute(%s) error = %v", section, err)
		}
		if page.Section != section.String() {
			t.Fatalf("expected page for %s, got %s", section, page.Section)
		}
	}

	if got := d.Navigate.ActiveSection(); got != valueobject.SectionOverview {
		t.Fatalf("expected overview to be active, got %s", got)
	}
}

func TestBuild_RecordsSelectionsInJournal(t *testing.T) {
	d, err := Build(testConfig(), Deps{}, logger.New("error"))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if _, err := d.Navigate.Select(context.Background(), valueobject.SectionPolicies, entity.SourceAPI); err != nil {
		t.Fatalf("Select() error = %v", err)
	}

	changes, err := d.History.Execute(context.Background(), 10)
	if err != nil {
		t.Fatalf("History.Execute() error = %v", err)
	}
	if len(changes) != 1 || changes[0].To != valueobject.SectionPolicies.String() {
		t.Fatalf("unexpected history: %+v", changes)
	}
}

func TestBuild_RejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *config.Config)
	}{
		{
			name:   "unknown initial section",
			mutate: func(cfg *config.Config) { cfg.Dashboard.InitialSection = "billing" },
		},
		{
			name:   "inverted esg band",
			mutate: func(cfg *config.Config) { cfg.Thresholds.ESGItemLow = 90 },
		},
		{
			name:   "ascending grade scale",
			mutate: func(cfg *config.Config) { cfg.Thresholds.GradeC = 95 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(cfg)
			if _, err := Build(cfg, Deps{}, logger.New("error")); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestNavigationConfig_EmptyInitialSectionFallsBack(t *testing.T) {
	navCfg, err := NavigationConfig(config.DashboardConfig{Breakpoint: 800})
	if err != nil {
		t.Fatalf("NavigationConfig() error = %v", err)
	}
	if navCfg.InitialSection != valueobject.DefaultSection {
		t.Fatalf("expected default section, got %s", navCfg.InitialSection)
	}
	if navCfg.Breakpoint != 800 {
		t.Fatalf("expected breakpoint 800, got %d", navCfg.Breakpoint)
	}
}
