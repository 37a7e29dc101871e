package memory

import (
	"context"
	"testing"
	"time"

	"github.com/dreschagin/rai-dashboard/internal/domain/entity"
	"github.com/dreschagin/rai-dashboard/internal/domain/valueobject"
)

func TestSectionChangeJournal_NewestFirstAndBounded(t *testing.T) {
	journal := NewSectionChangeJournal(2)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	targets := []valueobject.DashboardSection{
		valueobject.SectionLiveDashboard,
		valueobject.SectionGuardrails,
		valueobject.SectionPolicies,
	}
	from := valueobject.SectionOverview
	for i, to := range targets {
		change, err := entity.NewSectionChange(from, to, entity.SourceSidebar, base.Add(time.Duration(i)*time.Second))
		if err != nil {
			t.Fatalf("NewSectionChange() error = %v", err)
		}
		if err := journal.Save(ctx, change); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		from = to
	}

	recent, err := journal.FindRecent(ctx, 10)
	if err != nil {
		t.Fatalf("FindRecent() error = %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 changes after eviction, got %d", len(recent))
	}
	if recent[0].To() != valueobject.SectionPolicies || recent[1].To() != valueobject.SectionGuardrails {
		t.Fatalf("unexpected order: %s, %s", recent[0].To(), recent[1].To())
	}

	limited, _ := journal.FindRecent(ctx, 1)
	if len(limited) != 1 || limited[0].To() != valueobject.SectionPolicies {
		t.Fatalf("expected newest change only, got %v", limited)
	}
}
