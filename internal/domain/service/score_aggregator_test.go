package service

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/dreschagin/rai-dashboard/internal/domain/entity"
	"github.com/dreschagin/rai-dashboard/internal/domain/valueobject"
)

func esgSet(scores ...float64) []entity.ESGMetric {
	metrics := make([]entity.ESGMetric, 0, len(scores))
	for _, s := range scores {
		metrics = append(metrics, entity.ESGMetric{Score: s})
	}
	return metrics
}

func TestScoreAggregator_OverallESGScore(t *testing.T) {
	a := NewScoreAggregator()

	tests := []struct {
		name   string
		scores []float64
		want   int
	}{
		{name: "dashboard seed", scores: []float64{85, 68, 58}, want: 70},
		{name: "single", scores: []float64{42}, want: 42},
		{name: "half rounds up", scores: []float64{70, 71}, want: 71},
		{name: "bounds", scores: []float64{0, 100}, want: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.OverallESGScore(esgSet(tt.scores...))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestScoreAggregator_OverallESGScoreMatchesRoundedMean(t *testing.T) {
	a := NewScoreAggregator()
	rnd := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		n := 1 + rnd.Intn(6)
		scores := make([]float64, n)
		var sum float64
		for j := range scores {
			scores[j] = float64(rnd.Intn(101))
			sum += scores[j]
		}

		got, err := a.OverallESGScore(esgSet(scores...))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := int(math.Floor(sum/float64(n) + 0.5))
		if got != want {
			t.Fatalf("scores %v: expected %d, got %d", scores, want, got)
		}
		if got < 0 || got > 100 {
			t.Fatalf("score %d out of [0,100]", got)
		}
	}
}

func TestScoreAggregator_EmptyInputs(t *testing.T) {
	a := NewScoreAggregator()

	checks := map[string]func() error{
		"esg": func() error {
			_, err := a.OverallESGScore(nil)
			return err
		},
		"rai": func() error {
			_, err := a.OverallRAIScore(nil)
			return err
		},
		"guardrail stats": func() error {
			_, err := a.GuardrailStats(nil)
			return err
		},
		"effectiveness summary": func() error {
			_, err := a.EffectivenessSummary(nil)
			return err
		},
		"zero triggers": func() error {
			_, err := a.GuardrailEffectiveness(entity.Guardrail{ID: "gr-x"})
			return err
		},
	}

	for name, check := range checks {
		t.Run(name, func(t *testing.T) {
			err := check()
			if !errors.Is(err, ErrEmptyInput) {
				t.Fatalf("expected ErrEmptyInput, got %v", err)
			}
			var emptyErr *EmptyInputError
			if !errors.As(err, &emptyErr) || emptyErr.Op == "" {
				t.Fatalf("expected EmptyInputError with op, got %v", err)
			}
		})
	}
}

func TestScoreAggregator_OverallRAIScore(t *testing.T) {
	a := NewScoreAggregator()
	metrics := []entity.RAIMetric{
		{Name: "AI Safety", Value: 85},
		{Name: "Performance", Value: 82},
		{Name: "Security", Value: 72},
		{Name: "Compliance", Value: 74},
	}

	got, err := a.OverallRAIScore(metrics)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 78 {
		t.Fatalf("expected 78, got %d", got)
	}
}

func guardrail(id, category string, triggered, blocked, passed int) entity.Guardrail {
	return entity.Guardrail{
		ID:       id,
		Category: category,
		Status:   valueobject.GuardrailActive,
		Metrics: entity.GuardrailMetrics{
			Triggered: triggered,
			Blocked:   blocked,
			Passed:    passed,
		},
	}
}

func TestScoreAggregator_GuardrailStats(t *testing.T) {
	a := NewScoreAggregator()
	guardrails := []entity.Guardrail{
		guardrail("gr-001", "Privacy", 245, 230, 15),
		guardrail("gr-002", "Safety", 189, 185, 4),
		guardrail("gr-003", "Fairness", 156, 142, 14),
		guardrail("gr-004", "Security", 78, 78, 0),
		guardrail("gr-005", "Accuracy", 312, 267, 45),
		guardrail("gr-006", "Security", 45, 45, 0),
	}
	guardrails[5].Status = valueobject.GuardrailInactive

	stats, err := a.GuardrailStats(guardrails)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.TotalGuardrails != 6 || stats.ActiveGuardrails != 5 {
		t.Fatalf("unexpected counts: %+v", stats)
	}
	if stats.TotalBlocked != 947 || stats.TotalTriggered != 1025 || stats.TotalPassed != 78 {
		t.Fatalf("unexpected totals: %+v", stats)
	}
	if stats.OverallEffectiveness != 92.4 {
		t.Fatalf("expected 92.4, got %v", stats.OverallEffectiveness)
	}

	wantOrder := []string{"Privacy", "Safety", "Fairness", "Security", "Accuracy"}
	if len(stats.ByCategory) != len(wantOrder) {
		t.Fatalf("expected %d categories, got %d", len(wantOrder), len(stats.ByCategory))
	}
	for i, category := range wantOrder {
		if stats.ByCategory[i].Category != category {
			t.Fatalf("category %d: expected %s, got %s", i, category, stats.ByCategory[i].Category)
		}
	}

	security := stats.ByCategory[3]
	if security.Count != 2 || security.Effectiveness != 100 {
		t.Fatalf("unexpected security stats: %+v", security)
	}
}

func TestScoreAggregator_GuardrailStatsRejectsCategoryWithoutTriggers(t *testing.T) {
	a := NewScoreAggregator()
	_, err := a.GuardrailStats([]entity.Guardrail{
		guardrail("gr-001", "Privacy", 10, 9, 1),
		guardrail("gr-002", "Idle", 0, 0, 0),
	})
	if !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}

func TestScoreAggregator_EffectivenessSummary(t *testing.T) {
	a := NewScoreAggregator()
	samples := []entity.EffectivenessSample{
		{Name: "PII Detection", Effectiveness: 98.5, DetectionRate: 99.2, PreventionRate: 97.8},
		{Name: "Bias Detection", Effectiveness: 94.3, DetectionRate: 95.1, PreventionRate: 93.5},
		{Name: "Toxicity Filter", Effectiveness: 96.7, DetectionRate: 97.5, PreventionRate: 95.9},
		{Name: "Content Safety", Effectiveness: 97.2, DetectionRate: 98.0, PreventionRate: 96.4},
	}

	got, err := a.EffectivenessSummary(samples)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// одна десятая допускает любое направление округления на границе .x5
	within := func(got, want float64) bool { return math.Abs(got-want) <= 0.051 }
	if !within(got.Effectiveness, 96.675) || !within(got.DetectionRate, 97.45) || !within(got.PreventionRate, 95.9) {
		t.Fatalf("unexpected summary: %+v", got)
	}
	if got.Effectiveness*10 != math.Round(got.Effectiveness*10) {
		t.Fatalf("expected one decimal, got %v", got.Effectiveness)
	}
}
