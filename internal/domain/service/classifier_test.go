package service

import (
	"testing"

	"github.com/dreschagin/rai-dashboard/internal/domain/valueobject"
)

func TestClassifier_Rating(t *testing.T) {
	c := MustDefaultClassifier()

	tests := []struct {
		score float64
		want  valueobject.Rating
	}{
		{score: 100, want: valueobject.RatingA},
		{score: 90, want: valueobject.RatingA},
		{score: 89.99, want: valueobject.RatingBPlus},
		{score: 80, want: valueobject.RatingBPlus},
		{score: 79, want: valueobject.RatingB},
		{score: 70, want: valueobject.RatingB},
		{score: 69, want: valueobject.RatingC},
		{score: 60, want: valueobject.RatingC},
		{score: 59.5, want: valueobject.RatingD},
		{score: 0, want: valueobject.RatingD},
	}

	for _, tt := range tests {
		if got := c.Rating(tt.score); got != tt.want {
			t.Errorf("Rating(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestClassifier_RatingIsMonotonic(t *testing.T) {
	c := MustDefaultClassifier()

	prev := c.Rating(0)
	for score := 0.5; score <= 100; score += 0.5 {
		got := c.Rating(score)
		if got.Rank() < prev.Rank() {
			t.Fatalf("rating decreased at %v: %s < %s", score, got, prev)
		}
		prev = got
	}
}

func TestClassifier_ToneUsesPerCallSiteThresholds(t *testing.T) {
	c := MustDefaultClassifier()

	tests := []struct {
		name  string
		kind  MetricKind
		score float64
		want  valueobject.Tone
	}{
		{name: "esg high", kind: KindESGItem, score: 85, want: valueobject.ToneSuccess},
		{name: "esg mid", kind: KindESGItem, score: 70, want: valueobject.ToneWarning},
		{name: "esg low", kind: KindESGItem, score: 69.9, want: valueobject.ToneDestructive},
		{name: "rai high", kind: KindRAIVerdict, score: 80, want: valueobject.ToneSuccess},
		{name: "rai mid at esg high band", kind: KindRAIVerdict, score: 65, want: valueobject.ToneWarning},
		{name: "rai low", kind: KindRAIVerdict, score: 64, want: valueobject.ToneDestructive},
		{name: "82 differs per site", kind: KindESGItem, score: 82, want: valueobject.ToneWarning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Tone(tt.kind, tt.score)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}

	if _, err := c.Tone("unknown", 50); err == nil {
		t.Fatal("expected error for unknown metric kind")
	}
}

func TestClassifier_Verdict(t *testing.T) {
	c := MustDefaultClassifier()

	tests := []struct {
		score float64
		want  valueobject.Verdict
	}{
		{score: 78, want: valueobject.VerdictGood},
		{score: 80, want: valueobject.VerdictExcellent},
		{score: 64.9, want: valueobject.VerdictNeedsAttention},
	}
	for _, tt := range tests {
		if got, _ := c.Verdict(tt.score); got != tt.want {
			t.Errorf("Verdict(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestNewClassifier_Validation(t *testing.T) {
	tests := []struct {
		name       string
		thresholds Thresholds
		grades     GradeScale
	}{
		{name: "missing kind", thresholds: Thresholds{KindESGItem: {Low: 70, High: 85}}, grades: DefaultGradeScale()},
		{name: "inverted band", thresholds: Thresholds{KindESGItem: {Low: 90, High: 85}, KindRAIVerdict: {Low: 65, High: 80}}, grades: DefaultGradeScale()},
		{name: "ascending grades", thresholds: DefaultThresholds(), grades: GradeScale{A: 60, BPlus: 70, B: 80, C: 90}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewClassifier(tt.thresholds, tt.grades); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestTones(t *testing.T) {
	if RatingTone(valueobject.RatingB) != valueobject.ToneAccent {
		t.Fatal("B should be accent")
	}
	if TrendTone(valueobject.TrendStable) != valueobject.ToneMuted {
		t.Fatal("stable trend should be muted")
	}
	if RiskTone(valueobject.RiskHigh) != valueobject.ToneDestructive {
		t.Fatal("high risk should be destructive")
	}
	if EventTone(valueobject.EventTriggered) != valueobject.ToneWarning {
		t.Fatal("triggered event should be warning")
	}
}
