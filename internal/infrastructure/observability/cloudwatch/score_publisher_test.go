package cloudwatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/dreschagin/rai-dashboard/internal/application/port"
)

type fakeMetricsAPI struct {
	calls    int
	failures int
	datums   []types.MetricDatum
}

func (f *fakeMetricsAPI) PutMetricData(_ context.Context, params *cloudwatch.PutMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	f.calls++
	if f.failures > 0 {
		f.failures--
		return nil, errors.New("throttled")
	}
	f.datums = append(f.datums, params.MetricData...)
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func newTestScorePublisher(client metricsAPI, bufferSize int) *ScorePublisher {
	p := newScorePublisher(client, ScorePublisherConfig{
		Namespace:         "RAIDashboard/Scores",
		DefaultDimensions: map[string]string{"Environment": "test", "Dashboard": "main"},
		BufferSize:        bufferSize,
		StorageResolution: 30,
	})
	p.retryDelay = time.Millisecond
	return p
}

func TestMapUnit(t *testing.T) {
	tests := []struct {
		unit     string
		expected types.StandardUnit
	}{
		{"Percent", types.StandardUnitPercent},
		{"Milliseconds", types.StandardUnitMilliseconds},
		{"Count", types.StandardUnitCount},
		{"None", types.StandardUnitNone},
		{"$", types.StandardUnitNone},
		{"", types.StandardUnitNone},
	}

	for _, tt := range tests {
		t.Run(tt.unit, func(t *testing.T) {
			if got := mapUnit(tt.unit); got != tt.expected {
				t.Errorf("mapUnit(%q) = %v, want %v", tt.unit, got, tt.expected)
			}
		})
	}
}

func TestToDatum(t *testing.T) {
	p := newTestScorePublisher(&fakeMetricsAPI{}, 10)
	ts := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

	datum := p.toDatum(port.ScoreSample{
		Name:      "rai_metric",
		Kind:      "Fairness",
		Value:     85,
		Unit:      "Percent",
		Timestamp: ts,
	})

	if aws.ToString(datum.MetricName) != "rai_metric" || aws.ToFloat64(datum.Value) != 85 {
		t.Fatalf("unexpected datum %+v", datum)
	}
	if datum.Unit != types.StandardUnitPercent {
		t.Errorf("expected Percent unit, got %v", datum.Unit)
	}
	if !aws.ToTime(datum.Timestamp).Equal(ts) {
		t.Errorf("unexpected timestamp %v", aws.ToTime(datum.Timestamp))
	}
	if aws.ToInt32(datum.StorageResolution) != 60 {
		t.Errorf("invalid resolution must default to 60, got %d", aws.ToInt32(datum.StorageResolution))
	}

	want := []string{"Dashboard=main", "Environment=test", "Kind=Fairness"}
	if len(datum.Dimensions) != len(want) {
		t.Fatalf("expected %d dimensions, got %d", len(want), len(datum.Dimensions))
	}
	for i, dim := range datum.Dimensions {
		if got := aws.ToString(dim.Name) + "=" + aws.ToString(dim.Value); got != want[i] {
			t.Errorf("dimension %d = %s, want %s", i, got, want[i])
		}
	}
}

func TestPublishBatchAutoFlush(t *testing.T) {
	client := &fakeMetricsAPI{}
	p := newTestScorePublisher(client, 3)
	ctx := context.Background()

	if err := p.PublishBatch(ctx, []port.ScoreSample{{Name: "uptime", Value: 99.9}}); err != nil {
		t.Fatalf("PublishBatch() error = %v", err)
	}
	if client.calls != 0 {
		t.Fatalf("expected buffering below the threshold, got %d calls", client.calls)
	}

	if err := p.PublishBatch(ctx, []port.ScoreSample{{Name: "a"}, {Name: "b"}}); err != nil {
		t.Fatalf("PublishBatch() error = %v", err)
	}
	if client.calls != 1 || len(client.datums) != 3 {
		t.Fatalf("expected one flush of 3 datums, got calls=%d datums=%d", client.calls, len(client.datums))
	}

	if err := p.Flush(ctx); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if client.calls != 1 {
		t.Fatal("empty flush must not call CloudWatch")
	}
}

func TestFlushRetriesAndKeepsBufferOnFailure(t *testing.T) {
	ctx := context.Background()

	t.Run("transient", func(t *testing.T) {
		client := &fakeMetricsAPI{failures: 2}
		p := newTestScorePublisher(client, 10)
		_ = p.PublishBatch(ctx, []port.ScoreSample{{Name: "uptime", Value: 99}})

		if err := p.Flush(ctx); err != nil {
			t.Fatalf("Flush() error = %v", err)
		}
		if client.calls != 3 || len(client.datums) != 1 {
			t.Fatalf("expected success on third attempt, got calls=%d", client.calls)
		}
	})

	t.Run("persistent", func(t *testing.T) {
		client := &fakeMetricsAPI{failures: 10}
		p := newTestScorePublisher(client, 10)
		_ = p.PublishBatch(ctx, []port.ScoreSample{{Name: "uptime", Value: 99}})

		if err := p.Flush(ctx); err == nil {
			t.Fatal("expected error after exhausting retries")
		}
		if client.calls != maxRetries {
			t.Fatalf("expected %d attempts, got %d", maxRetries, client.calls)
		}
		if len(p.buffer) != 1 {
			t.Fatal("failed samples must stay buffered")
		}
	})
}
