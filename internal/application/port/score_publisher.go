package port

import (
	"context"
	"time"
)

// ScoreSample one derived dashboard value to export.
type ScoreSample struct {
	Name      string
	Kind      string
	Value     float64
	Unit      string
	Timestamp time.Time
}

// ScorePublisher exports derived dashboard scores to an observability platform.
type ScorePublisher interface {
	// PublishBatch buffers or sends the samples.
	PublishBatch(ctx context.Context, samples []ScoreSample) error

	// Flush forces publication of buffered samples.
	Flush(ctx context.Context) error
}
