package cloudwatch

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/dreschagin/rai-dashboard/internal/application/port"
	"github.com/dreschagin/rai-dashboard/internal/infrastructure/awsclient"
)

// CloudWatch accepts at most 1000 data points per PutMetricData call.
const maxDatumsPerRequest = 1000

type metricsAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// ScorePublisherConfig holds configuration for exporting dashboard scores.
type ScorePublisherConfig struct {
	Namespace         string // e.g. "RAIDashboard/Scores"
	Region            string
	Endpoint          string // optional override for LocalStack
	AccessKeyID       string
	SecretAccessKey   string
	DefaultDimensions map[string]string // added to every datum
	BufferSize        int
	FlushInterval     time.Duration
	StorageResolution int32 // 1 or 60 seconds
}

// ScorePublisher buffers score samples and ships them to CloudWatch Metrics.
type ScorePublisher struct {
	client            metricsAPI
	namespace         string
	defaultDimensions map[string]string
	storageResolution int32
	retryDelay        time.Duration

	mu         sync.Mutex
	buffer     []port.ScoreSample
	bufferSize int

	stopCh chan struct{}
	wg     sync.WaitGroup
}

var _ port.ScorePublisher = (*ScorePublisher)(nil)

// NewScorePublisher creates the publisher and starts its background flush loop.
func NewScorePublisher(ctx context.Context, cfg ScorePublisherConfig) (*ScorePublisher, error) {
	if cfg.Namespace == "" {
		return nil, fmt.Errorf("namespace is required")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("region is required")
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 10 * time.Second
	}

	awsCfg, err := awsclient.LoadConfig(ctx, awsclient.Settings{
		Region:          cfg.Region,
		Endpoint:        cfg.Endpoint,
		AccessKeyID:     cfg.AccessKeyID,
		SecretAccessKey: cfg.SecretAccessKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build AWS config: %w", err)
	}

	p := newScorePublisher(cloudwatch.NewFromConfig(awsCfg), cfg)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		flushLoop(cfg.FlushInterval, p.stopCh, p.Flush)
	}()

	return p, nil
}

func newScorePublisher(client metricsAPI, cfg ScorePublisherConfig) *ScorePublisher {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 100
	}
	if cfg.StorageResolution != 1 && cfg.StorageResolution != 60 {
		cfg.StorageResolution = 60
	}

	return &ScorePublisher{
		client:            client,
		namespace:         cfg.Namespace,
		defaultDimensions: cfg.DefaultDimensions,
		storageResolution: cfg.StorageResolution,
		retryDelay:        initialBackoff,
		buffer:            make([]port.ScoreSample, 0, cfg.BufferSize),
		bufferSize:        cfg.BufferSize,
		stopCh:            make(chan struct{}),
	}
}

// PublishBatch buffers samples and flushes when the buffer fills up.
func (p *ScorePublisher) PublishBatch(ctx context.Context, samples []port.ScoreSample) error {
	if len(samples) == 0 {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.buffer = append(p.buffer, samples...)
	if len(p.buffer) >= p.bufferSize {
		if err := p.flushLocked(ctx); err != nil {
			return fmt.Errorf("failed to flush buffer: %w", err)
		}
	}
	return nil
}

// Flush publishes everything buffered so far.
func (p *ScorePublisher) Flush(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.flushLocked(ctx)
}

// Close stops the flush loop and publishes the remainder.
func (p *ScorePublisher) Close(ctx context.Context) error {
	close(p.stopCh)
	p.wg.Wait()

	return p.Flush(ctx)
}

func (p *ScorePublisher) flushLocked(ctx context.Context) error {
	if len(p.buffer) == 0 {
		return nil
	}

	data := make([]types.MetricDatum, 0, len(p.buffer))
	for _, sample := range p.buffer {
		data = append(data, p.toDatum(sample))
	}

	for chunk := range slices.Chunk(data, maxDatumsPerRequest) {
		err := withRetry(ctx, p.retryDelay, nil, func() error {
			_, err := p.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
				Namespace:  aws.String(p.namespace),
				MetricData: chunk,
			})
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to publish scores after %d attempts: %w", maxRetries, err)
		}
	}

	p.buffer = p.buffer[:0]
	return nil
}

func (p *ScorePublisher) toDatum(sample port.ScoreSample) types.MetricDatum {
	timestamp := sample.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}

	dimensions := make([]types.Dimension, 0, len(p.defaultDimensions)+1)
	for _, key := range slices.Sorted(maps.Keys(p.defaultDimensions)) {
		dimensions = append(dimensions, types.Dimension{
			Name:  aws.String(key),
			Value: aws.String(p.defaultDimensions[key]),
		})
	}
	if sample.Kind != "" {
		dimensions = append(dimensions, types.Dimension{
			Name:  aws.String("Kind"),
			Value: aws.String(sample.Kind),
		})
	}

	return types.MetricDatum{
		MetricName:        aws.String(sample.Name),
		Value:             aws.Float64(sample.Value),
		Unit:              mapUnit(sample.Unit),
		Timestamp:         aws.Time(timestamp),
		Dimensions:        dimensions,
		StorageResolution: aws.Int32(p.storageResolution),
	}
}

// mapUnit accepts CloudWatch standard unit names; anything else becomes None.
func mapUnit(unit string) types.StandardUnit {
	candidate := types.StandardUnit(unit)
	if slices.Contains(candidate.Values(), candidate) {
		return candidate
	}
	return types.StandardUnitNone
}
