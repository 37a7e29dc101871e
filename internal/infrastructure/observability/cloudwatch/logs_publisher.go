package cloudwatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"

	"github.com/dreschagin/rai-dashboard/internal/application/port"
	"github.com/dreschagin/rai-dashboard/internal/infrastructure/awsclient"
	"github.com/dreschagin/rai-dashboard/pkg/logger"
)

const (
	// CloudWatch Logs limits
	maxLogEventsPerRequest = 10000
	maxLogEventSize        = 256000
)

type logsAPI interface {
	PutLogEvents(ctx context.Context, params *cloudwatchlogs.PutLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.PutLogEventsOutput, error)
	CreateLogGroup(ctx context.Context, params *cloudwatchlogs.CreateLogGroupInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogGroupOutput, error)
	CreateLogStream(ctx context.Context, params *cloudwatchlogs.CreateLogStreamInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogStreamOutput, error)
}

// LogsPublisherConfig holds configuration for CloudWatch Logs shipping.
type LogsPublisherConfig struct {
	LogGroupName    string
	LogStreamName   string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BufferSize      int
	FlushInterval   time.Duration
	AutoCreate      bool // create the group and stream when missing
}

// LogsPublisher ships logger entries to CloudWatch Logs.
type LogsPublisher struct {
	client        logsAPI
	logGroupName  string
	logStreamName string
	retryDelay    time.Duration

	mu            sync.Mutex
	buffer        []logger.Entry
	bufferSize    int
	sequenceToken *string

	stopCh chan struct{}
	wg     sync.WaitGroup
}

var _ port.LogPublisher = (*LogsPublisher)(nil)

// NewLogsPublisher creates the publisher and starts its background flush loop.
func NewLogsPublisher(ctx context.Context, cfg LogsPublisherConfig) (*LogsPublisher, error) {
	if cfg.LogGroupName == "" {
		return nil, fmt.Errorf("log group name is required")
	}
	if cfg.LogStreamName == "" {
		return nil, fmt.Errorf("log stream name is required")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("region is required")
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 5 * time.Second
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

	p := newLogsPublisher(cloudwatchlogs.NewFromConfig(awsCfg), cfg)
	if cfg.AutoCreate {
		if err := p.ensureLogGroupAndStream(ctx); err != nil {
			return nil, fmt.Errorf("failed to create log group/stream: %w", err)
		}
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		flushLoop(cfg.FlushInterval, p.stopCh, p.Flush)
	}()

	return p, nil
}

func newLogsPublisher(client logsAPI, cfg LogsPublisherConfig) *LogsPublisher {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 50
	}
	return &LogsPublisher{
		client:        client,
		logGroupName:  cfg.LogGroupName,
		logStreamName: cfg.LogStreamName,
		retryDelay:    initialBackoff,
		buffer:        make([]logger.Entry, 0, cfg.BufferSize),
		bufferSize:    cfg.BufferSize,
		stopCh:        make(chan struct{}),
	}
}

// Publish buffers one entry. Satisfies logger.Publisher.
func (p *LogsPublisher) Publish(ctx context.Context, entry logger.Entry) error {
	return p.PublishBatch(ctx, []logger.Entry{entry})
}

// PublishBatch buffers entries and flushes when the buffer fills up.
func (p *LogsPublisher) PublishBatch(ctx context.Context, entries []logger.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.buffer = append(p.buffer, entries...)
	if len(p.buffer) >= p.bufferSize {
		if err := p.flushLocked(ctx); err != nil {
			return fmt.Errorf("failed to flush buffer: %w", err)
		}
	}
	return nil
}

// Flush publishes all buffered entries.
func (p *LogsPublisher) Flush(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.flushLocked(ctx)
}

// Close stops the flush loop and publishes the remainder.
func (p *LogsPublisher) Close(ctx context.Context) error {
	close(p.stopCh)
	p.wg.Wait()

	return p.Flush(ctx)
}

func (p *LogsPublisher) flushLocked(ctx context.Context) error {
	if len(p.buffer) == 0 {
		return nil
	}

	// CloudWatch Logs rejects batches that are not in chronological order
	sort.SliceStable(p.buffer, func(i, j int) bool {
		return p.buffer[i].Timestamp.Before(p.buffer[j].Timestamp)
	})

	events := make([]types.InputLogEvent, 0, len(p.buffer))
	for _, entry := range p.buffer {
		event, err := convertToLogEvent(entry)
		if err != nil {
			continue
		}
		events = append(events, event)
	}

	for chunk := range slices.Chunk(events, maxLogEventsPerRequest) {
		if err := p.putEvents(ctx, chunk); err != nil {
			return fmt.Errorf("failed to publish log events: %w", err)
		}
	}

	p.buffer = p.buffer[:0]
	return nil
}

func (p *LogsPublisher) putEvents(ctx context.Context, events []types.InputLogEvent) error {
	return withRetry(ctx, p.retryDelay, nil, func() error {
		output, err := p.client.PutLogEvents(ctx, &cloudwatchlogs.PutLogEventsInput{
			LogGroupName:  aws.String(p.logGroupName),
			LogStreamName: aws.String(p.logStreamName),
			LogEvents:     events,
			SequenceToken: p.sequenceToken,
		})
		if err != nil {
			var invalidToken *types.InvalidSequenceTokenException
			if errors.As(err, &invalidToken) {
				p.sequenceToken = invalidToken.ExpectedSequenceToken
			}
			return err
		}
		p.sequenceToken = output.NextSequenceToken
		return nil
	})
}

func (p *LogsPublisher) ensureLogGroupAndStream(ctx context.Context) error {
	var alreadyExists *types.ResourceAlreadyExistsException

	_, err := p.client.CreateLogGroup(ctx, &cloudwatchlogs.CreateLogGroupInput{
		LogGroupName: aws.String(p.logGroupName),
	})
	if err != nil && !errors.As(err, &alreadyExists) {
		return fmt.Errorf("failed to create log group: %w", err)
	}

	_, err = p.client.CreateLogStream(ctx, &cloudwatchlogs.CreateLogStreamInput{
		LogGroupName:  aws.String(p.logGroupName),
		LogStreamName: aws.String(p.logStreamName),
	})
	if err != nil && !errors.As(err, &alreadyExists) {
		return fmt.Errorf("failed to create log stream: %w", err)
	}

	return nil
}

func convertToLogEvent(entry logger.Entry) (types.InputLogEvent, error) {
	payload := map[string]interface{}{
		"timestamp": entry.Timestamp.Format(time.RFC3339Nano),
		"level":     entry.Level.String(),
		"message":   entry.Message,
	}
	if entry.Logger != "" {
		payload["logger"] = entry.Logger
	}
	if len(entry.Fields) > 0 {
		payload["fields"] = stringifyErrors(entry.Fields)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return types.InputLogEvent{}, fmt.Errorf("failed to marshal log entry: %w", err)
	}

	message := string(data)
	if len(message) > maxLogEventSize {
		message = message[:maxLogEventSize-3] + "..."
	}

	return types.InputLogEvent{
		Message:   aws.String(message),
		Timestamp: aws.Int64(entry.Timestamp.UnixMilli()),
	}, nil
}

// error values marshal to {} otherwise
func stringifyErrors(fields map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		if err, ok := v.(error); ok {
			out[k] = err.Error()
			continue
		}
		out[k] = v
	}
	return out
}
