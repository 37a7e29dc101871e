package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sony/gobreaker"

	"github.com/dreschagin/rai-dashboard/pkg/logger"
)

// Options configures the JetStream publisher
type Options struct {
	URL     string
	Stream  string
	Subject string

	BreakerMaxRequests uint32
	BreakerInterval    time.Duration
	BreakerTimeout     time.Duration
	BreakerFailures    uint32

	// OnBreakerState receives every breaker transition, e.g. to export it as a gauge
	OnBreakerState func(name string, state gobreaker.State)
}

// asyncPublisher is the subset of nats.JetStreamContext used for publishing
type asyncPublisher interface {
	PublishAsync(subj string, data []byte, opts ...nats.PubOpt) (nats.PubAckFuture, error)
}

// NATSPublisher implements port.EventPublisher for NATS JetStream.
// Publishing goes through a circuit breaker so a dead broker does not slow navigation down.
type NATSPublisher struct {
	nc     *nats.Conn
	js     asyncPublisher
	cb     *gobreaker.CircuitBreaker
	logger *logger.Logger
}

// NewNATSPublisher connects to NATS and makes sure the stream exists
func NewNATSPublisher(opts Options, log *logger.Logger) (*NATSPublisher, error) {
	nc, err := nats.Connect(opts.URL,
		nats.Name("rai-dashboard"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(10),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				log.Warn("NATS disconnected", "error", err.Error())
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to get JetStream context: %w", err)
	}

	if err := ensureStream(js, opts.Stream, opts.Subject); err != nil {
		nc.Close()
		return nil, err
	}

	log.Info("Connected to NATS", "url", opts.URL, "stream", opts.Stream)

	return newPublisher(nc, js, opts, log), nil
}

func newPublisher(nc *nats.Conn, js asyncPublisher, opts Options, log *logger.Logger) *NATSPublisher {
	failures := opts.BreakerFailures
	if failures == 0 {
		failures = 5
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "nats-publisher",
		MaxRequests: opts.BreakerMaxRequests,
		Interval:    opts.BreakerInterval,
		Timeout:     opts.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
			if opts.OnBreakerState != nil {
				opts.OnBreakerState(name, to)
			}
		},
	})

	return &NATSPublisher{
		nc:     nc,
		js:     js,
		cb:     cb,
		logger: log,
	}
}

func ensureStream(js nats.JetStreamContext, stream, subject string) error {
	if stream == "" {
		return nil
	}

	_, err := js.StreamInfo(stream)
	if err == nil {
		return nil
	}
	if !errors.Is(err, nats.ErrStreamNotFound) {
		return fmt.Errorf("failed to look up stream %s: %w", stream, err)
	}

	_, err = js.AddStream(&nats.StreamConfig{
		Name:      stream,
		Subjects:  []string{subject},
		Retention: nats.LimitsPolicy,
		MaxAge:    7 * 24 * time.Hour,
		Storage:   nats.FileStorage,
	})
	if err != nil {
		return fmt.Errorf("failed to create stream %s: %w", stream, err)
	}
	return nil
}

// PublishEvent publishes a JSON-encoded event (async)
func (p *NATSPublisher) PublishEvent(_ context.Context, subject string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	_, err = p.cb.Execute(func() (interface{}, error) {
		return p.js.PublishAsync(subject, data)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			p.logger.Debug("Event dropped, circuit open", "subject", subject)
		} else {
			p.logger.Error("Failed to publish event", err, "subject", subject)
		}
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("Event published",
		"subject", subject,
		"size", len(data),
	)

	return nil
}

// State returns the circuit breaker state
func (p *NATSPublisher) State() gobreaker.State {
	return p.cb.State()
}

// Close drains and closes the NATS connection
func (p *NATSPublisher) Close() error {
	if p.nc != nil {
		p.logger.Info("Closing NATS connection")
		if err := p.nc.Drain(); err != nil {
			p.nc.Close()
			return fmt.Errorf("failed to drain NATS connection: %w", err)
		}
	}
	return nil
}
