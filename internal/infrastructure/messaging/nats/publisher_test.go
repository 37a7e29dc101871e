package nats

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sony/gobreaker"

	"github.com/dreschagin/rai-dashboard/pkg/logger"
)

type fakeJetStream struct {
	calls    int
	subjects []string
	payloads [][]byte
	err      error
}

func (f *fakeJetStream) PublishAsync(subj string, data []byte, _ ...nats.PubOpt) (nats.PubAckFuture, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	f.subjects = append(f.subjects, subj)
	f.payloads = append(f.payloads, data)
	return nil, nil
}

func TestNATSPublisher_PublishEvent(t *testing.T) {
	js := &fakeJetStream{}
	p := newPublisher(nil, js, Options{}, logger.New("error"))

	event := map[string]string{"from": "overview", "to": "policies"}
	if err := p.PublishEvent(context.Background(), "rai.navigation.section_changed", event); err != nil {
		t.Fatalf("PublishEvent() error = %v", err)
	}

	if len(js.subjects) != 1 || js.subjects[0] != "rai.navigation.section_changed" {
		t.Fatalf("unexpected subjects: %v", js.subjects)
	}
	var decoded map[string]string
	if err := json.Unmarshal(js.payloads[0], &decoded); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if decoded["to"] != "policies" {
		t.Fatalf("unexpected payload: %v", decoded)
	}
}

func TestNATSPublisher_BreakerOpensAfterFailures(t *testing.T) {
	js := &fakeJetStream{err: errors.New("no responders")}
	var transitions []gobreaker.State
	p := newPublisher(nil, js, Options{
		BreakerFailures: 3,
		BreakerTimeout:  time.Minute,
		OnBreakerState: func(_ string, state gobreaker.State) {
			transitions = append(transitions, state)
		},
	}, logger.New("error"))

	for i := 0; i < 3; i++ {
		if err := p.PublishEvent(context.Background(), "subj", "x"); err == nil {
			t.Fatalf("expected error on attempt %d", i)
		}
	}
	if p.State() != gobreaker.StateOpen {
		t.Fatalf("expected open breaker, got %s", p.State())
	}

	err := p.PublishEvent(context.Background(), "subj", "x")
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected ErrOpenState, got %v", err)
	}
	if js.calls != 3 {
		t.Fatalf("open breaker must not reach JetStream, calls=%d", js.calls)
	}
	if len(transitions) != 1 || transitions[0] != gobreaker.StateOpen {
		t.Fatalf("expected a single open transition, got %v", transitions)
	}
}

func TestNATSPublisher_MarshalError(t *testing.T) {
	js := &fakeJetStream{}
	p := newPublisher(nil, js, Options{}, logger.New("error"))

	if err := p.PublishEvent(context.Background(), "subj", make(chan int)); err == nil {
		t.Fatalf("expected marshal error")
	}
	if js.calls != 0 {
		t.Fatalf("unmarshalable event must not be published")
	}
}
